package service

import (
	"time"

	"github.com/pacerapp/pacer-backend/internal/util"
	"github.com/shopspring/decimal"
)

// DefaultCurveFactor front-loads expected spend toward the start of the
// period. 1.0 degrades to the straight-line model.
var DefaultCurveFactor = decimal.RequireFromString("1.5")

// BARCalculator computes the Budget Adherence Ratio: actual spend-to-date
// divided by the expected spend-to-date under a front-loaded (concave) curve.
// Pure and deterministic; "now" is always supplied by the caller.
type BARCalculator struct {
	curveFactor decimal.Decimal
}

// NewBARCalculator creates a calculator with the given curve factor a.
// Expected spend fraction at time fraction t is a*t - (a-1)*t², which is 0 at
// t=0 and exactly 1 at t=1 for any a. Factors <= 0 fall back to the default.
func NewBARCalculator(curveFactor decimal.Decimal) *BARCalculator {
	if curveFactor.Sign() <= 0 {
		curveFactor = DefaultCurveFactor
	}
	return &BARCalculator{curveFactor: curveFactor}
}

// CurveFactor returns the configured front-loading constant.
func (c *BARCalculator) CurveFactor() decimal.Decimal {
	return c.curveFactor
}

// BAR returns totalSpent / expectedSpend for the given period and instant.
// Degenerate inputs (inverted or zero-length period, non-positive budget or
// spend, zero expected spend) yield zero rather than an error; the result is
// never negative, NaN, or infinite.
func (c *BARCalculator) BAR(totalBudget, totalSpent decimal.Decimal, startDate, endDate, now time.Time) decimal.Decimal {
	totalDays := util.PeriodDays(startDate, endDate)
	if totalDays <= 0 {
		return decimal.Zero
	}

	elapsedDays := util.DaysBetween(startDate, now)
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	if elapsedDays > totalDays {
		elapsedDays = totalDays
	}

	if totalBudget.Sign() <= 0 || totalSpent.Sign() <= 0 {
		return decimal.Zero
	}

	expected := c.ExpectedSpend(totalBudget, elapsedDays, totalDays)
	if expected.Sign() <= 0 {
		return decimal.Zero
	}

	return totalSpent.Div(expected)
}

// ExpectedSpend returns the curve-model expected spend after elapsedDays of a
// totalDays-long period.
func (c *BARCalculator) ExpectedSpend(totalBudget decimal.Decimal, elapsedDays, totalDays int) decimal.Decimal {
	if totalDays <= 0 {
		return decimal.Zero
	}

	t := decimal.NewFromInt(int64(elapsedDays)).Div(decimal.NewFromInt(int64(totalDays)))

	// expectedFraction = a*t - (a-1)*t²
	one := decimal.NewFromInt(1)
	fraction := c.curveFactor.Mul(t).Sub(c.curveFactor.Sub(one).Mul(t).Mul(t))

	return fraction.Mul(totalBudget)
}
