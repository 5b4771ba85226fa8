package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnknownCategoryName is substituted when an allocation or transaction points
// at a category that no longer resolves.
const UnknownCategoryName = "Unknown Category"

// ChartDatum is one category's budgeted-vs-spent pair within a budget report.
// Derived only; regenerated on every aggregation pass, never persisted.
type ChartDatum struct {
	CategoryID        uuid.UUID       `json:"categoryId"`
	CategoryName      string          `json:"categoryName"`
	CategoryIconName  string          `json:"categoryIconName"`
	AllocationAmount  decimal.Decimal `json:"allocationAmount"`
	TransactionAmount decimal.Decimal `json:"transactionAmount"`
}

// BudgetReport is the derived adherence report for a single budget.
type BudgetReport struct {
	Budget        *Budget         `json:"budget"`
	BARValue      decimal.Decimal `json:"barValue"`
	Adherence     AdherenceStatus `json:"adherence"`
	ChartData     []ChartDatum    `json:"chartData"`
	TotalBudgeted decimal.Decimal `json:"totalBudgeted"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
}

// MonthlyOverview splits a calendar month's debit spend into budget-linked and
// unassigned portions.
type MonthlyOverview struct {
	Year                  int             `json:"year"`
	Month                 int             `json:"month"`
	TotalSpent            decimal.Decimal `json:"totalSpent"`
	BudgetedSpent         decimal.Decimal `json:"budgetedSpent"`
	UnassignedSpent       decimal.Decimal `json:"unassignedSpent"`
	BudgetedCount         int             `json:"budgetedCount"`
	UnassignedCount       int             `json:"unassignedCount"`
	PercentageSpent       decimal.Decimal `json:"percentageSpent"`
	HasUnassignedSpending bool            `json:"hasUnassignedSpending"`
}

// AdherenceStatus is the consumer-facing interpretation band for a BAR value.
type AdherenceStatus string

const (
	AdherenceWellUnder         AdherenceStatus = "well_under"
	AdherenceUnder             AdherenceStatus = "under"
	AdherenceOnTrack           AdherenceStatus = "on_track"
	AdherenceSlightlyOver      AdherenceStatus = "slightly_over"
	AdherenceSignificantlyOver AdherenceStatus = "significantly_over"
)

var (
	bandWellUnder    = decimal.RequireFromString("0.85")
	bandUnder        = decimal.RequireFromString("0.95")
	bandOnTrack      = decimal.RequireFromString("1.05")
	bandSlightlyOver = decimal.RequireFromString("1.15")
)

// AdherenceFor maps a BAR value onto its interpretation band.
func AdherenceFor(bar decimal.Decimal) AdherenceStatus {
	switch {
	case bar.LessThan(bandWellUnder):
		return AdherenceWellUnder
	case bar.LessThan(bandUnder):
		return AdherenceUnder
	case bar.LessThanOrEqual(bandOnTrack):
		return AdherenceOnTrack
	case bar.LessThanOrEqual(bandSlightlyOver):
		return AdherenceSlightlyOver
	default:
		return AdherenceSignificantlyOver
	}
}
