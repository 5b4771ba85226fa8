package service

import (
	"time"

	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/util"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// OverviewService builds calendar-month spending overviews, independent of the
// per-budget report pipeline.
type OverviewService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
}

// NewOverviewService creates a new OverviewService
func NewOverviewService(budgetRepo domain.BudgetRepository, transactionRepo domain.TransactionRepository) *OverviewService {
	return &OverviewService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
	}
}

// BuildMonthlyOverview partitions a month's debit spend into budget-linked and
// unassigned portions. Pure transform over the supplied snapshots.
func BuildMonthlyOverview(year, month int, transactions []*domain.Transaction, activeBudgets []*domain.Budget) *domain.MonthlyOverview {
	start, end := util.MonthBounds(year, month)

	overview := &domain.MonthlyOverview{
		Year:            year,
		Month:           month,
		TotalSpent:      decimal.Zero,
		BudgetedSpent:   decimal.Zero,
		UnassignedSpent: decimal.Zero,
		PercentageSpent: decimal.Zero,
	}

	for _, t := range transactions {
		if !t.IsSpend() {
			continue
		}
		if t.TransactionDate.Before(start) || t.TransactionDate.After(end) {
			continue
		}

		overview.TotalSpent = overview.TotalSpent.Add(t.Amount)
		if t.BudgetID != nil {
			overview.BudgetedSpent = overview.BudgetedSpent.Add(t.Amount)
			overview.BudgetedCount++
		} else {
			overview.UnassignedSpent = overview.UnassignedSpent.Add(t.Amount)
			overview.UnassignedCount++
		}
	}

	totalBudgeted := decimal.Zero
	for _, b := range activeBudgets {
		totalBudgeted = totalBudgeted.Add(b.Amount)
	}

	if totalBudgeted.Sign() > 0 {
		overview.PercentageSpent = overview.BudgetedSpent.Div(totalBudgeted).Mul(hundred)
	}

	overview.HasUnassignedSpending = overview.UnassignedCount > 0

	return overview
}

// Overview loads the month's transactions and the active budgets, then builds
// the overview. Active means the budget period contains now.
func (s *OverviewService) Overview(userID string, year, month int, now time.Time) (*domain.MonthlyOverview, error) {
	start, end := util.MonthBounds(year, month)

	transactions, err := s.transactionRepo.GetByDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgetRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	var active []*domain.Budget
	for _, b := range budgets {
		if b.IsActive(now) {
			active = append(active, b)
		}
	}

	return BuildMonthlyOverview(year, month, transactions, active), nil
}
