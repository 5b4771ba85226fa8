package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/util"
	"github.com/shopspring/decimal"
)

// ReportService builds per-budget adherence reports by denormalizing the
// budget, allocation, transaction, and category snapshots.
type ReportService struct {
	budgetRepo      domain.BudgetRepository
	categoryRepo    domain.CategoryRepository
	allocationRepo  domain.AllocationRepository
	transactionRepo domain.TransactionRepository
	calc            *BARCalculator
}

// NewReportService creates a new ReportService
func NewReportService(
	budgetRepo domain.BudgetRepository,
	categoryRepo domain.CategoryRepository,
	allocationRepo domain.AllocationRepository,
	transactionRepo domain.TransactionRepository,
	calc *BARCalculator,
) *ReportService {
	return &ReportService{
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		allocationRepo:  allocationRepo,
		transactionRepo: transactionRepo,
		calc:            calc,
	}
}

// BuildReport assembles the report for one budget from in-memory snapshots.
// Pure given its inputs; the snapshots are treated as read-only.
func (s *ReportService) BuildReport(
	budget *domain.Budget,
	allocations []*domain.Allocation,
	transactions []*domain.Transaction,
	categories []*domain.Category,
	now time.Time,
) *domain.BudgetReport {
	budgetAllocations := filterAllocationsByBudget(allocations, budget.ID)

	allocatedCategories := make(map[uuid.UUID]bool, len(budgetAllocations))
	for _, a := range budgetAllocations {
		allocatedCategories[a.CategoryID] = true
	}

	// A transaction belongs to the budget when it falls inside the period and
	// is either linked explicitly or spends against an allocated category.
	var budgetTransactions []*domain.Transaction
	for _, t := range transactions {
		if !withinPeriod(t.TransactionDate, budget.StartDate, budget.EndDate) {
			continue
		}
		linked := t.BudgetID != nil && *t.BudgetID == budget.ID
		implied := t.CategoryID != nil && allocatedCategories[*t.CategoryID]
		if linked || implied {
			budgetTransactions = append(budgetTransactions, t)
		}
	}

	chartData := BuildChartData(budgetAllocations, budgetTransactions, categories)

	totalBudgeted := decimal.Zero
	for _, a := range budgetAllocations {
		totalBudgeted = totalBudgeted.Add(a.Amount)
	}

	totalSpent := decimal.Zero
	for _, t := range budgetTransactions {
		if t.IsSpend() {
			totalSpent = totalSpent.Add(t.Amount)
		}
	}

	bar := s.calc.BAR(totalBudgeted, totalSpent, budget.StartDate, budget.EndDate, now)

	return &domain.BudgetReport{
		Budget:        budget,
		BARValue:      bar,
		Adherence:     domain.AdherenceFor(bar),
		ChartData:     chartData,
		TotalBudgeted: totalBudgeted,
		TotalSpent:    totalSpent,
	}
}

// ActiveReports builds one report per budget whose period contains now.
// Inactive budgets are excluded from the result set entirely.
func (s *ReportService) ActiveReports(userID string, now time.Time) ([]*domain.BudgetReport, error) {
	budgets, err := s.budgetRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	allocations, err := s.allocationRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	reports := make([]*domain.BudgetReport, 0, len(budgets))
	for _, b := range budgets {
		if !b.IsActive(now) {
			continue
		}
		reports = append(reports, s.BuildReport(b, allocations, transactions, categories, now))
	}

	return reports, nil
}

// Report builds the report for a single budget, active or not.
func (s *ReportService) Report(userID string, budgetID uuid.UUID, now time.Time) (*domain.BudgetReport, error) {
	budget, err := s.budgetRepo.GetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	allocations, err := s.allocationRepo.GetByBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	// The period is inclusive at day granularity, so the range extends to the
	// last instant of the end date
	transactions, err := s.transactionRepo.GetByDateRange(userID, budget.StartDate, util.EndOfDay(budget.EndDate))
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	return s.BuildReport(budget, allocations, transactions, categories, now), nil
}

func filterAllocationsByBudget(allocations []*domain.Allocation, budgetID uuid.UUID) []*domain.Allocation {
	var out []*domain.Allocation
	for _, a := range allocations {
		if a.BudgetID == budgetID {
			out = append(out, a)
		}
	}
	return out
}

// withinPeriod reports whether ts falls inside [start, end] at calendar-day
// granularity, inclusive on both ends.
func withinPeriod(ts, start, end time.Time) bool {
	return util.DaysBetween(start, ts) >= 0 && util.DaysBetween(ts, end) >= 0
}
