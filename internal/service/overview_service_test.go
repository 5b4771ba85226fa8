package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestBuildMonthlyOverview_PartitionsSpend(t *testing.T) {
	budgetID := uuid.New()

	transactions := []*domain.Transaction{
		// Budget-linked spend
		{ID: uuid.New(), Amount: decimal.NewFromInt(80), Type: domain.TransactionTypeDebit,
			TransactionDate: date(2024, time.December, 5), BudgetID: &budgetID},
		// Unassigned spend
		{ID: uuid.New(), Amount: decimal.NewFromInt(20), Type: domain.TransactionTypeDebit,
			TransactionDate: date(2024, time.December, 10)},
		// Income, excluded entirely
		{ID: uuid.New(), Amount: decimal.NewFromInt(3000), Type: domain.TransactionTypeCredit,
			TransactionDate: date(2024, time.December, 1)},
	}

	activeBudgets := []*domain.Budget{
		{ID: budgetID, Amount: decimal.NewFromInt(1000),
			StartDate: date(2024, time.December, 1), EndDate: date(2024, time.December, 31)},
	}

	overview := BuildMonthlyOverview(2024, 12, transactions, activeBudgets)

	if !overview.TotalSpent.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected total spent 100, got %s", overview.TotalSpent.String())
	}
	if !overview.BudgetedSpent.Equal(decimal.NewFromInt(80)) {
		t.Errorf("Expected budgeted spent 80, got %s", overview.BudgetedSpent.String())
	}
	if !overview.UnassignedSpent.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected unassigned spent 20, got %s", overview.UnassignedSpent.String())
	}
	if overview.BudgetedCount != 1 || overview.UnassignedCount != 1 {
		t.Errorf("Expected counts 1/1, got %d/%d", overview.BudgetedCount, overview.UnassignedCount)
	}
	if !overview.HasUnassignedSpending {
		t.Error("Expected HasUnassignedSpending to be true")
	}
	// 80 spent of 1000 budgeted
	if got := overview.PercentageSpent.StringFixed(2); got != "8.00" {
		t.Errorf("Expected percentage spent 8.00, got %s", got)
	}
}

func TestBuildMonthlyOverview_ExcludesOtherMonths(t *testing.T) {
	transactions := []*domain.Transaction{
		{ID: uuid.New(), Amount: decimal.NewFromInt(50), Type: domain.TransactionTypeDebit,
			TransactionDate: date(2024, time.November, 30)},
		{ID: uuid.New(), Amount: decimal.NewFromInt(60), Type: domain.TransactionTypeDebit,
			TransactionDate: date(2024, time.December, 1)},
		{ID: uuid.New(), Amount: decimal.NewFromInt(70), Type: domain.TransactionTypeDebit,
			TransactionDate: time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC)},
		{ID: uuid.New(), Amount: decimal.NewFromInt(80), Type: domain.TransactionTypeDebit,
			TransactionDate: date(2025, time.January, 1)},
	}

	overview := BuildMonthlyOverview(2024, 12, transactions, nil)

	if !overview.TotalSpent.Equal(decimal.NewFromInt(130)) {
		t.Errorf("Expected total spent 130 (Dec 1 and Dec 31 only), got %s", overview.TotalSpent.String())
	}
}

func TestBuildMonthlyOverview_ZeroBudgetedDenominator(t *testing.T) {
	transactions := []*domain.Transaction{
		{ID: uuid.New(), Amount: decimal.NewFromInt(42), Type: domain.TransactionTypeDebit,
			TransactionDate: date(2024, time.December, 5)},
	}

	// No active budgets: the percentage guards to zero instead of dividing
	overview := BuildMonthlyOverview(2024, 12, transactions, nil)

	if !overview.PercentageSpent.IsZero() {
		t.Errorf("Expected percentage spent 0 with no budgets, got %s", overview.PercentageSpent.String())
	}
}

func TestBuildMonthlyOverview_EmptyMonth(t *testing.T) {
	overview := BuildMonthlyOverview(2024, 12, nil, nil)

	if !overview.TotalSpent.IsZero() || !overview.BudgetedSpent.IsZero() || !overview.UnassignedSpent.IsZero() {
		t.Error("Expected zero totals for an empty month")
	}
	if overview.HasUnassignedSpending {
		t.Error("Expected HasUnassignedSpending false for an empty month")
	}
	if overview.Year != 2024 || overview.Month != 12 {
		t.Errorf("Expected year/month passthrough, got %d/%d", overview.Year, overview.Month)
	}
}

func TestOverview_LoadsActiveBudgetsOnly(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewOverviewService(budgetRepo, transactionRepo)

	active := &domain.Budget{
		ID: uuid.New(), UserID: testUserID, Amount: decimal.NewFromInt(500),
		StartDate: date(2024, time.December, 1), EndDate: date(2024, time.December, 31),
	}
	expired := &domain.Budget{
		ID: uuid.New(), UserID: testUserID, Amount: decimal.NewFromInt(9000),
		StartDate: date(2024, time.November, 1), EndDate: date(2024, time.November, 30),
	}
	budgetRepo.AddBudget(active)
	budgetRepo.AddBudget(expired)

	transactionRepo.AddTransaction(&domain.Transaction{
		ID: uuid.New(), UserID: testUserID, Amount: decimal.NewFromInt(100),
		Type: domain.TransactionTypeDebit, TransactionDate: date(2024, time.December, 10),
		BudgetID: &active.ID,
	})

	overview, err := svc.Overview(testUserID, 2024, 12, date(2024, time.December, 16))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Percentage uses only the active budget's 500, not the expired 9000
	if got := overview.PercentageSpent.StringFixed(2); got != "20.00" {
		t.Errorf("Expected percentage spent 20.00, got %s", got)
	}
}
