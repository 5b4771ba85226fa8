package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

const testUserID = "auth0|user-1"

func newReportService(
	budgetRepo *testutil.MockBudgetRepository,
	categoryRepo *testutil.MockCategoryRepository,
	allocationRepo *testutil.MockAllocationRepository,
	transactionRepo *testutil.MockTransactionRepository,
) *ReportService {
	return NewReportService(budgetRepo, categoryRepo, allocationRepo, transactionRepo, NewBARCalculator(DefaultCurveFactor))
}

func TestBuildReport_AttributesTransactions(t *testing.T) {
	svc := newReportService(
		testutil.NewMockBudgetRepository(),
		testutil.NewMockCategoryRepository(),
		testutil.NewMockAllocationRepository(),
		testutil.NewMockTransactionRepository(),
	)

	budget := &domain.Budget{
		ID:        uuid.New(),
		UserID:    testUserID,
		Name:      "December",
		Amount:    decimal.NewFromInt(1000),
		StartDate: date(2024, time.December, 1),
		EndDate:   date(2024, time.December, 31),
	}

	groceries := &domain.Category{ID: uuid.New(), UserID: testUserID, Name: "Groceries"}
	other := &domain.Category{ID: uuid.New(), UserID: testUserID, Name: "Other"}

	allocations := []*domain.Allocation{
		{ID: uuid.New(), UserID: testUserID, BudgetID: budget.ID, CategoryID: groceries.ID, Amount: decimal.NewFromInt(500)},
	}

	transactions := []*domain.Transaction{
		// Explicitly linked to the budget
		{ID: uuid.New(), UserID: testUserID, Amount: decimal.NewFromInt(100), Type: domain.TransactionTypeDebit,
			TransactionDate: date(2024, time.December, 5), BudgetID: &budget.ID},
		// Implied through the allocated category
		{ID: uuid.New(), UserID: testUserID, Amount: decimal.NewFromInt(150), Type: domain.TransactionTypeDebit,
			TransactionDate: date(2024, time.December, 10), CategoryID: &groceries.ID},
		// Inside the period but unrelated to the budget
		{ID: uuid.New(), UserID: testUserID, Amount: decimal.NewFromInt(999), Type: domain.TransactionTypeDebit,
			TransactionDate: date(2024, time.December, 12), CategoryID: &other.ID},
		// Allocated category but outside the period
		{ID: uuid.New(), UserID: testUserID, Amount: decimal.NewFromInt(70), Type: domain.TransactionTypeDebit,
			TransactionDate: date(2025, time.January, 2), CategoryID: &groceries.ID},
		// Credit inside the period, never counted as spend
		{ID: uuid.New(), UserID: testUserID, Amount: decimal.NewFromInt(5000), Type: domain.TransactionTypeCredit,
			TransactionDate: date(2024, time.December, 6), BudgetID: &budget.ID},
	}

	report := svc.BuildReport(budget, allocations, transactions, []*domain.Category{groceries, other}, date(2024, time.December, 16))

	if !report.TotalBudgeted.Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected total budgeted 500, got %s", report.TotalBudgeted.String())
	}
	if !report.TotalSpent.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected total spent 250, got %s", report.TotalSpent.String())
	}
	if report.BARValue.IsZero() {
		t.Error("Expected non-zero BAR")
	}
	if report.Adherence == "" {
		t.Error("Expected adherence status to be set")
	}
}

func TestBuildReport_LastDayInclusive(t *testing.T) {
	svc := newReportService(
		testutil.NewMockBudgetRepository(),
		testutil.NewMockCategoryRepository(),
		testutil.NewMockAllocationRepository(),
		testutil.NewMockTransactionRepository(),
	)

	budget := &domain.Budget{
		ID:        uuid.New(),
		UserID:    testUserID,
		StartDate: date(2024, time.December, 1),
		EndDate:   date(2024, time.December, 31),
	}

	transactions := []*domain.Transaction{
		{ID: uuid.New(), UserID: testUserID, Amount: decimal.NewFromInt(40), Type: domain.TransactionTypeDebit,
			TransactionDate: time.Date(2024, time.December, 31, 23, 15, 0, 0, time.UTC), BudgetID: &budget.ID},
	}

	report := svc.BuildReport(budget, nil, transactions, nil, date(2024, time.December, 31))

	if !report.TotalSpent.Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected spend on the last period day included, got %s", report.TotalSpent.String())
	}
}

func TestActiveReports_FiltersInactiveBudgets(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	allocationRepo := testutil.NewMockAllocationRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := newReportService(budgetRepo, categoryRepo, allocationRepo, transactionRepo)

	budgetRepo.AddBudget(&domain.Budget{
		ID: uuid.New(), UserID: testUserID, Name: "Current",
		StartDate: date(2024, time.December, 1), EndDate: date(2024, time.December, 31),
	})
	budgetRepo.AddBudget(&domain.Budget{
		ID: uuid.New(), UserID: testUserID, Name: "Expired",
		StartDate: date(2024, time.November, 1), EndDate: date(2024, time.November, 30),
	})
	budgetRepo.AddBudget(&domain.Budget{
		ID: uuid.New(), UserID: testUserID, Name: "Future",
		StartDate: date(2025, time.January, 1), EndDate: date(2025, time.January, 31),
	})

	reports, err := svc.ActiveReports(testUserID, date(2024, time.December, 16))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(reports) != 1 {
		t.Fatalf("Expected 1 active report, got %d", len(reports))
	}
	if reports[0].Budget.Name != "Current" {
		t.Errorf("Expected report for Current budget, got %s", reports[0].Budget.Name)
	}
}

func TestActiveReports_BoundaryDaysActive(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	svc := newReportService(budgetRepo, testutil.NewMockCategoryRepository(),
		testutil.NewMockAllocationRepository(), testutil.NewMockTransactionRepository())

	budgetRepo.AddBudget(&domain.Budget{
		ID: uuid.New(), UserID: testUserID, Name: "December",
		StartDate: date(2024, time.December, 1), EndDate: date(2024, time.December, 31),
	})

	for _, now := range []time.Time{
		date(2024, time.December, 1),
		time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC),
	} {
		reports, err := svc.ActiveReports(testUserID, now)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(reports) != 1 {
			t.Errorf("Expected budget active at %s, got %d reports", now, len(reports))
		}
	}
}

func TestReport_SingleBudgetWithDeletedCategory(t *testing.T) {
	budgetRepo := testutil.NewMockBudgetRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	allocationRepo := testutil.NewMockAllocationRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := newReportService(budgetRepo, categoryRepo, allocationRepo, transactionRepo)

	budget := &domain.Budget{
		ID: uuid.New(), UserID: testUserID, Name: "December", Amount: decimal.NewFromInt(1000),
		StartDate: date(2024, time.December, 1), EndDate: date(2024, time.December, 31),
	}
	budgetRepo.AddBudget(budget)

	// The category was deleted but the allocation still points at it
	deletedID := uuid.New()
	allocationRepo.AddAllocation(&domain.Allocation{
		ID: uuid.New(), UserID: testUserID, BudgetID: budget.ID, CategoryID: deletedID,
		Amount: decimal.NewFromInt(200),
	})

	report, err := svc.Report(testUserID, budget.ID, date(2024, time.December, 16))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(report.ChartData) != 1 {
		t.Fatalf("Expected 1 chart entry, got %d", len(report.ChartData))
	}
	if report.ChartData[0].CategoryName != domain.UnknownCategoryName {
		t.Errorf("Expected sentinel category name, got %q", report.ChartData[0].CategoryName)
	}
	if !report.TotalBudgeted.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected total budgeted 200, got %s", report.TotalBudgeted.String())
	}
}

func TestReport_UnknownBudget(t *testing.T) {
	svc := newReportService(testutil.NewMockBudgetRepository(), testutil.NewMockCategoryRepository(),
		testutil.NewMockAllocationRepository(), testutil.NewMockTransactionRepository())

	_, err := svc.Report(testUserID, uuid.New(), time.Now())
	if err != domain.ErrBudgetNotFound {
		t.Errorf("Expected ErrBudgetNotFound, got %v", err)
	}
}
