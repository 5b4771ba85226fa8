package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/service"
	"github.com/pacerapp/pacer-backend/internal/testutil"
	"github.com/pacerapp/pacer-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

type allocationHandlerFixture struct {
	handler  *AllocationHandler
	budget   *domain.Budget
	category *domain.Category
}

func newAllocationHandlerFixture() *allocationHandlerFixture {
	allocationRepo := testutil.NewMockAllocationRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	categoryRepo := testutil.NewMockCategoryRepository()

	budget := &domain.Budget{
		ID: uuid.New(), UserID: "auth0|test", Name: "December", Amount: decimal.NewFromInt(1000),
		StartDate: time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	budgetRepo.AddBudget(budget)

	category := &domain.Category{ID: uuid.New(), UserID: "auth0|test", Name: "Groceries"}
	categoryRepo.AddCategory(category)

	svc := service.NewAllocationService(allocationRepo, budgetRepo, categoryRepo,
		&websocket.NoOpPublisher{}, service.NoOpInvalidator{})

	return &allocationHandlerFixture{
		handler:  NewAllocationHandler(svc),
		budget:   budget,
		category: category,
	}
}

func TestCreateAllocation_Success(t *testing.T) {
	e := echo.New()
	f := newAllocationHandlerFixture()

	reqBody := `{
		"budgetId": "` + f.budget.ID.String() + `",
		"categoryId": "` + f.category.ID.String() + `",
		"amount": "400.00"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test")

	err := f.handler.CreateAllocation(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response AllocationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Amount != "400.00" {
		t.Errorf("Expected amount '400.00', got %s", response.Amount)
	}
	if response.OverAllocated {
		t.Error("Expected no over-allocation warning at 400 of 1000")
	}
}

func TestCreateAllocation_OverAllocatedFlag(t *testing.T) {
	e := echo.New()
	f := newAllocationHandlerFixture()

	reqBody := `{
		"budgetId": "` + f.budget.ID.String() + `",
		"categoryId": "` + f.category.ID.String() + `",
		"amount": "1200.00"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test")

	if err := f.handler.CreateAllocation(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Over-allocation succeeds; the response just carries a warning
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response AllocationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if !response.OverAllocated {
		t.Error("Expected over-allocation warning at 1200 of 1000")
	}
}

func TestCreateAllocation_UnknownBudget(t *testing.T) {
	e := echo.New()
	f := newAllocationHandlerFixture()

	reqBody := `{
		"budgetId": "` + uuid.New().String() + `",
		"categoryId": "` + f.category.ID.String() + `",
		"amount": "100.00"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test")

	if err := f.handler.CreateAllocation(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetAllocations_ByBudget(t *testing.T) {
	e := echo.New()
	f := newAllocationHandlerFixture()

	reqBody := `{
		"budgetId": "` + f.budget.ID.String() + `",
		"categoryId": "` + f.category.ID.String() + `",
		"amount": "250.00"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|test")
	if err := f.handler.CreateAllocation(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/allocations?budgetId="+f.budget.ID.String(), nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	setupAuthContext(c, "auth0|test")

	if err := f.handler.GetAllocations(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var allocations []AllocationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &allocations); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(allocations) != 1 || allocations[0].Amount != "250.00" {
		t.Errorf("Expected one allocation of 250.00, got %d", len(allocations))
	}
}

func TestDeleteAllocation_NotFound(t *testing.T) {
	e := echo.New()
	f := newAllocationHandlerFixture()

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/allocations/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	setupAuthContext(c, "auth0|test")

	if err := f.handler.DeleteAllocation(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
