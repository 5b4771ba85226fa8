package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pacerapp/pacer-backend/internal/service"
	"github.com/pacerapp/pacer-backend/internal/testutil"
	"github.com/pacerapp/pacer-backend/internal/websocket"
)

type transactionHandlerFixture struct {
	handler      *TransactionHandler
	budgetRepo   *testutil.MockBudgetRepository
	categoryRepo *testutil.MockCategoryRepository
}

func newTransactionHandlerFixture() *transactionHandlerFixture {
	transactionRepo := testutil.NewMockTransactionRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	categoryRepo := testutil.NewMockCategoryRepository()

	svc := service.NewTransactionService(transactionRepo, budgetRepo, categoryRepo,
		&websocket.NoOpPublisher{}, service.NoOpInvalidator{})

	// No receipt service configured; receipt endpoints report unavailable
	return &transactionHandlerFixture{
		handler:      NewTransactionHandler(svc, nil),
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
	}
}

func TestCreateTransaction_Success(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	reqBody := `{
		"name": "Weekly shop",
		"amount": "85.50",
		"type": "debit",
		"transactionDate": "2024-12-10"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test")

	err := f.handler.CreateTransaction(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Name != "Weekly shop" {
		t.Errorf("Expected name 'Weekly shop', got %s", response.Name)
	}
	if response.Amount != "85.50" {
		t.Errorf("Expected amount '85.50', got %s", response.Amount)
	}
	if response.HasReceipt {
		t.Error("Expected no receipt on a fresh transaction")
	}
}

func TestCreateTransaction_RFC3339Date(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	reqBody := `{
		"name": "Late dinner",
		"amount": "42.00",
		"type": "debit",
		"transactionDate": "2024-12-10T21:45:00Z"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test")

	if err := f.handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}
}

func TestCreateTransaction_UnknownCategory(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	reqBody := `{
		"name": "Mystery",
		"amount": "10.00",
		"type": "debit",
		"transactionDate": "2024-12-10",
		"categoryId": "` + uuid.New().String() + `"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test")

	if err := f.handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestCreateTransaction_InvalidType(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	reqBody := `{
		"name": "Transfer",
		"amount": "10.00",
		"type": "transfer",
		"transactionDate": "2024-12-10"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test")

	if err := f.handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetTransactions_Paginates(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	for i := 0; i < 5; i++ {
		reqBody := `{"name": "Coffee", "amount": "4.50", "type": "debit", "transactionDate": "2024-12-10"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(reqBody))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		setupAuthContext(c, "auth0|test")
		if err := f.handler.CreateTransaction(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?page=2&pageSize=2", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|test")

	if err := f.handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response PaginatedTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Page != 2 || response.PageSize != 2 {
		t.Errorf("Expected page 2 size 2, got %d/%d", response.Page, response.PageSize)
	}
	if response.TotalItems != 5 || response.TotalPages != 3 {
		t.Errorf("Expected 5 items over 3 pages, got %d/%d", response.TotalItems, response.TotalPages)
	}
	if len(response.Data) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(response.Data))
	}
}

func TestGetTransactions_InvalidTypeFilter(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?type=wire", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|test")

	if err := f.handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestAttachReceipt_StorageDisabled(t *testing.T) {
	e := echo.New()
	f := newTransactionHandlerFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/"+uuid.New().String()+"/receipt", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|test")

	if err := f.handler.AttachReceipt(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}
}
