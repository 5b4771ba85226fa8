package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/middleware"
	"github.com/pacerapp/pacer-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	receiptService     *service.ReceiptService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, receiptService *service.ReceiptService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		receiptService:     receiptService,
	}
}

// TransactionRequest represents the create/update request body
type TransactionRequest struct {
	Name            string  `json:"name"`
	Amount          string  `json:"amount"`
	Type            string  `json:"type"`
	TransactionDate string  `json:"transactionDate"`
	CategoryID      *string `json:"categoryId"`
	BudgetID        *string `json:"budgetId"`
	Notes           *string `json:"notes"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Amount          string     `json:"amount"`
	Type            string     `json:"type"`
	TransactionDate time.Time  `json:"transactionDate"`
	CategoryID      *uuid.UUID `json:"categoryId,omitempty"`
	BudgetID        *uuid.UUID `json:"budgetId,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	HasReceipt      bool       `json:"hasReceipt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// PaginatedTransactionsResponse represents a page of transactions
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

// ReceiptURLResponse represents the presigned receipt URL response
type ReceiptURLResponse struct {
	URL string `json:"url"`
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	input, err := h.bindTransactionInput(c)
	if err != nil {
		return err
	}

	transaction, err := h.transactionService.Create(userID, *input)
	if err != nil {
		return mapTransactionError(c, err, "Failed to create transaction")
	}

	log.Info().Str("user_id", userID).Str("transaction_id", transaction.ID.String()).Msg("Transaction created")

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions handles GET /api/v1/transactions with filter and pagination
// query parameters
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters, err := h.bindTransactionFilters(c)
	if err != nil {
		return err
	}

	result, err := h.transactionService.Get(userID, filters)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	data := make([]TransactionResponse, len(result.Data))
	for i, t := range result.Data {
		data[i] = toTransactionResponse(t)
	}
	return c.JSON(http.StatusOK, PaginatedTransactionsResponse{
		Data:       data,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID).Str("transaction_id", id.String()).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	input, err := h.bindTransactionInput(c)
	if err != nil {
		return err
	}

	transaction, err := h.transactionService.Update(userID, id, *input)
	if err != nil {
		return mapTransactionError(c, err, "Failed to update transaction")
	}

	log.Info().Str("user_id", userID).Str("transaction_id", id.String()).Msg("Transaction updated")

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.Delete(userID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Str("user_id", userID).Str("transaction_id", id.String()).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	log.Info().Str("user_id", userID).Str("transaction_id", id.String()).Msg("Transaction deleted")

	return c.NoContent(http.StatusNoContent)
}

// AttachReceipt handles POST /api/v1/transactions/:id/receipt
func (h *TransactionHandler) AttachReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipt uploads are disabled (storage not configured)")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to read file")
	}

	transaction, err := h.receiptService.Attach(c.Request().Context(), userID, id, data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return NewNotFoundError(c, "Transaction not found")
		case errors.Is(err, service.ErrReceiptTooLarge),
			errors.Is(err, service.ErrReceiptInvalidFormat),
			errors.Is(err, service.ErrReceiptTooSmall),
			errors.Is(err, service.ErrReceiptInvalidData):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "file", Message: err.Error()},
			})
		default:
			log.Error().Err(err).Str("user_id", userID).Str("transaction_id", id.String()).Msg("Failed to attach receipt")
			return NewInternalError(c, "Failed to attach receipt")
		}
	}

	log.Info().Str("user_id", userID).Str("transaction_id", id.String()).Msg("Receipt attached")

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// GetReceiptURL handles GET /api/v1/transactions/:id/receipt
func (h *TransactionHandler) GetReceiptURL(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipts are disabled (storage not configured)")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	url, err := h.receiptService.URL(c.Request().Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return NewNotFoundError(c, "Transaction not found")
		case errors.Is(err, service.ErrNoReceipt):
			return NewNotFoundError(c, "Transaction has no receipt")
		default:
			log.Error().Err(err).Str("user_id", userID).Str("transaction_id", id.String()).Msg("Failed to get receipt URL")
			return NewInternalError(c, "Failed to get receipt URL")
		}
	}

	return c.JSON(http.StatusOK, ReceiptURLResponse{URL: url})
}

// RemoveReceipt handles DELETE /api/v1/transactions/:id/receipt
func (h *TransactionHandler) RemoveReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if h.receiptService == nil || !h.receiptService.IsEnabled() {
		return NewServiceUnavailableError(c, "Receipts are disabled (storage not configured)")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.receiptService.Remove(c.Request().Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			return NewNotFoundError(c, "Transaction not found")
		case errors.Is(err, service.ErrNoReceipt):
			return NewNotFoundError(c, "Transaction has no receipt")
		default:
			log.Error().Err(err).Str("user_id", userID).Str("transaction_id", id.String()).Msg("Failed to remove receipt")
			return NewInternalError(c, "Failed to remove receipt")
		}
	}

	log.Info().Str("user_id", userID).Str("transaction_id", id.String()).Msg("Receipt removed")

	return c.NoContent(http.StatusNoContent)
}

func (h *TransactionHandler) bindTransactionInput(c echo.Context) (*service.TransactionInput, error) {
	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return nil, NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, NewValidationError(c, "Invalid amount format", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	transactionDate, err := time.Parse(time.RFC3339, req.TransactionDate)
	if err != nil {
		// Date-only values are accepted too
		transactionDate, err = time.Parse(dateLayout, req.TransactionDate)
		if err != nil {
			return nil, NewValidationError(c, "Invalid transaction date", []ValidationError{
				{Field: "transactionDate", Message: "Must be RFC 3339 or YYYY-MM-DD"},
			})
		}
	}

	var categoryID *uuid.UUID
	if req.CategoryID != nil && *req.CategoryID != "" {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, NewValidationError(c, "Invalid category ID", []ValidationError{
				{Field: "categoryId", Message: "Must be a valid UUID"},
			})
		}
		categoryID = &id
	}

	var budgetID *uuid.UUID
	if req.BudgetID != nil && *req.BudgetID != "" {
		id, err := uuid.Parse(*req.BudgetID)
		if err != nil {
			return nil, NewValidationError(c, "Invalid budget ID", []ValidationError{
				{Field: "budgetId", Message: "Must be a valid UUID"},
			})
		}
		budgetID = &id
	}

	return &service.TransactionInput{
		Name:            req.Name,
		Amount:          amount,
		Type:            domain.TransactionType(req.Type),
		TransactionDate: transactionDate,
		CategoryID:      categoryID,
		BudgetID:        budgetID,
		Notes:           req.Notes,
	}, nil
}

func (h *TransactionHandler) bindTransactionFilters(c echo.Context) (*domain.TransactionFilters, error) {
	filters := &domain.TransactionFilters{}

	if raw := c.QueryParam("startDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, NewValidationError(c, "Invalid start date", nil)
		}
		filters.StartDate = &t
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, NewValidationError(c, "Invalid end date", nil)
		}
		filters.EndDate = &t
	}
	if raw := c.QueryParam("type"); raw != "" {
		txType := domain.TransactionType(raw)
		if txType != domain.TransactionTypeCredit && txType != domain.TransactionTypeDebit {
			return nil, NewValidationError(c, "Invalid type", []ValidationError{
				{Field: "type", Message: "Must be credit or debit"},
			})
		}
		filters.Type = &txType
	}
	if raw := c.QueryParam("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, NewValidationError(c, "Invalid category ID", nil)
		}
		filters.CategoryID = &id
	}
	if raw := c.QueryParam("budgetId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, NewValidationError(c, "Invalid budget ID", nil)
		}
		filters.BudgetID = &id
	}
	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, NewValidationError(c, "Invalid page", nil)
		}
		filters.Page = int32(page)
	}
	if raw := c.QueryParam("pageSize"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil || pageSize < 1 {
			return nil, NewValidationError(c, "Invalid page size", nil)
		}
		filters.PageSize = int32(pageSize)
	}

	return filters, nil
}

func mapTransactionError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewNotFoundError(c, "Budget not found")
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewNotFoundError(c, "Category not found")
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Name is required", []ValidationError{
			{Field: "name", Message: "Must not be empty"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Name too long", []ValidationError{
			{Field: "name", Message: "Must be at most 255 characters"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidType):
		return NewValidationError(c, "Invalid type", []ValidationError{
			{Field: "type", Message: "Must be credit or debit"},
		})
	default:
		log.Error().Err(err).Msg(fallback)
		return NewInternalError(c, fallback)
	}
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		Name:            t.Name,
		Amount:          t.Amount.StringFixed(2),
		Type:            string(t.Type),
		TransactionDate: t.TransactionDate,
		CategoryID:      t.CategoryID,
		BudgetID:        t.BudgetID,
		Notes:           t.Notes,
		HasReceipt:      t.ReceiptPath != nil,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
