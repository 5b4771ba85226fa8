package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/middleware"
	"github.com/pacerapp/pacer-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format for budget period bounds
const dateLayout = "2006-01-02"

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetRequest represents the create/update request body
type BudgetRequest struct {
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Amount    string    `json:"amount"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateBudget handles POST /api/v1/budgets
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	input, err := h.bindBudgetInput(c)
	if err != nil {
		return err
	}

	budget, err := h.budgetService.Create(userID, *input)
	if err != nil {
		return h.mapBudgetError(c, err, "Failed to create budget")
	}

	log.Info().Str("user_id", userID).Str("budget_id", budget.ID.String()).Msg("Budget created")

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// GetBudgets handles GET /api/v1/budgets. With ?active=true only budgets whose
// period contains today are returned.
func (h *BudgetHandler) GetBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var (
		budgets []*domain.Budget
		err     error
	)
	if c.QueryParam("active") == "true" {
		budgets, err = h.budgetService.GetActive(userID, time.Now().UTC())
	} else {
		budgets, err = h.budgetService.GetAll(userID)
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get budgets")
		return NewInternalError(c, "Failed to get budgets")
	}

	responses := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		responses[i] = toBudgetResponse(b)
	}
	return c.JSON(http.StatusOK, responses)
}

// GetBudget handles GET /api/v1/budgets/:id
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	budget, err := h.budgetService.GetByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("user_id", userID).Str("budget_id", id.String()).Msg("Failed to get budget")
		return NewInternalError(c, "Failed to get budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// UpdateBudget handles PUT /api/v1/budgets/:id
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	input, err := h.bindBudgetInput(c)
	if err != nil {
		return err
	}

	budget, err := h.budgetService.Update(userID, id, *input)
	if err != nil {
		return h.mapBudgetError(c, err, "Failed to update budget")
	}

	log.Info().Str("user_id", userID).Str("budget_id", id.String()).Msg("Budget updated")

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget handles DELETE /api/v1/budgets/:id
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	if err := h.budgetService.Delete(userID, id); err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("user_id", userID).Str("budget_id", id.String()).Msg("Failed to delete budget")
		return NewInternalError(c, "Failed to delete budget")
	}

	log.Info().Str("user_id", userID).Str("budget_id", id.String()).Msg("Budget deleted")

	return c.NoContent(http.StatusNoContent)
}

func (h *BudgetHandler) bindBudgetInput(c echo.Context) (*service.BudgetInput, error) {
	var req BudgetRequest
	if err := c.Bind(&req); err != nil {
		return nil, NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, NewValidationError(c, "Invalid amount format", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, NewValidationError(c, "Invalid start date", []ValidationError{
			{Field: "startDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, NewValidationError(c, "Invalid end date", []ValidationError{
			{Field: "endDate", Message: "Must be a date in YYYY-MM-DD format"},
		})
	}

	return &service.BudgetInput{
		Name:      req.Name,
		Amount:    amount,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

func (h *BudgetHandler) mapBudgetError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewNotFoundError(c, "Budget not found")
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
			{Field: "amount", Message: "Amount must be zero or positive"},
		})
	case errors.Is(err, domain.ErrInvalidPeriod):
		return NewValidationError(c, "Invalid period", []ValidationError{
			{Field: "endDate", Message: "End date must not be before start date"},
		})
	default:
		log.Error().Err(err).Msg(fallback)
		return NewInternalError(c, fallback)
	}
}

func toBudgetResponse(budget *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:        budget.ID,
		Name:      budget.Name,
		Amount:    budget.Amount.StringFixed(2),
		StartDate: budget.StartDate.Format(dateLayout),
		EndDate:   budget.EndDate.Format(dateLayout),
		Active:    budget.IsActive(time.Now().UTC()),
		CreatedAt: budget.CreatedAt,
		UpdatedAt: budget.UpdatedAt,
	}
}
