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

// AllocationHandler handles allocation HTTP requests
type AllocationHandler struct {
	allocationService *service.AllocationService
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(allocationService *service.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocationService: allocationService}
}

// CreateAllocationRequest represents the create request body
type CreateAllocationRequest struct {
	BudgetID   string `json:"budgetId"`
	CategoryID string `json:"categoryId"`
	Amount     string `json:"amount"`
}

// UpdateAllocationRequest represents the update request body
type UpdateAllocationRequest struct {
	Amount string `json:"amount"`
}

// AllocationResponse represents an allocation in API responses
type AllocationResponse struct {
	ID            uuid.UUID `json:"id"`
	BudgetID      uuid.UUID `json:"budgetId"`
	CategoryID    uuid.UUID `json:"categoryId"`
	Amount        string    `json:"amount"`
	OverAllocated bool      `json:"overAllocated"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateAllocation handles POST /api/v1/allocations
func (h *AllocationHandler) CreateAllocation(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateAllocationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	budgetID, err := uuid.Parse(req.BudgetID)
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", []ValidationError{
			{Field: "budgetId", Message: "Must be a valid UUID"},
		})
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return NewValidationError(c, "Invalid category ID", []ValidationError{
			{Field: "categoryId", Message: "Must be a valid UUID"},
		})
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount format", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	result, err := h.allocationService.Create(userID, service.AllocationInput{
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Amount:     amount,
	})
	if err != nil {
		return mapAllocationError(c, err, "Failed to create allocation")
	}

	log.Info().
		Str("user_id", userID).
		Str("allocation_id", result.Allocation.ID.String()).
		Bool("over_allocated", result.OverAllocated).
		Msg("Allocation created")

	return c.JSON(http.StatusCreated, toAllocationResponse(result))
}

// GetAllocations handles GET /api/v1/allocations. With ?budgetId= only that
// budget's allocations are returned.
func (h *AllocationHandler) GetAllocations(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var (
		allocations []*domain.Allocation
		err         error
	)
	if raw := c.QueryParam("budgetId"); raw != "" {
		budgetID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			return NewValidationError(c, "Invalid budget ID", nil)
		}
		allocations, err = h.allocationService.GetByBudget(userID, budgetID)
	} else {
		allocations, err = h.allocationService.GetAll(userID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get allocations")
		return NewInternalError(c, "Failed to get allocations")
	}

	responses := make([]AllocationResponse, len(allocations))
	for i, a := range allocations {
		responses[i] = AllocationResponse{
			ID:         a.ID,
			BudgetID:   a.BudgetID,
			CategoryID: a.CategoryID,
			Amount:     a.Amount.StringFixed(2),
			CreatedAt:  a.CreatedAt,
			UpdatedAt:  a.UpdatedAt,
		}
	}
	return c.JSON(http.StatusOK, responses)
}

// UpdateAllocation handles PUT /api/v1/allocations/:id
func (h *AllocationHandler) UpdateAllocation(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid allocation ID", nil)
	}

	var req UpdateAllocationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount format", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	result, err := h.allocationService.Update(userID, id, amount)
	if err != nil {
		return mapAllocationError(c, err, "Failed to update allocation")
	}

	log.Info().
		Str("user_id", userID).
		Str("allocation_id", id.String()).
		Bool("over_allocated", result.OverAllocated).
		Msg("Allocation updated")

	return c.JSON(http.StatusOK, toAllocationResponse(result))
}

// DeleteAllocation handles DELETE /api/v1/allocations/:id
func (h *AllocationHandler) DeleteAllocation(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid allocation ID", nil)
	}

	if err := h.allocationService.Delete(userID, id); err != nil {
		if errors.Is(err, domain.ErrAllocationNotFound) {
			return NewNotFoundError(c, "Allocation not found")
		}
		log.Error().Err(err).Str("user_id", userID).Str("allocation_id", id.String()).Msg("Failed to delete allocation")
		return NewInternalError(c, "Failed to delete allocation")
	}

	log.Info().Str("user_id", userID).Str("allocation_id", id.String()).Msg("Allocation deleted")

	return c.NoContent(http.StatusNoContent)
}

func mapAllocationError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrAllocationNotFound):
		return NewNotFoundError(c, "Allocation not found")
	case errors.Is(err, domain.ErrBudgetNotFound):
		return NewNotFoundError(c, "Budget not found")
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewNotFoundError(c, "Category not found")
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Amount must be zero or positive"},
		})
	default:
		log.Error().Err(err).Msg(fallback)
		return NewInternalError(c, fallback)
	}
}

func toAllocationResponse(result *service.AllocationResult) AllocationResponse {
	a := result.Allocation
	return AllocationResponse{
		ID:            a.ID,
		BudgetID:      a.BudgetID,
		CategoryID:    a.CategoryID,
		Amount:        a.Amount.StringFixed(2),
		OverAllocated: result.OverAllocated,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
