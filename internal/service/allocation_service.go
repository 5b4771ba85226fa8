package service

import (
	"github.com/google/uuid"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AllocationService handles allocation business logic
type AllocationService struct {
	allocationRepo domain.AllocationRepository
	budgetRepo     domain.BudgetRepository
	categoryRepo   domain.CategoryRepository
	publisher      websocket.EventPublisher
	invalidator    ReportInvalidator
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(
	allocationRepo domain.AllocationRepository,
	budgetRepo domain.BudgetRepository,
	categoryRepo domain.CategoryRepository,
	publisher websocket.EventPublisher,
	invalidator ReportInvalidator,
) *AllocationService {
	return &AllocationService{
		allocationRepo: allocationRepo,
		budgetRepo:     budgetRepo,
		categoryRepo:   categoryRepo,
		publisher:      publisher,
		invalidator:    invalidator,
	}
}

// AllocationInput holds the user-editable allocation fields
type AllocationInput struct {
	BudgetID   uuid.UUID
	CategoryID uuid.UUID
	Amount     decimal.Decimal
}

// AllocationResult pairs an allocation with the soft over-allocation warning.
// OverAllocated is true when the budget's allocations now exceed its amount;
// that is a warning for the UI, never an error.
type AllocationResult struct {
	Allocation    *domain.Allocation `json:"allocation"`
	OverAllocated bool               `json:"overAllocated"`
}

// Create creates a new allocation after checking both references resolve
func (s *AllocationService) Create(userID string, input AllocationInput) (*AllocationResult, error) {
	if input.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	budget, err := s.budgetRepo.GetByID(userID, input.BudgetID)
	if err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(userID, input.CategoryID); err != nil {
		return nil, err
	}

	allocation, err := s.allocationRepo.Create(&domain.Allocation{
		ID:         uuid.New(),
		UserID:     userID,
		BudgetID:   input.BudgetID,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.AllocationCreated(allocation))
	s.invalidator.Notify(userID)

	return s.withOverAllocation(userID, budget, allocation)
}

// GetByBudget retrieves all allocations of a budget
func (s *AllocationService) GetByBudget(userID string, budgetID uuid.UUID) ([]*domain.Allocation, error) {
	if _, err := s.budgetRepo.GetByID(userID, budgetID); err != nil {
		return nil, err
	}
	return s.allocationRepo.GetByBudget(userID, budgetID)
}

// GetAll retrieves all allocations for a user
func (s *AllocationService) GetAll(userID string) ([]*domain.Allocation, error) {
	return s.allocationRepo.GetAllByUser(userID)
}

// Update replaces the amount of an allocation
func (s *AllocationService) Update(userID string, id uuid.UUID, amount decimal.Decimal) (*AllocationResult, error) {
	if amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	existing, err := s.allocationRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	budget, err := s.budgetRepo.GetByID(userID, existing.BudgetID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Amount = amount

	allocation, err := s.allocationRepo.Update(&updated)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.AllocationUpdated(allocation))
	s.invalidator.Notify(userID)

	return s.withOverAllocation(userID, budget, allocation)
}

// Delete removes an allocation
func (s *AllocationService) Delete(userID string, id uuid.UUID) error {
	allocation, err := s.allocationRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.allocationRepo.Delete(userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.AllocationDeleted(allocation))
	s.invalidator.Notify(userID)

	return nil
}

func (s *AllocationService) withOverAllocation(userID string, budget *domain.Budget, allocation *domain.Allocation) (*AllocationResult, error) {
	allocations, err := s.allocationRepo.GetByBudget(userID, budget.ID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, a := range allocations {
		total = total.Add(a.Amount)
	}

	over := total.GreaterThan(budget.Amount)
	if over {
		log.Warn().
			Str("user_id", userID).
			Str("budget_id", budget.ID.String()).
			Str("allocated", total.String()).
			Str("budget_amount", budget.Amount.String()).
			Msg("Budget over-allocated")
	}

	return &AllocationResult{Allocation: allocation, OverAllocated: over}, nil
}
