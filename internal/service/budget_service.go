package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget business logic
type BudgetService struct {
	budgetRepo  domain.BudgetRepository
	publisher   websocket.EventPublisher
	invalidator ReportInvalidator
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, publisher websocket.EventPublisher, invalidator ReportInvalidator) *BudgetService {
	return &BudgetService{
		budgetRepo:  budgetRepo,
		publisher:   publisher,
		invalidator: invalidator,
	}
}

// BudgetInput holds the user-editable budget fields
type BudgetInput struct {
	Name      string
	Amount    decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
}

func (in *BudgetInput) validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return domain.ErrNameTooLong
	}
	if in.Amount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if in.EndDate.Before(in.StartDate) {
		return domain.ErrInvalidPeriod
	}
	return nil
}

// Create creates a new budget
func (s *BudgetService) Create(userID string, input BudgetInput) (*domain.Budget, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	budget, err := s.budgetRepo.Create(&domain.Budget{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(input.Name),
		Amount:    input.Amount,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.BudgetCreated(budget))
	s.invalidator.Notify(userID)

	return budget, nil
}

// GetByID retrieves a single budget
func (s *BudgetService) GetByID(userID string, id uuid.UUID) (*domain.Budget, error) {
	return s.budgetRepo.GetByID(userID, id)
}

// GetAll retrieves all live budgets for a user
func (s *BudgetService) GetAll(userID string) ([]*domain.Budget, error) {
	return s.budgetRepo.GetAllByUser(userID)
}

// GetActive retrieves the budgets whose period contains now
func (s *BudgetService) GetActive(userID string, now time.Time) ([]*domain.Budget, error) {
	budgets, err := s.budgetRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	active := make([]*domain.Budget, 0, len(budgets))
	for _, b := range budgets {
		if b.IsActive(now) {
			active = append(active, b)
		}
	}
	return active, nil
}

// Update replaces the editable fields of a budget, producing a new value
func (s *BudgetService) Update(userID string, id uuid.UUID, input BudgetInput) (*domain.Budget, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.budgetRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = strings.TrimSpace(input.Name)
	updated.Amount = input.Amount
	updated.StartDate = input.StartDate
	updated.EndDate = input.EndDate

	budget, err := s.budgetRepo.Update(&updated)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.BudgetUpdated(budget))
	s.invalidator.Notify(userID)

	return budget, nil
}

// Delete soft-deletes a budget. Allocations and transactions keep their
// references; reports simply stop including the budget.
func (s *BudgetService) Delete(userID string, id uuid.UUID) error {
	budget, err := s.budgetRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.budgetRepo.SoftDelete(userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.BudgetDeleted(budget))
	s.invalidator.Notify(userID)

	return nil
}
