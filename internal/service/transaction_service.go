package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	categoryRepo    domain.CategoryRepository
	publisher       websocket.EventPublisher
	invalidator     ReportInvalidator
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	categoryRepo domain.CategoryRepository,
	publisher websocket.EventPublisher,
	invalidator ReportInvalidator,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		publisher:       publisher,
		invalidator:     invalidator,
	}
}

// TransactionInput holds the user-editable transaction fields
type TransactionInput struct {
	Name            string
	Amount          decimal.Decimal
	Type            domain.TransactionType
	TransactionDate time.Time
	CategoryID      *uuid.UUID
	BudgetID        *uuid.UUID
	Notes           *string
}

func (s *TransactionService) validate(userID string, input *TransactionInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return domain.ErrNameTooLong
	}
	if input.Amount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if input.Type != domain.TransactionTypeCredit && input.Type != domain.TransactionTypeDebit {
		return domain.ErrInvalidType
	}

	// Optional references must resolve at write time; they may later dangle
	// through soft deletion, which readers tolerate.
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(userID, *input.CategoryID); err != nil {
			return err
		}
	}
	if input.BudgetID != nil {
		if _, err := s.budgetRepo.GetByID(userID, *input.BudgetID); err != nil {
			return err
		}
	}
	return nil
}

// Create creates a new transaction
func (s *TransactionService) Create(userID string, input TransactionInput) (*domain.Transaction, error) {
	if err := s.validate(userID, &input); err != nil {
		return nil, err
	}

	transaction, err := s.transactionRepo.Create(&domain.Transaction{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            strings.TrimSpace(input.Name),
		Amount:          input.Amount,
		Type:            input.Type,
		TransactionDate: input.TransactionDate,
		CategoryID:      input.CategoryID,
		BudgetID:        input.BudgetID,
		Notes:           input.Notes,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.TransactionCreated(transaction))
	s.invalidator.Notify(userID)

	return transaction, nil
}

// GetByID retrieves a single transaction
func (s *TransactionService) GetByID(userID string, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}

// Get retrieves transactions with filtering and pagination
func (s *TransactionService) Get(userID string, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = domain.DefaultPageSize
	}
	if filters.PageSize > domain.MaxPageSize {
		filters.PageSize = domain.MaxPageSize
	}
	return s.transactionRepo.GetByUser(userID, filters)
}

// Update replaces the editable fields of a transaction
func (s *TransactionService) Update(userID string, id uuid.UUID, input TransactionInput) (*domain.Transaction, error) {
	if err := s.validate(userID, &input); err != nil {
		return nil, err
	}

	existing, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = strings.TrimSpace(input.Name)
	updated.Amount = input.Amount
	updated.Type = input.Type
	updated.TransactionDate = input.TransactionDate
	updated.CategoryID = input.CategoryID
	updated.BudgetID = input.BudgetID
	updated.Notes = input.Notes

	transaction, err := s.transactionRepo.Update(&updated)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.TransactionUpdated(transaction))
	s.invalidator.Notify(userID)

	return transaction, nil
}

// Delete soft-deletes a transaction
func (s *TransactionService) Delete(userID string, id uuid.UUID) error {
	transaction, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.SoftDelete(userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.TransactionDeleted(transaction))
	s.invalidator.Notify(userID)

	return nil
}
