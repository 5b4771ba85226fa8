package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/websocket"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
	publisher    websocket.EventPublisher
	invalidator  ReportInvalidator
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository, publisher websocket.EventPublisher, invalidator ReportInvalidator) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		publisher:    publisher,
		invalidator:  invalidator,
	}
}

// CategoryInput holds the user-editable category fields
type CategoryInput struct {
	Name     string
	IconName string
}

func (in *CategoryInput) validate() error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return domain.ErrNameTooLong
	}
	return nil
}

// Create creates a new category
func (s *CategoryService) Create(userID string, input CategoryInput) (*domain.Category, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.Create(&domain.Category{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     strings.TrimSpace(input.Name),
		IconName: input.IconName,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.CategoryCreated(category))
	s.invalidator.Notify(userID)

	return category, nil
}

// GetAll retrieves all live categories for a user
func (s *CategoryService) GetAll(userID string) ([]*domain.Category, error) {
	return s.categoryRepo.GetAllByUser(userID)
}

// Update replaces the editable fields of a category
func (s *CategoryService) Update(userID string, id uuid.UUID, input CategoryInput) (*domain.Category, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Name = strings.TrimSpace(input.Name)
	updated.IconName = input.IconName

	category, err := s.categoryRepo.Update(&updated)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.CategoryUpdated(category))
	s.invalidator.Notify(userID)

	return category, nil
}

// Delete soft-deletes a category. Referencing allocations and transactions
// are left untouched; their category lookups degrade to the unknown-category
// sentinel in reports.
func (s *CategoryService) Delete(userID string, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.categoryRepo.SoftDelete(userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.CategoryDeleted(category))
	s.invalidator.Notify(userID)

	return nil
}
