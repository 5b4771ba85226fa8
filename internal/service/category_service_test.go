package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/testutil"
	"github.com/pacerapp/pacer-backend/internal/websocket"
)

func newCategoryService(repo *testutil.MockCategoryRepository) *CategoryService {
	return NewCategoryService(repo, &websocket.NoOpPublisher{}, NoOpInvalidator{})
}

func TestCategoryCreate(t *testing.T) {
	svc := newCategoryService(testutil.NewMockCategoryRepository())

	category, err := svc.Create(testUserID, CategoryInput{Name: "Groceries", IconName: "cart"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if category.ID == uuid.Nil {
		t.Error("Expected generated category ID")
	}
	if category.Name != "Groceries" || category.IconName != "cart" {
		t.Errorf("Unexpected fields %q %q", category.Name, category.IconName)
	}
}

func TestCategoryCreate_IconOptional(t *testing.T) {
	svc := newCategoryService(testutil.NewMockCategoryRepository())

	category, err := svc.Create(testUserID, CategoryInput{Name: "Misc"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if category.IconName != "" {
		t.Errorf("Expected empty icon name, got %q", category.IconName)
	}
}

func TestCategoryCreate_Validation(t *testing.T) {
	svc := newCategoryService(testutil.NewMockCategoryRepository())

	tests := []struct {
		name    string
		input   CategoryInput
		wantErr error
	}{
		{"empty name", CategoryInput{Name: "   "}, domain.ErrNameRequired},
		{"name too long", CategoryInput{Name: strings.Repeat("x", 256)}, domain.ErrNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(testUserID, tt.input); err != tt.wantErr {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCategoryUpdate(t *testing.T) {
	svc := newCategoryService(testutil.NewMockCategoryRepository())

	category, err := svc.Create(testUserID, CategoryInput{Name: "Groceries", IconName: "cart"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := svc.Update(testUserID, category.ID, CategoryInput{Name: "Food", IconName: "fork"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Name != "Food" || updated.IconName != "fork" {
		t.Errorf("Expected updated fields, got %q %q", updated.Name, updated.IconName)
	}
}

func TestCategoryUpdate_NotFound(t *testing.T) {
	svc := newCategoryService(testutil.NewMockCategoryRepository())

	if _, err := svc.Update(testUserID, uuid.New(), CategoryInput{Name: "Food"}); err != domain.ErrCategoryNotFound {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryDelete_SoftAndScoped(t *testing.T) {
	repo := testutil.NewMockCategoryRepository()
	svc := newCategoryService(repo)

	category, err := svc.Create(testUserID, CategoryInput{Name: "Groceries"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := svc.Delete("auth0|someone-else", category.ID); err != domain.ErrCategoryNotFound {
		t.Errorf("Expected ErrCategoryNotFound for foreign user, got %v", err)
	}

	if err := svc.Delete(testUserID, category.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	categories, err := svc.GetAll(testUserID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("Expected no live categories after delete, got %d", len(categories))
	}

	stored := repo.Categories[category.ID]
	if stored == nil || stored.DeletedAt == nil {
		t.Error("Expected soft-deleted row to remain with DeletedAt set")
	}
}
