package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is a spending category. Categories are never cascade-deleted:
// allocations and transactions may keep referencing a soft-deleted category,
// and consumers degrade those references to a sentinel entry.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	UserID    string     `json:"userId"`
	Name      string     `json:"name"`
	IconName  string     `json:"iconName"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(userID string, id uuid.UUID) (*Category, error)
	GetAllByUser(userID string) ([]*Category, error)
	Update(category *Category) (*Category, error)
	SoftDelete(userID string, id uuid.UUID) error
}
