package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is a planned spending envelope over an inclusive date period.
type Budget struct {
	ID        uuid.UUID       `json:"id"`
	UserID    string          `json:"userId"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *time.Time      `json:"deletedAt,omitempty"`
}

// IsActive reports whether the budget period contains the given instant.
// Bounds are inclusive on both ends, at day granularity.
func (b *Budget) IsActive(now time.Time) bool {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(b.StartDate.Year(), b.StartDate.Month(), b.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(b.EndDate.Year(), b.EndDate.Month(), b.EndDate.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}

type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByID(userID string, id uuid.UUID) (*Budget, error)
	GetAllByUser(userID string) ([]*Budget, error)
	Update(budget *Budget) (*Budget, error)
	SoftDelete(userID string, id uuid.UUID) error
}
