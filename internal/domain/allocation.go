package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Allocation assigns part of a budget's total amount to one category.
// The sum of a budget's allocations should stay within the budget amount,
// but exceeding it is a warning condition, never an error.
type Allocation struct {
	ID         uuid.UUID       `json:"id"`
	UserID     string          `json:"userId"`
	BudgetID   uuid.UUID       `json:"budgetId"`
	CategoryID uuid.UUID       `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type AllocationRepository interface {
	Create(allocation *Allocation) (*Allocation, error)
	GetByID(userID string, id uuid.UUID) (*Allocation, error)
	GetByBudget(userID string, budgetID uuid.UUID) ([]*Allocation, error)
	GetAllByUser(userID string) ([]*Allocation, error)
	Update(allocation *Allocation) (*Allocation, error)
	Delete(userID string, id uuid.UUID) error
}
