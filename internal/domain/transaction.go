package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit"
	TransactionTypeDebit  TransactionType = "debit"
)

// Transaction is a single money movement. Only debit transactions count as
// spend for reports and overviews; credits are income and excluded from all
// spend aggregation.
type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	UserID          string          `json:"userId"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	TransactionDate time.Time       `json:"transactionDate"`
	CategoryID      *uuid.UUID      `json:"categoryId,omitempty"`
	BudgetID        *uuid.UUID      `json:"budgetId,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	ReceiptPath     *string         `json:"receiptPath,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	DeletedAt       *time.Time      `json:"deletedAt,omitempty"`
}

// IsSpend reports whether the transaction counts toward spend totals.
func (t *Transaction) IsSpend() bool {
	return t.Type == TransactionTypeDebit
}

type TransactionFilters struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Type       *TransactionType
	CategoryID *uuid.UUID
	BudgetID   *uuid.UUID
	Page       int32
	PageSize   int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID string, id uuid.UUID) (*Transaction, error)
	GetByUser(userID string, filters *TransactionFilters) (*PaginatedTransactions, error)
	GetByDateRange(userID string, start, end time.Time) ([]*Transaction, error)
	GetAllByUser(userID string) ([]*Transaction, error)
	Update(transaction *Transaction) (*Transaction, error)
	SetReceiptPath(userID string, id uuid.UUID, receiptPath *string) error
	SoftDelete(userID string, id uuid.UUID) error
}
