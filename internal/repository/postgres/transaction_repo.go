package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pacerapp/pacer-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, name, amount, type, transaction_date,
	category_id, budget_id, notes, receipt_path, created_at, updated_at, deleted_at`

// Create inserts a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (id, user_id, name, amount, type, transaction_date, category_id, budget_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+transactionColumns,
		uuidToPg(transaction.ID), transaction.UserID, transaction.Name, amount,
		string(transaction.Type), transaction.TransactionDate,
		uuidPtrToPg(transaction.CategoryID), uuidPtrToPg(transaction.BudgetID), transaction.Notes)

	return scanTransaction(row)
}

// GetByID retrieves a live transaction by ID
func (r *TransactionRepository) GetByID(userID string, id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`,
		userID, uuidToPg(id))

	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// GetByUser retrieves a filtered, paginated page of transactions ordered by
// transaction date descending
func (r *TransactionRepository) GetByUser(userID string, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()

	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}

	where, args := buildTransactionFilter(userID, filters)

	var totalItems int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM transactions WHERE `+where, args...).Scan(&totalItems)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions
		WHERE %s
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $%d OFFSET $%d`,
		transactionColumns, where, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int32(0)
	if totalItems > 0 {
		totalPages = int32((totalItems + int64(pageSize) - 1) / int64(pageSize))
	}

	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// GetByDateRange retrieves all live transactions dated within [start, end]
func (r *TransactionRepository) GetByDateRange(userID string, start, end time.Time) ([]*domain.Transaction, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1 AND deleted_at IS NULL
		  AND transaction_date >= $2 AND transaction_date <= $3
		ORDER BY transaction_date DESC, created_at DESC`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// GetAllByUser retrieves all live transactions for a user
func (r *TransactionRepository) GetAllByUser(userID string) ([]*domain.Transaction, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY transaction_date DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Update replaces the editable fields of a transaction
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET name = $3, amount = $4, type = $5, transaction_date = $6,
		    category_id = $7, budget_id = $8, notes = $9, updated_at = now()
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+transactionColumns,
		transaction.UserID, uuidToPg(transaction.ID), transaction.Name, amount,
		string(transaction.Type), transaction.TransactionDate,
		uuidPtrToPg(transaction.CategoryID), uuidPtrToPg(transaction.BudgetID), transaction.Notes)

	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SetReceiptPath stores or clears the receipt object path for a transaction
func (r *TransactionRepository) SetReceiptPath(userID string, id uuid.UUID, receiptPath *string) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET receipt_path = $3, updated_at = now()
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`,
		userID, uuidToPg(id), receiptPath)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SoftDelete marks a transaction deleted without erasing it
func (r *TransactionRepository) SoftDelete(userID string, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET deleted_at = now(), updated_at = now()
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`,
		userID, uuidToPg(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func buildTransactionFilter(userID string, filters *domain.TransactionFilters) (string, []any) {
	clauses := []string{"user_id = $1", "deleted_at IS NULL"}
	args := []any{userID}

	next := func() int { return len(args) + 1 }

	if filters.StartDate != nil {
		clauses = append(clauses, fmt.Sprintf("transaction_date >= $%d", next()))
		args = append(args, *filters.StartDate)
	}
	if filters.EndDate != nil {
		clauses = append(clauses, fmt.Sprintf("transaction_date <= $%d", next()))
		args = append(args, *filters.EndDate)
	}
	if filters.Type != nil {
		clauses = append(clauses, fmt.Sprintf("type = $%d", next()))
		args = append(args, string(*filters.Type))
	}
	if filters.CategoryID != nil {
		clauses = append(clauses, fmt.Sprintf("category_id = $%d", next()))
		args = append(args, uuidToPg(*filters.CategoryID))
	}
	if filters.BudgetID != nil {
		clauses = append(clauses, fmt.Sprintf("budget_id = $%d", next()))
		args = append(args, uuidToPg(*filters.BudgetID))
	}

	return strings.Join(clauses, " AND "), args
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction domain.Transaction
		id          pgtype.UUID
		amount      pgtype.Numeric
		txType      string
		categoryID  pgtype.UUID
		budgetID    pgtype.UUID
	)
	err := row.Scan(&id, &transaction.UserID, &transaction.Name, &amount, &txType,
		&transaction.TransactionDate, &categoryID, &budgetID,
		&transaction.Notes, &transaction.ReceiptPath,
		&transaction.CreatedAt, &transaction.UpdatedAt, &transaction.DeletedAt)
	if err != nil {
		return nil, err
	}
	transaction.ID = pgToUUID(id)
	transaction.Amount = pgNumericToDecimal(amount)
	transaction.Type = domain.TransactionType(txType)
	transaction.CategoryID = pgToUUIDPtr(categoryID)
	transaction.BudgetID = pgToUUIDPtr(budgetID)
	return &transaction, nil
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}
