package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pacerapp/pacer-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, name, amount, start_date, end_date, created_at, updated_at, deleted_at`

// Create inserts a new budget
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO budgets (id, user_id, name, amount, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+budgetColumns,
		uuidToPg(budget.ID), budget.UserID, budget.Name, amount, budget.StartDate, budget.EndDate)

	return scanBudget(row)
}

// GetByID retrieves a live budget by ID
func (r *BudgetRepository) GetByID(userID string, id uuid.UUID) (*domain.Budget, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`,
		userID, uuidToPg(id))

	budget, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// GetAllByUser retrieves all live budgets for a user
func (r *BudgetRepository) GetAllByUser(userID string) ([]*domain.Budget, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY start_date DESC, created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, budget)
	}
	return budgets, rows.Err()
}

// Update replaces the editable fields of a budget
func (r *BudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE budgets
		SET name = $3, amount = $4, start_date = $5, end_date = $6, updated_at = now()
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+budgetColumns,
		budget.UserID, uuidToPg(budget.ID), budget.Name, amount, budget.StartDate, budget.EndDate)

	updated, err := scanBudget(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks a budget deleted without erasing it
func (r *BudgetRepository) SoftDelete(userID string, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE budgets
		SET deleted_at = now(), updated_at = now()
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`,
		userID, uuidToPg(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		budget domain.Budget
		id     pgtype.UUID
		amount pgtype.Numeric
	)
	err := row.Scan(&id, &budget.UserID, &budget.Name, &amount,
		&budget.StartDate, &budget.EndDate, &budget.CreatedAt, &budget.UpdatedAt, &budget.DeletedAt)
	if err != nil {
		return nil, err
	}
	budget.ID = pgToUUID(id)
	budget.Amount = pgNumericToDecimal(amount)
	return &budget, nil
}
