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

// AllocationRepository implements domain.AllocationRepository using PostgreSQL
type AllocationRepository struct {
	pool *pgxpool.Pool
}

// NewAllocationRepository creates a new AllocationRepository
func NewAllocationRepository(pool *pgxpool.Pool) *AllocationRepository {
	return &AllocationRepository{pool: pool}
}

const allocationColumns = `id, user_id, budget_id, category_id, amount, created_at, updated_at`

// Create inserts a new allocation
func (r *AllocationRepository) Create(allocation *domain.Allocation) (*domain.Allocation, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(allocation.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO allocations (id, user_id, budget_id, category_id, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+allocationColumns,
		uuidToPg(allocation.ID), allocation.UserID, uuidToPg(allocation.BudgetID),
		uuidToPg(allocation.CategoryID), amount)

	return scanAllocation(row)
}

// GetByID retrieves an allocation by ID
func (r *AllocationRepository) GetByID(userID string, id uuid.UUID) (*domain.Allocation, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+allocationColumns+`
		FROM allocations
		WHERE user_id = $1 AND id = $2`,
		userID, uuidToPg(id))

	allocation, err := scanAllocation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAllocationNotFound
		}
		return nil, err
	}
	return allocation, nil
}

// GetByBudget retrieves all allocations for one budget in creation order
func (r *AllocationRepository) GetByBudget(userID string, budgetID uuid.UUID) ([]*domain.Allocation, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+allocationColumns+`
		FROM allocations
		WHERE user_id = $1 AND budget_id = $2
		ORDER BY created_at, id`,
		userID, uuidToPg(budgetID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAllocations(rows)
}

// GetAllByUser retrieves all allocations for a user
func (r *AllocationRepository) GetAllByUser(userID string) ([]*domain.Allocation, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+allocationColumns+`
		FROM allocations
		WHERE user_id = $1
		ORDER BY created_at, id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAllocations(rows)
}

// Update replaces the amount of an allocation
func (r *AllocationRepository) Update(allocation *domain.Allocation) (*domain.Allocation, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(allocation.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE allocations
		SET amount = $3, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+allocationColumns,
		allocation.UserID, uuidToPg(allocation.ID), amount)

	updated, err := scanAllocation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAllocationNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes an allocation. Allocations are plan rows, not records of
// money movement, so deletes are hard.
func (r *AllocationRepository) Delete(userID string, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM allocations
		WHERE user_id = $1 AND id = $2`,
		userID, uuidToPg(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAllocationNotFound
	}
	return nil
}

func scanAllocation(row pgx.Row) (*domain.Allocation, error) {
	var (
		allocation domain.Allocation
		id         pgtype.UUID
		budgetID   pgtype.UUID
		categoryID pgtype.UUID
		amount     pgtype.Numeric
	)
	err := row.Scan(&id, &allocation.UserID, &budgetID, &categoryID, &amount,
		&allocation.CreatedAt, &allocation.UpdatedAt)
	if err != nil {
		return nil, err
	}
	allocation.ID = pgToUUID(id)
	allocation.BudgetID = pgToUUID(budgetID)
	allocation.CategoryID = pgToUUID(categoryID)
	allocation.Amount = pgNumericToDecimal(amount)
	return &allocation, nil
}

func collectAllocations(rows pgx.Rows) ([]*domain.Allocation, error) {
	var allocations []*domain.Allocation
	for rows.Next() {
		allocation, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, allocation)
	}
	return allocations, rows.Err()
}
