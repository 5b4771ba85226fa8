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

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, user_id, name, icon_name, created_at, updated_at, deleted_at`

// Create inserts a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (id, user_id, name, icon_name)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		uuidToPg(category.ID), category.UserID, category.Name, category.IconName)

	return scanCategory(row)
}

// GetByID retrieves a live category by ID
func (r *CategoryRepository) GetByID(userID string, id uuid.UUID) (*domain.Category, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`,
		userID, uuidToPg(id))

	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetAllByUser retrieves all live categories for a user in creation order
func (r *CategoryRepository) GetAllByUser(userID string) ([]*domain.Category, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at, id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update replaces the editable fields of a category
func (r *CategoryRepository) Update(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		UPDATE categories
		SET name = $3, icon_name = $4, updated_at = now()
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+categoryColumns,
		category.UserID, uuidToPg(category.ID), category.Name, category.IconName)

	updated, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks a category deleted. References from allocations and
// transactions are left in place.
func (r *CategoryRepository) SoftDelete(userID string, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		UPDATE categories
		SET deleted_at = now(), updated_at = now()
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`,
		userID, uuidToPg(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		category domain.Category
		id       pgtype.UUID
	)
	err := row.Scan(&id, &category.UserID, &category.Name, &category.IconName,
		&category.CreatedAt, &category.UpdatedAt, &category.DeletedAt)
	if err != nil {
		return nil, err
	}
	category.ID = pgToUUID(id)
	return &category, nil
}
