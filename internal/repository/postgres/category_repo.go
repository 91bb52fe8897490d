package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, workspace_id, name, created_at, updated_at, deleted_at`

// Create creates a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (workspace_id, name)
		VALUES ($1, $2)
		RETURNING `+categoryColumns,
		category.WorkspaceID, category.Name)
	return scanCategory(row)
}

// GetByID retrieves a category by its ID within a workspace
func (r *CategoryRepository) GetByID(workspaceID int32, id int32) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetByName retrieves a category by its exact name within a workspace
func (r *CategoryRepository) GetByName(workspaceID int32, name string) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE workspace_id = $1 AND name = $2 AND deleted_at IS NULL`,
		workspaceID, name)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// GetAllByWorkspace retrieves all categories for a workspace
func (r *CategoryRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Category, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE workspace_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC`,
		workspaceID)
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

// Update renames a category
func (r *CategoryRepository) Update(workspaceID int32, id int32, name string) (*domain.Category, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		UPDATE categories
		SET name = $3, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+categoryColumns,
		workspaceID, id, name)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// SoftDelete marks a category as deleted (sets deleted_at timestamp)
func (r *CategoryRepository) SoftDelete(workspaceID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// HasTransactions reports whether any live transaction references the category
func (r *CategoryRepository) HasTransactions(workspaceID int32, id int32) (bool, error) {
	ctx := context.Background()
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM transactions t
			JOIN categories c ON c.workspace_id = t.workspace_id AND c.name = t.category
			WHERE c.workspace_id = $1 AND c.id = $2 AND t.deleted_at IS NULL
		)`,
		workspaceID, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		c         domain.Category
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
		deletedAt pgtype.Timestamptz
	)
	err := row.Scan(&c.ID, &c.WorkspaceID, &c.Name, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time
	c.DeletedAt = pgTimestamptzToTimePtr(deletedAt)
	return &c, nil
}
