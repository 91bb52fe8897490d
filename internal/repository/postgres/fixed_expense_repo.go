package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// FixedExpenseRepository implements domain.FixedExpenseRepository using PostgreSQL
type FixedExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewFixedExpenseRepository creates a new FixedExpenseRepository
func NewFixedExpenseRepository(pool *pgxpool.Pool) *FixedExpenseRepository {
	return &FixedExpenseRepository{pool: pool}
}

const fixedExpenseColumns = `id, workspace_id, description, amount, due_day, created_at, updated_at, deleted_at`

// Create creates a new fixed expense
func (r *FixedExpenseRepository) Create(fe *domain.FixedExpense) (*domain.FixedExpense, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(fe.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO fixed_expenses (workspace_id, description, amount, due_day)
		VALUES ($1, $2, $3, $4)
		RETURNING `+fixedExpenseColumns,
		fe.WorkspaceID, fe.Description, amount, fe.DueDay)
	return scanFixedExpense(row)
}

// GetByID retrieves a fixed expense by its ID within a workspace
func (r *FixedExpenseRepository) GetByID(workspaceID int32, id int32) (*domain.FixedExpense, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+fixedExpenseColumns+`
		FROM fixed_expenses
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	fe, err := scanFixedExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFixedExpenseNotFound
		}
		return nil, err
	}
	return fe, nil
}

// GetAllByWorkspace retrieves all fixed expenses for a workspace
func (r *FixedExpenseRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.FixedExpense, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+fixedExpenseColumns+`
		FROM fixed_expenses
		WHERE workspace_id = $1 AND deleted_at IS NULL
		ORDER BY due_day ASC, id ASC`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.FixedExpense
	for rows.Next() {
		fe, err := scanFixedExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, fe)
	}
	return expenses, rows.Err()
}

// Update updates a fixed expense
func (r *FixedExpenseRepository) Update(fe *domain.FixedExpense) (*domain.FixedExpense, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(fe.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE fixed_expenses
		SET description = $3, amount = $4, due_day = $5, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+fixedExpenseColumns,
		fe.WorkspaceID, fe.ID, fe.Description, amount, fe.DueDay)
	updated, err := scanFixedExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFixedExpenseNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks a fixed expense as deleted (sets deleted_at timestamp)
func (r *FixedExpenseRepository) SoftDelete(workspaceID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE fixed_expenses
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFixedExpenseNotFound
	}
	return nil
}

func scanFixedExpense(row pgx.Row) (*domain.FixedExpense, error) {
	var (
		fe        domain.FixedExpense
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
		deletedAt pgtype.Timestamptz
	)
	err := row.Scan(&fe.ID, &fe.WorkspaceID, &fe.Description, &amount, &fe.DueDay, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	fe.Amount = pgNumericToDecimal(amount)
	fe.CreatedAt = createdAt.Time
	fe.UpdatedAt = updatedAt.Time
	fe.DeletedAt = pgTimestamptzToTimePtr(deletedAt)
	return &fe, nil
}
