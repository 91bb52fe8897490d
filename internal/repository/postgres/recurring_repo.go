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

// RecurringRepository implements domain.RecurringRepository using PostgreSQL
type RecurringRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringRepository creates a new RecurringRepository
func NewRecurringRepository(pool *pgxpool.Pool) *RecurringRepository {
	return &RecurringRepository{pool: pool}
}

const recurringColumns = `id, workspace_id, description, amount, type, due_day, is_active, created_at, updated_at, deleted_at`

// Create creates a new recurring transaction
func (r *RecurringRepository) Create(rt *domain.RecurringTransaction) (*domain.RecurringTransaction, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(rt.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO recurring_transactions (workspace_id, description, amount, type, due_day, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+recurringColumns,
		rt.WorkspaceID, rt.Description, amount, string(rt.Type), rt.DueDay, rt.IsActive)
	return scanRecurring(row)
}

// GetByID retrieves a recurring transaction by its ID within a workspace
func (r *RecurringRepository) GetByID(workspaceID int32, id int32) (*domain.RecurringTransaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+recurringColumns+`
		FROM recurring_transactions
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	rt, err := scanRecurring(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecurringNotFound
		}
		return nil, err
	}
	return rt, nil
}

// ListByWorkspace retrieves recurring transactions for a workspace,
// optionally filtered by active state
func (r *RecurringRepository) ListByWorkspace(workspaceID int32, activeOnly *bool) ([]*domain.RecurringTransaction, error) {
	ctx := context.Background()
	query := `
		SELECT ` + recurringColumns + `
		FROM recurring_transactions
		WHERE workspace_id = $1 AND deleted_at IS NULL`
	args := []interface{}{workspaceID}
	if activeOnly != nil {
		args = append(args, *activeOnly)
		query += ` AND is_active = $2`
	}
	query += ` ORDER BY due_day ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.RecurringTransaction
	for rows.Next() {
		rt, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rt)
	}
	return result, rows.Err()
}

// Update updates a recurring transaction
func (r *RecurringRepository) Update(rt *domain.RecurringTransaction) (*domain.RecurringTransaction, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(rt.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE recurring_transactions
		SET description = $3, amount = $4, type = $5, due_day = $6, is_active = $7, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+recurringColumns,
		rt.WorkspaceID, rt.ID, rt.Description, amount, string(rt.Type), rt.DueDay, rt.IsActive)
	updated, err := scanRecurring(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecurringNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks a recurring transaction as deleted (sets deleted_at timestamp)
func (r *RecurringRepository) SoftDelete(workspaceID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE recurring_transactions
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecurringNotFound
	}
	return nil
}

func scanRecurring(row pgx.Row) (*domain.RecurringTransaction, error) {
	var (
		rt        domain.RecurringTransaction
		amount    pgtype.Numeric
		rtType    string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
		deletedAt pgtype.Timestamptz
	)
	err := row.Scan(&rt.ID, &rt.WorkspaceID, &rt.Description, &amount, &rtType, &rt.DueDay, &rt.IsActive, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	rt.Amount = pgNumericToDecimal(amount)
	rt.Type = domain.TransactionType(rtType)
	rt.CreatedAt = createdAt.Time
	rt.UpdatedAt = updatedAt.Time
	rt.DeletedAt = pgTimestamptzToTimePtr(deletedAt)
	return &rt, nil
}
