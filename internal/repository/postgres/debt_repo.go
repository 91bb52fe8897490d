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

// DebtRepository implements domain.DebtRepository using PostgreSQL
type DebtRepository struct {
	pool *pgxpool.Pool
}

// NewDebtRepository creates a new DebtRepository
func NewDebtRepository(pool *pgxpool.Pool) *DebtRepository {
	return &DebtRepository{pool: pool}
}

const debtColumns = `id, workspace_id, name, current_balance, interest_rate, minimum_payment, due_day, created_at, updated_at, deleted_at`

// Create creates a new debt
func (r *DebtRepository) Create(debt *domain.Debt) (*domain.Debt, error) {
	ctx := context.Background()
	balance, err := decimalToPgNumeric(debt.CurrentBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}
	rate, err := decimalToPgNumeric(debt.InterestRate)
	if err != nil {
		return nil, fmt.Errorf("invalid interest rate: %w", err)
	}
	payment, err := decimalToPgNumeric(debt.MinimumPayment)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum payment: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO debts (workspace_id, name, current_balance, interest_rate, minimum_payment, due_day)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+debtColumns,
		debt.WorkspaceID, debt.Name, balance, rate, payment, debt.DueDay)
	return scanDebt(row)
}

// GetByID retrieves a debt by its ID within a workspace
func (r *DebtRepository) GetByID(workspaceID int32, id int32) (*domain.Debt, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+debtColumns+`
		FROM debts
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	debt, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDebtNotFound
		}
		return nil, err
	}
	return debt, nil
}

// GetAllByWorkspace retrieves all debts for a workspace
func (r *DebtRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Debt, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+debtColumns+`
		FROM debts
		WHERE workspace_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC, id ASC`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []*domain.Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, debt)
	}
	return debts, rows.Err()
}

// Update updates a debt
func (r *DebtRepository) Update(debt *domain.Debt) (*domain.Debt, error) {
	ctx := context.Background()
	balance, err := decimalToPgNumeric(debt.CurrentBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}
	rate, err := decimalToPgNumeric(debt.InterestRate)
	if err != nil {
		return nil, fmt.Errorf("invalid interest rate: %w", err)
	}
	payment, err := decimalToPgNumeric(debt.MinimumPayment)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum payment: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE debts
		SET name = $3, current_balance = $4, interest_rate = $5, minimum_payment = $6,
		    due_day = $7, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+debtColumns,
		debt.WorkspaceID, debt.ID, debt.Name, balance, rate, payment, debt.DueDay)
	updated, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDebtNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks a debt as deleted (sets deleted_at timestamp)
func (r *DebtRepository) SoftDelete(workspaceID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE debts
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDebtNotFound
	}
	return nil
}

func scanDebt(row pgx.Row) (*domain.Debt, error) {
	var (
		d         domain.Debt
		balance   pgtype.Numeric
		rate      pgtype.Numeric
		payment   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
		deletedAt pgtype.Timestamptz
	)
	err := row.Scan(&d.ID, &d.WorkspaceID, &d.Name, &balance, &rate, &payment, &d.DueDay, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	d.CurrentBalance = pgNumericToDecimal(balance)
	d.InterestRate = pgNumericToDecimal(rate)
	d.MinimumPayment = pgNumericToDecimal(payment)
	d.CreatedAt = createdAt.Time
	d.UpdatedAt = updatedAt.Time
	d.DeletedAt = pgTimestamptzToTimePtr(deletedAt)
	return &d, nil
}
