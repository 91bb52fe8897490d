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

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, workspace_id, name, balance, initial_balance, is_enabled, created_at, updated_at, deleted_at`

// Create creates a new account
func (r *AccountRepository) Create(account *domain.Account) (*domain.Account, error) {
	ctx := context.Background()
	balance, err := decimalToPgNumeric(account.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}
	initialBalance, err := decimalToPgNumeric(account.InitialBalance)
	if err != nil {
		return nil, fmt.Errorf("invalid initial balance: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (workspace_id, name, balance, initial_balance, is_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+accountColumns,
		account.WorkspaceID, account.Name, balance, initialBalance, account.IsEnabled)
	return scanAccount(row)
}

// GetByID retrieves an account by its ID within a workspace
func (r *AccountRepository) GetByID(workspaceID int32, id int32) (*domain.Account, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// GetAllByWorkspace retrieves all accounts for a workspace
func (r *AccountRepository) GetAllByWorkspace(workspaceID int32, includeDisabled bool) ([]*domain.Account, error) {
	ctx := context.Background()
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE workspace_id = $1 AND deleted_at IS NULL`
	if !includeDisabled {
		query += ` AND is_enabled = TRUE`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// Update updates an account's name and balance
func (r *AccountRepository) Update(account *domain.Account) (*domain.Account, error) {
	ctx := context.Background()
	balance, err := decimalToPgNumeric(account.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE accounts
		SET name = $3, balance = $4, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+accountColumns,
		account.WorkspaceID, account.ID, account.Name, balance)
	updated, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SetEnabled toggles whether the account counts toward liquidity
func (r *AccountRepository) SetEnabled(workspaceID int32, id int32, enabled bool) (*domain.Account, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		UPDATE accounts
		SET is_enabled = $3, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+accountColumns,
		workspaceID, id, enabled)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// SoftDelete marks an account as deleted (sets deleted_at timestamp)
func (r *AccountRepository) SoftDelete(workspaceID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a              domain.Account
		balance        pgtype.Numeric
		initialBalance pgtype.Numeric
		createdAt      pgtype.Timestamptz
		updatedAt      pgtype.Timestamptz
		deletedAt      pgtype.Timestamptz
	)
	err := row.Scan(&a.ID, &a.WorkspaceID, &a.Name, &balance, &initialBalance, &a.IsEnabled, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	a.Balance = pgNumericToDecimal(balance)
	a.InitialBalance = pgNumericToDecimal(initialBalance)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	a.DeletedAt = pgTimestamptzToTimePtr(deletedAt)
	return &a, nil
}

func scanAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
