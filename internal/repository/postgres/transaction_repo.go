package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, workspace_id, account_id, description, amount, type, category, transaction_date, is_transfer, receipt_url, created_at, updated_at, deleted_at`

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO transactions (workspace_id, account_id, description, amount, type, category, transaction_date, is_transfer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+transactionColumns,
		transaction.WorkspaceID, transaction.AccountID, transaction.Description, amount,
		string(transaction.Type), transaction.Category, timeToPgDate(transaction.TransactionDate), transaction.IsTransfer)
	return scanTransaction(row)
}

// GetByID retrieves a transaction by its ID within a workspace
func (r *TransactionRepository) GetByID(workspaceID int32, id int32) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// GetByWorkspace retrieves a filtered, paginated page of transactions
func (r *TransactionRepository) GetByWorkspace(workspaceID int32, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()

	where := `WHERE workspace_id = $1 AND deleted_at IS NULL`
	args := []interface{}{workspaceID}

	if filters.AccountID != nil {
		args = append(args, *filters.AccountID)
		where += fmt.Sprintf(` AND account_id = $%d`, len(args))
	}
	if filters.StartDate != nil {
		args = append(args, timeToPgDate(*filters.StartDate))
		where += fmt.Sprintf(` AND transaction_date >= $%d`, len(args))
	}
	if filters.EndDate != nil {
		args = append(args, timeToPgDate(*filters.EndDate))
		where += fmt.Sprintf(` AND transaction_date <= $%d`, len(args))
	}
	if filters.Type != nil {
		args = append(args, string(*filters.Type))
		where += fmt.Sprintf(` AND type = $%d`, len(args))
	}
	if filters.Category != nil {
		args = append(args, *filters.Category)
		where += fmt.Sprintf(` AND category = $%d`, len(args))
	}

	var totalItems int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions `+where, args...).Scan(&totalItems); err != nil {
		return nil, err
	}

	offset := (filters.Page - 1) * filters.PageSize
	args = append(args, filters.PageSize, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions %s
		ORDER BY transaction_date DESC, id DESC
		LIMIT $%d OFFSET $%d`, transactionColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions, err := scanTransactions(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int32((totalItems + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// GetAllSince retrieves all transactions dated on or after the given time
func (r *TransactionRepository) GetAllSince(workspaceID int32, since time.Time) ([]*domain.Transaction, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE workspace_id = $1 AND transaction_date >= $2 AND deleted_at IS NULL
		ORDER BY transaction_date ASC`,
		workspaceID, timeToPgDate(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Update updates a transaction's mutable fields
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE transactions
		SET account_id = $3, description = $4, amount = $5, type = $6, category = $7,
		    transaction_date = $8, is_transfer = $9, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+transactionColumns,
		transaction.WorkspaceID, transaction.ID, transaction.AccountID, transaction.Description,
		amount, string(transaction.Type), transaction.Category,
		timeToPgDate(transaction.TransactionDate), transaction.IsTransfer)
	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

// SetReceiptURL attaches or clears a transaction's receipt URL
func (r *TransactionRepository) SetReceiptURL(workspaceID int32, id int32, url *string) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET receipt_url = $3, updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id, stringPtrToPgText(url))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// SoftDelete marks a transaction as deleted (sets deleted_at timestamp)
func (r *TransactionRepository) SoftDelete(workspaceID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `
		UPDATE transactions
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE workspace_id = $1 AND id = $2 AND deleted_at IS NULL`,
		workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t               domain.Transaction
		amount          pgtype.Numeric
		txType          string
		transactionDate pgtype.Date
		receiptURL      pgtype.Text
		createdAt       pgtype.Timestamptz
		updatedAt       pgtype.Timestamptz
		deletedAt       pgtype.Timestamptz
	)
	err := row.Scan(&t.ID, &t.WorkspaceID, &t.AccountID, &t.Description, &amount, &txType,
		&t.Category, &transactionDate, &t.IsTransfer, &receiptURL, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	t.Amount = pgNumericToDecimal(amount)
	t.Type = domain.TransactionType(txType)
	t.TransactionDate = pgDateToTime(transactionDate)
	t.ReceiptURL = pgTextToStringPtr(receiptURL)
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time
	t.DeletedAt = pgTimestamptzToTimePtr(deletedAt)
	return &t, nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
