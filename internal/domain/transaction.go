package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrTransactionNotFound       = errors.New("transaction not found")
	ErrTransactionAmountInvalid  = errors.New("transaction amount must be positive")
	ErrTransactionTypeInvalid    = errors.New("transaction type must be income or expense")
	ErrTransactionAccountInvalid = errors.New("transaction account is required")
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction is a single ledger entry. Amount is always stored
// non-negative; direction is carried by Type, never by sign.
// Transfers move money between the workspace's own accounts and are
// excluded from burn-rate and income/expense aggregation.
type Transaction struct {
	ID              int32           `json:"id"`
	WorkspaceID     int32           `json:"workspaceId"`
	AccountID       int32           `json:"accountId"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Type            TransactionType `json:"type"`
	Category        string          `json:"category"`
	TransactionDate time.Time       `json:"transactionDate"`
	IsTransfer      bool            `json:"isTransfer"`
	ReceiptURL      *string         `json:"receiptUrl,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	DeletedAt       *time.Time      `json:"deletedAt,omitempty"`
}

// Validate checks the stored-record invariants
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrTransactionAmountInvalid
	}
	if t.Type != TransactionTypeIncome && t.Type != TransactionTypeExpense {
		return ErrTransactionTypeInvalid
	}
	if t.AccountID <= 0 {
		return ErrTransactionAccountInvalid
	}
	return nil
}

type TransactionFilters struct {
	AccountID *int32
	StartDate *time.Time
	EndDate   *time.Time
	Type      *TransactionType
	Category  *string
	Page      int32
	PageSize  int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(workspaceID int32, id int32) (*Transaction, error)
	GetByWorkspace(workspaceID int32, filters *TransactionFilters) (*PaginatedTransactions, error)
	GetAllSince(workspaceID int32, since time.Time) ([]*Transaction, error)
	Update(transaction *Transaction) (*Transaction, error)
	SetReceiptURL(workspaceID int32, id int32, url *string) error
	SoftDelete(workspaceID int32, id int32) error
}
