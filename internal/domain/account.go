package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

// Account is a money container (bank account, cash, e-wallet).
// Balance is the current snapshot maintained by the persistence layer;
// InitialBalance is the opening balance the account was created with.
// Disabled accounts are kept for history but excluded from every
// liquidity aggregate and projection.
type Account struct {
	ID             int32           `json:"id"`
	WorkspaceID    int32           `json:"workspaceId"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	IsEnabled      bool            `json:"isEnabled"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      *time.Time      `json:"deletedAt,omitempty"`
}

// AccountRepository defines the interface for account persistence operations
type AccountRepository interface {
	Create(account *Account) (*Account, error)
	GetByID(workspaceID int32, id int32) (*Account, error)
	GetAllByWorkspace(workspaceID int32, includeDisabled bool) ([]*Account, error)
	Update(account *Account) (*Account, error)
	SetEnabled(workspaceID int32, id int32, enabled bool) (*Account, error)
	SoftDelete(workspaceID int32, id int32) error
}
