package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrRecurringNotFound      = errors.New("recurring transaction not found")
	ErrRecurringAmountInvalid = errors.New("recurring amount must be positive")
)

// RecurringTransaction is a monthly template anchored to a day of month,
// bidirectional (salary is income, a subscription is expense) and
// independently toggle-able. Inactive templates are retained but ignored
// by every projection.
type RecurringTransaction struct {
	ID          int32           `json:"id"`
	WorkspaceID int32           `json:"workspaceId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	DueDay      int32           `json:"dueDay"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty"`
}

func (r *RecurringTransaction) Validate() error {
	if r.Description == "" {
		return ErrNameRequired
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrRecurringAmountInvalid
	}
	if r.Type != TransactionTypeIncome && r.Type != TransactionTypeExpense {
		return ErrTransactionTypeInvalid
	}
	if r.DueDay < 1 || r.DueDay > 31 {
		return ErrDueDayInvalid
	}
	return nil
}

type RecurringRepository interface {
	Create(rt *RecurringTransaction) (*RecurringTransaction, error)
	GetByID(workspaceID int32, id int32) (*RecurringTransaction, error)
	ListByWorkspace(workspaceID int32, activeOnly *bool) ([]*RecurringTransaction, error)
	Update(rt *RecurringTransaction) (*RecurringTransaction, error)
	SoftDelete(workspaceID int32, id int32) error
}
