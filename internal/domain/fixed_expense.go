package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrFixedExpenseNotFound      = errors.New("fixed expense not found")
	ErrFixedExpenseAmountInvalid = errors.New("fixed expense amount must be positive")
	ErrDueDayInvalid             = errors.New("due day must be between 1 and 31")
)

// FixedExpense is a monthly outflow anchored to a calendar day of month
// (rent, insurance). It has no end date and recurs indefinitely within
// any projection horizon. An anchor on day 29-31 simply does not fire in
// months that lack that day; the projection recomputes the calendar day
// for every simulated date.
type FixedExpense struct {
	ID          int32           `json:"id"`
	WorkspaceID int32           `json:"workspaceId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDay      int32           `json:"dueDay"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty"`
}

func (f *FixedExpense) Validate() error {
	if f.Description == "" {
		return ErrNameRequired
	}
	if f.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrFixedExpenseAmountInvalid
	}
	if f.DueDay < 1 || f.DueDay > 31 {
		return ErrDueDayInvalid
	}
	return nil
}

type FixedExpenseRepository interface {
	Create(fe *FixedExpense) (*FixedExpense, error)
	GetByID(workspaceID int32, id int32) (*FixedExpense, error)
	GetAllByWorkspace(workspaceID int32) ([]*FixedExpense, error)
	Update(fe *FixedExpense) (*FixedExpense, error)
	SoftDelete(workspaceID int32, id int32) error
}
