package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrDebtNotFound          = errors.New("debt not found")
	ErrDebtBalanceInvalid    = errors.New("debt balance must be positive")
	ErrDebtPaymentInvalid    = errors.New("debt minimum payment must be positive")
	ErrDebtRateInvalid       = errors.New("debt interest rate cannot be negative")
	ErrPayoffStrategyInvalid = errors.New("payoff strategy must be avalanche or snowball")
)

// PayoffStrategy selects the debt prioritization order
type PayoffStrategy string

const (
	// StrategyAvalanche pays the highest interest rate first
	StrategyAvalanche PayoffStrategy = "avalanche"
	// StrategySnowball pays the smallest balance first
	StrategySnowball PayoffStrategy = "snowball"
)

// ParsePayoffStrategy validates a strategy string
func ParsePayoffStrategy(s string) (PayoffStrategy, error) {
	switch PayoffStrategy(s) {
	case StrategyAvalanche, StrategySnowball:
		return PayoffStrategy(s), nil
	}
	return "", ErrPayoffStrategyInvalid
}

// Debt is an outstanding liability. InterestRate is an annual percentage
// (12 means 12%/yr); DueDay is bookkeeping only and plays no part in the
// payoff math.
type Debt struct {
	ID             int32           `json:"id"`
	WorkspaceID    int32           `json:"workspaceId"`
	Name           string          `json:"name"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	InterestRate   decimal.Decimal `json:"interestRate"`
	MinimumPayment decimal.Decimal `json:"minimumPayment"`
	DueDay         int32           `json:"dueDay"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      *time.Time      `json:"deletedAt,omitempty"`
}

func (d *Debt) Validate() error {
	if d.Name == "" {
		return ErrNameRequired
	}
	if d.CurrentBalance.LessThanOrEqual(decimal.Zero) {
		return ErrDebtBalanceInvalid
	}
	if d.MinimumPayment.LessThanOrEqual(decimal.Zero) {
		return ErrDebtPaymentInvalid
	}
	if d.InterestRate.IsNegative() {
		return ErrDebtRateInvalid
	}
	if d.DueDay < 1 || d.DueDay > 31 {
		return ErrDueDayInvalid
	}
	return nil
}

// Clone returns a copy safe to mutate during simulation. The payoff
// engine must never touch the caller's debt records.
func (d *Debt) Clone() *Debt {
	clone := *d
	return &clone
}

type DebtRepository interface {
	Create(debt *Debt) (*Debt, error)
	GetByID(workspaceID int32, id int32) (*Debt, error)
	GetAllByWorkspace(workspaceID int32) ([]*Debt, error)
	Update(debt *Debt) (*Debt, error)
	SoftDelete(workspaceID int32, id int32) error
}
