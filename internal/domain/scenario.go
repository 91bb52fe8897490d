package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrScenarioNotFound           = errors.New("scenario not found")
	ErrScenarioTypeInvalid        = errors.New("scenario type is invalid")
	ErrScenarioCategoryRequired   = errors.New("expense cut scenario requires a category")
	ErrScenarioPercentageRequired = errors.New("expense cut percentage must be between 1 and 100")
	ErrScenarioAmountInvalid      = errors.New("scenario amount must be positive")
	ErrScenarioDateRequired       = errors.New("big purchase scenario requires a date")
)

// ScenarioType discriminates the scenario tagged union
type ScenarioType string

const (
	// ScenarioExpenseCut reduces a category's historical burn rate by a
	// percentage, applied every simulated day.
	ScenarioExpenseCut ScenarioType = "expense_cut"
	// ScenarioIncomeBoost injects Amount once per month.
	ScenarioIncomeBoost ScenarioType = "income_boost"
	// ScenarioRecurringExpense deducts Amount once per month.
	ScenarioRecurringExpense ScenarioType = "recurring_expense"
	// ScenarioBigPurchase deducts Amount exactly once, on PurchaseDate.
	ScenarioBigPurchase ScenarioType = "big_purchase"
)

// Scenario is a user-defined what-if hypothesis fed into the simulation
// engine. Exactly one of the optional fields is meaningful per Type;
// Validate enforces the tagged-union contract. Inactive scenarios are
// retained in the list but skipped by the simulation (soft disable).
type Scenario struct {
	ID           int32           `json:"id"`
	WorkspaceID  int32           `json:"workspaceId"`
	Name         string          `json:"name"`
	Type         ScenarioType    `json:"type"`
	Category     *string         `json:"category,omitempty"`
	Percentage   *int32          `json:"percentage,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	PurchaseDate *time.Time      `json:"purchaseDate,omitempty"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	DeletedAt    *time.Time      `json:"deletedAt,omitempty"`
}

// Validate checks that the fields required by the scenario's Type are
// present and in range. The simulation engine calls this for every
// scenario before running, failing fast instead of producing silently
// wrong trajectories from a half-filled record.
func (s *Scenario) Validate() error {
	switch s.Type {
	case ScenarioExpenseCut:
		if s.Category == nil || *s.Category == "" {
			return ErrScenarioCategoryRequired
		}
		if s.Percentage == nil || *s.Percentage < 1 || *s.Percentage > 100 {
			return ErrScenarioPercentageRequired
		}
	case ScenarioIncomeBoost, ScenarioRecurringExpense:
		if s.Amount.LessThanOrEqual(decimal.Zero) {
			return ErrScenarioAmountInvalid
		}
	case ScenarioBigPurchase:
		if s.Amount.LessThanOrEqual(decimal.Zero) {
			return ErrScenarioAmountInvalid
		}
		if s.PurchaseDate == nil || s.PurchaseDate.IsZero() {
			return ErrScenarioDateRequired
		}
	default:
		return ErrScenarioTypeInvalid
	}
	return nil
}

type ScenarioRepository interface {
	Create(scenario *Scenario) (*Scenario, error)
	GetByID(workspaceID int32, id int32) (*Scenario, error)
	ListByWorkspace(workspaceID int32, activeOnly *bool) ([]*Scenario, error)
	Update(scenario *Scenario) (*Scenario, error)
	SetActive(workspaceID int32, id int32, active bool) (*Scenario, error)
	SoftDelete(workspaceID int32, id int32) error
}
