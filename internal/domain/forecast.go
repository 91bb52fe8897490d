package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForecastStatus classifies the 30-day outlook
type ForecastStatus string

const (
	ForecastStatusSafe     ForecastStatus = "safe"
	ForecastStatusWarning  ForecastStatus = "warning"
	ForecastStatusCritical ForecastStatus = "critical"
)

// NoNegativeCrossing is the DaysUntilNegative value when the projected
// balance never drops below zero within the horizon.
const NoNegativeCrossing = -1

// ForecastPoint is one day in the projected balance series. Day 0 is the
// actual current balance (IsProjected false); every later day is
// projected. Event carries a comma-joined list of the fixed/recurring
// items that fired that day, empty when none did.
type ForecastPoint struct {
	Date        time.Time       `json:"date"`
	Balance     decimal.Decimal `json:"balance"`
	IsProjected bool            `json:"isProjected"`
	Cashflow    decimal.Decimal `json:"cashflow"`
	Event       string          `json:"event,omitempty"`
}

// ForecastSummary aggregates the walk
type ForecastSummary struct {
	MonthEndBalance   decimal.Decimal `json:"monthEndBalance"`
	LowestBalance     decimal.Decimal `json:"lowestBalance"`
	LowestBalanceDate time.Time       `json:"lowestBalanceDate"`
	BurnRate          decimal.Decimal `json:"burnRate"`
	Status            ForecastStatus  `json:"status"`
	// DaysUntilNegative is the first day index where the balance crossed
	// below zero, or NoNegativeCrossing if it never does.
	DaysUntilNegative int `json:"daysUntilNegative"`
}

// Forecast is the full 30-day projection
type Forecast struct {
	Points  []ForecastPoint `json:"points"`
	Summary ForecastSummary `json:"summary"`
}
