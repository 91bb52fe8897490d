package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Verdict is the headline call on a simulated scenario set
type Verdict string

const (
	VerdictPositive Verdict = "positive"
	VerdictNegative Verdict = "negative"
	VerdictNeutral  Verdict = "neutral"
)

// SimulationPoint is one day of a simulated balance trajectory
type SimulationPoint struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// SimulationResult holds the two parallel 365-day trajectories and their
// headline differences. Baseline and Simulated both hold 366 points
// (day 0 through day 365); Difference6Months and Difference12Months are
// simulated minus baseline at the fixed day indices 180 and 365 (array
// positions, not calendar-month boundaries).
type SimulationResult struct {
	Baseline           []SimulationPoint `json:"baseline"`
	Simulated          []SimulationPoint `json:"simulated"`
	Difference6Months  decimal.Decimal   `json:"difference6Months"`
	Difference12Months decimal.Decimal   `json:"difference12Months"`
	Verdict            Verdict           `json:"verdict"`
}
