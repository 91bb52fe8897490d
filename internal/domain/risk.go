package domain

import "github.com/shopspring/decimal"

// RiskLevel classifies how long the workspace's liquidity lasts at the
// current spending pace
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// RiskAnalysis is a derived, side-effect-free read safe to recompute on
// every poll. BurnRate here is the total daily burn (variable spend plus
// the fixed monthly cost spread over 30 days).
type RiskAnalysis struct {
	RiskLevel        RiskLevel       `json:"riskLevel"`
	BurnRate         decimal.Decimal `json:"burnRate"`
	DaysUntilEmpty   int             `json:"daysUntilEmpty"`
	ProjectedBalance decimal.Decimal `json:"projectedBalance"`
}
