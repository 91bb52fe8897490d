package service

import (
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// RunwayInfinite is returned by CalculateRunway when there is no burn
	// to divide by. It is a finite sentinel so it composes with
	// comparisons and formatting instead of leaking Inf/NaN to the UI.
	RunwayInfinite = 999

	// RiskBurnWindowDays is the trailing window used for risk analysis
	RiskBurnWindowDays = 30

	riskHighThresholdDays   = 30
	riskMediumThresholdDays = 90
)

// burnRateExcludedCategories are housing/investment-like categories that
// distort a "variable spending" average and are left out of burn-rate
// calculations. Matching is exact and case-sensitive, like every other
// category join in the engines.
var burnRateExcludedCategories = map[string]struct{}{
	"Housing":     {},
	"Rent":        {},
	"Mortgage":    {},
	"Investments": {},
	"Savings":     {},
}

// CalculateBurnRate returns the average daily variable-expense rate over
// the trailing windowDays ending at now. Only expenses count: income,
// transfers, and the excluded fixed-cost categories are filtered out.
// The denominator is windowDays itself, not the number of days with
// spending, so zero-spend days pull the average down. Returns zero when
// nothing matches or the window is not positive.
func CalculateBurnRate(transactions []*domain.Transaction, windowDays int, now time.Time) decimal.Decimal {
	if windowDays <= 0 {
		return decimal.Zero
	}

	windowStart := now.AddDate(0, 0, -windowDays)

	total := decimal.Zero
	for _, tx := range transactions {
		if tx.Type != domain.TransactionTypeExpense || tx.IsTransfer {
			continue
		}
		if _, excluded := burnRateExcludedCategories[tx.Category]; excluded {
			continue
		}
		if tx.TransactionDate.Before(windowStart) || tx.TransactionDate.After(now) {
			continue
		}
		total = total.Add(tx.Amount)
	}

	return total.Div(decimal.NewFromInt(int64(windowDays)))
}

// CalculateCategoryBurnRate returns the average daily spend for a single
// category over the trailing window. The category string is joined
// exactly (case-sensitive) against transaction history; the fixed
// exclusion set does not apply since the caller named the category
// explicitly.
func CalculateCategoryBurnRate(transactions []*domain.Transaction, category string, windowDays int, now time.Time) decimal.Decimal {
	if windowDays <= 0 {
		return decimal.Zero
	}

	windowStart := now.AddDate(0, 0, -windowDays)

	total := decimal.Zero
	for _, tx := range transactions {
		if tx.Type != domain.TransactionTypeExpense || tx.IsTransfer {
			continue
		}
		if tx.Category != category {
			continue
		}
		if tx.TransactionDate.Before(windowStart) || tx.TransactionDate.After(now) {
			continue
		}
		total = total.Add(tx.Amount)
	}

	return total.Div(decimal.NewFromInt(int64(windowDays)))
}

// TotalLiquidity sums the balances of enabled accounts. Disabled
// accounts never contribute to aggregates.
func TotalLiquidity(accounts []*domain.Account) decimal.Decimal {
	total := decimal.Zero
	for _, account := range accounts {
		if account.IsEnabled {
			total = total.Add(account.Balance)
		}
	}
	return total
}

// CalculateNetWorth is enabled account balances plus external assets
// minus external liabilities. All values are in the single reporting
// currency; no conversion happens here.
func CalculateNetWorth(accounts []*domain.Account, assetsValue, liabilitiesValue decimal.Decimal) decimal.Decimal {
	return TotalLiquidity(accounts).Add(assetsValue).Sub(liabilitiesValue)
}

// CalculateRunway returns floor(liquidity / burnRate) in days, or
// RunwayInfinite when the burn rate is zero or negative.
func CalculateRunway(liquidity, burnRate decimal.Decimal) int {
	if burnRate.LessThanOrEqual(decimal.Zero) {
		return RunwayInfinite
	}
	return int(liquidity.Div(burnRate).Floor().IntPart())
}

// AnalyzeRisk classifies how long the workspace's liquidity lasts at the
// current pace. Total daily burn is the 30-day variable burn rate plus
// the fixed monthly cost spread over 30 days; the projected balance is a
// straight 30-day linear extrapolation.
func AnalyzeRisk(transactions []*domain.Transaction, accounts []*domain.Account, fixedMonthlyCost decimal.Decimal, now time.Time) *domain.RiskAnalysis {
	thirty := decimal.NewFromInt(RiskBurnWindowDays)

	totalDailyBurn := CalculateBurnRate(transactions, RiskBurnWindowDays, now).
		Add(fixedMonthlyCost.Div(thirty))
	liquidity := TotalLiquidity(accounts)
	daysUntilEmpty := CalculateRunway(liquidity, totalDailyBurn)

	level := domain.RiskLevelLow
	switch {
	case daysUntilEmpty < riskHighThresholdDays:
		level = domain.RiskLevelHigh
	case daysUntilEmpty < riskMediumThresholdDays:
		level = domain.RiskLevelMedium
	}

	return &domain.RiskAnalysis{
		RiskLevel:        level,
		BurnRate:         totalDailyBurn,
		DaysUntilEmpty:   daysUntilEmpty,
		ProjectedBalance: liquidity.Sub(totalDailyBurn.Mul(thirty)),
	}
}

// MetricsService exposes the metrics primitives over the workspace's
// persisted data
type MetricsService struct {
	accountRepo      domain.AccountRepository
	transactionRepo  domain.TransactionRepository
	fixedExpenseRepo domain.FixedExpenseRepository
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	fixedExpenseRepo domain.FixedExpenseRepository,
) *MetricsService {
	return &MetricsService{
		accountRepo:      accountRepo,
		transactionRepo:  transactionRepo,
		fixedExpenseRepo: fixedExpenseRepo,
	}
}

// AnalyzeRisk runs the risk classification for a workspace
func (s *MetricsService) AnalyzeRisk(workspaceID int32) (*domain.RiskAnalysis, error) {
	now := time.Now()

	accounts, err := s.accountRepo.GetAllByWorkspace(workspaceID, false)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetAllSince(workspaceID, now.AddDate(0, 0, -RiskBurnWindowDays))
	if err != nil {
		return nil, err
	}

	fixedExpenses, err := s.fixedExpenseRepo.GetAllByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	fixedMonthlyCost := decimal.Zero
	for _, fe := range fixedExpenses {
		fixedMonthlyCost = fixedMonthlyCost.Add(fe.Amount)
	}

	return AnalyzeRisk(transactions, accounts, fixedMonthlyCost, now), nil
}

// NetWorth computes the workspace's net worth given externally supplied
// asset and liability valuations
func (s *MetricsService) NetWorth(workspaceID int32, assetsValue, liabilitiesValue decimal.Decimal) (decimal.Decimal, error) {
	accounts, err := s.accountRepo.GetAllByWorkspace(workspaceID, false)
	if err != nil {
		return decimal.Zero, err
	}
	return CalculateNetWorth(accounts, assetsValue, liabilitiesValue), nil
}
