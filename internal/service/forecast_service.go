package service

import (
	"strings"
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// ForecastHorizonDays is the projection length of the forecast walk
	ForecastHorizonDays = 30

	forecastCriticalThresholdDays = 15
)

// lowBalanceRatio: the forecast is a warning when the lowest projected
// balance falls below 10% of the month-end balance even without a
// negative crossing.
var lowBalanceRatio = decimal.NewFromFloat(0.1)

// GenerateForecast walks the balance day by day over a 30-day horizon.
// Day 0 is the actual current balance (sum of enabled accounts); days
// 1..30 each subtract the daily burn rate, then apply fixed expenses and
// active recurring transactions whose due day matches the real calendar
// day of that date. Because the day of month is recomputed per date, a
// day-31 anchor silently skips 30-day months; that mirrors calendar
// reality and is intentional.
func GenerateForecast(
	accounts []*domain.Account,
	fixedExpenses []*domain.FixedExpense,
	recurring []*domain.RecurringTransaction,
	burnRate decimal.Decimal,
	now time.Time,
) *domain.Forecast {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	balance := TotalLiquidity(accounts)

	points := make([]domain.ForecastPoint, 0, ForecastHorizonDays+1)
	points = append(points, domain.ForecastPoint{
		Date:        today,
		Balance:     balance,
		IsProjected: false,
		Cashflow:    decimal.Zero,
	})

	lowest := balance
	lowestDate := today
	daysUntilNegative := domain.NoNegativeCrossing

	for i := 1; i <= ForecastHorizonDays; i++ {
		date := today.AddDate(0, 0, i)
		dayOfMonth := int32(date.Day())

		dailyChange := burnRate.Neg()
		var events []string

		for _, fe := range fixedExpenses {
			if fe.DueDay == dayOfMonth {
				dailyChange = dailyChange.Sub(fe.Amount)
				events = append(events, fe.Description)
			}
		}

		for _, rt := range recurring {
			if !rt.IsActive || rt.DueDay != dayOfMonth {
				continue
			}
			if rt.Type == domain.TransactionTypeIncome {
				dailyChange = dailyChange.Add(rt.Amount)
			} else {
				dailyChange = dailyChange.Sub(rt.Amount)
			}
			events = append(events, rt.Description)
		}

		balance = balance.Add(dailyChange)

		points = append(points, domain.ForecastPoint{
			Date:        date,
			Balance:     balance,
			IsProjected: true,
			Cashflow:    dailyChange,
			Event:       strings.Join(events, ", "),
		})

		if balance.LessThan(lowest) {
			lowest = balance
			lowestDate = date
		}
		// First crossing only; never overwritten by later recoveries and dips.
		if balance.IsNegative() && daysUntilNegative == domain.NoNegativeCrossing {
			daysUntilNegative = i
		}
	}

	monthEnd := balance

	status := domain.ForecastStatusSafe
	switch {
	case daysUntilNegative != domain.NoNegativeCrossing && daysUntilNegative < forecastCriticalThresholdDays:
		status = domain.ForecastStatusCritical
	case daysUntilNegative != domain.NoNegativeCrossing || lowest.LessThan(monthEnd.Mul(lowBalanceRatio)):
		status = domain.ForecastStatusWarning
	}

	return &domain.Forecast{
		Points: points,
		Summary: domain.ForecastSummary{
			MonthEndBalance:   monthEnd,
			LowestBalance:     lowest,
			LowestBalanceDate: lowestDate,
			BurnRate:          burnRate,
			Status:            status,
			DaysUntilNegative: daysUntilNegative,
		},
	}
}

// ForecastService produces 30-day forecasts from the workspace's
// persisted data
type ForecastService struct {
	accountRepo      domain.AccountRepository
	transactionRepo  domain.TransactionRepository
	fixedExpenseRepo domain.FixedExpenseRepository
	recurringRepo    domain.RecurringRepository
}

// NewForecastService creates a new ForecastService
func NewForecastService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	fixedExpenseRepo domain.FixedExpenseRepository,
	recurringRepo domain.RecurringRepository,
) *ForecastService {
	return &ForecastService{
		accountRepo:      accountRepo,
		transactionRepo:  transactionRepo,
		fixedExpenseRepo: fixedExpenseRepo,
		recurringRepo:    recurringRepo,
	}
}

// GetForecast generates the 30-day forecast for a workspace using the
// trailing 30-day burn rate
func (s *ForecastService) GetForecast(workspaceID int32) (*domain.Forecast, error) {
	now := time.Now()

	accounts, err := s.accountRepo.GetAllByWorkspace(workspaceID, false)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetAllSince(workspaceID, now.AddDate(0, 0, -ForecastHorizonDays))
	if err != nil {
		return nil, err
	}

	fixedExpenses, err := s.fixedExpenseRepo.GetAllByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	recurring, err := s.recurringRepo.ListByWorkspace(workspaceID, nil)
	if err != nil {
		return nil, err
	}

	burnRate := CalculateBurnRate(transactions, ForecastHorizonDays, now)
	return GenerateForecast(accounts, fixedExpenses, recurring, burnRate, now), nil
}
