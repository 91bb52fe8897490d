package service

import (
	"fmt"
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	// SimulationHorizonDays is the length of both simulation walks
	SimulationHorizonDays = 365

	// SimulationBurnWindowDays is the trailing window for the global burn
	// rate feeding the 365-day walks
	SimulationBurnWindowDays = 90

	// Fixed offsets into the day-indexed series (day 0 = today). These
	// are array positions, not calendar boundaries; moving them by one
	// silently corrupts the headline impact figures.
	sixMonthIndex    = 180
	twelveMonthIndex = 365
)

var oneHundred = decimal.NewFromInt(100)

// RunSimulation runs two parallel 365-day walks from the same starting
// balance: a baseline continuing the current pace (90-day burn rate plus
// fixed and recurring obligations) and a simulated trajectory layering
// the active scenarios on top of the same daily baseline delta.
//
// Monthly scenarios (income_boost, recurring_expense) fire on every
// simulated day whose calendar day of month is 1. When the run starts
// after the 1st, they additionally fire on day 1 of the simulation so
// the current month is not skipped: each calendar month the horizon
// touches gets exactly one application.
//
// Every active scenario is validated before the walk; a malformed record
// fails the whole run rather than producing silently wrong numbers.
func RunSimulation(
	transactions []*domain.Transaction,
	accounts []*domain.Account,
	fixedExpenses []*domain.FixedExpense,
	recurring []*domain.RecurringTransaction,
	scenarios []*domain.Scenario,
	now time.Time,
) (*domain.SimulationResult, error) {
	active := make([]*domain.Scenario, 0, len(scenarios))
	for _, sc := range scenarios {
		if !sc.IsActive {
			continue
		}
		if err := sc.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		active = append(active, sc)
	}

	burnRate := CalculateBurnRate(transactions, SimulationBurnWindowDays, now)

	// Scenario effects that are constant per day or per month can be
	// folded once up front.
	dailySavings := decimal.Zero
	monthlyAdjustment := decimal.Zero
	type purchase struct {
		date   time.Time
		amount decimal.Decimal
	}
	var purchases []purchase

	for _, sc := range active {
		switch sc.Type {
		case domain.ScenarioExpenseCut:
			categoryRate := CalculateCategoryBurnRate(transactions, *sc.Category, SimulationBurnWindowDays, now)
			dailySavings = dailySavings.Add(
				categoryRate.Mul(decimal.NewFromInt32(*sc.Percentage)).Div(oneHundred))
		case domain.ScenarioIncomeBoost:
			monthlyAdjustment = monthlyAdjustment.Add(sc.Amount)
		case domain.ScenarioRecurringExpense:
			monthlyAdjustment = monthlyAdjustment.Sub(sc.Amount)
		case domain.ScenarioBigPurchase:
			purchases = append(purchases, purchase{date: *sc.PurchaseDate, amount: sc.Amount})
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := TotalLiquidity(accounts)

	baseline := make([]domain.SimulationPoint, 0, SimulationHorizonDays+1)
	simulated := make([]domain.SimulationPoint, 0, SimulationHorizonDays+1)
	baseline = append(baseline, domain.SimulationPoint{Date: today, Balance: start})
	simulated = append(simulated, domain.SimulationPoint{Date: today, Balance: start})

	baseBalance := start
	simBalance := start
	monthStartPassed := now.Day() != 1

	for i := 1; i <= SimulationHorizonDays; i++ {
		date := today.AddDate(0, 0, i)
		dayOfMonth := int32(date.Day())

		delta := burnRate.Neg()
		for _, fe := range fixedExpenses {
			if fe.DueDay == dayOfMonth {
				delta = delta.Sub(fe.Amount)
			}
		}
		for _, rt := range recurring {
			if !rt.IsActive || rt.DueDay != dayOfMonth {
				continue
			}
			if rt.Type == domain.TransactionTypeIncome {
				delta = delta.Add(rt.Amount)
			} else {
				delta = delta.Sub(rt.Amount)
			}
		}

		baseBalance = baseBalance.Add(delta)
		baseline = append(baseline, domain.SimulationPoint{Date: date, Balance: baseBalance})

		simDelta := delta.Add(dailySavings)

		applyMonthly := dayOfMonth == 1
		if i == 1 && monthStartPassed && dayOfMonth != 1 {
			applyMonthly = true
		}
		if applyMonthly {
			simDelta = simDelta.Add(monthlyAdjustment)
		}

		for _, p := range purchases {
			if sameDay(p.date, date) {
				simDelta = simDelta.Sub(p.amount)
			}
		}

		simBalance = simBalance.Add(simDelta)
		simulated = append(simulated, domain.SimulationPoint{Date: date, Balance: simBalance})
	}

	diff6 := simulated[sixMonthIndex].Balance.Sub(baseline[sixMonthIndex].Balance)
	diff12 := simulated[twelveMonthIndex].Balance.Sub(baseline[twelveMonthIndex].Balance)

	verdict := domain.VerdictNeutral
	switch {
	case diff12.IsPositive():
		verdict = domain.VerdictPositive
	case diff12.IsNegative():
		verdict = domain.VerdictNegative
	}

	return &domain.SimulationResult{
		Baseline:           baseline,
		Simulated:          simulated,
		Difference6Months:  diff6,
		Difference12Months: diff12,
		Verdict:            verdict,
	}, nil
}

// sameDay reports whether two timestamps fall on the same calendar date
// (year, month, and day all equal)
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// SimulationService runs what-if simulations over the workspace's
// persisted data
type SimulationService struct {
	accountRepo      domain.AccountRepository
	transactionRepo  domain.TransactionRepository
	fixedExpenseRepo domain.FixedExpenseRepository
	recurringRepo    domain.RecurringRepository
	scenarioRepo     domain.ScenarioRepository
}

// NewSimulationService creates a new SimulationService
func NewSimulationService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	fixedExpenseRepo domain.FixedExpenseRepository,
	recurringRepo domain.RecurringRepository,
	scenarioRepo domain.ScenarioRepository,
) *SimulationService {
	return &SimulationService{
		accountRepo:      accountRepo,
		transactionRepo:  transactionRepo,
		fixedExpenseRepo: fixedExpenseRepo,
		recurringRepo:    recurringRepo,
		scenarioRepo:     scenarioRepo,
	}
}

// Run executes the simulation over the workspace's active scenarios
func (s *SimulationService) Run(workspaceID int32) (*domain.SimulationResult, error) {
	now := time.Now()

	accounts, err := s.accountRepo.GetAllByWorkspace(workspaceID, false)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetAllSince(workspaceID, now.AddDate(0, 0, -SimulationBurnWindowDays))
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

	scenarios, err := s.scenarioRepo.ListByWorkspace(workspaceID, nil)
	if err != nil {
		return nil, err
	}

	return RunSimulation(transactions, accounts, fixedExpenses, recurring, scenarios, now)
}
