package service

import (
	"errors"
	"testing"
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func simAccounts(balance int64) []*domain.Account {
	return []*domain.Account{
		{ID: 1, Balance: decimal.NewFromInt(balance), IsEnabled: true},
	}
}

func TestRunSimulation_ShapeAndBaselineEqualsSimulatedWithoutScenarios(t *testing.T) {
	now := time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC)

	result, err := RunSimulation(nil, simAccounts(10000), nil, nil, nil, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(result.Baseline) != SimulationHorizonDays+1 {
		t.Fatalf("Expected %d baseline points, got %d", SimulationHorizonDays+1, len(result.Baseline))
	}
	if len(result.Simulated) != SimulationHorizonDays+1 {
		t.Fatalf("Expected %d simulated points, got %d", SimulationHorizonDays+1, len(result.Simulated))
	}

	for i := range result.Baseline {
		if !result.Baseline[i].Balance.Equal(result.Simulated[i].Balance) {
			t.Fatalf("Expected identical walks without scenarios, diverged at day %d", i)
		}
	}
	if !result.Difference6Months.IsZero() || !result.Difference12Months.IsZero() {
		t.Errorf("Expected zero differences, got %s / %s", result.Difference6Months, result.Difference12Months)
	}
	if result.Verdict != domain.VerdictNeutral {
		t.Errorf("Expected neutral verdict, got %s", result.Verdict)
	}
}

func TestRunSimulation_ExpenseCutNeverWorseThanBaseline(t *testing.T) {
	now := time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC)

	transactions := []*domain.Transaction{
		{
			Amount:          decimal.NewFromInt(900),
			Type:            domain.TransactionTypeExpense,
			Category:        "Dining",
			TransactionDate: now.AddDate(0, 0, -10),
		},
	}
	category := "Dining"
	percentage := int32(100)
	scenarios := []*domain.Scenario{
		{
			ID:         1,
			Name:       "Stop eating out",
			Type:       domain.ScenarioExpenseCut,
			Category:   &category,
			Percentage: &percentage,
			IsActive:   true,
		},
	}

	result, err := RunSimulation(transactions, simAccounts(10000), nil, nil, scenarios, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for i := range result.Baseline {
		if result.Simulated[i].Balance.LessThan(result.Baseline[i].Balance) {
			t.Fatalf("Cutting 100%% of a category made day %d worse than baseline", i)
		}
	}
	// 900 over the 90-day window = 10/day saved, 3650 over the year.
	if !result.Difference12Months.Equal(decimal.NewFromInt(3650)) {
		t.Errorf("Expected 12-month difference 3650, got %s", result.Difference12Months)
	}
	if result.Verdict != domain.VerdictPositive {
		t.Errorf("Expected positive verdict, got %s", result.Verdict)
	}
}

func TestRunSimulation_BigPurchaseExactDeltaFromPurchaseDay(t *testing.T) {
	now := time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC)
	purchaseDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	scenarios := []*domain.Scenario{
		{
			ID:           1,
			Name:         "New laptop",
			Type:         domain.ScenarioBigPurchase,
			Amount:       decimal.NewFromInt(2500),
			PurchaseDate: &purchaseDate,
			IsActive:     true,
		},
	}

	result, err := RunSimulation(nil, simAccounts(10000), nil, nil, scenarios, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// July 1 is day 47 of the walk.
	for i := range result.Baseline {
		diff := result.Baseline[i].Balance.Sub(result.Simulated[i].Balance)
		if i < 47 {
			if !diff.IsZero() {
				t.Fatalf("Expected no divergence before the purchase, got %s at day %d", diff, i)
			}
		} else if !diff.Equal(decimal.NewFromInt(2500)) {
			t.Fatalf("Expected constant 2500 divergence from purchase day, got %s at day %d", diff, i)
		}
	}
	if result.Verdict != domain.VerdictNegative {
		t.Errorf("Expected negative verdict, got %s", result.Verdict)
	}
}

func TestRunSimulation_InactiveScenarioIgnored(t *testing.T) {
	now := time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC)
	purchaseDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	scenarios := []*domain.Scenario{
		{
			ID:           1,
			Name:         "Maybe a boat",
			Type:         domain.ScenarioBigPurchase,
			Amount:       decimal.NewFromInt(50000),
			PurchaseDate: &purchaseDate,
			IsActive:     false,
		},
	}

	result, err := RunSimulation(nil, simAccounts(10000), nil, nil, scenarios, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !result.Difference12Months.IsZero() {
		t.Errorf("Expected inactive scenario to have no effect, got difference %s", result.Difference12Months)
	}
}

func TestRunSimulation_MonthlyScenarioMidMonthStart(t *testing.T) {
	// Starting May 15, the year touches 13 calendar months: the current
	// month fires via the day-1 catch-up, then every 1st through May 2026.
	now := time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC)
	scenarios := []*domain.Scenario{
		{
			ID:       1,
			Name:     "Side gig",
			Type:     domain.ScenarioIncomeBoost,
			Amount:   decimal.NewFromInt(100),
			IsActive: true,
		},
	}

	result, err := RunSimulation(nil, simAccounts(10000), nil, nil, scenarios, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Difference12Months.Equal(decimal.NewFromInt(1300)) {
		t.Errorf("Expected 13 monthly applications (1300), got %s", result.Difference12Months)
	}

	// The catch-up fires on the first simulated day.
	dayOne := result.Simulated[1].Balance.Sub(result.Baseline[1].Balance)
	if !dayOne.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected catch-up application on day 1, got divergence %s", dayOne)
	}
}

func TestRunSimulation_MonthlyScenarioFirstOfMonthStart(t *testing.T) {
	// Starting exactly on the 1st there is no catch-up; the walk sees the
	// next 12 month boundaries.
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	scenarios := []*domain.Scenario{
		{
			ID:       1,
			Name:     "Streaming bundle",
			Type:     domain.ScenarioRecurringExpense,
			Amount:   decimal.NewFromInt(50),
			IsActive: true,
		},
	}

	result, err := RunSimulation(nil, simAccounts(10000), nil, nil, scenarios, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.Difference12Months.Equal(decimal.NewFromInt(-600)) {
		t.Errorf("Expected 12 monthly applications (-600), got %s", result.Difference12Months)
	}

	dayOne := result.Simulated[1].Balance.Sub(result.Baseline[1].Balance)
	if !dayOne.IsZero() {
		t.Errorf("Expected no catch-up when starting on the 1st, got divergence %s", dayOne)
	}
}

func TestRunSimulation_MalformedActiveScenarioFailsRun(t *testing.T) {
	now := time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC)
	scenarios := []*domain.Scenario{
		{
			ID:       1,
			Name:     "Broken cut",
			Type:     domain.ScenarioExpenseCut,
			IsActive: true,
		},
	}

	_, err := RunSimulation(nil, simAccounts(10000), nil, nil, scenarios, now)
	if err == nil {
		t.Fatal("Expected validation error for malformed scenario")
	}
	if !errors.Is(err, domain.ErrScenarioCategoryRequired) {
		t.Errorf("Expected ErrScenarioCategoryRequired, got %v", err)
	}
}

func TestRunSimulation_FixedAndRecurringShapeBothWalks(t *testing.T) {
	now := time.Date(2025, 5, 15, 9, 0, 0, 0, time.UTC)
	fixedExpenses := []*domain.FixedExpense{
		{ID: 1, Description: "Rent", Amount: decimal.NewFromInt(1200), DueDay: 1},
	}
	recurring := []*domain.RecurringTransaction{
		{ID: 1, Description: "Salary", Amount: decimal.NewFromInt(3000), Type: domain.TransactionTypeIncome, DueDay: 25, IsActive: true},
	}

	result, err := RunSimulation(nil, simAccounts(5000), fixedExpenses, recurring, nil, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// 12 rent payments out, 12 salaries in over the 365 days.
	expected := decimal.NewFromInt(5000 - 12*1200 + 12*3000)
	final := result.Baseline[SimulationHorizonDays].Balance
	if !final.Equal(expected) {
		t.Errorf("Expected final baseline balance %s, got %s", expected, final)
	}
}

func TestSimulationService_Run(t *testing.T) {
	accountRepo := testutil.NewMockAccountRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	fixedExpenseRepo := testutil.NewMockFixedExpenseRepository()
	recurringRepo := testutil.NewMockRecurringRepository()
	scenarioRepo := testutil.NewMockScenarioRepository()
	simulationService := NewSimulationService(accountRepo, transactionRepo, fixedExpenseRepo, recurringRepo, scenarioRepo)

	workspaceID := int32(1)

	accountRepo.AddAccount(&domain.Account{
		ID:          1,
		WorkspaceID: workspaceID,
		Name:        "Checking",
		Balance:     decimal.NewFromInt(8000),
		IsEnabled:   true,
	})
	scenarioRepo.AddScenario(&domain.Scenario{
		ID:          1,
		WorkspaceID: workspaceID,
		Name:        "Side gig",
		Type:        domain.ScenarioIncomeBoost,
		Amount:      decimal.NewFromInt(200),
		IsActive:    true,
	})

	result, err := simulationService.Run(workspaceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(result.Baseline) != SimulationHorizonDays+1 {
		t.Fatalf("Expected %d baseline points, got %d", SimulationHorizonDays+1, len(result.Baseline))
	}
	if !result.Difference12Months.IsPositive() {
		t.Errorf("Expected positive 12-month difference, got %s", result.Difference12Months)
	}
	if result.Verdict != domain.VerdictPositive {
		t.Errorf("Expected positive verdict, got %s", result.Verdict)
	}
}
