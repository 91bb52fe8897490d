package service

import (
	"testing"
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func expenseOn(date time.Time, amount float64, category string) *domain.Transaction {
	return &domain.Transaction{
		WorkspaceID:     1,
		AccountID:       1,
		Description:     category,
		Amount:          decimal.NewFromFloat(amount),
		Type:            domain.TransactionTypeExpense,
		Category:        category,
		TransactionDate: date,
	}
}

func TestCalculateBurnRate_FixedDenominator(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

	// 300 spent across two days; the denominator is still 30.
	transactions := []*domain.Transaction{
		expenseOn(now.AddDate(0, 0, -2), 100.00, "Groceries"),
		expenseOn(now.AddDate(0, 0, -10), 200.00, "Dining"),
	}

	rate := CalculateBurnRate(transactions, 30, now)
	expected := decimal.NewFromInt(10)
	if !rate.Equal(expected) {
		t.Errorf("Expected burn rate %s, got %s", expected, rate)
	}
}

func TestCalculateBurnRate_FiltersNonVariableSpend(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

	income := &domain.Transaction{
		Amount:          decimal.NewFromInt(5000),
		Type:            domain.TransactionTypeIncome,
		Category:        "Salary",
		TransactionDate: now.AddDate(0, 0, -5),
	}
	transfer := expenseOn(now.AddDate(0, 0, -5), 400.00, "Groceries")
	transfer.IsTransfer = true
	rent := expenseOn(now.AddDate(0, 0, -5), 1500.00, "Rent")
	tooOld := expenseOn(now.AddDate(0, 0, -31), 900.00, "Groceries")
	counted := expenseOn(now.AddDate(0, 0, -5), 60.00, "Groceries")

	rate := CalculateBurnRate([]*domain.Transaction{income, transfer, rent, tooOld, counted}, 30, now)
	expected := decimal.NewFromInt(2)
	if !rate.Equal(expected) {
		t.Errorf("Expected burn rate %s, got %s", expected, rate)
	}
}

func TestCalculateBurnRate_EmptyAndInvalidWindow(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

	if rate := CalculateBurnRate(nil, 30, now); !rate.IsZero() {
		t.Errorf("Expected zero burn rate for no transactions, got %s", rate)
	}
	txns := []*domain.Transaction{expenseOn(now.AddDate(0, 0, -1), 50.00, "Dining")}
	if rate := CalculateBurnRate(txns, 0, now); !rate.IsZero() {
		t.Errorf("Expected zero burn rate for zero window, got %s", rate)
	}
}

func TestCalculateCategoryBurnRate_ExactMatch(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

	transactions := []*domain.Transaction{
		expenseOn(now.AddDate(0, 0, -3), 90.00, "Dining"),
		expenseOn(now.AddDate(0, 0, -4), 45.00, "dining"),
		expenseOn(now.AddDate(0, 0, -5), 120.00, "Groceries"),
	}

	// Case-sensitive: "dining" does not match "Dining".
	rate := CalculateCategoryBurnRate(transactions, "Dining", 30, now)
	expected := decimal.NewFromInt(3)
	if !rate.Equal(expected) {
		t.Errorf("Expected category burn rate %s, got %s", expected, rate)
	}
}

func TestTotalLiquidity_SkipsDisabledAccounts(t *testing.T) {
	accounts := []*domain.Account{
		{ID: 1, Balance: decimal.NewFromInt(1000), IsEnabled: true},
		{ID: 2, Balance: decimal.NewFromInt(500), IsEnabled: false},
		{ID: 3, Balance: decimal.NewFromInt(-200), IsEnabled: true},
	}

	total := TotalLiquidity(accounts)
	expected := decimal.NewFromInt(800)
	if !total.Equal(expected) {
		t.Errorf("Expected liquidity %s, got %s", expected, total)
	}
}

func TestCalculateNetWorth(t *testing.T) {
	accounts := []*domain.Account{
		{ID: 1, Balance: decimal.NewFromInt(2000), IsEnabled: true},
	}

	netWorth := CalculateNetWorth(accounts, decimal.NewFromInt(10000), decimal.NewFromInt(3000))
	expected := decimal.NewFromInt(9000)
	if !netWorth.Equal(expected) {
		t.Errorf("Expected net worth %s, got %s", expected, netWorth)
	}
}

func TestCalculateRunway(t *testing.T) {
	// floor(1000 / 33.33) = 30
	runway := CalculateRunway(decimal.NewFromInt(1000), decimal.NewFromFloat(33.33))
	if runway != 30 {
		t.Errorf("Expected runway 30, got %d", runway)
	}
}

func TestCalculateRunway_ZeroBurnIsInfinite(t *testing.T) {
	if runway := CalculateRunway(decimal.NewFromInt(1000), decimal.Zero); runway != RunwayInfinite {
		t.Errorf("Expected runway %d for zero burn, got %d", RunwayInfinite, runway)
	}
	if runway := CalculateRunway(decimal.NewFromInt(1000), decimal.NewFromInt(-5)); runway != RunwayInfinite {
		t.Errorf("Expected runway %d for negative burn, got %d", RunwayInfinite, runway)
	}
}

func TestAnalyzeRisk_Levels(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		liquidity int64
		expected  domain.RiskLevel
	}{
		// burn is 10/day in each case
		{"high below 30 days", 290, domain.RiskLevelHigh},
		{"medium at exactly 30 days", 300, domain.RiskLevelMedium},
		{"medium below 90 days", 890, domain.RiskLevelMedium},
		{"low at exactly 90 days", 900, domain.RiskLevelLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transactions := []*domain.Transaction{
				expenseOn(now.AddDate(0, 0, -5), 300.00, "Groceries"),
			}
			accounts := []*domain.Account{
				{ID: 1, Balance: decimal.NewFromInt(tt.liquidity), IsEnabled: true},
			}

			analysis := AnalyzeRisk(transactions, accounts, decimal.Zero, now)
			if analysis.RiskLevel != tt.expected {
				t.Errorf("Expected risk level %s, got %s", tt.expected, analysis.RiskLevel)
			}
		})
	}
}

func TestAnalyzeRisk_FixedCostsSpreadOverThirtyDays(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

	accounts := []*domain.Account{
		{ID: 1, Balance: decimal.NewFromInt(3000), IsEnabled: true},
	}

	// No variable spend; 1500/month fixed = 50/day.
	analysis := AnalyzeRisk(nil, accounts, decimal.NewFromInt(1500), now)

	if !analysis.BurnRate.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected total daily burn 50, got %s", analysis.BurnRate)
	}
	if analysis.DaysUntilEmpty != 60 {
		t.Errorf("Expected 60 days until empty, got %d", analysis.DaysUntilEmpty)
	}
	// 3000 - 50*30 = 1500
	if !analysis.ProjectedBalance.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected projected balance 1500, got %s", analysis.ProjectedBalance)
	}
}

func TestAnalyzeRisk_NoBurnIsLowRisk(t *testing.T) {
	now := time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)
	accounts := []*domain.Account{
		{ID: 1, Balance: decimal.NewFromInt(100), IsEnabled: true},
	}

	analysis := AnalyzeRisk(nil, accounts, decimal.Zero, now)

	if analysis.RiskLevel != domain.RiskLevelLow {
		t.Errorf("Expected low risk with zero burn, got %s", analysis.RiskLevel)
	}
	if analysis.DaysUntilEmpty != RunwayInfinite {
		t.Errorf("Expected days until empty %d, got %d", RunwayInfinite, analysis.DaysUntilEmpty)
	}
}

func TestMetricsService_AnalyzeRisk(t *testing.T) {
	accountRepo := testutil.NewMockAccountRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	fixedExpenseRepo := testutil.NewMockFixedExpenseRepository()
	metricsService := NewMetricsService(accountRepo, transactionRepo, fixedExpenseRepo)

	workspaceID := int32(1)

	accountRepo.AddAccount(&domain.Account{
		ID:          1,
		WorkspaceID: workspaceID,
		Name:        "Checking",
		Balance:     decimal.NewFromInt(600),
		IsEnabled:   true,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID:              1,
		WorkspaceID:     workspaceID,
		AccountID:       1,
		Description:     "Groceries",
		Amount:          decimal.NewFromInt(300),
		Type:            domain.TransactionTypeExpense,
		Category:        "Groceries",
		TransactionDate: time.Now().AddDate(0, 0, -5),
	})
	fixedExpenseRepo.AddFixedExpense(&domain.FixedExpense{
		ID:          1,
		WorkspaceID: workspaceID,
		Description: "Insurance",
		Amount:      decimal.NewFromInt(300),
		DueDay:      1,
	})

	analysis, err := metricsService.AnalyzeRisk(workspaceID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// 300/30 variable + 300/30 fixed = 20/day; 600/20 = 30 days.
	if !analysis.BurnRate.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Expected burn rate 20, got %s", analysis.BurnRate)
	}
	if analysis.DaysUntilEmpty != 30 {
		t.Errorf("Expected 30 days until empty, got %d", analysis.DaysUntilEmpty)
	}
	if analysis.RiskLevel != domain.RiskLevelMedium {
		t.Errorf("Expected medium risk, got %s", analysis.RiskLevel)
	}
}

func TestMetricsService_NetWorth(t *testing.T) {
	accountRepo := testutil.NewMockAccountRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	fixedExpenseRepo := testutil.NewMockFixedExpenseRepository()
	metricsService := NewMetricsService(accountRepo, transactionRepo, fixedExpenseRepo)

	workspaceID := int32(1)

	accountRepo.AddAccount(&domain.Account{
		ID:          1,
		WorkspaceID: workspaceID,
		Name:        "Checking",
		Balance:     decimal.NewFromInt(2500),
		IsEnabled:   true,
	})
	accountRepo.AddAccount(&domain.Account{
		ID:          2,
		WorkspaceID: workspaceID,
		Name:        "Old savings",
		Balance:     decimal.NewFromInt(9999),
		IsEnabled:   false,
	})

	netWorth, err := metricsService.NetWorth(workspaceID, decimal.NewFromInt(500), decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := decimal.NewFromInt(2000)
	if !netWorth.Equal(expected) {
		t.Errorf("Expected net worth %s, got %s", expected, netWorth)
	}
}
