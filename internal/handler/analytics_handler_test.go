package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/mintleaf/mintleaf-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

type analyticsFixture struct {
	handler      *AnalyticsHandler
	accounts     *testutil.MockAccountRepository
	transactions *testutil.MockTransactionRepository
	scenarios    *testutil.MockScenarioRepository
}

func newAnalyticsFixture() *analyticsFixture {
	accountRepo := testutil.NewMockAccountRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	fixedExpenseRepo := testutil.NewMockFixedExpenseRepository()
	recurringRepo := testutil.NewMockRecurringRepository()
	scenarioRepo := testutil.NewMockScenarioRepository()

	return &analyticsFixture{
		handler: NewAnalyticsHandler(
			service.NewMetricsService(accountRepo, transactionRepo, fixedExpenseRepo),
			service.NewForecastService(accountRepo, transactionRepo, fixedExpenseRepo, recurringRepo),
			service.NewSimulationService(accountRepo, transactionRepo, fixedExpenseRepo, recurringRepo, scenarioRepo),
		),
		accounts:     accountRepo,
		transactions: transactionRepo,
		scenarios:    scenarioRepo,
	}
}

func TestGetRisk_Success(t *testing.T) {
	e := echo.New()
	f := newAnalyticsFixture()
	f.accounts.AddAccount(&domain.Account{
		ID:          1,
		WorkspaceID: 1,
		Name:        "Checking",
		Balance:     decimal.NewFromInt(3000),
		IsEnabled:   true,
	})
	f.transactions.AddTransaction(&domain.Transaction{
		ID:              1,
		WorkspaceID:     1,
		AccountID:       1,
		Description:     "Groceries",
		Amount:          decimal.NewFromInt(300),
		Type:            domain.TransactionTypeExpense,
		Category:        "Groceries",
		TransactionDate: time.Now().AddDate(0, 0, -3),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/risk", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := f.handler.GetRisk(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response RiskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	// 300 spent over a 30-day window is 10.00 per day.
	if response.BurnRate != "10.00" {
		t.Errorf("Expected burn rate '10.00', got %s", response.BurnRate)
	}
	if response.RiskLevel == "" {
		t.Error("Expected a risk level")
	}
}

func TestGetRisk_MissingWorkspace(t *testing.T) {
	e := echo.New()
	f := newAnalyticsFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/risk", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContext(c, "auth0|test", "test@example.com", "", "")

	if err := f.handler.GetRisk(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGetNetWorth_WithQueryParams(t *testing.T) {
	e := echo.New()
	f := newAnalyticsFixture()
	f.accounts.AddAccount(&domain.Account{
		ID:          1,
		WorkspaceID: 1,
		Name:        "Checking",
		Balance:     decimal.NewFromInt(2500),
		IsEnabled:   true,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/networth?assets=10000&liabilities=4000", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := f.handler.GetNetWorth(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response NetWorthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Liquidity != "2500.00" {
		t.Errorf("Expected liquidity '2500.00', got %s", response.Liquidity)
	}
	if response.NetWorth != "8500.00" {
		t.Errorf("Expected net worth '8500.00', got %s", response.NetWorth)
	}
	if response.Assets != "10000.00" || response.Liabilities != "4000.00" {
		t.Errorf("Expected echoed assets/liabilities, got %s/%s", response.Assets, response.Liabilities)
	}
}

func TestGetNetWorth_InvalidDecimal(t *testing.T) {
	e := echo.New()
	f := newAnalyticsFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/networth?assets=lots", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := f.handler.GetNetWorth(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetForecast_Shape(t *testing.T) {
	e := echo.New()
	f := newAnalyticsFixture()
	f.accounts.AddAccount(&domain.Account{
		ID:          1,
		WorkspaceID: 1,
		Name:        "Checking",
		Balance:     decimal.NewFromInt(1000),
		IsEnabled:   true,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/forecast", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := f.handler.GetForecast(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response ForecastResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response.Points) != 31 {
		t.Errorf("Expected 31 forecast points, got %d", len(response.Points))
	}
	if response.Points[0].IsProjected {
		t.Error("Expected first point to be actual")
	}
	if response.Summary.Status == "" {
		t.Error("Expected a forecast status")
	}
}

func TestGetSimulation_Success(t *testing.T) {
	e := echo.New()
	f := newAnalyticsFixture()
	f.accounts.AddAccount(&domain.Account{
		ID:          1,
		WorkspaceID: 1,
		Name:        "Checking",
		Balance:     decimal.NewFromInt(5000),
		IsEnabled:   true,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/simulation", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := f.handler.GetSimulation(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response SimulationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response.Baseline) != 366 || len(response.Simulated) != 366 {
		t.Errorf("Expected 366 points per walk, got %d/%d", len(response.Baseline), len(response.Simulated))
	}
	if response.Verdict != string(domain.VerdictNeutral) {
		t.Errorf("Expected neutral verdict with no scenarios, got %s", response.Verdict)
	}
}

func TestGetSimulation_MalformedScenario(t *testing.T) {
	e := echo.New()
	f := newAnalyticsFixture()
	f.accounts.AddAccount(&domain.Account{
		ID:          1,
		WorkspaceID: 1,
		Name:        "Checking",
		Balance:     decimal.NewFromInt(5000),
		IsEnabled:   true,
	})
	pct := int32(50)
	f.scenarios.AddScenario(&domain.Scenario{
		ID:          1,
		WorkspaceID: 1,
		Name:        "Broken cut",
		Type:        domain.ScenarioExpenseCut,
		Percentage:  &pct,
		IsActive:    true,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/simulation", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := f.handler.GetSimulation(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
