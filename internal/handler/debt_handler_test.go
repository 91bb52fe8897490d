package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/mintleaf/mintleaf-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func newDebtHandler(debtRepo *testutil.MockDebtRepository) *DebtHandler {
	return NewDebtHandler(service.NewDebtService(debtRepo), service.NewPayoffService(debtRepo))
}

func TestCreateDebt_Success(t *testing.T) {
	e := echo.New()
	handler := newDebtHandler(testutil.NewMockDebtRepository())

	reqBody := `{"name": "Visa", "currentBalance": "1200.00", "interestRate": "12.00", "minimumPayment": "100.00", "dueDay": 15}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/debts", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := handler.CreateDebt(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response DebtResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.CurrentBalance != "1200.00" {
		t.Errorf("Expected balance '1200.00', got %s", response.CurrentBalance)
	}
}

func TestCreateDebt_ValidationFailure(t *testing.T) {
	e := echo.New()
	handler := newDebtHandler(testutil.NewMockDebtRepository())

	reqBody := `{"name": "Visa", "currentBalance": "0", "interestRate": "12.00", "minimumPayment": "100.00", "dueDay": 15}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/debts", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := handler.CreateDebt(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetPayoffProjection_DefaultsToAvalanche(t *testing.T) {
	e := echo.New()
	debtRepo := testutil.NewMockDebtRepository()
	handler := newDebtHandler(debtRepo)

	debtRepo.AddDebt(&domain.Debt{
		ID:             1,
		WorkspaceID:    1,
		Name:           "Visa",
		CurrentBalance: decimal.NewFromInt(1200),
		InterestRate:   decimal.NewFromInt(12),
		MinimumPayment: decimal.NewFromInt(100),
		DueDay:         15,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/debts/payoff", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := handler.GetPayoffProjection(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response PayoffProjectionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.MonthsToPayoff == 0 {
		t.Error("Expected a non-trivial payoff horizon")
	}
	if !response.Converged {
		t.Error("Expected a converging projection")
	}
	if len(response.MonthlyAmortization) != response.MonthsToPayoff {
		t.Errorf("Expected %d schedule entries, got %d", response.MonthsToPayoff, len(response.MonthlyAmortization))
	}
}

func TestGetPayoffProjection_InvalidStrategy(t *testing.T) {
	e := echo.New()
	handler := newDebtHandler(testutil.NewMockDebtRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/debts/payoff?strategy=blizzard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := handler.GetPayoffProjection(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetPayoffProjection_NegativeExtraPayment(t *testing.T) {
	e := echo.New()
	handler := newDebtHandler(testutil.NewMockDebtRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/debts/payoff?extra=-50", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := handler.GetPayoffProjection(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetPayoffProjection_NonConvergingFlagged(t *testing.T) {
	e := echo.New()
	debtRepo := testutil.NewMockDebtRepository()
	handler := newDebtHandler(debtRepo)

	// Minimum payment below the monthly interest: never converges.
	debtRepo.AddDebt(&domain.Debt{
		ID:             1,
		WorkspaceID:    1,
		Name:           "Underwater",
		CurrentBalance: decimal.NewFromInt(10000),
		InterestRate:   decimal.NewFromInt(24),
		MinimumPayment: decimal.NewFromInt(50),
		DueDay:         15,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/debts/payoff", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := handler.GetPayoffProjection(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response PayoffProjectionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Converged {
		t.Error("Expected non-converging projection to be flagged")
	}
	if response.MonthsToPayoff != domain.PayoffCapMonths {
		t.Errorf("Expected cap of %d months, got %d", domain.PayoffCapMonths, response.MonthsToPayoff)
	}
}
