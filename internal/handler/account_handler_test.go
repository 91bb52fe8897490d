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

func TestCreateAccount_Success(t *testing.T) {
	e := echo.New()
	accountRepo := testutil.NewMockAccountRepository()
	handler := NewAccountHandler(service.NewAccountService(accountRepo))

	reqBody := `{"name": "My Savings", "initialBalance": "1000.50"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "Test User", "", 1)

	if err := handler.CreateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var response AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Name != "My Savings" {
		t.Errorf("Expected name 'My Savings', got %s", response.Name)
	}
	if response.Balance != "1000.50" {
		t.Errorf("Expected balance '1000.50', got %s", response.Balance)
	}
	if !response.IsEnabled {
		t.Error("Expected new account enabled")
	}
}

func TestCreateAccount_InvalidBalance(t *testing.T) {
	e := echo.New()
	handler := NewAccountHandler(service.NewAccountService(testutil.NewMockAccountRepository()))

	reqBody := `{"name": "My Savings", "initialBalance": "not-a-number"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := handler.CreateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("Failed to unmarshal problem details: %v", err)
	}
	if problem.Status != http.StatusBadRequest {
		t.Errorf("Expected problem status 400, got %d", problem.Status)
	}
}

func TestCreateAccount_MissingWorkspace(t *testing.T) {
	e := echo.New()
	handler := NewAccountHandler(service.NewAccountService(testutil.NewMockAccountRepository()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", strings.NewReader(`{"name": "X"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	setupAuthContext(c, "auth0|test", "test@example.com", "", "")

	if err := handler.CreateAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGetAccounts_IncludeDisabled(t *testing.T) {
	e := echo.New()
	accountRepo := testutil.NewMockAccountRepository()
	handler := NewAccountHandler(service.NewAccountService(accountRepo))

	accountRepo.AddAccount(&domain.Account{
		ID: 1, WorkspaceID: 1, Name: "Active", Balance: decimal.NewFromInt(100), IsEnabled: true,
	})
	accountRepo.AddAccount(&domain.Account{
		ID: 2, WorkspaceID: 1, Name: "Disabled", Balance: decimal.NewFromInt(50), IsEnabled: false,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts?includeDisabled=true", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := handler.GetAccounts(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 2 {
		t.Errorf("Expected 2 accounts with includeDisabled, got %d", len(response))
	}

	// Default hides the disabled account.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := handler.GetAccounts(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Errorf("Expected 1 enabled account by default, got %d", len(response))
	}
}

func TestSetAccountEnabled(t *testing.T) {
	e := echo.New()
	accountRepo := testutil.NewMockAccountRepository()
	handler := NewAccountHandler(service.NewAccountService(accountRepo))

	accountRepo.AddAccount(&domain.Account{
		ID: 1, WorkspaceID: 1, Name: "Savings", Balance: decimal.NewFromInt(100), IsEnabled: true,
	})

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/accounts/1/enabled", strings.NewReader(`{"isEnabled": false}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := handler.SetEnabled(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.IsEnabled {
		t.Error("Expected account disabled")
	}
}

func TestDeleteAccount_NotFound(t *testing.T) {
	e := echo.New()
	handler := NewAccountHandler(service.NewAccountService(testutil.NewMockAccountRepository()))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/42", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("42")
	setupAuthContextWithWorkspace(c, "auth0|test", "test@example.com", "", "", 1)

	if err := handler.DeleteAccount(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
