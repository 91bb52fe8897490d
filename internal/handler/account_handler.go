package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents the create account request body
type CreateAccountRequest struct {
	Name           string `json:"name"`
	InitialBalance string `json:"initialBalance"`
}

// UpdateAccountRequest represents the update account request body
type UpdateAccountRequest struct {
	Name string `json:"name"`
}

// SetAccountEnabledRequest represents the enable/disable request body
type SetAccountEnabledRequest struct {
	IsEnabled bool `json:"isEnabled"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID             int32  `json:"id"`
	WorkspaceID    int32  `json:"workspaceId"`
	Name           string `json:"name"`
	Balance        string `json:"balance"`
	InitialBalance string `json:"initialBalance"`
	IsEnabled      bool   `json:"isEnabled"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

func toAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		WorkspaceID:    a.WorkspaceID,
		Name:           a.Name,
		Balance:        a.Balance.StringFixed(2),
		InitialBalance: a.InitialBalance.StringFixed(2),
		IsEnabled:      a.IsEnabled,
		CreatedAt:      a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      a.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateAccount handles POST /api/v1/accounts
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	initialBalance := decimal.Zero
	if req.InitialBalance != "" {
		parsed, err := decimal.NewFromString(req.InitialBalance)
		if err != nil {
			return NewValidationError(c, "Invalid initial balance", []ValidationError{
				{Field: "initialBalance", Message: "Must be a valid decimal number"},
			})
		}
		initialBalance = parsed
	}

	account, err := h.accountService.CreateAccount(workspaceID, service.CreateAccountInput{
		Name:           req.Name,
		InitialBalance: initialBalance,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is too long"},
			})
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create account")
		return NewInternalError(c, "Failed to create account")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("account_id", account.ID).Msg("Account created")

	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// GetAccounts handles GET /api/v1/accounts
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	includeDisabled := c.QueryParam("includeDisabled") == "true"

	accounts, err := h.accountService.GetAccounts(workspaceID, includeDisabled)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get accounts")
		return NewInternalError(c, "Failed to get accounts")
	}

	response := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		response[i] = toAccountResponse(account)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateAccount handles PUT /api/v1/accounts/:id
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	account, err := h.accountService.RenameAccount(workspaceID, id, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is too long"},
			})
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("account_id", id).Msg("Failed to update account")
		return NewInternalError(c, "Failed to update account")
	}

	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// SetEnabled handles PATCH /api/v1/accounts/:id/enabled
func (h *AccountHandler) SetEnabled(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	var req SetAccountEnabledRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	account, err := h.accountService.SetEnabled(workspaceID, id, req.IsEnabled)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("account_id", id).Msg("Failed to toggle account")
		return NewInternalError(c, "Failed to toggle account")
	}

	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// DeleteAccount handles DELETE /api/v1/accounts/:id
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	if err := h.accountService.DeleteAccount(workspaceID, id); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("account_id", id).Msg("Failed to delete account")
		return NewInternalError(c, "Failed to delete account")
	}

	return c.NoContent(http.StatusNoContent)
}

func parseIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return int32(id), nil
}
