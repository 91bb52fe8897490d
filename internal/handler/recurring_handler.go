package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// RecurringHandler handles recurring transaction HTTP requests
type RecurringHandler struct {
	recurringService *service.RecurringService
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(recurringService *service.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// CreateRecurringRequest represents the create recurring request body
type CreateRecurringRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	DueDay      int32  `json:"dueDay"`
}

// UpdateRecurringRequest represents the update recurring request body
type UpdateRecurringRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	DueDay      int32  `json:"dueDay"`
	IsActive    bool   `json:"isActive"`
}

// RecurringResponse represents a recurring transaction in API responses
type RecurringResponse struct {
	ID          int32  `json:"id"`
	WorkspaceID int32  `json:"workspaceId"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	DueDay      int32  `json:"dueDay"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toRecurringResponse(rt *domain.RecurringTransaction) RecurringResponse {
	return RecurringResponse{
		ID:          rt.ID,
		WorkspaceID: rt.WorkspaceID,
		Description: rt.Description,
		Amount:      rt.Amount.StringFixed(2),
		Type:        string(rt.Type),
		DueDay:      rt.DueDay,
		IsActive:    rt.IsActive,
		CreatedAt:   rt.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   rt.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateRecurring handles POST /api/v1/recurring
func (h *RecurringHandler) CreateRecurring(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CreateRecurringRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	rt, err := h.recurringService.CreateRecurring(workspaceID, service.CreateRecurringInput{
		Description: req.Description,
		Amount:      amount,
		Type:        domain.TransactionType(req.Type),
		DueDay:      req.DueDay,
	})
	if err != nil {
		if verr := recurringValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create recurring transaction")
		return NewInternalError(c, "Failed to create recurring transaction")
	}

	return c.JSON(http.StatusCreated, toRecurringResponse(rt))
}

// GetRecurring handles GET /api/v1/recurring
func (h *RecurringHandler) GetRecurring(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var activeOnly *bool
	switch c.QueryParam("active") {
	case "true":
		v := true
		activeOnly = &v
	case "false":
		v := false
		activeOnly = &v
	case "":
	default:
		return NewValidationError(c, "Invalid active parameter", []ValidationError{
			{Field: "active", Message: "Must be 'true' or 'false'"},
		})
	}

	templates, err := h.recurringService.GetRecurring(workspaceID, activeOnly)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get recurring transactions")
		return NewInternalError(c, "Failed to get recurring transactions")
	}

	response := make([]RecurringResponse, len(templates))
	for i, rt := range templates {
		response[i] = toRecurringResponse(rt)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateRecurring handles PUT /api/v1/recurring/:id
func (h *RecurringHandler) UpdateRecurring(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid recurring transaction ID", nil)
	}

	var req UpdateRecurringRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	rt, err := h.recurringService.UpdateRecurring(workspaceID, id, service.UpdateRecurringInput{
		Description: req.Description,
		Amount:      amount,
		Type:        domain.TransactionType(req.Type),
		DueDay:      req.DueDay,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecurringNotFound) {
			return NewNotFoundError(c, "Recurring transaction not found")
		}
		if verr := recurringValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("recurring_id", id).Msg("Failed to update recurring transaction")
		return NewInternalError(c, "Failed to update recurring transaction")
	}

	return c.JSON(http.StatusOK, toRecurringResponse(rt))
}

// DeleteRecurring handles DELETE /api/v1/recurring/:id
func (h *RecurringHandler) DeleteRecurring(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid recurring transaction ID", nil)
	}

	if err := h.recurringService.DeleteRecurring(workspaceID, id); err != nil {
		if errors.Is(err, domain.ErrRecurringNotFound) {
			return NewNotFoundError(c, "Recurring transaction not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("recurring_id", id).Msg("Failed to delete recurring transaction")
		return NewInternalError(c, "Failed to delete recurring transaction")
	}

	return c.NoContent(http.StatusNoContent)
}

func recurringValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	case errors.Is(err, domain.ErrRecurringAmountInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrTransactionTypeInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be 'income' or 'expense'"},
		})
	case errors.Is(err, domain.ErrDueDayInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "dueDay", Message: "Due day must be between 1 and 31"},
		})
	}
	return nil
}
