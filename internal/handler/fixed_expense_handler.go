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

// FixedExpenseHandler handles fixed expense HTTP requests
type FixedExpenseHandler struct {
	fixedExpenseService *service.FixedExpenseService
}

// NewFixedExpenseHandler creates a new FixedExpenseHandler
func NewFixedExpenseHandler(fixedExpenseService *service.FixedExpenseService) *FixedExpenseHandler {
	return &FixedExpenseHandler{fixedExpenseService: fixedExpenseService}
}

// FixedExpenseRequest represents the create/update fixed expense request body
type FixedExpenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	DueDay      int32  `json:"dueDay"`
}

// FixedExpenseResponse represents a fixed expense in API responses
type FixedExpenseResponse struct {
	ID          int32  `json:"id"`
	WorkspaceID int32  `json:"workspaceId"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	DueDay      int32  `json:"dueDay"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toFixedExpenseResponse(fe *domain.FixedExpense) FixedExpenseResponse {
	return FixedExpenseResponse{
		ID:          fe.ID,
		WorkspaceID: fe.WorkspaceID,
		Description: fe.Description,
		Amount:      fe.Amount.StringFixed(2),
		DueDay:      fe.DueDay,
		CreatedAt:   fe.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   fe.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *FixedExpenseHandler) parseInput(c echo.Context) (*service.CreateFixedExpenseInput, error) {
	var req FixedExpenseRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.New("invalid request body")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, errors.New("amount must be a valid decimal number")
	}

	return &service.CreateFixedExpenseInput{
		Description: req.Description,
		Amount:      amount,
		DueDay:      req.DueDay,
	}, nil
}

// CreateFixedExpense handles POST /api/v1/fixed-expenses
func (h *FixedExpenseHandler) CreateFixedExpense(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	input, err := h.parseInput(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	fe, err := h.fixedExpenseService.CreateFixedExpense(workspaceID, *input)
	if err != nil {
		if verr := fixedExpenseValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create fixed expense")
		return NewInternalError(c, "Failed to create fixed expense")
	}

	return c.JSON(http.StatusCreated, toFixedExpenseResponse(fe))
}

// GetFixedExpenses handles GET /api/v1/fixed-expenses
func (h *FixedExpenseHandler) GetFixedExpenses(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	expenses, err := h.fixedExpenseService.GetFixedExpenses(workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get fixed expenses")
		return NewInternalError(c, "Failed to get fixed expenses")
	}

	response := make([]FixedExpenseResponse, len(expenses))
	for i, fe := range expenses {
		response[i] = toFixedExpenseResponse(fe)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateFixedExpense handles PUT /api/v1/fixed-expenses/:id
func (h *FixedExpenseHandler) UpdateFixedExpense(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid fixed expense ID", nil)
	}

	input, err := h.parseInput(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	fe, err := h.fixedExpenseService.UpdateFixedExpense(workspaceID, id, *input)
	if err != nil {
		if errors.Is(err, domain.ErrFixedExpenseNotFound) {
			return NewNotFoundError(c, "Fixed expense not found")
		}
		if verr := fixedExpenseValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("fixed_expense_id", id).Msg("Failed to update fixed expense")
		return NewInternalError(c, "Failed to update fixed expense")
	}

	return c.JSON(http.StatusOK, toFixedExpenseResponse(fe))
}

// DeleteFixedExpense handles DELETE /api/v1/fixed-expenses/:id
func (h *FixedExpenseHandler) DeleteFixedExpense(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid fixed expense ID", nil)
	}

	if err := h.fixedExpenseService.DeleteFixedExpense(workspaceID, id); err != nil {
		if errors.Is(err, domain.ErrFixedExpenseNotFound) {
			return NewNotFoundError(c, "Fixed expense not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("fixed_expense_id", id).Msg("Failed to delete fixed expense")
		return NewInternalError(c, "Failed to delete fixed expense")
	}

	return c.NoContent(http.StatusNoContent)
}

func fixedExpenseValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	case errors.Is(err, domain.ErrFixedExpenseAmountInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrDueDayInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "dueDay", Message: "Due day must be between 1 and 31"},
		})
	}
	return nil
}
