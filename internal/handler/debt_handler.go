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

// DebtHandler handles debt-related HTTP requests
type DebtHandler struct {
	debtService   *service.DebtService
	payoffService *service.PayoffService
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debtService *service.DebtService, payoffService *service.PayoffService) *DebtHandler {
	return &DebtHandler{debtService: debtService, payoffService: payoffService}
}

// DebtRequest represents the create/update debt request body
type DebtRequest struct {
	Name           string `json:"name"`
	CurrentBalance string `json:"currentBalance"`
	InterestRate   string `json:"interestRate"`
	MinimumPayment string `json:"minimumPayment"`
	DueDay         int32  `json:"dueDay"`
}

// DebtResponse represents a debt in API responses
type DebtResponse struct {
	ID             int32  `json:"id"`
	WorkspaceID    int32  `json:"workspaceId"`
	Name           string `json:"name"`
	CurrentBalance string `json:"currentBalance"`
	InterestRate   string `json:"interestRate"`
	MinimumPayment string `json:"minimumPayment"`
	DueDay         int32  `json:"dueDay"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

// AmortizationEntryResponse is a month of the payoff schedule in API responses
type AmortizationEntryResponse struct {
	Month            int    `json:"month"`
	RemainingBalance string `json:"remainingBalance"`
	InterestPaid     string `json:"interestPaid"`
	PrincipalPaid    string `json:"principalPaid"`
}

// PayoffProjectionResponse represents the payoff projection in API responses
type PayoffProjectionResponse struct {
	DebtFreeDate        string                      `json:"debtFreeDate"`
	TotalInterestPaid   string                      `json:"totalInterestPaid"`
	MonthsToPayoff      int                         `json:"monthsToPayoff"`
	Converged           bool                        `json:"converged"`
	MonthlyAmortization []AmortizationEntryResponse `json:"monthlyAmortization"`
}

func toDebtResponse(d *domain.Debt) DebtResponse {
	return DebtResponse{
		ID:             d.ID,
		WorkspaceID:    d.WorkspaceID,
		Name:           d.Name,
		CurrentBalance: d.CurrentBalance.StringFixed(2),
		InterestRate:   d.InterestRate.StringFixed(2),
		MinimumPayment: d.MinimumPayment.StringFixed(2),
		DueDay:         d.DueDay,
		CreatedAt:      d.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      d.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func parseDebtRequest(c echo.Context) (*service.CreateDebtInput, error) {
	var req DebtRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.New("invalid request body")
	}

	balance, err := decimal.NewFromString(req.CurrentBalance)
	if err != nil {
		return nil, errors.New("currentBalance must be a valid decimal number")
	}
	rate, err := decimal.NewFromString(req.InterestRate)
	if err != nil {
		return nil, errors.New("interestRate must be a valid decimal number")
	}
	payment, err := decimal.NewFromString(req.MinimumPayment)
	if err != nil {
		return nil, errors.New("minimumPayment must be a valid decimal number")
	}

	return &service.CreateDebtInput{
		Name:           req.Name,
		CurrentBalance: balance,
		InterestRate:   rate,
		MinimumPayment: payment,
		DueDay:         req.DueDay,
	}, nil
}

// CreateDebt handles POST /api/v1/debts
func (h *DebtHandler) CreateDebt(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	input, err := parseDebtRequest(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	debt, err := h.debtService.CreateDebt(workspaceID, *input)
	if err != nil {
		if verr := debtValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create debt")
		return NewInternalError(c, "Failed to create debt")
	}

	return c.JSON(http.StatusCreated, toDebtResponse(debt))
}

// GetDebts handles GET /api/v1/debts
func (h *DebtHandler) GetDebts(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	debts, err := h.debtService.GetDebts(workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get debts")
		return NewInternalError(c, "Failed to get debts")
	}

	response := make([]DebtResponse, len(debts))
	for i, debt := range debts {
		response[i] = toDebtResponse(debt)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateDebt handles PUT /api/v1/debts/:id
func (h *DebtHandler) UpdateDebt(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	input, err := parseDebtRequest(c)
	if err != nil {
		return NewValidationError(c, err.Error(), nil)
	}

	debt, err := h.debtService.UpdateDebt(workspaceID, id, *input)
	if err != nil {
		if errors.Is(err, domain.ErrDebtNotFound) {
			return NewNotFoundError(c, "Debt not found")
		}
		if verr := debtValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("debt_id", id).Msg("Failed to update debt")
		return NewInternalError(c, "Failed to update debt")
	}

	return c.JSON(http.StatusOK, toDebtResponse(debt))
}

// DeleteDebt handles DELETE /api/v1/debts/:id
func (h *DebtHandler) DeleteDebt(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	if err := h.debtService.DeleteDebt(workspaceID, id); err != nil {
		if errors.Is(err, domain.ErrDebtNotFound) {
			return NewNotFoundError(c, "Debt not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("debt_id", id).Msg("Failed to delete debt")
		return NewInternalError(c, "Failed to delete debt")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetPayoffProjection handles GET /api/v1/debts/payoff
func (h *DebtHandler) GetPayoffProjection(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	strategyParam := c.QueryParam("strategy")
	if strategyParam == "" {
		strategyParam = string(domain.StrategyAvalanche)
	}
	strategy, err := domain.ParsePayoffStrategy(strategyParam)
	if err != nil {
		return NewValidationError(c, "Invalid strategy", []ValidationError{
			{Field: "strategy", Message: "Must be 'avalanche' or 'snowball'"},
		})
	}

	extraPayment := decimal.Zero
	if v := c.QueryParam("extra"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return NewValidationError(c, "Invalid extra payment", []ValidationError{
				{Field: "extra", Message: "Must be a valid decimal number"},
			})
		}
		extraPayment = parsed
	}

	projection, err := h.payoffService.GetProjection(workspaceID, extraPayment, strategy)
	if err != nil {
		if errors.Is(err, service.ErrExtraPaymentNegative) {
			return NewValidationError(c, "Invalid extra payment", []ValidationError{
				{Field: "extra", Message: "Extra payment cannot be negative"},
			})
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to compute payoff projection")
		return NewInternalError(c, "Failed to compute payoff projection")
	}

	schedule := make([]AmortizationEntryResponse, len(projection.MonthlyAmortization))
	for i, entry := range projection.MonthlyAmortization {
		schedule[i] = AmortizationEntryResponse{
			Month:            entry.Month,
			RemainingBalance: entry.RemainingBalance.StringFixed(2),
			InterestPaid:     entry.InterestPaid.StringFixed(2),
			PrincipalPaid:    entry.PrincipalPaid.StringFixed(2),
		}
	}

	converged := true
	if projection.MonthsToPayoff >= domain.PayoffCapMonths && len(schedule) > 0 {
		last := projection.MonthlyAmortization[len(projection.MonthlyAmortization)-1]
		converged = last.RemainingBalance.IsZero()
	}

	return c.JSON(http.StatusOK, PayoffProjectionResponse{
		DebtFreeDate:        projection.DebtFreeDate.Format("2006-01-02"),
		TotalInterestPaid:   projection.TotalInterestPaid.StringFixed(2),
		MonthsToPayoff:      projection.MonthsToPayoff,
		Converged:           converged,
		MonthlyAmortization: schedule,
	})
}

func debtValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrDebtBalanceInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "currentBalance", Message: "Balance must be positive"},
		})
	case errors.Is(err, domain.ErrDebtRateInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "interestRate", Message: "Interest rate cannot be negative"},
		})
	case errors.Is(err, domain.ErrDebtPaymentInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "minimumPayment", Message: "Minimum payment must be positive"},
		})
	case errors.Is(err, domain.ErrDueDayInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "dueDay", Message: "Due day must be between 1 and 31"},
		})
	}
	return nil
}
