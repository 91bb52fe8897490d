package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ScenarioHandler handles what-if scenario HTTP requests
type ScenarioHandler struct {
	scenarioService *service.ScenarioService
}

// NewScenarioHandler creates a new ScenarioHandler
func NewScenarioHandler(scenarioService *service.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{scenarioService: scenarioService}
}

// CreateScenarioRequest represents the create scenario request body.
// Which fields are required depends on type: expense_cut takes category
// and percentage, income_boost and recurring_expense take amount, and
// big_purchase takes amount and purchaseDate.
type CreateScenarioRequest struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Category     *string `json:"category,omitempty"`
	Percentage   *int32  `json:"percentage,omitempty"`
	Amount       string  `json:"amount,omitempty"`
	PurchaseDate *string `json:"purchaseDate,omitempty"`
}

// SetScenarioActiveRequest represents the activate/deactivate request body
type SetScenarioActiveRequest struct {
	IsActive bool `json:"isActive"`
}

// ScenarioResponse represents a scenario in API responses
type ScenarioResponse struct {
	ID           int32   `json:"id"`
	WorkspaceID  int32   `json:"workspaceId"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Category     *string `json:"category,omitempty"`
	Percentage   *int32  `json:"percentage,omitempty"`
	Amount       string  `json:"amount"`
	PurchaseDate *string `json:"purchaseDate,omitempty"`
	IsActive     bool    `json:"isActive"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

func toScenarioResponse(s *domain.Scenario) ScenarioResponse {
	resp := ScenarioResponse{
		ID:          s.ID,
		WorkspaceID: s.WorkspaceID,
		Name:        s.Name,
		Type:        string(s.Type),
		Category:    s.Category,
		Percentage:  s.Percentage,
		Amount:      s.Amount.StringFixed(2),
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   s.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if s.PurchaseDate != nil {
		date := s.PurchaseDate.Format("2006-01-02")
		resp.PurchaseDate = &date
	}
	return resp
}

// CreateScenario handles POST /api/v1/scenarios
func (h *ScenarioHandler) CreateScenario(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CreateScenarioRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount := decimal.Zero
	if req.Amount != "" {
		parsed, err := decimal.NewFromString(req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		amount = parsed
	}

	var purchaseDate *time.Time
	if req.PurchaseDate != nil && *req.PurchaseDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.PurchaseDate)
		if err != nil {
			return NewValidationError(c, "Invalid purchase date", []ValidationError{
				{Field: "purchaseDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		purchaseDate = &parsed
	}

	scenario, err := h.scenarioService.CreateScenario(workspaceID, service.CreateScenarioInput{
		Name:         req.Name,
		Type:         domain.ScenarioType(req.Type),
		Category:     req.Category,
		Percentage:   req.Percentage,
		Amount:       amount,
		PurchaseDate: purchaseDate,
	})
	if err != nil {
		if verr := scenarioValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to create scenario")
		return NewInternalError(c, "Failed to create scenario")
	}

	log.Info().Int32("workspace_id", workspaceID).Int32("scenario_id", scenario.ID).Str("type", string(scenario.Type)).Msg("Scenario created")

	return c.JSON(http.StatusCreated, toScenarioResponse(scenario))
}

// GetScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) GetScenarios(c echo.Context) error {
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

	scenarios, err := h.scenarioService.GetScenarios(workspaceID, activeOnly)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to get scenarios")
		return NewInternalError(c, "Failed to get scenarios")
	}

	response := make([]ScenarioResponse, len(scenarios))
	for i, scenario := range scenarios {
		response[i] = toScenarioResponse(scenario)
	}

	return c.JSON(http.StatusOK, response)
}

// SetActive handles PATCH /api/v1/scenarios/:id/active
func (h *ScenarioHandler) SetActive(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid scenario ID", nil)
	}

	var req SetScenarioActiveRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	scenario, err := h.scenarioService.SetActive(workspaceID, id, req.IsActive)
	if err != nil {
		if errors.Is(err, domain.ErrScenarioNotFound) {
			return NewNotFoundError(c, "Scenario not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("scenario_id", id).Msg("Failed to toggle scenario")
		return NewInternalError(c, "Failed to toggle scenario")
	}

	return c.JSON(http.StatusOK, toScenarioResponse(scenario))
}

// DeleteScenario handles DELETE /api/v1/scenarios/:id
func (h *ScenarioHandler) DeleteScenario(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid scenario ID", nil)
	}

	if err := h.scenarioService.DeleteScenario(workspaceID, id); err != nil {
		if errors.Is(err, domain.ErrScenarioNotFound) {
			return NewNotFoundError(c, "Scenario not found")
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Int32("scenario_id", id).Msg("Failed to delete scenario")
		return NewInternalError(c, "Failed to delete scenario")
	}

	return c.NoContent(http.StatusNoContent)
}

func scenarioValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrScenarioTypeInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be expense_cut, income_boost, recurring_expense, or big_purchase"},
		})
	case errors.Is(err, domain.ErrScenarioCategoryRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Expense cut scenarios require a category"},
		})
	case errors.Is(err, domain.ErrScenarioPercentageRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "percentage", Message: "Percentage must be between 1 and 100"},
		})
	case errors.Is(err, domain.ErrScenarioAmountInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrScenarioDateRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "purchaseDate", Message: "Big purchase scenarios require a date"},
		})
	case errors.Is(err, domain.ErrCategoryNotFound):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category does not exist in this workspace"},
		})
	}
	return nil
}
