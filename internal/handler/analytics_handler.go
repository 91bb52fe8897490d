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

// AnalyticsHandler serves the computed projections: risk analysis, net
// worth, the 30-day forecast, and the 365-day scenario simulation
type AnalyticsHandler struct {
	metricsService    *service.MetricsService
	forecastService   *service.ForecastService
	simulationService *service.SimulationService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(
	metricsService *service.MetricsService,
	forecastService *service.ForecastService,
	simulationService *service.SimulationService,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		metricsService:    metricsService,
		forecastService:   forecastService,
		simulationService: simulationService,
	}
}

// RiskResponse represents the risk analysis in API responses
type RiskResponse struct {
	RiskLevel        string `json:"riskLevel"`
	BurnRate         string `json:"burnRate"`
	DaysUntilEmpty   int    `json:"daysUntilEmpty"`
	ProjectedBalance string `json:"projectedBalance"`
}

// NetWorthResponse represents the net worth calculation in API responses
type NetWorthResponse struct {
	Liquidity   string `json:"liquidity"`
	Assets      string `json:"assets"`
	Liabilities string `json:"liabilities"`
	NetWorth    string `json:"netWorth"`
}

// ForecastPointResponse is a single day of the forecast
type ForecastPointResponse struct {
	Date        string `json:"date"`
	Balance     string `json:"balance"`
	IsProjected bool   `json:"isProjected"`
	Cashflow    string `json:"cashflow"`
	Event       string `json:"event,omitempty"`
}

// ForecastSummaryResponse summarizes the forecast window
type ForecastSummaryResponse struct {
	MonthEndBalance   string `json:"monthEndBalance"`
	LowestBalance     string `json:"lowestBalance"`
	LowestBalanceDate string `json:"lowestBalanceDate"`
	BurnRate          string `json:"burnRate"`
	Status            string `json:"status"`
	DaysUntilNegative int    `json:"daysUntilNegative"`
}

// ForecastResponse represents the 30-day forecast in API responses
type ForecastResponse struct {
	Points  []ForecastPointResponse `json:"points"`
	Summary ForecastSummaryResponse `json:"summary"`
}

// SimulationPointResponse is a single day of a simulated balance walk
type SimulationPointResponse struct {
	Date    string `json:"date"`
	Balance string `json:"balance"`
}

// SimulationResponse represents the 365-day simulation in API responses
type SimulationResponse struct {
	Baseline           []SimulationPointResponse `json:"baseline"`
	Simulated          []SimulationPointResponse `json:"simulated"`
	Difference6Months  string                    `json:"difference6Months"`
	Difference12Months string                    `json:"difference12Months"`
	Verdict            string                    `json:"verdict"`
}

// GetRisk handles GET /api/v1/analytics/risk
func (h *AnalyticsHandler) GetRisk(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	analysis, err := h.metricsService.AnalyzeRisk(workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to analyze risk")
		return NewInternalError(c, "Failed to analyze risk")
	}

	return c.JSON(http.StatusOK, RiskResponse{
		RiskLevel:        string(analysis.RiskLevel),
		BurnRate:         analysis.BurnRate.StringFixed(2),
		DaysUntilEmpty:   analysis.DaysUntilEmpty,
		ProjectedBalance: analysis.ProjectedBalance.StringFixed(2),
	})
}

// GetNetWorth handles GET /api/v1/analytics/networth
func (h *AnalyticsHandler) GetNetWorth(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	assets := decimal.Zero
	if v := c.QueryParam("assets"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return NewValidationError(c, "Invalid assets value", []ValidationError{
				{Field: "assets", Message: "Must be a valid decimal number"},
			})
		}
		assets = parsed
	}

	liabilities := decimal.Zero
	if v := c.QueryParam("liabilities"); v != "" {
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return NewValidationError(c, "Invalid liabilities value", []ValidationError{
				{Field: "liabilities", Message: "Must be a valid decimal number"},
			})
		}
		liabilities = parsed
	}

	netWorth, err := h.metricsService.NetWorth(workspaceID, assets, liabilities)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to compute net worth")
		return NewInternalError(c, "Failed to compute net worth")
	}

	liquidity := netWorth.Sub(assets).Add(liabilities)

	return c.JSON(http.StatusOK, NetWorthResponse{
		Liquidity:   liquidity.StringFixed(2),
		Assets:      assets.StringFixed(2),
		Liabilities: liabilities.StringFixed(2),
		NetWorth:    netWorth.StringFixed(2),
	})
}

// GetForecast handles GET /api/v1/analytics/forecast
func (h *AnalyticsHandler) GetForecast(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	forecast, err := h.forecastService.GetForecast(workspaceID)
	if err != nil {
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to generate forecast")
		return NewInternalError(c, "Failed to generate forecast")
	}

	points := make([]ForecastPointResponse, len(forecast.Points))
	for i, p := range forecast.Points {
		points[i] = ForecastPointResponse{
			Date:        p.Date.Format("2006-01-02"),
			Balance:     p.Balance.StringFixed(2),
			IsProjected: p.IsProjected,
			Cashflow:    p.Cashflow.StringFixed(2),
			Event:       p.Event,
		}
	}

	return c.JSON(http.StatusOK, ForecastResponse{
		Points: points,
		Summary: ForecastSummaryResponse{
			MonthEndBalance:   forecast.Summary.MonthEndBalance.StringFixed(2),
			LowestBalance:     forecast.Summary.LowestBalance.StringFixed(2),
			LowestBalanceDate: forecast.Summary.LowestBalanceDate.Format("2006-01-02"),
			BurnRate:          forecast.Summary.BurnRate.StringFixed(2),
			Status:            string(forecast.Summary.Status),
			DaysUntilNegative: forecast.Summary.DaysUntilNegative,
		},
	})
}

// GetSimulation handles GET /api/v1/analytics/simulation
func (h *AnalyticsHandler) GetSimulation(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == 0 {
		return NewUnauthorizedError(c, "Workspace required")
	}

	result, err := h.simulationService.Run(workspaceID)
	if err != nil {
		if isScenarioValidationError(err) {
			return NewValidationError(c, err.Error(), nil)
		}
		log.Error().Err(err).Int32("workspace_id", workspaceID).Msg("Failed to run simulation")
		return NewInternalError(c, "Failed to run simulation")
	}

	return c.JSON(http.StatusOK, SimulationResponse{
		Baseline:           toSimulationPoints(result.Baseline),
		Simulated:          toSimulationPoints(result.Simulated),
		Difference6Months:  result.Difference6Months.StringFixed(2),
		Difference12Months: result.Difference12Months.StringFixed(2),
		Verdict:            string(result.Verdict),
	})
}

func isScenarioValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrScenarioTypeInvalid,
		domain.ErrScenarioCategoryRequired,
		domain.ErrScenarioPercentageRequired,
		domain.ErrScenarioAmountInvalid,
		domain.ErrScenarioDateRequired,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func toSimulationPoints(points []domain.SimulationPoint) []SimulationPointResponse {
	out := make([]SimulationPointResponse, len(points))
	for i, p := range points {
		out[i] = SimulationPointResponse{
			Date:    p.Date.Format("2006-01-02"),
			Balance: p.Balance.StringFixed(2),
		}
	}
	return out
}
