package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
)

// Handlers bundles every HTTP handler for route registration
type Handlers struct {
	Auth         *AuthHandler
	Account      *AccountHandler
	Transaction  *TransactionHandler
	Category     *CategoryHandler
	FixedExpense *FixedExpenseHandler
	Recurring    *RecurringHandler
	Scenario     *ScenarioHandler
	Debt         *DebtHandler
	Analytics    *AnalyticsHandler
	Receipt      *ReceiptHandler
	WebSocket    *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.POST("/callback", h.Auth.Callback)
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)

	// Account routes (protected)
	accounts := api.Group("/accounts")
	accounts.Use(authMiddleware.Authenticate())
	accounts.POST("", h.Account.CreateAccount)
	accounts.GET("", h.Account.GetAccounts)
	accounts.PUT("/:id", h.Account.UpdateAccount)
	accounts.PATCH("/:id/enabled", h.Account.SetEnabled)
	accounts.DELETE("/:id", h.Account.DeleteAccount)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate())
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)
	transactions.POST("/:id/receipt", h.Receipt.AttachReceipt)
	transactions.DELETE("/:id/receipt", h.Receipt.RemoveReceipt)

	// Category routes (protected)
	categories := api.Group("/categories")
	categories.Use(authMiddleware.Authenticate())
	categories.POST("", h.Category.CreateCategory)
	categories.GET("", h.Category.GetCategories)
	categories.PUT("/:id", h.Category.UpdateCategory)
	categories.DELETE("/:id", h.Category.DeleteCategory)

	// Fixed expense routes (protected)
	fixedExpenses := api.Group("/fixed-expenses")
	fixedExpenses.Use(authMiddleware.Authenticate())
	fixedExpenses.POST("", h.FixedExpense.CreateFixedExpense)
	fixedExpenses.GET("", h.FixedExpense.GetFixedExpenses)
	fixedExpenses.PUT("/:id", h.FixedExpense.UpdateFixedExpense)
	fixedExpenses.DELETE("/:id", h.FixedExpense.DeleteFixedExpense)

	// Recurring transaction routes (protected)
	recurring := api.Group("/recurring")
	recurring.Use(authMiddleware.Authenticate())
	recurring.POST("", h.Recurring.CreateRecurring)
	recurring.GET("", h.Recurring.GetRecurring)
	recurring.PUT("/:id", h.Recurring.UpdateRecurring)
	recurring.DELETE("/:id", h.Recurring.DeleteRecurring)

	// Scenario routes (protected)
	scenarios := api.Group("/scenarios")
	scenarios.Use(authMiddleware.Authenticate())
	scenarios.POST("", h.Scenario.CreateScenario)
	scenarios.GET("", h.Scenario.GetScenarios)
	scenarios.PATCH("/:id/active", h.Scenario.SetActive)
	scenarios.DELETE("/:id", h.Scenario.DeleteScenario)

	// Debt routes (protected); the payoff projection is rate limited
	debts := api.Group("/debts")
	debts.Use(authMiddleware.Authenticate())
	debts.POST("", h.Debt.CreateDebt)
	debts.GET("", h.Debt.GetDebts)
	debts.GET("/payoff", h.Debt.GetPayoffProjection, middleware.RateLimitMiddleware(rateLimiter))
	debts.PUT("/:id", h.Debt.UpdateDebt)
	debts.DELETE("/:id", h.Debt.DeleteDebt)

	// Analytics routes (protected, rate limited: these walk projections)
	analytics := api.Group("/analytics")
	analytics.Use(authMiddleware.Authenticate())
	analytics.Use(middleware.RateLimitMiddleware(rateLimiter))
	analytics.GET("/risk", h.Analytics.GetRisk)
	analytics.GET("/networth", h.Analytics.GetNetWorth)
	analytics.GET("/forecast", h.Analytics.GetForecast)
	analytics.GET("/simulation", h.Analytics.GetSimulation)

	// WebSocket endpoint (token authenticated via query param)
	e.GET("/ws", h.WebSocket.HandleWS)
}
