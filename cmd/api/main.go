package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mintleaf/mintleaf-backend/internal/config"
	"github.com/mintleaf/mintleaf-backend/internal/handler"
	"github.com/mintleaf/mintleaf-backend/internal/middleware"
	"github.com/mintleaf/mintleaf-backend/internal/repository/postgres"
	"github.com/mintleaf/mintleaf-backend/internal/repository/storage"
	"github.com/mintleaf/mintleaf-backend/internal/service"
	"github.com/mintleaf/mintleaf-backend/internal/websocket"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	fixedExpenseRepo := postgres.NewFixedExpenseRepository(pool)
	recurringRepo := postgres.NewRecurringRepository(pool)
	scenarioRepo := postgres.NewScenarioRepository(pool)
	debtRepo := postgres.NewDebtRepository(pool)

	// Initialize services
	authService := service.NewAuthService(userRepo, workspaceRepo)
	accountService := service.NewAccountService(accountRepo)
	transactionService := service.NewTransactionService(transactionRepo, accountRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	fixedExpenseService := service.NewFixedExpenseService(fixedExpenseRepo)
	recurringService := service.NewRecurringService(recurringRepo)
	scenarioService := service.NewScenarioService(scenarioRepo, categoryRepo)
	debtService := service.NewDebtService(debtRepo)
	metricsService := service.NewMetricsService(accountRepo, transactionRepo, fixedExpenseRepo)
	forecastService := service.NewForecastService(accountRepo, transactionRepo, fixedExpenseRepo, recurringRepo)
	simulationService := service.NewSimulationService(accountRepo, transactionRepo, fixedExpenseRepo, recurringRepo, scenarioRepo)
	payoffService := service.NewPayoffService(debtRepo)

	// WebSocket hub for live entity updates
	hub := websocket.NewHub()
	transactionService.SetEventPublisher(hub)
	recurringService.SetEventPublisher(hub)
	scenarioService.SetEventPublisher(hub)
	debtService.SetEventPublisher(hub)

	// Receipt storage is optional; without a bucket the receipt
	// endpoints answer 503
	var receiptService *service.ReceiptService
	if cfg.S3.Enabled() {
		receiptRepo, err := storage.NewS3ReceiptRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize receipt storage")
		}
		receiptService = service.NewReceiptService(receiptRepo, transactionRepo)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage enabled")
	} else {
		log.Info().Msg("Receipt storage not configured, receipt endpoints disabled")
	}

	// Create workspace provider adapter for auth middleware
	workspaceProvider := &workspaceProviderAdapter{authService: authService}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, workspaceProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	// Token validator for WebSocket upgrades (token travels as a query param)
	tokenValidator, err := websocket.NewTokenValidator(cfg.Auth0Domain, cfg.Auth0Audience, workspaceProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create websocket token validator")
	}

	// Rate limiter for the projection endpoints
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize handlers
	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Account:      handler.NewAccountHandler(accountService),
		Transaction:  handler.NewTransactionHandler(transactionService),
		Category:     handler.NewCategoryHandler(categoryService),
		FixedExpense: handler.NewFixedExpenseHandler(fixedExpenseService),
		Recurring:    handler.NewRecurringHandler(recurringService),
		Scenario:     handler.NewScenarioHandler(scenarioService),
		Debt:         handler.NewDebtHandler(debtService, payoffService),
		Analytics:    handler.NewAnalyticsHandler(metricsService, forecastService, simulationService),
		Receipt:      handler.NewReceiptHandler(receiptService),
		WebSocket:    handler.NewWebSocketHandler(hub, tokenValidator, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handlers)

	// Periodic insight recompute pushed over the hub
	workerCtx, workerCancel := context.WithCancel(context.Background())
	insightWorker := service.NewInsightWorker(metricsService, workspaceRepo, hub, log.Logger, cfg.InsightInterval)
	insightWorker.Start(workerCtx)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	workerCancel()
	insightWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// workspaceProviderAdapter adapts AuthService to middleware.WorkspaceProvider
// and websocket.WorkspaceLookup
type workspaceProviderAdapter struct {
	authService *service.AuthService
}

// GetWorkspaceByAuth0ID implements middleware.WorkspaceProvider
func (a *workspaceProviderAdapter) GetWorkspaceByAuth0ID(auth0ID string) (int32, error) {
	workspace, err := a.authService.GetWorkspaceByAuth0ID(auth0ID)
	if err != nil {
		return 0, err
	}
	return workspace.ID, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
