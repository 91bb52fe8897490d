package service

import (
	"context"
	"sync"
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// InsightWorker periodically recomputes each workspace's risk analysis
// and broadcasts the result to connected clients, so dashboards stay
// fresh without polling
type InsightWorker struct {
	metricsService *MetricsService
	workspaceRepo  domain.WorkspaceRepository
	publisher      websocket.EventPublisher
	logger         zerolog.Logger
	interval       time.Duration
	stopCh         chan struct{}
	doneCh         chan struct{}
	mu             sync.Mutex
	running        bool
}

// DefaultInsightInterval is how often insights are recomputed
const DefaultInsightInterval = 15 * time.Minute

// NewInsightWorker creates a new InsightWorker
func NewInsightWorker(
	metricsService *MetricsService,
	workspaceRepo domain.WorkspaceRepository,
	publisher websocket.EventPublisher,
	logger zerolog.Logger,
	interval time.Duration,
) *InsightWorker {
	if interval <= 0 {
		interval = DefaultInsightInterval
	}
	return &InsightWorker{
		metricsService: metricsService,
		workspaceRepo:  workspaceRepo,
		publisher:      publisher,
		logger:         logger.With().Str("component", "insight_worker").Logger(),
		interval:       interval,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start begins the background recompute loop
func (w *InsightWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().Dur("interval", w.interval).Msg("Starting insight worker")
	go w.run(ctx)
}

// Stop gracefully stops the worker
func (w *InsightWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Insight worker stopped")
}

func (w *InsightWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce recomputes and publishes insights for every workspace
func (w *InsightWorker) RunOnce() {
	workspaces, err := w.workspaceRepo.ListAll()
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to list workspaces")
		return
	}

	for _, ws := range workspaces {
		analysis, err := w.metricsService.AnalyzeRisk(ws.ID)
		if err != nil {
			w.logger.Error().Err(err).Int32("workspace_id", ws.ID).Msg("Failed to analyze risk")
			continue
		}
		w.publisher.Publish(ws.ID, websocket.InsightUpdated(analysis))
	}
}
