package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/testutil"
	"github.com/mintleaf/mintleaf-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInsightFixture(t *testing.T) (*InsightWorker, *capturingPublisher, *testutil.MockWorkspaceRepository) {
	t.Helper()

	accountRepo := testutil.NewMockAccountRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	fixedExpenseRepo := testutil.NewMockFixedExpenseRepository()
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	metricsService := NewMetricsService(accountRepo, transactionRepo, fixedExpenseRepo)

	workspaceRepo.AddWorkspace(&domain.Workspace{ID: 1, UserID: uuid.New(), Name: "My Finances"})
	workspaceRepo.AddWorkspace(&domain.Workspace{ID: 2, UserID: uuid.New(), Name: "My Finances"})
	accountRepo.AddAccount(&domain.Account{
		ID: 1, WorkspaceID: 1, Name: "Checking", Balance: decimal.NewFromInt(1000), IsEnabled: true,
	})

	publisher := &capturingPublisher{}
	worker := NewInsightWorker(metricsService, workspaceRepo, publisher, zerolog.Nop(), time.Minute)
	return worker, publisher, workspaceRepo
}

func TestInsightWorker_RunOncePublishesPerWorkspace(t *testing.T) {
	worker, publisher, _ := newInsightFixture(t)

	worker.RunOnce()

	require.Len(t, publisher.events, 2)
	for _, event := range publisher.events {
		assert.Equal(t, "insight.updated", event.Type)
		assert.Equal(t, websocket.EntityTypeInsight, event.Entity)
		_, ok := event.Payload.(*domain.RiskAnalysis)
		assert.True(t, ok, "payload should be a risk analysis")
	}
}

func TestInsightWorker_StartStop(t *testing.T) {
	worker, _, _ := newInsightFixture(t)

	worker.Start(context.Background())
	// Idempotent start.
	worker.Start(context.Background())

	done := make(chan struct{})
	go func() {
		worker.Stop()
		worker.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop in time")
	}
}

func TestInsightWorker_DefaultInterval(t *testing.T) {
	worker := NewInsightWorker(nil, nil, websocket.NoOpPublisher{}, zerolog.Nop(), 0)
	assert.Equal(t, DefaultInsightInterval, worker.interval)
}
