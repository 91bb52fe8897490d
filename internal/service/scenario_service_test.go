package service

import (
	"testing"
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScenarioFixture(t *testing.T) (*ScenarioService, *testutil.MockScenarioRepository, *capturingPublisher) {
	t.Helper()

	scenarioRepo := testutil.NewMockScenarioRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	categoryRepo.AddCategory(&domain.Category{ID: 1, WorkspaceID: 1, Name: "Dining"})

	svc := NewScenarioService(scenarioRepo, categoryRepo)
	publisher := &capturingPublisher{}
	svc.SetEventPublisher(publisher)
	return svc, scenarioRepo, publisher
}

func TestScenarioService_CreateScenario_ExpenseCut(t *testing.T) {
	svc, _, publisher := newScenarioFixture(t)

	category := "Dining"
	pct := int32(50)
	created, err := svc.CreateScenario(1, CreateScenarioInput{
		Name:       "Eat out less",
		Type:       domain.ScenarioExpenseCut,
		Category:   &category,
		Percentage: &pct,
	})

	require.NoError(t, err)
	assert.True(t, created.IsActive, "new scenarios start active")
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "scenario.created", publisher.events[0].Type)
}

func TestScenarioService_CreateScenario_UnknownCategory(t *testing.T) {
	svc, _, _ := newScenarioFixture(t)

	category := "Travel"
	pct := int32(50)
	_, err := svc.CreateScenario(1, CreateScenarioInput{
		Name:       "Cut travel",
		Type:       domain.ScenarioExpenseCut,
		Category:   &category,
		Percentage: &pct,
	})

	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestScenarioService_CreateScenario_TaggedUnionEnforced(t *testing.T) {
	svc, _, _ := newScenarioFixture(t)

	_, err := svc.CreateScenario(1, CreateScenarioInput{
		Name:   "Laptop",
		Type:   domain.ScenarioBigPurchase,
		Amount: decimal.NewFromInt(2500),
		// PurchaseDate missing
	})

	assert.ErrorIs(t, err, domain.ErrScenarioDateRequired)
}

func TestScenarioService_SetActive(t *testing.T) {
	svc, repo, publisher := newScenarioFixture(t)

	purchaseDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	repo.AddScenario(&domain.Scenario{
		ID:           1,
		WorkspaceID:  1,
		Name:         "Laptop",
		Type:         domain.ScenarioBigPurchase,
		Amount:       decimal.NewFromInt(2500),
		PurchaseDate: &purchaseDate,
		IsActive:     true,
	})

	updated, err := svc.SetActive(1, 1, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "scenario.updated", publisher.events[0].Type)

	// Disabled, not deleted: still listed without the active filter.
	all, err := svc.GetScenarios(1, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	activeOnly := true
	active, err := svc.GetScenarios(1, &activeOnly)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestScenarioService_DeleteScenario(t *testing.T) {
	svc, repo, publisher := newScenarioFixture(t)

	repo.AddScenario(&domain.Scenario{
		ID:          1,
		WorkspaceID: 1,
		Name:        "Side gig",
		Type:        domain.ScenarioIncomeBoost,
		Amount:      decimal.NewFromInt(500),
		IsActive:    true,
	})

	require.NoError(t, svc.DeleteScenario(1, 1))

	all, err := svc.GetScenarios(1, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "scenario.deleted", publisher.events[0].Type)
}
