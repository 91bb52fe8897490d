package service

import (
	"strings"
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// ScenarioService handles what-if scenario records
type ScenarioService struct {
	scenarioRepo   domain.ScenarioRepository
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
}

// NewScenarioService creates a new ScenarioService
func NewScenarioService(scenarioRepo domain.ScenarioRepository, categoryRepo domain.CategoryRepository) *ScenarioService {
	return &ScenarioService{
		scenarioRepo:   scenarioRepo,
		categoryRepo:   categoryRepo,
		eventPublisher: websocket.NoOpPublisher{},
	}
}

// SetEventPublisher wires live updates; optional
func (s *ScenarioService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateScenarioInput holds the tagged-union input for a new scenario
type CreateScenarioInput struct {
	Name         string
	Type         domain.ScenarioType
	Category     *string
	Percentage   *int32
	Amount       decimal.Decimal
	PurchaseDate *time.Time
}

// CreateScenario validates the tagged union and persists an active
// scenario. An expense-cut category must exist in the workspace's
// category set; the join in the engine is exact and case-sensitive, so
// a typo here would otherwise produce a scenario that silently matches
// nothing.
func (s *ScenarioService) CreateScenario(workspaceID int32, input CreateScenarioInput) (*domain.Scenario, error) {
	scenario := &domain.Scenario{
		WorkspaceID:  workspaceID,
		Name:         strings.TrimSpace(input.Name),
		Type:         input.Type,
		Category:     input.Category,
		Percentage:   input.Percentage,
		Amount:       input.Amount,
		PurchaseDate: input.PurchaseDate,
		IsActive:     true,
	}
	if scenario.Name == "" {
		return nil, domain.ErrNameRequired
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	if scenario.Type == domain.ScenarioExpenseCut {
		if _, err := s.categoryRepo.GetByName(workspaceID, *scenario.Category); err != nil {
			return nil, err
		}
	}

	created, err := s.scenarioRepo.Create(scenario)
	if err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(workspaceID, websocket.NewEvent(websocket.EventTypeCreated, websocket.EntityTypeScenario, created))
	return created, nil
}

// GetScenarios retrieves scenarios, optionally active ones only
func (s *ScenarioService) GetScenarios(workspaceID int32, activeOnly *bool) ([]*domain.Scenario, error) {
	return s.scenarioRepo.ListByWorkspace(workspaceID, activeOnly)
}

// SetActive soft-enables or soft-disables a scenario without deleting it
func (s *ScenarioService) SetActive(workspaceID int32, id int32, active bool) (*domain.Scenario, error) {
	updated, err := s.scenarioRepo.SetActive(workspaceID, id, active)
	if err != nil {
		return nil, err
	}
	s.eventPublisher.Publish(workspaceID, websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypeScenario, updated))
	return updated, nil
}

// DeleteScenario soft-deletes a scenario
func (s *ScenarioService) DeleteScenario(workspaceID int32, id int32) error {
	if err := s.scenarioRepo.SoftDelete(workspaceID, id); err != nil {
		return err
	}
	s.eventPublisher.Publish(workspaceID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypeScenario, map[string]int32{"id": id}))
	return nil
}
