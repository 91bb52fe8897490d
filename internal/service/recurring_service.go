package service

import (
	"strings"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// RecurringService handles recurring transaction templates
type RecurringService struct {
	recurringRepo  domain.RecurringRepository
	eventPublisher websocket.EventPublisher
}

// NewRecurringService creates a new RecurringService
func NewRecurringService(recurringRepo domain.RecurringRepository) *RecurringService {
	return &RecurringService{
		recurringRepo:  recurringRepo,
		eventPublisher: websocket.NoOpPublisher{},
	}
}

// SetEventPublisher wires live updates; optional
func (s *RecurringService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateRecurringInput holds input for a new recurring template
type CreateRecurringInput struct {
	Description string
	Amount      decimal.Decimal
	Type        domain.TransactionType
	DueDay      int32
}

// CreateRecurring validates and persists an active recurring template
func (s *RecurringService) CreateRecurring(workspaceID int32, input CreateRecurringInput) (*domain.RecurringTransaction, error) {
	rt := &domain.RecurringTransaction{
		WorkspaceID: workspaceID,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		Type:        input.Type,
		DueDay:      input.DueDay,
		IsActive:    true,
	}
	if err := rt.Validate(); err != nil {
		return nil, err
	}

	created, err := s.recurringRepo.Create(rt)
	if err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(workspaceID, websocket.NewEvent(websocket.EventTypeCreated, websocket.EntityTypeRecurring, created))
	return created, nil
}

// GetRecurring retrieves recurring templates, optionally active ones only
func (s *RecurringService) GetRecurring(workspaceID int32, activeOnly *bool) ([]*domain.RecurringTransaction, error) {
	return s.recurringRepo.ListByWorkspace(workspaceID, activeOnly)
}

// UpdateRecurringInput holds the editable fields of a recurring template
type UpdateRecurringInput struct {
	Description string
	Amount      decimal.Decimal
	Type        domain.TransactionType
	DueDay      int32
	IsActive    bool
}

// UpdateRecurring replaces the editable fields of a template
func (s *RecurringService) UpdateRecurring(workspaceID int32, id int32, input UpdateRecurringInput) (*domain.RecurringTransaction, error) {
	rt, err := s.recurringRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	rt.Description = strings.TrimSpace(input.Description)
	rt.Amount = input.Amount
	rt.Type = input.Type
	rt.DueDay = input.DueDay
	rt.IsActive = input.IsActive
	if err := rt.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.recurringRepo.Update(rt)
	if err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(workspaceID, websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypeRecurring, updated))
	return updated, nil
}

// DeleteRecurring soft-deletes a template
func (s *RecurringService) DeleteRecurring(workspaceID int32, id int32) error {
	if err := s.recurringRepo.SoftDelete(workspaceID, id); err != nil {
		return err
	}
	s.eventPublisher.Publish(workspaceID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypeRecurring, map[string]int32{"id": id}))
	return nil
}
