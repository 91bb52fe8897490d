package service

import (
	"strings"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// DebtService handles debt records
type DebtService struct {
	debtRepo       domain.DebtRepository
	eventPublisher websocket.EventPublisher
}

// NewDebtService creates a new DebtService
func NewDebtService(debtRepo domain.DebtRepository) *DebtService {
	return &DebtService{
		debtRepo:       debtRepo,
		eventPublisher: websocket.NoOpPublisher{},
	}
}

// SetEventPublisher wires live updates; optional
func (s *DebtService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateDebtInput holds input for a new debt
type CreateDebtInput struct {
	Name           string
	CurrentBalance decimal.Decimal
	InterestRate   decimal.Decimal
	MinimumPayment decimal.Decimal
	DueDay         int32
}

// CreateDebt validates and persists a debt
func (s *DebtService) CreateDebt(workspaceID int32, input CreateDebtInput) (*domain.Debt, error) {
	debt := &domain.Debt{
		WorkspaceID:    workspaceID,
		Name:           strings.TrimSpace(input.Name),
		CurrentBalance: input.CurrentBalance,
		InterestRate:   input.InterestRate,
		MinimumPayment: input.MinimumPayment,
		DueDay:         input.DueDay,
	}
	if err := debt.Validate(); err != nil {
		return nil, err
	}

	created, err := s.debtRepo.Create(debt)
	if err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(workspaceID, websocket.NewEvent(websocket.EventTypeCreated, websocket.EntityTypeDebt, created))
	return created, nil
}

// GetDebts retrieves all debts for a workspace
func (s *DebtService) GetDebts(workspaceID int32) ([]*domain.Debt, error) {
	return s.debtRepo.GetAllByWorkspace(workspaceID)
}

// UpdateDebt replaces the editable fields of a debt
func (s *DebtService) UpdateDebt(workspaceID int32, id int32, input CreateDebtInput) (*domain.Debt, error) {
	debt, err := s.debtRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	debt.Name = strings.TrimSpace(input.Name)
	debt.CurrentBalance = input.CurrentBalance
	debt.InterestRate = input.InterestRate
	debt.MinimumPayment = input.MinimumPayment
	debt.DueDay = input.DueDay
	if err := debt.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.debtRepo.Update(debt)
	if err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(workspaceID, websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypeDebt, updated))
	return updated, nil
}

// DeleteDebt soft-deletes a debt
func (s *DebtService) DeleteDebt(workspaceID int32, id int32) error {
	if err := s.debtRepo.SoftDelete(workspaceID, id); err != nil {
		return err
	}
	s.eventPublisher.Publish(workspaceID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypeDebt, map[string]int32{"id": id}))
	return nil
}
