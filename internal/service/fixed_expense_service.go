package service

import (
	"strings"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// FixedExpenseService handles fixed monthly obligations
type FixedExpenseService struct {
	fixedExpenseRepo domain.FixedExpenseRepository
}

// NewFixedExpenseService creates a new FixedExpenseService
func NewFixedExpenseService(fixedExpenseRepo domain.FixedExpenseRepository) *FixedExpenseService {
	return &FixedExpenseService{fixedExpenseRepo: fixedExpenseRepo}
}

// CreateFixedExpenseInput holds input for a new fixed expense
type CreateFixedExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	DueDay      int32
}

// CreateFixedExpense validates and persists a fixed expense
func (s *FixedExpenseService) CreateFixedExpense(workspaceID int32, input CreateFixedExpenseInput) (*domain.FixedExpense, error) {
	fe := &domain.FixedExpense{
		WorkspaceID: workspaceID,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		DueDay:      input.DueDay,
	}
	if err := fe.Validate(); err != nil {
		return nil, err
	}
	return s.fixedExpenseRepo.Create(fe)
}

// GetFixedExpenses retrieves all fixed expenses for a workspace
func (s *FixedExpenseService) GetFixedExpenses(workspaceID int32) ([]*domain.FixedExpense, error) {
	return s.fixedExpenseRepo.GetAllByWorkspace(workspaceID)
}

// UpdateFixedExpense replaces the editable fields of a fixed expense
func (s *FixedExpenseService) UpdateFixedExpense(workspaceID int32, id int32, input CreateFixedExpenseInput) (*domain.FixedExpense, error) {
	fe, err := s.fixedExpenseRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	fe.Description = strings.TrimSpace(input.Description)
	fe.Amount = input.Amount
	fe.DueDay = input.DueDay
	if err := fe.Validate(); err != nil {
		return nil, err
	}

	return s.fixedExpenseRepo.Update(fe)
}

// DeleteFixedExpense soft-deletes a fixed expense
func (s *FixedExpenseService) DeleteFixedExpense(workspaceID int32, id int32) error {
	return s.fixedExpenseRepo.SoftDelete(workspaceID, id)
}
