package service

import (
	"strings"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountService handles account business logic
type AccountService struct {
	accountRepo domain.AccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo domain.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// CreateAccountInput holds the input for creating an account
type CreateAccountInput struct {
	Name           string
	InitialBalance decimal.Decimal
}

// CreateAccount creates an enabled account whose balance starts at the
// initial balance
func (s *AccountService) CreateAccount(workspaceID int32, input CreateAccountInput) (*domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	account := &domain.Account{
		WorkspaceID:    workspaceID,
		Name:           name,
		Balance:        input.InitialBalance,
		InitialBalance: input.InitialBalance,
		IsEnabled:      true,
	}

	return s.accountRepo.Create(account)
}

// GetAccounts retrieves accounts for a workspace
func (s *AccountService) GetAccounts(workspaceID int32, includeDisabled bool) ([]*domain.Account, error) {
	return s.accountRepo.GetAllByWorkspace(workspaceID, includeDisabled)
}

// GetAccountByID retrieves an account by ID within a workspace
func (s *AccountService) GetAccountByID(workspaceID int32, id int32) (*domain.Account, error) {
	return s.accountRepo.GetByID(workspaceID, id)
}

// RenameAccount updates an account's name
func (s *AccountService) RenameAccount(workspaceID int32, id int32, name string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}

	account, err := s.accountRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	account.Name = name
	return s.accountRepo.Update(account)
}

// SetEnabled toggles whether the account contributes to liquidity
// aggregates and projections
func (s *AccountService) SetEnabled(workspaceID int32, id int32, enabled bool) (*domain.Account, error) {
	return s.accountRepo.SetEnabled(workspaceID, id, enabled)
}

// DeleteAccount soft-deletes an account
func (s *AccountService) DeleteAccount(workspaceID int32, id int32) error {
	return s.accountRepo.SoftDelete(workspaceID, id)
}
