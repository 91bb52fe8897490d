package service

import (
	"strings"
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// TransactionService handles transaction business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	accountRepo     domain.AccountRepository
	categoryRepo    domain.CategoryRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	accountRepo domain.AccountRepository,
	categoryRepo domain.CategoryRepository,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
		eventPublisher:  websocket.NoOpPublisher{},
	}
}

// SetEventPublisher wires live updates; optional
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	AccountID   int32
	Description string
	Amount      decimal.Decimal
	Type        domain.TransactionType
	Category    string
	Date        time.Time
	IsTransfer  bool
}

// CreateTransaction validates and persists a new ledger entry. The
// category must already exist in the workspace's category set.
func (s *TransactionService) CreateTransaction(workspaceID int32, input CreateTransactionInput) (*domain.Transaction, error) {
	tx := &domain.Transaction{
		WorkspaceID:     workspaceID,
		AccountID:       input.AccountID,
		Description:     strings.TrimSpace(input.Description),
		Amount:          input.Amount,
		Type:            input.Type,
		Category:        input.Category,
		TransactionDate: input.Date,
		IsTransfer:      input.IsTransfer,
	}
	if tx.Description == "" {
		return nil, domain.ErrNameRequired
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.accountRepo.GetByID(workspaceID, input.AccountID); err != nil {
		return nil, err
	}
	if tx.Category != "" {
		if _, err := s.categoryRepo.GetByName(workspaceID, tx.Category); err != nil {
			return nil, err
		}
	}

	created, err := s.transactionRepo.Create(tx)
	if err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(workspaceID, websocket.NewEvent(websocket.EventTypeCreated, websocket.EntityTypeTransaction, created))
	return created, nil
}

// GetTransactions retrieves a filtered, paginated transaction list
func (s *TransactionService) GetTransactions(workspaceID int32, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = domain.DefaultPageSize
	}
	if filters.PageSize > domain.MaxPageSize {
		filters.PageSize = domain.MaxPageSize
	}
	return s.transactionRepo.GetByWorkspace(workspaceID, filters)
}

// GetTransactionByID retrieves a transaction by ID within a workspace
func (s *TransactionService) GetTransactionByID(workspaceID int32, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(workspaceID, id)
}

// UpdateTransactionInput holds the editable fields of a transaction
type UpdateTransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Type        domain.TransactionType
	Category    string
	Date        time.Time
	IsTransfer  bool
}

// UpdateTransaction replaces the editable fields of an existing entry
func (s *TransactionService) UpdateTransaction(workspaceID int32, id int32, input UpdateTransactionInput) (*domain.Transaction, error) {
	tx, err := s.transactionRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}

	tx.Description = strings.TrimSpace(input.Description)
	tx.Amount = input.Amount
	tx.Type = input.Type
	tx.Category = input.Category
	tx.TransactionDate = input.Date
	tx.IsTransfer = input.IsTransfer

	if tx.Description == "" {
		return nil, domain.ErrNameRequired
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if tx.Category != "" {
		if _, err := s.categoryRepo.GetByName(workspaceID, tx.Category); err != nil {
			return nil, err
		}
	}

	updated, err := s.transactionRepo.Update(tx)
	if err != nil {
		return nil, err
	}

	s.eventPublisher.Publish(workspaceID, websocket.NewEvent(websocket.EventTypeUpdated, websocket.EntityTypeTransaction, updated))
	return updated, nil
}

// DeleteTransaction soft-deletes a transaction
func (s *TransactionService) DeleteTransaction(workspaceID int32, id int32) error {
	if err := s.transactionRepo.SoftDelete(workspaceID, id); err != nil {
		return err
	}
	s.eventPublisher.Publish(workspaceID, websocket.NewEvent(websocket.EventTypeDeleted, websocket.EntityTypeTransaction, map[string]int32{"id": id}))
	return nil
}
