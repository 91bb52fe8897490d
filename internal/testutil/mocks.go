// Package testutil provides in-memory repository implementations for
// service tests.
package testutil

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
)

// MockAccountRepository is a mock implementation of domain.AccountRepository
type MockAccountRepository struct {
	Accounts map[int32]*domain.Account
	nextID   int32
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{Accounts: make(map[int32]*domain.Account), nextID: 1}
}

func (m *MockAccountRepository) Create(account *domain.Account) (*domain.Account, error) {
	account.ID = m.nextID
	m.nextID++
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	m.Accounts[account.ID] = account
	return account, nil
}

func (m *MockAccountRepository) GetByID(workspaceID int32, id int32) (*domain.Account, error) {
	account, ok := m.Accounts[id]
	if !ok || account.WorkspaceID != workspaceID || account.DeletedAt != nil {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

func (m *MockAccountRepository) GetAllByWorkspace(workspaceID int32, includeDisabled bool) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for _, account := range m.Accounts {
		if account.WorkspaceID != workspaceID || account.DeletedAt != nil {
			continue
		}
		if !includeDisabled && !account.IsEnabled {
			continue
		}
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (m *MockAccountRepository) Update(account *domain.Account) (*domain.Account, error) {
	existing, ok := m.Accounts[account.ID]
	if !ok || existing.WorkspaceID != account.WorkspaceID || existing.DeletedAt != nil {
		return nil, domain.ErrAccountNotFound
	}
	account.UpdatedAt = time.Now()
	m.Accounts[account.ID] = account
	return account, nil
}

func (m *MockAccountRepository) SetEnabled(workspaceID int32, id int32, enabled bool) (*domain.Account, error) {
	account, err := m.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	account.IsEnabled = enabled
	account.UpdatedAt = time.Now()
	return account, nil
}

func (m *MockAccountRepository) SoftDelete(workspaceID int32, id int32) error {
	account, err := m.GetByID(workspaceID, id)
	if err != nil {
		return err
	}
	now := time.Now()
	account.DeletedAt = &now
	return nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	nextID       int32
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{Transactions: make(map[int32]*domain.Transaction), nextID: 1}
}

func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	transaction.ID = m.nextID
	m.nextID++
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

func (m *MockTransactionRepository) GetByID(workspaceID int32, id int32) (*domain.Transaction, error) {
	tx, ok := m.Transactions[id]
	if !ok || tx.WorkspaceID != workspaceID || tx.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	return tx, nil
}

func (m *MockTransactionRepository) GetByWorkspace(workspaceID int32, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	var all []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.WorkspaceID != workspaceID || tx.DeletedAt != nil {
			continue
		}
		if filters.AccountID != nil && tx.AccountID != *filters.AccountID {
			continue
		}
		if filters.Type != nil && tx.Type != *filters.Type {
			continue
		}
		if filters.Category != nil && tx.Category != *filters.Category {
			continue
		}
		if filters.StartDate != nil && tx.TransactionDate.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && tx.TransactionDate.After(*filters.EndDate) {
			continue
		}
		all = append(all, tx)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].TransactionDate.Equal(all[j].TransactionDate) {
			return all[i].ID > all[j].ID
		}
		return all[i].TransactionDate.After(all[j].TransactionDate)
	})

	totalItems := int64(len(all))
	totalPages := int32((totalItems + int64(filters.PageSize) - 1) / int64(filters.PageSize))
	start := int((filters.Page - 1) * filters.PageSize)
	if start > len(all) {
		start = len(all)
	}
	end := start + int(filters.PageSize)
	if end > len(all) {
		end = len(all)
	}

	return &domain.PaginatedTransactions{
		Data:       all[start:end],
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

func (m *MockTransactionRepository) GetAllSince(workspaceID int32, since time.Time) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.WorkspaceID != workspaceID || tx.DeletedAt != nil {
			continue
		}
		if tx.TransactionDate.Before(since) {
			continue
		}
		result = append(result, tx)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TransactionDate.Before(result[j].TransactionDate) })
	return result, nil
}

func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	existing, ok := m.Transactions[transaction.ID]
	if !ok || existing.WorkspaceID != transaction.WorkspaceID || existing.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

func (m *MockTransactionRepository) SetReceiptURL(workspaceID int32, id int32, url *string) error {
	tx, err := m.GetByID(workspaceID, id)
	if err != nil {
		return err
	}
	tx.ReceiptURL = url
	tx.UpdatedAt = time.Now()
	return nil
}

func (m *MockTransactionRepository) SoftDelete(workspaceID int32, id int32) error {
	tx, err := m.GetByID(workspaceID, id)
	if err != nil {
		return err
	}
	now := time.Now()
	tx.DeletedAt = &now
	return nil
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[int32]*domain.Category
	// InUse marks category IDs that HasTransactions reports as referenced
	InUse  map[int32]bool
	nextID int32
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int32]*domain.Category),
		InUse:      make(map[int32]bool),
		nextID:     1,
	}
}

func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	category.ID = m.nextID
	m.nextID++
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	m.Categories[category.ID] = category
	return category, nil
}

func (m *MockCategoryRepository) GetByID(workspaceID int32, id int32) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok || category.WorkspaceID != workspaceID || category.DeletedAt != nil {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

func (m *MockCategoryRepository) GetByName(workspaceID int32, name string) (*domain.Category, error) {
	for _, category := range m.Categories {
		if category.WorkspaceID == workspaceID && category.Name == name && category.DeletedAt == nil {
			return category, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Category, error) {
	var categories []*domain.Category
	for _, category := range m.Categories {
		if category.WorkspaceID == workspaceID && category.DeletedAt == nil {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *MockCategoryRepository) Update(workspaceID int32, id int32, name string) (*domain.Category, error) {
	category, err := m.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	category.UpdatedAt = time.Now()
	return category, nil
}

func (m *MockCategoryRepository) SoftDelete(workspaceID int32, id int32) error {
	category, err := m.GetByID(workspaceID, id)
	if err != nil {
		return err
	}
	now := time.Now()
	category.DeletedAt = &now
	return nil
}

func (m *MockCategoryRepository) HasTransactions(workspaceID int32, id int32) (bool, error) {
	return m.InUse[id], nil
}

// MockFixedExpenseRepository is a mock implementation of domain.FixedExpenseRepository
type MockFixedExpenseRepository struct {
	Expenses map[int32]*domain.FixedExpense
	nextID   int32
}

// NewMockFixedExpenseRepository creates a new MockFixedExpenseRepository
func NewMockFixedExpenseRepository() *MockFixedExpenseRepository {
	return &MockFixedExpenseRepository{Expenses: make(map[int32]*domain.FixedExpense), nextID: 1}
}

func (m *MockFixedExpenseRepository) Create(fe *domain.FixedExpense) (*domain.FixedExpense, error) {
	fe.ID = m.nextID
	m.nextID++
	fe.CreatedAt = time.Now()
	fe.UpdatedAt = fe.CreatedAt
	m.Expenses[fe.ID] = fe
	return fe, nil
}

func (m *MockFixedExpenseRepository) GetByID(workspaceID int32, id int32) (*domain.FixedExpense, error) {
	fe, ok := m.Expenses[id]
	if !ok || fe.WorkspaceID != workspaceID || fe.DeletedAt != nil {
		return nil, domain.ErrFixedExpenseNotFound
	}
	return fe, nil
}

func (m *MockFixedExpenseRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.FixedExpense, error) {
	var expenses []*domain.FixedExpense
	for _, fe := range m.Expenses {
		if fe.WorkspaceID == workspaceID && fe.DeletedAt == nil {
			expenses = append(expenses, fe)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ID < expenses[j].ID })
	return expenses, nil
}

func (m *MockFixedExpenseRepository) Update(fe *domain.FixedExpense) (*domain.FixedExpense, error) {
	existing, ok := m.Expenses[fe.ID]
	if !ok || existing.WorkspaceID != fe.WorkspaceID || existing.DeletedAt != nil {
		return nil, domain.ErrFixedExpenseNotFound
	}
	fe.UpdatedAt = time.Now()
	m.Expenses[fe.ID] = fe
	return fe, nil
}

func (m *MockFixedExpenseRepository) SoftDelete(workspaceID int32, id int32) error {
	fe, err := m.GetByID(workspaceID, id)
	if err != nil {
		return err
	}
	now := time.Now()
	fe.DeletedAt = &now
	return nil
}

// MockRecurringRepository is a mock implementation of domain.RecurringRepository
type MockRecurringRepository struct {
	Templates map[int32]*domain.RecurringTransaction
	nextID    int32
}

// NewMockRecurringRepository creates a new MockRecurringRepository
func NewMockRecurringRepository() *MockRecurringRepository {
	return &MockRecurringRepository{Templates: make(map[int32]*domain.RecurringTransaction), nextID: 1}
}

func (m *MockRecurringRepository) Create(rt *domain.RecurringTransaction) (*domain.RecurringTransaction, error) {
	rt.ID = m.nextID
	m.nextID++
	rt.CreatedAt = time.Now()
	rt.UpdatedAt = rt.CreatedAt
	m.Templates[rt.ID] = rt
	return rt, nil
}

func (m *MockRecurringRepository) GetByID(workspaceID int32, id int32) (*domain.RecurringTransaction, error) {
	rt, ok := m.Templates[id]
	if !ok || rt.WorkspaceID != workspaceID || rt.DeletedAt != nil {
		return nil, domain.ErrRecurringNotFound
	}
	return rt, nil
}

func (m *MockRecurringRepository) ListByWorkspace(workspaceID int32, activeOnly *bool) ([]*domain.RecurringTransaction, error) {
	var templates []*domain.RecurringTransaction
	for _, rt := range m.Templates {
		if rt.WorkspaceID != workspaceID || rt.DeletedAt != nil {
			continue
		}
		if activeOnly != nil && rt.IsActive != *activeOnly {
			continue
		}
		templates = append(templates, rt)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	return templates, nil
}

func (m *MockRecurringRepository) Update(rt *domain.RecurringTransaction) (*domain.RecurringTransaction, error) {
	existing, ok := m.Templates[rt.ID]
	if !ok || existing.WorkspaceID != rt.WorkspaceID || existing.DeletedAt != nil {
		return nil, domain.ErrRecurringNotFound
	}
	rt.UpdatedAt = time.Now()
	m.Templates[rt.ID] = rt
	return rt, nil
}

func (m *MockRecurringRepository) SoftDelete(workspaceID int32, id int32) error {
	rt, err := m.GetByID(workspaceID, id)
	if err != nil {
		return err
	}
	now := time.Now()
	rt.DeletedAt = &now
	return nil
}

// MockScenarioRepository is a mock implementation of domain.ScenarioRepository
type MockScenarioRepository struct {
	Scenarios map[int32]*domain.Scenario
	nextID    int32
}

// NewMockScenarioRepository creates a new MockScenarioRepository
func NewMockScenarioRepository() *MockScenarioRepository {
	return &MockScenarioRepository{Scenarios: make(map[int32]*domain.Scenario), nextID: 1}
}

func (m *MockScenarioRepository) Create(scenario *domain.Scenario) (*domain.Scenario, error) {
	scenario.ID = m.nextID
	m.nextID++
	scenario.CreatedAt = time.Now()
	scenario.UpdatedAt = scenario.CreatedAt
	m.Scenarios[scenario.ID] = scenario
	return scenario, nil
}

func (m *MockScenarioRepository) GetByID(workspaceID int32, id int32) (*domain.Scenario, error) {
	scenario, ok := m.Scenarios[id]
	if !ok || scenario.WorkspaceID != workspaceID || scenario.DeletedAt != nil {
		return nil, domain.ErrScenarioNotFound
	}
	return scenario, nil
}

func (m *MockScenarioRepository) ListByWorkspace(workspaceID int32, activeOnly *bool) ([]*domain.Scenario, error) {
	var scenarios []*domain.Scenario
	for _, scenario := range m.Scenarios {
		if scenario.WorkspaceID != workspaceID || scenario.DeletedAt != nil {
			continue
		}
		if activeOnly != nil && scenario.IsActive != *activeOnly {
			continue
		}
		scenarios = append(scenarios, scenario)
	}
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].ID < scenarios[j].ID })
	return scenarios, nil
}

func (m *MockScenarioRepository) Update(scenario *domain.Scenario) (*domain.Scenario, error) {
	existing, ok := m.Scenarios[scenario.ID]
	if !ok || existing.WorkspaceID != scenario.WorkspaceID || existing.DeletedAt != nil {
		return nil, domain.ErrScenarioNotFound
	}
	scenario.UpdatedAt = time.Now()
	m.Scenarios[scenario.ID] = scenario
	return scenario, nil
}

func (m *MockScenarioRepository) SetActive(workspaceID int32, id int32, active bool) (*domain.Scenario, error) {
	scenario, err := m.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	scenario.IsActive = active
	scenario.UpdatedAt = time.Now()
	return scenario, nil
}

func (m *MockScenarioRepository) SoftDelete(workspaceID int32, id int32) error {
	scenario, err := m.GetByID(workspaceID, id)
	if err != nil {
		return err
	}
	now := time.Now()
	scenario.DeletedAt = &now
	return nil
}

// MockDebtRepository is a mock implementation of domain.DebtRepository
type MockDebtRepository struct {
	Debts  map[int32]*domain.Debt
	nextID int32
}

// NewMockDebtRepository creates a new MockDebtRepository
func NewMockDebtRepository() *MockDebtRepository {
	return &MockDebtRepository{Debts: make(map[int32]*domain.Debt), nextID: 1}
}

func (m *MockDebtRepository) Create(debt *domain.Debt) (*domain.Debt, error) {
	debt.ID = m.nextID
	m.nextID++
	debt.CreatedAt = time.Now()
	debt.UpdatedAt = debt.CreatedAt
	m.Debts[debt.ID] = debt
	return debt, nil
}

func (m *MockDebtRepository) GetByID(workspaceID int32, id int32) (*domain.Debt, error) {
	debt, ok := m.Debts[id]
	if !ok || debt.WorkspaceID != workspaceID || debt.DeletedAt != nil {
		return nil, domain.ErrDebtNotFound
	}
	return debt, nil
}

func (m *MockDebtRepository) GetAllByWorkspace(workspaceID int32) ([]*domain.Debt, error) {
	var debts []*domain.Debt
	for _, debt := range m.Debts {
		if debt.WorkspaceID == workspaceID && debt.DeletedAt == nil {
			debts = append(debts, debt)
		}
	}
	sort.Slice(debts, func(i, j int) bool { return debts[i].ID < debts[j].ID })
	return debts, nil
}

func (m *MockDebtRepository) Update(debt *domain.Debt) (*domain.Debt, error) {
	existing, ok := m.Debts[debt.ID]
	if !ok || existing.WorkspaceID != debt.WorkspaceID || existing.DeletedAt != nil {
		return nil, domain.ErrDebtNotFound
	}
	debt.UpdatedAt = time.Now()
	m.Debts[debt.ID] = debt
	return debt, nil
}

func (m *MockDebtRepository) SoftDelete(workspaceID int32, id int32) error {
	debt, err := m.GetByID(workspaceID, id)
	if err != nil {
		return err
	}
	now := time.Now()
	debt.DeletedAt = &now
	return nil
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces map[int32]*domain.Workspace
	nextID     int32
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{Workspaces: make(map[int32]*domain.Workspace), nextID: 1}
}

func (m *MockWorkspaceRepository) GetByID(id int32) (*domain.Workspace, error) {
	if workspace, ok := m.Workspaces[id]; ok {
		return workspace, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

func (m *MockWorkspaceRepository) GetByUserID(userID uuid.UUID) (*domain.Workspace, error) {
	for _, workspace := range m.Workspaces {
		if workspace.UserID == userID {
			return workspace, nil
		}
	}
	return nil, domain.ErrWorkspaceNotFound
}

// GetByUserAuth0ID is not wired to users in the mock; tests that need it
// should use GetByUserID instead
func (m *MockWorkspaceRepository) GetByUserAuth0ID(auth0ID string) (*domain.Workspace, error) {
	return nil, domain.ErrWorkspaceNotFound
}

func (m *MockWorkspaceRepository) ListAll() ([]*domain.Workspace, error) {
	var workspaces []*domain.Workspace
	for _, workspace := range m.Workspaces {
		workspaces = append(workspaces, workspace)
	}
	sort.Slice(workspaces, func(i, j int) bool { return workspaces[i].ID < workspaces[j].ID })
	return workspaces, nil
}

func (m *MockWorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	workspace.ID = m.nextID
	m.nextID++
	workspace.CreatedAt = time.Now()
	workspace.UpdatedAt = workspace.CreatedAt
	m.Workspaces[workspace.ID] = workspace
	return workspace, nil
}

// AddAccount adds an account to the mock repository (helper for tests)
func (m *MockAccountRepository) AddAccount(account *domain.Account) {
	m.Accounts[account.ID] = account
	if account.ID >= m.nextID {
		m.nextID = account.ID + 1
	}
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	m.Transactions[transaction.ID] = transaction
	if transaction.ID >= m.nextID {
		m.nextID = transaction.ID + 1
	}
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.Categories[category.ID] = category
	if category.ID >= m.nextID {
		m.nextID = category.ID + 1
	}
}

// AddFixedExpense adds a fixed expense to the mock repository (helper for tests)
func (m *MockFixedExpenseRepository) AddFixedExpense(fe *domain.FixedExpense) {
	m.Expenses[fe.ID] = fe
	if fe.ID >= m.nextID {
		m.nextID = fe.ID + 1
	}
}

// AddRecurring adds a recurring template to the mock repository (helper for tests)
func (m *MockRecurringRepository) AddRecurring(rt *domain.RecurringTransaction) {
	m.Templates[rt.ID] = rt
	if rt.ID >= m.nextID {
		m.nextID = rt.ID + 1
	}
}

// AddScenario adds a scenario to the mock repository (helper for tests)
func (m *MockScenarioRepository) AddScenario(scenario *domain.Scenario) {
	m.Scenarios[scenario.ID] = scenario
	if scenario.ID >= m.nextID {
		m.nextID = scenario.ID + 1
	}
}

// AddDebt adds a debt to the mock repository (helper for tests)
func (m *MockDebtRepository) AddDebt(debt *domain.Debt) {
	m.Debts[debt.ID] = debt
	if debt.ID >= m.nextID {
		m.nextID = debt.ID + 1
	}
}

// AddWorkspace adds a workspace to the mock repository (helper for tests)
func (m *MockWorkspaceRepository) AddWorkspace(workspace *domain.Workspace) {
	m.Workspaces[workspace.ID] = workspace
	if workspace.ID >= m.nextID {
		m.nextID = workspace.ID + 1
	}
}
