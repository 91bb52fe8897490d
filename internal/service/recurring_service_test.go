package service

import (
	"testing"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/mintleaf/mintleaf-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecurringService_CreateRecurring(t *testing.T) {
	repo := testutil.NewMockRecurringRepository()
	svc := NewRecurringService(repo)
	publisher := &capturingPublisher{}
	svc.SetEventPublisher(publisher)

	created, err := svc.CreateRecurring(1, CreateRecurringInput{
		Description: "Salary",
		Amount:      decimal.NewFromInt(3000),
		Type:        domain.TransactionTypeIncome,
		DueDay:      25,
	})

	require.NoError(t, err)
	assert.True(t, created.IsActive, "new templates start active")
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "recurring.created", publisher.events[0].Type)
}

func TestRecurringService_CreateRecurring_Invalid(t *testing.T) {
	svc := NewRecurringService(testutil.NewMockRecurringRepository())

	_, err := svc.CreateRecurring(1, CreateRecurringInput{
		Description: "Salary",
		Amount:      decimal.NewFromInt(3000),
		Type:        domain.TransactionTypeIncome,
		DueDay:      0,
	})
	assert.ErrorIs(t, err, domain.ErrDueDayInvalid)
}

func TestRecurringService_UpdateRecurring_Deactivate(t *testing.T) {
	repo := testutil.NewMockRecurringRepository()
	svc := NewRecurringService(repo)

	repo.AddRecurring(&domain.RecurringTransaction{
		ID:          1,
		WorkspaceID: 1,
		Description: "Gym",
		Amount:      decimal.NewFromInt(40),
		Type:        domain.TransactionTypeExpense,
		DueDay:      5,
		IsActive:    true,
	})

	updated, err := svc.UpdateRecurring(1, 1, UpdateRecurringInput{
		Description: "Gym",
		Amount:      decimal.NewFromInt(40),
		Type:        domain.TransactionTypeExpense,
		DueDay:      5,
		IsActive:    false,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	activeOnly := true
	active, err := svc.GetRecurring(1, &activeOnly)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDebtService_CreateDebt(t *testing.T) {
	repo := testutil.NewMockDebtRepository()
	svc := NewDebtService(repo)
	publisher := &capturingPublisher{}
	svc.SetEventPublisher(publisher)

	created, err := svc.CreateDebt(1, CreateDebtInput{
		Name:           "Card",
		CurrentBalance: decimal.NewFromInt(1200),
		InterestRate:   decimal.NewFromInt(12),
		MinimumPayment: decimal.NewFromInt(100),
		DueDay:         15,
	})

	require.NoError(t, err)
	assert.Equal(t, "Card", created.Name)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "debt.created", publisher.events[0].Type)
}

func TestDebtService_CreateDebt_Invalid(t *testing.T) {
	svc := NewDebtService(testutil.NewMockDebtRepository())

	_, err := svc.CreateDebt(1, CreateDebtInput{
		Name:           "Card",
		CurrentBalance: decimal.Zero,
		InterestRate:   decimal.NewFromInt(12),
		MinimumPayment: decimal.NewFromInt(100),
		DueDay:         15,
	})
	assert.ErrorIs(t, err, domain.ErrDebtBalanceInvalid)
}

func TestFixedExpenseService_CreateAndUpdate(t *testing.T) {
	repo := testutil.NewMockFixedExpenseRepository()
	svc := NewFixedExpenseService(repo)

	created, err := svc.CreateFixedExpense(1, CreateFixedExpenseInput{
		Description: "Rent",
		Amount:      decimal.NewFromInt(1200),
		DueDay:      1,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateFixedExpense(1, created.ID, CreateFixedExpenseInput{
		Description: "Rent",
		Amount:      decimal.NewFromInt(1250),
		DueDay:      1,
	})
	require.NoError(t, err)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(1250)))

	_, err = svc.UpdateFixedExpense(1, 999, CreateFixedExpenseInput{
		Description: "Rent",
		Amount:      decimal.NewFromInt(100),
		DueDay:      1,
	})
	assert.ErrorIs(t, err, domain.ErrFixedExpenseNotFound)
}
