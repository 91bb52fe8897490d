package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestScenarioValidate(t *testing.T) {
	category := "Dining"
	emptyCategory := ""
	pct := int32(50)
	pctTooHigh := int32(101)
	pctTooLow := int32(0)
	purchaseDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	var zeroDate time.Time

	tests := []struct {
		name     string
		scenario Scenario
		expected error
	}{
		{
			"valid expense cut",
			Scenario{Type: ScenarioExpenseCut, Category: &category, Percentage: &pct},
			nil,
		},
		{
			"expense cut missing category",
			Scenario{Type: ScenarioExpenseCut, Percentage: &pct},
			ErrScenarioCategoryRequired,
		},
		{
			"expense cut empty category",
			Scenario{Type: ScenarioExpenseCut, Category: &emptyCategory, Percentage: &pct},
			ErrScenarioCategoryRequired,
		},
		{
			"expense cut percentage over 100",
			Scenario{Type: ScenarioExpenseCut, Category: &category, Percentage: &pctTooHigh},
			ErrScenarioPercentageRequired,
		},
		{
			"expense cut percentage under 1",
			Scenario{Type: ScenarioExpenseCut, Category: &category, Percentage: &pctTooLow},
			ErrScenarioPercentageRequired,
		},
		{
			"valid income boost",
			Scenario{Type: ScenarioIncomeBoost, Amount: decimal.NewFromInt(500)},
			nil,
		},
		{
			"income boost zero amount",
			Scenario{Type: ScenarioIncomeBoost, Amount: decimal.Zero},
			ErrScenarioAmountInvalid,
		},
		{
			"recurring expense negative amount",
			Scenario{Type: ScenarioRecurringExpense, Amount: decimal.NewFromInt(-10)},
			ErrScenarioAmountInvalid,
		},
		{
			"valid big purchase",
			Scenario{Type: ScenarioBigPurchase, Amount: decimal.NewFromInt(2500), PurchaseDate: &purchaseDate},
			nil,
		},
		{
			"big purchase missing date",
			Scenario{Type: ScenarioBigPurchase, Amount: decimal.NewFromInt(2500)},
			ErrScenarioDateRequired,
		},
		{
			"big purchase zero date",
			Scenario{Type: ScenarioBigPurchase, Amount: decimal.NewFromInt(2500), PurchaseDate: &zeroDate},
			ErrScenarioDateRequired,
		},
		{
			"unknown type",
			Scenario{Type: ScenarioType("lottery_win")},
			ErrScenarioTypeInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scenario.Validate()
			if !errors.Is(err, tt.expected) {
				t.Errorf("Validate() = %v, want %v", err, tt.expected)
			}
		})
	}
}
