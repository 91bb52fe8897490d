package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoffCapMonths bounds the amortization loop at 30 years. A result
// with MonthsToPayoff == PayoffCapMonths and a non-zero final balance
// means the portfolio does not converge under the given payments; the
// engine returns it rather than erroring and the caller flags it.
const PayoffCapMonths = 360

// AmortizationEntry is one month of the payoff schedule
type AmortizationEntry struct {
	Month            int             `json:"month"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	InterestPaid     decimal.Decimal `json:"interestPaid"`
	PrincipalPaid    decimal.Decimal `json:"principalPaid"`
}

// PayoffProjection is the outcome of simulating a debt portfolio under a
// prioritization strategy
type PayoffProjection struct {
	DebtFreeDate        time.Time           `json:"debtFreeDate"`
	TotalInterestPaid   decimal.Decimal     `json:"totalInterestPaid"`
	MonthsToPayoff      int                 `json:"monthsToPayoff"`
	MonthlyAmortization []AmortizationEntry `json:"monthlyAmortization"`
}
