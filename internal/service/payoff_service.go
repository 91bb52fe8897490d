package service

import (
	"errors"
	"sort"
	"time"

	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrExtraPaymentNegative rejects a negative extra payment before it
	// can feed the amortization loop
	ErrExtraPaymentNegative = errors.New("extra payment cannot be negative")
)

var twelve = decimal.NewFromInt(12)

// CalculatePayoff simulates month-by-month amortization of a debt
// portfolio under the chosen strategy. Input debts are deep-cloned and
// never mutated.
//
// Priority order is computed once up front with a stable sort (avalanche
// by descending interest rate, snowball by ascending balance) and is not
// re-evaluated as balances change during the run. Each month every open
// debt accrues interest, pays min(minimumPayment, balance+interest)
// interest-first; a minimum payment smaller than the accrued interest
// grows the debt by the shortfall, as real negative amortization does.
// Minimum payments freed by fully paid debts roll over into the
// extra-payment pool from the following month, and the pool pays down
// principal along the priority order.
//
// The loop is capped at domain.PayoffCapMonths; a capped result with a
// remaining balance means "does not converge" and is returned, not
// raised. An empty portfolio yields a zero-month, empty-schedule result.
func CalculatePayoff(debts []*domain.Debt, extraPayment decimal.Decimal, strategy domain.PayoffStrategy, now time.Time) *domain.PayoffProjection {
	sim := make([]*domain.Debt, len(debts))
	for i, d := range debts {
		sim[i] = d.Clone()
	}

	sort.SliceStable(sim, func(i, j int) bool {
		if strategy == domain.StrategySnowball {
			return sim[i].CurrentBalance.LessThan(sim[j].CurrentBalance)
		}
		return sim[i].InterestRate.GreaterThan(sim[j].InterestRate)
	})

	schedule := make([]domain.AmortizationEntry, 0)
	totalInterest := decimal.Zero
	months := 0

	for month := 1; month <= domain.PayoffCapMonths; month++ {
		if totalBalance(sim).IsZero() {
			break
		}

		// Minimums freed by debts cleared in earlier months join the
		// extra-payment pool this month.
		pool := extraPayment
		for _, d := range sim {
			if d.CurrentBalance.IsZero() {
				pool = pool.Add(d.MinimumPayment)
			}
		}

		monthInterest := decimal.Zero
		monthPrincipal := decimal.Zero

		for _, d := range sim {
			if !d.CurrentBalance.IsPositive() {
				continue
			}

			interest := d.CurrentBalance.Mul(d.InterestRate).Div(oneHundred).Div(twelve)
			payment := decimal.Min(d.MinimumPayment, d.CurrentBalance.Add(interest))
			interestPaid := decimal.Min(payment, interest)
			principal := payment.Sub(interestPaid)

			if payment.LessThan(interest) {
				// Negative amortization: the shortfall compounds into the
				// balance instead of the balance going negative.
				d.CurrentBalance = d.CurrentBalance.Add(interest.Sub(payment))
			} else {
				d.CurrentBalance = d.CurrentBalance.Sub(principal)
			}

			monthInterest = monthInterest.Add(interestPaid)
			monthPrincipal = monthPrincipal.Add(principal)
		}

		// The pool reduces principal directly, highest priority first,
		// walking down only when a debt is fully cleared with funds left.
		for _, d := range sim {
			if !pool.IsPositive() {
				break
			}
			if !d.CurrentBalance.IsPositive() {
				continue
			}
			applied := decimal.Min(pool, d.CurrentBalance)
			d.CurrentBalance = d.CurrentBalance.Sub(applied)
			monthPrincipal = monthPrincipal.Add(applied)
			pool = pool.Sub(applied)
		}

		totalInterest = totalInterest.Add(monthInterest)
		months = month

		remaining := totalBalance(sim)
		schedule = append(schedule, domain.AmortizationEntry{
			Month:            month,
			RemainingBalance: remaining,
			InterestPaid:     monthInterest,
			PrincipalPaid:    monthPrincipal,
		})

		if remaining.IsZero() {
			break
		}
	}

	return &domain.PayoffProjection{
		DebtFreeDate:        now.AddDate(0, months, 0),
		TotalInterestPaid:   totalInterest,
		MonthsToPayoff:      months,
		MonthlyAmortization: schedule,
	}
}

func totalBalance(debts []*domain.Debt) decimal.Decimal {
	total := decimal.Zero
	for _, d := range debts {
		if d.CurrentBalance.IsPositive() {
			total = total.Add(d.CurrentBalance)
		}
	}
	return total
}

// PayoffService runs payoff projections over the workspace's debts
type PayoffService struct {
	debtRepo domain.DebtRepository
}

// NewPayoffService creates a new PayoffService
func NewPayoffService(debtRepo domain.DebtRepository) *PayoffService {
	return &PayoffService{debtRepo: debtRepo}
}

// GetProjection simulates the payoff of all the workspace's debts
func (s *PayoffService) GetProjection(workspaceID int32, extraPayment decimal.Decimal, strategy domain.PayoffStrategy) (*domain.PayoffProjection, error) {
	if extraPayment.IsNegative() {
		return nil, ErrExtraPaymentNegative
	}

	debts, err := s.debtRepo.GetAllByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	return CalculatePayoff(debts, extraPayment, strategy, time.Now()), nil
}
