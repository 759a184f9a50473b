// Package simulation implements the stochastic cash-flow engine: Monte
// Carlo path simulation, stress testing and the closed-form quick preview.
package simulation

import (
	"errors"

	"expenseflow/internal/domain"
	"expenseflow/internal/stats"
)

// Simulation errors
var (
	// ErrNoHistory is returned when neither the income nor the expense
	// window carries any observations to derive a distribution from.
	ErrNoHistory = errors.New("no history to derive cash-flow distribution")

	// ErrInvalidRequest is returned for negative path counts or horizons.
	// Requests above a ceiling are clamped, never rejected.
	ErrInvalidRequest = errors.New("invalid simulation request")
)

// GenerativeParams is the per-day cash-flow distribution the simulator
// draws from, derived from historical income and expense aggregates.
type GenerativeParams struct {
	StartingBalance    float64
	DailyIncomeMean    float64
	DailyIncomeStddev  float64
	DailyExpenseMean   float64
	DailyExpenseStddev float64
}

// approximate days per period, used to scale period aggregates to daily
// rates
var periodDays = map[domain.PeriodType]float64{
	domain.PeriodWeekly:    7,
	domain.PeriodMonthly:   30.44,
	domain.PeriodQuarterly: 91.31,
	domain.PeriodYearly:    365.25,
}

// DeriveParams derives the baseline generative distribution from
// income-only and expense-only historical windows. Sparse or one-sided
// history is normal input; only a fully empty history is rejected.
func DeriveParams(income, expense domain.HistoricalWindow, periodType domain.PeriodType, startingBalance float64) (GenerativeParams, error) {
	if len(income) == 0 && len(expense) == 0 {
		return GenerativeParams{}, ErrNoHistory
	}

	days, ok := periodDays[periodType]
	if !ok {
		days = periodDays[domain.PeriodMonthly]
	}

	p := GenerativeParams{StartingBalance: startingBalance}
	p.DailyIncomeMean, p.DailyIncomeStddev = dailyRate(income, days)
	p.DailyExpenseMean, p.DailyExpenseStddev = dailyRate(expense, days)
	return p, nil
}

// dailyRate scales a period-aggregate window down to per-day mean and
// deviation.
func dailyRate(window domain.HistoricalWindow, days float64) (mean, stddev float64) {
	if len(window) == 0 {
		return 0, 0
	}
	amounts := window.Amounts()
	m := stats.Mean(amounts)
	sd := stats.SampleStddev(amounts, m)
	return m / days, sd / days
}

// Adjusted returns a copy with scenario adjustments applied. A nil
// adjustment or zero multiplier leaves the corresponding side untouched.
func (p GenerativeParams) Adjusted(adj *domain.ScenarioAdjustments) GenerativeParams {
	if adj == nil {
		return p
	}
	out := p
	if adj.IncomeMultiplier > 0 {
		out.DailyIncomeMean *= adj.IncomeMultiplier
		out.DailyIncomeStddev *= adj.IncomeMultiplier
	}
	if adj.ExpenseMultiplier > 0 {
		out.DailyExpenseMean *= adj.ExpenseMultiplier
		out.DailyExpenseStddev *= adj.ExpenseMultiplier
	}
	return out
}
