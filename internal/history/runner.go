package history

import (
	"context"
	"errors"
	"time"

	"expenseflow/internal/domain"
	"expenseflow/internal/storage"
)

// Runner loads transactions, aggregates them and keeps the analytical
// cashflow store in sync so forecasting runs do not rescan row storage.
type Runner struct {
	transactionStore storage.TransactionStore
	cashflowStore    storage.CashflowTimeseriesStore
}

// NewRunner creates a history runner. The cashflow store may be nil, in
// which case Normalize is a no-op and windows come straight from the
// transaction store.
func NewRunner(transactionStore storage.TransactionStore, cashflowStore storage.CashflowTimeseriesStore) *Runner {
	return &Runner{
		transactionStore: transactionStore,
		cashflowStore:    cashflowStore,
	}
}

// Normalize aggregates a user's transactions into daily cashflow points and
// persists them. Already-persisted days are left untouched.
func (r *Runner) Normalize(ctx context.Context, userID string) error {
	if r.cashflowStore == nil {
		return nil
	}

	txns, err := r.transactionStore.GetByUser(ctx, userID)
	if err != nil {
		return err
	}

	points := DailyCashflow(userID, txns)
	if len(points) == 0 {
		return nil
	}

	if err := r.cashflowStore.InsertBulk(ctx, points); err != nil {
		// Re-running normalization over already-stored days is expected.
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil
		}
		return err
	}
	return nil
}

// Window loads the lookback range of a user's transactions and aggregates
// them at the requested granularity. The reference time pins the end of the
// lookback so callers can replay history deterministically.
func (r *Runner) Window(ctx context.Context, userID string, params domain.ForecastParameters, now time.Time) (domain.HistoricalWindow, error) {
	txns, err := r.lookback(ctx, userID, params, now)
	if err != nil {
		return nil, err
	}
	return Aggregate(txns, params.PeriodType, FlowNet), nil
}

// FlowWindows loads income-only and expense-only windows over the same
// lookback, for the simulation engine's generative parameters.
func (r *Runner) FlowWindows(ctx context.Context, userID string, params domain.ForecastParameters, now time.Time) (income, expense domain.HistoricalWindow, err error) {
	txns, err := r.lookback(ctx, userID, params, now)
	if err != nil {
		return nil, nil, err
	}
	return Aggregate(txns, params.PeriodType, FlowIncome), Aggregate(txns, params.PeriodType, FlowExpense), nil
}

// lookback fetches the raw transactions covering params.HistoricalPeriods
// periods back from the reference time.
func (r *Runner) lookback(ctx context.Context, userID string, params domain.ForecastParameters, now time.Time) ([]*domain.Transaction, error) {
	start := lookbackStart(now, params.PeriodType, params.HistoricalPeriods)
	return r.transactionStore.GetByUserAndTimeRange(ctx, userID, start, now, params.Category)
}

// lookbackStart computes the inclusive start of the lookback range.
func lookbackStart(now time.Time, periodType domain.PeriodType, periods int) time.Time {
	if periods <= 0 {
		periods = 12
	}
	switch periodType {
	case domain.PeriodWeekly:
		return now.AddDate(0, 0, -7*periods)
	case domain.PeriodQuarterly:
		return now.AddDate(0, -3*periods, 0)
	case domain.PeriodYearly:
		return now.AddDate(-periods, 0, 0)
	default: // monthly
		return now.AddDate(0, -periods, 0)
	}
}
