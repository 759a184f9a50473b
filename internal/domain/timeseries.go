package domain

import "time"

// PeriodType is the calendar granularity of an aggregated time series.
type PeriodType string

// Period type constants
const (
	PeriodWeekly    PeriodType = "weekly"
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
	PeriodYearly    PeriodType = "yearly"
)

// Valid reports whether the period type is one of the supported constants.
func (p PeriodType) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly:
		return true
	}
	return false
}

// TimeSeriesPoint is one aggregated period of transaction history.
// Immutable once produced by the aggregator.
type TimeSeriesPoint struct {
	PeriodStart time.Time // start of the calendar period
	Amount      float64   // summed amount over the period
	Count       int       // number of transactions aggregated
}

// HistoricalWindow is an ordered, chronological sequence of aggregated
// periods. Periods with zero transactions are simply absent; the window is
// sparse by design and consumers must not treat gaps as errors.
type HistoricalWindow []TimeSeriesPoint

// Amounts extracts the amount column in chronological order.
func (w HistoricalWindow) Amounts() []float64 {
	out := make([]float64, len(w))
	for i, p := range w {
		out[i] = p.Amount
	}
	return out
}

// CashflowPoint is one day of aggregated cash flow, the unit stored in the
// analytical timeseries store.
type CashflowPoint struct {
	UserID  string    // owning user scope
	Day     time.Time // calendar day (UTC midnight)
	Income  float64   // summed income for the day
	Expense float64   // summed expense for the day
	Count   int       // number of transactions aggregated
}

// Net returns income minus expense for the day.
func (p *CashflowPoint) Net() float64 {
	return p.Income - p.Expense
}
