// Package history turns raw transactions into the ordered, periodized time
// series consumed by the forecasting and simulation engines.
package history

import (
	"sort"
	"time"

	"expenseflow/internal/domain"
)

// Flow selects which side of the cash flow an aggregation covers.
type Flow int

// Flow constants
const (
	FlowNet Flow = iota // income minus expense
	FlowIncome
	FlowExpense
)

// Aggregate groups transactions into a sparse HistoricalWindow at the given
// granularity. Amounts are summed per calendar period, output is
// chronological, and periods with zero transactions are simply absent.
func Aggregate(txns []*domain.Transaction, periodType domain.PeriodType, flow Flow) domain.HistoricalWindow {
	type bucket struct {
		amount float64
		count  int
	}
	buckets := make(map[time.Time]*bucket)

	for _, t := range txns {
		var amount float64
		switch flow {
		case FlowIncome:
			if !t.IsIncome() {
				continue
			}
			amount = t.Amount
		case FlowExpense:
			if t.IsIncome() {
				continue
			}
			amount = t.Amount
		default:
			amount = t.Signed()
		}

		start := PeriodStart(t.Date, periodType)
		b, ok := buckets[start]
		if !ok {
			b = &bucket{}
			buckets[start] = b
		}
		b.amount += amount
		b.count++
	}

	window := make(domain.HistoricalWindow, 0, len(buckets))
	for start, b := range buckets {
		window = append(window, domain.TimeSeriesPoint{
			PeriodStart: start,
			Amount:      b.amount,
			Count:       b.count,
		})
	}

	sort.Slice(window, func(i, j int) bool {
		return window[i].PeriodStart.Before(window[j].PeriodStart)
	})

	return window
}

// DailyCashflow groups transactions into per-day income/expense aggregates
// for the analytical store. Output is chronological and sparse.
func DailyCashflow(userID string, txns []*domain.Transaction) []*domain.CashflowPoint {
	buckets := make(map[time.Time]*domain.CashflowPoint)

	for _, t := range txns {
		day := DayStart(t.Date)
		p, ok := buckets[day]
		if !ok {
			p = &domain.CashflowPoint{UserID: userID, Day: day}
			buckets[day] = p
		}
		if t.IsIncome() {
			p.Income += t.Amount
		} else {
			p.Expense += t.Amount
		}
		p.Count++
	}

	points := make([]*domain.CashflowPoint, 0, len(buckets))
	for _, p := range buckets {
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Day.Before(points[j].Day)
	})

	return points
}

// PeriodStart maps a date onto the start of its calendar period in UTC.
// Weekly periods start on Monday.
func PeriodStart(date time.Time, periodType domain.PeriodType) time.Time {
	d := date.UTC()
	switch periodType {
	case domain.PeriodWeekly:
		day := DayStart(d)
		// time.Weekday has Sunday == 0
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case domain.PeriodQuarterly:
		quarterMonth := ((int(d.Month())-1)/3)*3 + 1
		return time.Date(d.Year(), time.Month(quarterMonth), 1, 0, 0, 0, 0, time.UTC)
	case domain.PeriodYearly:
		return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default: // monthly
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// DayStart truncates a timestamp to UTC midnight.
func DayStart(date time.Time) time.Time {
	d := date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
