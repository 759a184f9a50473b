package history

import (
	"testing"
	"time"

	"expenseflow/internal/domain"
)

func txn(date time.Time, amount float64, typ domain.TransactionType) *domain.Transaction {
	return &domain.Transaction{Date: date, Amount: amount, Type: typ}
}

func TestAggregateMonthlyNet(t *testing.T) {
	txns := []*domain.Transaction{
		txn(time.Date(2026, time.January, 5, 10, 30, 0, 0, time.UTC), 3000, domain.TransactionTypeIncome),
		txn(time.Date(2026, time.January, 20, 0, 0, 0, 0, time.UTC), 1200, domain.TransactionTypeExpense),
		txn(time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), 500, domain.TransactionTypeIncome),
	}

	window := Aggregate(txns, domain.PeriodMonthly, FlowNet)

	// February has no transactions and must be absent, not zero.
	if len(window) != 2 {
		t.Fatalf("window length = %d, want 2 sparse periods", len(window))
	}

	jan := window[0]
	if !jan.PeriodStart.Equal(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first period start = %v, want Jan 1", jan.PeriodStart)
	}
	if jan.Amount != 1800 {
		t.Errorf("January net = %v, want 1800", jan.Amount)
	}
	if jan.Count != 2 {
		t.Errorf("January count = %d, want 2", jan.Count)
	}

	if !window[1].PeriodStart.After(jan.PeriodStart) {
		t.Error("window not chronological")
	}
}

func TestAggregateFlowSides(t *testing.T) {
	txns := []*domain.Transaction{
		txn(time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC), 2000, domain.TransactionTypeIncome),
		txn(time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC), 700, domain.TransactionTypeExpense),
	}

	income := Aggregate(txns, domain.PeriodMonthly, FlowIncome)
	expense := Aggregate(txns, domain.PeriodMonthly, FlowExpense)

	if len(income) != 1 || income[0].Amount != 2000 {
		t.Errorf("income window = %+v, want single 2000 period", income)
	}
	if len(expense) != 1 || expense[0].Amount != 700 {
		t.Errorf("expense window = %+v, want single 700 period", expense)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if window := Aggregate(nil, domain.PeriodMonthly, FlowNet); len(window) != 0 {
		t.Errorf("window = %+v, want empty", window)
	}
}

func TestPeriodStartWeekly(t *testing.T) {
	// 2026-08-05 is a Wednesday; the week starts Monday 2026-08-03.
	wednesday := time.Date(2026, time.August, 5, 15, 0, 0, 0, time.UTC)
	want := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
	if got := PeriodStart(wednesday, domain.PeriodWeekly); !got.Equal(want) {
		t.Errorf("weekly start = %v, want %v", got, want)
	}

	// Sunday belongs to the week that started the previous Monday.
	sunday := time.Date(2026, time.August, 9, 0, 0, 0, 0, time.UTC)
	if got := PeriodStart(sunday, domain.PeriodWeekly); !got.Equal(want) {
		t.Errorf("weekly start for Sunday = %v, want %v", got, want)
	}

	// Monday is its own week start.
	monday := time.Date(2026, time.August, 3, 23, 59, 0, 0, time.UTC)
	if got := PeriodStart(monday, domain.PeriodWeekly); !got.Equal(want) {
		t.Errorf("weekly start for Monday = %v, want %v", got, want)
	}
}

func TestPeriodStartQuarterly(t *testing.T) {
	cases := []struct {
		month time.Month
		want  time.Month
	}{
		{time.January, time.January},
		{time.March, time.January},
		{time.April, time.April},
		{time.August, time.July},
		{time.December, time.October},
	}
	for _, c := range cases {
		date := time.Date(2026, c.month, 15, 0, 0, 0, 0, time.UTC)
		got := PeriodStart(date, domain.PeriodQuarterly)
		if got.Month() != c.want || got.Day() != 1 {
			t.Errorf("quarter start for %v = %v, want month %v day 1", c.month, got, c.want)
		}
	}
}

func TestPeriodStartYearly(t *testing.T) {
	date := time.Date(2026, time.November, 20, 8, 0, 0, 0, time.UTC)
	want := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	if got := PeriodStart(date, domain.PeriodYearly); !got.Equal(want) {
		t.Errorf("yearly start = %v, want %v", got, want)
	}
}

func TestDailyCashflow(t *testing.T) {
	day := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	txns := []*domain.Transaction{
		txn(day.Add(9*time.Hour), 100, domain.TransactionTypeIncome),
		txn(day.Add(18*time.Hour), 40, domain.TransactionTypeExpense),
		txn(day.AddDate(0, 0, 2), 60, domain.TransactionTypeExpense),
	}

	points := DailyCashflow("user-1", txns)
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2 days", len(points))
	}

	first := points[0]
	if !first.Day.Equal(day) {
		t.Errorf("first day = %v, want %v", first.Day, day)
	}
	if first.Income != 100 || first.Expense != 40 || first.Count != 2 {
		t.Errorf("first point = %+v, want income 100 expense 40 count 2", first)
	}
	if got := first.Net(); got != 60 {
		t.Errorf("Net = %v, want 60", got)
	}
	if first.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", first.UserID)
	}
}
