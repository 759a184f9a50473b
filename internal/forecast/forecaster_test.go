package forecast

import (
	"errors"
	"math"
	"testing"
	"time"

	"expenseflow/internal/domain"
)

func monthlyWindow(amounts ...float64) domain.HistoricalWindow {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	window := make(domain.HistoricalWindow, len(amounts))
	for i, a := range amounts {
		window[i] = domain.TimeSeriesPoint{
			PeriodStart: start.AddDate(0, i, 0),
			Amount:      a,
			Count:       1,
		}
	}
	return window
}

func params(alg domain.AlgorithmType) domain.ForecastParameters {
	return domain.ForecastParameters{
		PeriodType:        domain.PeriodMonthly,
		Algorithm:         alg,
		ConfidenceLevel:   domain.Confidence95,
		HistoricalPeriods: 12,
	}
}

func TestForecastLinearRegressionIncreasing(t *testing.T) {
	window := monthlyWindow(100, 110, 105, 120, 115, 130)
	now := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

	f := NewForecaster(0)
	predictions, err := f.Forecast(window, params(domain.AlgorithmLinearRegression), now)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}

	if len(predictions) != 3 {
		t.Fatalf("predictions = %d, want 3 for monthly", len(predictions))
	}

	for i := 1; i < len(predictions); i++ {
		if predictions[i].PredictedAmount <= predictions[i-1].PredictedAmount {
			t.Errorf("prediction %d (%v) not above prediction %d (%v); slope should be positive",
				i, predictions[i].PredictedAmount, i-1, predictions[i-1].PredictedAmount)
		}
	}

	for i, p := range predictions {
		want := now.AddDate(0, i+1, 0)
		if !p.Date.Equal(want) {
			t.Errorf("prediction %d date = %v, want %v", i, p.Date, want)
		}
	}
}

func TestForecastBandInvariant(t *testing.T) {
	window := monthlyWindow(900, 1250, 1100, 700, 1300, 1000, 950, 1200)
	now := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	f := NewForecaster(0)

	algorithms := []domain.AlgorithmType{
		domain.AlgorithmMovingAverage,
		domain.AlgorithmLinearRegression,
		domain.AlgorithmExponentialSmoothing,
	}
	for _, alg := range algorithms {
		predictions, err := f.Forecast(window, params(alg), now)
		if err != nil {
			t.Fatalf("%s: %v", alg, err)
		}
		for i, p := range predictions {
			if p.ConfidenceLower > p.PredictedAmount || p.PredictedAmount > p.ConfidenceUpper {
				t.Errorf("%s prediction %d violates band: [%v, %v, %v]",
					alg, i, p.ConfidenceLower, p.PredictedAmount, p.ConfidenceUpper)
			}
		}
	}
}

func TestForecastIdempotent(t *testing.T) {
	window := monthlyWindow(500, 480, 520, 510, 490)
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	f := NewForecaster(0)

	first, err := f.Forecast(window, params(domain.AlgorithmExponentialSmoothing), now)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.Forecast(window, params(domain.AlgorithmExponentialSmoothing), now)
	if err != nil {
		t.Fatal(err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("prediction %d differs across identical calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestForecastInsufficientHistory(t *testing.T) {
	f := NewForecaster(0)
	now := time.Now()

	for _, n := range []int{0, 1, 2} {
		window := monthlyWindow(make([]float64, n)...)
		_, err := f.Forecast(window, params(domain.AlgorithmMovingAverage), now)
		if !errors.Is(err, ErrInsufficientHistory) {
			t.Errorf("window of %d: err = %v, want ErrInsufficientHistory", n, err)
		}
	}
}

func TestForecastInvalidParameters(t *testing.T) {
	f := NewForecaster(0)
	now := time.Now()
	window := monthlyWindow(1, 2, 3)

	bad := []domain.ForecastParameters{
		{PeriodType: "fortnightly", Algorithm: domain.AlgorithmMovingAverage, ConfidenceLevel: 95},
		{PeriodType: domain.PeriodMonthly, Algorithm: "oracle", ConfidenceLevel: 95},
		{PeriodType: domain.PeriodMonthly, Algorithm: domain.AlgorithmMovingAverage, ConfidenceLevel: 85},
		{PeriodType: domain.PeriodMonthly, Algorithm: domain.AlgorithmMovingAverage, ConfidenceLevel: 95, HistoricalPeriods: -1},
	}
	for i, p := range bad {
		if _, err := f.Forecast(window, p, now); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("case %d: err = %v, want ErrInvalidParameter", i, err)
		}
	}
}

func TestStepsPerPeriod(t *testing.T) {
	cases := []struct {
		period domain.PeriodType
		want   int
	}{
		{domain.PeriodWeekly, 4},
		{domain.PeriodMonthly, 3},
		{domain.PeriodQuarterly, 4},
		{domain.PeriodYearly, 1},
	}
	for _, c := range cases {
		got, err := Steps(c.period)
		if err != nil {
			t.Fatalf("%s: %v", c.period, err)
		}
		if got != c.want {
			t.Errorf("Steps(%s) = %d, want %d", c.period, got, c.want)
		}
	}

	if _, err := Steps("daily"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("unknown period err = %v, want ErrInvalidParameter", err)
	}
}

func TestZScores(t *testing.T) {
	cases := map[int]float64{80: 1.28, 90: 1.645, 95: 1.96, 99: 2.576}
	for level, want := range cases {
		got, err := ZScore(level)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		if got != want {
			t.Errorf("ZScore(%d) = %v, want %v", level, got, want)
		}
	}
}

func TestMovingAverageUsesTrailingWindow(t *testing.T) {
	// Early outliers must not leak into the trailing-3 window.
	series := []float64{1, 2, 3, 100, 110, 120}
	est := (&MovingAverage{}).Estimate(series, 3, 1.96)

	if len(est) != 3 {
		t.Fatalf("estimates = %d, want 3", len(est))
	}
	if math.Abs(est[0].Amount-110) > 1e-9 {
		t.Errorf("amount = %v, want trailing mean 110", est[0].Amount)
	}
	for i := 1; i < len(est); i++ {
		if est[i] != est[0] {
			t.Errorf("estimate %d differs; a flat average carries no slope", i)
		}
	}
}

func TestExponentialSmoothingConstantSeries(t *testing.T) {
	est := (&ExponentialSmoothing{Alpha: 0.3}).Estimate([]float64{10, 10, 10}, 3, 1.96)

	for i, e := range est {
		if e.Amount != 10 || e.Lower != 10 || e.Upper != 10 {
			t.Errorf("estimate %d = %+v, want collapsed band at 10", i, e)
		}
	}
}

func TestLinearRegressionFloorsAtZero(t *testing.T) {
	// Steep decline extrapolates below zero; predictions must floor at 0.
	est := (&LinearRegression{}).Estimate([]float64{300, 200, 100}, 3, 1.96)

	last := est[len(est)-1]
	if last.Amount != 0 || last.Lower != 0 || last.Upper != 0 {
		t.Errorf("declining extrapolation = %+v, want floored at zero", last)
	}
}
