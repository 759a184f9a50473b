// Package goal implements savings velocity estimation and goal-completion
// probability forecasting.
package goal

import (
	"math"
	"sort"
	"time"

	"expenseflow/internal/domain"
	"expenseflow/internal/stats"
)

// MinTransactions is the smallest lookback that supports a velocity
// estimate.
const MinTransactions = 3

// Trend classification thresholds relative to average savings.
const (
	trendSlopeRatio = 0.1
)

// CalculateVelocity estimates realized savings velocity from raw
// transactions in the lookback window. Too little data is a first-class
// result, not an error: HasEnoughData is false and the message explains
// what is missing.
func CalculateVelocity(txns []*domain.Transaction) domain.VelocityMetrics {
	if len(txns) < MinTransactions {
		return domain.VelocityMetrics{
			HasEnoughData: false,
			Trend:         domain.SavingsTrend{Direction: domain.TrendFlat},
			Message:       "Not enough transaction history to estimate savings velocity. Track at least 3 transactions.",
		}
	}

	income, expense := monthlyFlows(txns)

	months := make([]time.Time, 0, len(income))
	seen := make(map[time.Time]struct{})
	for m := range income {
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			months = append(months, m)
		}
	}
	for m := range expense {
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			months = append(months, m)
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	savings := make([]float64, len(months))
	var incomeSeries, expenseSeries []float64
	for i, m := range months {
		savings[i] = income[m] - expense[m]
		incomeSeries = append(incomeSeries, income[m])
		expenseSeries = append(expenseSeries, expense[m])
	}

	velocity := stats.Mean(savings)
	slope, _ := stats.OLS(savings)

	return domain.VelocityMetrics{
		HasEnoughData:      true,
		MonthlySavingsRate: velocity,
		AverageIncome:      stats.Mean(incomeSeries),
		AverageExpenses:    stats.Mean(expenseSeries),
		Trend:              classifyTrend(slope, velocity),
		Confidence:         confidence(savings, velocity),
	}
}

// monthlyFlows groups transactions into per-month income and expense sums.
func monthlyFlows(txns []*domain.Transaction) (income, expense map[time.Time]float64) {
	income = make(map[time.Time]float64)
	expense = make(map[time.Time]float64)

	for _, t := range txns {
		d := t.Date.UTC()
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		if t.IsIncome() {
			income[month] += t.Amount
		} else {
			expense[month] += t.Amount
		}
		// Ensure both maps know every observed month.
		income[month] += 0
		expense[month] += 0
	}

	return income, expense
}

// classifyTrend labels the regression slope of the monthly savings series
// relative to the average savings.
func classifyTrend(slope, avg float64) domain.SavingsTrend {
	denom := math.Abs(avg)
	if denom == 0 {
		denom = 1
	}

	trend := domain.SavingsTrend{
		Direction: domain.TrendFlat,
		Strength:  math.Min(math.Abs(slope)/denom, 1),
		Slope:     slope,
	}

	switch {
	case slope > avg*trendSlopeRatio:
		trend.Direction = domain.TrendImproving
	case slope < -avg*trendSlopeRatio:
		trend.Direction = domain.TrendDeclining
	}

	return trend
}

// confidence scores the velocity estimate from the dispersion of the
// monthly savings series and the amount of history behind it. The
// coefficient of variation falls back to the raw deviation when the mean
// is zero, so no division by zero ever propagates.
func confidence(savings []float64, mean float64) float64 {
	sd := stats.SampleStddev(savings, mean)

	cv := sd
	if mean != 0 {
		cv = sd / math.Abs(mean)
	}

	base := math.Max(0.2, 1-0.4*cv)
	historyBonus := math.Min(0.05*float64(len(savings)-2), 0.2)

	c := stats.Clamp(base+historyBonus, 0, 1)
	return math.Round(c*100) / 100
}
