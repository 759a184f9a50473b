package forecast

import (
	"expenseflow/internal/domain"
	"expenseflow/internal/stats"
)

// LinearRegression extrapolates an ordinary-least-squares fit over the
// series index. Predictions are floored at zero.
//
// The ±20% confidence band is a deliberate heuristic carried over from the
// original product behavior, not a residual-based statistical band. The
// z-score is intentionally unused here.
type LinearRegression struct{}

// Type returns the algorithm identifier.
func (a *LinearRegression) Type() domain.AlgorithmType {
	return domain.AlgorithmLinearRegression
}

// Estimate extrapolates the fitted line one step per future period.
func (a *LinearRegression) Estimate(series []float64, steps int, _ float64) []Estimate {
	slope, intercept := stats.OLS(series)
	n := len(series)

	out := make([]Estimate, steps)
	for k := 1; k <= steps; k++ {
		predicted := intercept + slope*float64(n+k)
		if predicted < 0 {
			predicted = 0
		}
		out[k-1] = Estimate{
			Amount: predicted,
			Lower:  predicted * 0.8,
			Upper:  predicted * 1.2,
		}
	}
	return out
}

var _ Algorithm = (*LinearRegression)(nil)
