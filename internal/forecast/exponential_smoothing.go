package forecast

import (
	"math"

	"expenseflow/internal/domain"
)

// ExponentialSmoothing predicts every future period at the final smoothed
// value S, where S₀ = x₀ and Sₜ = α·xₜ + (1−α)·Sₜ₋₁. The band is
// S ± z·stdev with the deviation taken over the full series relative to S.
type ExponentialSmoothing struct {
	Alpha float64
}

// Type returns the algorithm identifier.
func (a *ExponentialSmoothing) Type() domain.AlgorithmType {
	return domain.AlgorithmExponentialSmoothing
}

// Estimate computes one banded estimate per future step.
func (a *ExponentialSmoothing) Estimate(series []float64, steps int, z float64) []Estimate {
	alpha := a.Alpha
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultSmoothingAlpha
	}

	smoothed := series[0]
	for _, x := range series[1:] {
		smoothed = alpha*x + (1-alpha)*smoothed
	}

	// Deviation of the raw series around the final smoothed level.
	n := len(series)
	sd := 0.0
	if n >= 2 {
		sumSq := 0.0
		for _, x := range series {
			diff := x - smoothed
			sumSq += diff * diff
		}
		sd = math.Sqrt(sumSq / float64(n-1))
	}

	est := Estimate{
		Amount: smoothed,
		Lower:  smoothed - z*sd,
		Upper:  smoothed + z*sd,
	}

	out := make([]Estimate, steps)
	for i := range out {
		out[i] = est
	}
	return out
}

var _ Algorithm = (*ExponentialSmoothing)(nil)
