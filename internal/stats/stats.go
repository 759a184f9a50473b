// Package stats provides the small set of estimators shared by the
// forecasting, simulation and goal engines. It is not a general-purpose
// statistics library.
package stats

import "math"

// Mean calculates the arithmetic mean. Returns 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStddev calculates sample standard deviation (n-1 denominator).
// Returns 0 with fewer than 2 samples.
func SampleStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// Percentile uses linear interpolation over a pre-sorted ascending slice.
// p is a fraction (0.10 = 10th percentile).
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// OLS fits ordinary least squares over x = 1..n against the values.
// Returns the slope and intercept. A series shorter than 2 or with zero
// x-variance yields a flat line through the mean.
func OLS(values []float64) (slope, intercept float64) {
	n := len(values)
	if n < 2 {
		return 0, Mean(values)
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i + 1)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0, Mean(values)
	}

	slope = (fn*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / fn
	return slope, intercept
}

// Clamp bounds a value to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
