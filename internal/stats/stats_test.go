package stats

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := Mean([]float64{2, 4, 6}); !almostEqual(got, 4) {
		t.Errorf("Mean = %v, want 4", got)
	}
	if got := Mean([]float64{-10, 10}); !almostEqual(got, 0) {
		t.Errorf("Mean = %v, want 0", got)
	}
}

func TestSampleStddev(t *testing.T) {
	if got := SampleStddev([]float64{5}, 5); got != 0 {
		t.Errorf("stddev of single sample = %v, want 0", got)
	}

	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean := Mean(values)
	// Sample variance of this classic series is 32/7.
	want := math.Sqrt(32.0 / 7.0)
	if got := SampleStddev(values, mean); !almostEqual(got, want) {
		t.Errorf("SampleStddev = %v, want %v", got, want)
	}

	if got := SampleStddev([]float64{3, 3, 3, 3}, 3); got != 0 {
		t.Errorf("stddev of constant series = %v, want 0", got)
	}
}

func TestPercentile(t *testing.T) {
	if got := Percentile(nil, 0.5); got != 0 {
		t.Errorf("Percentile(nil) = %v, want 0", got)
	}
	if got := Percentile([]float64{7}, 0.9); got != 7 {
		t.Errorf("Percentile of single value = %v, want 7", got)
	}

	sorted := []float64{10, 20, 30, 40, 50}
	cases := []struct {
		p    float64
		want float64
	}{
		{0, 10},
		{0.25, 20},
		{0.5, 30},
		{0.75, 40},
		{1, 50},
		{0.1, 14}, // interpolated between 10 and 20
	}
	for _, c := range cases {
		if got := Percentile(sorted, c.p); !almostEqual(got, c.want) {
			t.Errorf("Percentile(p=%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestOLS(t *testing.T) {
	// Perfect line y = 2x + 1 over x = 1..4.
	slope, intercept := OLS([]float64{3, 5, 7, 9})
	if !almostEqual(slope, 2) || !almostEqual(intercept, 1) {
		t.Errorf("OLS = (%v, %v), want (2, 1)", slope, intercept)
	}

	// Flat series: zero slope through the mean.
	slope, intercept = OLS([]float64{4, 4, 4})
	if !almostEqual(slope, 0) || !almostEqual(intercept, 4) {
		t.Errorf("OLS flat = (%v, %v), want (0, 4)", slope, intercept)
	}

	// Degenerate input falls back to a flat line through the mean.
	slope, intercept = OLS([]float64{6})
	if slope != 0 || !almostEqual(intercept, 6) {
		t.Errorf("OLS single = (%v, %v), want (0, 6)", slope, intercept)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("Clamp(5,0,1) = %v, want 1", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Errorf("Clamp(-5,0,1) = %v, want 0", got)
	}
	if got := Clamp(0.5, 0, 1); got != 0.5 {
		t.Errorf("Clamp(0.5,0,1) = %v, want 0.5", got)
	}
}
