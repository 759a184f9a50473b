package simulation

import (
	"math"

	"expenseflow/internal/domain"
)

// quickZ is the z-score bounding the 10th/90th percentile of the normal
// approximation used by the quick preview.
const quickZ = 1.28

// Quick produces a closed-form approximation of a simulation outcome for
// interactive previews. The cumulative balance after d days is treated as
// normal with mean B + d·μ and deviation σ·√d, so no paths are simulated
// at all.
func Quick(params GenerativeParams, horizonDays int) *domain.QuickEstimate {
	if horizonDays <= 0 {
		horizonDays = domain.QuickHorizonDays
	}
	if horizonDays > domain.MaxHorizonDays {
		horizonDays = domain.MaxHorizonDays
	}

	mu := params.DailyIncomeMean - params.DailyExpenseMean
	sigma := math.Sqrt(params.DailyIncomeStddev*params.DailyIncomeStddev +
		params.DailyExpenseStddev*params.DailyExpenseStddev)

	d := float64(horizonDays)
	expected := params.StartingBalance + d*mu
	spread := quickZ * sigma * math.Sqrt(d)

	est := &domain.QuickEstimate{
		HorizonDays:    horizonDays,
		ExpectedEnding: expected,
		EndingP10:      expected - spread,
		EndingP90:      expected + spread,
	}

	// First day the expected balance crosses zero, if the drift is
	// negative or the balance already is.
	if params.StartingBalance <= 0 {
		day := 1
		est.EstimatedRunway = &day
	} else if mu < 0 {
		day := int(math.Ceil(params.StartingBalance / -mu))
		if day <= horizonDays {
			est.EstimatedRunway = &day
		}
	}

	return est
}
