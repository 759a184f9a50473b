package simulation

import (
	"math"
	"testing"

	"expenseflow/internal/domain"
)

func TestQuickPositiveDrift(t *testing.T) {
	est := Quick(testParams(), 90)

	if est.HorizonDays != 90 {
		t.Errorf("horizon = %d, want 90", est.HorizonDays)
	}

	// Drift is +10/day from a 5000 balance.
	want := 5000 + 90*10.0
	if math.Abs(est.ExpectedEnding-want) > 1e-9 {
		t.Errorf("ExpectedEnding = %v, want %v", est.ExpectedEnding, want)
	}
	if !(est.EndingP10 < est.ExpectedEnding && est.ExpectedEnding < est.EndingP90) {
		t.Errorf("band not ordered: %+v", est)
	}
	if est.EstimatedRunway != nil {
		t.Errorf("EstimatedRunway = %d, want nil with positive drift", *est.EstimatedRunway)
	}
}

func TestQuickNegativeDrift(t *testing.T) {
	params := GenerativeParams{
		StartingBalance:  900,
		DailyIncomeMean:  50,
		DailyExpenseMean: 80,
	}

	est := Quick(params, 90)

	// -30/day from 900 crosses zero on day 30.
	if est.EstimatedRunway == nil {
		t.Fatal("expected an estimated runway with negative drift")
	}
	if *est.EstimatedRunway != 30 {
		t.Errorf("EstimatedRunway = %d, want 30", *est.EstimatedRunway)
	}
}

func TestQuickAlreadyBroke(t *testing.T) {
	params := GenerativeParams{StartingBalance: -10, DailyIncomeMean: 5}

	est := Quick(params, 30)
	if est.EstimatedRunway == nil || *est.EstimatedRunway != 1 {
		t.Errorf("EstimatedRunway = %v, want day 1 for a non-positive balance", est.EstimatedRunway)
	}
}

func TestQuickDefaultsAndCaps(t *testing.T) {
	if est := Quick(testParams(), 0); est.HorizonDays != domain.QuickHorizonDays {
		t.Errorf("horizon = %d, want default %d", est.HorizonDays, domain.QuickHorizonDays)
	}
	if est := Quick(testParams(), 100000); est.HorizonDays != domain.MaxHorizonDays {
		t.Errorf("horizon = %d, want capped at %d", est.HorizonDays, domain.MaxHorizonDays)
	}
}
