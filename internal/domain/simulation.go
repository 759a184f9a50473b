package domain

// Simulation defaults and hard ceilings. Requests above a ceiling are
// clamped, never rejected.
const (
	DefaultSimulations = 10000
	MaxSimulations     = 50000
	DefaultHorizonDays = 90
	MaxHorizonDays     = 365

	// Stress tests run a shorter horizon and fewer paths per scenario.
	MaxStressHorizonDays = 180
	StressSimulations    = 1000

	// Quick previews use a closed-form estimate, never full path counts.
	QuickHorizonDays = 90
)

// ScenarioAdjustments shifts the baseline generative assumptions before
// simulation. Multipliers of 1.0 leave the baseline untouched.
type ScenarioAdjustments struct {
	IncomeMultiplier  float64 // scales daily income draws
	ExpenseMultiplier float64 // scales daily expense draws
}

// SimulationRequest configures a Monte Carlo run.
type SimulationRequest struct {
	Simulations int                  // path count, 0 = default, clamped to MaxSimulations
	HorizonDays int                  // days to project, 0 = default, clamped to MaxHorizonDays
	Adjustments *ScenarioAdjustments // optional baseline shifts
	Seed        int64                // 0 = non-deterministic; otherwise bit-identical replays
}

// FanChartDay holds the percentile band of simulated balances for one day.
type FanChartDay struct {
	Day int // 1-based day offset from the reference time
	P10 float64
	P25 float64
	P50 float64
	P75 float64
	P90 float64
}

// RunwayPercentiles summarizes the distribution of runway-exhaustion days.
// Paths that never exhaust within the horizon count as horizon+1.
// Invariant: P10 <= P50 <= P90.
type RunwayPercentiles struct {
	P10 float64
	P50 float64
	P90 float64
}

// HistogramBin is one bin of the runway-exhaustion histogram.
type HistogramBin struct {
	FromDay int // inclusive
	ToDay   int // inclusive; ToDay > horizon marks the never-exhausted bucket
	Count   int
}

// SimulationResult aggregates all simulated paths.
type SimulationResult struct {
	Simulations    int   // paths actually executed (after clamping)
	HorizonDays    int   // horizon actually simulated (after clamping)
	Seed           int64 // seed used; echoes the request seed or the generated one
	Clamped        bool  // true when the request exceeded a ceiling
	FanChart       []FanChartDay
	Runway         RunwayPercentiles
	Histogram      []HistogramBin
	ExhaustedPaths int     // paths that hit zero within the horizon
	MedianEnding   float64 // median ending balance across paths
}

// ShockType identifies a named deterministic stress shock.
type ShockType string

// Shock type constants
const (
	ShockRecession    ShockType = "recession"
	ShockIncomeLoss   ShockType = "income_loss"
	ShockExpenseSpike ShockType = "expense_spike"
)

// StressScenario is a named shock applied atop the baseline generative model.
type StressScenario struct {
	Name      string
	Shock     ShockType
	Magnitude float64 // fraction for recession/expense_spike, days for income_loss
	ShockDays int     // duration of the shock window; 0 = whole horizon
}

// Default stress scenario set.
var (
	StressScenarioRecession = StressScenario{
		Name:      "recession",
		Shock:     ShockRecession,
		Magnitude: 0.30,
	}

	StressScenarioIncomeLoss = StressScenario{
		Name:      "income_loss",
		Shock:     ShockIncomeLoss,
		Magnitude: 1.0,
		ShockDays: 90,
	}

	StressScenarioExpenseSpike = StressScenario{
		Name:      "expense_spike",
		Shock:     ShockExpenseSpike,
		Magnitude: 0.25,
		ShockDays: 60,
	}
)

// DefaultStressScenarios returns the standard shock set in a fixed order.
func DefaultStressScenarios() []StressScenario {
	return []StressScenario{
		StressScenarioRecession,
		StressScenarioIncomeLoss,
		StressScenarioExpenseSpike,
	}
}

// StressResult compares one shocked run against the unshocked baseline.
type StressResult struct {
	Scenario           StressScenario
	Baseline           RunwayPercentiles
	Shocked            RunwayPercentiles
	RunwayDeltaP50     float64 // shocked P50 minus baseline P50, days
	EndingBalanceDelta float64 // shocked median ending minus baseline median ending
}

// QuickEstimate is the closed-form preview of a simulation outcome.
type QuickEstimate struct {
	HorizonDays     int
	ExpectedEnding  float64
	EndingP10       float64
	EndingP90       float64
	EstimatedRunway *int // first day the expected balance reaches zero, nil if never
}
