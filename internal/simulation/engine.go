package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"expenseflow/internal/domain"
	"expenseflow/internal/observability"
)

// pathBatchSize is the number of paths dispatched per worker task.
// Cancellation is checked between batches, not inside a path.
const pathBatchSize = 256

// DayModifier scales the income and expense draws of a single simulated
// day. Used by the stress test engine; days are 1-based.
type DayModifier func(day int) (incomeMult, expenseMult float64)

// Config bounds the engine. Zero values fall back to the domain defaults;
// configured ceilings are themselves clamped to the hard caps.
type Config struct {
	MaxSimulations int
	MaxHorizonDays int
	Workers        int
	Metrics        *observability.Metrics
}

// Engine runs Monte Carlo cash-flow simulations over a bounded worker
// pool. Paths are mutually independent; with a caller-supplied seed every
// path derives its own generator from (seed, path index), so scheduling
// order never affects output.
type Engine struct {
	maxSimulations int
	maxHorizonDays int
	workers        int
	metrics        *observability.Metrics
}

// NewEngine creates a simulation engine.
func NewEngine(cfg Config) *Engine {
	maxSims := cfg.MaxSimulations
	if maxSims <= 0 || maxSims > domain.MaxSimulations {
		maxSims = domain.MaxSimulations
	}
	maxHorizon := cfg.MaxHorizonDays
	if maxHorizon <= 0 || maxHorizon > domain.MaxHorizonDays {
		maxHorizon = domain.MaxHorizonDays
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Engine{
		maxSimulations: maxSims,
		maxHorizonDays: maxHorizon,
		workers:        workers,
		metrics:        cfg.Metrics,
	}
}

// Run executes a Monte Carlo simulation for the baseline distribution.
func (e *Engine) Run(ctx context.Context, params GenerativeParams, req domain.SimulationRequest) (*domain.SimulationResult, error) {
	return e.RunWithModifier(ctx, params, req, nil)
}

// RunWithModifier executes a simulation with an optional per-day shock
// modifier layered on the generative distribution.
func (e *Engine) RunWithModifier(ctx context.Context, params GenerativeParams, req domain.SimulationRequest, mod DayModifier) (*domain.SimulationResult, error) {
	if req.Simulations < 0 || req.HorizonDays < 0 {
		return nil, fmt.Errorf("%w: simulations=%d horizonDays=%d", ErrInvalidRequest, req.Simulations, req.HorizonDays)
	}

	sims, horizon, clamped := e.clamp(req)
	seed := req.Seed
	if seed == 0 {
		seed = rand.Int64()
	}

	params = params.Adjusted(req.Adjustments)

	started := time.Now()

	// One row per day, one column per path. Each worker writes only its
	// own path columns, so rows are shared without locking.
	balancesByDay := make([][]float64, horizon)
	for d := range balancesByDay {
		balancesByDay[d] = make([]float64, sims)
	}
	exhaustDay := make([]int, sims)
	endings := make([]float64, sims)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for start := 0; start < sims; start += pathBatchSize {
		// Cooperative cancellation between path batches.
		if err := gctx.Err(); err != nil {
			break
		}

		start := start
		end := start + pathBatchSize
		if end > sims {
			end = sims
		}

		g.Go(func() error {
			for path := start; path < end; path++ {
				e.simulatePath(params, seed, path, horizon, mod, balancesByDay, exhaustDay, endings)
			}
			return nil
		})
	}

	// Fan-in barrier: aggregation never sees partial paths.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := aggregate(balancesByDay, exhaustDay, endings, horizon)
	result.Simulations = sims
	result.HorizonDays = horizon
	result.Seed = seed
	result.Clamped = clamped

	if e.metrics != nil {
		e.metrics.SimulationRuns.Inc()
		e.metrics.SimulationPaths.Add(float64(sims))
		e.metrics.SimulationDuration.Observe(time.Since(started).Seconds())
		if clamped {
			e.metrics.RequestsClamped.Inc()
		}
	}

	return result, nil
}

// simulatePath walks one balance path day by day. The generator is derived
// from (seed, path) alone, so results are independent of scheduling.
func (e *Engine) simulatePath(params GenerativeParams, seed int64, path, horizon int, mod DayModifier, balancesByDay [][]float64, exhaustDay []int, endings []float64) {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(path)))

	balance := params.StartingBalance
	exhausted := horizon + 1 // sentinel: never exhausted within horizon

	for day := 1; day <= horizon; day++ {
		incomeMult, expenseMult := 1.0, 1.0
		if mod != nil {
			incomeMult, expenseMult = mod(day)
		}

		income := draw(rng, params.DailyIncomeMean, params.DailyIncomeStddev) * incomeMult
		expense := draw(rng, params.DailyExpenseMean, params.DailyExpenseStddev) * expenseMult

		balance += income - expense
		balancesByDay[day-1][path] = balance

		if balance <= 0 && exhausted > horizon {
			exhausted = day
		}
	}

	exhaustDay[path] = exhausted
	endings[path] = balance
}

// draw samples a non-negative daily amount from a normal perturbation of
// the historical rate. Negative daily income or expense is not a thing.
func draw(rng *rand.Rand, mean, stddev float64) float64 {
	v := mean + rng.NormFloat64()*stddev
	if v < 0 {
		return 0
	}
	return v
}

// clamp applies defaults and ceilings to a request.
func (e *Engine) clamp(req domain.SimulationRequest) (sims, horizon int, clamped bool) {
	sims = req.Simulations
	if sims == 0 {
		sims = domain.DefaultSimulations
	}
	if sims > e.maxSimulations {
		sims = e.maxSimulations
		clamped = true
	}

	horizon = req.HorizonDays
	if horizon == 0 {
		horizon = domain.DefaultHorizonDays
	}
	if horizon > e.maxHorizonDays {
		horizon = e.maxHorizonDays
		clamped = true
	}

	return sims, horizon, clamped
}
