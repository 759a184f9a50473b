// Package main provides the Monte Carlo simulation entry point.
// Modes: full (fan chart + runway), quick (closed-form preview), stress
// (shock scenarios against a shared baseline).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"expenseflow/internal/config"
	"expenseflow/internal/domain"
	"expenseflow/internal/history"
	"expenseflow/internal/simulation"
	"expenseflow/internal/storage/memory"
)

func main() {
	config.LoadEnvFile(".env")
	cfg := config.FromEnv()

	// Parse flags
	userID := flag.String("user", "demo-user", "User to simulate")
	mode := flag.String("mode", "full", "Simulation mode (full, quick, stress)")
	period := flag.String("period", "monthly", "Aggregation period for deriving daily rates")
	periods := flag.Int("periods", 12, "Historical lookback in periods")
	balance := flag.Float64("balance", 5000, "Starting balance")
	paths := flag.Int("paths", domain.DefaultSimulations, "Monte Carlo path count")
	horizon := flag.Int("horizon", domain.DefaultHorizonDays, "Horizon in days")
	seed := flag.Int64("seed", 0, "Seed (0 picks a random one)")
	incomeMult := flag.Float64("income-mult", 0, "What-if income multiplier (0 = unchanged)")
	expenseMult := flag.Float64("expense-mult", 0, "What-if expense multiplier (0 = unchanged)")
	scenarios := flag.String("scenarios", "", "Comma-separated stress scenarios (default: all)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling...\n", sig)
		cancel()
	}()

	now := time.Now().UTC()

	params, err := deriveParams(ctx, *userID, domain.PeriodType(*period), *periods, *balance, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deriving parameters: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Simulation (%s) ===\n", *mode)
	fmt.Printf("Daily income %.2f±%.2f, daily expense %.2f±%.2f, balance %.2f\n",
		params.DailyIncomeMean, params.DailyIncomeStddev,
		params.DailyExpenseMean, params.DailyExpenseStddev, params.StartingBalance)

	engine := simulation.NewEngine(simulation.Config{
		MaxSimulations: cfg.MaxSimulations,
		MaxHorizonDays: cfg.MaxHorizonDays,
		Workers:        cfg.Workers,
	})

	switch *mode {
	case "quick":
		printQuick(simulation.Quick(params, *horizon))

	case "stress":
		results, err := simulation.NewStressEngine(engine).Run(ctx, params, parseScenarios(*scenarios), *horizon, *seed)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Stress test error: %v\n", err)
			os.Exit(1)
		}
		printStress(results)

	case "full":
		req := domain.SimulationRequest{
			Simulations: *paths,
			HorizonDays: *horizon,
			Seed:        *seed,
		}
		if *incomeMult > 0 || *expenseMult > 0 {
			req.Adjustments = &domain.ScenarioAdjustments{
				IncomeMultiplier:  *incomeMult,
				ExpenseMultiplier: *expenseMult,
			}
		}

		result, err := engine.Run(ctx, params, req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Simulation error: %v\n", err)
			os.Exit(1)
		}
		printFull(result)

	default:
		fmt.Fprintf(os.Stderr, "Unknown mode %q (full, quick, stress)\n", *mode)
		os.Exit(1)
	}
}

// deriveParams loads fixture history into memory stores and derives the
// generative distribution from it.
func deriveParams(ctx context.Context, userID string, periodType domain.PeriodType, periods int, balance float64, now time.Time) (simulation.GenerativeParams, error) {
	txnStore := memory.NewTransactionStore()
	if err := history.LoadFixtures(ctx, userID, txnStore, nil, now); err != nil {
		return simulation.GenerativeParams{}, fmt.Errorf("load fixtures: %w", err)
	}

	runner := history.NewRunner(txnStore, nil)
	params := domain.ForecastParameters{
		PeriodType:        periodType,
		HistoricalPeriods: periods,
	}
	income, expense, err := runner.FlowWindows(ctx, userID, params, now)
	if err != nil {
		return simulation.GenerativeParams{}, err
	}

	return simulation.DeriveParams(income, expense, periodType, balance)
}

// parseScenarios selects named scenarios from the default set. An empty
// selection means all of them.
func parseScenarios(names string) []domain.StressScenario {
	if names == "" {
		return nil
	}

	var selected []domain.StressScenario
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		for _, s := range domain.DefaultStressScenarios() {
			if s.Name == name {
				selected = append(selected, s)
			}
		}
	}
	return selected
}

func printFull(result *domain.SimulationResult) {
	fmt.Printf("\n%d paths over %d days (seed %d)", result.Simulations, result.HorizonDays, result.Seed)
	if result.Clamped {
		fmt.Print(" [request clamped]")
	}
	fmt.Println()

	fmt.Println("\nFan chart (every 10th day):")
	fmt.Println("  day        p10        p25        p50        p75        p90")
	for _, d := range result.FanChart {
		if d.Day%10 != 0 && d.Day != 1 && d.Day != result.HorizonDays {
			continue
		}
		fmt.Printf("  %3d %10.2f %10.2f %10.2f %10.2f %10.2f\n", d.Day, d.P10, d.P25, d.P50, d.P75, d.P90)
	}

	fmt.Printf("\nRunway days: p10=%.0f p50=%.0f p90=%.0f\n", result.Runway.P10, result.Runway.P50, result.Runway.P90)
	fmt.Printf("Paths exhausted within horizon: %d of %d\n", result.ExhaustedPaths, result.Simulations)
	fmt.Printf("Median ending balance: %.2f\n", result.MedianEnding)

	fmt.Println("\nExhaustion histogram:")
	for _, bin := range result.Histogram {
		label := fmt.Sprintf("days %d-%d", bin.FromDay, bin.ToDay)
		if bin.FromDay > result.HorizonDays {
			label = "never"
		}
		fmt.Printf("  %-14s %d\n", label, bin.Count)
	}
}

func printQuick(est *domain.QuickEstimate) {
	fmt.Printf("\nQuick estimate over %d days:\n", est.HorizonDays)
	fmt.Printf("  Expected ending balance: %.2f [%.2f, %.2f]\n", est.ExpectedEnding, est.EndingP10, est.EndingP90)
	if est.EstimatedRunway != nil {
		fmt.Printf("  Estimated runway: day %d\n", *est.EstimatedRunway)
	} else {
		fmt.Println("  Balance is not expected to run out within the horizon")
	}
}

func printStress(results []domain.StressResult) {
	fmt.Println("\nStress scenarios vs baseline:")
	for _, r := range results {
		fmt.Printf("\n  %s (%s, magnitude %.2f)\n", r.Scenario.Name, r.Scenario.Shock, r.Scenario.Magnitude)
		fmt.Printf("    Runway p50: %.0f → %.0f days (%+.0f)\n", r.Baseline.P50, r.Shocked.P50, r.RunwayDeltaP50)
		fmt.Printf("    Median ending balance delta: %+.2f\n", r.EndingBalanceDelta)
	}
}
