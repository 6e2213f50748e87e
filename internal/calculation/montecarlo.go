package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
	"golang.org/x/sync/errgroup"
)

const (
	MinMonteCarloRuns = 10
	MaxMonteCarloRuns = 5000
)

// ClampRuns bounds a requested trial count to [MinMonteCarloRuns, MaxMonteCarloRuns].
func ClampRuns(n int) int {
	if n < MinMonteCarloRuns {
		return MinMonteCarloRuns
	}
	if n > MaxMonteCarloRuns {
		return MaxMonteCarloRuns
	}
	return n
}

// MonteCarloOverlay re-runs the projector's contribution schedule with lognormal
// growth draws and reports terminal-balance percentiles. Fees and taxes are not
// modelled in the overlay.
type MonteCarloOverlay struct {
	// Concurrency caps parallel trials; zero means GOMAXPROCS.
	Concurrency int
	// MaxRuns lowers the upper clamp for trial counts when positive.
	MaxRuns int
	Logger  Logger
}

// NewMonteCarloOverlay creates an overlay with default concurrency.
func NewMonteCarloOverlay(logger Logger) *MonteCarloOverlay {
	return &MonteCarloOverlay{Logger: orNop(logger)}
}

// Run executes the trials. It returns nil, nil when the overlay is disabled
// (no runs, no volatility, or nothing to project).
func (mc *MonteCarloOverlay) Run(ctx context.Context, in domain.InvestmentInputs) (*domain.MonteCarloSummary, error) {
	if !in.MonteCarloEnabled() || in.Years <= 0 || !in.HasFunding() {
		return nil, nil
	}

	runs := ClampRuns(in.MCRuns)
	if mc.MaxRuns > 0 && runs > mc.MaxRuns {
		runs = mc.MaxRuns
	}
	seed := in.Seed
	if seed == 0 {
		seed = seedFunc()
	}

	cal := dateutil.NewStepCalendar(in.Frequency.StepsPerYear())
	stepMonths := cal.StepMonths()
	sigma := pct(in.VolAnnual) * math.Sqrt(stepMonths/12)
	mu := math.Log(1+pct(in.AnnualReturn))*(stepMonths/12) - 0.5*sigma*sigma
	growth := StepRate(in.ContribGrowth, stepMonths)

	limit := mc.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	finals := make([]float64, runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < runs; i++ {
		trial := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := trialRand(seed, trial)
			finals[trial] = runTrial(rng, cal, &in, mu, sigma, growth)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("monte carlo cancelled: %w", err)
	}

	sort.Float64s(finals)
	summary := &domain.MonteCarloSummary{
		Runs: runs,
		Seed: seed,
		P5:   Percentile(finals, 0.05),
		P50:  Percentile(finals, 0.50),
		P95:  Percentile(finals, 0.95),
	}
	mc.Logger.Debugf("monte carlo: %d runs seed=%d p5=%.2f p50=%.2f p95=%.2f", runs, seed, summary.P5, summary.P50, summary.P95)
	return summary, nil
}

func runTrial(rng *rand.Rand, cal dateutil.StepCalendar, in *domain.InvestmentInputs, mu, sigma, growth float64) float64 {
	balance := in.Initial
	dep := in.Monthly
	steps := in.Years * cal.StepsPerYear()
	for step := 1; step <= steps; step++ {
		d := stepContribution(cal.Slot(step), dep, in)
		if in.Timing != domain.TimingEnd {
			balance += d
		}
		balance *= math.Exp(mu + sigma*rng.NormFloat64())
		if in.Timing == domain.TimingEnd {
			balance += d
		}
		dep *= 1 + growth
	}
	return balance
}

// Percentile returns the nearest-rank value at p (0..1) of an ascending slice,
// indexing round(p*(n-1)). An empty slice yields 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	k := int(math.Round(p * float64(n-1)))
	if k < 0 {
		k = 0
	}
	if k > n-1 {
		k = n - 1
	}
	return sorted[k]
}
