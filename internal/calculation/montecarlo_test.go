package calculation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcInputs() domain.InvestmentInputs {
	in := frictionless()
	in.Initial = 10000
	in.Monthly = 200
	in.AnnualReturn = 8
	in.Years = 10
	in.VolAnnual = 20
	in.MCRuns = 400
	in.Seed = 7
	return in
}

func TestClampRuns(t *testing.T) {
	assert.Equal(t, MinMonteCarloRuns, ClampRuns(1))
	assert.Equal(t, 250, ClampRuns(250))
	assert.Equal(t, MaxMonteCarloRuns, ClampRuns(1_000_000))
}

func TestPercentileNearestRank(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, 1.0, Percentile(data, 0.05))
	assert.Equal(t, 6.0, Percentile(data, 0.50))
	assert.Equal(t, 10.0, Percentile(data, 0.95))
	assert.Equal(t, 10.0, Percentile(data, 2))
	assert.Equal(t, 1.0, Percentile(data, -1))
	assert.Equal(t, 0.0, Percentile(nil, 0.5))
}

func TestMonteCarloDisabled(t *testing.T) {
	mc := NewMonteCarloOverlay(nil)
	in := mcInputs()
	in.MCRuns = 0
	got, err := mc.Run(context.Background(), in)
	require.NoError(t, err)
	assert.Nil(t, got)

	in = mcInputs()
	in.VolAnnual = 0
	got, err = mc.Run(context.Background(), in)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMonteCarloReproducibleAcrossConcurrency(t *testing.T) {
	in := mcInputs()
	serial := &MonteCarloOverlay{Concurrency: 1, Logger: NopLogger{}}
	parallel := &MonteCarloOverlay{Concurrency: 8, Logger: NopLogger{}}

	a, err := serial.Run(context.Background(), in)
	require.NoError(t, err)
	b, err := parallel.Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, *a, *b)
	assert.Equal(t, 400, a.Runs)
	assert.Equal(t, int64(7), a.Seed)
	assert.LessOrEqual(t, a.P5, a.P50)
	assert.LessOrEqual(t, a.P50, a.P95)
	assert.Less(t, a.P5, a.P95)
}

func TestMonteCarloRunClamping(t *testing.T) {
	in := mcInputs()
	in.MCRuns = 3
	got, err := NewMonteCarloOverlay(nil).Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, MinMonteCarloRuns, got.Runs)

	in.MCRuns = 900
	got, err = (&MonteCarloOverlay{MaxRuns: 100, Logger: NopLogger{}}).Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Runs)
}

func TestMonteCarloMedianTracksDeterministicPath(t *testing.T) {
	in := frictionless()
	in.Initial = 10000
	in.AnnualReturn = 8
	in.Years = 10
	in.VolAnnual = 0.01
	in.MCRuns = 200
	in.Seed = 11

	got, err := NewMonteCarloOverlay(nil).Run(context.Background(), in)
	require.NoError(t, err)
	want := 10000 * math.Pow(1.08, 10)
	assert.InEpsilon(t, want, got.P50, 0.005)
}

func TestMonteCarloDepositsOncePerStep(t *testing.T) {
	in := frictionless()
	in.Monthly = 1000
	in.Frequency = domain.FrequencyBiweekly
	in.VolAnnual = 0.01
	in.MCRuns = 50
	in.Seed = 3

	got, err := NewMonteCarloOverlay(nil).Run(context.Background(), in)
	require.NoError(t, err)
	assert.InEpsilon(t, 24000, got.P50, 0.001)
}

func TestMonteCarloUsesSeedFuncWhenUnpinned(t *testing.T) {
	orig := seedFunc
	defer SetSeedFunc(orig)
	SetSeedFunc(func() int64 { return 99 })

	in := mcInputs()
	in.Seed = 0
	got, err := NewMonteCarloOverlay(nil).Run(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.Seed)
}

func TestMonteCarloCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMonteCarloOverlay(nil).Run(ctx, mcInputs())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
