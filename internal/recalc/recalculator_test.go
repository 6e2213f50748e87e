package recalc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// blockingRunner never finishes a plan named "slow" until its context is cancelled.
type blockingRunner struct {
	started chan string
}

func (b *blockingRunner) RunPlan(ctx context.Context, plan *domain.Plan) (*domain.PlanReport, error) {
	if b.started != nil {
		b.started <- plan.Name
	}
	if plan.Name == "slow" {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &domain.PlanReport{RunID: "run-" + plan.Name, Name: plan.Name}, nil
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case res, ok := <-ch:
		require.True(t, ok, "results channel closed")
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a result")
		return Result{}
	}
}

func TestLatestSubmissionWins(t *testing.T) {
	runner := &blockingRunner{started: make(chan string, 2)}
	r := NewRecalculator(runner, nil)

	first := r.Submit(&domain.Plan{Name: "slow"})
	assert.Equal(t, "slow", <-runner.started)
	second := r.Submit(&domain.Plan{Name: "fast"})
	assert.Equal(t, "fast", <-runner.started)
	assert.Greater(t, second, first)

	res := waitResult(t, r.Results())
	assert.Equal(t, second, res.Seq)
	require.NoError(t, res.Err)
	assert.Equal(t, "fast", res.Report.Name)

	r.Close()
	_, open := <-r.Results()
	assert.False(t, open, "no stale result may be published after the latest one")
}

func TestSubmitAfterClose(t *testing.T) {
	r := NewRecalculator(&blockingRunner{}, nil)
	r.Close()
	r.Close()
	assert.Zero(t, r.Submit(&domain.Plan{Name: "x"}))
	assert.Zero(t, r.Reject(errors.New("x")))
}

func TestCloseCancelsInFlight(t *testing.T) {
	runner := &blockingRunner{started: make(chan string, 1)}
	r := NewRecalculator(runner, nil)
	r.Submit(&domain.Plan{Name: "slow"})
	<-runner.started
	r.Close()
	_, open := <-r.Results()
	assert.False(t, open)
}

func TestRejectPublishesError(t *testing.T) {
	r := NewRecalculator(&blockingRunner{}, nil)
	defer r.Close()

	seq := r.Reject(domain.ErrInvalidInput)
	res := waitResult(t, r.Results())
	assert.Equal(t, seq, res.Seq)
	assert.ErrorIs(t, res.Err, domain.ErrInvalidInput)
	assert.Nil(t, res.Report)
}

func TestRecalculatorWithEngine(t *testing.T) {
	r := NewRecalculator(calculation.NewCalculationEngine(), nil)
	defer r.Close()

	debt := domain.DefaultDebtInputs()
	debt.Cost = 12000
	r.Submit(&domain.Plan{Name: "loan", Debt: &debt})

	res := waitResult(t, r.Results())
	require.NoError(t, res.Err)
	require.NotNil(t, res.Report.Debt)
	assert.Equal(t, 12, res.Report.Debt.Summary.Months)
	assert.NotEmpty(t, res.Report.RunID)
}
