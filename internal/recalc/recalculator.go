// Package recalc re-runs plans when their inputs change. Only the most recent
// submission is ever published; older runs are cancelled and their results dropped.
package recalc

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/internal/metrics"
)

// Runner evaluates a plan. *calculation.CalculationEngine satisfies it.
type Runner interface {
	RunPlan(ctx context.Context, plan *domain.Plan) (*domain.PlanReport, error)
}

// Result is the outcome of one submission.
type Result struct {
	Seq    uint64
	Report *domain.PlanReport
	Err    error
}

// Recalculator runs at most one plan at a time on behalf of its caller.
type Recalculator struct {
	runner Runner
	logger *zap.Logger

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
	results chan Result
}

// NewRecalculator creates a Recalculator. A nil logger disables logging.
func NewRecalculator(runner Runner, logger *zap.Logger) *Recalculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recalculator{
		runner:  runner,
		logger:  logger.Named("recalc"),
		results: make(chan Result, 1),
	}
}

// Results delivers published results. The channel holds only the latest one
// and is closed by Close.
func (r *Recalculator) Results() <-chan Result {
	return r.results
}

// Submit starts evaluating plan and cancels whatever was running. It returns
// the sequence number of the new run, or 0 once the Recalculator is closed.
func (r *Recalculator) Submit(plan *domain.Plan) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0
	}
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	seq := r.seq
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		start := time.Now()
		report, err := r.runner.RunPlan(ctx, plan)
		if ctx.Err() != nil && (err != nil || report == nil) {
			r.logger.Debug("run superseded", zap.Uint64("seq", seq))
			return
		}
		metrics.ObserveSimulation(metrics.KindPlan, start, err)
		r.publish(Result{Seq: seq, Report: report, Err: err})
	}()
	return seq
}

// Reject publishes err as the latest result and cancels the in-flight run.
// Watchers use it to surface plan files that fail to parse.
func (r *Recalculator) Reject(err error) uint64 {
	if err == nil {
		err = errors.New("rejected without a reason")
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0
	}
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	r.publish(Result{Seq: seq, Err: err})
	return seq
}

func (r *Recalculator) publish(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || res.Seq != r.seq {
		r.logger.Debug("dropping stale result", zap.Uint64("seq", res.Seq), zap.Uint64("latest", r.seq))
		return
	}
	select {
	case <-r.results:
	default:
	}
	select {
	case r.results <- res:
	default:
	}
	if res.Err != nil {
		r.logger.Warn("recalculation failed", zap.Uint64("seq", res.Seq), zap.Error(res.Err))
		return
	}
	r.logger.Debug("recalculation published", zap.Uint64("seq", res.Seq), zap.String("run_id", res.Report.RunID))
}

// Close cancels the in-flight run, waits for it and closes Results.
func (r *Recalculator) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	r.wg.Wait()
	close(r.results)
}
