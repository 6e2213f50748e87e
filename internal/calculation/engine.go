package calculation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpgo/finplan/internal/domain"
)

// CalculationEngine orchestrates the investment projector, the Monte Carlo
// overlay and the debt amortizer.
type CalculationEngine struct {
	Projector  *InvestmentProjector
	MonteCarlo *MonteCarloOverlay
	Amortizer  *DebtAmortizer
	Debug      bool // Enable debug output for detailed calculations
	Logger     Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	logger := NopLogger{}
	return &CalculationEngine{
		Projector:  NewInvestmentProjector(logger),
		MonteCarlo: NewMonteCarloOverlay(logger),
		Amortizer:  NewDebtAmortizer(logger),
		Logger:     logger,
	}
}

// SetLogger sets the logger for the engine and its components. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	l = orNop(l)
	ce.Logger = l
	ce.Projector.Logger = l
	ce.MonteCarlo.Logger = l
	ce.Amortizer.Logger = l
}

// ProjectInvestment runs the deterministic projection and, when enabled, the
// Monte Carlo overlay. Only cancellation of the overlay produces an error.
func (ce *CalculationEngine) ProjectInvestment(ctx context.Context, in domain.InvestmentInputs) (domain.InvestmentResult, error) {
	result := ce.Projector.Project(in)
	if ce.Debug {
		ce.Logger.Debugf("projection: %d rows nominal=%.2f contrib=%.2f real=%.2f", len(result.Rows), result.Nominal, result.TotalContrib, result.RealValue)
	}
	if result.IsEmpty() {
		return result, nil
	}

	summary, err := ce.MonteCarlo.Run(ctx, in)
	if err != nil {
		return domain.InvestmentResult{}, err
	}
	result.MonteCarlo = summary
	return result, nil
}

// AmortizeDebt builds a loan schedule. ctx is checked before work starts.
func (ce *CalculationEngine) AmortizeDebt(ctx context.Context, in domain.DebtInputs) (domain.DebtResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.DebtResult{}, err
	}
	return ce.Amortizer.Amortize(in)
}

// RunPlan evaluates every section of a plan. Loan failures are recorded on the
// report so an investment section still renders; the error return is reserved
// for empty plans and cancellation.
func (ce *CalculationEngine) RunPlan(ctx context.Context, plan *domain.Plan) (*domain.PlanReport, error) {
	if plan == nil || (plan.Investment == nil && plan.Debt == nil) {
		return nil, fmt.Errorf("%w: plan has neither an investment nor a debt section", domain.ErrInvalidInput)
	}

	report := &domain.PlanReport{
		RunID:       uuid.NewString(),
		Name:        plan.Name,
		GeneratedAt: nowFunc(),
	}

	if plan.Investment != nil {
		in := *plan.Investment
		res, err := ce.ProjectInvestment(ctx, in)
		if err != nil {
			return nil, err
		}
		report.InvestmentInputs = &in
		report.Investment = &res
	}

	if plan.Debt != nil {
		in := *plan.Debt
		report.DebtInputs = &in
		res, err := ce.AmortizeDebt(ctx, in)
		switch {
		case err == nil:
			report.Debt = &res
		case ctx.Err() != nil:
			return nil, ctx.Err()
		default:
			ce.Logger.Warnf("debt section %q: %v", in.Title, err)
			report.DebtError = err.Error()
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return report, nil
}
