package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/internal/metrics"
	"github.com/rpgo/finplan/internal/output"
	"github.com/rpgo/finplan/pkg/dateutil"
)

func newRunID(c *gin.Context) string {
	id := uuid.NewString()
	c.Set(runIDKey, id)
	c.Header("X-Run-ID", id)
	return id
}

func writeError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case errors.Is(err, domain.ErrNotLiquidated):
		status, code = http.StatusUnprocessableEntity, "NOT_LIQUIDATED"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusServiceUnavailable, "CANCELLED"
	}
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: err.Error()}})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()}})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) bindInvestment(c *gin.Context) (domain.InvestmentInputs, bool) {
	in := domain.DefaultInvestmentInputs()
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return in, false
	}
	if err := s.parser.ValidateInvestment(&in); err != nil {
		writeError(c, err)
		return in, false
	}
	return in, true
}

func (s *Server) observeInvestment(res domain.InvestmentResult) {
	if n := len(calculation.CheckYearRows(res.Rows)); n > 0 {
		metrics.InvariantViolations.Add(float64(n))
	}
	if res.MonteCarlo != nil {
		metrics.MonteCarloTrials.Add(float64(res.MonteCarlo.Runs))
	}
}

// projectInvestment handles POST /api/v1/investment.
func (s *Server) projectInvestment(c *gin.Context) {
	in, ok := s.bindInvestment(c)
	if !ok {
		return
	}
	runID := newRunID(c)
	span := trace.SpanFromContext(c.Request.Context())
	span.SetAttributes(
		attribute.Int("finplan.years", in.Years),
		attribute.String("finplan.instrument", string(in.Instrument)),
		attribute.String("finplan.frequency", string(in.Frequency)),
	)

	start := time.Now()
	res, err := s.engine.ProjectInvestment(c.Request.Context(), in)
	metrics.ObserveSimulation(metrics.KindInvestment, start, err)
	if err != nil {
		writeError(c, err)
		return
	}
	s.observeInvestment(res)
	c.JSON(http.StatusOK, InvestmentResponse{RunID: runID, InvestmentResult: res})
}

// amortizeDebt handles POST /api/v1/debt.
func (s *Server) amortizeDebt(c *gin.Context) {
	in := domain.DefaultDebtInputs()
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.parser.ValidateDebt(&in); err != nil {
		writeError(c, err)
		return
	}
	runID := newRunID(c)
	trace.SpanFromContext(c.Request.Context()).SetAttributes(
		attribute.Int("finplan.term_months", in.TermMonths),
		attribute.Float64("finplan.cat_annual", in.CATAnnual),
	)

	start := time.Now()
	res, err := s.engine.AmortizeDebt(c.Request.Context(), in)
	metrics.ObserveSimulation(metrics.KindDebt, start, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, DebtResponse{RunID: runID, DebtResult: res})
}

// monteCarlo handles POST /api/v1/montecarlo and returns only the percentiles.
func (s *Server) monteCarlo(c *gin.Context) {
	in, ok := s.bindInvestment(c)
	if !ok {
		return
	}
	if !in.MonteCarloEnabled() {
		writeError(c, fmtInvalid("mc_runs and vol_annual must both be positive"))
		return
	}
	if !in.HasFunding() {
		writeError(c, fmtInvalid("initial or monthly must be positive"))
		return
	}
	runID := newRunID(c)

	start := time.Now()
	summary, err := s.engine.MonteCarlo.Run(c.Request.Context(), in)
	metrics.ObserveSimulation(metrics.KindMonteCarlo, start, err)
	if err != nil {
		writeError(c, err)
		return
	}
	metrics.MonteCarloTrials.Add(float64(summary.Runs))
	c.JSON(http.StatusOK, MonteCarloResponse{RunID: runID, MonteCarloSummary: summary})
}

// runPlan handles POST /api/v1/plan. The optional format query selects an
// output formatter; JSON is the default.
func (s *Server) runPlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	plan, err := req.ToPlan()
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := s.parser.ValidatePlan(plan); err != nil {
		writeError(c, err)
		return
	}

	start := time.Now()
	report, err := s.engine.RunPlan(c.Request.Context(), plan)
	metrics.ObserveSimulation(metrics.KindPlan, start, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(runIDKey, report.RunID)
	c.Header("X-Run-ID", report.RunID)
	if report.Investment != nil {
		s.observeInvestment(*report.Investment)
	}
	report.Assumptions = output.GenerateAssumptions(report)

	format := output.NormalizeFormatName(c.DefaultQuery("format", "json"))
	if format == "json" {
		c.JSON(http.StatusOK, report)
		return
	}
	var buf bytes.Buffer
	if err := output.Render(&buf, report, format); err != nil {
		if errors.Is(err, output.ErrUnsupportedFormat) {
			badRequest(c, err)
			return
		}
		writeError(c, err)
		return
	}
	contentType := "text/plain; charset=utf-8"
	if format == "csv" || format == "debt-csv" {
		contentType = "text/csv; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// months handles GET /api/v1/months?list=...
func (s *Server) months(c *gin.Context) {
	list := c.Query("list")
	c.JSON(http.StatusOK, MonthsResponse{
		Input:      list,
		Normalized: dateutil.NormalizeMonths(list),
		Months:     dateutil.ParseMonths(list).Months(),
	})
}
