package api

import (
	"encoding/json"

	"github.com/rpgo/finplan/internal/domain"
)

// ErrorResponse is the envelope for every non-2xx reply.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type InvestmentResponse struct {
	RunID string `json:"run_id"`
	domain.InvestmentResult
}

type DebtResponse struct {
	RunID string `json:"run_id"`
	domain.DebtResult
}

type MonteCarloResponse struct {
	RunID string `json:"run_id"`
	*domain.MonteCarloSummary
}

// MonthsResponse echoes a month list in its normalized forms.
type MonthsResponse struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized"`
	Months     []int  `json:"months"`
}

// PlanRequest mirrors domain.Plan but keeps sections raw so each can be
// decoded over its defaults.
type PlanRequest struct {
	Name       string          `json:"name"`
	Investment json.RawMessage `json:"investment,omitempty"`
	Debt       json.RawMessage `json:"debt,omitempty"`
}

// ToPlan decodes the raw sections over domain defaults.
func (r PlanRequest) ToPlan() (*domain.Plan, error) {
	plan := &domain.Plan{Name: r.Name}
	if len(r.Investment) > 0 && string(r.Investment) != "null" {
		in := domain.DefaultInvestmentInputs()
		if err := json.Unmarshal(r.Investment, &in); err != nil {
			return nil, err
		}
		plan.Investment = &in
	}
	if len(r.Debt) > 0 && string(r.Debt) != "null" {
		d := domain.DefaultDebtInputs()
		if err := json.Unmarshal(r.Debt, &d); err != nil {
			return nil, err
		}
		plan.Debt = &d
	}
	return plan, nil
}
