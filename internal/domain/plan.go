package domain

import "time"

// Plan is a complete input document: an optional investment and an optional loan.
type Plan struct {
	Name       string            `yaml:"name,omitempty" json:"name,omitempty"`
	Investment *InvestmentInputs `yaml:"investment,omitempty" json:"investment,omitempty"`
	Debt       *DebtInputs       `yaml:"debt,omitempty" json:"debt,omitempty"`
}

// PlanReport is everything the presentation layer needs to render one plan run.
type PlanReport struct {
	RunID            string            `json:"run_id"`
	Name             string            `json:"name,omitempty"`
	GeneratedAt      time.Time         `json:"generated_at"`
	InvestmentInputs *InvestmentInputs `json:"investment_inputs,omitempty"`
	Investment       *InvestmentResult `json:"investment,omitempty"`
	DebtInputs       *DebtInputs       `json:"debt_inputs,omitempty"`
	Debt             *DebtResult       `json:"debt,omitempty"`
	DebtError        string            `json:"debt_error,omitempty"`
	Assumptions      []string          `json:"assumptions,omitempty"`
}
