package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/finplan/internal/config"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/internal/metrics"
	"github.com/rpgo/finplan/internal/output"
	"github.com/rpgo/finplan/pkg/dateutil"
)

// outputOptions selects where and how a report is written.
type outputOptions struct {
	format string
	dir    string
}

func addOutputFlags(cmd *cobra.Command) *outputOptions {
	o := &outputOptions{}
	cmd.Flags().StringVarP(&o.format, "format", "f", "console", "Output format (console, summary, csv, debt-csv, json, all)")
	cmd.Flags().StringVarP(&o.dir, "output-dir", "o", "", "Write timestamped report files to this directory instead of stdout")
	return o
}

func (o *outputOptions) write(w io.Writer, report *domain.PlanReport) error {
	report.Assumptions = output.GenerateAssumptions(report)
	if o.dir == "" {
		return output.Render(w, report, o.format)
	}
	files, err := output.GenerateReport(report, o.format, o.dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(w, f)
	}
	return nil
}

// runPlan validates and evaluates a plan, then writes its report.
func (a *app) runPlan(cmd *cobra.Command, plan *domain.Plan, out *outputOptions) error {
	if err := config.NewInputParser().ValidatePlan(plan); err != nil {
		return err
	}
	start := time.Now()
	report, err := a.engine().RunPlan(cmd.Context(), plan)
	metrics.ObserveSimulation(metrics.KindPlan, start, err)
	if err != nil {
		return err
	}
	a.logger.Debug("plan evaluated", zap.String("run_id", report.RunID), zap.Duration("elapsed", time.Since(start)))
	if report.DebtError != "" && report.Investment == nil {
		return fmt.Errorf("%s: %w", plan.Debt.Title, domain.ErrNotLiquidated)
	}
	return out.write(cmd.OutOrStdout(), report)
}

func newInvestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invest",
		Short: "Project an investment year by year",
		Example: `  finplan invest --initial 50000 --monthly 3000 --years 20 --annual-return 9
  finplan invest --monthly 1500,50 --instrument usa_stock --w8ben=false --format csv`,
		Args: cobra.NoArgs,
	}
	flags := addInvestmentFlags(cmd)
	out := addOutputFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		in := flags.inputs()
		return a.runPlan(cmd, &domain.Plan{Investment: &in}, out)
	}
	return cmd
}

func newDebtCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "debt",
		Short:   "Build a loan amortization schedule",
		Example: `  finplan debt --cost 350000 --down-payment 70000 --cat 14,5 --term 48 --insurance 450`,
		Args:    cobra.NoArgs,
	}
	debt := addDebtFlags(cmd)
	out := addOutputFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		d := *debt
		return a.runPlan(cmd, &domain.Plan{Debt: &d}, out)
	}
	return cmd
}

func newMonteCarloCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Estimate the P5/P50/P95 range of the final balance",
		Args:  cobra.NoArgs,
	}
	flags := addInvestmentFlags(cmd)
	cmd.Flags().Lookup("mc-runs").DefValue = "1000"
	flags.in.MCRuns = 1000
	flags.in.VolAnnual = 15
	cmd.Flags().Lookup("vol").DefValue = "15"

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		in := flags.inputs()
		if err := config.NewInputParser().ValidateInvestment(&in); err != nil {
			return err
		}
		if !in.MonteCarloEnabled() || !in.HasFunding() {
			return fmt.Errorf("%w: monte carlo needs --vol, --mc-runs and a contribution", domain.ErrInvalidInput)
		}
		ce := a.engine()
		start := time.Now()
		summary, err := ce.MonteCarlo.Run(cmd.Context(), in)
		metrics.ObserveSimulation(metrics.KindMonteCarlo, start, err)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Runs: %d (seed %d)\n", summary.Runs, summary.Seed)
		fmt.Fprintf(w, "P5:  %s\n", output.FormatCurrency(summary.P5))
		fmt.Fprintf(w, "P50: %s\n", output.FormatCurrency(summary.P50))
		fmt.Fprintf(w, "P95: %s\n", output.FormatCurrency(summary.P95))
		return nil
	}
	return cmd
}

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [plan-file]",
		Short: "Evaluate a YAML plan file",
		Args:  cobra.ExactArgs(1),
	}
	out := addOutputFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		plan, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return err
		}
		return a.runPlan(cmd, plan, out)
	}
	return cmd
}

func newExampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-config [output-file]",
		Short: "Write an example plan file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan := config.NewInputParser().CreateExamplePlan()
			if len(args) == 0 {
				data, err := yaml.Marshal(plan)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := config.SavePlan(plan, args[0]); err != nil {
				return fmt.Errorf("failed to save example plan: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example plan written to %s\n", args[0])
			return nil
		},
	}
}

func newMonthsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "months [list]",
		Short:   "Normalize a month list",
		Example: `  finplan months "12, 6,6,x"   # prints 12,6`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), dateutil.NormalizeMonths(args[0]))
			return nil
		},
	}
}
