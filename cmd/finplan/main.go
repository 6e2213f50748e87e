package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/internal/logging"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	verbose  bool
	logLevel string
	logger   *zap.Logger
}

func (a *app) engine() *calculation.CalculationEngine {
	ce := calculation.NewCalculationEngine()
	ce.SetLogger(logging.Calculation(a.logger))
	ce.Debug = a.verbose
	return ce
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "finplan",
		Short: "Investment growth projections and loan amortization",
		Long: `finplan projects investment growth after fees, taxes and inflation,
builds loan amortization schedules, and estimates outcome ranges with a
Monte Carlo overlay. Results can be printed, exported or served over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(a.logLevel, a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newInvestCmd(a),
		newDebtCmd(a),
		newMonteCarloCmd(a),
		newRunCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
		newExampleConfigCmd(),
		newMonthsCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, domain.ErrNotLiquidated) {
			fmt.Fprintln(os.Stderr, "Error: the loan is never paid off; raise the payment or remove skip months")
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}
