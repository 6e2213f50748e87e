package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rpgo/finplan/internal/api"
	"github.com/rpgo/finplan/internal/config"
	"github.com/rpgo/finplan/internal/logging"
	"github.com/rpgo/finplan/internal/recalc"
	"github.com/rpgo/finplan/internal/tracing"
)

func newServeCmd(a *app) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve the JSON API. Settings come from the environment (or a .env file):
FINPLAN_PORT, FINPLAN_ENV, FINPLAN_CORS_ORIGINS, FINPLAN_MAX_MC_RUNS,
FINPLAN_SHUTDOWN_SECONDS, OTEL_ENDPOINT, OTEL_SERVICE_NAME and LOG_LEVEL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadServerConfig()
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if !cmd.Flags().Changed("log-level") {
				logger, err := logging.New(cfg.LogLevel, a.verbose)
				if err != nil {
					return err
				}
				a.logger = logger
			}

			ctx := cmd.Context()
			shutdownTracing, err := tracing.InitTracing(ctx, cfg.OTELServiceName, cfg.OTELEndpoint)
			if err != nil {
				return err
			}
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTracing(flushCtx); err != nil {
					a.logger.Warn("tracer shutdown failed", zap.Error(err))
				}
			}()

			return api.NewServer(cfg, a.engine(), a.logger).ListenAndServe(ctx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "Listen port (overrides FINPLAN_PORT)")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [plan-file]",
		Short: "Re-evaluate a plan file every time it is saved",
		Args:  cobra.ExactArgs(1),
	}
	out := addOutputFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rec := recalc.NewRecalculator(a.engine(), a.logger)
		w, err := recalc.NewWatcher(args[0], rec, a.logger)
		if err != nil {
			rec.Close()
			return err
		}
		w.SetDebounce(debounce)
		if err := w.Start(ctx); err != nil {
			w.Stop()
			rec.Close()
			return err
		}
		go func() {
			<-ctx.Done()
			w.Stop()
			rec.Close()
		}()

		stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
		for res := range rec.Results() {
			if res.Err != nil {
				fmt.Fprintf(stderr, "[%d] %v\n", res.Seq, res.Err)
				continue
			}
			fmt.Fprintf(stdout, "[%d] %s\n", res.Seq, res.Report.GeneratedAt.Format(time.RFC3339))
			if err := out.write(stdout, res.Report); err != nil {
				fmt.Fprintf(stderr, "[%d] %v\n", res.Seq, err)
			}
		}
		return nil
	}
	cmd.Flags().DurationVar(&debounce, "debounce", recalc.DefaultDebounce, "Quiet period after a change before recalculating")
	out.format = "summary"
	cmd.Flags().Lookup("format").DefValue = "summary"
	return cmd
}
