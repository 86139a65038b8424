package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"RegulatoryDigest/internal/app"
	"RegulatoryDigest/internal/config"
	"RegulatoryDigest/internal/logging"
)

type options struct {
	configPath string
	windowDays int
	output     string
	format     string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "regdigest",
		Short:        "Summarize recent Indian regulatory notifications",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config (defaults to $REGDIGEST_CONFIG)")
	root.PersistentFlags().IntVar(&opts.windowDays, "window-days", 0, "only keep documents published in the last N days")
	root.PersistentFlags().StringVar(&opts.output, "output", "", "report file path, - for stdout")
	root.PersistentFlags().StringVar(&opts.format, "format", "", "report format: markdown or html")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once and print the report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd.Context(), opts, func(ctx context.Context, a *app.Application) error {
				return a.Run(ctx)
			})
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the pipeline on the configured cron schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd.Context(), opts, func(ctx context.Context, a *app.Application) error {
				return a.Serve(ctx)
			})
		},
	})

	return root
}

func execute(parent context.Context, opts *options, fn func(context.Context, *app.Application) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load(opts.configPath)
	if opts.windowDays > 0 {
		cfg.Window.Days = opts.windowDays
	}
	if opts.output != "" {
		cfg.Report.Output = opts.output
	}
	if opts.format != "" {
		cfg.Report.Format = opts.format
	}

	logger := logging.New(cfg.Logging.Level)
	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}

	if err := fn(ctx, application); err != nil {
		logger.Error("application stopped", "error", err)
		return err
	}
	return nil
}
