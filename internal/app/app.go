package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"RegulatoryDigest/internal/config"
	"RegulatoryDigest/internal/domain"
	"RegulatoryDigest/internal/infrastructure/browser"
	"RegulatoryDigest/internal/infrastructure/httpclient"
	"RegulatoryDigest/internal/infrastructure/llm"
	"RegulatoryDigest/internal/infrastructure/parser"
	"RegulatoryDigest/internal/infrastructure/pdftext"
	"RegulatoryDigest/internal/infrastructure/scheduler"
	"RegulatoryDigest/internal/infrastructure/telegram"
	"RegulatoryDigest/internal/logging"
	"RegulatoryDigest/internal/ports"
	"RegulatoryDigest/internal/report"
	"RegulatoryDigest/internal/scanner"
	"RegulatoryDigest/internal/summary"
	"RegulatoryDigest/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	notifier ports.Notifier
	stdout   io.Writer
	logger   *slog.Logger
}

// New builds the application; it fails only when the summarizer cannot be configured.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	client := httpclient.New(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)

	registry := scanner.NewRegistry()
	registry.Register(parser.NewDPIITScanner(client, baseLogger.With("component", "scanner.dpiit")))
	registry.Register(parser.NewPowerMinScanner(client, baseLogger.With("component", "scanner.powermin")))
	registry.Register(parser.NewRBIScanner(
		browser.NewRenderer(cfg.Browser, nil, baseLogger.With("component", "browser")),
		baseLogger.With("component", "scanner.rbi"),
	))
	registry.Register(parser.NewCommerceScanner(client, baseLogger.With("component", "scanner.commerce")))

	source := parser.NewStrategySource(registry, cfg.Sources, baseLogger.With("component", "source"))

	completer, err := llm.NewOpenAIClient(cfg.OpenAI)
	if err != nil {
		return nil, fmt.Errorf("configure summarizer: %w", err)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Fetcher:    pdftext.NewFetcher(client, cfg.Fetcher.TempDir, baseLogger.With("component", "fetcher")),
		Summarizer: summary.NewEngine(completer),
		Logger:     baseLogger.With("component", "pipeline"),
	})

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	return &Application{
		cfg:      cfg,
		pipeline: pipeline,
		notifier: notifier,
		stdout:   os.Stdout,
		logger:   baseLogger,
	}, nil
}

// Run performs a single pipeline execution and publishes the report.
func (a *Application) Run(ctx context.Context) error {
	report, err := a.pipeline.Run(ctx, a.cfg.Cutoff(time.Now()))
	if pubErr := a.publish(ctx, report); pubErr != nil {
		return errors.Join(err, pubErr)
	}
	return err
}

// Serve runs the pipeline on the configured cron schedule until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	loc := a.cfg.Scheduler.Location()
	driver, err := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, loc, a.logger.With("component", "cron"))
	if err != nil {
		return err
	}

	sch := usecase.NewScheduler(driver, a.pipeline, a.cfg.Cutoff, a.publish, a.logger.With("component", "scheduler"))
	if err := sch.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression, "next", driver.Next(time.Now()))

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return sch.Stop(stopCtx)
}

func (a *Application) publish(ctx context.Context, r domain.Report) error {
	if err := a.writeReport(r); err != nil {
		return err
	}
	if a.notifier != nil {
		if err := a.notifier.PublishDigest(ctx, report.Digest(r)); err != nil {
			a.logger.Warn("notify", "error", err)
		}
	}
	return nil
}

func (a *Application) writeReport(r domain.Report) error {
	out := a.cfg.Report.Output
	if out == "" || out == "-" {
		return report.Write(a.stdout, r, a.cfg.Report.Format)
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.Write(file, r, a.cfg.Report.Format); err != nil {
		_ = file.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	a.logger.Info("report written", "path", out, "entries", r.Total())
	return nil
}
