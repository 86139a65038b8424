package usecase

import (
	"context"
	"log/slog"
	"time"

	"RegulatoryDigest/internal/domain"
	"RegulatoryDigest/internal/ports"
)

// CutoffFunc derives the run cutoff from the trigger time.
type CutoffFunc func(trigger time.Time) time.Time

// ReportHandler consumes the report produced by a scheduled run.
type ReportHandler func(ctx context.Context, report domain.Report) error

// Scheduler wires the cron driver with the pipeline use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	cutoff   CutoffFunc
	handle   ReportHandler
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, cutoff CutoffFunc, handle ReportHandler, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{driver: driver, pipeline: pipeline, cutoff: cutoff, handle: handle, logger: log}
}

// Start registers the pipeline with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil || s.cutoff == nil {
		return nil
	}

	job := func(trigger time.Time) {
		s.RunOnce(ctx, trigger)
	}

	return s.driver.Start(ctx, job)
}

// RunOnce executes one pipeline pass for trigger and hands the report on.
func (s *Scheduler) RunOnce(ctx context.Context, trigger time.Time) {
	report, err := s.pipeline.Run(ctx, s.cutoff(trigger))
	if err != nil {
		s.logger.Error("scheduled run interrupted", "error", err)
		return
	}
	if s.handle == nil {
		return
	}
	if err := s.handle(ctx, report); err != nil {
		s.logger.Error("handle report", "error", err)
	}
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
