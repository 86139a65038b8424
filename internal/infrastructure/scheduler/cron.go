package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"RegulatoryDigest/internal/ports"
)

// CronScheduler triggers jobs on a standard five-field cron expression.
// Overlapping triggers are skipped so runs stay sequential.
type CronScheduler struct {
	spec     string
	location *time.Location
	parser   cron.Parser
	logger   cron.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler validates the expression and binds the timezone. Cron's
// own diagnostics (recovered panics, skipped overlaps) go to log.
func NewCronScheduler(spec string, loc *time.Location, log *slog.Logger) (*CronScheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(spec); err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return &CronScheduler{spec: spec, location: loc, parser: parser, logger: newCronLogger(log)}, nil
}

// Start registers job and starts ticking; it is a no-op when already running.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron != nil {
		return nil
	}

	runner := cron.New(
		cron.WithParser(c.parser),
		cron.WithLocation(c.location),
		cron.WithLogger(c.logger),
		cron.WithChain(cron.Recover(c.logger), cron.SkipIfStillRunning(c.logger)),
	)
	if _, err := runner.AddFunc(c.spec, func() {
		if ctx.Err() != nil {
			return
		}
		job(time.Now().In(c.location))
	}); err != nil {
		return fmt.Errorf("schedule job: %w", err)
	}

	runner.Start()
	c.cron = runner
	return nil
}

// Stop halts the cron loop and waits for a running job to finish or ctx to expire.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	runner := c.cron
	c.cron = nil
	c.mu.Unlock()

	if runner == nil {
		return nil
	}

	done := runner.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next reports the next trigger after from.
func (c *CronScheduler) Next(from time.Time) time.Time {
	schedule, err := c.parser.Parse(c.spec)
	if err != nil {
		return time.Time{}
	}
	return schedule.Next(from.In(c.location))
}

// cronLogger adapts slog to cron.Logger so nothing is written to stdout.
type cronLogger struct {
	log *slog.Logger
}

func newCronLogger(log *slog.Logger) cronLogger {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return cronLogger{log: log}
}

// Info carries cron's per-tick chatter, so it is logged at debug.
func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
