// Package browser renders JavaScript-driven listings in a headless Chrome
// session before they are parsed.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"RegulatoryDigest/internal/config"
	"RegulatoryDigest/internal/ports"
)

const defaultScrollAttempts = 5

// Session is one live browser tab. Close must release every resource it holds.
type Session interface {
	Navigate(ctx context.Context, pageURL string) error
	ScrollHeight(ctx context.Context) (int64, error)
	ScrollToBottom(ctx context.Context) error
	HTML(ctx context.Context) (string, error)
	Close() error
}

// Launcher starts a new session.
type Launcher func(ctx context.Context) (Session, error)

// Renderer loads a page, scrolls until lazy content stops appearing and
// returns the resulting markup.
type Renderer struct {
	launch   Launcher
	attempts int
	wait     time.Duration
	timeout  time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *slog.Logger
}

var _ ports.PageRenderer = (*Renderer)(nil)

// NewRenderer builds a renderer; a nil launcher uses chromedp.
func NewRenderer(cfg config.BrowserConfig, launch Launcher, log *slog.Logger) *Renderer {
	if launch == nil {
		launch = ChromeLauncher(cfg)
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	attempts := cfg.ScrollAttempts
	if attempts <= 0 {
		attempts = defaultScrollAttempts
	}
	return &Renderer{
		launch:   launch,
		attempts: attempts,
		wait:     cfg.ScrollWait,
		timeout:  cfg.RenderTimeout,
		sleep:    sleepContext,
		logger:   log,
	}
}

// Render acquires a session, renders pageURL and always closes the session.
func (r *Renderer) Render(ctx context.Context, pageURL string) (html string, err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	session, err := r.launch(ctx)
	if err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			r.logger.Warn("close browser session", "error", closeErr)
			if err == nil {
				err = fmt.Errorf("close browser: %w", closeErr)
			}
		}
	}()

	if err := session.Navigate(ctx, pageURL); err != nil {
		return "", fmt.Errorf("navigate %s: %w", pageURL, err)
	}

	if err := r.scrollUntilStable(ctx, session); err != nil {
		return "", err
	}

	html, err = session.HTML(ctx)
	if err != nil {
		return "", fmt.Errorf("read rendered html: %w", err)
	}
	return html, nil
}

// scrollUntilStable scrolls at most r.attempts times and stops as soon as the
// page height did not change across one iteration.
func (r *Renderer) scrollUntilStable(ctx context.Context, session Session) error {
	last, err := session.ScrollHeight(ctx)
	if err != nil {
		return fmt.Errorf("read scroll height: %w", err)
	}

	for i := 0; i < r.attempts; i++ {
		if err := session.ScrollToBottom(ctx); err != nil {
			return fmt.Errorf("scroll: %w", err)
		}
		if err := r.sleep(ctx, r.wait); err != nil {
			return err
		}
		height, err := session.ScrollHeight(ctx)
		if err != nil {
			return fmt.Errorf("read scroll height: %w", err)
		}
		r.logger.Debug("scrolled", "iteration", i+1, "height", height)
		if height == last {
			return nil
		}
		last = height
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
