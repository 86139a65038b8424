package browser

import (
	"context"
	"errors"

	"github.com/chromedp/chromedp"

	"RegulatoryDigest/internal/config"
)

var errSessionClosed = errors.New("browser session already closed")

type chromeSession struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	closed      bool
}

// ChromeLauncher starts a local Chrome through chromedp with the flags the
// rendered listings need.
func ChromeLauncher(cfg config.BrowserConfig) Launcher {
	return func(ctx context.Context) (Session, error) {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", !cfg.Headful),
			chromedp.DisableGPU,
			chromedp.NoSandbox,
			chromedp.WindowSize(1920, 1080),
		)
		if cfg.ExecPath != "" {
			opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
		}

		allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
		tabCtx, cancelTab := chromedp.NewContext(allocCtx)

		// Run with no actions starts the browser so launch failures surface here.
		if err := chromedp.Run(tabCtx); err != nil {
			cancelTab()
			cancelAlloc()
			return nil, err
		}

		return &chromeSession{ctx: tabCtx, cancelTab: cancelTab, cancelAlloc: cancelAlloc}, nil
	}
}

func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	if s.closed {
		return errSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(s.ctx, actions...)
}

func (s *chromeSession) Navigate(ctx context.Context, pageURL string) error {
	return s.run(ctx, chromedp.Navigate(pageURL))
}

func (s *chromeSession) ScrollHeight(ctx context.Context) (int64, error) {
	var height int64
	err := s.run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &height))
	return height, err
}

func (s *chromeSession) ScrollToBottom(ctx context.Context) error {
	return s.run(ctx, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil))
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// Close cancels the tab and the allocator, which terminates the Chrome process.
func (s *chromeSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.cancelTab()
	s.cancelAlloc()
	return nil
}
