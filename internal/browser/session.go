package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/sdutta9/gpscrape/internal/app"
)

// Session owns one headless browser and one navigation context. All form
// interaction for a run goes through a single Session; there are no ambient
// globals. Methods are not safe for concurrent use; the traversal is
// strictly sequential.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	cfg         app.BrowserConfig
}

// NewSession launches the browser and returns a ready session. The session
// inherits cancellation from ctx, so an interrupt tears the browser down
// mid-traversal.
func NewSession(ctx context.Context, cfg app.BrowserConfig) (*Session, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:         taskCtx,
		cancel:      taskCancel,
		allocCancel: allocCancel,
		cfg:         cfg,
	}
	s.listenEvents()

	// Start the browser eagerly so a launch failure surfaces here, not on
	// the first navigation. Network events feed the debug listener.
	if err := chromedp.Run(taskCtx, network.Enable()); err != nil {
		s.Close()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return s, nil
}

// Close tears down the browser. Safe to call once regardless of how the
// traversal exited.
func (s *Session) Close() {
	s.cancel()
	s.allocCancel()
}

// bounded derives a deadline-bounded context from the session's browser
// context. chromedp actions must run on the browser context, so the caller's
// context is only consulted for early cancellation.
func (s *Session) bounded() (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, s.cfg.Timeout)
}

// Navigate loads the report page and waits for the document body.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := s.bounded()
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// Refresh reloads the current page and lets the form re-render before the
// caller re-applies its selections.
func (s *Session) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runCtx, cancel := s.bounded()
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Reload(),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.cfg.Settle),
	)
	if err != nil {
		return fmt.Errorf("refreshing page: %w", err)
	}
	return nil
}

// PageSource returns the outer HTML of the current document.
func (s *Session) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	runCtx, cancel := s.bounded()
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("reading page source: %w", err)
	}
	return html, nil
}
