package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/reperio/internal/common"
)

// Session is one isolated headless browser context. Each extractor
// invocation creates its own session and must Close it unconditionally,
// even on error, so no browser process leaks across invocations.
type Session struct {
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	allocatorCancel context.CancelFunc
	navigateWait    time.Duration
	settleDelay     time.Duration
	logger          arbor.ILogger
	closed          bool
}

// NewSession launches an isolated browsing context with stealth flags.
// The session inherits cancellation from parent: abandoning the overall
// request tears the browser down through the context chain, and Close
// remains safe to call afterwards.
func NewSession(parent context.Context, cfg common.BrowserConfig, userAgent string, logger arbor.ILogger) (*Session, error) {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.UserAgent(userAgent),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("excludeSwitches", "enable-automation"),
		chromedp.Flag("useAutomationExtension", false),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	}
	if cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", "new"))
	}
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)

	// Start the browser process now so a launch failure surfaces here
	// rather than inside the first extraction action.
	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocatorCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &Session{
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
		allocatorCancel: allocatorCancel,
		navigateWait:    cfg.NavigateWait.Std(),
		settleDelay:     cfg.SettleDelay.Std(),
		logger:          logger,
	}, nil
}

// NavigateAndSettle navigates to a URL, waits for the document body and
// then the fixed settle delay for client-side rendering. The whole
// sequence is bounded by the configured navigation timeout.
func (s *Session) NavigateAndSettle(targetURL string, extraHeaders map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(s.browserCtx, s.navigateWait+s.settleDelay)
	defer cancel()

	actions := []chromedp.Action{}
	if len(extraHeaders) > 0 {
		actions = append(actions,
			network.Enable(),
			network.SetExtraHTTPHeaders(network.Headers(extraHeaders)),
		)
	}
	actions = append(actions,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.settleDelay),
	)

	return chromedp.Run(ctx, actions...)
}

// OuterHTML returns the rendered document markup
func (s *Session) OuterHTML() (string, error) {
	ctx, cancel := context.WithTimeout(s.browserCtx, s.navigateWait)
	defer cancel()

	var html string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to capture rendered markup: %w", err)
	}
	return html, nil
}

// Close tears the browser context down. Safe to call multiple times.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.browserCancel()
	s.allocatorCancel()
}
