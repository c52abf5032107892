package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"products-scraper/internal/config"
)

// Chrome drives a local Chrome through the DevTools protocol.
type Chrome struct {
	ctx           context.Context
	cancel        context.CancelFunc
	actionTimeout time.Duration
	log           logrus.FieldLogger
}

func NewChrome(parent context.Context, cfg *config.Config, log logrus.FieldLogger) (*Chrome, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,

		// Disable updates and popups
		chromedp.Flag("disable-popup-blocking", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-component-update", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-default-apps", true),

		// Basic settings
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.Headless),
		chromedp.WindowSize(1920, 1080),

		// Stability flags
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)

	ctxOpts := []chromedp.ContextOption{
		chromedp.WithErrorf(func(format string, args ...interface{}) {
			log.Errorf("CHROME: "+format, args...)
		}),
	}
	if cfg.Debug {
		ctxOpts = append(ctxOpts, chromedp.WithDebugf(func(format string, args ...interface{}) {
			log.Debugf("CHROME: "+format, args...)
		}))
	}
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, ctxOpts...)

	c := &Chrome{
		ctx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
		actionTimeout: cfg.ActionTimeout,
		log:           log,
	}

	// The first Run starts the browser process.
	log.Info("Starting new browser instance...")
	if err := chromedp.Run(browserCtx); err != nil {
		c.cancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return c, nil
}

// run runs actions under the per-action timeout. Cancelling ctx aborts them.
func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("parent context canceled: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(c.ctx, c.actionTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(timeoutCtx, actions...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("action timed out after %v: %w", c.actionTimeout, err)
		}
		return err
	}
	return nil
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	if err := c.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

func (c *Chrome) State(ctx context.Context, selector string) (ElementState, error) {
	var state ElementState
	if err := c.run(ctx, chromedp.Evaluate(stateScript(selector), &state)); err != nil {
		return ElementState{}, fmt.Errorf("lookup %s: %w", selector, err)
	}
	return state, nil
}

func (c *Chrome) Click(ctx context.Context, selector string) error {
	if err := c.run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (c *Chrome) HTML(ctx context.Context) (string, error) {
	var html string
	if err := c.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return html, nil
}

func (c *Chrome) Close() error {
	c.log.Info("Canceling browser contexts...")
	c.cancel()
	return nil
}
