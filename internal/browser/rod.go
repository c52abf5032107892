package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"products-scraper/internal/config"
)

// Rod drives a browser launched and controlled by go-rod.
type Rod struct {
	launcher      *launcher.Launcher
	browser       *rod.Browser
	page          *rod.Page
	actionTimeout time.Duration
	log           logrus.FieldLogger
}

func NewRod(cfg *config.Config, log logrus.FieldLogger) (*Rod, error) {
	l := launcher.New().Headless(cfg.Headless).NoSandbox(true)

	log.Info("Starting new browser instance...")
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Rod{
		launcher:      l,
		browser:       b,
		page:          page,
		actionTimeout: cfg.ActionTimeout,
		log:           log,
	}, nil
}

// scoped returns the page bound to ctx and the per-action timeout.
func (r *Rod) scoped(ctx context.Context) (*rod.Page, func()) {
	p := r.page.Context(ctx).Timeout(r.actionTimeout)
	return p, func() { p.CancelTimeout() }
}

func (r *Rod) Navigate(ctx context.Context, url string) error {
	p, done := r.scoped(ctx)
	defer done()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page load verification failed: %w", err)
	}
	return nil
}

func (r *Rod) State(ctx context.Context, selector string) (ElementState, error) {
	p, done := r.scoped(ctx)
	defer done()

	has, el, err := p.Has(selector)
	if err != nil {
		return ElementState{}, fmt.Errorf("lookup %s: %w", selector, err)
	}
	if !has {
		return ElementState{}, nil
	}
	visible, err := el.Visible()
	if err != nil {
		return ElementState{}, fmt.Errorf("visibility of %s: %w", selector, err)
	}
	return ElementState{Found: true, Visible: visible}, nil
}

func (r *Rod) Click(ctx context.Context, selector string) error {
	p, done := r.scoped(ctx)
	defer done()

	el, err := p.Element(selector)
	if err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (r *Rod) HTML(ctx context.Context) (string, error) {
	p, done := r.scoped(ctx)
	defer done()

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return html, nil
}

func (r *Rod) Close() error {
	r.log.Info("Closing browser...")
	err := r.browser.Close()
	r.launcher.Cleanup()
	return err
}
