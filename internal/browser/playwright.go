package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"products-scraper/internal/config"
)

// Playwright drives Chromium through playwright-go. The playwright driver
// and browsers must already be installed.
type Playwright struct {
	pw            *playwright.Playwright
	browser       playwright.Browser
	page          playwright.Page
	actionTimeout time.Duration
	log           logrus.FieldLogger
}

func NewPlaywright(cfg *config.Config, log logrus.FieldLogger) (*Playwright, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	log.Info("Starting new browser instance...")
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	page, err := b.NewPage()
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(cfg.ActionTimeout.Milliseconds()))

	return &Playwright{
		pw:            pw,
		browser:       b,
		page:          page,
		actionTimeout: cfg.ActionTimeout,
		log:           log,
	}, nil
}

func (p *Playwright) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := p.page.Goto(url, playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(p.actionTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	if res != nil && !res.Ok() {
		return fmt.Errorf("failed to load page: %d %s", res.Status(), res.StatusText())
	}
	return nil
}

func (p *Playwright) State(ctx context.Context, selector string) (ElementState, error) {
	if err := ctx.Err(); err != nil {
		return ElementState{}, err
	}
	res, err := p.page.Evaluate(stateScript(selector))
	if err != nil {
		return ElementState{}, fmt.Errorf("lookup %s: %w", selector, err)
	}
	m, ok := res.(map[string]interface{})
	if !ok {
		return ElementState{}, errors.New("lookup " + selector + ": unexpected result")
	}
	found, _ := m["found"].(bool)
	visible, _ := m["visible"].(bool)
	return ElementState{Found: found, Visible: visible}, nil
}

func (p *Playwright) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.page.Click(selector); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (p *Playwright) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return html, nil
}

func (p *Playwright) Close() error {
	p.log.Info("Closing browser...")
	return errors.Join(p.browser.Close(), p.pw.Stop())
}
