package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"products-scraper/internal/browser"
	"products-scraper/internal/config"
)

var (
	ErrPaginationTimeout = errors.New("pagination did not finish in time")
	ErrTooManyClicks     = errors.New("load more control still visible after max clicks")
)

// Scraper holds one browser session and its one-time consent state.
type Scraper struct {
	driver browser.Driver
	parser Parser
	log    logrus.FieldLogger

	paginationInterval  time.Duration
	paginationSettle    time.Duration
	paginationTimeout   time.Duration
	paginationMaxClicks int

	cookiesAccepted bool
}

// Page is the outcome of scraping one listing page.
type Page struct {
	URL      string
	Products []Product
	Clicks   int
}

func New(driver browser.Driver, parser Parser, cfg *config.Config, log logrus.FieldLogger) *Scraper {
	return &Scraper{
		driver:              driver,
		parser:              parser,
		log:                 log,
		paginationInterval:  cfg.PaginationInterval,
		paginationSettle:    cfg.PaginationSettle,
		paginationTimeout:   cfg.PaginationTimeout,
		paginationMaxClicks: cfg.PaginationMaxClicks,
	}
}

// ParsePage loads url, dismisses the cookie banner on first use, expands
// the listing and extracts every product on it.
func (s *Scraper) ParsePage(ctx context.Context, url string) (*Page, error) {
	log := s.log.WithField("url", url)

	log.Debug("Starting navigation...")
	if err := s.driver.Navigate(ctx, url); err != nil {
		return nil, err
	}

	if !s.cookiesAccepted {
		if err := s.AcceptCookies(ctx); err != nil {
			return nil, err
		}
	}

	clicks, err := s.Paginate(ctx)
	if err != nil {
		return nil, err
	}
	log.Debugf("Pagination finished after %d clicks", clicks)

	html, err := s.driver.HTML(ctx)
	if err != nil {
		return nil, err
	}
	products, err := ParseHTML(s.parser, html)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", url, err)
	}
	log.Infof("Found %d products", len(products))

	return &Page{URL: url, Products: products, Clicks: clicks}, nil
}

// AcceptCookies clicks the consent button if the page shows one. It does
// the lookup at most once per session.
func (s *Scraper) AcceptCookies(ctx context.Context) error {
	if s.cookiesAccepted {
		return nil
	}

	state, err := s.driver.State(ctx, ConsentSelector)
	if err != nil {
		return err
	}
	if state.Found {
		if err := s.driver.Click(ctx, ConsentSelector); err != nil {
			return fmt.Errorf("accept cookies: %w", err)
		}
	} else {
		s.log.Info("Cookies were already accepted (accept button not found)")
	}

	s.cookiesAccepted = true
	return nil
}

// Paginate clicks the load more control until it is gone or hidden, then
// waits for the last batch to render. It returns the number of clicks.
func (s *Scraper) Paginate(ctx context.Context) (int, error) {
	deadline := time.Now().Add(s.paginationTimeout)
	clicks := 0

	for {
		state, err := s.driver.State(ctx, PaginationSelector)
		if err != nil {
			return clicks, err
		}
		if !state.Found || !state.Visible {
			break
		}
		if s.paginationMaxClicks > 0 && clicks >= s.paginationMaxClicks {
			return clicks, fmt.Errorf("%w (%d)", ErrTooManyClicks, clicks)
		}
		if time.Now().After(deadline) {
			return clicks, fmt.Errorf("%w after %v and %d clicks", ErrPaginationTimeout, s.paginationTimeout, clicks)
		}

		if err := s.driver.Click(ctx, PaginationSelector); err != nil {
			return clicks, fmt.Errorf("load more: %w", err)
		}
		clicks++

		if err := sleep(ctx, s.paginationInterval); err != nil {
			return clicks, err
		}
	}

	return clicks, sleep(ctx, s.paginationSettle)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
