package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"products-scraper/internal/export"
	"products-scraper/internal/metrics"
	"products-scraper/internal/scraper"
)

// Sink receives every category after its CSV file has been written.
type Sink interface {
	Export(ctx context.Context, category scraper.Category, csvPath string, products []scraper.Product) error
	Close(ctx context.Context) error
}

// PageScraper loads and extracts one listing page.
type PageScraper interface {
	ParsePage(ctx context.Context, url string) (*scraper.Page, error)
}

type Runner struct {
	scraper   PageScraper
	outputDir string
	sinks     []Sink
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
}

func New(s PageScraper, outputDir string, sinks []Sink, m *metrics.Metrics, log logrus.FieldLogger) *Runner {
	return &Runner{
		scraper:   s,
		outputDir: outputDir,
		sinks:     sinks,
		metrics:   m,
		log:       log,
	}
}

// Run scrapes the categories in order. The first failure stops the run.
func (r *Runner) Run(ctx context.Context, categories []scraper.Category) error {
	for _, c := range categories {
		if err := r.runCategory(ctx, c); err != nil {
			if r.metrics != nil {
				r.metrics.RunsFailed.Inc()
			}
			return fmt.Errorf("%s: %w", c.Label, err)
		}
	}
	return nil
}

func (r *Runner) runCategory(ctx context.Context, c scraper.Category) error {
	log := r.log.WithField("category", c.Label)
	log.Info(c.Label)
	start := time.Now()

	page, err := r.scraper.ParsePage(ctx, c.URL)
	if err != nil {
		return err
	}

	path := filepath.Join(r.outputDir, c.FileName)
	if err := export.WriteCSV(path, page.Products); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	for _, s := range r.sinks {
		if err := s.Export(ctx, c, path, page.Products); err != nil {
			return err
		}
	}

	elapsed := time.Since(start)
	if r.metrics != nil {
		r.metrics.ObserveCategory(c.Label, len(page.Products), page.Clicks, elapsed)
	}
	log.WithFields(logrus.Fields{
		"file":     path,
		"products": len(page.Products),
		"elapsed":  elapsed.Round(time.Millisecond).String(),
	}).Info("Category done")
	return nil
}
