package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"products-scraper/internal/browser"
	"products-scraper/internal/config"
	"products-scraper/internal/export"
	"products-scraper/internal/logger"
	"products-scraper/internal/metrics"
	"products-scraper/internal/robots"
	"products-scraper/internal/runner"
	"products-scraper/internal/scraper"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	runID := uuid.NewString()
	if err := run(cfg, runID, log.WithField("run_id", runID)); err != nil {
		log.Fatalf("Scraping failed: %v", err)
	}
	log.Info("Scraping completed successfully")
}

func run(cfg *config.Config, runID string, log logrus.FieldLogger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.GlobalTimeout)
	defer cancel()

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		shutdown := m.Serve(cfg.MetricsAddr, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	categories, err := scraper.Categories(cfg.BaseURL)
	if err != nil {
		return err
	}
	parser, err := scraper.NewParser(cfg.Layout)
	if err != nil {
		return err
	}

	if cfg.CheckRobotsTxt {
		pages := make([]string, 0, len(categories))
		for _, c := range categories {
			pages = append(pages, c.URL)
		}
		client := &http.Client{Timeout: 30 * time.Second}
		if err := robots.Check(ctx, client, cfg.BaseURL, cfg.UserAgent, pages, log); err != nil {
			return err
		}
	}

	sinks, err := openSinks(ctx, cfg, runID)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, s := range sinks {
			if cerr := s.Close(closeCtx); cerr != nil {
				log.WithError(cerr).Error("Failed to close sink")
			}
		}
	}()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}

	log.Info("Initializing browser...")
	driver, err := browser.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("Cleaning up browser...")
		err = errors.Join(err, driver.Close())
	}()

	log.Info("Starting scraping process...")
	s := scraper.New(driver, parser, cfg, log)
	return runner.New(s, cfg.OutputDir, sinks, m, log).Run(ctx, categories)
}

func openSinks(ctx context.Context, cfg *config.Config, runID string) ([]runner.Sink, error) {
	var sinks []runner.Sink

	if cfg.MongoURI != "" {
		mongoSink, err := export.NewMongoSink(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, runID)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, mongoSink)
	}

	if cfg.GCSBucket != "" {
		bucketSink, err := export.NewBucketSink(ctx, cfg.GCSBucket, cfg.GCSPrefix, runID)
		if err != nil {
			for _, s := range sinks {
				_ = s.Close(ctx)
			}
			return nil, err
		}
		sinks = append(sinks, bucketSink)
	}

	return sinks, nil
}
