package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const namespace = "products_scraper"

type Metrics struct {
	Registry *prometheus.Registry

	ProductsScraped  *prometheus.CounterVec
	PaginationClicks *prometheus.CounterVec
	CategoryDuration *prometheus.HistogramVec
	RunsFailed       prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ProductsScraped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "products_total",
			Help:      "Products extracted, by category.",
		}, []string{"category"}),
		PaginationClicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pagination_clicks_total",
			Help:      "Load more clicks, by category.",
		}, []string{"category"}),
		CategoryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "category_duration_seconds",
			Help:      "Time to load, paginate, extract and write one category.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"category"}),
		RunsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_failed_total",
			Help:      "Runs aborted by an error.",
		}),
	}

	m.Registry.MustRegister(m.ProductsScraped, m.PaginationClicks, m.CategoryDuration, m.RunsFailed)
	return m
}

// ObserveCategory records the outcome of one scraped category.
func (m *Metrics) ObserveCategory(category string, products, clicks int, elapsed time.Duration) {
	m.ProductsScraped.WithLabelValues(category).Add(float64(products))
	m.PaginationClicks.WithLabelValues(category).Add(float64(clicks))
	m.CategoryDuration.WithLabelValues(category).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until the returned shutdown func is called.
func (m *Metrics) Serve(addr string, log logrus.FieldLogger) func(context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
	log.Infof("Serving metrics on %s/metrics", addr)

	return srv.Shutdown
}
