package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EngineChromedp   = "chromedp"
	EngineRod        = "rod"
	EnginePlaywright = "playwright"
)

type Config struct {
	Engine    string
	Layout    string
	BaseURL   string
	OutputDir string
	Headless  bool
	Debug     bool
	UserAgent string

	GlobalTimeout time.Duration // Overall timeout
	ActionTimeout time.Duration // Timeout for individual actions

	PaginationInterval  time.Duration
	PaginationSettle    time.Duration
	PaginationTimeout   time.Duration
	PaginationMaxClicks int

	CheckRobotsTxt bool

	LogLevel    string
	LogFormat   string
	MetricsAddr string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string

	GCSBucket string
	GCSPrefix string
}

func defaults(v *viper.Viper) {
	v.SetDefault("engine", EngineChromedp)
	v.SetDefault("layout", "webscraper")
	v.SetDefault("base-url", "https://webscraper.io/")
	v.SetDefault("output-dir", ".")
	v.SetDefault("headless", true)
	v.SetDefault("debug", false)
	v.SetDefault("user-agent", "products-scraper/1.0")
	v.SetDefault("timeout", 30*time.Minute)
	v.SetDefault("action-timeout", time.Minute)
	v.SetDefault("pagination-interval", 100*time.Millisecond)
	v.SetDefault("pagination-settle", time.Second)
	v.SetDefault("pagination-timeout", 5*time.Minute)
	v.SetDefault("pagination-max-clicks", 0)
	v.SetDefault("check-robots-txt", false)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")
	v.SetDefault("metrics-addr", "")
	v.SetDefault("mongo-uri", "")
	v.SetDefault("mongo-database", "scraper")
	v.SetDefault("mongo-collection", "products")
	v.SetDefault("gcs-bucket", "")
	v.SetDefault("gcs-prefix", "products")
}

// Parse builds the configuration from flags, the environment, an optional
// .env file and defaults, in that order of precedence.
func Parse(args []string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	defaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs := pflag.NewFlagSet("products-scraper", pflag.ContinueOnError)
	fs.String("engine", v.GetString("engine"), "Browser engine: chromedp, rod or playwright")
	fs.String("layout", v.GetString("layout"), "Page layout parser")
	fs.String("base-url", v.GetString("base-url"), "Base URL of the e-commerce test site")
	fs.String("output-dir", v.GetString("output-dir"), "Directory for the CSV files")
	fs.Bool("headless", v.GetBool("headless"), "Run in headless mode")
	fs.Bool("debug", v.GetBool("debug"), "Enable debug mode")
	fs.String("user-agent", v.GetString("user-agent"), "User agent used for the robots.txt check")
	fs.Duration("timeout", v.GetDuration("timeout"), "Global timeout")
	fs.Duration("action-timeout", v.GetDuration("action-timeout"), "Individual action timeout")
	fs.Duration("pagination-interval", v.GetDuration("pagination-interval"), "Pause between load-more clicks")
	fs.Duration("pagination-settle", v.GetDuration("pagination-settle"), "Pause after the last load-more click")
	fs.Duration("pagination-timeout", v.GetDuration("pagination-timeout"), "Upper bound on pagination per page")
	fs.Int("pagination-max-clicks", v.GetInt("pagination-max-clicks"), "Upper bound on load-more clicks per page (0 = unbounded)")
	fs.Bool("check-robots-txt", v.GetBool("check-robots-txt"), "Abort when robots.txt disallows the category pages")
	fs.String("log-level", v.GetString("log-level"), "Log level")
	fs.String("log-format", v.GetString("log-format"), "Log format: text or json")
	fs.String("metrics-addr", v.GetString("metrics-addr"), "Serve Prometheus metrics on this address")
	fs.String("mongo-uri", v.GetString("mongo-uri"), "Also store products in MongoDB")
	fs.String("mongo-database", v.GetString("mongo-database"), "MongoDB database")
	fs.String("mongo-collection", v.GetString("mongo-collection"), "MongoDB collection")
	fs.String("gcs-bucket", v.GetString("gcs-bucket"), "Also upload CSV files to this bucket")
	fs.String("gcs-prefix", v.GetString("gcs-prefix"), "Object prefix inside the bucket")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	cfg := &Config{
		Engine:              v.GetString("engine"),
		Layout:              v.GetString("layout"),
		BaseURL:             v.GetString("base-url"),
		OutputDir:           v.GetString("output-dir"),
		Headless:            v.GetBool("headless"),
		Debug:               v.GetBool("debug"),
		UserAgent:           v.GetString("user-agent"),
		GlobalTimeout:       v.GetDuration("timeout"),
		ActionTimeout:       v.GetDuration("action-timeout"),
		PaginationInterval:  v.GetDuration("pagination-interval"),
		PaginationSettle:    v.GetDuration("pagination-settle"),
		PaginationTimeout:   v.GetDuration("pagination-timeout"),
		PaginationMaxClicks: v.GetInt("pagination-max-clicks"),
		CheckRobotsTxt:      v.GetBool("check-robots-txt"),
		LogLevel:            v.GetString("log-level"),
		LogFormat:           v.GetString("log-format"),
		MetricsAddr:         v.GetString("metrics-addr"),
		MongoURI:            v.GetString("mongo-uri"),
		MongoDatabase:       v.GetString("mongo-database"),
		MongoCollection:     v.GetString("mongo-collection"),
		GCSBucket:           v.GetString("gcs-bucket"),
		GCSPrefix:           v.GetString("gcs-prefix"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var ErrInvalid = errors.New("invalid configuration")

func (c *Config) Validate() error {
	switch c.Engine {
	case EngineChromedp, EngineRod, EnginePlaywright:
	default:
		return fmt.Errorf("%w: unknown engine %q", ErrInvalid, c.Engine)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base url is empty", ErrInvalid)
	}
	if c.GlobalTimeout <= 0 || c.ActionTimeout <= 0 || c.PaginationTimeout <= 0 {
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalid)
	}
	if c.PaginationInterval < 0 || c.PaginationSettle < 0 {
		return fmt.Errorf("%w: pagination delays must not be negative", ErrInvalid)
	}
	if c.PaginationMaxClicks < 0 {
		return fmt.Errorf("%w: pagination-max-clicks must not be negative", ErrInvalid)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalid, c.LogFormat)
	}
	return nil
}
