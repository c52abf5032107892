package config

import (
	"errors"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Engine != EngineChromedp {
		t.Errorf("engine: got %q expected %q", cfg.Engine, EngineChromedp)
	}
	if !cfg.Headless {
		t.Error("headless should default to true")
	}
	if cfg.BaseURL != "https://webscraper.io/" {
		t.Errorf("base url: got %q", cfg.BaseURL)
	}
	if cfg.PaginationInterval != 100*time.Millisecond {
		t.Errorf("pagination interval: got %v", cfg.PaginationInterval)
	}
	if cfg.PaginationSettle != time.Second {
		t.Errorf("pagination settle: got %v", cfg.PaginationSettle)
	}
	if cfg.GlobalTimeout != 30*time.Minute {
		t.Errorf("global timeout: got %v", cfg.GlobalTimeout)
	}
}

func TestParseEnvironment(t *testing.T) {
	t.Setenv("ENGINE", "rod")
	t.Setenv("OUTPUT_DIR", "/tmp/out")
	t.Setenv("PAGINATION_MAX_CLICKS", "7")

	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine != EngineRod {
		t.Errorf("engine: got %q expected %q", cfg.Engine, EngineRod)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("output dir: got %q", cfg.OutputDir)
	}
	if cfg.PaginationMaxClicks != 7 {
		t.Errorf("max clicks: got %d", cfg.PaginationMaxClicks)
	}
}

func TestParseFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("ENGINE", "rod")

	cfg, err := Parse([]string{"--engine", "playwright", "--headless=false", "--pagination-settle", "2s"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine != EnginePlaywright {
		t.Errorf("engine: got %q expected %q", cfg.Engine, EnginePlaywright)
	}
	if cfg.Headless {
		t.Error("headless flag was not applied")
	}
	if cfg.PaginationSettle != 2*time.Second {
		t.Errorf("pagination settle: got %v", cfg.PaginationSettle)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown engine", []string{"--engine", "selenium"}},
		{"zero timeout", []string{"--timeout", "0s"}},
		{"negative clicks", []string{"--pagination-max-clicks", "-1"}},
		{"unknown log format", []string{"--log-format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("got %v expected ErrInvalid", err)
			}
		})
	}
}
