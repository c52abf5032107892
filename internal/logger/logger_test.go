package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"

	"products-scraper/internal/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := newWithOutput(&config.Config{LogLevel: "warn", LogFormat: "json"}, &buf)
	if err != nil {
		t.Fatal(err)
	}

	l.Info("dropped")
	l.WithField("category", "Home products").Warn("kept")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a single json line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "kept" || entry["category"] != "Home products" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestNewDebugOverridesLevel(t *testing.T) {
	l, err := newWithOutput(&config.Config{LogLevel: "error", LogFormat: "text", Debug: true}, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if l.GetLevel() != logrus.DebugLevel {
		t.Errorf("level: got %v", l.GetLevel())
	}
}

func TestNewBadLevel(t *testing.T) {
	if _, err := newWithOutput(&config.Config{LogLevel: "loud"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown level")
	}
}
