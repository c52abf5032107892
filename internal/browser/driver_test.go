package browser

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"products-scraper/internal/config"
)

func TestStateScriptQuotesSelector(t *testing.T) {
	script := stateScript(`a[title="x"]`)
	if !strings.Contains(script, `document.querySelector("a[title=\"x\"]")`) {
		t.Errorf("selector not quoted:\n%s", script)
	}
}

func TestOpenUnknownEngine(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)

	_, err := Open(context.Background(), &config.Config{Engine: "selenium"}, l)
	if !errors.Is(err, ErrUnknownEngine) {
		t.Errorf("got %v expected ErrUnknownEngine", err)
	}
}
