package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"products-scraper/internal/config"
)

var ErrUnknownEngine = errors.New("unknown browser engine")

// ElementState is the result of looking up a selector without waiting for it.
type ElementState struct {
	Found   bool `json:"found"`
	Visible bool `json:"visible"`
}

// Driver is one browser session. Selectors are CSS selectors; when several
// nodes match, the first one in document order is used.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	State(ctx context.Context, selector string) (ElementState, error)
	Click(ctx context.Context, selector string) error
	HTML(ctx context.Context) (string, error)
	Close() error
}

// Open starts the engine named by cfg.Engine.
func Open(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (Driver, error) {
	log = log.WithField("engine", cfg.Engine)

	switch cfg.Engine {
	case config.EngineChromedp:
		return NewChrome(ctx, cfg, log)
	case config.EngineRod:
		return NewRod(cfg, log)
	case config.EnginePlaywright:
		return NewPlaywright(cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.Engine)
	}
}

// stateScript evaluates to an ElementState for selector. Visibility follows
// the usual rendered-box rule: displayed, not hidden, and laid out.
func stateScript(selector string) string {
	quoted, _ := json.Marshal(selector)
	return fmt.Sprintf(`(() => {
		const el = document.querySelector(%s);
		if (!el) return {found: false, visible: false};
		const style = window.getComputedStyle(el);
		const visible = style.display !== 'none' &&
			style.visibility !== 'hidden' &&
			el.getClientRects().length > 0;
		return {found: true, visible: visible};
	})()`, quoted)
}
