package robots

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
)

var ErrDisallowed = errors.New("crawling is disallowed by robots.txt")

// Check fetches robots.txt next to baseURL and fails when userAgent may not
// visit one of pageURLs. An unreachable or unparsable robots.txt allows
// everything.
func Check(ctx context.Context, client *http.Client, baseURL, userAgent string, pageURLs []string, log logrus.FieldLogger) error {
	base, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("base url: %w", err)
	}
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})

	log.Info("Checking robots.txt")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		log.WithError(err).Warn("Could not fetch robots.txt")
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		log.WithError(err).Warn("Error parsing robots.txt")
		return nil
	}

	group := data.FindGroup(userAgent)
	for _, page := range pageURLs {
		u, err := url.Parse(page)
		if err != nil {
			return fmt.Errorf("page url: %w", err)
		}
		if !group.Test(u.Path) {
			return fmt.Errorf("%w: %s", ErrDisallowed, page)
		}
	}
	return nil
}
