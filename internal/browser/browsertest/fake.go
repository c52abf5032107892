// Package browsertest provides an in-memory browser.Driver for tests.
package browsertest

import (
	"context"
	"fmt"

	"products-scraper/internal/browser"
)

// Fake serves fixed HTML per URL and a mutable set of element states.
type Fake struct {
	Pages    map[string]string
	Elements map[string]browser.ElementState

	// OnNavigate and OnClick run after the corresponding action succeeded.
	OnNavigate func(f *Fake, url string)
	OnClick    func(f *Fake, selector string)

	Visited []string
	Clicks  map[string]int
	Closed  bool

	current string
}

func NewFake() *Fake {
	return &Fake{
		Pages:    map[string]string{},
		Elements: map[string]browser.ElementState{},
		Clicks:   map[string]int{},
	}
}

// Show marks selector as present and visible.
func (f *Fake) Show(selector string) {
	f.Elements[selector] = browser.ElementState{Found: true, Visible: true}
}

// Hide keeps selector present but invisible.
func (f *Fake) Hide(selector string) {
	f.Elements[selector] = browser.ElementState{Found: true}
}

// Remove drops selector from the page.
func (f *Fake) Remove(selector string) {
	delete(f.Elements, selector)
}

func (f *Fake) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := f.Pages[url]; !ok {
		return fmt.Errorf("navigation to %s failed: no such page", url)
	}
	f.current = url
	f.Visited = append(f.Visited, url)
	if f.OnNavigate != nil {
		f.OnNavigate(f, url)
	}
	return nil
}

func (f *Fake) State(ctx context.Context, selector string) (browser.ElementState, error) {
	if err := ctx.Err(); err != nil {
		return browser.ElementState{}, err
	}
	return f.Elements[selector], nil
}

func (f *Fake) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !f.Elements[selector].Found {
		return fmt.Errorf("click %s: element not found", selector)
	}
	f.Clicks[selector]++
	if f.OnClick != nil {
		f.OnClick(f, selector)
	}
	return nil
}

func (f *Fake) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.Pages[f.current], nil
}

func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

var _ browser.Driver = (*Fake)(nil)
