package scraper

import (
	"fmt"
	"net/url"
)

const homePath = "test-sites/e-commerce/more/"

// Category is one listing page and the file its products are written to.
type Category struct {
	Label    string
	URL      string
	FileName string
}

var categoryPages = []struct {
	label, path, file string
}{
	{"Home products", "", "home.csv"},
	{"Computer products", "computers", "computers.csv"},
	{"Laptop products", "computers/laptops", "laptops.csv"},
	{"Tablet products", "computers/tablets", "tablets.csv"},
	{"Phone products", "phones", "phones.csv"},
	{"Touch products", "phones/touch", "touch.csv"},
}

// Categories resolves the six category pages against baseURL.
func Categories(baseURL string) ([]Category, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	home := base.ResolveReference(&url.URL{Path: homePath})

	categories := make([]Category, 0, len(categoryPages))
	for _, c := range categoryPages {
		categories = append(categories, Category{
			Label:    c.label,
			URL:      home.ResolveReference(&url.URL{Path: c.path}).String(),
			FileName: c.file,
		})
	}
	return categories, nil
}
