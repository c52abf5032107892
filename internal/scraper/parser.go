package scraper

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Class names used by the webscraper.io e-commerce test site.
const (
	ConsentSelector     = ".acceptCookies"
	PaginationSelector  = ".ecomerce-items-scroll-more"
	ProductSelector     = ".product-wrapper"
	TitleSelector       = ".title"
	DescriptionSelector = ".description"
	PriceSelector       = ".price"
	RatingSelector      = ".ws-icon-star"
	ReviewCountSelector = ".review-count"
)

var (
	ErrUnknownLayout     = errors.New("unknown page layout")
	ErrElementNotFound   = errors.New("element not found")
	ErrAttributeNotFound = errors.New("attribute not found")
	ErrInvalidNumber     = errors.New("invalid number")
)

// Product is one listing read from a product container.
type Product struct {
	Title        string
	Description  string
	Price        float64
	Rating       int
	NumOfReviews int
}

// FieldError reports a field that could not be read from the container at
// Index. It aborts the whole page.
type FieldError struct {
	Index int
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("product %d: %s: %v", e.Index, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// Parser extracts products from a fully loaded page.
type Parser interface {
	Parse(doc *goquery.Document) ([]Product, error)
}

var layouts = map[string]func() Parser{
	"webscraper": func() Parser { return ElectronicsParser{} },
}

// NewParser returns the parser registered for layout.
func NewParser(layout string) (Parser, error) {
	newParser, ok := layouts[layout]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}
	return newParser(), nil
}

// ParseHTML runs p over an HTML document.
func ParseHTML(p Parser, html string) ([]Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return p.Parse(doc)
}

// ElectronicsParser reads the product cards of the webscraper.io test shop.
type ElectronicsParser struct{}

func (ElectronicsParser) Parse(doc *goquery.Document) ([]Product, error) {
	products := []Product{}
	var err error

	doc.Find(ProductSelector).EachWithBreak(func(i int, item *goquery.Selection) bool {
		var p Product
		p, err = parseProduct(item)
		if err != nil {
			var fe *FieldError
			if errors.As(err, &fe) {
				fe.Index = i
			}
			return false
		}
		products = append(products, p)
		return true
	})

	if err != nil {
		return nil, err
	}
	return products, nil
}

func parseProduct(item *goquery.Selection) (Product, error) {
	title, err := getTitle(item)
	if err != nil {
		return Product{}, &FieldError{Field: "title", Err: err}
	}
	description, err := getText(item, DescriptionSelector)
	if err != nil {
		return Product{}, &FieldError{Field: "description", Err: err}
	}
	price, err := getPrice(item)
	if err != nil {
		return Product{}, &FieldError{Field: "price", Err: err}
	}
	reviews, err := getNumOfReviews(item)
	if err != nil {
		return Product{}, &FieldError{Field: "num_of_reviews", Err: err}
	}

	return Product{
		Title:        title,
		Description:  description,
		Price:        price,
		Rating:       item.Find(RatingSelector).Length(),
		NumOfReviews: reviews,
	}, nil
}

func find(item *goquery.Selection, selector string) (*goquery.Selection, error) {
	s := item.Find(selector).First()
	if s.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}
	return s, nil
}

// getText returns the element text with runs of whitespace collapsed, the
// way a browser renders it.
func getText(item *goquery.Selection, selector string) (string, error) {
	s, err := find(item, selector)
	if err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(s.Text()), " "), nil
}

func getTitle(item *goquery.Selection) (string, error) {
	s, err := find(item, TitleSelector)
	if err != nil {
		return "", err
	}
	title, ok := s.Attr("title")
	if !ok {
		return "", fmt.Errorf("%w: title", ErrAttributeNotFound)
	}
	return title, nil
}

// getPrice drops the one-character currency prefix ("$299.00").
func getPrice(item *goquery.Selection) (float64, error) {
	text, err := getText(item, PriceSelector)
	if err != nil {
		return 0, err
	}
	_, size := utf8.DecodeRuneInString(text)
	price, err := strconv.ParseFloat(strings.TrimSpace(text[size:]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: price %q", ErrInvalidNumber, text)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: price %q", ErrInvalidNumber, text)
	}
	return price, nil
}

// getNumOfReviews reads the leading integer of "12 reviews".
func getNumOfReviews(item *goquery.Selection) (int, error) {
	text, err := getText(item, ReviewCountSelector)
	if err != nil {
		return 0, err
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: review count %q", ErrInvalidNumber, text)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: review count %q", ErrInvalidNumber, text)
	}
	return n, nil
}
