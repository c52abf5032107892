package scraper

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"products-scraper/internal/browser/browsertest"
)

func TestElectronicsParserParse(t *testing.T) {
	page := browsertest.ListingPage(
		browsertest.Card{Title: "Asus X", Description: "Asus X, 15.6\", i3", Price: "$299.00", Stars: 4, Reviews: "12 reviews"},
		browsertest.Card{Title: "Nokia 123", Description: "7 day battery", Price: "$24.99", Stars: 3, Reviews: "11 reviews"},
		browsertest.Card{Title: "Iconia   B1", Description: "  Black,\n  Android  ", Price: "$1101.83", Stars: 0, Reviews: "0 reviews"},
	)

	products, err := ParseHTML(ElectronicsParser{}, page)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Product{
		{Title: "Asus X", Description: "Asus X, 15.6\", i3", Price: 299, Rating: 4, NumOfReviews: 12},
		{Title: "Nokia 123", Description: "7 day battery", Price: 24.99, Rating: 3, NumOfReviews: 11},
		{Title: "Iconia   B1", Description: "Black, Android", Price: 1101.83, Rating: 0, NumOfReviews: 0},
	}
	if !reflect.DeepEqual(products, expected) {
		t.Errorf("got %+v\nexpected %+v", products, expected)
	}
}

func TestElectronicsParserEmptyPage(t *testing.T) {
	products, err := ParseHTML(ElectronicsParser{}, browsertest.ListingPage())
	if err != nil {
		t.Fatal(err)
	}
	if products == nil || len(products) != 0 {
		t.Errorf("expected an empty non-nil slice, got %#v", products)
	}
}

func TestElectronicsParserFieldErrors(t *testing.T) {
	good := browsertest.Card{Title: "ok", Description: "ok", Price: "$1.00", Stars: 1, Reviews: "1 reviews"}

	tests := []struct {
		name  string
		html  string
		field string
		err   error
	}{
		{
			name:  "missing title element",
			html:  `<div class="product-wrapper"><p class="description">d</p><h4 class="price">$1</h4><p class="review-count">1 reviews</p></div>`,
			field: "title",
			err:   ErrElementNotFound,
		},
		{
			name:  "missing title attribute",
			html:  `<div class="product-wrapper"><a class="title">x</a><p class="description">d</p><h4 class="price">$1</h4><p class="review-count">1 reviews</p></div>`,
			field: "title",
			err:   ErrAttributeNotFound,
		},
		{
			name:  "missing description",
			html:  `<div class="product-wrapper"><a class="title" title="x">x</a><h4 class="price">$1</h4><p class="review-count">1 reviews</p></div>`,
			field: "description",
			err:   ErrElementNotFound,
		},
		{
			name:  "malformed price",
			html:  browsertest.Card{Title: "x", Description: "d", Price: "$1,299.00", Reviews: "1 reviews"}.HTML(),
			field: "price",
			err:   ErrInvalidNumber,
		},
		{
			name:  "empty price",
			html:  browsertest.Card{Title: "x", Description: "d", Price: "", Reviews: "1 reviews"}.HTML(),
			field: "price",
			err:   ErrInvalidNumber,
		},
		{
			name:  "non finite price",
			html:  browsertest.Card{Title: "x", Description: "d", Price: "$Inf", Reviews: "1 reviews"}.HTML(),
			field: "price",
			err:   ErrInvalidNumber,
		},
		{
			name:  "empty review count",
			html:  browsertest.Card{Title: "x", Description: "d", Price: "$1", Reviews: " "}.HTML(),
			field: "num_of_reviews",
			err:   ErrInvalidNumber,
		},
		{
			name:  "text review count",
			html:  browsertest.Card{Title: "x", Description: "d", Price: "$1", Reviews: "no reviews"}.HTML(),
			field: "num_of_reviews",
			err:   ErrInvalidNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The broken card comes second so the index is checked too.
			_, err := ParseHTML(ElectronicsParser{}, "<html><body>"+good.HTML()+tt.html+"</body></html>")

			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if fe.Index != 1 || fe.Field != tt.field {
				t.Errorf("got index %d field %q, expected index 1 field %q", fe.Index, fe.Field, tt.field)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("got %v expected %v", err, tt.err)
			}
		})
	}
}

func TestExtractedFieldsAreWellFormed(t *testing.T) {
	cards := []browsertest.Card{
		{Title: "a", Description: "b", Price: "€0.01", Stars: 5, Reviews: "3 reviews"},
		{Title: "c", Description: "d", Price: "$ 12", Stars: 1, Reviews: "14"},
	}
	products, err := ParseHTML(ElectronicsParser{}, browsertest.ListingPage(cards...))
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != len(cards) {
		t.Fatalf("got %d products expected %d", len(products), len(cards))
	}
	for i, p := range products {
		if p.Title == "" || p.Description == "" {
			t.Errorf("product %d: empty text field %+v", i, p)
		}
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			t.Errorf("product %d: price not finite", i)
		}
		if p.Rating < 0 || p.NumOfReviews < 0 {
			t.Errorf("product %d: negative count %+v", i, p)
		}
	}
	if products[0].Price != 0.01 || products[1].Price != 12 {
		t.Errorf("unexpected prices %v %v", products[0].Price, products[1].Price)
	}
}

func TestNewParser(t *testing.T) {
	p, err := NewParser("webscraper")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(ElectronicsParser); !ok {
		t.Errorf("got %T", p)
	}

	if _, err := NewParser("amazon"); !errors.Is(err, ErrUnknownLayout) {
		t.Errorf("got %v expected ErrUnknownLayout", err)
	}
}
