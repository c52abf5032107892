package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"

	"products-scraper/internal/scraper"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestWriteCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := WriteCSV(path, nil); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "title,description,price,rating,num_of_reviews\r\n" {
		t.Errorf("got %q", raw)
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	products := []scraper.Product{
		{Title: "Asus X", Description: "Asus X, 15.6\", Core i3", Price: 299, Rating: 4, NumOfReviews: 12},
		{Title: "Nokia 123", Description: "7 day battery", Price: 24.99, Rating: 3, NumOfReviews: 11},
		{Title: "Multi, line", Description: "", Price: 1101.83, Rating: 0, NumOfReviews: 0},
	}
	path := filepath.Join(t.TempDir(), "laptops.csv")
	if err := WriteCSV(path, products); err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, path)
	if len(rows) != len(products)+1 {
		t.Fatalf("got %d rows expected %d", len(rows), len(products)+1)
	}
	if !reflect.DeepEqual(rows[0], Header) {
		t.Errorf("header: got %v", rows[0])
	}
	if !reflect.DeepEqual(rows[1], []string{"Asus X", "Asus X, 15.6\", Core i3", "299.0", "4", "12"}) {
		t.Errorf("row 1: got %q", rows[1])
	}

	for i, row := range rows[1:] {
		price, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			t.Fatal(err)
		}
		rating, err := strconv.Atoi(row[3])
		if err != nil {
			t.Fatal(err)
		}
		reviews, err := strconv.Atoi(row[4])
		if err != nil {
			t.Fatal(err)
		}
		got := scraper.Product{Title: row[0], Description: row[1], Price: price, Rating: rating, NumOfReviews: reviews}
		if got != products[i] {
			t.Errorf("row %d: got %+v expected %+v", i+1, got, products[i])
		}
	}
}

func TestWriteCSVTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.csv")
	if err := os.WriteFile(path, []byte("stale,stale\nstale,stale\nstale,stale\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteCSV(path, []scraper.Product{{Title: "a", Description: "b", Price: 1.5, Rating: 1, NumOfReviews: 2}}); err != nil {
		t.Fatal(err)
	}
	if rows := readCSV(t, path); len(rows) != 2 {
		t.Errorf("got %d rows expected 2", len(rows))
	}
}

func TestWriteCSVBadPath(t *testing.T) {
	if err := WriteCSV(filepath.Join(t.TempDir(), "missing", "x.csv"), nil); err == nil {
		t.Error("expected error")
	}
}

func TestFormatPrice(t *testing.T) {
	tests := map[float64]string{
		299:     "299.0",
		0:       "0.0",
		24.99:   "24.99",
		1101.83: "1101.83",
		0.1:     "0.1",
	}
	for in, expected := range tests {
		if got := FormatPrice(in); got != expected {
			t.Errorf("FormatPrice(%v): got %q expected %q", in, got, expected)
		}
	}
}
