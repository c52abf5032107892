package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"products-scraper/internal/scraper"
)

var Header = []string{"title", "description", "price", "rating", "num_of_reviews"}

// WriteCSV creates (or truncates) path and writes the header followed by one
// row per product, in order.
func WriteCSV(path string, products []scraper.Product) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	writer := csv.NewWriter(file)
	writer.UseCRLF = true

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range products {
		if err := writer.Write(Row(p)); err != nil {
			return fmt.Errorf("failed to write record to CSV: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Row renders p in Header order.
func Row(p scraper.Product) []string {
	return []string{
		p.Title,
		p.Description,
		FormatPrice(p.Price),
		strconv.Itoa(p.Rating),
		strconv.Itoa(p.NumOfReviews),
	}
}

// FormatPrice prints the shortest representation that parses back to f and
// always keeps a fractional part, so 299 becomes "299.0".
func FormatPrice(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
