package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mekha7/mekha-store/internal/models"
)

var csvHeader = []string{"Name", "Category", "MRP", "Price", "Stock", "Description"}

// ProductsCSV renders the catalog in the admin export layout.
func ProductsCSV(products []models.Product) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, p := range products {
		row := []string{
			p.Name,
			p.Category,
			formatOptional(p.MRP),
			formatOptional(p.Price),
			strconv.Itoa(p.Stock),
			strings.ReplaceAll(p.Description, "\n", " "),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

var (
	nameCol  = regexp.MustCompile(`(?i)name`)
	catCol   = regexp.MustCompile(`(?i)categor`)
	mrpCol   = regexp.MustCompile(`(?i)mrp`)
	priceCol = regexp.MustCompile(`(?i)^price`)
	stockCol = regexp.MustCompile(`(?i)stock`)
	descCol  = regexp.MustCompile(`(?i)desc`)
)

// ParseProductsCSV reads an admin bulk-import file. Column positions are
// located from the header row, so exports round-trip and hand-edited files
// with reordered columns still load. Blank numeric cells become NULL price
// / zero stock; a blank category falls back to the default.
func ParseProductsCSV(r io.Reader) ([]models.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("csv has no data rows")
	}

	header := rows[0]
	nameIdx := findColumn(header, nameCol)
	if nameIdx < 0 {
		return nil, fmt.Errorf("csv header is missing a name column")
	}
	catIdx := findColumn(header, catCol)
	mrpIdx := findColumn(header, mrpCol)
	priceIdx := findColumn(header, priceCol)
	stockIdx := findColumn(header, stockCol)
	descIdx := findColumn(header, descCol)

	var products []models.Product
	for _, row := range rows[1:] {
		name := strings.TrimSpace(cell(row, nameIdx))
		if name == "" {
			continue
		}

		category := strings.TrimSpace(cell(row, catIdx))
		if category == "" {
			category = models.DefaultCategory
		}

		stock := 0
		if v, err := strconv.Atoi(strings.TrimSpace(cell(row, stockIdx))); err == nil && v > 0 {
			stock = v
		}

		products = append(products, models.Product{
			Name:        name,
			Category:    category,
			MRP:         parseOptional(cell(row, mrpIdx)),
			Price:       parseOptional(cell(row, priceIdx)),
			Stock:       stock,
			Description: strings.TrimSpace(cell(row, descIdx)),
		})
	}
	return products, nil
}

func findColumn(header []string, re *regexp.Regexp) int {
	for i, h := range header {
		if re.MatchString(strings.TrimSpace(h)) {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseOptional(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
