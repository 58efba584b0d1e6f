package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shopassist-backend/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog exports and inserts/updates products keyed by
// their code. Multi-valued columns (images, sizes, colors) use `;` separators.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts one product per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if p == nil {
			continue
		}
		if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.Code, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	code := domain.NormalizeCode(pick(record, index, "code"))
	if code == "" {
		return nil, nil
	}
	name := pick(record, index, "name")
	priceStr := pick(record, index, "price")
	if name == "" || priceStr == "" {
		return nil, fmt.Errorf("invalid product row (missing name or price) for code %q", code)
	}
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		return nil, fmt.Errorf("invalid price for code %q: %s", code, priceStr)
	}

	p := domain.Product{
		Code:        code,
		Name:        name,
		Price:       price,
		Image:       pick(record, index, "image"),
		Images:      splitList(pick(record, index, "images")),
		Description: pick(record, index, "description"),
		Category:    pick(record, index, "category"),
		Sizes:       splitList(pick(record, index, "sizes")),
		Colors:      splitList(pick(record, index, "colors")),
		InStock:     true,
	}

	if s := pick(record, index, "original_price"); s != "" {
		orig, err := strconv.ParseFloat(s, 64)
		if err != nil || orig < 0 {
			return nil, fmt.Errorf("invalid original price for code %q: %s", code, s)
		}
		p.OriginalPrice = &orig
	}
	if s := pick(record, index, "rating"); s != "" {
		rating, err := strconv.ParseFloat(s, 64)
		if err != nil || rating < 0 || rating > 5 {
			return nil, fmt.Errorf("invalid rating for code %q: %s", code, s)
		}
		p.Rating = &rating
	}
	if s := pick(record, index, "reviews"); s != "" {
		reviews, err := strconv.Atoi(s)
		if err != nil || reviews < 0 {
			return nil, fmt.Errorf("invalid review count for code %q: %s", code, s)
		}
		p.Reviews = reviews
	}
	if s := pick(record, index, "in_stock"); s != "" {
		inStock, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid in_stock for code %q: %s", code, s)
		}
		p.InStock = inStock
	}
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}

	return &p, nil
}

func pick(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
