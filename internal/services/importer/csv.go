// Package importer reads portfolio CSV files.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"CardScout/internal/domain/models"
)

// MaxRows caps a single import.
const MaxRows = 1000

// Header is the column order of the import template.
var Header = []string{
	"player", "year", "set", "card_number", "grade", "grading_company",
	"purchase_price", "purchase_date", "quantity", "notes",
}

var (
	ErrNoData      = errors.New("no valid data found in CSV file")
	ErrTooManyRows = fmt.Errorf("csv has more than %d rows", MaxRows)
)

var templateRows = [][]string{
	{"Michael Jordan", "1986", "Fleer", "57", "9", "PSA", "5000", "2024-01-15", "1", "Rookie Card"},
	{"LeBron James", "2003", "Topps Chrome", "111", "10", "BGS", "3500", "2024-02-20", "1", "Refractor"},
	{"Ken Griffey Jr", "1989", "Upper Deck", "1", "9.5", "BGS", "1200", "2024-03-10", "2", "Rookie"},
}

// Template returns the downloadable example CSV.
func Template() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(Header)
	_ = w.WriteAll(templateRows)
	return buf.Bytes()
}

// Row is one data line keyed by lower-cased header name.
type Row struct {
	Line   int
	Values map[string]string
}

func (r Row) get(k string) string { return strings.TrimSpace(r.Values[k]) }

// Parse reads a CSV with a header line. Quoted fields may contain commas.
// Rows without player, year and set are skipped.
func Parse(src io.Reader) ([]Row, error) {
	cr := csv.NewReader(src)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(head))
	for i, h := range head {
		cols[i] = strings.ToLower(strings.Trim(strings.TrimSpace(h), `"`))
	}
	if len(cols) > 0 {
		cols[0] = strings.TrimPrefix(cols[0], "\ufeff")
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		row := Row{Line: line, Values: make(map[string]string, len(cols))}
		for i, c := range cols {
			if i < len(rec) {
				row.Values[c] = rec[i]
			}
		}
		if row.get("player") == "" && row.get("year") == "" && row.get("set") == "" {
			continue
		}
		if len(rows) == MaxRows {
			return nil, ErrTooManyRows
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}

// PortfolioItem converts a row. The returned item has no id, owner or timestamp.
func (r Row) PortfolioItem() (models.PortfolioItem, error) {
	item := models.PortfolioItem{
		Player:     r.get("player"),
		Set:        r.get("set"),
		CardNumber: strings.TrimPrefix(r.get("card_number"), "#"),
		Notes:      r.get("notes"),
		Quantity:   1,
	}
	if item.Player == "" {
		return item, errors.New("player is required")
	}
	if item.Set == "" {
		return item, errors.New("set is required")
	}

	year, err := strconv.Atoi(r.get("year"))
	if err != nil || year < 1800 || year > 2100 {
		return item, fmt.Errorf("invalid year %q", r.get("year"))
	}
	item.Year = year

	if v := r.get("grade"); v != "" {
		g, err := parseNumber(v)
		if err != nil || g < 1 || g > 10 {
			return item, fmt.Errorf("invalid grade %q", v)
		}
		item.Grade = &g
	}
	if v := r.get("grading_company"); v != "" {
		item.GradingCompany = strings.ToUpper(v)
	}
	if v := r.get("purchase_price"); v != "" {
		p, err := parseNumber(strings.TrimPrefix(v, "$"))
		if err != nil || p < 0 {
			return item, fmt.Errorf("invalid purchase_price %q", v)
		}
		item.PurchasePrice = &p
	}
	if v := r.get("purchase_date"); v != "" {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return item, fmt.Errorf("invalid purchase_date %q", v)
		}
		item.PurchaseDate = &d
	}
	if v := r.get("quantity"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 {
			return item, fmt.Errorf("invalid quantity %q", v)
		}
		item.Quantity = q
	}
	return item, nil
}

// parseNumber rejects NaN and infinities, which ParseFloat accepts.
func parseNumber(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", v)
	}
	return f, nil
}
