// Package importer parses bulk sale exports (CSV) into creation payloads.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salestream/server/internal/encoding"
	"github.com/salestream/server/internal/sale"
)

// Row is one parsed CSV line, ready for the creation path.
type Row struct {
	Line  int
	Input sale.CreateInput
}

// RowError reports a line that could not be parsed.
type RowError struct {
	Line int    `json:"line"`
	Err  string `json:"error"`
}

var requiredColumns = []string{
	"productId", "productName", "quantity", "unitPrice",
	"customerId", "customerName", "paymentMethod", "paymentStatus",
	"saleerId", "SaleerName", "saleDate", "invoiceNumber",
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Parse reads a sales CSV in any supported encoding. The first line must be
// a header naming at least the required columns; "discount" and "notes" are
// optional. Derived totals are computed here, playing the role the sale
// form plays for interactive creation. Unparseable lines are reported
// individually rather than aborting the whole file.
func (s *Service) Parse(r io.Reader) ([]Row, []RowError, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("detecting encoding: %w", err)
	}

	cr := csv.NewReader(utf8r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, nil, fmt.Errorf("missing column %q", name)
		}
	}

	var (
		rows    []Row
		failed  []RowError
		lineNum = 1
	)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}

		lineNum++

		if err != nil {
			failed = append(failed, RowError{Line: lineNum, Err: err.Error()})
			continue
		}

		input, err := parseRecord(cols, record)
		if err != nil {
			failed = append(failed, RowError{Line: lineNum, Err: err.Error()})
			continue
		}

		rows = append(rows, Row{Line: lineNum, Input: input})
	}

	return rows, failed, nil
}

func parseRecord(cols map[string]int, record []string) (sale.CreateInput, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}

		return strings.TrimSpace(record[idx])
	}

	quantity, err := decimal.NewFromString(field("quantity"))
	if err != nil {
		return sale.CreateInput{}, fmt.Errorf("quantity: %w", err)
	}

	unitPrice, err := decimal.NewFromString(field("unitPrice"))
	if err != nil {
		return sale.CreateInput{}, fmt.Errorf("unitPrice: %w", err)
	}

	discount := decimal.Zero

	if raw := field("discount"); raw != "" {
		discount, err = decimal.NewFromString(raw)
		if err != nil {
			return sale.CreateInput{}, fmt.Errorf("discount: %w", err)
		}
	}

	saleDate, err := parseDate(field("saleDate"))
	if err != nil {
		return sale.CreateInput{}, fmt.Errorf("saleDate: %w", err)
	}

	totals := sale.ComputeTotals(quantity, unitPrice, discount)

	in := sale.CreateInput{
		ProductID:     strPtr(field("productId")),
		ProductName:   strPtr(field("productName")),
		Quantity:      &quantity,
		UnitPrice:     &unitPrice,
		TotalPrice:    &totals.TotalPrice,
		Discount:      &discount,
		FinalPrice:    &totals.FinalPrice,
		TaxAmount:     &totals.TaxAmount,
		CustomerID:    strPtr(field("customerId")),
		CustomerName:  strPtr(field("customerName")),
		PaymentMethod: strPtr(field("paymentMethod")),
		PaymentStatus: strPtr(field("paymentStatus")),
		SaleerID:      strPtr(field("saleerId")),
		SaleerName:    strPtr(field("SaleerName")),
		SaleDate:      &saleDate,
		InvoiceNumber: strPtr(field("invoiceNumber")),
	}

	if notes := field("notes"); notes != "" {
		in.Notes = &notes
	}

	return in, nil
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}

	return time.Parse(time.DateOnly, raw)
}

// strPtr returns a pointer to s, or nil for the empty string so the gate
// reports the field as missing.
func strPtr(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
