package csvimport

import (
	"errors"
	"fmt"
	"io"

	"github.com/quotevoice/backend/internal/domain/quote"
	"github.com/shopspring/decimal"
)

// Default limits for an item import
const (
	DefaultMaxRows   = 500
	DefaultMaxErrors = 100
	DefaultMaxBytes  = 2 << 20
)

// ItemImporter turns a CSV file into quote item inputs
type ItemImporter struct {
	mappings  []ColumnMapping
	maxRows   int
	maxErrors int
	maxBytes  int64
	parseOpts []ParserOption
}

// ImporterOption configures an ItemImporter
type ImporterOption func(*ItemImporter)

// WithMaxRows caps the number of data rows
func WithMaxRows(n int) ImporterOption {
	return func(i *ItemImporter) { i.maxRows = n }
}

// WithMaxErrors caps the number of row errors kept in the result
func WithMaxErrors(n int) ImporterOption {
	return func(i *ItemImporter) { i.maxErrors = n }
}

// WithMaxBytes caps the accepted file size
func WithMaxBytes(n int64) ImporterOption {
	return func(i *ItemImporter) { i.maxBytes = n }
}

// WithParserOptions passes options through to the CSV parser
func WithParserOptions(opts ...ParserOption) ImporterOption {
	return func(i *ItemImporter) { i.parseOpts = append(i.parseOpts, opts...) }
}

// NewItemImporter validates the mappings. Nil mappings means DefaultItemMappings.
func NewItemImporter(mappings []ColumnMapping, opts ...ImporterOption) (*ItemImporter, error) {
	if mappings == nil {
		mappings = DefaultItemMappings()
	}
	if err := validateMappings(mappings); err != nil {
		return nil, err
	}
	imp := &ItemImporter{
		mappings:  mappings,
		maxRows:   DefaultMaxRows,
		maxErrors: DefaultMaxErrors,
		maxBytes:  DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp, nil
}

// ItemImportResult holds the parsed items and any row errors.
// Items only contains rows that passed validation.
type ItemImportResult struct {
	Items       []quote.ItemInput `json:"-"`
	TotalRows   int               `json:"total_rows"`
	ValidRows   int               `json:"valid_rows"`
	Errors      []RowError        `json:"errors,omitempty"`
	TotalErrors int               `json:"total_errors"`
	IsTruncated bool              `json:"is_truncated,omitempty"`
}

// IsValid reports whether every row was accepted
func (r *ItemImportResult) IsValid() bool {
	return r.TotalErrors == 0
}

// Import reads the whole file. File-level problems (encoding, header, size)
// are returned as errors; row problems land in the result.
func (imp *ItemImporter) Import(r io.Reader) (*ItemImportResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, imp.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > imp.maxBytes {
		return nil, ErrFileTooLarge
	}

	parser, err := ParseFromBytes(data, imp.parseOpts...)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}

	errs := NewErrorCollection(imp.maxErrors)
	for _, m := range imp.mappings {
		if !parser.HasHeader(m.CSVColumn) {
			errs.Add(RowError{
				Row:     1,
				Column:  m.CSVColumn,
				Code:    ErrCodeImportMissingColumn,
				Message: fmt.Sprintf("column '%s' not found in header", m.CSVColumn),
			})
		}
	}
	if errs.HasErrors() {
		return imp.result(nil, 0, errs), nil
	}

	var items []quote.ItemInput
	total := 0
	for {
		row, err := parser.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			total++
			errs.Add(RowError{Row: parser.CurrentRow(), Code: ErrCodeImportMalformedRow, Message: err.Error()})
			continue
		}
		if row.IsEmpty() {
			continue
		}
		total++
		if total > imp.maxRows {
			errs.Add(RowError{
				Row:     row.LineNumber,
				Code:    ErrCodeImportTooManyRows,
				Message: fmt.Sprintf("at most %d rows can be imported", imp.maxRows),
			})
			break
		}
		if item, ok := imp.mapRow(row, errs); ok {
			items = append(items, item)
		}
	}

	if total == 0 {
		return nil, ErrNoDataRows
	}
	return imp.result(items, total, errs), nil
}

func (imp *ItemImporter) result(items []quote.ItemInput, total int, errs *ErrorCollection) *ItemImportResult {
	return &ItemImportResult{
		Items:       items,
		TotalRows:   total,
		ValidRows:   len(items),
		Errors:      errs.Errors(),
		TotalErrors: errs.TotalCount(),
		IsTruncated: errs.IsTruncated(),
	}
}

// mapRow applies the mappings to one row. Every problem in the row is
// recorded before it is rejected.
func (imp *ItemImporter) mapRow(row *Row, errs *ErrorCollection) (quote.ItemInput, bool) {
	var in quote.ItemInput
	ok := true
	for _, m := range imp.mappings {
		raw := row.Get(m.CSVColumn)
		if raw == "" {
			if m.Required {
				errs.AddRequiredError(row.LineNumber, m.CSVColumn)
				ok = false
			}
			continue
		}

		switch m.DBField {
		case FieldDescription:
			in.Description = applyText(m.Transform, raw)
		case FieldUnit:
			in.Unit = applyText(m.Transform, raw)
		case FieldQuantity, FieldUnitPrice:
			d, err := ParseDecimal(raw)
			if err != nil {
				errs.AddNumberError(row.LineNumber, m.CSVColumn, raw)
				ok = false
				continue
			}
			if !checkRange(m, d, row.LineNumber, raw, errs) {
				ok = false
				continue
			}
			if m.DBField == FieldQuantity {
				in.Quantity = d
			} else {
				in.UnitPrice = d
			}
		}
	}
	return in, ok
}

func checkRange(m ColumnMapping, d decimal.Decimal, line int, raw string, errs *ErrorCollection) bool {
	var msg string
	switch {
	case m.DBField == FieldQuantity && !d.IsPositive():
		msg = "quantity must be positive"
	case m.DBField == FieldUnitPrice && d.IsNegative():
		msg = "unit price cannot be negative"
	default:
		return true
	}
	errs.Add(RowError{Row: line, Column: m.CSVColumn, Code: ErrCodeImportInvalidRange, Message: msg, Value: raw})
	return false
}
