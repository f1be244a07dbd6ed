package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVParser reads a header row and then maps each record by header name.
// Header lookups are case-insensitive.
type CSVParser struct {
	delimiter  rune
	lazyQuotes bool
	headers    []string
	headerMap  map[string]int
	currentRow int
	reader     *csv.Reader
}

// ParserOption is a functional option for CSVParser configuration
type ParserOption func(*CSVParser)

// WithDelimiter forces the field delimiter. Without it the delimiter is
// sniffed from the header line.
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// WithLazyQuotes toggles lenient quote handling (default on)
func WithLazyQuotes(lazy bool) ParserOption {
	return func(p *CSVParser) {
		p.lazyQuotes = lazy
	}
}

// NewCSVParser strips a UTF-8 BOM, checks the encoding and prepares the reader
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	p := &CSVParser{lazyQuotes: true, headerMap: make(map[string]int)}
	for _, opt := range opts {
		opt(p)
	}

	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	const checkSize = 4096
	sample, err := br.Peek(checkSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bytes.TrimSpace(sample)) == 0 {
		return nil, ErrEmptyFile
	}
	if len(sample) == checkSize {
		sample = trimPartialRune(sample)
	}
	if !utf8.Valid(sample) {
		return nil, ErrInvalidEncoding
	}
	if p.delimiter == 0 {
		p.delimiter = sniffDelimiter(sample)
	}

	p.reader = csv.NewReader(br)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = p.lazyQuotes
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1
	return p, nil
}

// ParseFromBytes creates a parser from a byte slice
func ParseFromBytes(data []byte, opts ...ParserOption) (*CSVParser, error) {
	return NewCSVParser(bytes.NewReader(data), opts...)
}

// trimPartialRune drops a trailing rune cut in half by the peek window
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax-1 && len(b) > 0; i++ {
		if r, size := utf8.DecodeLastRune(b); r != utf8.RuneError || size != 1 {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

// sniffDelimiter picks the most frequent of ; , and tab on the first line.
// Spreadsheets with a Belgian locale export with semicolons.
func sniffDelimiter(sample []byte) rune {
	line := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		line = sample[:i]
	}
	best, bestCount := ',', 0
	for _, d := range []rune{';', ',', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// Delimiter returns the delimiter in use
func (p *CSVParser) Delimiter() rune {
	return p.delimiter
}

// ParseHeader reads the header row
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	p.currentRow = 1

	p.headers = make([]string, len(record))
	for i, h := range record {
		h = strings.TrimSpace(h)
		p.headers[i] = h
		if h != "" {
			p.headerMap[strings.ToLower(h)] = i
		}
	}
	if len(p.headerMap) == 0 {
		return ErrMissingHeader
	}
	return nil
}

// Headers returns the parsed header names as written in the file
func (p *CSVParser) Headers() []string {
	return p.headers
}

// HasHeader checks if a header exists
func (p *CSVParser) HasHeader(name string) bool {
	_, ok := p.headerMap[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Row is a parsed record keyed by lower-cased header name
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[strings.ToLower(strings.TrimSpace(header))]
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next record. It returns io.EOF at the end of input.
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.currentRow++
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}

	row := &Row{LineNumber: p.currentRow, Data: make(map[string]string, len(p.headerMap))}
	for key, i := range p.headerMap {
		if i < len(record) {
			row.Data[key] = strings.TrimSpace(record[i])
		} else {
			row.Data[key] = ""
		}
	}
	return row, nil
}

// CurrentRow returns the current line number (1-indexed)
func (p *CSVParser) CurrentRow() int {
	return p.currentRow
}
