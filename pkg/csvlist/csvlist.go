// Package csvlist reads uploaded contact lists from CSV files, tolerating
// the encodings and delimiters real-world exports arrive with.
package csvlist

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/jrsherlock/contacts-matcher5000/pkg/columns"
	"github.com/jrsherlock/contacts-matcher5000/pkg/contactsmatcher"
	"github.com/jrsherlock/contacts-matcher5000/pkg/internal/normalization"
)

// Table holds one parsed CSV: the cleaned header and its data rows, plus the
// encoding and delimiter that were applied.
type Table struct {
	// Header holds the cleaned column names
	Header []string
	// Rows holds the data rows, each exactly len(Header) cells wide
	Rows [][]string
	// Encoding is the canonical name of the encoding that decoded the input
	Encoding string
	// Delimiter is the field separator the rows were split on
	Delimiter rune
}

// List couples a parsed table with its resolved column mapping and the
// records projected from it.
type List struct {
	// ID identifies the list in match results
	ID string
	// Table is the parsed CSV
	Table *Table
	// Mapping resolves canonical columns to header indexes
	Mapping columns.Mapping
	// Records holds one record per data row
	Records []contactsmatcher.Record
}

type options struct {
	encoding  string
	delimiter rune
}

// Option adjusts how a table is read.
type Option func(*options)

// WithEncoding forces the input encoding instead of detecting one.
// Supported names: utf-8, latin-1, windows-1252, mac-roman.
func WithEncoding(name string) Option {
	return func(o *options) {
		o.encoding = name
	}
}

// WithDelimiter forces the field delimiter instead of detecting one.
func WithDelimiter(d rune) Option {
	return func(o *options) {
		o.delimiter = d
	}
}

// ReadTable parses CSV data into a Table, detecting the encoding and the
// delimiter unless options force them. Short rows are padded and long rows
// truncated so every row matches the header width.
func ReadTable(r io.Reader, opts ...Option) (*Table, error) {
	var settings options
	for _, opt := range opts {
		opt(&settings)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading list: %w", err)
	}

	text, encName, err := decode(raw, settings.encoding)
	if err != nil {
		return nil, err
	}

	delim := settings.delimiter
	if delim == 0 {
		delim = detectDelimiter(text)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parsing csv: no header row")
	}

	header, keep := cleanHeader(rows[0])
	if len(header) == 0 {
		return nil, fmt.Errorf("parsing csv: header has no named columns")
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		data = append(data, cleanRow(row, keep, len(header)))
	}

	return &Table{Header: header, Rows: data, Encoding: encName, Delimiter: delim}, nil
}

// Records projects the table onto matcher records. Row numbers are 1-based
// data-row positions, matching what a person sees in a spreadsheet below the
// header row.
func (t *Table) Records(listID string, m columns.Mapping) []contactsmatcher.Record {
	records := make([]contactsmatcher.Record, 0, len(t.Rows))
	for i, row := range t.Rows {
		records = append(records, contactsmatcher.Record{
			ListID:     listID,
			Row:        i + 1,
			Name:       m.Value(columns.ColumnCompanyName, row),
			FirstName:  m.Value(columns.ColumnFirstName, row),
			LastName:   m.Value(columns.ColumnLastName, row),
			Email:      m.Value(columns.ColumnEmail, row),
			Title:      m.Value(columns.ColumnTitle, row),
			Department: m.Value(columns.ColumnDepartment, row),
		})
	}
	return records
}

// LoadFile reads one list from disk, resolves its columns, and projects its
// records.
func LoadFile(path, listID string, overrides columns.Overrides, opts ...Option) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening list %s: %w", listID, err)
	}
	defer f.Close()

	table, err := ReadTable(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", listID, err)
	}

	mapping, err := columns.Resolve(table.Header, overrides)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", listID, err)
	}

	return &List{
		ID:      listID,
		Table:   table,
		Mapping: mapping,
		Records: table.Records(listID, mapping),
	}, nil
}

// ListIDFromPath derives a list identifier from a file path: the base name
// without its extension.
func ListIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SplitNamed separates records that carry a company name from those that do
// not. The matcher rejects blank names, so callers report the unnamed rows
// and match the rest.
func SplitNamed(records []contactsmatcher.Record) (named, unnamed []contactsmatcher.Record) {
	for _, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			unnamed = append(unnamed, rec)
			continue
		}
		named = append(named, rec)
	}
	return named, unnamed
}

// charmaps indexes the supported single-byte encodings by canonical name.
var charmaps = map[string]*charmap.Charmap{
	"latin-1":      charmap.ISO8859_1,
	"windows-1252": charmap.Windows1252,
	"mac-roman":    charmap.Macintosh,
}

// encodingAliases folds the spellings users type to canonical names.
var encodingAliases = map[string]string{
	"utf-8":        "utf-8",
	"utf8":         "utf-8",
	"latin-1":      "latin-1",
	"latin1":       "latin-1",
	"iso-8859-1":   "latin-1",
	"windows-1252": "windows-1252",
	"cp1252":       "windows-1252",
	"mac-roman":    "mac-roman",
	"macroman":     "mac-roman",
	"macintosh":    "mac-roman",
}

// Encodings returns the canonical encoding names accepted by WithEncoding.
func Encodings() []string {
	return []string{"utf-8", "latin-1", "windows-1252", "mac-roman"}
}

// decode converts raw bytes to UTF-8 text and reports the encoding applied.
// A forced encoding is honored; otherwise valid UTF-8 wins, single-byte
// candidates are tried in order and the first whose output carries no C1
// control runes is taken, with windows-1252 as the last resort.
func decode(raw []byte, forced string) (string, string, error) {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	if forced != "" {
		name, ok := encodingAliases[strings.ToLower(forced)]
		if !ok {
			return "", "", fmt.Errorf("unsupported encoding %q (supported: %s)", forced, strings.Join(Encodings(), ", "))
		}
		if name == "utf-8" {
			if !utf8.Valid(raw) {
				return "", "", fmt.Errorf("decoding list: input is not valid utf-8")
			}
			return string(raw), name, nil
		}
		text, err := charmaps[name].NewDecoder().Bytes(raw)
		if err != nil {
			return "", "", fmt.Errorf("decoding list as %s: %w", name, err)
		}
		return string(text), name, nil
	}

	if utf8.Valid(raw) {
		return string(raw), "utf-8", nil
	}
	for _, name := range []string{"latin-1", "windows-1252", "mac-roman"} {
		text, err := charmaps[name].NewDecoder().Bytes(raw)
		if err != nil || hasC1Controls(string(text)) {
			continue
		}
		return string(text), name, nil
	}
	text, _ := charmaps["windows-1252"].NewDecoder().Bytes(raw)
	return string(text), "windows-1252", nil
}

// hasC1Controls reports whether the text contains C1 control runes, the
// telltale of a single-byte file decoded with the wrong table.
func hasC1Controls(s string) bool {
	for _, r := range s {
		if r >= 0x80 && r <= 0x9F {
			return true
		}
	}
	return false
}

// delimiterCandidates are tried in preference order.
var delimiterCandidates = []rune{',', ';', '\t'}

// detectDelimiter picks the candidate that splits the header row into the
// most columns, preferring earlier candidates on ties.
func detectDelimiter(text string) rune {
	best := ','
	bestCols := 1
	for _, cand := range delimiterCandidates {
		reader := csv.NewReader(strings.NewReader(text))
		reader.Comma = cand
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1
		row, err := reader.Read()
		if err != nil {
			continue
		}
		if len(row) > bestCols {
			best = cand
			bestCols = len(row)
		}
	}
	return best
}

// cleanHeader trims header cells and drops unnamed columns, returning the
// surviving names and their source indexes.
func cleanHeader(row []string) ([]string, []int) {
	header := make([]string, 0, len(row))
	keep := make([]int, 0, len(row))
	for i, cell := range row {
		cell = strings.TrimPrefix(cell, "\ufeff")
		cell = normalization.CollapseWhitespace(cell)
		if cell == "" {
			continue
		}
		header = append(header, cell)
		keep = append(keep, i)
	}
	return header, keep
}

// cleanRow trims cells and projects the row onto the kept columns, padding
// short rows so every row matches the header width.
func cleanRow(row []string, keep []int, width int) []string {
	out := make([]string, width)
	for j, src := range keep {
		if src < len(row) {
			out[j] = normalization.CollapseWhitespace(row[src])
		}
	}
	return out
}
