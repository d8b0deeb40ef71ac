// Package ingest reads uploaded spreadsheets into named-column rows.
//
// CSV and XLSX files are supported. The first record is the header; every
// following non-blank record becomes a Row keyed by header name. Values are
// kept as the raw strings found in the file.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Format is an input file format.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

var (
	// ErrEmpty is returned when the input holds no header or no data rows.
	ErrEmpty = errors.New("ingest: no data")
	// ErrFormat is returned for file types other than CSV and XLSX.
	ErrFormat = errors.New("ingest: unsupported file format")
)

// FormatOf returns the format implied by the extension of filename.
func FormatOf(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return CSV, nil
	case ".xlsx":
		return XLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormat, filepath.Ext(filename))
	}
}

// Row is one data record. Rows are never modified after reading.
type Row struct {
	// Line is the 1-based record number in the file, header included.
	Line   int
	values map[string]string
}

// Get returns the raw value of column col, or "" when absent.
func (r Row) Get(col string) string {
	return r.values[col]
}

// Table is a header plus its data rows.
type Table struct {
	Columns []string
	Rows    []Row
	// Format is the format the table was read from.
	Format Format
}

// MissingColumnsError reports required columns absent from a table header.
type MissingColumnsError struct {
	Required []string
	Missing  []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("ingest: missing columns %s", strings.Join(e.Missing, ", "))
}

// Has reports whether the header contains col.
func (t *Table) Has(col string) bool {
	return slices.Contains(t.Columns, col)
}

// Require checks that every column in cols is present in the header.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Required: cols, Missing: missing}
	}
	return nil
}

// fromRecords builds a Table from a header record followed by data records.
// Header names are trimmed; a repeated header name keeps its first column.
// Records made only of blank cells are skipped.
func fromRecords(records [][]string, format Format) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	header := records[0]
	t := &Table{Format: format}
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if name == "" {
			continue
		}
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = i
		t.Columns = append(t.Columns, name)
	}
	if len(t.Columns) == 0 {
		return nil, ErrEmpty
	}

	for n, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		values := make(map[string]string, len(t.Columns))
		for _, name := range t.Columns {
			if i := index[name]; i < len(rec) {
				values[name] = rec[i]
			}
		}
		t.Rows = append(t.Rows, Row{Line: n + 2, values: values})
	}
	if len(t.Rows) == 0 {
		return nil, ErrEmpty
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// NewTable builds a Table from rows of values, in the same way files are
// read. It is meant for callers that already hold decoded records.
func NewTable(header []string, records ...[]string) (*Table, error) {
	return fromRecords(append([][]string{header}, records...), CSV)
}
