package sheet

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Row is one line of a table. DNP is a styling hint for sinks that can
// highlight unpopulated parts.
type Row struct {
	Values map[string]string
	DNP    bool
}

// Get returns the value of a column, empty if absent
func (r Row) Get(field string) string {
	return r.Values[field]
}

// Blank reports whether every cell is empty
func (r Row) Blank() bool {
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Table is a titled grid with a header row
type Table struct {
	Title  string
	Header []string
	Rows   []Row
}

// Has reports whether the header contains field
func (t *Table) Has(field string) bool {
	for _, h := range t.Header {
		if h == field {
			return true
		}
	}
	return false
}

// Source produces a table from a tabular file
type Source interface {
	ReadTable() (*Table, error)
}

// Sink stores a table into a tabular file
type Sink interface {
	WriteTable(t *Table) error
}

// File is both a Source and a Sink
type File interface {
	Source
	Sink
}

// Open picks a backend from the file extension
func Open(path string) (File, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return &CSVFile{Path: path}, nil
	case ".xlsx":
		return &XLSXFile{Path: path}, nil
	}
	return nil, fmt.Errorf("sheet: unsupported file type %q (want .csv or .xlsx)", path)
}

// rowFromRecord maps a raw record onto the header; short records are padded
// with empty cells.
func rowFromRecord(header, record []string) Row {
	row := Row{Values: make(map[string]string, len(header))}
	for i, h := range header {
		if i < len(record) {
			row.Values[h] = record[i]
		} else {
			row.Values[h] = ""
		}
	}
	row.DNP = row.Values[FieldNotes] == NoteDNP
	return row
}

// recordFromRow lays a row out in header order
func recordFromRow(header []string, row Row) []string {
	record := make([]string, len(header))
	for i, h := range header {
		record[i] = row.Values[h]
	}
	return record
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	if len(out) > 0 {
		out[0] = strings.TrimPrefix(out[0], "\ufeff")
	}
	return out
}
