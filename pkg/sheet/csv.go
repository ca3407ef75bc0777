package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceBOM/internal/fsutil"
)

// CSVFile reads and writes comma-separated files with a header row
type CSVFile struct {
	Path string
}

// ReadTable reads the whole file
func (c *CSVFile) ReadTable() (*Table, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("sheet: open %s: %w", c.Path, err)
	}
	defer f.Close()

	t, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("sheet: read %s: %w", c.Path, err)
	}
	t.Title = c.Path
	return t, nil
}

func readCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, err
	}

	t := &Table{Header: normalizeHeader(header)}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		t.Rows = append(t.Rows, rowFromRecord(t.Header, record))
	}
	return t, nil
}

// WriteTable replaces the file with t. The title isn't stored.
func (c *CSVFile) WriteTable(t *Table) error {
	err := fsutil.WriteFunc(c.Path, func(w io.Writer) error {
		return writeCSV(w, t)
	})
	if err != nil {
		return fmt.Errorf("sheet: write %s: %w", c.Path, err)
	}
	return nil
}

func writeCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(recordFromRow(t.Header, row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
