package sheet

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/OpenTraceLab/OpenTraceBOM/internal/fsutil"
)

// Sheet names are limited to 31 characters by the file format
const maxSheetName = 31

// Row heights grow by this much for every wrapped designator line
const lineHeight = 18

// XLSXFile reads the first worksheet of a workbook and writes a single,
// styled worksheet.
type XLSXFile struct {
	Path string
}

// ReadTable reads the first worksheet
func (x *XLSXFile) ReadTable() (*Table, error) {
	f, err := excelize.OpenFile(x.Path)
	if err != nil {
		return nil, fmt.Errorf("sheet: open %s: %w", x.Path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{Title: x.Path}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("sheet: read %s: %w", x.Path, err)
	}

	t := &Table{Title: sheets[0]}
	if len(rows) == 0 {
		return t, nil
	}
	t.Header = normalizeHeader(rows[0])
	for _, record := range rows[1:] {
		t.Rows = append(t.Rows, rowFromRecord(t.Header, record))
	}
	return t, nil
}

// WriteTable replaces the file with a workbook holding t
func (x *XLSXFile) WriteTable(t *Table) error {
	f, err := buildWorkbook(t)
	if err != nil {
		return fmt.Errorf("sheet: build %s: %w", x.Path, err)
	}
	defer f.Close()

	err = fsutil.WriteFunc(x.Path, func(w io.Writer) error {
		return f.Write(w)
	})
	if err != nil {
		return fmt.Errorf("sheet: write %s: %w", x.Path, err)
	}
	return nil
}

// cellKind selects one of the memoized cell styles
type cellKind struct {
	header bool
	dnp    bool
	desig  bool
}

type styler struct {
	f      *excelize.File
	styles map[cellKind]int
}

func (s *styler) style(k cellKind) (int, error) {
	if id, ok := s.styles[k]; ok {
		return id, nil
	}

	border := []excelize.Border{
		{Type: "left", Color: "CCCCCC", Style: 1},
		{Type: "top", Color: "CCCCCC", Style: 1},
		{Type: "right", Color: "CCCCCC", Style: 1},
		{Type: "bottom", Color: "CCCCCC", Style: 1},
	}
	style := &excelize.Style{
		Border:    border,
		Font:      &excelize.Font{Family: "Arial", Size: 10},
		Alignment: &excelize.Alignment{Vertical: "top"},
	}
	switch {
	case k.header:
		style.Font.Bold = true
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"CCDDFF"}}
	case k.dnp:
		style.Font.Italic = true
		style.Font.Strike = k.desig
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"CCCCCC"}}
	}
	if k.desig {
		style.Alignment.WrapText = true
	}

	id, err := s.f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	s.styles[k] = id
	return id, nil
}

func sheetName(title string) string {
	if title == "" {
		return "BOM"
	}
	r := []rune(title)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}

func buildWorkbook(t *Table) (*excelize.File, error) {
	f := excelize.NewFile()
	name := sheetName(t.Title)
	if err := f.SetSheetName("Sheet1", name); err != nil {
		f.Close()
		return nil, err
	}

	if err := fillSheet(f, name, t); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func fillSheet(f *excelize.File, name string, t *Table) error {
	s := &styler{f: f, styles: make(map[cellKind]int)}

	desigWidth := columnWidths[FieldDesignators]
	for col, field := range t.Header {
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if width, ok := columnWidths[field]; ok {
			if err := f.SetColWidth(name, colName, colName, width); err != nil {
				return err
			}
		}
	}

	writeRow := func(rowNum int, record []string, header, dnp bool) error {
		wraps := 0
		for col, value := range record {
			field := t.Header[col]
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}

			var v any = value
			if !header && field == FieldQty {
				if n, err := strconv.Atoi(value); err == nil {
					v = n
				}
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return err
			}

			id, err := s.style(cellKind{header: header, dnp: dnp, desig: field == FieldDesignators})
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(name, cell, cell, id); err != nil {
				return err
			}

			if field == FieldDesignators {
				wraps = len(value) / int(desigWidth-2)
			}
		}
		return f.SetRowHeight(name, rowNum, float64(lineHeight*(wraps+1)))
	}

	if err := writeRow(1, t.Header, true, false); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := writeRow(i+2, recordFromRow(t.Header, row), false, row.DNP); err != nil {
			return err
		}
	}

	return f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
