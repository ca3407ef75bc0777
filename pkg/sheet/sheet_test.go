package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/variant"
)

const masterCSV = `Notes,Qty,Package,Description,Manufacturer,Part,Designators,Supplier,Supplier part,Variant rule,Other notes
,2,0402,Resistor 10K 1%,Yageo,RC0402FR-0710KL,"R1 R3",Digikey,311-10.0KLRCT-ND,,
,1,0402,Resistor 1K 1%,Yageo,RC0402FR-071KL,R2,Digikey,311-1.00KLRCT-ND,only(cryo),
DNP,0,SOT-23,MOSFET,Diodes,DMG2302U,Q1,Digikey,DMG2302UDICT-ND,,"hand fit, if needed"
,1,0603,Capacitor 1uF,Murata,GRM188R61E105KA12D,C10,Digikey,490-3897-1-ND,exclude(not cryo),
,,,,,,,,,,
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// memTable is an in-memory Source and Sink
type memTable struct {
	table *Table
}

func (m *memTable) ReadTable() (*Table, error) { return m.table, nil }

func (m *memTable) WriteTable(t *Table) error {
	m.table = t
	return nil
}

func readBOM(t *testing.T, src Source, rep *diag.Report) *bom.BOM {
	t.Helper()
	b := bom.New()
	require.NoError(t, b.Read(&Reader{Source: src, Name: "test"}, rep))
	return b
}

func TestSplitDesignators(t *testing.T) {
	assert.Equal(t, []string{"R1", "R2", "R3", "R4"}, SplitDesignators("R1, R2;R3  R4"))
	assert.Equal(t, []string{"C1"}, SplitDesignators(" C1 ,"))
	assert.Empty(t, SplitDesignators(" ; "))
}

func TestReadCSV(t *testing.T) {
	rep := diag.NewReport()
	r, err := NewReader(writeFile(t, "bom.csv", masterCSV))
	require.NoError(t, err)

	b := bom.New()
	require.NoError(t, b.Read(r, rep))
	assert.Equal(t, 0, rep.Len(), "%v", rep.Warnings())

	assert.Equal(t, []string{"C10", "Q1", "R1", "R2", "R3"}, b.Designators())

	r1, ok := b.Part("R1")
	require.True(t, ok)
	require.Len(t, r1.Variants, 1)
	assert.Equal(t, "RC0402FR-0710KL", r1.Variants[0].Info.Part)

	q1, _ := b.Part("Q1")
	assert.True(t, q1.Variants[0].Info.DNP)
	assert.Equal(t, "hand fit, if needed", q1.Variants[0].Info.Notes)

	r2, _ := b.Part("R2")
	assert.Equal(t, "only(cryo)", r2.Variants[0].Rule)
}

func TestReadMissingFieldIsSchemaError(t *testing.T) {
	src := &memTable{table: &Table{Header: []string{"Notes", "Qty", "Designators"}}}
	_, err := (&Reader{Source: src, Name: "bom.csv"}).Read(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bom.ErrSchema))

	var schemaErr *bom.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, FieldPackage, schemaErr.Field)
}

func TestReadDuplicateDesignatorInRow(t *testing.T) {
	src := &memTable{table: &Table{
		Header: RequiredFields,
		Rows: []Row{{Values: map[string]string{
			FieldQty:         "2",
			FieldDesignators: "R1, R1",
		}}},
	}}
	_, err := (&Reader{Source: src}).Read(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, bom.ErrConsistency)
}

func TestReadRepeatedDesignatorAcrossRows(t *testing.T) {
	header := append(append([]string(nil), RequiredFields...), FieldVariantRule)
	row := func(part, desigs, rule string) Row {
		return Row{Values: map[string]string{
			FieldQty:         strconv.Itoa(len(SplitDesignators(desigs))),
			FieldPart:        part,
			FieldDesignators: desigs,
			FieldVariantRule: rule,
		}}
	}

	t.Run("same data twice", func(t *testing.T) {
		src := &memTable{table: &Table{Header: header, Rows: []Row{
			row("RC0402FR-0710KL", "R1", ""),
			row("RC0402FR-0710KL", "R1 R2", ""),
		}}}
		_, err := (&Reader{Source: src, Name: "bom.csv"}).Read(diag.NewReport())
		require.Error(t, err)
		assert.ErrorIs(t, err, bom.ErrConsistency)

		var consErr *bom.ConsistencyError
		require.ErrorAs(t, err, &consErr)
		assert.Equal(t, "R1", consErr.Designator)
	})

	t.Run("two rows without rules", func(t *testing.T) {
		src := &memTable{table: &Table{Header: header, Rows: []Row{
			row("RC0402FR-0710KL", "R1", ""),
			row("RC0402FR-0722KL", "R1", ""),
		}}}
		rep := diag.NewReport()
		b := readBOM(t, src, rep)
		require.Equal(t, 1, rep.Len(), "%v", rep.Warnings())
		assert.Equal(t, diag.KindDuplicate, rep.Warnings()[0].Kind)
		assert.Equal(t, []string{"R1"}, rep.Warnings()[0].Designators)

		r1, _ := b.Part("R1")
		assert.Len(t, r1.Variants, 2)
	})

	t.Run("variants", func(t *testing.T) {
		src := &memTable{table: &Table{Header: header, Rows: []Row{
			row("RC0402FR-0710KL", "R1", "exclude(cryo)"),
			row("RC0402FR-0710KL", "R1", "exclude(not cryo)"),
		}}}
		rep := diag.NewReport()
		b := readBOM(t, src, rep)
		assert.Equal(t, 0, rep.Len(), "%v", rep.Warnings())
		r1, _ := b.Part("R1")
		assert.Len(t, r1.Variants, 2)
	})
}

func TestReadWarnings(t *testing.T) {
	row := func(notes, qty, desigs, rule string) Row {
		return Row{Values: map[string]string{
			FieldNotes:       notes,
			FieldQty:         qty,
			FieldDesignators: desigs,
			FieldVariantRule: rule,
		}}
	}

	tests := []struct {
		name string
		row  Row
		kind diag.Kind
	}{
		{"DNP with quantity", row("DNP", "1", "R1", ""), diag.KindQuantity},
		{"wrong quantity", row("", "1", "R1 R2", ""), diag.KindQuantity},
		{"empty quantity", row("", "", "R1", ""), diag.KindQuantity},
		{"quantity not a number", row("", "two", "R1 R2", ""), diag.KindQuantity},
		{"unknown notes", row("fragile", "1", "R1", ""), diag.KindNotes},
		{"bad rule", row("", "1", "R1", "dnp(foo and)"), diag.KindRuleSyntax},
		{"no designators", row("", "0", "", ""), diag.KindNoDesignators},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := append(append([]string(nil), RequiredFields...), FieldVariantRule)
			src := &memTable{table: &Table{Header: header, Rows: []Row{tt.row}}}
			rep := diag.NewReport()

			parts, err := (&Reader{Source: src}).Read(rep)
			require.NoError(t, err)
			require.Equal(t, 1, rep.Len(), "%v", rep.Warnings())
			assert.Equal(t, tt.kind, rep.Warnings()[0].Kind)

			// Rows with problems are still emitted
			assert.Len(t, parts, len(SplitDesignators(tt.row.Get(FieldDesignators))))
		})
	}
}

func TestReadBadRuleKeepsRawRule(t *testing.T) {
	header := append(append([]string(nil), RequiredFields...), FieldVariantRule)
	src := &memTable{table: &Table{Header: header, Rows: []Row{{Values: map[string]string{
		FieldQty:         "1",
		FieldDesignators: "U1",
		FieldVariantRule: "dnp(foo and)",
	}}}}}

	b := readBOM(t, src, diag.NewReport())
	u1, ok := b.Part("U1")
	require.True(t, ok)
	assert.Equal(t, "dnp(foo and)", u1.Variants[0].Rule)
}

func TestMergeR1R3(t *testing.T) {
	info := bom.Info{Package: "0402", Description: "Resistor 10K", Part: "RC0402FR-0710KL"}
	b := bom.New()
	b.Append(bom.NewPart("R3", "", info))
	b.Append(bom.NewPart("R1", "", info))
	b.Append(bom.NewPart("R2", "", bom.Info{Package: "0402", Part: "RC0402FR-071KL"}))

	tbl := (&Writer{Merge: true}).Table(b, nil)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "R1 R3", tbl.Rows[0].Get(FieldDesignators))
	assert.Equal(t, "2", tbl.Rows[0].Get(FieldQty))
	assert.Equal(t, "R2", tbl.Rows[1].Get(FieldDesignators))

	unmerged := (&Writer{}).Table(b, nil)
	require.Len(t, unmerged.Rows, 3)
	assert.Equal(t, "R1", unmerged.Rows[0].Get(FieldDesignators))
	assert.Equal(t, "1", unmerged.Rows[0].Get(FieldQty))
}

func TestMergeComparesWholeVariantList(t *testing.T) {
	base := bom.Info{Part: "RC0402FR-0710KL"}
	b := bom.New()
	b.Append(bom.NewPart("R1", "", base))
	b.Append(bom.NewPart("R1", "only(lab)", bom.Info{Part: "lab, \"special\""}))
	b.Append(bom.NewPart("R2", "only(lab)", bom.Info{Part: "lab, \"special\""}))
	b.Append(bom.NewPart("R2", "", base))
	b.Append(bom.NewPart("R3", "", base))
	b.Append(bom.NewPart("R3", "only(cryo)", bom.Info{Part: "cryo"}))

	tbl := (&Writer{Merge: true}).Table(b, nil)
	count := make(map[string]int)
	for _, row := range tbl.Rows {
		count[row.Get(FieldDesignators)]++
	}
	assert.Equal(t, map[string]int{"R1 R2": 2, "R3": 2}, count)
}

func TestMergeNaturalOrder(t *testing.T) {
	b := bom.New()
	for _, d := range []string{"C10", "C2", "C1"} {
		b.Append(bom.NewPart(d, "", bom.Info{Part: "GRM188"}))
	}
	b.Append(bom.NewPart("C9", "", bom.Info{Part: "other"}))

	tbl := (&Writer{Merge: true}).Table(b, nil)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "C1 C2 C10", tbl.Rows[0].Get(FieldDesignators))
	assert.Equal(t, "C9", tbl.Rows[1].Get(FieldDesignators))
}

func TestMergeIgnoresRulesWhenResolved(t *testing.T) {
	info := bom.Info{Part: "RC0402FR-0710KL"}
	b := bom.New()
	b.Append(bom.NewPart("R1", "dnp(lab)", info))
	b.Append(bom.NewPart("R2", "", info))

	master := (&Writer{Merge: true}).Table(b, nil)
	assert.Len(t, master.Rows, 2)
	assert.True(t, master.Has(FieldVariantRule))

	resolved := (&Writer{Merge: true}).Table(b, variant.NewSelection())
	require.Len(t, resolved.Rows, 1)
	assert.Equal(t, "R1 R2", resolved.Rows[0].Get(FieldDesignators))
	assert.False(t, resolved.Has(FieldVariantRule))
}

func TestMergeIgnoresCADFieldsUnlessRequested(t *testing.T) {
	b := bom.New()
	b.Append(bom.NewPart("R1", "", bom.Info{Part: "X", EagleValue: "10K"}))
	b.Append(bom.NewPart("R2", "", bom.Info{Part: "X", EagleValue: "10k"}))

	assert.Len(t, (&Writer{Merge: true}).Table(b, nil).Rows, 1)

	withCAD := (&Writer{Merge: true, EagleValue: true}).Table(b, nil)
	assert.Len(t, withCAD.Rows, 2)
	assert.True(t, withCAD.Has(FieldEagleValue))
	assert.Equal(t, "10K", withCAD.Rows[0].Get(FieldEagleValue))
}

func TestQuantityInvariant(t *testing.T) {
	b := bom.New()
	b.Append(bom.NewPart("R1", "", bom.Info{Part: "A", DNP: true}))
	b.Append(bom.NewPart("R2", "", bom.Info{Part: "A", DNP: true}))
	b.Append(bom.NewPart("R3", "", bom.Info{Part: "A"}))

	tbl := (&Writer{Merge: true}).Table(b, nil)
	require.Len(t, tbl.Rows, 2)
	for _, row := range tbl.Rows {
		n := len(SplitDesignators(row.Get(FieldDesignators)))
		if row.Get(FieldNotes) == NoteDNP {
			assert.True(t, row.DNP)
			assert.Equal(t, "0", row.Get(FieldQty))
		} else {
			assert.Equal(t, n, 1)
			assert.Equal(t, "1", row.Get(FieldQty))
		}
	}
}

func TestTitle(t *testing.T) {
	b := bom.New()
	assert.Equal(t, "BOM", (&Writer{}).Table(b, nil).Title)
	assert.Equal(t, "BOM", (&Writer{}).Table(b, variant.NewSelection()).Title)
	assert.Equal(t, "BOM (cryo,lab)", (&Writer{}).Table(b, variant.NewSelection("lab", "cryo")).Title)
}

func TestCSVMasterRoundTrip(t *testing.T) {
	in := writeFile(t, "in.csv", masterCSV)
	out := filepath.Join(filepath.Dir(in), "out.csv")

	rep := diag.NewReport()
	b := readBOM(t, &CSVFile{Path: in}, rep)
	w, err := NewWriter(out, true, false)
	require.NoError(t, err)
	require.NoError(t, b.Write(w, nil, rep))

	again := readBOM(t, &CSVFile{Path: out}, rep)
	assert.Equal(t, 0, rep.Len(), "%v", rep.Warnings())
	assert.Equal(t, b.Designators(), again.Designators())
	for _, d := range b.Designators() {
		want, _ := b.Part(d)
		got, _ := again.Part(d)
		assert.Equal(t, want.SortedVariants(), got.SortedVariants(), d)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	b := bom.New()
	b.Append(bom.NewPart("R1", "", bom.Info{Part: "A"}))
	b.Append(bom.NewPart("R1", "dnp(lab)", bom.Info{Part: "B"}))
	b.Append(bom.NewPart("R2", "", bom.Info{Part: "A"}))
	b.Append(bom.NewPart("R2", "dnp(lab)", bom.Info{Part: "B"}))
	b.Append(bom.NewPart("R3", "", bom.Info{Part: "C"}))

	first := &memTable{}
	require.NoError(t, b.Write(&Writer{Sink: first, Merge: true}, nil, nil))
	require.Len(t, first.table.Rows, 3)

	second := &memTable{}
	again := readBOM(t, first, nil)
	require.NoError(t, again.Write(&Writer{Sink: second, Merge: true}, nil, nil))
	assert.Equal(t, first.table.Rows, second.table.Rows)
}

func TestXLSXRoundTripAndStyle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.xlsx")

	b := readBOM(t, &CSVFile{Path: writeFile(t, "in.csv", masterCSV)}, nil)
	w, err := NewWriter(path, true, false)
	require.NoError(t, err)
	require.NoError(t, b.Write(w, variant.NewSelection("cryo"), nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"BOM (cryo)"}, f.GetSheetList())

	head, err := f.GetCellValue("BOM (cryo)", "A1")
	require.NoError(t, err)
	assert.Equal(t, FieldNotes, head)

	again := readBOM(t, &XLSXFile{Path: path}, nil)
	assert.Equal(t, []string{"C10", "Q1", "R1", "R2", "R3"}, again.Designators())
	q1, _ := again.Part("Q1")
	assert.True(t, q1.Variants[0].Info.DNP)
}

func TestOpenUnknownExtension(t *testing.T) {
	_, err := Open("bom.ods")
	assert.Error(t, err)

	f, err := Open("BOM.XLSX")
	require.NoError(t, err)
	assert.IsType(t, &XLSXFile{}, f)
}

func TestCSVStripsByteOrderMark(t *testing.T) {
	path := writeFile(t, "bom.csv", "\ufeff"+masterCSV)
	tbl, err := (&CSVFile{Path: path}).ReadTable()
	require.NoError(t, err)
	assert.Equal(t, FieldNotes, tbl.Header[0])
}
