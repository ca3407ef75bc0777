package sheet

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/logging"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/variant"
)

// Writer lays a BOM out as a table
type Writer struct {
	Sink Sink
	Name string // for log messages

	// Merge combines designators whose variants are identical into one row
	Merge bool

	// EagleValue adds the CAD value and package columns
	EagleValue bool
}

// NewWriter writes to path with the backend matching its extension
func NewWriter(path string, merge, eagleValue bool) (*Writer, error) {
	sink, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &Writer{Sink: sink, Name: path, Merge: merge, EagleValue: eagleValue}, nil
}

// group is a set of designators sharing one variant list
type group struct {
	desigs   []string
	variants []bom.Variant
}

// Write implements bom.Writer
func (w *Writer) Write(b *bom.BOM, sel *variant.Selection, _ *diag.Report) error {
	t := w.Table(b, sel)
	if err := w.Sink.WriteTable(t); err != nil {
		return err
	}

	logger := logging.Get("sheet")
	switch {
	case sel == nil:
		logger.Info().Str("file", w.Name).Msg("wrote master BOM for all variants")
	case sel.IsBase():
		logger.Info().Str("file", w.Name).Msg("wrote BOM for base variant")
	default:
		logger.Info().Str("file", w.Name).Strs("variants", sel.Names()).Msg("wrote BOM for variants")
	}
	return nil
}

// Table builds the table Write would store
func (w *Writer) Table(b *bom.BOM, sel *variant.Selection) *Table {
	master := sel == nil
	t := &Table{Title: "BOM", Header: Header(master, w.EagleValue)}
	if !sel.IsBase() {
		t.Title = fmt.Sprintf("BOM (%s)", sel.String())
	}

	groups := w.groups(b, master)
	sort.SliceStable(groups, func(i, j int) bool {
		return natural.Less(strings.Join(groups[i].desigs, " "), strings.Join(groups[j].desigs, " "))
	})

	for _, g := range groups {
		desigField := strings.Join(g.desigs, " ")
		for _, v := range g.variants {
			t.Rows = append(t.Rows, w.row(desigField, len(g.desigs), v, master))
		}
	}
	return t
}

func (w *Writer) groups(b *bom.BOM, master bool) []*group {
	var groups []*group
	// keyed by the first sorted variant, candidates compared in full
	index := make(map[bom.Variant][]*group)

	for _, part := range b.Parts() {
		variants := make([]bom.Variant, 0, len(part.Variants))
		for _, v := range part.Variants {
			if !master {
				v.Rule = ""
			}
			if !w.EagleValue {
				v.Info = v.Info.WithoutCAD()
			}
			variants = append(variants, v)
		}

		if !w.Merge {
			groups = append(groups, &group{desigs: []string{part.Desig}, variants: variants})
			continue
		}

		sorted := (&bom.Part{Variants: variants}).SortedVariants()
		var key bom.Variant
		if len(sorted) > 0 {
			key = sorted[0]
		}
		var g *group
		for _, c := range index[key] {
			if slices.Equal(c.variants, sorted) {
				g = c
				break
			}
		}
		if g == nil {
			g = &group{variants: sorted}
			index[key] = append(index[key], g)
			groups = append(groups, g)
		}
		g.desigs = append(g.desigs, part.Desig)
	}

	for _, g := range groups {
		sort.Sort(natural.StringSlice(g.desigs))
	}
	return groups
}

func (w *Writer) row(desigs string, count int, v bom.Variant, master bool) Row {
	notes := ""
	if v.Info.DNP {
		notes = NoteDNP
	}

	values := map[string]string{
		FieldNotes:        notes,
		FieldQty:          strconv.Itoa(bom.Quantity(v.Info, count)),
		FieldPackage:      v.Info.Package,
		FieldDescription:  v.Info.Description,
		FieldManufacturer: v.Info.Manufacturer,
		FieldPart:         v.Info.Part,
		FieldDesignators:  desigs,
		FieldSupplier:     v.Info.Supplier,
		FieldSupplierPart: v.Info.SupplierPart,
		FieldOtherNotes:   v.Info.Notes,
		FieldAlternatives: v.Info.Alternatives,
		FieldStatus:       v.Info.Status,
	}
	if master {
		values[FieldVariantRule] = v.Rule
	}
	if w.EagleValue {
		values[FieldEagleValue] = v.Info.EagleValue
		values[FieldEaglePackage] = v.Info.EaglePackage
	}
	return Row{Values: values, DNP: v.Info.DNP}
}
