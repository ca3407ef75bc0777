package sheet

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/logging"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/variant"
)

// Reader turns table rows into parts, one per designator
type Reader struct {
	Source Source
	Name   string // used in error messages, usually the file path
}

// NewReader opens path with the backend matching its extension
func NewReader(path string) (*Reader, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &Reader{Source: src, Name: path}, nil
}

// Read implements bom.Reader. A missing column is a SchemaError. A
// designator listed twice in one row, or in two rows with the same rule and
// data, is a ConsistencyError. Everything else wrong with a row is reported
// to rep and the row is kept.
func (r *Reader) Read(rep *diag.Report) ([]*bom.Part, error) {
	t, err := r.Source.ReadTable()
	if err != nil {
		return nil, err
	}
	for _, field := range RequiredFields {
		if !t.Has(field) {
			return nil, &bom.SchemaError{
				Source:  r.Name,
				Field:   field,
				Message: "expected field " + strconv.Quote(field) + " not in table header",
			}
		}
	}

	var parts []*bom.Part
	seen := make(map[string][]bom.Variant)
	for _, row := range t.Rows {
		if row.Blank() {
			continue
		}
		rowParts, err := r.readRow(row, rep)
		if err != nil {
			return nil, err
		}
		for _, p := range rowParts {
			if err := r.checkRepeat(seen[p.Desig], p, rep); err != nil {
				return nil, err
			}
			seen[p.Desig] = append(seen[p.Desig], p.Variants...)
		}
		parts = append(parts, rowParts...)
	}

	logging.Get("sheet").Debug().Str("file", r.Name).Int("rows", len(t.Rows)).Int("parts", len(parts)).Msg("read table")
	return parts, nil
}

func (r *Reader) readRow(row Row, rep *diag.Report) ([]*bom.Part, error) {
	desigs := SplitDesignators(row.Get(FieldDesignators))
	if len(desigs) == 0 {
		rep.Warn(diag.KindNoDesignators, nil, "%s: ignoring row for part %q without designators", r.Name, row.Get(FieldPart))
		return nil, nil
	}
	seen := make(map[string]bool, len(desigs))
	for _, d := range desigs {
		if seen[d] {
			return nil, &bom.ConsistencyError{Designator: d, Message: "listed twice in the same row of " + r.Name}
		}
		seen[d] = true
	}

	info := bom.Info{
		Package:      row.Get(FieldPackage),
		Description:  row.Get(FieldDescription),
		Manufacturer: row.Get(FieldManufacturer),
		Part:         row.Get(FieldPart),
		Supplier:     row.Get(FieldSupplier),
		SupplierPart: row.Get(FieldSupplierPart),
		Notes:        row.Get(FieldOtherNotes),
		Alternatives: row.Get(FieldAlternatives),
		Status:       row.Get(FieldStatus),
		EagleValue:   row.Get(FieldEagleValue),
		EaglePackage: row.Get(FieldEaglePackage),
	}

	switch notes := strings.TrimSpace(row.Get(FieldNotes)); notes {
	case NoteDNP:
		info.DNP = true
	case "":
	default:
		rep.Warn(diag.KindNotes, desigs, "ignoring unknown notes %q", notes)
	}

	checkQuantity(row.Get(FieldQty), info.DNP, desigs, rep)

	rule := row.Get(FieldVariantRule)
	if err := variant.Validate(rule); err != nil {
		rep.Warn(diag.KindRuleSyntax, desigs, "%v", err)
	}

	parts := make([]*bom.Part, 0, len(desigs))
	for _, d := range desigs {
		parts = append(parts, bom.NewPart(d, rule, info))
	}
	return parts, nil
}

// checkRepeat compares a part against the variants already read for its
// designator. Rows are variants of each other only when their rules differ.
func (r *Reader) checkRepeat(prev []bom.Variant, p *bom.Part, rep *diag.Report) error {
	for _, v := range p.Variants {
		for _, old := range prev {
			if old == v {
				return &bom.ConsistencyError{Designator: p.Desig, Message: "listed twice with the same data in " + r.Name}
			}
			if old.Rule == "" && v.Rule == "" {
				rep.Warn(diag.KindDuplicate, []string{p.Desig}, "in more than one row without a variant rule")
			}
		}
	}
	return nil
}

func checkQuantity(field string, dnp bool, desigs []string, rep *diag.Report) {
	field = strings.TrimSpace(field)
	if field == "" {
		rep.Warn(diag.KindQuantity, desigs, "quantity is empty")
		return
	}
	qty, err := strconv.Atoi(field)
	if err != nil {
		rep.Warn(diag.KindQuantity, desigs, "quantity %q is not a number", field)
		return
	}
	if want := bom.Quantity(bom.Info{DNP: dnp}, len(desigs)); qty != want {
		if dnp {
			rep.Warn(diag.KindQuantity, desigs, "quantity should be zero for DNP parts")
		} else {
			rep.Warn(diag.KindQuantity, desigs, "wrong quantity %d, expected %d", qty, want)
		}
	}
}

// SplitDesignators splits a designator list on commas, semicolons and
// whitespace, dropping empty tokens.
func SplitDesignators(list string) []string {
	return strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
}
