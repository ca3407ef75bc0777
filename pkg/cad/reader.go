package cad

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/design"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/logging"
)

// Reader extracts parts from the attributes of a design
type Reader struct {
	Design design.Design
}

// NewReader opens a schematic/board pair for reading
func NewReader(sch, brd string) (*Reader, error) {
	d, err := OpenDesign(sch, brd)
	if err != nil {
		return nil, err
	}
	return &Reader{Design: d}, nil
}

// Read implements bom.Reader. Board designators are visited in natural
// order and every attribute group becomes one part, lowest index first.
// The board wins when the schematic disagrees.
func (r *Reader) Read(rep *diag.Report) ([]*bom.Part, error) {
	var parts []*bom.Part
	var missing, boardOnly []string
	for _, desig := range r.Design.Designators() {
		el, err := r.Design.Lookup(desig)
		if err != nil {
			return nil, err
		}
		attrs := el.Attributes()
		if checkMirror(desig, attrs, el.SchematicAttributes(), rep) {
			boardOnly = append(boardOnly, desig)
		}

		byIndex := groups(attrs)
		if len(byIndex) == 0 {
			missing = append(missing, desig)
			parts = append(parts, newPart(desig, decodeLegacy(attrs), el))
			continue
		}

		indices := make([]int, 0, len(byIndex))
		for i := range byIndex {
			indices = append(indices, i)
		}
		sort.Ints(indices)
		for _, i := range indices {
			parts = append(parts, newPart(desig, decodeGroup(byIndex[i]), el))
		}
	}
	if len(missing) > 0 {
		rep.Warn(diag.KindMissingData, missing, "missing explicit BOM data")
	}
	if len(boardOnly) > 0 {
		rep.Warn(diag.KindMismatch, boardOnly, "legacy BOM attributes only on the board")
	}

	logging.Get("cad").Debug().Int("parts", len(parts)).Int("legacy", len(missing)).Msg("read design")
	return parts, nil
}

func newPart(desig string, v bom.Variant, el design.Element) *bom.Part {
	v.Info.EagleValue = el.Value()
	v.Info.EaglePackage = el.Package()
	return bom.NewPart(desig, v.Rule, v.Info)
}

// checkMirror warns about BOM attributes that differ between the two files.
// Older tools wrote the ungrouped attributes to the board only; those are
// not warned about one by one, checkMirror reports true instead.
func checkMirror(desig string, brd, sch map[string]string, rep *diag.Report) (boardOnly bool) {
	var names []string
	for name, value := range brd {
		if !isBOMAttr(name) {
			continue
		}
		other, ok := sch[name]
		if !ok && isLegacyAttr(name) {
			boardOnly = true
			continue
		}
		if !ok || other != value {
			names = append(names, name)
		}
	}
	for name := range sch {
		if _, ok := brd[name]; !ok && isBOMAttr(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		rep.Warn(diag.KindMismatch, []string{desig}, "schematic and board disagree on %s, using board", name)
	}
	return boardOnly
}
