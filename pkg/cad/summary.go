package cad

import (
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/design"
)

// Summary tells which designators of a design carry BOM data
type Summary struct {
	Designators []string

	Grouped []string // BOM<n>_ groups
	Legacy  []string // only ungrouped BOM_ attributes
	Bare    []string // no BOM data at all
	Fab     []string // fabrication attributes present

	// Variants counts designators by number of attribute groups
	Variants map[int]int
}

// Summarize inspects every board designator. A designator missing from the
// schematic fails like it would in Read.
func Summarize(d design.Design) (*Summary, error) {
	s := &Summary{
		Designators: d.Designators(),
		Variants:    make(map[int]int),
	}
	for _, desig := range s.Designators {
		el, err := d.Lookup(desig)
		if err != nil {
			return nil, err
		}
		attrs := el.Attributes()

		n := len(groups(attrs))
		s.Variants[n]++
		switch {
		case n > 0:
			s.Grouped = append(s.Grouped, desig)
		case hasLegacy(attrs):
			s.Legacy = append(s.Legacy, desig)
		default:
			s.Bare = append(s.Bare, desig)
		}
		if _, ok := attrs[AttrPopulate]; ok {
			s.Fab = append(s.Fab, desig)
		}
	}
	return s, nil
}

func hasLegacy(attrs map[string]string) bool {
	for name := range attrs {
		if strings.HasPrefix(name, legacyPrefix) && !isFabAttr(name) {
			return true
		}
	}
	return false
}
