package bom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/logging"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/variant"
)

// Reader produces single-variant parts from some source
type Reader interface {
	Read(rep *diag.Report) ([]*Part, error)
}

// Writer consumes a BOM. sel is nil for master output, otherwise b has
// already been resolved against sel.
type Writer interface {
	Write(b *BOM, sel *variant.Selection, rep *diag.Report) error
}

// BOM maps designators to parts and remembers the order they were first seen
type BOM struct {
	parts map[string]*Part
	order []string
}

// New creates an empty BOM
func New() *BOM {
	return &BOM{parts: make(map[string]*Part)}
}

// Append adds a part. A designator seen before gets the new variants added
// after the ones it already has. The BOM keeps its own copy of p.
func (b *BOM) Append(p *Part) {
	if existing, ok := b.parts[p.Desig]; ok {
		existing.Variants = append(existing.Variants, p.Variants...)
		return
	}
	b.parts[p.Desig] = p.Clone()
	b.order = append(b.order, p.Desig)
}

// Read drains r into the BOM
func (b *BOM) Read(r Reader, rep *diag.Report) error {
	parts, err := r.Read(rep)
	if err != nil {
		return err
	}
	for _, p := range parts {
		b.Append(p)
	}
	logging.Get("bom").Debug().Int("parts", len(parts)).Int("designators", b.Len()).Msg("read parts")
	return nil
}

// Write hands the BOM to w. With a nil selection w gets a deep copy of the
// master BOM. Otherwise every variant is re-evaluated: dnp() marks the copy
// DNP, exclude() drops it. A rule that doesn't parse aborts the write before
// w is called.
func (b *BOM) Write(w Writer, sel *variant.Selection, rep *diag.Report) error {
	if sel == nil {
		return w.Write(b.Clone(), nil, rep)
	}

	resolved, err := b.Resolve(sel, rep)
	if err != nil {
		return err
	}
	return w.Write(resolved, sel, rep)
}

// Resolve returns a new BOM with the variant rules applied for sel
func (b *BOM) Resolve(sel *variant.Selection, rep *diag.Report) (*BOM, error) {
	out := New()
	mentioned := make(map[string]bool)
	for _, desig := range b.order {
		part := b.parts[desig]
		for _, v := range part.Variants {
			rule, err := variant.Compile(v.Rule)
			if err != nil {
				return nil, fmt.Errorf("bom: designator %s: %w", desig, err)
			}
			for _, name := range rule.Names() {
				mentioned[name] = true
			}

			flags := rule.Eval(sel)
			if flags.Exclude {
				continue
			}
			info := v.Info
			if flags.DNP {
				info.DNP = true
			}
			out.Append(NewPart(desig, v.Rule, info))
		}
	}

	for _, name := range sel.Names() {
		if !mentioned[name] {
			rep.Warn(diag.KindUnknownVariants, nil, "variant %q is not used by any rule", name)
		}
	}
	return out, nil
}

// Parts returns the parts in insertion order. The parts are the BOM's own;
// callers must Clone before changing them.
func (b *BOM) Parts() []*Part {
	parts := make([]*Part, 0, len(b.order))
	for _, desig := range b.order {
		parts = append(parts, b.parts[desig])
	}
	return parts
}

// Part looks up a designator
func (b *BOM) Part(desig string) (*Part, bool) {
	p, ok := b.parts[desig]
	return p, ok
}

// Designators returns every designator in natural order (R2 before R10)
func (b *BOM) Designators() []string {
	desigs := append([]string(nil), b.order...)
	sort.Sort(natural.StringSlice(desigs))
	return desigs
}

// Len returns the number of designators
func (b *BOM) Len() int {
	return len(b.order)
}

// Clone returns a deep copy
func (b *BOM) Clone() *BOM {
	out := New()
	for _, desig := range b.order {
		out.Append(b.parts[desig])
	}
	return out
}

// String dumps the BOM one variant per line, for debugging
func (b *BOM) String() string {
	var sb strings.Builder
	for _, desig := range b.Designators() {
		for _, v := range b.parts[desig].Variants {
			fmt.Fprintf(&sb, "%s [%s] %+v\n", desig, v.Rule, v.Info)
		}
	}
	return sb.String()
}
