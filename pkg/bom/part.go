package bom

import (
	"cmp"
	"slices"
)

// Variant is one alternative configuration of a designator, gated by a
// variant rule (see package variant).
type Variant struct {
	Rule string
	Info Info
}

// Compare orders variants by rule text, then by info
func (v Variant) Compare(o Variant) int {
	if c := cmp.Compare(v.Rule, o.Rule); c != 0 {
		return c
	}
	return v.Info.Compare(o.Info)
}

// Part is a designator and every variant known for it. If there is more than
// one variant, the rules are expected to leave exactly one of them once a
// build is selected.
type Part struct {
	Desig    string
	Variants []Variant
}

// NewPart creates a part with a single variant, which is what readers emit
func NewPart(desig, rule string, info Info) *Part {
	return &Part{Desig: desig, Variants: []Variant{{Rule: rule, Info: info}}}
}

// Clone returns a deep copy of the part
func (p *Part) Clone() *Part {
	return &Part{
		Desig:    p.Desig,
		Variants: slices.Clone(p.Variants),
	}
}

// SortedVariants returns the variants in Compare order, leaving p untouched
func (p *Part) SortedVariants() []Variant {
	sorted := slices.Clone(p.Variants)
	slices.SortFunc(sorted, Variant.Compare)
	return sorted
}
