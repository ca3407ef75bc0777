// Package diag collects non-fatal data problems found while reading or
// writing a BOM, so they can be reported once per run instead of being
// printed as they happen.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/rs/zerolog"
)

// Kind classifies a warning
type Kind string

const (
	KindQuantity        Kind = "quantity"           // Qty doesn't match the designators
	KindNotes           Kind = "notes"              // unrecognized text in the Notes column
	KindRuleSyntax      Kind = "rule-syntax"        // variant rule doesn't parse
	KindMissingData     Kind = "missing-bom-data"   // design element without BOM data
	KindMismatch        Kind = "attribute-mismatch" // schematic and board disagree
	KindMissingFabData  Kind = "no-fab-data"        // no fabrication attributes to work from
	KindUnknownVariants Kind = "unknown-variant"    // selected variant never mentioned by a rule
	KindNoDesignators   Kind = "no-designators"     // table row without designators
	KindVariantCount    Kind = "variant-count"      // resolved build leaves zero or several variants
	KindDuplicate       Kind = "duplicate"          // designator in several rows without variant rules
)

// Warning is a single data problem
type Warning struct {
	Kind        Kind
	Designators []string
	Message     string
}

// String renders the warning the way it is printed to the user
func (w Warning) String() string {
	if len(w.Designators) == 0 {
		return w.Message
	}
	return fmt.Sprintf("%s for designators %s", w.Message, strings.Join(w.Designators, " "))
}

// Group is a set of warnings that share kind and message
type Group struct {
	Kind        Kind
	Message     string
	Designators []string // naturally sorted, de-duplicated
}

// String renders the group on one line
func (g Group) String() string {
	return Warning{Kind: g.Kind, Message: g.Message, Designators: g.Designators}.String()
}

// Report accumulates warnings. The zero value is ready to use, and a nil
// *Report silently drops everything.
type Report struct {
	warnings []Warning
}

// NewReport creates an empty report
func NewReport() *Report {
	return &Report{}
}

// Warn records a warning
func (r *Report) Warn(kind Kind, desigs []string, format string, args ...any) {
	if r == nil {
		return
	}
	r.warnings = append(r.warnings, Warning{
		Kind:        kind,
		Designators: append([]string(nil), desigs...),
		Message:     fmt.Sprintf(format, args...),
	})
}

// Len returns the number of warnings recorded
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.warnings)
}

// Warnings returns the warnings in the order they were recorded
func (r *Report) Warnings() []Warning {
	if r == nil {
		return nil
	}
	return append([]Warning(nil), r.warnings...)
}

// Kinds returns how many warnings of each kind were recorded
func (r *Report) Kinds() map[Kind]int {
	counts := make(map[Kind]int)
	for _, w := range r.Warnings() {
		counts[w.Kind]++
	}
	return counts
}

// Groups merges warnings with the same kind and message and sorts them by
// kind, then by first designator in natural order.
func (r *Report) Groups() []Group {
	type key struct {
		kind    Kind
		message string
	}
	index := make(map[key]int)
	var groups []Group
	for _, w := range r.Warnings() {
		k := key{w.Kind, w.Message}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Kind: w.Kind, Message: w.Message})
		}
		groups[i].Designators = append(groups[i].Designators, w.Designators...)
	}

	for i := range groups {
		groups[i].Designators = uniqueNatural(groups[i].Designators)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		fa, fb := first(a.Designators), first(b.Designators)
		if fa != fb {
			return natural.Less(fa, fb)
		}
		return a.Message < b.Message
	})
	return groups
}

// Log writes every group as one warning line
func (r *Report) Log(logger zerolog.Logger) {
	for _, g := range r.Groups() {
		logger.Warn().
			Str("kind", string(g.Kind)).
			Strs("designators", g.Designators).
			Msg(g.Message)
	}
}

func uniqueNatural(desigs []string) []string {
	seen := make(map[string]bool, len(desigs))
	out := make([]string, 0, len(desigs))
	for _, d := range desigs {
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Sort(natural.StringSlice(out))
	return out
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
