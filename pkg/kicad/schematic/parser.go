package schematic

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// Minimum supported KiCad version for schematics (6.0 = 20211014)
const MinSupportedVersion = 20211014

// From this version on properties use (hide yes) and carry no (id N)
// (KiCad 8.0 = 20231120)
const HideNodeVersion = 20231120

// ParseFile reads and parses a KiCad schematic file
func ParseFile(filename string) (*Schematic, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad schematic from an io.Reader
func Parse(r io.Reader) (*Schematic, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root, ok := sexps[0].(*kicadsexp.List)
	if !ok || root.Name() != "kicad_sch" {
		return nil, fmt.Errorf("not a KiCad schematic file: expected 'kicad_sch'")
	}

	sch := &Schematic{Root: root}
	if err := parseHeader(root, sch); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	// Library symbols live under lib_symbols, so the root only holds instances
	for _, node := range root.FindAll("symbol") {
		sch.Symbols = append(sch.Symbols, parseSymbol(node))
	}
	return sch, nil
}

// parseHeader extracts version and generator information
func parseHeader(root *kicadsexp.List, sch *Schematic) error {
	versionNode, found := root.Find("version")
	if !found {
		return fmt.Errorf("missing required 'version' field")
	}
	ver, err := sexp.GetInt(versionNode, 1)
	if err != nil {
		return fmt.Errorf("failed to parse version: %w", err)
	}
	if ver < MinSupportedVersion {
		return fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}
	sch.Version = ver

	if genNode, found := root.Find("generator"); found {
		sch.Generator, _ = sexp.GetString(genNode, 1)
	}
	return nil
}

func parseSymbol(node *kicadsexp.List) *Symbol {
	sym := &Symbol{
		InBom:   true,
		OnBoard: true,
		Unit:    1,
		Node:    node,
	}

	if libNode, found := node.Find("lib_id"); found {
		sym.LibID, _ = sexp.GetString(libNode, 1)
	}
	if atNode, found := node.Find("at"); found {
		sym.Position, _ = sexp.GetPosition(atNode)
	}
	if unitNode, found := node.Find("unit"); found {
		sym.Unit, _ = sexp.GetInt(unitNode, 1)
	}
	if n, found := node.Find("in_bom"); found {
		v, _ := sexp.GetString(n, 1)
		sym.InBom = v != "no"
	}
	if n, found := node.Find("on_board"); found {
		v, _ := sexp.GetString(n, 1)
		sym.OnBoard = v != "no"
	}
	if ref, ok := sexp.FindProperty(node, "Reference"); ok {
		sym.Reference = ref.Value
	}
	return sym
}

// IsPower reports whether the symbol is a power flag or similar virtual
// symbol, which KiCad marks with a '#' reference
func (s *Symbol) IsPower() bool {
	return strings.HasPrefix(s.Reference, "#")
}

// Property returns the value of a property
func (s *Symbol) Property(key string) (string, bool) {
	prop, ok := sexp.FindProperty(s.Node, key)
	return prop.Value, ok
}

// Properties returns every property of the instance
func (s *Symbol) Properties() map[string]string {
	props := make(map[string]string)
	for _, p := range sexp.Properties(s.Node) {
		props[p.Key] = p.Value
	}
	return props
}

// SetProperty updates a property, or adds it hidden at the symbol origin
func (s *Symbol) SetProperty(key, value string, version int) {
	if prop, ok := sexp.FindProperty(s.Node, key); ok {
		sexp.SetPropertyValue(prop.Node, value)
		return
	}
	sexp.InsertAfterLast(s.Node, "property", s.newProperty(key, value, version))
}

// RemoveProperty deletes a property
func (s *Symbol) RemoveProperty(key string) {
	sexp.RemoveProperties(s.Node, key)
}

func (s *Symbol) newProperty(key, value string, version int) *kicadsexp.List {
	font := kicadsexp.NewList("font", kicadsexp.NewList("size", kicadsexp.Symbol("1.27"), kicadsexp.Symbol("1.27")))
	at := sexp.NewPosition(PositionAngle{Position: s.Position.Position})

	if version >= HideNodeVersion {
		effects := kicadsexp.NewList("effects", font, kicadsexp.NewList("hide", kicadsexp.Symbol("yes")))
		return kicadsexp.NewList("property", kicadsexp.String(key), kicadsexp.String(value), at, effects)
	}

	id := 0
	for _, p := range s.Node.FindAll("property") {
		if idNode, ok := p.Find("id"); ok {
			if n, err := sexp.GetInt(idNode, 1); err == nil && n >= id {
				id = n + 1
			}
		}
	}
	effects := kicadsexp.NewList("effects", font, kicadsexp.Symbol("hide"))
	return kicadsexp.NewList("property", kicadsexp.String(key), kicadsexp.String(value),
		kicadsexp.NewList("id", kicadsexp.Symbol(fmt.Sprint(id))), at, effects)
}

// References groups the non-power symbol instances by reference. Every unit
// of a multi-unit part shares one reference.
func (sch *Schematic) References() map[string][]*Symbol {
	refs := make(map[string][]*Symbol)
	for _, sym := range sch.Symbols {
		if sym.Reference == "" || sym.IsPower() {
			continue
		}
		refs[sym.Reference] = append(refs[sym.Reference], sym)
	}
	for _, units := range refs {
		sort.SliceStable(units, func(i, j int) bool { return units[i].Unit < units[j].Unit })
	}
	return refs
}

// Designators lists the references in natural order
func (sch *Schematic) Designators() []string {
	var desigs []string
	for ref := range sch.References() {
		desigs = append(desigs, ref)
	}
	sort.Sort(natural.StringSlice(desigs))
	return desigs
}

// Write serializes the schematic in KiCad's layout
func (sch *Schematic) Write(w io.Writer) error {
	return kicadsexp.Write(w, sch.Root)
}
