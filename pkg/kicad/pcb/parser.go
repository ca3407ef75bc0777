package pcb

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

// Minimum supported KiCad version (6.0 = 20211014)
const MinSupportedVersion = 20211014

// From this version on Reference and Value are footprint properties instead
// of fp_text, and custom properties carry a position (KiCad 8.0 = 20240108)
const PropertyTextVersion = 20240108

// ParseFile reads and parses a KiCad board file
func ParseFile(filename string) (*Board, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad board from an io.Reader
func Parse(r io.Reader) (*Board, error) {
	sexps, err := kicadsexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root, ok := sexps[0].(*kicadsexp.List)
	if !ok || root.Name() != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: expected 'kicad_pcb'")
	}

	version, generator, err := parseHeader(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	board := &Board{
		Version:   version,
		Generator: generator,
		Root:      root,
	}

	for _, node := range root.FindAll("footprint") {
		fp, err := parseFootprint(node)
		if err != nil {
			return nil, fmt.Errorf("failed to parse footprint: %w", err)
		}
		board.Footprints = append(board.Footprints, fp)
	}
	return board, nil
}

// parseHeader extracts version and generator information from the root node
// Expected format: (kicad_pcb (version 20221018) (generator pcbnew) ...)
func parseHeader(root *kicadsexp.List) (version int, generator string, err error) {
	versionNode, found := root.Find("version")
	if !found {
		return 0, "", fmt.Errorf("missing required 'version' field")
	}
	ver, err := sexp.GetInt(versionNode, 1)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}
	if ver < MinSupportedVersion {
		return 0, "", fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}

	gen := "unknown"
	if genNode, found := root.Find("generator"); found {
		if name, err := sexp.GetString(genNode, 1); err == nil {
			gen = name
		}
	}
	return ver, gen, nil
}

// parseFootprint reads a (footprint "lib:name" (layer ..) (at ..) ...) node
func parseFootprint(node *kicadsexp.List) (*Footprint, error) {
	fpName, err := sexp.GetString(node, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprint name: %w", err)
	}

	fp := &Footprint{Node: node}

	// Example: "Resistor_SMD:R_0603_1608Metric"
	if lib, name, ok := strings.Cut(fpName, ":"); ok && lib != "" {
		fp.Library = lib
		fp.Name = name
	} else {
		fp.Name = fpName
	}

	if layerNode, found := node.Find("layer"); found {
		fp.Layer, _ = sexp.GetString(layerNode, 1)
	}
	if atNode, found := node.Find("at"); found {
		fp.Position, _ = sexp.GetPosition(atNode)
	}
	if attr, found := node.Find("attr"); found {
		fp.BoardOnly = sexp.HasSymbol(attr, "board_only")
	}

	// KiCad 8 stores these as properties, older boards as fp_text
	fp.Reference = fp.text("reference", "Reference")
	fp.Value = fp.text("value", "Value")
	return fp, nil
}

func (f *Footprint) text(kind, property string) string {
	if prop, ok := sexp.FindProperty(f.Node, property); ok {
		return prop.Value
	}
	for _, t := range f.Node.FindAll("fp_text") {
		if k, _ := sexp.GetString(t, 1); k == kind {
			v, _ := sexp.GetString(t, 2)
			return v
		}
	}
	return ""
}

// Property returns the value of a footprint property
func (f *Footprint) Property(key string) (string, bool) {
	prop, ok := sexp.FindProperty(f.Node, key)
	return prop.Value, ok
}

// Properties returns every footprint property, Reference and Value included
// when the file stores them as properties
func (f *Footprint) Properties() map[string]string {
	props := make(map[string]string)
	for _, p := range sexp.Properties(f.Node) {
		props[p.Key] = p.Value
	}
	return props
}

// SetProperty updates a property, or adds it hidden on the fab layer
func (f *Footprint) SetProperty(key, value string, version int) {
	if prop, ok := sexp.FindProperty(f.Node, key); ok {
		sexp.SetPropertyValue(prop.Node, value)
		return
	}

	prop := kicadsexp.NewList("property", kicadsexp.String(key), kicadsexp.String(value))
	if version >= PropertyTextVersion {
		prop.Append(
			sexp.NewPosition(PositionAngle{Angle: f.Position.Angle}),
			kicadsexp.NewList("unlocked", kicadsexp.Symbol("yes")),
			kicadsexp.NewList("layer", kicadsexp.String(f.fabLayer())),
			kicadsexp.NewList("hide", kicadsexp.Symbol("yes")),
			kicadsexp.NewList("effects",
				kicadsexp.NewList("font",
					kicadsexp.NewList("size", kicadsexp.Symbol("1"), kicadsexp.Symbol("1")),
					kicadsexp.NewList("thickness", kicadsexp.Symbol("0.15")),
				),
			),
		)
	}
	sexp.InsertAfterLast(f.Node, "property", prop)
}

// RemoveProperty deletes a property
func (f *Footprint) RemoveProperty(key string) {
	sexp.RemoveProperties(f.Node, key)
}

// SetValue changes the Value property or the value fp_text
func (f *Footprint) SetValue(value string) {
	f.Value = value
	if prop, ok := sexp.FindProperty(f.Node, "Value"); ok {
		sexp.SetPropertyValue(prop.Node, value)
		return
	}
	for _, t := range f.Node.FindAll("fp_text") {
		if k, _ := sexp.GetString(t, 1); k == "value" {
			t.Set(2, kicadsexp.String(value))
			return
		}
	}
}

func (f *Footprint) fabLayer() string {
	if f.Layer == "B.Cu" {
		return "B.Fab"
	}
	return "F.Fab"
}

// References maps designators to footprints. Footprints without a
// reference, with the "REF**" placeholder or marked board only are left out.
func (b *Board) References() map[string]*Footprint {
	refs := make(map[string]*Footprint)
	for _, fp := range b.Footprints {
		if fp.Reference == "" || fp.Reference == "REF**" || fp.BoardOnly {
			continue
		}
		if _, dup := refs[fp.Reference]; !dup {
			refs[fp.Reference] = fp
		}
	}
	return refs
}

// Designators lists the references in natural order
func (b *Board) Designators() []string {
	var desigs []string
	for ref := range b.References() {
		desigs = append(desigs, ref)
	}
	sort.Sort(natural.StringSlice(desigs))
	return desigs
}

// Write serializes the board in KiCad's layout
func (b *Board) Write(w io.Writer) error {
	return kicadsexp.Write(w, b.Root)
}
