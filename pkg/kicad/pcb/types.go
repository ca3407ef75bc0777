// Package pcb reads and edits the footprints of a KiCad board file
// (.kicad_pcb)
package pcb

import (
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// Shared types (aliases to sexp package)
type Position = sexp.Position
type PositionAngle = sexp.PositionAngle
type Property = sexp.Property

// Board represents a KiCad board file. Only footprints are decoded;
// everything else is kept verbatim in Root.
type Board struct {
	Version    int          // File format version
	Generator  string       // Generator (pcbnew)
	Footprints []*Footprint // Placed footprints
	Root       *kicadsexp.List
}

// Footprint represents a placed component footprint
type Footprint struct {
	Library   string        // Library name
	Name      string        // Footprint name
	Layer     string        // Layer (F.Cu or B.Cu typically)
	Position  PositionAngle // Position and rotation
	Reference string        // Reference designator (e.g., "R1")
	Value     string        // Component value
	BoardOnly bool          // (attr ... board_only): no schematic symbol
	Node      *kicadsexp.List
}
