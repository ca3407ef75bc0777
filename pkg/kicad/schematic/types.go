// Package schematic reads and edits the symbol instances of a KiCad
// schematic file (.kicad_sch)
package schematic

import (
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"
)

// Re-export shared types from sexp package for convenience
type Position = sexp.Position
type PositionAngle = sexp.PositionAngle
type Property = sexp.Property

// Schematic represents a KiCad schematic file. Only symbol instances are
// decoded; everything else is kept verbatim in Root.
type Schematic struct {
	Version   int       // File format version
	Generator string    // Generator info (e.g., "eeschema")
	Symbols   []*Symbol // Symbol instances on the schematic
	Root      *kicadsexp.List
}

// Symbol represents a placed symbol instance
type Symbol struct {
	LibID     string        // Library identifier (e.g., "Device:R")
	Reference string        // Reference designator, from the Reference property
	Unit      int           // Unit number (for multi-unit symbols)
	Position  PositionAngle // Position on schematic
	InBom     bool          // Include in BOM
	OnBoard   bool          // Place on board
	Node      *kicadsexp.List
}
