// Package sexp provides the helpers shared by the KiCad schematic and board
// parsers: typed access to atoms, positions and property nodes.
package sexp

import "github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/sexp/kicadsexp"

// Position represents a 2D coordinate in millimeters
type Position struct {
	X float64
	Y float64
}

// Angle represents rotation in degrees
type Angle float64

// PositionAngle combines position with rotation
type PositionAngle struct {
	Position
	Angle Angle
}

// Property is a (property "key" "value" ...) node of a symbol or footprint
type Property struct {
	Key      string
	Value    string
	Position PositionAngle
	Hidden   bool

	// Node is the list the property was read from, for in-place edits
	Node *kicadsexp.List
}
