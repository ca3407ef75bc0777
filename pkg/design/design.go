// Package design abstracts a CAD design made of a schematic and a board
// file, both of which carry per-designator attributes that must be kept in
// step.
package design

// Design is a schematic/board pair
type Design interface {
	// Designators lists the board's designators in natural order
	Designators() []string

	// Lookup returns the element for a designator. It fails with a
	// bom.ConsistencyError when the designator is missing from either file.
	Lookup(desig string) (Element, error)

	// Save rewrites both files. Either both are replaced or neither is.
	Save() error
}

// Element is one designator as seen in both files. Reads come from the
// board; writes go to both.
type Element interface {
	Name() string
	Value() string
	Package() string

	// Attributes returns the board attributes
	Attributes() map[string]string

	// SchematicAttributes returns the schematic attributes
	SchematicAttributes() map[string]string

	SetAttribute(name, value string)
	RemoveAttribute(name string)
	SetValue(value string)
}
