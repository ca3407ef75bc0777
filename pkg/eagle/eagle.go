// Package eagle reads and edits the attributes of an Eagle schematic and
// board pair (.sch/.brd XML files).
package eagle

import (
	"fmt"
	"sort"

	"github.com/beevik/etree"
	"github.com/maruel/natural"

	"github.com/OpenTraceLab/OpenTraceBOM/internal/fsutil"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/design"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/logging"
)

// Element paths inside the two documents
const (
	boardPath     = "/eagle/drawing/board"
	schematicPath = "/eagle/drawing/schematic"
	elementsPath  = boardPath + "/elements/element"
	partsPath     = schematicPath + "/parts/part"
)

// Board attributes are created hidden on the tDocu layer, next to the part
const (
	attrSize    = "1"
	attrLayer   = "27"
	attrRot     = "R180"
	attrDisplay = "off"
)

// Design is an Eagle schematic/board pair held in memory
type Design struct {
	SchPath string
	BrdPath string

	sch *etree.Document
	brd *etree.Document

	parts    map[string]*etree.Element // schematic, by name
	elements map[string]*etree.Element // board, by name
	order    []string
}

var _ design.Design = (*Design)(nil)

// Open loads both files
func Open(schPath, brdPath string) (*Design, error) {
	sch := etree.NewDocument()
	if err := sch.ReadFromFile(schPath); err != nil {
		return nil, fmt.Errorf("eagle: read %s: %w", schPath, err)
	}
	brd := etree.NewDocument()
	if err := brd.ReadFromFile(brdPath); err != nil {
		return nil, fmt.Errorf("eagle: read %s: %w", brdPath, err)
	}
	return newDesign(schPath, brdPath, sch, brd)
}

func newDesign(schPath, brdPath string, sch, brd *etree.Document) (*Design, error) {
	if sch.FindElement(schematicPath) == nil {
		return nil, &bom.SchemaError{Source: schPath, Field: schematicPath, Message: "not an Eagle schematic, no drawing/schematic"}
	}
	if brd.FindElement(boardPath) == nil {
		return nil, &bom.SchemaError{Source: brdPath, Field: boardPath, Message: "not an Eagle board, no drawing/board"}
	}

	// Character references keep tabs and line breaks in attribute values
	// intact on the next read
	sch.WriteSettings.CanonicalAttrVal = true
	brd.WriteSettings.CanonicalAttrVal = true

	d := &Design{
		SchPath:  schPath,
		BrdPath:  brdPath,
		sch:      sch,
		brd:      brd,
		parts:    make(map[string]*etree.Element),
		elements: make(map[string]*etree.Element),
	}
	for _, part := range sch.FindElements(partsPath) {
		d.parts[part.SelectAttrValue("name", "")] = part
	}
	for _, elem := range brd.FindElements(elementsPath) {
		name := elem.SelectAttrValue("name", "")
		d.elements[name] = elem
		d.order = append(d.order, name)
	}
	sort.Sort(natural.StringSlice(d.order))

	logging.Get("eagle").Debug().
		Int("parts", len(d.parts)).
		Int("elements", len(d.elements)).
		Msg("loaded design")
	return d, nil
}

// Designators implements design.Design
func (d *Design) Designators() []string {
	return append([]string(nil), d.order...)
}

// Lookup implements design.Design
func (d *Design) Lookup(desig string) (design.Element, error) {
	part, inSch := d.parts[desig]
	elem, inBrd := d.elements[desig]
	switch {
	case inSch && inBrd:
		return &Element{part: part, elem: elem}, nil
	case inBrd:
		return nil, &bom.ConsistencyError{Designator: desig, Message: "in board but not in schematic"}
	case inSch:
		return nil, &bom.ConsistencyError{Designator: desig, Message: "in schematic but not in board"}
	}
	return nil, &bom.ConsistencyError{Designator: desig, Message: "not in design"}
}

// Save implements design.Design
func (d *Design) Save() error {
	sch, err := d.sch.WriteToBytes()
	if err != nil {
		return fmt.Errorf("eagle: serialize %s: %w", d.SchPath, err)
	}
	brd, err := d.brd.WriteToBytes()
	if err != nil {
		return fmt.Errorf("eagle: serialize %s: %w", d.BrdPath, err)
	}
	return fsutil.WriteFiles(
		fsutil.File{Path: d.SchPath, Data: sch},
		fsutil.File{Path: d.BrdPath, Data: brd},
	)
}

// Element is a schematic part and its board element
type Element struct {
	part *etree.Element
	elem *etree.Element
}

var _ design.Element = (*Element)(nil)

// Name is the designator
func (e *Element) Name() string {
	return e.elem.SelectAttrValue("name", "")
}

// Value is the board element's value
func (e *Element) Value() string {
	return e.elem.SelectAttrValue("value", "")
}

// Package is the board element's package name
func (e *Element) Package() string {
	return e.elem.SelectAttrValue("package", "")
}

// Attributes returns the board attributes
func (e *Element) Attributes() map[string]string {
	return attributes(e.elem)
}

// SchematicAttributes returns the schematic attributes
func (e *Element) SchematicAttributes() map[string]string {
	return attributes(e.part)
}

// SetAttribute writes an attribute to both the part and the element
func (e *Element) SetAttribute(name, value string) {
	setAttribute(e.part, name, value, false)
	setAttribute(e.elem, name, value, true)
}

// RemoveAttribute deletes an attribute from both the part and the element
func (e *Element) RemoveAttribute(name string) {
	removeAttribute(e.part, name)
	removeAttribute(e.elem, name)
}

// SetValue changes the value in both files
func (e *Element) SetValue(value string) {
	e.part.CreateAttr("value", value)
	e.elem.CreateAttr("value", value)
}

func attributes(el *etree.Element) map[string]string {
	attrs := make(map[string]string)
	for _, a := range el.SelectElements("attribute") {
		attrs[a.SelectAttrValue("name", "")] = a.SelectAttrValue("value", "")
	}
	return attrs
}

func findAttribute(el *etree.Element, name string) *etree.Element {
	for _, a := range el.SelectElements("attribute") {
		if a.SelectAttrValue("name", "") == name {
			return a
		}
	}
	return nil
}

func setAttribute(el *etree.Element, name, value string, board bool) {
	if a := findAttribute(el, name); a != nil {
		a.CreateAttr("value", value)
		return
	}

	a := etree.NewElement("attribute")
	a.CreateAttr("name", name)
	a.CreateAttr("value", value)
	if board {
		a.CreateAttr("x", el.SelectAttrValue("x", "0"))
		a.CreateAttr("y", el.SelectAttrValue("y", "0"))
		a.CreateAttr("size", attrSize)
		a.CreateAttr("layer", attrLayer)
		a.CreateAttr("rot", attrRot)
		a.CreateAttr("display", attrDisplay)
	}

	// The DTD wants attributes before any variant overrides
	if v := el.SelectElement("variant"); v != nil {
		el.InsertChildAt(v.Index(), a)
		return
	}
	el.AddChild(a)
}

func removeAttribute(el *etree.Element, name string) {
	for a := findAttribute(el, name); a != nil; a = findAttribute(el, name) {
		el.RemoveChild(a)
	}
}
