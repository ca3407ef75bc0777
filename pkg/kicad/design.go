// Package kicad exposes a KiCad schematic and board pair as a design
// attribute store. BOM data lives in symbol and footprint properties.
package kicad

import (
	"bytes"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceBOM/internal/fsutil"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/design"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/kicad/schematic"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/logging"
)

// Design is a .kicad_sch/.kicad_pcb pair held in memory
type Design struct {
	SchPath string
	PCBPath string

	sch   *schematic.Schematic
	board *pcb.Board

	symbols    map[string][]*schematic.Symbol
	footprints map[string]*pcb.Footprint
}

var _ design.Design = (*Design)(nil)

// Open parses both files
func Open(schPath, pcbPath string) (*Design, error) {
	sch, err := schematic.ParseFile(schPath)
	if err != nil {
		return nil, &bom.SchemaError{Source: schPath, Message: err.Error()}
	}
	board, err := pcb.ParseFile(pcbPath)
	if err != nil {
		return nil, &bom.SchemaError{Source: pcbPath, Message: err.Error()}
	}

	d := &Design{
		SchPath:    schPath,
		PCBPath:    pcbPath,
		sch:        sch,
		board:      board,
		symbols:    sch.References(),
		footprints: board.References(),
	}
	logging.Get("kicad").Debug().
		Int("symbols", len(d.symbols)).
		Int("footprints", len(d.footprints)).
		Msg("loaded design")
	return d, nil
}

// Designators implements design.Design
func (d *Design) Designators() []string {
	return d.board.Designators()
}

// Lookup implements design.Design
func (d *Design) Lookup(desig string) (design.Element, error) {
	units, inSch := d.symbols[desig]
	fp, inBrd := d.footprints[desig]
	switch {
	case inSch && inBrd:
		return &Element{d: d, units: units, fp: fp}, nil
	case inBrd:
		return nil, &bom.ConsistencyError{Designator: desig, Message: "in board but not in schematic"}
	case inSch:
		return nil, &bom.ConsistencyError{Designator: desig, Message: "in schematic but not in board"}
	}
	return nil, &bom.ConsistencyError{Designator: desig, Message: "not in design"}
}

// Save implements design.Design
func (d *Design) Save() error {
	var sch, brd bytes.Buffer
	if err := d.sch.Write(&sch); err != nil {
		return fmt.Errorf("kicad: serialize %s: %w", d.SchPath, err)
	}
	if err := d.board.Write(&brd); err != nil {
		return fmt.Errorf("kicad: serialize %s: %w", d.PCBPath, err)
	}
	return fsutil.WriteFiles(
		fsutil.File{Path: d.SchPath, Data: sch.Bytes()},
		fsutil.File{Path: d.PCBPath, Data: brd.Bytes()},
	)
}

// Element is every unit of a schematic symbol plus its footprint
type Element struct {
	d     *Design
	units []*schematic.Symbol
	fp    *pcb.Footprint
}

var _ design.Element = (*Element)(nil)

func (e *Element) Name() string    { return e.fp.Reference }
func (e *Element) Value() string   { return e.fp.Value }
func (e *Element) Package() string { return e.fp.Name }

// Attributes returns the footprint properties
func (e *Element) Attributes() map[string]string {
	return e.fp.Properties()
}

// SchematicAttributes returns the properties of the first unit
func (e *Element) SchematicAttributes() map[string]string {
	return e.units[0].Properties()
}

// SetAttribute writes a property to every unit and to the footprint
func (e *Element) SetAttribute(name, value string) {
	for _, u := range e.units {
		u.SetProperty(name, value, e.d.sch.Version)
	}
	e.fp.SetProperty(name, value, e.d.board.Version)
}

// RemoveAttribute deletes a property from every unit and the footprint
func (e *Element) RemoveAttribute(name string) {
	for _, u := range e.units {
		u.RemoveProperty(name)
	}
	e.fp.RemoveProperty(name)
}

// SetValue changes the Value field in both files
func (e *Element) SetValue(value string) {
	for _, u := range e.units {
		u.SetProperty("Value", value, e.d.sch.Version)
	}
	e.fp.SetValue(value)
}
