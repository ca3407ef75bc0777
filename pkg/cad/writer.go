package cad

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/design"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/logging"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/variant"
)

// Writer injects a BOM into the attributes of a design
type Writer struct {
	Design design.Design

	// SupplierMPN lists suppliers (case insensitive) whose part number is
	// used for MPN instead of the manufacturer's. Nil means
	// DefaultSupplierMPN.
	SupplierMPN []string
}

// NewWriter opens a schematic/board pair for writing
func NewWriter(sch, brd string, supplierMPN []string) (*Writer, error) {
	d, err := OpenDesign(sch, brd)
	if err != nil {
		return nil, err
	}
	return &Writer{Design: d, SupplierMPN: supplierMPN}, nil
}

// Write implements bom.Writer. Nothing is saved unless every step succeeds:
// all rules must parse, every BOM designator must exist in both files and,
// for a resolved build, exactly one variant must be left per designator.
func (w *Writer) Write(b *bom.BOM, sel *variant.Selection, rep *diag.Report) error {
	desigs := b.Designators()
	for _, desig := range desigs {
		p, _ := b.Part(desig)
		for _, v := range p.Variants {
			if err := variant.Validate(v.Rule); err != nil {
				return fmt.Errorf("cad: designator %s: %w", desig, err)
			}
		}
		if sel != nil && len(p.Variants) != 1 {
			return &bom.ConsistencyError{
				Designator: desig,
				Message:    fmt.Sprintf("%d variants left for build %q, expected exactly one", len(p.Variants), sel.String()),
			}
		}
	}

	elements := make(map[string]design.Element, len(desigs))
	for _, desig := range desigs {
		el, err := w.Design.Lookup(desig)
		if err != nil {
			return err
		}
		elements[desig] = el
	}

	var unused []string
	for _, desig := range w.Design.Designators() {
		el, err := w.Design.Lookup(desig)
		if err != nil {
			return err
		}
		strip(el)
		if _, ok := elements[desig]; !ok && !strings.Contains(desig, "$") {
			unused = append(unused, desig)
		}
	}

	for _, desig := range desigs {
		p, _ := b.Part(desig)
		el := elements[desig]
		for i, v := range p.Variants {
			for j, value := range encodeGroup(v) {
				el.SetAttribute(GroupAttr(i, groupFields[j]), value)
			}
		}
		if sel != nil {
			w.setFabAttributes(el, p.Variants[0].Info, sel)
		}
	}

	if len(unused) > 0 {
		rep.Warn(diag.KindMissingData, unused, "no BOM data for design elements")
	}

	if err := w.Design.Save(); err != nil {
		return err
	}

	logger := logging.Get("cad")
	if sel == nil {
		logger.Info().Int("designators", len(desigs)).Msg("injected master BOM into design")
	} else {
		logger.Info().Int("designators", len(desigs)).Strs("variants", sel.Names()).Msg("injected BOM into design")
	}
	return nil
}

func (w *Writer) setFabAttributes(el design.Element, info bom.Info, sel *variant.Selection) {
	mpn := info.Part
	if w.useSupplierPart(info.Supplier) && info.SupplierPart != "" {
		mpn = info.SupplierPart
	}
	el.SetAttribute(AttrPopulate, encodeFlag(!info.DNP))
	el.SetAttribute(AttrMPN, mpn)
	el.SetAttribute(AttrMF, info.Manufacturer)
	el.SetAttribute(AttrVariants, sel.String())
}

func (w *Writer) useSupplierPart(supplier string) bool {
	suppliers := w.SupplierMPN
	if suppliers == nil {
		suppliers = DefaultSupplierMPN
	}
	for _, s := range suppliers {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(supplier)) {
			return true
		}
	}
	return false
}

// strip removes every group and fabrication attribute from both files
func strip(el design.Element) {
	names := make(map[string]bool)
	for name := range el.Attributes() {
		names[name] = true
	}
	for name := range el.SchematicAttributes() {
		names[name] = true
	}
	for name := range names {
		if _, _, ok := parseGroupAttr(name); ok || isFabAttr(name) {
			el.RemoveAttribute(name)
		}
	}
}
