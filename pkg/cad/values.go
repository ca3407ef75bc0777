package cad

import (
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/design"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/diag"
	"github.com/OpenTraceLab/OpenTraceBOM/pkg/logging"
)

// SetValuesFromMPN copies each element's MPN into its value, or
// DoNotPopulate for unpopulated parts, and saves the design. Some assembly
// houses match parts by value instead of by attribute. Elements without
// MPN fall back to BOM_PART and BOM_NOTES; elements with neither are left
// alone and reported.
func SetValuesFromMPN(d design.Design, rep *diag.Report) error {
	var missing []string
	changed := 0
	for _, desig := range d.Designators() {
		el, err := d.Lookup(desig)
		if err != nil {
			return err
		}
		attrs := el.Attributes()

		mpn, ok := attrs[AttrMPN]
		dnp := attrs[AttrPopulate] == "0"
		if !ok {
			mpn, ok = attrs[LegacyPart]
			dnp = strings.Contains(attrs[LegacyNotes], "DNP")
		}
		if !ok {
			if !strings.Contains(desig, "$") {
				missing = append(missing, desig)
			}
			continue
		}

		if dnp || mpn == "" {
			mpn = DoNotPopulate
		}
		el.SetValue(mpn)
		changed++
	}
	if len(missing) > 0 {
		rep.Warn(diag.KindMissingFabData, missing, "no MPN or BOM_PART, value left unchanged")
	}

	if err := d.Save(); err != nil {
		return err
	}
	logging.Get("cad").Info().Int("elements", changed).Msg("set values from MPN")
	return nil
}

// StripValues clears the value of every element and saves the design
func StripValues(d design.Design) error {
	desigs := d.Designators()
	for _, desig := range desigs {
		el, err := d.Lookup(desig)
		if err != nil {
			return err
		}
		el.SetValue("")
	}
	if err := d.Save(); err != nil {
		return err
	}
	logging.Get("cad").Info().Int("elements", len(desigs)).Msg("stripped values")
	return nil
}
