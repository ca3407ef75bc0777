package cad

import (
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBOM/pkg/bom"
)

// Suffixes of the attributes in a BOM<n>_ group
const (
	FieldVariantRules = "VARIANT_RULES"
	FieldPackage      = "PACKAGE"
	FieldDescription  = "DESCRIPTION"
	FieldManufacturer = "MANUFACTURER"
	FieldPart         = "PART"
	FieldSupplier     = "SUPPLIER"
	FieldSupplierPart = "SUPPLIER_PART"
	FieldNotes        = "NOTES"
	FieldAlternatives = "ALTERNATIVES"
	FieldStatus       = "STATUS"
	FieldDNP          = "DNP"
)

// groupFields is the order attributes are written in
var groupFields = []string{
	FieldVariantRules,
	FieldPackage,
	FieldDescription,
	FieldManufacturer,
	FieldPart,
	FieldSupplier,
	FieldSupplierPart,
	FieldNotes,
	FieldAlternatives,
	FieldStatus,
	FieldDNP,
}

// Fabrication attributes, only written for a resolved build
const (
	AttrPopulate = "POPULATE"
	AttrMPN      = "MPN"
	AttrMF       = "MF"
	AttrVariants = "BOM_VARIANTS"
)

// Ungrouped attributes written by older tools. BOM_NOTES holds "DNP",
// BOM_OTHER_NOTES the free text.
const (
	legacyPrefix      = "BOM_"
	LegacyNotes       = legacyPrefix + "NOTES"
	LegacyOtherNotes  = legacyPrefix + "OTHER_NOTES"
	LegacyVariantRule = legacyPrefix + "VARIANT_RULE"
	LegacyPart        = legacyPrefix + "PART"
)

// DoNotPopulate is the value given to unpopulated elements by SetValuesFromMPN
const DoNotPopulate = "DO_NOT_POPULATE"

// DefaultSupplierMPN lists suppliers whose part number is used as MPN
var DefaultSupplierMPN = []string{"macrofab"}

// GroupAttr names the attribute for field in variant group index
func GroupAttr(index int, field string) string {
	return "BOM" + strconv.Itoa(index) + "_" + field
}

// parseGroupAttr splits "BOM3_PART" into 3 and "PART"
func parseGroupAttr(name string) (int, string, bool) {
	rest, ok := strings.CutPrefix(name, "BOM")
	if !ok {
		return 0, "", false
	}
	digits, field, ok := strings.Cut(rest, "_")
	if !ok || digits == "" || field == "" {
		return 0, "", false
	}
	index, err := strconv.Atoi(digits)
	if err != nil || index < 0 || strconv.Itoa(index) != digits {
		return 0, "", false
	}
	return index, field, true
}

func isFabAttr(name string) bool {
	switch name {
	case AttrPopulate, AttrMPN, AttrMF, AttrVariants:
		return true
	}
	return false
}

// isBOMAttr reports whether name carries BOM data that must match in both
// files
func isBOMAttr(name string) bool {
	if _, _, ok := parseGroupAttr(name); ok {
		return true
	}
	return strings.HasPrefix(name, legacyPrefix) || isFabAttr(name)
}

// isLegacyAttr reports whether name is an ungrouped BOM_ or fabrication
// attribute
func isLegacyAttr(name string) bool {
	if _, _, ok := parseGroupAttr(name); ok {
		return false
	}
	return strings.HasPrefix(name, legacyPrefix) || isFabAttr(name)
}

// groups collects the BOM<n>_ attributes by index
func groups(attrs map[string]string) map[int]map[string]string {
	out := make(map[int]map[string]string)
	for name, value := range attrs {
		index, field, ok := parseGroupAttr(name)
		if !ok {
			continue
		}
		if out[index] == nil {
			out[index] = make(map[string]string)
		}
		out[index][field] = value
	}
	return out
}

func encodeFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func decodeFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "yes", "true":
		return true
	}
	return false
}

// encodeGroup returns the attribute values of one variant, in groupFields
// order
func encodeGroup(v bom.Variant) []string {
	i := v.Info
	return []string{
		v.Rule,
		i.Package,
		i.Description,
		i.Manufacturer,
		i.Part,
		i.Supplier,
		i.SupplierPart,
		i.Notes,
		i.Alternatives,
		i.Status,
		encodeFlag(i.DNP),
	}
}

func decodeGroup(g map[string]string) bom.Variant {
	return bom.Variant{
		Rule: g[FieldVariantRules],
		Info: bom.Info{
			Package:      g[FieldPackage],
			Description:  g[FieldDescription],
			Manufacturer: g[FieldManufacturer],
			Part:         g[FieldPart],
			Supplier:     g[FieldSupplier],
			SupplierPart: g[FieldSupplierPart],
			Notes:        g[FieldNotes],
			Alternatives: g[FieldAlternatives],
			Status:       g[FieldStatus],
			DNP:          decodeFlag(g[FieldDNP]),
		},
	}
}

// decodeLegacy builds a variant from the ungrouped BOM_ attributes
func decodeLegacy(attrs map[string]string) bom.Variant {
	return bom.Variant{
		Rule: attrs[LegacyVariantRule],
		Info: bom.Info{
			Package:      attrs[legacyPrefix+FieldPackage],
			Description:  attrs[legacyPrefix+FieldDescription],
			Manufacturer: attrs[legacyPrefix+FieldManufacturer],
			Part:         attrs[LegacyPart],
			Supplier:     attrs[legacyPrefix+FieldSupplier],
			SupplierPart: attrs[legacyPrefix+FieldSupplierPart],
			Notes:        attrs[LegacyOtherNotes],
			Alternatives: attrs[legacyPrefix+FieldAlternatives],
			Status:       attrs[legacyPrefix+FieldStatus],
			DNP:          strings.TrimSpace(attrs[LegacyNotes]) == "DNP",
		},
	}
}
