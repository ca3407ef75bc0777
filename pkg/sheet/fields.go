package sheet

// Column names, as they appear in the header row
const (
	FieldNotes        = "Notes"
	FieldQty          = "Qty"
	FieldPackage      = "Package"
	FieldDescription  = "Description"
	FieldManufacturer = "Manufacturer"
	FieldPart         = "Part"
	FieldDesignators  = "Designators"
	FieldSupplier     = "Supplier"
	FieldSupplierPart = "Supplier part"
	FieldVariantRule  = "Variant rule"
	FieldOtherNotes   = "Other notes"
	FieldAlternatives = "Alternatives"
	FieldStatus       = "Status"
	FieldEagleValue   = "Eagle value"
	FieldEaglePackage = "Eagle package"
)

// NoteDNP is the only value the Notes column understands
const NoteDNP = "DNP"

// RequiredFields must be present in every table read
var RequiredFields = []string{
	FieldNotes,
	FieldQty,
	FieldPackage,
	FieldDescription,
	FieldManufacturer,
	FieldPart,
	FieldDesignators,
	FieldSupplier,
	FieldSupplierPart,
	FieldOtherNotes,
}

// Header returns the columns written for an output. The rule column only
// exists in master output.
func Header(master, eagleValue bool) []string {
	header := []string{
		FieldNotes,
		FieldQty,
		FieldPackage,
		FieldDescription,
		FieldManufacturer,
		FieldPart,
		FieldDesignators,
		FieldSupplier,
		FieldSupplierPart,
	}
	if master {
		header = append(header, FieldVariantRule)
	}
	header = append(header, FieldOtherNotes, FieldAlternatives, FieldStatus)
	if eagleValue {
		header = append(header, FieldEagleValue, FieldEaglePackage)
	}
	return header
}

// Column widths used by styled sinks, in characters
var columnWidths = map[string]float64{
	FieldNotes:        7,
	FieldQty:          3,
	FieldPackage:      11,
	FieldDescription:  32,
	FieldManufacturer: 20,
	FieldPart:         28,
	FieldDesignators:  28,
	FieldSupplier:     13,
	FieldSupplierPart: 35,
	FieldVariantRule:  20,
	FieldOtherNotes:   48,
	FieldAlternatives: 28,
	FieldStatus:       13,
	FieldEagleValue:   16,
	FieldEaglePackage: 16,
}
