package bom

import (
	"cmp"
)

// Info is the BOM data for one designator in one variant. It is the
// information that ends up in files sent to a manufacturer.
//
// Info is a plain value: copying it copies everything, and == compares every
// field.
type Info struct {
	Package      string
	Description  string
	Manufacturer string
	Part         string
	Supplier     string
	SupplierPart string
	Notes        string // "Other notes" column
	Alternatives string
	Status       string
	DNP          bool // "Notes" column holds "DNP"

	// Only filled when read from CAD files
	EagleValue   string
	EaglePackage string
}

// Compare orders two Info values field by field, in declaration order.
// It returns -1, 0 or +1.
func (i Info) Compare(o Info) int {
	if c := cmp.Compare(i.Package, o.Package); c != 0 {
		return c
	}
	if c := cmp.Compare(i.Description, o.Description); c != 0 {
		return c
	}
	if c := cmp.Compare(i.Manufacturer, o.Manufacturer); c != 0 {
		return c
	}
	if c := cmp.Compare(i.Part, o.Part); c != 0 {
		return c
	}
	if c := cmp.Compare(i.Supplier, o.Supplier); c != 0 {
		return c
	}
	if c := cmp.Compare(i.SupplierPart, o.SupplierPart); c != 0 {
		return c
	}
	if c := cmp.Compare(i.Notes, o.Notes); c != 0 {
		return c
	}
	if c := cmp.Compare(i.Alternatives, o.Alternatives); c != 0 {
		return c
	}
	if c := cmp.Compare(i.Status, o.Status); c != 0 {
		return c
	}
	if i.DNP != o.DNP {
		if !i.DNP {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(i.EagleValue, o.EagleValue); c != 0 {
		return c
	}
	return cmp.Compare(i.EaglePackage, o.EaglePackage)
}

// WithoutCAD returns a copy with the CAD-only fields cleared
func (i Info) WithoutCAD() Info {
	i.EagleValue = ""
	i.EaglePackage = ""
	return i
}

// Quantity is the number of parts to buy for count designators sharing this
// info: zero for DNP parts.
func Quantity(info Info, count int) int {
	if info.DNP {
		return 0
	}
	return count
}
