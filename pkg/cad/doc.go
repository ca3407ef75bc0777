// Package cad moves BOM data in and out of CAD designs.
//
// Every variant of a designator is stored as a group of attributes named
// BOM<n>_<FIELD> on both the schematic part and the board element, with n
// counting from zero. A resolved build also gets the fabrication attributes
// POPULATE, MPN, MF and BOM_VARIANTS. Designs written by older tools carry
// ungrouped BOM_<FIELD> attributes instead, which are read as a single
// variant.
package cad
