// Package bom holds the bill-of-materials model shared by every reader and
// writer: Info records, Parts with their variants, and the BOM aggregate
// that resolves a variant selection before handing data to a writer.
//
// Data flows in one direction:
//
//	Reader -> []*Part -> BOM.Append -> BOM.Write(selection) -> Writer
//
// A nil selection writes the master BOM with every variant and rule kept.
// Any other selection, including the empty base selection, evaluates the
// rules and hands the writer a new, resolved BOM. The BOM a caller holds is
// never changed by Write.
package bom
