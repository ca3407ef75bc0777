// Package variant implements the variant rule language used to select which
// BOM line applies to a given build.
//
// # Overview
//
// Every BOM variant carries a rule string made of one or more clauses
// separated by ";" or ",". Each clause is one of three calls:
//
//	dnp(expr)      mark the part DNP when expr is true
//	only(expr)     mark the part DNP unless expr is true
//	exclude(expr)  drop the line from the output when expr is true
//
// dnp() and exclude() without an argument always apply. An expression is
// built from variant names, the literals true/false, the operators and, or,
// not, and parentheses. A variant name evaluates to true when it is part of
// the active Selection; names nobody selected are simply false.
//
// # Usage
//
//	sel := variant.ParseSelection("cryo")
//	flags, err := variant.Evaluate("only(cryo or lab); exclude(not rev2)", sel)
//	if err != nil {
//		// err is a *variant.RuleSyntaxError
//	}
//	if flags.DNP {
//		// do not populate in this build
//	}
//
// Clauses never clear a flag: the result is the OR of all clauses.
//
// # Limitations
//
// The language is deliberately tiny. There are no string literals, numbers,
// comparisons or attribute lookups; anything outside the grammar is
// rejected with a RuleSyntaxError instead of being interpreted.
package variant
