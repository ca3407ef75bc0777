package variant

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// RuleLexer defines the tokens of a single rule clause.
// Anything that does not match one of these rules is a lexing error, which
// is how arithmetic, string literals and attribute access get rejected.
var RuleLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Operators are reserved words and can't be used as variant names
	{Name: "Keyword", Pattern: `\b(?:and|or|not)\b`},

	// Boolean literals
	{Name: "Bool", Pattern: `\b(?:true|false|True|False)\b`},

	// Variant names and function names
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},

	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
})
