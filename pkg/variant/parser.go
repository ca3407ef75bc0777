package variant

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Flags is the outcome of evaluating a rule for one build
type Flags struct {
	DNP     bool // part is listed but not assembled
	Exclude bool // line item is dropped from the output entirely
}

// Rule is a compiled rule string, ready to be evaluated against any number of
// selections.
type Rule struct {
	Text    string
	Clauses []*Clause
}

// Individual clauses can be separated by comma or semicolon
var clauseSeparator = regexp.MustCompile(`\s*[;,]\s*`)

var clauseParser = participle.MustBuild[Clause](
	participle.Lexer(RuleLexer),
	participle.Elide("Whitespace"),
)

// Compile parses a rule string. An empty rule compiles to a rule without
// clauses, which never sets any flag.
func Compile(text string) (*Rule, error) {
	rule := &Rule{Text: text}
	for _, src := range clauseSeparator.Split(text, -1) {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		clause, err := clauseParser.ParseString("", src)
		if err != nil {
			return nil, &RuleSyntaxError{Rule: text, Clause: src, Err: err}
		}
		if clause.Func == "only" && clause.Arg == nil {
			return nil, &RuleSyntaxError{
				Rule:   text,
				Clause: src,
				Err:    fmt.Errorf("only() needs an expression"),
			}
		}
		rule.Clauses = append(rule.Clauses, clause)
	}
	return rule, nil
}

// Eval returns the flags set by the rule for the given selection.
// A nil selection behaves like the base build (nothing active).
func (r *Rule) Eval(sel *Selection) Flags {
	var flags Flags
	for _, c := range r.Clauses {
		c.Apply(sel, &flags)
	}
	return flags
}

// Evaluate compiles and evaluates a rule in one step
func Evaluate(text string, sel *Selection) (Flags, error) {
	rule, err := Compile(text)
	if err != nil {
		return Flags{}, err
	}
	return rule.Eval(sel), nil
}

// Validate reports whether a rule string parses, without evaluating it
func Validate(text string) error {
	_, err := Compile(text)
	return err
}
