package variant

import (
	"errors"
	"fmt"
)

// ErrRuleSyntax matches every RuleSyntaxError via errors.Is
var ErrRuleSyntax = errors.New("variant rule syntax error")

// RuleSyntaxError reports a clause that is not part of the rule language
type RuleSyntaxError struct {
	Rule   string // full rule text as found in the source
	Clause string // offending clause
	Err    error
}

// Error implements the error interface
func (e *RuleSyntaxError) Error() string {
	if e.Clause == e.Rule {
		return fmt.Sprintf("can't parse variant rule %q: %v", e.Rule, e.Err)
	}
	return fmt.Sprintf("can't parse clause %q of variant rule %q: %v", e.Clause, e.Rule, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *RuleSyntaxError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *RuleSyntaxError) Is(target error) bool {
	return target == ErrRuleSyntax
}
