package variant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateOnly(t *testing.T) {
	flags, err := Evaluate("only(cryo)", NewSelection())
	require.NoError(t, err)
	assert.Equal(t, Flags{DNP: true, Exclude: false}, flags)

	flags, err = Evaluate("only(cryo)", NewSelection("cryo"))
	require.NoError(t, err)
	assert.Equal(t, Flags{DNP: false, Exclude: false}, flags)
}

func TestEvaluateExclude(t *testing.T) {
	flags, err := Evaluate("exclude(not cryo)", NewSelection("cryo"))
	require.NoError(t, err)
	assert.False(t, flags.Exclude)

	flags, err = Evaluate("exclude(not cryo)", NewSelection())
	require.NoError(t, err)
	assert.True(t, flags.Exclude)
	assert.False(t, flags.DNP)
}

func TestEvaluateEmptyRule(t *testing.T) {
	for _, rule := range []string{"", "   ", ";", " , ; "} {
		flags, err := Evaluate(rule, NewSelection("cryo"))
		require.NoError(t, err, "rule %q", rule)
		assert.Equal(t, Flags{}, flags, "rule %q", rule)
	}
}

func TestEvaluateDNP(t *testing.T) {
	flags, err := Evaluate("dnp(lab)", NewSelection("lab"))
	require.NoError(t, err)
	assert.True(t, flags.DNP)

	flags, err = Evaluate("dnp(lab)", NewSelection("field"))
	require.NoError(t, err)
	assert.False(t, flags.DNP)

	// No argument means always
	flags, err = Evaluate("dnp()", nil)
	require.NoError(t, err)
	assert.True(t, flags.DNP)

	flags, err = Evaluate("exclude()", nil)
	require.NoError(t, err)
	assert.True(t, flags.Exclude)
}

func TestEvaluateOperators(t *testing.T) {
	tests := []struct {
		rule   string
		active []string
		dnp    bool
	}{
		{"dnp(a and b)", []string{"a"}, false},
		{"dnp(a and b)", []string{"a", "b"}, true},
		{"dnp(a or b)", []string{"b"}, true},
		{"dnp(not a)", nil, true},
		{"dnp(not not a)", []string{"a"}, true},
		{"dnp(a or b and c)", []string{"a"}, true},
		{"dnp(a or b and c)", []string{"b"}, false},
		{"dnp((a or b) and c)", []string{"b", "c"}, true},
		{"dnp(not (a or b))", []string{"b"}, false},
		{"dnp(true)", nil, true},
		{"dnp(False)", nil, false},
		{"dnp(android)", []string{"android"}, true},
		{"dnp( a  and\tb )", []string{"a", "b"}, true},
	}

	for _, tt := range tests {
		flags, err := Evaluate(tt.rule, NewSelection(tt.active...))
		require.NoError(t, err, "rule %q", tt.rule)
		assert.Equal(t, tt.dnp, flags.DNP, "rule %q with %v", tt.rule, tt.active)
	}
}

func TestEvaluateClausesAccumulate(t *testing.T) {
	flags, err := Evaluate("dnp(cryo); exclude(lab)", NewSelection("cryo", "lab"))
	require.NoError(t, err)
	assert.Equal(t, Flags{DNP: true, Exclude: true}, flags)

	// A later clause can't clear a flag set by an earlier one
	flags, err = Evaluate("dnp(cryo), only(cryo)", NewSelection("cryo"))
	require.NoError(t, err)
	assert.True(t, flags.DNP)
}

func TestEvaluateUnknownNamesAreFalse(t *testing.T) {
	flags, err := Evaluate("only(nobody_selected_this)", NewSelection("cryo"))
	require.NoError(t, err)
	assert.True(t, flags.DNP)
}

func TestCompileRejectsUnsupportedSyntax(t *testing.T) {
	bad := []string{
		"dnp(foo and)",
		"dnp(foo",
		"dnp foo",
		"print(foo)",
		"__import__(os)",
		"dnp(1 + 2)",
		`dnp("cryo")`,
		"dnp(os.system)",
		"dnp(foo) bar",
		"only()",
		"dnp(and)",
		"dnp(foo == bar)",
	}

	for _, rule := range bad {
		_, err := Compile(rule)
		require.Error(t, err, "rule %q", rule)

		var syntaxErr *RuleSyntaxError
		require.True(t, errors.As(err, &syntaxErr), "rule %q", rule)
		assert.Equal(t, rule, syntaxErr.Rule)
		assert.True(t, errors.Is(err, ErrRuleSyntax))
	}
}

func TestRuleSyntaxErrorNamesClause(t *testing.T) {
	_, err := Compile("only(cryo); dnp(foo and)")
	require.Error(t, err)

	var syntaxErr *RuleSyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, "dnp(foo and)", syntaxErr.Clause)
	assert.Equal(t, "only(cryo); dnp(foo and)", syntaxErr.Rule)
	assert.Contains(t, err.Error(), "dnp(foo and)")
}

func TestCompiledRuleIsReusable(t *testing.T) {
	rule, err := Compile("only(cryo)")
	require.NoError(t, err)
	require.Len(t, rule.Clauses, 1)

	assert.True(t, rule.Eval(NewSelection()).DNP)
	assert.False(t, rule.Eval(NewSelection("cryo")).DNP)
	assert.True(t, rule.Eval(nil).DNP)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("only(cryo); exclude(not lab)"))
	assert.Error(t, Validate("dnp(foo and)"))
}

func TestRuleNames(t *testing.T) {
	rule, err := Compile("only(cryo or (lab and not rev2)); exclude(not cryo); dnp()")
	require.NoError(t, err)
	assert.Equal(t, []string{"cryo", "lab", "rev2"}, rule.Names())

	empty, err := Compile("")
	require.NoError(t, err)
	assert.Empty(t, empty.Names())
}
