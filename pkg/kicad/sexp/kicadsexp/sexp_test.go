package kicadsexp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeepsStringsApart(t *testing.T) {
	exprs, err := ParseString(`(property "Reference" R1 "" "say \"hi\"\\n")`)
	require.NoError(t, err)
	require.Len(t, exprs, 1)

	list := exprs[0].(*List)
	assert.Equal(t, "property", list.Name())
	assert.Equal(t, String("Reference"), list.Get(1))
	assert.Equal(t, Symbol("R1"), list.Get(2))
	assert.Equal(t, String(""), list.Get(3))
	assert.Equal(t, String(`say "hi"\n`), list.Get(4))
	assert.Nil(t, list.Get(5))
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{"(a (b)", ")", `(a "open`} {
		_, err := ParseString(input)
		assert.Error(t, err, input)
	}
}

func TestParseReportsLine(t *testing.T) {
	_, err := ParseString("(a\n(b\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestFindAndEdit(t *testing.T) {
	exprs, err := ParseString(`(symbol (lib_id "Device:R") (property "Reference" "R1") (property "Value" "10k"))`)
	require.NoError(t, err)
	sym := exprs[0].(*List)

	props := sym.FindAll("property")
	require.Len(t, props, 2)
	lib, ok := sym.Find("lib_id")
	require.True(t, ok)
	text, _ := Text(lib.Get(1))
	assert.Equal(t, "Device:R", text)

	props[1].Set(2, String("1k"))
	sym.Insert(2, NewList("property", String("BOM0_PART"), String("X")))
	assert.True(t, sym.Remove(props[0]))
	assert.False(t, sym.Remove(props[0]))

	assert.Equal(t, `(symbol (lib_id "Device:R") (property "BOM0_PART" "X") (property "Value" "1k"))`, sym.String())
}

func TestWriteRoundTrip(t *testing.T) {
	input := "(kicad_sch\n\t(version 20231120)\n\t(symbol\n\t\t(lib_id \"Device:R\")\n\t\t(property \"Reference\" \"R1\"\n\t\t\t(at 1 2 0)\n\t\t)\n\t)\n)\n"
	exprs, err := ParseString(input)
	require.NoError(t, err)
	assert.Equal(t, input, Format(exprs[0]))

	again, err := ParseString(Format(exprs[0]))
	require.NoError(t, err)
	assert.Equal(t, exprs[0].String(), again[0].String())
}
