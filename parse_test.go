// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

//********************************************************************************************

func TestParsePrefix(t *testing.T) {
	m, err := New(ObddPlain, 0)
	require.NoError(t, err)

	f, err := m.ParsePrefix("f = (and a b)")
	require.NoError(t, err)

	a, _ := m.VariableByName("a")
	b, _ := m.VariableByName("b")
	av, _ := m.Ithvar(a)
	bv, _ := m.Ithvar(b)
	expected, err := m.And(av, bv)
	require.NoError(t, err)
	require.Equal(t, expected, f)

	stored, ok := m.Formula("f")
	require.True(t, ok)
	require.Equal(t, f, stored)
}

//********************************************************************************************

func TestParseInfix(t *testing.T) {
	m, err := New(ObddPlain, 0)
	require.NoError(t, err)

	f, err := m.ParseInfix("a & ~b | c;")
	require.NoError(t, err)

	a, _ := m.VariableByName("a")
	b, _ := m.VariableByName("b")
	c, _ := m.VariableByName("c")
	av, _ := m.Ithvar(a)
	bv, _ := m.Ithvar(b)
	cv, _ := m.Ithvar(c)
	notB, err := m.Not(bv)
	require.NoError(t, err)
	and, err := m.And(av, notB)
	require.NoError(t, err)
	expected, err := m.Or(and, cv)
	require.NoError(t, err)
	require.Equal(t, expected, f)
}

//********************************************************************************************

func TestParseInfixImplication(t *testing.T) {
	m, err := New(ObddPlain, 0)
	require.NoError(t, err)

	f, err := m.ParseInfix("a => b;")
	require.NoError(t, err)
	a, _ := m.VariableByName("a")
	b, _ := m.VariableByName("b")
	av, _ := m.Ithvar(a)
	bv, _ := m.Ithvar(b)
	expected, err := m.Imp(av, bv)
	require.NoError(t, err)
	require.Equal(t, expected, f)
}

//********************************************************************************************

func TestParseBenchInputOutput(t *testing.T) {
	m, err := New(ObddPlain, 0)
	require.NoError(t, err)
	outputs, err := m.ParseBench("INPUT(a)\nINPUT(b)\nc = AND(a, b)\nOUTPUT(c)\n")
	require.NoError(t, err)
	require.Equal(t, []string{"c"}, outputs)

	a, _ := m.VariableByName("a")
	b, _ := m.VariableByName("b")
	av, _ := m.Ithvar(a)
	bv, _ := m.Ithvar(b)
	expected, err := m.And(av, bv)
	require.NoError(t, err)
	got, ok := m.Formula("c")
	require.True(t, ok)
	require.Equal(t, expected, got)
}

//********************************************************************************************

// TestVerilogRoundTrip is scenario 6: a module with 3 inputs and one nand
// gate, checked against the same function built directly through operators.
func TestVerilogRoundTrip(t *testing.T) {
	const src = `
module M(a, b, c, y);
input a, b, c;
output y;
nand(y, a, b);
endmodule
`
	m, err := New(ObddPlain, 0)
	require.NoError(t, err)
	result, err := m.ParseVerilog(src, "")
	require.NoError(t, err)
	require.Equal(t, []string{"y"}, result.Outputs)

	a, ok := m.VariableByName("a")
	require.True(t, ok)
	b, ok := m.VariableByName("b")
	require.True(t, ok)
	av, _ := m.Ithvar(a)
	bv, _ := m.Ithvar(b)
	and, err := m.And(av, bv)
	require.NoError(t, err)
	expected, err := m.Not(and)
	require.NoError(t, err)

	y, ok := m.Formula("y")
	require.True(t, ok)
	require.Equal(t, expected, y)
}
