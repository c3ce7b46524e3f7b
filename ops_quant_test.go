// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

//********************************************************************************************

// TestSupportDistinctNodesSameVariable checks that Support walks every node
// reachable from f, not just the first one seen per variable: a regression
// for a per-variable visited set, which would prune the second of two
// distinct b-labeled nodes here and drop whichever of c/d sits only beneath
// it from the result.
func TestSupportDistinctNodesSameVariable(t *testing.T) {
	m, err := New(ObddPlain, 4)
	require.NoError(t, err)

	a, err := m.Ithvar(1)
	require.NoError(t, err)
	b, err := m.Ithvar(2)
	require.NoError(t, err)
	c, err := m.Ithvar(3)
	require.NoError(t, err)
	d, err := m.Ithvar(4)
	require.NoError(t, err)

	thenBranch, err := m.Ite(b, c, m.False())
	require.NoError(t, err)
	elseBranch, err := m.Ite(b, d, m.False())
	require.NoError(t, err)
	f, err := m.Ite(a, thenBranch, elseBranch)
	require.NoError(t, err)

	support, err := m.Support(f)
	require.NoError(t, err)

	expected, err := m.Cube([]int{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, expected, support)
}
