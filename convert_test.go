// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

//********************************************************************************************

// TestCopyRoundTrip checks the cross-variant law: copy(copy(f, A->B), B->A)
// denotes the same function as f, for every assignment.
func TestCopyRoundTrip(t *testing.T) {
	a, err := New(ObddPlain, 3)
	require.NoError(t, err)
	x, _ := a.Ithvar(1)
	y, _ := a.Ithvar(2)
	z, _ := a.Ithvar(3)
	xy, err := a.And(x, y)
	require.NoError(t, err)
	f, err := a.Or(xy, z)
	require.NoError(t, err)

	b, err := New(ObddComplement, 0)
	require.NoError(t, err)
	fInB, err := Copy(b, a, f)
	require.NoError(t, err)

	a2, err := New(ObddPlain, 0)
	require.NoError(t, err)
	fBack, err := Copy(a2, b, fInB)
	require.NoError(t, err)

	require.Equal(t, a2.CountMinterms(fBack, 3), a.CountMinterms(f, 3))
	require.Equal(t, a2.CountNodesPlain(fBack), a.CountNodesPlain(f))
}

//********************************************************************************************

// TestConvertVariant checks Manager.Convert between an ordered and a
// zero-suppressed representation of the same variable set preserves the
// combination count of a cube.
func TestConvertVariant(t *testing.T) {
	m, err := New(ObddPlain, 2)
	require.NoError(t, err)
	a, _ := m.Ithvar(1)
	b, _ := m.Ithvar(2)
	f, err := m.And(a, b)
	require.NoError(t, err)

	target, converted, err := m.Convert(ZbddPlain, f)
	require.NoError(t, err)
	require.Equal(t, ZbddPlain, target.Variant())
	require.Zero(t, target.CountPaths(converted).Cmp(m.CountMinterms(f, 2)))
}
