// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

//********************************************************************************************

// TestZbddChangeRoundTrip is scenario 3: build the singleton set {{a}} in a
// ZBDD, toggle membership of a twice, and check both the round trip and the
// combination count.
func TestZbddChangeRoundTrip(t *testing.T) {
	m, err := New(ZbddPlain, 1)
	require.NoError(t, err)

	a, err := m.Ithvar(1)
	require.NoError(t, err)
	require.Zero(t, m.CountPaths(a).Cmp(big.NewInt(1)))

	emptySet, err := m.Change(a, 1)
	require.NoError(t, err)
	require.Equal(t, m.True(), emptySet)
	require.Zero(t, m.CountPaths(emptySet).Cmp(big.NewInt(1)))

	back, err := m.Change(emptySet, 1)
	require.NoError(t, err)
	require.Equal(t, a, back)
	require.Zero(t, m.CountPaths(back).Cmp(big.NewInt(1)))
}

//********************************************************************************************

func TestUnionIntersectSetDiff(t *testing.T) {
	m, err := New(ZbddPlain, 2)
	require.NoError(t, err)
	a, _ := m.Ithvar(1)
	b, _ := m.Ithvar(2)

	union, err := m.Union(a, b)
	require.NoError(t, err)
	require.Zero(t, m.CountPaths(union).Cmp(big.NewInt(2)))

	inter, err := m.Intersect(a, b)
	require.NoError(t, err)
	require.Equal(t, m.False(), inter)

	diff, err := m.SetDiff(union, b)
	require.NoError(t, err)
	require.Equal(t, a, diff)
}

//********************************************************************************************

// TestUnionIntersectWithOne checks that the "one" terminal is treated as an
// ordinary set member ({{}}) by Union/Intersect, not as a Boolean true: a
// regression for zsetop delegating to Apply's Boolean terminalShortcut,
// which would have returned m.True() here instead of {{},{a}}, and a:={{a}}
// for Intersect instead of the empty set.
func TestUnionIntersectWithOne(t *testing.T) {
	m, err := New(ZbddPlain, 1)
	require.NoError(t, err)
	a, _ := m.Ithvar(1)

	union, err := m.Union(m.True(), a)
	require.NoError(t, err)
	require.Zero(t, m.CountPaths(union).Cmp(big.NewInt(2)))

	inter, err := m.Intersect(m.True(), a)
	require.NoError(t, err)
	require.Equal(t, m.False(), inter)
}

//********************************************************************************************

// TestSubset1NonTopVariable checks Subset1 against a variable that is not the
// top of the diagram, where some paths never reach it: those paths must
// contribute nothing, a regression for restrict's don't-care reading of an
// absent variable leaking into Subset1.
func TestSubset1NonTopVariable(t *testing.T) {
	m, err := New(ZbddPlain, 2)
	require.NoError(t, err)
	a, _ := m.Ithvar(1)
	b, _ := m.Ithvar(2)
	ab, err := m.Union(a, b)
	require.NoError(t, err)

	s1, err := m.Subset1(ab, 2)
	require.NoError(t, err)
	require.Equal(t, m.True(), s1)
	require.Zero(t, m.CountPaths(s1).Cmp(big.NewInt(1)))

	s0, err := m.Subset0(ab, 2)
	require.NoError(t, err)
	total := m.CountPaths(s0).Int64() + m.CountPaths(s1).Int64()
	require.EqualValues(t, m.CountPaths(ab).Int64(), total)
}

//********************************************************************************************

func TestSubset0Subset1(t *testing.T) {
	m, err := New(ZbddPlain, 2)
	require.NoError(t, err)
	a, _ := m.Ithvar(1)
	b, _ := m.Ithvar(2)
	ab, err := m.Union(a, b)
	require.NoError(t, err)

	s0, err := m.Subset0(ab, 1)
	require.NoError(t, err)
	require.Equal(t, b, s0)

	s1, err := m.Subset1(ab, 1)
	require.NoError(t, err)
	require.Equal(t, m.True(), s1)
}
