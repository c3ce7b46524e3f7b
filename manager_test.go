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

// TestTwoVariableTruthTable is scenario 1: build f = or(a, b) in
// OBDD-complement with order [a, b] and check node count, minterm count and
// both restrictions.
func TestTwoVariableTruthTable(t *testing.T) {
	m, err := New(ObddComplement, 2)
	require.NoError(t, err)

	a, err := m.Ithvar(1)
	require.NoError(t, err)
	b, err := m.Ithvar(2)
	require.NoError(t, err)

	f, err := m.Or(a, b)
	require.NoError(t, err)

	require.Equal(t, 3, m.CountNodesPlain(f))
	require.Zero(t, m.CountMinterms(f, 2).Cmp(big.NewInt(3)))

	restrictA1, err := m.Restrict(f, 1, true)
	require.NoError(t, err)
	require.Equal(t, m.True(), restrictA1)

	restrictA0, err := m.Restrict(f, 1, false)
	require.NoError(t, err)
	require.Equal(t, b, restrictA0)
}

//********************************************************************************************

// TestQuantificationLaws is scenario 4: exist/forall over a single variable.
func TestQuantificationLaws(t *testing.T) {
	m, err := New(ObddPlain, 2)
	require.NoError(t, err)

	a, err := m.Ithvar(1)
	require.NoError(t, err)
	b, err := m.Ithvar(2)
	require.NoError(t, err)
	cube, err := m.Cube([]int{2})
	require.NoError(t, err)

	conj, err := m.And(a, b)
	require.NoError(t, err)
	exists, err := m.Exist(conj, cube)
	require.NoError(t, err)
	require.Equal(t, a, exists)

	disj, err := m.Or(a, b)
	require.NoError(t, err)
	forall, err := m.Forall(disj, cube)
	require.NoError(t, err)
	require.Equal(t, a, forall)
}

//********************************************************************************************

func TestBooleanLaws(t *testing.T) {
	m, err := New(ObddComplement, 3)
	require.NoError(t, err)

	a, _ := m.Ithvar(1)
	b, _ := m.Ithvar(2)

	notNotA, err := m.Not(mustNot(t, m, a))
	require.NoError(t, err)
	require.Equal(t, a, notNotA)

	notA := mustNot(t, m, a)
	notB := mustNot(t, m, b)
	orNotAB, err := m.Or(notA, notB)
	require.NoError(t, err)
	demorgan, err := m.Not(orNotAB)
	require.NoError(t, err)
	and, err := m.And(a, b)
	require.NoError(t, err)
	require.Equal(t, and, demorgan)

	notB2 := mustNot(t, m, b)
	iteXor, err := m.Ite(a, notB2, b)
	require.NoError(t, err)
	xor, err := m.Xor(a, b)
	require.NoError(t, err)
	require.Equal(t, xor, iteXor)

	gt, err := m.Gt(a, b)
	require.NoError(t, err)
	notGt, err := m.Not(gt)
	require.NoError(t, err)
	leq, err := m.Leq(a, b)
	require.NoError(t, err)
	require.Equal(t, leq, notGt)
}

//********************************************************************************************

func TestCountMintermsSubsetLaw(t *testing.T) {
	m, err := New(ObddPlain, 3)
	require.NoError(t, err)
	a, _ := m.Ithvar(1)
	b, _ := m.Ithvar(2)
	c, _ := m.Ithvar(3)
	ab, err := m.And(a, b)
	require.NoError(t, err)
	f, err := m.Or(ab, c)
	require.NoError(t, err)

	// subset0/subset1 in the Boolean reading: the part of f with a false and
	// the part with a true. (A Restrict cofactor no longer depends on a, so
	// counting it over 3 variables would count each of its minterms twice.)
	na, _ := m.NIthvar(1)
	s0, err := m.And(f, na)
	require.NoError(t, err)
	s1, err := m.And(f, a)
	require.NoError(t, err)

	total := new(big.Int).Add(m.CountMinterms(s0, 3), m.CountMinterms(s1, 3))
	require.Zero(t, total.Cmp(m.CountMinterms(f, 3)))
}

func mustNot(t *testing.T, m *Manager, e Edge) Edge {
	t.Helper()
	r, err := m.Not(e)
	require.NoError(t, err)
	return r
}
