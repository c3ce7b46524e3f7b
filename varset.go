// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "github.com/bits-and-blooms/bitset"

// Dense variable-set scratch representation: a bit-matrix alternative to an
// edge-shaped cube, applied here to sets of variables rather than the order
// relation itself, which this engine keeps as a per-variable rank field for
// cheap swaps. A *bitset.BitSet indexed by variable id is the scratch form
// Scanset/Makeset trade in; Cube stays the edge-shaped cube builder
// everything else (quantify, Stretch, Support's result) already consumes.

// Scanset extracts the set of variables present in cube (built by Cube or
// any conjunction of positive literals) as a dense bitset indexed by
// variable id, the same information Biddy's Biddy_Managed_Support exposes
// over a BTree.
func (m *Manager) Scanset(cube Edge) (*bitset.BitSet, error) {
	if cube.IsNull() {
		m.seterror(ErrNullEdge, "Scanset")
		return nil, ErrNullEdge
	}
	set := bitset.New(uint(len(m.vars)))
	for e := cube; e != m.one(); {
		if m.isTerminal(e) {
			return nil, ErrNotACube
		}
		n := &m.arena.nodes[e.target]
		if e.comp || n.els != m.zero() {
			return nil, ErrNotACube
		}
		set.Set(uint(n.variable))
		e = n.then
	}
	return set, nil
}

// Makeset rebuilds a quantification cube from a dense variable-set bitset,
// the inverse of Scanset.
func (m *Manager) Makeset(set *bitset.BitSet) (Edge, error) {
	vars := make([]int, 0, set.Count())
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		if i == 0 {
			continue // variable 0 is the reserved terminal slot
		}
		vars = append(vars, int(i))
	}
	return m.Cube(vars)
}
