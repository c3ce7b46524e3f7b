// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Adjacent-variable swap and Rudell sifting. Grounded on the operation
// names and contract exposed by
// Biddy_Managed_SwapWithHigher/SwapWithLower/Sifting in biddy.h,
// reimplemented from first principles (the swap procedure and Rudell's
// algorithm) rather than translated from the C.

// liveNodeCount reports the number of live (non-free, non-terminal) nodes
// currently in the arena.
func (m *Manager) liveNodeCount() int {
	n := 0
	for i := range m.arena.nodes {
		nd := &m.arena.nodes[i]
		if !nd.free && nd.variable != 0 {
			n++
		}
	}
	return n
}

// SwapWithHigher exchanges variable v with its immediate successor in the
// current order (the variable one rank further from the root), preserving
// the semantic value of every edge in the Manager. It returns the variable
// id now occupying v's old position, so repeated calls walk v down the
// order one step at a time.
func (m *Manager) SwapWithHigher(v int) (int, error) {
	return m.swapDirection(v, true)
}

// SwapWithLower exchanges variable v with its immediate predecessor in the
// current order (the variable one rank closer to the root).
func (m *Manager) SwapWithLower(v int) (int, error) {
	return m.swapDirection(v, false)
}

func (m *Manager) swapDirection(v int, down bool) (int, error) {
	if v < 1 || v > m.Varnum() {
		m.seterror(ErrUnknownVariable, "Swap(%d)", v)
		return 0, ErrUnknownVariable
	}
	id := int32(v)
	var neighbor int32
	if down {
		neighbor = m.vars[id].orderNext
	} else {
		neighbor = m.vars[id].orderPrev
	}
	if neighbor < 0 {
		// Nothing to swap with; v is already at the boundary.
		return v, nil
	}
	upper, lower := id, neighbor
	if !down {
		upper, lower = neighbor, id
	}
	if err := m.swapAdjacent(upper, lower); err != nil {
		return 0, err
	}
	return int(lower), nil
}

// swapAdjacent swaps the two variables occupying adjacent ranks, upper
// directly above lower. For every node on
// upper whose children are (via cofactor) split on lower, compute the four
// grand-cofactors, rebuild the node as one on lower whose children are
// nodes on upper holding the transposed cofactors, and re-hash. Existing
// edges into these nodes stay valid because each node is rewritten in
// place: its arena slot, not its content, is what every outside edge
// actually references.
func (m *Manager) swapAdjacent(upper, lower int32) error {
	if m.vars[upper].orderNext != lower || m.vars[lower].orderPrev != upper {
		return ErrInvalidSwap
	}
	lowerRank := m.vars[lower].rank

	var nodes []int32
	for i := m.vars[upper].nodeHead; i >= 0; i = m.arena.nodes[i].varNext {
		n := &m.arena.nodes[i]
		if m.levelOfEdge(n.els) == lowerRank || m.levelOfEdge(n.then) == lowerRank {
			nodes = append(nodes, i)
		}
	}

	type quad struct{ e00, e01, e10, e11 Edge }
	quads := make(map[int32]quad, len(nodes))
	for _, p := range nodes {
		n := &m.arena.nodes[p]
		e00, e01 := m.cofactor(n.els, lowerRank)
		e10, e11 := m.cofactor(n.then, lowerRank)
		quads[p] = quad{e00, e01, e10, e11}
	}

	// Remove every upper-variable node being rewritten from the unique table
	// before rebuilding any children on upper, so mk never mistakes a stale,
	// about-to-be-superseded bucket entry for a canonical match.
	for _, p := range nodes {
		m.unlink(p)
	}

	for _, p := range nodes {
		q := quads[p]
		newEls, err := m.mk(upper, q.e00, q.e10)
		if err != nil {
			return err
		}
		m.protect(newEls)
		newThen, err := m.mk(upper, q.e01, q.e11)
		m.unprotect(1)
		if err != nil {
			return err
		}
		n := &m.arena.nodes[p]
		n.variable = lower
		n.els = newEls
		n.then = newThen
		m.link(p)
	}

	m.vars[upper].rank, m.vars[lower].rank = m.vars[lower].rank, m.vars[upper].rank
	upperPrev := m.vars[upper].orderPrev
	lowerNext := m.vars[lower].orderNext
	m.vars[lower].orderPrev = upperPrev
	m.vars[lower].orderNext = upper
	m.vars[upper].orderPrev = lower
	m.vars[upper].orderNext = lowerNext
	if upperPrev >= 0 {
		m.vars[upperPrev].orderNext = lower
	} else {
		m.top = lower
	}
	if lowerNext >= 0 {
		m.vars[lowerNext].orderPrev = upper
	} else {
		m.bottom = upper
	}

	m.cachereset()
	return nil
}

// Sifting runs Rudell's algorithm over every declared variable: each
// variable is moved to the top of the order, then to the bottom, recording
// the live node count at every position, and finally placed wherever that
// count was smallest. Converging sifting repeats rounds until a full round
// makes no further improvement. A move that would grow the live node count
// past configs.growthlimit percent, relative to the count when that
// variable's pass began, aborts further movement in that direction.
func (m *Manager) Sifting() error {
	improved := true
	for improved {
		improved = false
		order := make([]int32, 0, m.Varnum())
		for v := m.top; v >= 0; v = m.vars[v].orderNext {
			order = append(order, v)
		}
		for _, v := range order {
			before := m.liveNodeCount()
			if err := m.siftVariable(v); err != nil {
				return err
			}
			if m.liveNodeCount() < before {
				improved = true
			}
		}
	}
	return nil
}

func (m *Manager) siftVariable(v int32) error {
	limit := m.config.growthlimit
	base := m.liveNodeCount()
	bestCount := base
	bestRank := m.vars[v].rank

	// Walk up to the top, tracking the best rank seen.
	for m.vars[v].orderPrev >= 0 {
		if _, err := m.swapDirection(int(v), false); err != nil {
			return err
		}
		count := m.liveNodeCount()
		if limit > 0 && count > base+(base*limit)/100 {
			break
		}
		if count < bestCount {
			bestCount = count
			bestRank = m.vars[v].rank
		}
	}
	// Walk all the way down to the bottom, still tracking the best rank.
	for m.vars[v].orderNext >= 0 {
		if _, err := m.swapDirection(int(v), true); err != nil {
			return err
		}
		count := m.liveNodeCount()
		if limit > 0 && count > base+(base*limit)/100 {
			break
		}
		if count < bestCount {
			bestCount = count
			bestRank = m.vars[v].rank
		}
	}
	// Return to whichever rank had the smallest recorded count.
	for m.vars[v].rank > bestRank {
		if _, err := m.swapDirection(int(v), false); err != nil {
			return err
		}
	}
	for m.vars[v].rank < bestRank {
		if _, err := m.swapDirection(int(v), true); err != nil {
			return err
		}
	}
	return nil
}

// SiftingOnFunction is the per-function variant: it minimizes only the node
// count reachable from root, leaving the rest of the order's influence on
// other live formulas unconsidered beyond the swap's semantics-preserving
// guarantee.
func (m *Manager) SiftingOnFunction(root Edge) error {
	improved := true
	for improved {
		improved = false
		order := make([]int32, 0, m.Varnum())
		for v := m.top; v >= 0; v = m.vars[v].orderNext {
			order = append(order, v)
		}
		for _, v := range order {
			before := m.CountNodes(root)
			if err := m.siftVariableOnFunction(v, root); err != nil {
				return err
			}
			if m.CountNodes(root) < before {
				improved = true
			}
		}
	}
	return nil
}

func (m *Manager) siftVariableOnFunction(v int32, root Edge) error {
	limit := m.config.growthlimit
	base := m.CountNodes(root)
	bestCount := base
	bestRank := m.vars[v].rank

	for m.vars[v].orderPrev >= 0 {
		if _, err := m.swapDirection(int(v), false); err != nil {
			return err
		}
		count := m.CountNodes(root)
		if limit > 0 && count > base+(base*limit)/100 {
			break
		}
		if count < bestCount {
			bestCount = count
			bestRank = m.vars[v].rank
		}
	}
	for m.vars[v].orderNext >= 0 {
		if _, err := m.swapDirection(int(v), true); err != nil {
			return err
		}
		count := m.CountNodes(root)
		if limit > 0 && count > base+(base*limit)/100 {
			break
		}
		if count < bestCount {
			bestCount = count
			bestRank = m.vars[v].rank
		}
	}
	for m.vars[v].rank > bestRank {
		if _, err := m.swapDirection(int(v), false); err != nil {
			return err
		}
	}
	for m.vars[v].rank < bestRank {
		if _, err := m.swapDirection(int(v), true); err != nil {
			return err
		}
	}
	return nil
}
