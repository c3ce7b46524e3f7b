// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// gc performs one age-based garbage collection pass. Unlike a classic
// reference-counted collector, which discovers liveness by marking from
// every node with a positive refcount, this engine tracks liveness
// explicitly: a node is live if its expiry has not lapsed, and expiry is
// kept correct by prolonging every formula's reachable sub-DAG before each
// sweep. The refstack still protects nodes built mid-recursion that have
// not yet been attached to a formula.
func (m *Manager) gc() {
	m.age++
	if m.logger != nil {
		m.logger.Debugw("starting gc", "age", m.age, "nodes", len(m.arena.nodes), "free", m.arena.freeCount)
	}

	m.prolongFormulas()
	for _, e := range m.refstack {
		m.markrec(e)
	}

	a := m.arena
	a.freeHead = -1
	a.freeCount = 0
	for i := len(a.nodes) - 1; i >= 0; i-- {
		n := &a.nodes[i]
		if n.free {
			continue
		}
		if n.variable == 0 {
			// Terminals are never collected.
			continue
		}
		live := n.mark || n.expiry == _MAXREFCOUNT || n.expiry > m.age
		if live {
			n.mark = false
			continue
		}
		m.unlink(int32(i))
		a.free(int32(i))
	}

	m.cachereset()
	if m.logger != nil {
		m.logger.Debugw("finished gc", "age", m.age, "free", m.arena.freeCount)
	}
}

// prolongFormulas walks every live formula's reachable sub-DAG and raises
// each visited node's expiry to at least the formula's own lapse age (or
// permanently, for a named formula), so the sweep below never reclaims a
// node a surviving formula still points to.
func (m *Manager) prolongFormulas() {
	m.forEachFormula(func(root Edge, expiry uint32) {
		target := expiry
		if target == 0 {
			target = _MAXREFCOUNT
		}
		m.prolongrec(root, target)
	})
}

func (m *Manager) prolongrec(e Edge, target uint32) {
	if e.IsNull() || m.isTerminal(e) {
		return
	}
	n := &m.arena.nodes[e.target]
	if n.expiry >= target {
		return
	}
	n.expiry = target
	m.prolongrec(n.els, target)
	m.prolongrec(n.then, target)
}

// markrec transitively protects e's sub-DAG for the duration of the current
// gc pass only (the mark bit is cleared by the sweep above), protecting
// nodes still under construction by an in-flight recursive operator.
func (m *Manager) markrec(e Edge) {
	if e.IsNull() || m.isTerminal(e) {
		return
	}
	n := &m.arena.nodes[e.target]
	if n.mark {
		return
	}
	n.mark = true
	m.markrec(n.els)
	m.markrec(n.then)
}
