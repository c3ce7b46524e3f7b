// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Restrict, Compose, Simplify and Constrain:
// restrict(f, v, b) substitutes the constant b for v everywhere in f;
// compose(f, g, v) substitutes g for v in f; simplify and constrain are its
// care-set-aware relatives with the Coudert-Madre semantics, used to shrink
// a diagram using a don't-care set rather than a single forced literal.

// Restrict substitutes the constant value for variable v everywhere in f.
func (m *Manager) Restrict(f Edge, v int, value bool) (Edge, error) {
	if f.IsNull() {
		m.seterror(ErrNullEdge, "Restrict")
		return NullEdge, ErrNullEdge
	}
	if v < 1 || v > m.Varnum() {
		m.seterror(ErrUnknownVariable, "Restrict(v=%d)", v)
		return NullEdge, ErrUnknownVariable
	}
	m.protect(f)
	res, err := m.restrict(f, int32(v), value)
	m.unprotect(1)
	return res, err
}

func (m *Manager) restrict(f Edge, v int32, value bool) (Edge, error) {
	if m.isTerminal(f) {
		return f, nil
	}
	n := &m.arena.nodes[f.target]
	if m.vars[n.variable].rank > m.vars[v].rank {
		// v does not occur below this point: f does not depend on it.
		return f, nil
	}
	id := v << 1
	if value {
		id |= 1
	}
	if res, ok := m.caches.restrict.lookup(f, id); ok {
		return res, nil
	}
	if n.variable == v {
		els, then := m.cofactor(f, m.vars[v].rank)
		if value {
			m.caches.restrict.store(f, id, then)
			return then, nil
		}
		m.caches.restrict.store(f, id, els)
		return els, nil
	}
	els, then := m.cofactor(f, m.vars[n.variable].rank)
	lo, err := m.restrict(els, v, value)
	if err != nil {
		return NullEdge, err
	}
	m.protect(lo)
	hi, err := m.restrict(then, v, value)
	m.unprotect(1)
	if err != nil {
		return NullEdge, err
	}
	res, err := m.mk(n.variable, lo, hi)
	if err != nil {
		return NullEdge, err
	}
	m.caches.restrict.store(f, id, res)
	return res, nil
}

// subset1 is Subset1's own cofactor walk. It cannot share restrict's: restrict
// treats a path that never reaches v as don't-care and passes f through
// unchanged for either value, which is the right reading for an ordinary
// Boolean restriction but wrong here. In a zero-suppressed diagram a path
// that never reaches v is exactly the set of combinations that never
// selected v, so none of them belong in subset1's result. That path must
// contribute the empty set (zero), not f.
func (m *Manager) subset1(f Edge, v int32) (Edge, error) {
	if m.isTerminal(f) {
		return m.zero(), nil
	}
	n := &m.arena.nodes[f.target]
	if m.vars[n.variable].rank > m.vars[v].rank {
		return m.zero(), nil
	}
	if n.variable == v {
		_, then := m.cofactor(f, m.vars[v].rank)
		return then, nil
	}
	if res, ok := m.caches.subset1.lookup(f, v); ok {
		return res, nil
	}
	els, then := m.cofactor(f, m.vars[n.variable].rank)
	lo, err := m.subset1(els, v)
	if err != nil {
		return NullEdge, err
	}
	m.protect(lo)
	hi, err := m.subset1(then, v)
	m.unprotect(1)
	if err != nil {
		return NullEdge, err
	}
	res, err := m.mk(n.variable, lo, hi)
	if err != nil {
		return NullEdge, err
	}
	m.caches.subset1.store(f, v, res)
	return res, nil
}

// Compose substitutes g for v in f.
func (m *Manager) Compose(f, g Edge, v int) (Edge, error) {
	if f.IsNull() || g.IsNull() {
		m.seterror(ErrNullEdge, "Compose")
		return NullEdge, ErrNullEdge
	}
	if v < 1 || v > m.Varnum() {
		m.seterror(ErrUnknownVariable, "Compose(v=%d)", v)
		return NullEdge, ErrUnknownVariable
	}
	m.protect(f)
	m.protect(g)
	res, err := m.compose(f, g, int32(v))
	m.unprotect(2)
	return res, err
}

// compose(f, g, v) = ite(g, restrict(f,v,1), restrict(f,v,0)), computed
// structurally rather than via three full passes: f is walked once, and at
// the point where v is reached, the ite of the two cofactors against g is
// spliced in.
func (m *Manager) compose(f, g Edge, v int32) (Edge, error) {
	if m.isTerminal(f) {
		return f, nil
	}
	n := &m.arena.nodes[f.target]
	if m.vars[n.variable].rank > m.vars[v].rank {
		return f, nil
	}
	if n.variable == v {
		els, then := m.cofactor(f, m.vars[v].rank)
		return m.Ite(g, then, els)
	}
	if res, ok := m.caches.compose.lookup(f, g, v); ok {
		return res, nil
	}
	els, then := m.cofactor(f, m.vars[n.variable].rank)
	lo, err := m.compose(els, g, v)
	if err != nil {
		return NullEdge, err
	}
	m.protect(lo)
	hi, err := m.compose(then, g, v)
	m.unprotect(1)
	if err != nil {
		return NullEdge, err
	}
	res, err := m.mk(n.variable, lo, hi)
	if err != nil {
		return NullEdge, err
	}
	m.caches.compose.store(f, g, v, res)
	return res, nil
}

// Simplify shrinks f using a don't-care set: wherever care is false the
// result's value is unconstrained, so the engine is free to pick whichever
// branch yields the smaller diagram (the Coudert-Madre generalized
// cofactor). Unlike Restrict, which forces single literals, Simplify
// operates relative to an arbitrary care-set function.
func (m *Manager) Simplify(f, care Edge) (Edge, error) {
	if f.IsNull() || care.IsNull() {
		m.seterror(ErrNullEdge, "Simplify")
		return NullEdge, ErrNullEdge
	}
	m.protect(f)
	m.protect(care)
	res, err := m.simplify(f, care)
	m.unprotect(2)
	return res, err
}

func (m *Manager) simplify(f, care Edge) (Edge, error) {
	zero, one := m.zero(), m.one()
	if care == zero {
		return zero, nil
	}
	if care == one || m.isTerminal(f) {
		return f, nil
	}
	if res, ok := m.caches.compose.lookup(f, care, -1); ok {
		return res, nil
	}
	pivot := m.pivotOf(f, care)
	rank := m.vars[pivot].rank
	fEls, fThen := m.cofactor(f, rank)
	cEls, cThen := m.cofactor(care, rank)

	var res Edge
	var err error
	switch {
	case cEls == zero:
		res, err = m.simplify(fThen, cThen)
	case cThen == zero:
		res, err = m.simplify(fEls, cEls)
	default:
		lo, e := m.simplify(fEls, cEls)
		if e != nil {
			return NullEdge, e
		}
		m.protect(lo)
		hi, e2 := m.simplify(fThen, cThen)
		m.unprotect(1)
		if e2 != nil {
			return NullEdge, e2
		}
		res, err = m.mk(pivot, lo, hi)
	}
	if err != nil {
		return NullEdge, err
	}
	m.caches.compose.store(f, care, -1, res)
	return res, nil
}

// Constrain is the Coudert-Madre generalized cofactor. It calls Simplify and
// returns the same result: a function that agrees with f everywhere care
// holds.
func (m *Manager) Constrain(f, care Edge) (Edge, error) {
	return m.Simplify(f, care)
}
