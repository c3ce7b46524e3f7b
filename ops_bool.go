// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Boolean-operator Apply and Ite, generalized to work across every Variant:
// cofactoring
// goes through Manager.cofactor instead of indexing els/then directly, so
// the zero-suppression and complement-edge rules of the current variant are
// honored uniformly, and the pivot variable is read off whichever operand
// sits highest in the order instead of assumed to equal a raw node level.

// levelOfEdge reports the rank of e's target variable, or _TERMINALRANK for a
// terminal edge.
func (m *Manager) levelOfEdge(e Edge) int32 {
	n := &m.arena.nodes[e.target]
	return m.vars[n.variable].rank
}

// cofactor splits e around pivot, the variable about to be branched on. If
// e's own top variable is not pivot (it sits lower in the order, or e is a
// terminal), e has no dependency on pivot yet: the zero-suppressed variants
// treat a "missing" variable as implicitly absent (els-cofactor is e itself,
// then-cofactor is the empty set); the ordered variants treat it as don't
// care (both cofactors are e itself).
func (m *Manager) cofactor(e Edge, pivot int32) (els, then Edge) {
	if m.isTerminal(e) || m.vars[m.arena.nodes[e.target].variable].rank != pivot {
		if m.variant.isZsuppressed() {
			return e, m.zero()
		}
		return e, e
	}
	n := &m.arena.nodes[e.target]
	els, then = n.els, n.then
	if e.comp {
		els, then = els.not(), then.not()
	}
	return els, then
}

// pivotOf returns the variable to branch on next given two operands: the
// one belonging to whichever operand sits highest in the order (lowest
// rank). Ties (equal top variable) resolve to either operand's variable,
// since they are then the same variable.
func (m *Manager) pivotOf(f, g Edge) int32 {
	lf, lg := m.levelOfEdge(f), m.levelOfEdge(g)
	if lf <= lg {
		return m.arena.nodes[f.target].variable
	}
	return m.arena.nodes[g.target].variable
}

// Not returns the negation of f. For a complement-edge variant this is a
// single bit flip; otherwise it is a full structural Apply-style recursion
// cached in the OP table under opNot.
func (m *Manager) Not(f Edge) (Edge, error) {
	if f.IsNull() {
		m.seterror(ErrNullEdge, "Not")
		return NullEdge, ErrNullEdge
	}
	if m.variant.hasComplement() {
		return f.not(), nil
	}
	m.protect(f)
	res, err := m.not(f)
	m.unprotect(1)
	return res, err
}

func (m *Manager) not(f Edge) (Edge, error) {
	if f == m.zero() {
		return m.one(), nil
	}
	if f == m.one() {
		return m.zero(), nil
	}
	if res, ok := m.caches.op.lookup(f, f, opNot); ok {
		return res, nil
	}
	variable := m.arena.nodes[f.target].variable
	els, then := m.cofactor(f, m.vars[variable].rank)
	lo, err := m.not(els)
	if err != nil {
		return NullEdge, err
	}
	m.protect(lo)
	hi, err := m.not(then)
	m.unprotect(1)
	if err != nil {
		return NullEdge, err
	}
	res, err := m.mk(variable, lo, hi)
	if err != nil {
		return NullEdge, err
	}
	m.caches.op.store(f, f, opNot, res)
	return res, nil
}

// Apply computes the Boolean combination of f and g denoted by op, one of
// the And/Or/Xor/... operator codes declared in cache.go.
func (m *Manager) Apply(f, g Edge, op int32) (Edge, error) {
	if f.IsNull() || g.IsNull() {
		m.seterror(ErrNullEdge, "Apply")
		return NullEdge, ErrNullEdge
	}
	m.protect(f)
	m.protect(g)
	res, err := m.apply(f, g, op)
	m.unprotect(2)
	return res, err
}

// terminalShortcut reports the result of op applied to two terminal-like
// operands without recursing, or false if no shortcut applies.
func (m *Manager) terminalShortcut(f, g Edge, op int32) (Edge, bool) {
	zero, one := m.zero(), m.one()
	switch op {
	case opAnd:
		if f == g {
			return f, true
		}
		if f == zero || g == zero {
			return zero, true
		}
		if f == one {
			return g, true
		}
		if g == one {
			return f, true
		}
	case opOr:
		if f == g {
			return f, true
		}
		if f == one || g == one {
			return one, true
		}
		if f == zero {
			return g, true
		}
		if g == zero {
			return f, true
		}
	case opXor:
		if f == g {
			return zero, true
		}
		if f == zero {
			return g, true
		}
		if g == zero {
			return f, true
		}
	case opNand:
		if f == zero || g == zero {
			return one, true
		}
	case opNor:
		if f == one || g == one {
			return zero, true
		}
	case opImp:
		if f == zero {
			return one, true
		}
		if f == one {
			return g, true
		}
		if g == one {
			return one, true
		}
		if f == g {
			return one, true
		}
	case opBiimp:
		if f == g {
			return one, true
		}
		if f == one {
			return g, true
		}
		if g == one {
			return f, true
		}
	case opLeq:
		if f == g || f == zero || g == one {
			return one, true
		}
		if f == one {
			return g, true
		}
	case opGt:
		if g == zero {
			return f, true
		}
		if g == one || f == zero {
			return zero, true
		}
		if f == g {
			return zero, true
		}
	case opDiff:
		if f == g || g == one {
			return zero, true
		}
		if f == zero {
			return zero, true
		}
		if g == zero {
			return f, true
		}
	}
	return NullEdge, false
}

// constantTable gives the four-row truth table for op applied to two
// terminals, indexed [f][g] with 0 = false/zero and 1 = true/one.
var constantTable = [...][2][2]int{
	opAnd:   {{0, 0}, {0, 1}},
	opOr:    {{0, 1}, {1, 1}},
	opXor:   {{0, 1}, {1, 0}},
	opNand:  {{1, 1}, {1, 0}},
	opNor:   {{1, 0}, {0, 0}},
	opImp:   {{1, 1}, {0, 1}},
	opBiimp: {{1, 0}, {0, 1}},
	opLeq:   {{1, 1}, {0, 1}},
	opGt:    {{0, 0}, {1, 0}},
	opDiff:  {{0, 0}, {1, 0}},
}

func (m *Manager) constantResult(f, g Edge, op int32) Edge {
	fv, gv := 0, 0
	if f == m.one() {
		fv = 1
	}
	if g == m.one() {
		gv = 1
	}
	if constantTable[op][fv][gv] == 1 {
		return m.one()
	}
	return m.zero()
}

func (m *Manager) apply(f, g Edge, op int32) (Edge, error) {
	if sc, ok := m.terminalShortcut(f, g, op); ok {
		return sc, nil
	}
	if m.isTerminal(f) && m.isTerminal(g) {
		return m.constantResult(f, g, op), nil
	}
	if res, ok := m.caches.op.lookup(f, g, op); ok {
		return res, nil
	}
	pivot := m.pivotOf(f, g)
	rank := m.vars[pivot].rank
	fEls, fThen := m.cofactor(f, rank)
	gEls, gThen := m.cofactor(g, rank)

	lo, err := m.apply(fEls, gEls, op)
	if err != nil {
		return NullEdge, err
	}
	m.protect(lo)
	hi, err := m.apply(fThen, gThen, op)
	m.unprotect(1)
	if err != nil {
		return NullEdge, err
	}
	res, err := m.mk(pivot, lo, hi)
	if err != nil {
		return NullEdge, err
	}
	m.caches.op.store(f, g, op, res)
	return res, nil
}

// And, Or, Xor, Nand, Nor, Imp, Biimp, Leq, Gt and Diff are thin wrappers
// around Apply for the ten binary operators.
func (m *Manager) And(f, g Edge) (Edge, error)   { return m.Apply(f, g, opAnd) }
func (m *Manager) Or(f, g Edge) (Edge, error)    { return m.Apply(f, g, opOr) }
func (m *Manager) Xor(f, g Edge) (Edge, error)   { return m.Apply(f, g, opXor) }
func (m *Manager) Nand(f, g Edge) (Edge, error)  { return m.Apply(f, g, opNand) }
func (m *Manager) Nor(f, g Edge) (Edge, error)   { return m.Apply(f, g, opNor) }
func (m *Manager) Imp(f, g Edge) (Edge, error)   { return m.Apply(f, g, opImp) }
func (m *Manager) Biimp(f, g Edge) (Edge, error) { return m.Apply(f, g, opBiimp) }
func (m *Manager) Leq(f, g Edge) (Edge, error)   { return m.Apply(f, g, opLeq) }
func (m *Manager) Gt(f, g Edge) (Edge, error)    { return m.Apply(f, g, opGt) }
func (m *Manager) Diff(f, g Edge) (Edge, error)  { return m.Apply(f, g, opDiff) }

// Ite computes (f & g) | (!f & h) in one recursive pass.
func (m *Manager) Ite(f, g, h Edge) (Edge, error) {
	if f.IsNull() || g.IsNull() || h.IsNull() {
		m.seterror(ErrNullEdge, "Ite")
		return NullEdge, ErrNullEdge
	}
	m.protect(f)
	m.protect(g)
	m.protect(h)
	res, err := m.ite(f, g, h)
	m.unprotect(3)
	return res, err
}

func (m *Manager) ite(f, g, h Edge) (Edge, error) {
	zero, one := m.zero(), m.one()
	switch {
	case f == one:
		return g, nil
	case f == zero:
		return h, nil
	case g == h:
		return g, nil
	case g == one && h == zero:
		return f, nil
	}
	if res, ok := m.caches.ite.lookup(f, g, h); ok {
		return res, nil
	}
	pivot := m.pivotOf(f, m.pivotEdge(g, h, f))
	rank := m.vars[pivot].rank
	fEls, fThen := m.cofactor(f, rank)
	gEls, gThen := m.cofactor(g, rank)
	hEls, hThen := m.cofactor(h, rank)

	lo, err := m.ite(fEls, gEls, hEls)
	if err != nil {
		return NullEdge, err
	}
	m.protect(lo)
	hi, err := m.ite(fThen, gThen, hThen)
	m.unprotect(1)
	if err != nil {
		return NullEdge, err
	}
	res, err := m.mk(pivot, lo, hi)
	if err != nil {
		return NullEdge, err
	}
	m.caches.ite.store(f, g, h, res)
	return res, nil
}

// pivotEdge picks whichever of g, h sits highest in the order to contribute
// to the three-way pivot choice, falling back to f when both g and h are
// terminals (in which case f alone determines the pivot).
func (m *Manager) pivotEdge(g, h, f Edge) Edge {
	if !m.isTerminal(h) && m.levelOfEdge(h) < m.levelOfEdge(g) {
		return h
	}
	if !m.isTerminal(g) {
		return g
	}
	return f
}
