// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Combination-set algebra for the zero-suppressed variants. Union, Intersect
// and SetDiff get their own zsetop recursion rather than reusing Apply (see
// zsetop); Change, Subset0/Subset1, Product, SelectiveProduct, Stretch and
// PermitSym are ZDD-native operations with no ordered-BDD analogue, so they
// get their own recursions here too, grounded on the standard ZDD algorithms
// (Minato 1993) rather than on any single example file, since none of the
// retrieved examples implement a ZDD of this sophistication.

func (m *Manager) requireZsuppressed(op string) error {
	if !m.variant.isZsuppressed() {
		m.seterror(ErrWrongVariant, "%s requires a zero-suppressed variant", op)
		return ErrWrongVariant
	}
	return nil
}

// Union computes the set union of f and g.
func (m *Manager) Union(f, g Edge) (Edge, error) {
	if err := m.requireZsuppressed("Union"); err != nil {
		return NullEdge, err
	}
	if f.IsNull() || g.IsNull() {
		m.seterror(ErrNullEdge, "Union")
		return NullEdge, ErrNullEdge
	}
	m.protect(f)
	m.protect(g)
	res, err := m.zsetop(f, g, zopUnion)
	m.unprotect(2)
	return res, err
}

// Intersect computes the set intersection of f and g.
func (m *Manager) Intersect(f, g Edge) (Edge, error) {
	if err := m.requireZsuppressed("Intersect"); err != nil {
		return NullEdge, err
	}
	if f.IsNull() || g.IsNull() {
		m.seterror(ErrNullEdge, "Intersect")
		return NullEdge, ErrNullEdge
	}
	m.protect(f)
	m.protect(g)
	res, err := m.zsetop(f, g, zopIntersect)
	m.unprotect(2)
	return res, err
}

// SetDiff computes the combinations in f that are not in g.
func (m *Manager) SetDiff(f, g Edge) (Edge, error) {
	if err := m.requireZsuppressed("SetDiff"); err != nil {
		return NullEdge, err
	}
	if f.IsNull() || g.IsNull() {
		m.seterror(ErrNullEdge, "SetDiff")
		return NullEdge, ErrNullEdge
	}
	m.protect(f)
	m.protect(g)
	res, err := m.zsetop(f, g, zopDiff)
	m.unprotect(2)
	return res, err
}

// zsetop implements Union, Intersect and SetDiff with one recursion over the
// zero-suppressed cofactor. It does not reuse the Boolean Apply machinery:
// Apply's terminalShortcut treats the "one" terminal as the Boolean constant
// true (an absorbing/identity element for and/or), which is correct for
// Apply's own characteristic-function reading but wrong here, since in a
// ZBDD "one" denotes the single combination {{}} (the empty combination),
// an ordinary set member with no special algebraic role in union or
// intersection. Only the empty set (zero) and equal operands ever let these
// three operations shortcut without cofactoring.
func (m *Manager) zsetop(f, g Edge, op int32) (Edge, error) {
	zero := m.zero()
	switch op {
	case zopUnion:
		if f == zero {
			return g, nil
		}
		if g == zero || f == g {
			return f, nil
		}
	case zopIntersect:
		if f == zero || g == zero {
			return zero, nil
		}
		if f == g {
			return f, nil
		}
	case zopDiff:
		if f == zero {
			return zero, nil
		}
		if g == zero {
			return f, nil
		}
		if f == g {
			return zero, nil
		}
	}
	if res, ok := m.caches.op.lookup(f, g, op); ok {
		return res, nil
	}
	pivot := m.pivotOf(f, g)
	rank := m.vars[pivot].rank
	fEls, fThen := m.cofactor(f, rank)
	gEls, gThen := m.cofactor(g, rank)

	lo, err := m.zsetop(fEls, gEls, op)
	if err != nil {
		return NullEdge, err
	}
	m.protect(lo)
	hi, err := m.zsetop(fThen, gThen, op)
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

// Subset0 returns the combinations of f that do not contain v.
func (m *Manager) Subset0(f Edge, v int) (Edge, error) {
	if err := m.requireZsuppressed("Subset0"); err != nil {
		return NullEdge, err
	}
	return m.Restrict(f, v, false)
}

// Subset1 returns the combinations of f that contain v, with v removed from
// each of them. Unlike Subset0 this cannot delegate to Restrict: Restrict's
// don't-care reading of an absent variable passes f through unchanged for
// value=true, but a path of f that never reaches v contains no combination
// that selected v, so it must contribute nothing to Subset1's result. See
// subset1 in ops_restrict.go.
func (m *Manager) Subset1(f Edge, v int) (Edge, error) {
	if err := m.requireZsuppressed("Subset1"); err != nil {
		return NullEdge, err
	}
	if f.IsNull() {
		m.seterror(ErrNullEdge, "Subset1")
		return NullEdge, ErrNullEdge
	}
	if v < 1 || v > m.Varnum() {
		m.seterror(ErrUnknownVariable, "Subset1(v=%d)", v)
		return NullEdge, ErrUnknownVariable
	}
	m.protect(f)
	res, err := m.subset1(f, int32(v))
	m.unprotect(1)
	return res, err
}

// Change toggles membership of v in every combination of f: a combination
// that had v loses it, one that lacked it gains it.
func (m *Manager) Change(f Edge, v int) (Edge, error) {
	if err := m.requireZsuppressed("Change"); err != nil {
		return NullEdge, err
	}
	if f.IsNull() {
		m.seterror(ErrNullEdge, "Change")
		return NullEdge, ErrNullEdge
	}
	if v < 1 || v > m.Varnum() {
		m.seterror(ErrUnknownVariable, "Change(v=%d)", v)
		return NullEdge, ErrUnknownVariable
	}
	m.protect(f)
	res, err := m.change(f, int32(v))
	m.unprotect(1)
	return res, err
}

func (m *Manager) change(f Edge, v int32) (Edge, error) {
	vRank := m.vars[v].rank
	fRank := m.levelOfEdge(f)
	if fRank > vRank {
		return m.mk(v, m.zero(), f)
	}
	if res, ok := m.caches.change.lookup(f, v); ok {
		return res, nil
	}
	els, then := m.cofactor(f, fRank)
	var res Edge
	var err error
	if fRank == vRank {
		res, err = m.mk(v, then, els)
	} else {
		lo, e := m.change(els, v)
		if e != nil {
			return NullEdge, e
		}
		m.protect(lo)
		hi, e2 := m.change(then, v)
		m.unprotect(1)
		if e2 != nil {
			return NullEdge, e2
		}
		variable := m.arena.nodes[f.target].variable
		res, err = m.mk(variable, lo, hi)
	}
	if err != nil {
		return NullEdge, err
	}
	m.caches.change.store(f, v, res)
	return res, nil
}

// Product computes {a ∪ b : a ∈ f, b ∈ g}, the cartesian union-product of
// two combination sets.
func (m *Manager) Product(f, g Edge) (Edge, error) {
	if err := m.requireZsuppressed("Product"); err != nil {
		return NullEdge, err
	}
	if f.IsNull() || g.IsNull() {
		m.seterror(ErrNullEdge, "Product")
		return NullEdge, ErrNullEdge
	}
	m.protect(f)
	m.protect(g)
	res, err := m.product(f, g, -1)
	m.unprotect(2)
	return res, err
}

// SelectiveProduct computes the same cartesian union-product as Product,
// except that for every variable named in selected, the variable is only
// ever contributed by g: any occurrence of it in f's combinations is
// dropped from the result. This reading of "selective" (picking, per
// variable, a single source operand) is this package's resolution of an
// underspecified operation name.
func (m *Manager) SelectiveProduct(f, g, selected Edge) (Edge, error) {
	if err := m.requireZsuppressed("SelectiveProduct"); err != nil {
		return NullEdge, err
	}
	if f.IsNull() || g.IsNull() || selected.IsNull() {
		m.seterror(ErrNullEdge, "SelectiveProduct")
		return NullEdge, ErrNullEdge
	}
	if err := m.quantset2cache(selected); err != nil {
		return NullEdge, err
	}
	m.protect(f)
	m.protect(g)
	m.protect(selected)
	res, err := m.product(f, g, m.caches.quantsetID)
	m.unprotect(3)
	return res, err
}

// product implements both Product (selectiveID < 0) and SelectiveProduct
// (selectiveID the registered quantset generation) with one recursion.
func (m *Manager) product(f, g Edge, selectiveID int32) (Edge, error) {
	zero, one := m.zero(), m.one()
	if f == zero || g == zero {
		return zero, nil
	}
	if f == one {
		return g, nil
	}
	if g == one {
		return f, nil
	}
	if res, ok := m.caches.product.lookup(f, g, selectiveID); ok {
		return res, nil
	}
	pivot := m.pivotOf(f, g)
	rank := m.vars[pivot].rank
	fEls, fThen := m.cofactor(f, rank)
	gEls, gThen := m.cofactor(g, rank)

	selectedHere := selectiveID >= 0 && m.caches.quantset[pivot] == selectiveID

	els, err := m.product(fEls, gEls, selectiveID)
	if err != nil {
		return NullEdge, err
	}
	m.protect(els)

	var then Edge
	if selectedHere {
		// v can only be contributed by g: drop f1's participation entirely.
		then, err = m.product(fEls, gThen, selectiveID)
	} else {
		a, e := m.product(fEls, gThen, selectiveID)
		if e != nil {
			m.unprotect(1)
			return NullEdge, e
		}
		m.protect(a)
		b, e := m.product(fThen, gEls, selectiveID)
		if e != nil {
			m.unprotect(2)
			return NullEdge, e
		}
		m.protect(b)
		c, e := m.product(fThen, gThen, selectiveID)
		m.unprotect(2)
		if e != nil {
			m.unprotect(1)
			return NullEdge, e
		}
		m.protect(c)
		ab, e := m.Union(a, b)
		m.unprotect(1)
		if e != nil {
			m.unprotect(1)
			return NullEdge, e
		}
		m.protect(ab)
		then, err = m.Union(ab, c)
		m.unprotect(1)
	}
	m.unprotect(1)
	if err != nil {
		return NullEdge, err
	}
	res, err := m.mk(pivot, els, then)
	if err != nil {
		return NullEdge, err
	}
	m.caches.product.store(f, g, selectiveID, res)
	return res, nil
}

// Stretch widens f by unioning in, for every subset of extra, the result of
// adding that subset's elements to each combination already in f. The
// result's combinations are exactly f's original ones plus every way of
// optionally adding members of extra.
func (m *Manager) Stretch(f, extra Edge) (Edge, error) {
	if err := m.requireZsuppressed("Stretch"); err != nil {
		return NullEdge, err
	}
	if f.IsNull() || extra.IsNull() {
		m.seterror(ErrNullEdge, "Stretch")
		return NullEdge, ErrNullEdge
	}
	powerset, err := m.powerset(extra)
	if err != nil {
		return NullEdge, err
	}
	m.protect(powerset)
	res, err := m.Product(f, powerset)
	m.unprotect(1)
	return res, err
}

// powerset builds the ZDD for every subset of the variables named in cube
// (a chain of positive literals, as built by Cube).
func (m *Manager) powerset(cube Edge) (Edge, error) {
	if cube == m.one() {
		return m.one(), nil
	}
	n := &m.arena.nodes[cube.target]
	rest, err := m.powerset(n.then)
	if err != nil {
		return NullEdge, err
	}
	return m.mk(n.variable, rest, rest)
}

// PermitSym keeps only the combinations of f whose cardinality does not
// exceed n.
func (m *Manager) PermitSym(f Edge, n int) (Edge, error) {
	if err := m.requireZsuppressed("PermitSym"); err != nil {
		return NullEdge, err
	}
	if f.IsNull() {
		m.seterror(ErrNullEdge, "PermitSym")
		return NullEdge, ErrNullEdge
	}
	if n < 0 {
		return m.zero(), nil
	}
	m.protect(f)
	res, err := m.permitsym(f, int32(n))
	m.unprotect(1)
	return res, err
}

func (m *Manager) permitsym(f Edge, budget int32) (Edge, error) {
	if f == m.zero() {
		return m.zero(), nil
	}
	if f == m.one() {
		return m.one(), nil
	}
	if budget <= 0 {
		// Only the empty combination fits: follow the else chain to see
		// whether f contains it.
		for !m.isTerminal(f) {
			f, _ = m.cofactor(f, m.levelOfEdge(f))
		}
		return f, nil
	}
	if res, ok := m.caches.unary.lookup(f, budget); ok {
		return res, nil
	}
	els, then := m.cofactor(f, m.levelOfEdge(f))
	lo, err := m.permitsym(els, budget)
	if err != nil {
		return NullEdge, err
	}
	m.protect(lo)
	hi, err := m.permitsym(then, budget-1)
	m.unprotect(1)
	if err != nil {
		return NullEdge, err
	}
	variable := m.arena.nodes[f.target].variable
	res, err := m.mk(variable, lo, hi)
	if err != nil {
		return NullEdge, err
	}
	m.caches.unary.store(f, budget, res)
	return res, nil
}
