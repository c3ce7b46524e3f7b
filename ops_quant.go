// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Quantification, replacement and support, generalized to the variant-aware
// cofactor used throughout this package (classic BDD package quant()/
// appquant()/replace()/correctify(), adapted). A cube here is the same
// representation Makeset/Cube builds: a chain of positive-literal nodes, one
// per quantified variable, terminated by True.

// Cube builds the conjunction of the positive literals of vars, in their
// natural order, for use as a quantification or replace-domain cube: the
// representation of a set of variables. In the zero-suppressed variants the
// literals are combined with Product, giving the single combination that
// holds every variable of vars.
func (m *Manager) Cube(vars []int) (Edge, error) {
	res := m.one()
	m.protect(res)
	defer m.unprotect(1)
	combine := m.And
	if m.variant.isZsuppressed() {
		combine = m.Product
	}
	for _, v := range vars {
		lit, err := m.Ithvar(v)
		if err != nil {
			return NullEdge, err
		}
		next, err := combine(res, lit)
		if err != nil {
			return NullEdge, err
		}
		res = next
	}
	return res, nil
}

// Exist computes the existential quantification of f over the variables in
// cube: ∃cube. f.
func (m *Manager) Exist(f, cube Edge) (Edge, error) {
	return m.quantify(f, cube, opOr)
}

// Forall computes the universal quantification of f over cube: ∀cube. f.
func (m *Manager) Forall(f, cube Edge) (Edge, error) {
	return m.quantify(f, cube, opAnd)
}

func (m *Manager) quantify(f, cube Edge, combine int32) (Edge, error) {
	if f.IsNull() || cube.IsNull() {
		m.seterror(ErrNullEdge, "quantify")
		return NullEdge, ErrNullEdge
	}
	if cube == m.one() {
		return f, nil
	}
	if err := m.quantset2cache(cube); err != nil {
		return NullEdge, err
	}
	m.protect(f)
	m.protect(cube)
	res, err := m.quant(f, combine)
	m.unprotect(2)
	return res, err
}

func (m *Manager) quant(f Edge, combine int32) (Edge, error) {
	if m.isTerminal(f) {
		return f, nil
	}
	variable := m.arena.nodes[f.target].variable
	if !m.quantsetInScope(variable) {
		return f, nil
	}
	if res, ok := m.caches.ea.lookup(f, f, eaQuantID(combine, m.caches.quantsetID)); ok {
		return res, nil
	}
	els, then := m.cofactor(f, m.vars[variable].rank)
	lo, err := m.quant(els, combine)
	if err != nil {
		return NullEdge, err
	}
	m.protect(lo)
	hi, err := m.quant(then, combine)
	m.unprotect(1)
	if err != nil {
		return NullEdge, err
	}
	var res Edge
	if m.quantsetHas(variable) {
		res, err = m.apply(lo, hi, combine)
	} else {
		res, err = m.mk(variable, lo, hi)
	}
	if err != nil {
		return NullEdge, err
	}
	m.caches.ea.store(f, f, eaQuantID(combine, m.caches.quantsetID), res)
	return res, nil
}

// quantsetInScope reports whether variable sits at or above the deepest
// quantified variable, i.e. whether any further recursion could still reach
// a quantified variable below it.
func (m *Manager) quantsetInScope(variable int32) bool {
	return m.vars[variable].rank <= m.caches.quantlast
}

// eaQuantID folds the combining operator and the low two bits of the
// current quantification generation into a single discriminator for the EA
// cache. quantset2cache empties the EA table whenever a new generation
// starts, so no entry from an earlier cube is left to share those bits.
func eaQuantID(combine int32, quantsetID int32) int32 {
	return combine<<2 | (quantsetID & 0x3)<<8 | 0x10000
}

// AppEx computes ∃cube. (f op g) without materializing f op g first; op
// must be one of And, Or or Xor.
func (m *Manager) AppEx(f, g Edge, op int32, cube Edge) (Edge, error) {
	return m.appquantify(f, g, op, cube, opOr)
}

// AppForall computes ∀cube. (f op g).
func (m *Manager) AppForall(f, g Edge, op int32, cube Edge) (Edge, error) {
	return m.appquantify(f, g, op, cube, opAnd)
}

func (m *Manager) appquantify(f, g Edge, op int32, cube Edge, combine int32) (Edge, error) {
	if cube.IsNull() {
		m.seterror(ErrNullEdge, "appquantify")
		return NullEdge, ErrNullEdge
	}
	if cube == m.one() {
		return m.Apply(f, g, op)
	}
	if f.IsNull() || g.IsNull() {
		m.seterror(ErrNullEdge, "appquantify")
		return NullEdge, ErrNullEdge
	}
	if err := m.quantset2cache(cube); err != nil {
		return NullEdge, err
	}
	m.protect(f)
	m.protect(g)
	m.protect(cube)
	res, err := m.appquant(f, g, op, combine)
	m.unprotect(3)
	return res, err
}

func (m *Manager) appquant(f, g Edge, op int32, combine int32) (Edge, error) {
	if sc, ok := m.terminalShortcut(f, g, op); ok {
		return m.quant(sc, combine)
	}
	if m.isTerminal(f) && m.isTerminal(g) {
		return m.quant(m.constantResult(f, g, op), combine)
	}
	if m.levelOfEdge(f) > m.caches.quantlast && m.levelOfEdge(g) > m.caches.quantlast {
		return m.apply(f, g, op)
	}
	id := appexID(op, combine, m.caches.quantsetID)
	if res, ok := m.caches.ea.lookup(f, g, id); ok {
		return res, nil
	}
	pivot := m.pivotOf(f, g)
	rank := m.vars[pivot].rank
	fEls, fThen := m.cofactor(f, rank)
	gEls, gThen := m.cofactor(g, rank)

	lo, err := m.appquant(fEls, gEls, op, combine)
	if err != nil {
		return NullEdge, err
	}
	m.protect(lo)
	hi, err := m.appquant(fThen, gThen, op, combine)
	m.unprotect(1)
	if err != nil {
		return NullEdge, err
	}
	var res Edge
	if m.quantsetHas(pivot) {
		res, err = m.apply(lo, hi, combine)
	} else {
		res, err = m.mk(pivot, lo, hi)
	}
	if err != nil {
		return NullEdge, err
	}
	m.caches.ea.store(f, g, id, res)
	return res, nil
}

func appexID(op, combine, quantsetID int32) int32 {
	return 0x20000 | op<<4 | combine<<2 | (quantsetID & 0x3)
}

// Replacement maps each variable in its domain to a replacement variable;
// variables outside the domain are left untouched. Replace requires the
// mapping to respect the target order internally (it may re-sort children
// via correctify when it does not).
type Replacement struct {
	from []int32
	to   []int32
	id   int32
}

// NewReplacement builds a Replacement from a set of (from, to) variable
// pairs. gen should be a value unique to this mapping's lifetime (e.g. a
// monotonically increasing counter kept by the caller) so the replace cache
// can distinguish different mappings; reusing a gen value for a different
// mapping will return stale cache hits.
func NewReplacement(pairs [][2]int, gen int32) *Replacement {
	r := &Replacement{id: gen}
	for _, p := range pairs {
		r.from = append(r.from, int32(p[0]))
		r.to = append(r.to, int32(p[1]))
	}
	return r
}

func (r *Replacement) lookup(variable int32) (int32, bool) {
	for i, f := range r.from {
		if f == variable {
			return r.to[i], true
		}
	}
	return 0, false
}

// Replace substitutes variables in f according to r. The recursion rebuilds
// each level using the replaced variable's rank and then repairs ordering
// with correctify whenever the substitution crosses other nodes' levels.
func (m *Manager) Replace(f Edge, r *Replacement) (Edge, error) {
	if f.IsNull() {
		m.seterror(ErrNullEdge, "Replace")
		return NullEdge, ErrNullEdge
	}
	m.protect(f)
	res, err := m.replace(f, r)
	m.unprotect(1)
	return res, err
}

func (m *Manager) replace(f Edge, r *Replacement) (Edge, error) {
	if m.isTerminal(f) {
		return f, nil
	}
	variable := m.arena.nodes[f.target].variable
	to, ok := r.lookup(variable)
	if !ok {
		to = variable
	}
	if res, ok := m.caches.rc.lookup(f, r.id); ok {
		return res, nil
	}
	els, then := m.cofactor(f, m.vars[variable].rank)
	lo, err := m.replace(els, r)
	if err != nil {
		return NullEdge, err
	}
	m.protect(lo)
	hi, err := m.replace(then, r)
	m.unprotect(1)
	if err != nil {
		return NullEdge, err
	}
	res, err := m.correctify(to, lo, hi)
	if err != nil {
		return NullEdge, err
	}
	m.caches.rc.store(f, r.id, res)
	return res, nil
}

// correctify rebuilds a node on variable `to` with children lo, hi, fixing
// up ordering if `to`'s rank does not already sit above both children.
func (m *Manager) correctify(to int32, lo, hi Edge) (Edge, error) {
	toRank := m.vars[to].rank
	if toRank < m.levelOfEdge(lo) && toRank < m.levelOfEdge(hi) {
		return m.mk(to, lo, hi)
	}
	if toRank == m.levelOfEdge(lo) || toRank == m.levelOfEdge(hi) {
		return NullEdge, ErrReplaceOrder
	}

	loRank, hiRank := m.levelOfEdge(lo), m.levelOfEdge(hi)
	loEls, loThen := m.cofactor(lo, min32(loRank, hiRank))
	hiEls, hiThen := m.cofactor(hi, min32(loRank, hiRank))

	left, err := m.correctify(to, loEls, hiEls)
	if err != nil {
		return NullEdge, err
	}
	m.protect(left)
	right, err := m.correctify(to, loThen, hiThen)
	m.unprotect(1)
	if err != nil {
		return NullEdge, err
	}
	pivot := to
	if loRank <= hiRank {
		pivot = m.arena.nodes[lo.target].variable
	} else {
		pivot = m.arena.nodes[hi.target].variable
	}
	return m.mk(pivot, left, right)
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

// Support returns the cube of every variable f depends on. Memoized on node
// identity, not on variable: a reduced diagram routinely has several
// distinct nodes labeled with the same variable, and stopping at the first
// one seen would prune any variable reachable only beneath a later one.
func (m *Manager) Support(f Edge) (Edge, error) {
	if f.IsNull() {
		m.seterror(ErrNullEdge, "Support")
		return NullEdge, ErrNullEdge
	}
	seen := make(map[int32]bool)
	var vars []int
	m.walkMarked(f, func(i int32) {
		v := m.arena.nodes[i].variable
		if !seen[v] {
			seen[v] = true
			vars = append(vars, int(v))
		}
	})
	return m.Cube(vars)
}
