// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"math/big"
	"math/rand"
)

// Observational queries: CountNodes, CountPaths, CountMinterms,
// DensityOfFunction, ExtractMinterm, plus Allsat/Allnodes adapted from
// classic BuDDy-style satcount()/allsat()/allnodes() to the variant-aware
// cofactor, and RandomFunction/RandomSet for generating test fixtures,
// using math/rand as the ecosystem's standard source of pseudo-randomness.

// CountNodes returns the number of distinct non-terminal nodes in the
// sub-DAG reachable from f.
func (m *Manager) CountNodes(f Edge) int {
	if f.IsNull() {
		return 0
	}
	count := 0
	m.walkMarked(f, func(i int32) { count++ })
	return count
}

// CountNodesPlain is CountNodes plus one for the terminal, counted once even
// in a variant with two terminal nodes; the non-terminal part is f's own
// diagram, complement edges included. For a constant f it returns 0.
func (m *Manager) CountNodesPlain(f Edge) int {
	if f.IsNull() {
		return 0
	}
	n := m.CountNodes(f)
	if !m.isTerminal(f) || n > 0 {
		n++ // the terminal itself
	}
	return n
}

// walkMarked runs visit once per distinct non-terminal node reachable from
// f, using each node's mark bit as the visited set, then clears every mark
// it set.
func (m *Manager) walkMarked(f Edge, visit func(i int32)) {
	var marked []int32
	var walk func(Edge)
	walk = func(e Edge) {
		if m.isTerminal(e) {
			return
		}
		n := &m.arena.nodes[e.target]
		if n.mark {
			return
		}
		n.mark = true
		marked = append(marked, e.target)
		visit(e.target)
		walk(n.els)
		walk(n.then)
	}
	walk(f)
	for _, i := range marked {
		m.arena.nodes[i].mark = false
	}
}

// CountPaths returns the number of distinct root-to-one paths in f (for a
// zero-suppressed variant, equivalently the number of combinations in the
// represented family).
func (m *Manager) CountPaths(f Edge) *big.Int {
	memo := make(map[Edge]*big.Int)
	return m.countpaths(f, memo)
}

func (m *Manager) countpaths(f Edge, memo map[Edge]*big.Int) *big.Int {
	zero, one := m.zero(), m.one()
	if f == zero {
		return big.NewInt(0)
	}
	if f == one {
		return big.NewInt(1)
	}
	if v, ok := memo[f]; ok {
		return v
	}
	rank := m.levelOfEdge(f)
	els, then := m.cofactor(f, rank)
	res := new(big.Int).Add(m.countpaths(els, memo), m.countpaths(then, memo))
	memo[f] = res
	return res
}

// CountMinterms returns the number of satisfying assignments of f over
// nvars variables, using arbitrary-precision arithmetic. For the ordered
// variants, a variable the diagram skips over is a genuine don't-care and
// doubles the count at that point (the classic satcount() convention). For
// the zero-suppressed variants a skipped variable means "forced absent",
// not "don't care", so it contributes no multiplicity; nvars only documents
// the ambient universe count-minterms is reported against, it does not
// scale the result.
func (m *Manager) CountMinterms(f Edge, nvars int) *big.Int {
	if f.IsNull() {
		return big.NewInt(0)
	}
	memo := make(map[Edge]*big.Int)
	res := m.countminterms(f, nvars, memo)
	if m.variant.isZsuppressed() {
		return res
	}
	// Ranks run 0..nvars-1 for real variables; a root at rank r skips the r
	// variables ranked above it, each a don't-care that doubles the count.
	top := int32(nvars)
	if !m.isTerminal(f) {
		top = m.levelOfEdge(f)
	}
	scale := new(big.Int).Lsh(big.NewInt(1), uint(top))
	return res.Mul(res, scale)
}

func (m *Manager) countminterms(f Edge, nvars int, memo map[Edge]*big.Int) *big.Int {
	zero, one := m.zero(), m.one()
	if f == zero {
		return big.NewInt(0)
	}
	if f == one {
		return big.NewInt(1)
	}
	if v, ok := memo[f]; ok {
		return v
	}
	rank := m.levelOfEdge(f)
	els, then := m.cofactor(f, rank)

	elsCount := m.countminterms(els, nvars, memo)
	thenCount := m.countminterms(then, nvars, memo)
	if !m.variant.isZsuppressed() {
		elsCount = new(big.Int).Lsh(elsCount, uint(m.gapBelow(els, rank, nvars)))
		thenCount = new(big.Int).Lsh(thenCount, uint(m.gapBelow(then, rank, nvars)))
	}

	res := new(big.Int).Add(elsCount, thenCount)
	memo[f] = res
	return res
}

// gapBelow returns the number of variables strictly between parentRank and
// e's own top rank, using nvars (one past the last real variable's rank,
// which runs 0..nvars-1) in place of the terminal's rank when e is a
// terminal (matching the classic level(low)-level-1 computation in
// satcount(), generalized from a fixed variable count to the
// caller-supplied nvars).
func (m *Manager) gapBelow(e Edge, parentRank int32, nvars int) int {
	child := int32(nvars)
	if !m.isTerminal(e) {
		child = m.levelOfEdge(e)
	}
	return int(child-parentRank) - 1
}

// DensityOfFunction returns the fraction of the 2^nvars possible
// assignments that satisfy f.
func (m *Manager) DensityOfFunction(f Edge, nvars int) float64 {
	count := new(big.Float).SetInt(m.CountMinterms(f, nvars))
	total := new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(nvars)))
	density, _ := new(big.Float).Quo(count, total).Float64()
	return density
}

// ExtractMinterm returns one satisfying assignment of f as a map from
// variable to its forced value, covering the variables of the one path it
// follows from the root (taking the then branch whenever it is not
// zero); variables off that path are not in the map. ok is false if f is
// unsatisfiable.
func (m *Manager) ExtractMinterm(f Edge) (map[int]bool, bool) {
	if f.IsNull() || f == m.zero() {
		return nil, false
	}
	assign := make(map[int]bool)
	cur := f
	for !m.isTerminal(cur) {
		n := &m.arena.nodes[cur.target]
		rank := m.vars[n.variable].rank
		els, then := m.cofactor(cur, rank)
		if then != m.zero() {
			assign[int(n.variable)] = true
			cur = then
		} else {
			assign[int(n.variable)] = false
			cur = els
		}
	}
	if cur != m.one() {
		return nil, false
	}
	return assign, true
}

// Allsat visits every satisfying assignment of f, calling visit with a
// profile slice indexed by variable id (1..Varnum): 1 for asserted, 0 for
// negated, -1 for don't-care, for the ordered variants. Zero-suppressed
// variants have no don't-care reading (the cofactor convention treats an
// absent variable as forced to 0), so skipped variables are
// filled with 0 instead of -1 there.
func (m *Manager) Allsat(f Edge, visit func(profile []int) error) error {
	if f.IsNull() {
		m.seterror(ErrNullEdge, "Allsat")
		return ErrNullEdge
	}
	fill := -1
	if m.variant.isZsuppressed() {
		fill = 0
	}
	profile := make([]int, m.Varnum()+1)
	for i := range profile {
		profile[i] = fill
	}
	return m.allsat(f, profile, fill, visit)
}

func (m *Manager) allsat(f Edge, profile []int, fill int, visit func([]int) error) error {
	if f == m.one() {
		return visit(profile)
	}
	if f == m.zero() {
		return nil
	}
	n := &m.arena.nodes[f.target]
	rank := m.vars[n.variable].rank
	els, then := m.cofactor(f, rank)

	if els != m.zero() || m.variant.isZsuppressed() {
		profile[n.variable] = 0
		m.fillGap(profile, rank, els, fill)
		if err := m.allsat(els, profile, fill, visit); err != nil {
			return err
		}
	}
	if then != m.zero() {
		profile[n.variable] = 1
		m.fillGap(profile, rank, then, fill)
		if err := m.allsat(then, profile, fill, visit); err != nil {
			return err
		}
	}
	profile[n.variable] = fill
	return nil
}

func (m *Manager) fillGap(profile []int, parentRank int32, e Edge, fill int) {
	childRank := _TERMINALRANK
	if !m.isTerminal(e) {
		childRank = m.levelOfEdge(e)
	}
	for v := range m.vars {
		if v == 0 {
			continue
		}
		r := m.vars[v].rank
		if r > parentRank && r < childRank {
			profile[v] = fill
		}
	}
}

// Allnodes visits every node reachable from f (or, if roots is empty, every
// live node in the Manager), calling visit with the node's raw index, its
// variable's rank, and its else/then targets' indices.
func (m *Manager) Allnodes(visit func(id int32, rank int32, els, then int32) error, roots ...Edge) error {
	if len(roots) == 0 {
		for i := range m.arena.nodes {
			n := &m.arena.nodes[i]
			if n.free || n.variable == 0 {
				continue
			}
			if err := visit(int32(i), m.vars[n.variable].rank, n.els.target, n.then.target); err != nil {
				return err
			}
		}
		return nil
	}
	var err error
	for _, f := range roots {
		m.walkMarked(f, func(i int32) {
			if err != nil {
				return
			}
			n := &m.arena.nodes[i]
			err = visit(i, m.vars[n.variable].rank, n.els.target, n.then.target)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RandomFunction builds a pseudo-random function over the Manager's
// declared variables by repeatedly combining random literals with a random
// binary operator, mostly useful for generating test fixtures.
func (m *Manager) RandomFunction(rng *rand.Rand, ops int) (Edge, error) {
	if m.Varnum() == 0 {
		return m.one(), nil
	}
	res, err := m.Ithvar(1 + rng.Intn(m.Varnum()))
	if err != nil {
		return NullEdge, err
	}
	binops := []int32{opAnd, opOr, opXor, opBiimp}
	for i := 0; i < ops; i++ {
		lit, err := m.Ithvar(1 + rng.Intn(m.Varnum()))
		if err != nil {
			return NullEdge, err
		}
		res, err = m.Apply(res, lit, binops[rng.Intn(len(binops))])
		if err != nil {
			return NullEdge, err
		}
	}
	return res, nil
}

// RandomSet builds a pseudo-random combination-set ZDD over the Manager's
// declared variables, by unioning a number of randomly chosen combinations.
func (m *Manager) RandomSet(rng *rand.Rand, combinations int) (Edge, error) {
	if err := m.requireZsuppressed("RandomSet"); err != nil {
		return NullEdge, err
	}
	res := m.zero()
	for i := 0; i < combinations; i++ {
		combo := m.one()
		for v := 1; v <= m.Varnum(); v++ {
			if rng.Intn(2) == 1 {
				var err error
				combo, err = m.Change(combo, v)
				if err != nil {
					return NullEdge, err
				}
			}
		}
		m.protect(res)
		m.protect(combo)
		next, err := m.Union(res, combo)
		m.unprotect(2)
		if err != nil {
			return NullEdge, err
		}
		res = next
	}
	return res, nil
}
