// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Manager owns one node arena, one variable order and one family of named
// and anonymous formulas, all sharing a single Variant for their lifetime.
// A Manager is not safe for concurrent use; callers that need concurrency
// should either confine a Manager to one goroutine or guard it with their
// own lock.
type Manager struct {
	variant Variant

	arena *arena
	vars  []variableInfo // index 0 is the reserved terminal slot
	top   int32          // variable id at rank 0, -1 if no real variable yet
	bottom int32         // variable id at the highest rank, -1 if none

	zeroEdge Edge
	oneEdge  Edge

	caches *cacheSet

	formulas *formulaTable

	age      uint32 // monotonically increasing GC generation counter
	refstack []Edge // transient roots protected across the current call chain

	config *configs
	logger *zap.SugaredLogger

	err error
}

// New creates a Manager for the given Variant, pre-allocating room for
// varnum variables. Options configure the arena and cache sizing and attach
// a logger.
func New(variant Variant, varnum int, options ...func(*configs)) (*Manager, error) {
	if !variant.valid() {
		return nil, errors.Errorf("mdd: unknown variant %d", int(variant))
	}
	if varnum < 0 || int32(varnum) > _MAXVAR {
		return nil, ErrBadVarnum
	}
	cfg := makeconfigs(varnum)
	for _, opt := range options {
		opt(cfg)
	}

	m := &Manager{
		variant:  variant,
		arena:    newArena(cfg.nodesize),
		vars:     newVariableTable(),
		top:      -1,
		bottom:   -1,
		config:   cfg,
		logger:   cfg.logger,
		refstack: make([]Edge, 0, 2*varnum+4),
	}
	m.formulas = newFormulaTable()
	m.caches = newCacheSet(cfg)

	if err := m.initTerminals(); err != nil {
		return nil, err
	}
	if err := m.addVariables(varnum); err != nil {
		return nil, err
	}
	return m, nil
}

// Variant reports the diagram flavour this Manager was built with.
func (m *Manager) Variant() Variant { return m.variant }

// Varnum reports the number of declared variables.
func (m *Manager) Varnum() int { return len(m.vars) - 1 }

// initTerminals builds the reserved terminal node(s) for this Manager's
// variant. Complement variants share a single physical terminal (zero is
// its complement); plain variants use two physical terminals, mirroring the
// BuDDy's bddzero=0/bddone=1 convention.
func (m *Manager) initTerminals() error {
	a := m.arena
	i0, err := m.alloc()
	if err != nil {
		return err
	}
	a.nodes[i0] = node{variable: 0, els: Edge{target: -1}, then: Edge{target: -1}, expiry: _MAXREFCOUNT}
	m.link(i0)
	if m.variant.hasComplement() {
		m.zeroEdge = Edge{target: i0, comp: true}
		m.oneEdge = Edge{target: i0, comp: false}
		return nil
	}
	i1, err := m.alloc()
	if err != nil {
		return err
	}
	a.nodes[i1] = node{variable: 0, els: Edge{target: -1}, then: Edge{target: -1}, expiry: _MAXREFCOUNT}
	m.link(i1)
	m.zeroEdge = Edge{target: i0}
	m.oneEdge = Edge{target: i1}
	return nil
}

func (m *Manager) zero() Edge { return m.zeroEdge }
func (m *Manager) one() Edge  { return m.oneEdge }

// False returns the constant false/empty-set function.
func (m *Manager) False() Edge { return m.zero() }

// True returns the constant true/full-set function.
func (m *Manager) True() Edge { return m.one() }

// isTerminal reports whether e denotes one of this Manager's terminals.
func (m *Manager) isTerminal(e Edge) bool {
	return !e.IsNull() && m.arena.nodes[e.target].variable == 0
}

// Ithvar returns the canonical positive-literal edge for variable v (the
// function/set that is true exactly when v is asserted).
func (m *Manager) Ithvar(v int) (Edge, error) {
	if v < 1 || v > m.Varnum() {
		m.seterror(ErrUnknownVariable, "Ithvar(%d)", v)
		return NullEdge, ErrUnknownVariable
	}
	return m.vars[v].ithvar, nil
}

// NIthvar returns the canonical negated-literal edge for variable v. For
// zero-suppressed variants this coincides with True, since a ZDD node
// cannot have a zero "then" branch (the reduction rule collapses it); the
// edge is still well-defined, just not independently useful.
func (m *Manager) NIthvar(v int) (Edge, error) {
	if v < 1 || v > m.Varnum() {
		m.seterror(ErrUnknownVariable, "NIthvar(%d)", v)
		return NullEdge, ErrUnknownVariable
	}
	return m.vars[v].nithvar, nil
}

// mk is the canonicalizing node constructor: given a candidate (variable,
// els, then) triple it applies the current variant's
// reduction rule and canonical complement placement, then resolves the
// result through the unique table, allocating a fresh node only on a miss.
func (m *Manager) mk(variable int32, els, then Edge) (Edge, error) {
	if els.IsNull() || then.IsNull() {
		return NullEdge, ErrNullEdge
	}

	if m.variant.isZsuppressed() {
		if then == m.zero() {
			return els, nil
		}
	} else {
		if els == then {
			return els, nil
		}
	}

	comp := false
	lookupEls, lookupThen := els, then
	if m.variant.hasComplement() {
		// Canonical form: the "then" edge stored in the unique table is
		// never complemented. If the caller's then edge is complemented we
		// push that complement up onto the result and flip both children.
		if then.comp {
			comp = true
			lookupThen = then.not()
			lookupEls = els.not()
		}
	}

	if i, ok := m.arena.lookup(variable, lookupEls, lookupThen, 0); ok {
		return Edge{target: i, comp: comp}, nil
	}

	i, err := m.alloc()
	if err != nil {
		return NullEdge, err
	}
	m.arena.nodes[i].variable = variable
	m.arena.nodes[i].els = lookupEls
	m.arena.nodes[i].then = lookupThen
	m.link(i)
	return Edge{target: i, comp: comp}, nil
}

// protect pushes e onto the transient refstack, keeping it (and its
// reachable sub-DAG) alive across any GC pass triggered while it is on the
// stack but before it has been assigned to a formula. Callers
// must pair every protect with a matching unprotect once e has either been
// installed as a formula root or is no longer needed.
func (m *Manager) protect(e Edge) {
	m.refstack = append(m.refstack, e)
}

// unprotect pops the most recently protected n edges off the refstack.
func (m *Manager) unprotect(n int) {
	m.refstack = m.refstack[:len(m.refstack)-n]
}

// permanent marks e's target node as never reclaimable, used for the two
// terminals and the per-variable literal nodes: a saturated expiry value
// that a GC sweep never considers stale.
func (m *Manager) permanent(e Edge) {
	if !e.IsNull() {
		m.arena.nodes[e.target].expiry = _MAXREFCOUNT
	}
}
