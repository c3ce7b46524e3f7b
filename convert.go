// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Cross-manager copy and same-manager variant conversion, grounded on
// Biddy's BiddyCopy/BiddyConvert family. Both operations are the same
// depth-first reconstruction:
// walk the source edge, recreate each node (by variable name, creating the
// variable in the destination if it is not already declared there) through
// the destination Manager's own find-or-add, and memoize by source node so
// shared structure stays shared in the copy.

// Copy reconstructs f, which belongs to src, as an equivalent edge in dst.
// Variables are matched by name across the two managers; a variable src has
// that dst lacks is declared in dst (appended at the bottom of its order).
// Copy works across managers of different variants: the reconstruction goes
// through dst's own mk, so the destination variant's reduction and
// complement-placement rules apply to the copy, exactly as they would to
// any other edge dst builds.
func Copy(dst, src *Manager, f Edge) (Edge, error) {
	if f.IsNull() {
		dst.seterror(ErrNullEdge, "Copy")
		return NullEdge, ErrNullEdge
	}
	if dst == src {
		return f, nil
	}
	// Declare src's variables in src's order first, so every mk below sees
	// its children's variables already placed beneath its own.
	for v := src.top; v >= 0; v = src.vars[v].orderNext {
		if _, err := dst.findOrAddVariable(src.vars[v].name); err != nil {
			return NullEdge, err
		}
	}
	memo := make(map[Edge]Edge)
	return copyRec(dst, src, f, memo)
}

func copyRec(dst, src *Manager, f Edge, memo map[Edge]Edge) (Edge, error) {
	if f == src.zero() {
		return dst.zero(), nil
	}
	if f == src.one() {
		return dst.one(), nil
	}
	if res, ok := memo[f]; ok {
		return res, nil
	}

	n := &src.arena.nodes[f.target]
	name := src.vars[n.variable].name
	variable, err := dst.findOrAddVariable(name)
	if err != nil {
		return NullEdge, err
	}

	els, then := n.els, n.then
	if f.comp {
		els, then = els.not(), then.not()
	}

	lo, err := copyRec(dst, src, els, memo)
	if err != nil {
		return NullEdge, err
	}
	dst.protect(lo)
	hi, err := copyRec(dst, src, then, memo)
	dst.unprotect(1)
	if err != nil {
		return NullEdge, err
	}

	res, err := dst.mk(variable, lo, hi)
	if err != nil {
		return NullEdge, err
	}
	memo[f] = res
	return res, nil
}

// Convert reconstructs f, which belongs to this Manager, as an equivalent
// edge of a fresh Manager of the given Variant (and the same variable
// names, in the same order). It is Copy specialized to copying within the
// engine into a sibling Manager that differs only in variant.
func (m *Manager) Convert(variant Variant, f Edge) (*Manager, Edge, error) {
	if f.IsNull() {
		m.seterror(ErrNullEdge, "Convert")
		return nil, NullEdge, ErrNullEdge
	}
	target, err := New(variant, 0)
	if err != nil {
		return nil, NullEdge, err
	}
	res, err := Copy(target, m, f)
	if err != nil {
		return nil, NullEdge, err
	}
	return target, res, nil
}
