// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Edge is the fundamental value of the package: a reference to a node in a
// Manager's arena, carrying a complement bit and, for tagged variants, a tag
// variable. Edges from different managers are never interchangeable; use
// Copy to move a function across managers.
//
// On 64-bit hosts a production implementation typically packs the
// complement bit into the low pointer bit and the tag into high pointer
// bits; Go gives us no honest way to steal bits from a slice index without
// unsafe trickery that would not survive a GC-relocated backing array, so we
// keep the three logical fields in a small struct and hide them behind
// accessors instead.
type Edge struct {
	target int32 // index into the owning Manager's node arena; -1 is null
	comp   bool  // complement bit
	tag    int32 // tag variable for tagged variants; 0 means "no tag"
}

// NullEdge is distinguishable from every real edge.
var NullEdge = Edge{target: -1}

// Target returns the node this Edge points to, ignoring complement and tag.
func (e Edge) Target() int32 { return e.target }

// Complemented reports whether this Edge carries the complement bit.
func (e Edge) Complemented() bool { return e.comp }

// Tag returns the tag variable carried by this Edge (0 if none/untagged).
func (e Edge) Tag() int32 { return e.tag }

// WithComplement returns a copy of e with the complement bit set to c.
func (e Edge) WithComplement(c bool) Edge {
	e.comp = c
	return e
}

// WithTag returns a copy of e with the tag variable set to v.
func (e Edge) WithTag(v int32) Edge {
	e.tag = v
	return e
}

// not returns e with the complement bit flipped, regardless of variant; this
// is a raw bit flip and does not, by itself, enforce any variant's
// canonical-form invariant. Callers outside this package should use
// Manager.Not instead.
func (e Edge) not() Edge {
	e.comp = !e.comp
	return e
}

// IsNull reports whether e is the null edge.
func (e Edge) IsNull() bool { return e.target < 0 }

func mkedge(target int32) Edge { return Edge{target: target} }
