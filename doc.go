// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package mdd implements a family of Binary and Zero-suppressed Decision
Diagrams (BDD/ZDD) over a single, strongly-shared node arena. A Manager owns
all of the mutable state for one diagram variant: the node arena and its
unique (hash-consing) table, the variable order, the computed-table caches,
the formula table, and the age-based garbage collector.

Basics

Each Manager has a fixed variant, chosen at construction with New, and a set
of named variables, added with ExtVarnum. Every public operation takes a Manager
and one or more Edge values; an Edge is an opaque reference to a node in the
manager's arena, carrying a complement bit and a tag field (set only by
Edge.WithTag; the engine's own operations leave it 0). There is no implicit conversion between Edges of different
managers: use Copy to move a function from one manager to another, possibly
changing variant along the way.

Variants

Five diagram flavours share the same recursive-operator machinery:

	ObddPlain       ordered BDD, no complement edges
	ObddComplement  ordered BDD, complement edges, canonical high-edge form
	ZbddPlain       zero-suppressed BDD (combination sets), no complement
	ZbddComplement  zero-suppressed BDD with complement edges
	TaggedZbddPlain zero-suppressed BDD; no operation tags its edges, so it
	                builds the same diagrams as ZbddPlain

TaggedZbddComplement is reserved and not constructible; see DESIGN.md.

Use of a library stack

The engine is written in pure Go. Logging goes through zap, domain errors
are built with github.com/pkg/errors so a caller can recover the underlying
sentinel with errors.Cause, and graph visualisation goes through emicklei/dot
rather than hand-rolled string formatting.

Automatic memory management

The manager does not walk from GC roots on every call. Instead every node
carries an expiry relative to a monotonic system age counter; formulas
registered with KeepFormula or KeepFormulaUntilPurge prolong their whole
reachable sub-DAG before any collection that could otherwise reclaim them.
This lets the recursive
operators reason about liveness locally (checking one counter) instead of
mark-and-sweep from scratch at every allocation.
*/
package mdd
