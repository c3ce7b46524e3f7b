// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"github.com/pkg/errors"
)

// Sentinel errors for the domain and resource-exhaustion error classes.
// Callers can recover one of these with errors.Cause even though the error
// returned by an operation carries a stack trace and a contextual message.
var (
	// ErrNullEdge is returned when an operator receives a null Edge.
	ErrNullEdge = errors.New("null edge")
	// ErrWrongVariant is returned when an Edge or cube from one variant is
	// used with a Manager of another variant.
	ErrWrongVariant = errors.New("wrong variant")
	// ErrUnknownVariable is returned when a variable name or index is not
	// registered in the Manager.
	ErrUnknownVariable = errors.New("unknown variable")
	// ErrMemory signals allocation exhaustion: the node arena could not be
	// grown further under the manager's configured limits.
	ErrMemory = errors.New("unable to free memory or resize the node arena")
	// ErrBadVarnum is returned by New and ExtVarnum for an invalid variable count.
	ErrBadVarnum = errors.New("bad number of variables")
	// ErrParse is returned by the prefix, infix, Verilog and bench parsers.
	ErrParse = errors.New("parse error")
	// ErrReplaceOrder signals that Replace produced a target variable whose
	// rank collides with one of its own cofactors' ranks; this is an
	// invariant violation in the replacement mapping, not a recoverable
	// domain error.
	ErrReplaceOrder = errors.New("replace: target variable collides with cofactor order")
	// ErrInvalidSwap signals that swapAdjacent was asked to swap two
	// variables that are not, in fact, adjacent in the current order.
	ErrInvalidSwap = errors.New("swap: variables are not adjacent")
	// ErrNotACube is returned by Scanset when its argument is not a chain of
	// positive literals terminated by True.
	ErrNotACube = errors.New("not a cube")
)

// errReset and errResize are internal sentinels naming the two outcomes of
// arena pressure (a GC pass, a resize). Nothing returns them: alloc and mk
// report only nil or ErrMemory.
var (
	errReset  = errors.New("arena: gc ran without resize")
	errResize = errors.New("arena: arena was resized")
)

// seterror records the manager's sticky error state and returns a null Edge,
// chaining error messages so the earlier failure's message leads, while
// errors.Cause still returns the most recent cause.
func (m *Manager) seterror(cause error, format string, a ...interface{}) Edge {
	wrapped := errors.Wrapf(cause, format, a...)
	if m.err != nil {
		wrapped = errors.Wrap(wrapped, m.err.Error())
	}
	m.err = wrapped
	if m.logger != nil {
		m.logger.Debugw("manager error", "error", wrapped)
	}
	return NullEdge
}

// Error returns the error status of the Manager, or an empty string if there
// is none.
func (m *Manager) Error() string {
	if m.err == nil {
		return ""
	}
	return m.err.Error()
}

// Errored returns true if a prior call left the Manager in an error state.
func (m *Manager) Errored() bool {
	return m.err != nil
}

// ClearError resets the sticky error state, allowing the Manager to be used
// again after a recoverable failure (e.g. ErrUnknownVariable from a
// best-effort lookup).
func (m *Manager) ClearError() {
	m.err = nil
}
