// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "strconv"

// _TERMINALRANK is the sentinel rank given to the reserved terminal variable
// (id 0) so it always sorts after every real variable in the ordering
// relation, without requiring variable 0 itself to be a valid, swappable
// variable. Variable 0 is reserved for the terminal here; BuDDy instead
// gives the terminal the numerically largest *variable id*, which this
// package cannot do without also making id 0 a real variable.
const _TERMINALRANK int32 = 1<<31 - 1

// variableInfo holds everything the engine tracks per declared variable:
// its two canonical literal edges, its live-node list (for GC and stats),
// and its position in the current variable order (for sifting). Variable 0
// is a reserved slot representing the terminal and is never swapped.
type variableInfo struct {
	name string

	rank int32 // position in the current order; see _TERMINALRANK

	ithvar  Edge // canonical edge for mk(variable, zero, one)
	nithvar Edge // canonical edge for mk(variable, one, zero)

	nodeHead int32 // head of this variable's live-node list, -1 if empty
	nodeTail int32
	liveCount int

	orderPrev int32 // variable id one rank up, -1 if this is the top
	orderNext int32 // variable id one rank down, -1 if this is the bottom
}

// newVariableTable returns a table holding only the reserved terminal slot
// (index 0); addVariables appends the real variables.
func newVariableTable() []variableInfo {
	return []variableInfo{{
		name:     "$terminal",
		rank:     _TERMINALRANK,
		nodeHead: -1,
		nodeTail: -1,
		orderPrev: -1,
		orderNext: -1,
	}}
}

// level reports the current rank of variable v in the order (lower sorts
// earlier / closer to the root).
func (m *Manager) level(v int32) int32 {
	return m.vars[v].rank
}

// varAtRank returns the variable id occupying rank r, by walking the
// doubly-linked order list from the top, or 0 if no variable has rank r.
// Nothing in the package calls it.
func (m *Manager) varAtRank(r int32) int32 {
	for v := m.top; v >= 0; v = m.vars[v].orderNext {
		if m.vars[v].rank == r {
			return v
		}
	}
	return 0
}

// ExtVarnum extends the Manager's variable table with n extra variables,
// appended at the bottom of the current order, the public entry point to
// addVariables (named after BuDDy's bdd_extvarnum).
func (m *Manager) ExtVarnum(n int) error {
	if n < 0 || int32(m.Varnum()+n) > _MAXVAR {
		return ErrBadVarnum
	}
	return m.addVariables(n)
}

// addVariables grows the variable table by n fresh variables, appended at
// the bottom of the current order (just above the terminal), and creates
// their canonical literal nodes.
func (m *Manager) addVariables(n int) error {
	for i := 0; i < n; i++ {
		id := int32(len(m.vars))
		if id > _MAXVAR {
			return ErrBadVarnum
		}
		vi := variableInfo{
			name:      defaultVarName(id),
			nodeHead:  -1,
			nodeTail:  -1,
			orderPrev: m.bottom,
			orderNext: -1,
		}
		m.vars = append(m.vars, vi)
		if m.bottom >= 0 {
			m.vars[m.bottom].orderNext = id
		} else {
			m.top = id
		}
		m.bottom = id
		m.renumber()

		ith, err := m.mk(id, m.zero(), m.one())
		if err != nil {
			return err
		}
		m.permanent(ith)
		m.protect(ith)
		nith, err := m.mk(id, m.one(), m.zero())
		m.unprotect(1)
		if err != nil {
			return err
		}
		m.permanent(nith)
		m.vars[id].ithvar = ith
		m.vars[id].nithvar = nith
	}
	return nil
}

// renumber recomputes every real variable's rank from the order list. It
// runs in O(varnum) and is only called when a variable is created, never on
// the hot evaluation path; an adjacent swap exchanges the two ranks itself.
func (m *Manager) renumber() {
	r := int32(0)
	for v := m.top; v >= 0; v = m.vars[v].orderNext {
		m.vars[v].rank = r
		r++
	}
}

func defaultVarName(id int32) string {
	return "v" + strconv.Itoa(int(id))
}

// VariableName returns the declared name of variable v, or "" if v is out of
// range.
func (m *Manager) VariableName(v int) string {
	if v < 1 || v > m.Varnum() {
		return ""
	}
	return m.vars[v].name
}

// VariableByName returns the id of the variable named name, and whether it
// was found.
func (m *Manager) VariableByName(name string) (int, bool) {
	for id := 1; id <= m.Varnum(); id++ {
		if m.vars[id].name == name {
			return id, true
		}
	}
	return 0, false
}

// SetVariableName renames variable v.
func (m *Manager) SetVariableName(v int, name string) error {
	if v < 1 || v > m.Varnum() {
		m.seterror(ErrUnknownVariable, "SetVariableName(%d)", v)
		return ErrUnknownVariable
	}
	m.vars[v].name = name
	return nil
}

// findOrAddVariable returns the id of the variable named name, declaring a
// fresh one (appended at the bottom of the order) if none exists yet.
func (m *Manager) findOrAddVariable(name string) (int32, error) {
	if id, ok := m.VariableByName(name); ok {
		return int32(id), nil
	}
	if err := m.addVariables(1); err != nil {
		return 0, err
	}
	id := int32(m.Varnum())
	m.vars[id].name = name
	return id, nil
}
