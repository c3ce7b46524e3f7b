// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"strings"

	"github.com/pkg/errors"
)

// ISCAS-89 `.bench` netlist parser: one statement per line, either
// `INPUT(name)`, `OUTPUT(name)`, or `name = GATE(arg, ...)` for a gate in
// the fixed gate table shared with the Verilog parser. Identifiers starting
// with a digit are silently prefixed with "G". Lines
// are assumed topologically ordered, the standard convention for this file
// format (every gate's arguments were declared, as an INPUT or an earlier
// gate's output, before the line that uses them).
func (m *Manager) ParseBench(src string) ([]string, error) {
	wires := make(map[string]Edge)
	var outputs []string

	for lineno, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "INPUT("):
			name, err := benchArg(line, "INPUT(", lineno)
			if err != nil {
				return nil, err
			}
			v, err := m.findOrAddVariable(name)
			if err != nil {
				return nil, err
			}
			lit, err := m.Ithvar(int(v))
			if err != nil {
				return nil, err
			}
			wires[name] = lit

		case strings.HasPrefix(line, "OUTPUT("):
			name, err := benchArg(line, "OUTPUT(", lineno)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, name)

		default:
			name, gate, args, err := parseBenchGate(line, lineno)
			if err != nil {
				return nil, err
			}
			ins := make([]Edge, len(args))
			for i, a := range args {
				e, ok := wires[a]
				if !ok {
					return nil, errors.Wrapf(ErrParse, "bench:%d: undeclared wire %q", lineno+1, a)
				}
				ins[i] = e
			}
			res, err := m.evalGate(gate, ins)
			if err != nil {
				return nil, errors.Wrapf(err, "bench:%d", lineno+1)
			}
			wires[name] = res
		}
	}

	for _, name := range outputs {
		e, ok := wires[name]
		if !ok {
			return nil, errors.Wrapf(ErrParse, "bench: output %q was never driven", name)
		}
		if err := m.KeepFormulaUntilPurge(name, e); err != nil {
			return nil, err
		}
	}
	return outputs, nil
}

// benchNormalize prefixes a digit-leading identifier with "G".
func benchNormalize(name string) string {
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		return "G" + name
	}
	return name
}

func benchArg(line, prefix string, lineno int) (string, error) {
	if !strings.HasSuffix(line, ")") {
		return "", errors.Wrapf(ErrParse, "bench:%d: expected closing ')'", lineno+1)
	}
	return benchNormalize(strings.TrimSpace(line[len(prefix) : len(line)-1])), nil
}

func parseBenchGate(line string, lineno int) (name, gate string, args []string, err error) {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return "", "", nil, errors.Wrapf(ErrParse, "bench:%d: expected 'name = GATE(args)'", lineno+1)
	}
	name = benchNormalize(strings.TrimSpace(line[:eq]))
	rhs := strings.TrimSpace(line[eq+1:])
	open := strings.Index(rhs, "(")
	if open < 0 || !strings.HasSuffix(rhs, ")") {
		return "", "", nil, errors.Wrapf(ErrParse, "bench:%d: malformed gate expression", lineno+1)
	}
	gate = strings.ToLower(strings.TrimSpace(rhs[:open]))
	inner := rhs[open+1 : len(rhs)-1]
	for _, a := range strings.Split(inner, ",") {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		args = append(args, benchNormalize(a))
	}
	return name, gate, args, nil
}

// evalGate computes the BDD for one instance of the shared gate table
// {buf, and, nand, or, nor, xor, xnor, not, inv} over its driver edges.
func (m *Manager) evalGate(gate string, ins []Edge) (Edge, error) {
	switch gate {
	case "buf", "buff":
		if len(ins) != 1 {
			return NullEdge, errors.New("buf takes one argument")
		}
		return ins[0], nil
	case "not", "inv":
		if len(ins) != 1 {
			return NullEdge, errors.New("not takes one argument")
		}
		return m.Not(ins[0])
	case "and":
		return m.foldGate(ins, m.And)
	case "nand":
		res, err := m.foldGate(ins, m.And)
		if err != nil {
			return NullEdge, err
		}
		return m.Not(res)
	case "or":
		return m.foldGate(ins, m.Or)
	case "nor":
		res, err := m.foldGate(ins, m.Or)
		if err != nil {
			return NullEdge, err
		}
		return m.Not(res)
	case "xor":
		return m.foldGate(ins, m.Xor)
	case "xnor":
		res, err := m.foldGate(ins, m.Xor)
		if err != nil {
			return NullEdge, err
		}
		return m.Not(res)
	default:
		return NullEdge, errors.Errorf("unknown gate %q", gate)
	}
}

func (m *Manager) foldGate(ins []Edge, op func(Edge, Edge) (Edge, error)) (Edge, error) {
	if len(ins) == 0 {
		return NullEdge, errors.New("gate takes at least one argument")
	}
	res := ins[0]
	for _, e := range ins[1:] {
		var err error
		res, err = op(res, e)
		if err != nil {
			return NullEdge, err
		}
	}
	return res, nil
}
