// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"strings"

	"github.com/pkg/errors"
)

// Verilog-subset parser. Two passes, matching Biddy's
// parseVerilogFile/createVerilogCircuit split in biddyInOut.c: the first
// tokenizes every line and categorizes it as
// module/input/output/wire/reg/gate-instantiation/endmodule, silently
// setting aside anything else for diagnostics rather than failing; the
// second builds the circuit for the first module found, creating every
// input as a BDD variable up front (required for the zero-suppressed
// variants' parser-ordering), evaluating each gate's BDD from its
// already-computed drivers via the gate table shared with the bench
// parser, and registering each output as a permanent, optionally prefixed
// named formula.

// verilogLineKind classifies one source line during the first pass.
type verilogLineKind int

const (
	vlUnknown verilogLineKind = iota
	vlModule
	vlInput
	vlOutput
	vlWire
	vlReg
	vlGate
	vlEndmodule
)

type verilogLine struct {
	kind verilogLineKind
	text string
}

// VerilogResult reports what a Verilog parse produced: the output signal
// names (in declaration order) and any source lines the first pass could
// not categorize, kept for diagnostics rather than causing the parse to
// fail.
type VerilogResult struct {
	Outputs   []string
	Unhandled []string
}

// ParseVerilog parses the first module in src and registers its outputs as
// named formulas, optionally prefixed (pass "" for no prefix).
func (m *Manager) ParseVerilog(src string, prefix string) (*VerilogResult, error) {
	lines := classifyVerilogLines(src)

	var inputs, outputs, wires []string
	var gates []string
	var unhandled []string
	inModule := false
	moduleDone := false

	for _, l := range lines {
		switch l.kind {
		case vlModule:
			if !inModule && !moduleDone {
				inModule = true
			}
		case vlEndmodule:
			if inModule {
				// Only the first module is built; later ones are ignored.
				inModule = false
				moduleDone = true
			}
		case vlInput:
			if inModule {
				inputs = append(inputs, verilogSignalNames(l.text)...)
			}
		case vlOutput:
			if inModule {
				outputs = append(outputs, verilogSignalNames(l.text)...)
			}
		case vlWire, vlReg:
			if inModule {
				wires = append(wires, verilogSignalNames(l.text)...)
			}
		case vlGate:
			if inModule {
				gates = append(gates, l.text)
			}
		default:
			unhandled = append(unhandled, l.text)
		}
	}
	if len(inputs) == 0 && len(gates) == 0 {
		return nil, errors.Wrap(ErrParse, "verilog: no module body found")
	}

	wireEdge := make(map[string]Edge, len(inputs)+len(wires))
	for _, name := range inputs {
		v, err := m.findOrAddVariable(name)
		if err != nil {
			return nil, err
		}
		lit, err := m.Ithvar(int(v))
		if err != nil {
			return nil, err
		}
		wireEdge[name] = lit
	}

	instances := make([]verilogGate, 0, len(gates))
	for i, g := range gates {
		inst, err := parseVerilogGate(g, i)
		if err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	outputFirst := detectPortConvention(instances, wireEdge)

	lastConsumer := make(map[string]int)
	for i, inst := range instances {
		args := gateDataArgs(inst, outputFirst)
		for _, a := range args {
			lastConsumer[a] = i
		}
	}

	for i, inst := range instances {
		args := gateDataArgs(inst, outputFirst)
		driver := gateDriverName(inst, outputFirst)
		ins := make([]Edge, len(args))
		for j, a := range args {
			e, ok := wireEdge[a]
			if !ok {
				return nil, errors.Wrapf(ErrParse, "verilog: undeclared net %q", a)
			}
			ins[j] = e
		}
		res, err := m.evalGate(inst.gate, ins)
		if err != nil {
			return nil, errors.Wrapf(err, "verilog gate %d", i)
		}
		wireEdge[driver] = res
		if last, ok := lastConsumer[driver]; ok && last > i {
			if err := m.KeepFormula(res, uint32(last-i)); err != nil {
				return nil, err
			}
		}
	}

	for _, name := range outputs {
		e, ok := wireEdge[name]
		if !ok {
			return nil, errors.Wrapf(ErrParse, "verilog: output %q was never driven", name)
		}
		formulaName := name
		if prefix != "" {
			formulaName = prefix + name
		}
		if err := m.KeepFormulaUntilPurge(formulaName, e); err != nil {
			return nil, err
		}
	}
	return &VerilogResult{Outputs: outputs, Unhandled: unhandled}, nil
}

func classifyVerilogLines(src string) []verilogLine {
	var out []verilogLine
	for _, raw := range strings.Split(src, ";") {
		line := strings.TrimSpace(strings.ReplaceAll(raw, "\n", " "))
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "module "), line == "module":
			out = append(out, verilogLine{vlModule, line})
		case strings.HasPrefix(line, "endmodule"):
			out = append(out, verilogLine{vlEndmodule, line})
		case strings.HasPrefix(line, "input "):
			out = append(out, verilogLine{vlInput, line})
		case strings.HasPrefix(line, "output "):
			out = append(out, verilogLine{vlOutput, line})
		case strings.HasPrefix(line, "wire "):
			out = append(out, verilogLine{vlWire, line})
		case strings.HasPrefix(line, "reg "):
			out = append(out, verilogLine{vlReg, line})
		case isVerilogGateLine(line):
			out = append(out, verilogLine{vlGate, line})
		default:
			out = append(out, verilogLine{vlUnknown, line})
		}
	}
	return out
}

var verilogGateKeywords = map[string]bool{
	"buf": true, "and": true, "nand": true, "or": true, "nor": true,
	"xor": true, "xnor": true, "not": true, "inv": true,
}

func isVerilogGateLine(line string) bool {
	open := strings.Index(line, "(")
	if open < 0 {
		return false
	}
	head := strings.Fields(strings.TrimSpace(line[:open]))
	if len(head) == 0 {
		return false
	}
	return verilogGateKeywords[strings.ToLower(head[0])]
}

// verilogSignalNames extracts the declared identifiers from a declaration
// line, handling scalar names and `[hi:lo]` bit-vectors by expanding the
// vector element-wise into `name[i]` identifiers.
func verilogSignalNames(line string) []string {
	fields := strings.Fields(line)
	fields = fields[1:] // drop the keyword (input/output/wire/reg)
	rest := strings.Join(fields, " ")
	rest = strings.TrimSuffix(strings.TrimSpace(rest), ";")

	hi, lo, vectorBody, isVector := parseVectorRange(rest)
	names := strings.Split(vectorBody, ",")
	var result []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if !isVector {
			result = append(result, n)
			continue
		}
		step := 1
		if lo > hi {
			step = -1
		}
		for i := hi; ; i += step {
			result = append(result, n+"["+itoa(i)+"]")
			if i == lo {
				break
			}
		}
	}
	return result
}

// parseVectorRange splits a leading `[hi:lo]` off decl, if present.
func parseVectorRange(decl string) (hi, lo int, rest string, isVector bool) {
	decl = strings.TrimSpace(decl)
	if !strings.HasPrefix(decl, "[") {
		return 0, 0, decl, false
	}
	end := strings.Index(decl, "]")
	if end < 0 {
		return 0, 0, decl, false
	}
	bounds := strings.Split(decl[1:end], ":")
	if len(bounds) != 2 {
		return 0, 0, decl, false
	}
	hi = atoiOr(bounds[0], 0)
	lo = atoiOr(bounds[1], 0)
	return hi, lo, strings.TrimSpace(decl[end+1:]), true
}

func atoiOr(s string, def int) int {
	s = strings.TrimSpace(s)
	n := 0
	neg := false
	for i, r := range s {
		if i == 0 && r == '-' {
			neg = true
			continue
		}
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		n = -n
	}
	return n
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// verilogGate is one parsed gate instantiation: `gate [instname] (ports...)`.
type verilogGate struct {
	gate  string
	ports []string
}

func parseVerilogGate(line string, index int) (verilogGate, error) {
	open := strings.Index(line, "(")
	close := strings.LastIndex(line, ")")
	if open < 0 || close < open {
		return verilogGate{}, errors.Wrapf(ErrParse, "verilog gate %d: malformed instantiation", index)
	}
	head := strings.Fields(strings.TrimSpace(line[:open]))
	if len(head) == 0 {
		return verilogGate{}, errors.Wrapf(ErrParse, "verilog gate %d: missing gate name", index)
	}
	gate := strings.ToLower(head[0])
	var ports []string
	for _, p := range strings.Split(line[open+1:close], ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			ports = append(ports, p)
		}
	}
	if len(ports) < 2 {
		return verilogGate{}, errors.Wrapf(ErrParse, "verilog gate %d: needs a driver and at least one input", index)
	}
	return verilogGate{gate: gate, ports: ports}, nil
}

// detectPortConvention inspects the first gate instantiation to decide
// whether its port list is output-first or output-last: the
// driver is whichever port is not already a known net (an input or an
// earlier gate's output).
func detectPortConvention(instances []verilogGate, known map[string]Edge) bool {
	if len(instances) == 0 {
		return true
	}
	first := instances[0]
	if _, ok := known[first.ports[0]]; !ok {
		return true
	}
	return false
}

func gateDriverName(g verilogGate, outputFirst bool) string {
	if outputFirst {
		return g.ports[0]
	}
	return g.ports[len(g.ports)-1]
}

func gateDataArgs(g verilogGate, outputFirst bool) []string {
	if outputFirst {
		return g.ports[1:]
	}
	return g.ports[:len(g.ports)-1]
}
