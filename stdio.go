// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/emicklei/dot"
)

// Stats reports a human-readable summary of the Manager's resource usage
// and cache effectiveness, generalized to this engine's explicit
// expiry-based GC bookkeeping.
func (m *Manager) Stats() string {
	a := m.arena
	used := len(a.nodes) - a.freeCount
	var free float64
	if len(a.nodes) > 0 {
		free = (float64(a.freeCount) / float64(len(a.nodes))) * 100
	}
	res := fmt.Sprintf("Variant:    %s\n", m.variant)
	res += fmt.Sprintf("Varnum:     %d\n", m.Varnum())
	res += fmt.Sprintf("Allocated:  %d  (%s)\n", len(a.nodes), m.arenaFootprint())
	res += fmt.Sprintf("Produced:   %d\n", a.produced)
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", a.freeCount, free)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)\n", used, 100.0-free)
	res += fmt.Sprintf("GC age:     %d\n", m.age)
	res += "==============\n"
	res += m.cacheStats()
	return res
}

func (m *Manager) cacheStats() string {
	c := m.caches
	res := fmt.Sprintf("Apply:      %d hit / %d miss\n", c.op.hit, c.op.miss)
	res += fmt.Sprintf("Ite:        %d hit / %d miss\n", c.ite.hit, c.ite.miss)
	res += fmt.Sprintf("Quant:      %d hit / %d miss\n", c.ea.hit, c.ea.miss)
	res += fmt.Sprintf("Replace:    %d hit / %d miss\n", c.rc.hit, c.rc.miss)
	res += fmt.Sprintf("Restrict:   %d hit / %d miss\n", c.restrict.hit, c.restrict.miss)
	res += fmt.Sprintf("Subset1:    %d hit / %d miss\n", c.subset1.hit, c.subset1.miss)
	res += fmt.Sprintf("Compose:    %d hit / %d miss\n", c.compose.hit, c.compose.miss)
	res += fmt.Sprintf("Change:     %d hit / %d miss\n", c.change.hit, c.change.miss)
	res += fmt.Sprintf("Product:    %d hit / %d miss\n", c.product.hit, c.product.miss)
	res += fmt.Sprintf("Unary:      %d hit / %d miss\n", c.unary.hit, c.unary.miss)
	return res
}

// Print writes a textual table of every live node reachable from roots (or
// every live node in the Manager if roots is empty) to stdout, one line per
// node: id, rank, else-child, then-child.
func (m *Manager) Print(roots ...Edge) {
	m.print(os.Stdout, roots...)
}

func (m *Manager) print(w io.Writer, roots ...Edge) {
	if m.Errored() {
		fmt.Fprintf(w, "Error: %s\n", m.Error())
		return
	}
	type row struct{ id, rank, els, then int32 }
	var rows []row
	_ = m.Allnodes(func(id, rank, els, then int32) error {
		i := sort.Search(len(rows), func(i int) bool { return rows[i].id >= id })
		rows = append(rows, row{})
		copy(rows[i+1:], rows[i:])
		rows[i] = row{id, rank, els, then}
		return nil
	}, roots...)

	tw := tabwriter.NewWriter(w, 0, 0, 0, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t[%d\t] ? \t%d\t : %d\n", r.id, r.rank, r.els, r.then)
	}
	tw.Flush()
}

// PrintDot writes a DOT-format rendering of roots (or the whole live node
// set if roots is empty) to filename ("-" for stdout), built with
// emicklei/dot rather than hand-written fmt.Fprintf calls.
func (m *Manager) PrintDot(filename string, roots ...Edge) error {
	if m.Errored() {
		return m.err
	}
	g := dot.NewGraph(dot.Directed)
	terminal := g.Node("1").Box().Attr("style", "filled").Attr("label", "1")
	nodes := make(map[int32]dot.Node)

	err := m.Allnodes(func(id, rank, els, then int32) error {
		n := g.Node(strconv.Itoa(int(id))).
			Attr("label", fmt.Sprintf("%d [%d]", id, rank))
		nodes[id] = n
		return nil
	}, roots...)
	if err != nil {
		return err
	}
	err = m.Allnodes(func(id, rank, els, then int32) error {
		n := nodes[id]
		if els != 0 {
			target := terminal
			if t, ok := nodes[els]; ok {
				target = t
			}
			g.Edge(n, target).Attr("style", "dotted")
		}
		if then != 0 {
			target := terminal
			if t, ok := nodes[then]; ok {
				target = t
			}
			g.Edge(n, target)
		}
		return nil
	}, roots...)
	if err != nil {
		return err
	}

	var out *os.File
	if filename == "-" {
		out = os.Stdout
	} else {
		var cerr error
		out, cerr = os.Create(filename)
		if cerr != nil {
			return cerr
		}
		defer out.Close()
	}
	g.Write(out)
	return nil
}
