// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// node is the physical representation of a vertex in the arena: five
// logical fields (variable, else, then, expiry, mark) plus the bookkeeping
// links the unique table and per-variable node lists need.
type node struct {
	variable int32 // index into Manager.vars; 0 is reserved for the terminal
	els      Edge  // else / low branch
	then     Edge  // then / high branch
	expiry   uint32
	mark     bool // GC/traversal scratch bit, reused by Allnodes-style walks

	hashNext int32 // next node in this bucket's hash chain, -1 if last
	varNext  int32 // next node in this.variable's node list, -1 if last
	varPrev  int32 // previous node in this.variable's node list, -1 if first

	free bool // true while this slot sits on the arena free list
}

// arena is the block-allocated pool of nodes plus the chained hash table
// that enforces hash-consing.
type arena struct {
	nodes     []node
	buckets   []int32 // unique-table bucket heads, indexed by hash
	freeHead  int32
	freeCount int
	produced  int // total nodes ever produced, for Stats
}

func newArena(nodesize int) *arena {
	nodesize = primeGte(nodesize)
	a := &arena{
		nodes:   make([]node, nodesize),
		buckets: make([]int32, nodesize),
	}
	for i := range a.buckets {
		a.buckets[i] = -1
	}
	a.initFreeList(0)
	return a
}

// initFreeList threads nodes[from:] into the free list, in index order.
func (a *arena) initFreeList(from int) {
	n := len(a.nodes)
	for i := from; i < n; i++ {
		a.nodes[i] = node{free: true, hashNext: -1, varNext: -1, varPrev: -1}
		if i < n-1 {
			a.nodes[i].varNext = int32(i + 1)
		} else {
			a.nodes[i].varNext = -1
		}
	}
	if n > from {
		a.freeHead = int32(from)
	} else {
		a.freeHead = -1
	}
	a.freeCount += n - from
}

func (a *arena) size() int { return len(a.nodes) }

// bucketHash combines the three address-sized fields of a node signature
// into a bucket index, using a pairing-function approach.
func bucketHash(variable int32, els, then Edge, tag int32, nbuckets int) int {
	a := packEdge(els)
	b := packEdge(then)
	c := int64(variable)<<20 ^ int64(tag)
	return int(pairHash(c, pairHash(a, b, nbuckets), nbuckets))
}

func packEdge(e Edge) int64 {
	v := int64(e.target) << 1
	if e.comp {
		v |= 1
	}
	return v ^ (int64(e.tag) << 40)
}

// pairHash bijectively maps a pair of integers to a single non-negative
// value, then folds it into [0, nbuckets) with a modulo, BuDDy's classic
// _PAIR function.
func pairHash(a, b int64, nbuckets int) int64 {
	ua := uint64(a)
	ub := uint64(b)
	s := ua + ub
	return int64((((s * (s + 1)) / 2) + ua) % uint64(nbuckets))
}

// lookup walks a bucket's chain looking for a node with the exact signature.
// It returns the node index and true on a hit.
func (a *arena) lookup(variable int32, els, then Edge, tag int32) (int32, bool) {
	h := bucketHash(variable, els, then, tag, len(a.buckets))
	for i := a.buckets[h]; i >= 0; i = a.nodes[i].hashNext {
		n := &a.nodes[i]
		if n.variable == variable && n.els == els && n.then == then {
			if tag == nodeTag(n) {
				return i, true
			}
		}
	}
	return -1, false
}

// nodeTag recovers the canonical tag a physical node was created with. The
// node struct has no tag field (the tag lives on edges, not nodes) and mk
// looks nodes up with tag 0 in every variant, so this always returns 0.
func nodeTag(n *node) int32 { return 0 }

// alloc returns a free slot, growing the arena (via GC, then resize) if none
// is available. It never touches the unique table; callers insert into a
// bucket chain themselves.
func (m *Manager) alloc() (int32, error) {
	a := m.arena
	if a.freeHead < 0 {
		m.gc()
		if (a.freeCount*100)/len(a.nodes) <= m.config.minfreenodes {
			if err := m.resize(); err != nil {
				return -1, err
			}
		}
		if a.freeHead < 0 {
			return -1, ErrMemory
		}
	}
	i := a.freeHead
	a.freeHead = a.nodes[i].varNext
	a.freeCount--
	a.produced++
	a.nodes[i] = node{hashNext: -1, varNext: -1, varPrev: -1}
	return i, nil
}

// link inserts node i into its bucket chain and its variable's node list.
func (m *Manager) link(i int32) {
	a := m.arena
	n := &a.nodes[i]
	h := bucketHash(n.variable, n.els, n.then, 0, len(a.buckets))
	n.hashNext = a.buckets[h]
	a.buckets[h] = i

	v := &m.vars[n.variable]
	n.varPrev = -1
	n.varNext = v.nodeHead
	if v.nodeHead >= 0 {
		a.nodes[v.nodeHead].varPrev = i
	} else {
		v.nodeTail = i
	}
	v.nodeHead = i
	v.liveCount++
}

// unlink removes node i from its bucket chain and its variable's node list,
// without returning it to the free list (the caller does that).
func (m *Manager) unlink(i int32) {
	a := m.arena
	n := &a.nodes[i]
	h := bucketHash(n.variable, n.els, n.then, 0, len(a.buckets))
	prev := int32(-1)
	for cur := a.buckets[h]; cur >= 0; cur = a.nodes[cur].hashNext {
		if cur == i {
			if prev < 0 {
				a.buckets[h] = a.nodes[cur].hashNext
			} else {
				a.nodes[prev].hashNext = a.nodes[cur].hashNext
			}
			break
		}
		prev = cur
	}

	v := &m.vars[n.variable]
	if n.varPrev >= 0 {
		a.nodes[n.varPrev].varNext = n.varNext
	} else {
		v.nodeHead = n.varNext
	}
	if n.varNext >= 0 {
		a.nodes[n.varNext].varPrev = n.varPrev
	} else {
		v.nodeTail = n.varPrev
	}
	v.liveCount--
}

func (a *arena) free(i int32) {
	a.nodes[i] = node{free: true, hashNext: -1, varNext: a.freeHead, varPrev: -1}
	a.freeHead = i
	a.freeCount++
}

// resize doubles the arena's node capacity, bounded by the configured
// limits, and rehashes every live node into the new (larger) bucket array.
func (m *Manager) resize() error {
	a := m.arena
	oldsize := len(a.nodes)
	if m.config.maxnodesize > 0 && oldsize >= m.config.maxnodesize {
		return ErrMemory
	}
	newsize := oldsize * 2
	if m.config.maxnodeincrease > 0 && newsize > oldsize+m.config.maxnodeincrease {
		newsize = oldsize + m.config.maxnodeincrease
	}
	if m.config.maxnodesize > 0 && newsize > m.config.maxnodesize {
		newsize = m.config.maxnodesize
	}
	newsize = primeGte(newsize)
	if newsize <= oldsize {
		return ErrMemory
	}
	if m.logger != nil {
		m.logger.Debugw("resizing arena", "from", oldsize, "to", newsize)
	}
	grown := make([]node, newsize)
	copy(grown, a.nodes)
	a.nodes = grown
	a.initFreeList(oldsize)

	a.buckets = make([]int32, newsize)
	for i := range a.buckets {
		a.buckets[i] = -1
	}
	for _, v := range m.vars {
		for i := v.nodeHead; i >= 0; i = a.nodes[i].varNext {
			n := &a.nodes[i]
			h := bucketHash(n.variable, n.els, n.then, 0, len(a.buckets))
			n.hashNext = a.buckets[h]
			a.buckets[h] = i
		}
	}
	m.cacheresize(newsize)
	return nil
}
