// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

// Computed-table caches. A classic BuDDy-style cache keys each slot on
// plain node indices and uses a negative sentinel to mark an empty slot;
// since an Edge is a struct here (and its zero value is a perfectly valid
// reference to node 0), every slot instead carries an explicit valid bit.
//
// Three shapes cover the computed tables the engine needs:
//   - table4: two Edge operands plus an operator/id discriminator (OP: the
//     binary boolean operators and Not; EA: Exist/Forall/AppEx/AppForall;
//     also Compose/Simplify and Product/SelectiveProduct).
//   - table3: one Edge operand plus an id discriminator (RC: Replace; also
//     Restrict, Subset1, Change and Stretch/PermitSym).
//   - tableIte: three Edge operands (Ite).

type table4 struct {
	ratio int
	hit   int
	miss  int
	slots []slot4
}

type slot4 struct {
	valid bool
	a, b  Edge
	op    int32
	res   Edge
}

func newTable4(size, ratio int) *table4 {
	return &table4{ratio: ratio, slots: make([]slot4, primeGte(size))}
}

func (t *table4) hash(a, b Edge, op int32) int {
	return int(pairHash(int64(op), pairHash(packEdge(a), packEdge(b), len(t.slots)), len(t.slots)))
}

func (t *table4) lookup(a, b Edge, op int32) (Edge, bool) {
	s := &t.slots[t.hash(a, b, op)]
	if s.valid && s.a == a && s.b == b && s.op == op {
		t.hit++
		return s.res, true
	}
	t.miss++
	return NullEdge, false
}

func (t *table4) store(a, b Edge, op int32, res Edge) {
	t.slots[t.hash(a, b, op)] = slot4{valid: true, a: a, b: b, op: op, res: res}
}

func (t *table4) reset() {
	for i := range t.slots {
		t.slots[i].valid = false
	}
	t.hit, t.miss = 0, 0
}

func (t *table4) resize(nodesize int) {
	if t.ratio <= 0 {
		t.reset()
		return
	}
	t.slots = make([]slot4, primeGte((nodesize*t.ratio)/100))
	t.hit, t.miss = 0, 0
}

type table3 struct {
	ratio int
	hit   int
	miss  int
	slots []slot3
}

type slot3 struct {
	valid bool
	a     Edge
	id    int32
	res   Edge
}

func newTable3(size, ratio int) *table3 {
	return &table3{ratio: ratio, slots: make([]slot3, primeGte(size))}
}

func (t *table3) hash(a Edge, id int32) int {
	return int(pairHash(int64(id), packEdge(a), len(t.slots)))
}

func (t *table3) lookup(a Edge, id int32) (Edge, bool) {
	s := &t.slots[t.hash(a, id)]
	if s.valid && s.a == a && s.id == id {
		t.hit++
		return s.res, true
	}
	t.miss++
	return NullEdge, false
}

func (t *table3) store(a Edge, id int32, res Edge) {
	t.slots[t.hash(a, id)] = slot3{valid: true, a: a, id: id, res: res}
}

func (t *table3) reset() {
	for i := range t.slots {
		t.slots[i].valid = false
	}
	t.hit, t.miss = 0, 0
}

func (t *table3) resize(nodesize int) {
	if t.ratio <= 0 {
		t.reset()
		return
	}
	t.slots = make([]slot3, primeGte((nodesize*t.ratio)/100))
	t.hit, t.miss = 0, 0
}

// tableIte caches Ite(f, g, h), the one computed table that genuinely needs
// three Edge keys; it is kept separate from table4 rather than overloading
// table4's op slot with a pair-packed h.
type tableIte struct {
	ratio int
	hit   int
	miss  int
	slots []slotIte
}

type slotIte struct {
	valid   bool
	f, g, h Edge
	res     Edge
}

func newTableIte(size, ratio int) *tableIte {
	return &tableIte{ratio: ratio, slots: make([]slotIte, primeGte(size))}
}

func (t *tableIte) hash(f, g, h Edge) int {
	return int(pairHash(packEdge(h), pairHash(packEdge(f), packEdge(g), len(t.slots)), len(t.slots)))
}

func (t *tableIte) lookup(f, g, h Edge) (Edge, bool) {
	s := &t.slots[t.hash(f, g, h)]
	if s.valid && s.f == f && s.g == g && s.h == h {
		t.hit++
		return s.res, true
	}
	t.miss++
	return NullEdge, false
}

func (t *tableIte) store(f, g, h, res Edge) {
	t.slots[t.hash(f, g, h)] = slotIte{valid: true, f: f, g: g, h: h, res: res}
}

func (t *tableIte) reset() {
	for i := range t.slots {
		t.slots[i].valid = false
	}
	t.hit, t.miss = 0, 0
}

func (t *tableIte) resize(nodesize int) {
	if t.ratio <= 0 {
		t.reset()
		return
	}
	t.slots = make([]slotIte, primeGte((nodesize*t.ratio)/100))
	t.hit, t.miss = 0, 0
}

// Operator codes used as the discriminator field in the OP and EA caches.
const (
	opAnd int32 = iota
	opOr
	opXor
	opNand
	opNor
	opImp
	opBiimp
	opLeq
	opGt
	opDiff
	opNot
	opIte

	eaExist
	eaForall
	eaAppEx
	eaAppForall

	zopChange
	zopUnion
	zopIntersect
	zopDiff
	zopProduct
)

// cacheSet bundles the ten computed tables a Manager keeps, plus the
// quantification variable-set cache (quantId/quantset) the EA table keys
// against so one cube registration serves every node visited in a single
// Exist/Forall/AppEx call, exactly as in BuDDy's quantcache.
type cacheSet struct {
	op      *table4 // Apply (all binary boolean operators)
	ite     *tableIte
	ea      *table4 // Exist/Forall/AppEx/AppForall
	rc      *table3 // Replace
	restrict *table3 // Restrict, keyed (f, variable<<1|value)
	subset1  *table3 // Subset1, keyed (f, variable); kept apart from restrict
	// since the two disagree on what an absent variable means.
	compose *table4 // Compose, keyed (f, g, variable); Simplify, keyed (f, care, -1)
	change  *table3 // Change, keyed (f, variable)
	product *table4 // Product/SelectiveProduct, keyed (f, g, selective id or -1)
	unary   *table3 // Stretch/Permitsym, keyed (f, id)

	quantset   []int32
	quantsetID int32
	quantlast  int32 // rank of the deepest (highest-rank) variable in the current cube
}

func newCacheSet(cfg *configs) *cacheSet {
	size := cfg.cachesize
	if size == 0 {
		size = 10000
	}
	return &cacheSet{
		op:       newTable4(size, cfg.cacheratio),
		ite:      newTableIte(size, cfg.cacheratio),
		ea:       newTable4(size, cfg.cacheratio),
		rc:       newTable3(size, cfg.cacheratio),
		restrict: newTable3(size, cfg.cacheratio),
		subset1:  newTable3(size, cfg.cacheratio),
		compose:  newTable4(size, cfg.cacheratio),
		change:   newTable3(size, cfg.cacheratio),
		product:  newTable4(size, cfg.cacheratio),
		unary:    newTable3(size, cfg.cacheratio),
	}
}

func (m *Manager) cacheresize(nodesize int) {
	m.caches.op.resize(nodesize)
	m.caches.ite.resize(nodesize)
	m.caches.ea.resize(nodesize)
	m.caches.rc.resize(nodesize)
	m.caches.restrict.resize(nodesize)
	m.caches.subset1.resize(nodesize)
	m.caches.compose.resize(nodesize)
	m.caches.change.resize(nodesize)
	m.caches.product.resize(nodesize)
	m.caches.unary.resize(nodesize)
}

func (m *Manager) cachereset() {
	m.caches.op.reset()
	m.caches.ite.reset()
	m.caches.ea.reset()
	m.caches.rc.reset()
	m.caches.restrict.reset()
	m.caches.subset1.reset()
	m.caches.compose.reset()
	m.caches.change.reset()
	m.caches.product.reset()
	m.caches.unary.reset()
}

// quantset2cache registers a cube (as a chain of positive-literal edges,
// the same shape Makeset produces) under a fresh quantification id, so that
// quantsetHas answers membership tests during one Exist/Forall/AppEx walk in
// O(1). EA entries keyed on an earlier id are dropped here.
func (m *Manager) quantset2cache(cube Edge) error {
	if cube.IsNull() {
		return ErrNullEdge
	}
	for i := range m.caches.ea.slots {
		m.caches.ea.slots[i].valid = false
	}
	m.caches.quantsetID++
	if m.caches.quantsetID == 1<<30 {
		m.caches.quantsetID = 1
	}
	if len(m.caches.quantset) != len(m.vars) {
		m.caches.quantset = make([]int32, len(m.vars))
	}
	m.caches.quantlast = -1
	for c := cube; c != m.one(); {
		n := &m.arena.nodes[c.target]
		m.caches.quantset[n.variable] = m.caches.quantsetID
		if r := m.vars[n.variable].rank; r > m.caches.quantlast {
			m.caches.quantlast = r
		}
		c = n.then
	}
	return nil
}

func (m *Manager) quantsetHas(variable int32) bool {
	return int(variable) < len(m.caches.quantset) && m.caches.quantset[variable] == m.caches.quantsetID
}
