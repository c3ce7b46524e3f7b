// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "go.uber.org/zap"

// configs stores the values of the different tunable parameters of a
// Manager. It is built from the variadic options passed to New, using the
// standard functional-options style.
type configs struct {
	varnum          int // initial number of variables to pre-allocate room for
	nodesize        int // initial number of nodes in the arena
	cachesize       int // initial size of each computed-table cache
	cacheratio      int // cache-to-node-table ratio (%), 0 means fixed cache size
	maxnodesize     int // maximum total number of nodes (0: no limit)
	maxnodeincrease int // maximum nodes added per resize (0: no limit)
	minfreenodes    int // minimum free-node percentage to keep after a GC
	growthlimit     int // sifting: abort a variable move past this relative growth (%)
	verbose         bool
	logger          *zap.SugaredLogger
}

func makeconfigs(varnum int) *configs {
	c := &configs{varnum: varnum}
	c.minfreenodes = _MINFREENODES
	c.maxnodeincrease = _DEFAULTMAXNODEINC
	c.nodesize = 2*varnum + 2
	c.growthlimit = _DEFAULTGROWTHLIMIT
	return c
}

// Nodesize sets a preferred initial size for the node arena. The default is
// large enough to hold the two terminals and the variables declared at
// construction time.
func Nodesize(size int) func(*configs) {
	return func(c *configs) {
		if size >= 2*c.varnum+2 {
			c.nodesize = size
		}
	}
}

// Maxnodesize caps the number of nodes the arena can ever grow to. An
// operation that would need to exceed this limit fails with ErrMemory
// instead of growing further. The default (0) means no limit.
func Maxnodesize(size int) func(*configs) {
	return func(c *configs) {
		c.maxnodesize = size
	}
}

// Maxnodeincrease caps the number of nodes added to the arena in a single
// resize. The default is about a million nodes; zero removes the limit.
func Maxnodeincrease(size int) func(*configs) {
	return func(c *configs) {
		c.maxnodeincrease = size
	}
}

// Minfreenodes sets the percentage of free nodes that must remain after a
// garbage collection before a resize is triggered. The default is 20%.
func Minfreenodes(ratio int) func(*configs) {
	return func(c *configs) {
		c.minfreenodes = ratio
	}
}

// Cachesize sets the initial number of entries in each computed-table cache.
func Cachesize(size int) func(*configs) {
	return func(c *configs) {
		c.cachesize = size
	}
}

// Cacheratio sets the percentage of cache entries maintained per node-table
// slot; with a ratio of r, caches grow by r entries per 100 new node slots
// whenever the arena resizes. The default (0) keeps cache size fixed.
func Cacheratio(ratio int) func(*configs) {
	return func(c *configs) {
		c.cacheratio = ratio
	}
}

// Growthlimit sets the percentage growth in live-node count, relative to the
// count before a sifting move, that aborts that move. The default is 200
// (sifting backs out of a move that would more than triple the node count).
func Growthlimit(ratio int) func(*configs) {
	return func(c *configs) {
		c.growthlimit = ratio
	}
}

// Verbose turns on structured logging of GC and arena-resize events, and of
// the errors the Manager records, at Debug level via the supplied
// zap.SugaredLogger; sifting does not log. Without this option the Manager uses a
// no-op logger, resolved at construction time rather than gated by a
// compile-time build tag.
func Verbose(logger *zap.SugaredLogger) func(*configs) {
	return func(c *configs) {
		c.verbose = true
		c.logger = logger
	}
}
