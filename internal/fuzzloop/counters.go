package fuzzloop

import "sync/atomic"

// Counters are the worker-shared, sequentially-consistent atomics spec.md
// §5 calls out as the only cross-worker state besides immutable catalog
// data: iterations run, bugs archived, and bytes of generated source seen.
type Counters struct {
	iterations int64
	bugs       int64
	bytes      int64
}

func (c *Counters) addIteration(srcBytes int) {
	atomic.AddInt64(&c.iterations, 1)
	atomic.AddInt64(&c.bytes, int64(srcBytes))
}

func (c *Counters) addBug() {
	atomic.AddInt64(&c.bugs, 1)
}

// Snapshot is a point-in-time read of all three counters.
type Snapshot struct {
	Iterations int64
	Bugs       int64
	Bytes      int64
}

// Snapshot reads all three counters. It is not atomic as a group (spec.md
// does not require cross-counter consistency, only that each counter
// itself is sequentially consistent).
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Iterations: atomic.LoadInt64(&c.iterations),
		Bugs:       atomic.LoadInt64(&c.bugs),
		Bytes:      atomic.LoadInt64(&c.bytes),
	}
}
