package workerpool

import "sort"

// DispatchPolicy maps a registry snapshot and an incoming task to zero or
// one target workers. Dispatch is always invoked with the Pool's registry
// mutex held: implementations must not block, and must not retain workers
// beyond the call.
type DispatchPolicy interface {
	// Dispatch selects zero or one workers from workers and calls Queue(task)
	// on each selected worker, returning true iff a worker accepted the
	// task. Nothing prevents an implementation from queuing the same task
	// onto more than one worker (spec.md leaves this permitted, if unusual).
	Dispatch(workers map[uint64]*Worker, task Task) bool
}

// DummyPolicy discards every submission. It is the Pool's default policy
// when none is supplied, and is useful in tests that only care about
// registry/lifecycle behavior.
type DummyPolicy struct{}

// Dispatch always returns false without touching workers.
func (DummyPolicy) Dispatch(map[uint64]*Worker, Task) bool { return false }

// RoundRobinPolicy distributes tasks across the registry in approximately
// uniform fashion, cycling through workers in ascending key order.
//
// Go's map iteration order is randomized, unlike the ordered std::map
// iterator the original design's cursor walked; RoundRobinPolicy instead
// caches a sorted slice of registry keys, rebuilding it only when it
// detects registry churn (a changed size, or a changed XOR of all keys) or
// when the cursor has run off the end — the churn-detection scheme spec.md
// §4.3 describes, adapted to tolerate Go's lack of ordered map iteration.
// The size and XOR hash are recomputed over the whole registry on every
// dispatch; only the sort of the key slice is deferred until drift.
type RoundRobinPolicy struct {
	keys    []uint64
	size    int
	xorHash uint64
	cursor  int
}

// Dispatch implements DispatchPolicy.
func (p *RoundRobinPolicy) Dispatch(workers map[uint64]*Worker, task Task) bool {
	if len(workers) == 0 {
		return false
	}

	var hash uint64
	for k := range workers {
		hash ^= k
	}

	if len(workers) != p.size || hash != p.xorHash || p.cursor >= len(p.keys) {
		p.rebuild(workers, hash)
	}

	for p.cursor < len(p.keys) {
		key := p.keys[p.cursor]
		p.cursor++
		if w, ok := workers[key]; ok {
			w.Queue(task)
			return true
		}
	}
	return false
}

func (p *RoundRobinPolicy) rebuild(workers map[uint64]*Worker, hash uint64) {
	p.keys = p.keys[:0]
	for k := range workers {
		p.keys = append(p.keys, k)
	}
	sort.Slice(p.keys, func(i, j int) bool { return p.keys[i] < p.keys[j] })
	p.size = len(workers)
	p.xorHash = hash
	p.cursor = 0
}
