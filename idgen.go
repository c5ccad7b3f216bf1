package workerpool

import "sync/atomic"

// workerIDSeq hands out the registry keys used in place of an OS thread id.
//
// The original design keys its worker registry by the OS thread id obtained
// immediately after WorkerThread::start(). Go goroutines have no portable,
// stable, cheaply obtainable identifier equivalent to a pthread id — the
// runtime deliberately does not expose one. A process-wide monotonically
// increasing counter, assigned when the worker's goroutine is spawned,
// satisfies every invariant the spec places on the registry key (unique,
// assigned at start time, stable for the worker's lifetime) without relying
// on unsupported runtime introspection.
var workerIDSeq atomic.Uint64

func nextWorkerID() uint64 {
	return workerIDSeq.Add(1)
}
