package workerpool

import (
	"sync"
	"time"
)

// StopMethod reports how Pool.Stop concluded.
type StopMethod int

const (
	// StopMethodFailed means some workers remained unresponsive and no
	// cancellation tier was able to reclaim them; they remain registered
	// and the pool is usable again.
	StopMethodFailed StopMethod = 0
	// StopMethodPolite means every worker drained/stopped during the
	// polite phase, with no cancellation required.
	StopMethodPolite StopMethod = 1
	// StopMethodAggressive means every worker stopped only after a
	// cooperative cancel was posted.
	StopMethodAggressive StopMethod = 2
	// StopMethodFatal means the fatal tier was used; some tasks may have
	// been interrupted mid-execution and resources may have leaked.
	StopMethodFatal StopMethod = 3
)

// fatalGraceWindow bounds how long Pool.Stop waits, after posting the fatal
// cancellation tier, before giving up on unresponsive workers and excluding
// them from the final join. This has no equivalent in spec.md's literal
// algorithm: see SPEC_FULL.md §4.4 for why Go requires it (there is no way
// to force a goroutine that ignores cancellation to terminate, so without a
// bound, join would hang the caller of Stop forever instead of merely
// leaking the abandoned goroutine).
const fatalGraceWindow = 250 * time.Millisecond

// pollInterval is how often waitForTermination re-checks surviving workers,
// matching spec.md's ~50ms polling cadence.
const pollInterval = 50 * time.Millisecond

// Pool owns a registry of borrowed Workers, serializes submissions through
// a DispatchPolicy, and executes the staged shutdown protocol described in
// spec.md §4.4. A Pool never owns Worker storage — Workers are borrowed via
// Add and remain the caller's responsibility.
type Pool struct {
	logger        Logger
	defaultPolicy DispatchPolicy
	metrics       *Metrics

	mu       sync.Mutex
	workers  map[uint64]*Worker
	stopping bool
}

// NewPool constructs an empty Pool.
func NewPool(opts ...PoolOption) *Pool {
	p := &Pool{
		logger:        noopLogger(),
		defaultPolicy: DummyPolicy{},
		workers:       make(map[uint64]*Worker),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Add binds worker to the pool and starts it, returning its registry key.
//
// If worker is already running, this is a programmer error and Add returns
// ErrWorkerRunning. If the pool is already stopping, Add is a
// conservative no-op — it returns (0, nil), not an error: a concurrent
// Add racing an in-flight Stop is an ordinary outcome of a correctly
// synchronized caller, not misuse (see SPEC_FULL.md §7).
func (p *Pool) Add(worker *Worker) (uint64, error) {
	if worker.IsRunning() {
		return 0, ErrWorkerRunning
	}

	p.mu.Lock()
	if p.stopping {
		p.mu.Unlock()
		return 0, nil
	}

	if err := worker.SetPool(p); err != nil {
		p.mu.Unlock()
		return 0, err
	}
	if worker.metrics == nil {
		worker.metrics = p.metrics
	}

	worker.start()
	key := worker.ID()
	p.workers[key] = worker
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.workersActive.Inc()
	}
	return key, nil
}

// Submit routes task through policy (or the pool's default policy, if none
// is given) while holding the registry mutex, returning the policy's bool.
// If the pool is stopping, Submit returns false without consulting any
// policy.
func (p *Pool) Submit(task Task, policy ...DispatchPolicy) bool {
	pol := p.defaultPolicy
	if len(policy) > 0 && policy[0] != nil {
		pol = policy[0]
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopping {
		return false
	}
	return pol.Dispatch(p.workers, task)
}

// workerEnded removes worker from the registry. It is called by a worker's
// run loop as it exits, and is a no-op if the worker is not currently
// registered (e.g. it was already removed by Stop).
func (p *Pool) workerEnded(worker *Worker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cur, ok := p.workers[worker.ID()]; ok && cur == worker {
		delete(p.workers, worker.ID())
	}
}

// Stop executes the staged shutdown protocol described in spec.md §4.4:
//
//   - Phase P (polite), only if politeTimeout > 0: every worker is asked to
//     stop (draining its mailbox first iff finishAll), then Stop waits up
//     to politeTimeout for them to terminate.
//   - Phase A (aggressive), only if the remaining time budget
//     (overallTimeout - politeTimeout) is positive and phase P didn't
//     already leave every worker stopped: every surviving worker is sent a
//     cooperative cancel, then Stop waits up to the remaining budget.
//   - Phase F (fatal), only if fatal is true and phases P/A didn't already
//     leave every worker stopped: every surviving worker is marked for
//     asynchronous cancellation and cancelled again.
//
// overallTimeout is clamped up to politeTimeout if given smaller. The
// return value reports which tier succeeded (see StopMethod); method
// StopMethodFailed leaves surviving workers registered and the pool usable
// — any other outcome leaves the pool permanently stopped.
func (p *Pool) Stop(finishAll bool, politeTimeout, overallTimeout time.Duration, fatal bool) StopMethod {
	if overallTimeout < politeTimeout {
		overallTimeout = politeTimeout
	}
	aggressiveTimeout := overallTimeout - politeTimeout

	p.mu.Lock()
	p.stopping = true
	alive := p.workers
	p.workers = make(map[uint64]*Worker)
	p.mu.Unlock()

	all := make(map[uint64]*Worker, len(alive))
	for k, w := range alive {
		all[k] = w
	}

	finish := func(method StopMethod) StopMethod {
		for k := range alive {
			delete(all, k)
			logWorkerEvent(p.logger, "abandoning unresponsive worker", k, nil)
		}
		for _, w := range all {
			w.join()
		}
		return method
	}

	if len(alive) == 0 {
		return finish(StopMethodPolite)
	}

	if politeTimeout > 0 {
		for _, w := range alive {
			w.Stop(finishAll)
		}
		waitForTermination(alive, politeTimeout)
		if len(alive) == 0 {
			return finish(StopMethodPolite)
		}
	}

	if aggressiveTimeout > 0 {
		for _, w := range alive {
			w.Cancel()
		}
		waitForTermination(alive, aggressiveTimeout)
		if len(alive) == 0 {
			return finish(StopMethodAggressive)
		}
	}

	if fatal {
		for _, w := range alive {
			w.SetAsyncCancelMode()
			w.Cancel()
		}
		waitForTermination(alive, fatalGraceWindow)
		return finish(StopMethodFatal)
	}

	// Failed: reinstate survivors and let the pool be retried.
	p.mu.Lock()
	p.stopping = false
	for k, w := range alive {
		p.workers[k] = w
	}
	p.mu.Unlock()
	return StopMethodFailed
}

// waitForTermination polls workers' IsRunning, removing terminated ones
// from the set, sleeping pollInterval between sweeps, until either the set
// empties or timeout elapses. It mutates workers in place.
func waitForTermination(workers map[uint64]*Worker, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for len(workers) > 0 && time.Now().Before(deadline) {
		progressed := false
		for k, w := range workers {
			if !w.IsRunning() {
				delete(workers, k)
				progressed = true
			}
		}
		if !progressed {
			time.Sleep(pollInterval)
		}
	}
}
