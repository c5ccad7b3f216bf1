package workerpool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

const (
	flagStopping uint32 = 1 << iota
	flagStopAfterTasks
)

// Worker is a long-lived goroutine owning a FIFO mailbox of pending tasks.
// Instances are constructed with NewWorker, bound to a Pool with SetPool (or
// implicitly via Pool.Add), and are single-use: once a Worker's run loop
// returns, it cannot be restarted or rebound.
//
// Worker satisfies the invariants spec.md places on WorkerThread: its pool
// back-reference is set exactly once and never cleared, its mailbox is only
// mutated under its own mutex, tasks execute with that mutex released, and
// its flag word is only ever OR'd with new bits, never cleared.
type Worker struct {
	initFn    func() error
	executeFn func(ctx *TaskContext, task Task) error
	logger    Logger
	metrics   *Metrics

	mu      sync.Mutex
	cond    *sync.Cond
	mailbox []Task
	flags   atomic.Uint32

	pool    atomic.Pointer[Pool]
	running atomic.Bool
	id      uint64
	done    chan struct{}
	taskCtx *TaskContext

	ctx       context.Context
	cancel    context.CancelFunc
	asyncMode atomic.Bool
}

// NewWorker constructs a Worker ready to be bound to a Pool.
func NewWorker(opts ...WorkerOption) *Worker {
	w := &Worker{
		logger: noopLogger(),
	}
	w.cond = sync.NewCond(&w.mu)
	w.ctx, w.cancel = context.WithCancel(context.Background())
	for _, o := range opts {
		o(w)
	}
	w.taskCtx = &TaskContext{worker: w}
	return w
}

// SetPool binds the worker to pool exactly once, prior to starting it.
// Binding an already-bound or already-running worker is a programmer error
// and is reported via a sentinel error (ErrWorkerAlreadyBound /
// ErrWorkerRunning) rather than a panic, since Pool.Add calls this on the
// caller's behalf and should itself fail gracefully if the caller reused a
// Worker incorrectly.
func (w *Worker) SetPool(p *Pool) error {
	if w.running.Load() {
		return ErrWorkerRunning
	}
	if !w.pool.CompareAndSwap(nil, p) {
		return ErrWorkerAlreadyBound
	}
	return nil
}

// boundPool returns the pool this worker is bound to, or nil.
func (w *Worker) boundPool() *Pool {
	return w.pool.Load()
}

// ID returns the worker's registry key. It is only meaningful once the
// worker has been started (see idgen.go for why this isn't an OS thread id).
func (w *Worker) ID() uint64 {
	return w.id
}

// IsRunning reports whether the worker's run loop is currently executing.
// It is safe to call from any goroutine.
func (w *Worker) IsRunning() bool {
	return w.running.Load()
}

// Queue enqueues task onto the worker's mailbox and wakes the worker if it
// is waiting on an empty mailbox. A nil task is a valid "wake and
// re-evaluate stop" sentinel and is never executed. Queue is safe to call
// concurrently from any goroutine and never blocks beyond a brief mutex
// hold.
func (w *Worker) Queue(task Task) {
	w.mu.Lock()
	w.mailbox = append(w.mailbox, task)
	w.mu.Unlock()
	w.cond.Signal()
	if w.metrics != nil && task != nil {
		w.metrics.queueDepth.Inc()
	}
}

// Stop idempotently asks the worker to stop. If finishTasks is true the
// worker drains its current mailbox before exiting (polite/drain mode);
// otherwise it exits as soon as it next checks for a stop request (abrupt
// mode), discarding any queued-but-not-yet-executed tasks. Stop always
// enqueues a wake sentinel, guaranteeing the worker observes the request
// even from an empty mailbox.
func (w *Worker) Stop(finishTasks bool) {
	for {
		old := w.flags.Load()
		next := old | flagStopping
		if finishTasks {
			next |= flagStopAfterTasks
		}
		if next == old || w.flags.CompareAndSwap(old, next) {
			break
		}
	}
	w.mu.Lock()
	w.mailbox = append(w.mailbox, nil)
	w.mu.Unlock()
	w.cond.Signal()
}

// Cancel posts a cooperative cancellation: it cancels the worker's internal
// context (observed by TaskContext.ShouldStop(true) and, when STOPPING has
// not been set, by the run loop's own stop check) and wakes the worker.
//
// Waking the worker here is a Go-specific necessity: unlike
// pthread_cond_wait, sync.Cond.Wait is not itself a cancellation point, so a
// worker blocked on an empty mailbox would otherwise never notice the
// cancellation. See SPEC_FULL.md §4.1.
func (w *Worker) Cancel() {
	w.cancel()
	w.mu.Lock()
	w.cond.Signal()
	w.mu.Unlock()
}

// SetAsyncCancelMode marks the worker as subject to the fatal shutdown
// tier. Go cannot forcibly preempt a goroutine that never checks for
// cancellation, so this flag does not change how the worker runs or is
// cancelled: it only records that the fatal tier was entered, and no code
// in this package reads it.
func (w *Worker) SetAsyncCancelMode() {
	w.asyncMode.Store(true)
}

// start spawns the worker's run loop, assigning its registry key. Callers
// must have already bound the worker via SetPool.
func (w *Worker) start() {
	w.id = nextWorkerID()
	w.done = make(chan struct{})
	w.running.Store(true)
	go w.run()
}

// join blocks until the worker's run loop has returned.
func (w *Worker) join() {
	<-w.done
}

func (w *Worker) run() {
	defer func() {
		close(w.done)
		w.running.Store(false)
		if p := w.pool.Load(); p != nil {
			p.workerEnded(w)
		}
		if w.metrics != nil {
			w.metrics.workersActive.Dec()
		}
	}()

	if w.initFn != nil {
		if err := w.safeInit(); err != nil {
			logWorkerEvent(w.logger, "worker init failed", w.id, err)
			return
		}
	}

	w.mu.Lock()
	for !w.shouldStopLocked() {
		for len(w.mailbox) == 0 && !w.shouldStopLocked() {
			w.cond.Wait()
		}
		if w.shouldStopLocked() {
			break
		}
		if len(w.mailbox) == 1 && w.mailbox[0] == nil {
			// Wake-for-stop fast path: a lone sentinel needs no execution.
			w.mailbox = w.mailbox[:0]
			continue
		}

		batch := w.mailbox
		w.mailbox = nil
		w.mu.Unlock()
		w.executeBatch(batch)
		w.mu.Lock()
	}
	w.mu.Unlock()
}

func (w *Worker) safeInit() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workerpool: panic in worker init: %v", r)
		}
	}()
	return w.initFn()
}

// shouldStopLocked implements spec.md §4.1's should_stop(), and must be
// called with w.mu held.
func (w *Worker) shouldStopLocked() bool {
	f := w.flags.Load()
	if f&flagStopping != 0 {
		if f&flagStopAfterTasks != 0 {
			return len(w.mailbox) == 0
		}
		return true
	}
	// STOPPING was never set (e.g. a polite phase with a zero timeout was
	// skipped entirely) — the only remaining way to observe a requested
	// stop is the cooperative cancellation signal posted by Cancel().
	return w.ctx.Err() != nil
}

// taskShouldStop implements TaskContext.ShouldStop.
func (w *Worker) taskShouldStop(safeCancelPoint bool) bool {
	if w.flags.Load()&flagStopping != 0 {
		return true
	}
	if safeCancelPoint && w.ctx.Err() != nil {
		return true
	}
	return false
}

func (w *Worker) executeBatch(batch []Task) {
	for _, task := range batch {
		if task == nil {
			continue
		}
		w.executeTask(task)
	}
}

func (w *Worker) executeTask(task Task) {
	exec := w.executeFn
	if exec == nil {
		exec = func(ctx *TaskContext, t Task) error { return t.Execute(ctx) }
	}

	err := w.safeExecute(exec, task)

	if w.metrics != nil {
		w.metrics.queueDepth.Dec()
		if err != nil {
			w.metrics.tasksFailed.Inc()
		} else {
			w.metrics.tasksExecuted.Inc()
		}
	}

	if err != nil {
		logWorkerEvent(w.logger, "task failed", w.id, err)
	}
}

func (w *Worker) safeExecute(exec func(ctx *TaskContext, task Task) error, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workerpool: panic in task: %v", r)
		}
	}()
	return exec(w.taskCtx, task)
}
