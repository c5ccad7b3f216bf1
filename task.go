package workerpool

// Task is a unit of deferrable work. The pool never copies, serializes, or
// otherwise takes ownership of a Task: the submitter retains ownership, and
// the Task must remain live until Execute returns. A Task may be
// resubmitted after it completes, but must not be queued twice
// concurrently — the core does not detect or guard against that.
type Task interface {
	// Execute runs the task. Any returned error is treated as local to this
	// one execution: it is logged and does not affect the worker or any
	// other task.
	Execute(ctx *TaskContext) error
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc func(ctx *TaskContext) error

// Execute calls f(ctx).
func (f TaskFunc) Execute(ctx *TaskContext) error { return f(ctx) }

// TaskContext is a read-only handle bound to the pool and worker executing a
// Task, letting it cooperatively observe shutdown requests.
type TaskContext struct {
	worker *Worker
}

// ShouldStop reports whether the executing worker has been asked to stop.
//
// When safeCancelPoint is true, the call additionally consults the worker's
// aggressive/fatal cancellation signal (the nearest Go equivalent of
// yielding to an OS-level cancellation test): a Task that calls
// ShouldStop(true) at a loop boundary will observe an aggressive or fatal
// Pool.Stop promptly, rather than only once a polite stop has also been
// requested.
func (c *TaskContext) ShouldStop(safeCancelPoint bool) bool {
	return c.worker.taskShouldStop(safeCancelPoint)
}

// Pool returns the Pool the executing worker is bound to, or nil if the
// worker has not yet been added to a Pool. Tasks that want to resubmit
// themselves (or submit follow-on work) do so via Pool.Submit on the
// returned value.
func (c *TaskContext) Pool() *Pool {
	return c.worker.boundPool()
}

// WorkerID returns the registry key of the worker executing this task.
func (c *TaskContext) WorkerID() uint64 {
	return c.worker.ID()
}
