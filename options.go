package workerpool

// PoolOption configures a Pool constructed via NewPool.
type PoolOption func(*Pool)

// WithPoolLogger sets the Pool's structured logger.
func WithPoolLogger(logger Logger) PoolOption {
	return func(p *Pool) { p.logger = logger }
}

// WithDefaultPolicy sets the DispatchPolicy used by Submit when no override
// is passed. The default, if this option is not supplied, is DummyPolicy
// (discards every submission), matching spec.md's stated default.
func WithDefaultPolicy(policy DispatchPolicy) PoolOption {
	return func(p *Pool) { p.defaultPolicy = policy }
}

// WithMetrics attaches a Metrics instance to the Pool, and to every Worker
// subsequently added via Pool.Add that doesn't already have its own.
func WithMetrics(m *Metrics) PoolOption {
	return func(p *Pool) { p.metrics = m }
}

// WorkerOption configures a Worker constructed via NewWorker.
type WorkerOption func(*Worker)

// WithWorkerLogger sets the Worker's structured logger.
func WithWorkerLogger(logger Logger) WorkerOption {
	return func(w *Worker) { w.logger = logger }
}

// WithInit supplies an overridable initialization callback, run once on the
// worker's goroutine before it begins processing its mailbox. This is the
// configuration-callback equivalent of overriding WorkerThread::init in the
// original design (see spec.md §9's re-architecture hint).
func WithInit(fn func() error) WorkerOption {
	return func(w *Worker) { w.initFn = fn }
}

// WithExecuteHook overrides how a worker executes an individual task,
// replacing the default (which simply calls task.Execute(ctx)). This is the
// configuration-callback equivalent of overriding WorkerThread::executeTask.
func WithExecuteHook(fn func(ctx *TaskContext, task Task) error) WorkerOption {
	return func(w *Worker) { w.executeFn = fn }
}

// WithWorkerMetrics attaches a Metrics instance directly to a Worker,
// overriding whatever the owning Pool would otherwise inject.
func WithWorkerMetrics(m *Metrics) WorkerOption {
	return func(w *Worker) { w.metrics = m }
}
