package workerpool

import "errors"

var (
	// ErrWorkerAlreadyBound is returned by Worker.SetPool when the worker is
	// already bound to a pool. Per spec, binding a worker twice is
	// programmer misuse; SetPool reports it rather than panicking so that
	// Pool.Add (which may race Worker.SetPool against nothing but itself)
	// can surface it as a normal error.
	ErrWorkerAlreadyBound = errors.New("workerpool: worker already bound to a pool")

	// ErrWorkerRunning is returned by Worker.SetPool when the worker has
	// already been started.
	ErrWorkerRunning = errors.New("workerpool: worker already running")
)
