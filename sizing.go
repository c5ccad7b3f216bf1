package workerpool

import (
	"runtime"

	"go.uber.org/automaxprocs/maxprocs"
)

// EnableAutoMaxProcs right-sizes GOMAXPROCS to match a cgroup/container CPU
// quota, rather than the host's full core count. It should be called once,
// early in a host program's startup, before sizing a Pool with
// DefaultPoolSize. printf is an optional sink for the library's own log
// line (e.g. a Logger-backed adapter); passing nil discards it.
func EnableAutoMaxProcs(printf func(format string, args ...any)) error {
	opts := []maxprocs.Option{maxprocs.Logger(func(string, ...any) {})}
	if printf != nil {
		opts = []maxprocs.Option{maxprocs.Logger(printf)}
	}
	_, err := maxprocs.Set(opts...)
	return err
}

// DefaultPoolSize returns a reasonable default worker count for a CPU-bound
// pool: the current GOMAXPROCS value, which EnableAutoMaxProcs (if called)
// will have already adjusted to the host's usable CPU quota.
func DefaultPoolSize() int {
	return runtime.GOMAXPROCS(0)
}
