package workerpool

import (
	"runtime"
	"testing"
	"time"
)

// checkNoGoroutineLeak returns a func to be deferred at the start of a test,
// which re-checks the goroutine count against the count observed at defer
// time, failing the test if it hasn't settled back down within timeout.
// This mirrors the teacher's own microbatch_test.go convention
// (checkNumGoroutines), adapted here under a name that says what it does.
func checkNoGoroutineLeak(timeout time.Duration) func(t *testing.T) {
	before := runtime.NumGoroutine()
	return func(t *testing.T) {
		t.Helper()
		deadline := time.Now().Add(timeout)
		for {
			after := runtime.NumGoroutine()
			if after <= before {
				return
			}
			if time.Now().After(deadline) {
				t.Errorf("goroutine leak: had %d, now %d", before, after)
				return
			}
			runtime.Gosched()
			time.Sleep(time.Millisecond)
		}
	}
}
