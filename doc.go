// Package workerpool implements a fixed-size pool of long-lived goroutine
// workers, a pluggable dispatch policy for routing submitted tasks to
// workers, and a staged shutdown protocol that escalates from a polite
// drain through a cooperative cancel to a fatal, leak-accepting cancel.
//
// The pool does not own submitted tasks, does not persist work across
// restarts, and offers no back-pressure: callers that submit faster than
// workers consume will grow worker mailboxes unboundedly.
package workerpool
