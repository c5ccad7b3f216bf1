package workerpool_test

import (
	"fmt"
	"time"

	workerpool "github.com/joeycumines/go-workerpool"
)

// Demonstrates the basic lifecycle: build a pool, add a single worker,
// submit some work, and drain it with a polite stop. A pool with one
// worker processes its mailbox strictly in submission order, which is what
// makes this example's output deterministic.
func ExamplePool_basic() {
	p := workerpool.NewPool(workerpool.WithDefaultPolicy(&workerpool.RoundRobinPolicy{}))
	if _, err := p.Add(workerpool.NewWorker()); err != nil {
		panic(err)
	}

	for i := 1; i <= 3; i++ {
		i := i
		if !p.Submit(workerpool.TaskFunc(func(ctx *workerpool.TaskContext) error {
			fmt.Printf("ran task %d\n", i)
			return nil
		})) {
			panic("submit rejected")
		}
	}

	// finishAll=true: the worker drains its remaining mailbox before
	// exiting, so every submitted task is guaranteed to have run by the
	// time Stop returns.
	switch p.Stop(true, time.Second, time.Second, false) {
	case workerpool.StopMethodPolite:
		fmt.Println("stopped politely")
	default:
		panic("expected a polite stop")
	}

	//output:
	//ran task 1
	//ran task 2
	//ran task 3
	//stopped politely
}

// Demonstrates a task cooperating with shutdown by checking
// TaskContext.ShouldStop between units of its own work, rather than
// relying on the pool to interrupt it.
func ExampleTaskContext_ShouldStop() {
	p := workerpool.NewPool(workerpool.WithDefaultPolicy(&workerpool.RoundRobinPolicy{}))
	if _, err := p.Add(workerpool.NewWorker()); err != nil {
		panic(err)
	}

	ranSteps := make(chan int, 16)
	finished := make(chan struct{})

	if !p.Submit(workerpool.TaskFunc(func(ctx *workerpool.TaskContext) error {
		defer close(finished)
		for step := 1; step <= 100; step++ {
			if ctx.ShouldStop(false) {
				return nil
			}
			ranSteps <- step
			time.Sleep(10 * time.Millisecond)
		}
		return nil
	})) {
		panic("submit rejected")
	}

	// Stop as soon as the task has had a chance to run at least once; a
	// polite stop just sets the flag the task is already checking.
	<-ranSteps
	p.Stop(false, time.Second, time.Second, false)
	<-finished

	fmt.Println("task observed the stop request and exited early")

	//output:
	//task observed the stop request and exited early
}
