package sctree

import (
	"runtime"
	"sync/atomic"
)

type branchTask[T any] struct {
	claimed atomic.Bool
	run     func() T
	result  chan T
}

// claim returns true for exactly one caller.
func (b *branchTask[T]) claim() bool {
	return b.claimed.CompareAndSwap(false, true)
}

// A branchQueue grows the two branches of a split on up to a fixed number of
// goroutines.
//
// The root task is started with Run(). Inside a task, Fork() runs the two
// branches, offering the second one to idle workers while the calling
// goroutine grows the first one. A branch nobody picked up is run by the
// caller, so a task never waits on work that has not started.
//
// After Stop(), branches which have not started yet are skipped and yield
// the zero value of T.
type branchQueue[T any] struct {
	queue   chan *branchTask[T]
	stopped atomic.Bool
}

func newBranchQueue[T any](numWorkers int) *branchQueue[T] {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	res := &branchQueue[T]{
		queue: make(chan *branchTask[T], numWorkers*1000),
	}
	for i := 0; i < numWorkers; i++ {
		go res.worker()
	}
	return res
}

// Run executes the root task and shuts the workers down afterwards.
func (b *branchQueue[T]) Run(fn func() T) T {
	defer close(b.queue)
	task := &branchTask[T]{run: fn, result: make(chan T, 1)}
	b.queue <- task
	return <-task.result
}

// Stop skips every branch which has not started yet.
// Branches which are already running finish normally.
func (b *branchQueue[T]) Stop() {
	b.stopped.Store(true)
}

func (b *branchQueue[T]) Stopped() bool {
	return b.stopped.Load()
}

func (b *branchQueue[T]) Fork(left, right func() T) (T, T) {
	task := &branchTask[T]{run: right, result: make(chan T, 1)}
	select {
	case b.queue <- task:
	default:
		// The queue is full, so grow the branch here to bound memory.
		task.claim()
		task.result <- b.start(task.run)
	}
	leftResult := b.start(left)
	var rightResult T
	if task.claim() {
		rightResult = b.start(right)
	} else {
		rightResult = <-task.result
	}
	return leftResult, rightResult
}

func (b *branchQueue[T]) start(fn func() T) T {
	if b.stopped.Load() {
		var zero T
		return zero
	}
	return fn()
}

func (b *branchQueue[T]) worker() {
	for task := range b.queue {
		if !task.claim() {
			continue
		}
		task.result <- b.start(task.run)
	}
}
