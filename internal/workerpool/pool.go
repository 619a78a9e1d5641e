// Package workerpool is a small fixed-size pool of goroutines supervised by
// a gopkg.in/tomb.v2 tomb, adapted from the teacher's internal/utils
// (referenced but never checked in by internal/net/server.go as
// utils.WorkerPool — reconstructed here from its call sites: Setup(tomb,
// handler) followed by repeated AddTask(task)).
package workerpool

import "gopkg.in/tomb.v2"

// Handler processes one task. Returning a non-nil error is fatal to the
// tomb supervising the pool, matching internal/server's "any error from a
// connection worker is fatal" contract.
type Handler func(t *tomb.Tomb, task any) error

// Pool is a fixed-size set of worker goroutines pulling from a shared task
// queue.
type Pool struct {
	size  int
	tasks chan any
}

// New constructs a pool with the given number of workers and a task queue
// of the same depth.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{size: size, tasks: make(chan any, size)}
}

// Setup starts size worker goroutines under t, each running handler against
// tasks pulled off the queue until t starts dying.
func (p *Pool) Setup(t *tomb.Tomb, handler Handler) {
	for i := 0; i < p.size; i++ {
		t.Go(func() error {
			for {
				select {
				case <-t.Dying():
					return nil
				case task := <-p.tasks:
					if err := handler(t, task); err != nil {
						return err
					}
				}
			}
		})
	}
}

// AddTask enqueues a task for the next free worker. Blocks if every worker
// is busy and the queue is full.
func (p *Pool) AddTask(task any) {
	p.tasks <- task
}
