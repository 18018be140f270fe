package engine

import (
	"context"
	"runtime"
	"sync"
)

// Pool is a bounded worker pool that blocking node implementations are
// dispatched onto, so a slow node cannot stall other concurrent workflow
// executions. Non-blocking implementations run in the caller's goroutine and
// never touch the pool.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	closed sync.Once
}

// NewPool starts size workers. A size of zero or less falls back to the
// number of CPUs, with a floor of two.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}

	if size < 2 {
		size = 2
	}

	p := &Pool{
		tasks: make(chan func()),
	}

	for range size {
		p.wg.Add(1)

		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		task()
	}
}

// Do submits task and waits for it to finish. It returns ctx.Err when the
// context is cancelled while the task is still queued; once a worker picks
// the task up it runs to completion.
func (p *Pool) Do(ctx context.Context, task func()) error {
	done := make(chan struct{})

	wrapped := func() {
		defer close(done)
		task()
	}

	select {
	case p.tasks <- wrapped:
	case <-ctx.Done():
		return ctx.Err()
	}

	<-done

	return nil
}

// Close stops accepting tasks and waits for in-flight ones to finish.
func (p *Pool) Close() {
	p.closed.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}
