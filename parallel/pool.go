package parallel

import (
	"context"
	"runtime"
	"sync"
)

// Pool runs jobs on a fixed set of goroutines. A pool with a single worker
// runs every job on the calling goroutine.
type Pool struct {
	workers int
	wg      sync.WaitGroup
	jobs    chan func()
	stop    func()
}

// Start launches numWorkers goroutines, or GOMAXPROCS when numWorkers is
// less than one.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		workers: numWorkers,
		stop:    func() {},
	}
	if numWorkers == 1 {
		return pool
	}

	pool.jobs = make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range pool.jobs {
				f()
			}
		})
	}
	pool.stop = sync.OnceFunc(func() { close(pool.jobs) })
	return pool
}

func (p *Pool) Workers() int {
	return p.workers
}

// Do queues f, blocking while every worker is busy.
func (p *Pool) Do(f func()) {
	if p.jobs == nil {
		f()
		return
	}
	p.jobs <- f
}

// Wait stops accepting jobs and blocks until the queued ones are done.
// The pool cannot be used afterwards.
func (p *Pool) Wait() {
	p.stop()
	p.wg.Wait()
}

// Each calls fn for every item on the pool and waits for all of them.
// Items not yet queued when ctx is done are skipped and counted.
func Each[T any](ctx context.Context, p *Pool, items []T, fn func(T)) (skipped int) {
	var wg sync.WaitGroup
	for i, item := range items {
		if ctx.Err() != nil {
			skipped = len(items) - i
			break
		}
		wg.Add(1)
		p.Do(func() {
			defer wg.Done()
			fn(item)
		})
	}
	wg.Wait()
	return skipped
}
