// Package work provides the goroutine pool behind the paint scheduler.
package work

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool runs submitted jobs on a fixed set of worker goroutines.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	jobs    chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// Workers start immediately and wait for jobs.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// A few slots per worker keep submitters from blocking on bursts.
	queue := workers * 4
	if queue < 8 {
		queue = 8
	}

	p := &Pool{
		workers: workers,
		jobs:    make(chan func(), queue),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			// Drain remaining jobs before exiting.
			for {
				select {
				case job := <-p.jobs:
					job()
				default:
					return
				}
			}
		case job := <-p.jobs:
			job()
		}
	}
}

// Run distributes jobs across the workers and waits for all of them to
// complete. If the pool is closed, remaining jobs are skipped.
func (p *Pool) Run(jobs []func()) {
	if len(jobs) == 0 || !p.running.Load() {
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(jobs))

	for _, job := range jobs {
		job := job
		wrapped := func() {
			defer wg.Done()
			job()
		}
		select {
		case p.jobs <- wrapped:
		case <-p.done:
			wg.Done()
		}
	}

	wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Close stops accepting jobs, runs what is already queued, and waits for
// the workers to exit. Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}
