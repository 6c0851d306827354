package work

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNewPoolDefaults(t *testing.T) {
	p := NewPool(0)
	defer p.Close()
	if got, want := p.Workers(), runtime.GOMAXPROCS(0); got != want {
		t.Errorf("Workers() = %d, want %d", got, want)
	}

	p2 := NewPool(3)
	defer p2.Close()
	if got := p2.Workers(); got != 3 {
		t.Errorf("Workers() = %d, want 3", got)
	}
}

func TestRunExecutesAllJobs(t *testing.T) {
	p := NewPool(4)
	defer p.Close()

	var n atomic.Int32
	jobs := make([]func(), 100)
	for i := range jobs {
		jobs[i] = func() { n.Add(1) }
	}

	p.Run(jobs)
	if got := n.Load(); got != 100 {
		t.Errorf("jobs executed = %d, want 100", got)
	}

	// Run returns only after every job finished, so a second batch
	// observes the first.
	p.Run([]func(){func() { n.Add(1) }})
	if got := n.Load(); got != 101 {
		t.Errorf("jobs executed = %d, want 101", got)
	}
}

func TestRunEmpty(t *testing.T) {
	p := NewPool(1)
	defer p.Close()
	p.Run(nil)
	p.Run([]func(){})
}

func TestRunInParallel(t *testing.T) {
	p := NewPool(2)
	defer p.Close()

	// Two jobs that each wait for the other prove both run at once.
	var ready sync.WaitGroup
	ready.Add(2)
	barrier := func() {
		ready.Done()
		ready.Wait()
	}
	p.Run([]func(){barrier, barrier})
}

func TestCloseIdempotent(t *testing.T) {
	p := NewPool(2)
	p.Close()
	p.Close()

	// Work after close is dropped, not deadlocked.
	p.Run([]func(){func() { t.Error("job ran after close") }})
}
