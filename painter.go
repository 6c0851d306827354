package tiled

import (
	"github.com/gogpu/tiled/internal/work"
)

// Painter is the producer side of a page: it repeatedly finds tiles
// queued for repaint and rasterizes them on a pool of workers.
//
// Within one pass, different tiles paint in parallel; a given tile is
// painted by at most one worker, preserving the single-flight guarantee
// tiles rely on. Passes must not overlap: call Process from a single
// producer goroutine, or serialize calls externally.
type Painter struct {
	page    *Page
	workers *work.Pool
}

// NewPainter creates a painter for the page with the given number of
// paint workers (0 selects GOMAXPROCS).
func NewPainter(page *Page, workers int) *Painter {
	return &Painter{
		page:    page,
		workers: work.NewPool(workers),
	}
}

// Process runs one paint pass: every tile queued for repaint is painted
// once, in parallel, and the pass returns when all paints have finished
// or been abandoned. Tiles that remain dirty with a texture (abandoned
// paint, or a newer invalidation arrived mid-paint) are re-queued for
// the next pass. Tiles without a texture are not: painting them is
// impossible until the next Prepare reserves one, and Prepare re-queues
// dirty visible tiles itself.
//
// Returns the number of tiles processed this pass.
func (p *Painter) Process() int {
	var jobs []func()
	p.page.drainPending(func(t *Tile) {
		jobs = append(jobs, func() {
			t.Paint()
			if t.IsDirty() && t.tex.Load() != nil {
				// Abandoned or outrun by an invalidation; retry later.
				p.page.pending.Mark(t.x, t.y)
			}
		})
	})
	if len(jobs) == 0 {
		return 0
	}

	p.workers.Run(jobs)
	return len(jobs)
}

// Pending returns the number of tiles currently queued for repaint.
func (p *Painter) Pending() int {
	return p.page.pending.Count()
}

// Close shuts the paint workers down, finishing any queued work first.
// Close is safe to call multiple times.
func (p *Painter) Close() {
	p.workers.Close()
}
