package tiled

import (
	"image"
	"testing"
)

func TestPainter_ProcessPaintsPendingTiles(t *testing.T) {
	f := newPageFixture(t, 16, 16, 4) // 2x2 grid
	painter := NewPainter(f.page, 2)
	defer painter.Close()

	f.raster.gen.Store(1)
	f.page.Prepare(image.Rect(0, 0, 16, 16))
	if got := painter.Pending(); got != 4 {
		t.Fatalf("Pending() after prepare = %d, want 4", got)
	}

	if got := painter.Process(); got != 4 {
		t.Errorf("Process() = %d, want 4", got)
	}
	if got := painter.Pending(); got != 0 {
		t.Errorf("Pending() after process = %d, want 0", got)
	}
	if got := f.raster.calls.Load(); got != 4 {
		t.Errorf("raster calls = %d, want 4", got)
	}
	if !f.page.Ready() {
		t.Error("page not ready after process")
	}

	// Nothing queued, nothing painted.
	if got := painter.Process(); got != 0 {
		t.Errorf("second Process() = %d, want 0", got)
	}
}

func TestPainter_RequeuesAbandonedPaints(t *testing.T) {
	f := newPageFixture(t, 16, 8, 2) // 2x1 grid
	painter := NewPainter(f.page, 1)
	defer painter.Close()

	f.raster.gen.Store(1)
	f.page.Prepare(image.Rect(0, 0, 16, 8))

	// Push both textures above the paint threshold: every paint in the
	// pass is abandoned and the tiles go back in the queue.
	f.page.Tile(0, 0).SetUsedLevel(3)
	f.page.Tile(1, 0).SetUsedLevel(3)

	if got := painter.Process(); got != 2 {
		t.Fatalf("Process() = %d, want 2", got)
	}
	if got := f.raster.calls.Load(); got != 0 {
		t.Errorf("raster calls for abandoned paints = %d, want 0", got)
	}
	if got := painter.Pending(); got != 2 {
		t.Fatalf("Pending() after abandoned pass = %d, want 2", got)
	}

	// Restoring visibility lets the next pass succeed.
	f.page.Prepare(image.Rect(0, 0, 16, 8))
	painter.Process()
	if got := painter.Pending(); got != 0 {
		t.Errorf("Pending() after retry = %d, want 0", got)
	}
	if !f.page.Ready() {
		t.Error("page not ready after retry")
	}
}

func TestPainter_DropsTexturelessTiles(t *testing.T) {
	// 2x2 grid but only one pooled texture: after a full invalidation,
	// only the visible tile can paint. The other three have no texture
	// and must leave the queue until a Prepare hands them one.
	f := newPageFixture(t, 16, 16, 1)
	painter := NewPainter(f.page, 1)
	defer painter.Close()

	f.raster.gen.Store(1)
	f.page.InvalidateAll(1)
	f.page.Prepare(image.Rect(0, 0, 8, 8)) // tile (0,0) visible

	if got := painter.Process(); got != 4 {
		t.Fatalf("Process() = %d, want 4", got)
	}
	if got := painter.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0 with untextured tiles dropped", got)
	}
	if got := painter.Process(); got != 0 {
		t.Errorf("second Process() = %d, want 0", got)
	}
	if !f.page.Tile(0, 0).Ready() {
		t.Error("visible tile not painted")
	}
	if got := f.raster.calls.Load(); got != 1 {
		t.Errorf("raster calls = %d, want 1", got)
	}
}

func TestPainter_CloseIdempotent(t *testing.T) {
	f := newPageFixture(t, 8, 8, 1)
	painter := NewPainter(f.page, 1)
	painter.Close()
	painter.Close()
}
