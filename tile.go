package tiled

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/tiled/texture"
)

// Rasterizer paints content into a tile's off-screen buffer.
//
// Paint applies the given transform (content coordinates to buffer
// coordinates) and returns the content generation stamp of what it
// painted. Implementations are called from the producer goroutine, one
// call per tile at a time, but concurrently across tiles.
type Rasterizer interface {
	Paint(s *texture.Surface, transform Matrix) int64
}

// QuadRenderer submits a textured quad for display. Implementations are
// called from the consumer goroutine with the consumer-side surface lock
// held, so the sampled buffer cannot be swapped out from under them.
type QuadRenderer interface {
	SubmitQuad(rect Rect, s *texture.Surface, transparency float64)
}

// TileConfig carries a tile's collaborators. Pages fill this in for
// every tile they create.
type TileConfig struct {
	// Pool hands out and reclaims the shared textures.
	Pool *texture.Pool

	// Rasterizer paints content generations into buffers.
	Rasterizer Rasterizer

	// Renderer receives quads for ready tiles.
	Renderer QuadRenderer

	// UsedLevelThreshold bounds paintable textures; see Options.
	// Zero selects DefaultUsedLevelThreshold.
	UsedLevelThreshold int
}

// Tile is one logical cell of the page grid at a fixed (x, y) position.
//
// A tile references at most one pooled texture, without owning it: the
// pool may reassign the texture to another tile at any time, and every
// producer-side access re-validates ownership rather than assuming it.
//
// Two goroutines call into a tile concurrently. The consumer (render)
// goroutine calls ReserveTexture, RemoveTexture and Draw; the producer
// (paint) goroutine calls Paint. The tuple (texture, scale, dirty,
// generations) is guarded by one non-reentrant mutex held only for the
// read or write itself, never across rasterization or a texture lock
// wait. The texture reference is additionally published through an
// atomic pointer so Draw's no-texture fast path needs no lock.
type Tile struct {
	x, y int

	pool      *texture.Pool
	raster    Rasterizer
	renderer  QuadRenderer
	threshold int

	// tex is written only by the consumer goroutine. Reads outside mu
	// are fast-path hints; multi-field snapshots take mu.
	tex atomic.Pointer[texture.Texture]

	mu             sync.Mutex // guards scale, dirty, generations with tex updates
	scale          float64
	dirty          bool
	lastDirtyGen   int64
	lastPaintedGen int64
}

// NewTile creates a tile at grid position (x, y) with scale 1.
// A new tile is dirty: it has no painted content yet.
func NewTile(x, y int, cfg TileConfig) *Tile {
	threshold := cfg.UsedLevelThreshold
	if threshold == 0 {
		threshold = DefaultUsedLevelThreshold
	}
	tileCount.Add(1)
	return &Tile{
		x:         x,
		y:         y,
		pool:      cfg.Pool,
		raster:    cfg.Rasterizer,
		renderer:  cfg.Renderer,
		threshold: threshold,
		scale:     1,
		dirty:     true,
	}
}

// X returns the tile's grid column.
func (t *Tile) X() int { return t.x }

// Y returns the tile's grid row.
func (t *Tile) Y() int { return t.y }

// Coords implements texture.Owner.
func (t *Tile) Coords() (int, int) { return t.x, t.y }

// Scale returns the tile's current render scale.
func (t *Tile) Scale() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scale
}

// ReserveTexture requests a texture from the pool for this tile.
// Consumer goroutine only.
//
// If the pool returns a different texture than currently held, the paint
// history is reset and the tile is marked dirty: a reassigned texture
// never contains valid prior content for this tile. The reference swap
// and the reset are one atomic unit, so the producer can never observe a
// fresh texture with stale generations.
func (t *Tile) ReserveTexture() {
	tex := t.pool.Acquire(t)

	t.mu.Lock()
	if t.tex.Load() != tex {
		t.lastPaintedGen = 0
		t.dirty = true
	}
	t.tex.Store(tex)
	t.mu.Unlock()
}

// RemoveTexture clears the tile's texture reference. Consumer goroutine
// only. It never blocks on an in-progress paint of the same texture; the
// producer detects the change through its own ownership re-validation.
func (t *Tile) RemoveTexture() {
	Logger().Debug("remove texture", "x", t.x, "y", t.y)
	// Updated atomically so Paint sees the correct value.
	t.mu.Lock()
	t.tex.Store(nil)
	t.mu.Unlock()
}

// SetScale updates the render scale, marking the tile dirty on change:
// content must be re-rasterized at the new resolution.
func (t *Tile) SetScale(scale float64) {
	t.mu.Lock()
	if t.scale != scale {
		t.dirty = true
	}
	t.scale = scale
	t.mu.Unlock()
}

// MarkDirty records gen as the latest content generation that
// invalidated this tile. The stored generation is last-write-wins; the
// dirty flag is only ever set here, never cleared, so racing
// invalidation sources cannot lose an invalidation.
func (t *Tile) MarkDirty(gen int64) {
	t.mu.Lock()
	t.lastDirtyGen = gen
	if t.lastPaintedGen < gen {
		t.dirty = true
	}
	t.mu.Unlock()
}

// IsDirty reports whether the tile's content is stale. Used by the
// producer for scheduling.
func (t *Tile) IsDirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.dirty
}

// SetUsedLevel forwards a usage hint to the held texture, if any,
// informing the pool's reassignment policy.
func (t *Tile) SetUsedLevel(level int) {
	if tex := t.tex.Load(); tex != nil {
		tex.SetUsedLevel(level)
	}
}

// Release drops the tile's used-level claim on its texture, leaving the
// texture free for pool reassignment. Call when discarding the tile.
func (t *Tile) Release() {
	t.SetUsedLevel(texture.UsedLevelFree)
	tileCount.Add(-1)
}

// Draw submits a quad sampling the tile's texture. Consumer goroutine
// only.
//
// The no-texture check is lock-free: only the consumer goroutine writes
// the reference. An unavailable consumer-side surface (producer
// mid-update) skips this frame; the next render pass simply tries again.
// A tile whose texture has never been painted submits nothing.
func (t *Tile) Draw(transparency float64, rect Rect) {
	tex := t.tex.Load()
	if tex == nil {
		return
	}

	surf := tex.ConsumerLock()
	if surf == nil {
		Logger().Debug("draw skipped, surface unavailable", "x", t.x, "y", t.y)
		tex.ConsumerRelease()
		return
	}

	t.mu.Lock()
	painted := t.lastPaintedGen != 0
	t.mu.Unlock()

	if painted {
		t.renderer.SubmitQuad(rect, surf, transparency)
	}

	tex.ConsumerRelease()
}

// Ready reports whether the tile is presentable: it holds a texture, the
// texture still recognizes the tile as its owner, and the content is not
// dirty.
func (t *Tile) Ready() bool {
	tex := t.tex.Load()
	if tex == nil {
		return false
	}
	if tex.Owner() != texture.Owner(t) {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.dirty
}

// Paint rasterizes the tile's content into its texture's off-screen
// buffer and commits it. Producer goroutine only; the scheduler
// guarantees at most one Paint per tile at a time, but Paint runs
// concurrently with Draw and with reservation on other tiles.
//
// A paint is silently abandoned when, after acquiring the producer lock,
// the texture has been reassigned to another tile or its used level says
// a more visible tile needs it. The tile stays dirty and is retried from
// scratch on a later pass.
func (t *Tile) Paint() {
	// Snapshot the tuple atomically; afterwards other goroutines may
	// update it without consequence, the checks below catch that.
	t.mu.Lock()
	dirty := t.dirty
	tex := t.tex.Load()
	scale := t.scale
	t.mu.Unlock()

	if !dirty || tex == nil {
		return
	}

	surf := tex.ProducerLock()

	// The pool may have handed the texture to another tile between the
	// snapshot and the lock acquisition.
	if tex.Owner() != texture.Owner(t) || tex.UsedLevel() > t.threshold {
		Logger().Debug("paint abandoned", "x", t.x, "y", t.y,
			"usedLevel", tex.UsedLevel())
		tex.ProducerRelease()
		return
	}

	// Map this tile's grid cell onto the full buffer extent.
	w := float64(surf.Width()) / scale
	h := float64(surf.Height()) / scale
	transform := Scale(scale, scale).
		Multiply(Translate(-float64(t.x)*w, -float64(t.y)*h))

	gen := t.raster.Paint(surf, transform)

	tex.ProducerUpdate(surf)

	t.mu.Lock()
	t.lastPaintedGen = gen
	// An invalidation that arrived mid-paint with a newer generation
	// must leave the tile dirty so it is painted again.
	if t.lastPaintedGen >= t.lastDirtyGen {
		t.dirty = false
	}
	t.mu.Unlock()
}
