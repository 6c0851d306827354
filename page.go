package tiled

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/gogpu/tiled/internal/dirtymap"
	"github.com/gogpu/tiled/texture"
)

// Page errors.
var (
	// ErrNilPool is returned when a page is created without a texture pool.
	ErrNilPool = errors.New("tiled: nil texture pool")

	// ErrNilRasterizer is returned when a page is created without a rasterizer.
	ErrNilRasterizer = errors.New("tiled: nil rasterizer")

	// ErrNilRenderer is returned when a page is created without a renderer.
	ErrNilRenderer = errors.New("tiled: nil renderer")

	// ErrInvalidContentSize is returned for non-positive content dimensions.
	ErrInvalidContentSize = errors.New("tiled: invalid content size")
)

// PageConfig configures a Page.
type PageConfig struct {
	// Options holds tile dimensions and paint policy.
	Options Options

	// Pool supplies the shared textures. Its buffer size must match the
	// tile dimensions in Options.
	Pool *texture.Pool

	// Rasterizer paints content into tile buffers.
	Rasterizer Rasterizer

	// Renderer receives quads for ready tiles.
	Renderer QuadRenderer

	// ContentWidth and ContentHeight are the content dimensions in
	// pixels at scale 1. The grid is sized to cover them.
	ContentWidth  int
	ContentHeight int
}

// Page is a grid of tiles covering a content area.
//
// The grid is fixed at construction; what changes over the page's life
// is which tiles hold textures, their scale, and their dirty state. The
// consumer goroutine calls Prepare and Draw each frame; content updates
// call Invalidate from any goroutine; a Painter drains the pending set
// on the producer side.
type Page struct {
	opts     Options
	pool     *texture.Pool
	raster   Rasterizer
	renderer QuadRenderer

	tilesX int
	tilesY int
	tiles  []*Tile // row-major, immutable after construction

	// pending schedules tiles for the painter. Tile dirty flags are the
	// authority; pending is how the producer finds them without a scan.
	pending *dirtymap.Map

	mu       sync.Mutex // guards scale, viewport
	scale    float64
	viewport image.Rectangle
}

// NewPage creates a page over the given content area.
func NewPage(cfg PageConfig) (*Page, error) {
	if cfg.Pool == nil {
		return nil, ErrNilPool
	}
	if cfg.Rasterizer == nil {
		return nil, ErrNilRasterizer
	}
	if cfg.Renderer == nil {
		return nil, ErrNilRenderer
	}
	if cfg.ContentWidth <= 0 || cfg.ContentHeight <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidContentSize,
			cfg.ContentWidth, cfg.ContentHeight)
	}

	opts := cfg.Options.withDefaults()
	tilesX := (cfg.ContentWidth + opts.TileWidth - 1) / opts.TileWidth
	tilesY := (cfg.ContentHeight + opts.TileHeight - 1) / opts.TileHeight

	p := &Page{
		opts:     opts,
		pool:     cfg.Pool,
		raster:   cfg.Rasterizer,
		renderer: cfg.Renderer,
		tilesX:   tilesX,
		tilesY:   tilesY,
		tiles:    make([]*Tile, tilesX*tilesY),
		pending:  dirtymap.New(tilesX, tilesY),
		scale:    1,
	}

	tileCfg := TileConfig{
		Pool:               cfg.Pool,
		Rasterizer:         cfg.Rasterizer,
		Renderer:           cfg.Renderer,
		UsedLevelThreshold: opts.UsedLevelThreshold,
	}
	for ty := range tilesY {
		for tx := range tilesX {
			p.tiles[ty*tilesX+tx] = NewTile(tx, ty, tileCfg)
		}
	}

	Logger().Info("page created", "tilesX", tilesX, "tilesY", tilesY,
		"tileWidth", opts.TileWidth, "tileHeight", opts.TileHeight)
	return p, nil
}

// TilesX returns the grid width in tiles.
func (p *Page) TilesX() int { return p.tilesX }

// TilesY returns the grid height in tiles.
func (p *Page) TilesY() int { return p.tilesY }

// Tile returns the tile at grid position (tx, ty), or nil when out of
// bounds.
func (p *Page) Tile(tx, ty int) *Tile {
	if tx < 0 || tx >= p.tilesX || ty < 0 || ty >= p.tilesY {
		return nil
	}
	return p.tiles[ty*p.tilesX+tx]
}

// Scale returns the page's current render scale.
func (p *Page) Scale() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scale
}

// SetScale updates the render scale on every tile. Changed tiles become
// dirty and are queued for repaint.
func (p *Page) SetScale(scale float64) {
	if scale <= 0 {
		return
	}
	p.mu.Lock()
	changed := p.scale != scale
	p.scale = scale
	p.mu.Unlock()
	if !changed {
		return
	}

	for _, t := range p.tiles {
		t.SetScale(scale)
	}
	p.pending.MarkAll()
}

// cellSize returns a tile's extent in content pixels at the current scale.
func (p *Page) cellSize() (w, h float64) {
	p.mu.Lock()
	scale := p.scale
	p.mu.Unlock()
	return float64(p.opts.TileWidth) / scale, float64(p.opts.TileHeight) / scale
}

// tileRange returns the grid range intersecting a content-space rectangle.
func (p *Page) tileRange(r image.Rectangle) (tx1, ty1, tx2, ty2 int, ok bool) {
	if r.Empty() {
		return 0, 0, 0, 0, false
	}
	cw, ch := p.cellSize()

	// Floor, not truncate: a rect at negative coordinates must map to
	// negative tile indices so the bounds check below rejects it.
	tx1 = int(math.Floor(float64(r.Min.X) / cw))
	ty1 = int(math.Floor(float64(r.Min.Y) / ch))
	tx2 = int(math.Floor(float64(r.Max.X-1) / cw))
	ty2 = int(math.Floor(float64(r.Max.Y-1) / ch))

	if tx2 < 0 || ty2 < 0 || tx1 >= p.tilesX || ty1 >= p.tilesY {
		return 0, 0, 0, 0, false
	}
	tx1 = max(tx1, 0)
	ty1 = max(ty1, 0)
	tx2 = min(tx2, p.tilesX-1)
	ty2 = min(ty2, p.tilesY-1)
	return tx1, ty1, tx2, ty2, true
}

// Invalidate records that the content inside rect (content pixels)
// changed at the given generation. Intersecting tiles become dirty and
// are queued for repaint. Safe to call from any goroutine.
func (p *Page) Invalidate(rect image.Rectangle, gen int64) {
	tx1, ty1, tx2, ty2, ok := p.tileRange(rect)
	if !ok {
		return
	}
	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			p.tiles[ty*p.tilesX+tx].MarkDirty(gen)
			p.pending.Mark(tx, ty)
		}
	}
}

// InvalidateAll marks the whole page dirty at the given generation.
func (p *Page) InvalidateAll(gen int64) {
	for _, t := range p.tiles {
		t.MarkDirty(gen)
	}
	p.pending.MarkAll()
}

// Prepare reserves textures for the tiles visible in the viewport
// (content pixels) and refreshes used levels across the grid: visible
// tiles claim level 0, others their Chebyshev tile distance from the
// viewport, so the pool reclaims the farthest textures first. Dirty
// visible tiles are queued for repaint.
//
// Consumer goroutine only.
func (p *Page) Prepare(viewport image.Rectangle) {
	tx1, ty1, tx2, ty2, ok := p.tileRange(viewport)
	if !ok {
		return
	}

	p.mu.Lock()
	p.viewport = viewport
	p.mu.Unlock()

	for ty := range p.tilesY {
		for tx := range p.tilesX {
			t := p.tiles[ty*p.tilesX+tx]
			if tx >= tx1 && tx <= tx2 && ty >= ty1 && ty <= ty2 {
				t.ReserveTexture()
				t.SetUsedLevel(texture.UsedLevelVisible)
				if t.IsDirty() {
					p.pending.Mark(tx, ty)
				}
				continue
			}
			// Distance-based hint; the pool steals from the farthest.
			t.SetUsedLevel(tileDistance(tx, ty, tx1, ty1, tx2, ty2))
		}
	}
}

// tileDistance is the Chebyshev distance from (tx, ty) to the tile range.
func tileDistance(tx, ty, tx1, ty1, tx2, ty2 int) int {
	dx := 0
	if tx < tx1 {
		dx = tx1 - tx
	} else if tx > tx2 {
		dx = tx - tx2
	}
	dy := 0
	if ty < ty1 {
		dy = ty1 - ty
	} else if ty > ty2 {
		dy = ty - ty2
	}
	return max(dx, dy)
}

// Draw submits quads for the visible tiles using the viewport recorded
// by the last Prepare. Tiles with no texture or no painted content are
// skipped silently. Consumer goroutine only.
func (p *Page) Draw(transparency float64) {
	p.mu.Lock()
	viewport := p.viewport
	scale := p.scale
	p.mu.Unlock()

	tx1, ty1, tx2, ty2, ok := p.tileRange(viewport)
	if !ok {
		return
	}

	tileW := float64(p.opts.TileWidth)
	tileH := float64(p.opts.TileHeight)
	originX := float64(viewport.Min.X) * scale
	originY := float64(viewport.Min.Y) * scale

	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			rect := R(
				float64(tx)*tileW-originX,
				float64(ty)*tileH-originY,
				tileW, tileH,
			)
			p.tiles[ty*p.tilesX+tx].Draw(transparency, rect)
		}
	}
}

// Ready reports whether every tile visible in the last prepared viewport
// is presentable.
func (p *Page) Ready() bool {
	p.mu.Lock()
	viewport := p.viewport
	p.mu.Unlock()

	tx1, ty1, tx2, ty2, ok := p.tileRange(viewport)
	if !ok {
		return false
	}
	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			if !p.tiles[ty*p.tilesX+tx].Ready() {
				return false
			}
		}
	}
	return true
}

// Release drops every tile's texture claim and returns the page's
// textures to the pool's free set. Call when discarding the page.
func (p *Page) Release() {
	for _, t := range p.tiles {
		t.Release()
		p.pool.Release(t)
	}
}

// drainPending hands every queued tile to fn and clears the queue.
// Called by the Painter once per pass.
func (p *Page) drainPending(fn func(t *Tile)) {
	p.pending.Drain(func(tx, ty int) {
		fn(p.tiles[ty*p.tilesX+tx])
	})
}
