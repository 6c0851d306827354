package tiled

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/gogpu/tiled/texture"
)

// fillRaster paints the whole buffer a solid color.
type fillRaster struct {
	c   color.RGBA
	gen int64
}

func (r *fillRaster) Paint(s *texture.Surface, _ Matrix) int64 {
	img := s.Image()
	draw.Draw(img, img.Bounds(), image.NewUniform(r.c), image.Point{}, draw.Src)
	return r.gen
}

func newFilledSurface(t *testing.T, w, h int, c color.RGBA) *texture.Surface {
	t.Helper()
	s, err := texture.NewImageAllocator().Allocate(w, h)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	draw.Draw(s.Image(), s.Image().Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return s
}

func TestSoftwareRenderer_SubmitQuad(t *testing.T) {
	r := NewSoftwareRenderer(8, 8)
	red := color.RGBA{R: 255, A: 255}
	s := newFilledSurface(t, 4, 4, red)

	r.SubmitQuad(R(0, 0, 4, 4), s, 1.0)

	fb := r.Image()
	for _, p := range []image.Point{{0, 0}, {3, 3}} {
		if got := fb.RGBAAt(p.X, p.Y); got != red {
			t.Errorf("pixel %v = %v, want %v", p, got, red)
		}
	}
	// Outside the quad stays untouched.
	if got := fb.RGBAAt(5, 5); got != (color.RGBA{}) {
		t.Errorf("pixel (5,5) = %v, want zero", got)
	}
}

func TestSoftwareRenderer_ScalesSurfaceToQuad(t *testing.T) {
	r := NewSoftwareRenderer(8, 8)
	blue := color.RGBA{B: 255, A: 255}
	s := newFilledSurface(t, 2, 2, blue)

	// A 2x2 surface stretched over an 8x8 quad covers the framebuffer.
	r.SubmitQuad(R(0, 0, 8, 8), s, 1.0)

	fb := r.Image()
	for _, p := range []image.Point{{0, 0}, {7, 7}, {4, 4}} {
		if got := fb.RGBAAt(p.X, p.Y); got != blue {
			t.Errorf("pixel %v = %v, want %v", p, got, blue)
		}
	}
}

func TestSoftwareRenderer_Transparency(t *testing.T) {
	r := NewSoftwareRenderer(4, 4)
	r.Clear(color.White)
	s := newFilledSurface(t, 4, 4, color.RGBA{R: 255, A: 255})

	r.SubmitQuad(R(0, 0, 4, 4), s, 0.5)

	// Half-transparent red over white: red stays saturated, green and
	// blue land near the midpoint.
	got := r.Image().RGBAAt(1, 1)
	if got.R != 255 {
		t.Errorf("R = %d, want 255", got.R)
	}
	if got.G < 100 || got.G > 160 {
		t.Errorf("G = %d, want roughly half-blended", got.G)
	}
	if got.B < 100 || got.B > 160 {
		t.Errorf("B = %d, want roughly half-blended", got.B)
	}
}

func TestSoftwareRenderer_SkipsEmptyQuad(t *testing.T) {
	r := NewSoftwareRenderer(4, 4)
	s := newFilledSurface(t, 4, 4, color.RGBA{R: 255, A: 255})

	r.SubmitQuad(R(0, 0, 0, 4), s, 1.0)
	r.SubmitQuad(R(0, 0, 4, -1), s, 1.0)

	if got := r.Image().RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Errorf("pixel (0,0) = %v after empty quads, want zero", got)
	}
}

func TestSoftwareRenderer_Clear(t *testing.T) {
	r := NewSoftwareRenderer(4, 4)
	r.Clear(color.RGBA{G: 255, A: 255})
	want := color.RGBA{G: 255, A: 255}
	if got := r.Image().RGBAAt(2, 2); got != want {
		t.Errorf("pixel (2,2) = %v, want %v", got, want)
	}
}

// TestSoftwareRenderer_EndToEnd drives the full pipeline in software:
// pooled CPU textures, a paint pass, and quad composition into the
// framebuffer.
func TestSoftwareRenderer_EndToEnd(t *testing.T) {
	pool, err := texture.NewPool(texture.PoolConfig{
		Size: 4, Width: 8, Height: 8,
		Allocator: texture.NewImageAllocator(),
	})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	fill := color.RGBA{R: 200, G: 40, B: 10, A: 255}
	renderer := NewSoftwareRenderer(16, 16)
	page, err := NewPage(PageConfig{
		Options:       Options{TileWidth: 8, TileHeight: 8},
		Pool:          pool,
		Rasterizer:    &fillRaster{c: fill, gen: 1},
		Renderer:      renderer,
		ContentWidth:  16,
		ContentHeight: 16,
	})
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	t.Cleanup(page.Release)

	painter := NewPainter(page, 2)
	defer painter.Close()

	page.Prepare(image.Rect(0, 0, 16, 16))
	painter.Process()
	if !page.Ready() {
		t.Fatal("page not ready after paint pass")
	}
	page.Draw(1.0)

	fb := renderer.Image()
	for _, p := range []image.Point{{0, 0}, {7, 7}, {8, 8}, {15, 15}, {4, 12}} {
		if got := fb.RGBAAt(p.X, p.Y); got != fill {
			t.Errorf("pixel %v = %v, want %v", p, got, fill)
		}
	}
}
