package tiled

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/tiled/texture"
)

// SoftwareRenderer is a QuadRenderer compositing sampled tile surfaces
// into a CPU framebuffer. It pairs with texture.ImageAllocator for fully
// software rendering, and serves as the reference renderer for tests and
// headless use.
//
// SoftwareRenderer is safe for concurrent use, though the engine only
// submits quads from the consumer goroutine.
type SoftwareRenderer struct {
	mu sync.Mutex
	fb *image.RGBA
}

// NewSoftwareRenderer creates a renderer with a width x height framebuffer.
func NewSoftwareRenderer(width, height int) *SoftwareRenderer {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &SoftwareRenderer{
		fb: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// SubmitQuad scales the surface's pixels into rect on the framebuffer
// with the given transparency. GPU-only surfaces cannot be sampled in
// software and are skipped.
func (r *SoftwareRenderer) SubmitQuad(rect Rect, s *texture.Surface, transparency float64) {
	src := s.Image()
	if src == nil {
		Logger().Debug("software renderer cannot sample GPU-only surface")
		return
	}
	if rect.Empty() {
		return
	}

	dst := image.Rect(
		int(math.Floor(rect.X)), int(math.Floor(rect.Y)),
		int(math.Ceil(rect.X+rect.W)), int(math.Ceil(rect.Y+rect.H)),
	)

	var opts *xdraw.Options
	if transparency < 1 {
		alpha := uint8(math.Round(math.Max(0, transparency) * 255))
		opts = &xdraw.Options{
			SrcMask: image.NewUniform(color.Alpha{A: alpha}),
		}
	}

	r.mu.Lock()
	xdraw.ApproxBiLinear.Scale(r.fb, dst, src, src.Bounds(), xdraw.Over, opts)
	r.mu.Unlock()
}

// Clear fills the framebuffer with the given color.
func (r *SoftwareRenderer) Clear(c color.Color) {
	r.mu.Lock()
	draw.Draw(r.fb, r.fb.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	r.mu.Unlock()
}

// Image returns the framebuffer. Callers should not draw concurrently
// with SubmitQuad while reading it.
func (r *SoftwareRenderer) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fb
}
