package tiled_test

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/tiled"
	"github.com/gogpu/tiled/texture"
)

type whiteRaster struct{}

func (whiteRaster) Paint(s *texture.Surface, _ tiled.Matrix) int64 {
	img := s.Image()
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return 1
}

// Example paints a small content area into a software framebuffer.
func Example() {
	pool, err := texture.NewPool(texture.PoolConfig{
		Size:      4,
		Width:     64,
		Height:    64,
		Allocator: texture.NewImageAllocator(),
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer pool.Close()

	renderer := tiled.NewSoftwareRenderer(128, 128)
	page, err := tiled.NewPage(tiled.PageConfig{
		Pool:          pool,
		Rasterizer:    whiteRaster{},
		Renderer:      renderer,
		ContentWidth:  128,
		ContentHeight: 128,
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer page.Release()

	painter := tiled.NewPainter(page, 0)
	defer painter.Close()

	page.Prepare(image.Rect(0, 0, 128, 128))
	painter.Process()
	page.Draw(1.0)

	fmt.Println("ready:", page.Ready())
	// Output:
	// ready: true
}
