// Package tiled implements a tile-based texture caching and
// synchronization engine for scrollable, zoomable bitmap surfaces.
//
// # Overview
//
// A large content area (for example a rendered document) is divided into a
// grid of fixed-size tiles. Each [Tile] holds at most one texture borrowed
// from a shared [texture.Pool]; textures are a scarce resource reused among
// many logical tiles. Two goroutines operate on the grid concurrently:
//
//   - The consumer (render) goroutine reserves textures for visible tiles
//     and draws them each frame.
//   - The producer (paint) goroutine finds dirty tiles and rasterizes
//     fresh content into their textures.
//
// The Tile is the synchronization point between the two. Textures are
// double buffered so the producer writes one physical buffer while the
// consumer samples the other, and tile state (texture reference, scale,
// dirty flag, content generations) is guarded by a single fine-grained
// lock that is never held across rasterization or a texture lock wait.
//
// # Quick Start
//
//	pool, _ := texture.NewPool(texture.PoolConfig{
//	    Size: 32, Width: 64, Height: 64,
//	    Allocator: texture.NewImageAllocator(),
//	})
//	page, _ := tiled.NewPage(tiled.PageConfig{
//	    Options:       tiled.DefaultOptions(),
//	    Pool:          pool,
//	    Rasterizer:    myRasterizer,
//	    Renderer:      tiled.NewSoftwareRenderer(800, 600),
//	    ContentWidth:  4096,
//	    ContentHeight: 4096,
//	})
//	painter := tiled.NewPainter(page, 0)
//	defer painter.Close()
//
//	// Render loop (consumer goroutine):
//	page.Prepare(viewport)
//	page.Draw(1.0)
//
//	// Content update (any goroutine):
//	page.Invalidate(changedRect, generation)
//
// # Failure Model
//
// The expected cross-thread races (texture reclaimed mid-paint, buffer
// unavailable mid-draw, no texture assigned) are not errors. They degrade
// to "tile not painted this pass" or "tile not drawn this frame" and are
// retried naturally on the next pass. Only resource allocation and pool
// lifecycle report errors.
package tiled
