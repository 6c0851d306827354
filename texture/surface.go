// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Surface is one physical buffer of a pooled texture: the target the
// producer paints into and the source the consumer samples from.
//
// A surface is either GPU backed (Texture/View handles valid, Image nil)
// or CPU backed (Image valid, GPU handles nil). Rasterizers and renderers
// pick the access path that matches their backend.
//
// The fields describing the buffer never change after allocation; the
// pixel contents are guarded by the owning texture's producer and
// consumer locks, not by the Surface itself.
type Surface struct {
	width  int
	height int
	format gputypes.TextureFormat

	// CPU backing. Nil for GPU-only surfaces.
	img *image.RGBA

	// GPU backing. Nil for CPU surfaces.
	tex  hal.Texture
	view hal.TextureView
}

// Width returns the buffer width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the buffer height in pixels.
func (s *Surface) Height() int { return s.height }

// Format returns the pixel format of the buffer.
func (s *Surface) Format() gputypes.TextureFormat { return s.format }

// Image returns the CPU pixel backing, or nil for GPU-only surfaces.
func (s *Surface) Image() *image.RGBA { return s.img }

// Texture returns the HAL texture handle, or nil for CPU surfaces.
func (s *Surface) Texture() hal.Texture { return s.tex }

// View returns the HAL texture view handle, or nil for CPU surfaces.
func (s *Surface) View() hal.TextureView { return s.view }
