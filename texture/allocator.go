// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Allocator errors.
var (
	// ErrInvalidDimensions is returned for non-positive buffer sizes.
	ErrInvalidDimensions = errors.New("texture: invalid buffer dimensions")

	// ErrNilDevice is returned when a HAL allocator is created without a device.
	ErrNilDevice = errors.New("texture: nil HAL device")

	// ErrNoHALProvider is returned when a device provider does not expose
	// HAL types.
	ErrNoHALProvider = errors.New("texture: provider does not expose HAL types")
)

// Allocator creates and destroys the physical buffers behind pooled
// textures. The pool calls Allocate once per buffer at construction and
// Free for each buffer on Close.
type Allocator interface {
	// Allocate creates a width x height buffer.
	Allocate(width, height int) (*Surface, error)

	// Free releases the buffer's resources. Freeing a nil surface is a no-op.
	Free(s *Surface) error
}

// ImageAllocator provides CPU-backed buffers using image.RGBA. It is the
// allocator for software rendering and tests; no GPU device is required.
type ImageAllocator struct{}

// NewImageAllocator creates a CPU buffer allocator.
func NewImageAllocator() *ImageAllocator { return &ImageAllocator{} }

// Allocate creates an RGBA pixel buffer of the given size.
func (*ImageAllocator) Allocate(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Surface{
		width:  width,
		height: height,
		format: gputypes.TextureFormatRGBA8Unorm,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

// Free drops the buffer reference; the garbage collector reclaims the pixels.
func (*ImageAllocator) Free(s *Surface) error {
	if s != nil {
		s.img = nil
	}
	return nil
}

// HALAllocator creates GPU textures through a wgpu HAL device.
//
// Each buffer is a sampleable render attachment so the producer can paint
// into it and the consumer can bind it for display. The allocator does
// not own the device; closing the pool frees the textures but leaves the
// device to its creator.
type HALAllocator struct {
	device hal.Device
	format gputypes.TextureFormat
	serial int
}

// NewHALAllocator creates a GPU buffer allocator over a HAL device.
func NewHALAllocator(device hal.Device) (*HALAllocator, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	return &HALAllocator{
		device: device,
		format: gputypes.TextureFormatRGBA8Unorm,
	}, nil
}

// NewHALAllocatorFromProvider derives a GPU buffer allocator from a
// gpucontext.DeviceProvider. The provider must also expose HAL types via
// HalDevice() any, as gogpu's context provider does.
func NewHALAllocatorFromProvider(provider gpucontext.DeviceProvider) (*HALAllocator, error) {
	type halProvider interface {
		HalDevice() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	return NewHALAllocator(device)
}

// Allocate creates a GPU texture and view of the given size.
func (a *HALAllocator) Allocate(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	a.serial++
	label := fmt.Sprintf("tiled_buffer_%d", a.serial)

	tex, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        a.format,
		Usage: gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("texture: create buffer: %w", err)
	}

	view, err := a.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: label + "_view",
	})
	if err != nil {
		a.device.DestroyTexture(tex)
		return nil, fmt.Errorf("texture: create buffer view: %w", err)
	}

	return &Surface{
		width:  width,
		height: height,
		format: a.format,
		tex:    tex,
		view:   view,
	}, nil
}

// Free destroys the surface's GPU resources.
func (a *HALAllocator) Free(s *Surface) error {
	if s == nil {
		return nil
	}
	if s.view != nil {
		a.device.DestroyTextureView(s.view)
		s.view = nil
	}
	if s.tex != nil {
		a.device.DestroyTexture(s.tex)
		s.tex = nil
	}
	return nil
}
