// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package texture provides pooled, buffered textures shared between a
// producer (paint) goroutine and a consumer (render) goroutine.
//
// A [Texture] wraps one or two physical buffers ([Surface] values) behind
// two independent locks: the producer lock grants exclusive write access
// to the off-screen buffer, the consumer lock grants read access to the
// on-screen buffer. With double buffering the two sides never contend for
// the same memory; with a single buffer the consumer is told the surface
// is unavailable while a write is in flight.
//
// Textures are a scarce resource. A [Pool] owns a fixed set of them and
// reassigns textures among competing owners based on their used level,
// a recency hint where lower values mean "more actively visible". The
// pool mutates texture ownership only on the consumer goroutine; the
// producer merely validates ownership and must be prepared for it to
// change between any two checkpoints.
//
// Physical buffers come from an [Allocator]. [HALAllocator] creates GPU
// textures through a wgpu HAL device; [ImageAllocator] provides CPU
// backed buffers for software rendering and tests.
package texture
