// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
)

// Pool errors.
var (
	// ErrPoolClosed is returned when operating on a closed pool.
	ErrPoolClosed = errors.New("texture: pool closed")

	// ErrInvalidPoolSize is returned for a non-positive texture count.
	ErrInvalidPoolSize = errors.New("texture: invalid pool size")

	// ErrNilAllocator is returned when no allocator is configured.
	ErrNilAllocator = errors.New("texture: nil allocator")
)

// DefaultPoolSize is the texture count used when PoolConfig.Size is zero.
// Enough for a typical viewport of 64x64 tiles plus a prefetch ring.
const DefaultPoolSize = 32

// PoolConfig configures a texture pool.
type PoolConfig struct {
	// Size is the number of textures in the pool.
	// If zero, DefaultPoolSize is used.
	Size int

	// Width and Height are the buffer dimensions shared by every
	// texture in the pool.
	Width  int
	Height int

	// Allocator creates the physical buffers.
	Allocator Allocator

	// SingleBuffered selects single-buffered textures. The default is
	// double buffering, which lets paint and draw proceed in parallel.
	SingleBuffered bool
}

// Stats reports pool activity counters.
type Stats struct {
	// Hits counts acquisitions satisfied by a texture the caller
	// already owned.
	Hits uint64

	// Misses counts acquisitions that found no reclaimable texture.
	Misses uint64

	// Reassignments counts textures moved from one owner to another
	// or handed out from the free set.
	Reassignments uint64
}

// Pool owns a fixed set of equal-sized textures and reassigns them among
// competing owners. Acquire prefers a texture the caller already holds;
// otherwise it reclaims the least-needed texture, judged by used level.
//
// Ownership is mutated only through the pool, on the consumer goroutine.
// Pool is safe for concurrent use; its lock is independent of the
// per-texture buffer locks and is never held while waiting on one.
type Pool struct {
	mu       sync.Mutex
	textures []*Texture
	alloc    Allocator
	closed   bool

	hits          atomic.Uint64
	misses        atomic.Uint64
	reassignments atomic.Uint64
}

// NewPool creates a pool of cfg.Size textures with cfg.Width x cfg.Height
// buffers from cfg.Allocator.
func NewPool(cfg PoolConfig) (*Pool, error) {
	if cfg.Size == 0 {
		cfg.Size = DefaultPoolSize
	}
	if cfg.Size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPoolSize, cfg.Size)
	}
	if cfg.Allocator == nil {
		return nil, ErrNilAllocator
	}

	p := &Pool{
		textures: make([]*Texture, 0, cfg.Size),
		alloc:    cfg.Allocator,
	}

	for i := range cfg.Size {
		t, err := newPooledTexture(i, cfg)
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		p.textures = append(p.textures, t)
	}

	logger().Info("texture pool created",
		"size", cfg.Size, "width", cfg.Width, "height", cfg.Height,
		"singleBuffered", cfg.SingleBuffered)
	return p, nil
}

// NewPoolFromProvider creates a GPU-backed pool from a
// gpucontext.DeviceProvider, deriving a HAL allocator from it.
// cfg.Allocator is ignored.
func NewPoolFromProvider(provider gpucontext.DeviceProvider, cfg PoolConfig) (*Pool, error) {
	alloc, err := NewHALAllocatorFromProvider(provider)
	if err != nil {
		return nil, err
	}
	cfg.Allocator = alloc
	return NewPool(cfg)
}

func newPooledTexture(id int, cfg PoolConfig) (*Texture, error) {
	if cfg.SingleBuffered {
		buf, err := cfg.Allocator.Allocate(cfg.Width, cfg.Height)
		if err != nil {
			return nil, err
		}
		t := NewSingleBuffered(buf)
		t.id = id
		return t, nil
	}

	front, err := cfg.Allocator.Allocate(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	back, err := cfg.Allocator.Allocate(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	t := NewDoubleBuffered(front, back)
	t.id = id
	return t, nil
}

// Acquire returns a texture for the given owner, or nil when every
// texture is needed more urgently elsewhere.
//
// The texture already owned by the caller is returned when there is one.
// Otherwise the pool reclaims the least-needed candidate: a released
// texture first, then the one with the highest used level. Textures at
// UsedLevelVisible back on-screen tiles and are never stolen.
//
// Acquire must be called from the consumer goroutine; it is the only
// path that changes texture ownership.
func (p *Pool) Acquire(o Owner) *Texture {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || o == nil {
		return nil
	}

	var best *Texture
	bestLevel := UsedLevelVisible

	for _, t := range p.textures {
		t.mu.Lock()
		owner, level := t.owner, t.usedLevel
		t.mu.Unlock()

		switch {
		case owner == o:
			// The caller keeps the texture it already holds.
			p.hits.Add(1)
			return t
		case owner == nil || level == UsedLevelFree:
			if best == nil || bestLevel != UsedLevelFree {
				best = t
				bestLevel = UsedLevelFree
			}
		case level > bestLevel && bestLevel != UsedLevelFree:
			best = t
			bestLevel = level
		}
	}

	if best == nil {
		p.misses.Add(1)
		logger().Debug("texture pool exhausted", "owner", coordsAttr(o))
		return nil
	}

	best.setOwner(o)
	best.SetUsedLevel(UsedLevelVisible)
	p.reassignments.Add(1)
	return best
}

// Release clears ownership of every texture held by the given owner and
// marks those textures free. Called when an owner is destroyed.
func (p *Pool) Release(o Owner) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || o == nil {
		return
	}
	for _, t := range p.textures {
		if t.Owner() == o {
			t.setOwner(nil)
			t.SetUsedLevel(UsedLevelFree)
		}
	}
}

// Size returns the number of textures in the pool.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.textures)
}

// Stats returns the pool's activity counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Hits:          p.hits.Load(),
		Misses:        p.misses.Load(),
		Reassignments: p.reassignments.Load(),
	}
}

// Close frees every texture buffer through the allocator.
// Close is safe to call multiple times.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	var firstErr error
	for _, t := range p.textures {
		t.setOwner(nil)
		for _, s := range t.b.surfaces() {
			if err := p.alloc.Free(s); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	p.textures = nil
	if firstErr != nil {
		logger().Warn("texture pool close", "err", firstErr)
	}
	return firstErr
}

// coordsAttr formats an owner's coordinates for logging.
func coordsAttr(o Owner) string {
	if o == nil {
		return "none"
	}
	x, y := o.Coords()
	return fmt.Sprintf("(%d,%d)", x, y)
}
