// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import "sync"

// Owner identifies the logical unit a texture is currently assigned to,
// typically a tile. Owners are compared by identity: a texture belongs to
// exactly the owner instance the pool last assigned it to.
type Owner interface {
	// Coords returns the owner's grid position, for logging and for the
	// pool's distance-based reassignment decisions.
	Coords() (x, y int)
}

// Used level values understood by the pool. Levels above zero grow with
// the distance from the visible viewport; the pool prefers to reclaim
// textures with the highest level first.
const (
	// UsedLevelFree marks a texture as released by its owner and
	// immediately reclaimable.
	UsedLevelFree = -1

	// UsedLevelVisible marks a texture backing an on-screen tile.
	UsedLevelVisible = 0
)

// Texture is a pooled, buffered GPU texture shared between one producer
// and one consumer goroutine.
//
// The producer and consumer locks are independent of each other and of
// any lock the pool holds: with a double-buffered backing, a paint and a
// draw on the same texture proceed in parallel on different physical
// buffers. Ownership and used level are guarded separately; the pool
// mutates them on the consumer goroutine, the producer only reads them
// to validate that it still holds the texture it snapshotted.
type Texture struct {
	id int
	b  backing

	prodMu sync.Mutex // producer-side buffer lock
	consMu sync.Mutex // consumer-side buffer lock

	mu        sync.Mutex // guards owner, usedLevel
	owner     Owner
	usedLevel int
}

// NewDoubleBuffered creates a texture over two physical buffers.
// The producer writes one buffer while the consumer samples the other.
func NewDoubleBuffered(front, back *Surface) *Texture {
	return &Texture{b: newDoubleBuffer(front, back), usedLevel: UsedLevelFree}
}

// NewSingleBuffered creates a texture over a single physical buffer.
// The consumer lock reports the surface unavailable while a producer
// write is in flight.
func NewSingleBuffered(buf *Surface) *Texture {
	return &Texture{b: newSingleBuffer(buf), usedLevel: UsedLevelFree}
}

// ID returns the pool-assigned identifier, for logging.
func (t *Texture) ID() int { return t.id }

// ProducerLock grants exclusive write access to the off-screen buffer
// and returns it. Blocks while another producer write is in flight, or
// briefly while a consumer read holds the buffer handover. Every
// ProducerLock must be paired with ProducerRelease or ProducerUpdate.
//
// Callers must re-validate ownership after acquiring the lock: the pool
// may have reassigned the texture between their snapshot and now.
func (t *Texture) ProducerLock() *Surface {
	t.prodMu.Lock()
	// The write target may be the buffer a consumer read had sampled
	// before the last swap. Taking the consumer lock for the handover
	// guarantees no read is still in flight on it.
	t.consMu.Lock()
	t.b.beginWrite()
	surf := t.b.back()
	t.consMu.Unlock()
	return surf
}

// ProducerRelease ends a producer write without publishing anything,
// typically after an abandoned paint.
func (t *Texture) ProducerRelease() {
	t.consMu.Lock()
	t.b.abort()
	t.consMu.Unlock()
	t.prodMu.Unlock()
}

// ProducerUpdate commits the buffer returned by ProducerLock so the
// consumer sees it on its next draw, then releases the producer lock.
// The swap waits for any in-flight consumer read to release, so the
// retired front buffer is never written while still being sampled.
func (t *Texture) ProducerUpdate(s *Surface) {
	_ = s // the backing knows its own write target
	t.consMu.Lock()
	t.b.commit()
	t.consMu.Unlock()
	t.prodMu.Unlock()
}

// ConsumerLock grants read access to the on-screen buffer and returns
// it. A nil result means no buffer is currently presentable (a producer
// is mid-update on a single-buffered backing); the caller must still
// call ConsumerRelease before returning.
func (t *Texture) ConsumerLock() *Surface {
	t.consMu.Lock()
	return t.b.front()
}

// ConsumerRelease releases the consumer-side lock.
func (t *Texture) ConsumerRelease() {
	t.consMu.Unlock()
}

// Owner returns the owner the pool last assigned this texture to, or nil.
func (t *Texture) Owner() Owner {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.owner
}

// setOwner records the new owner. Called by the pool only, on the
// consumer goroutine.
func (t *Texture) setOwner(o Owner) {
	t.mu.Lock()
	t.owner = o
	t.mu.Unlock()
}

// UsedLevel returns the current usage hint.
func (t *Texture) UsedLevel() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.usedLevel
}

// SetUsedLevel records a usage hint for the pool's reassignment policy.
// UsedLevelFree signals that the owner no longer needs the texture.
func (t *Texture) SetUsedLevel(level int) {
	t.mu.Lock()
	t.usedLevel = level
	t.mu.Unlock()
}

// Width returns the pixel width of the texture's buffers.
func (t *Texture) Width() int {
	if surfs := t.b.surfaces(); len(surfs) > 0 {
		return surfs[0].Width()
	}
	return 0
}

// Height returns the pixel height of the texture's buffers.
func (t *Texture) Height() int {
	if surfs := t.b.surfaces(); len(surfs) > 0 {
		return surfs[0].Height()
	}
	return 0
}
