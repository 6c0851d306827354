// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import "sync"

// backing is the closed set of buffer arrangements behind a Texture.
// It separates the producer-side operations (beginWrite, commit, abort)
// from the consumer-side one (front). Implementations are doubleBuffer
// and singleBuffer; the Texture synchronization logic depends only on
// this contract.
type backing interface {
	// front returns the buffer the consumer may sample, or nil when no
	// buffer is currently presentable (single buffer mid-write).
	front() *Surface

	// back returns the buffer the producer writes into. Only valid
	// between beginWrite and commit/abort.
	back() *Surface

	// beginWrite marks the start of a producer write.
	beginWrite()

	// commit publishes the written buffer to the consumer side.
	commit()

	// abort ends a producer write without publishing.
	abort()

	// surfaces returns every physical buffer, for allocator teardown.
	surfaces() []*Surface
}

// doubleBuffer keeps two physical buffers and flips them on commit.
// The front buffer is always presentable: the producer only ever touches
// the back buffer, so a consumer sampling mid-paint reads the previous
// committed contents.
type doubleBuffer struct {
	mu       sync.Mutex
	bufs     [2]*Surface
	frontIdx int
}

func newDoubleBuffer(front, back *Surface) *doubleBuffer {
	return &doubleBuffer{bufs: [2]*Surface{front, back}}
}

func (d *doubleBuffer) front() *Surface {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bufs[d.frontIdx]
}

func (d *doubleBuffer) back() *Surface {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bufs[1-d.frontIdx]
}

func (d *doubleBuffer) beginWrite() {}

func (d *doubleBuffer) commit() {
	d.mu.Lock()
	d.frontIdx = 1 - d.frontIdx
	d.mu.Unlock()
}

func (d *doubleBuffer) abort() {}

func (d *doubleBuffer) surfaces() []*Surface {
	return []*Surface{d.bufs[0], d.bufs[1]}
}

// singleBuffer shares one physical buffer between both sides. While a
// producer write is in flight the buffer is not presentable and front
// reports unavailability, so the consumer skips the frame rather than
// sampling a half-painted buffer.
type singleBuffer struct {
	mu      sync.Mutex
	buf     *Surface
	writing bool
}

func newSingleBuffer(buf *Surface) *singleBuffer {
	return &singleBuffer{buf: buf}
}

func (s *singleBuffer) front() *Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writing {
		return nil
	}
	return s.buf
}

func (s *singleBuffer) back() *Surface { return s.buf }

func (s *singleBuffer) beginWrite() {
	s.mu.Lock()
	s.writing = true
	s.mu.Unlock()
}

func (s *singleBuffer) commit() {
	s.mu.Lock()
	s.writing = false
	s.mu.Unlock()
}

func (s *singleBuffer) abort() {
	s.mu.Lock()
	s.writing = false
	s.mu.Unlock()
}

func (s *singleBuffer) surfaces() []*Surface {
	return []*Surface{s.buf}
}
