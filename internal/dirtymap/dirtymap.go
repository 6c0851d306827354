// Package dirtymap tracks which tiles of a grid need repainting, using a
// lock-free atomic bitmap.
//
// One bit per tile, packed into uint64 words. The consumer and arbitrary
// invalidation sources mark bits concurrently; the producer drains them
// once per paint pass. All operations are safe for concurrent use with
// no external locking.
package dirtymap

import (
	"math/bits"
	"sync/atomic"
)

// Map is an atomic dirty bitmap over a tilesX x tilesY grid.
// Bit index for a tile is ty*tilesX + tx.
type Map struct {
	words  []atomic.Uint64
	tilesX int
	tilesY int
}

// New creates a map for the given grid dimensions with every tile clean.
// Returns nil for non-positive dimensions.
func New(tilesX, tilesY int) *Map {
	if tilesX <= 0 || tilesY <= 0 {
		return nil
	}
	total := tilesX * tilesY
	return &Map{
		words:  make([]atomic.Uint64, (total+63)/64),
		tilesX: tilesX,
		tilesY: tilesY,
	}
}

// Mark flags the tile at (tx, ty). Out-of-bounds coordinates are ignored.
func (m *Map) Mark(tx, ty int) {
	if tx < 0 || tx >= m.tilesX || ty < 0 || ty >= m.tilesY {
		return
	}
	idx := ty*m.tilesX + tx
	m.words[idx/64].Or(1 << (idx & 63))
}

// MarkAll flags every tile in the grid.
func (m *Map) MarkAll() {
	total := m.tilesX * m.tilesY
	full := total / 64
	for i := 0; i < full; i++ {
		m.words[i].Store(^uint64(0))
	}
	if rem := total % 64; rem > 0 {
		m.words[full].Store((uint64(1) << rem) - 1)
	}
}

// Dirty reports whether the tile at (tx, ty) is flagged.
// Out-of-bounds coordinates report clean.
func (m *Map) Dirty(tx, ty int) bool {
	if tx < 0 || tx >= m.tilesX || ty < 0 || ty >= m.tilesY {
		return false
	}
	idx := ty*m.tilesX + tx
	return m.words[idx/64].Load()&(1<<(idx&63)) != 0
}

// Count returns the number of flagged tiles.
func (m *Map) Count() int {
	total := m.tilesX * m.tilesY
	n := 0
	for i := range m.words {
		word := m.words[i].Load()
		if hi := (i + 1) * 64; hi > total {
			word &= (uint64(1) << (total - i*64)) - 1
		}
		n += bits.OnesCount64(word)
	}
	return n
}

// Empty reports whether no tile is flagged.
func (m *Map) Empty() bool {
	for i := range m.words {
		if m.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Drain atomically collects and clears every flagged tile, calling fn
// with each tile's coordinates in word order. A tile marked concurrently
// with the drain lands in either this pass or the next, never nowhere.
func (m *Map) Drain(fn func(tx, ty int)) {
	total := m.tilesX * m.tilesY
	for wordIdx := range m.words {
		word := m.words[wordIdx].Swap(0)
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			word &^= 1 << bit

			idx := wordIdx*64 + bit
			if idx >= total {
				break
			}
			fn(idx%m.tilesX, idx/m.tilesX)
		}
	}
}
