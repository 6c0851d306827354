package tiled

import "sync/atomic"

// tileCount tracks live tiles, for leak diagnostics.
var tileCount atomic.Int64

// TileCount returns the number of tiles created and not yet released.
// Debug instrumentation only; not part of the synchronization contract.
func TileCount() int64 {
	return tileCount.Load()
}
