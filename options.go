package tiled

// Default configuration constants.
const (
	// DefaultTileWidth is the tile width in pixels.
	// 64 pixels keeps a full RGBA tile within 16KB (fits L1 cache).
	DefaultTileWidth = 64

	// DefaultTileHeight is the tile height in pixels.
	DefaultTileHeight = 64

	// DefaultUsedLevelThreshold is the highest texture used level a paint
	// will still complete for. Above it, the texture is considered needed
	// by a more visible tile and the paint is abandoned.
	DefaultUsedLevelThreshold = 1
)

// Options configures tile and paint behavior for a Page.
type Options struct {
	// TileWidth and TileHeight are the tile dimensions in pixels.
	// They must match the buffer size of the texture pool in use.
	// Zero values select the defaults.
	TileWidth  int
	TileHeight int

	// UsedLevelThreshold bounds which textures a paint may write to.
	// A paint re-validates the texture's used level after acquiring the
	// producer lock and abandons when the level exceeds this threshold.
	// The exact value is pool-tuning policy, not a core invariant.
	// Zero selects DefaultUsedLevelThreshold.
	UsedLevelThreshold int
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		TileWidth:          DefaultTileWidth,
		TileHeight:         DefaultTileHeight,
		UsedLevelThreshold: DefaultUsedLevelThreshold,
	}
}

// withDefaults fills zero fields with default values.
func (o Options) withDefaults() Options {
	if o.TileWidth <= 0 {
		o.TileWidth = DefaultTileWidth
	}
	if o.TileHeight <= 0 {
		o.TileHeight = DefaultTileHeight
	}
	if o.UsedLevelThreshold == 0 {
		o.UsedLevelThreshold = DefaultUsedLevelThreshold
	}
	return o
}
