package consensus

import (
	"github.com/kaspanet/ledgerd/domain/chainconfig"
)

const defaultBlockCacheSize = 200

// Config is a descriptor for a consensus instance
type Config struct {
	chainconfig.Params

	// BlockCacheSize is the number of blocks the chain store keeps in
	// memory. Zero selects the default.
	BlockCacheSize int
}

func (c *Config) blockCacheSize() int {
	if c.BlockCacheSize <= 0 {
		return defaultBlockCacheSize
	}
	return c.BlockCacheSize
}
