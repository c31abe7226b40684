// Package biomes holds the built-in biome variants of the open ocean world.
// Each variant is a Definition and a feature table over the generic
// population lifecycle; all content knowledge lives in the producers the
// features name.
package biomes

import (
	"github.com/windward-gs/windward/server/world"
)

// Default returns a fresh instance of every built-in biome, in the order
// they should be registered.
func Default() []world.Biome {
	return []world.Biome{
		NewOpenSea(),
		NewArchipelago(),
		NewTropics(),
		NewFrostfjord(),
		NewMangrove(),
	}
}
