package biomes

import (
	"github.com/windward-gs/windward/server/world"
	"github.com/windward-gs/windward/server/world/populate"
)

// Mangrove is brackish root country: low root islands, stilt huts, herons
// and firefly swarms after dark.
type Mangrove struct {
	*world.Populated
}

// NewMangrove ...
func NewMangrove() *Mangrove {
	return &Mangrove{world.NewPopulated(world.Definition{
		ID:     "mangrove",
		Name:   "Mangrove",
		Weight: 2,
		Properties: map[string]float64{
			"density.root_island":   1.0,
			"density.mangrove":      1.8,
			"density.stilt_hut":     1.0,
			"density.heron":         1.0,
			"density.firefly_swarm": 1.0,
			"range.visibility":      150,
		},
	}, []world.Feature{
		{Name: "root_island", Category: world.CategoryIsland, BaseChance: 0.3, Attempts: 2,
			Producer: populate.Island{MinRadius: 6, MaxRadius: 18, MaxPeaks: 1,
				Palettes: []string{"mud", "root"}}},
		{Name: "mangrove", Category: world.CategoryVegetation, BaseChance: 0.25, Attempts: 5,
			Producer: populate.Vegetation{Kind: "mangrove", MinHeight: 2, MaxHeight: 6}},
		{Name: "stilt_hut", Category: world.CategoryStructure, BaseChance: 0.04, Attempts: 2,
			Producer: populate.Structure{Kinds: []string{"stilt_hut", "rope_bridge"}}},
		{Name: "heron", Category: world.CategoryCreature, BaseChance: 0.07, Attempts: 2,
			Producer: populate.Creature{Kind: "heron", MinSpeed: 2, MaxSpeed: 5}},
		{Name: "firefly_swarm", Category: world.CategoryEffect, BaseChance: 0.06, Attempts: 2,
			Producer: populate.Effect{Kind: "fireflies", Radius: 8}},
	})}
}
