package biomes

import (
	"github.com/windward-gs/windward/server/world"
	"github.com/windward-gs/windward/server/world/populate"
)

// OpenSea is the default biome: featureless water broken by the occasional
// gull flock, drifting kelp and fog bank.
type OpenSea struct {
	*world.Populated
}

// NewOpenSea ...
func NewOpenSea() *OpenSea {
	return &OpenSea{world.NewPopulated(world.Definition{
		ID:      "open_sea",
		Name:    "Open Sea",
		Weight:  10,
		Default: true,
		Properties: map[string]float64{
			"density.gull_flock": 1.0,
			"density.kelp_mat":   1.0,
			"density.fog_bank":   1.0,
		},
	}, []world.Feature{
		{Name: "gull_flock", Category: world.CategoryCreature, BaseChance: 0.05, Attempts: 2,
			Producer: populate.Creature{Kind: "gull", MinSpeed: 4, MaxSpeed: 9}},
		{Name: "kelp_mat", Category: world.CategoryVegetation, BaseChance: 0.08, Attempts: 3,
			Producer: populate.Vegetation{Kind: "kelp", MinHeight: 0.5, MaxHeight: 2}},
		{Name: "fog_bank", Category: world.CategoryEffect, BaseChance: 0.03, Attempts: 1,
			Producer: populate.Effect{Kind: "fog", Radius: 40}},
	})}
}
