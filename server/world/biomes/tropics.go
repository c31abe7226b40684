package biomes

import (
	"github.com/windward-gs/windward/server/world"
	"github.com/windward-gs/windward/server/world/populate"
)

// Tropics is warm shallow water with atolls, dense palm growth, tiki huts
// and parrots, under a permanent heat haze.
type Tropics struct {
	*world.Populated
}

// NewTropics ...
func NewTropics() *Tropics {
	return &Tropics{world.NewPopulated(world.Definition{
		ID:     "tropics",
		Name:   "Tropics",
		Weight: 3,
		Properties: map[string]float64{
			"density.atoll":     1.0,
			"density.palm":      2.0,
			"density.tiki_hut":  1.0,
			"density.parrot":    1.0,
			"density.heat_haze": 1.0,
		},
	}, []world.Feature{
		{Name: "atoll", Category: world.CategoryIsland, BaseChance: 0.25, Attempts: 2,
			Producer: populate.Island{MinRadius: 8, MaxRadius: 25, MaxPeaks: 1,
				Palettes: []string{"sandy", "coral"}}},
		{Name: "palm", Category: world.CategoryVegetation, BaseChance: 0.3, Attempts: 5,
			Producer: populate.Vegetation{Kind: "palm", MinHeight: 4, MaxHeight: 10}},
		{Name: "tiki_hut", Category: world.CategoryStructure, BaseChance: 0.05, Attempts: 2,
			Producer: populate.Structure{Kinds: []string{"tiki_hut", "fishing_platform"}}},
		{Name: "parrot", Category: world.CategoryCreature, BaseChance: 0.08, Attempts: 3,
			Producer: populate.Creature{Kind: "parrot", MinSpeed: 6, MaxSpeed: 12}},
		{Name: "heat_haze", Category: world.CategoryEffect, BaseChance: 0.04, Attempts: 1,
			Producer: populate.Effect{Kind: "heat_haze", Radius: 30}},
	})}
}
