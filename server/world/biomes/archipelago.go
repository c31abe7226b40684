package biomes

import (
	"github.com/windward-gs/windward/server/world"
	"github.com/windward-gs/windward/server/world/populate"
)

// Archipelago is scattered island country: frequent composite island
// landmarks, shipwrecks between them, palms and gulls.
type Archipelago struct {
	*world.Populated
}

// NewArchipelago ...
func NewArchipelago() *Archipelago {
	return &Archipelago{world.NewPopulated(world.Definition{
		ID:     "archipelago",
		Name:   "Archipelago",
		Weight: 5,
		Properties: map[string]float64{
			"density.isle":         1.2,
			"density.shipwreck":    1.0,
			"density.palm_cluster": 1.0,
			"density.gull_flock":   1.5,
			"range.visibility":     320,
		},
	}, []world.Feature{
		{Name: "isle", Category: world.CategoryIsland, BaseChance: 0.35, Attempts: 2,
			Producer: populate.Island{MinRadius: 12, MaxRadius: 45, MaxPeaks: 3,
				Palettes: []string{"temperate", "rocky", "lush"}}},
		{Name: "shipwreck", Category: world.CategoryStructure, BaseChance: 0.04, Attempts: 2,
			Producer: populate.Structure{Kinds: []string{"sloop_wreck", "galleon_wreck", "mast_stub"}}},
		{Name: "palm_cluster", Category: world.CategoryVegetation, BaseChance: 0.2, Attempts: 4,
			Producer: populate.Vegetation{Kind: "palm", MinHeight: 3, MaxHeight: 8}},
		{Name: "gull_flock", Category: world.CategoryCreature, BaseChance: 0.1, Attempts: 2,
			Producer: populate.Creature{Kind: "gull", MinSpeed: 4, MaxSpeed: 9}},
	})}
}
