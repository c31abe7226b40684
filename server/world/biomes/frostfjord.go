package biomes

import (
	"github.com/windward-gs/windward/server/world"
	"github.com/windward-gs/windward/server/world/populate"
)

// Frostfjord is cold water: bergs, drifting ice floes, orcas and auroras.
type Frostfjord struct {
	*world.Populated
}

// NewFrostfjord ...
func NewFrostfjord() *Frostfjord {
	return &Frostfjord{world.NewPopulated(world.Definition{
		ID:     "frostfjord",
		Name:   "Frostfjord",
		Weight: 2,
		Properties: map[string]float64{
			"density.berg":     1.0,
			"density.ice_floe": 1.5,
			"density.orca":     1.0,
			"density.aurora":   1.0,
		},
	}, []world.Feature{
		{Name: "berg", Category: world.CategoryIsland, BaseChance: 0.2, Attempts: 2,
			Producer: populate.Island{MinRadius: 10, MaxRadius: 35, MaxPeaks: 2,
				Palettes: []string{"ice", "snow"}}},
		{Name: "ice_floe", Category: world.CategoryStructure, BaseChance: 0.15, Attempts: 4,
			Producer: populate.Structure{Kinds: []string{"ice_floe"}}},
		{Name: "orca", Category: world.CategoryCreature, BaseChance: 0.05, Attempts: 2,
			Producer: populate.Creature{Kind: "orca", MinSpeed: 3, MaxSpeed: 7}},
		{Name: "aurora", Category: world.CategoryEffect, BaseChance: 0.02, Attempts: 1,
			Producer: populate.Effect{Kind: "aurora", Radius: 80}},
	})}
}
