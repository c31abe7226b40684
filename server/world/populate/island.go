package populate

import (
	"errors"

	"github.com/windward-gs/windward/server/scene"
	"github.com/windward-gs/windward/server/world"
)

// Island produces composite island landmarks. The island's footprint is
// drawn between MinRadius and MaxRadius and its peak count and tree cover
// scale with the drawn radius, all from the placement's seeded random
// source.
type Island struct {
	MinRadius, MaxRadius float64
	MaxPeaks             int
	Palettes             []string
}

// Produce ...
func (i Island) Produce(s *scene.Scene, ctx world.PlacementContext) (scene.Handle, error) {
	if i.MaxRadius < i.MinRadius || i.MinRadius <= 0 {
		return 0, errors.New("island producer: radius range is invalid")
	}
	radius := (i.MinRadius + ctx.Rand.Float64()*(i.MaxRadius-i.MinRadius)) * ctx.Scale
	peaks := 1
	if i.MaxPeaks > 1 {
		peaks += ctx.Rand.IntN(i.MaxPeaks)
	}
	palette := "temperate"
	if len(i.Palettes) > 0 {
		palette = i.Palettes[ctx.Rand.IntN(len(i.Palettes))]
	}
	return s.Attach(IslandNode{
		Position: ctx.Position,
		Radius:   radius,
		Peaks:    peaks,
		Trees:    int(radius / 4),
		Palette:  palette,
		Yaw:      ctx.Yaw,
	}, ctx.Parent), nil
}
