package populate

import (
	"errors"

	"github.com/windward-gs/windward/server/scene"
	"github.com/windward-gs/windward/server/world"
)

// Vegetation produces a plant instance with a height drawn between MinHeight
// and MaxHeight.
type Vegetation struct {
	Kind                 string
	MinHeight, MaxHeight float64
}

// Produce ...
func (v Vegetation) Produce(s *scene.Scene, ctx world.PlacementContext) (scene.Handle, error) {
	if v.Kind == "" {
		return 0, errors.New("vegetation producer: kind must not be empty")
	}
	if v.MaxHeight < v.MinHeight {
		return 0, errors.New("vegetation producer: height range is invalid")
	}
	return s.Attach(VegetationNode{
		Position: ctx.Position,
		Kind:     v.Kind,
		Height:   (v.MinHeight + ctx.Rand.Float64()*(v.MaxHeight-v.MinHeight)) * ctx.Scale,
		Yaw:      ctx.Yaw,
	}, ctx.Parent), nil
}
