package populate

import (
	"errors"

	"github.com/windward-gs/windward/server/scene"
	"github.com/windward-gs/windward/server/world"
)

// Effect produces a non-physical ambient effect covering a circular area.
type Effect struct {
	Kind   string
	Radius float64
}

// Produce ...
func (e Effect) Produce(s *scene.Scene, ctx world.PlacementContext) (scene.Handle, error) {
	if e.Kind == "" {
		return 0, errors.New("effect producer: kind must not be empty")
	}
	radius := e.Radius
	if radius <= 0 {
		radius = 12
	}
	return s.Attach(EffectNode{
		Position:  ctx.Position,
		Kind:      e.Kind,
		Radius:    radius * ctx.Scale,
		Intensity: 0.4 + ctx.Rand.Float64()*0.6,
	}, ctx.Parent), nil
}
