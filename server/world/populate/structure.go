package populate

import (
	"errors"

	"github.com/windward-gs/windward/server/scene"
	"github.com/windward-gs/windward/server/world"
)

// Structure produces one of a set of built feature kinds, chosen from the
// placement's random source.
type Structure struct {
	Kinds []string
}

// Produce ...
func (st Structure) Produce(s *scene.Scene, ctx world.PlacementContext) (scene.Handle, error) {
	if len(st.Kinds) == 0 {
		return 0, errors.New("structure producer: no kinds configured")
	}
	return s.Attach(StructureNode{
		Position: ctx.Position,
		Kind:     st.Kinds[ctx.Rand.IntN(len(st.Kinds))],
		Yaw:      ctx.Yaw,
		Scale:    ctx.Scale,
	}, ctx.Parent), nil
}
