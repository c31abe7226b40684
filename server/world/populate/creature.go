package populate

import (
	"errors"
	"math"

	"github.com/windward-gs/windward/server/scene"
	"github.com/windward-gs/windward/server/world"
)

// Creature produces an ambient creature with a speed drawn between MinSpeed
// and MaxSpeed and a random initial heading.
type Creature struct {
	Kind               string
	MinSpeed, MaxSpeed float64
}

// Produce ...
func (c Creature) Produce(s *scene.Scene, ctx world.PlacementContext) (scene.Handle, error) {
	if c.Kind == "" {
		return 0, errors.New("creature producer: kind must not be empty")
	}
	if c.MaxSpeed < c.MinSpeed {
		return 0, errors.New("creature producer: speed range is invalid")
	}
	return s.Attach(CreatureNode{
		Position: ctx.Position,
		Kind:     c.Kind,
		Speed:    c.MinSpeed + ctx.Rand.Float64()*(c.MaxSpeed-c.MinSpeed),
		Heading:  ctx.Rand.Float64() * 2 * math.Pi,
	}, ctx.Parent), nil
}
