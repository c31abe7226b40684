package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// EventKind distinguishes the lifecycle transitions the engine reports.
type EventKind uint8

const (
	// EventSpawn is emitted when a biome registers a newly produced entity.
	EventSpawn EventKind = iota
	// EventDespawn is emitted when a biome destroys an owned entity, either
	// through cleanup or through a full clear.
	EventDespawn
)

// Event describes one entity lifecycle transition. Events are emitted
// synchronously from within the world transaction that caused them, so
// subscribers must not block and must not call back into the world.
type Event struct {
	Kind     EventKind
	Biome    string
	EntityID uuid.UUID
	Feature  string
	Category Category
	Position mgl64.Vec3
}
