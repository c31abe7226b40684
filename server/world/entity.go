package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/windward-gs/windward/server/scene"
)

// Category classifies spawned content. Every entity a biome owns carries
// exactly one Category, and biomes can count, show, hide or destroy their
// content per Category.
type Category uint8

const (
	// CategoryIsland is a composite landmark: a whole island with whatever
	// content its producer attached beneath it.
	CategoryIsland Category = iota
	// CategoryStructure is a built feature such as a shipwreck or a hut.
	CategoryStructure
	// CategoryCreature is an ambient animated inhabitant.
	CategoryCreature
	// CategoryVegetation is a plant instance.
	CategoryVegetation
	// CategoryEffect is a non-physical ambient effect such as mist.
	CategoryEffect

	categoryCount = 5
)

// String returns the lowercase name of the Category.
func (c Category) String() string {
	switch c {
	case CategoryIsland:
		return "island"
	case CategoryStructure:
		return "structure"
	case CategoryCreature:
		return "creature"
	case CategoryVegetation:
		return "vegetation"
	case CategoryEffect:
		return "effect"
	}
	return "unknown"
}

// SpawnedEntity is one unit of content a biome has placed in the world. It
// pairs the opaque scene handle of the entity's visual representation with
// the lifecycle metadata the engine needs: origin position, category,
// visibility and the feature that produced it. A SpawnedEntity is owned
// exclusively by the biome that spawned it and is destroyed only by that
// biome's cleanup or clear operations.
type SpawnedEntity struct {
	id       uuid.UUID
	feature  string
	category Category
	handle   scene.Handle
	origin   mgl64.Vec3
	visible  bool
	// phase accumulates Update time for time-driven content such as effect
	// cycling. Producers do not see it; it exists so Update has state to
	// advance without reaching into scene payloads.
	phase float64
}

// ID returns the stable identifier of the entity.
func (e *SpawnedEntity) ID() uuid.UUID { return e.id }

// Feature returns the name of the feature that produced the entity.
func (e *SpawnedEntity) Feature() string { return e.feature }

// Category returns the entity's content category.
func (e *SpawnedEntity) Category() Category { return e.category }

// Handle returns the opaque scene handle of the entity's visual
// representation.
func (e *SpawnedEntity) Handle() scene.Handle { return e.handle }

// Origin returns the world position the entity was spawned at.
func (e *SpawnedEntity) Origin() mgl64.Vec3 { return e.origin }

// Visible reports whether the entity is currently shown.
func (e *SpawnedEntity) Visible() bool { return e.visible }

// Phase returns the accumulated update time of the entity in seconds.
// Renderers use it to drive ambient animation such as effect cycling.
func (e *SpawnedEntity) Phase() float64 { return e.phase }
