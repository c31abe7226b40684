package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/windward-gs/windward/server/scene"
)

// Definition is the static identity and tuning of a biome: who it is, how
// strongly the selector should favour it and the named numeric properties
// its features read, such as per-feature density modifiers. A Definition is
// validated once at registration and never changes afterwards.
type Definition struct {
	// ID is the unique, machine-readable identifier of the biome.
	ID string
	// Name is the display name of the biome.
	Name string
	// Weight is the relative selection weight used by the Selector when it
	// assigns a biome to a chunk. It must be greater than zero.
	Weight float64
	// Default marks the biome as the fallback used when selection cannot
	// produce a result.
	Default bool
	// Properties maps named tuning values. Density modifiers use the key
	// "density.<feature>" and default to 1 when absent.
	Properties map[string]float64
}

// Property returns the named property, or fallback if the property is not
// present.
func (d Definition) Property(name string, fallback float64) float64 {
	if v, ok := d.Properties[name]; ok {
		return v
	}
	return fallback
}

// densityFor returns the density modifier for the feature named.
func (d Definition) densityFor(feature string) float64 {
	return d.Property("density."+feature, 1)
}

// Validate checks the Definition for the errors that must fail registration:
// a missing ID or name, a non-positive or non-finite weight, or a malformed
// property value.
func (d Definition) Validate() error {
	if d.ID == "" {
		return errors.New("biome definition: ID must not be empty")
	}
	if d.Name == "" {
		return fmt.Errorf("biome definition %v: name must not be empty", d.ID)
	}
	if d.Weight <= 0 || math.IsInf(d.Weight, 0) || math.IsNaN(d.Weight) {
		return fmt.Errorf("biome definition %v: weight must be a positive finite number, got %v", d.ID, d.Weight)
	}
	for name, v := range d.Properties {
		if name == "" {
			return fmt.Errorf("biome definition %v: property with empty name", d.ID)
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return fmt.Errorf("biome definition %v: property %v must be finite, got %v", d.ID, name, v)
		}
	}
	return nil
}

// PlacementContext is passed to a Producer for one accepted feature
// placement. Its random source is seeded deterministically from the world
// seed, the placement position and the feature tag, so a producer that draws
// its variation from it reproduces the same result across sessions.
type PlacementContext struct {
	// Position is the world position of the placement.
	Position mgl64.Vec3
	// Yaw is a deterministic orientation in [0, 2π) the producer may apply.
	Yaw float64
	// Scale is a deterministic size multiplier around 1.
	Scale float64
	// Rand is the seeded random source for further variation.
	Rand *rand.Rand
	// Parent is the scene handle the produced node should attach under. It
	// is the zero Handle when the node attaches at the scene root.
	Parent scene.Handle
}

// Producer builds the external visual representation for one accepted
// feature placement and returns the opaque scene handle that now represents
// it. Producers contain all biome-specific content knowledge; the engine
// only stores what they return. A Producer returning an error causes that
// single placement to be skipped, never the rest of the chunk.
type Producer interface {
	Produce(s *scene.Scene, ctx PlacementContext) (scene.Handle, error)
}

// ProducerFunc wraps an ordinary function into a Producer.
type ProducerFunc func(s *scene.Scene, ctx PlacementContext) (scene.Handle, error)

// Produce calls the wrapped function.
func (f ProducerFunc) Produce(s *scene.Scene, ctx PlacementContext) (scene.Handle, error) {
	return f(s, ctx)
}

// Feature is one spawnable content unit of a biome: a named feature type
// with a category, a base spawn chance, the number of candidate placements
// evaluated per chunk and the Producer invoked for accepted placements.
type Feature struct {
	// Name is the feature tag fed to the spawn hash. It must be unique
	// within a biome.
	Name string
	// Category is the content category entities of this feature register
	// under.
	Category Category
	// BaseChance is the probability in [0, 1] of a candidate placement
	// being accepted before the biome's density modifier is applied.
	BaseChance float64
	// Attempts is the number of candidate placements evaluated per chunk.
	Attempts int
	// Producer builds the visual representation of accepted placements.
	Producer Producer
}

// validate checks the feature table of a biome at registration time.
func validateFeatures(id string, features []Feature) error {
	seen := map[string]struct{}{}
	for _, f := range features {
		if f.Name == "" {
			return fmt.Errorf("biome %v: feature with empty name", id)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("biome %v: duplicate feature %v", id, f.Name)
		}
		seen[f.Name] = struct{}{}
		if int(f.Category) >= categoryCount {
			return fmt.Errorf("biome %v: feature %v has invalid category %d", id, f.Name, f.Category)
		}
		if f.Attempts < 0 {
			return fmt.Errorf("biome %v: feature %v has negative attempts", id, f.Name)
		}
		if math.IsInf(f.BaseChance, 0) || math.IsNaN(f.BaseChance) {
			return fmt.Errorf("biome %v: feature %v has non-finite base chance", id, f.Name)
		}
		if f.Producer == nil {
			return fmt.Errorf("biome %v: feature %v has no producer", id, f.Name)
		}
	}
	return nil
}

// Env is the engine environment a biome is bound to at registration: the
// world seed, the chunk size, the spawn hash in use, the logger, the event
// sink and the tick clock. Biomes never reach into ambient globals for any
// of these.
type Env struct {
	Seed      float64
	ChunkSize float64
	Hash      SpawnFunc
	Log       *slog.Logger
	Events    func(Event)
	Clock     func() int64
}

// Biome is the capability set every biome variant implements: registration
// binding, chunk processing, radius spawning, per-frame update, visibility
// update, distance cleanup and full clear. Completeness is enforced at
// compile time: a variant that embeds *Populated satisfies the whole
// contract and cannot partially implement it.
type Biome interface {
	// Definition returns the static identity and tuning of the biome.
	Definition() Definition
	// Bind wires the biome to the engine environment. It is called exactly
	// once, by Selector.Register, and fails on a second call or on an
	// invalid feature table.
	Bind(env Env) error
	// ProcessChunk populates the chunk at the position passed, exactly once
	// per chunk between evictions, and returns the entities spawned. A
	// repeat call returns nil without side effects.
	ProcessChunk(s *scene.Scene, pos ChunkPos) []*SpawnedEntity
	// SpawnAroundPosition processes every chunk within the Chebyshev radius
	// passed of the chunk containing centre, aggregating the results.
	SpawnAroundPosition(s *scene.Scene, centre mgl64.Vec3, radius int) []*SpawnedEntity
	// Update advances time-driven entity state by dt seconds.
	Update(dt float64, player mgl64.Vec3)
	// UpdateEntityVisibility shows or hides owned entities based on their
	// distance from the player, without destroying any.
	UpdateEntityVisibility(s *scene.Scene, player mgl64.Vec3)
	// CleanupDistantEntities destroys every owned entity further than
	// radius from centre and evicts ledger entries outside the same
	// horizon. It returns the number of entities destroyed.
	CleanupDistantEntities(s *scene.Scene, centre mgl64.Vec3, radius float64) int
	// CleanupOutsideHorizon is the multi-centre generalisation of
	// CleanupDistantEntities: an entity survives if it is within radius of
	// any of the centres passed.
	CleanupOutsideHorizon(s *scene.Scene, centres []mgl64.Vec3, radius float64) int
	// ClearAll destroys every owned entity and empties the processed-chunk
	// ledger. Safe to call on an empty biome.
	ClearAll(s *scene.Scene) int
	// EntityCount returns the number of entities the biome currently owns.
	EntityCount() int
	// EntityCountByCategory returns the number of owned entities of the
	// category passed.
	EntityCountByCategory(c Category) int
	// ProcessedChunkCount returns the number of chunks currently marked
	// processed.
	ProcessedChunkCount() int
}
