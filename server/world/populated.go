package world

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/segmentio/fasthash/fnv1a"
	"github.com/windward-gs/windward/server/scene"
)

// Populated implements the full population lifecycle of the Biome contract
// from a Definition and a feature table. Concrete biome variants embed a
// *Populated, which guarantees at compile time that no variant can implement
// the contract partially.
type Populated struct {
	def      Definition
	features []Feature

	env   Env
	bound bool

	entities *registry
	chunks   *ledger

	// visibleRange is the horizontal distance within which owned entities
	// are shown. Resolved at bind time from the "range.visibility" property,
	// falling back to the engine default.
	visibleRange float64
}

// NewPopulated creates the lifecycle base for a biome variant from its
// Definition and feature table. The result is inert until it is registered
// with a Selector, which validates the configuration and binds the engine
// environment.
func NewPopulated(def Definition, features []Feature) *Populated {
	return &Populated{
		def:      def,
		features: features,
		entities: newRegistry(),
		chunks:   newLedger(),
	}
}

// Definition returns the static identity and tuning of the biome.
func (p *Populated) Definition() Definition {
	return p.def
}

// Bind wires the biome to the engine environment passed. It is invoked by
// Selector.Register and must not be called twice.
func (p *Populated) Bind(env Env) error {
	if p.bound {
		return fmt.Errorf("biome %v: already registered", p.def.ID)
	}
	if env.ChunkSize <= 0 {
		return fmt.Errorf("biome %v: chunk size must be positive, got %v", p.def.ID, env.ChunkSize)
	}
	if err := validateFeatures(p.def.ID, p.features); err != nil {
		return err
	}
	if env.Hash == nil {
		env.Hash = SpawnValue
	}
	if env.Log == nil {
		env.Log = slog.Default()
	}
	if env.Clock == nil {
		env.Clock = func() int64 { return 0 }
	}
	p.env = env
	p.visibleRange = p.def.Property("range.visibility", defaultVisibleRange)
	p.bound = true
	return nil
}

// defaultVisibleRange is used when a biome does not tune its own visibility
// range.
const defaultVisibleRange = 220.0

func (p *Populated) checkBound() {
	if !p.bound {
		panic(fmt.Sprintf("world: biome %v used before registration", p.def.ID))
	}
}

// ProcessChunk evaluates every feature of the biome over the chunk at the
// position passed and spawns the accepted candidates. The chunk is marked
// processed immediately after the ledger check, so repeated calls, producer
// failures and re-entrant producers can never run a second spawn pass. A
// chunk in which nothing is accepted is valid and simply yields nil.
func (p *Populated) ProcessChunk(s *scene.Scene, pos ChunkPos) []*SpawnedEntity {
	p.checkBound()
	if p.chunks.Contains(pos) {
		return nil
	}
	p.chunks.Mark(pos, p.env.Clock())

	size := p.env.ChunkSize
	origin := pos.Origin(size)

	var spawned []*SpawnedEntity
	for _, f := range p.features {
		chance := f.BaseChance * p.def.densityFor(f.Name)
		r := p.chunkRand(pos, f.Name)
		for i := 0; i < f.Attempts; i++ {
			x := origin[0] + r.Float64()*size
			z := origin[2] + r.Float64()*size
			if !ShouldSpawn(p.env.Hash, x, z, p.env.Seed, f.Name, chance) {
				continue
			}
			ent, err := p.produce(s, f, mgl64.Vec3{x, 0, z})
			if err != nil {
				p.env.Log.Warn("feature producer failed, skipping placement.",
					"biome", p.def.ID, "feature", f.Name, "x", x, "z", z, "err", err)
				continue
			}
			spawned = append(spawned, ent)
		}
	}
	return spawned
}

// chunkRand returns the random source used to lay out candidate placements
// of one feature within one chunk. It is seeded purely from the chunk
// position, the world seed and the feature tag, so the candidate set is
// identical every time the chunk is regenerated.
func (p *Populated) chunkRand(pos ChunkPos, feature string) *rand.Rand {
	return rand.New(rand.NewPCG(
		uint64(pos.Key())^math.Float64bits(p.env.Seed),
		fnv1a.HashString64(feature),
	))
}

// placementRand seeds the random source handed to a Producer from the
// placement position, so restoring an entity from a save reproduces the
// exact same visual variation.
func (p *Populated) placementRand(pos mgl64.Vec3, feature string) *rand.Rand {
	h := fnv1a.HashString64(feature)
	h = fnv1a.AddUint64(h, math.Float64bits(pos[0]))
	h = fnv1a.AddUint64(h, math.Float64bits(pos[2]))
	return rand.New(rand.NewPCG(h, math.Float64bits(p.env.Seed)))
}

// errProducerPanic wraps a recovered producer panic so it can be handled
// like an ordinary production failure.
var errProducerPanic = errors.New("producer panicked")

// produce invokes the feature's Producer for the position passed and, on
// success, registers the result. A panicking producer is recovered and
// reported as an error: one broken placement must never abort the chunk.
func (p *Populated) produce(s *scene.Scene, f Feature, pos mgl64.Vec3) (ent *SpawnedEntity, err error) {
	defer func() {
		if r := recover(); r != nil {
			ent, err = nil, fmt.Errorf("%w: %v", errProducerPanic, r)
		}
	}()

	r := p.placementRand(pos, f.Name)
	ctx := PlacementContext{
		Position: pos,
		Yaw:      r.Float64() * 2 * math.Pi,
		Scale:    0.75 + r.Float64()*0.5,
		Rand:     r,
		Parent:   0,
	}
	h, err := f.Producer.Produce(s, ctx)
	if err != nil {
		return nil, err
	}

	stored := p.entities.add(SpawnedEntity{
		id:       uuid.New(),
		feature:  f.Name,
		category: f.Category,
		handle:   h,
		origin:   pos,
		visible:  true,
	})
	p.emit(Event{Kind: EventSpawn, Biome: p.def.ID, EntityID: stored.id,
		Feature: f.Name, Category: f.Category, Position: pos})
	return stored, nil
}

// SpawnAroundPosition processes every chunk within the Chebyshev radius
// passed (inclusive) of the chunk containing centre, skipping chunks already
// processed. A negative radius is a harmless caller mistake and processes
// nothing.
func (p *Populated) SpawnAroundPosition(s *scene.Scene, centre mgl64.Vec3, radius int) []*SpawnedEntity {
	p.checkBound()
	if radius < 0 {
		return nil
	}
	c := chunkPosFromVec3(centre, p.env.ChunkSize)
	var spawned []*SpawnedEntity
	for dx := -int32(radius); dx <= int32(radius); dx++ {
		for dz := -int32(radius); dz <= int32(radius); dz++ {
			spawned = append(spawned, p.ProcessChunk(s, ChunkPos{c[0] + dx, c[1] + dz})...)
		}
	}
	return spawned
}

// Update advances time-driven entity state by dt seconds. The engine keeps a
// phase accumulator per entity; producers that animate read the phase back
// through the registry rather than keeping clocks of their own.
func (p *Populated) Update(dt float64, _ mgl64.Vec3) {
	p.checkBound()
	if dt <= 0 {
		return
	}
	p.entities.all(func(e *SpawnedEntity) bool {
		e.phase += dt
		return true
	})
}

// UpdateEntityVisibility shows or hides owned entities based on their
// horizontal distance from the player position passed. Hidden entities stay
// registered and are shown again when the player comes back in range; no
// entity is ever destroyed here.
func (p *Populated) UpdateEntityVisibility(s *scene.Scene, player mgl64.Vec3) {
	p.checkBound()
	p.entities.all(func(e *SpawnedEntity) bool {
		visible := horizontalDistance(e.origin, player) <= p.visibleRange
		if visible != e.visible {
			e.visible = visible
			s.SetVisible(e.handle, visible)
		}
		return true
	})
}

// CleanupDistantEntities destroys every owned entity further than radius
// from centre and evicts ledger entries for chunks that lie entirely outside
// the same horizon. It returns the number of entities destroyed.
func (p *Populated) CleanupDistantEntities(s *scene.Scene, centre mgl64.Vec3, radius float64) int {
	return p.CleanupOutsideHorizon(s, []mgl64.Vec3{centre}, radius)
}

// CleanupOutsideHorizon is the multi-centre form of cleanup: an entity
// survives if it is within radius of any centre. Ledger entries are evicted
// only for chunks whose every point is outside the horizon, so a surviving
// entity can never be duplicated by a later repeat of its chunk. A
// non-positive radius or an empty centre set is a no-op.
func (p *Populated) CleanupOutsideHorizon(s *scene.Scene, centres []mgl64.Vec3, radius float64) int {
	p.checkBound()
	if radius <= 0 || len(centres) == 0 {
		return 0
	}
	removed := p.entities.removeIf(func(e *SpawnedEntity) bool {
		return nearestDistance(e.origin, centres) > radius
	}, func(ent SpawnedEntity) {
		p.release(s, ent)
	})

	// A chunk may straddle the horizon: entities inside it were kept, so its
	// ledger entry must survive too. Only chunks whose nearest point is
	// beyond the radius are evicted, measured conservatively from the chunk
	// centre plus half the chunk diagonal.
	halfDiagonal := p.env.ChunkSize * math.Sqrt2 / 2
	p.chunks.evictOutside(centres, radius+halfDiagonal, p.env.ChunkSize)
	return removed
}

// ClearAll destroys every owned entity and empties the processed-chunk
// ledger. It returns the number of entities destroyed and is a no-op on an
// empty biome.
func (p *Populated) ClearAll(s *scene.Scene) int {
	p.checkBound()
	removed := p.entities.clear(func(ent SpawnedEntity) {
		p.release(s, ent)
	})
	p.chunks.Clear()
	return removed
}

// release detaches the visual representation of a removed entity and emits
// the despawn event. The registry entry is already gone when release runs,
// so the handle is removed exactly once.
func (p *Populated) release(s *scene.Scene, ent SpawnedEntity) {
	if !s.Remove(ent.handle) {
		p.env.Log.Error("entity handle was already removed from the scene.",
			"biome", p.def.ID, "entity", ent.id, "feature", ent.feature)
	}
	p.emit(Event{Kind: EventDespawn, Biome: p.def.ID, EntityID: ent.id,
		Feature: ent.feature, Category: ent.category, Position: ent.origin})
}

func (p *Populated) emit(ev Event) {
	if p.env.Events != nil {
		p.env.Events(ev)
	}
}

// EntityCount returns the number of entities the biome currently owns.
func (p *Populated) EntityCount() int {
	return p.entities.len()
}

// EntityCountByCategory returns the number of owned entities of the category
// passed.
func (p *Populated) EntityCountByCategory(c Category) int {
	return p.entities.lenCategory(c)
}

// ProcessedChunkCount returns the number of chunks currently marked
// processed.
func (p *Populated) ProcessedChunkCount() int {
	return p.chunks.Len()
}

// Entities calls f for every owned entity until f returns false.
func (p *Populated) Entities(f func(*SpawnedEntity) bool) {
	p.entities.all(f)
}

// EntitiesByCategory calls f for every owned entity of the category passed
// until f returns false.
func (p *Populated) EntitiesByCategory(c Category, f func(*SpawnedEntity) bool) {
	p.entities.category(c, f)
}

// snapshotLedger captures the processed-chunk ledger for persistence.
func (p *Populated) snapshotLedger() []LedgerEntry {
	entries := make([]LedgerEntry, 0, p.chunks.Len())
	p.chunks.each(func(pos ChunkPos, tick int64) {
		entries = append(entries, LedgerEntry{X: pos[0], Z: pos[1], Tick: tick})
	})
	return entries
}

// snapshotEntities captures the owned entities for persistence. Only the
// feature tag and origin are stored: the visual representation is re-derived
// deterministically on restore.
func (p *Populated) snapshotEntities() []EntityRecord {
	records := make([]EntityRecord, 0, p.entities.len())
	p.entities.all(func(e *SpawnedEntity) bool {
		records = append(records, EntityRecord{
			Feature: e.feature,
			Origin:  [3]float64{e.origin[0], e.origin[1], e.origin[2]},
		})
		return true
	})
	return records
}

// restoreLedger replays persisted ledger entries.
func (p *Populated) restoreLedger(entries []LedgerEntry) {
	for _, e := range entries {
		p.chunks.Mark(ChunkPos{e.X, e.Z}, e.Tick)
	}
}

// restoreEntities re-produces persisted entities. The placement random
// source is derived from the origin and feature exactly as it was at spawn
// time, so the restored visuals match the originals. Records referring to a
// feature the biome no longer has are skipped with a warning; their chunks
// stay marked, matching the partial-failure rule of chunk processing.
func (p *Populated) restoreEntities(s *scene.Scene, records []EntityRecord) {
	byName := make(map[string]Feature, len(p.features))
	for _, f := range p.features {
		byName[f.Name] = f
	}
	for _, rec := range records {
		f, ok := byName[rec.Feature]
		if !ok {
			p.env.Log.Warn("saved entity refers to unknown feature, skipping.",
				"biome", p.def.ID, "feature", rec.Feature)
			continue
		}
		pos := mgl64.Vec3{rec.Origin[0], rec.Origin[1], rec.Origin[2]}
		if _, err := p.produce(s, f, pos); err != nil {
			p.env.Log.Warn("failed restoring saved entity.",
				"biome", p.def.ID, "feature", rec.Feature, "err", err)
		}
	}
}
