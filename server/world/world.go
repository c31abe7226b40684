package world

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/windward-gs/windward/server/scene"
)

// PlayerID identifies one tracked player position.
type PlayerID = uuid.UUID

// NewPlayerID returns a fresh random PlayerID.
func NewPlayerID() PlayerID {
	return uuid.New()
}

// PlayerState is the per-frame state the engine consumes for one player: the
// world position the population horizon is centred on.
type PlayerState struct {
	Position mgl64.Vec3
}

// World drives procedural population of one open, chunked world. It owns the
// biome selector, the shared scene and the set of tracked player positions,
// and runs a tick loop that reveals, updates, culls and reclaims content as
// players move. All state is mutated through a transaction queue with a
// single executing goroutine, which preserves the at-most-once chunk
// processing and handle ownership invariants without locking in the biomes
// themselves.
type World struct {
	conf     Config
	scene    *scene.Scene
	selector *Selector

	queue        chan transaction
	queueClosing chan struct{}
	queueing     sync.WaitGroup

	closing chan struct{}
	running sync.WaitGroup
	o       sync.Once

	tps         atomic.Uint64
	currentTick atomic.Int64

	// players is mutated only from within transactions.
	players map[PlayerID]PlayerState

	subMu       sync.Mutex
	subscribers []func(Event)
}

// New creates a World with default settings: an in-memory world with seed 0.
func New() *World {
	var conf Config
	return conf.New()
}

// Scene returns the shared visual context of the World.
func (w *World) Scene() *scene.Scene {
	return w.scene
}

// Seed returns the process-wide seed of the World.
func (w *World) Seed() float64 {
	return w.conf.Seed
}

// ChunkSize returns the side length of a chunk in world units.
func (w *World) ChunkSize() float64 {
	return w.conf.ChunkSize
}

// CurrentTick returns the current tick counter of the world.
func (w *World) CurrentTick() int64 {
	if w == nil {
		return 0
	}
	return w.currentTick.Load()
}

// TPS returns the current average ticks per second of the world, averaged
// over the last sample window. It is zero until enough samples have been
// recorded.
func (w *World) TPS() float64 {
	return math.Float64frombits(w.tps.Load())
}

// Subscribe registers a callback invoked for every entity lifecycle Event.
// Callbacks run synchronously inside world transactions and must neither
// block nor call back into the World.
func (w *World) Subscribe(f func(Event)) {
	w.subMu.Lock()
	defer w.subMu.Unlock()
	w.subscribers = append(w.subscribers, f)
}

func (w *World) publish(ev Event) {
	w.subMu.Lock()
	subs := w.subscribers
	w.subMu.Unlock()
	for _, f := range subs {
		f(ev)
	}
}

// ExecFunc is a function that performs a synchronised transaction on a World.
type ExecFunc func(tx *Tx)

// Exec performs a synchronised transaction f on the World. Exec returns a
// channel that is closed once the transaction is complete.
func (w *World) Exec(f ExecFunc) <-chan struct{} {
	c := make(chan struct{})
	w.queue <- normalTransaction{c: c, f: f}
	return c
}

// handleTransactions continuously reads transactions from the queue and runs
// them.
func (w *World) handleTransactions() {
	defer w.queueing.Done()
	for {
		select {
		case tx := <-w.queue:
			tx.Run(w)
		case <-w.queueClosing:
			return
		}
	}
}

// transaction is a unit of work executed on the World's single writer
// goroutine.
type transaction interface {
	Run(w *World)
}

type normalTransaction struct {
	c chan struct{}
	f ExecFunc
}

func (ntx normalTransaction) Run(w *World) {
	tx := &Tx{w: w}
	ntx.f(tx)
	tx.closed = true
	close(ntx.c)
}

// Close saves population state through the Provider, stops the tick loop and
// the transaction queue and closes the Provider. It may be called once;
// subsequent calls do nothing.
func (w *World) Close() error {
	var err error
	w.o.Do(func() {
		close(w.closing)
		w.running.Wait()

		<-w.Exec(func(tx *Tx) {
			err = tx.Save()
		})

		close(w.queueClosing)
		w.queueing.Wait()

		if cerr := w.conf.Provider.Close(); err == nil {
			err = cerr
		}
	})
	return err
}

// Tx grants access to the state of the World during a transaction. A Tx must
// not be retained or used after the transaction function returns.
type Tx struct {
	w      *World
	closed bool
}

const txClosedPanic = "world.Tx: use of transaction after transaction finishes is not permitted"

func (tx *Tx) check() {
	if tx.closed {
		panic(txClosedPanic)
	}
}

// World returns the World the Tx operates on.
func (tx *Tx) World() *World {
	tx.check()
	return tx.w
}

// Scene returns the shared visual context.
func (tx *Tx) Scene() *scene.Scene {
	tx.check()
	return tx.w.scene
}

// RegisterBiome validates and registers the biome passed, binds it to the
// world's environment and restores any population state the Provider has for
// it. A biome that fails validation is not registered and the error is
// returned to the caller, so a broken biome can never enter rotation.
func (tx *Tx) RegisterBiome(b Biome) (Biome, error) {
	tx.check()
	registered, err := tx.w.selector.Register(b)
	if err != nil {
		return nil, err
	}
	if err := tx.w.restoreBiome(registered); err != nil {
		return registered, fmt.Errorf("restore biome %v: %w", registered.Definition().ID, err)
	}
	return registered, nil
}

// restoreBiome replays persisted ledger and entity state into a freshly
// registered biome.
func (w *World) restoreBiome(b Biome) error {
	p, ok := b.(populated)
	if !ok {
		return nil
	}
	id := b.Definition().ID
	entries, err := w.conf.Provider.LoadLedger(id)
	if err != nil {
		return err
	}
	records, err := w.conf.Provider.LoadEntities(id)
	if err != nil {
		return err
	}
	p.restoreLedger(entries)
	p.restoreEntities(w.scene, records)
	return nil
}

// populated is the save/restore surface every biome built on *Populated
// promotes. Variants implemented from scratch simply are not persisted.
type populated interface {
	snapshotLedger() []LedgerEntry
	snapshotEntities() []EntityRecord
	restoreLedger([]LedgerEntry)
	restoreEntities(*scene.Scene, []EntityRecord)
}

// Biomes returns the registered biomes in registration order.
func (tx *Tx) Biomes() []Biome {
	tx.check()
	return tx.w.selector.Biomes()
}

// BiomeAt returns the biome governing the chunk at the position passed.
func (tx *Tx) BiomeAt(pos ChunkPos) Biome {
	tx.check()
	return tx.w.selector.BiomeAt(pos)
}

// DefaultBiome returns the fallback biome of the world's selector.
func (tx *Tx) DefaultBiome() Biome {
	tx.check()
	return tx.w.selector.Default()
}

// MovePlayer records the position of the player with the ID passed. New IDs
// are tracked implicitly; the next tick reveals terrain around them.
func (tx *Tx) MovePlayer(id PlayerID, pos mgl64.Vec3) {
	tx.check()
	tx.w.players[id] = PlayerState{Position: pos}
}

// RemovePlayer stops tracking the player with the ID passed.
func (tx *Tx) RemovePlayer(id PlayerID) {
	tx.check()
	delete(tx.w.players, id)
}

// PlayerCount returns the number of tracked player positions.
func (tx *Tx) PlayerCount() int {
	tx.check()
	return len(tx.w.players)
}

// playerPositions snapshots the tracked positions into a slice.
func (tx *Tx) playerPositions() []mgl64.Vec3 {
	positions := make([]mgl64.Vec3, 0, len(tx.w.players))
	for _, p := range tx.w.players {
		positions = append(positions, p.Position)
	}
	return positions
}

// SpawnAround reveals the chunks within the configured spawn radius of the
// position passed, dispatching every chunk to the biome the selector assigns
// it, and returns the entities spawned.
func (tx *Tx) SpawnAround(pos mgl64.Vec3) []*SpawnedEntity {
	tx.check()
	w := tx.w
	centre := chunkPosFromVec3(pos, w.conf.ChunkSize)
	radius := int32(w.conf.SpawnRadius)

	var spawned []*SpawnedEntity
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			cp := ChunkPos{centre[0] + dx, centre[1] + dz}
			if b := w.selector.BiomeAt(cp); b != nil {
				spawned = append(spawned, b.ProcessChunk(w.scene, cp)...)
			}
		}
	}
	return spawned
}

// EntityCount returns the total number of entities owned by all registered
// biomes.
func (tx *Tx) EntityCount() int {
	tx.check()
	total := 0
	for _, b := range tx.w.selector.Biomes() {
		total += b.EntityCount()
	}
	return total
}

// ClearAll destroys every entity of every registered biome and empties all
// processed-chunk ledgers. It returns the number of entities destroyed.
func (tx *Tx) ClearAll() int {
	tx.check()
	removed := 0
	for _, b := range tx.w.selector.Biomes() {
		removed += b.ClearAll(tx.w.scene)
	}
	return removed
}

// Save persists the population state of every registered biome through the
// world's Provider.
func (tx *Tx) Save() error {
	tx.check()
	w := tx.w
	for _, b := range w.selector.Biomes() {
		p, ok := b.(populated)
		if !ok {
			continue
		}
		id := b.Definition().ID
		if err := w.conf.Provider.StoreLedger(id, p.snapshotLedger()); err != nil {
			return fmt.Errorf("store ledger of %v: %w", id, err)
		}
		if err := w.conf.Provider.StoreEntities(id, p.snapshotEntities()); err != nil {
			return fmt.Errorf("store entities of %v: %w", id, err)
		}
	}
	return nil
}
