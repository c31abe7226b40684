package world

import (
	"log/slog"
	"time"

	"github.com/windward-gs/windward/server/scene"
)

// Config contains options for constructing a World. Zero values fall back to
// the defaults documented per field, so world.Config{}.New() yields a usable
// in-memory world.
type Config struct {
	// Log is the Logger used for population diagnostics. If nil, Log is set
	// to slog.Default().
	Log *slog.Logger
	// Seed is the process-wide seed all spawn decisions derive from. Every
	// determinism guarantee of the engine is conditioned on this value
	// staying constant for the lifetime of a save.
	Seed float64
	// ChunkSize is the side length of a chunk in world units. It defaults
	// to 16 and must be positive.
	ChunkSize float64
	// SpawnRadius is the Chebyshev radius, in chunks, revealed around every
	// tracked player position each tick. It defaults to 2.
	SpawnRadius int
	// CleanupRadius is the horizontal distance from the nearest tracked
	// position beyond which entities are destroyed and chunk markers
	// evicted. It defaults to 20 chunks worth of world units.
	CleanupRadius float64
	// FarField selects the precision-robust integer spawn hash instead of
	// the trigonometric one. Worlds that support very large exploration
	// distances should set this.
	FarField bool
	// Hash overrides the spawn hash entirely. It takes precedence over
	// FarField when non-nil.
	Hash SpawnFunc
	// Scene is the shared visual context entities attach to. If nil, a new
	// empty scene is created.
	Scene *scene.Scene
	// Provider persists population state across restarts. If nil, it is set
	// to NopProvider and the world lives in memory only.
	Provider Provider
	// TickInterval is the duration of one tick of the world's loop. It
	// defaults to 50ms (20 ticks per second).
	TickInterval time.Duration
	// VisibilityInterval is the number of ticks between visibility passes.
	// It defaults to 4.
	VisibilityInterval int
	// CleanupInterval is the number of ticks between cleanup passes. It
	// defaults to 40.
	CleanupInterval int
}

// New creates a World with the Config passed and starts its transaction
// queue and tick loop.
func (conf Config) New() *World {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.ChunkSize <= 0 {
		conf.ChunkSize = 16
	}
	if conf.SpawnRadius <= 0 {
		conf.SpawnRadius = 2
	}
	if conf.CleanupRadius <= 0 {
		conf.CleanupRadius = conf.ChunkSize * 20
	}
	if conf.Hash == nil {
		if conf.FarField {
			conf.Hash = FarSpawnValue
		} else {
			conf.Hash = SpawnValue
		}
	}
	if conf.Scene == nil {
		conf.Scene = scene.New()
	}
	if conf.Provider == nil {
		conf.Provider = NopProvider{}
	}
	if conf.TickInterval <= 0 {
		conf.TickInterval = time.Millisecond * 50
	}
	if conf.VisibilityInterval <= 0 {
		conf.VisibilityInterval = 4
	}
	if conf.CleanupInterval <= 0 {
		conf.CleanupInterval = 40
	}

	w := &World{
		conf:         conf,
		scene:        conf.Scene,
		queue:        make(chan transaction, 128),
		queueClosing: make(chan struct{}),
		closing:      make(chan struct{}),
		players:      map[PlayerID]PlayerState{},
	}
	w.selector = NewSelector(Env{
		Seed:      conf.Seed,
		ChunkSize: conf.ChunkSize,
		Hash:      conf.Hash,
		Log:       conf.Log,
		Events:    w.publish,
		Clock:     w.CurrentTick,
	})

	w.queueing.Add(1)
	go w.handleTransactions()
	w.running.Add(1)
	go ticker{interval: conf.TickInterval}.tickLoop(w)
	return w
}
