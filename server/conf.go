package server

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/windward-gs/windward/server/world"
	"github.com/windward-gs/windward/server/world/savedb"
)

// Config contains options for starting a Windward server.
type Config struct {
	// Log is the Logger to use for logging information. If nil, Log is set
	// to slog.Default().
	Log *slog.Logger
	// Name is the name of the server, reported by the status endpoint.
	Name string
	// Address is the address the HTTP/websocket listener binds to.
	Address string
	// World configures the population engine.
	World world.Config
	// Biomes is the set of biome variants registered at startup. A biome
	// failing registration is logged and skipped; the server starts with
	// the remaining ones.
	Biomes []world.Biome
}

// UserConfig is the user configuration for a Windward server, read from and
// written to a TOML file. UserConfig may be converted to a Config by calling
// UserConfig.Config().
type UserConfig struct {
	Network struct {
		// Address is the address on which the server should listen. Clients
		// may connect to this address in order to join.
		Address string
	}
	Server struct {
		// Name is the name of the server, reported by the status endpoint.
		Name string
	}
	World struct {
		// SaveData controls whether population state is saved and loaded.
		// If true, the server uses the default LevelDB provider; if false,
		// population state lives in memory only.
		SaveData bool
		// Folder is the folder that the save data of the world resides in.
		Folder string
		// Seed controls all procedural spawn decisions. It must stay
		// constant for the lifetime of a save.
		Seed float64
		// ChunkSize is the side length of a generation chunk in world
		// units.
		ChunkSize float64
		// FarField selects the precision-robust spawn hash, for worlds
		// where players travel very far from the origin.
		FarField bool
	}
	Population struct {
		// SpawnRadius is the radius, in chunks, revealed around every
		// player each tick.
		SpawnRadius int
		// CleanupRadius is the distance from the nearest player beyond
		// which content is reclaimed, in world units.
		CleanupRadius float64
		// TicksPerSecond is the rate of the population loop.
		TicksPerSecond int
	}
}

// DefaultConfig returns a configuration with the default values filled out.
func DefaultConfig() UserConfig {
	c := UserConfig{}
	c.Network.Address = ":8080"
	c.Server.Name = "Windward Server"
	c.World.SaveData = true
	c.World.Folder = "world"
	c.World.Seed = 42
	c.World.ChunkSize = 16
	c.Population.SpawnRadius = 2
	c.Population.CleanupRadius = 320
	c.Population.TicksPerSecond = 20
	return c
}

// Config converts a UserConfig to a Config, so that it may be used for
// creating a Server. An error is returned if the save provider could not be
// opened.
func (uc UserConfig) Config(log *slog.Logger) (Config, error) {
	if log == nil {
		log = slog.Default()
	}
	conf := Config{
		Log:     log,
		Name:    uc.Server.Name,
		Address: uc.Network.Address,
		World: world.Config{
			Log:           log,
			Seed:          uc.World.Seed,
			ChunkSize:     uc.World.ChunkSize,
			FarField:      uc.World.FarField,
			SpawnRadius:   uc.Population.SpawnRadius,
			CleanupRadius: uc.Population.CleanupRadius,
		},
	}
	if tps := uc.Population.TicksPerSecond; tps > 0 {
		conf.World.TickInterval = time.Second / time.Duration(tps)
	}
	if uc.World.SaveData {
		provider, err := savedb.Open(uc.World.Folder)
		if err != nil {
			return conf, fmt.Errorf("create world provider: %w", err)
		}
		conf.World.Provider = provider
	}
	return conf, nil
}
