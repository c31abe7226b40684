package server

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml"
)

func TestDefaultConfigConversion(t *testing.T) {
	uc := DefaultConfig()
	uc.World.SaveData = false // no provider directory in this test

	conf, err := uc.Config(nil)
	if err != nil {
		t.Fatalf("failed converting config: %v", err)
	}
	if conf.Address != ":8080" {
		t.Fatalf("address = %q", conf.Address)
	}
	if conf.Name != "Windward Server" {
		t.Fatalf("name = %q", conf.Name)
	}
	if conf.World.Seed != 42 || conf.World.ChunkSize != 16 {
		t.Fatalf("world settings not carried over: seed=%v chunk=%v", conf.World.Seed, conf.World.ChunkSize)
	}
	if conf.World.TickInterval != time.Second/20 {
		t.Fatalf("tick interval = %v, want %v", conf.World.TickInterval, time.Second/20)
	}
	if conf.World.Provider != nil {
		t.Fatalf("provider created despite SaveData being off")
	}
}

func TestConfigSaveDataOpensProvider(t *testing.T) {
	uc := DefaultConfig()
	uc.World.Folder = filepath.Join(t.TempDir(), "world")

	conf, err := uc.Config(nil)
	if err != nil {
		t.Fatalf("failed converting config: %v", err)
	}
	if conf.World.Provider == nil {
		t.Fatalf("no provider despite SaveData being on")
	}
	if err := conf.World.Provider.Close(); err != nil {
		t.Fatalf("failed closing provider: %v", err)
	}
}

func TestConfigZeroTickRate(t *testing.T) {
	uc := DefaultConfig()
	uc.World.SaveData = false
	uc.Population.TicksPerSecond = 0

	conf, err := uc.Config(nil)
	if err != nil {
		t.Fatalf("failed converting config: %v", err)
	}
	// Zero stays zero here; world.Config.New applies the engine default.
	if conf.World.TickInterval != 0 {
		t.Fatalf("tick interval = %v, want 0", conf.World.TickInterval)
	}
}

func TestUserConfigTOMLRoundTrip(t *testing.T) {
	uc := DefaultConfig()
	uc.Server.Name = "Test Fleet"
	uc.World.Seed = 7.5
	uc.World.FarField = true

	data, err := toml.Marshal(uc)
	if err != nil {
		t.Fatalf("failed encoding config: %v", err)
	}
	var decoded UserConfig
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed decoding config: %v", err)
	}
	if decoded != uc {
		t.Fatalf("config changed over TOML round trip:\n%+v\n%+v", decoded, uc)
	}
}
