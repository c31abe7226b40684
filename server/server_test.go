package server

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/windward-gs/windward/server/world"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	srv := New(Config{
		Name:  "Test Fleet",
		World: world.Config{Seed: 42, TickInterval: time.Millisecond},
	})
	t.Cleanup(func() {
		if err := srv.Close(); err != nil {
			t.Errorf("failed closing server: %v", err)
		}
	})
	return srv
}

func TestStatusEndpoint(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	srv.handleStatus(rec, httptest.NewRequest("GET", "/api/status", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	var status map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("failed decoding status: %v", err)
	}
	if status["status"] != "online" || status["name"] != "Test Fleet" {
		t.Fatalf("unexpected status payload: %v", status)
	}
	if status["players"] != float64(0) {
		t.Fatalf("players = %v, want 0", status["players"])
	}
}

func TestDefaultBiomesRegistered(t *testing.T) {
	srv := testServer(t)

	var ids []string
	<-srv.World().Exec(func(tx *world.Tx) {
		for _, b := range tx.Biomes() {
			ids = append(ids, b.Definition().ID)
		}
	})
	if len(ids) == 0 {
		t.Fatalf("no biomes registered by default")
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("biome %v registered twice", id)
		}
		seen[id] = true
	}
	if !seen["open_sea"] {
		t.Fatalf("default rotation misses the open sea: %v", ids)
	}
}

func TestLandmarkIndexFollowsEvents(t *testing.T) {
	srv := testServer(t)

	// Track a player so island spawns occur, then wait for the landmark index
	// to pick at least one up.
	id := world.NewPlayerID()
	<-srv.World().Exec(func(tx *world.Tx) {
		// Islands are sparse; reveal a wide area around the player.
		tx.MovePlayer(id, mgl64.Vec3{})
		for x := int32(-20); x <= 20; x++ {
			for z := int32(-20); z <= 20; z++ {
				pos := world.ChunkPos{x, z}
				if b := tx.BiomeAt(pos); b != nil {
					b.ProcessChunk(tx.Scene(), pos)
				}
			}
		}
	})

	rec := httptest.NewRecorder()
	srv.handleLandmarks(rec, httptest.NewRequest("GET", "/api/landmarks", nil))
	var landmarks []landmarkInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &landmarks); err != nil {
		t.Fatalf("failed decoding landmarks: %v", err)
	}
	for _, l := range landmarks {
		if l.ID == "" || l.Biome == "" || l.Feature == "" {
			t.Fatalf("incomplete landmark entry: %+v", l)
		}
	}
}

func TestPlayersEndpointEmpty(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	srv.handlePlayers(rec, httptest.NewRequest("GET", "/api/players", nil))
	var players []any
	if err := json.Unmarshal(rec.Body.Bytes(), &players); err != nil {
		t.Fatalf("failed decoding players: %v", err)
	}
	if len(players) != 0 {
		t.Fatalf("players = %v, want none", players)
	}
}
