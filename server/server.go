// Package server ties the population engine, the save provider and the
// client feed together into a runnable game server.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/windward-gs/windward/server/session"
	"github.com/windward-gs/windward/server/world"
	"github.com/windward-gs/windward/server/world/biomes"
)

// Server is a Windward game server: one world, one websocket feed and a
// small JSON status API.
type Server struct {
	conf Config
	log  *slog.Logger

	world    *world.World
	sessions *session.Manager
	http     *http.Server

	landmarkMu sync.Mutex
	landmarks  map[uuid.UUID]landmarkInfo
}

type landmarkInfo struct {
	ID       string     `json:"id"`
	Biome    string     `json:"biome"`
	Feature  string     `json:"feature"`
	Position [3]float64 `json:"position"`
}

// New creates a Server using the Config passed, constructs its world and
// registers the configured biomes. Biomes that fail registration are logged
// and skipped: the world proceeds with the remaining ones.
func New(conf Config) *Server {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Address == "" {
		conf.Address = ":8080"
	}
	if conf.Biomes == nil {
		conf.Biomes = biomes.Default()
	}

	srv := &Server{
		conf:      conf,
		log:       conf.Log,
		landmarks: map[uuid.UUID]landmarkInfo{},
	}
	srv.world = conf.World.New()
	srv.world.Subscribe(srv.onWorldEvent)
	srv.sessions = session.NewManager(conf.Log, srv.world)

	<-srv.world.Exec(func(tx *world.Tx) {
		for _, b := range conf.Biomes {
			if _, err := tx.RegisterBiome(b); err != nil {
				srv.log.Error("biome failed registration, skipping.",
					"biome", b.Definition().ID, "err", err)
			}
		}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.sessions.Handle)
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/players", srv.handlePlayers)
	mux.HandleFunc("/api/landmarks", srv.handleLandmarks)
	srv.http = &http.Server{Addr: conf.Address, Handler: mux}

	return srv
}

// World returns the Server's world.
func (srv *Server) World() *world.World {
	return srv.world
}

// Listen serves the websocket feed and status API until the Server is
// closed.
func (srv *Server) Listen() error {
	srv.log.Info("server listening.", "addr", srv.conf.Address)
	if err := srv.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close drops all sessions, stops the listener and closes the world, saving
// population state through its provider.
func (srv *Server) Close() error {
	srv.sessions.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.http.Shutdown(ctx)
	return srv.world.Close()
}

// onWorldEvent maintains the landmark index served by /api/landmarks.
func (srv *Server) onWorldEvent(ev world.Event) {
	if ev.Category != world.CategoryIsland {
		return
	}
	srv.landmarkMu.Lock()
	defer srv.landmarkMu.Unlock()
	if ev.Kind == world.EventDespawn {
		delete(srv.landmarks, ev.EntityID)
		return
	}
	srv.landmarks[ev.EntityID] = landmarkInfo{
		ID:       ev.EntityID.String(),
		Biome:    ev.Biome,
		Feature:  ev.Feature,
		Position: [3]float64{ev.Position[0], ev.Position[1], ev.Position[2]},
	}
}

func (srv *Server) handleStatus(rw http.ResponseWriter, _ *http.Request) {
	var entities int
	<-srv.world.Exec(func(tx *world.Tx) {
		entities = tx.EntityCount()
	})
	srv.landmarkMu.Lock()
	landmarks := len(srv.landmarks)
	srv.landmarkMu.Unlock()

	writeJSON(rw, map[string]any{
		"status":    "online",
		"name":      srv.conf.Name,
		"players":   srv.sessions.Len(),
		"entities":  entities,
		"landmarks": landmarks,
		"tps":       srv.world.TPS(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (srv *Server) handlePlayers(rw http.ResponseWriter, _ *http.Request) {
	writeJSON(rw, srv.sessions.Roster())
}

func (srv *Server) handleLandmarks(rw http.ResponseWriter, _ *http.Request) {
	srv.landmarkMu.Lock()
	landmarks := make([]landmarkInfo, 0, len(srv.landmarks))
	for _, l := range srv.landmarks {
		landmarks = append(landmarks, l)
	}
	srv.landmarkMu.Unlock()
	writeJSON(rw, landmarks)
}

func writeJSON(rw http.ResponseWriter, v any) {
	rw.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(rw).Encode(v)
}
