// Package session carries the websocket feed between clients and the world:
// players join, stream position updates and receive roster, movement and
// landmark events in return.
package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/windward-gs/windward/server/world"
)

const (
	writeWait = 10 * time.Second
	// staleAfter is the idle time after which a session that stopped sending
	// position updates is dropped and its player untracked.
	staleAfter    = 60 * time.Second
	sweepInterval = 10 * time.Second
)

// Colour is an RGB triple in [0, 1] chosen by the client.
type Colour struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// clientMessage is the envelope of every message a client sends.
type clientMessage struct {
	Type   string  `json:"type"`
	Name   string  `json:"name,omitempty"`
	Colour *Colour `json:"color,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Yaw    float64 `json:"rotation"`
}

// PlayerInfo is the wire form of one player's public state.
type PlayerInfo struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Colour   Colour     `json:"color"`
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"rotation"`
}

// serverMessage is the envelope of every message the server broadcasts.
type serverMessage struct {
	Type     string       `json:"type"`
	Player   *PlayerInfo  `json:"player,omitempty"`
	Players  []PlayerInfo `json:"players,omitempty"`
	Landmark *Landmark    `json:"landmark,omitempty"`
}

// Landmark is the wire form of a composite landmark lifecycle event.
type Landmark struct {
	ID       string     `json:"id"`
	Biome    string     `json:"biome"`
	Feature  string     `json:"feature"`
	Position [3]float64 `json:"position"`
	Gone     bool       `json:"gone,omitempty"`
}

// Manager accepts websocket sessions, feeds their position updates into the
// world and fans world events back out to every connected client.
type Manager struct {
	log *slog.Logger
	w   *world.World

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*Session]struct{}

	closing chan struct{}
	once    sync.Once
}

// Session is one connected client.
type Session struct {
	id   world.PlayerID
	conn *websocket.Conn

	mu       sync.Mutex
	name     string
	colour   Colour
	pos      mgl64.Vec3
	yaw      float64
	lastSeen time.Time

	send chan serverMessage
}

// NewManager creates a Manager feeding the world passed. The manager
// subscribes to the world's entity events and starts the stale-session
// sweeper.
func NewManager(log *slog.Logger, w *world.World) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		log:      log,
		w:        w,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		sessions: map[*Session]struct{}{},
		closing:  make(chan struct{}),
	}
	w.Subscribe(m.onWorldEvent)
	go m.sweepStale()
	return m
}

// onWorldEvent fans composite landmark spawns and despawns out to every
// session. It runs inside world transactions, so it only enqueues.
func (m *Manager) onWorldEvent(ev world.Event) {
	if ev.Category != world.CategoryIsland {
		return
	}
	m.broadcast(serverMessage{Type: "landmark", Landmark: &Landmark{
		ID:       ev.EntityID.String(),
		Biome:    ev.Biome,
		Feature:  ev.Feature,
		Position: [3]float64{ev.Position[0], ev.Position[1], ev.Position[2]},
		Gone:     ev.Kind == world.EventDespawn,
	}}, nil)
}

// Handle upgrades the request to a websocket session and serves it until the
// client disconnects or goes stale.
func (m *Manager) Handle(rw http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		m.log.Debug("websocket upgrade failed.", "err", err)
		return
	}
	s := &Session{
		id:       world.NewPlayerID(),
		conn:     conn,
		name:     "Sailor",
		colour:   Colour{R: 0.3, G: 0.6, B: 0.8},
		lastSeen: time.Now(),
		send:     make(chan serverMessage, 64),
	}

	m.mu.Lock()
	m.sessions[s] = struct{}{}
	m.mu.Unlock()
	m.log.Info("session connected.", "id", s.id)

	go s.writeLoop()
	s.send <- serverMessage{Type: "roster", Players: m.Roster()}
	m.readLoop(s)
}

// readLoop consumes client messages until the connection drops.
func (m *Manager) readLoop(s *Session) {
	defer m.drop(s, "disconnected")
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			m.log.Debug("discarding malformed client message.", "id", s.id, "err", err)
			continue
		}
		m.dispatch(s, msg)
	}
}

func (m *Manager) dispatch(s *Session, msg clientMessage) {
	s.mu.Lock()
	s.lastSeen = time.Now()
	switch msg.Type {
	case "join":
		if msg.Name != "" {
			s.name = msg.Name
		}
		if msg.Colour != nil {
			s.colour = *msg.Colour
		}
		s.pos = mgl64.Vec3{msg.X, msg.Y, msg.Z}
		s.yaw = msg.Yaw
	case "move":
		s.pos = mgl64.Vec3{msg.X, msg.Y, msg.Z}
		s.yaw = msg.Yaw
	case "name":
		if msg.Name != "" {
			s.name = msg.Name
		}
	case "color":
		if msg.Colour != nil {
			s.colour = *msg.Colour
		}
	default:
		s.mu.Unlock()
		m.log.Debug("unknown client message type.", "id", s.id, "type", msg.Type)
		return
	}
	info := s.info()
	pos := s.pos
	s.mu.Unlock()

	switch msg.Type {
	case "join":
		m.w.Exec(func(tx *world.Tx) { tx.MovePlayer(s.id, pos) })
		m.broadcast(serverMessage{Type: "player_joined", Player: &info}, s)
	case "move":
		m.w.Exec(func(tx *world.Tx) { tx.MovePlayer(s.id, pos) })
		m.broadcast(serverMessage{Type: "player_moved", Player: &info}, s)
	default:
		m.broadcast(serverMessage{Type: "player_updated", Player: &info}, s)
	}
}

// info returns the session's public state. The caller must hold s.mu.
func (s *Session) info() PlayerInfo {
	return PlayerInfo{
		ID:       s.id.String(),
		Name:     s.name,
		Colour:   s.colour,
		Position: [3]float64{s.pos[0], s.pos[1], s.pos[2]},
		Yaw:      s.yaw,
	}
}

// writeLoop serialises outbound messages for one session.
func (s *Session) writeLoop() {
	for msg := range s.send {
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// broadcast enqueues the message for every session except the one passed.
// Sessions whose send queue is full are skipped rather than blocked on.
func (m *Manager) broadcast(msg serverMessage, except *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for s := range m.sessions {
		if s == except {
			continue
		}
		select {
		case s.send <- msg:
		default:
		}
	}
}

// drop removes the session, untracks its player and announces the leave.
func (m *Manager) drop(s *Session, reason string) {
	m.mu.Lock()
	if _, ok := m.sessions[s]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, s)
	m.mu.Unlock()

	close(s.send)
	_ = s.conn.Close()
	m.w.Exec(func(tx *world.Tx) { tx.RemovePlayer(s.id) })
	m.log.Info("session dropped.", "id", s.id, "reason", reason)

	s.mu.Lock()
	info := s.info()
	s.mu.Unlock()
	m.broadcast(serverMessage{Type: "player_left", Player: &info}, nil)
}

// sweepStale periodically drops sessions that stopped sending updates.
func (m *Manager) sweepStale() {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			var stale []*Session
			now := time.Now()
			m.mu.Lock()
			for s := range m.sessions {
				s.mu.Lock()
				idle := now.Sub(s.lastSeen)
				s.mu.Unlock()
				if idle > staleAfter {
					stale = append(stale, s)
				}
			}
			m.mu.Unlock()
			for _, s := range stale {
				m.drop(s, "stale")
			}
		case <-m.closing:
			return
		}
	}
}

// Roster returns the public state of every connected session.
func (m *Manager) Roster() []PlayerInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	roster := make([]PlayerInfo, 0, len(m.sessions))
	for s := range m.sessions {
		s.mu.Lock()
		roster = append(roster, s.info())
		s.mu.Unlock()
	}
	return roster
}

// Len returns the number of connected sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close drops every session and stops the sweeper.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.closing) })
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()
	for _, s := range sessions {
		m.drop(s, "server closing")
	}
}
