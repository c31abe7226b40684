package scene

import (
	"sync"
)

// Handle identifies a node attached to a Scene. A Handle is opaque to the
// population engine: the engine only ever stores it, toggles its visibility
// and eventually removes it. The zero Handle is never returned by Attach and
// may be used as a 'no parent' value.
type Handle uint64

// Scene is the shared visual context all biomes attach their content to. It
// performs no rendering of any kind; it is bookkeeping for opaque node
// payloads so that a renderer (or a test) can enumerate what currently
// exists in the world. All methods are safe for concurrent use.
type Scene struct {
	mu      sync.Mutex
	next    Handle
	nodes   map[Handle]*node
	removed uint64
}

type node struct {
	payload any
	parent  Handle
	visible bool
}

// New creates an empty Scene.
func New() *Scene {
	return &Scene{nodes: map[Handle]*node{}}
}

// Attach adds a node payload to the Scene under an optional parent handle and
// returns the Handle created for it. Newly attached nodes are visible.
func (s *Scene) Attach(payload any, parent Handle) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.nodes[s.next] = &node{payload: payload, parent: parent, visible: true}
	return s.next
}

// Remove detaches the node the Handle points to. It reports whether a node
// was actually removed, so callers can verify a handle is never released
// twice.
func (s *Scene) Remove(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[h]; !ok {
		return false
	}
	delete(s.nodes, h)
	s.removed++
	return true
}

// SetVisible toggles the visibility of the node the Handle points to. Hiding
// a node does not detach it: a hidden node can be shown again later.
func (s *Scene) SetVisible(h Handle, visible bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[h]
	if !ok {
		return false
	}
	n.visible = visible
	return true
}

// Visible reports whether the node the Handle points to exists and is
// currently shown.
func (s *Scene) Visible(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[h]
	return ok && n.visible
}

// Contains reports whether a node is attached under the Handle passed.
func (s *Scene) Contains(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.nodes[h]
	return ok
}

// Payload returns the payload stored for the Handle, if any.
func (s *Scene) Payload(h Handle) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[h]
	if !ok {
		return nil, false
	}
	return n.payload, true
}

// Len returns the number of nodes currently attached.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.nodes)
}

// Removed returns the total number of nodes detached over the Scene's
// lifetime. Tests use it to assert that handles are released exactly once.
func (s *Scene) Removed() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed
}
