package world

import (
	"fmt"
)

// Selector is the registry of biome variants. It validates biomes at
// registration, binds them to the engine environment and deterministically
// assigns a governing biome to every chunk using the registered weights. A
// biome that fails validation never enters rotation.
type Selector struct {
	env Env

	biomes []Biome
	byID   map[string]Biome
	// cumulative holds the running weight totals parallel to biomes, so a
	// hashed value can be mapped to a biome with a linear scan.
	cumulative []float64
	total      float64
	fallback   Biome
}

// NewSelector creates an empty Selector binding registered biomes to the
// environment passed.
func NewSelector(env Env) *Selector {
	return &Selector{env: env, byID: map[string]Biome{}}
}

// Register validates the biome's configuration, binds it to the engine
// environment and adds it to the selection rotation. It returns the biome
// instance on success so callers can chain registration. The first biome
// registered with the Default flag becomes the fallback; if none carries the
// flag, the first biome registered does.
func (s *Selector) Register(b Biome) (Biome, error) {
	def := b.Definition()
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if _, ok := s.byID[def.ID]; ok {
		return nil, fmt.Errorf("biome %v: already registered", def.ID)
	}
	if err := b.Bind(s.env); err != nil {
		return nil, err
	}

	s.biomes = append(s.biomes, b)
	s.byID[def.ID] = b
	s.total += def.Weight
	s.cumulative = append(s.cumulative, s.total)

	if s.fallback == nil || (def.Default && !s.fallback.Definition().Default) {
		s.fallback = b
	}
	return b, nil
}

// Biomes returns the registered biomes in registration order.
func (s *Selector) Biomes() []Biome {
	return s.biomes
}

// ByID returns the registered biome with the ID passed.
func (s *Selector) ByID(id string) (Biome, bool) {
	b, ok := s.byID[id]
	return b, ok
}

// Default returns the fallback biome, or nil if nothing is registered.
func (s *Selector) Default() Biome {
	return s.fallback
}

// BiomeAt returns the biome governing the chunk at the position passed. The
// assignment is a pure function of the chunk position, the world seed and
// the registered weights, so every session of the same world agrees on it.
func (s *Selector) BiomeAt(pos ChunkPos) Biome {
	if len(s.biomes) == 0 {
		return nil
	}
	h := selectionHash(int64(pos[0]), int64(pos[1]), int64(s.env.Seed))
	target := float64(h%1_000_000) / 1_000_000 * s.total
	for i, c := range s.cumulative {
		if target < c {
			return s.biomes[i]
		}
	}
	return s.fallback
}

// selectionHash mixes a chunk coordinate pair and the seed into a uniform
// 64-bit value. The multipliers follow the coordinate-scrambling scheme the
// terrain generator uses for biome jitter.
func selectionHash(x, z, seed int64) uint64 {
	h := x*2345803 ^ z*9236449 ^ seed
	h *= h + 223
	u := uint64(h)
	u ^= u >> 33
	u *= 0xff51afd7ed558ccd
	u ^= u >> 33
	return u
}
