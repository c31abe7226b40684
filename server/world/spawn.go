package world

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/segmentio/fasthash/fnv1a"
)

// SpawnFunc computes a deterministic pseudo-random value in [0, 1) from a
// world position, the world seed and a feature tag. Identical inputs must
// always produce the identical value, across calls and across process
// restarts: every reproducibility guarantee of the engine is conditioned on
// this.
type SpawnFunc func(x, z, seed float64, feature string) float64

// Constants of the trigonometric spawn hash. The frequency pair is chosen so
// that neighbouring sample positions land on unrelated phases of the sine,
// and the amplitude pushes the result far enough past the decimal point that
// the fractional part is uniform-ish over [0, 1).
const (
	spawnFreqX      = 12.9898
	spawnFreqZ      = 78.233
	spawnAmplitude  = 43758.5453
	farFieldQuantum = 16 // sub-positions per world unit in the far-field hash
)

// SpawnValue is the default SpawnFunc: the fractional part of an amplified
// sine over the position and seed. The feature tag is folded into the phase
// so distinct feature types roll independent values at the same position.
//
// The formula degrades far from the origin, where float64 steps grow larger
// than the sine's period. Worlds that support very large exploration
// distances should use FarSpawnValue instead.
func SpawnValue(x, z, seed float64, feature string) float64 {
	phase := seed + float64(fnv1a.HashString64(feature)%8192)
	v := math.Sin(x*spawnFreqX+z*spawnFreqZ+phase) * spawnAmplitude
	return v - math.Floor(v)
}

// FarSpawnValue is a precision-robust SpawnFunc. It quantises the position
// onto a fixed sub-unit grid and hashes the integer grid coordinates, the
// seed bits and the feature tag with xxhash, so the value distribution does
// not degrade at large coordinate magnitudes.
func FarSpawnValue(x, z, seed float64, feature string) float64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(int64(math.Floor(x*farFieldQuantum))))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(math.Floor(z*farFieldQuantum))))
	binary.LittleEndian.PutUint64(buf[16:], math.Float64bits(seed))

	d := xxhash.New()
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(feature)
	// Keep the top 53 bits so the division is exact in float64.
	return float64(d.Sum64()>>11) / (1 << 53)
}

// ShouldSpawn decides whether a feature spawns at the world position passed,
// using the SpawnFunc f and the effective chance passed. The chance is the
// feature's base chance already multiplied by the biome's density modifier;
// values at or below 0 never spawn and values at or above 1 always spawn,
// without either being an error.
func ShouldSpawn(f SpawnFunc, x, z, seed float64, feature string, chance float64) bool {
	if f == nil {
		f = SpawnValue
	}
	// The hash lies in [0, 1), so chance <= 0 and chance >= 1 fall out of
	// the comparison naturally.
	return f(x, z, seed, feature) < chance
}
