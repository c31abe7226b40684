package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ChunkPos holds the position of a chunk. The X and Z values of a ChunkPos
// are world coordinates floor-divided by the chunk size, so a ChunkPos is
// stable under re-derivation from any world position inside the chunk.
type ChunkPos [2]int32

// X returns the X coordinate of the chunk position.
func (p ChunkPos) X() int32 {
	return p[0]
}

// Z returns the Z coordinate of the chunk position.
func (p ChunkPos) Z() int32 {
	return p[1]
}

// String implements fmt.Stringer and returns (x, z).
func (p ChunkPos) String() string {
	return fmt.Sprintf("(%v, %v)", p[0], p[1])
}

// Key packs the two 32-bit halves of the ChunkPos into a single 64-bit key
// suitable for use in integer hash sets.
func (p ChunkPos) Key() int64 {
	return int64(uint64(uint32(p[0]))<<32 | uint64(uint32(p[1])))
}

// chunkPosFromKey is the inverse of ChunkPos.Key.
func chunkPosFromKey(k int64) ChunkPos {
	return ChunkPos{int32(uint64(k) >> 32), int32(uint32(uint64(k)))}
}

// chunkPosFromVec3 returns the ChunkPos of the chunk that the world position
// passed is located in, given the chunk size passed.
func chunkPosFromVec3(v mgl64.Vec3, size float64) ChunkPos {
	return ChunkPos{
		int32(math.Floor(v[0] / size)),
		int32(math.Floor(v[2] / size)),
	}
}

// Origin returns the world position of the chunk's minimum corner, given the
// chunk size passed. The Y value is always 0: chunks are columns covering
// the full world height.
func (p ChunkPos) Origin(size float64) mgl64.Vec3 {
	return mgl64.Vec3{float64(p[0]) * size, 0, float64(p[1]) * size}
}

// Centre returns the world position at the centre of the chunk, given the
// chunk size passed.
func (p ChunkPos) Centre(size float64) mgl64.Vec3 {
	return mgl64.Vec3{(float64(p[0]) + 0.5) * size, 0, (float64(p[1]) + 0.5) * size}
}

// horizontalDistance returns the distance between two positions measured
// over the XZ plane only. Content lives at arbitrary heights (islands float,
// creatures dive), so lifecycle distances ignore Y.
func horizontalDistance(a, b mgl64.Vec3) float64 {
	dx, dz := a[0]-b[0], a[2]-b[2]
	return math.Sqrt(dx*dx + dz*dz)
}

// nearestDistance returns the smallest horizontal distance between pos and
// any of the centres passed, or +Inf if centres is empty. Callers that evict
// by distance must guard against the empty case themselves.
func nearestDistance(pos mgl64.Vec3, centres []mgl64.Vec3) float64 {
	nearest := math.Inf(1)
	for _, c := range centres {
		if d := horizontalDistance(pos, c); d < nearest {
			nearest = d
		}
	}
	return nearest
}
