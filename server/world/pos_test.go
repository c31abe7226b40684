package world

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestChunkPosFromVec3(t *testing.T) {
	cases := []struct {
		pos  mgl64.Vec3
		want ChunkPos
	}{
		{mgl64.Vec3{0, 0, 0}, ChunkPos{0, 0}},
		{mgl64.Vec3{15.999, 50, 15.999}, ChunkPos{0, 0}},
		{mgl64.Vec3{16, 0, 16}, ChunkPos{1, 1}},
		{mgl64.Vec3{-0.001, 0, -0.001}, ChunkPos{-1, -1}},
		{mgl64.Vec3{-16, 0, -16}, ChunkPos{-1, -1}},
		{mgl64.Vec3{-16.001, 0, 31.5}, ChunkPos{-2, 1}},
	}
	for _, c := range cases {
		if got := chunkPosFromVec3(c.pos, 16); got != c.want {
			t.Fatalf("chunkPosFromVec3(%v) = %v, want %v", c.pos, got, c.want)
		}
	}
}

func TestChunkPosOriginCentre(t *testing.T) {
	p := ChunkPos{-2, 3}
	if got := p.Origin(16); got != (mgl64.Vec3{-32, 0, 48}) {
		t.Fatalf("origin = %v", got)
	}
	if got := p.Centre(16); got != (mgl64.Vec3{-24, 0, 56}) {
		t.Fatalf("centre = %v", got)
	}
	// Every position inside the chunk maps back to it.
	if got := chunkPosFromVec3(p.Origin(16), 16); got != p {
		t.Fatalf("origin maps to %v, want %v", got, p)
	}
	if got := chunkPosFromVec3(p.Centre(16), 16); got != p {
		t.Fatalf("centre maps to %v, want %v", got, p)
	}
}

func TestHorizontalDistanceIgnoresY(t *testing.T) {
	a := mgl64.Vec3{0, -500, 0}
	b := mgl64.Vec3{3, 900, 4}
	if got := horizontalDistance(a, b); got != 5 {
		t.Fatalf("distance = %v, want 5", got)
	}
}

func TestNearestDistance(t *testing.T) {
	pos := mgl64.Vec3{10, 0, 0}
	centres := []mgl64.Vec3{{0, 0, 0}, {12, 0, 0}, {-100, 0, -100}}
	if got := nearestDistance(pos, centres); got != 2 {
		t.Fatalf("nearest = %v, want 2", got)
	}
	if got := nearestDistance(pos, nil); !math.IsInf(got, 1) {
		t.Fatalf("nearest with no centres = %v, want +Inf", got)
	}
}
