package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestLedgerMarkContains(t *testing.T) {
	l := newLedger()
	if l.Contains(ChunkPos{0, 0}) {
		t.Fatalf("fresh ledger contains (0, 0)")
	}
	l.Mark(ChunkPos{0, 0}, 1)
	l.Mark(ChunkPos{-3, 7}, 2)
	l.Mark(ChunkPos{-3, 7}, 5) // re-mark must not double count
	if !l.Contains(ChunkPos{0, 0}) || !l.Contains(ChunkPos{-3, 7}) {
		t.Fatalf("marked chunks not found")
	}
	if l.Contains(ChunkPos{7, -3}) {
		t.Fatalf("swapped coordinates found: key packing is not positional")
	}
	if n := l.Len(); n != 2 {
		t.Fatalf("ledger length = %d, want 2", n)
	}
}

func TestLedgerKeyRoundTrip(t *testing.T) {
	for _, pos := range []ChunkPos{{0, 0}, {1, -1}, {-1, 1}, {2147483647, -2147483648}} {
		if got := chunkPosFromKey(pos.Key()); got != pos {
			t.Fatalf("key round trip %v -> %v", pos, got)
		}
	}
}

func TestLedgerEvictOutside(t *testing.T) {
	l := newLedger()
	const size = 16.0
	l.Mark(ChunkPos{0, 0}, 1)   // centre (8, 8), close
	l.Mark(ChunkPos{10, 0}, 1)  // centre (168, 8), far
	l.Mark(ChunkPos{0, 10}, 1)  // far
	l.Mark(ChunkPos{-1, -1}, 1) // close

	evicted := l.evictOutside([]mgl64.Vec3{{0, 0, 0}}, 50, size)
	if len(evicted) != 2 {
		t.Fatalf("evicted %d chunks, want 2: %v", len(evicted), evicted)
	}
	if !l.Contains(ChunkPos{0, 0}) || !l.Contains(ChunkPos{-1, -1}) {
		t.Fatalf("chunks within the horizon were evicted")
	}
	if l.Contains(ChunkPos{10, 0}) || l.Contains(ChunkPos{0, 10}) {
		t.Fatalf("chunks outside the horizon survived")
	}
	if n := l.Len(); n != 2 {
		t.Fatalf("ledger length after eviction = %d, want 2", n)
	}
}

// A second tracked position must protect chunks near it from eviction.
func TestLedgerEvictMultipleCentres(t *testing.T) {
	l := newLedger()
	l.Mark(ChunkPos{0, 0}, 1)
	l.Mark(ChunkPos{100, 100}, 1)
	centres := []mgl64.Vec3{{0, 0, 0}, {1608, 0, 1608}}
	if evicted := l.evictOutside(centres, 50, 16); len(evicted) != 0 {
		t.Fatalf("evicted %d chunks despite both being near a centre", len(evicted))
	}
}

func TestLedgerEvictNoCentres(t *testing.T) {
	l := newLedger()
	l.Mark(ChunkPos{0, 0}, 1)
	if evicted := l.evictOutside(nil, 50, 16); len(evicted) != 0 {
		t.Fatalf("eviction with no centres removed %d chunks", len(evicted))
	}
}

func TestLedgerClear(t *testing.T) {
	l := newLedger()
	for i := int32(0); i < 100; i++ {
		l.Mark(ChunkPos{i, -i}, int64(i))
	}
	l.Clear()
	if l.Len() != 0 || l.Contains(ChunkPos{1, -1}) {
		t.Fatalf("clear left entries behind")
	}
}
