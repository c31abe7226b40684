package world

import (
	"github.com/brentp/intintmap"
	"github.com/go-gl/mathgl/mgl64"
)

// ledger is the set of chunks a biome has already processed. Membership
// means the biome has evaluated the chunk and possibly spawned content for
// it; a chunk in the ledger is never processed again until it is evicted.
// Keys are the packed 64-bit form of ChunkPos, values the tick at which the
// chunk was marked, kept around for diagnostics and save data.
type ledger struct {
	m    *intintmap.Map
	size int
}

const (
	ledgerInitialSize = 512
	ledgerFillFactor  = 0.6
)

func newLedger() *ledger {
	return &ledger{m: intintmap.New(ledgerInitialSize, ledgerFillFactor)}
}

// Mark records the chunk position passed as processed at the tick passed.
func (l *ledger) Mark(pos ChunkPos, tick int64) {
	if _, ok := l.m.Get(pos.Key()); !ok {
		l.size++
	}
	l.m.Put(pos.Key(), tick)
}

// Contains reports whether the chunk position passed has been processed.
func (l *ledger) Contains(pos ChunkPos) bool {
	_, ok := l.m.Get(pos.Key())
	return ok
}

// Len returns the number of chunks currently marked processed.
func (l *ledger) Len() int {
	return l.size
}

// Clear drops every entry. intintmap has no clear operation, so the backing
// map is simply replaced.
func (l *ledger) Clear() {
	l.m = intintmap.New(ledgerInitialSize, ledgerFillFactor)
	l.size = 0
}

// each calls f for every marked chunk with the tick it was marked at.
// The Items channel must be drained fully, so each never stops early.
func (l *ledger) each(f func(pos ChunkPos, tick int64)) {
	for kv := range l.m.Items() {
		f(chunkPosFromKey(kv[0]), kv[1])
	}
}

// evictOutside removes every entry whose chunk centre is further than
// horizon from all of the centres passed and returns the evicted positions.
// Chunks within the horizon of at least one centre are never evicted. The
// keys are collected before deletion because intintmap iteration does not
// permit concurrent mutation.
func (l *ledger) evictOutside(centres []mgl64.Vec3, horizon, chunkSize float64) []ChunkPos {
	if len(centres) == 0 {
		// No tracked positions means no horizon to measure against.
		return nil
	}
	var evicted []ChunkPos
	l.each(func(pos ChunkPos, _ int64) {
		if nearestDistance(pos.Centre(chunkSize), centres) > horizon {
			evicted = append(evicted, pos)
		}
	})
	for _, pos := range evicted {
		l.m.Del(pos.Key())
		l.size--
	}
	return evicted
}
