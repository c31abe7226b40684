package world

import (
	"math"
	"time"
)

// ticker implements the World's tick loop.
type ticker struct {
	interval time.Duration
}

const (
	tpsSampleSize       = 20
	tpsWarningThreshold = 0.95 // fraction of the configured rate
)

// tickLoop ticks the World at the configured interval until the World is
// closed, sampling the achieved tick rate as it goes and warning once when
// the rate drops below the threshold.
func (t ticker) tickLoop(w *World) {
	tc := time.NewTicker(t.interval)
	defer tc.Stop()

	target := 1.0 / t.interval.Seconds()
	lastTick := time.Now()
	var (
		durationSum time.Duration
		ticksCount  int
		warned      bool
	)
	for {
		select {
		case <-tc.C:
			tickStart := time.Now()
			duration := tickStart.Sub(lastTick)
			lastTick = tickStart
			if duration > 0 {
				durationSum += duration
				ticksCount++
				if ticksCount >= tpsSampleSize {
					avg := durationSum / time.Duration(ticksCount)
					if avg > 0 {
						tps := 1.0 / avg.Seconds()
						w.tps.Store(math.Float64bits(tps))
						if tps < target*tpsWarningThreshold {
							if !warned {
								w.conf.Log.Warn("Tick rate dropped below target.", "tps", tps, "target", target)
								warned = true
							}
						} else if warned {
							warned = false
						}
					}
					durationSum, ticksCount = 0, 0
				}
			}
			<-w.Exec(t.tick)
		case <-w.closing:
			// World is being closed: stop ticking.
			w.running.Done()
			return
		}
	}
}

// tick performs one population frame. The phases run in a fixed order:
// spawning for newly entered chunks completes before update and visibility
// touch those chunks' entities, and cleanup strictly follows spawning so an
// entity can never be destroyed by a stale distance snapshot in the frame it
// was created.
func (t ticker) tick(tx *Tx) {
	w := tx.w
	tick := w.currentTick.Add(1)

	positions := tx.playerPositions()
	if len(positions) == 0 {
		// Nothing to centre the world on; content stays as it is.
		return
	}

	// 1: reveal terrain around every tracked player.
	for _, pos := range positions {
		tx.SpawnAround(pos)
	}

	// 2: advance time-driven entity state.
	dt := t.interval.Seconds()
	for _, b := range w.selector.Biomes() {
		b.Update(dt, positions[0])
	}

	// 3: visibility. Distance culling is a single-viewer optimisation; with
	// several tracked players the server cannot cull one shared scene per
	// client, so everything stays shown.
	if tick%int64(w.conf.VisibilityInterval) == 0 && len(positions) == 1 {
		for _, b := range w.selector.Biomes() {
			b.UpdateEntityVisibility(w.scene, positions[0])
		}
	}

	// 4: reclaim entities and chunk markers outside every player's horizon.
	if tick%int64(w.conf.CleanupInterval) == 0 {
		for _, b := range w.selector.Biomes() {
			b.CleanupOutsideHorizon(w.scene, positions, w.conf.CleanupRadius)
		}
	}
}
