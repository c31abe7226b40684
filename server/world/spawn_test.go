package world

import (
	"math"
	"testing"
)

func TestSpawnValueDeterministic(t *testing.T) {
	for _, f := range []SpawnFunc{SpawnValue, FarSpawnValue} {
		first := f(13.5, -42.25, 42, "isle")
		for i := 0; i < 100; i++ {
			if v := f(13.5, -42.25, 42, "isle"); v != first {
				t.Fatalf("spawn value changed between calls: %v != %v", v, first)
			}
		}
		if first < 0 || first >= 1 {
			t.Fatalf("spawn value %v outside [0, 1)", first)
		}
	}
}

func TestSpawnValueVariesWithInputs(t *testing.T) {
	base := SpawnValue(10, 20, 42, "isle")
	if SpawnValue(11, 20, 42, "isle") == base &&
		SpawnValue(10, 21, 42, "isle") == base &&
		SpawnValue(10, 20, 43, "isle") == base {
		t.Fatalf("spawn value did not vary with any input")
	}
	if SpawnValue(10, 20, 42, "isle") == SpawnValue(10, 20, 42, "shipwreck") {
		t.Fatalf("distinct features rolled the same value at the same position")
	}
}

func TestShouldSpawnClampedChances(t *testing.T) {
	for x := 0.0; x < 50; x++ {
		if ShouldSpawn(SpawnValue, x, -x, 7, "isle", 0) {
			t.Fatalf("chance 0 spawned at x=%v", x)
		}
		if ShouldSpawn(SpawnValue, x, -x, 7, "isle", -3) {
			t.Fatalf("negative chance spawned at x=%v", x)
		}
		if !ShouldSpawn(SpawnValue, x, -x, 7, "isle", 1) {
			t.Fatalf("chance 1 did not spawn at x=%v", x)
		}
		if !ShouldSpawn(SpawnValue, x, -x, 7, "isle", 2.5) {
			t.Fatalf("chance above 1 did not spawn at x=%v", x)
		}
	}
}

// Doubling the effective chance can never lose an accepted decision: the
// underlying value is fixed per position, so v < c implies v < 2c.
func TestShouldSpawnDensityMonotonic(t *testing.T) {
	const base = 0.2
	lo, hi := 0, 0
	for x := -40.0; x <= 40; x += 2.5 {
		for z := -40.0; z <= 40; z += 2.5 {
			if ShouldSpawn(SpawnValue, x, z, 42, "palm", base*1.0) {
				lo++
				if !ShouldSpawn(SpawnValue, x, z, 42, "palm", base*2.0) {
					t.Fatalf("doubling density lost an accepted decision at (%v, %v)", x, z)
				}
			}
			if ShouldSpawn(SpawnValue, x, z, 42, "palm", base*2.0) {
				hi++
			}
		}
	}
	if hi < lo {
		t.Fatalf("accepted decisions decreased with density: %d -> %d", lo, hi)
	}
}

// The far-field hash must keep distinguishing neighbouring positions at
// magnitudes where the trigonometric formula has long since aliased.
func TestFarSpawnValueFarFromOrigin(t *testing.T) {
	const far = 1 << 40
	a := FarSpawnValue(far, far, 42, "isle")
	b := FarSpawnValue(far+1, far, 42, "isle")
	if a == b {
		t.Fatalf("far-field hash did not distinguish neighbouring positions at %v", float64(far))
	}
	if math.IsNaN(a) || a < 0 || a >= 1 {
		t.Fatalf("far-field value %v outside [0, 1)", a)
	}
}
