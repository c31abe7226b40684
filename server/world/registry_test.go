package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

func testEntity(cat Category, pos mgl64.Vec3) SpawnedEntity {
	return SpawnedEntity{
		id:       uuid.New(),
		feature:  "test",
		category: cat,
		handle:   1,
		origin:   pos,
		visible:  true,
	}
}

func TestRegistryAddRemove(t *testing.T) {
	r := newRegistry()
	a := r.add(testEntity(CategoryIsland, mgl64.Vec3{1, 0, 1}))
	b := r.add(testEntity(CategoryCreature, mgl64.Vec3{2, 0, 2}))

	if r.len() != 2 {
		t.Fatalf("len = %d, want 2", r.len())
	}
	if r.lenCategory(CategoryIsland) != 1 || r.lenCategory(CategoryCreature) != 1 {
		t.Fatalf("category counts wrong: islands=%d creatures=%d",
			r.lenCategory(CategoryIsland), r.lenCategory(CategoryCreature))
	}

	if _, ok := r.remove(a.ID()); !ok {
		t.Fatalf("failed removing entity %v", a.ID())
	}
	if _, ok := r.remove(a.ID()); ok {
		t.Fatalf("removed the same entity twice")
	}
	if r.len() != 1 || r.lenCategory(CategoryIsland) != 0 {
		t.Fatalf("counts not updated after removal")
	}
	if got, ok := r.get(b.ID()); !ok || got.Category() != CategoryCreature {
		t.Fatalf("surviving entity lost after unrelated removal")
	}
}

// Slots freed by removal are reused, and pointers to surviving entities stay
// valid across the reuse.
func TestRegistrySlotReuse(t *testing.T) {
	r := newRegistry()
	first := r.add(testEntity(CategoryEffect, mgl64.Vec3{}))
	keep := r.add(testEntity(CategoryEffect, mgl64.Vec3{5, 0, 5}))
	r.remove(first.ID())

	replacement := r.add(testEntity(CategoryVegetation, mgl64.Vec3{9, 0, 9}))
	if len(r.slots) != 2 {
		t.Fatalf("arena grew to %d slots despite a free slot", len(r.slots))
	}
	if keep.Origin() != (mgl64.Vec3{5, 0, 5}) {
		t.Fatalf("surviving entity corrupted by slot reuse")
	}
	if replacement.Category() != CategoryVegetation {
		t.Fatalf("reused slot holds wrong entity")
	}
}

func TestRegistryRemoveIf(t *testing.T) {
	r := newRegistry()
	for i := 0; i < 10; i++ {
		r.add(testEntity(CategoryVegetation, mgl64.Vec3{float64(i * 10), 0, 0}))
	}
	released := 0
	removed := r.removeIf(func(e *SpawnedEntity) bool {
		return e.Origin()[0] > 45
	}, func(SpawnedEntity) { released++ })

	if removed != 5 || released != 5 {
		t.Fatalf("removed %d, released %d, want 5 and 5", removed, released)
	}
	r.all(func(e *SpawnedEntity) bool {
		if e.Origin()[0] > 45 {
			t.Fatalf("entity at %v survived removeIf", e.Origin())
		}
		return true
	})
}

func TestRegistryClear(t *testing.T) {
	r := newRegistry()
	released := 0
	if n := r.clear(func(SpawnedEntity) { released++ }); n != 0 || released != 0 {
		t.Fatalf("clearing an empty registry released %d entities", released)
	}
	for i := 0; i < 4; i++ {
		r.add(testEntity(Category(i%categoryCount), mgl64.Vec3{}))
	}
	if n := r.clear(func(SpawnedEntity) { released++ }); n != 4 || released != 4 {
		t.Fatalf("clear removed %d, released %d, want 4 and 4", n, released)
	}
	if r.len() != 0 {
		t.Fatalf("registry not empty after clear")
	}
}
