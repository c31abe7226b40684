package world

import (
	"github.com/google/uuid"
)

// registry holds the spawned entities of one biome. Entities live in a
// contiguous slot arena with a free list, so the store does not shuffle on
// removal and pointers handed out stay valid until the entity is removed.
// A per-category index set allows counting and walking one category without
// touching the rest.
type registry struct {
	slots []regSlot
	free  []int
	index map[uuid.UUID]int
	byCat [categoryCount]map[int]struct{}
	count int
}

type regSlot struct {
	ent      SpawnedEntity
	occupied bool
}

func newRegistry() *registry {
	r := &registry{index: map[uuid.UUID]int{}}
	for i := range r.byCat {
		r.byCat[i] = map[int]struct{}{}
	}
	return r
}

// add stores the entity passed and returns a pointer to the stored copy. The
// pointer remains valid until the entity is removed from the registry.
func (r *registry) add(ent SpawnedEntity) *SpawnedEntity {
	var i int
	if n := len(r.free); n > 0 {
		i = r.free[n-1]
		r.free = r.free[:n-1]
		r.slots[i] = regSlot{ent: ent, occupied: true}
	} else {
		i = len(r.slots)
		r.slots = append(r.slots, regSlot{ent: ent, occupied: true})
	}
	r.index[ent.id] = i
	r.byCat[ent.category][i] = struct{}{}
	r.count++
	return &r.slots[i].ent
}

// remove deletes the entity with the ID passed and returns the removed copy.
func (r *registry) remove(id uuid.UUID) (SpawnedEntity, bool) {
	i, ok := r.index[id]
	if !ok {
		return SpawnedEntity{}, false
	}
	ent := r.slots[i].ent
	r.slots[i] = regSlot{}
	r.free = append(r.free, i)
	delete(r.index, id)
	delete(r.byCat[ent.category], i)
	r.count--
	return ent, true
}

// get returns a pointer to the stored entity with the ID passed.
func (r *registry) get(id uuid.UUID) (*SpawnedEntity, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return &r.slots[i].ent, true
}

// len returns the number of entities stored.
func (r *registry) len() int {
	return r.count
}

// lenCategory returns the number of entities stored under the category
// passed.
func (r *registry) lenCategory(c Category) int {
	if int(c) >= categoryCount {
		return 0
	}
	return len(r.byCat[c])
}

// all calls f for every stored entity until f returns false. Mutating the
// registry from within f is not permitted; collect IDs and mutate after.
func (r *registry) all(f func(*SpawnedEntity) bool) {
	for i := range r.slots {
		if !r.slots[i].occupied {
			continue
		}
		if !f(&r.slots[i].ent) {
			return
		}
	}
}

// category calls f for every stored entity of the category passed until f
// returns false.
func (r *registry) category(c Category, f func(*SpawnedEntity) bool) {
	if int(c) >= categoryCount {
		return
	}
	for i := range r.byCat[c] {
		if !f(&r.slots[i].ent) {
			return
		}
	}
}

// removeIf removes every entity for which pred returns true. The release
// callback runs once per removed entity, after the registry entry is gone,
// so a release that fails can never leave a dangling registry entry.
func (r *registry) removeIf(pred func(*SpawnedEntity) bool, release func(SpawnedEntity)) int {
	var doomed []uuid.UUID
	r.all(func(e *SpawnedEntity) bool {
		if pred(e) {
			doomed = append(doomed, e.id)
		}
		return true
	})
	for _, id := range doomed {
		if ent, ok := r.remove(id); ok {
			release(ent)
		}
	}
	return len(doomed)
}

// clear removes every entity, invoking release once per entity.
func (r *registry) clear(release func(SpawnedEntity)) int {
	return r.removeIf(func(*SpawnedEntity) bool { return true }, release)
}
