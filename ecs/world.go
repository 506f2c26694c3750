package ecs

import (
	"github.com/milk9111/avatar/ecs/component"
)

// World owns entities, their component stores, and the per-frame event queue.
type World struct {
	gens   []generation
	alive  []bool
	free   []entityID
	count  int
	stores map[component.ComponentID]*SparseSet
	events EventQueue
	dt     float64
	frame  uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity, reusing destroyed slots with a bumped
// generation so stale handles stay dead.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	var id entityID
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		w.gens = append(w.gens, 0)
		w.alive = append(w.alive, false)
		id = entityID(len(w.gens))
	}
	w.alive[id-1] = true
	w.count++
	return makeEntity(id, w.gens[id-1])
}

// DestroyEntity kills e and drops all of its components.
func DestroyEntity(w *World, e Entity) bool {
	if !IsAlive(w, e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	idx := e.id() - 1
	w.alive[idx] = false
	w.gens[idx]++
	w.free = append(w.free, e.id())
	w.count--
	return true
}

// IsAlive reports whether an entity handle is still valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil || !e.Valid() || int(e.id()) > len(w.gens) {
		return false
	}
	idx := e.id() - 1
	return w.alive[idx] && w.gens[idx] == e.generation()
}

// Entities returns every live entity in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.count)
	for i, ok := range w.alive {
		if ok {
			out = append(out, makeEntity(entityID(i+1), w.gens[i]))
		}
	}
	return out
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// DeltaTime returns the seconds elapsed for the frame currently being run.
func (w *World) DeltaTime() float64 {
	if w == nil {
		return 0
	}
	return w.dt
}

// Frame returns the number of scheduler ticks run so far.
func (w *World) Frame() uint64 {
	if w == nil {
		return 0
	}
	return w.frame
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w == nil {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
