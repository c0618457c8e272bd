package ecs

import "errors"

var ErrEntityNotAlive = errors.New("ecs: entity not alive")

// Registry issues and retires entity handles. Destroyed slots are reused with
// a bumped generation so stale handles never resolve to a new object.
type Registry struct {
	gen   []generation
	free  []entityID
	alive int
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Create allocates a new handle.
func (r *Registry) Create() Entity {
	var id entityID
	if n := len(r.free); n > 0 {
		id = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.gen = append(r.gen, 1)
		id = entityID(len(r.gen))
	}
	r.alive++
	return makeEntity(id, r.gen[id-1])
}

// Destroy retires e. It returns false when e is not alive.
func (r *Registry) Destroy(e Entity) bool {
	if !r.IsAlive(e) {
		return false
	}
	id := e.id()
	r.gen[id-1]++
	r.free = append(r.free, id)
	r.alive--
	return true
}

// IsAlive reports whether e refers to a live slot.
func (r *Registry) IsAlive(e Entity) bool {
	if r == nil || !e.Valid() {
		return false
	}
	id := e.id()
	if id == 0 || int(id) > len(r.gen) {
		return false
	}
	return r.gen[id-1] == e.generation()
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.alive
}
