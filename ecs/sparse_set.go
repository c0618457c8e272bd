package ecs

// SparseSet is a cache-friendly map from Entity to T. Lookups compare the
// full handle, so a value stored for a destroyed entity is not visible
// through a newer handle that reuses the slot.
type SparseSet[T any] struct {
	denseEntities []Entity
	denseValues   []T
	sparse        []int
}

// Has returns true if the entity exists in the set.
func (s *SparseSet[T]) Has(e Entity) bool {
	idx, ok := s.index(e)
	return ok && idx >= 0
}

func (s *SparseSet[T]) index(e Entity) (int, bool) {
	if s == nil || !e.Valid() {
		return 0, false
	}
	id := int(e.id())
	if id <= 0 || id-1 >= len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[id-1]
	if idx < 0 || idx >= len(s.denseEntities) || s.denseEntities[idx] != e {
		return 0, false
	}
	return idx, true
}

// Get returns the value stored for e.
func (s *SparseSet[T]) Get(e Entity) (T, bool) {
	idx, ok := s.index(e)
	if !ok {
		var zero T
		return zero, false
	}
	return s.denseValues[idx], true
}

// Set inserts or updates the value for e.
func (s *SparseSet[T]) Set(e Entity, v T) {
	if s == nil || !e.Valid() {
		return
	}
	id := int(e.id())
	for id-1 >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if idx, ok := s.index(e); ok {
		s.denseValues[idx] = v
		return
	}
	if idx := s.sparse[id-1]; idx >= 0 && idx < len(s.denseEntities) {
		// slot held by an older generation
		s.denseEntities[idx] = e
		s.denseValues[idx] = v
		return
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id-1] = len(s.denseEntities) - 1
}

// Remove deletes the value for e if present.
func (s *SparseSet[T]) Remove(e Entity) bool {
	idx, ok := s.index(e)
	if !ok {
		return false
	}
	last := len(s.denseEntities) - 1
	lastEntity := s.denseEntities[last]

	s.denseEntities[idx] = lastEntity
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastEntity.id()-1] = idx

	var zero T
	s.denseValues[last] = zero
	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[e.id()-1] = -1
	return true
}

// Len returns the number of stored values.
func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}

// Entities returns the dense entity list. The slice must not be modified.
func (s *SparseSet[T]) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.denseEntities
}

// Each calls fn for every stored value in dense order.
func (s *SparseSet[T]) Each(fn func(e Entity, v T)) {
	if s == nil || fn == nil {
		return
	}
	for i, e := range s.denseEntities {
		fn(e, s.denseValues[i])
	}
}

// Clear removes all values.
func (s *SparseSet[T]) Clear() {
	if s == nil {
		return
	}
	for _, e := range s.denseEntities {
		s.sparse[e.id()-1] = -1
	}
	var zero T
	for i := range s.denseValues {
		s.denseValues[i] = zero
	}
	s.denseEntities = s.denseEntities[:0]
	s.denseValues = s.denseValues[:0]
}
