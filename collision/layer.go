package collision

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/ecs"
)

// Layer is a bitmask of collision categories.
type Layer uint

const (
	LayerSolid Layer = 1 << iota
	LayerPlatform
	LayerInteractable

	LayerNone Layer = 0
	LayerAll  Layer = ^Layer(0)
)

// Hit is the result of a ray or sweep query. A zero Hit means nothing was found.
type Hit struct {
	Hit      bool
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
	Object   ecs.Entity
}

// Geometry is the world query backend the collision engine casts against.
type Geometry interface {
	// Raycast returns the nearest hit along dir within length.
	Raycast(origin, dir cp.Vector, length float64, mask Layer) Hit
	// OverlapBox reports whether an axis-aligned box intersects any shape in mask.
	OverlapBox(center, size cp.Vector, mask Layer) bool
	// OverlapCircle returns the nearest object in mask intersecting the circle.
	OverlapCircle(center cp.Vector, radius float64, mask Layer) (ecs.Entity, bool)
	// CircleCast sweeps a circle along dir and returns the first contact.
	CircleCast(origin cp.Vector, radius float64, dir cp.Vector, distance float64, mask Layer) Hit
}
