package collision

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/ecs"
)

type box struct {
	bb     cp.BB
	layer  Layer
	object ecs.Entity
}

// boxWorld answers Geometry queries exactly against axis-aligned boxes.
type boxWorld struct {
	boxes []box
}

func (w *boxWorld) add(l, b, r, t float64, layer Layer) ecs.Entity {
	e := ecs.Entity(len(w.boxes) + 1)
	w.boxes = append(w.boxes, box{bb: cp.BB{L: l, B: b, R: r, T: t}, layer: layer, object: e})
	return e
}

// slab returns the entry distance of the ray into bb.
func slab(bb cp.BB, origin, dir cp.Vector) (float64, cp.Vector, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	var normal cp.Vector
	axes := []struct {
		o, d, lo, hi float64
		n            cp.Vector
	}{
		{origin.X, dir.X, bb.L, bb.R, cp.Vector{X: -signOf(dir.X), Y: 0}},
		{origin.Y, dir.Y, bb.B, bb.T, cp.Vector{X: 0, Y: -signOf(dir.Y)}},
	}
	for _, a := range axes {
		if a.d == 0 {
			if a.o < a.lo || a.o > a.hi {
				return 0, cp.Vector{}, false
			}
			continue
		}
		t1, t2 := (a.lo-a.o)/a.d, (a.hi-a.o)/a.d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
			normal = a.n
		}
		tmax = math.Min(tmax, t2)
	}
	if tmin > tmax || tmin < 0 {
		return 0, cp.Vector{}, false
	}
	return tmin, normal, true
}

func signOf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func (w *boxWorld) Raycast(origin, dir cp.Vector, length float64, mask Layer) Hit {
	best := Hit{}
	for _, b := range w.boxes {
		if b.layer&mask == 0 {
			continue
		}
		t, n, ok := slab(b.bb, origin, dir)
		if !ok || t > length {
			continue
		}
		if !best.Hit || t < best.Distance {
			best = Hit{Hit: true, Point: origin.Add(dir.Mult(t)), Normal: n, Distance: t, Object: b.object}
		}
	}
	return best
}

func (w *boxWorld) OverlapBox(center, size cp.Vector, mask Layer) bool {
	q := cp.BB{L: center.X - size.X/2, B: center.Y - size.Y/2, R: center.X + size.X/2, T: center.Y + size.Y/2}
	for _, b := range w.boxes {
		if b.layer&mask == 0 {
			continue
		}
		if q.L < b.bb.R && b.bb.L < q.R && q.B < b.bb.T && b.bb.B < q.T {
			return true
		}
	}
	return false
}

func (w *boxWorld) OverlapCircle(center cp.Vector, radius float64, mask Layer) (ecs.Entity, bool) {
	var found ecs.Entity
	best := math.Inf(1)
	for _, b := range w.boxes {
		if b.layer&mask == 0 {
			continue
		}
		nx := math.Max(b.bb.L, math.Min(center.X, b.bb.R))
		ny := math.Max(b.bb.B, math.Min(center.Y, b.bb.T))
		d := math.Hypot(center.X-nx, center.Y-ny)
		if d <= radius && d < best {
			best, found = d, b.object
		}
	}
	return found, found.Valid()
}

// CircleCast treats the swept circle as a ray against boxes inflated by the
// radius. Corners are square, which is exact for the head-on sweeps tested.
func (w *boxWorld) CircleCast(origin cp.Vector, radius float64, dir cp.Vector, distance float64, mask Layer) Hit {
	inflated := &boxWorld{}
	for _, b := range w.boxes {
		bb := cp.BB{L: b.bb.L - radius, B: b.bb.B - radius, R: b.bb.R + radius, T: b.bb.T + radius}
		inflated.boxes = append(inflated.boxes, box{bb: bb, layer: b.layer, object: b.object})
	}
	return inflated.Raycast(origin, dir, distance, mask)
}
