package collision

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Detect casts rayCount rays of st.Probe and records the hits in st.
//
// The cast length grows with the part of raw movement that points along the
// probe so fast motion does not tunnel. With refine set, every hit shortens
// the length for the following rays, so only closer hits replace the
// representative one.
func Detect(geo Geometry, st *SideState, raw cp.Vector, refine bool, mask Layer, rayCount int, modifier float64) {
	st.resetHits()

	probe := st.Probe
	projected := cp.Vector{X: raw.X * probe.Direction.X, Y: raw.Y * probe.Direction.Y}
	length := projected.Length()*modifier + probe.Length

	for i := 0; i < rayCount; i++ {
		hit := geo.Raycast(probe.Origin(i), probe.Direction, length, mask)
		if !hit.Hit {
			continue
		}
		if i == 0 {
			st.FirstRayHit = true
		}
		if i == rayCount-1 {
			st.LastRayHit = true
		}
		if refine {
			length = hit.Distance
		}
		st.HitRayCount++
		st.HasHit = true
		st.HitPoint = hit.Point
		st.HitDistance = math.Max(hit.Distance, 0)
	}
}
