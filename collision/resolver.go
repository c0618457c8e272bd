package collision

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/common"
)

// contactEpsilon inflates the destination overlap box along the resolved axis
// so a resting contact stays confirmed on frames without motion.
const contactEpsilon = 1e-3

// body carries the per-frame geometry the resolver needs.
type body struct {
	bounds cp.BB
	size   cp.Vector
	skin   float64
}

// verticalReposition is the y the actor center must sit at to rest against st's hit.
func (b body) verticalReposition(st *SideState) float64 {
	dir := -st.Probe.Direction.Y
	return st.HitPoint.Y + (boundsSize(b.bounds).Y/2+b.skin)*dir
}

func (b body) horizontalReposition(st *SideState) float64 {
	dir := -st.Probe.Direction.X
	return st.HitPoint.X + (boundsSize(b.bounds).X/2+b.skin)*dir
}

// ResolveVertical confirms a vertical contact at the destination and pulls
// move.Y so the actor lands exactly on the reposition value. bounds is the
// skin-shrunk box and size the full collider size.
func ResolveVertical(geo Geometry, st *SideState, pos, furthest cp.Vector, move *cp.Vector, bounds cp.BB, size cp.Vector, skin float64, mask Layer) {
	resolveVertical(geo, st, body{bounds: bounds, size: size, skin: skin}, pos, furthest, move, mask)
}

// ResolveHorizontal is the x-axis counterpart of ResolveVertical.
func ResolveHorizontal(geo Geometry, st *SideState, pos, furthest cp.Vector, move *cp.Vector, bounds cp.BB, size cp.Vector, skin float64, mask Layer) {
	resolveHorizontal(geo, st, body{bounds: bounds, size: size, skin: skin}, pos, furthest, move, mask)
}

func resolveVertical(geo Geometry, st *SideState, b body, pos, furthest cp.Vector, move *cp.Vector, mask Layer) {
	st.Colliding = false
	if !st.HasHit {
		return
	}

	checkPos := cp.Vector{X: pos.X, Y: furthest.Y}
	size := cp.Vector{X: boundsSize(b.bounds).X, Y: b.size.Y + 2*contactEpsilon}
	// no vertical motion counts as pressing down
	dir := common.SignOr(furthest.Y-pos.Y, -1)
	if dir != st.Probe.Direction.Y {
		return
	}
	if !geo.OverlapBox(checkPos, size, mask) {
		return
	}

	move.Y += b.verticalReposition(st) - furthest.Y
	st.Colliding = true
}

// A frame without horizontal motion never confirms a wall.
func resolveHorizontal(geo Geometry, st *SideState, b body, pos, furthest cp.Vector, move *cp.Vector, mask Layer) {
	st.Colliding = false
	if !st.HasHit {
		return
	}

	checkPos := cp.Vector{X: furthest.X, Y: pos.Y}
	size := cp.Vector{X: b.size.X + 2*contactEpsilon, Y: boundsSize(b.bounds).Y}
	dir := common.Sign(furthest.X - pos.X)
	if dir != st.Probe.Direction.X {
		return
	}
	if !geo.OverlapBox(checkPos, size, mask) {
		return
	}

	move.X += b.horizontalReposition(st) - furthest.X
	st.Colliding = true
}
