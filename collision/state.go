package collision

import "github.com/jakecoffman/cp"

// SideState records one fan's hit statistics for the current frame.
// Colliding is written only by the resolver.
type SideState struct {
	HasHit      bool
	FirstRayHit bool
	LastRayHit  bool
	HitRayCount int
	HitPoint    cp.Vector
	HitDistance float64
	Colliding   bool
	Probe       Probe
}

func (s *SideState) resetHits() {
	s.HasHit = false
	s.FirstRayHit = false
	s.LastRayHit = false
	s.HitRayCount = 0
	s.HitPoint = cp.Vector{}
	s.HitDistance = 0
}

// ClosestHorizontal picks the nearer of two horizontal sides that report a hit.
// Ties go to right. It returns false when neither side hit.
func ClosestHorizontal(left, right *SideState) (*SideState, bool) {
	switch {
	case !left.HasHit && !right.HasHit:
		return nil, false
	case right.HasHit && !left.HasHit:
		return right, true
	case left.HasHit && !right.HasHit:
		return left, true
	}
	if right.HitDistance <= left.HitDistance {
		return right, true
	}
	return left, true
}
