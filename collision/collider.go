package collision

import (
	"errors"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/ecs"
)

var ErrNilGeometry = errors.New("collision: geometry backend is nil")

// Collider owns the five side states of one actor and runs detection and
// resolution against a Geometry backend.
type Collider struct {
	cfg     Config
	geo     Geometry
	tracker *Tracker
	bounds  cp.BB
	sides   [SideCount]SideState
}

func New(cfg Config, geo Geometry) (*Collider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if geo == nil {
		return nil, ErrNilGeometry
	}
	tracker, err := NewTracker(cfg.Size, cfg.SkinWidth)
	if err != nil {
		return nil, err
	}
	return &Collider{cfg: cfg, geo: geo, tracker: tracker}, nil
}

// Refresh recomputes bounds and probe origins for an actor centered at center.
func (c *Collider) Refresh(center cp.Vector) {
	c.bounds = c.tracker.Update(center)
	probes := BuildProbes(c.bounds, c.cfg)
	for i := range c.sides {
		c.sides[i].Probe = probes[i]
	}
}

func (c *Collider) body() body {
	return body{bounds: c.bounds, size: c.tracker.Size(), skin: c.cfg.SkinWidth}
}

// HandleCollisions probes all five sides for raw movement from pos toward
// furthest and corrects move in place. Every side's Colliding flag is
// rewritten.
func (c *Collider) HandleCollisions(pos, furthest cp.Vector, move *cp.Vector, raw cp.Vector) {
	c.Refresh(pos)
	n, mod := c.cfg.RayCount, c.cfg.RayLengthModifier

	Detect(c.geo, &c.sides[SideRight], raw, false, c.cfg.CollisionMask, n, mod)
	Detect(c.geo, &c.sides[SideLeft], raw, false, c.cfg.CollisionMask, n, mod)
	Detect(c.geo, &c.sides[SideUp], raw, false, c.cfg.CollisionMask, n, mod)
	Detect(c.geo, &c.sides[SideDown], raw, true, c.cfg.CollisionMask, n, mod)
	Detect(c.geo, &c.sides[SidePlatformDown], raw, true, c.cfg.PlatformMask, n, mod)

	b := c.body()
	resolveHorizontal(c.geo, &c.sides[SideRight], b, pos, furthest, move, c.cfg.CollisionMask)
	resolveHorizontal(c.geo, &c.sides[SideLeft], b, pos, furthest, move, c.cfg.CollisionMask)
	resolveVertical(c.geo, &c.sides[SideUp], b, pos, furthest, move, c.cfg.CollisionMask)
	resolveVertical(c.geo, &c.sides[SideDown], b, pos, furthest, move, c.cfg.CollisionMask)
	// platform contact is confirmed like ground but never pulls move; the
	// controller decides whether to snap onto it
	var scratch cp.Vector
	resolveVertical(c.geo, &c.sides[SidePlatformDown], b, pos, furthest, &scratch, c.cfg.PlatformMask)
}

// State returns a copy of a side's state.
func (c *Collider) State(s Side) SideState {
	return c.sides[s]
}

func (c *Collider) Grounded() bool {
	return c.sides[SideDown].Colliding
}

func (c *Collider) VerticallyColliding() bool {
	return c.sides[SideDown].Colliding || c.sides[SideUp].Colliding
}

func (c *Collider) HorizontallyColliding() bool {
	return c.sides[SideLeft].Colliding || c.sides[SideRight].Colliding
}

// ClosestHorizontal returns the nearer horizontal side with a hit.
func (c *Collider) ClosestHorizontal() (Side, SideState, bool) {
	left, right := &c.sides[SideLeft], &c.sides[SideRight]
	st, ok := ClosestHorizontal(left, right)
	if !ok {
		return SideCount, SideState{}, false
	}
	if st == right {
		return SideRight, *st, true
	}
	return SideLeft, *st, true
}

// VerticalReposition returns the center y resting against side s's last hit.
func (c *Collider) VerticalReposition(s Side) float64 {
	return c.body().verticalReposition(&c.sides[s])
}

// DashTravel sweeps a dash-sized circle from pos along dir and returns how far
// the center may travel, at most distance.
func (c *Collider) DashTravel(pos, dir cp.Vector, distance float64) float64 {
	if distance <= 0 {
		return 0
	}
	hit := c.geo.CircleCast(pos, c.cfg.DashHitRadius, dir, distance, c.cfg.CollisionMask)
	if !hit.Hit {
		return distance
	}
	return math.Max(0, math.Min(hit.Distance, distance))
}

// OverlapPlatform reports the platform whose trigger area contains pos.
func (c *Collider) OverlapPlatform(pos cp.Vector) (ecs.Entity, bool) {
	return c.geo.OverlapCircle(pos, c.cfg.PlatformRadius, c.cfg.PlatformMask)
}

// OverlapInteractable reports an interactable touching the actor at pos.
func (c *Collider) OverlapInteractable(pos cp.Vector) (ecs.Entity, bool) {
	return c.geo.OverlapCircle(pos, c.cfg.InteractRadius, c.cfg.InteractableMask)
}

// Bounds returns the shrunk bounds computed by the last Refresh.
func (c *Collider) Bounds() cp.BB {
	return c.bounds
}

func (c *Collider) Config() Config {
	return c.cfg
}
