package collision

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const eps = 1e-9

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{"defaults", func(*Config) {}, nil},
		{"one ray", func(c *Config) { c.RayCount = 1 }, ErrRayCount},
		{"zero skin", func(c *Config) { c.SkinWidth = 0 }, ErrSkinWidth},
		{"skin eats collider", func(c *Config) { c.SkinWidth = 0.5 }, ErrColliderSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestNewRejectsNilGeometry(t *testing.T) {
	_, err := New(DefaultConfig(), nil)
	require.ErrorIs(t, err, ErrNilGeometry)
}

func TestTrackerShrinksBySkin(t *testing.T) {
	tr, err := NewTracker(cp.Vector{X: 1, Y: 2}, 0.1)
	require.NoError(t, err)
	bb := tr.Update(cp.Vector{X: 3, Y: 4})
	assert.InDelta(t, 2.6, bb.L, eps)
	assert.InDelta(t, 3.4, bb.R, eps)
	assert.InDelta(t, 3.1, bb.B, eps)
	assert.InDelta(t, 4.9, bb.T, eps)
}

func TestBuildProbes(t *testing.T) {
	cfg := DefaultConfig()
	tr, err := NewTracker(cfg.Size, cfg.SkinWidth)
	require.NoError(t, err)
	probes := BuildProbes(tr.Update(cp.Vector{}), cfg)

	cases := []struct {
		side   Side
		first  cp.Vector
		last   cp.Vector
		dir    cp.Vector
		length float64
	}{
		{SideDown, cp.Vector{X: -0.35, Y: -0.35}, cp.Vector{X: 0.35, Y: -0.35}, vecDown, cfg.VerticalMinRayLength},
		{SidePlatformDown, cp.Vector{X: -0.35, Y: -0.35}, cp.Vector{X: 0.35, Y: -0.35}, vecDown, cfg.VerticalMinRayLength},
		{SideUp, cp.Vector{X: -0.35, Y: 0.35}, cp.Vector{X: 0.35, Y: 0.35}, vecUp, cfg.VerticalMinRayLength},
		{SideLeft, cp.Vector{X: -0.35, Y: -0.35}, cp.Vector{X: -0.35, Y: 0.35}, vecLeft, cfg.HorizontalMinRayLength},
		{SideRight, cp.Vector{X: 0.35, Y: -0.35}, cp.Vector{X: 0.35, Y: 0.35}, vecRight, cfg.HorizontalMinRayLength},
	}
	for _, tc := range cases {
		t.Run(tc.side.String(), func(t *testing.T) {
			p := probes[tc.side]
			first, last := p.Origin(0), p.Origin(cfg.RayCount-1)
			assert.InDelta(t, tc.first.X, first.X, eps)
			assert.InDelta(t, tc.first.Y, first.Y, eps)
			assert.InDelta(t, tc.last.X, last.X, eps)
			assert.InDelta(t, tc.last.Y, last.Y, eps)
			assert.Equal(t, tc.dir, p.Direction)
			assert.InDelta(t, 0.35, p.Spacing, eps)
			assert.Equal(t, tc.length, p.Length)
		})
	}
}

func probedState(t *testing.T, center cp.Vector, side Side) SideState {
	t.Helper()
	cfg := DefaultConfig()
	tr, err := NewTracker(cfg.Size, cfg.SkinWidth)
	require.NoError(t, err)
	return SideState{Probe: BuildProbes(tr.Update(center), cfg)[side]}
}

func TestDetectLengthGrowsWithMovement(t *testing.T) {
	w := &boxWorld{}
	// ray origins sit at y=-0.35, ground top is 0.5 below them
	w.add(-5, -5, 5, -0.85, LayerSolid)

	cases := []struct {
		name string
		raw  cp.Vector
		hit  bool
	}{
		{"still", cp.Vector{}, false},
		{"sideways only", cp.Vector{X: 10}, false},
		{"falling fast", cp.Vector{Y: -10}, true},
		{"rising fast", cp.Vector{Y: 10}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := probedState(t, cp.Vector{}, SideDown)
			Detect(w, &st, tc.raw, false, LayerSolid, 3, 0.05)
			assert.Equal(t, tc.hit, st.HasHit)
			if tc.hit {
				assert.Equal(t, 3, st.HitRayCount)
				assert.InDelta(t, 0.5, st.HitDistance, eps)
			}
		})
	}
}

func TestDetectRefineKeepsClosestHit(t *testing.T) {
	w := &boxWorld{}
	w.add(-0.5, -5, -0.2, -0.6, LayerSolid) // under ray 0, 0.25 away
	w.add(-0.1, -5, 0.1, -0.45, LayerSolid) // under ray 1, 0.1 away
	w.add(0.2, -5, 0.5, -0.55, LayerSolid)  // under ray 2, 0.2 away

	plain := probedState(t, cp.Vector{}, SideDown)
	Detect(w, &plain, cp.Vector{}, false, LayerSolid, 3, 0.05)
	assert.Equal(t, 3, plain.HitRayCount)
	assert.True(t, plain.FirstRayHit)
	assert.True(t, plain.LastRayHit)
	assert.InDelta(t, 0.2, plain.HitDistance, eps)

	refined := probedState(t, cp.Vector{}, SideDown)
	Detect(w, &refined, cp.Vector{}, true, LayerSolid, 3, 0.05)
	assert.Equal(t, 2, refined.HitRayCount)
	assert.True(t, refined.FirstRayHit)
	assert.False(t, refined.LastRayHit)
	assert.InDelta(t, 0.1, refined.HitDistance, eps)
	assert.InDelta(t, -0.45, refined.HitPoint.Y, eps)
}

func TestDetectLedgeHitsOnlyBottomRay(t *testing.T) {
	w := &boxWorld{}
	w.add(0.6, -10, 2, -0.2, LayerSolid)

	st := probedState(t, cp.Vector{}, SideRight)
	Detect(w, &st, cp.Vector{}, false, LayerSolid, 3, 0.05)
	assert.True(t, st.HasHit)
	assert.Equal(t, 1, st.HitRayCount)
	assert.True(t, st.FirstRayHit)
	assert.False(t, st.LastRayHit)
	assert.InDelta(t, 0.25, st.HitDistance, eps)
}

func TestDetectIgnoresMaskedLayers(t *testing.T) {
	w := &boxWorld{}
	w.add(-5, -5, 5, -0.5, LayerPlatform)

	st := probedState(t, cp.Vector{}, SideDown)
	Detect(w, &st, cp.Vector{}, true, LayerSolid, 3, 0.05)
	assert.False(t, st.HasHit)

	Detect(w, &st, cp.Vector{}, true, LayerPlatform, 3, 0.05)
	assert.True(t, st.HasHit)
}

func newCollider(t *testing.T, w *boxWorld) *Collider {
	t.Helper()
	c, err := New(DefaultConfig(), w)
	require.NoError(t, err)
	return c
}

// step runs one collision pass for raw movement over dt and returns the
// corrected destination.
func step(c *Collider, pos, raw cp.Vector, dt float64) cp.Vector {
	move := raw.Mult(dt)
	furthest := pos.Add(move)
	c.HandleCollisions(pos, furthest, &move, raw)
	return pos.Add(move)
}

func TestLandingSnapsToGround(t *testing.T) {
	w := &boxWorld{}
	w.add(-10, -1, 10, 0, LayerSolid)
	c := newCollider(t, w)

	next := step(c, cp.Vector{X: 0, Y: 1}, cp.Vector{Y: -10}, 0.06)
	assert.True(t, c.Grounded())
	assert.True(t, c.VerticallyColliding())
	assert.InDelta(t, 0.5, next.Y, 1e-6)

	rest := step(c, next, cp.Vector{}, 1.0/60)
	assert.True(t, c.Grounded(), "resting contact stays confirmed")
	assert.InDelta(t, 0.5, rest.Y, 1e-6)
}

func TestNearGroundIsNotGrounded(t *testing.T) {
	w := &boxWorld{}
	w.add(-10, -1, 10, 0, LayerSolid)
	c := newCollider(t, w)

	// bottom hovers 0.1 above the ground, inside the ray but outside the box
	next := step(c, cp.Vector{Y: 0.6}, cp.Vector{}, 1.0/60)
	assert.True(t, c.State(SideDown).HasHit)
	assert.False(t, c.Grounded())
	assert.InDelta(t, 0.6, next.Y, eps)
}

func TestRisingNeverGrounds(t *testing.T) {
	w := &boxWorld{}
	w.add(-10, -1, 10, 0, LayerSolid)
	c := newCollider(t, w)

	step(c, cp.Vector{Y: 0.5}, cp.Vector{Y: 3}, 1.0/60)
	assert.True(t, c.State(SideDown).HasHit)
	assert.False(t, c.Grounded())
}

func TestWallStopsHorizontalMove(t *testing.T) {
	w := &boxWorld{}
	w.add(2, -5, 3, 5, LayerSolid)

	cases := []struct {
		name      string
		raw       cp.Vector
		colliding bool
		wantX     float64
	}{
		{"into wall", cp.Vector{X: 4}, true, 1.5},
		{"away from wall", cp.Vector{X: -4}, false, 1.4 - 4*0.05},
		{"still", cp.Vector{}, false, 1.4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newCollider(t, w)
			next := step(c, cp.Vector{X: 1.4}, tc.raw, 0.05)
			assert.Equal(t, tc.colliding, c.State(SideRight).Colliding)
			assert.Equal(t, tc.colliding, c.HorizontallyColliding())
			assert.InDelta(t, tc.wantX, next.X, 1e-6)
		})
	}
}

func TestCeilingStopsJump(t *testing.T) {
	w := &boxWorld{}
	w.add(-5, 1, 5, 2, LayerSolid)
	c := newCollider(t, w)

	next := step(c, cp.Vector{Y: 0.4}, cp.Vector{Y: 5}, 0.05)
	assert.True(t, c.State(SideUp).Colliding)
	assert.False(t, c.Grounded())
	assert.InDelta(t, 0.5, next.Y, 1e-6)
}

func TestPlatformDownDoesNotGround(t *testing.T) {
	w := &boxWorld{}
	w.add(-5, -1, 5, 0, LayerPlatform)
	c := newCollider(t, w)

	next := step(c, cp.Vector{Y: 0.5}, cp.Vector{}, 1.0/60)
	assert.False(t, c.Grounded())
	assert.True(t, c.State(SidePlatformDown).Colliding)
	assert.InDelta(t, 0.5, next.Y, eps, "platform contact never moves the actor")
	assert.InDelta(t, 0.5, c.VerticalReposition(SidePlatformDown), 1e-6)
}

func TestClosestHorizontal(t *testing.T) {
	hit := func(d float64) *SideState { return &SideState{HasHit: true, HitDistance: d} }
	miss := &SideState{}

	cases := []struct {
		name        string
		left, right *SideState
		want        string
	}{
		{"neither", miss, miss, ""},
		{"left only", hit(0.2), miss, "left"},
		{"right only", miss, hit(0.2), "right"},
		{"left closer", hit(0.1), hit(0.2), "left"},
		{"right closer", hit(0.3), hit(0.2), "right"},
		{"tie", hit(0.2), hit(0.2), "right"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, ok := ClosestHorizontal(tc.left, tc.right)
			switch tc.want {
			case "":
				assert.False(t, ok)
			case "left":
				require.True(t, ok)
				assert.Same(t, tc.left, st)
			case "right":
				require.True(t, ok)
				assert.Same(t, tc.right, st)
			}
		})
	}
}

func TestColliderClosestHorizontal(t *testing.T) {
	w := &boxWorld{}
	w.add(-0.6, -5, -0.4, 5, LayerSolid) // 0.05 past the left ray origins
	w.add(0.6, -5, 0.8, 5, LayerSolid)   // 0.25 past the right ray origins
	c := newCollider(t, w)
	c.HandleCollisions(cp.Vector{}, cp.Vector{}, &cp.Vector{}, cp.Vector{})

	side, st, ok := c.ClosestHorizontal()
	require.True(t, ok)
	assert.Equal(t, SideLeft, side)
	assert.InDelta(t, 0.05, st.HitDistance, 1e-6)
}

func TestDashTravel(t *testing.T) {
	w := &boxWorld{}
	w.add(3, -5, 4, 5, LayerSolid)
	c := newCollider(t, w)

	cases := []struct {
		name     string
		dir      cp.Vector
		distance float64
		want     float64
	}{
		{"blocked", vecRight, 5, 2.75},
		{"short of wall", vecRight, 1, 1},
		{"open side", vecLeft, 5, 5},
		{"zero", vecRight, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, c.DashTravel(cp.Vector{}, tc.dir, tc.distance), 1e-6)
		})
	}
}

func TestOverlapQueries(t *testing.T) {
	w := &boxWorld{}
	spike := w.add(0.2, -0.2, 0.6, 0.2, LayerInteractable)
	platform := w.add(-1, -1.5, 1, -1, LayerPlatform)
	c := newCollider(t, w)

	got, ok := c.OverlapInteractable(cp.Vector{})
	require.True(t, ok)
	assert.Equal(t, spike, got)

	_, ok = c.OverlapInteractable(cp.Vector{X: -2})
	assert.False(t, ok)

	got, ok = c.OverlapPlatform(cp.Vector{Y: -0.5})
	require.True(t, ok)
	assert.Equal(t, platform, got)
}

func TestParseLayer(t *testing.T) {
	cases := []struct {
		in   string
		want Layer
	}{
		{"solid", LayerSolid},
		{"Solid | Platform", LayerSolid | LayerPlatform},
		{"none", LayerNone},
		{"all", LayerAll},
		{"4", LayerInteractable},
		{"0x3", LayerSolid | LayerPlatform},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLayer(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseLayer("water")
	assert.Error(t, err)
}

func TestLayerString(t *testing.T) {
	assert.Equal(t, "solid|platform", (LayerSolid | LayerPlatform).String())
	assert.Equal(t, "none", LayerNone.String())
	assert.Equal(t, "all", LayerAll.String())
	assert.Equal(t, "interactable|0x8", (LayerInteractable | 8).String())
}

func TestConfigYAMLLayers(t *testing.T) {
	var cfg Config
	src := "collision_mask: [solid, platform]\nplatform_mask: platform\ninteractable_mask: 4\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &cfg))
	assert.Equal(t, LayerSolid|LayerPlatform, cfg.CollisionMask)
	assert.Equal(t, LayerPlatform, cfg.PlatformMask)
	assert.Equal(t, LayerInteractable, cfg.InteractableMask)

	assert.Error(t, yaml.Unmarshal([]byte("collision_mask: lava\n"), &cfg))
}
