package movement

import (
	"github.com/milk9111/kinematic/common"
	"github.com/milk9111/kinematic/events"
)

// layer is one concurrent movement behavior. Layers run every Step in
// precedence order and read and write the machine directly.
type layer interface {
	Name() string
	Update(m *Machine, s *step)
}

// Layer singletons (stateless; the machine owns all state).
var (
	layerDash    layer = &dashLayer{}
	layerWalk    layer = &walkLayer{}
	layerGravity layer = &gravityLayer{}
	layerJump    layer = &jumpLayer{}
	layerWall    layer = &wallLayer{}

	layers = []layer{layerDash, layerWalk, layerGravity, layerJump, layerWall}
)

type walkLayer struct{}

type gravityLayer struct{}

type jumpLayer struct{}

func (walkLayer) Name() string { return "walk" }
func (walkLayer) Update(m *Machine, s *step) {
	axis := s.in.Horizontal
	if axis != 0 {
		m.hs += axis * m.cfg.Acceleration * s.dt
		m.hs = common.Clamp(m.hs, -m.cfg.MaxMove, m.cfg.MaxMove)
		return
	}
	m.hs = common.MoveTowards(m.hs, 0, m.cfg.Deceleration*s.dt)
}

func (gravityLayer) Name() string { return "gravity" }
func (gravityLayer) Update(m *Machine, s *step) {
	if s.c.Grounded || m.timers.Coyote > 0 {
		return
	}
	g := m.derived.Gravity
	m.vs -= g * s.dt
	if m.vs < 0 {
		m.vs -= g * (m.cfg.FallMultiplier - 1) * s.dt
	}
}

func (jumpLayer) Name() string { return "jump" }
func (jumpLayer) Update(m *Machine, s *step) {
	t := &m.timers
	if t.JumpBuffer > 0 && (s.c.Grounded || t.Coyote > 0) {
		m.vs = m.derived.MaxJumpSpeed
		t.JumpBuffer = 0
		t.Coyote = 0
		m.jumping = true
		m.canWallJump = false
		m.emit(events.JumpStarted, s.pos)
	}

	// variable height: letting go early cuts the rise
	if m.jumping && !s.in.JumpHeld && m.vs > m.derived.MinJumpSpeed {
		m.vs = m.derived.MinJumpSpeed
	}
	if m.vs <= 0 {
		m.jumping = false
	}
	if s.c.Grounded && m.vs <= 0 {
		t.JumpBuffer = 0
	}
}
