package movement

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/common"
	"github.com/milk9111/kinematic/events"
)

type dashLayer struct{}

func (dashLayer) Name() string { return "dash" }
func (dashLayer) Update(m *Machine, s *step) {
	t := &m.timers
	if s.c.Grounded && t.Dash <= 0 {
		m.dashCharge = true
	}

	if s.in.DashPressed && m.dashCharge && t.Dash <= 0 && m.cfg.DashTime > 0 {
		m.dashCharge = false
		m.dashing = true
		m.dashTraveled = 0
		t.Dash = m.cfg.DashTime
		m.emit(events.DashStarted, s.pos)
	}

	if t.Dash > 0 {
		m.dashFrame(s)
		s.override = true
		return
	}

	if m.dashing {
		// first frame past expiry
		m.dashing = false
		scale := s.in.Vertical
		if scale == 0 {
			scale = m.cfg.NeutralAfterDashScale
		}
		m.vs = m.cfg.AfterDashSpeed * scale
		m.hs = common.Clamp(m.hs, -m.cfg.MaxMove, m.cfg.MaxMove)
		m.jumping = false
	}
}

// dashFrame spreads the remaining dash distance, clamped by the sweep, over
// the remaining dash time.
func (m *Machine) dashFrame(s *step) {
	t := &m.timers
	dir := m.dashDirection(s)

	want := math.Max(0, m.cfg.DashDistance-m.dashTraveled)
	travel := m.sweeper.DashTravel(s.pos, dir, want)
	// the last frame may be shorter than dt; never move further than travel
	remaining := math.Max(t.Dash, s.dt)
	v := dir.Mult(travel / remaining)

	m.hs, m.vs = v.X, v.Y
	m.grabbing = false
	m.dashTraveled += travel * s.dt / remaining
	t.Dash = common.Tick(t.Dash, s.dt)
}

func (m *Machine) dashDirection(s *step) cp.Vector {
	in := cp.Vector{X: s.in.Horizontal, Y: s.in.Vertical}
	if in.Length() > 0 {
		return in.Normalize()
	}
	if m.cfg.DashDefault == DashAxis {
		return m.cfg.DashAxis.Normalize()
	}
	return cp.Vector{X: m.facing, Y: 0}
}
