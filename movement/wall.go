package movement

import (
	"github.com/milk9111/kinematic/common"
	"github.com/milk9111/kinematic/events"
)

type wallLayer struct{}

func (wallLayer) Name() string { return "wall" }
func (wallLayer) Update(m *Machine, s *step) {
	c := s.c
	t := &m.timers

	touching := !c.Grounded && (c.WallLeft || c.WallRight)
	// A grab starts on contact and then holds while the probe stays in reach.
	// Grabbing zeroes the horizontal motion that confirms contact.
	holding := s.in.GrabHeld && !c.Grounded && (touching || m.grabbing) &&
		c.Wall.Hit && c.Wall.Distance <= m.cfg.WallGrabDistance && t.WallGrab > 0

	m.onWall = touching || holding
	switch {
	case m.onWall:
		switch {
		case c.WallRight:
			m.wallDir = 1
		case c.WallLeft:
			m.wallDir = -1
		default:
			m.wallDir = c.Wall.Dir
		}
		t.WallStick = m.cfg.WallStickTime
		if m.wallJumpLock && m.contactBroken {
			m.wallJumpLock = false
			m.contactBroken = false
		}
	case m.wallJumpLock:
		m.contactBroken = true
	}
	if m.vs > 0 {
		t.WallStick = 0
	}

	m.grabbing = holding
	if m.grabbing {
		m.grab(s)
	} else {
		m.wallJump(s)
	}

	if !m.grabbing && !s.impulse && (m.onWall || t.WallStick > 0) && m.vs < -m.cfg.WallSlideSpeed {
		m.vs = -m.cfg.WallSlideSpeed
	}
}

func (m *Machine) wallJump(s *step) {
	t := &m.timers
	if s.in.GrabHeld || m.vs >= 0 || m.wallJumpLock || !m.canWallJump || t.JumpBuffer <= 0 {
		return
	}
	if !m.onWall && t.WallStick <= 0 {
		return
	}
	away := -m.wallDir
	m.hs = away * m.cfg.WallJumpSpeed.X
	m.vs = m.cfg.WallJumpSpeed.Y
	m.wallJumpLock = true
	m.contactBroken = false
	m.canWallJump = false
	t.JumpBuffer = 0
	t.WallStick = 0
	s.impulse = true
	m.emit(events.JumpStarted, s.pos)
}

func (m *Machine) grab(s *step) {
	c := s.c
	t := &m.timers
	m.wallDir = c.Wall.Dir
	m.hs = 0
	t.WallGrab = common.Tick(t.WallGrab, s.dt)

	if s.in.JumpPressed {
		t.JumpBuffer = 0
		m.canWallJump = false
		s.impulse = true
		m.emit(events.JumpStarted, s.pos)

		away := -m.wallDir
		if common.Sign(s.in.Horizontal) == away {
			// jump off the wall in the input direction and let go
			m.hs = away * m.cfg.WallGrabJumpOff.X
			m.vs = m.cfg.WallGrabJumpOff.Y
			m.grabbing = false
			m.wallJumpLock = true
			m.contactBroken = false
			t.WallStick = 0
			t.WallGrabJump = 0
			return
		}
		t.WallGrabJump = m.cfg.WallGrabJumpTime
	}

	switch {
	case t.WallGrabJump > 0:
		m.vs = m.cfg.WallGrabJumpSpeed
	case c.Wall.HitCount == 1 && c.Wall.FirstRayHit:
		// only the bottom ray still touches: pull up over the ledge
		m.hs = m.wallDir * m.cfg.LedgeClimbImpulse.X
		m.vs = m.cfg.LedgeClimbImpulse.Y
	default:
		m.vs = m.cfg.WallClimbSpeed * s.in.Vertical
	}
}
