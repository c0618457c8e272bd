package movement

import (
	"errors"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/common"
	"github.com/milk9111/kinematic/events"
	"github.com/milk9111/kinematic/input"
)

var ErrNilSweeper = errors.New("movement: dash sweeper is nil")

// Sweeper clamps a dash against the world. It returns how far the actor may
// travel from pos along dir, at most distance.
type Sweeper interface {
	DashTravel(pos, dir cp.Vector, distance float64) float64
}

// WallProbe summarizes the nearest horizontal probe fan.
type WallProbe struct {
	Hit         bool
	Dir         float64 // -1 wall on the left, 1 on the right
	Distance    float64
	HitCount    int
	FirstRayHit bool
}

// Contacts are the collision flags resolved on the previous frame.
type Contacts struct {
	Position  cp.Vector
	Grounded  bool
	WallLeft  bool
	WallRight bool
	Wall      WallProbe
}

// Timers are the machine's countdowns in seconds. Each is active while > 0.
type Timers struct {
	JumpBuffer   float64
	Coyote       float64
	WallStick    float64
	WallGrab     float64
	WallGrabJump float64
	Dash         float64
}

// Machine owns the actor's own velocity and movement timers.
type Machine struct {
	cfg     Config
	derived Derived
	sweeper Sweeper
	queue   *events.Queue

	hs, vs float64
	timers Timers
	facing float64

	jumping      bool
	canWallJump  bool
	wallJumpLock bool
	// contactBroken is set once the wall is left while locked
	contactBroken bool
	wallDir      float64
	onWall       bool
	grabbing     bool

	dashCharge   bool
	dashing      bool
	dashTraveled float64
}

func New(cfg Config, sweeper Sweeper, queue *events.Queue) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sweeper == nil {
		return nil, ErrNilSweeper
	}
	if queue == nil {
		queue = &events.Queue{}
	}
	return &Machine{
		cfg:        cfg,
		derived:    cfg.Derive(),
		sweeper:    sweeper,
		queue:      queue,
		facing:     1,
		dashCharge: true,
		timers:     Timers{WallGrab: cfg.WallGrabTime},
	}, nil
}

// Reconfigure swaps tuning between frames. Running timers keep their values.
func (m *Machine) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.cfg = cfg
	m.derived = cfg.Derive()
	return nil
}

func (m *Machine) Config() Config {
	return m.cfg
}

func (m *Machine) Derived() Derived {
	return m.derived
}

// step bundles what every layer reads during one Step.
type step struct {
	dt  float64
	in  input.State
	c   Contacts
	pos cp.Vector
	// override is set by the dash layer to suppress walk, gravity, jump and wall.
	override bool
	// impulse is set when a wall or grab jump fired, lifting the slide clamp.
	impulse bool
}

// Step computes this frame's velocity from input and the previous frame's
// contacts.
func (m *Machine) Step(dt float64, in input.State, c Contacts) {
	s := &step{dt: dt, in: in.Clamped(), c: c, pos: c.Position}

	m.tickTimers(s)
	if s.in.JumpPressed {
		m.timers.JumpBuffer = m.cfg.JumpBuffer
		m.canWallJump = true
	}
	if s.in.Horizontal != 0 {
		m.facing = common.Sign(s.in.Horizontal)
	}

	for _, l := range layers {
		if s.override && l != layerDash {
			continue
		}
		l.Update(m, s)
	}

	if !s.override && m.vs < -m.cfg.MaxFallSpeed {
		m.vs = -m.cfg.MaxFallSpeed
	}
}

func (m *Machine) tickTimers(s *step) {
	t := &m.timers
	t.JumpBuffer = common.Tick(t.JumpBuffer, s.dt)
	t.WallStick = common.Tick(t.WallStick, s.dt)
	t.WallGrabJump = common.Tick(t.WallGrabJump, s.dt)
	if s.c.Grounded {
		t.Coyote = m.cfg.CoyoteJump
		t.WallGrab = m.cfg.WallGrabTime
	} else {
		t.Coyote = common.Tick(t.Coyote, s.dt)
	}
}

func (m *Machine) emit(kind events.Kind, pos cp.Vector) {
	m.queue.Push(events.Event{Kind: kind, Position: pos})
}

// Velocity returns the actor's own velocity.
func (m *Machine) Velocity() cp.Vector {
	return cp.Vector{X: m.hs, Y: m.vs}
}

func (m *Machine) SetVelocity(v cp.Vector) {
	m.hs, m.vs = v.X, v.Y
}

// ZeroVertical is called by the mover after a vertical collision.
func (m *Machine) ZeroVertical() {
	m.vs = 0
}

func (m *Machine) Timers() Timers {
	return m.timers
}

func (m *Machine) Dashing() bool {
	return m.dashing
}

func (m *Machine) DashCharged() bool {
	return m.dashCharge
}

func (m *Machine) Grabbing() bool {
	return m.grabbing
}

func (m *Machine) OnWall() bool {
	return m.onWall
}

// Facing returns -1 or 1.
func (m *Machine) Facing() float64 {
	return m.facing
}

// Reset clears velocity and timers, as on respawn.
func (m *Machine) Reset() {
	cfg, derived, sweeper, queue := m.cfg, m.derived, m.sweeper, m.queue
	*m = Machine{
		cfg:        cfg,
		derived:    derived,
		sweeper:    sweeper,
		queue:      queue,
		facing:     1,
		dashCharge: true,
		timers:     Timers{WallGrab: cfg.WallGrabTime},
	}
}
