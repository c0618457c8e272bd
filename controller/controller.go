package controller

import (
	"io"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/collision"
	"github.com/milk9111/kinematic/ecs"
	"github.com/milk9111/kinematic/events"
	"github.com/milk9111/kinematic/input"
	"github.com/milk9111/kinematic/movement"
	"github.com/sirupsen/logrus"
)

// Platform is a moving object an actor can ride.
type Platform interface {
	Velocity() cp.Vector
}

// PlatformProvider resolves a contacted object to a platform.
type PlatformProvider interface {
	Platform(id ecs.Entity) (Platform, bool)
}

type Option func(*Controller)

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

func WithPlatforms(p PlatformProvider) Option {
	return func(c *Controller) { c.platforms = p }
}

// WithInput sets the source Tick polls once per frame.
func WithInput(src input.Source) Option {
	return func(c *Controller) { c.src = src }
}

// platformRef is the cached association from a contacted platform to its
// last sampled velocity.
type platformRef struct {
	platform Platform
	velocity cp.Vector
}

// Controller drives one kinematic actor through the per-frame pipeline.
type Controller struct {
	cfg      Config
	geo      collision.Geometry
	collider *collision.Collider
	machine  *movement.Machine

	queue events.Queue
	bus   *events.Bus
	log   logrus.FieldLogger

	platforms PlatformProvider
	src       input.Source

	pos, lastPos cp.Vector
	furthest     cp.Vector
	raw          cp.Vector
	velocity     cp.Vector
	external     cp.Vector

	platformCache ecs.SparseSet[platformRef]
	platform      ecs.Entity
	interactable  ecs.Entity
	snapped       bool
	wasGrounded   bool

	frame       uint64
	initialized bool
}

// sweeper routes dash sweeps to the current collider, which Reconfigure may
// replace.
type sweeper struct{ c *Controller }

func (s sweeper) DashTravel(pos, dir cp.Vector, distance float64) float64 {
	travel := s.c.collider.DashTravel(pos, dir, distance)
	if travel < distance {
		s.c.log.WithFields(logrus.Fields{"frame": s.c.frame, "travel": travel}).Debug("controller: dash clamped")
	}
	return travel
}

func New(cfg Config, geo collision.Geometry, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	collider, err := collision.New(cfg.Collision, geo)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:      cfg,
		geo:      geo,
		collider: collider,
		bus:      events.NewBus(),
		log:      discardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.machine, err = movement.New(cfg.Movement, sweeper{c}, &c.queue)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Initialize places the actor at spawn and clears all per-run state.
func (c *Controller) Initialize(spawn cp.Vector) error {
	collider, err := collision.New(c.cfg.Collision, c.geo)
	if err != nil {
		return err
	}
	c.collider = collider
	c.pos, c.lastPos, c.furthest = spawn, spawn, spawn
	c.raw, c.velocity, c.external = cp.Vector{}, cp.Vector{}, cp.Vector{}
	c.platformCache.Clear()
	c.platform, c.interactable = 0, 0
	c.wasGrounded, c.snapped = false, false
	c.frame = 0
	c.queue.Drain()
	c.machine.Reset()
	c.collider.Refresh(spawn)
	c.initialized = true

	c.log.WithFields(logrus.Fields{"x": spawn.X, "y": spawn.Y}).Info("controller: initialized")
	return nil
}

// Shutdown stops the controller. Tick is a no-op until Initialize runs again.
// Subscriptions on Events stay owned by their subscribers.
func (c *Controller) Shutdown() {
	if !c.initialized {
		return
	}
	c.initialized = false
	c.platformCache.Clear()
	c.platform, c.interactable = 0, 0
	c.queue.Drain()
	c.log.WithField("frame", c.frame).Info("controller: shutdown")
}

// Reconfigure validates cfg and swaps it in between frames.
func (c *Controller) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		c.log.WithError(err).Warn("controller: reconfigure rejected")
		return err
	}
	collider, err := collision.New(cfg.Collision, c.geo)
	if err != nil {
		c.log.WithError(err).Warn("controller: reconfigure rejected")
		return err
	}
	if err := c.machine.Reconfigure(cfg.Movement); err != nil {
		c.log.WithError(err).Warn("controller: reconfigure rejected")
		return err
	}
	collider.Refresh(c.pos)
	c.collider = collider
	c.cfg = cfg
	c.log.Info("controller: reconfigured")
	return nil
}

func (c *Controller) Config() Config {
	return c.cfg
}

// Events returns the bus that events are dispatched on at the end of a tick.
func (c *Controller) Events() *events.Bus {
	return c.bus
}

func (c *Controller) Initialized() bool {
	return c.initialized
}

func (c *Controller) Position() cp.Vector {
	return c.pos
}

// RawVelocity is the total velocity the last frame moved with, platform
// velocity included.
func (c *Controller) RawVelocity() cp.Vector {
	return c.raw
}

// Velocity is the measured position delta per second of the last frame.
func (c *Controller) Velocity() cp.Vector {
	return c.velocity
}

func (c *Controller) FurthestPoint() cp.Vector {
	return c.furthest
}

func (c *Controller) ExternalVelocity() cp.Vector {
	return c.external
}

// Grounded reports a confirmed ground contact or a platform snap on the last
// frame.
func (c *Controller) Grounded() bool {
	return c.collider.Grounded() || c.snapped
}

// OnWall reports an airborne actor touching or grabbing a wall.
func (c *Controller) OnWall() bool {
	return !c.Grounded() && (c.collider.HorizontallyColliding() || c.machine.Grabbing())
}

func (c *Controller) Side(s collision.Side) collision.SideState {
	return c.collider.State(s)
}

func (c *Controller) Bounds() cp.BB {
	return c.collider.Bounds()
}

// Machine exposes the movement state for read-only debugging.
func (c *Controller) Machine() *movement.Machine {
	return c.machine
}

func (c *Controller) Frame() uint64 {
	return c.frame
}

// Platform reports the platform currently ridden.
func (c *Controller) Platform() (ecs.Entity, bool) {
	return c.platform, c.platform.Valid()
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
