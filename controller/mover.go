package controller

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/collision"
	"github.com/milk9111/kinematic/events"
	"github.com/milk9111/kinematic/input"
	"github.com/milk9111/kinematic/movement"
	"github.com/sirupsen/logrus"
)

// Tick polls the configured input source and runs one frame.
func (c *Controller) Tick(dt float64) {
	var in input.State
	if c.src != nil {
		in = c.src.Poll()
	}
	c.Step(dt, in)
}

// Step runs one frame with explicit input: velocity from the previous frame's
// contacts, then move, resolve and commit. Events raised during the frame are
// dispatched once it completes.
func (c *Controller) Step(dt float64, in input.State) {
	if !c.initialized || dt <= 0 {
		return
	}
	c.frame++

	c.velocity = c.pos.Sub(c.lastPos).Mult(1 / dt)
	c.lastPos = c.pos

	c.machine.Step(dt, in, c.contacts())
	c.updatePlatform()
	c.move(dt)
	c.snapToPlatform()

	grounded := c.Grounded()
	if grounded && !c.wasGrounded {
		c.queue.Push(events.Event{Kind: events.Landed, Position: c.pos})
	}
	c.wasGrounded = grounded
	c.updateInteractable()

	c.dispatch()
}

// move is the mover: internal plus external velocity over dt, corrected by
// the collider, committed to position.
func (c *Controller) move(dt float64) {
	c.raw = c.machine.Velocity().Add(c.external)
	move := c.raw.Mult(dt)
	c.furthest = c.pos.Add(move)

	c.collider.HandleCollisions(c.pos, c.furthest, &move, c.raw)
	if c.collider.VerticallyColliding() {
		c.machine.ZeroVertical()
	}
	c.pos = c.pos.Add(move)
}

// contacts snapshots the flags resolved on the previous frame.
func (c *Controller) contacts() movement.Contacts {
	ct := movement.Contacts{
		Position:  c.pos,
		Grounded:  c.Grounded(),
		WallLeft:  c.collider.State(collision.SideLeft).Colliding,
		WallRight: c.collider.State(collision.SideRight).Colliding,
	}
	side, st, ok := c.collider.ClosestHorizontal()
	if !ok {
		return ct
	}
	dir := 1.0
	if side == collision.SideLeft {
		dir = -1
	}
	ct.Wall = movement.WallProbe{
		Hit:         true,
		Dir:         dir,
		Distance:    st.HitDistance,
		HitCount:    st.HitRayCount,
		FirstRayHit: st.FirstRayHit,
	}
	return ct
}

// ForceVerticalReposition moves the actor onto side's last hit.
func (c *Controller) ForceVerticalReposition(side collision.Side) {
	c.pos = cp.Vector{X: c.pos.X, Y: c.collider.VerticalReposition(side)}
}

func (c *Controller) updateInteractable() {
	id, ok := c.collider.OverlapInteractable(c.pos)
	if ok && id != c.interactable {
		c.queue.Push(events.Event{Kind: events.InteractableTriggered, Object: id, Position: c.pos})
	}
	if !ok {
		id = 0
	}
	c.interactable = id
}

func (c *Controller) dispatch() {
	evts := c.queue.Drain()
	for _, e := range evts {
		c.log.WithFields(logrus.Fields{
			"frame":  c.frame,
			"event":  e.Kind,
			"object": e.Object,
		}).Debug("controller: event")
	}
	c.bus.Dispatch(evts)
}
