package level

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/ecs"
)

// arriveDistance is how close a platform gets to its waypoint before it turns
// around.
const arriveDistance = 0.1

// MovingPlatform ping-pongs between two waypoints at a constant speed,
// starting at A heading to B.
type MovingPlatform struct {
	id       ecs.Entity
	a, b     cp.Vector
	target   cp.Vector
	pos      cp.Vector
	size     cp.Vector
	speed    float64
	velocity cp.Vector
}

func NewMovingPlatform(id ecs.Entity, a, b, size cp.Vector, speed float64) *MovingPlatform {
	p := &MovingPlatform{id: id, a: a, b: b, target: b, pos: a, size: size, speed: speed}
	p.aim()
	return p
}

func (p *MovingPlatform) aim() {
	to := p.target.Sub(p.pos)
	if p.speed <= 0 || to.Length() == 0 {
		p.velocity = cp.Vector{}
		return
	}
	p.velocity = to.Normalize().Mult(p.speed)
}

// Update advances the platform by dt and returns its new center. It never
// steps past its waypoint.
func (p *MovingPlatform) Update(dt float64) cp.Vector {
	if p.a == p.b || p.speed <= 0 || dt <= 0 {
		p.velocity = cp.Vector{}
		return p.pos
	}
	if p.pos.Distance(p.target) <= arriveDistance {
		if p.target == p.b {
			p.target = p.a
		} else {
			p.target = p.b
		}
	}
	p.aim()

	step := p.speed * dt
	if dist := p.pos.Distance(p.target); step >= dist {
		// velocity covers only the distance actually moved this frame
		p.velocity = p.target.Sub(p.pos).Mult(1 / dt)
		p.pos = p.target
		return p.pos
	}
	p.pos = p.pos.Add(p.velocity.Mult(dt))
	return p.pos
}

// Velocity is the raw velocity of the current leg.
func (p *MovingPlatform) Velocity() cp.Vector {
	return p.velocity
}

func (p *MovingPlatform) ID() ecs.Entity {
	return p.id
}

func (p *MovingPlatform) Position() cp.Vector {
	return p.pos
}

func (p *MovingPlatform) Size() cp.Vector {
	return p.size
}

// Target is the waypoint the platform is heading to.
func (p *MovingPlatform) Target() cp.Vector {
	return p.target
}
