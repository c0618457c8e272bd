package level

import (
	"fmt"
	"io"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/controller"
	"github.com/milk9111/kinematic/ecs"
	"github.com/milk9111/kinematic/physics"
	"github.com/sirupsen/logrus"
)

// boundsRadius is the border segment radius in tiles. The border is pushed
// out by it so its inner face lies on the map edge.
const boundsRadius = 0.5

// World is a level's runtime state on a physics space: spawn point, moving
// platforms and named interactables.
type World struct {
	level         *Level
	space         *physics.Space
	spawn         cp.Vector
	bounds        cp.BB
	platforms     ecs.SparseSet[*MovingPlatform]
	interactables map[ecs.Entity]string
	log           logrus.FieldLogger
}

var _ controller.PlatformProvider = (*World)(nil)

type Option func(*World)

func WithLogger(log logrus.FieldLogger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

// Build adds the level's collidable tiles, border and entities to space.
func (l *Level) Build(space *physics.Space, opts ...Option) (*World, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	ts := l.tileSize()
	w := &World{
		level:         l,
		space:         space,
		bounds:        cp.BB{L: 0, B: 0, R: float64(l.Width) * ts, T: float64(l.Height) * ts},
		interactables: make(map[ecs.Entity]string),
		log:           discard(),
	}
	for _, opt := range opts {
		opt(w)
	}

	shapes := 0
	for i, layer := range l.Layers {
		if !l.HasPhysics(i) {
			continue
		}
		ids, err := space.AddTiles(layer, l.Width, l.Height, ts, cp.Vector{})
		if err != nil {
			return nil, fmt.Errorf("level: layer %d: %w", i, err)
		}
		shapes += len(ids)
	}
	if l.Bounds {
		r := boundsRadius * ts
		outer := cp.BB{L: w.bounds.L - r, B: w.bounds.B - r, R: w.bounds.R + r, T: w.bounds.T + r}
		shapes += len(space.AddBounds(outer, r))
	}

	for _, e := range l.Entities {
		if err := w.place(e); err != nil {
			return nil, err
		}
	}

	w.log.WithFields(logrus.Fields{
		"shapes":        shapes,
		"platforms":     w.platforms.Len(),
		"interactables": len(w.interactables),
	}).Info("level: built")
	return w, nil
}

func (w *World) place(e Entity) error {
	ts := w.level.tileSize()
	at := w.center(e.X, e.Y)

	switch e.Type {
	case EntitySpawn:
		w.spawn = at
	case EntityPlatform:
		tx, err := e.number("to_x", float64(e.X))
		if err != nil {
			return err
		}
		ty, err := e.number("to_y", float64(e.Y))
		if err != nil {
			return err
		}
		width, err := e.number("width", 3)
		if err != nil {
			return err
		}
		height, err := e.number("height", 0.5)
		if err != nil {
			return err
		}
		speed, err := e.number("speed", 2)
		if err != nil {
			return err
		}
		if width <= 0 || height <= 0 {
			return fmt.Errorf("level: platform at (%d, %d) has size %vx%v", e.X, e.Y, width, height)
		}
		size := cp.Vector{X: width * ts, Y: height * ts}
		id := w.space.AddPlatform(at, size)
		to := w.centerf(tx, ty)
		w.platforms.Set(id, NewMovingPlatform(id, at, to, size, speed*ts))
	case EntityInteractable:
		width, err := e.number("width", 1)
		if err != nil {
			return err
		}
		height, err := e.number("height", 1)
		if err != nil {
			return err
		}
		half := cp.Vector{X: width * ts / 2, Y: height * ts / 2}
		id := w.space.AddInteractable(cp.BB{L: at.X - half.X, B: at.Y - half.Y, R: at.X + half.X, T: at.Y + half.Y})
		name := e.text("name")
		if name == "" {
			name = fmt.Sprintf("interactable_%d_%d", e.X, e.Y)
		}
		w.interactables[id] = name
	}
	return nil
}

func (w *World) center(x, y int) cp.Vector {
	return w.centerf(float64(x), float64(y))
}

// centerf converts top-down tile coordinates to the world center of that tile.
func (w *World) centerf(x, y float64) cp.Vector {
	ts := w.level.tileSize()
	return cp.Vector{X: (x + 0.5) * ts, Y: (float64(w.level.Height) - y - 0.5) * ts}
}

// Update moves every platform and syncs its body in the space.
func (w *World) Update(dt float64) {
	w.platforms.Each(func(id ecs.Entity, p *MovingPlatform) {
		if err := w.space.MovePlatform(id, p.Update(dt)); err != nil {
			w.log.WithError(err).WithField("object", id).Warn("level: platform move failed")
		}
	})
}

// Platform implements controller.PlatformProvider.
func (w *World) Platform(id ecs.Entity) (controller.Platform, bool) {
	p, ok := w.platforms.Get(id)
	if !ok {
		return nil, false
	}
	return p, true
}

func (w *World) Platforms() []*MovingPlatform {
	out := make([]*MovingPlatform, 0, w.platforms.Len())
	w.platforms.Each(func(_ ecs.Entity, p *MovingPlatform) {
		out = append(out, p)
	})
	return out
}

// Interactable returns the name of an interactable object.
func (w *World) Interactable(id ecs.Entity) (string, bool) {
	name, ok := w.interactables[id]
	return name, ok
}

func (w *World) Spawn() cp.Vector {
	return w.spawn
}

func (w *World) Bounds() cp.BB {
	return w.bounds
}

func (w *World) Level() *Level {
	return w.level
}

func (w *World) Space() *physics.Space {
	return w.space
}

func discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
