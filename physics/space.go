package physics

import (
	"errors"
	"io"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/collision"
	"github.com/milk9111/kinematic/ecs"
	"github.com/sirupsen/logrus"
)

var (
	ErrUnknownObject = errors.New("physics: unknown object")
	ErrNotPlatform   = errors.New("physics: object is not a platform")
)

type object struct {
	shape *cp.Shape
	body  *cp.Body
	layer collision.Layer
}

// Space is the Chipmunk-backed world the collision engine queries. Objects
// never simulate; the space only answers queries.
type Space struct {
	space    *cp.Space
	registry *ecs.Registry
	objects  ecs.SparseSet[object]

	shapeToEntity map[*cp.Shape]ecs.Entity
	log           logrus.FieldLogger
}

type Option func(*Space)

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Space) {
		if log != nil {
			s.log = log
		}
	}
}

func NewSpace(opts ...Option) *Space {
	space := cp.NewSpace()
	space.Iterations = 20

	s := &Space{
		space:         space,
		registry:      ecs.NewRegistry(),
		shapeToEntity: make(map[*cp.Shape]ecs.Entity),
		log:           discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CP exposes the underlying Chipmunk space, for debug drawing.
func (s *Space) CP() *cp.Space {
	return s.space
}

func (s *Space) Len() int {
	return s.objects.Len()
}

// worldGroup holds every registered shape, so reindex steps never pair a
// platform with the tiles it passes through. Queries use no group.
const worldGroup uint = 1

func (s *Space) register(shape *cp.Shape, body *cp.Body, layer collision.Layer) ecs.Entity {
	shape.SetFilter(cp.NewShapeFilter(worldGroup, uint(layer), cp.ALL_CATEGORIES))
	if body != nil {
		s.space.AddBody(body)
	}
	s.space.AddShape(shape)

	e := s.registry.Create()
	s.objects.Set(e, object{shape: shape, body: body, layer: layer})
	s.shapeToEntity[shape] = e
	return e
}

// AddSolid adds a static box that blocks movement.
func (s *Space) AddSolid(bb cp.BB) ecs.Entity {
	return s.addStatic(bb, collision.LayerSolid)
}

// AddInteractable adds a static box on the interactables layer. It does not
// block movement.
func (s *Space) AddInteractable(bb cp.BB) ecs.Entity {
	return s.addStatic(bb, collision.LayerInteractable)
}

func (s *Space) addStatic(bb cp.BB, layer collision.Layer) ecs.Entity {
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	return s.register(shape, nil, layer)
}

// AddPolygon adds a static convex polygon on the given layers.
func (s *Space) AddPolygon(verts []cp.Vector, layer collision.Layer) ecs.Entity {
	shape := cp.NewPolyShapeRaw(s.space.StaticBody, len(verts), verts, 0)
	return s.register(shape, nil, layer)
}

// AddBounds walls the rectangle bb in with solid segments.
func (s *Space) AddBounds(bb cp.BB, thickness float64) []ecs.Entity {
	segments := []struct{ a, b cp.Vector }{
		{cp.Vector{X: bb.L, Y: bb.B}, cp.Vector{X: bb.R, Y: bb.B}}, // bottom
		{cp.Vector{X: bb.L, Y: bb.T}, cp.Vector{X: bb.R, Y: bb.T}}, // top
		{cp.Vector{X: bb.L, Y: bb.B}, cp.Vector{X: bb.L, Y: bb.T}}, // left
		{cp.Vector{X: bb.R, Y: bb.B}, cp.Vector{X: bb.R, Y: bb.T}}, // right
	}
	ids := make([]ecs.Entity, 0, len(segments))
	for _, seg := range segments {
		shape := cp.NewSegment(s.space.StaticBody, seg.a, seg.b, thickness)
		shape.SetFriction(0.8)
		ids = append(ids, s.register(shape, nil, collision.LayerSolid))
	}
	return ids
}

// AddPlatform adds a kinematic box that blocks like ground and is also seen
// by platform queries.
func (s *Space) AddPlatform(center, size cp.Vector) ecs.Entity {
	body := cp.NewKinematicBody()
	body.SetPosition(center)
	shape := cp.NewBox(body, size.X, size.Y, 0)
	shape.SetFriction(0.8)
	e := s.register(shape, body, collision.LayerSolid|collision.LayerPlatform)
	s.log.WithField("object", e).Debug("physics: platform added")
	return e
}

// reindexStep is the step used to push moved kinematic shapes through the
// space's dynamic index. Nothing in the space integrates velocity.
const reindexStep = 1e-9

// MovePlatform teleports a platform body and reindexes its shape so the next
// query sees the new position.
func (s *Space) MovePlatform(id ecs.Entity, center cp.Vector) error {
	obj, ok := s.objects.Get(id)
	if !ok {
		return ErrUnknownObject
	}
	if obj.body == nil || obj.layer&collision.LayerPlatform == 0 {
		return ErrNotPlatform
	}
	obj.body.SetPosition(center)
	obj.shape.CacheBB()
	s.space.Step(reindexStep)
	return nil
}

// Position returns the center of a platform or the bounding box center of a
// static object.
func (s *Space) Position(id ecs.Entity) (cp.Vector, bool) {
	obj, ok := s.objects.Get(id)
	if !ok {
		return cp.Vector{}, false
	}
	if obj.body != nil {
		return obj.body.Position(), true
	}
	return obj.shape.BB().Center(), true
}

func (s *Space) Layer(id ecs.Entity) (collision.Layer, bool) {
	obj, ok := s.objects.Get(id)
	return obj.layer, ok
}

// Remove deletes an object. Its handle is never valid again.
func (s *Space) Remove(id ecs.Entity) bool {
	obj, ok := s.objects.Get(id)
	if !ok {
		return false
	}
	s.space.RemoveShape(obj.shape)
	if obj.body != nil {
		s.space.RemoveBody(obj.body)
	}
	delete(s.shapeToEntity, obj.shape)
	s.objects.Remove(id)
	s.registry.Destroy(id)
	return true
}

func queryFilter(mask collision.Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
}

func (s *Space) segment(origin, dir cp.Vector, length, radius float64, mask collision.Layer) collision.Hit {
	if length <= 0 || mask == collision.LayerNone {
		return collision.Hit{}
	}
	end := origin.Add(dir.Mult(length))
	info := s.space.SegmentQueryFirst(origin, end, radius, queryFilter(mask))
	if info.Shape == nil {
		return collision.Hit{}
	}
	return collision.Hit{
		Hit:      true,
		Point:    info.Point,
		Normal:   info.Normal,
		Distance: info.Alpha * length,
		Object:   s.shapeToEntity[info.Shape],
	}
}

// Raycast implements collision.Geometry.
func (s *Space) Raycast(origin, dir cp.Vector, length float64, mask collision.Layer) collision.Hit {
	return s.segment(origin, dir, length, 0, mask)
}

// CircleCast implements collision.Geometry.
func (s *Space) CircleCast(origin cp.Vector, radius float64, dir cp.Vector, distance float64, mask collision.Layer) collision.Hit {
	return s.segment(origin, dir, distance, radius, mask)
}

// OverlapBox implements collision.Geometry.
func (s *Space) OverlapBox(center, size cp.Vector, mask collision.Layer) bool {
	if mask == collision.LayerNone {
		return false
	}
	bb := cp.NewBBForExtents(center, size.X/2, size.Y/2)
	found := false
	s.space.BBQuery(bb, queryFilter(mask), func(shape *cp.Shape, data interface{}) {
		found = true
	}, nil)
	return found
}

// OverlapCircle implements collision.Geometry.
func (s *Space) OverlapCircle(center cp.Vector, radius float64, mask collision.Layer) (ecs.Entity, bool) {
	if mask == collision.LayerNone {
		return 0, false
	}
	info := s.space.PointQueryNearest(center, radius, queryFilter(mask))
	if info == nil || info.Shape == nil {
		return 0, false
	}
	e, ok := s.shapeToEntity[info.Shape]
	return e, ok
}

var _ collision.Geometry = (*Space)(nil)

func discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
