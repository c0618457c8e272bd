package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/collision"
	"github.com/milk9111/kinematic/controller"
)

const debugCircleSegments = 20

// spaceDrawer renders chipmunk shapes through the camera.
type spaceDrawer struct {
	screen *ebiten.Image
	cam    *camera
	color  color.Color
}

func drawSpace(screen *ebiten.Image, cam *camera, space *cp.Space, clr color.Color) {
	cp.DrawSpace(space, &spaceDrawer{screen: screen, cam: cam, color: clr})
}

func (d *spaceDrawer) line(a, b cp.Vector, clr color.Color) {
	ax, ay := d.cam.toScreen(a)
	bx, by := d.cam.toScreen(b)
	vector.StrokeLine(d.screen, ax, ay, bx, by, 1, clr, false)
}

func (d *spaceDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	prev := cp.Vector{X: pos.X + radius, Y: pos.Y}
	for i := 1; i <= debugCircleSegments; i++ {
		th := float64(i) * (2 * math.Pi / debugCircleSegments)
		cur := cp.Vector{X: pos.X + math.Cos(th)*radius, Y: pos.Y + math.Sin(th)*radius}
		d.line(prev, cur, d.color)
		prev = cur
	}
}

func (d *spaceDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, d.color)
}

func (d *spaceDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	// offset the segment to its inner and outer faces
	n := b.Sub(a).Perp().Normalize().Mult(radius)
	d.line(a.Add(n), b.Add(n), d.color)
	d.line(a.Sub(n), b.Sub(n), d.color)
}

func (d *spaceDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], d.color)
	}
}

func (d *spaceDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.cam.toScreen(pos)
	vector.FillRect(d.screen, x-1, y-1, 2, 2, d.color, false)
}

func (d *spaceDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *spaceDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 1, G: 1, B: 1, A: 1}
}

func (d *spaceDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 1, G: 1, B: 1, A: 1}
}

func (d *spaceDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{}
}

func (d *spaceDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{}
}

func (d *spaceDrawer) Data() interface{} {
	return nil
}

// drawProbes draws every side's ray fan, hit rays in the hit color, plus the
// furthest point of the last move.
func drawProbes(screen *ebiten.Image, cam *camera, c *controller.Controller, probe, hit color.Color) {
	rayCount := c.Config().Collision.RayCount
	for s := collision.Side(0); s < collision.SideCount; s++ {
		if s == collision.SidePlatformDown {
			continue
		}
		st := c.Side(s)
		clr := probe
		if st.Colliding {
			clr = hit
		}
		for i := 0; i < rayCount; i++ {
			o := st.Probe.Origin(i)
			end := o.Add(st.Probe.Direction.Mult(st.Probe.Length))
			ox, oy := cam.toScreen(o)
			ex, ey := cam.toScreen(end)
			vector.StrokeLine(screen, ox, oy, ex, ey, 1, clr, false)
		}
		if st.HasHit {
			x, y := cam.toScreen(st.HitPoint)
			vector.DrawFilledCircle(screen, x, y, 2, hit, false)
		}
	}

	fx, fy := cam.toScreen(c.FurthestPoint())
	vector.StrokeCircle(screen, fx, fy, 3, 1, probe, false)
}
