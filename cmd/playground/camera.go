package main

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/common"
)

// camera maps y-up world units to y-down screen pixels centered on a target.
type camera struct {
	center cp.Vector
	scale  float64
	width  float64
	height float64
}

// follow eases toward target and keeps the view inside bounds when the map is
// larger than the screen.
func (c *camera) follow(target cp.Vector, bounds cp.BB, t float64) {
	c.center = cp.Vector{
		X: common.Lerp(c.center.X, target.X, t),
		Y: common.Lerp(c.center.Y, target.Y, t),
	}
	halfW, halfH := c.width/2/c.scale, c.height/2/c.scale
	if bounds.R-bounds.L > 2*halfW {
		c.center.X = common.Clamp(c.center.X, bounds.L+halfW, bounds.R-halfW)
	} else {
		c.center.X = (bounds.L + bounds.R) / 2
	}
	if bounds.T-bounds.B > 2*halfH {
		c.center.Y = common.Clamp(c.center.Y, bounds.B+halfH, bounds.T-halfH)
	} else {
		c.center.Y = (bounds.B + bounds.T) / 2
	}
}

func (c *camera) toScreen(p cp.Vector) (float32, float32) {
	x := (p.X-c.center.X)*c.scale + c.width/2
	y := c.height/2 - (p.Y-c.center.Y)*c.scale
	return float32(x), float32(y)
}

// rect returns the screen-space top-left and size of a world box.
func (c *camera) rect(bb cp.BB) (x, y, w, h float32) {
	x, y = c.toScreen(cp.Vector{X: bb.L, Y: bb.T})
	return x, y, float32((bb.R - bb.L) * c.scale), float32((bb.T - bb.B) * c.scale)
}

func bbAround(center, half cp.Vector) cp.BB {
	return cp.BB{L: center.X - half.X, B: center.Y - half.Y, R: center.X + half.X, T: center.Y + half.Y}
}
