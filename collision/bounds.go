package collision

import (
	"errors"

	"github.com/jakecoffman/cp"
)

var (
	ErrSkinWidth    = errors.New("collision: skin width must be positive")
	ErrColliderSize = errors.New("collision: collider must be larger than twice the skin width")
)

// Tracker derives the skin-shrunk bounds of a box collider each frame.
type Tracker struct {
	size cp.Vector
	skin float64
}

func NewTracker(size cp.Vector, skin float64) (*Tracker, error) {
	if skin <= 0 {
		return nil, ErrSkinWidth
	}
	if size.X <= 2*skin || size.Y <= 2*skin {
		return nil, ErrColliderSize
	}
	return &Tracker{size: size, skin: skin}, nil
}

// Update returns the collider box centered at center, shrunk by the skin width on every side.
func (t *Tracker) Update(center cp.Vector) cp.BB {
	hw := t.size.X/2 - t.skin
	hh := t.size.Y/2 - t.skin
	return cp.BB{L: center.X - hw, B: center.Y - hh, R: center.X + hw, T: center.Y + hh}
}

// Size returns the full, unshrunk collider size.
func (t *Tracker) Size() cp.Vector {
	return t.size
}

func (t *Tracker) Skin() float64 {
	return t.skin
}

func boundsSize(bb cp.BB) cp.Vector {
	return cp.Vector{X: bb.R - bb.L, Y: bb.T - bb.B}
}
