package collision

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// Side identifies one of the five probe fans.
type Side int

const (
	SideDown Side = iota
	SideUp
	SideLeft
	SideRight
	SidePlatformDown

	SideCount = 5
)

var sideNames = [SideCount]string{"down", "up", "left", "right", "platform_down"}

func (s Side) String() string {
	if s < 0 || int(s) >= SideCount {
		return fmt.Sprintf("side(%d)", int(s))
	}
	return sideNames[s]
}

// Vertical reports whether the side casts along the y axis.
func (s Side) Vertical() bool {
	return s == SideDown || s == SideUp || s == SidePlatformDown
}

var (
	vecUp    = cp.Vector{X: 0, Y: 1}
	vecDown  = cp.Vector{X: 0, Y: -1}
	vecLeft  = cp.Vector{X: -1, Y: 0}
	vecRight = cp.Vector{X: 1, Y: 0}
)

// Probe describes a fan of parallel rays. Ray i starts at
// Start + SpacingAxis*Spacing*i and casts along Direction.
type Probe struct {
	Start       cp.Vector
	Direction   cp.Vector
	Length      float64
	Spacing     float64
	SpacingAxis cp.Vector
}

// Origin returns the origin of ray i.
func (p Probe) Origin(i int) cp.Vector {
	return p.Start.Add(p.SpacingAxis.Mult(p.Spacing * float64(i)))
}

// BuildProbes lays out the probe fans for the given shrunk bounds.
// Horizontal fans run bottom to top, vertical fans left to right.
func BuildProbes(bounds cp.BB, cfg Config) [SideCount]Probe {
	size := boundsSize(bounds)
	n := float64(cfg.RayCount - 1)
	horizontalSpacing := size.Y / n
	verticalSpacing := size.X / n

	var probes [SideCount]Probe
	probes[SideDown] = Probe{
		Start:       cp.Vector{X: bounds.L, Y: bounds.B},
		Direction:   vecDown,
		Length:      cfg.VerticalMinRayLength,
		Spacing:     verticalSpacing,
		SpacingAxis: vecRight,
	}
	probes[SidePlatformDown] = probes[SideDown]
	probes[SideUp] = Probe{
		Start:       cp.Vector{X: bounds.L, Y: bounds.T},
		Direction:   vecUp,
		Length:      cfg.VerticalMinRayLength,
		Spacing:     verticalSpacing,
		SpacingAxis: vecRight,
	}
	probes[SideRight] = Probe{
		Start:       cp.Vector{X: bounds.R, Y: bounds.B},
		Direction:   vecRight,
		Length:      cfg.HorizontalMinRayLength,
		Spacing:     horizontalSpacing,
		SpacingAxis: vecUp,
	}
	probes[SideLeft] = Probe{
		Start:       cp.Vector{X: bounds.L, Y: bounds.B},
		Direction:   vecLeft,
		Length:      cfg.HorizontalMinRayLength,
		Spacing:     horizontalSpacing,
		SpacingAxis: vecUp,
	}
	return probes
}
