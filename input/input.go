package input

import "github.com/milk9111/kinematic/common"

// State is one frame of actor input. Axes are in [-1, 1]; positive vertical
// is up. Pressed fields are edges, Held fields levels.
type State struct {
	Horizontal  float64
	Vertical    float64
	JumpPressed bool
	JumpHeld    bool
	DashPressed bool
	GrabHeld    bool
}

// Clamped returns s with both axes clamped to [-1, 1].
func (s State) Clamped() State {
	s.Horizontal = common.Clamp(s.Horizontal, -1, 1)
	s.Vertical = common.Clamp(s.Vertical, -1, 1)
	return s
}

// Source produces the input for the next frame. Poll is called exactly once
// per tick.
type Source interface {
	Poll() State
}

// SourceFunc adapts a function to Source.
type SourceFunc func() State

func (f SourceFunc) Poll() State {
	return f()
}

// Button is a digital action.
type Button int

const (
	ButtonJump Button = iota
	ButtonDash
	ButtonGrab
	buttonCount
)

// Buffer is a Source fed by device callbacks. A press between two polls is
// reported on the next poll even if the button was released again.
type Buffer struct {
	horizontal, vertical float64
	held                 [buttonCount]bool
	pressed              [buttonCount]bool
}

func (b *Buffer) SetAxes(horizontal, vertical float64) {
	b.horizontal = horizontal
	b.vertical = vertical
}

func (b *Buffer) Press(btn Button) {
	if btn < 0 || btn >= buttonCount {
		return
	}
	if !b.held[btn] {
		b.pressed[btn] = true
	}
	b.held[btn] = true
}

func (b *Buffer) Release(btn Button) {
	if btn < 0 || btn >= buttonCount {
		return
	}
	b.held[btn] = false
}

// Set drives a button from a level signal, pressing on a rising edge.
func (b *Buffer) Set(btn Button, down bool) {
	if down {
		b.Press(btn)
		return
	}
	b.Release(btn)
}

// Poll returns the latched state and clears the edges.
func (b *Buffer) Poll() State {
	s := State{
		Horizontal:  b.horizontal,
		Vertical:    b.vertical,
		JumpPressed: b.pressed[ButtonJump],
		JumpHeld:    b.held[ButtonJump],
		DashPressed: b.pressed[ButtonDash],
		GrabHeld:    b.held[ButtonGrab],
	}
	b.pressed = [buttonCount]bool{}
	return s.Clamped()
}
