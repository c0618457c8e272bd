// Package script drives actor input from tengo scripts for deterministic
// headless runs.
//
// A script defines poll(engine, state) and returns a map with any of move_x,
// move_y (numbers in [-1, 1]) and jump, dash, grab (held buttons). Presses are
// derived from held transitions between frames.
package script

import (
	"errors"
	"fmt"
	"io"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/input"
	"github.com/sirupsen/logrus"
)

var ErrFailed = errors.New("script: source stopped after a runtime error")

const pollDispatch = `
__out := poll(__engine, __state)
`

type Option func(*Source)

// WithTimeStep sets the frame duration used for engine.time.
func WithTimeStep(dt float64) Option {
	return func(s *Source) {
		if dt > 0 {
			s.dt = dt
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Source) {
		if log != nil {
			s.log = log
		}
	}
}

// Source is an input.Source backed by a compiled tengo script.
type Source struct {
	compiled *tengo.Compiled
	state    *tengo.Map
	dt       float64
	log      logrus.FieldLogger

	frame    int64
	pos, vel cp.Vector
	grounded bool

	jumpHeld, dashHeld bool
	err                error
}

var _ input.Source = (*Source)(nil)

func NewSource(src []byte, opts ...Option) (*Source, error) {
	s := &Source{
		state: &tengo.Map{Value: map[string]tengo.Object{}},
		dt:    1.0 / 60,
		log:   discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	script := tengo.NewScript(append(append([]byte{}, src...), pollDispatch...))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile: %w", err)
	}
	s.compiled = compiled
	return s, nil
}

// Observe feeds the actor's state back to the script for the next Poll.
func (s *Source) Observe(pos, vel cp.Vector, grounded bool) {
	s.pos, s.vel, s.grounded = pos, vel, grounded
}

// Poll runs poll once and converts its result. After a runtime error it
// returns zero input and Err reports the failure.
func (s *Source) Poll() input.State {
	if s.err != nil {
		return input.State{}
	}
	s.frame++

	if err := s.run(); err != nil {
		s.err = fmt.Errorf("%w: frame %d: %v", ErrFailed, s.frame, err)
		s.log.WithError(err).WithField("frame", s.frame).Warn("script: poll failed")
		return input.State{}
	}

	out := outputs(s.compiled.Get("__out").Object())
	in := input.State{
		Horizontal: number(out["move_x"]),
		Vertical:   number(out["move_y"]),
		JumpHeld:   truthy(out["jump"]),
		GrabHeld:   truthy(out["grab"]),
	}
	dash := truthy(out["dash"])
	in.JumpPressed = in.JumpHeld && !s.jumpHeld
	in.DashPressed = dash && !s.dashHeld
	s.jumpHeld, s.dashHeld = in.JumpHeld, dash
	return in.Clamped()
}

func (s *Source) run() error {
	engine := &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"frame":    &tengo.Int{Value: s.frame},
		"time":     &tengo.Float{Value: float64(s.frame-1) * s.dt},
		"dt":       &tengo.Float{Value: s.dt},
		"x":        &tengo.Float{Value: s.pos.X},
		"y":        &tengo.Float{Value: s.pos.Y},
		"vx":       &tengo.Float{Value: s.vel.X},
		"vy":       &tengo.Float{Value: s.vel.Y},
		"grounded": boolObject(s.grounded),
	}}
	if err := s.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.state); err != nil {
		return err
	}
	return s.compiled.Run()
}

// Err returns the runtime error that stopped the source, if any.
func (s *Source) Err() error {
	return s.err
}

// Frame is the number of polls run so far.
func (s *Source) Frame() int64 {
	return s.frame
}

func outputs(obj tengo.Object) map[string]tengo.Object {
	switch v := obj.(type) {
	case *tengo.Map:
		return v.Value
	case *tengo.ImmutableMap:
		return v.Value
	}
	return nil
}

func number(obj tengo.Object) float64 {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value
	case *tengo.Int:
		return float64(v.Value)
	}
	return 0
}

func truthy(obj tengo.Object) bool {
	if obj == nil {
		return false
	}
	return !obj.IsFalsy()
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
