package movement

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

var (
	ErrApexTime    = errors.New("movement: time to jump apex must be positive")
	ErrJumpHeight  = errors.New("movement: jump heights must satisfy 0 <= min <= max, max > 0")
	ErrNegative    = errors.New("movement: tuning value must not be negative")
	ErrDashDefault = errors.New("movement: unknown dash default")
)

// DashDefault selects the dash direction used when input is neutral.
type DashDefault string

const (
	// DashFacing dashes along the last faced horizontal direction.
	DashFacing DashDefault = "facing"
	// DashAxis dashes along Config.DashAxis.
	DashAxis DashDefault = "axis"
)

// Config is the designer-facing tuning. Durations are seconds, distances
// world units, speeds units per second.
type Config struct {
	MaxMove      float64 `yaml:"max_move"`
	Acceleration float64 `yaml:"acceleration"`
	Deceleration float64 `yaml:"deceleration"`

	JumpHeight     float64 `yaml:"jump_height"`
	TimeToJumpApex float64 `yaml:"time_to_jump_apex"`
	MinJumpHeight  float64 `yaml:"min_jump_height"`
	FallMultiplier float64 `yaml:"fall_multiplier"`
	MaxFallSpeed   float64 `yaml:"max_fall_speed"`
	JumpBuffer     float64 `yaml:"jump_buffer"`
	CoyoteJump     float64 `yaml:"coyote_jump"`

	WallSlideSpeed    float64   `yaml:"wall_slide_speed"`
	WallStickTime     float64   `yaml:"wall_stick_time"`
	WallJumpSpeed     cp.Vector `yaml:"wall_jump_speed"`
	WallGrabTime      float64   `yaml:"wall_grab_time"`
	WallGrabDistance  float64   `yaml:"wall_grab_distance"`
	WallClimbSpeed    float64   `yaml:"wall_climb_speed"`
	LedgeClimbImpulse cp.Vector `yaml:"ledge_climb_impulse"`
	WallGrabJumpTime  float64   `yaml:"wall_grab_jump_time"`
	WallGrabJumpSpeed float64   `yaml:"wall_grab_jump_speed"`
	WallGrabJumpOff   cp.Vector `yaml:"wall_grab_jump_off"`

	DashDistance          float64     `yaml:"dash_distance"`
	DashTime              float64     `yaml:"dash_time"`
	AfterDashSpeed        float64     `yaml:"after_dash_speed"`
	NeutralAfterDashScale float64     `yaml:"neutral_after_dash_scale"`
	DashDefault           DashDefault `yaml:"dash_default"`
	DashAxis              cp.Vector   `yaml:"dash_axis"`
}

func DefaultConfig() Config {
	return Config{
		MaxMove:      13,
		Acceleration: 180,
		Deceleration: 90,

		JumpHeight:     5,
		TimeToJumpApex: 0.3,
		MinJumpHeight:  1.5,
		FallMultiplier: 1.5,
		MaxFallSpeed:   30,
		JumpBuffer:     0.1,
		CoyoteJump:     0.07,

		WallSlideSpeed:    4,
		WallStickTime:     0.12,
		WallJumpSpeed:     cp.Vector{X: 12, Y: 18},
		WallGrabTime:      1.5,
		WallGrabDistance:  0.25,
		WallClimbSpeed:    5,
		LedgeClimbImpulse: cp.Vector{X: 6, Y: 14},
		WallGrabJumpTime:  0.1,
		WallGrabJumpSpeed: 16,
		WallGrabJumpOff:   cp.Vector{X: 14, Y: 16},

		DashDistance:          4,
		DashTime:              0.15,
		AfterDashSpeed:        8,
		NeutralAfterDashScale: 0,
		DashDefault:           DashFacing,
		DashAxis:              cp.Vector{X: 1, Y: 0},
	}
}

// Validate rejects tuning the machine cannot run with.
func (c Config) Validate() error {
	if c.TimeToJumpApex <= 0 {
		return ErrApexTime
	}
	if c.JumpHeight <= 0 || c.MinJumpHeight < 0 || c.MinJumpHeight > c.JumpHeight {
		return ErrJumpHeight
	}
	nonNegative := map[string]float64{
		"max_move":             c.MaxMove,
		"acceleration":         c.Acceleration,
		"deceleration":         c.Deceleration,
		"max_fall_speed":       c.MaxFallSpeed,
		"jump_buffer":          c.JumpBuffer,
		"coyote_jump":          c.CoyoteJump,
		"wall_slide_speed":     c.WallSlideSpeed,
		"wall_stick_time":      c.WallStickTime,
		"wall_grab_time":       c.WallGrabTime,
		"wall_grab_distance":   c.WallGrabDistance,
		"wall_climb_speed":     c.WallClimbSpeed,
		"wall_grab_jump_time":  c.WallGrabJumpTime,
		"dash_distance":        c.DashDistance,
		"dash_time":            c.DashTime,
		"after_dash_speed":     c.AfterDashSpeed,
		"fall_multiplier":      c.FallMultiplier,
		"wall_grab_jump_speed": c.WallGrabJumpSpeed,
	}
	for name, v := range nonNegative {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s = %v", ErrNegative, name, v)
		}
	}
	switch c.DashDefault {
	case DashFacing:
	case DashAxis:
		if c.DashAxis.Length() == 0 {
			return fmt.Errorf("%w: dash axis must be non-zero", ErrDashDefault)
		}
	default:
		return fmt.Errorf("%w: %q", ErrDashDefault, c.DashDefault)
	}
	return nil
}

// Derived holds the constants computed once from Config.
type Derived struct {
	Gravity      float64
	MaxJumpSpeed float64
	MinJumpSpeed float64
}

// Derive computes gravity from apex height and time so that a jump at
// MaxJumpSpeed peaks at JumpHeight after TimeToJumpApex.
func (c Config) Derive() Derived {
	g := 2 * c.JumpHeight / (c.TimeToJumpApex * c.TimeToJumpApex)
	return Derived{
		Gravity:      g,
		MaxJumpSpeed: g * c.TimeToJumpApex,
		MinJumpSpeed: math.Sqrt(2 * g * c.MinJumpHeight),
	}
}
