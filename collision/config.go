package collision

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
)

var ErrRayCount = errors.New("collision: ray count must be at least 2")

// Config tunes the probe fans and the auxiliary overlap queries.
type Config struct {
	Size                   cp.Vector `yaml:"size"`
	SkinWidth              float64   `yaml:"skin_width"`
	RayCount               int       `yaml:"ray_count"`
	HorizontalMinRayLength float64   `yaml:"horizontal_min_ray_length"`
	VerticalMinRayLength   float64   `yaml:"vertical_min_ray_length"`
	RayLengthModifier      float64   `yaml:"ray_length_modifier"`
	DashHitRadius          float64   `yaml:"dash_hit_radius"`
	PlatformRadius         float64   `yaml:"platform_radius"`
	InteractRadius         float64   `yaml:"interact_radius"`

	CollisionMask    Layer `yaml:"collision_mask"`
	PlatformMask     Layer `yaml:"platform_mask"`
	InteractableMask Layer `yaml:"interactable_mask"`
}

func DefaultConfig() Config {
	return Config{
		Size:                   cp.Vector{X: 1, Y: 1},
		SkinWidth:              0.15,
		RayCount:               3,
		HorizontalMinRayLength: 0.3,
		VerticalMinRayLength:   0.3,
		RayLengthModifier:      0.05,
		DashHitRadius:          0.25,
		PlatformRadius:         0.8,
		InteractRadius:         0.5,
		CollisionMask:          LayerSolid,
		PlatformMask:           LayerPlatform,
		InteractableMask:       LayerInteractable,
	}
}

// Validate rejects configurations the probes cannot run with.
func (c Config) Validate() error {
	if c.RayCount < 2 {
		return fmt.Errorf("%w: got %d", ErrRayCount, c.RayCount)
	}
	if c.SkinWidth <= 0 {
		return ErrSkinWidth
	}
	if c.Size.X <= 2*c.SkinWidth || c.Size.Y <= 2*c.SkinWidth {
		return ErrColliderSize
	}
	if c.HorizontalMinRayLength <= 0 || c.VerticalMinRayLength <= 0 {
		return errors.New("collision: minimum ray lengths must be positive")
	}
	if c.RayLengthModifier < 0 {
		return errors.New("collision: ray length modifier must not be negative")
	}
	return nil
}
