package controller

import (
	"fmt"

	"github.com/milk9111/kinematic/collision"
	"github.com/milk9111/kinematic/movement"
)

// Config aggregates the collision and movement tuning of one actor.
type Config struct {
	Collision collision.Config `yaml:"collision"`
	Movement  movement.Config  `yaml:"movement"`
}

func DefaultConfig() Config {
	return Config{
		Collision: collision.DefaultConfig(),
		Movement:  movement.DefaultConfig(),
	}
}

func (c Config) Validate() error {
	if err := c.Collision.Validate(); err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	if err := c.Movement.Validate(); err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	return nil
}
