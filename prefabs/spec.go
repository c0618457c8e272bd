package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/milk9111/kinematic/controller"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// ControllerSpecFile holds the default actor tuning.
const ControllerSpecFile = "controller.yaml"

// PlaygroundSpecFile configures the interactive demo.
const PlaygroundSpecFile = "playground.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadSpecOver decodes filename on top of base, so keys missing from the file
// keep base's values.
func LoadSpecOver[T any](filename string, base T) (T, error) {
	data, err := Load(filename)
	if err != nil {
		return base, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	spec := base
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return base, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

// LoadController reads actor tuning over the built-in defaults and validates
// it.
func LoadController(filename string) (controller.Config, error) {
	cfg, err := LoadSpecOver(filename, controller.DefaultConfig())
	if err != nil {
		return controller.DefaultConfig(), err
	}
	if err := cfg.Validate(); err != nil {
		return controller.DefaultConfig(), fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return cfg, nil
}

type PlaygroundSpec struct {
	Level      string        `yaml:"level"`
	Controller string        `yaml:"controller"`
	Scale      float64       `yaml:"scale"`
	TPS        int           `yaml:"tps"`
	Debug      bool          `yaml:"debug"`
	Colors     PaletteSpec   `yaml:"colors"`
	Keys       KeyBindings   `yaml:"keys"`
	Gamepad    GamepadLayout `yaml:"gamepad"`
}

type PaletteSpec struct {
	Background   YAMLColor `yaml:"background"`
	Actor        YAMLColor `yaml:"actor"`
	Platform     YAMLColor `yaml:"platform"`
	Interactable YAMLColor `yaml:"interactable"`
	Probe        YAMLColor `yaml:"probe"`
	Hit          YAMLColor `yaml:"hit"`
	Text         YAMLColor `yaml:"text"`
}

// KeyBindings name ebiten keys, e.g. "Space" or "ArrowLeft".
type KeyBindings struct {
	Left  []string `yaml:"left"`
	Right []string `yaml:"right"`
	Up    []string `yaml:"up"`
	Down  []string `yaml:"down"`
	Jump  []string `yaml:"jump"`
	Dash  []string `yaml:"dash"`
	Grab  []string `yaml:"grab"`
	Reset []string `yaml:"reset"`
}

// GamepadLayout uses standard gamepad button indices.
type GamepadLayout struct {
	Jump     int     `yaml:"jump"`
	Dash     int     `yaml:"dash"`
	Grab     int     `yaml:"grab"`
	Deadzone float64 `yaml:"deadzone"`
}

func LoadPlayground() (PlaygroundSpec, error) {
	spec, err := LoadSpec[PlaygroundSpec](PlaygroundSpecFile)
	if err != nil {
		return spec, err
	}
	if spec.Scale <= 0 {
		spec.Scale = 24
	}
	if spec.TPS <= 0 {
		spec.TPS = 60
	}
	return spec, nil
}

// YAMLColor decodes either a hex value (#rrggbb or #rrggbbaa) or an SVG color
// name such as "steelblue".
type YAMLColor struct {
	color.Color
}

// RGBA falls back to opaque white when the color was never set.
func (c YAMLColor) RGBA() (r, g, b, a uint32) {
	if c.Color == nil {
		return color.White.RGBA()
	}
	return c.Color.RGBA()
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("prefabs: color must be a string")
	}
	if named, ok := colornames.Map[strings.ToLower(value.Value)]; ok {
		c.Color = named
		return nil
	}

	s := strings.TrimPrefix(value.Value, "#")
	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("prefabs: invalid color %q", value.Value)
	}

	var ch [4]uint8
	ch[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return fmt.Errorf("prefabs: invalid color %q: %w", value.Value, err)
		}
		ch[i] = uint8(v)
	}

	c.Color = color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}
	return nil
}
