package collision

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var layerNames = []struct {
	name  string
	layer Layer
}{
	{"solid", LayerSolid},
	{"platform", LayerPlatform},
	{"interactable", LayerInteractable},
}

// ParseLayer accepts "none", "all", a layer name, names joined by "|", or a
// raw bitmask.
func ParseLayer(s string) (Layer, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "none":
		return LayerNone, nil
	case "all":
		return LayerAll, nil
	}
	if n, err := strconv.ParseUint(s, 0, 64); err == nil {
		return Layer(n), nil
	}

	var l Layer
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		found := false
		for _, ln := range layerNames {
			if ln.name == part {
				l |= ln.layer
				found = true
				break
			}
		}
		if !found {
			return LayerNone, fmt.Errorf("collision: unknown layer %q", part)
		}
	}
	return l, nil
}

func (l Layer) String() string {
	switch l {
	case LayerNone:
		return "none"
	case LayerAll:
		return "all"
	}
	var parts []string
	rest := l
	for _, ln := range layerNames {
		if l&ln.layer != 0 {
			parts = append(parts, ln.name)
			rest &^= ln.layer
		}
	}
	if rest != 0 {
		parts = append(parts, "0x"+strconv.FormatUint(uint64(rest), 16))
	}
	return strings.Join(parts, "|")
}

// UnmarshalYAML takes a scalar for ParseLayer or a list of names.
func (l *Layer) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseLayer(value.Value)
		if err != nil {
			return err
		}
		*l = parsed
		return nil
	case yaml.SequenceNode:
		var out Layer
		for _, item := range value.Content {
			parsed, err := ParseLayer(item.Value)
			if err != nil {
				return err
			}
			out |= parsed
		}
		*l = out
		return nil
	}
	return fmt.Errorf("collision: layer must be a name, mask or list")
}

func (l Layer) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}
