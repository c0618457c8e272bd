package level

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

var (
	ErrNoSpawn       = errors.New("level: no spawn entity")
	ErrMultipleSpawn = errors.New("level: more than one spawn entity")
)

// Entity types placed on a level.
const (
	EntitySpawn        = "spawn"
	EntityPlatform     = "platform"
	EntityInteractable = "interactable"
)

// Level is a tile map stored as JSON. Each layer is a flat row-major slice of
// Width*Height tiles whose first row is the top of the map.
type Level struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	TileSize float64 `json:"tile_size,omitempty"`
	// Layers are drawn in order. Only layers flagged in LayerMeta collide.
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
	// Bounds walls the map in so actors cannot leave it.
	Bounds bool `json:"bounds,omitempty"`
}

type LayerMeta struct {
	Physics bool   `json:"physics"`
	Color   string `json:"color,omitempty"`
}

// Entity is placed in tile coordinates with the same top-down rows as the
// layers.
type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// Load reads a level JSON file from disk.
func Load(path string) (*Level, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: read %s: %w", path, err)
	}
	return parse(b)
}

// LoadFromFS reads a level from fsys, e.g. LevelsFS.
func LoadFromFS(fsys fs.FS, name string) (*Level, error) {
	clean := strings.TrimPrefix(filepath.ToSlash(name), "level/")
	b, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("level: read %s: %w", clean, err)
	}
	return parse(b)
}

// Names lists the embedded levels.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func parse(b []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(b, &lvl); err != nil {
		return nil, fmt.Errorf("level: unmarshal: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// Validate checks grid dimensions and entity placement.
func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("level: invalid dimensions %dx%d", l.Width, l.Height)
	}
	if l.TileSize < 0 {
		return fmt.Errorf("level: tile size %v must be positive", l.TileSize)
	}
	for i, layer := range l.Layers {
		if len(layer) != l.Width*l.Height {
			return fmt.Errorf("level: layer %d has %d tiles, want %d", i, len(layer), l.Width*l.Height)
		}
	}
	if len(l.LayerMeta) > len(l.Layers) {
		return fmt.Errorf("level: %d layer meta entries for %d layers", len(l.LayerMeta), len(l.Layers))
	}

	spawns := 0
	for _, e := range l.Entities {
		if e.X < 0 || e.Y < 0 || e.X >= l.Width || e.Y >= l.Height {
			return fmt.Errorf("level: %s at (%d, %d) is outside the map", e.Type, e.X, e.Y)
		}
		switch e.Type {
		case EntitySpawn:
			spawns++
		case EntityPlatform, EntityInteractable:
		default:
			return fmt.Errorf("level: unknown entity type %q", e.Type)
		}
	}
	switch {
	case spawns == 0:
		return ErrNoSpawn
	case spawns > 1:
		return ErrMultipleSpawn
	}
	return nil
}

func (l *Level) tileSize() float64 {
	if l.TileSize == 0 {
		return 1
	}
	return l.TileSize
}

// HasPhysics reports whether tiles on layer i collide.
func (l *Level) HasPhysics(i int) bool {
	return i < len(l.LayerMeta) && l.LayerMeta[i].Physics
}

func (e Entity) number(key string, def float64) (float64, error) {
	v, ok := e.Props[key]
	if !ok {
		return def, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("level: %s prop %q is %T, want number", e.Type, key, v)
	}
	return f, nil
}

func (e Entity) text(key string) string {
	s, _ := e.Props[key].(string)
	return s
}
