package level

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/kinematic/collision"
	"github.com/milk9111/kinematic/controller"
	"github.com/milk9111/kinematic/input"
	"github.com/milk9111/kinematic/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatLevel = `{
  "width": 4, "height": 3,
  "layers": [[0,0,0,0, 0,0,0,0, 1,1,1,1]],
  "layer_meta": [{"physics": true}],
  "entities": [{"type": "spawn", "x": 1, "y": 1}]
}`

func TestEmbeddedLevelsBuild(t *testing.T) {
	names := Names()
	require.NotEmpty(t, names)
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			lvl, err := LoadFromFS(LevelsFS, name)
			require.NoError(t, err)
			_, err = lvl.Build(physics.NewSpace())
			require.NoError(t, err)
		})
	}
}

func TestLoadFromFSTrimsPrefix(t *testing.T) {
	lvl, err := LoadFromFS(LevelsFS, "level/flat.json")
	require.NoError(t, err)
	assert.Equal(t, 16, lvl.Width)

	_, err = LoadFromFS(LevelsFS, "missing.json")
	assert.Error(t, err)
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.json")
	require.NoError(t, os.WriteFile(path, []byte(flatLevel), 0o644))

	lvl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, lvl.Width)
	assert.Equal(t, 1.0, lvl.tileSize())
	assert.True(t, lvl.HasPhysics(0))
	assert.False(t, lvl.HasPhysics(1))
}

func TestValidate(t *testing.T) {
	spawn := []Entity{{Type: EntitySpawn}}
	cases := []struct {
		name string
		lvl  Level
		err  error
	}{
		{"ok", Level{Width: 2, Height: 1, Layers: [][]int{{0, 1}}, Entities: spawn}, nil},
		{"no spawn", Level{Width: 2, Height: 1}, ErrNoSpawn},
		{"two spawns", Level{Width: 2, Height: 1, Entities: append(spawn, Entity{Type: EntitySpawn, X: 1})}, ErrMultipleSpawn},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.lvl.Validate()
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}

	bad := []struct {
		name string
		lvl  Level
	}{
		{"zero width", Level{Width: 0, Height: 1, Entities: spawn}},
		{"short layer", Level{Width: 2, Height: 1, Layers: [][]int{{0}}, Entities: spawn}},
		{"extra meta", Level{Width: 1, Height: 1, LayerMeta: []LayerMeta{{Physics: true}}, Entities: spawn}},
		{"negative tile size", Level{Width: 1, Height: 1, TileSize: -1, Entities: spawn}},
		{"outside", Level{Width: 1, Height: 1, Entities: []Entity{{Type: EntitySpawn, X: 3}}}},
		{"unknown type", Level{Width: 1, Height: 1, Entities: append(spawn, Entity{Type: "door"})}},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.lvl.Validate())
		})
	}
}

func TestBuildPlacesSpawnAboveGround(t *testing.T) {
	lvl, err := LoadFromFS(LevelsFS, "flat.json")
	require.NoError(t, err)
	s := physics.NewSpace()
	w, err := lvl.Build(s)
	require.NoError(t, err)

	assert.Equal(t, cp.Vector{X: 2.5, Y: 1.5}, w.Spawn())
	assert.Equal(t, cp.BB{L: 0, B: 0, R: 16, T: 6}, w.Bounds())

	hit := s.Raycast(w.Spawn(), cp.Vector{X: 0, Y: -1}, 5, collision.LayerSolid)
	require.True(t, hit.Hit)
	assert.InDelta(t, 0.5, hit.Distance, 1e-6)

	// border's inner face sits on the map edge
	hit = s.Raycast(w.Spawn(), cp.Vector{X: -1, Y: 0}, 5, collision.LayerSolid)
	require.True(t, hit.Hit)
	assert.InDelta(t, 2.5, hit.Distance, 1e-6)
}

func TestBuildRejectsBadProps(t *testing.T) {
	cases := []struct {
		name  string
		props map[string]interface{}
	}{
		{"speed not a number", map[string]interface{}{"speed": "fast"}},
		{"zero width", map[string]interface{}{"width": 0.0}},
		{"bad target", map[string]interface{}{"to_x": true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lvl := Level{Width: 4, Height: 4, Entities: []Entity{
				{Type: EntitySpawn},
				{Type: EntityPlatform, X: 1, Y: 1, Props: tc.props},
			}}
			_, err := lvl.Build(physics.NewSpace())
			assert.Error(t, err)
		})
	}
}

func TestInteractableNames(t *testing.T) {
	lvl, err := LoadFromFS(LevelsFS, "playground.json")
	require.NoError(t, err)
	s := physics.NewSpace()
	w, err := lvl.Build(s)
	require.NoError(t, err)

	// lever sits at tile (7, 17)
	id, ok := s.OverlapCircle(w.center(7, 17), 0.1, collision.LayerInteractable)
	require.True(t, ok)
	name, ok := w.Interactable(id)
	require.True(t, ok)
	assert.Equal(t, "lever", name)

	_, ok = w.Interactable(0)
	assert.False(t, ok)
}

func TestMovingPlatformPingPong(t *testing.T) {
	p := NewMovingPlatform(1, cp.Vector{X: 0, Y: 0}, cp.Vector{X: 1, Y: 0}, cp.Vector{X: 1, Y: 0.5}, 1)
	assert.Equal(t, cp.Vector{X: 1, Y: 0}, p.Velocity())

	for i := 0; i < 4; i++ {
		p.Update(0.25)
	}
	assert.Equal(t, cp.Vector{X: 1, Y: 0}, p.Position())

	p.Update(0.25)
	assert.Equal(t, cp.Vector{X: -1, Y: 0}, p.Velocity())
	assert.Equal(t, cp.Vector{X: 0, Y: 0}, p.Target())
	assert.InDelta(t, 0.75, p.Position().X, 1e-9)
}

func TestMovingPlatformTurnsNearWaypoint(t *testing.T) {
	p := NewMovingPlatform(1, cp.Vector{X: 0, Y: 0}, cp.Vector{X: 1, Y: 0}, cp.Vector{X: 1, Y: 0.5}, 1)
	p.Update(0.45)
	p.Update(0.45)
	require.InDelta(t, 0.9, p.Position().X, 1e-9)

	p.Update(0.45)
	assert.InDelta(t, 0.45, p.Position().X, 1e-9)
	assert.Equal(t, cp.Vector{X: -1, Y: 0}, p.Velocity())
}

func TestMovingPlatformArrivalVelocity(t *testing.T) {
	p := NewMovingPlatform(1, cp.Vector{X: 0, Y: 0}, cp.Vector{X: 1, Y: 0}, cp.Vector{X: 1, Y: 0.5}, 1)
	p.Update(0.4)
	p.Update(0.4)
	require.InDelta(t, 0.8, p.Position().X, 1e-9)

	p.Update(0.4)
	assert.Equal(t, cp.Vector{X: 1, Y: 0}, p.Position())
	assert.InDelta(t, 0.5, p.Velocity().X, 1e-9)
	assert.InDelta(t, 0, p.Velocity().Y, 1e-9)
}

func TestMovingPlatformVelocityMatchesDisplacement(t *testing.T) {
	cases := []struct {
		name  string
		b     cp.Vector
		speed float64
		dt    float64
	}{
		{"horizontal", cp.Vector{X: 5, Y: 0}, 3, 1.0 / 60},
		{"vertical coarse step", cp.Vector{X: 0, Y: 2}, 2, 0.15},
		{"diagonal", cp.Vector{X: 3, Y: 4}, 4, 0.07},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewMovingPlatform(1, cp.Vector{}, tc.b, cp.Vector{X: 1, Y: 0.5}, tc.speed)
			for i := 0; i < 200; i++ {
				before := p.Position()
				after := p.Update(tc.dt)
				moved := p.Velocity().Mult(tc.dt)
				require.InDelta(t, after.X-before.X, moved.X, 1e-9, "frame %d", i)
				require.InDelta(t, after.Y-before.Y, moved.Y, 1e-9, "frame %d", i)
			}
		})
	}
}

func TestMovingPlatformStatic(t *testing.T) {
	cases := []struct {
		name  string
		b     cp.Vector
		speed float64
	}{
		{"same waypoints", cp.Vector{X: 0, Y: 0}, 1},
		{"zero speed", cp.Vector{X: 2, Y: 0}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewMovingPlatform(1, cp.Vector{}, tc.b, cp.Vector{X: 1, Y: 1}, tc.speed)
			assert.Equal(t, cp.Vector{}, p.Update(0.5))
			assert.Equal(t, cp.Vector{}, p.Velocity())
		})
	}
}

func TestWorldUpdateSyncsBodies(t *testing.T) {
	lvl, err := LoadFromFS(LevelsFS, "platforms.json")
	require.NoError(t, err)
	s := physics.NewSpace()
	w, err := lvl.Build(s)
	require.NoError(t, err)

	platforms := w.Platforms()
	require.Len(t, platforms, 2)
	for i := 0; i < 30; i++ {
		w.Update(1.0 / 60)
	}
	for _, p := range platforms {
		pos, ok := s.Position(p.ID())
		require.True(t, ok)
		assert.InDelta(t, p.Position().X, pos.X, 1e-9)
		assert.InDelta(t, p.Position().Y, pos.Y, 1e-9)

		got, ok := w.Platform(p.ID())
		require.True(t, ok)
		assert.Equal(t, p.Velocity(), got.Velocity())
	}

	_, ok := w.Platform(0)
	assert.False(t, ok)
}

func TestRiderStaysOnRisingPlatform(t *testing.T) {
	lvl, err := LoadFromFS(LevelsFS, "platforms.json")
	require.NoError(t, err)
	s := physics.NewSpace()
	w, err := lvl.Build(s)
	require.NoError(t, err)

	c, err := controller.New(controller.DefaultConfig(), s, controller.WithPlatforms(w))
	require.NoError(t, err)
	require.NoError(t, c.Initialize(w.Spawn()))

	const dt = 1.0 / 60
	for i := 0; i < 90; i++ {
		w.Update(dt)
		c.Step(dt, input.State{})
	}

	id, ok := c.Platform()
	require.True(t, ok)
	p, ok := w.platforms.Get(id)
	require.True(t, ok)
	require.Greater(t, p.Velocity().Y, 0.0)

	top := p.Position().Y + p.Size().Y/2
	assert.InDelta(t, top+0.5, c.Position().Y, 0.1)
	assert.True(t, c.Grounded())
}
