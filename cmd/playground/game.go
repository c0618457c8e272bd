package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/kinematic/controller"
	"github.com/milk9111/kinematic/events"
	"github.com/milk9111/kinematic/input"
	"github.com/milk9111/kinematic/level"
	"github.com/milk9111/kinematic/prefabs"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/basicfont"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	eventHistory = 6
	cameraEase   = 0.15
)

type Game struct {
	spec  prefabs.PlaygroundSpec
	world *level.World
	ctrl  *controller.Controller
	buf   *input.Buffer
	dev   *devices
	cam   camera
	log   logrus.FieldLogger

	watcher *prefabs.Watcher
	face    ebtext.Face
	debug   bool
	frames  int
	recent  []string
}

func NewGame(spec prefabs.PlaygroundSpec, world *level.World, cfg controller.Config, log logrus.FieldLogger) (*Game, error) {
	buf := &input.Buffer{}
	ctrl, err := controller.New(cfg, world.Space(),
		controller.WithLogger(log),
		controller.WithPlatforms(world),
		controller.WithInput(buf),
	)
	if err != nil {
		return nil, err
	}
	if err := ctrl.Initialize(world.Spawn()); err != nil {
		return nil, err
	}

	g := &Game{
		spec:  spec,
		world: world,
		ctrl:  ctrl,
		buf:   buf,
		dev:   newDevices(buf, spec.Keys, spec.Gamepad, log),
		cam:   camera{center: world.Spawn(), scale: spec.Scale, width: baseWidth, height: baseHeight},
		log:   log,
		face:  ebtext.NewGoXFace(basicfont.Face7x13),
		debug: spec.Debug,
	}
	for _, k := range events.Kinds() {
		ctrl.Events().Subscribe(k, g.onEvent)
	}
	return g, nil
}

func (g *Game) onEvent(e events.Event) {
	msg := string(e.Kind)
	if e.Kind == events.InteractableTriggered {
		if name, ok := g.world.Interactable(e.Object); ok {
			msg += " " + name
		}
	}
	g.recent = append(g.recent, fmt.Sprintf("%5d %s", g.ctrl.Frame(), msg))
	if len(g.recent) > eventHistory {
		g.recent = g.recent[len(g.recent)-eventHistory:]
	}
}

// watch starts hot reload of the tuning files in dir.
func (g *Game) watch(dir string) {
	w, err := prefabs.Watch(g.log, dir)
	if err != nil {
		g.log.WithError(err).WithField("dir", dir).Info("playground: hot reload disabled")
		return
	}
	g.watcher = w
	g.log.WithField("dir", dir).Info("playground: watching tuning")
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.ctrl.Shutdown()
}

func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change := <-g.watcher.Events:
			if change.Kind != prefabs.ChangeSpec || change.Name != filepath.Base(g.spec.Controller) {
				continue
			}
			cfg, err := prefabs.LoadController(g.spec.Controller)
			if err != nil {
				g.log.WithError(err).Warn("playground: tuning reload failed")
				continue
			}
			_ = g.ctrl.Reconfigure(cfg)
		case err := <-g.watcher.Errors:
			g.log.WithError(err).Warn("playground: watcher")
		default:
			return
		}
	}
}

func (g *Game) Update() error {
	g.frames++
	g.reload()

	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}
	if g.dev.update() {
		if err := g.ctrl.Initialize(g.world.Spawn()); err != nil {
			return err
		}
	}

	dt := 1 / float64(ebiten.TPS())
	g.world.Update(dt)
	g.ctrl.Tick(dt)
	g.cam.follow(g.ctrl.Position(), g.world.Bounds(), cameraEase)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	colors := g.spec.Colors
	screen.Fill(colors.Background)

	drawSpace(screen, &g.cam, g.world.Space().CP(), colors.Probe)
	for _, p := range g.world.Platforms() {
		pos, half := p.Position(), p.Size().Mult(0.5)
		x, y, w, h := g.cam.rect(bbAround(pos, half))
		vector.FillRect(screen, x, y, w, h, colors.Platform, false)
	}

	size := g.ctrl.Config().Collision.Size
	x, y, w, h := g.cam.rect(bbAround(g.ctrl.Position(), size.Mult(0.5)))
	vector.FillRect(screen, x, y, w, h, colors.Actor, false)

	if g.debug {
		drawProbes(screen, &g.cam, g.ctrl, colors.Probe, colors.Hit)
	}
	g.drawHUD(screen)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	m := g.ctrl.Machine()
	pos, vel := g.ctrl.Position(), g.ctrl.RawVelocity()
	lines := []string{
		fmt.Sprintf("FPS %.1f  frame %d", ebiten.ActualFPS(), g.ctrl.Frame()),
		fmt.Sprintf("pos %6.2f %6.2f  vel %6.2f %6.2f", pos.X, pos.Y, vel.X, vel.Y),
		fmt.Sprintf("grounded %v  wall %v  grab %v  dash %v", g.ctrl.Grounded(), g.ctrl.OnWall(), m.Grabbing(), m.Dashing()),
	}
	if id, ok := g.ctrl.Platform(); ok {
		ext := g.ctrl.ExternalVelocity()
		lines = append(lines, fmt.Sprintf("platform %s  %.2f %.2f", id, ext.X, ext.Y))
	}
	if g.debug {
		t := m.Timers()
		lines = append(lines, fmt.Sprintf("buffer %.2f coyote %.2f stick %.2f grab %.2f dash %.2f",
			t.JumpBuffer, t.Coyote, t.WallStick, t.WallGrab, t.Dash))
	}
	lines = append(lines, "")
	lines = append(lines, g.recent...)

	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(10, 10)
	op.ColorScale.ScaleWithColor(g.spec.Colors.Text)
	op.LineSpacing = 16
	ebtext.Draw(screen, strings.Join(lines, "\n"), g.face, op)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
