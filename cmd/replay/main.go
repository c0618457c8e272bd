// Command replay runs a level headlessly for a fixed number of frames with
// input from a tengo script and reports events and the final actor state.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/milk9111/kinematic/controller"
	"github.com/milk9111/kinematic/events"
	"github.com/milk9111/kinematic/level"
	"github.com/milk9111/kinematic/physics"
	"github.com/milk9111/kinematic/prefabs"
	"github.com/milk9111/kinematic/script"
	"github.com/sirupsen/logrus"
)

type options struct {
	level   string
	tuning  string
	script  string
	frames  int
	tps     int
	json    bool
	verbose bool
}

func main() {
	var opts options
	flag.StringVar(&opts.level, "level", "playground.json", "level file (embedded name or path on disk)")
	flag.StringVar(&opts.tuning, "tuning", prefabs.ControllerSpecFile, "controller tuning spec")
	flag.StringVar(&opts.script, "script", "walk_jump.tengo", "tengo input script")
	flag.IntVar(&opts.frames, "frames", 600, "frames to simulate")
	flag.IntVar(&opts.tps, "tps", 60, "simulation ticks per second")
	flag.BoolVar(&opts.json, "json", false, "log as JSON")
	flag.BoolVar(&opts.verbose, "v", false, "log per-frame debug output")
	flag.Parse()

	log := logrus.New()
	if opts.json {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	res, err := run(opts, log)
	if err != nil {
		log.WithError(err).Fatal("replay: failed")
	}
	res.print(os.Stdout)
}

type result struct {
	frames   int
	events   map[events.Kind]int
	ctrl     *controller.Controller
	scriptOK bool
}

func run(opts options, log logrus.FieldLogger) (*result, error) {
	if opts.frames <= 0 || opts.tps <= 0 {
		return nil, fmt.Errorf("replay: frames and tps must be positive")
	}
	dt := 1 / float64(opts.tps)

	lvl, err := loadLevel(opts.level)
	if err != nil {
		return nil, err
	}
	space := physics.NewSpace(physics.WithLogger(log))
	world, err := lvl.Build(space, level.WithLogger(log))
	if err != nil {
		return nil, err
	}

	cfg, err := prefabs.LoadController(opts.tuning)
	if err != nil {
		return nil, err
	}

	src, err := prefabs.LoadScript(opts.script)
	if err != nil {
		return nil, fmt.Errorf("replay: script %s: %w", opts.script, err)
	}
	in, err := script.NewSource(src, script.WithTimeStep(dt), script.WithLogger(log))
	if err != nil {
		return nil, err
	}

	ctrl, err := controller.New(cfg, space,
		controller.WithLogger(log),
		controller.WithPlatforms(world),
		controller.WithInput(in),
	)
	if err != nil {
		return nil, err
	}
	if err := ctrl.Initialize(world.Spawn()); err != nil {
		return nil, err
	}
	defer ctrl.Shutdown()

	res := &result{events: make(map[events.Kind]int), ctrl: ctrl}
	for _, k := range events.Kinds() {
		ctrl.Events().Subscribe(k, func(e events.Event) {
			res.events[e.Kind]++
			entry := log.WithFields(logrus.Fields{
				"frame": ctrl.Frame(),
				"event": e.Kind,
				"x":     e.Position.X,
				"y":     e.Position.Y,
			})
			if name, ok := world.Interactable(e.Object); ok {
				entry = entry.WithField("object", name)
			}
			entry.Info("replay: event")
		})
	}

	for res.frames < opts.frames {
		in.Observe(ctrl.Position(), ctrl.Velocity(), ctrl.Grounded())
		world.Update(dt)
		ctrl.Tick(dt)
		res.frames++
		if in.Err() != nil {
			log.WithError(in.Err()).Warn("replay: script stopped, continuing with idle input")
			break
		}
	}
	// finish the run on idle input
	for ; res.frames < opts.frames; res.frames++ {
		world.Update(dt)
		ctrl.Tick(dt)
	}
	res.scriptOK = in.Err() == nil
	return res, nil
}

func (r *result) print(w io.Writer) {
	pos, vel := r.ctrl.Position(), r.ctrl.Velocity()
	fmt.Fprintf(w, "frames    %d\n", r.frames)
	fmt.Fprintf(w, "position  %.4f %.4f\n", pos.X, pos.Y)
	fmt.Fprintf(w, "velocity  %.4f %.4f\n", vel.X, vel.Y)
	fmt.Fprintf(w, "grounded  %v\n", r.ctrl.Grounded())
	fmt.Fprintf(w, "on wall   %v\n", r.ctrl.OnWall())
	fmt.Fprintf(w, "script ok %v\n", r.scriptOK)
	for _, k := range events.Kinds() {
		fmt.Fprintf(w, "%-24s %d\n", k, r.events[k])
	}
}

func loadLevel(name string) (*level.Level, error) {
	if _, err := os.Stat(name); err == nil {
		return level.Load(name)
	}
	return level.LoadFromFS(level.LevelsFS, name)
}
