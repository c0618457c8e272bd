package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/kinematic/controller"
	"github.com/milk9111/kinematic/level"
	"github.com/milk9111/kinematic/physics"
	"github.com/milk9111/kinematic/prefabs"
	"github.com/sirupsen/logrus"
)

func main() {
	levelName := flag.String("level", "", "level file (embedded name or path on disk); overrides playground.yaml")
	debug := flag.Bool("debug", false, "start with probe and space debug drawing")
	verbose := flag.Bool("v", false, "log controller events")
	watch := flag.Bool("watch", true, "hot reload tuning from ./prefabs when it exists")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	spec, err := prefabs.LoadPlayground()
	if err != nil {
		log.WithError(err).Fatal("playground: load spec")
	}
	if *levelName != "" {
		spec.Level = *levelName
	}
	spec.Debug = spec.Debug || *debug

	lvl, err := loadLevel(spec.Level)
	if err != nil {
		log.WithError(err).Fatal("playground: load level")
	}
	space := physics.NewSpace(physics.WithLogger(log))
	world, err := lvl.Build(space, level.WithLogger(log))
	if err != nil {
		log.WithError(err).Fatal("playground: build level")
	}

	cfg, err := prefabs.LoadController(spec.Controller)
	if err != nil {
		log.WithError(err).Warn("playground: using default tuning")
		cfg = controller.DefaultConfig()
	}

	game, err := NewGame(spec, world, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("playground: start")
	}
	if *watch {
		game.watch(prefabs.Dir)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("kinematic playground")
	ebiten.SetTPS(spec.TPS)

	if err := ebiten.RunGame(game); err != nil {
		log.WithError(err).Fatal("playground: run")
	}
}

// loadLevel prefers a file on disk and falls back to the embedded levels.
func loadLevel(name string) (*level.Level, error) {
	if _, err := os.Stat(name); err == nil {
		return level.Load(name)
	}
	return level.LoadFromFS(level.LevelsFS, name)
}
