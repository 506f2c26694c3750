package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/avatar/config"
	"github.com/milk9111/avatar/logger"
	"github.com/milk9111/avatar/prefabs"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		logger.L().Error("invalid environment", "err", err)
		os.Exit(1)
	}

	logLevel := flag.String("log-level", env.LogLevel, "log level: debug, info, warn, error")
	logFormat := flag.String("log-format", env.LogFormat, "log format: console, text, json")
	prefabDir := flag.String("prefabs", env.PrefabDir, "prefab directory searched before the embedded prefabs")
	assetDir := flag.String("assets", env.AssetDir, "asset directory searched before the embedded models")
	character := flag.String("character", env.Character, "character prefab")
	camera := flag.String("camera", env.Camera, "camera prefab")
	hotReload := flag.Bool("hot-reload", env.HotReload, "re-apply prefab edits while running")
	tps := flag.Int("tps", env.TPS, "simulation ticks per second")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	log := logger.Init(logger.Config{Level: *logLevel, Format: *logFormat})
	prefabs.SetDir(*prefabDir)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	if *tps <= 0 {
		log.Error("tps must be positive", "tps", *tps)
		os.Exit(1)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("avatar")
	ebiten.SetTPS(*tps)

	game, err := NewGame(GameOptions{
		Character: *character,
		Camera:    *camera,
		AssetDir:  *assetDir,
		AppName:   env.AppName,
		HotReload: *hotReload,
		TPS:       *tps,
	})
	if err != nil {
		log.Error("start", "err", err)
		os.Exit(1)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Error("run", "err", err)
		os.Exit(1)
	}
}
