package main

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/avatar/assets"
	"github.com/milk9111/avatar/config"
	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/ecs/system"
	"github.com/milk9111/avatar/input"
	"github.com/milk9111/avatar/logger"
	"github.com/milk9111/avatar/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type GameOptions struct {
	Character string
	Camera    string
	AssetDir  string
	AppName   string
	HotReload bool
	TPS       int
}

type Game struct {
	frames int

	scene    *system.Scene
	poller   *input.EbitenPoller
	watcher  *prefabs.Watcher
	models   *prefabs.Watcher
	settings *config.SettingsManager
	cancel   context.CancelFunc
	dt       float64

	paused  bool
	pauseUI *ebitenui.UI

	log *slog.Logger
}

func NewGame(opts GameOptions) (*Game, error) {
	log := logger.L().With("system", "game")
	ctx, cancel := context.WithCancel(context.Background())

	scene, err := system.NewScene(ctx, system.SceneConfig{
		Character: opts.Character,
		Camera:    opts.Camera,
		Provider:  assets.NewFileProvider(opts.AssetDir),
	})
	if err != nil {
		cancel()
		return nil, err
	}

	storage, err := config.OpenStorage(opts.AppName)
	if err != nil {
		log.Warn("settings storage unavailable", "err", err)
	}
	settings := config.NewSettingsManager(storage)
	s := settings.Settings()
	scene.SetPolicies(s.Turn, s.Camera)

	g := &Game{
		scene:    scene,
		poller:   input.NewEbitenPoller(scene.Queue),
		settings: settings,
		cancel:   cancel,
		dt:       1 / float64(opts.TPS),
		log:      log,
	}

	if opts.HotReload {
		w, err := prefabs.NewWatcher(prefabs.Dir())
		if err != nil {
			log.Warn("hot reload disabled", "dir", prefabs.Dir(), "err", err)
		} else {
			g.watcher = w
		}
		modelDir := filepath.Join(opts.AssetDir, "models")
		if m, err := prefabs.NewWatcher(modelDir); err != nil {
			log.Debug("model hot reload disabled", "dir", modelDir, "err", err)
		} else {
			g.models = m
		}
	}

	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if g.paused {
			g.resume()
		} else {
			g.paused = true
		}
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.frames++
	g.applyReloads()
	g.poller.Poll()
	g.scene.Update(g.dt)
	return nil
}

func (g *Game) resume() {
	g.paused = false
	// releases during the pause were never polled
	if n := g.poller.Resync(ebiten.IsKeyPressed); n > 0 {
		g.log.Debug("released keys lifted during pause", "count", n)
	}
}

func (g *Game) applyReloads() {
	if g.watcher != nil {
		for _, name := range g.watcher.Poll() {
			g.scene.Reload(name)
		}
		g.drainWatchErrors(g.watcher, "prefab watcher")
	}
	if g.models != nil {
		for _, name := range g.models.Poll() {
			g.scene.ReloadModel(name)
		}
		g.drainWatchErrors(g.models, "model watcher")
	}
}

func (g *Game) drainWatchErrors(w *prefabs.Watcher, msg string) {
	select {
	case err := <-w.Errors:
		g.log.Warn(msg, "err", err)
	default:
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawScene(screen, g.scene, g.frames)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// ToggleTurn flips the turn policy and persists the choice.
func (g *Game) ToggleTurn() component.TurnPolicy {
	turn, _ := g.scene.Policies()
	turn = turn.Toggle()
	g.settings.SetTurn(turn)
	g.scene.SetPolicies(turn, g.settings.Settings().Camera)
	g.saveSettings()
	return turn
}

// ToggleCamera flips the camera policy and persists the choice.
func (g *Game) ToggleCamera() component.CameraPolicy {
	_, camera := g.scene.Policies()
	camera = camera.Toggle()
	g.settings.SetCamera(camera)
	g.scene.SetPolicies(g.settings.Settings().Turn, camera)
	g.saveSettings()
	return camera
}

func (g *Game) saveSettings() {
	if err := g.settings.Save(); err != nil {
		g.log.Warn("save settings", "err", err)
	}
}

func (g *Game) Close() {
	g.cancel()
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.models != nil {
		_ = g.models.Close()
	}
	g.scene.Close()
}
