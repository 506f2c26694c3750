// Command simulate drives a character scene headlessly from a scripted input
// timeline and prints the per-frame state.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/milk9111/avatar/assets"
	"github.com/milk9111/avatar/common"
	"github.com/milk9111/avatar/config"
	"github.com/milk9111/avatar/ecs"
	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/ecs/system"
	"github.com/milk9111/avatar/logger"
	"github.com/milk9111/avatar/prefabs"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	character := flag.String("character", env.Character, "character prefab")
	camera := flag.String("camera", env.Camera, "camera prefab")
	prefabDir := flag.String("prefabs", env.PrefabDir, "prefab directory")
	assetDir := flag.String("assets", env.AssetDir, "asset directory")
	frames := flag.Int("frames", 60, "frames to simulate")
	dt := flag.Float64("dt", 1.0/60.0, "seconds per frame")
	script := flag.String("timeline", "", "comma separated cues, e.g. 0:w+,20:click,30:w-,40:e")
	turn := flag.String("turn", "", "override turn policy (strafe, rotate)")
	cam := flag.String("camera-policy", "", "override camera policy (orbit, fixed)")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger.Init(logger.Config{Level: *logLevel, Format: env.LogFormat, Output: os.Stderr})
	prefabs.SetDir(*prefabDir)

	tl, err := parseTimeline(*script)
	if err != nil {
		logger.L().Error("timeline", "err", err)
		os.Exit(2)
	}

	if err := run(os.Stdout, runOptions{
		Character: *character,
		Camera:    *camera,
		AssetDir:  *assetDir,
		Frames:    *frames,
		DT:        *dt,
		Timeline:  tl,
		Turn:      component.TurnPolicy(*turn),
		CamPolicy: component.CameraPolicy(*cam),
	}); err != nil {
		logger.L().Error("simulate", "err", err)
		os.Exit(1)
	}
}

type runOptions struct {
	Character string
	Camera    string
	AssetDir  string
	Frames    int
	DT        float64
	Timeline  timeline
	Turn      component.TurnPolicy
	CamPolicy component.CameraPolicy
}

func run(out io.Writer, opts runOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scene, err := system.NewScene(ctx, system.SceneConfig{
		Character: opts.Character,
		Camera:    opts.Camera,
		Provider:  assets.NewFileProvider(opts.AssetDir),
	})
	if err != nil {
		return err
	}
	defer scene.Close()

	if err := scene.WaitReady(ctx); err != nil {
		return err
	}
	scene.SetPolicies(opts.Turn, opts.CamPolicy)

	for f := 0; f < opts.Frames; f++ {
		for _, evt := range opts.Timeline[f] {
			scene.Queue.Push(evt)
		}
		scene.Update(opts.DT)
		fmt.Fprintln(out, frameLine(scene, f))
	}
	return nil
}

func frameLine(scene *system.Scene, f int) string {
	w := scene.World
	line := fmt.Sprintf("%4d", f)
	if s, ok := ecs.Get(w, scene.Character, component.ActionStateComponent.Kind()); ok {
		line += fmt.Sprintf(" %-6s moving=%-5t atk=%-5t emote=%-5t", s.Current, s.IsMoving, s.AttackInProgress, s.EmoteInProgress)
	}
	if t, ok := ecs.Get(w, scene.Character, component.TransformComponent.Kind()); ok {
		p := t.Position
		line += fmt.Sprintf(" pos=(%.3f %.3f %.3f) yaw=%.3f", p.X(), p.Y(), p.Z(), common.WrapAngle(t.Yaw))
	}
	if c, ok := ecs.Get(w, scene.Camera, component.CameraComponent.Kind()); ok {
		p := c.Position
		line += fmt.Sprintf(" cam=(%.3f %.3f %.3f)", p.X(), p.Y(), p.Z())
	}
	return line
}
