package system

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/milk9111/avatar/assets"
	"github.com/milk9111/avatar/ecs"
	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/input"
	"github.com/milk9111/avatar/logger"
	"github.com/milk9111/avatar/prefabs"
)

// NewFrameScheduler wires the per-frame pipeline: input dispatch, locomotion,
// action selection, playback, camera.
func NewFrameScheduler(q *input.Queue, action *ActionSystem) *ecs.Scheduler {
	return ecs.NewScheduler(
		NewInputSystem(q),
		NewLocomotionSystem(),
		action,
		NewMixerSystem(),
		NewFollowCameraSystem(),
	)
}

// SceneConfig names the prefabs a scene is built from.
type SceneConfig struct {
	Character string
	Camera    string
	Provider  assets.Provider
}

// Scene is one controllable character and its follow camera.
type Scene struct {
	World     *ecs.World
	Queue     *input.Queue
	Scheduler *ecs.Scheduler
	Scripts   *PlaybackScripts
	Action    *ActionSystem
	Character ecs.Entity
	Camera    ecs.Entity

	ctx     context.Context
	cfg     SceneConfig
	spec    *prefabs.CharacterSpec
	camSpec *prefabs.CameraSpec
	pending <-chan assets.Result
	ready   bool
	log     *slog.Logger

	// player overrides; empty means the prefab decides
	turn   component.TurnPolicy
	camera component.CameraPolicy
}

// NewScene spawns the character and camera and starts loading the model in
// the background. The character animates once the load completes.
func NewScene(ctx context.Context, cfg SceneConfig) (*Scene, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("scene: no asset provider")
	}
	charSpec, err := prefabs.LoadCharacterSpec(cfg.Character)
	if err != nil {
		return nil, err
	}
	camSpec, err := prefabs.LoadCameraSpec(cfg.Camera)
	if err != nil {
		return nil, err
	}
	if camSpec.Target == "" {
		camSpec.Target = charSpec.Name
	}

	s := &Scene{
		World:   ecs.NewWorld(),
		Queue:   input.NewQueue(),
		Scripts: NewPlaybackScripts(),
		ctx:     ctx,
		cfg:     cfg,
		spec:    charSpec,
		camSpec: camSpec,
		log:     logger.L().With("system", "scene"),
	}
	s.Action = NewActionSystem(s.Scripts)
	s.Scheduler = NewFrameScheduler(s.Queue, s.Action)

	if s.Character, err = SpawnCharacter(s.World, s.Queue, charSpec); err != nil {
		return nil, err
	}
	if err := ecs.Add(s.World, s.Character, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		return nil, fmt.Errorf("scene: tag player: %w", err)
	}
	if s.Camera, err = SpawnCamera(s.World, camSpec); err != nil {
		return nil, err
	}

	s.SetPolicies("", "")
	s.loadModel()
	return s, nil
}

// loadModel starts loading the character's model. The current clips keep
// playing until the new ones bind.
func (s *Scene) loadModel() {
	s.pending = assets.LoadAsync(s.ctx, s.cfg.Provider, s.spec.Model)
}

// Ready reports whether the character's clips have been bound.
func (s *Scene) Ready() bool {
	return s.ready
}

// WaitReady blocks until the pending model load finished.
func (s *Scene) WaitReady(ctx context.Context) error {
	if s.pending == nil {
		return nil
	}
	select {
	case r, ok := <-s.pending:
		if !ok {
			return nil
		}
		return s.bind(r)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Update runs one frame of dt seconds.
func (s *Scene) Update(dt float64) {
	s.pollAssets()
	s.Scheduler.Update(s.World, dt)
}

func (s *Scene) pollAssets() {
	if s.pending == nil {
		return
	}
	select {
	case r, ok := <-s.pending:
		if !ok {
			s.pending = nil
			return
		}
		if err := s.bind(r); err != nil {
			s.log.Error("model load failed", "model", r.ID, "err", err)
		}
	default:
	}
}

func (s *Scene) bind(r assets.Result) error {
	s.pending = nil
	if r.Err != nil {
		return r.Err
	}
	aliases, err := s.spec.Aliases()
	if err != nil {
		return err
	}
	clips, err := assets.BindRoles(r.Bundle, aliases)
	if err != nil {
		return err
	}
	for _, role := range component.Roles {
		if _, ok := clips[role]; !ok {
			s.log.Warn("role has no clip", "model", r.ID, "role", role.String())
		}
	}
	if s.ready {
		s.Action.Forget(s.Character)
	}
	if err := AttachClips(s.World, s.Character, clips); err != nil {
		return err
	}
	s.ready = true
	s.log.Info("model ready", "model", r.ID, "clips", len(clips))
	return nil
}

// Reload re-applies an edited prefab or script, named relative to the prefab
// directory. Errors are logged; the previous tuning stays in effect.
func (s *Scene) Reload(name string) {
	if prefabs.IsScript(name) {
		s.Scripts.Invalidate(name)
		s.log.Info("playback script reloaded", "file", name)
		return
	}
	switch prefabs.Clean(name) {
	case prefabs.Clean(s.cfg.Character):
		spec, err := prefabs.LoadCharacterSpec(name)
		if err != nil {
			s.log.Warn("reload character failed", "file", name, "err", err)
			return
		}
		ApplyCharacterSpec(s.World, s.Character, spec)
		s.SetPolicies(s.turn, s.camera)
		prev := s.spec
		s.spec = spec
		s.log.Info("character reloaded", "file", name)
		if assets.ModelID(prev.Model) != assets.ModelID(spec.Model) || !maps.Equal(prev.Roles, spec.Roles) {
			s.loadModel()
		}
	case prefabs.Clean(s.cfg.Camera):
		spec, err := prefabs.LoadCameraSpec(name)
		if err != nil {
			s.log.Warn("reload camera failed", "file", name, "err", err)
			return
		}
		if spec.Target == "" {
			spec.Target = s.spec.Name
		}
		ApplyCameraSpec(s.World, s.Camera, spec)
		s.camSpec = spec
		s.SetPolicies(s.turn, s.camera)
		s.log.Info("camera reloaded", "file", name)
	}
}

// ReloadModel re-reads an edited model manifest, named relative to the
// models directory. It reports whether the manifest belongs to the character.
func (s *Scene) ReloadModel(name string) bool {
	id := assets.ModelID(name)
	if id != assets.ModelID(s.spec.Model) {
		return false
	}
	if inv, ok := s.cfg.Provider.(assets.Invalidator); ok {
		inv.Invalidate(id)
	}
	s.loadModel()
	s.log.Info("model reloading", "model", id)
	return true
}

// SetPolicies overrides the turn and camera policies, also across prefab
// reloads. Invalid values leave the prefab's policy alone. A camera whose
// prefab names no policy follows the character's turn policy.
func (s *Scene) SetPolicies(turn component.TurnPolicy, camera component.CameraPolicy) {
	s.turn, s.camera = turn, camera
	loco, hasLoco := ecs.Get(s.World, s.Character, component.LocomotionComponent.Kind())
	if hasLoco && turn.Valid() {
		loco.Policy = turn
	}
	rig, ok := ecs.Get(s.World, s.Camera, component.CameraRigComponent.Kind())
	if !ok {
		return
	}
	switch {
	case camera.Valid():
		rig.Policy = camera
	case hasLoco && !component.CameraPolicy(s.camSpec.Policy).Valid():
		rig.Policy = loco.Policy.CameraPolicy()
	}
}

// Policies returns the live turn and camera policies.
func (s *Scene) Policies() (component.TurnPolicy, component.CameraPolicy) {
	turn, camera := component.TurnStrafe, component.CameraOrbit
	if loco, ok := ecs.Get(s.World, s.Character, component.LocomotionComponent.Kind()); ok {
		turn = loco.Policy
	}
	if rig, ok := ecs.Get(s.World, s.Camera, component.CameraRigComponent.Kind()); ok {
		camera = rig.Policy
	}
	return turn, camera
}

// Close despawns the character.
func (s *Scene) Close() {
	s.Action.Forget(s.Character)
	DespawnCharacter(s.World, s.Character)
}
