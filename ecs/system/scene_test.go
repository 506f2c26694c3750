package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/avatar/assets"
	"github.com/milk9111/avatar/ecs"
	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/input"
	"github.com/milk9111/avatar/prefabs"
)

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	prefabs.SetDir(t.TempDir())
	t.Cleanup(func() { prefabs.SetDir("prefabs") })

	s, err := NewScene(context.Background(), SceneConfig{
		Character: "knight.yaml",
		Camera:    "camera.yaml",
		Provider:  assets.NewFileProvider(""),
	})
	if err != nil {
		t.Fatalf("new scene: %v", err)
	}
	if err := s.WaitReady(context.Background()); err != nil {
		t.Fatalf("wait ready: %v", err)
	}
	return s
}

func TestSceneBindsKnightClips(t *testing.T) {
	s := newTestScene(t)
	if !s.Ready() {
		t.Fatalf("scene should be ready")
	}
	animator, _ := ecs.Get(s.World, s.Character, component.AnimatorComponent.Kind())
	for _, role := range component.Roles {
		if !animator.Bound(role) {
			t.Fatalf("%v not bound", role)
		}
	}

	s.Update(testDT)
	s.Queue.Push(input.Event{Type: input.MouseDown, Button: input.MouseLeft})
	s.Update(testDT)
	state, _ := ecs.Get(s.World, s.Character, component.ActionStateComponent.Kind())
	if state.Current != component.RoleAttack {
		t.Fatalf("current = %v, want attack", state.Current)
	}

	// knight script speeds up movement
	s.Update(1)
	s.Queue.Push(input.Event{Type: input.KeyDown, Key: "w"})
	s.Update(testDT)
	if state.Current != component.RoleMove {
		t.Fatalf("current = %v, want move", state.Current)
	}
	if got := animator.Action(component.RoleMove).TimeScale(); got != 1.25 {
		t.Fatalf("move time scale = %v, want 1.25", got)
	}
}

func TestSceneReloadKeepsPolicyOverride(t *testing.T) {
	s := newTestScene(t)
	s.SetPolicies(component.TurnRotate, component.CameraFixed)

	body := "name: knight\nmodel: knight\nlocomotion:\n  policy: strafe\n  move_speed: 0.5\n"
	if err := os.WriteFile(filepath.Join(prefabs.Dir(), "knight.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	s.Reload("knight.yaml")

	loco, _ := ecs.Get(s.World, s.Character, component.LocomotionComponent.Kind())
	if loco.MoveSpeed != 0.5 {
		t.Fatalf("move speed = %v, want reloaded 0.5", loco.MoveSpeed)
	}
	turn, camera := s.Policies()
	if turn != component.TurnRotate || camera != component.CameraFixed {
		t.Fatalf("policies = %v/%v, overrides lost", turn, camera)
	}

	// broken edits keep the previous tuning
	if err := os.WriteFile(filepath.Join(prefabs.Dir(), "knight.yaml"), []byte("model: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s.Reload("knight.yaml")
	if loco.MoveSpeed != 0.5 {
		t.Fatalf("broken reload changed tuning")
	}
}

func TestSceneCloseUnsubscribes(t *testing.T) {
	s := newTestScene(t)
	if s.Queue.Subscribers() != 1 {
		t.Fatalf("subscribers = %d", s.Queue.Subscribers())
	}
	s.Close()
	if s.Queue.Subscribers() != 0 {
		t.Fatalf("subscription leaked")
	}
}

func TestSceneUnknownModel(t *testing.T) {
	dir := t.TempDir()
	prefabs.SetDir(dir)
	t.Cleanup(func() { prefabs.SetDir("prefabs") })
	if err := os.WriteFile(filepath.Join(dir, "ghost.yaml"), []byte("model: ghost\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewScene(context.Background(), SceneConfig{Character: "ghost.yaml", Camera: "camera.yaml", Provider: assets.NewFileProvider("")})
	if err != nil {
		t.Fatalf("new scene: %v", err)
	}
	if err := s.WaitReady(context.Background()); err == nil {
		t.Fatalf("expected unknown model error")
	}
	s.Update(testDT)
	if s.Ready() {
		t.Fatalf("scene must stay gated")
	}
}

func TestSceneReloadModelRebinds(t *testing.T) {
	prefabs.SetDir(t.TempDir())
	t.Cleanup(func() { prefabs.SetDir("prefabs") })
	assetDir := t.TempDir()

	ctx := context.Background()
	s, err := NewScene(ctx, SceneConfig{
		Character: "knight.yaml",
		Camera:    "camera.yaml",
		Provider:  assets.NewFileProvider(assetDir),
	})
	if err != nil {
		t.Fatalf("new scene: %v", err)
	}
	if err := s.WaitReady(ctx); err != nil {
		t.Fatalf("wait ready: %v", err)
	}
	s.Update(testDT)
	s.Queue.Push(input.Event{Type: input.MouseDown, Button: input.MouseLeft})
	s.Update(testDT)
	state, _ := ecs.Get(s.World, s.Character, component.ActionStateComponent.Kind())
	if !state.AttackInProgress {
		t.Fatal("attack should be playing before the reload")
	}

	manifest := `name: knight
clips:
  - name: Armature|Idle_Loop
    duration: 4
  - name: Armature|Run
    duration: 0.75
  - name: Armature|Sword_Slash
    duration: 0.5
    loop: once
  - name: Armature|Wave
    duration: 1.5
    loop: once
`
	if err := os.MkdirAll(filepath.Join(assetDir, "models"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(assetDir, "models", "knight.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	if s.ReloadModel("golem.yaml") {
		t.Fatal("another character's model should be ignored")
	}
	if !s.ReloadModel("knight.yaml") {
		t.Fatal("knight manifest should reload")
	}
	if err := s.WaitReady(ctx); err != nil {
		t.Fatalf("wait reload: %v", err)
	}

	animator, _ := ecs.Get(s.World, s.Character, component.AnimatorComponent.Kind())
	if got := animator.Action(component.RoleIdle).Clip().Duration; got != 4 {
		t.Fatalf("idle duration = %v, want edited 4", got)
	}
	if state.AttackInProgress || state.AttackDone != nil {
		t.Fatalf("abandoned attack left behind: %+v", *state)
	}
	s.Update(testDT)
	if state.Current != component.RoleIdle {
		t.Fatalf("current = %v, want idle on the new clips", state.Current)
	}
}

func TestSceneReloadScript(t *testing.T) {
	s := newTestScene(t)
	if got, ok := s.Scripts.TimeScale("knight_playback", component.RoleMove, "knight"); !ok || got != 1.25 {
		t.Fatalf("embedded move = (%v, %v)", got, ok)
	}

	dir := filepath.Join(prefabs.Dir(), "scripts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	src := "time_scale := func(role, character) { return 2.0 }\n"
	if err := os.WriteFile(filepath.Join(dir, "knight_playback.tengo"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	s.Reload("scripts/knight_playback.tengo")

	if got, ok := s.Scripts.TimeScale("knight_playback", component.RoleMove, "knight"); !ok || got != 2 {
		t.Fatalf("reloaded move = (%v, %v), want 2", got, ok)
	}
}

func TestSceneCameraFollowsTurnPolicy(t *testing.T) {
	s := newTestScene(t)
	tests := []struct {
		name       string
		turn       component.TurnPolicy
		camera     component.CameraPolicy
		wantTurn   component.TurnPolicy
		wantCamera component.CameraPolicy
	}{
		{name: "prefab strafe pairs with fixed", wantTurn: component.TurnStrafe, wantCamera: component.CameraFixed},
		{name: "rotate pairs with orbit", turn: component.TurnRotate, wantTurn: component.TurnRotate, wantCamera: component.CameraOrbit},
		{name: "explicit camera wins", turn: component.TurnStrafe, camera: component.CameraOrbit, wantTurn: component.TurnStrafe, wantCamera: component.CameraOrbit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetPolicies(tt.turn, tt.camera)
			turn, camera := s.Policies()
			if turn != tt.wantTurn || camera != tt.wantCamera {
				t.Fatalf("policies = %v/%v, want %v/%v", turn, camera, tt.wantTurn, tt.wantCamera)
			}
		})
	}
}
