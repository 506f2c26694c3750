package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/avatar/ecs/component"
)

func TestLoadCharacterSpecEmbedded(t *testing.T) {
	SetDir(t.TempDir())
	t.Cleanup(func() { SetDir("prefabs") })

	spec, err := LoadCharacterSpec("knight.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	aliases, err := spec.Aliases()
	if err != nil {
		t.Fatalf("aliases: %v", err)
	}
	if aliases[component.RoleAttack] != "Armature|Sword_Slash" {
		t.Fatalf("attack alias = %q", aliases[component.RoleAttack])
	}
	loco := spec.NewLocomotion()
	if loco.Policy != component.TurnStrafe || loco.MoveSpeed != 0.08 || loco.Keys.Forward != "w" {
		t.Fatalf("locomotion = %+v", loco)
	}
	char := spec.NewCharacter()
	if char.EmoteTimeScale != 0.5 || char.FadeDuration != 0.2 || char.Script != "knight_playback" {
		t.Fatalf("character = %+v", char)
	}
	if b := spec.NewInputBinding(); b.AttackButton != 0 || b.EmoteKey != "e" {
		t.Fatalf("binding = %+v", b)
	}
}

func TestLoadCharacterSpecDiskOverride(t *testing.T) {
	dir := t.TempDir()
	SetDir(dir)
	t.Cleanup(func() { SetDir("prefabs") })

	body := "model: knight\nlocomotion:\n  policy: rotate\n  move_speed: 0.5\n"
	if err := os.WriteFile(filepath.Join(dir, "knight.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	spec, err := LoadCharacterSpec("prefabs/knight.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Name != "knight" {
		t.Fatalf("name should default to the model, got %q", spec.Name)
	}
	loco := spec.NewLocomotion()
	if loco.Policy != component.TurnRotate || loco.MoveSpeed != 0.5 {
		t.Fatalf("locomotion = %+v", loco)
	}
	if loco.FacingBlend != 0.2 {
		t.Fatalf("unset fields should keep defaults, got %v", loco.FacingBlend)
	}
}

func TestLoadCharacterSpecErrors(t *testing.T) {
	dir := t.TempDir()
	SetDir(dir)
	t.Cleanup(func() { SetDir("prefabs") })

	tests := []struct {
		name string
		body string
	}{
		{name: "missing.yaml"},
		{name: "nomodel.yaml", body: "name: bob\n"},
		{name: "broken.yaml", body: "model: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.body != "" {
				if err := os.WriteFile(filepath.Join(dir, tt.name), []byte(tt.body), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			if _, err := LoadCharacterSpec(tt.name); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestAliasesRejectsUnknownRole(t *testing.T) {
	spec := &CharacterSpec{Name: "x", Roles: map[string]string{"dance": "Salsa"}}
	if _, err := spec.Aliases(); err == nil {
		t.Fatalf("expected unknown role error")
	}
}

func TestCameraSpecRig(t *testing.T) {
	spec, err := LoadCameraSpec("camera.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Policy != "" {
		t.Fatalf("shipped camera should leave the policy to the character, got %q", spec.Policy)
	}
	rig := spec.NewRig()
	if rig.Policy != component.CameraOrbit || rig.MinHeight != 0.5 || rig.Offset[2] != -6 {
		t.Fatalf("rig = %+v", rig)
	}

	zero := 0.0
	flat := (&CameraSpec{Policy: "fixed", MinHeight: &zero}).NewRig()
	if flat.Policy != component.CameraFixed || flat.MinHeight != 0 || flat.LookHeight != 1.5 {
		t.Fatalf("flat rig = %+v", flat)
	}
}

func TestCleanScriptPath(t *testing.T) {
	tests := map[string]string{
		"knight_playback":                       "scripts/knight_playback.tengo",
		"scripts/knight_playback.tengo":         "scripts/knight_playback.tengo",
		"prefabs/scripts/knight_playback.tengo": "scripts/knight_playback.tengo",
		"prefabs/knight_playback":               "scripts/knight_playback.tengo",
	}
	for in, want := range tests {
		if got := cleanScriptPath(in); got != want {
			t.Errorf("cleanScriptPath(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := LoadScript("knight_playback"); err != nil {
		t.Fatalf("embedded script: %v", err)
	}
}

func TestWatcherReportsRelativeNames(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "knight.yaml"), []byte("model: knight\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case name := <-w.Events:
			if name != "knight.yaml" {
				t.Fatalf("unexpected event %q", name)
			}
			return
		case <-deadline:
			t.Fatalf("no event for knight.yaml")
		}
	}
}
