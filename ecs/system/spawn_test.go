package system

import (
	"testing"

	"github.com/milk9111/avatar/ecs"
	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/input"
	"github.com/milk9111/avatar/prefabs"
)

func TestSpawnCharacterFromPrefab(t *testing.T) {
	w := ecs.NewWorld()
	q := input.NewQueue()
	spec, err := prefabs.LoadCharacterSpec("knight.yaml")
	if err != nil {
		t.Fatal(err)
	}
	e, err := SpawnCharacter(w, q, spec)
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}

	kinds := []func() bool{
		func() bool { return ecs.Has(w, e, component.TransformComponent.Kind()) },
		func() bool { return ecs.Has(w, e, component.LocomotionComponent.Kind()) },
		func() bool { return ecs.Has(w, e, component.CharacterComponent.Kind()) },
		func() bool { return ecs.Has(w, e, component.ActionStateComponent.Kind()) },
		func() bool { return ecs.Has(w, e, component.InputStateComponent.Kind()) },
		func() bool { return ecs.Has(w, e, component.InputBindingComponent.Kind()) },
		func() bool { return ecs.Has(w, e, component.AnimatorComponent.Kind()) },
	}
	for i, has := range kinds {
		if !has() {
			t.Fatalf("component %d missing", i)
		}
	}
	animator, _ := ecs.Get(w, e, component.AnimatorComponent.Kind())
	if animator.Ready {
		t.Fatalf("animator must wait for clips")
	}
	if q.Subscribers() != 1 {
		t.Fatalf("subscribers = %d", q.Subscribers())
	}

	q.Push(input.Event{Type: input.KeyDown, Key: "W"})
	q.Dispatch()
	in, _ := ecs.Get(w, e, component.InputStateComponent.Kind())
	if !in.IsHeld("w") {
		t.Fatalf("key down not delivered")
	}
	q.Push(input.Event{Type: input.KeyUp, Key: "w"})
	q.Dispatch()
	if in.IsHeld("w") {
		t.Fatalf("key up not delivered")
	}
}

func TestSpawnCharacterRejectsNil(t *testing.T) {
	if _, err := SpawnCharacter(ecs.NewWorld(), nil, nil); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := SpawnCamera(nil, &prefabs.CameraSpec{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestApplyCharacterSpecRetunes(t *testing.T) {
	w := ecs.NewWorld()
	e, err := SpawnCharacter(w, nil, &prefabs.CharacterSpec{Name: "knight", Model: "knight"})
	if err != nil {
		t.Fatal(err)
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	tr.Position[0] = 7

	ApplyCharacterSpec(w, e, &prefabs.CharacterSpec{
		Name:       "knight",
		Model:      "knight",
		Locomotion: prefabs.LocomotionSpec{Policy: "rotate", MoveSpeed: 0.3},
		Action:     prefabs.ActionSpec{FadeDuration: 0.5},
		Input:      prefabs.InputSpec{EmoteKey: "q"},
	})

	loco, _ := ecs.Get(w, e, component.LocomotionComponent.Kind())
	if loco.Policy != component.TurnRotate || loco.MoveSpeed != 0.3 {
		t.Fatalf("locomotion = %+v", loco)
	}
	char, _ := ecs.Get(w, e, component.CharacterComponent.Kind())
	if char.FadeDuration != 0.5 {
		t.Fatalf("fade = %v", char.FadeDuration)
	}
	binding, _ := ecs.Get(w, e, component.InputBindingComponent.Kind())
	if binding.EmoteKey != "q" {
		t.Fatalf("emote key = %q", binding.EmoteKey)
	}
	if tr.Position[0] != 7 {
		t.Fatalf("reload must not move the character")
	}
}

func TestDetachInputReleasesKeys(t *testing.T) {
	w := ecs.NewWorld()
	q := input.NewQueue()
	e, err := SpawnCharacter(w, q, &prefabs.CharacterSpec{Name: "knight", Model: "knight"})
	if err != nil {
		t.Fatal(err)
	}
	q.Push(input.Event{Type: input.KeyDown, Key: "w"})
	q.Dispatch()
	in, _ := ecs.Get(w, e, component.InputStateComponent.Kind())
	if !in.IsHeld("w") {
		t.Fatal("w should be held")
	}

	if !DetachInput(w, e) {
		t.Fatal("detach should report the removed binding")
	}
	if ecs.Has(w, e, component.InputBindingComponent.Kind()) {
		t.Fatal("binding still attached")
	}
	if in.IsHeld("w") {
		t.Fatal("held keys should be released")
	}
	if q.Subscribers() != 0 {
		t.Fatalf("subscribers = %d", q.Subscribers())
	}
	if DetachInput(w, e) {
		t.Fatal("second detach should be a no-op")
	}
}
