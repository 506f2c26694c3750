package system

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/avatar/anim"
	"github.com/milk9111/avatar/ecs"
	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/input"
	"github.com/milk9111/avatar/prefabs"
)

// SpawnCharacter creates a character from its prefab and subscribes it to
// src. The animator starts without clips; call AttachClips once the model
// has loaded.
func SpawnCharacter(w *ecs.World, src input.Source, spec *prefabs.CharacterSpec) (ecs.Entity, error) {
	if w == nil || spec == nil {
		return 0, fmt.Errorf("spawn character: nil world or spec")
	}
	e := ecs.CreateEntity(w)

	binding := spec.NewInputBinding()
	adds := []func() error{
		func() error { return ecs.Add(w, e, component.TransformComponent.Kind(), spec.NewTransform()) },
		func() error { return ecs.Add(w, e, component.LocomotionComponent.Kind(), spec.NewLocomotion()) },
		func() error { return ecs.Add(w, e, component.CharacterComponent.Kind(), spec.NewCharacter()) },
		func() error { return ecs.Add(w, e, component.ActionStateComponent.Kind(), &component.ActionState{}) },
		func() error { return ecs.Add(w, e, component.InputStateComponent.Kind(), component.NewInputState()) },
		func() error { return ecs.Add(w, e, component.AnimatorComponent.Kind(), &component.Animator{}) },
		func() error { return ecs.Add(w, e, component.InputBindingComponent.Kind(), binding) },
	}
	for _, add := range adds {
		if err := add(); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("spawn character %s: %w", spec.Name, err)
		}
	}

	if src != nil {
		binding.Subscription = src.Subscribe(characterInputHandler(w, e, inputLogger()))
	}
	return e, nil
}

// AttachClips builds the animator from role-bound clips and opens the
// readiness gate. Attaching over a live animator drops the old mixer, so any
// one-shot it was playing is abandoned and selection starts over.
func AttachClips(w *ecs.World, e ecs.Entity, clips map[component.Role]*anim.Clip) error {
	if state, ok := ecs.Get(w, e, component.ActionStateComponent.Kind()); ok {
		state.CancelAttack()
		state.CancelEmote()
		held := state.IsMoving
		*state = component.ActionState{IsMoving: held}
	}
	if err := ecs.Add(w, e, component.AnimatorComponent.Kind(), component.NewAnimator(clips)); err != nil {
		return fmt.Errorf("attach clips: %w", err)
	}
	return nil
}

// DetachInput unsubscribes e from its input source and drops its binding.
// Held keys are released so the character stops.
func DetachInput(w *ecs.World, e ecs.Entity) bool {
	binding, ok := ecs.Get(w, e, component.InputBindingComponent.Kind())
	if !ok {
		return false
	}
	binding.Subscription.Unsubscribe()
	binding.Subscription = nil
	if in, ok := ecs.Get(w, e, component.InputStateComponent.Kind()); ok {
		clear(in.Held)
	}
	return ecs.Remove(w, e, component.InputBindingComponent.Kind())
}

// DespawnCharacter unsubscribes e from its input source, drops its pending
// completion listeners and destroys it.
func DespawnCharacter(w *ecs.World, e ecs.Entity) bool {
	DetachInput(w, e)
	if state, ok := ecs.Get(w, e, component.ActionStateComponent.Kind()); ok {
		state.CancelAttack()
		state.CancelEmote()
	}
	return ecs.DestroyEntity(w, e)
}

// ApplyCharacterSpec re-applies tuning from an edited prefab to a live
// character. Position, playback and held keys are left alone.
func ApplyCharacterSpec(w *ecs.World, e ecs.Entity, spec *prefabs.CharacterSpec) {
	if spec == nil {
		return
	}
	if loco, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok {
		*loco = *spec.NewLocomotion()
	}
	if char, ok := ecs.Get(w, e, component.CharacterComponent.Kind()); ok {
		*char = *spec.NewCharacter()
	}
	if binding, ok := ecs.Get(w, e, component.InputBindingComponent.Kind()); ok {
		next := spec.NewInputBinding()
		binding.AttackButton = next.AttackButton
		binding.EmoteKey = next.EmoteKey
	}
}

// SpawnCamera creates the follow camera from its prefab.
func SpawnCamera(w *ecs.World, spec *prefabs.CameraSpec) (ecs.Entity, error) {
	if w == nil || spec == nil {
		return 0, fmt.Errorf("spawn camera: nil world or spec")
	}
	e := ecs.CreateEntity(w)
	cam := &component.Camera{TargetName: spec.Target, Orientation: mgl64.QuatIdent()}
	if err := ecs.Add(w, e, component.CameraComponent.Kind(), cam); err != nil {
		return 0, fmt.Errorf("spawn camera: %w", err)
	}
	if err := ecs.Add(w, e, component.CameraRigComponent.Kind(), spec.NewRig()); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("spawn camera: %w", err)
	}
	return e, nil
}

// ApplyCameraSpec re-applies an edited camera prefab. The camera snaps on
// the next frame if its target changed.
func ApplyCameraSpec(w *ecs.World, e ecs.Entity, spec *prefabs.CameraSpec) {
	if spec == nil {
		return
	}
	if rig, ok := ecs.Get(w, e, component.CameraRigComponent.Kind()); ok {
		*rig = *spec.NewRig()
	}
	if cam, ok := ecs.Get(w, e, component.CameraComponent.Kind()); ok && cam.TargetName != spec.Target {
		cam.TargetName = spec.Target
		cam.Snapped = false
	}
}
