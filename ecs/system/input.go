package system

import (
	"log/slog"

	"github.com/milk9111/avatar/ecs"
	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/input"
	"github.com/milk9111/avatar/logger"
)

// InputSystem marshals buffered input onto the tick by dispatching the queue.
// It must run before every system that reads InputState.
type InputSystem struct {
	queue *input.Queue
}

func NewInputSystem(q *input.Queue) *InputSystem {
	return &InputSystem{queue: q}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || i.queue == nil {
		return
	}
	i.queue.Dispatch()
}

// characterInputHandler updates the held keys and one-shot request flags of
// e. It never touches playback.
func characterInputHandler(w *ecs.World, e ecs.Entity, log *slog.Logger) input.Handler {
	return func(evt input.Event) {
		held, ok := ecs.Get(w, e, component.InputStateComponent.Kind())
		if !ok {
			return
		}
		binding, _ := ecs.Get(w, e, component.InputBindingComponent.Kind())

		switch evt.Type {
		case input.KeyDown:
			held.Set(evt.Key, true)
			if binding != nil && evt.Key == binding.EmoteKey {
				requestOneShot(w, e, component.RoleEmote, log)
			}
		case input.KeyUp:
			held.Set(evt.Key, false)
		case input.MouseDown:
			if binding != nil && evt.Button == binding.AttackButton {
				requestOneShot(w, e, component.RoleAttack, log)
			}
		}
	}
}

func requestOneShot(w *ecs.World, e ecs.Entity, role component.Role, log *slog.Logger) {
	state, ok := ecs.Get(w, e, component.ActionStateComponent.Kind())
	if !ok {
		return
	}
	animator, _ := ecs.Get(w, e, component.AnimatorComponent.Kind())
	if animator == nil || !animator.Ready || !animator.Bound(role) {
		log.Debug("request dropped: clip not bound", "entity", e.String(), "role", role.String())
		return
	}

	var accepted bool
	switch role {
	case component.RoleAttack:
		accepted = state.RequestAttack()
	case component.RoleEmote:
		accepted = state.RequestEmote()
	}
	if !accepted {
		log.Debug("request dropped: action in progress", "entity", e.String(), "role", role.String())
	}
}

func inputLogger() *slog.Logger {
	return logger.L().With("system", "input")
}
