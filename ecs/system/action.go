package system

import (
	"log/slog"

	"github.com/milk9111/avatar/anim"
	"github.com/milk9111/avatar/ecs"
	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/logger"
)

// ActionChange is the payload of ecs.EventActionChanged.
type ActionChange struct {
	From component.Role
	To   component.Role
}

// ActionSystem arbitrates which animation action plays: attack over emote
// over idle/move. All playback commands are issued from here, on the tick.
type ActionSystem struct {
	scripts *PlaybackScripts
	log     *slog.Logger

	// a missing clip is reported once per episode, not every frame
	warned   map[ecs.Entity]component.Role
	noTarget map[ecs.Entity]bool
}

func NewActionSystem(scripts *PlaybackScripts) *ActionSystem {
	return &ActionSystem{
		scripts:  scripts,
		log:      logger.L().With("system", "action"),
		warned:   map[ecs.Entity]component.Role{},
		noTarget: map[ecs.Entity]bool{},
	}
}

func (s *ActionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach2(w, component.ActionStateComponent.Kind(), component.AnimatorComponent.Kind(), func(e ecs.Entity, state *component.ActionState, animator *component.Animator) {
		if !animator.Ready || animator.Mixer == nil {
			return
		}
		char, ok := ecs.Get(w, e, component.CharacterComponent.Kind())
		if !ok {
			char = component.DefaultCharacter("")
		}
		s.evaluate(w, e, state, animator, char)
	})
}

func (s *ActionSystem) evaluate(w *ecs.World, e ecs.Entity, state *component.ActionState, animator *component.Animator, char *component.Character) {
	bound := animator.BoundRoles()
	s.dropUnbound(e, state, bound)

	tr := NextTransition(*state, bound)
	fade := char.FadeDuration

	if tr.CancelEmote {
		s.stopEmote(e, state, animator, fade, "cancelled by attack")
	}
	if tr.InterruptEmote {
		s.stopEmote(e, state, animator, fade, "interrupted by movement")
	}

	switch tr.Kind {
	case TransitionStartAttack:
		state.AttackRequested = false
		state.AttackInProgress = true
		state.CancelAttack()
		action := s.startOneShot(w, e, state, animator, component.RoleAttack, char.AttackTimeScale, fade)
		state.AttackDone = animator.Mixer.OnFinished(action, func(*anim.Action) {
			state.AttackInProgress = false
			state.AttackDone = nil
			w.Events().Push(ecs.Event{Type: ecs.EventActionDone, Entity: e, Data: component.RoleAttack})
		})

	case TransitionHoldAttack:
		if state.AttackRequested || state.EmoteRequested {
			s.log.Debug("request ignored during attack", "entity", e.String())
			state.AttackRequested = false
			state.EmoteRequested = false
		}

	case TransitionStartEmote:
		state.EmoteRequested = false
		state.EmoteInProgress = true
		state.CancelEmote()
		action := s.startOneShot(w, e, state, animator, component.RoleEmote, char.EmoteTimeScale, fade)
		state.EmoteDone = animator.Mixer.OnFinished(action, func(*anim.Action) {
			state.EmoteInProgress = false
			state.EmoteDone = nil
			w.Events().Push(ecs.Event{Type: ecs.EventActionDone, Entity: e, Data: component.RoleEmote})
		})

	case TransitionHoldEmote:
		if state.EmoteRequested {
			s.log.Debug("emote request ignored during emote", "entity", e.String())
			state.EmoteRequested = false
		}

	case TransitionKeep:
		action := animator.Action(tr.Target)
		action.SetLoop(anim.LoopRepeat)
		if !action.IsRunning() {
			action.Play()
		}

	case TransitionCrossFade:
		if tr.Fallback && s.warned[e] != tr.Target {
			s.warned[e] = tr.Target
			s.log.Warn("idle and move clips missing, falling back", "entity", e.String(), "role", tr.Target.String())
		}
		s.crossFade(w, e, state, animator, char, tr.Target, fade)

	case TransitionNone:
		if !s.noTarget[e] {
			s.noTarget[e] = true
			s.log.Warn("no clip available for locomotion", "entity", e.String())
		}
	}

	if tr.Kind != TransitionNone {
		delete(s.noTarget, e)
	}
	if !tr.Fallback {
		delete(s.warned, e)
	}
}

// dropUnbound clears requests for roles without a clip.
func (s *ActionSystem) dropUnbound(e ecs.Entity, state *component.ActionState, bound component.RoleSet) {
	if state.AttackRequested && !bound.Has(component.RoleAttack) {
		state.AttackRequested = false
		s.log.Debug("attack request dropped: clip not bound", "entity", e.String())
	}
	if state.EmoteRequested && !bound.Has(component.RoleEmote) {
		state.EmoteRequested = false
		s.log.Debug("emote request dropped: clip not bound", "entity", e.String())
	}
}

func (s *ActionSystem) stopEmote(e ecs.Entity, state *component.ActionState, animator *component.Animator, fade float64, reason string) {
	state.EmoteRequested = false
	state.EmoteInProgress = false
	state.CancelEmote()
	if emote := animator.Action(component.RoleEmote); emote != nil {
		emote.FadeOut(fade)
	}
	s.log.Debug("emote stopped", "entity", e.String(), "reason", reason)
}

func (s *ActionSystem) startOneShot(w *ecs.World, e ecs.Entity, state *component.ActionState, animator *component.Animator, role component.Role, timeScale, fade float64) *anim.Action {
	action := animator.Action(role)
	if cur := animator.Action(state.Current); cur != nil && cur != action {
		cur.FadeOut(fade)
	}
	if timeScale <= 0 {
		timeScale = 1
	}
	action.Reset().SetLoop(anim.LoopOnce).SetTimeScale(timeScale)
	action.ClampWhenFinished = true
	action.Play()
	s.setCurrent(w, e, state, role)
	return action
}

func (s *ActionSystem) crossFade(w *ecs.World, e ecs.Entity, state *component.ActionState, animator *component.Animator, char *component.Character, role component.Role, fade float64) {
	target := animator.Action(role)
	if cur := animator.Action(state.Current); cur != nil && cur != target {
		cur.FadeOut(fade)
	}
	scale := 1.0
	if override, ok := s.scripts.TimeScale(char.Script, role, char.Name); ok {
		scale = override
	}
	target.Reset().SetLoop(anim.LoopRepeat).SetTimeScale(scale)
	target.ClampWhenFinished = false
	target.FadeIn(fade).Play()
	s.setCurrent(w, e, state, role)
}

func (s *ActionSystem) setCurrent(w *ecs.World, e ecs.Entity, state *component.ActionState, role component.Role) {
	prev := state.Current
	state.Current = role
	s.log.Debug("action changed", "entity", e.String(), "from", prev.String(), "to", role.String())
	w.Events().Push(ecs.Event{Type: ecs.EventActionChanged, Entity: e, Data: ActionChange{From: prev, To: role}})
}

// Forget drops per-entity bookkeeping for a despawned character.
func (s *ActionSystem) Forget(e ecs.Entity) {
	delete(s.warned, e)
	delete(s.noTarget, e)
}
