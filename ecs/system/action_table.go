package system

import "github.com/milk9111/avatar/ecs/component"

// TransitionKind is the path the action controller takes in one evaluation.
type TransitionKind int

const (
	// TransitionNone means no clip is available for locomotion.
	TransitionNone TransitionKind = iota
	TransitionStartAttack
	TransitionHoldAttack
	TransitionStartEmote
	TransitionHoldEmote
	// TransitionKeep leaves the current locomotion action playing.
	TransitionKeep
	// TransitionCrossFade fades from the current action to Target.
	TransitionCrossFade
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionNone:
		return "none"
	case TransitionStartAttack:
		return "start_attack"
	case TransitionHoldAttack:
		return "hold_attack"
	case TransitionStartEmote:
		return "start_emote"
	case TransitionHoldEmote:
		return "hold_emote"
	case TransitionKeep:
		return "keep"
	case TransitionCrossFade:
		return "cross_fade"
	default:
		return "unknown"
	}
}

// Transition is the outcome of one table lookup.
type Transition struct {
	Kind   TransitionKind
	Target component.Role
	// InterruptEmote is set when movement cut a playing emote short before
	// locomotion was selected.
	InterruptEmote bool
	// CancelEmote is set when an attack start supersedes a pending or
	// playing emote.
	CancelEmote bool
	// Fallback is set when neither Idle nor Move could serve as the target.
	Fallback bool
}

// NextTransition evaluates the priority table: attack, then emote, then
// idle/move selection. It does not mutate anything.
func NextTransition(s component.ActionState, bound component.RoleSet) Transition {
	if s.AttackRequested && bound.Has(component.RoleAttack) && !s.AttackInProgress {
		return Transition{
			Kind:        TransitionStartAttack,
			Target:      component.RoleAttack,
			CancelEmote: s.EmoteInProgress || s.EmoteRequested,
		}
	}
	if s.AttackInProgress {
		return Transition{Kind: TransitionHoldAttack, Target: component.RoleAttack}
	}
	if s.EmoteRequested && bound.Has(component.RoleEmote) && !s.EmoteInProgress {
		return Transition{Kind: TransitionStartEmote, Target: component.RoleEmote}
	}

	interrupted := false
	if s.EmoteInProgress {
		if !s.IsMoving {
			return Transition{Kind: TransitionHoldEmote, Target: component.RoleEmote}
		}
		interrupted = true
	}

	tr := locomotionTarget(s.IsMoving, bound)
	tr.InterruptEmote = interrupted
	if tr.Kind == TransitionNone {
		return tr
	}
	if tr.Target == s.Current {
		tr.Kind = TransitionKeep
	}
	return tr
}

func locomotionTarget(moving bool, bound component.RoleSet) Transition {
	switch {
	case moving && bound.Has(component.RoleMove):
		return Transition{Kind: TransitionCrossFade, Target: component.RoleMove}
	case bound.Has(component.RoleIdle):
		return Transition{Kind: TransitionCrossFade, Target: component.RoleIdle}
	}
	if role, ok := bound.First(); ok {
		return Transition{Kind: TransitionCrossFade, Target: role, Fallback: true}
	}
	return Transition{Kind: TransitionNone}
}
