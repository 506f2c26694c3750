package component

import "github.com/milk9111/avatar/anim"

// ActionState is the per-character controller state. Request flags are set by
// input handlers and consumed by the action system when the action starts.
type ActionState struct {
	Current          Role
	AttackRequested  bool
	AttackInProgress bool
	EmoteRequested   bool
	EmoteInProgress  bool
	IsMoving         bool

	// completion handles for the one-shot currently playing
	AttackDone *anim.Subscription
	EmoteDone  *anim.Subscription
}

// CancelAttack drops a pending completion listener.
func (s *ActionState) CancelAttack() {
	s.AttackDone.Cancel()
	s.AttackDone = nil
}

// CancelEmote drops a pending completion listener.
func (s *ActionState) CancelEmote() {
	s.EmoteDone.Cancel()
	s.EmoteDone = nil
}

// RequestAttack records an attack request unless one is already playing.
func (s *ActionState) RequestAttack() bool {
	if s.AttackInProgress {
		return false
	}
	s.AttackRequested = true
	return true
}

// RequestEmote records an emote request unless an attack or emote is playing.
func (s *ActionState) RequestEmote() bool {
	if s.AttackInProgress || s.EmoteInProgress {
		return false
	}
	s.EmoteRequested = true
	return true
}

var ActionStateComponent = NewComponent[ActionState]()
