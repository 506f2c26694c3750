package component

import "github.com/milk9111/avatar/input"

// InputState is the accumulated held state of keys, keyed by identifier.
type InputState struct {
	Held map[string]bool
}

func NewInputState() *InputState {
	return &InputState{Held: make(map[string]bool)}
}

func (s *InputState) IsHeld(key string) bool {
	return s != nil && s.Held[key]
}

func (s *InputState) Set(key string, held bool) {
	if s.Held == nil {
		s.Held = make(map[string]bool)
	}
	if held {
		s.Held[key] = true
		return
	}
	delete(s.Held, key)
}

// InputBinding is the character's live subscription to an input source plus
// the keys that raise one-shot requests.
type InputBinding struct {
	Subscription *input.Subscription
	AttackButton int
	EmoteKey     string
}

var (
	InputStateComponent   = NewComponent[InputState]()
	InputBindingComponent = NewComponent[InputBinding]()
)
