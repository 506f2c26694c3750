package component

import "github.com/milk9111/avatar/anim"

// Animator is the character's playback clock and the action instance created
// for each bound role. Ready stays false until the asset provider delivered
// the clips; nothing is evaluated before that.
type Animator struct {
	Mixer   *anim.Mixer
	Actions map[Role]*anim.Action
	Ready   bool
}

// NewAnimator creates one action per bound clip.
func NewAnimator(clips map[Role]*anim.Clip) *Animator {
	a := &Animator{Mixer: anim.NewMixer(), Actions: make(map[Role]*anim.Action, len(clips))}
	for _, role := range Roles {
		if clip, ok := clips[role]; ok && clip != nil {
			a.Actions[role] = a.Mixer.ClipAction(clip)
		}
	}
	a.Ready = len(a.Actions) > 0
	return a
}

// Action returns the action bound to role, or nil.
func (a *Animator) Action(role Role) *anim.Action {
	if a == nil {
		return nil
	}
	return a.Actions[role]
}

// Bound reports whether role has a clip.
func (a *Animator) Bound(role Role) bool {
	return a.Action(role) != nil
}

// BoundRoles returns the set of bound roles.
func (a *Animator) BoundRoles() RoleSet {
	var set RoleSet
	if a == nil {
		return set
	}
	for role, action := range a.Actions {
		if action != nil {
			set = set.With(role)
		}
	}
	return set
}

// RoleSet is a small bitset of roles.
type RoleSet uint8

func (s RoleSet) With(r Role) RoleSet {
	return s | 1<<uint(r)
}

func (s RoleSet) Has(r Role) bool {
	return s&(1<<uint(r)) != 0
}

// First returns the first member in fallback order.
func (s RoleSet) First() (Role, bool) {
	for _, r := range Roles {
		if s.Has(r) {
			return r, true
		}
	}
	return RoleNone, false
}

var AnimatorComponent = NewComponent[Animator]()
