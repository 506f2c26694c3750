package component

import (
	"fmt"
	"strings"
)

// Role is the canonical slot an animation clip is bound to.
type Role int

const (
	RoleNone Role = iota
	RoleIdle
	RoleMove
	RoleAttack
	RoleEmote
)

// Roles lists the bindable roles in fallback order.
var Roles = []Role{RoleIdle, RoleMove, RoleAttack, RoleEmote}

func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleIdle:
		return "idle"
	case RoleMove:
		return "move"
	case RoleAttack:
		return "attack"
	case RoleEmote:
		return "emote"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ClipName is the name a clip takes once bound to the role, e.g. "Idle".
func (r Role) ClipName() string {
	s := r.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseRole accepts "idle", "Idle", "IDLE" and so on.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "idle":
		return RoleIdle, nil
	case "move":
		return RoleMove, nil
	case "attack":
		return RoleAttack, nil
	case "emote":
		return RoleEmote, nil
	}
	return RoleNone, fmt.Errorf("component: unknown role %q", s)
}

// OneShot reports whether the role plays once and clamps.
func (r Role) OneShot() bool {
	return r == RoleAttack || r == RoleEmote
}
