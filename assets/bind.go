package assets

import (
	"fmt"

	"github.com/milk9111/avatar/anim"
	"github.com/milk9111/avatar/ecs/component"
)

// BindRoles clones source clips under canonical role names. aliases maps a
// role to the source clip name; a role without an alias binds a clip already
// called by its canonical name, if any. The bundle's clips are never mutated.
func BindRoles(b *Bundle, aliases map[component.Role]string) (map[component.Role]*anim.Clip, error) {
	out := make(map[component.Role]*anim.Clip, len(component.Roles))
	for _, role := range component.Roles {
		source, explicit := aliases[role]
		if !explicit || source == "" {
			source = role.ClipName()
		}
		clip, ok := b.Clip(source)
		if !ok {
			if explicit && aliases[role] != "" {
				return nil, fmt.Errorf("assets: bind %s: %w %q", role, ErrUnknownClip, source)
			}
			continue
		}
		bound := clip.Clone(role.ClipName())
		if role.OneShot() {
			bound.Loop = anim.LoopOnce
		} else {
			bound.Loop = anim.LoopRepeat
		}
		out[role] = bound
	}
	return out, nil
}
