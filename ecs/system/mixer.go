package system

import (
	"github.com/milk9111/avatar/ecs"
	"github.com/milk9111/avatar/ecs/component"
)

// MixerSystem advances every ready character's playback clock. One-shot
// completion listeners fire from inside this update.
type MixerSystem struct{}

func NewMixerSystem() *MixerSystem {
	return &MixerSystem{}
}

func (m *MixerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach(w, component.AnimatorComponent.Kind(), func(_ ecs.Entity, a *component.Animator) {
		if !a.Ready || a.Mixer == nil {
			return
		}
		a.Mixer.Update(dt)
	})
}
