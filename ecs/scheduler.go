package ecs

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// Scheduler runs systems in a fixed order, once per frame.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := make([]System, 0, len(systems))
	for _, s := range systems {
		if s != nil {
			copied = append(copied, s)
		}
	}
	return &Scheduler{systems: copied}
}

// Update runs one frame of dt seconds. Events pushed during the previous
// frame are discarded first, so hosts can drain them between ticks.
func (s *Scheduler) Update(w *World, dt float64) {
	if s == nil || w == nil {
		return
	}
	w.events.flush()
	w.dt = dt
	w.frame++
	for _, system := range s.systems {
		system.Update(w)
	}
}
