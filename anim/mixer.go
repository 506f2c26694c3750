package anim

// EventType identifies a mixer notification.
type EventType string

const (
	// EventFinished is emitted when a LoopOnce action reaches its end.
	EventFinished EventType = "finished"
)

// Event is delivered to mixer listeners. Action is the instance that changed.
type Event struct {
	Type   EventType
	Action *Action
}

// Listener receives mixer events.
type Listener func(Event)

// Subscription is a handle to a registered listener.
type Subscription struct {
	mixer  *Mixer
	id     uint64
	active bool
}

// Cancel removes the listener. Safe to call more than once and from inside
// the listener itself.
func (s *Subscription) Cancel() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	if s.mixer != nil {
		s.mixer.remove(s.id)
	}
}

// Active reports whether the listener is still registered.
func (s *Subscription) Active() bool {
	return s != nil && s.active
}

type listenerEntry struct {
	sub *Subscription
	fn  Listener
}

// Mixer advances a set of actions on a shared clock.
type Mixer struct {
	actions   []*Action
	listeners []listenerEntry
	nextID    uint64
	time      float64
}

// NewMixer creates an empty mixer.
func NewMixer() *Mixer {
	return &Mixer{}
}

// ClipAction returns a new action bound to clip. Each call creates a distinct
// instance so notifications can be told apart.
func (m *Mixer) ClipAction(clip *Clip) *Action {
	if m == nil || clip == nil {
		return nil
	}
	a := &Action{
		mixer:     m,
		clip:      clip,
		weight:    1,
		level:     1,
		timeScale: clip.scale(),
		loop:      clip.Loop,
	}
	m.actions = append(m.actions, a)
	return a
}

// Actions returns every action created by this mixer, in creation order.
func (m *Mixer) Actions() []*Action {
	if m == nil {
		return nil
	}
	return append([]*Action(nil), m.actions...)
}

// Time returns the accumulated mixer time in seconds.
func (m *Mixer) Time() float64 {
	if m == nil {
		return 0
	}
	return m.time
}

// Subscribe registers fn for every mixer event.
func (m *Mixer) Subscribe(fn Listener) *Subscription {
	if m == nil || fn == nil {
		return &Subscription{}
	}
	m.nextID++
	sub := &Subscription{mixer: m, id: m.nextID, active: true}
	m.listeners = append(m.listeners, listenerEntry{sub: sub, fn: fn})
	return sub
}

// OnFinished registers fn to run once, when action finishes. Notifications for
// other actions are filtered out and the listener removes itself after firing.
func (m *Mixer) OnFinished(action *Action, fn func(*Action)) *Subscription {
	var sub *Subscription
	sub = m.Subscribe(func(evt Event) {
		if evt.Type != EventFinished || evt.Action != action {
			return
		}
		sub.Cancel()
		fn(evt.Action)
	})
	return sub
}

// ListenerCount returns the number of registered listeners.
func (m *Mixer) ListenerCount() int {
	if m == nil {
		return 0
	}
	return len(m.listeners)
}

// Update advances every enabled action by dt seconds and then delivers
// finished notifications.
func (m *Mixer) Update(dt float64) {
	if m == nil || dt < 0 {
		return
	}
	m.time += dt
	var finished []*Action
	for _, a := range m.actions {
		if !a.enabled {
			continue
		}
		if a.updateTime(dt) {
			finished = append(finished, a)
		}
		a.updateFade(dt)
	}
	for _, a := range finished {
		m.emit(Event{Type: EventFinished, Action: a})
	}
}

func (m *Mixer) emit(evt Event) {
	entries := append([]listenerEntry(nil), m.listeners...)
	for _, entry := range entries {
		if entry.sub.active {
			entry.fn(evt)
		}
	}
}

func (m *Mixer) remove(id uint64) {
	for i, entry := range m.listeners {
		if entry.sub.id == id {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}
