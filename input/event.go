// Package input delivers key and mouse events to subscribers on the frame
// tick. Producers may run on any goroutine; delivery happens only when the
// host calls Dispatch.
package input

import "fmt"

// EventType identifies a raw input edge.
type EventType int

const (
	KeyDown EventType = iota
	KeyUp
	MouseDown
)

func (t EventType) String() string {
	switch t {
	case KeyDown:
		return "key_down"
	case KeyUp:
		return "key_up"
	case MouseDown:
		return "mouse_down"
	default:
		return fmt.Sprintf("event(%d)", int(t))
	}
}

// MouseLeft is the button index of the primary mouse button.
const MouseLeft = 0

// Event is a single input edge. Key is a lower-case key identifier such as
// "w" or "arrowup"; Button is only meaningful for MouseDown.
type Event struct {
	Type   EventType
	Key    string
	Button int
}

// Handler receives events on the tick thread.
type Handler func(Event)

// Source is something characters can subscribe to for the lifetime of the
// instance.
type Source interface {
	Subscribe(h Handler) *Subscription
}
