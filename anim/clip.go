// Package anim is a small playback clock for named animation clips. A Mixer
// owns one Action per clip instance, blends them by weight and reports when
// play-once actions reach their end.
package anim

import "fmt"

// LoopMode controls what an action does when it reaches the end of its clip.
type LoopMode int

const (
	// LoopRepeat wraps back to the start forever.
	LoopRepeat LoopMode = iota
	// LoopOnce stops at the end and emits a finished notification.
	LoopOnce
)

func (m LoopMode) String() string {
	switch m {
	case LoopRepeat:
		return "repeat"
	case LoopOnce:
		return "once"
	default:
		return fmt.Sprintf("loop(%d)", int(m))
	}
}

// Clip is an immutable description of a timed animation sequence. Clips may be
// shared between characters; use Clone to give a clip a new name.
type Clip struct {
	Name      string
	Duration  float64
	Loop      LoopMode
	TimeScale float64
}

// Clone returns an independent copy of c named name. The receiver is left
// untouched.
func (c *Clip) Clone(name string) *Clip {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Name = name
	return &cp
}

func (c *Clip) scale() float64 {
	if c == nil || c.TimeScale == 0 {
		return 1
	}
	return c.TimeScale
}
