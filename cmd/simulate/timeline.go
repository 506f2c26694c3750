package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/milk9111/avatar/input"
)

var ErrBadCue = errors.New("simulate: bad cue")

// cue is one scripted input at a frame. Cues are written as frame:action with
// action one of key+ (press), key- (release), key (tap), click or button:N.
type cue struct {
	frame  int
	events []input.Event
}

// timeline maps frames to the input events pushed before that frame runs.
type timeline map[int][]input.Event

func parseTimeline(s string) (timeline, error) {
	tl := timeline{}
	for _, raw := range strings.Split(s, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		c, err := parseCue(raw)
		if err != nil {
			return nil, err
		}
		tl[c.frame] = append(tl[c.frame], c.events...)
	}
	return tl, nil
}

func parseCue(raw string) (cue, error) {
	frameStr, action, ok := strings.Cut(raw, ":")
	if !ok {
		return cue{}, fmt.Errorf("%w %q: want frame:action", ErrBadCue, raw)
	}
	frame, err := strconv.Atoi(strings.TrimSpace(frameStr))
	if err != nil || frame < 0 {
		return cue{}, fmt.Errorf("%w %q: frame must be a non-negative integer", ErrBadCue, raw)
	}
	action = strings.ToLower(strings.TrimSpace(action))

	switch {
	case action == "":
		return cue{}, fmt.Errorf("%w %q: empty action", ErrBadCue, raw)
	case action == "click":
		return cue{frame: frame, events: []input.Event{{Type: input.MouseDown, Button: input.MouseLeft}}}, nil
	case strings.HasPrefix(action, "button:"):
		n, err := strconv.Atoi(strings.TrimPrefix(action, "button:"))
		if err != nil || n < 0 {
			return cue{}, fmt.Errorf("%w %q: bad button", ErrBadCue, raw)
		}
		return cue{frame: frame, events: []input.Event{{Type: input.MouseDown, Button: n}}}, nil
	case strings.HasSuffix(action, "+"):
		return cue{frame: frame, events: []input.Event{{Type: input.KeyDown, Key: strings.TrimSuffix(action, "+")}}}, nil
	case strings.HasSuffix(action, "-"):
		return cue{frame: frame, events: []input.Event{{Type: input.KeyUp, Key: strings.TrimSuffix(action, "-")}}}, nil
	default:
		return cue{frame: frame, events: []input.Event{
			{Type: input.KeyDown, Key: action},
			{Type: input.KeyUp, Key: action},
		}}, nil
	}
}

// frames returns the cue frames in ascending order.
func (tl timeline) frames() []int {
	out := make([]int, 0, len(tl))
	for f := range tl {
		out = append(out, f)
	}
	sort.Ints(out)
	return out
}
