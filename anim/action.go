package anim

// Action is the runtime playback state of one clip inside a Mixer.
type Action struct {
	mixer *Mixer
	clip  *Clip

	time      float64
	weight    float64
	timeScale float64
	loop      LoopMode

	// ClampWhenFinished holds the last pose of a LoopOnce action instead of
	// disabling it.
	ClampWhenFinished bool

	enabled  bool
	running  bool
	finished bool

	level        float64
	fading       bool
	fadeFrom     float64
	fadeTo       float64
	fadeElapsed  float64
	fadeDuration float64
}

// Clip returns the clip this action plays.
func (a *Action) Clip() *Clip {
	return a.clip
}

// Name returns the clip name.
func (a *Action) Name() string {
	if a == nil || a.clip == nil {
		return ""
	}
	return a.clip.Name
}

// Reset rewinds the action, cancels any fade and restores full weight.
func (a *Action) Reset() *Action {
	a.time = 0
	a.finished = false
	a.enabled = true
	a.level = 1
	a.stopFading()
	return a
}

// Play starts advancing the action on the next mixer update.
func (a *Action) Play() *Action {
	a.enabled = true
	a.running = true
	return a
}

// Stop halts the action, rewinds it and removes it from the blend.
func (a *Action) Stop() *Action {
	a.running = false
	a.enabled = false
	a.time = 0
	a.stopFading()
	return a
}

// SetLoop sets the loop mode.
func (a *Action) SetLoop(mode LoopMode) *Action {
	a.loop = mode
	return a
}

// Loop returns the current loop mode.
func (a *Action) Loop() LoopMode {
	return a.loop
}

// SetTimeScale sets the playback speed multiplier. Non-positive values are
// ignored.
func (a *Action) SetTimeScale(scale float64) *Action {
	if scale > 0 {
		a.timeScale = scale
	}
	return a
}

// TimeScale returns the playback speed multiplier.
func (a *Action) TimeScale() float64 {
	return a.timeScale
}

// FadeIn ramps the weight from zero to full over duration seconds.
func (a *Action) FadeIn(duration float64) *Action {
	a.enabled = true
	a.fadeTowards(0, 1, duration)
	return a
}

// FadeOut ramps the weight from its current value to zero over duration
// seconds, then disables the action.
func (a *Action) FadeOut(duration float64) *Action {
	if !a.enabled {
		return a
	}
	a.fadeTowards(a.level, 0, duration)
	return a
}

// Weight returns the effective blend weight in [0, 1].
func (a *Action) Weight() float64 {
	if a == nil || !a.enabled {
		return 0
	}
	w := a.weight * a.level
	switch {
	case w < 0:
		return 0
	case w > 1:
		return 1
	}
	return w
}

// Time returns the elapsed clip time in seconds.
func (a *Action) Time() float64 {
	return a.time
}

// IsRunning reports whether the action is enabled and advancing.
func (a *Action) IsRunning() bool {
	return a != nil && a.enabled && a.running
}

// IsEnabled reports whether the action contributes to the blend.
func (a *Action) IsEnabled() bool {
	return a != nil && a.enabled
}

// IsFading reports whether a fade is in progress.
func (a *Action) IsFading() bool {
	return a != nil && a.fading
}

// Finished reports whether a LoopOnce action has reached the end of its clip
// since its last Reset.
func (a *Action) Finished() bool {
	return a != nil && a.finished
}

func (a *Action) fadeTowards(from, to, duration float64) {
	if duration <= 0 {
		a.level = to
		a.stopFading()
		if to == 0 {
			a.enabled = false
			a.running = false
		}
		return
	}
	a.level = from
	a.fading = true
	a.fadeFrom = from
	a.fadeTo = to
	a.fadeElapsed = 0
	a.fadeDuration = duration
}

func (a *Action) stopFading() {
	a.fading = false
	a.fadeElapsed = 0
	a.fadeDuration = 0
}

// updateFade advances the fade interpolant by real (unscaled) time.
func (a *Action) updateFade(dt float64) {
	if !a.fading {
		return
	}
	a.fadeElapsed += dt
	t := a.fadeElapsed / a.fadeDuration
	if t >= 1 {
		a.level = a.fadeTo
		a.stopFading()
		if a.level == 0 {
			a.enabled = false
			a.running = false
		}
		return
	}
	a.level = a.fadeFrom + (a.fadeTo-a.fadeFrom)*t
}

// updateTime advances clip time and reports whether a LoopOnce action reached
// its end during this step.
func (a *Action) updateTime(dt float64) bool {
	if !a.running {
		return false
	}
	a.time += dt * a.timeScale
	duration := a.clip.Duration
	switch a.loop {
	case LoopOnce:
		if a.time < duration {
			return false
		}
		a.time = duration
		a.running = false
		a.finished = true
		if !a.ClampWhenFinished {
			a.enabled = false
		}
		return true
	default:
		if duration > 0 {
			for a.time >= duration {
				a.time -= duration
			}
		}
		return false
	}
}
