package system

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/logger"
	"github.com/milk9111/avatar/prefabs"
)

// time_scale(role, character) is defined by the script; the dispatch line
// stores its answer where the host can read it back.
const playbackDispatchScript = `
__result = time_scale(__role, __character)
`

// PlaybackScripts evaluates per-role time scale overrides written in tengo.
// Scripts are compiled once per name; a script that fails to load or compile
// is remembered so the error is logged only once.
type PlaybackScripts struct {
	load  func(name string) ([]byte, error)
	cache map[string]*playbackScript
	log   *slog.Logger
}

type playbackScript struct {
	compiled *tengo.Compiled
	err      error
}

func NewPlaybackScripts() *PlaybackScripts {
	return &PlaybackScripts{
		load:  prefabs.LoadScript,
		cache: map[string]*playbackScript{},
		log:   logger.L().With("system", "playback_script"),
	}
}

// NewPlaybackScriptsFromSource serves scripts from an in-memory table.
func NewPlaybackScriptsFromSource(sources map[string]string) *PlaybackScripts {
	p := NewPlaybackScripts()
	p.load = func(name string) ([]byte, error) {
		src, ok := sources[name]
		if !ok {
			return nil, fmt.Errorf("playback script %q not found", name)
		}
		return []byte(src), nil
	}
	return p
}

// TimeScale asks script for the playback speed of role. ok is false when no
// script is configured, it failed, or it returned a non-positive or
// non-numeric value.
func (p *PlaybackScripts) TimeScale(script string, role component.Role, character string) (float64, bool) {
	if p == nil || strings.TrimSpace(script) == "" {
		return 0, false
	}
	rt := p.get(script)
	if rt.err != nil {
		return 0, false
	}

	if err := rt.compiled.Set("__role", role.String()); err != nil {
		p.log.Warn("script set role", "script", script, "err", err)
		return 0, false
	}
	if err := rt.compiled.Set("__character", character); err != nil {
		p.log.Warn("script set character", "script", script, "err", err)
		return 0, false
	}
	if err := rt.compiled.Run(); err != nil {
		p.log.Warn("script run", "script", script, "role", role.String(), "err", err)
		return 0, false
	}

	var scale float64
	switch v := rt.compiled.Get("__result").Value().(type) {
	case float64:
		scale = v
	case int64:
		scale = float64(v)
	default:
		return 0, false
	}
	if scale <= 0 {
		return 0, false
	}
	return scale, true
}

// Invalidate forgets a compiled script so the next call reloads it. "knight",
// "scripts/knight.tengo" and "prefabs/scripts/knight.tengo" name the same
// script.
func (p *PlaybackScripts) Invalidate(script string) {
	if p == nil {
		return
	}
	delete(p.cache, prefabs.CleanScript(script))
}

func (p *PlaybackScripts) get(name string) *playbackScript {
	if p.cache == nil {
		p.cache = map[string]*playbackScript{}
	}
	key := prefabs.CleanScript(name)
	if rt, ok := p.cache[key]; ok {
		return rt
	}
	rt := &playbackScript{}
	rt.compiled, rt.err = p.compile(name)
	if rt.err != nil {
		p.log.Warn("script load", "script", name, "err", rt.err)
	}
	p.cache[key] = rt
	return rt
}

func (p *PlaybackScripts) compile(name string) (*tengo.Compiled, error) {
	src, err := p.load(name)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + playbackDispatchScript))
	_ = script.Add("__role", "")
	_ = script.Add("__character", "")
	_ = script.Add("__result", nil)
	script.SetImports(stdlib.GetModuleMap("math", "text"))

	return script.Compile()
}
