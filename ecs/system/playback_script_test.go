package system

import (
	"testing"

	"github.com/milk9111/avatar/ecs/component"
)

func TestPlaybackScriptTimeScale(t *testing.T) {
	scripts := NewPlaybackScriptsFromSource(map[string]string{
		"tuned": `
time_scale := func(role, character) {
	if role == "move" { return 2 }
	if role == "idle" && character == "golem" { return 0.5 }
	if role == "attack" { return -1 }
	return "fast"
}`,
		"broken":  `time_scale := func(role {`,
		"missing": `speed := 3`,
	})

	tests := []struct {
		name      string
		script    string
		role      component.Role
		character string
		want      float64
		wantOK    bool
	}{
		{name: "int result", script: "tuned", role: component.RoleMove, character: "knight", want: 2, wantOK: true},
		{name: "float result", script: "tuned", role: component.RoleIdle, character: "golem", want: 0.5, wantOK: true},
		{name: "non numeric", script: "tuned", role: component.RoleIdle, character: "knight"},
		{name: "non positive", script: "tuned", role: component.RoleAttack, character: "knight"},
		{name: "compile error", script: "broken", role: component.RoleMove},
		{name: "no function", script: "missing", role: component.RoleMove},
		{name: "unknown script", script: "nope", role: component.RoleMove},
		{name: "no script", script: "", role: component.RoleMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := scripts.TimeScale(tt.script, tt.role, tt.character)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("got (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPlaybackScriptInvalidate(t *testing.T) {
	sources := map[string]string{"s": `time_scale := func(role, character) { return 2 }`}
	scripts := NewPlaybackScriptsFromSource(sources)
	if got, _ := scripts.TimeScale("s", component.RoleIdle, ""); got != 2 {
		t.Fatalf("got %v", got)
	}
	sources["s"] = `time_scale := func(role, character) { return 3 }`
	if got, _ := scripts.TimeScale("s", component.RoleIdle, ""); got != 2 {
		t.Fatalf("compiled script should be cached, got %v", got)
	}
	scripts.Invalidate("s")
	if got, _ := scripts.TimeScale("s", component.RoleIdle, ""); got != 3 {
		t.Fatalf("after invalidate got %v", got)
	}
}

func TestEmbeddedKnightScript(t *testing.T) {
	scripts := NewPlaybackScripts()
	if got, ok := scripts.TimeScale("knight_playback", component.RoleMove, "knight"); !ok || got != 1.25 {
		t.Fatalf("move = (%v, %v)", got, ok)
	}
	if _, ok := scripts.TimeScale("knight_playback", component.RoleAttack, "knight"); ok {
		t.Fatalf("attack should keep its default")
	}
}

func TestPlaybackScriptInvalidateByPath(t *testing.T) {
	sources := map[string]string{"s": `time_scale := func(role, character) { return 2 }`}
	scripts := NewPlaybackScriptsFromSource(sources)
	scripts.TimeScale("s", component.RoleIdle, "")
	sources["s"] = `time_scale := func(role, character) { return 3 }`

	// watcher events name the file, prefabs name the script
	scripts.Invalidate("scripts/s.tengo")
	if got, _ := scripts.TimeScale("s", component.RoleIdle, ""); got != 3 {
		t.Fatalf("after invalidate got %v", got)
	}
}
