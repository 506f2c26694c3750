package system

import (
	"io"
	"math"
	"os"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/avatar/anim"
	"github.com/milk9111/avatar/ecs"
	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/input"
	"github.com/milk9111/avatar/logger"
	"github.com/milk9111/avatar/prefabs"
)

// frame length that keeps clip time arithmetic exact
const testDT = 1.0 / 16

func TestMain(m *testing.M) {
	logger.Init(logger.Config{Level: "error", Output: io.Discard})
	os.Exit(m.Run())
}

func knightClips() map[component.Role]*anim.Clip {
	return map[component.Role]*anim.Clip{
		component.RoleIdle:   {Name: "Idle", Duration: 2, Loop: anim.LoopRepeat},
		component.RoleMove:   {Name: "Move", Duration: 1, Loop: anim.LoopRepeat},
		component.RoleAttack: {Name: "Attack", Duration: 0.5, Loop: anim.LoopOnce},
		component.RoleEmote:  {Name: "Emote", Duration: 1.5, Loop: anim.LoopOnce},
	}
}

type harness struct {
	t      *testing.T
	w      *ecs.World
	q      *input.Queue
	sched  *ecs.Scheduler
	action *ActionSystem
	char   ecs.Entity
	cam    ecs.Entity
}

func newHarness(t *testing.T, clips map[component.Role]*anim.Clip, scripts *PlaybackScripts) *harness {
	t.Helper()
	w := ecs.NewWorld()
	q := input.NewQueue()

	e, err := SpawnCharacter(w, q, &prefabs.CharacterSpec{Name: "knight", Model: "knight"})
	if err != nil {
		t.Fatalf("spawn character: %v", err)
	}
	if clips != nil {
		if err := AttachClips(w, e, clips); err != nil {
			t.Fatalf("attach clips: %v", err)
		}
	}
	cam, err := SpawnCamera(w, &prefabs.CameraSpec{Target: "knight"})
	if err != nil {
		t.Fatalf("spawn camera: %v", err)
	}

	action := NewActionSystem(scripts)
	sched := ecs.NewScheduler(
		NewInputSystem(q),
		NewLocomotionSystem(),
		action,
		NewMixerSystem(),
		NewFollowCameraSystem(),
	)
	return &harness{t: t, w: w, q: q, sched: sched, action: action, char: e, cam: cam}
}

func (h *harness) step(n int) {
	for i := 0; i < n; i++ {
		h.sched.Update(h.w, testDT)
	}
}

func (h *harness) keyDown(key string) { h.q.Push(input.Event{Type: input.KeyDown, Key: key}) }
func (h *harness) keyUp(key string)   { h.q.Push(input.Event{Type: input.KeyUp, Key: key}) }
func (h *harness) click()             { h.q.Push(input.Event{Type: input.MouseDown, Button: input.MouseLeft}) }

func (h *harness) state() *component.ActionState {
	h.t.Helper()
	s, ok := ecs.Get(h.w, h.char, component.ActionStateComponent.Kind())
	if !ok {
		h.t.Fatalf("character has no action state")
	}
	return s
}

func (h *harness) animator() *component.Animator {
	h.t.Helper()
	a, ok := ecs.Get(h.w, h.char, component.AnimatorComponent.Kind())
	if !ok {
		h.t.Fatalf("character has no animator")
	}
	return a
}

func (h *harness) transform() *component.Transform {
	h.t.Helper()
	tr, ok := ecs.Get(h.w, h.char, component.TransformComponent.Kind())
	if !ok {
		h.t.Fatalf("character has no transform")
	}
	return tr
}

func (h *harness) camera() *component.Camera {
	h.t.Helper()
	c, ok := ecs.Get(h.w, h.cam, component.CameraComponent.Kind())
	if !ok {
		h.t.Fatalf("camera missing")
	}
	return c
}

func (h *harness) rig() *component.CameraRig {
	h.t.Helper()
	r, ok := ecs.Get(h.w, h.cam, component.CameraRigComponent.Kind())
	if !ok {
		h.t.Fatalf("camera rig missing")
	}
	return r
}

func (h *harness) countEvents(typ ecs.EventType) int {
	n := 0
	for _, evt := range h.w.Events().Drain() {
		if evt.Type == typ {
			n++
		}
	}
	return n
}

func vecNear(a, b mgl64.Vec3, eps float64) bool {
	return a.Sub(b).Len() <= eps
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func mgl64Forward() mgl64.Vec3 {
	return mgl64.Vec3{0, 0, 1}
}
