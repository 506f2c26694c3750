package system

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/avatar/common"
	"github.com/milk9111/avatar/ecs"
	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/logger"
)

// MovingChange is the payload of ecs.EventMovingChanged.
type MovingChange struct {
	Moving bool
}

// LocomotionSystem turns held directional keys into motion of the character
// root and raises the moving flag for the action controller.
type LocomotionSystem struct {
	log *slog.Logger
}

func NewLocomotionSystem() *LocomotionSystem {
	return &LocomotionSystem{log: logger.L().With("system", "locomotion")}
}

func (l *LocomotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	camForward, hasCam := cameraForward(w)
	dt := w.DeltaTime()

	ecs.ForEach3(w, component.TransformComponent.Kind(), component.LocomotionComponent.Kind(), component.InputStateComponent.Kind(), func(e ecs.Entity, t *component.Transform, loco *component.Locomotion, in *component.InputState) {
		fwd := in.IsHeld(loco.Keys.Forward)
		back := in.IsHeld(loco.Keys.Back)
		left := in.IsHeld(loco.Keys.Left)
		right := in.IsHeld(loco.Keys.Right)
		moving := fwd || back || left || right

		if t.Orientation == (mgl64.Quat{}) {
			t.Orientation = common.YawQuat(t.Yaw)
		}

		switch loco.Policy {
		case component.TurnRotate:
			rotateAndWalk(t, loco, fwd, back, left, right, dt)
		default:
			basis, ok := camForward, hasCam
			if !ok {
				basis, ok = common.Flatten(t.Forward())
			}
			if !ok {
				basis = common.Forward
			}
			strafe(t, loco, basis, fwd, back, left, right)
		}

		state, ok := ecs.Get(w, e, component.ActionStateComponent.Kind())
		if !ok || state.IsMoving == moving {
			return
		}
		state.IsMoving = moving
		l.log.Debug("moving changed", "entity", e.String(), "moving", moving)
		w.Events().Push(ecs.Event{Type: ecs.EventMovingChanged, Entity: e, Data: MovingChange{Moving: moving}})
	})
}

// strafe moves relative to basis, a unit vector on the horizontal plane, and
// slerps the facing toward the heading by a fixed amount per frame.
func strafe(t *component.Transform, loco *component.Locomotion, basis mgl64.Vec3, fwd, back, left, right bool) {
	rightVec := mgl64.Vec3{-basis[2], 0, basis[0]}
	var dir mgl64.Vec3
	if fwd {
		dir = dir.Add(basis)
	}
	if back {
		dir = dir.Sub(basis)
	}
	if right {
		dir = dir.Add(rightVec)
	}
	if left {
		dir = dir.Sub(rightVec)
	}
	if dir.Len() < 1e-9 {
		return
	}
	dir = dir.Normalize()
	t.Position = t.Position.Add(dir.Mul(loco.MoveSpeed))

	heading := common.YawQuat(common.YawOf(dir))
	t.Orientation = common.Slerp(t.Orientation, heading, common.Clamp(loco.FacingBlend, 0, 1))
	t.Yaw = common.YawOf(t.Forward())
	t.TargetYaw = t.Yaw
}

// rotateAndWalk turns with left/right by accumulating a target yaw the facing
// eases toward, and walks along the facing with forward/back.
func rotateAndWalk(t *component.Transform, loco *component.Locomotion, fwd, back, left, right bool, dt float64) {
	if left {
		t.TargetYaw += loco.TurnSpeed
	}
	if right {
		t.TargetYaw -= loco.TurnSpeed
	}
	t.Yaw = common.Lerp(t.Yaw, t.TargetYaw, common.DampFactor(loco.TurnSmoothing, dt))
	t.Orientation = common.YawQuat(t.Yaw)

	step := 0.0
	if fwd {
		step++
	}
	if back {
		step--
	}
	if step == 0 {
		return
	}
	facing, ok := common.Flatten(t.Forward())
	if !ok {
		return
	}
	t.Position = t.Position.Add(facing.Mul(step * loco.MoveSpeed))
}

// cameraForward returns the first camera's view direction flattened to the
// horizontal plane. ok is false without a camera or when it looks straight
// down.
func cameraForward(w *ecs.World) (mgl64.Vec3, bool) {
	e, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return mgl64.Vec3{}, false
	}
	cam, ok := ecs.Get(w, e, component.CameraComponent.Kind())
	if !ok || !cam.Snapped {
		return mgl64.Vec3{}, false
	}
	forward, ok := cam.Forward()
	if !ok {
		return mgl64.Vec3{}, false
	}
	return common.Flatten(forward)
}
