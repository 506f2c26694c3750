package system

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/avatar/common"
	"github.com/milk9111/avatar/ecs"
	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/logger"
)

// FollowCameraSystem keeps each camera at its rig offset from the target
// character and aims it at the character's look point.
type FollowCameraSystem struct {
	targets map[ecs.Entity]cameraTarget
	log     *slog.Logger
}

type cameraTarget struct {
	name   string
	entity ecs.Entity
}

func NewFollowCameraSystem() *FollowCameraSystem {
	return &FollowCameraSystem{
		targets: map[ecs.Entity]cameraTarget{},
		log:     logger.L().With("system", "camera"),
	}
}

func (cs *FollowCameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, component.CameraComponent.Kind(), component.CameraRigComponent.Kind(), func(camEntity ecs.Entity, cam *component.Camera, rig *component.CameraRig) {
		target, ok := cs.resolve(w, camEntity, cam)
		if !ok {
			return
		}
		t, ok := ecs.Get(w, target, component.TransformComponent.Kind())
		if !ok {
			return
		}

		desired := DesiredCameraPosition(t, rig)
		cam.LookAt = t.Position.Add(mgl64.Vec3{0, rig.LookHeight, 0})

		if !cam.Snapped {
			cam.Position = desired
			cam.Snapped = true
			cs.log.Debug("camera snapped", "camera", camEntity.String(), "target", target.String())
			w.Events().Push(ecs.Event{Type: ecs.EventCameraSnapped, Entity: camEntity, Data: target})
		} else {
			cam.Position = common.LerpVec3(cam.Position, desired, common.DampFactor(rig.SmoothSpeed, dt))
			cam.Position[1] = math.Max(cam.Position[1], rig.MinHeight)
		}

		if q, ok := common.LookAt(cam.Position, cam.LookAt); ok {
			cam.Orientation = q
		}
	})
}

// DesiredCameraPosition is where the rig wants the camera this frame, with
// the height floor already applied.
func DesiredCameraPosition(t *component.Transform, rig *component.CameraRig) mgl64.Vec3 {
	offset := rig.Offset
	if rig.Policy != component.CameraFixed && t.Orientation != (mgl64.Quat{}) {
		offset = t.Orientation.Rotate(offset)
	}
	desired := t.Position.Add(offset)
	desired[1] = math.Max(desired[1], rig.MinHeight)
	return desired
}

// resolve finds the camera's target by character name, once per name.
func (cs *FollowCameraSystem) resolve(w *ecs.World, camEntity ecs.Entity, cam *component.Camera) (ecs.Entity, bool) {
	if cached, ok := cs.targets[camEntity]; ok && cached.name == cam.TargetName && ecs.IsAlive(w, cached.entity) {
		return cached.entity, true
	}
	delete(cs.targets, camEntity)

	target, ok := findCharacterByName(w, cam.TargetName)
	if !ok {
		return 0, false
	}
	cs.targets[camEntity] = cameraTarget{name: cam.TargetName, entity: target}
	cam.Snapped = false
	return target, true
}

func findCharacterByName(w *ecs.World, name string) (ecs.Entity, bool) {
	if name == "player" || name == "" {
		return ecs.First(w, component.PlayerTagComponent.Kind())
	}
	var found ecs.Entity
	ecs.ForEach(w, component.CharacterComponent.Kind(), func(e ecs.Entity, c *component.Character) {
		if !found.Valid() && c.Name == name {
			found = e
		}
	})
	return found, found.Valid()
}
