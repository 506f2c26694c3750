package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/avatar/common"
)

// Transform is the character root in world space. Yaw and TargetYaw are only
// maintained by the rotate turn policy; Orientation is always authoritative.
type Transform struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Yaw         float64
	TargetYaw   float64
}

// NewTransform places a root at pos facing yaw.
func NewTransform(pos mgl64.Vec3, yaw float64) *Transform {
	return &Transform{
		Position:    pos,
		Orientation: common.YawQuat(yaw),
		Yaw:         yaw,
		TargetYaw:   yaw,
	}
}

// Forward returns the facing direction.
func (t *Transform) Forward() mgl64.Vec3 {
	return t.orientation().Rotate(common.Forward)
}

func (t *Transform) orientation() mgl64.Quat {
	if t.Orientation == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return t.Orientation
}

var TransformComponent = NewComponent[Transform]()
