package component

import "github.com/go-gl/mathgl/mgl64"

// CameraPolicy selects how the follow offset is applied.
type CameraPolicy string

const (
	// CameraOrbit rotates the offset by the character orientation.
	CameraOrbit CameraPolicy = "orbit"
	// CameraFixed applies the offset in world space.
	CameraFixed CameraPolicy = "fixed"
)

func (p CameraPolicy) Valid() bool {
	return p == CameraOrbit || p == CameraFixed
}

// Toggle returns the other policy.
func (p CameraPolicy) Toggle() CameraPolicy {
	if p == CameraFixed {
		return CameraOrbit
	}
	return CameraFixed
}

// CameraRig is the follow configuration.
type CameraRig struct {
	Policy      CameraPolicy
	Offset      mgl64.Vec3
	LookHeight  float64
	SmoothSpeed float64
	MinHeight   float64
}

func DefaultCameraRig() *CameraRig {
	return &CameraRig{
		Policy:      CameraOrbit,
		Offset:      mgl64.Vec3{0, 3, -6},
		LookHeight:  1.5,
		SmoothSpeed: 5,
		MinHeight:   0.5,
	}
}

// Camera is the live virtual camera. TargetName is resolved against
// Character.Name the first time a matching entity exists.
type Camera struct {
	TargetName  string
	Position    mgl64.Vec3
	LookAt      mgl64.Vec3
	Orientation mgl64.Quat
	Snapped     bool
}

// Forward returns the normalized view direction, or false when the camera
// sits on its look-at point.
func (c *Camera) Forward() (mgl64.Vec3, bool) {
	d := c.LookAt.Sub(c.Position)
	l := d.Len()
	if l < 1e-9 {
		return mgl64.Vec3{}, false
	}
	return d.Mul(1 / l), true
}

var (
	CameraComponent    = NewComponent[Camera]()
	CameraRigComponent = NewComponent[CameraRig]()
)
