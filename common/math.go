package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// DampFactor is the blend weight that makes exponential smoothing independent
// of frame rate: applying it n times with dt/n converges like once with dt.
func DampFactor(rate, dt float64) float64 {
	if rate <= 0 || dt <= 0 {
		return 0
	}
	return 1 - math.Exp(-rate*dt)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// YawQuat returns the rotation of yaw radians about +Y. Yaw 0 faces +Z.
func YawQuat(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, Up)
}

// YawOf returns the heading of v on the horizontal plane.
func YawOf(v mgl64.Vec3) float64 {
	return math.Atan2(v[0], v[2])
}

// Flatten drops the vertical component and normalizes. ok is false when the
// vector has no horizontal length.
func Flatten(v mgl64.Vec3) (mgl64.Vec3, bool) {
	flat := mgl64.Vec3{v[0], 0, v[2]}
	l := flat.Len()
	if l < 1e-9 {
		return mgl64.Vec3{}, false
	}
	return flat.Mul(1 / l), true
}

// HorizontalDistance is the distance between a and b on the XZ plane.
func HorizontalDistance(a, b mgl64.Vec3) float64 {
	return math.Hypot(a[0]-b[0], a[2]-b[2])
}

// WrapAngle maps a to (-pi, pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Slerp interpolates along the shorter arc between a and b.
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, t).Normalize()
}

// LookAt returns the rotation that points -Z from eye toward target with +Y
// kept as close to world up as possible. ok is false when eye and target
// coincide.
func LookAt(eye, target mgl64.Vec3) (mgl64.Quat, bool) {
	dir := target.Sub(eye)
	if dir.Len() < 1e-9 {
		return mgl64.QuatIdent(), false
	}
	dir = dir.Normalize()
	back := dir.Mul(-1)
	right := Up.Cross(back)
	if right.Len() < 1e-9 {
		// straight up or down; no roll reference
		return mgl64.QuatBetweenVectors(mgl64.Vec3{0, 0, -1}, dir), true
	}
	right = right.Normalize()
	up := back.Cross(right)
	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(right, up, back).Mat4()).Normalize(), true
}
