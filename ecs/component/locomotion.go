package component

// TurnPolicy selects how the left/right keys are interpreted.
type TurnPolicy string

const (
	// TurnStrafe moves sideways relative to the camera.
	TurnStrafe TurnPolicy = "strafe"
	// TurnRotate turns the character in place and walks along its facing.
	TurnRotate TurnPolicy = "rotate"
)

func (p TurnPolicy) Valid() bool {
	return p == TurnStrafe || p == TurnRotate
}

// CameraPolicy is the camera policy that suits p when nothing else picks one.
// Strafing moves relative to the camera, so an orbiting camera would chase
// the facing and turn sideways input into circles.
func (p TurnPolicy) CameraPolicy() CameraPolicy {
	if p == TurnRotate {
		return CameraOrbit
	}
	return CameraFixed
}

// Toggle returns the other policy.
func (p TurnPolicy) Toggle() TurnPolicy {
	if p == TurnRotate {
		return TurnStrafe
	}
	return TurnRotate
}

// KeyBindings names the keys driving locomotion.
type KeyBindings struct {
	Forward string
	Back    string
	Left    string
	Right   string
}

func DefaultKeyBindings() KeyBindings {
	return KeyBindings{Forward: "w", Back: "s", Left: "a", Right: "d"}
}

// Locomotion is the per-character movement tuning.
type Locomotion struct {
	Policy TurnPolicy
	Keys   KeyBindings
	// MoveSpeed is the distance covered per frame.
	MoveSpeed float64
	// FacingBlend is the fixed per-frame slerp factor toward the heading.
	FacingBlend float64
	// TurnSpeed is radians of target yaw added per frame under TurnRotate.
	TurnSpeed float64
	// TurnSmoothing is the exponential rate pulling yaw toward its target.
	TurnSmoothing float64
}

func DefaultLocomotion() *Locomotion {
	return &Locomotion{
		Policy:        TurnStrafe,
		Keys:          DefaultKeyBindings(),
		MoveSpeed:     0.08,
		FacingBlend:   0.2,
		TurnSpeed:     0.05,
		TurnSmoothing: 10,
	}
}

var LocomotionComponent = NewComponent[Locomotion]()
