package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/avatar/ecs/component"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type CharacterSpec struct {
	Name       string            `yaml:"name"`
	Model      string            `yaml:"model"`
	Transform  TransformSpec     `yaml:"transform"`
	Roles      map[string]string `yaml:"roles"`
	Locomotion LocomotionSpec    `yaml:"locomotion"`
	Action     ActionSpec        `yaml:"action"`
	Input      InputSpec         `yaml:"input"`
}

func LoadCharacterSpec(filename string) (*CharacterSpec, error) {
	spec, err := LoadSpec[CharacterSpec](filename)
	if err != nil {
		return nil, err
	}
	if spec.Model == "" {
		return nil, fmt.Errorf("prefabs: %s: model is required", filename)
	}
	if spec.Name == "" {
		spec.Name = spec.Model
	}
	return &spec, nil
}

type TransformSpec struct {
	Position [3]float64 `yaml:"position"`
	Yaw      float64    `yaml:"yaw"`
}

type LocomotionSpec struct {
	Policy        string   `yaml:"policy"`
	MoveSpeed     float64  `yaml:"move_speed"`
	FacingBlend   float64  `yaml:"facing_blend"`
	TurnSpeed     float64  `yaml:"turn_speed"`
	TurnSmoothing float64  `yaml:"turn_smoothing"`
	Keys          KeysSpec `yaml:"keys"`
}

type KeysSpec struct {
	Forward string `yaml:"forward"`
	Back    string `yaml:"back"`
	Left    string `yaml:"left"`
	Right   string `yaml:"right"`
}

type ActionSpec struct {
	FadeDuration    float64 `yaml:"fade_duration"`
	AttackTimeScale float64 `yaml:"attack_time_scale"`
	EmoteTimeScale  float64 `yaml:"emote_time_scale"`
	Script          string  `yaml:"script"`
}

type InputSpec struct {
	AttackButton *int   `yaml:"attack_button"`
	EmoteKey     string `yaml:"emote_key"`
}

// Aliases converts the role table into role keys.
func (s *CharacterSpec) Aliases() (map[component.Role]string, error) {
	out := make(map[component.Role]string, len(s.Roles))
	for name, clip := range s.Roles {
		role, err := component.ParseRole(name)
		if err != nil {
			return nil, fmt.Errorf("prefabs: character %s: %w", s.Name, err)
		}
		out[role] = clip
	}
	return out, nil
}

// NewTransform returns the spawn transform.
func (s *CharacterSpec) NewTransform() *component.Transform {
	return component.NewTransform(mgl64.Vec3(s.Transform.Position), s.Transform.Yaw)
}

// NewLocomotion returns the movement tuning with defaults filled in.
func (s *CharacterSpec) NewLocomotion() *component.Locomotion {
	l := component.DefaultLocomotion()
	spec := s.Locomotion
	if p := component.TurnPolicy(spec.Policy); p.Valid() {
		l.Policy = p
	}
	if spec.MoveSpeed > 0 {
		l.MoveSpeed = spec.MoveSpeed
	}
	if spec.FacingBlend > 0 && spec.FacingBlend <= 1 {
		l.FacingBlend = spec.FacingBlend
	}
	if spec.TurnSpeed > 0 {
		l.TurnSpeed = spec.TurnSpeed
	}
	if spec.TurnSmoothing > 0 {
		l.TurnSmoothing = spec.TurnSmoothing
	}
	if spec.Keys.Forward != "" {
		l.Keys.Forward = spec.Keys.Forward
	}
	if spec.Keys.Back != "" {
		l.Keys.Back = spec.Keys.Back
	}
	if spec.Keys.Left != "" {
		l.Keys.Left = spec.Keys.Left
	}
	if spec.Keys.Right != "" {
		l.Keys.Right = spec.Keys.Right
	}
	return l
}

// NewCharacter returns the action tuning with defaults filled in.
func (s *CharacterSpec) NewCharacter() *component.Character {
	c := component.DefaultCharacter(s.Name)
	c.Model = s.Model
	if s.Action.FadeDuration > 0 {
		c.FadeDuration = s.Action.FadeDuration
	}
	if s.Action.AttackTimeScale > 0 {
		c.AttackTimeScale = s.Action.AttackTimeScale
	}
	if s.Action.EmoteTimeScale > 0 {
		c.EmoteTimeScale = s.Action.EmoteTimeScale
	}
	c.Script = s.Action.Script
	return c
}

// NewInputBinding returns the one-shot bindings, unsubscribed.
func (s *CharacterSpec) NewInputBinding() *component.InputBinding {
	b := &component.InputBinding{AttackButton: 0, EmoteKey: "e"}
	if s.Input.AttackButton != nil {
		b.AttackButton = *s.Input.AttackButton
	}
	if s.Input.EmoteKey != "" {
		b.EmoteKey = s.Input.EmoteKey
	}
	return b
}

type CameraSpec struct {
	Name        string     `yaml:"name"`
	Target      string     `yaml:"target"`
	Policy      string     `yaml:"policy"`
	Offset      [3]float64 `yaml:"offset"`
	LookHeight  *float64   `yaml:"look_height"`
	SmoothSpeed float64    `yaml:"smooth_speed"`
	MinHeight   *float64   `yaml:"min_height"`
}

func LoadCameraSpec(filename string) (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// NewRig returns the follow configuration with defaults filled in.
func (s *CameraSpec) NewRig() *component.CameraRig {
	r := component.DefaultCameraRig()
	if p := component.CameraPolicy(s.Policy); p.Valid() {
		r.Policy = p
	}
	if s.Offset != [3]float64{} {
		r.Offset = mgl64.Vec3(s.Offset)
	}
	if s.LookHeight != nil {
		r.LookHeight = *s.LookHeight
	}
	if s.SmoothSpeed > 0 {
		r.SmoothSpeed = s.SmoothSpeed
	}
	if s.MinHeight != nil {
		r.MinHeight = *s.MinHeight
	}
	return r
}
