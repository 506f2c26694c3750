package component

// Character is the per-instance action tuning loaded from its prefab.
type Character struct {
	Name string
	// Model is the asset provider identifier of the mesh and clips.
	Model string
	// FadeDuration is the cross-fade length in seconds.
	FadeDuration    float64
	AttackTimeScale float64
	EmoteTimeScale  float64
	// Script names an optional tengo script overriding per-role time scale.
	Script string
}

func DefaultCharacter(name string) *Character {
	return &Character{
		Name:            name,
		FadeDuration:    0.2,
		AttackTimeScale: 1,
		EmoteTimeScale:  0.5,
	}
}

var CharacterComponent = NewComponent[Character]()
