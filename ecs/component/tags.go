package component

// PlayerTag marks the character driven by local input.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()
