// Package component holds the plain data attached to entities. Each type is
// registered once with NewComponent and looked up through its handle's Kind.
package component

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID is the storage key of a registered kind. Zero is never issued.
type ComponentID uint32

var lastComponentID atomic.Uint32

// ComponentKind identifies one registered component type. The zero value is
// invalid and rejected by the world.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

// NewComponentKind registers T under a fresh id. Registering the same type
// twice yields two independent kinds.
func NewComponentKind[T any]() ComponentKind[T] {
	var zero T
	return ComponentKind[T]{
		id:   ComponentID(lastComponentID.Add(1)),
		name: fmt.Sprintf("%T", zero),
	}
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }

func (k ComponentKind[T]) Valid() bool { return k.id != 0 }

// Name is the Go type name of T, e.g. "component.Transform".
func (k ComponentKind[T]) Name() string { return k.name }

func (k ComponentKind[T]) String() string {
	if !k.Valid() {
		return "component(invalid)"
	}
	return fmt.Sprintf("%s#%d", k.name, k.id)
}

// ComponentHandle is the package-level registration of a component type,
// e.g. TransformComponent.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}
