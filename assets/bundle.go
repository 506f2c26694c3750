// Package assets supplies character model bundles: a mesh hierarchy and the
// animation clips that ship with it.
package assets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/avatar/anim"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownModel = errors.New("assets: unknown model")
	ErrUnknownClip  = errors.New("assets: unknown clip")
)

// MeshNode is one node of a model hierarchy.
type MeshNode struct {
	Name     string
	Offset   mgl64.Vec3
	Children []*MeshNode
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *MeshNode) Walk(fn func(node *MeshNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *MeshNode) walk(fn func(*MeshNode, int) bool, depth int) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Find returns the first node called name.
func (n *MeshNode) Find(name string) *MeshNode {
	var found *MeshNode
	n.Walk(func(node *MeshNode, _ int) bool {
		if found != nil {
			return false
		}
		if node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}

// Bundle is a decoded model. Clips are shared source clips; bind them to
// roles with BindRoles rather than mutating them.
type Bundle struct {
	ID    string
	Mesh  *MeshNode
	Clips []*anim.Clip
}

// Clip returns the source clip called name.
func (b *Bundle) Clip(name string) (*anim.Clip, bool) {
	if b == nil {
		return nil, false
	}
	for _, c := range b.Clips {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ClipNames lists the source clip names in manifest order.
func (b *Bundle) ClipNames() []string {
	if b == nil {
		return nil
	}
	names := make([]string, 0, len(b.Clips))
	for _, c := range b.Clips {
		names = append(names, c.Name)
	}
	return names
}

type modelSpec struct {
	Name  string     `yaml:"name"`
	Mesh  *meshSpec  `yaml:"mesh"`
	Clips []clipSpec `yaml:"clips"`
}

type meshSpec struct {
	Name     string      `yaml:"name"`
	Offset   [3]float64  `yaml:"offset"`
	Children []*meshSpec `yaml:"children"`
}

type clipSpec struct {
	Name      string  `yaml:"name"`
	Duration  float64 `yaml:"duration"`
	Loop      string  `yaml:"loop"`
	TimeScale float64 `yaml:"time_scale"`
}

// Decode parses a model manifest.
func Decode(id string, data []byte) (*Bundle, error) {
	var spec modelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("assets: unmarshal %s: %w", id, err)
	}
	b := &Bundle{ID: id, Mesh: spec.Mesh.node()}
	seen := make(map[string]bool, len(spec.Clips))
	for _, cs := range spec.Clips {
		if cs.Name == "" {
			return nil, fmt.Errorf("assets: %s: clip without a name", id)
		}
		if seen[cs.Name] {
			return nil, fmt.Errorf("assets: %s: duplicate clip %q", id, cs.Name)
		}
		if cs.Duration <= 0 {
			return nil, fmt.Errorf("assets: %s: clip %q has non-positive duration", id, cs.Name)
		}
		loop, err := parseLoop(cs.Loop)
		if err != nil {
			return nil, fmt.Errorf("assets: %s: clip %q: %w", id, cs.Name, err)
		}
		seen[cs.Name] = true
		b.Clips = append(b.Clips, &anim.Clip{
			Name:      cs.Name,
			Duration:  cs.Duration,
			Loop:      loop,
			TimeScale: cs.TimeScale,
		})
	}
	return b, nil
}

func (m *meshSpec) node() *MeshNode {
	if m == nil {
		return nil
	}
	n := &MeshNode{Name: m.Name, Offset: mgl64.Vec3(m.Offset)}
	for _, c := range m.Children {
		if child := c.node(); child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

func parseLoop(s string) (anim.LoopMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "repeat":
		return anim.LoopRepeat, nil
	case "once":
		return anim.LoopOnce, nil
	}
	return anim.LoopRepeat, fmt.Errorf("unknown loop mode %q", s)
}
