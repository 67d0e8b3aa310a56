package memscene

import (
	"quickflip/geom"
	"quickflip/scene"
)

// Object types understood by the in-memory scene.
const (
	TypeMesh     = "mesh"
	TypeEmpty    = "empty"
	TypeArmature = "armature"
)

// State is the complete, copyable scene content. Every field is exported so
// transactions can snapshot it with a deep copy.
type State struct {
	Objects     []*Object
	Collections []*Collection
	// Selection is the selection in host order.
	Selection []scene.Ref
}

// Object is a scene object. Transform is relative to Parent.
type Object struct {
	Name       string
	Type       string
	Parent     string
	Hidden     bool
	Linked     bool
	Transform  geom.Transform
	Bones      []*Bone
	Generation uint64
}

// Bone is an armature bone. Pose is relative to Rest and is the only part
// the engine ever writes.
type Bone struct {
	Name       string
	Parent     string
	Rest       geom.Transform
	Pose       geom.Transform
	Generation uint64
}

// Collection groups objects and nested collections.
type Collection struct {
	Name     string
	Objects  []string
	Children []string
}

func (s *State) object(name string) *Object {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}

	return nil
}

func (s *State) bone(armature, name string) *Bone {
	o := s.object(armature)
	if o == nil {
		return nil
	}

	for _, b := range o.Bones {
		if b.Name == name {
			return b
		}
	}

	return nil
}

func (s *State) collection(name string) *Collection {
	for _, c := range s.Collections {
		if c.Name == name {
			return c
		}
	}

	return nil
}

func (s *State) selected(ref scene.Ref) bool {
	for _, r := range s.Selection {
		if r == ref {
			return true
		}
	}

	return false
}

// touch stamps every entity with a fresh generation.
func (s *State) touch(next func() uint64) {
	for _, o := range s.Objects {
		o.Generation = next()
		for _, b := range o.Bones {
			b.Generation = next()
		}
	}
}
