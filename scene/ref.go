package scene

import (
	"strings"

	"quickflip/internal/common"
)

// ObjectID identifies a scene object.
type ObjectID string

// CollectionID identifies a collection.
type CollectionID string

// Kind tags the two entity variants.
type Kind int

const (
	KindObject Kind = iota
	KindBone
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindBone:
		return "bone"
	default:
		return common.UnknownStr
	}
}

// Ref addresses one entity. Bone refs carry their owning armature, which is
// also their namespace.
type Ref struct {
	Kind   Kind
	Object ObjectID
	Bone   string
}

// ObjectRef addresses an object.
func ObjectRef(id ObjectID) Ref {
	return Ref{Kind: KindObject, Object: id}
}

// BoneRef addresses a bone of armature.
func BoneRef(armature ObjectID, bone string) Ref {
	return Ref{Kind: KindBone, Object: armature, Bone: bone}
}

// Namespace returns the armature id for bones and "" (the scene) for objects.
func (r Ref) Namespace() string {
	if r.Kind == KindBone {
		return string(r.Object)
	}

	return ""
}

// String returns "Armature/Bone" for bones and the object id otherwise.
func (r Ref) String() string {
	if r.Kind == KindBone {
		return string(r.Object) + "/" + r.Bone
	}

	return string(r.Object)
}

// ParseRef is the inverse of Ref.String.
func ParseRef(s string) Ref {
	if armature, bone, ok := strings.Cut(s, "/"); ok {
		return BoneRef(ObjectID(armature), bone)
	}

	return ObjectRef(ObjectID(s))
}

// Info describes an entity at the time it was read.
type Info struct {
	Ref  Ref
	Name string
	// IsArmature is set for armature objects acting as skeletons.
	IsArmature bool
	HasParent  bool
	Selected   bool
	Hidden     bool
	// Linked entities come from a library and cannot be written.
	Linked bool
	// Generation changes whenever the entity is written or restructured.
	Generation uint64
}

// Collection lists a collection's direct members.
type Collection struct {
	ID       CollectionID
	Objects  []ObjectID
	Children []CollectionID
}
