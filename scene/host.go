// Package scene defines the boundary between the mirroring engine and the
// application that owns the scene graph.
//
// The engine only reads through Host and writes through Host.WriteTransform
// inside a Txn. Hosts guarantee that a committed Txn is a single undo step.
package scene

import (
	"errors"

	"quickflip/geom"
)

var (
	// ErrNotFound is returned for refs or collections the host does not know.
	ErrNotFound = errors.New("not found")
	// ErrReadOnly is returned when writing to a linked or locked entity.
	ErrReadOnly = errors.New("entity is read-only")
	// ErrTxnActive is returned by BeginAtomic while another Txn is open.
	ErrTxnActive = errors.New("transaction already in progress")
	// ErrTxnClosed is returned when committing or aborting a finished Txn.
	ErrTxnClosed = errors.New("transaction already closed")
)

// Host is the scene graph as seen by the engine.
type Host interface {
	// CurrentSelection returns the selected entities in host order: bones of
	// armatures being posed, objects otherwise.
	CurrentSelection() []Ref
	// Collection returns a collection's direct objects and child collections.
	Collection(id CollectionID) (Collection, error)
	// Children returns the direct parented children of an object.
	Children(obj ObjectID) []ObjectID
	// Bones returns every bone of an armature object in armature order.
	Bones(armature ObjectID) []Ref
	// Info describes one entity.
	Info(ref Ref) (Info, error)
	// Lookup finds the entity called name in the namespace of like.
	Lookup(like Ref, name string) (Ref, bool)
	// ReadTransform returns the entity's transform in space.
	ReadTransform(ref Ref, space geom.Space) (geom.Transform, error)
	// WriteTransform replaces the entity's transform in space.
	WriteTransform(ref Ref, space geom.Space, t geom.Transform) error
	// BeginAtomic opens an undo/transaction boundary.
	BeginAtomic(label string) (Txn, error)
}

// Txn is an open transaction. Exactly one of Commit or Abort must be called.
// Abort reverts every write made since BeginAtomic.
type Txn interface {
	Commit() error
	Abort() error
}
