// Package memscene provides an in-memory scene host used by tests, previews
// and the command line tool.
//
// All access is guarded by a single RWMutex. Transactions snapshot the state
// with a deep copy; aborting restores the snapshot and committing pushes it
// onto the undo stack, so one committed transaction is one undo step.
package memscene

import (
	"errors"
	"fmt"
	"sync"

	"quickflip/geom"
	"quickflip/scene"
)

// Compile-time contract assertion.
var _ scene.Host = (*Scene)(nil)

// ErrNothingToUndo is returned by Undo on an empty undo stack.
var ErrNothingToUndo = errors.New("nothing to undo")

type undoStep struct {
	label string
	state State
}

// Scene is an in-memory scene.Host.
type Scene struct {
	mu      sync.RWMutex
	state   State
	clock   uint64
	txn     *txn
	undo    []undoStep
	failing map[scene.Ref]error
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{failing: make(map[scene.Ref]error)}
}

// FromState returns a scene holding st. Generations are assigned fresh.
func FromState(st State) *Scene {
	s := New()
	s.state = st
	s.state.touch(s.next)

	return s
}

func (s *Scene) next() uint64 {
	s.clock++
	return s.clock
}

// AddObject appends an object. Names must be unique and parents must exist.
func (s *Scene) AddObject(o Object) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.Name == "" {
		return errors.New("object name is required")
	}

	if s.state.object(o.Name) != nil {
		return fmt.Errorf("object %q already exists", o.Name)
	}

	if o.Parent != "" && s.state.object(o.Parent) == nil {
		return fmt.Errorf("object %q: parent %q: %w", o.Name, o.Parent, scene.ErrNotFound)
	}

	if o.Type == "" {
		o.Type = TypeMesh
	}

	seen := make(map[string]bool, len(o.Bones))
	for _, b := range o.Bones {
		if seen[b.Name] {
			return fmt.Errorf("object %q: duplicate bone %q", o.Name, b.Name)
		}

		seen[b.Name] = true
		b.Generation = s.next()
	}

	o.Generation = s.next()
	s.state.Objects = append(s.state.Objects, &o)

	return nil
}

// AddCollection appends a collection.
func (s *Scene) AddCollection(c Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.collection(c.Name) != nil {
		return fmt.Errorf("collection %q already exists", c.Name)
	}

	s.state.Collections = append(s.state.Collections, &c)

	return nil
}

// Select replaces the selection.
func (s *Scene) Select(refs ...scene.Ref) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Selection = append([]scene.Ref(nil), refs...)
}

// Touch bumps an entity's generation as if the user had edited it.
func (s *Scene) Touch(ref scene.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ref.Kind {
	case scene.KindBone:
		b := s.state.bone(string(ref.Object), ref.Bone)
		if b == nil {
			return fmt.Errorf("%s: %w", ref, scene.ErrNotFound)
		}

		b.Generation = s.next()
	default:
		o := s.state.object(string(ref.Object))
		if o == nil {
			return fmt.Errorf("%s: %w", ref, scene.ErrNotFound)
		}

		o.Generation = s.next()
	}

	return nil
}

// FailWrites makes every later WriteTransform to ref return err.
// A nil err clears the failure.
func (s *Scene) FailWrites(ref scene.Ref, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		delete(s.failing, ref)
		return
	}

	s.failing[ref] = err
}

// Undo restores the state from before the last committed transaction.
func (s *Scene) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.txn != nil {
		return scene.ErrTxnActive
	}

	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}

	step := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.state = step.state
	s.state.touch(s.next)

	return nil
}

// UndoLabels returns the labels of the undo stack, oldest first.
func (s *Scene) UndoLabels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.undo))
	for _, step := range s.undo {
		out = append(out, step.label)
	}

	return out
}

// Snapshot returns a deep copy of the current state.
func (s *Scene) Snapshot() (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneState(&s.state)
}

// CurrentSelection implements scene.Host.
func (s *Scene) CurrentSelection() []scene.Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]scene.Ref(nil), s.state.Selection...)
}

// Collection implements scene.Host.
func (s *Scene) Collection(id scene.CollectionID) (scene.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := s.state.collection(string(id))
	if c == nil {
		return scene.Collection{}, fmt.Errorf("collection %q: %w", id, scene.ErrNotFound)
	}

	out := scene.Collection{ID: id}
	for _, name := range c.Objects {
		out.Objects = append(out.Objects, scene.ObjectID(name))
	}

	for _, name := range c.Children {
		out.Children = append(out.Children, scene.CollectionID(name))
	}

	return out, nil
}

// Children implements scene.Host.
func (s *Scene) Children(obj scene.ObjectID) []scene.ObjectID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []scene.ObjectID

	for _, o := range s.state.Objects {
		if o.Parent == string(obj) {
			out = append(out, scene.ObjectID(o.Name))
		}
	}

	return out
}

// Bones implements scene.Host.
func (s *Scene) Bones(armature scene.ObjectID) []scene.Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o := s.state.object(string(armature))
	if o == nil {
		return nil
	}

	out := make([]scene.Ref, 0, len(o.Bones))
	for _, b := range o.Bones {
		out = append(out, scene.BoneRef(armature, b.Name))
	}

	return out
}

// Info implements scene.Host.
func (s *Scene) Info(ref scene.Ref) (scene.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o := s.state.object(string(ref.Object))
	if o == nil {
		return scene.Info{}, fmt.Errorf("%s: %w", ref, scene.ErrNotFound)
	}

	if ref.Kind == scene.KindBone {
		b := s.state.bone(o.Name, ref.Bone)
		if b == nil {
			return scene.Info{}, fmt.Errorf("%s: %w", ref, scene.ErrNotFound)
		}

		return scene.Info{
			Ref:        ref,
			Name:       b.Name,
			HasParent:  b.Parent != "",
			Selected:   s.state.selected(ref),
			Hidden:     o.Hidden,
			Linked:     o.Linked,
			Generation: b.Generation,
		}, nil
	}

	return scene.Info{
		Ref:        ref,
		Name:       o.Name,
		IsArmature: o.Type == TypeArmature,
		HasParent:  o.Parent != "",
		Selected:   s.state.selected(ref),
		Hidden:     o.Hidden,
		Linked:     o.Linked,
		Generation: o.Generation,
	}, nil
}

// Lookup implements scene.Host.
func (s *Scene) Lookup(like scene.Ref, name string) (scene.Ref, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if like.Kind == scene.KindBone {
		if s.state.bone(string(like.Object), name) == nil {
			return scene.Ref{}, false
		}

		return scene.BoneRef(like.Object, name), true
	}

	if s.state.object(name) == nil {
		return scene.Ref{}, false
	}

	return scene.ObjectRef(scene.ObjectID(name)), true
}

// ReadTransform implements scene.Host.
func (s *Scene) ReadTransform(ref scene.Ref, space geom.Space) (geom.Transform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ref.Kind == scene.KindBone {
		if space != geom.SpacePose {
			return geom.Transform{}, fmt.Errorf("%s: bones are read in pose space, not %s", ref, space)
		}

		b := s.state.bone(string(ref.Object), ref.Bone)
		if b == nil {
			return geom.Transform{}, fmt.Errorf("%s: %w", ref, scene.ErrNotFound)
		}

		return b.Pose, nil
	}

	o := s.state.object(string(ref.Object))
	if o == nil {
		return geom.Transform{}, fmt.Errorf("%s: %w", ref, scene.ErrNotFound)
	}

	switch space {
	case geom.SpaceLocal:
		return o.Transform, nil
	case geom.SpaceWorld:
		return s.worldLocked(o), nil
	default:
		return geom.Transform{}, fmt.Errorf("%s: objects are read in local or world space, not %s", ref, space)
	}
}

// WriteTransform implements scene.Host.
func (s *Scene) WriteTransform(ref scene.Ref, space geom.Space, t geom.Transform) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failing[ref]; err != nil {
		return fmt.Errorf("%s: %w", ref, err)
	}

	if !t.IsFinite() {
		return fmt.Errorf("%s: transform has non-finite components", ref)
	}

	o := s.state.object(string(ref.Object))
	if o == nil {
		return fmt.Errorf("%s: %w", ref, scene.ErrNotFound)
	}

	if o.Linked {
		return fmt.Errorf("%s: %w", ref, scene.ErrReadOnly)
	}

	if ref.Kind == scene.KindBone {
		if space != geom.SpacePose {
			return fmt.Errorf("%s: bones are written in pose space, not %s", ref, space)
		}

		b := s.state.bone(o.Name, ref.Bone)
		if b == nil {
			return fmt.Errorf("%s: %w", ref, scene.ErrNotFound)
		}

		b.Pose = t
		b.Generation = s.next()

		return nil
	}

	switch space {
	case geom.SpaceLocal:
		o.Transform = t
	case geom.SpaceWorld:
		if p := s.state.object(o.Parent); p != nil {
			o.Transform = geom.Relative(s.worldLocked(p), t, o.Transform.Rotation)
			break
		}

		t.Rotation = t.Rotation.Like(o.Transform.Rotation)
		o.Transform = t
	default:
		return fmt.Errorf("%s: objects are written in local or world space, not %s", ref, space)
	}

	o.Generation = s.next()

	return nil
}

// worldLocked composes the parent chain. An object without a parent is its
// own world transform. The caller holds the lock.
func (s *Scene) worldLocked(o *Object) geom.Transform {
	world := o.Transform
	seen := map[string]bool{o.Name: true}

	for p := s.state.object(o.Parent); p != nil && !seen[p.Name]; p = s.state.object(p.Parent) {
		seen[p.Name] = true
		world = geom.Compose(p.Transform, world)
	}

	return world
}
