// Package entity wraps bones and objects behind one read/write surface.
//
// An adapter is a snapshot: it records the entity's transform and generation
// when it is created. Writable compares that generation with the live one so
// callers can refuse to write over changes made after planning.
package entity

import (
	"errors"
	"fmt"

	"quickflip/geom"
	"quickflip/scene"
)

// ErrChanged is returned by Writable when the entity was modified after the
// adapter was created.
var ErrChanged = errors.New("entity changed since snapshot")

// Adapter is the uniform view of a bone or an object.
type Adapter interface {
	Ref() scene.Ref
	Name() string
	// Namespace is the owning armature for bones and "" for objects.
	Namespace() string
	Kind() scene.Kind
	// Space is the frame Transform was read in and SetTransform writes in.
	Space() geom.Space
	Info() scene.Info
	// Transform returns the snapshot taken at creation.
	Transform() geom.Transform
	// SetTransform writes the whole transform of this entity only.
	SetTransform(t geom.Transform) error
	// Unchanged checks that the entity still exists and was not modified
	// since the snapshot.
	Unchanged() error
	// Writable is Unchanged plus a check that the entity accepts writes.
	Writable() error
}

type base struct {
	host     scene.Host
	info     scene.Info
	space    geom.Space
	snapshot geom.Transform
}

func (b *base) Ref() scene.Ref            { return b.info.Ref }
func (b *base) Name() string              { return b.info.Name }
func (b *base) Namespace() string         { return b.info.Ref.Namespace() }
func (b *base) Kind() scene.Kind          { return b.info.Ref.Kind }
func (b *base) Space() geom.Space         { return b.space }
func (b *base) Info() scene.Info          { return b.info }
func (b *base) Transform() geom.Transform { return b.snapshot }

func (b *base) SetTransform(t geom.Transform) error {
	if err := b.host.WriteTransform(b.info.Ref, b.space, t); err != nil {
		return fmt.Errorf("write %s: %w", b.info.Ref, err)
	}

	return nil
}

func (b *base) Unchanged() error {
	_, err := b.live()
	return err
}

func (b *base) Writable() error {
	live, err := b.live()
	if err != nil {
		return err
	}

	if live.Linked {
		return scene.ErrReadOnly
	}

	return nil
}

func (b *base) live() (scene.Info, error) {
	live, err := b.host.Info(b.info.Ref)
	if err != nil {
		return scene.Info{}, err
	}

	if live.Generation != b.info.Generation {
		return scene.Info{}, fmt.Errorf("%w: generation %d, now %d", ErrChanged, b.info.Generation, live.Generation)
	}

	return live, nil
}

// Bone adapts a pose bone. It always reads and writes pose space, so the
// rest pose is never touched.
type Bone struct {
	base
}

// Object adapts a scene object in local or world space.
type Object struct {
	base
}

// NewBone snapshots a bone.
func NewBone(host scene.Host, ref scene.Ref) (*Bone, error) {
	if ref.Kind != scene.KindBone {
		return nil, fmt.Errorf("%s is not a bone", ref)
	}

	b, err := snapshot(host, ref, geom.SpacePose)
	if err != nil {
		return nil, err
	}

	return &Bone{base: b}, nil
}

// NewObject snapshots an object in space, which must be local or world.
func NewObject(host scene.Host, ref scene.Ref, space geom.Space) (*Object, error) {
	if ref.Kind != scene.KindObject {
		return nil, fmt.Errorf("%s is not an object", ref)
	}

	if space != geom.SpaceLocal && space != geom.SpaceWorld {
		return nil, fmt.Errorf("%s: objects cannot be mirrored in %s space", ref, space)
	}

	b, err := snapshot(host, ref, space)
	if err != nil {
		return nil, err
	}

	return &Object{base: b}, nil
}

// New dispatches on the ref kind. objectSpace applies to objects only.
func New(host scene.Host, ref scene.Ref, objectSpace geom.Space) (Adapter, error) {
	switch ref.Kind {
	case scene.KindBone:
		return NewBone(host, ref)
	case scene.KindObject:
		return NewObject(host, ref, objectSpace)
	default:
		return nil, fmt.Errorf("%s: unknown entity kind %d", ref, int(ref.Kind))
	}
}

func snapshot(host scene.Host, ref scene.Ref, space geom.Space) (base, error) {
	info, err := host.Info(ref)
	if err != nil {
		return base{}, fmt.Errorf("read %s: %w", ref, err)
	}

	t, err := host.ReadTransform(ref, space)
	if err != nil {
		return base{}, fmt.Errorf("read %s: %w", ref, err)
	}

	return base{host: host, info: info, space: space, snapshot: t}, nil
}
