package entity

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickflip/geom"
	"quickflip/scene"
	"quickflip/scene/memscene"
)

const entityScene = `
objects:
  - name: Rig
    type: armature
    bones:
      - name: Hand.L
        pose: {location: [0.5, 0, 0]}
  - name: Base
    location: [0, 0, 2]
  - name: Knob
    parent: Base
    location: [1, 0, 0]
  - name: Library
    linked: true
`

func load(t *testing.T) *memscene.Scene {
	t.Helper()

	s, err := memscene.Parse([]byte(entityScene))
	require.NoError(t, err)

	return s
}

func TestNewBoneSnapshotsPose(t *testing.T) {
	s := load(t)

	b, err := NewBone(s, scene.BoneRef("Rig", "Hand.L"))
	require.NoError(t, err)

	assert.Equal(t, "Hand.L", b.Name())
	assert.Equal(t, "Rig", b.Namespace())
	assert.Equal(t, scene.KindBone, b.Kind())
	assert.Equal(t, geom.SpacePose, b.Space())
	assert.Equal(t, mgl64.Vec3{0.5, 0, 0}, b.Transform().Location)
	assert.NoError(t, b.Writable())
}

func TestNewObjectSpaces(t *testing.T) {
	s := load(t)

	local, err := NewObject(s, scene.ObjectRef("Knob"), geom.SpaceLocal)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, local.Transform().Location)
	assert.Equal(t, "", local.Namespace())

	world, err := NewObject(s, scene.ObjectRef("Knob"), geom.SpaceWorld)
	require.NoError(t, err)
	assert.True(t, world.Transform().Location.ApproxEqualThreshold(mgl64.Vec3{1, 0, 2}, 1e-12))

	_, err = NewObject(s, scene.ObjectRef("Knob"), geom.SpacePose)
	assert.Error(t, err)
}

func TestNewRejectsWrongKind(t *testing.T) {
	s := load(t)

	_, err := NewBone(s, scene.ObjectRef("Base"))
	assert.Error(t, err)

	_, err = NewObject(s, scene.BoneRef("Rig", "Hand.L"), geom.SpaceLocal)
	assert.Error(t, err)

	_, err = New(s, scene.ObjectRef("Missing"), geom.SpaceLocal)
	assert.ErrorIs(t, err, scene.ErrNotFound)
}

func TestNewDispatchesOnKind(t *testing.T) {
	s := load(t)

	a, err := New(s, scene.BoneRef("Rig", "Hand.L"), geom.SpaceWorld)
	require.NoError(t, err)
	assert.IsType(t, &Bone{}, a)
	assert.Equal(t, geom.SpacePose, a.Space())

	a, err = New(s, scene.ObjectRef("Base"), geom.SpaceWorld)
	require.NoError(t, err)
	assert.IsType(t, &Object{}, a)
}

func TestWritableDetectsChanges(t *testing.T) {
	s := load(t)

	a, err := New(s, scene.ObjectRef("Base"), geom.SpaceLocal)
	require.NoError(t, err)
	require.NoError(t, a.Writable())

	require.NoError(t, s.Touch(scene.ObjectRef("Base")))
	assert.True(t, errors.Is(a.Writable(), ErrChanged))
}

func TestWritableRejectsLinked(t *testing.T) {
	s := load(t)

	a, err := New(s, scene.ObjectRef("Library"), geom.SpaceLocal)
	require.NoError(t, err)
	assert.ErrorIs(t, a.Writable(), scene.ErrReadOnly)
}

func TestSetTransformWritesOnlyThisEntity(t *testing.T) {
	s := load(t)

	knob, err := New(s, scene.ObjectRef("Knob"), geom.SpaceWorld)
	require.NoError(t, err)

	next := knob.Transform()
	next.Location = mgl64.Vec3{-1, 0, 2}
	require.NoError(t, knob.SetTransform(next))

	local, err := s.ReadTransform(scene.ObjectRef("Knob"), geom.SpaceLocal)
	require.NoError(t, err)
	assert.True(t, local.Location.ApproxEqualThreshold(mgl64.Vec3{-1, 0, 0}, 1e-12))

	base, err := s.ReadTransform(scene.ObjectRef("Base"), geom.SpaceLocal)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{0, 0, 2}, base.Location)
}
