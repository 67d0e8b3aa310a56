package quickflip

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickflip/geom"
	"quickflip/scene"
	"quickflip/scene/memscene"
)

const studio = `
objects:
  - name: Rig
    type: armature
    bones:
      - name: Arm.L
        pose: {location: [1, 0, 0]}
      - name: Arm.R
      - name: Spine
        pose:
          location: [0.5, 0, 0]
          rotation: [0.9238795, 0.3826834, 0, 0]
      - name: Hand.L
        pose: {location: [0, 2, 0]}
  - name: Prop
    location: [1, 2, 3]
  - name: Base
    location: [0, 0, 2]
  - name: Knob
    parent: Base
    location: [1, 0, 0]
  - name: Lamp
  - name: Shade
    parent: Lamp
    location: [0, 1, 0]
  - name: Vase
    location: [3, 0, 0]
  - name: Gem
    location: [4, 0, 0]
collections:
  - name: Room
    objects: [Lamp]
    children: [Shelf]
  - name: Shelf
    objects: [Vase]
    children: [Box]
  - name: Box
    objects: [Gem]
`

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func load(t *testing.T, selection ...scene.Ref) *memscene.Scene {
	t.Helper()

	s, err := memscene.Parse([]byte(studio))
	require.NoError(t, err)
	s.Select(selection...)

	return s
}

func loc(t *testing.T, s *memscene.Scene, ref scene.Ref) mgl64.Vec3 {
	t.Helper()

	space := geom.SpaceLocal
	if ref.Kind == scene.KindBone {
		space = geom.SpacePose
	}

	tr, err := s.ReadTransform(ref, space)
	require.NoError(t, err)

	return tr.Location
}

func bone(name string) scene.Ref {
	return scene.BoneRef("Rig", name)
}

func TestFlipPoseScenario(t *testing.T) {
	t.Run("one side selected", func(t *testing.T) {
		s := load(t, bone("Arm.L"))

		sum, err := FlipPose(context.Background(), s, DefaultSettings(), quiet())
		require.NoError(t, err)

		assert.Equal(t, Summary{EntitiesMirrored: 1, Warnings: []string{}}, sum)
		assert.Equal(t, mgl64.Vec3{-1, 0, 0}, loc(t, s, bone("Arm.R")))
		assert.Equal(t, mgl64.Vec3{1, 0, 0}, loc(t, s, bone("Arm.L")))
	})

	t.Run("both sides selected", func(t *testing.T) {
		s := load(t, bone("Arm.L"), bone("Arm.R"))

		sum, err := FlipPose(context.Background(), s, DefaultSettings(), quiet())
		require.NoError(t, err)

		assert.Equal(t, 2, sum.EntitiesMirrored)
		assert.Equal(t, mgl64.Vec3{-1, 0, 0}, loc(t, s, bone("Arm.R")))
		assert.Equal(t, mgl64.Vec3{0, 0, 0}, loc(t, s, bone("Arm.L")))
	})
}

func TestFlipObjectsSelfMirrorScenario(t *testing.T) {
	s := load(t, scene.ObjectRef("Prop"))

	settings := DefaultSettings()
	settings.DefaultAxis = geom.MirrorAxis{Axis: geom.AxisY, Space: geom.SpaceLocal}

	sum, err := FlipObjects(context.Background(), s, settings, quiet())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.EntitiesMirrored)
	assert.Zero(t, sum.EntitiesSkippedNoCounterpart)
	assert.Empty(t, sum.Warnings)
	assert.Equal(t, mgl64.Vec3{1, -2, 3}, loc(t, s, scene.ObjectRef("Prop")))
}

func TestSymmetricBoneMirrorsOntoItself(t *testing.T) {
	s := load(t, bone("Spine"))

	before, err := s.ReadTransform(bone("Spine"), geom.SpacePose)
	require.NoError(t, err)

	_, err = FlipPose(context.Background(), s, DefaultSettings(), quiet())
	require.NoError(t, err)

	after, err := s.ReadTransform(bone("Spine"), geom.SpacePose)
	require.NoError(t, err)

	want, err := geom.Reflect(before, DefaultSettings().DefaultAxis)
	require.NoError(t, err)
	assert.True(t, want.ApproxEqual(after, geom.DefaultTolerance))
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, loc(t, s, bone("Arm.R")), "no other bone is written")
}

func TestMissingCounterpartIsReported(t *testing.T) {
	s := load(t, bone("Hand.L"))

	sum, err := FlipPose(context.Background(), s, DefaultSettings(), quiet())
	require.NoError(t, err)

	assert.Zero(t, sum.EntitiesMirrored)
	assert.Equal(t, 1, sum.EntitiesSkippedNoCounterpart)
	require.Len(t, sum.Warnings, 1)
	assert.Contains(t, sum.Warnings[0], "[no_counterpart]")
	assert.Equal(t, mgl64.Vec3{0, 2, 0}, loc(t, s, bone("Hand.L")), "X reflection keeps y")
}

func TestSmartFlipIsOneUndoStep(t *testing.T) {
	s := load(t, bone("Arm.L"), scene.ObjectRef("Prop"))

	sum, err := SmartFlip(context.Background(), s, DefaultSettings(), quiet())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.EntitiesMirrored)

	assert.Equal(t, mgl64.Vec3{-1, 0, 0}, loc(t, s, bone("Arm.R")))
	assert.Equal(t, mgl64.Vec3{-1, 2, 3}, loc(t, s, scene.ObjectRef("Prop")))
	assert.Equal(t, []string{"Smart Flip X"}, s.UndoLabels())

	require.NoError(t, s.Undo())
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, loc(t, s, bone("Arm.R")))
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, loc(t, s, scene.ObjectRef("Prop")))
}

func TestCollectionScopeSkipsGrandchildCollections(t *testing.T) {
	s := load(t)

	settings := DefaultSettings()
	settings.Scope = ScopeSpec{
		Mode:                  ScopeCollection,
		Collection:            "Room",
		IncludeSubcollections: false,
		IncludeChildren:       true,
	}

	_, entries, err := Preview(context.Background(), s, OpFlipObjects, settings, quiet())
	require.NoError(t, err)

	var sources []string
	for _, e := range entries {
		sources = append(sources, e.Source)
	}

	assert.Equal(t, []string{"Lamp", "Shade"}, sources)

	settings.Scope.IncludeSubcollections = true

	_, entries, err = Preview(context.Background(), s, OpFlipObjects, settings, quiet())
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestWorldSpaceObjects(t *testing.T) {
	s := load(t, scene.ObjectRef("Knob"))

	settings := DefaultSettings()
	settings.DefaultAxis.Space = geom.SpaceWorld

	_, err := FlipObjects(context.Background(), s, settings, quiet())
	require.NoError(t, err)

	knob := loc(t, s, scene.ObjectRef("Knob"))
	assert.True(t, knob.ApproxEqualThreshold(mgl64.Vec3{-1, 0, 0}, 1e-12), "got %v", knob)
	assert.Equal(t, mgl64.Vec3{0, 0, 2}, loc(t, s, scene.ObjectRef("Base")))
}

func TestWorldSpaceFlipTwiceRestoresEulerObject(t *testing.T) {
	s := load(t)

	crate := geom.Transform{
		Location: mgl64.Vec3{2, 1, 0},
		Rotation: geom.EulerRotation(geom.RotationXYZ, mgl64.Vec3{0.1, 2.0, 0.3}),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
	require.NoError(t, s.AddObject(memscene.Object{Name: "Crate", Transform: crate}))
	require.NoError(t, s.AddObject(memscene.Object{Name: "Lid", Parent: "Base", Transform: crate}))
	s.Select(scene.ObjectRef("Crate"), scene.ObjectRef("Lid"))

	settings := DefaultSettings()
	settings.DefaultAxis.Space = geom.SpaceWorld

	for range 2 {
		_, err := FlipObjects(context.Background(), s, settings, quiet())
		require.NoError(t, err)
	}

	for _, ref := range []scene.Ref{scene.ObjectRef("Crate"), scene.ObjectRef("Lid")} {
		after, err := s.ReadTransform(ref, geom.SpaceLocal)
		require.NoError(t, err)
		assert.True(t, after.ApproxEqual(crate, 1e-12), "%s: got %+v", ref, after)
	}
}

func TestFlipObjectsNeverWritesArmatureCounterpart(t *testing.T) {
	s := load(t)

	body := geom.Identity()
	body.Location = mgl64.Vec3{1, 0, 0}
	rig := geom.Identity()
	rig.Location = mgl64.Vec3{5, 5, 5}

	require.NoError(t, s.AddObject(memscene.Object{Name: "Body.L", Transform: body}))
	require.NoError(t, s.AddObject(memscene.Object{Name: "Body.R", Type: memscene.TypeArmature, Transform: rig}))
	s.Select(scene.ObjectRef("Body.L"))

	sum, err := FlipObjects(context.Background(), s, DefaultSettings(), quiet())
	require.NoError(t, err)

	assert.Equal(t, 0, sum.EntitiesMirrored)
	assert.Equal(t, 1, sum.EntitiesSkippedNoCounterpart)
	require.Len(t, sum.Warnings, 1)
	assert.Contains(t, sum.Warnings[0], "[no_counterpart]")

	assert.Equal(t, mgl64.Vec3{5, 5, 5}, loc(t, s, scene.ObjectRef("Body.R")))
	assert.Equal(t, mgl64.Vec3{-1, 0, 0}, loc(t, s, scene.ObjectRef("Body.L")))
}

func TestEmptyScopeIsNotAnError(t *testing.T) {
	s := load(t)

	sum, err := SmartFlip(context.Background(), s, DefaultSettings(), quiet())
	require.NoError(t, err)

	assert.Zero(t, sum.EntitiesMirrored)
	require.Len(t, sum.Warnings, 1)
	assert.Contains(t, sum.Warnings[0], "[empty_scope]")
	assert.Empty(t, s.UndoLabels())
}

func TestInvalidAxisLeavesSceneUntouched(t *testing.T) {
	s := load(t, scene.ObjectRef("Prop"))

	settings := DefaultSettings()
	settings.DefaultAxis.Space = geom.SpacePose

	_, err := FlipObjects(context.Background(), s, settings, quiet())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAxisForSpace))

	var me *MirrorError
	assert.ErrorAs(t, err, &me)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, loc(t, s, scene.ObjectRef("Prop")))
}

func TestInvalidNamingRulesAreRejected(t *testing.T) {
	s := load(t, scene.ObjectRef("Prop"))

	settings := DefaultSettings()
	settings.NamingRules = append(settings.NamingRules, settings.NamingRules[0])
	settings.NamingRules[len(settings.NamingRules)-1].B = settings.NamingRules[0].A

	_, err := FlipObjects(context.Background(), s, settings, quiet())
	assert.Error(t, err)
}

// editingHost touches an entity right after it is read, as if the user kept
// editing while the plan was being built.
type editingHost struct {
	*memscene.Scene
	edit scene.Ref
}

func (h *editingHost) ReadTransform(ref scene.Ref, space geom.Space) (geom.Transform, error) {
	t, err := h.Scene.ReadTransform(ref, space)
	if err == nil && ref == h.edit {
		err = h.Touch(ref)
	}

	return t, err
}

func TestStalePlanWritesNothing(t *testing.T) {
	s := load(t, scene.ObjectRef("Prop"), bone("Arm.L"))
	host := &editingHost{Scene: s, edit: bone("Arm.R")}

	m := NewMetrics()

	_, err := SmartFlip(context.Background(), host, DefaultSettings(), quiet(), WithMetrics(m))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEntityStale))

	assert.Equal(t, mgl64.Vec3{1, 2, 3}, loc(t, s, scene.ObjectRef("Prop")))
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, loc(t, s, bone("Arm.R")))
	assert.Empty(t, s.UndoLabels())

	expected := `
# HELP quickflip_operations_total Mirror operations by operation and outcome.
# TYPE quickflip_operations_total counter
quickflip_operations_total{operation="smart_flip",outcome="stale"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Gatherer(), strings.NewReader(expected), "quickflip_operations_total"))
}

func TestFailedWriteRollsBack(t *testing.T) {
	s := load(t, scene.ObjectRef("Prop"), bone("Arm.L"))
	s.FailWrites(bone("Arm.R"), errors.New("locked channel"))

	_, err := SmartFlip(context.Background(), s, DefaultSettings(), quiet())
	require.Error(t, err)

	assert.Equal(t, mgl64.Vec3{1, 2, 3}, loc(t, s, scene.ObjectRef("Prop")))
	assert.Empty(t, s.UndoLabels())
}

func TestPreviewDoesNotWrite(t *testing.T) {
	s := load(t, bone("Arm.L"), bone("Hand.L"))

	sum, entries, err := Preview(context.Background(), s, OpFlipPose, DefaultSettings(), quiet(), WithParallelism(2))
	require.NoError(t, err)

	assert.Equal(t, 1, sum.EntitiesMirrored)
	assert.Equal(t, 1, sum.EntitiesSkippedNoCounterpart)
	require.Len(t, entries, 2)
	assert.Equal(t, PlannedEntry{
		Source:    "Rig/Arm.L",
		Target:    "Rig/Arm.R",
		Relation:  "counterpart",
		Reflected: entries[0].Reflected,
	}, entries[0])
	assert.Equal(t, mgl64.Vec3{-1, 0, 0}, entries[0].Reflected.Location)
	assert.True(t, entries[1].NoCounterpart)

	assert.Equal(t, mgl64.Vec3{0, 0, 0}, loc(t, s, bone("Arm.R")))
	assert.Empty(t, s.UndoLabels())
}

func TestMetricsCountAppliedOperations(t *testing.T) {
	s := load(t, bone("Arm.L"), bone("Hand.L"))
	m := NewMetrics()

	_, err := FlipPose(context.Background(), s, DefaultSettings(), quiet(), WithMetrics(m), WithUndoLabel("Mirror"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Mirror X"}, s.UndoLabels())

	expected := `
# HELP quickflip_entities_mirrored_total Entities mirrored onto a counterpart or onto themselves.
# TYPE quickflip_entities_mirrored_total counter
quickflip_entities_mirrored_total 1
# HELP quickflip_entities_no_counterpart_total Entities whose counterpart was missing.
# TYPE quickflip_entities_no_counterpart_total counter
quickflip_entities_no_counterpart_total 1
# HELP quickflip_targets_written_total Distinct entities written by applied operations.
# TYPE quickflip_targets_written_total counter
quickflip_targets_written_total 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Gatherer(), strings.NewReader(expected),
		"quickflip_entities_mirrored_total", "quickflip_entities_no_counterpart_total",
		"quickflip_targets_written_total"))
}
