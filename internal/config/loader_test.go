package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickflip"
	"quickflip/geom"
	"quickflip/naming"
	"quickflip/scene"
)

func TestParse(t *testing.T) {
	yaml := `
version: "1"
axis: y
space: World
object_mode: negate_scale
scope:
  mode: collection
  collection: Props
  include_subcollections: true
  include_children: false
naming_rules:
  - ".L|.R"
  - a: Left
    b: Right
    mode: infix
    case_sensitive: true
parallelism: 4
`

	f, err := Parse([]byte(yaml))
	require.NoError(t, err)

	settings, err := f.Settings()
	require.NoError(t, err)

	assert.Equal(t, geom.MirrorAxis{Axis: geom.AxisY, Space: geom.SpaceWorld}, settings.DefaultAxis)
	assert.Equal(t, quickflip.ObjectNegateScale, settings.ObjectMode)
	assert.Equal(t, quickflip.ScopeSpec{
		Mode:                  quickflip.ScopeCollection,
		Collection:            scene.CollectionID("Props"),
		IncludeSubcollections: true,
	}, settings.Scope)
	assert.Equal(t, naming.Rules{
		{A: ".L", B: ".R", Mode: naming.ModeSuffix},
		{A: "Left", B: "Right", Mode: naming.ModeInfix, CaseSensitive: true},
	}, settings.NamingRules)
	assert.Equal(t, 4, f.Parallelism)
}

func TestParseAppliesDefaults(t *testing.T) {
	f, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, 1, f.Parallelism)

	settings, err := f.Settings()
	require.NoError(t, err)
	assert.Equal(t, quickflip.DefaultSettings(), settings)
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"axis", "axis: W"},
		{"space", "space: screen"},
		{"object mode", "object_mode: squash"},
		{"scope mode", "scope: {mode: everything}"},
		{"rule scalar", "naming_rules: [\".L\"]"},
		{"rule kind", "naming_rules: [[a, b]]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestSettingsValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"version", `version: "2"`},
		{"collection without name", "scope: {mode: collection}"},
		{"unknown rule mode", "naming_rules: [{a: x, b: y, mode: around}]"},
		{"identical fragments", "naming_rules: [\".L|.l\"]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			_, err = f.Settings()
			assert.Error(t, err)
		})
	}
}

func TestLoadFileJSONC(t *testing.T) {
	data := `{
  // mirror across the side plane
  "axis": "X",
  "space": "local",
  "scope": {"mode": "selection", "include_children": true,},
  "naming_rules": [".L|.R", {"a": "L_", "b": "R_", "mode": "prefix"}],
}`

	path := filepath.Join(t.TempDir(), "quickflip.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)

	settings, err := f.Settings()
	require.NoError(t, err)

	assert.True(t, settings.Scope.IncludeChildren)
	require.Len(t, settings.NamingRules, 2)
	assert.Equal(t, naming.ModePrefix, settings.NamingRules[1].Mode)
}

func TestWriteFileRoundTrip(t *testing.T) {
	f := Default()
	f.Axis = Axis(geom.AxisZ)
	f.Space = Space(geom.SpaceWorld)
	f.NamingRules = []RuleDef{{A: "_l", B: "_r", Mode: "suffix"}}

	path := filepath.Join(t.TempDir(), "quickflip.yaml")
	require.NoError(t, WriteFile(f, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, f, loaded)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
