package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"quickflip"
	"quickflip/geom"
	"quickflip/internal/plan"
	"quickflip/internal/scope"
	"quickflip/naming"
	"quickflip/scene"
)

// LoadFile loads and parses a settings file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return ParseJSONC(data)
	default:
		return Parse(data)
	}
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// ParseJSONC parses JSON with comments and trailing commas.
func ParseJSONC(data []byte) (*File, error) {
	return Parse(jsonc.ToJSON(data))
}

// Default returns the settings used when no file is given.
func Default() *File {
	var f File
	applyDefaults(&f)

	return &f
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	if f.Parallelism <= 0 {
		f.Parallelism = 1
	}
}

// Settings validates f and converts it to operation settings.
func (f *File) Settings() (quickflip.Settings, error) {
	var errs []error

	if f.Version != "1" {
		errs = append(errs, fmt.Errorf("unsupported settings version %q", f.Version))
	}

	axis := geom.MirrorAxis{Axis: geom.Axis(f.Axis), Space: geom.Space(f.Space)}
	if err := axis.Validate(); err != nil {
		errs = append(errs, err)
	}

	spec := scope.Spec{
		Mode:                  scope.Mode(f.Scope.Mode),
		Collection:            scene.CollectionID(f.Scope.Collection),
		IncludeSubcollections: f.Scope.IncludeSubcollections,
		IncludeChildren:       f.Scope.IncludeChildren,
	}
	if spec.Mode == scope.ModeCollection && spec.Collection == "" {
		errs = append(errs, errors.New("scope: collection mode needs a collection name"))
	}

	var rules naming.Rules

	for i, def := range f.NamingRules {
		r, err := def.Rule()
		if err != nil {
			errs = append(errs, fmt.Errorf("naming_rules[%d]: %w", i, err))
			continue
		}

		rules = append(rules, r)
	}

	if rules == nil {
		rules = naming.DefaultRules()
	}

	if err := rules.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("naming_rules: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		return quickflip.Settings{}, err
	}

	return quickflip.Settings{
		NamingRules: rules,
		DefaultAxis: axis,
		Scope:       spec,
		ObjectMode:  plan.ObjectMode(f.ObjectMode),
	}, nil
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file %s: %w", path, err)
	}

	return nil
}
