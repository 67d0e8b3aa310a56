package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"quickflip/geom"
	"quickflip/internal/plan"
	"quickflip/internal/scope"
)

// --- Axis / Space YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for Axis.
func (a *Axis) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := geom.ParseAxis(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*a = Axis(parsed)

	return nil
}

// MarshalYAML implements custom YAML marshaling for Axis.
func (a Axis) MarshalYAML() (any, error) {
	return geom.Axis(a).String(), nil
}

// UnmarshalYAML implements custom YAML unmarshaling for Space.
func (s *Space) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return err
	}

	parsed, err := geom.ParseSpace(str)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*s = Space(parsed)

	return nil
}

// MarshalYAML implements custom YAML marshaling for Space.
func (s Space) MarshalYAML() (any, error) {
	return geom.Space(s).String(), nil
}

// --- ObjectMode / ScopeMode YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for ObjectMode.
func (m *ObjectMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reflect":
		*m = ObjectMode(plan.ObjectReflect)
	case "negate_scale", "scale":
		*m = ObjectMode(plan.ObjectNegateScale)
	default:
		return fmt.Errorf("line %d: unknown object_mode %q", node.Line, s)
	}

	return nil
}

// MarshalYAML implements custom YAML marshaling for ObjectMode.
func (m ObjectMode) MarshalYAML() (any, error) {
	return plan.ObjectMode(m).String(), nil
}

// UnmarshalYAML implements custom YAML unmarshaling for ScopeMode.
func (m *ScopeMode) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "selection":
		*m = ScopeMode(scope.ModeSelection)
	case "collection":
		*m = ScopeMode(scope.ModeCollection)
	default:
		return fmt.Errorf("line %d: unknown scope mode %q", node.Line, s)
	}

	return nil
}

// MarshalYAML implements custom YAML marshaling for ScopeMode.
func (m ScopeMode) MarshalYAML() (any, error) {
	return scope.Mode(m).String(), nil
}

// --- RuleDef YAML methods ---

// UnmarshalYAML accepts "A|B" as a case-insensitive suffix rule, or a
// mapping with a, b, mode and case_sensitive.
func (r *RuleDef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}

		a, b, ok := strings.Cut(s, "|")
		if !ok {
			return fmt.Errorf("line %d: naming rule %q: want \"A|B\"", node.Line, s)
		}

		*r = RuleDef{A: a, B: b}

		return nil

	case yaml.MappingNode:
		// Decode through an alias type to avoid recursing into this method.
		type plain RuleDef

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		*r = RuleDef(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected string or mapping for naming rule, got %v", node.Line, node.Kind)
	}
}
