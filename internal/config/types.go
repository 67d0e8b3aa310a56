package config

import (
	"quickflip/geom"
	"quickflip/internal/plan"
	"quickflip/internal/scope"
	"quickflip/naming"
)

// File is the settings file layout.
type File struct {
	Version     string     `yaml:"version"`
	Axis        Axis       `yaml:"axis"`
	Space       Space      `yaml:"space"`
	ObjectMode  ObjectMode `yaml:"object_mode"`
	Scope       ScopeDef   `yaml:"scope"`
	NamingRules []RuleDef  `yaml:"naming_rules,omitempty"`
	// Parallelism bounds concurrent reads while planning.
	Parallelism int `yaml:"parallelism,omitempty"`
}

// ScopeDef is the scope section.
type ScopeDef struct {
	Mode                  ScopeMode `yaml:"mode"`
	Collection            string    `yaml:"collection,omitempty"`
	IncludeSubcollections bool      `yaml:"include_subcollections"`
	IncludeChildren       bool      `yaml:"include_children"`
}

// RuleDef is one naming rule. It decodes from "A|B" or from a mapping.
type RuleDef struct {
	A             string `yaml:"a"`
	B             string `yaml:"b"`
	Mode          string `yaml:"mode,omitempty"`
	CaseSensitive bool   `yaml:"case_sensitive,omitempty"`
}

// Axis is a geom.Axis spelled X, Y or Z.
type Axis geom.Axis

// Space is a geom.Space spelled local, pose or world.
type Space geom.Space

// ObjectMode is a plan.ObjectMode spelled reflect or negate_scale.
type ObjectMode plan.ObjectMode

// ScopeMode is a scope.Mode spelled selection or collection.
type ScopeMode scope.Mode

// Rule converts the definition.
func (r RuleDef) Rule() (naming.Rule, error) {
	mode, err := naming.ParseMode(r.Mode)
	if err != nil {
		return naming.Rule{}, err
	}

	return naming.Rule{A: r.A, B: r.B, Mode: mode, CaseSensitive: r.CaseSensitive}, nil
}
