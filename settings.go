package quickflip

import (
	"quickflip/geom"
	"quickflip/internal/plan"
	"quickflip/internal/scope"
	"quickflip/naming"
)

// ScopeSpec describes where candidates come from.
type ScopeSpec = scope.Spec

// ScopeMode selects selection or collection scope.
type ScopeMode = scope.Mode

const (
	ScopeSelection  = scope.ModeSelection
	ScopeCollection = scope.ModeCollection
)

// ObjectMode is how objects are mirrored.
type ObjectMode = plan.ObjectMode

const (
	// ObjectReflect reflects location and rotation (the default).
	ObjectReflect = plan.ObjectReflect
	// ObjectNegateScale negates the scale on the axis, like a -1 scale.
	ObjectNegateScale = plan.ObjectNegateScale
)

// Operation names one of the three flips.
type Operation = plan.Operation

const (
	OpSmartFlip   = plan.OpSmartFlip
	OpFlipPose    = plan.OpFlipPose
	OpFlipObjects = plan.OpFlipObjects
)

// Settings is the configuration passed into every operation. The engine keeps
// no settings of its own between calls.
type Settings struct {
	// NamingRules is the ordered rule set. Nil means naming.DefaultRules().
	NamingRules naming.Rules
	// DefaultAxis is the mirror axis. Its space applies to objects; bones
	// always mirror in pose space.
	DefaultAxis geom.MirrorAxis
	Scope       ScopeSpec
	ObjectMode  ObjectMode
}

// DefaultSettings mirrors the selection across X in local space with the
// conventional naming rules.
func DefaultSettings() Settings {
	return Settings{
		NamingRules: naming.DefaultRules(),
		DefaultAxis: geom.MirrorAxis{Axis: geom.AxisX, Space: geom.SpaceLocal},
		Scope:       ScopeSpec{Mode: ScopeSelection},
		ObjectMode:  ObjectReflect,
	}
}

func (s Settings) rules() naming.Rules {
	if s.NamingRules == nil {
		return naming.DefaultRules()
	}

	return s.NamingRules
}
