package plan

import (
	"log/slog"

	"quickflip/geom"
	"quickflip/internal/common"
	"quickflip/internal/diagnostic"
	"quickflip/internal/entity"
	"quickflip/scene"
)

// Operation selects which entities a plan acts on.
type Operation int

const (
	// OpSmartFlip sends bones through the pose path and other objects
	// through the object path, in one plan.
	OpSmartFlip Operation = iota
	// OpFlipPose mirrors bones in pose space.
	OpFlipPose
	// OpFlipObjects mirrors non-armature objects.
	OpFlipObjects
)

// String returns a human-readable operation name.
func (o Operation) String() string {
	switch o {
	case OpSmartFlip:
		return "smart_flip"
	case OpFlipPose:
		return "flip_pose"
	case OpFlipObjects:
		return "flip_objects"
	default:
		return common.UnknownStr
	}
}

// ObjectMode is how objects are mirrored.
type ObjectMode int

const (
	// ObjectReflect reflects location and rotation, keeping scale.
	ObjectReflect ObjectMode = iota
	// ObjectNegateScale negates the scale on the axis, like a -1 scale.
	// Location and rotation are left untouched.
	ObjectNegateScale
)

// String returns a human-readable mode name.
func (m ObjectMode) String() string {
	switch m {
	case ObjectReflect:
		return "reflect"
	case ObjectNegateScale:
		return "negate_scale"
	default:
		return common.UnknownStr
	}
}

// Relation tells whether an entry writes the source back onto itself.
type Relation int

const (
	// RelationSelfMirror writes the reflected transform onto the source.
	RelationSelfMirror Relation = iota
	// RelationCounterpart writes the reflected transform onto the partner.
	RelationCounterpart
)

// String returns a human-readable relation name.
func (r Relation) String() string {
	switch r {
	case RelationSelfMirror:
		return "self"
	case RelationCounterpart:
		return "counterpart"
	default:
		return common.UnknownStr
	}
}

// Config holds configuration for plan building.
type Config struct {
	// ObjectMode selects how objects are mirrored. Bones always reflect.
	ObjectMode ObjectMode
	// Parallelism bounds concurrent snapshot reads (<= 1 reads sequentially).
	Parallelism int
	// Logger receives per-entry debug lines. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultConfig returns the default planning configuration.
func DefaultConfig() Config {
	return Config{
		ObjectMode:  ObjectReflect,
		Parallelism: 1,
	}
}

// Entry is one source -> target assignment.
type Entry struct {
	// Source is the entity whose transform was reflected.
	Source entity.Adapter
	// Target receives Reflected. It is Source for self mirrors.
	Target entity.Adapter
	// Reflected is the transform to write, in Target.Space().
	Reflected geom.Transform
	Relation  Relation
	// NoCounterpart is set when a naming rule matched but the partner does
	// not exist; the entry is then a self mirror.
	NoCounterpart bool
	// Ambiguous is set when several rule fragments matched the source name.
	Ambiguous bool
}

// Plan is the output of Build. Entries are in scope order.
type Plan struct {
	Operation Operation
	Axis      geom.MirrorAxis
	Entries   []Entry
	// Diagnostics contains all warnings and infos from planning.
	Diagnostics diagnostic.Diagnostics
}

// IsEmpty reports whether the plan writes nothing.
func (p *Plan) IsEmpty() bool {
	return len(p.Entries) == 0
}

// Targets returns the distinct targets in first-write order.
func (p *Plan) Targets() []scene.Ref {
	refs := make([]scene.Ref, 0, len(p.Entries))
	for _, e := range p.Entries {
		refs = append(refs, e.Target.Ref())
	}

	return common.Dedupe(refs)
}

// Mirrored counts entries that found a counterpart or are symmetric
// themselves.
func (p *Plan) Mirrored() int {
	n := 0

	for _, e := range p.Entries {
		if !e.NoCounterpart {
			n++
		}
	}

	return n
}

// SkippedNoCounterpart counts entries whose partner was missing.
func (p *Plan) SkippedNoCounterpart() int {
	return len(p.Entries) - p.Mirrored()
}
