package geom

import (
	"errors"
	"fmt"
	"strings"

	"quickflip/internal/common"
)

// ErrInvalidAxis is returned for axis or space values outside their enums.
var ErrInvalidAxis = errors.New("invalid mirror axis")

// Axis selects the coordinate that a mirror plane is perpendicular to.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns the axis letter.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return common.UnknownStr
	}
}

// Index returns the vector component index of the axis.
func (a Axis) Index() int {
	return int(a)
}

// Valid reports whether a is one of X, Y or Z.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// ParseAxis parses "x", "y" or "z" (any case).
func ParseAxis(s string) (Axis, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return AxisX, nil
	case "Y":
		return AxisY, nil
	case "Z":
		return AxisZ, nil
	default:
		return 0, fmt.Errorf("%w: axis %q", ErrInvalidAxis, s)
	}
}

// Space is the coordinate frame a transform is read, reflected and written in.
type Space int

const (
	// SpaceLocal is an object's transform relative to its parent.
	SpaceLocal Space = iota
	// SpacePose is a bone's transform relative to its rest pose.
	SpacePose
	// SpaceWorld is an object's transform in scene coordinates.
	SpaceWorld
)

// String returns a human-readable space name.
func (s Space) String() string {
	switch s {
	case SpaceLocal:
		return "local"
	case SpacePose:
		return "pose"
	case SpaceWorld:
		return "world"
	default:
		return common.UnknownStr
	}
}

// Valid reports whether s is a known space.
func (s Space) Valid() bool {
	return s >= SpaceLocal && s <= SpaceWorld
}

// ParseSpace parses "local", "pose" or "world" (any case).
func ParseSpace(s string) (Space, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return SpaceLocal, nil
	case "pose":
		return SpacePose, nil
	case "world":
		return SpaceWorld, nil
	default:
		return 0, fmt.Errorf("%w: space %q", ErrInvalidAxis, s)
	}
}

// MirrorAxis combines the mirror axis with the frame the reflection happens in.
type MirrorAxis struct {
	Axis  Axis
	Space Space
}

// String returns e.g. "X@local".
func (m MirrorAxis) String() string {
	return m.Axis.String() + "@" + m.Space.String()
}

// Validate checks both enums.
func (m MirrorAxis) Validate() error {
	if !m.Axis.Valid() {
		return fmt.Errorf("%w: axis %d", ErrInvalidAxis, int(m.Axis))
	}

	if !m.Space.Valid() {
		return fmt.Errorf("%w: space %d", ErrInvalidAxis, int(m.Space))
	}

	return nil
}
