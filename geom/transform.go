// Package geom holds the transform value type and the axis reflection model
// used when mirroring poses and objects.
//
// Reflection is applied per component: location is negated on the mirror
// axis, rotation is conjugated by the mirror matrix (which flips chirality)
// and scale is left as is. Reflecting twice across the same axis returns the
// original transform exactly.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats/scalar"

	"quickflip/internal/common"
)

// DefaultTolerance is the absolute/relative tolerance used by ApproxEqual callers
// that have no better figure.
const DefaultTolerance = 1e-9

// RotationMode tells how a Rotation stores its value.
// Euler modes name the order in which the elemental rotations are applied.
type RotationMode int

const (
	RotationQuaternion RotationMode = iota
	RotationXYZ
	RotationXZY
	RotationYXZ
	RotationYZX
	RotationZXY
	RotationZYX
)

var eulerOrders = map[RotationMode][3]Axis{
	RotationXYZ: {AxisX, AxisY, AxisZ},
	RotationXZY: {AxisX, AxisZ, AxisY},
	RotationYXZ: {AxisY, AxisX, AxisZ},
	RotationYZX: {AxisY, AxisZ, AxisX},
	RotationZXY: {AxisZ, AxisX, AxisY},
	RotationZYX: {AxisZ, AxisY, AxisX},
}

// String returns a human-readable mode name.
func (m RotationMode) String() string {
	if m == RotationQuaternion {
		return "quaternion"
	}

	order, ok := eulerOrders[m]
	if !ok {
		return common.UnknownStr
	}

	return order[0].String() + order[1].String() + order[2].String()
}

// IsEuler reports whether the mode stores Euler angles.
func (m RotationMode) IsEuler() bool {
	_, ok := eulerOrders[m]
	return ok
}

// ParseRotationMode parses "quaternion" or an Euler order such as "XYZ".
func ParseRotationMode(s string) (RotationMode, bool) {
	if s == "" || s == "quaternion" || s == "QUATERNION" {
		return RotationQuaternion, true
	}

	for mode := range eulerOrders {
		if mode.String() == s {
			return mode, true
		}
	}

	return 0, false
}

// Rotation is either a quaternion or a set of Euler angles in radians.
// Only the field selected by Mode is meaningful.
type Rotation struct {
	Mode  RotationMode
	Quat  mgl64.Quat
	Euler mgl64.Vec3
}

// QuatRotation wraps a quaternion.
func QuatRotation(q mgl64.Quat) Rotation {
	return Rotation{Mode: RotationQuaternion, Quat: q}
}

// EulerRotation wraps Euler angles (radians, indexed by axis) with their order.
func EulerRotation(mode RotationMode, angles mgl64.Vec3) Rotation {
	return Rotation{Mode: mode, Euler: angles}
}

// AsQuat returns the rotation as a quaternion. For Euler modes the first axis
// of the order is applied first.
func (r Rotation) AsQuat() mgl64.Quat {
	order, ok := eulerOrders[r.Mode]
	if !ok {
		return r.Quat
	}

	q := mgl64.QuatIdent()
	for _, axis := range order {
		q = mgl64.QuatRotate(r.Euler[axis.Index()], unitVector(axis)).Mul(q)
	}

	return q
}

// Transform is a location/rotation/scale triple. It is a value type;
// operations return new transforms.
type Transform struct {
	Location mgl64.Vec3
	Rotation Rotation
	Scale    mgl64.Vec3
}

// Identity returns the rest transform with a quaternion rotation.
func Identity() Transform {
	return Transform{
		Rotation: QuatRotation(mgl64.QuatIdent()),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// IsFinite reports whether every component is a finite number.
func (t Transform) IsFinite() bool {
	values := []float64{t.Rotation.Quat.W}
	values = append(values, t.Location[:]...)
	values = append(values, t.Scale[:]...)
	values = append(values, t.Rotation.Quat.V[:]...)
	values = append(values, t.Rotation.Euler[:]...)

	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// ApproxEqual compares two transforms within tol. Rotation modes must match.
// Quaternions q and -q describe the same orientation and compare equal.
func (t Transform) ApproxEqual(o Transform, tol float64) bool {
	if !vecApproxEqual(t.Location, o.Location, tol) || !vecApproxEqual(t.Scale, o.Scale, tol) {
		return false
	}

	if t.Rotation.Mode != o.Rotation.Mode {
		return false
	}

	if t.Rotation.Mode.IsEuler() {
		return vecApproxEqual(t.Rotation.Euler, o.Rotation.Euler, tol)
	}

	return quatApproxEqual(t.Rotation.Quat, o.Rotation.Quat, tol) ||
		quatApproxEqual(t.Rotation.Quat, o.Rotation.Quat.Scale(-1), tol)
}

func vecApproxEqual(a, b mgl64.Vec3, tol float64) bool {
	for i := range a {
		if !scalar.EqualWithinAbsOrRel(a[i], b[i], tol, tol) {
			return false
		}
	}

	return true
}

func quatApproxEqual(a, b mgl64.Quat, tol float64) bool {
	return scalar.EqualWithinAbsOrRel(a.W, b.W, tol, tol) && vecApproxEqual(a.V, b.V, tol)
}

func unitVector(a Axis) mgl64.Vec3 {
	var v mgl64.Vec3
	v[a.Index()] = 1

	return v
}
