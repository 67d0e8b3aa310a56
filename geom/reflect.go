package geom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Reflect mirrors t across the plane perpendicular to axis.Axis. The space in
// axis only documents the frame t was read in; the arithmetic is the same in
// every frame because the caller reads and writes in that frame.
//
// Location is negated on the axis. A rotation axis is a pseudovector, so
// conjugating by the mirror matrix keeps the rotation component about the
// mirror axis and negates the two perpendicular ones. That holds for the
// quaternion vector part and for each Euler angle independently, so the Euler
// order survives untouched. Scale is not changed.
func Reflect(t Transform, axis MirrorAxis) (Transform, error) {
	if err := axis.Validate(); err != nil {
		return Transform{}, err
	}

	i := axis.Axis.Index()

	out := t
	out.Location[i] = -t.Location[i]

	switch {
	case t.Rotation.Mode.IsEuler():
		out.Rotation.Euler = negateOthers(t.Rotation.Euler, i)
	default:
		out.Rotation.Quat = mgl64.Quat{W: t.Rotation.Quat.W, V: negateOthers(t.Rotation.Quat.V, i)}
	}

	return out, nil
}

// NegateScale mirrors an object the way a -1 scale on the axis does: the
// scale component flips sign and nothing else changes. Applying it twice is
// the identity.
func NegateScale(t Transform, axis MirrorAxis) (Transform, error) {
	if err := axis.Validate(); err != nil {
		return Transform{}, err
	}

	out := t
	out.Scale[axis.Axis.Index()] = -t.Scale[axis.Axis.Index()]

	return out, nil
}

// MirrorMatrix returns diag(±1) with -1 on the mirror axis.
func MirrorMatrix(a Axis) mgl64.Mat3 {
	m := mgl64.Ident3()
	m.Set(a.Index(), a.Index(), -1)

	return m
}

func negateOthers(v mgl64.Vec3, keep int) mgl64.Vec3 {
	for j := range v {
		if j != keep {
			v[j] = -v[j]
		}
	}

	return v
}
