package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// gimbalEpsilon is how close |cos| of the middle Euler angle may get to zero
// before the decomposition pins the last angle to zero.
const gimbalEpsilon = 1e-12

// QuatToEuler decomposes q into angles for an Euler mode. Angles for the first
// and last axes fall in (-pi, pi], the middle one in [-pi/2, pi/2]. For
// RotationQuaternion the quaternion is returned unchanged in Rotation.Quat.
func QuatToEuler(q mgl64.Quat, mode RotationMode) Rotation {
	order, ok := eulerOrders[mode]
	if !ok {
		return QuatRotation(q)
	}

	m := q.Normalize().Mat4().Mat3()
	i, j, k := order[0].Index(), order[1].Index(), order[2].Index()

	// Even permutations of XYZ keep the sign of the off-diagonal terms.
	s := 1.0
	if (j-i+3)%3 != 1 {
		s = -1
	}

	var a, b, c float64

	sinB := mgl64.Clamp(-s*m.At(k, i), -1, 1)
	b = math.Asin(sinB)

	if math.Abs(math.Cos(b)) > gimbalEpsilon {
		a = math.Atan2(s*m.At(k, j), m.At(k, k))
		c = math.Atan2(s*m.At(j, i), m.At(i, i))
	} else {
		a = math.Atan2(-s*m.At(j, k), m.At(j, j))
	}

	var angles mgl64.Vec3
	angles[i], angles[j], angles[k] = a, b, c

	return EulerRotation(mode, angles)
}

// WithMode converts r to mode, going through a quaternion when the modes
// differ.
func (r Rotation) WithMode(mode RotationMode) Rotation {
	if r.Mode == mode {
		return r
	}

	return QuatToEuler(r.AsQuat(), mode)
}

// Like converts r to the mode of like. When a conversion happens the Euler
// angles are moved to the branch closest to like, so channels an animator
// keyed do not jump by a half or whole turn.
func (r Rotation) Like(like Rotation) Rotation {
	if r.Mode == like.Mode {
		return r
	}

	return QuatToEuler(r.AsQuat(), like.Mode).Nearest(like)
}

// Nearest returns the Euler angles equivalent to r that lie closest to ref.
// Both decompositions of the orientation are tried and every angle may move
// by whole turns. Quaternions and mismatched modes are returned unchanged.
func (r Rotation) Nearest(ref Rotation) Rotation {
	order, ok := eulerOrders[r.Mode]
	if !ok || ref.Mode != r.Mode {
		return r
	}

	// R_i(a) R_j(b) R_k(c) == R_i(a+pi) R_j(pi-b) R_k(c+pi)
	alt := r.Euler
	alt[order[0].Index()] += math.Pi
	alt[order[1].Index()] = math.Pi - alt[order[1].Index()]
	alt[order[2].Index()] += math.Pi

	best, bestDist := r, math.Inf(1)

	for _, cand := range []mgl64.Vec3{r.Euler, alt} {
		for n := range cand {
			cand[n] = unwrap(cand[n], ref.Euler[n])
		}

		if d := cand.Sub(ref.Euler).LenSqr(); d < bestDist {
			best.Euler, bestDist = cand, d
		}
	}

	return best
}

// unwrap shifts a by whole turns to the value closest to ref.
func unwrap(a, ref float64) float64 {
	return a + 2*math.Pi*math.Round((ref-a)/(2*math.Pi))
}

func isIdentityRotation(r Rotation) bool {
	q := r.AsQuat()
	return math.Abs(q.W) == 1 && q.V == mgl64.Vec3{}
}

// Compose returns the transform of child expressed in the frame parent is
// expressed in. Shear from non-uniform parent scale is ignored. The result
// carries a quaternion rotation, unless parent has no rotation at all, in
// which case child's rotation is kept as stored.
func Compose(parent, child Transform) Transform {
	pr := parent.Rotation.AsQuat()
	scaled := mgl64.Vec3{
		child.Location[0] * parent.Scale[0],
		child.Location[1] * parent.Scale[1],
		child.Location[2] * parent.Scale[2],
	}

	rot := child.Rotation
	if !isIdentityRotation(parent.Rotation) {
		rot = QuatRotation(pr.Mul(child.Rotation.AsQuat()).Normalize())
	}

	return Transform{
		Location: parent.Location.Add(pr.Rotate(scaled)),
		Rotation: rot,
		Scale: mgl64.Vec3{
			parent.Scale[0] * child.Scale[0],
			parent.Scale[1] * child.Scale[1],
			parent.Scale[2] * child.Scale[2],
		},
	}
}

// Relative inverts Compose: it returns the child transform that composes with
// parent to give world. The rotation takes the mode of like and, for Euler
// modes, the angle branch closest to like.
func Relative(parent, world Transform, like Rotation) Transform {
	inv := parent.Rotation.AsQuat().Inverse()
	local := inv.Rotate(world.Location.Sub(parent.Location))

	rot := world.Rotation.Like(like)
	if !isIdentityRotation(parent.Rotation) {
		rot = QuatToEuler(inv.Mul(world.Rotation.AsQuat()).Normalize(), like.Mode).Nearest(like)
	}

	out := Transform{
		Location: mgl64.Vec3{
			safeDiv(local[0], parent.Scale[0]),
			safeDiv(local[1], parent.Scale[1]),
			safeDiv(local[2], parent.Scale[2]),
		},
		Rotation: rot,
		Scale: mgl64.Vec3{
			safeDiv(world.Scale[0], parent.Scale[0]),
			safeDiv(world.Scale[1], parent.Scale[1]),
			safeDiv(world.Scale[2], parent.Scale[2]),
		},
	}

	return out
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}

	return a / b
}
