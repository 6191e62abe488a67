package math

import "github.com/chewxy/math32"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math32.Sincos(angle / 2)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: c,
	}
}

// QuatRotateX returns a rotation of angle radians around the X axis.
func QuatRotateX(angle float32) Quat {
	s, c := math32.Sincos(angle / 2)
	return Quat{X: s, W: c}
}

// QuatRotateY returns a rotation of angle radians around the Y axis.
func QuatRotateY(angle float32) Quat {
	s, c := math32.Sincos(angle / 2)
	return Quat{Y: s, W: c}
}

// QuatRotateZ returns a rotation of angle radians around the Z axis.
func QuatRotateZ(angle float32) Quat {
	s, c := math32.Sincos(angle / 2)
	return Quat{Z: s, W: c}
}

// QuatFromEuler builds a rotation from angles in radians, applied Z first,
// then X, then Y.
func QuatFromEuler(x, y, z float32) Quat {
	return QuatRotateY(y).Mul(QuatRotateX(x)).Mul(QuatRotateZ(z))
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Mul multiplies two quaternions (combines rotations).
// The result applies other first, then q.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate rotates v by q. q must be a unit quaternion.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Columns returns the columns of the 3x3 rotation matrix for q.
// q is not normalized first.
func (q Quat) Columns() (c0, c1, c2 Vec3) {
	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	c0 = Vec3{1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw)}
	c1 = Vec3{2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw)}
	c2 = Vec3{2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy)}
	return c0, c1, c2
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	c0, c1, c2 := q.Normalize().Columns()
	return Mat4{
		c0.X, c0.Y, c0.Z, 0,
		c1.X, c1.Y, c1.Z, 0,
		c2.X, c2.Y, c2.Z, 0,
		0, 0, 0, 1,
	}
}

// ApproxEqual reports whether q and other describe the same rotation within eps.
// q and -q are treated as equal.
func (q Quat) ApproxEqual(other Quat, eps float32) bool {
	return math32.Abs(math32.Abs(q.Dot(other))-1) <= eps
}
