package math

// Mat3x4 is a compact affine transform: three rotation/scale columns followed
// by a translation column, each a float32 triple. It is the per-instance layout
// uploaded to instance buffers.
//
// Layout: [c0.x c0.y c0.z  c1.x c1.y c1.z  c2.x c2.y c2.z  t.x t.y t.z]
type Mat3x4 [12]float32

// Mat3x4Stride is the size of a Mat3x4 in bytes.
const Mat3x4Stride = 12 * 4

// TRS builds a transform from a rotation, a translation and a uniform scale.
func TRS(rotation Quat, position Vec3, scale float32) Mat3x4 {
	c0, c1, c2 := rotation.Columns()
	c0, c1, c2 = c0.Scale(scale), c1.Scale(scale), c2.Scale(scale)
	return Mat3x4{
		c0.X, c0.Y, c0.Z,
		c1.X, c1.Y, c1.Z,
		c2.X, c2.Y, c2.Z,
		position.X, position.Y, position.Z,
	}
}

// Column returns column i (0..3).
func (m Mat3x4) Column(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// Translation returns the translation column.
func (m Mat3x4) Translation() Vec3 {
	return m.Column(3)
}

// TransformPoint applies the full affine transform to p.
func (m Mat3x4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		m[0]*p.X + m[3]*p.Y + m[6]*p.Z + m[9],
		m[1]*p.X + m[4]*p.Y + m[7]*p.Z + m[10],
		m[2]*p.X + m[5]*p.Y + m[8]*p.Z + m[11],
	}
}

// ToMat4 expands m to a column-major 4x4 matrix.
func (m Mat3x4) ToMat4() Mat4 {
	return Mat4{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
		m[9], m[10], m[11], 1,
	}
}
