package math

// Mat3 is a 3x3 matrix in column-major order, used for normal matrices.
type Mat3 [9]float32

// IdentityMat3 returns a 3x3 identity matrix.
func IdentityMat3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// TransformVec3 multiplies the matrix by a vector.
func (m Mat3) TransformVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Ptr returns a pointer to the first element (for OpenGL uniform calls).
func (m *Mat3) Ptr() *float32 {
	return &m[0]
}
