package metascene

import "cogentcore.org/core/math32"

// Vec3 is a 3D point or vector.
type Vec3 = math32.Vector3

// Mat4 is a 4x4 transform stored column-major, as fixed-function OpenGL
// expects it:
//
//	| 0  4  8 12 |
//	| 1  5  9 13 |
//	| 2  6 10 14 |
//	| 3  7 11 15 |
//
// It shares its layout with math32.Matrix4; Matrix4 converts for the rest of
// that API.
type Mat4 math32.Matrix4

// Identity4 is the identity matrix.
var Identity4 = func() Mat4 {
	var m math32.Matrix4
	m.SetIdentity()
	return Mat4(m)
}()

// Matrix4 returns m as a math32 matrix that aliases m.
func (m *Mat4) Matrix4() *math32.Matrix4 {
	return (*math32.Matrix4)(m)
}

// Translate4 returns a translation matrix.
func Translate4(x, y, z float32) Mat4 {
	var m math32.Matrix4
	m.SetTranslation(x, y, z)
	return Mat4(m)
}

// Scale4 returns a scaling matrix.
func Scale4(x, y, z float32) Mat4 {
	var m math32.Matrix4
	m.SetScale(x, y, z)
	return Mat4(m)
}

// RotateZ4 returns a rotation of rad radians about the Z axis.
func RotateZ4(rad float32) Mat4 {
	var m math32.Matrix4
	m.SetRotationZ(rad)
	return Mat4(m)
}

// Ortho4 returns an orthographic projection, the equivalent of glOrtho.
func Ortho4(left, right, bottom, top, near, far float32) Mat4 {
	m := Identity4
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = -2 / (far - near)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -(far + near) / (far - near)
	return m
}

// Perspective4 returns a perspective projection with a vertical field of view
// of fovY radians, the equivalent of gluPerspective.
func Perspective4(fovY, aspect, near, far float32) Mat4 {
	var m math32.Matrix4
	m.SetPerspective(math32.RadToDeg(fovY), aspect, near, far)
	return Mat4(m)
}

// Mul returns m * n, so that n is applied first.
func (m Mat4) Mul(n Mat4) Mat4 {
	var r math32.Matrix4
	r.MulMatrices(m.Matrix4(), n.Matrix4())
	return Mat4(r)
}

// TransformPoint applies m to p with w=1 and returns the homogeneous result.
func (m Mat4) TransformPoint(p Vec3) (x, y, z, w float32) {
	v := math32.Vector4FromVector3(p, 1).MulMatrix4(m.Matrix4())
	return v.X, v.Y, v.Z, v.W
}

// TransformVector applies the upper 3x3 of m to v (no translation).
func (m Mat4) TransformVector(v Vec3) Vec3 {
	r := math32.Vector4FromVector3(v, 0).MulMatrix4(m.Matrix4())
	return math32.Vec3(r.X, r.Y, r.Z)
}

// unit returns v scaled to unit length, or v unchanged if it is zero.
func unit(v Vec3) Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.DivScalar(l)
}

// placementMatrix composes Translate(coord) * RotateZ(rot) * Scale(sx, sy, 1).
// A zero scale counts as 1.
func placementMatrix(p Placement) Mat4 {
	sx, sy := p.scales()
	return Translate4(p.Coord.X, p.Coord.Y, p.Coord.Z).
		Mul(RotateZ4(p.Rot)).
		Mul(Scale4(sx, sy, 1))
}
