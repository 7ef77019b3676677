package geom

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Mat4 is a column-major 4x4 transform: element (row r, column c) is at
// index c*4+r.
type Mat4 [16]float32

// Identity returns the identity transform.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Column returns column c as a Vec4.
func (m Mat4) Column(c int) Vec4 {
	return Vec4{X: m[c*4], Y: m[c*4+1], Z: m[c*4+2], W: m[c*4+3]}
}

// Translation returns the translation part of an affine transform.
func (m Mat4) Translation() Vec3 {
	return Vec3{X: m[12], Y: m[13], Z: m[14]}
}

// MulPoint transforms a point (w=1). Projective transforms are not
// divided through; every transform built here is affine.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	return Vec3{
		X: m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		Y: m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		Z: m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// Mul returns m*n.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+r] * n[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

var (
	worldUp       = r3.Vec{Y: 1}
	worldUpOnPole = r3.Vec{Z: 1}
)

// BillboardMatrix returns a transform placing a quad at pos with its
// normal pointing away from viewpoint, so the XY plane of the quad faces
// the viewer. Columns are right, up, forward and the translation.
func BillboardMatrix(pos, viewpoint Vec3) Mat4 {
	p := toR3(pos)
	forward := r3.Sub(p, toR3(viewpoint))
	if r3.Norm(forward) == 0 {
		m := Identity()
		m[12], m[13], m[14] = pos.X, pos.Y, pos.Z
		return m
	}
	forward = r3.Unit(forward)

	right := r3.Cross(forward, worldUp)
	if r3.Norm2(right) < 1e-12 {
		right = r3.Cross(forward, worldUpOnPole)
	}
	right = r3.Unit(right)
	up := r3.Cross(right, forward)

	return Mat4{
		float32(right.X), float32(right.Y), float32(right.Z), 0,
		float32(up.X), float32(up.Y), float32(up.Z), 0,
		float32(forward.X), float32(forward.Y), float32(forward.Z), 0,
		pos.X, pos.Y, pos.Z, 1,
	}
}

func toR3(v Vec3) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}
