// Package geom provides small float32 value types for mesh geometry.
package geom

import "math"

// Vec2 is a 2D vector, used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Mul returns the component-wise product.
func (v Vec3) Mul(u Vec3) Vec3 {
	return Vec3{X: v.X * u.X, Y: v.Y * u.Y, Z: v.Z * u.Z}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Vec4 is a 4D vector. Colors use X,Y,Z,W as R,G,B,A.
type Vec4 struct {
	X, Y, Z, W float32
}

// Norm returns the magnitude of the vector.
func (v Vec4) Norm() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)))
}

// Normalized returns a unit vector in the same direction.
func (v Vec4) Normalized() Vec4 {
	n := v.Norm()
	if n == 0 {
		return Vec4{}
	}
	return Vec4{X: v.X / n, Y: v.Y / n, Z: v.Z / n, W: v.W / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{X: v.X * s, Y: v.Y * s, Z: v.Z * s, W: v.W * s}
}

// XYZ drops the fourth component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// Bounds is an axis-aligned box given by center and full size.
type Bounds struct {
	Center Vec3
	Size   Vec3
}

// Extents returns the half size.
func (b Bounds) Extents() Vec3 {
	return b.Size.Scale(0.5)
}

// Min returns the lowest corner.
func (b Bounds) Min() Vec3 {
	return b.Center.Sub(b.Extents())
}

// Max returns the highest corner.
func (b Bounds) Max() Vec3 {
	return b.Center.Add(b.Extents())
}

// Contains reports whether p lies inside or on the box.
func (b Bounds) Contains(p Vec3) bool {
	lo, hi := b.Min(), b.Max()
	return p.X >= lo.X && p.X <= hi.X &&
		p.Y >= lo.Y && p.Y <= hi.Y &&
		p.Z >= lo.Z && p.Z <= hi.Z
}
