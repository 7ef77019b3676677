package geom

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func approxVec(a, b Vec3) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.Z, b.Z)
}

func TestVec3_Norm(t *testing.T) {
	tests := []struct {
		v    Vec3
		want float32
	}{
		{Vec3{3, 4, 0}, 5},
		{Vec3{0, 0, 0}, 0},
		{Vec3{1, 2, 2}, 3},
	}
	for _, tt := range tests {
		if got := tt.v.Norm(); got != tt.want {
			t.Errorf("%v.Norm() = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestVec3_NormalizedZero(t *testing.T) {
	if got := (Vec3{}).Normalized(); got != (Vec3{}) {
		t.Errorf("zero.Normalized() = %v, want zero", got)
	}
}

func TestVec3_Mul(t *testing.T) {
	got := Vec3{1, 2, 3}.Mul(Vec3{-1, 1, -1})
	if got != (Vec3{-1, 2, -3}) {
		t.Errorf("Mul = %v", got)
	}
}

func TestVec4_Normalized(t *testing.T) {
	v := Vec4{2, 0, 0, 0}.Normalized()
	if v != (Vec4{1, 0, 0, 0}) {
		t.Errorf("Normalized = %v", v)
	}
	if !approx(Vec4{1, 2, 3, 4}.Normalized().Norm(), 1) {
		t.Error("normalized vector is not unit length")
	}
}

func TestBounds_Contains(t *testing.T) {
	b := Bounds{Size: Vec3{1e8, 1e8, 1e8}}

	if !b.Contains(Vec3{4.9e7, -4.9e7, 0}) {
		t.Error("point inside half extent reported outside")
	}
	if b.Contains(Vec3{6e7, 0, 0}) {
		t.Error("point beyond half extent reported inside")
	}
	if b.Extents() != (Vec3{5e7, 5e7, 5e7}) {
		t.Errorf("Extents = %v", b.Extents())
	}
}

func TestMat4_IdentityMulPoint(t *testing.T) {
	p := Vec3{1.5, -2, 7}
	if got := Identity().MulPoint(p); got != p {
		t.Errorf("Identity().MulPoint(%v) = %v", p, got)
	}
}

func TestMat4_Mul(t *testing.T) {
	translate := Identity()
	translate[12], translate[13], translate[14] = 1, 2, 3

	scale := Identity()
	scale[0], scale[5], scale[10] = 2, 2, 2

	// Scale first, then translate.
	m := translate.Mul(scale)
	got := m.MulPoint(Vec3{1, 1, 1})
	if got != (Vec3{3, 4, 5}) {
		t.Errorf("translate*scale applied to (1,1,1) = %v, want (3,4,5)", got)
	}
}

func TestBillboardMatrix_FacesViewpoint(t *testing.T) {
	positions := []Vec3{
		{100, 0, 0},
		{0, 0, -250},
		{30, 40, 50},
		{-1, -2, 3},
	}

	for _, pos := range positions {
		m := BillboardMatrix(pos, Vec3{})

		if m.Translation() != pos {
			t.Errorf("translation = %v, want %v", m.Translation(), pos)
		}

		// Forward axis points from the viewer to the billboard.
		forward := m.Column(2).XYZ()
		if !approxVec(forward, pos.Normalized()) {
			t.Errorf("pos %v: forward = %v, want %v", pos, forward, pos.Normalized())
		}

		right := m.Column(0).XYZ()
		up := m.Column(1).XYZ()
		if !approx(right.Norm(), 1) || !approx(up.Norm(), 1) {
			t.Errorf("pos %v: basis not unit length: right=%v up=%v", pos, right, up)
		}
		if d := right.X*up.X + right.Y*up.Y + right.Z*up.Z; !approx(d, 0) {
			t.Errorf("pos %v: right·up = %v, want 0", pos, d)
		}
		if d := right.X*forward.X + right.Y*forward.Y + right.Z*forward.Z; !approx(d, 0) {
			t.Errorf("pos %v: right·forward = %v, want 0", pos, d)
		}
	}
}

func TestBillboardMatrix_Pole(t *testing.T) {
	m := BillboardMatrix(Vec3{0, 500, 0}, Vec3{})

	right := m.Column(0).XYZ()
	if !approx(right.Norm(), 1) {
		t.Errorf("right axis degenerate at pole: %v", right)
	}
	if !approxVec(m.Column(2).XYZ(), Vec3{0, 1, 0}) {
		t.Errorf("forward = %v, want +Y", m.Column(2).XYZ())
	}
}

func TestBillboardMatrix_AtViewpoint(t *testing.T) {
	m := BillboardMatrix(Vec3{1, 2, 3}, Vec3{1, 2, 3})
	want := Identity()
	want[12], want[13], want[14] = 1, 2, 3
	if m != want {
		t.Errorf("BillboardMatrix at viewpoint = %v, want translation only", m)
	}
}

func TestMakeBillboardQuad(t *testing.T) {
	q := MakeBillboardQuad(4)

	want := [4]Vec3{{-2, 2, 0}, {2, 2, 0}, {2, -2, 0}, {-2, -2, 0}}
	if q.Vertices != want {
		t.Errorf("Vertices = %v, want %v", q.Vertices, want)
	}
	if q.Indices != [6]uint32{0, 1, 2, 2, 3, 0} {
		t.Errorf("Indices = %v", q.Indices)
	}
	if q.UVs != QuadUVs {
		t.Errorf("UVs = %v", q.UVs)
	}
}
