package noise

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func identityTable() [TableSize]int {
	var p [TableSize]int
	for i := range p {
		p[i] = i
	}
	return p
}

func TestNew_PermutationIsBijection(t *testing.T) {
	seeds := []int32{0, 1, 42, -7, 1 << 30, math.MinInt32, math.MaxInt32}

	for _, seed := range seeds {
		perm := New(seed).Permutation()

		var seen [TableSize]bool
		for i := 0; i < TableSize; i++ {
			v := perm[i]
			if v < 0 || v >= TableSize {
				t.Fatalf("seed %d: perm[%d] = %d out of range", seed, i, v)
			}
			if seen[v] {
				t.Fatalf("seed %d: value %d appears twice", seed, v)
			}
			seen[v] = true
		}

		for i := 0; i < TableSize; i++ {
			if perm[i] != perm[i+TableSize] {
				t.Errorf("seed %d: perm[%d]=%d but perm[%d]=%d",
					seed, i, perm[i], i+TableSize, perm[i+TableSize])
			}
		}
	}
}

func TestNew_Deterministic(t *testing.T) {
	a := New(42).Permutation()
	b := New(42).Permutation()

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different tables (-first +second):\n%s", diff)
	}
}

func TestNew_DifferentSeedsDiffer(t *testing.T) {
	a := New(1).Permutation()
	b := New(2).Permutation()

	if a == b {
		t.Error("seeds 1 and 2 produced identical tables")
	}
}

func TestNewWithRand_MatchesSeededConstructor(t *testing.T) {
	want := New(99).Permutation()
	got := NewWithRand(rand.New(rand.NewPCG(99, 0))).Permutation()

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("table mismatch (-New +NewWithRand):\n%s", diff)
	}
}

// sequenceSource replays fixed outputs so shuffle steps can be traced.
type sequenceSource struct {
	vals []uint64
	i    int
}

func (s *sequenceSource) Uint64() uint64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestNewWithRand_ShuffleVisitsDownToOne(t *testing.T) {
	// Each swap masks a single draw, so a zero source always picks j = 0.
	src := &sequenceSource{vals: []uint64{0}}
	perm := NewWithRand(rand.New(src)).Permutation()

	want := identityTable()
	for i := TableSize - 1; i != 0; i-- {
		want[i], want[0] = want[0], want[i]
	}

	for i := 0; i < TableSize; i++ {
		if perm[i] != want[i] {
			t.Fatalf("perm[%d] = %d, want %d", i, perm[i], want[i])
		}
	}
	if src.i != TableSize-1 {
		t.Errorf("shuffle drew %d values, want %d", src.i, TableSize-1)
	}
}

func TestNewFromPermutation_Rejects(t *testing.T) {
	dup := identityTable()
	dup[10] = 11

	outOfRange := identityTable()
	outOfRange[3] = 256

	negative := identityTable()
	negative[0] = -1

	tests := []struct {
		name  string
		table [TableSize]int
	}{
		{"duplicate", dup},
		{"out of range", outOfRange},
		{"negative", negative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewFromPermutation(tt.table)
			if !errors.Is(err, ErrInvalidPermutation) {
				t.Errorf("err = %v, want ErrInvalidPermutation", err)
			}
			if g != nil {
				t.Error("expected nil generator on error")
			}
		})
	}
}

// Hard bounds follow from the gradient magnitudes: |grad1| <= 8|x|,
// |grad2| <= |u|+2|v| and |grad3| <= |u|+|v|, with the fade-weighted mean
// offset per axis never above 0.5. The nominal ranges in the doc comments
// are typical, not guaranteed, for 1D and 2D.
const (
	bound1D = 0.188 * 8 * 0.5
	bound2D = 0.507 * 2
	bound3D = 1.5
)

func TestNoise_Ranges(t *testing.T) {
	g := New(1234)
	rng := rand.New(rand.NewPCG(5, 6))

	coord := func() float32 {
		return float32(rng.Float64()*2000 - 1000)
	}

	for i := 0; i < 10000; i++ {
		x, y, z := coord(), coord(), coord()

		if v := g.Noise1D(x); math.Abs(float64(v)) > bound1D+1e-4 {
			t.Fatalf("Noise1D(%v) = %v outside ±%v", x, v, bound1D)
		}
		if v := g.Noise2D(x, y); math.Abs(float64(v)) > bound2D+1e-4 {
			t.Fatalf("Noise2D(%v, %v) = %v outside ±%v", x, y, v, bound2D)
		}
		if v := g.Noise3D(x, y, z); v < -bound3D || v > bound3D {
			t.Fatalf("Noise3D(%v, %v, %v) = %v outside ±%v", x, y, z, v, bound3D)
		}
	}
}

func TestNoise_ContinuousAcrossLattice(t *testing.T) {
	g := New(7)
	const eps = 1e-4
	const tol = 1e-2

	for k := -20; k <= 20; k++ {
		x := float32(k)

		if d := math.Abs(float64(g.Noise1D(x+eps) - g.Noise1D(x-eps))); d > tol {
			t.Errorf("Noise1D jumps by %v at x=%v", d, x)
		}
		if d := math.Abs(float64(g.Noise2D(x+eps, 0.3) - g.Noise2D(x-eps, 0.3))); d > tol {
			t.Errorf("Noise2D jumps by %v at x=%v", d, x)
		}
		if d := math.Abs(float64(g.Noise2D(0.3, x+eps) - g.Noise2D(0.3, x-eps))); d > tol {
			t.Errorf("Noise2D jumps by %v at y=%v", d, x)
		}
		if d := math.Abs(float64(g.Noise3D(0.3, 0.6, x+eps) - g.Noise3D(0.3, 0.6, x-eps))); d > tol {
			t.Errorf("Noise3D jumps by %v at z=%v", d, x)
		}
	}
}

func TestNoise1D_LatticePointsAreZero(t *testing.T) {
	g := New(42)

	// At integer x the fractional part is 0, fade(0)=0 and the result is
	// scale1D * grad1(hash, 0), which is zero for every hash.
	for k := -300; k <= 300; k++ {
		if v := g.Noise1D(float32(k)); v != 0 {
			t.Errorf("Noise1D(%d) = %v, want 0", k, v)
		}
	}
}

func TestNoise1D_NearLatticeReducesToFirstGradient(t *testing.T) {
	g, err := NewFromPermutation(identityTable())
	if err != nil {
		t.Fatal(err)
	}

	// Just past x=3 the sample is dominated by grad1(perm[3], fx0) = 4*fx0.
	x := float32(3.001)
	fx := x - 3
	want := float64(scale1D * 4 * fx)
	got := float64(g.Noise1D(x))
	if math.Abs(got-want) > 1e-5 {
		t.Errorf("Noise1D(%v) = %v, want about %v", x, got, want)
	}
}

func TestNoise_WrapsEvery256(t *testing.T) {
	g := New(3)

	coords := []float32{0.25, 1.5, 17.75, -3.125, 200.5}
	for _, c := range coords {
		if a, b := g.Noise1D(c), g.Noise1D(c+256); a != b {
			t.Errorf("Noise1D(%v)=%v, Noise1D(%v)=%v", c, a, c+256, b)
		}
		if a, b := g.Noise2D(c, 0.5), g.Noise2D(c-256, 0.5); a != b {
			t.Errorf("Noise2D(%v)=%v, Noise2D(%v)=%v", c, a, c-256, b)
		}
		if a, b := g.Noise3D(0.5, c, 0.75), g.Noise3D(0.5, c+512, 0.75); a != b {
			t.Errorf("Noise3D y=%v gave %v, y=%v gave %v", c, a, c+512, b)
		}
	}
}

func TestNoise_HugeInputsDoNotPanic(t *testing.T) {
	g := New(11)
	vals := []float32{1e20, -1e20, math.MaxFloat32, -math.MaxFloat32}

	for _, v := range vals {
		// Large float32 values are integers, so every lattice sample is 0.
		if got := g.Noise1D(v); got != 0 {
			t.Errorf("Noise1D(%v) = %v, want 0", v, got)
		}
		_ = g.Noise2D(v, v)
		_ = g.Noise3D(v, v, v)
	}
}

func TestNoise3D_Fixture(t *testing.T) {
	g, err := NewFromPermutation(identityTable())
	if err != nil {
		t.Fatal(err)
	}

	// With an identity table every corner hash is ix+iy+iz. At the cell
	// center the eight gradients are 1,0,-1,1,1,-1,0,1 and every fade is
	// exactly 0.5, which interpolates to 0.25.
	want := float32(scale3D) * 0.25
	if got := g.Noise3D(0.5, 0.5, 0.5); got != want {
		t.Errorf("Noise3D(0.5, 0.5, 0.5) = %v, want %v", got, want)
	}
}

func TestNoise2D_Fixture(t *testing.T) {
	g, err := NewFromPermutation(identityTable())
	if err != nil {
		t.Fatal(err)
	}

	// Corner hashes 0,1,1,2 with offsets (±0.5, ±0.5):
	// grad2(0, .5, .5)=1.5, grad2(1, .5,-.5)=-1.5,
	// grad2(1,-.5, .5)=1.5, grad2(2,-.5,-.5)=0.5.
	// Along y: 0 and 1; along x: 0.5.
	want := float32(scale2D) * 0.5
	if got := g.Noise2D(0.5, 0.5); got != want {
		t.Errorf("Noise2D(0.5, 0.5) = %v, want %v", got, want)
	}
}

func TestNoise3D_SeedDeterministic(t *testing.T) {
	a := New(42).Noise3D(0.5, 0.5, 0.5)
	b := New(42).Noise3D(0.5, 0.5, 0.5)
	if a != b {
		t.Errorf("seed 42 gave %v then %v", a, b)
	}
}

// Seed 42 values captured once. A change in the seed mapping, the PCG
// stream or the draw-to-index mapping breaks these.
func TestNew_Seed42Fixture(t *testing.T) {
	g := New(42)

	perm := g.Permutation()
	wantHead := [8]int{147, 126, 40, 73, 154, 227, 45, 61}
	if diff := cmp.Diff(wantHead, [8]int(perm[:8])); diff != "" {
		t.Errorf("New(42) table head mismatch (-want +got):\n%s", diff)
	}

	if got, want := g.Noise3D(0.5, 0.5, 0.5), float32(0.117); got != want {
		t.Errorf("New(42).Noise3D(0.5, 0.5, 0.5) = %v, want %v", got, want)
	}
}

func TestNoise_ReadOnly(t *testing.T) {
	g := New(8)
	before := g.Permutation()

	for i := 0; i < 1000; i++ {
		f := float32(i) * 0.37
		g.Noise1D(f)
		g.Noise2D(f, -f)
		g.Noise3D(f, -f, f*0.5)
	}

	if diff := cmp.Diff(before, g.Permutation()); diff != "" {
		t.Errorf("sampling mutated the table:\n%s", diff)
	}
}

func TestNoise_ConcurrentReads(t *testing.T) {
	g := New(21)
	want := g.Noise3D(1.25, 2.5, 3.75)

	done := make(chan float32, 8)
	for i := 0; i < 8; i++ {
		go func() {
			var v float32
			for j := 0; j < 500; j++ {
				v = g.Noise3D(1.25, 2.5, 3.75)
			}
			done <- v
		}()
	}
	for i := 0; i < 8; i++ {
		if got := <-done; got != want {
			t.Errorf("concurrent sample = %v, want %v", got, want)
		}
	}
}

func TestFade_Endpoints(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{0, 0},
		{1, 1},
		{0.5, 0.5},
	}
	for _, tt := range tests {
		if got := fade(tt.in); got != tt.want {
			t.Errorf("fade(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGrad1_Magnitudes(t *testing.T) {
	for h := 0; h < 16; h++ {
		want := float32(1 + h&7)
		if h&8 != 0 {
			want = -want
		}
		if got := grad1(h, 1); got != want {
			t.Errorf("grad1(%d, 1) = %v, want %v", h, got, want)
		}
		// Only the low 4 bits matter.
		if got := grad1(h+16*5, 1); got != want {
			t.Errorf("grad1(%d, 1) = %v, want %v", h+80, got, want)
		}
	}
}

func TestGrad3_Directions(t *testing.T) {
	x, y, z := float32(1), float32(10), float32(100)
	want := [16]float32{
		11, 9, -9, -11,
		101, 99, -99, -101,
		110, 90, -90, -110,
		11, 90, 9, -110,
	}

	for h := 0; h < 16; h++ {
		if got := grad3(h, x, y, z); got != want[h] {
			t.Errorf("grad3(%d) = %v, want %v", h, got, want[h])
		}
	}
}

func TestLattice(t *testing.T) {
	tests := []struct {
		in       float32
		cell     int
		fraction float32
	}{
		{0, 0, 0},
		{0.25, 0, 0.25},
		{-0.5, 255, 0.5},
		{255.5, 255, 0.5},
		{256.75, 0, 0.75},
		{-256, 0, 0},
		{-257, 255, 0},
	}

	for _, tt := range tests {
		cell, frac := lattice(tt.in)
		if cell != tt.cell || frac != tt.fraction {
			t.Errorf("lattice(%v) = (%d, %v), want (%d, %v)",
				tt.in, cell, frac, tt.cell, tt.fraction)
		}
	}
}
