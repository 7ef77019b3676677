// Package noise provides seeded gradient noise in one, two and three dimensions.
package noise

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// TableSize is the number of distinct lattice hashes.
const TableSize = 256

// Output scales applied to the interpolated gradients.
const (
	scale1D = 0.188 // Noise1D typically within [-0.5, 0.5], at most ±0.752
	scale2D = 0.507 // Noise2D typically within [-0.75, 0.75], at most ±1.014
	scale3D = 0.936 // Noise3D within [-1.5, 1.5]
)

// ErrInvalidPermutation is returned when a supplied table is not a
// permutation of [0, TableSize).
var ErrInvalidPermutation = errors.New("invalid permutation table")

// Generator samples gradient noise from a shuffled permutation table.
// The table is never written after construction, so all Noise methods
// are safe for concurrent use.
type Generator struct {
	perm [2 * TableSize]int
}

// New creates a generator whose table is shuffled by a PCG stream seeded
// with seed. The same seed always yields the same table.
func New(seed int32) *Generator {
	return NewWithRand(rand.New(rand.NewPCG(uint64(int64(seed)), 0)))
}

// NewWithRand creates a generator shuffled by the given random stream.
func NewWithRand(rng *rand.Rand) *Generator {
	var p [TableSize]int
	for i := range p {
		p[i] = i
	}

	// Index 0 is never picked as i; it only moves when j lands on it.
	// j masks one 64-bit draw, the same value rng.IntN(TableSize) gives.
	for i := TableSize - 1; i != 0; i-- {
		j := int(rng.Uint64() & (TableSize - 1))
		p[i], p[j] = p[j], p[i]
	}

	return fromTable(p)
}

// NewFromPermutation creates a generator from an explicit table. It fails
// if p is not a bijection over [0, TableSize).
func NewFromPermutation(p [TableSize]int) (*Generator, error) {
	var seen [TableSize]bool
	for i, v := range p {
		if v < 0 || v >= TableSize {
			return nil, fmt.Errorf("%w: entry %d out of range: %d", ErrInvalidPermutation, i, v)
		}
		if seen[v] {
			return nil, fmt.Errorf("%w: value %d repeated at %d", ErrInvalidPermutation, v, i)
		}
		seen[v] = true
	}
	return fromTable(p), nil
}

func fromTable(p [TableSize]int) *Generator {
	g := &Generator{}
	for i, v := range p {
		g.perm[i] = v
		g.perm[TableSize+i] = v
	}
	return g
}

// Permutation returns a copy of the doubled permutation table.
func (g *Generator) Permutation() [2 * TableSize]int {
	return g.perm
}

// Noise1D returns gradient noise at x, typically in [-0.5, 0.5] and never
// outside [-0.752, 0.752].
func (g *Generator) Noise1D(x float32) float32 {
	ix0, fx0 := lattice(x)
	fx1 := fx0 - 1
	ix1 := (ix0 + 1) & 0xff

	s := fade(fx0)

	n0 := grad1(g.perm[ix0], fx0)
	n1 := grad1(g.perm[ix1], fx1)
	return scale1D * lerp(s, n0, n1)
}

// Noise2D returns gradient noise at (x, y), typically in [-0.75, 0.75] and
// never outside [-1.014, 1.014].
func (g *Generator) Noise2D(x, y float32) float32 {
	ix0, fx0 := lattice(x)
	iy0, fy0 := lattice(y)
	fx1 := fx0 - 1
	fy1 := fy0 - 1
	ix1 := (ix0 + 1) & 0xff
	iy1 := (iy0 + 1) & 0xff

	t := fade(fy0)
	s := fade(fx0)

	p := &g.perm

	nx0 := grad2(p[ix0+p[iy0]], fx0, fy0)
	nx1 := grad2(p[ix0+p[iy1]], fx0, fy1)
	n0 := lerp(t, nx0, nx1)

	nx0 = grad2(p[ix1+p[iy0]], fx1, fy0)
	nx1 = grad2(p[ix1+p[iy1]], fx1, fy1)
	n1 := lerp(t, nx0, nx1)

	return scale2D * lerp(s, n0, n1)
}

// Noise3D returns gradient noise at (x, y, z), in [-1.5, 1.5].
func (g *Generator) Noise3D(x, y, z float32) float32 {
	ix0, fx0 := lattice(x)
	iy0, fy0 := lattice(y)
	iz0, fz0 := lattice(z)
	fx1 := fx0 - 1
	fy1 := fy0 - 1
	fz1 := fz0 - 1
	ix1 := (ix0 + 1) & 0xff
	iy1 := (iy0 + 1) & 0xff
	iz1 := (iz0 + 1) & 0xff

	r := fade(fz0)
	t := fade(fy0)
	s := fade(fx0)

	p := &g.perm

	nxy0 := grad3(p[ix0+p[iy0+p[iz0]]], fx0, fy0, fz0)
	nxy1 := grad3(p[ix0+p[iy0+p[iz1]]], fx0, fy0, fz1)
	nx0 := lerp(r, nxy0, nxy1)

	nxy0 = grad3(p[ix0+p[iy1+p[iz0]]], fx0, fy1, fz0)
	nxy1 = grad3(p[ix0+p[iy1+p[iz1]]], fx0, fy1, fz1)
	nx1 := lerp(r, nxy0, nxy1)

	n0 := lerp(t, nx0, nx1)

	nxy0 = grad3(p[ix1+p[iy0+p[iz0]]], fx1, fy0, fz0)
	nxy1 = grad3(p[ix1+p[iy0+p[iz1]]], fx1, fy0, fz1)
	nx0 = lerp(r, nxy0, nxy1)

	nxy0 = grad3(p[ix1+p[iy1+p[iz0]]], fx1, fy1, fz0)
	nxy1 = grad3(p[ix1+p[iy1+p[iz1]]], fx1, fy1, fz1)
	nx1 = lerp(r, nxy0, nxy1)

	n1 := lerp(t, nx0, nx1)

	return scale3D * lerp(s, n0, n1)
}

// lattice splits v into its cell index wrapped to [0, 255] and the
// fractional offset inside the cell. Reducing the floor modulo 256 in
// float64 keeps the low 8 bits exact for every finite float32.
func lattice(v float32) (int, float32) {
	fl := math.Floor(float64(v))
	frac := v - float32(fl)
	cell := int(int64(math.Mod(fl, TableSize))) & 0xff
	return cell, frac
}

// fade is the quintic 6t^5 - 15t^4 + 10t^3. The explicit float32
// conversions round each product, which stops the compiler from fusing
// multiply-adds and keeps samples identical across architectures.
func fade(t float32) float32 {
	return float32(t*t*t) * (float32(t*(float32(t*6)-15)) + 10)
}

func lerp(t, a, b float32) float32 {
	return a + float32(t*(b-a))
}

func grad1(hash int, x float32) float32 {
	h := hash & 15
	grad := float32(1 + (h & 7))
	if h&8 != 0 {
		grad = -grad
	}
	return grad * x
}

func grad2(hash int, x, y float32) float32 {
	h := hash & 7
	u, v := y, x
	if h < 4 {
		u, v = x, y
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		return u - 2*v
	}
	return u + 2*v
}

func grad3(hash int, x, y, z float32) float32 {
	h := hash & 15
	u := y
	if h < 8 {
		u = x
	}
	var v float32
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	default:
		v = z
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}
