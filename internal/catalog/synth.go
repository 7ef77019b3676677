package catalog

import (
	"math"
	"math/rand/v2"

	"github.com/litescript/ls-starfield/internal/geom"
	"github.com/litescript/ls-starfield/internal/noise"
)

// SynthConfig controls a generated catalog.
type SynthConfig struct {
	Seed int64

	// BandWidth is the angular half-width of the dense band, in radians.
	BandWidth float64

	// BandTilt rotates the band plane about the X axis, in radians.
	BandTilt float64

	// Clumping scales how much 3D noise modulates the star density.
	Clumping float64

	// BrightFraction is the share of stars whose color magnitude is pushed
	// above the brightness cap.
	BrightFraction float64

	// NamedStars places the BrightStars table at the start of the catalog.
	NamedStars bool
}

// DefaultSynthConfig returns a band tilted like the galactic plane seen
// from an equatorial frame.
func DefaultSynthConfig() SynthConfig {
	return SynthConfig{
		Seed:           1,
		BandWidth:      0.35,
		BandTilt:       62.9 * math.Pi / 180,
		Clumping:       0.6,
		BrightFraction: 0.01,
		NamedStars:     true,
	}
}

// stellar tints from hot to cool
var tints = []geom.Vec3{
	{0.62, 0.71, 1.00},
	{0.80, 0.85, 1.00},
	{1.00, 1.00, 1.00},
	{1.00, 0.93, 0.80},
	{1.00, 0.78, 0.55},
	{1.00, 0.62, 0.40},
}

// Synthesize returns StarCount records of unit-sphere directions with
// colors, clustered into a noisy band. Named stars come first, so a build
// never drops one. Output depends only on cfg.
func Synthesize(cfg SynthConfig) []Record {
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), 0x5eed))
	field := noise.New(int32(cfg.Seed))

	sinT, cosT := math.Sincos(cfg.BandTilt)
	width := cfg.BandWidth
	if width <= 0 {
		width = 0.35
	}

	records := make([]Record, 0, StarCount)
	if cfg.NamedStars {
		records = append(records, BrightStarRecords()...)
	}
	for len(records) < StarCount {
		dir := randomDirection(rng)

		// Latitude above the tilted band plane.
		bandY := dir.Y*cosT - dir.Z*sinT
		lat := math.Asin(math.Max(-1, math.Min(1, bandY)))

		density := 0.25 + 0.75*math.Exp(-(lat*lat)/(2*width*width))
		n := float64(field.Noise3D(float32(dir.X*4), float32(dir.Y*4), float32(dir.Z*4)))
		density *= 1 + cfg.Clumping*n
		if rng.Float64() > density {
			continue
		}

		records = append(records, Record{
			Position: geom.Vec3{X: float32(dir.X), Y: float32(dir.Y), Z: float32(dir.Z)},
			Color:    randomColor(rng, cfg.BrightFraction),
		})
	}
	return records
}

// SynthesizeBytes returns the encoded form of Synthesize(cfg).
func SynthesizeBytes(cfg SynthConfig) []byte {
	return Encode(Synthesize(cfg))
}

type direction struct {
	X, Y, Z float64
}

func randomDirection(rng *rand.Rand) direction {
	z := rng.Float64()*2 - 1
	phi := rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	sin, cos := math.Sincos(phi)
	return direction{X: r * cos, Y: r * sin, Z: z}
}

func randomColor(rng *rand.Rand, brightFraction float64) geom.Vec3 {
	tint := tints[rng.IntN(len(tints))]

	// Most stars are faint; brightness falls off as a power law.
	b := 0.2 + 2.5*math.Pow(rng.Float64(), 4)
	if rng.Float64() < brightFraction {
		b = 6 + rng.Float64()*6
	}

	n := float64(tint.Norm())
	s := float32(b / n)
	return tint.Scale(s)
}
