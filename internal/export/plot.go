package export

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/litescript/ls-starfield/internal/noise"
)

// Sampler is the read side of a noise generator.
type Sampler interface {
	Noise1D(x float32) float32
	Noise2D(x, y float32) float32
	Noise3D(x, y, z float32) float32
}

var _ Sampler = (*noise.Generator)(nil)

// NoisePlotConfig describes the line sampled for a noise plot.
type NoisePlotConfig struct {
	// Dims selects which generators to plot: any of 1, 2, 3.
	Dims []int

	// From and To bound the x coordinate. Y and Z are held at Y and Z.
	From, To float32
	Y, Z     float32

	Samples int
	Title   string
}

// DefaultNoisePlotConfig samples all three generators over eight cells.
func DefaultNoisePlotConfig() NoisePlotConfig {
	return NoisePlotConfig{
		Dims:    []int{1, 2, 3},
		From:    0,
		To:      8,
		Y:       0.37,
		Z:       0.71,
		Samples: 800,
		Title:   "Gradient noise",
	}
}

// NoiseProfile samples one generator along the configured line.
func NoiseProfile(s Sampler, dim int, cfg NoisePlotConfig) (plotter.XYs, error) {
	if cfg.Samples < 2 {
		return nil, fmt.Errorf("noise profile: need at least 2 samples, got %d", cfg.Samples)
	}

	pts := make(plotter.XYs, cfg.Samples)
	step := (cfg.To - cfg.From) / float32(cfg.Samples-1)
	for i := range pts {
		x := cfg.From + step*float32(i)
		var v float32
		switch dim {
		case 1:
			v = s.Noise1D(x)
		case 2:
			v = s.Noise2D(x, cfg.Y)
		case 3:
			v = s.Noise3D(x, cfg.Y, cfg.Z)
		default:
			return nil, fmt.Errorf("noise profile: unsupported dimension %d", dim)
		}
		pts[i] = plotter.XY{X: float64(x), Y: float64(v)}
	}
	return pts, nil
}

var lineColors = map[int]color.Color{
	1: color.RGBA{R: 0x87, G: 0x5f, B: 0xff, A: 0xff},
	2: color.RGBA{R: 0xff, G: 0xd7, B: 0x5f, A: 0xff},
	3: color.RGBA{R: 0x5f, G: 0xd7, B: 0xaf, A: 0xff},
}

// NoisePlot builds a line plot of the configured profiles.
func NoisePlot(s Sampler, cfg NoisePlotConfig) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = cfg.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "noise"
	p.Add(plotter.NewGrid())

	for _, dim := range cfg.Dims {
		pts, err := NoiseProfile(s, dim, cfg)
		if err != nil {
			return nil, err
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("noise %dD line: %w", dim, err)
		}
		line.Width = vg.Points(1)
		line.Color = lineColors[dim]
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("Noise%dD", dim), line)
	}
	return p, nil
}

// WriteNoisePlot renders the plot to path. The format follows the file
// extension (png, svg, pdf).
func WriteNoisePlot(path string, s Sampler, cfg NoisePlotConfig) error {
	p, err := NoisePlot(s, cfg)
	if err != nil {
		return err
	}
	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save noise plot %s: %w", path, err)
	}
	return nil
}
