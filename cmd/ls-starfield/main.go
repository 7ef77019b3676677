// Command ls-starfield builds a procedural starfield mesh from a binary star
// catalog and previews it, together with the gradient noise field, in the
// terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-starfield/internal/catalog"
	"github.com/litescript/ls-starfield/internal/export"
	"github.com/litescript/ls-starfield/internal/logging"
	"github.com/litescript/ls-starfield/internal/noise"
	"github.com/litescript/ls-starfield/internal/starfield"
	"github.com/litescript/ls-starfield/internal/state"
	"github.com/litescript/ls-starfield/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	jsonPath      string
	objPath       string
	noisePlotPath string
	noiseDims     string
	samplePoint   string
	miniSkyMode   bool
)

const (
	minDistance  = 1
	maxDistance  = 1e6
	minScale     = 0.01
	maxScale     = 100
	maxIntensity = 16
)

func main() {
	catalogPath := flag.String("catalog", "", "Binary star catalog (default: synthesize one)")
	synthSeed := flag.Int64("synth-seed", 1, "Seed for the synthesized catalog")
	noiseSeed := flag.Int("seed", 42, "Noise generator seed")
	distance := flag.Float64("distance", 1000, "Stars distance from the viewpoint")
	scale := flag.Float64("scale", 1, "Billboard scale")
	intensity := flag.Float64("intensity", 1, "Star intensity")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.StringVar(&jsonPath, "json", "", "Export JSON mesh summary to file (use - for stdout)")
	flag.StringVar(&objPath, "obj", "", "Export mesh as Wavefront OBJ (use - for stdout)")
	flag.StringVar(&noisePlotPath, "noise-plot", "", "Plot noise profiles to an image file (png, svg, pdf)")
	flag.StringVar(&noiseDims, "noise-dim", "1,2,3", "Noise dimensions for -noise-plot")
	flag.StringVar(&samplePoint, "sample", "", "Print noise values at x,y,z")
	flag.BoolVar(&miniSkyMode, "mini-sky", false, "Show ASCII sky preview")
	flag.Parse()

	cfg := starfield.DefaultConfig()
	cfg.StarsDistance = float32(clamp(*distance, minDistance, maxDistance))
	cfg.StarsScale = float32(clamp(*scale, minScale, maxScale))
	cfg.StarIntensity = float32(clamp(*intensity, 0, maxIntensity))

	logger := logging.New(logging.ParseLevel(*logLevel))
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	headless := summaryMode || jsonPath != "" || objPath != "" || noisePlotPath != "" ||
		samplePoint != "" || miniSkyMode || !term.IsTerminal(int(os.Stdout.Fd()))
	if !headless {
		// Logs would tear the alt screen.
		logger.SetOutput(io.Discard)
	}

	src := &catalogSource{path: *catalogPath, log: logger.Named("catalog")}
	src.seed.Store(*synthSeed)

	stateMgr := state.NewManager(state.DefaultConfig())

	if headless {
		if err := runHeadless(src, cfg, int32(*noiseSeed), stateMgr, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	builder := starfield.NewBuilder(logger.Named("starfield"))
	builder.Viewpoint = cfg.Viewpoint
	build := func() (*starfield.Mesh, error) {
		return builder.Build(src.Load(), cfg.StarsDistance, cfg.StarsScale)
	}
	rebuild := func() (*starfield.Mesh, error) {
		src.Advance()
		return build()
	}

	model := ui.New(stateMgr, ui.Options{
		Starfield: cfg,
		NoiseSeed: int32(*noiseSeed),
		Rebuild:   rebuild,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	go runBuild(ctx, build, stateMgr, p, logger)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// catalogSource reads the catalog file or synthesizes one. Synthesized
// catalogs change seed on Advance; file catalogs are re-read.
type catalogSource struct {
	path string
	seed atomic.Int64
	log  *logging.Logger
}

// Load returns the catalog bytes, or nil when the file cannot be read.
// The builder reports a nil buffer as a catalog read error.
func (s *catalogSource) Load() []byte {
	if s.path == "" {
		cfg := catalog.DefaultSynthConfig()
		cfg.Seed = s.seed.Load()
		s.log.Debug("Synthesizing catalog with seed %d", cfg.Seed)
		return catalog.SynthesizeBytes(cfg)
	}

	buf, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Error("Read catalog %s: %v", s.path, err)
		return nil
	}
	return buf
}

// Advance moves a synthesized catalog to the next seed.
func (s *catalogSource) Advance() {
	if s.path == "" {
		s.seed.Add(1)
	}
}

func runBuild(ctx context.Context, build ui.BuildFunc, stateMgr *state.Manager, p *tea.Program, logger *logging.Logger) {
	logger.Debug("Building starfield...")

	start := time.Now()
	mesh, err := build()
	dur := time.Since(start)

	if ctx.Err() != nil {
		logger.Debug("Build finished after shutdown")
		return
	}

	msg := ui.BuildResult(stateMgr, mesh, dur, err)
	if err != nil {
		logger.Error("Build failed: %v", err)
	} else {
		logger.Debug("Build complete: %d stars in %v", mesh.QuadCount(), dur)
	}
	p.Send(msg)
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(src *catalogSource, cfg starfield.Config, seed int32, stateMgr *state.Manager, logger *logging.Logger) error {
	gen := noise.New(seed)

	if samplePoint != "" {
		x, y, z, err := parsePoint(samplePoint)
		if err != nil {
			return err
		}
		fmt.Printf("seed %d at (%g, %g, %g)\n", seed, x, y, z)
		fmt.Printf("  Noise1D: % .6f\n", gen.Noise1D(x))
		fmt.Printf("  Noise2D: % .6f\n", gen.Noise2D(x, y))
		fmt.Printf("  Noise3D: % .6f\n", gen.Noise3D(x, y, z))
	}

	if noisePlotPath != "" {
		pc := export.DefaultNoisePlotConfig()
		dims, err := parseDims(noiseDims)
		if err != nil {
			return err
		}
		pc.Dims = dims
		pc.Title = fmt.Sprintf("Gradient noise, seed %d", seed)
		if err := export.WriteNoisePlot(noisePlotPath, gen, pc); err != nil {
			return err
		}
		logger.Info("Wrote noise plot %s", noisePlotPath)
	}

	// Noise-only runs do not need a mesh.
	meshWanted := summaryMode || jsonPath != "" || objPath != "" || miniSkyMode ||
		(samplePoint == "" && noisePlotPath == "")
	if !meshWanted {
		return nil
	}

	field := starfield.NewField(cfg, logger.Named("starfield"))
	start := time.Now()
	err := field.InitMesh(src.Load())
	stateMgr.Update(field.Mesh(), time.Since(start), err)
	if err != nil {
		return err
	}

	snap := stateMgr.Snapshot()

	if jsonPath != "" {
		if err := writeTo(jsonPath, snap.Summary.WriteJSON); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	}

	if objPath != "" {
		if err := writeTo(objPath, func(w io.Writer) error { return export.WriteOBJ(w, snap.Mesh) }); err != nil {
			return fmt.Errorf("write OBJ: %w", err)
		}
	}

	// Default headless output is the summary.
	if summaryMode || (jsonPath == "" && objPath == "" && !miniSkyMode && samplePoint == "" && noisePlotPath == "") {
		snap.Summary.WriteText(os.Stdout)
		fmt.Printf("  built in:  %v\n", snap.BuildDuration.Round(time.Millisecond))
	}

	if miniSkyMode {
		sky, err := ui.MiniSky(snap.Mesh, cfg, 180, 20, 78, 22)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(sky)
	}

	return nil
}

// writeTo runs write against path, or stdout for "-".
func writeTo(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parsePoint(s string) (x, y, z float32, err error) {
	parts := strings.Split(s, ",")
	if len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("sample %q: want at most 3 coordinates", s)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("sample %q: %w", s, err)
		}
		v[i] = float32(f)
	}
	return v[0], v[1], v[2], nil
}

func parseDims(s string) ([]int, error) {
	var dims []int
	for _, p := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || d < 1 || d > 3 {
			return nil, fmt.Errorf("noise-dim %q: dimensions are 1, 2 or 3", s)
		}
		dims = append(dims, d)
	}
	return dims, nil
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
