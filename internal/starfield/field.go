package starfield

import (
	"errors"
	"fmt"

	"github.com/litescript/ls-starfield/internal/geom"
	"github.com/litescript/ls-starfield/internal/logging"
)

// ErrConfiguration is returned by Render when the field is not ready to
// draw. Callers skip the frame; nothing is logged.
var ErrConfiguration = errors.New("starfield: not configured")

var (
	ErrMissingMesh     = fmt.Errorf("%w: no mesh", ErrConfiguration)
	ErrMissingMaterial = fmt.Errorf("%w: no material", ErrConfiguration)
)

// Shader uniform names.
const (
	UniformIntensity = "_StarIntensity"
	UniformRotation  = "_RotationMatrix"
	UniformTab       = "_Tab"
)

// RenderQueueBackground draws before opaque geometry.
const RenderQueueBackground = 1000

// Tab is the fixed lookup table handed to the starfield shader.
var Tab = [8]geom.Vec4{
	{X: 0.897907815, Y: -0.347608525},
	{X: 0.550299290, Y: 0.273586675},
	{X: 0.823885965, Y: 0.098853070},
	{X: 0.922739035, Y: -0.122108860},
	{X: 0.800630175, Y: -0.088956800},
	{X: 0.711673375, Y: 0.158864420},
	{X: 0.870537795, Y: 0.085484560},
	{X: 0.956022355, Y: -0.058114540},
}

// Config holds starfield parameters.
type Config struct {
	StarIntensity     float32
	StarsScale        float32
	StarsDistance     float32
	RenderQueue       int
	RenderQueueOffset int
	DrawLayer         int
	Viewpoint         geom.Vec3
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		StarIntensity: 1.0,
		StarsScale:    1.0,
		StarsDistance: 1000.0,
		RenderQueue:   RenderQueueBackground,
		DrawLayer:     8,
	}
}

// Material receives shader parameters.
type Material interface {
	SetFloat(name string, v float32)
	SetMatrix(name string, m geom.Mat4)
	SetVectorArray(name string, v []geom.Vec4)
	SetRenderQueue(queue int)
}

// Drawer submits one mesh for drawing.
type Drawer interface {
	DrawMesh(mesh *Mesh, transform geom.Mat4, mat Material, layer int)
}

// Field owns a built starfield mesh and its material.
type Field struct {
	cfg      Config
	mesh     *Mesh
	material Material
	builder  *Builder
	log      *logging.Logger
}

// NewField creates a field with no mesh or material.
func NewField(cfg Config, log *logging.Logger) *Field {
	if log == nil {
		log = logging.Discard()
	}
	b := NewBuilder(log)
	b.Viewpoint = cfg.Viewpoint
	return &Field{cfg: cfg, builder: b, log: log}
}

// Config returns the field configuration.
func (f *Field) Config() Config {
	return f.cfg
}

// Mesh returns the current mesh, or nil if none has been built.
func (f *Field) Mesh() *Mesh {
	return f.mesh
}

// SetMesh replaces the current mesh, for meshes built elsewhere.
func (f *Field) SetMesh(m *Mesh) {
	f.mesh = m
}

// SetStarIntensity changes the intensity pushed on the next Render.
// Negative values are treated as zero.
func (f *Field) SetStarIntensity(v float32) {
	f.cfg.StarIntensity = max(v, 0)
}

// SetMaterial sets the material used by Render.
func (f *Field) SetMaterial(m Material) {
	f.material = m
}

// InitMesh builds a mesh from buf and keeps it. On failure the previous
// mesh is dropped, so Render reports ErrMissingMesh until a later build
// succeeds.
func (f *Field) InitMesh(buf []byte) error {
	mesh, err := f.builder.Build(buf, f.cfg.StarsDistance, f.cfg.StarsScale)
	f.mesh = mesh
	return err
}

// SetUniforms pushes the shader parameters to mat. A nil mat is ignored.
func (f *Field) SetUniforms(mat Material) {
	if mat == nil {
		return
	}
	mat.SetFloat(UniformIntensity, f.cfg.StarIntensity)
	mat.SetMatrix(UniformRotation, geom.Identity())
	tab := Tab
	mat.SetVectorArray(UniformTab, tab[:])
}

// Render submits the mesh with transform. It returns ErrMissingMesh for a
// nil or empty mesh and ErrMissingMaterial without a material, both
// wrapping ErrConfiguration, without drawing.
func (f *Field) Render(d Drawer, transform geom.Mat4) error {
	if f.mesh.IsEmpty() {
		return ErrMissingMesh
	}
	if f.material == nil {
		return ErrMissingMaterial
	}

	f.SetUniforms(f.material)
	f.material.SetRenderQueue(f.cfg.RenderQueue + f.cfg.RenderQueueOffset)

	d.DrawMesh(f.mesh, transform, f.material, f.cfg.DrawLayer)
	return nil
}
