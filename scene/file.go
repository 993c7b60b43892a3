package scene

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gltriangles/renderer"
	"gopkg.in/yaml.v3"
)

// File is the YAML form of a scene. Angles are in degrees.
//
//	name: spinning
//	camera: {eye: [0, 0, 5], target: [0, 0, 0], up: [0, 1, 0]}
//	projection: {fov: 45, aspect: 1.6667, near: 0.1, far: 100}
//	mesh:
//	  positions: [0, 1, 0, 1, 0, 0, -1, 0, 0]
//	primitives:
//	  - [{op: translate, vec: [0, -1, 0]}, {op: rotateY}]
type File struct {
	Name       string         `yaml:"name"`
	Camera     CameraFile     `yaml:"camera"`
	Projection ProjectionFile `yaml:"projection"`
	Mesh       MeshFile       `yaml:"mesh"`
	Primitives [][]StepFile   `yaml:"primitives"`
	ClearColor []float32      `yaml:"clearColor,omitempty"`
	CullFace   bool           `yaml:"cullFace,omitempty"`
	DepthTest  bool           `yaml:"depthTest,omitempty"`
}

type CameraFile struct {
	Eye    []float32 `yaml:"eye"`
	Target []float32 `yaml:"target"`
	Up     []float32 `yaml:"up"`
}

type ProjectionFile struct {
	Fov    float32 `yaml:"fov"`
	Aspect float32 `yaml:"aspect,omitempty"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

type MeshFile struct {
	Positions []float32 `yaml:"positions"`
	Colors    []float32 `yaml:"colors,omitempty"`
	Indices   []uint16  `yaml:"indices,omitempty"`
}

type StepFile struct {
	Op  string    `yaml:"op"`
	Vec []float32 `yaml:"vec,omitempty"`
}

// Load reads a YAML scene from path.
func Load(path string) (*renderer.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML scene. Unknown keys are rejected.
func Parse(data []byte) (*renderer.Scene, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return f.Scene()
}

// Scene converts the file form into a renderable scene.
func (f *File) Scene() (*renderer.Scene, error) {
	s := &renderer.Scene{
		Name:       f.Name,
		ClearColor: [4]float32{0, 0, 0, 1},
		CullFace:   f.CullFace,
		DepthTest:  f.DepthTest,
		Mesh: renderer.Mesh{
			Positions: f.Mesh.Positions,
			Colors:    f.Mesh.Colors,
			Indices:   f.Mesh.Indices,
		},
	}
	if s.Name == "" {
		s.Name = "custom"
	}

	var err error
	if s.Camera.Eye, err = vec3(f.Camera.Eye, mgl32.Vec3{0, 0, 5}); err != nil {
		return nil, fmt.Errorf("camera eye: %w", err)
	}
	if s.Camera.Target, err = vec3(f.Camera.Target, mgl32.Vec3{}); err != nil {
		return nil, fmt.Errorf("camera target: %w", err)
	}
	if s.Camera.Up, err = vec3(f.Camera.Up, mgl32.Vec3{0, 1, 0}); err != nil {
		return nil, fmt.Errorf("camera up: %w", err)
	}

	p := f.Projection
	if !(p.Fov > 0 && p.Fov < 180) {
		return nil, fmt.Errorf("projection fov %v must be in (0, 180) degrees", p.Fov)
	}
	if p.Aspect == 0 {
		p.Aspect = float32(CanvasWidth) / float32(CanvasHeight)
	}
	if !(p.Aspect > 0) || math.IsInf(float64(p.Aspect), 1) {
		return nil, fmt.Errorf("projection aspect %v must be a positive number", p.Aspect)
	}
	if !(p.Near > 0 && p.Far > p.Near) || math.IsInf(float64(p.Far), 1) {
		return nil, fmt.Errorf("projection needs 0 < near < far, got near=%v far=%v", p.Near, p.Far)
	}
	s.Projection = renderer.Perspective{FovY: mgl32.DegToRad(p.Fov), Aspect: p.Aspect, Near: p.Near, Far: p.Far}

	if len(f.ClearColor) != 0 {
		if len(f.ClearColor) != 4 {
			return nil, fmt.Errorf("clearColor needs 4 components, got %d", len(f.ClearColor))
		}
		copy(s.ClearColor[:], f.ClearColor)
	}

	if len(f.Primitives) == 0 {
		return nil, fmt.Errorf("scene %q has no primitives", s.Name)
	}
	for i, steps := range f.Primitives {
		model := make(renderer.Model, 0, len(steps))
		for j, st := range steps {
			kind, err := renderer.ParseStepKind(st.Op)
			if err != nil {
				return nil, fmt.Errorf("primitive %d step %d: %w", i, j, err)
			}
			def := mgl32.Vec3{}
			if kind == renderer.Scale {
				def = mgl32.Vec3{1, 1, 1}
			}
			v, err := vec3(st.Vec, def)
			if err != nil {
				return nil, fmt.Errorf("primitive %d step %d: %w", i, j, err)
			}
			model = append(model, renderer.Step{Kind: kind, Vec: v})
		}
		s.Primitives = append(s.Primitives, model)
	}
	return s, nil
}

func vec3(v []float32, def mgl32.Vec3) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(v))
}
