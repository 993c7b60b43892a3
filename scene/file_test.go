package scene_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gltriangles/renderer"
	"github.com/richinsley/gltriangles/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spinning = `
name: spinning
camera: {eye: [0, 1, 3], target: [0, 0, 0], up: [0, 1, 0]}
projection: {fov: 90, near: 0.1, far: 100}
mesh:
  positions: [0, 1, 0, 1, 0, 0, -1, 0, 0]
  colors: [1, 0, 0, 1, 0, 1, 0, 1, 0, 0, 1, 1]
primitives:
  - [{op: translate, vec: [0, -1, 0]}, {op: rotateY}]
  - [{op: scale}]
clearColor: [0.1, 0.1, 0.1, 1]
depthTest: true
`

func TestParse(t *testing.T) {
	s, err := scene.Parse([]byte(spinning))
	require.NoError(t, err)

	assert.Equal(t, "spinning", s.Name)
	assert.Equal(t, mgl32.Vec3{0, 1, 3}, s.Camera.Eye)
	assert.InDelta(t, mgl32.DegToRad(90), s.Projection.FovY, 1e-6)
	assert.InDelta(t, 500.0/300.0, s.Projection.Aspect, 1e-6)
	assert.Len(t, s.Mesh.Colors, 12)
	assert.Equal(t, [4]float32{0.1, 0.1, 0.1, 1}, s.ClearColor)
	assert.True(t, s.DepthTest)
	assert.False(t, s.CullFace)

	require.Len(t, s.Primitives, 2)
	assert.Equal(t, renderer.Model{
		{Kind: renderer.Translate, Vec: mgl32.Vec3{0, -1, 0}},
		{Kind: renderer.RotateY},
	}, s.Primitives[0])
	assert.Equal(t, renderer.Model{{Kind: renderer.Scale, Vec: mgl32.Vec3{1, 1, 1}}}, s.Primitives[1])
	assert.True(t, s.Animated())
}

func TestParseDefaults(t *testing.T) {
	s, err := scene.Parse([]byte(`
projection: {fov: 45, near: 1, far: 10}
mesh: {positions: [0, 1, 0, 1, 0, 0, -1, 0, 0]}
primitives: [[]]
`))
	require.NoError(t, err)
	assert.Equal(t, "custom", s.Name)
	assert.Equal(t, mgl32.Vec3{0, 0, 5}, s.Camera.Eye)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, s.Camera.Up)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, s.ClearColor)
	assert.False(t, s.Animated())
}

func TestParseErrors(t *testing.T) {
	base := "mesh: {positions: [0, 1, 0]}\n"
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown key", base + "projection: {fov: 45, near: 1, far: 10}\nprimitives: [[]]\nlights: 2\n", "lights"},
		{"fov too wide", base + "projection: {fov: 180, near: 1, far: 10}\nprimitives: [[]]\n", "fov"},
		{"missing fov", base + "projection: {near: 1, far: 10}\nprimitives: [[]]\n", "fov"},
		{"negative aspect", base + "projection: {fov: 45, aspect: -1.5, near: 1, far: 10}\nprimitives: [[]]\n", "aspect"},
		{"nan aspect", base + "projection: {fov: 45, aspect: .nan, near: 1, far: 10}\nprimitives: [[]]\n", "aspect"},
		{"nan fov", base + "projection: {fov: .nan, near: 1, far: 10}\nprimitives: [[]]\n", "fov"},
		{"infinite far", base + "projection: {fov: 45, near: 1, far: .inf}\nprimitives: [[]]\n", "near"},
		{"near behind far", base + "projection: {fov: 45, near: 10, far: 1}\nprimitives: [[]]\n", "near"},
		{"no primitives", base + "projection: {fov: 45, near: 1, far: 10}\n", "no primitives"},
		{"bad step", base + "projection: {fov: 45, near: 1, far: 10}\nprimitives: [[{op: shear}]]\n", "shear"},
		{"short vector", base + "projection: {fov: 45, near: 1, far: 10}\nprimitives: [[{op: translate, vec: [1, 2]}]]\n", "3 components"},
		{"short eye", base + "camera: {eye: [1]}\nprojection: {fov: 45, near: 1, far: 10}\nprimitives: [[]]\n", "camera eye"},
		{"clear color", base + "projection: {fov: 45, near: 1, far: 10}\nprimitives: [[]]\nclearColor: [1, 1, 1]\n", "clearColor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scene.Parse([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spinning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(spinning), 0o644))

	s, err := scene.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "spinning", s.Name)

	_, err = scene.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read scene file")
}
