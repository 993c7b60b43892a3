package scene

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gltriangles/renderer"
)

// Canvas size of the tutorial surface.
const (
	CanvasWidth  = 500
	CanvasHeight = 300
)

var triangle = []float32{
	0.0, 1.0, 0.0,
	1.0, 0.0, 0.0,
	-1.0, 0.0, 0.0,
}

var presets = map[string]func() *renderer.Scene{
	"triangle": Triangle,
	"three":    ThreeTriangles,
	"indexed":  IndexedQuad,
}

// Names lists the built-in scenes.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns a fresh copy of a built-in scene.
func Preset(name string) (*renderer.Scene, error) {
	f, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (have %v)", name, Names())
	}
	return f(), nil
}

func projection(fovDegrees float32) renderer.Perspective {
	return renderer.Perspective{
		FovY:   mgl32.DegToRad(fovDegrees),
		Aspect: float32(CanvasWidth) / float32(CanvasHeight),
		Near:   0.1,
		Far:    100,
	}
}

// Triangle is a single white triangle drawn once.
func Triangle() *renderer.Scene {
	return &renderer.Scene{
		Name: "triangle",
		Camera: renderer.Camera{
			Eye:    mgl32.Vec3{0, 1, 3},
			Target: mgl32.Vec3{0, 0, 0},
			Up:     mgl32.Vec3{0, 1, 0},
		},
		Projection: projection(90),
		Mesh:       renderer.Mesh{Positions: append([]float32(nil), triangle...)},
		Primitives: []renderer.Model{{}},
		ClearColor: [4]float32{0, 0, 0, 1},
	}
}

// ThreeTriangles draws one colored triangle three times: orbiting, spinning
// and pulsing.
func ThreeTriangles() *renderer.Scene {
	return &renderer.Scene{
		Name: "three",
		Camera: renderer.Camera{
			Eye:    mgl32.Vec3{0, 0, 5},
			Target: mgl32.Vec3{0, 0, 0},
			Up:     mgl32.Vec3{0, 1, 0},
		},
		Projection: projection(45),
		Mesh: renderer.Mesh{
			Positions: append([]float32(nil), triangle...),
			Colors: []float32{
				1.0, 0.0, 0.0, 1.0,
				0.0, 1.0, 0.0, 1.0,
				0.0, 0.0, 1.0, 1.0,
			},
		},
		Primitives: []renderer.Model{
			{{Kind: renderer.Orbit, Vec: mgl32.Vec3{0, 1, 0}}},
			{{Kind: renderer.Translate, Vec: mgl32.Vec3{0, -1, 0}}, {Kind: renderer.RotateY}},
			{{Kind: renderer.Translate, Vec: mgl32.Vec3{-1, -1, 0}}, {Kind: renderer.Pulse}},
		},
		ClearColor: [4]float32{0, 0, 0, 1},
	}
}

// IndexedQuad draws a four-vertex quad through an index buffer, rotating
// about Y with back faces culled.
func IndexedQuad() *renderer.Scene {
	return &renderer.Scene{
		Name: "indexed",
		Camera: renderer.Camera{
			Eye:    mgl32.Vec3{0, 0, 5},
			Target: mgl32.Vec3{0, 0, 0},
			Up:     mgl32.Vec3{0, 1, 0},
		},
		Projection: projection(45),
		Mesh: renderer.Mesh{
			Positions: []float32{
				0.0, 1.0, 0.0,
				1.0, 0.0, 0.0,
				-1.0, 0.0, 0.0,
				0.0, -1.0, 0.0,
			},
			Colors: []float32{
				1.0, 0.0, 0.0, 1.0,
				0.0, 1.0, 0.0, 1.0,
				0.0, 0.0, 1.0, 1.0,
				1.0, 1.0, 1.0, 1.0,
			},
			Indices: []uint16{
				0, 1, 2,
				3, 2, 1,
			},
		},
		Primitives: []renderer.Model{{{Kind: renderer.RotateY}}},
		ClearColor: [4]float32{0, 0, 0, 1},
		CullFace:   true,
	}
}
