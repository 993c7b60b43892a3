package shader

import (
	_ "embed"
)

// Default WebGL2 (GLSL ES 3.00) sources. They declare the names the renderer
// resolves: attribute position (vec3), attribute color (vec4) and uniform
// mvpMatrix (mat4).
var (
	//go:embed vertex.glsl
	vertexShaderSource string

	//go:embed fragment.glsl
	fragmentShaderSource string
)

const (
	AttribPosition = "position"
	AttribColor    = "color"
	UniformMVP     = "mvpMatrix"
)

func GetVertexShader() string {
	return vertexShaderSource
}

func GetFragmentShader() string {
	return fragmentShaderSource
}
