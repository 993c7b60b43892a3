package translator_test

import (
	"testing"

	"github.com/richinsley/gltriangles/graphics"
	"github.com/richinsley/gltriangles/shader"
	"github.com/richinsley/gltriangles/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateEmbeddedShaders(t *testing.T) {
	if testing.Short() {
		t.Skip("starts the wasm translator")
	}
	tr := translator.WebGL2{}

	vs, err := tr.Translate(shader.GetVertexShader(), graphics.VertexStage)
	require.NoError(t, err)
	assert.Contains(t, vs.Code, "#version 410")
	for _, name := range []string{shader.AttribPosition, shader.AttribColor, shader.UniformMVP} {
		assert.Contains(t, vs.Names[name], name, "mapped name for %s", name)
	}

	fs, err := tr.Translate(shader.GetFragmentShader(), graphics.FragmentStage)
	require.NoError(t, err)
	assert.NotEmpty(t, fs.Code)
}

func TestTranslateRejectsInvalidSource(t *testing.T) {
	if testing.Short() {
		t.Skip("starts the wasm translator")
	}
	_, err := translator.WebGL2{}.Translate("#version 300 es\nvoid main() { undefined(); }\n", graphics.VertexStage)
	assert.ErrorContains(t, err, "vertex shader translation failed")
}
