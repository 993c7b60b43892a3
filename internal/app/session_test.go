package app_test

import (
	"errors"
	"testing"

	"github.com/richinsley/gltriangles/internal/app"
	"github.com/richinsley/gltriangles/internal/gltest"
	"github.com/richinsley/gltriangles/renderer"
	"github.com/richinsley/gltriangles/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) (*app.Session, *gltest.Recorder) {
	t.Helper()
	dev := gltest.NewRecorder()
	s := app.NewSession(dev, &renderer.LoopScheduler{}, renderer.Options{Width: scene.CanvasWidth, Height: scene.CanvasHeight})
	t.Cleanup(s.Close)
	return s, dev
}

// brokenScene has a color array that does not hold whole vertices.
func brokenScene() *renderer.Scene {
	s := scene.ThreeTriangles()
	s.Name = "broken"
	s.Mesh.Colors = s.Mesh.Colors[:len(s.Mesh.Colors)-1]
	return s
}

func TestLoadFailureRemountsPreviousScene(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.Load(scene.ThreeTriangles()))
	first := s.Renderer()

	err := s.Load(brokenScene())
	require.ErrorIs(t, err, renderer.ErrAttributeLength)
	assert.ErrorContains(t, err, `"broken"`)

	r := s.Renderer()
	require.NotNil(t, r)
	assert.NotSame(t, first, r)
	assert.Equal(t, "three", r.Scene().Name)
	assert.Equal(t, renderer.Running, r.Driver().State())
	assert.Equal(t, renderer.Stopped, first.Driver().State())
	assert.Equal(t, 1, s.Scheduler().Len(), "only the remounted scene ticks")
}

func TestLoadFirstSceneFailure(t *testing.T) {
	s, dev := newSession(t)
	require.Error(t, s.Load(brokenScene()))
	assert.Nil(t, s.Renderer())
	assert.Empty(t, dev.Draws())
}

func TestRestartResetsCounter(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.Load(scene.ThreeTriangles()))
	s.Scheduler().RunPending()
	s.Scheduler().RunPending()
	assert.Equal(t, uint64(3), s.Renderer().Driver().Animation().Counter)

	s.Restart()
	assert.Equal(t, uint64(1), s.Renderer().Driver().Animation().Counter)
	assert.Equal(t, renderer.Running, s.Renderer().Driver().State())
	assert.Equal(t, 1, s.Scheduler().Len())
}

func TestRestartIgnoresStaticScene(t *testing.T) {
	s, dev := newSession(t)
	require.NoError(t, s.Load(scene.Triangle()))
	dev.Reset()

	s.Restart()
	assert.Empty(t, dev.Draws())
	assert.Equal(t, renderer.Idle, s.Renderer().Driver().State())
}

func TestReloadSwapsOnNextRun(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.Load(scene.Triangle()))
	first := s.Renderer()

	s.Reload(scene.ThreeTriangles(), nil)
	assert.Same(t, first, s.Renderer(), "reload waits for the render loop")

	assert.Equal(t, 1, s.Scheduler().RunPending())
	assert.Equal(t, "three", s.Renderer().Scene().Name)
	assert.Equal(t, renderer.Running, s.Renderer().Driver().State())
}

func TestReloadErrorKeepsScene(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.Load(scene.Triangle()))
	first := s.Renderer()

	s.Reload(nil, errors.New("yaml: line 3: bad indentation"))
	assert.Zero(t, s.Scheduler().Len())
	assert.Same(t, first, s.Renderer())
}
