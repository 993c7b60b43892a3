package scene_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/richinsley/gltriangles/renderer"
	"github.com/richinsley/gltriangles/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loadResult struct {
	scene *renderer.Scene
	err   error
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(spinning), 0o644))

	results := make(chan loadResult, 16)
	w, err := scene.Watch(path, func(s *renderer.Scene, err error) {
		results <- loadResult{s, err}
	})
	require.NoError(t, err)
	defer w.Close()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))

	edited := []byte(spinning[:len(spinning)-1] + "\ncullFace: true\n")
	require.NoError(t, os.WriteFile(path, edited, 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-results:
			// A write may be observed before it completes.
			if r.err != nil {
				continue
			}
			assert.Equal(t, "spinning", r.scene.Name)
			if r.scene.CullFace {
				return
			}
		case <-deadline:
			t.Fatal("no reload after writing the scene file")
		}
	}
}

func TestWatchCoalescesBurstOfWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(spinning), 0o644))

	results := make(chan loadResult, 16)
	w, err := scene.Watch(path, func(s *renderer.Scene, err error) {
		results <- loadResult{s, err}
	})
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(spinning), 0o644))
	}

	select {
	case r := <-results:
		require.NoError(t, r.err)
		assert.Equal(t, "spinning", r.scene.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after writing the scene file")
	}
	select {
	case <-results:
		t.Fatal("one burst of writes reloaded more than once")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := scene.Watch(filepath.Join(t.TempDir(), "nope", "scene.yaml"), func(*renderer.Scene, error) {})
	assert.Error(t, err)
}
