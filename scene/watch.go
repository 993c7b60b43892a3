package scene

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/richinsley/gltriangles/graphics"
	"github.com/richinsley/gltriangles/renderer"
)

// Watcher reloads a scene file after it is written.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	done    chan struct{}
}

// Watch calls onChange from its own goroutine with the result of loading
// path once writes to it have settled. The parent directory is watched because editors
// often replace a file instead of writing it in place.
func Watch(path string, onChange func(*renderer.Scene, error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}
	w := &Watcher{watcher: fw, path: abs, done: make(chan struct{})}
	go w.run(onChange)
	return w, nil
}

// settle is how long the file must stay quiet before it is reloaded. One
// editor save usually arrives as several events.
const settle = 100 * time.Millisecond

func (w *Watcher) run(onChange func(*renderer.Scene, error)) {
	defer close(w.done)
	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			graphics.Logger().Debug("scene file changed", "path", w.path, "op", event.Op.String())
			timer.Reset(settle)
		case <-timer.C:
			onChange(Load(w.path))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			graphics.Logger().Warn("scene watcher error", "err", err)
		}
	}
}

// Close stops watching and waits for a running callback to return.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
