// Package app holds the desktop viewer's scene session, kept apart from the
// window code so it runs against any graphics.Device.
package app

import (
	"fmt"
	"log"

	"github.com/richinsley/gltriangles/graphics"
	"github.com/richinsley/gltriangles/renderer"
)

// Session owns the renderer currently mounted on a device and swaps it when
// the scene changes. Except for Reload, methods run on the render thread.
type Session struct {
	dev   graphics.Device
	sched *renderer.LoopScheduler
	opts  renderer.Options
	r     *renderer.Renderer
}

func NewSession(dev graphics.Device, sched *renderer.LoopScheduler, opts renderer.Options) *Session {
	return &Session{dev: dev, sched: sched, opts: opts}
}

// Renderer returns the mounted renderer, or nil.
func (s *Session) Renderer() *renderer.Renderer { return s.r }

// Scheduler returns the loop scheduler the session's renderers tick on.
func (s *Session) Scheduler() *renderer.LoopScheduler { return s.sched }

// Load replaces the mounted scene with sc. If sc fails to set up, the
// previous scene is mounted again and the setup error is returned.
func (s *Session) Load(sc *renderer.Scene) error {
	prev := s.r
	if prev != nil {
		prev.Shutdown()
		s.r = nil
	}
	r, err := renderer.NewRenderer(s.dev, s.sched, sc, s.opts)
	if err != nil {
		err = fmt.Errorf("failed to set up scene %q: %w", sc.Name, err)
		if prev != nil {
			if r, perr := renderer.NewRenderer(s.dev, s.sched, prev.Scene(), s.opts); perr == nil {
				s.r = r
				r.Mount()
			}
		}
		return err
	}
	s.r = r
	r.Mount()
	return nil
}

// Restart runs an animated scene again from frame zero.
func (s *Session) Restart() {
	if s.r == nil || !s.r.Scene().Animated() {
		return
	}
	s.r.Unmount()
	s.r.Mount()
}

// Reload is the file watcher callback. It may run on any goroutine and
// hands the new scene to the render thread.
func (s *Session) Reload(sc *renderer.Scene, err error) {
	if err != nil {
		log.Printf("Scene reload failed: %v", err)
		return
	}
	s.sched.Post(func() {
		if err := s.Load(sc); err != nil {
			log.Printf("Scene reload failed: %v", err)
			return
		}
		log.Printf("Reloaded scene %q", sc.Name)
	})
}

func (s *Session) Close() {
	if s.r != nil {
		s.r.Shutdown()
		s.r = nil
	}
}
