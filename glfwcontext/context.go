//go:build !js

package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	options "github.com/richinsley/gltriangles/options"
)

// Context is a fixed-size GLFW window on an OpenGL 4.1 core context. It
// implements graphics.Context.
type Context struct {
	window *glfw.Window
	keys   map[glfw.Key]func()
}

// New opens a window of the size in opts titled after the scene. A hidden
// window stands in for a headless context where EGL is unavailable.
func New(opts *options.RenderOptions, title string, visible bool) (*Context, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	// The canvas never resizes, so neither does the window.
	glfw.WindowHint(glfw.Resizable, glfw.False)
	visibleHint := glfw.False
	if visible {
		visibleHint = glfw.True
	}
	glfw.WindowHint(glfw.Visible, visibleHint)

	win, err := glfw.CreateWindow(*opts.Width, *opts.Height, "gltriangles: "+title, nil, nil)
	if err != nil {
		return nil, err
	}
	c := &Context{window: win, keys: make(map[glfw.Key]func())}
	win.SetKeyCallback(c.onKey)
	return c, nil
}

// OnKey runs f whenever key is pressed. Escape always closes the window.
func (c *Context) OnKey(key glfw.Key, f func()) {
	c.keys[key] = f
}

func (c *Context) onKey(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if key == glfw.KeyEscape {
		w.SetShouldClose(true)
		return
	}
	if f, ok := c.keys[key]; ok {
		f()
	}
}

func (c *Context) MakeCurrent()      { c.window.MakeContextCurrent() }
func (c *Context) Shutdown()         { c.window.Destroy() }
func (c *Context) ShouldClose() bool { return c.window.ShouldClose() }

// IsGLES is false: the window always asks for a desktop core profile.
func (c *Context) IsGLES() bool { return false }

// EndFrame presents the back buffer and handles pending input.
func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

// WaitEvents blocks for input for at most timeout seconds.
func (c *Context) WaitEvents(timeout float64) {
	glfw.WaitEventsTimeout(timeout)
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics locks the calling goroutine to its thread and starts GLFW.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW %s initialized", glfw.GetVersionString())
	return nil
}

// TerminateGraphics releases GLFW. Call it from the thread that ran
// InitGraphics.
func TerminateGraphics() {
	glfw.Terminate()
}
