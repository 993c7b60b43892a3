//go:build linux

package headless

/*
#cgo LDFLAGS: -lEGL
#include <EGL/egl.h>
#include <EGL/eglext.h>

// Device enumeration is an extension, so its entry points are looked up at
// run time and called through these shims.
static PFNEGLQUERYDEVICESEXTPROC query_devices_fn;
static PFNEGLGETPLATFORMDISPLAYEXTPROC platform_display_fn;

static int load_device_extension(void) {
    query_devices_fn = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    platform_display_fn = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
    return query_devices_fn != NULL && platform_display_fn != NULL;
}

static EGLint device_count(void) {
    EGLint n = 0;
    if (!query_devices_fn(0, NULL, &n)) {
        return 0;
    }
    return n;
}

static EGLDisplay device_display(EGLint index) {
    EGLDeviceEXT devices[16];
    EGLint n = 0;
    if (index >= 16 || !query_devices_fn(16, devices, &n) || index >= n) {
        return EGL_NO_DISPLAY;
    }
    return platform_display_fn(EGL_PLATFORM_DEVICE_EXT, devices[index], NULL);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"time"

	"github.com/richinsley/gltriangles/graphics"
)

// Supported reports whether NewHeadless can create a context on this platform.
const Supported = true

// Headless renders into a pbuffer through a desktop OpenGL 4.1 core context
// so the gldevice backend works unchanged. It never asks to close; callers
// bound the number of frames.
type Headless struct {
	display C.EGLDisplay
	context C.EGLContext
	surface C.EGLSurface
	width   int
	height  int
	start   time.Time
}

var _ graphics.Context = (*Headless)(nil)

var (
	noDisplay = C.EGLDisplay(C.EGL_NO_DISPLAY)
	noSurface = C.EGLSurface(C.EGL_NO_SURFACE)
	noContext = C.EGLContext(C.EGL_NO_CONTEXT)
)

// openDisplay prefers the first enumerated GPU device, which is the only
// option in containers without a window system, and otherwise uses the
// default display.
func openDisplay() (C.EGLDisplay, error) {
	if C.load_device_extension() != 0 {
		n := int(C.device_count())
		for i := 0; i < n; i++ {
			if d := C.device_display(C.EGLint(i)); d != noDisplay {
				graphics.Logger().Debug("egl device display", "device", i, "devices", n)
				return d, nil
			}
		}
	}
	graphics.Logger().Warn("no EGL device display, using EGL_DEFAULT_DISPLAY")
	d := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
	if d == noDisplay {
		return noDisplay, errors.New("no EGL display available")
	}
	return d, nil
}

func attribs(kv ...C.EGLint) *C.EGLint {
	kv = append(kv, C.EGL_NONE)
	return &kv[0]
}

// NewHeadless creates a current context with a width×height pbuffer.
func NewHeadless(width, height int) (*Headless, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid pbuffer size %dx%d", width, height)
	}
	h := &Headless{display: noDisplay, context: noContext, surface: noSurface, width: width, height: height}

	display, err := openDisplay()
	if err != nil {
		return nil, err
	}
	var major, minor C.EGLint
	if C.eglInitialize(display, &major, &minor) == C.EGL_FALSE {
		return nil, errors.New("failed to initialize EGL")
	}
	h.display = display
	graphics.Logger().Info("egl initialized", "version", fmt.Sprintf("%d.%d", major, minor))

	if err := h.setup(); err != nil {
		h.Shutdown()
		return nil, err
	}
	h.MakeCurrent()
	h.start = time.Now()
	return h, nil
}

func (h *Headless) setup() error {
	if C.eglBindAPI(C.EGL_OPENGL_API) == C.EGL_FALSE {
		return errors.New("EGL display has no desktop OpenGL support")
	}

	var config C.EGLConfig
	var n C.EGLint
	ok := C.eglChooseConfig(h.display, attribs(
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_DEPTH_SIZE, 24,
	), &config, 1, &n)
	if ok == C.EGL_FALSE || n == 0 {
		return errors.New("no EGL config with an RGBA8 pbuffer and 24-bit depth")
	}

	h.surface = C.eglCreatePbufferSurface(h.display, config, attribs(
		C.EGL_WIDTH, C.EGLint(h.width),
		C.EGL_HEIGHT, C.EGLint(h.height),
	))
	if h.surface == noSurface {
		return fmt.Errorf("failed to create %dx%d pbuffer", h.width, h.height)
	}

	h.context = C.eglCreateContext(h.display, config, noContext, attribs(
		C.EGL_CONTEXT_MAJOR_VERSION, 4,
		C.EGL_CONTEXT_MINOR_VERSION, 1,
		C.EGL_CONTEXT_OPENGL_PROFILE_MASK, C.EGL_CONTEXT_OPENGL_CORE_PROFILE_BIT,
	))
	if h.context == noContext {
		return errors.New("failed to create an OpenGL 4.1 core context")
	}
	return nil
}

func (h *Headless) MakeCurrent() {
	C.eglMakeCurrent(h.display, h.surface, h.surface, h.context)
}

// Shutdown releases whatever NewHeadless managed to create.
func (h *Headless) Shutdown() {
	if h.display == noDisplay {
		return
	}
	C.eglMakeCurrent(h.display, noSurface, noSurface, noContext)
	if h.context != noContext {
		C.eglDestroyContext(h.display, h.context)
		h.context = noContext
	}
	if h.surface != noSurface {
		C.eglDestroySurface(h.display, h.surface)
		h.surface = noSurface
	}
	C.eglTerminate(h.display)
	h.display = noDisplay
}

func (h *Headless) EndFrame() { C.eglSwapBuffers(h.display, h.surface) }

// WaitEvents sleeps; a pbuffer has no events.
func (h *Headless) WaitEvents(timeout float64) {
	time.Sleep(time.Duration(timeout * float64(time.Second)))
}

func (h *Headless) ShouldClose() bool              { return false }
func (h *Headless) GetFramebufferSize() (int, int) { return h.width, h.height }
func (h *Headless) Time() float64                  { return time.Since(h.start).Seconds() }
func (h *Headless) IsGLES() bool                   { return false }
