package graphics

// Context defines the interface for a window or offscreen surface that owns
// an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// EndFrame presents the frame and processes pending window events.
	EndFrame()
	// WaitEvents blocks until a window event arrives or timeout seconds pass.
	WaitEvents(timeout float64)
	GetFramebufferSize() (int, int)
	Time() float64
	IsGLES() bool
}
