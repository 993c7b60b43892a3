package renderer_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/richinsley/gltriangles/graphics"
	"github.com/richinsley/gltriangles/internal/gltest"
	"github.com/richinsley/gltriangles/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPainter struct {
	frames []uint64
}

func (p *countingPainter) Paint(anim renderer.AnimationState) {
	p.frames = append(p.frames, anim.Counter)
}

func TestAnimationStateWraps(t *testing.T) {
	assert.Equal(t, renderer.AnimationState{Counter: 0}.Radians(), renderer.AnimationState{Counter: 360}.Radians())
	assert.Equal(t, renderer.AnimationState{Counter: 1}.Radians(), renderer.AnimationState{Counter: 721}.Radians())
	assert.InDelta(t, 3.14159265, renderer.AnimationState{Counter: 180}.Radians(), 1e-6)
	assert.Equal(t, uint64(8), renderer.AnimationState{Counter: 7}.Next().Counter)
}

func TestFrameDriverStatic(t *testing.T) {
	sched := gltest.NewManualScheduler()
	p := &countingPainter{}
	d := renderer.NewFrameDriver(sched, p, false)

	d.Start()
	assert.Equal(t, []uint64{0}, p.frames)
	assert.Equal(t, 0, sched.Requested)
	assert.Equal(t, renderer.Idle, d.State())

	assert.Zero(t, sched.Fire())
	d.Stop()
	assert.Equal(t, renderer.Stopped, d.State())
	assert.Len(t, p.frames, 1)
}

func TestFrameDriverRunning(t *testing.T) {
	sched := gltest.NewManualScheduler()
	p := &countingPainter{}
	d := renderer.NewFrameDriver(sched, p, true)

	d.Start()
	assert.Equal(t, renderer.Running, d.State())
	assert.Equal(t, []uint64{1}, p.frames)
	require.Equal(t, 1, sched.Len())

	for i := 0; i < 4; i++ {
		assert.Equal(t, 1, sched.Fire())
		assert.Equal(t, 1, sched.Len(), "exactly one tick pending")
	}
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, p.frames)

	d.Stop()
	assert.Equal(t, renderer.Stopped, d.State())
	assert.Zero(t, sched.Len())
	assert.Equal(t, 1, sched.Cancelled)
	_, pending := d.Pending()
	assert.False(t, pending)
}

func TestFrameDriverStopBeforeFirstTick(t *testing.T) {
	sched := gltest.NewManualScheduler()
	p := &countingPainter{}
	d := renderer.NewFrameDriver(sched, p, true)

	d.Start()
	painted := len(p.frames)
	d.Stop()

	assert.Zero(t, sched.Fire())
	assert.Len(t, p.frames, painted)
}

// lateScheduler ignores cancellation, like a host whose callback was
// already queued when it was cancelled.
type lateScheduler struct {
	fns []func()
}

func (s *lateScheduler) RequestFrame(fn func()) renderer.FrameID {
	s.fns = append(s.fns, fn)
	return renderer.FrameID(len(s.fns))
}

func (s *lateScheduler) CancelFrame(renderer.FrameID) {}

func TestFrameDriverIgnoresLateTick(t *testing.T) {
	sched := &lateScheduler{}
	p := &countingPainter{}
	d := renderer.NewFrameDriver(sched, p, true)

	d.Start()
	d.Stop()
	for _, fn := range sched.fns {
		fn()
	}
	assert.Equal(t, []uint64{1}, p.frames)
}

func TestFrameDriverRestartResetsCounter(t *testing.T) {
	sched := gltest.NewManualScheduler()
	p := &countingPainter{}
	d := renderer.NewFrameDriver(sched, p, true)

	d.Start()
	sched.Fire()
	sched.Fire()
	d.Stop()

	d.Start()
	assert.Equal(t, uint64(1), d.Animation().Counter)
	assert.Equal(t, []uint64{1, 2, 3, 1}, p.frames)
	d.Stop()
}

func TestLoopScheduler(t *testing.T) {
	s := &renderer.LoopScheduler{}
	var ran []int
	a := s.RequestFrame(func() { ran = append(ran, 1) })
	s.RequestFrame(func() {
		ran = append(ran, 2)
		s.RequestFrame(func() { ran = append(ran, 3) })
	})
	s.CancelFrame(a)
	assert.Equal(t, 1, s.Len())

	assert.Equal(t, 1, s.RunPending())
	assert.Equal(t, []int{2}, ran)
	assert.Equal(t, 1, s.Len(), "callbacks requested while running wait for the next call")

	assert.Equal(t, 1, s.RunPending())
	assert.Equal(t, []int{2, 3}, ran)
	assert.Zero(t, s.RunPending())
}

func TestLoopSchedulerCancelWithinBatch(t *testing.T) {
	s := &renderer.LoopScheduler{}
	var b renderer.FrameID
	ranB := false
	s.RequestFrame(func() { s.CancelFrame(b) })
	b = s.RequestFrame(func() { ranB = true })

	assert.Equal(t, 1, s.RunPending())
	assert.False(t, ranB, "a callback cancelled earlier in the batch must not run")
	assert.Zero(t, s.Len())
}

func TestLoopSchedulerPost(t *testing.T) {
	s := &renderer.LoopScheduler{}
	woken := make(chan struct{}, 1)
	s.SetWake(func() { woken <- struct{}{} })

	ran := false
	done := make(chan struct{})
	go func() {
		s.Post(func() { ran = true })
		close(done)
	}()
	<-done
	<-woken

	assert.Equal(t, 1, s.RunPending())
	assert.True(t, ran)
}

type fakeWindow struct {
	clock           float64
	frames          int
	waits           int
	closeAfterWaits int
}

func (w *fakeWindow) MakeCurrent()                   {}
func (w *fakeWindow) Shutdown()                      {}
func (w *fakeWindow) ShouldClose() bool              { return w.waits >= w.closeAfterWaits }
func (w *fakeWindow) EndFrame()                      { w.frames++ }
func (w *fakeWindow) WaitEvents(float64)             { w.waits++ }
func (w *fakeWindow) GetFramebufferSize() (int, int) { return 500, 300 }
func (w *fakeWindow) Time() float64                  { w.clock += 0.5; return w.clock }
func (w *fakeWindow) IsGLES() bool                   { return false }

func TestRunLoopAnimated(t *testing.T) {
	sched := &renderer.LoopScheduler{}
	p := &countingPainter{}
	d := renderer.NewFrameDriver(sched, p, true)
	d.Start()

	var logs bytes.Buffer
	graphics.SetLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo})))
	defer graphics.SetLogger(nil)

	w := &fakeWindow{closeAfterWaits: 1}
	n := renderer.RunLoop(w, sched, 10)
	assert.Equal(t, 10, n)
	assert.Equal(t, 10, w.frames)
	assert.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, p.frames)
	assert.Contains(t, logs.String(), `msg="run loop finished" frames=10 seconds=0.5`)
}

func TestRunLoopStaticPresentsOnce(t *testing.T) {
	sched := &renderer.LoopScheduler{}
	p := &countingPainter{}
	d := renderer.NewFrameDriver(sched, p, false)
	d.Start()

	w := &fakeWindow{closeAfterWaits: 3}
	n := renderer.RunLoop(w, sched, 0)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, w.waits)
	assert.Len(t, p.frames, 1)
}
