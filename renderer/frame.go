package renderer

import (
	"math"
	"sync"

	"github.com/richinsley/gltriangles/graphics"
)

// AnimationState is the frame counter of one mounted session.
type AnimationState struct {
	Counter uint64
}

// Next returns the state for the following frame.
func (a AnimationState) Next() AnimationState {
	return AnimationState{Counter: a.Counter + 1}
}

// Radians is the frame angle, one degree per frame, wrapping every 360.
func (a AnimationState) Radians() float32 {
	return float32(float64(a.Counter%360) * math.Pi / 180)
}

// FrameID identifies a pending frame callback.
type FrameID uint64

// Scheduler runs callbacks on display refresh.
type Scheduler interface {
	// RequestFrame runs fn once on the next refresh.
	RequestFrame(fn func()) FrameID
	// CancelFrame drops a callback that has not run yet.
	CancelFrame(id FrameID)
}

// Painter draws one complete frame for a given animation state.
type Painter interface {
	Paint(anim AnimationState)
}

type DriverState int

const (
	Idle DriverState = iota
	Running
	Stopped
)

func (s DriverState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// FrameDriver owns the redraw chain of one session. At most one callback is
// pending at any time and it is cancelled by Stop.
type FrameDriver struct {
	sched    Scheduler
	painter  Painter
	animated bool

	state      DriverState
	anim       AnimationState
	pending    FrameID
	hasPending bool
}

func NewFrameDriver(sched Scheduler, painter Painter, animated bool) *FrameDriver {
	return &FrameDriver{sched: sched, painter: painter, animated: animated}
}

func (d *FrameDriver) State() DriverState        { return d.state }
func (d *FrameDriver) Animation() AnimationState { return d.anim }
func (d *FrameDriver) Pending() (FrameID, bool)  { return d.pending, d.hasPending }

// Start paints the first frame. Static scenes paint once and schedule
// nothing; animated scenes enter Running and keep requesting ticks.
// Starting again after Stop resets the counter.
func (d *FrameDriver) Start() {
	if d.state == Running {
		return
	}
	d.anim = AnimationState{}
	if !d.animated {
		d.state = Idle
		d.painter.Paint(d.anim)
		return
	}
	d.state = Running
	d.tick()
}

// Stop cancels the pending tick, if any. No paint happens after Stop.
func (d *FrameDriver) Stop() {
	if d.hasPending {
		d.sched.CancelFrame(d.pending)
		d.hasPending = false
	}
	d.state = Stopped
}

func (d *FrameDriver) tick() {
	d.hasPending = false
	if d.state != Running {
		return
	}
	d.anim = d.anim.Next()
	d.painter.Paint(d.anim)
	d.pending = d.sched.RequestFrame(d.tick)
	d.hasPending = true
	graphics.Logger().Debug("frame", "counter", d.anim.Counter, "next", uint64(d.pending))
}

// LoopScheduler queues callbacks for a host loop that calls RunPending once
// per iteration. Post may be called from any goroutine; the other methods
// belong to the loop's goroutine.
type LoopScheduler struct {
	mu      sync.Mutex
	next    FrameID
	pending []loopTask
	wake    func()
}

type loopTask struct {
	id FrameID
	fn func()
}

func (s *LoopScheduler) RequestFrame(fn func()) FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.pending = append(s.pending, loopTask{id: s.next, fn: fn})
	return s.next
}

func (s *LoopScheduler) CancelFrame(id FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.pending {
		if t.id == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// SetWake installs the function Post uses to interrupt a loop blocked in
// WaitEvents, such as glfw.PostEmptyEvent.
func (s *LoopScheduler) SetWake(wake func()) {
	s.mu.Lock()
	s.wake = wake
	s.mu.Unlock()
}

// Post queues fn from another goroutine and wakes the loop.
func (s *LoopScheduler) Post(fn func()) {
	s.RequestFrame(fn)
	s.mu.Lock()
	wake := s.wake
	s.mu.Unlock()
	if wake != nil {
		wake()
	}
}

// Len returns the number of callbacks waiting to run.
func (s *LoopScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// RunPending runs the callbacks queued before the call, in order. Callbacks
// they request wait for the next call; callbacks they cancel do not run. It
// returns how many ran.
func (s *LoopScheduler) RunPending() int {
	s.mu.Lock()
	last := s.next
	s.mu.Unlock()
	ran := 0
	for {
		s.mu.Lock()
		if len(s.pending) == 0 || s.pending[0].id > last {
			s.mu.Unlock()
			return ran
		}
		t := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()
		t.fn()
		ran++
	}
}

// RunLoop drives sched from a window until it is closed or maxFrames frames
// have been presented (maxFrames <= 0 means no limit). The frame painted at
// mount is presented first; afterwards the loop presents only when a
// callback ran and otherwise waits for window events.
func RunLoop(ctx graphics.Context, sched *LoopScheduler, maxFrames int) int {
	start := ctx.Time()
	presented := 0
	defer func() {
		graphics.Logger().Info("run loop finished", "frames", presented, "seconds", ctx.Time()-start)
	}()
	for !ctx.ShouldClose() {
		ran := 0
		if presented > 0 {
			ran = sched.RunPending()
		}
		if ran == 0 && presented > 0 {
			ctx.WaitEvents(0.1)
			continue
		}
		ctx.EndFrame()
		presented++
		if maxFrames > 0 && presented >= maxFrames {
			break
		}
	}
	return presented
}
