// Package gltest provides an in-memory graphics.Device and a manually fired
// scheduler for tests.
package gltest

import (
	"strings"

	"github.com/richinsley/gltriangles/graphics"
	"github.com/richinsley/gltriangles/renderer"
)

// Call is one recorded device command.
type Call struct {
	Name   string
	Handle uint32
	Slot   uint32
	Size   int32
	First  int32
	Count  int32
	Matrix [16]float32
}

// Recorder is a fake device. Shader sources containing FailCompile do not
// compile, and programs with a shader containing FailLink do not link.
type Recorder struct {
	Calls []Call

	// RefuseBuffers makes CreateBuffer return 0.
	RefuseBuffers bool
	// Attributes and Uniforms are the active inputs of every linked program.
	Attributes map[string]int32
	Uniforms   map[string]int32

	next     uint32
	sources  map[graphics.Shader]string
	attached map[graphics.Program][]graphics.Shader
	Linked   map[graphics.Program]bool
	Vertices map[graphics.Buffer][]float32
	Indices  map[graphics.Buffer][]uint16
	Deleted  map[uint32]bool
	Current  graphics.Program
}

const (
	FailCompile = "#error"
	FailLink    = "// unresolved"
)

func NewRecorder() *Recorder {
	return &Recorder{
		Attributes: map[string]int32{"position": 0, "color": 1},
		Uniforms:   map[string]int32{"mvpMatrix": 0},
		sources:    make(map[graphics.Shader]string),
		attached:   make(map[graphics.Program][]graphics.Shader),
		Linked:     make(map[graphics.Program]bool),
		Vertices:   make(map[graphics.Buffer][]float32),
		Indices:    make(map[graphics.Buffer][]uint16),
		Deleted:    make(map[uint32]bool),
	}
}

func (r *Recorder) record(c Call) { r.Calls = append(r.Calls, c) }

func (r *Recorder) handle() uint32 {
	r.next++
	return r.next
}

// Named returns the recorded calls with the given name.
func (r *Recorder) Named(name string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Draws returns every DrawArrays and DrawElements call.
func (r *Recorder) Draws() []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Name == "DrawArrays" || c.Name == "DrawElements" {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets the recorded calls but keeps object state.
func (r *Recorder) Reset() { r.Calls = nil }

func (r *Recorder) CreateShader(stage graphics.Stage) graphics.Shader {
	s := graphics.Shader(r.handle())
	r.record(Call{Name: "CreateShader", Handle: uint32(s)})
	return s
}

func (r *Recorder) CompileShader(s graphics.Shader, source string) (bool, string) {
	r.record(Call{Name: "CompileShader", Handle: uint32(s)})
	r.sources[s] = source
	if strings.Contains(source, FailCompile) {
		return false, "ERROR: 0:1: '#error' : syntax error"
	}
	return true, ""
}

func (r *Recorder) DeleteShader(s graphics.Shader) {
	r.record(Call{Name: "DeleteShader", Handle: uint32(s)})
	r.Deleted[uint32(s)] = true
}

func (r *Recorder) CreateProgram() graphics.Program {
	p := graphics.Program(r.handle())
	r.record(Call{Name: "CreateProgram", Handle: uint32(p)})
	return p
}

func (r *Recorder) AttachShader(p graphics.Program, s graphics.Shader) {
	r.record(Call{Name: "AttachShader", Handle: uint32(p)})
	r.attached[p] = append(r.attached[p], s)
}

func (r *Recorder) LinkProgram(p graphics.Program) (bool, string) {
	r.record(Call{Name: "LinkProgram", Handle: uint32(p)})
	for _, s := range r.attached[p] {
		if strings.Contains(r.sources[s], FailLink) {
			return false, "ERROR: Linking failed"
		}
	}
	r.Linked[p] = true
	return true, ""
}

func (r *Recorder) UseProgram(p graphics.Program) {
	r.record(Call{Name: "UseProgram", Handle: uint32(p)})
	r.Current = p
}

func (r *Recorder) DeleteProgram(p graphics.Program) {
	r.record(Call{Name: "DeleteProgram", Handle: uint32(p)})
	r.Deleted[uint32(p)] = true
}

func (r *Recorder) AttribLocation(p graphics.Program, name string) int32 {
	if loc, ok := r.Attributes[name]; ok && r.Linked[p] {
		return loc
	}
	return -1
}

func (r *Recorder) UniformLocation(p graphics.Program, name string) int32 {
	if loc, ok := r.Uniforms[name]; ok && r.Linked[p] {
		return loc
	}
	return -1
}

func (r *Recorder) CreateBuffer() graphics.Buffer {
	if r.RefuseBuffers {
		r.record(Call{Name: "CreateBuffer"})
		return 0
	}
	b := graphics.Buffer(r.handle())
	r.record(Call{Name: "CreateBuffer", Handle: uint32(b)})
	return b
}

func (r *Recorder) UploadVertices(b graphics.Buffer, data []float32) {
	r.record(Call{Name: "UploadVertices", Handle: uint32(b), Count: int32(len(data))})
	r.Vertices[b] = append([]float32{}, data...)
}

func (r *Recorder) UploadIndices(b graphics.Buffer, data []uint16) {
	r.record(Call{Name: "UploadIndices", Handle: uint32(b), Count: int32(len(data))})
	r.Indices[b] = append([]uint16{}, data...)
}

func (r *Recorder) BindAttribute(b graphics.Buffer, slot uint32, size int32) {
	r.record(Call{Name: "BindAttribute", Handle: uint32(b), Slot: slot, Size: size})
}

func (r *Recorder) AttributeDefault(slot uint32, v [4]float32) {
	r.record(Call{Name: "AttributeDefault", Slot: slot})
}

func (r *Recorder) BindIndices(b graphics.Buffer) {
	r.record(Call{Name: "BindIndices", Handle: uint32(b)})
}

func (r *Recorder) DeleteBuffer(b graphics.Buffer) {
	r.record(Call{Name: "DeleteBuffer", Handle: uint32(b)})
	r.Deleted[uint32(b)] = true
}

func (r *Recorder) UniformMatrix4(location int32, m [16]float32) {
	r.record(Call{Name: "UniformMatrix4", Slot: uint32(location), Matrix: m})
}

func (r *Recorder) Enable(c graphics.Capability) {
	r.record(Call{Name: "Enable", Slot: uint32(c)})
}

func (r *Recorder) Disable(c graphics.Capability) {
	r.record(Call{Name: "Disable", Slot: uint32(c)})
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record(Call{Name: "Viewport", First: width, Count: height})
}

func (r *Recorder) Clear(red, green, blue, alpha, depth float32) {
	r.record(Call{Name: "Clear"})
}

func (r *Recorder) DrawArrays(first, count int32) {
	r.record(Call{Name: "DrawArrays", Handle: uint32(r.Current), First: first, Count: count})
}

func (r *Recorder) DrawElements(count int32) {
	r.record(Call{Name: "DrawElements", Handle: uint32(r.Current), Count: count})
}

func (r *Recorder) Flush() { r.record(Call{Name: "Flush"}) }

// ManualScheduler holds requested callbacks until Fire runs them.
type ManualScheduler struct {
	next      renderer.FrameID
	pending   map[renderer.FrameID]func()
	order     []renderer.FrameID
	Requested int
	Cancelled int
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[renderer.FrameID]func())}
}

func (s *ManualScheduler) RequestFrame(fn func()) renderer.FrameID {
	s.next++
	s.pending[s.next] = fn
	s.order = append(s.order, s.next)
	s.Requested++
	return s.next
}

func (s *ManualScheduler) CancelFrame(id renderer.FrameID) {
	if _, ok := s.pending[id]; ok {
		delete(s.pending, id)
		s.Cancelled++
	}
}

// Len returns the number of callbacks waiting to fire.
func (s *ManualScheduler) Len() int { return len(s.pending) }

// Fire runs every callback pending at the time of the call, in request
// order, and returns how many ran.
func (s *ManualScheduler) Fire() int {
	order := s.order
	s.order = nil
	ran := 0
	for _, id := range order {
		fn, ok := s.pending[id]
		if !ok {
			continue
		}
		delete(s.pending, id)
		fn()
		ran++
	}
	return ran
}
