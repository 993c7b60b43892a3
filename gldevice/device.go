//go:build !js

package gldevice

import (
	"fmt"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/gltriangles/graphics"
)

var glInitOnce sync.Once

// Device implements graphics.Device on top of desktop OpenGL 4.1 core.
// The context must be current on the calling thread for every call.
type Device struct {
	vao uint32
}

// New loads the OpenGL function pointers for the current context and binds
// the single vertex array object the core profile requires.
func New() (*Device, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	d := &Device{}
	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	return d, nil
}

// Version returns the GL_VERSION string of the current context.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Destroy releases the vertex array object.
func (d *Device) Destroy() {
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &d.vao)
}

func (d *Device) CreateShader(stage graphics.Stage) graphics.Shader {
	var t uint32 = gl.VERTEX_SHADER
	if stage == graphics.FragmentStage {
		t = gl.FRAGMENT_SHADER
	}
	return graphics.Shader(gl.CreateShader(t))
}

func (d *Device) CompileShader(s graphics.Shader, source string) (bool, string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(uint32(s), 1, csources, nil)
	free()
	gl.CompileShader(uint32(s))

	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(uint32(s), logLength, nil, gl.Str(logText))
		return false, strings.TrimRight(logText, "\x00")
	}
	return true, ""
}

func (d *Device) DeleteShader(s graphics.Shader) { gl.DeleteShader(uint32(s)) }

func (d *Device) CreateProgram() graphics.Program {
	return graphics.Program(gl.CreateProgram())
}

func (d *Device) AttachShader(p graphics.Program, s graphics.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (d *Device) LinkProgram(p graphics.Program) (bool, string) {
	gl.LinkProgram(uint32(p))

	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(uint32(p), logLength, nil, gl.Str(log))
		return false, strings.TrimRight(log, "\x00")
	}
	return true, ""
}

func (d *Device) UseProgram(p graphics.Program)    { gl.UseProgram(uint32(p)) }
func (d *Device) DeleteProgram(p graphics.Program) { gl.DeleteProgram(uint32(p)) }

func (d *Device) AttribLocation(p graphics.Program, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) UniformLocation(p graphics.Program, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) CreateBuffer() graphics.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return graphics.Buffer(b)
}

func (d *Device) UploadVertices(b graphics.Buffer, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (d *Device) UploadIndices(b graphics.Buffer, data []uint16) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(b))
	if len(data) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
}

func (d *Device) BindAttribute(b graphics.Buffer, slot uint32, size int32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	gl.EnableVertexAttribArray(slot)
	gl.VertexAttribPointer(slot, size, gl.FLOAT, false, 0, gl.PtrOffset(0))
}

func (d *Device) AttributeDefault(slot uint32, v [4]float32) {
	gl.DisableVertexAttribArray(slot)
	gl.VertexAttrib4f(slot, v[0], v[1], v[2], v[3])
}

func (d *Device) BindIndices(b graphics.Buffer) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(b))
}

func (d *Device) DeleteBuffer(b graphics.Buffer) {
	n := uint32(b)
	gl.DeleteBuffers(1, &n)
}

func (d *Device) UniformMatrix4(location int32, m [16]float32) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

var capabilities = map[graphics.Capability]uint32{
	graphics.CullFace:  gl.CULL_FACE,
	graphics.DepthTest: gl.DEPTH_TEST,
}

func (d *Device) Enable(c graphics.Capability) {
	if v, ok := capabilities[c]; ok {
		gl.Enable(v)
	}
}

func (d *Device) Disable(c graphics.Capability) {
	if v, ok := capabilities[c]; ok {
		gl.Disable(v)
	}
}

func (d *Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (d *Device) Clear(r, g, b, a, depth float32) {
	gl.ClearColor(r, g, b, a)
	gl.ClearDepth(float64(depth))
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) DrawArrays(first, count int32) { gl.DrawArrays(gl.TRIANGLES, first, count) }

func (d *Device) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_SHORT, gl.PtrOffset(0))
}

func (d *Device) Flush() { gl.Flush() }
