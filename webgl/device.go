//go:build js && wasm

package webgl

import (
	"errors"
	"syscall/js"

	"github.com/richinsley/gltriangles/graphics"
)

type glConsts struct {
	arrayBuffer        int
	elementArrayBuffer int
	staticDraw         int
	floatType          int
	unsignedShort      int
	triangles          int
	colorBufferBit     int
	depthBufferBit     int
	cullFace           int
	depthTest          int
	compileStatus      int
	linkStatus         int
	vertexShader       int
	fragmentShader     int
}

// Device implements graphics.Device on a WebGL2 rendering context. Objects
// are kept in a table and handed out as small integer handles.
type Device struct {
	gl      js.Value
	consts  glConsts
	objects map[uint32]js.Value
	next    uint32
}

// FromCanvas requests a "webgl2" context from canvas.
func FromCanvas(canvas js.Value) (*Device, error) {
	if canvas.IsUndefined() || canvas.IsNull() {
		return nil, errors.New("canvas is required")
	}
	gl := canvas.Call("getContext", "webgl2")
	if gl.IsUndefined() || gl.IsNull() {
		return nil, errors.New("webgl2 context is not available")
	}
	return New(gl), nil
}

func New(gl js.Value) *Device {
	d := &Device{gl: gl, objects: make(map[uint32]js.Value)}
	d.consts = glConsts{
		arrayBuffer:        gl.Get("ARRAY_BUFFER").Int(),
		elementArrayBuffer: gl.Get("ELEMENT_ARRAY_BUFFER").Int(),
		staticDraw:         gl.Get("STATIC_DRAW").Int(),
		floatType:          gl.Get("FLOAT").Int(),
		unsignedShort:      gl.Get("UNSIGNED_SHORT").Int(),
		triangles:          gl.Get("TRIANGLES").Int(),
		colorBufferBit:     gl.Get("COLOR_BUFFER_BIT").Int(),
		depthBufferBit:     gl.Get("DEPTH_BUFFER_BIT").Int(),
		cullFace:           gl.Get("CULL_FACE").Int(),
		depthTest:          gl.Get("DEPTH_TEST").Int(),
		compileStatus:      gl.Get("COMPILE_STATUS").Int(),
		linkStatus:         gl.Get("LINK_STATUS").Int(),
		vertexShader:       gl.Get("VERTEX_SHADER").Int(),
		fragmentShader:     gl.Get("FRAGMENT_SHADER").Int(),
	}
	return d
}

func (d *Device) put(v js.Value) uint32 {
	if !v.Truthy() {
		return 0
	}
	d.next++
	d.objects[d.next] = v
	return d.next
}

func (d *Device) get(h uint32) js.Value {
	if v, ok := d.objects[h]; ok {
		return v
	}
	return js.Null()
}

func (d *Device) drop(h uint32) js.Value {
	v := d.get(h)
	delete(d.objects, h)
	return v
}

func (d *Device) CreateShader(stage graphics.Stage) graphics.Shader {
	t := d.consts.vertexShader
	if stage == graphics.FragmentStage {
		t = d.consts.fragmentShader
	}
	return graphics.Shader(d.put(d.gl.Call("createShader", t)))
}

func (d *Device) CompileShader(s graphics.Shader, source string) (bool, string) {
	sh := d.get(uint32(s))
	d.gl.Call("shaderSource", sh, source)
	d.gl.Call("compileShader", sh)
	if !d.gl.Call("getShaderParameter", sh, d.consts.compileStatus).Bool() {
		return false, d.gl.Call("getShaderInfoLog", sh).String()
	}
	return true, ""
}

func (d *Device) DeleteShader(s graphics.Shader) {
	d.gl.Call("deleteShader", d.drop(uint32(s)))
}

func (d *Device) CreateProgram() graphics.Program {
	return graphics.Program(d.put(d.gl.Call("createProgram")))
}

func (d *Device) AttachShader(p graphics.Program, s graphics.Shader) {
	d.gl.Call("attachShader", d.get(uint32(p)), d.get(uint32(s)))
}

func (d *Device) LinkProgram(p graphics.Program) (bool, string) {
	prog := d.get(uint32(p))
	d.gl.Call("linkProgram", prog)
	if !d.gl.Call("getProgramParameter", prog, d.consts.linkStatus).Bool() {
		return false, d.gl.Call("getProgramInfoLog", prog).String()
	}
	return true, ""
}

func (d *Device) UseProgram(p graphics.Program) {
	d.gl.Call("useProgram", d.get(uint32(p)))
}

func (d *Device) DeleteProgram(p graphics.Program) {
	d.gl.Call("deleteProgram", d.drop(uint32(p)))
}

func (d *Device) AttribLocation(p graphics.Program, name string) int32 {
	return int32(d.gl.Call("getAttribLocation", d.get(uint32(p)), name).Int())
}

// UniformLocation stores the WebGLUniformLocation in the handle table and
// returns its handle, since WebGL locations are objects rather than integers.
func (d *Device) UniformLocation(p graphics.Program, name string) int32 {
	loc := d.gl.Call("getUniformLocation", d.get(uint32(p)), name)
	if loc.IsNull() || loc.IsUndefined() {
		return -1
	}
	return int32(d.put(loc))
}

func (d *Device) CreateBuffer() graphics.Buffer {
	return graphics.Buffer(d.put(d.gl.Call("createBuffer")))
}

func (d *Device) UploadVertices(b graphics.Buffer, data []float32) {
	arr := js.Global().Get("Float32Array").New(len(data))
	for i, v := range data {
		arr.SetIndex(i, v)
	}
	d.gl.Call("bindBuffer", d.consts.arrayBuffer, d.get(uint32(b)))
	d.gl.Call("bufferData", d.consts.arrayBuffer, arr, d.consts.staticDraw)
	d.gl.Call("bindBuffer", d.consts.arrayBuffer, js.Null())
}

func (d *Device) UploadIndices(b graphics.Buffer, data []uint16) {
	arr := js.Global().Get("Uint16Array").New(len(data))
	for i, v := range data {
		arr.SetIndex(i, v)
	}
	d.gl.Call("bindBuffer", d.consts.elementArrayBuffer, d.get(uint32(b)))
	d.gl.Call("bufferData", d.consts.elementArrayBuffer, arr, d.consts.staticDraw)
	d.gl.Call("bindBuffer", d.consts.elementArrayBuffer, js.Null())
}

func (d *Device) BindAttribute(b graphics.Buffer, slot uint32, size int32) {
	d.gl.Call("bindBuffer", d.consts.arrayBuffer, d.get(uint32(b)))
	d.gl.Call("enableVertexAttribArray", slot)
	d.gl.Call("vertexAttribPointer", slot, size, d.consts.floatType, false, 0, 0)
}

func (d *Device) AttributeDefault(slot uint32, v [4]float32) {
	d.gl.Call("disableVertexAttribArray", slot)
	d.gl.Call("vertexAttrib4f", slot, v[0], v[1], v[2], v[3])
}

func (d *Device) BindIndices(b graphics.Buffer) {
	d.gl.Call("bindBuffer", d.consts.elementArrayBuffer, d.get(uint32(b)))
}

func (d *Device) DeleteBuffer(b graphics.Buffer) {
	d.gl.Call("deleteBuffer", d.drop(uint32(b)))
}

func (d *Device) UniformMatrix4(location int32, m [16]float32) {
	if location < 0 {
		return
	}
	arr := js.Global().Get("Float32Array").New(16)
	for i, v := range m {
		arr.SetIndex(i, v)
	}
	d.gl.Call("uniformMatrix4fv", d.get(uint32(location)), false, arr)
}

func (d *Device) capability(c graphics.Capability) (int, bool) {
	switch c {
	case graphics.CullFace:
		return d.consts.cullFace, true
	case graphics.DepthTest:
		return d.consts.depthTest, true
	}
	return 0, false
}

func (d *Device) Enable(c graphics.Capability) {
	if v, ok := d.capability(c); ok {
		d.gl.Call("enable", v)
	}
}

func (d *Device) Disable(c graphics.Capability) {
	if v, ok := d.capability(c); ok {
		d.gl.Call("disable", v)
	}
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.gl.Call("viewport", x, y, width, height)
}

func (d *Device) Clear(r, g, b, a, depth float32) {
	d.gl.Call("clearColor", r, g, b, a)
	d.gl.Call("clearDepth", depth)
	d.gl.Call("clear", d.consts.colorBufferBit|d.consts.depthBufferBit)
}

func (d *Device) DrawArrays(first, count int32) {
	d.gl.Call("drawArrays", d.consts.triangles, first, count)
}

func (d *Device) DrawElements(count int32) {
	d.gl.Call("drawElements", d.consts.triangles, count, d.consts.unsignedShort, 0)
}

func (d *Device) Flush() { d.gl.Call("flush") }
