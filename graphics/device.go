package graphics

// Handles are opaque object names issued by a Device. Zero is never a valid
// handle and is returned when the underlying context refuses to create the
// object.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
)

// Stage selects the pipeline stage a shader is compiled for.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return "unknown"
}

// Capability is a server-side toggle passed to Enable and Disable.
type Capability int

const (
	CullFace Capability = iota
	DepthTest
)

// Device is the subset of the OpenGL / WebGL2 API the renderer drives.
//
// Every call that depends on a bound object takes that object explicitly, so
// implementations are free to bind whatever they need before issuing the
// underlying command.
type Device interface {
	CreateShader(stage Stage) Shader
	// CompileShader uploads source to s and compiles it. It reports whether
	// compilation succeeded together with the compiler's info log.
	CompileShader(s Shader, source string) (bool, string)
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	// LinkProgram reports whether linking succeeded together with the info log.
	LinkProgram(p Program) (bool, string)
	UseProgram(p Program)
	DeleteProgram(p Program)
	// AttribLocation returns -1 when the program has no active attribute name.
	AttribLocation(p Program, name string) int32
	// UniformLocation returns -1 when the program has no active uniform name.
	UniformLocation(p Program, name string) int32

	CreateBuffer() Buffer
	// UploadVertices stores data in b as a static ARRAY_BUFFER.
	UploadVertices(b Buffer, data []float32)
	// UploadIndices stores data in b as a static ELEMENT_ARRAY_BUFFER.
	UploadIndices(b Buffer, data []uint16)
	// BindAttribute binds b, enables slot and describes size float components
	// per vertex, tightly packed.
	BindAttribute(b Buffer, slot uint32, size int32)
	// AttributeDefault sets the generic value read from slot when no array is
	// enabled for it.
	AttributeDefault(slot uint32, v [4]float32)
	BindIndices(b Buffer)
	DeleteBuffer(b Buffer)

	UniformMatrix4(location int32, m [16]float32)

	Enable(c Capability)
	Disable(c Capability)
	Viewport(x, y, width, height int32)
	Clear(r, g, b, a, depth float32)
	DrawArrays(first, count int32)
	// DrawElements draws count unsigned short indices from the bound index
	// buffer starting at offset zero.
	DrawElements(count int32)
	Flush()
}
