package shader

import (
	"fmt"

	"github.com/richinsley/gltriangles/graphics"
)

// ShaderCompileError reports a stage that did not compile (or could not be
// translated for the target dialect). Log holds the compiler diagnostics.
type ShaderCompileError struct {
	Stage graphics.Stage
	Log   string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// ProgramLinkError reports a program that did not link or that lacks a
// required input. Log holds the linker diagnostics.
type ProgramLinkError struct {
	Log string
}

func (e *ProgramLinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

// Translation is the output of a Translator: source in the device's dialect
// and the names the translator assigned to the original variables.
type Translation struct {
	Code  string
	Names map[string]string
}

// Translator rewrites GLSL ES 3.00 source for a device that does not accept
// it directly.
type Translator interface {
	Translate(source string, stage graphics.Stage) (*Translation, error)
}

// Program is a linked, activated shader program with its resolved inputs.
type Program struct {
	Handle graphics.Program
	// Position is the attribute slot for the vec3 position input.
	Position uint32
	// Color is the attribute slot for the vec4 color input, or -1.
	Color int32
	// MVP is the uniform location of the mvpMatrix input.
	MVP int32
}

// HasColor reports whether the program consumes per-vertex colors.
func (p *Program) HasColor() bool { return p.Color >= 0 }

// Delete releases the program object.
func (p *Program) Delete(dev graphics.Device) {
	if p.Handle != 0 {
		dev.DeleteProgram(p.Handle)
		p.Handle = 0
	}
}

// Compiler builds Programs on a Device, optionally translating sources first.
type Compiler struct {
	Device     graphics.Device
	Translator Translator
}

// Compile compiles and links a program on dev from untranslated sources.
func Compile(dev graphics.Device, vertexSource, fragmentSource string) (*Program, error) {
	c := &Compiler{Device: dev}
	return c.Compile(vertexSource, fragmentSource)
}

// Compile compiles both stages, links them and makes the program current.
// No program handle survives a failure.
func (c *Compiler) Compile(vertexSource, fragmentSource string) (*Program, error) {
	names := make(map[string]string)

	vs, err := c.compileStage(graphics.VertexStage, vertexSource, names)
	if err != nil {
		return nil, err
	}
	defer c.Device.DeleteShader(vs)

	fs, err := c.compileStage(graphics.FragmentStage, fragmentSource, names)
	if err != nil {
		return nil, err
	}
	defer c.Device.DeleteShader(fs)

	handle := c.Device.CreateProgram()
	if handle == 0 {
		return nil, &ProgramLinkError{Log: "program object could not be created"}
	}
	c.Device.AttachShader(handle, vs)
	c.Device.AttachShader(handle, fs)
	if ok, log := c.Device.LinkProgram(handle); !ok {
		c.Device.DeleteProgram(handle)
		return nil, &ProgramLinkError{Log: log}
	}

	prog := &Program{Handle: handle}
	position := c.Device.AttribLocation(handle, mapped(names, AttribPosition))
	if position < 0 {
		c.Device.DeleteProgram(handle)
		return nil, &ProgramLinkError{Log: fmt.Sprintf("active attribute %q not found", AttribPosition)}
	}
	prog.Position = uint32(position)
	prog.Color = c.Device.AttribLocation(handle, mapped(names, AttribColor))
	prog.MVP = c.Device.UniformLocation(handle, mapped(names, UniformMVP))
	if prog.MVP < 0 {
		c.Device.DeleteProgram(handle)
		return nil, &ProgramLinkError{Log: fmt.Sprintf("active uniform %q not found", UniformMVP)}
	}

	c.Device.UseProgram(handle)
	graphics.Logger().Info("shader program linked",
		"program", uint32(handle), "position", prog.Position, "color", prog.Color, "mvp", prog.MVP)
	return prog, nil
}

func (c *Compiler) compileStage(stage graphics.Stage, source string, names map[string]string) (graphics.Shader, error) {
	if c.Translator != nil {
		t, err := c.Translator.Translate(source, stage)
		if err != nil {
			return 0, &ShaderCompileError{Stage: stage, Log: err.Error()}
		}
		source = t.Code
		for k, v := range t.Names {
			names[k] = v
		}
	}

	s := c.Device.CreateShader(stage)
	if s == 0 {
		return 0, &ShaderCompileError{Stage: stage, Log: "shader object could not be created"}
	}
	if ok, log := c.Device.CompileShader(s, source); !ok {
		c.Device.DeleteShader(s)
		return 0, &ShaderCompileError{Stage: stage, Log: log}
	}
	return s, nil
}

func mapped(names map[string]string, name string) string {
	if m, ok := names[name]; ok && m != "" {
		return m
	}
	return name
}
