package renderer

import (
	"fmt"

	"github.com/richinsley/gltriangles/graphics"
	"github.com/richinsley/gltriangles/shader"
)

// Scene is everything a session needs to draw: one mesh drawn once per
// primitive, each with its own model transform.
type Scene struct {
	Name       string
	Camera     Camera
	Projection Perspective
	Mesh       Mesh
	Primitives []Model
	ClearColor [4]float32
	CullFace   bool
	DepthTest  bool
}

// Animated reports whether any primitive depends on the frame counter.
func (s *Scene) Animated() bool {
	for _, m := range s.Primitives {
		if m.Animated() {
			return true
		}
	}
	return false
}

// Options tunes session setup. Zero values select the embedded shaders and
// no translation.
type Options struct {
	Width, Height  int
	VertexSource   string
	FragmentSource string
	Translator     shader.Translator
}

// Renderer is one rendering session bound to a device and a scene.
type Renderer struct {
	dev      graphics.Device
	scene    *Scene
	program  *shader.Program
	mesh     *GPUMesh
	composer *Composer
	driver   *FrameDriver
}

// NewRenderer performs the one-time setup: capabilities, program, buffers,
// view and projection. Any failure aborts setup and is returned as is.
func NewRenderer(dev graphics.Device, sched Scheduler, scene *Scene, opts Options) (*Renderer, error) {
	if len(scene.Primitives) == 0 {
		return nil, fmt.Errorf("scene %q has no primitives", scene.Name)
	}
	vs, fs := opts.VertexSource, opts.FragmentSource
	if vs == "" {
		vs = shader.GetVertexShader()
	}
	if fs == "" {
		fs = shader.GetFragmentShader()
	}

	if opts.Width > 0 && opts.Height > 0 {
		dev.Viewport(0, 0, int32(opts.Width), int32(opts.Height))
	}
	// The context may have hosted another scene before this one.
	setCapability(dev, graphics.CullFace, scene.CullFace)
	setCapability(dev, graphics.DepthTest, scene.DepthTest)

	compiler := &shader.Compiler{Device: dev, Translator: opts.Translator}
	prog, err := compiler.Compile(vs, fs)
	if err != nil {
		return nil, err
	}

	mesh, err := UploadMesh(dev, prog, scene.Mesh)
	if err != nil {
		prog.Delete(dev)
		return nil, err
	}

	r := &Renderer{
		dev:      dev,
		scene:    scene,
		program:  prog,
		mesh:     mesh,
		composer: NewComposer(scene.Camera, scene.Projection),
	}
	r.driver = NewFrameDriver(sched, r, scene.Animated())
	graphics.Logger().Info("renderer ready", "scene", scene.Name, "vertices", mesh.Vertices,
		"primitives", len(scene.Primitives), "animated", scene.Animated())
	return r, nil
}

func setCapability(dev graphics.Device, c graphics.Capability, on bool) {
	if on {
		dev.Enable(c)
	} else {
		dev.Disable(c)
	}
}

func (r *Renderer) Scene() *Scene            { return r.scene }
func (r *Renderer) Program() *shader.Program { return r.program }
func (r *Renderer) Mesh() *GPUMesh           { return r.mesh }
func (r *Renderer) Composer() *Composer      { return r.composer }
func (r *Renderer) Driver() *FrameDriver     { return r.driver }

// Mount renders the first frame and, for animated scenes, starts the redraw
// chain.
func (r *Renderer) Mount() {
	graphics.Logger().Info("mount", "scene", r.scene.Name)
	r.driver.Start()
}

// Unmount cancels the pending redraw so nothing draws to a detached surface.
func (r *Renderer) Unmount() {
	r.driver.Stop()
	graphics.Logger().Info("unmount", "scene", r.scene.Name, "frames", r.driver.Animation().Counter)
}

// Paint clears the surface and draws every primitive for anim.
func (r *Renderer) Paint(anim AnimationState) {
	c := r.scene.ClearColor
	r.dev.Clear(c[0], c[1], c[2], c[3], 1)
	rad := anim.Radians()
	for _, model := range r.scene.Primitives {
		Draw(r.dev, r.program, r.mesh, r.composer.MVP(model.Matrix(rad)))
	}
	r.dev.Flush()
}

// Shutdown unmounts and releases the program and buffers.
func (r *Renderer) Shutdown() {
	r.Unmount()
	r.mesh.Delete(r.dev)
	r.program.Delete(r.dev)
}
