package renderer

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera places the viewer. View is a right-handed look-at transform.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
}

func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

// Perspective describes a symmetric frustum. FovY is in radians.
type Perspective struct {
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

func (p Perspective) Matrix() mgl32.Mat4 {
	return mgl32.Perspective(p.FovY, p.Aspect, p.Near, p.Far)
}

// StepKind names one transform in a Model.
type StepKind int

const (
	// Translate moves by Vec.
	Translate StepKind = iota
	// Scale scales by Vec.
	Scale
	// RotateY rotates about the Y axis by the frame angle.
	RotateY
	// Orbit moves by Vec plus (cos θ, sin θ, 0) for frame angle θ.
	Orbit
	// Pulse scales x and y by sin θ + 1 and z by Vec.Z.
	Pulse
)

var stepNames = map[StepKind]string{
	Translate: "translate",
	Scale:     "scale",
	RotateY:   "rotateY",
	Orbit:     "orbit",
	Pulse:     "pulse",
}

func (k StepKind) String() string {
	if s, ok := stepNames[k]; ok {
		return s
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// ParseStepKind maps a step name back to its kind.
func ParseStepKind(s string) (StepKind, error) {
	for k, name := range stepNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown transform step %q", s)
}

// Step is one transform of a model matrix.
type Step struct {
	Kind StepKind
	Vec  mgl32.Vec3
}

// Animated reports whether the step depends on the frame angle.
func (s Step) Animated() bool {
	switch s.Kind {
	case RotateY, Orbit, Pulse:
		return true
	}
	return false
}

// Matrix returns the step's transform at frame angle rad.
func (s Step) Matrix(rad float32) mgl32.Mat4 {
	switch s.Kind {
	case Translate:
		return mgl32.Translate3D(s.Vec.X(), s.Vec.Y(), s.Vec.Z())
	case Scale:
		return mgl32.Scale3D(s.Vec.X(), s.Vec.Y(), s.Vec.Z())
	case RotateY:
		return mgl32.HomogRotate3DY(rad)
	case Orbit:
		x := float32(math.Cos(float64(rad)))
		y := float32(math.Sin(float64(rad)))
		return mgl32.Translate3D(s.Vec.X()+x, s.Vec.Y()+y, s.Vec.Z())
	case Pulse:
		k := float32(math.Sin(float64(rad))) + 1
		return mgl32.Scale3D(k, k, s.Vec.Z())
	}
	return mgl32.Ident4()
}

// Model is a sequence of steps composed left to right, so the last step is
// applied to vertices first. An empty Model is the identity.
type Model []Step

func (m Model) Matrix(rad float32) mgl32.Mat4 {
	out := mgl32.Ident4()
	for _, s := range m {
		out = out.Mul4(s.Matrix(rad))
	}
	return out
}

func (m Model) Animated() bool {
	for _, s := range m {
		if s.Animated() {
			return true
		}
	}
	return false
}

// Composer holds the view and projection of a session. Both are computed
// once and reused for every draw.
type Composer struct {
	view       mgl32.Mat4
	projection mgl32.Mat4
}

func NewComposer(c Camera, p Perspective) *Composer {
	return &Composer{view: c.View(), projection: p.Matrix()}
}

func (c *Composer) View() mgl32.Mat4       { return c.view }
func (c *Composer) Projection() mgl32.Mat4 { return c.projection }

// MVP returns projection × view × model.
func (c *Composer) MVP(model mgl32.Mat4) mgl32.Mat4 {
	return c.projection.Mul4(c.view).Mul4(model)
}
