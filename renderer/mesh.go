package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/gltriangles/graphics"
	"github.com/richinsley/gltriangles/shader"
)

const (
	PositionStride = 3
	ColorStride    = 4
)

// defaultColor is fed to the color slot of meshes that carry no colors.
var defaultColor = [4]float32{1, 1, 1, 1}

// Mesh is vertex data in host memory: xyz positions, optional rgba colors
// and optional triangle indices.
type Mesh struct {
	Positions []float32
	Colors    []float32
	Indices   []uint16
}

// GPUMesh is a Mesh uploaded for one program.
type GPUMesh struct {
	Attributes []*VertexBuffer
	Indices    *IndexBuffer
	Vertices   int
	// colorSlot is set when the program reads colors the mesh does not have.
	colorSlot int32
}

// UploadMesh creates the buffers for m using the slots resolved in prog.
func UploadMesh(dev graphics.Device, prog *shader.Program, m Mesh) (*GPUMesh, error) {
	g := &GPUMesh{colorSlot: -1}

	pos, err := NewVertexBuffer(dev, m.Positions, prog.Position, PositionStride)
	if err != nil {
		return nil, fmt.Errorf("failed to upload positions: %w", err)
	}
	g.Attributes = append(g.Attributes, pos)
	g.Vertices = pos.Vertices()

	switch {
	case len(m.Colors) > 0 && prog.HasColor():
		if len(m.Colors) != g.Vertices*ColorStride {
			g.Delete(dev)
			return nil, fmt.Errorf("%d color values for %d vertices: %w", len(m.Colors), g.Vertices, ErrAttributeLength)
		}
		col, err := NewVertexBuffer(dev, m.Colors, uint32(prog.Color), ColorStride)
		if err != nil {
			g.Delete(dev)
			return nil, fmt.Errorf("failed to upload colors: %w", err)
		}
		g.Attributes = append(g.Attributes, col)
	case len(m.Colors) > 0:
		graphics.Logger().Warn("program has no color attribute; mesh colors ignored")
	case prog.HasColor():
		g.colorSlot = prog.Color
	}

	if len(m.Indices) > 0 {
		ibo, err := NewIndexBuffer(dev, m.Indices)
		if err != nil {
			g.Delete(dev)
			return nil, err
		}
		g.Indices = ibo
	}
	return g, nil
}

// Delete releases every buffer of the mesh.
func (g *GPUMesh) Delete(dev graphics.Device) {
	for _, b := range g.Attributes {
		dev.DeleteBuffer(b.Handle)
	}
	g.Attributes = nil
	if g.Indices != nil {
		dev.DeleteBuffer(g.Indices.Handle)
		g.Indices = nil
	}
}

// Draw issues one draw call of mesh with prog and the given transform. All
// bindings the call depends on are made here.
func Draw(dev graphics.Device, prog *shader.Program, mesh *GPUMesh, mvp mgl32.Mat4) {
	dev.UseProgram(prog.Handle)
	Bind(dev, mesh.Attributes...)
	if mesh.colorSlot >= 0 {
		dev.AttributeDefault(uint32(mesh.colorSlot), defaultColor)
	}
	dev.UniformMatrix4(prog.MVP, [16]float32(mvp))
	if mesh.Indices != nil {
		dev.BindIndices(mesh.Indices.Handle)
		dev.DrawElements(int32(mesh.Indices.Len()))
		return
	}
	dev.DrawArrays(0, int32(mesh.Vertices))
}
