package renderer

import (
	"errors"
	"fmt"

	"github.com/richinsley/gltriangles/graphics"
)

// ErrAttributeLength is returned when attribute data does not hold a whole
// number of vertices for its stride.
var ErrAttributeLength = errors.New("attribute data length is not a multiple of its stride")

// BufferAllocationError reports that the context refused to create a buffer
// object, which means the context is lost or out of resources.
type BufferAllocationError struct {
	Kind string
}

func (e *BufferAllocationError) Error() string {
	return fmt.Sprintf("failed to create %s buffer", e.Kind)
}

// VertexBuffer is an immutable float attribute array bound to one slot.
type VertexBuffer struct {
	Handle graphics.Buffer
	Slot   uint32
	Stride int32
	count  int
}

// NewVertexBuffer uploads data as a static buffer for slot, stride floats
// per vertex.
func NewVertexBuffer(dev graphics.Device, data []float32, slot uint32, stride int32) (*VertexBuffer, error) {
	if stride <= 0 {
		return nil, fmt.Errorf("invalid stride %d for slot %d", stride, slot)
	}
	if len(data)%int(stride) != 0 {
		return nil, fmt.Errorf("slot %d: %d values with stride %d: %w", slot, len(data), stride, ErrAttributeLength)
	}
	b := dev.CreateBuffer()
	if b == 0 {
		return nil, &BufferAllocationError{Kind: "vertex"}
	}
	dev.UploadVertices(b, data)
	graphics.Logger().Debug("vertex buffer uploaded", "buffer", uint32(b), "slot", slot, "stride", stride, "values", len(data))
	return &VertexBuffer{
		Handle: b,
		Slot:   slot,
		Stride: stride,
		count:  len(data) / int(stride),
	}, nil
}

// Vertices returns the number of vertices held by the buffer.
func (b *VertexBuffer) Vertices() int { return b.count }

// IndexBuffer is an immutable array of unsigned short element indices.
type IndexBuffer struct {
	Handle graphics.Buffer
	count  int
}

func NewIndexBuffer(dev graphics.Device, indices []uint16) (*IndexBuffer, error) {
	b := dev.CreateBuffer()
	if b == 0 {
		return nil, &BufferAllocationError{Kind: "index"}
	}
	dev.UploadIndices(b, indices)
	graphics.Logger().Debug("index buffer uploaded", "buffer", uint32(b), "indices", len(indices))
	return &IndexBuffer{Handle: b, count: len(indices)}, nil
}

// Len returns the number of indices.
func (b *IndexBuffer) Len() int { return b.count }

// Bind binds each buffer to its slot in declaration order.
func Bind(dev graphics.Device, buffers ...*VertexBuffer) {
	for _, b := range buffers {
		dev.BindAttribute(b.Handle, b.Slot, b.Stride)
	}
}
