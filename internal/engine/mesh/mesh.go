package mesh

import (
	"errors"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/virtual-vista/internal/engine/gpu"
	"github.com/Faultbox/virtual-vista/internal/logger"
)

// ErrNoVertices is returned when a mesh is built from an empty vertex list.
var ErrNoVertices = errors.New("mesh: no vertices")

// UniformTarget receives matrices for named uniform slots.
type UniformTarget interface {
	SetMat4(name string, m mgl32.Mat4)
}

// Mesh is one drawable geometry instance. It exclusively owns its vertex
// array, vertex buffer and, when indexed, its element buffer.
type Mesh struct {
	dev gpu.Device

	vao uint32
	vbo uint32
	ebo uint32

	vertexCount int32
	indexCount  int32
	indexed     bool

	model mgl32.Mat4
}

// New uploads vertices and returns a mesh drawn with DrawArrays.
func New(dev gpu.Device, vertices []Vertex) (*Mesh, error) {
	return build(dev, vertices, nil, false)
}

// NewIndexed uploads vertices and indices and returns a mesh drawn with DrawElements.
// Indices are not validated against the vertex count.
func NewIndexed(dev gpu.Device, vertices []Vertex, indices []uint32) (*Mesh, error) {
	return build(dev, vertices, indices, true)
}

func build(dev gpu.Device, vertices []Vertex, indices []uint32, indexed bool) (*Mesh, error) {
	if dev == nil {
		return nil, gpu.ErrNoDevice
	}
	if len(vertices) == 0 {
		return nil, ErrNoVertices
	}

	m := &Mesh{
		dev:         dev,
		vertexCount: int32(len(vertices)),
		indexCount:  int32(len(indices)),
		indexed:     indexed,
		model:       mgl32.Ident4(),
	}

	// From here on, all layout state is recorded in this VAO.
	m.vao = dev.GenVertexArray()
	dev.BindVertexArray(m.vao)

	m.vbo = dev.GenBuffer()
	dev.BindBuffer(gpu.ArrayBuffer, m.vbo)
	dev.BufferData(gpu.ArrayBuffer, len(vertices)*VertexSize, unsafe.Pointer(&vertices[0]))

	if indexed {
		m.ebo = dev.GenBuffer()
		dev.BindBuffer(gpu.ElementArrayBuffer, m.ebo)
		if len(indices) > 0 {
			dev.BufferData(gpu.ElementArrayBuffer, len(indices)*4, unsafe.Pointer(&indices[0]))
		}
	}

	stride := int32(VertexSize)
	dev.VertexAttrib(gpu.Attrib{Index: AttribPosition, Size: 3, Stride: stride, Offset: 0})
	dev.VertexAttrib(gpu.Attrib{Index: AttribNormal, Size: 3, Stride: stride, Offset: 3 * 4})
	dev.VertexAttrib(gpu.Attrib{Index: AttribTexCoord, Size: 2, Stride: stride, Offset: 6 * 4})

	// The element buffer binding stays with the VAO; only the array buffer is reset.
	dev.BindBuffer(gpu.ArrayBuffer, 0)
	dev.BindVertexArray(0)

	logger.Named("mesh").Debug("mesh uploaded",
		zap.Uint32("vao", m.vao),
		zap.Uint32("vbo", m.vbo),
		zap.Uint32("ebo", m.ebo),
		zap.Int32("vertices", m.vertexCount),
		zap.Int32("indices", m.indexCount),
	)
	return m, nil
}

// Translate accumulates a translation into the model matrix.
func (m *Mesh) Translate(v mgl32.Vec3) {
	m.model = m.model.Mul4(mgl32.Translate3D(v[0], v[1], v[2]))
}

// Rotate accumulates a rotation of angle radians about axis into the model
// matrix. The axis is normalized; a zero axis leaves the matrix unchanged.
func (m *Mesh) Rotate(angle float32, axis mgl32.Vec3) {
	if axis.Len() == 0 {
		return
	}
	m.model = m.model.Mul4(mgl32.HomogRotate3D(angle, axis.Normalize()))
}

// Model returns the accumulated local-to-world transform.
func (m *Mesh) Model() mgl32.Mat4 {
	return m.model
}

// BindUniforms pushes the model matrix to the "model" uniform of the active program.
func (m *Mesh) BindUniforms(target UniformTarget) {
	target.SetMat4("model", m.model)
}

// Render issues one draw call covering the whole mesh. It does nothing
// after Close.
func (m *Mesh) Render() {
	if m.vao == 0 {
		return
	}

	m.dev.BindVertexArray(m.vao)
	if m.indexed {
		m.dev.DrawElements(m.indexCount)
	} else {
		m.dev.DrawArrays(0, m.vertexCount)
	}
	m.dev.BindVertexArray(0)
}

// VertexCount returns the number of uploaded vertices.
func (m *Mesh) VertexCount() int { return int(m.vertexCount) }

// IndexCount returns the number of uploaded indices, 0 for array meshes.
func (m *Mesh) IndexCount() int { return int(m.indexCount) }

// Indexed reports whether the mesh draws with an element buffer.
func (m *Mesh) Indexed() bool { return m.indexed }

// Close releases the GPU resources. Safe to call more than once.
func (m *Mesh) Close() {
	if m.vao != 0 {
		m.dev.DeleteVertexArray(m.vao)
		m.vao = 0
	}
	if m.vbo != 0 {
		m.dev.DeleteBuffer(m.vbo)
		m.vbo = 0
	}
	if m.ebo != 0 {
		m.dev.DeleteBuffer(m.ebo)
		m.ebo = 0
	}
}
