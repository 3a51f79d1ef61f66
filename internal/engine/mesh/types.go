// Package mesh owns drawable geometry on the GPU and its model transform.
package mesh

import "unsafe"

// Vertex is one interleaved vertex record: position, normal, texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// VertexSize is the stride of one Vertex in bytes.
const VertexSize = int(unsafe.Sizeof(Vertex{}))

// Attribute slots used by the vertex layout.
const (
	AttribPosition uint32 = 0
	AttribNormal   uint32 = 1
	AttribTexCoord uint32 = 2
)
