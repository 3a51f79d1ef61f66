// Package gpu defines the graphics device used by meshes, shaders and the
// frame loop, and its OpenGL implementation.
package gpu

import (
	"errors"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNoDevice is returned when a GPU resource is created without a device.
var ErrNoDevice = errors.New("gpu: no device (is the GL context current?)")

// Target selects the buffer binding point.
type Target uint8

const (
	ArrayBuffer Target = iota
	ElementArrayBuffer
)

func (t Target) String() string {
	switch t {
	case ArrayBuffer:
		return "array"
	case ElementArrayBuffer:
		return "element"
	default:
		return "unknown"
	}
}

// Attrib describes one float vertex attribute inside an interleaved buffer.
type Attrib struct {
	Index  uint32
	Size   int32 // component count
	Stride int32 // bytes
	Offset uintptr
}

// Device is the subset of the graphics API the renderer needs.
// All calls must be made from the thread that owns the context.
type Device interface {
	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)

	GenBuffer() uint32
	BindBuffer(target Target, buf uint32)
	BufferData(target Target, size int, data unsafe.Pointer)
	DeleteBuffer(buf uint32)

	VertexAttrib(a Attrib)

	DrawArrays(first, count int32)
	DrawElements(count int32)

	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	UniformMatrix4(location int32, m mgl32.Mat4)
	UniformVec3(location int32, v mgl32.Vec3)
	UniformFloat(location int32, f float32)

	Clear(color mgl32.Vec4)
	Viewport(width, height int)
	EnableDepthTest()

	// ReadPixels copies the bottom-left width x height block of the
	// framebuffer into pixels as tightly packed RGBA rows, bottom row first.
	ReadPixels(width, height int, pixels []byte)
}
