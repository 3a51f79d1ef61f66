// Package gputest provides a recording gpu.Device for tests that run
// without a GL context.
package gputest

import (
	"errors"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/virtual-vista/internal/engine/gpu"
)

// Draw is one recorded draw call.
type Draw struct {
	VAO     uint32
	Indexed bool
	First   int32
	Count   int32
	Program uint32
}

// Upload is one recorded BufferData call.
type Upload struct {
	Target gpu.Target
	Buffer uint32
	Size   int
}

// Uniform is one recorded matrix upload.
type Uniform struct {
	Program  uint32
	Location int32
	Name     string
	Value    mgl32.Mat4
}

// Scalar is one recorded vector or float upload. Float uploads leave Vec zero.
type Scalar struct {
	Program uint32
	Name    string
	Vec     mgl32.Vec3
	Float   float32
}

// Device records every call made through gpu.Device.
type Device struct {
	// CompileErr, when set, is returned by CompileProgram.
	CompileErr error
	// Uniforms lists the names every compiled program exposes. A nil map
	// exposes the matrix and light uniforms of the embedded program.
	Uniforms map[string]bool

	Draws        []Draw
	Uploads      []Upload
	Attribs      []gpu.Attrib
	UniformSets  []Uniform
	ScalarSets   []Scalar
	Clears       int
	Reads        int
	Lookups      int // UniformLocation calls
	Viewports    [][2]int
	DepthEnabled bool

	VertexArrays map[uint32]bool // live VAOs
	Buffers      map[uint32]bool // live buffers
	Programs     map[uint32]bool // live programs
	Deleted      []uint32        // handles in deletion order

	nextID   uint32
	vao      uint32
	bound    map[gpu.Target]uint32
	program  uint32
	locNames map[int32]string
}

var _ gpu.Device = (*Device)(nil)

var defaultUniforms = map[string]bool{
	"model":      true,
	"view":       true,
	"projection": true,
	"lightDir":   true,
	"lightColor": true,
	"ambient":    true,
}

// New returns an empty recording device.
func New() *Device {
	return &Device{
		VertexArrays: make(map[uint32]bool),
		Buffers:      make(map[uint32]bool),
		Programs:     make(map[uint32]bool),
		bound:        make(map[gpu.Target]uint32),
		locNames:     make(map[int32]string),
	}
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) GenVertexArray() uint32 {
	id := d.id()
	d.VertexArrays[id] = true
	return id
}

func (d *Device) BindVertexArray(vao uint32) { d.vao = vao }

func (d *Device) DeleteVertexArray(vao uint32) {
	delete(d.VertexArrays, vao)
	d.Deleted = append(d.Deleted, vao)
}

func (d *Device) GenBuffer() uint32 {
	id := d.id()
	d.Buffers[id] = true
	return id
}

func (d *Device) BindBuffer(target gpu.Target, buf uint32) { d.bound[target] = buf }

func (d *Device) BufferData(target gpu.Target, size int, _ unsafe.Pointer) {
	d.Uploads = append(d.Uploads, Upload{Target: target, Buffer: d.bound[target], Size: size})
}

func (d *Device) DeleteBuffer(buf uint32) {
	delete(d.Buffers, buf)
	d.Deleted = append(d.Deleted, buf)
}

func (d *Device) VertexAttrib(a gpu.Attrib) { d.Attribs = append(d.Attribs, a) }

func (d *Device) DrawArrays(first, count int32) {
	d.Draws = append(d.Draws, Draw{VAO: d.vao, First: first, Count: count, Program: d.program})
}

func (d *Device) DrawElements(count int32) {
	d.Draws = append(d.Draws, Draw{VAO: d.vao, Indexed: true, Count: count, Program: d.program})
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	if d.CompileErr != nil {
		return 0, d.CompileErr
	}
	if vertexSrc == "" || fragmentSrc == "" {
		return 0, errors.New("compile: empty source")
	}
	id := d.id()
	d.Programs[id] = true
	return id, nil
}

func (d *Device) UseProgram(program uint32) { d.program = program }

// ActiveProgram returns the program last passed to UseProgram.
func (d *Device) ActiveProgram() uint32 { return d.program }

func (d *Device) DeleteProgram(program uint32) {
	delete(d.Programs, program)
	d.Deleted = append(d.Deleted, program)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	d.Lookups++
	exposed := d.Uniforms
	if exposed == nil {
		exposed = defaultUniforms
	}
	if !d.Programs[program] || !exposed[name] {
		return -1
	}
	for l, n := range d.locNames {
		if n == name && l/100 == int32(program) {
			return l
		}
	}
	loc := int32(program)*100 + int32(len(d.locNames))
	d.locNames[loc] = name
	return loc
}

func (d *Device) UniformMatrix4(location int32, m mgl32.Mat4) {
	d.UniformSets = append(d.UniformSets, Uniform{
		Program:  d.program,
		Location: location,
		Name:     d.locNames[location],
		Value:    m,
	})
}

func (d *Device) UniformVec3(location int32, v mgl32.Vec3) {
	d.ScalarSets = append(d.ScalarSets, Scalar{Program: d.program, Name: d.locNames[location], Vec: v})
}

func (d *Device) UniformFloat(location int32, f float32) {
	d.ScalarSets = append(d.ScalarSets, Scalar{Program: d.program, Name: d.locNames[location], Float: f})
}

// LastScalar returns the most recent vector or float upload for name.
func (d *Device) LastScalar(name string) (Scalar, bool) {
	for i := len(d.ScalarSets) - 1; i >= 0; i-- {
		if d.ScalarSets[i].Name == name {
			return d.ScalarSets[i], true
		}
	}
	return Scalar{}, false
}

// LastUniform returns the most recent value uploaded for name.
func (d *Device) LastUniform(name string) (mgl32.Mat4, bool) {
	for i := len(d.UniformSets) - 1; i >= 0; i-- {
		if d.UniformSets[i].Name == name {
			return d.UniformSets[i].Value, true
		}
	}
	return mgl32.Mat4{}, false
}

func (d *Device) Clear(mgl32.Vec4) { d.Clears++ }

func (d *Device) Viewport(width, height int) {
	d.Viewports = append(d.Viewports, [2]int{width, height})
}

func (d *Device) EnableDepthTest() { d.DepthEnabled = true }

// ReadPixels fills each row with its row index, so row 0 (the bottom of the
// framebuffer) is all zeros.
func (d *Device) ReadPixels(width, height int, pixels []byte) {
	d.Reads++
	row := width * 4
	for y := 0; y < height && (y+1)*row <= len(pixels); y++ {
		for i := y * row; i < (y+1)*row; i++ {
			pixels[i] = byte(y)
		}
	}
}
