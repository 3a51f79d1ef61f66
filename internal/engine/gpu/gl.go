package gpu

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/virtual-vista/internal/logger"
)

// GL is the OpenGL 4.1 core implementation of Device.
type GL struct{}

var _ Device = (*GL)(nil)

// NewGL loads the OpenGL function pointers.
// IMPORTANT: Must be called AFTER the OpenGL context is made current!
func NewGL() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Named("gpu").Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("vendor", gl.GoStr(gl.GetString(gl.VENDOR))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)
	return &GL{}, nil
}

func glTarget(t Target) uint32 {
	if t == ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func (*GL) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (*GL) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (*GL) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (*GL) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (*GL) BindBuffer(target Target, buf uint32) { gl.BindBuffer(glTarget(target), buf) }

func (*GL) BufferData(target Target, size int, data unsafe.Pointer) {
	gl.BufferData(glTarget(target), size, data, gl.STATIC_DRAW)
}

func (*GL) DeleteBuffer(buf uint32) { gl.DeleteBuffers(1, &buf) }

func (*GL) VertexAttrib(a Attrib) {
	gl.VertexAttribPointerWithOffset(a.Index, a.Size, gl.FLOAT, false, a.Stride, a.Offset)
	gl.EnableVertexAttribArray(a.Index)
}

func (*GL) DrawArrays(first, count int32) { gl.DrawArrays(gl.TRIANGLES, first, count) }

func (*GL) DrawElements(count int32) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, count, gl.UNSIGNED_INT, 0)
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error carrying the driver's info log.
func (*GL) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		info := infoLog(logLen, func(buf *uint8) { gl.GetProgramInfoLog(program, logLen, nil, buf) })
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", info)
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		info := infoLog(logLen, func(buf *uint8) { gl.GetShaderInfoLog(shader, logLen, nil, buf) })
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %s", info)
	}

	return shader, nil
}

// infoLog reads a driver log into a Go-owned buffer.
func infoLog(length int32, read func(buf *uint8)) string {
	if length <= 0 {
		return "(no info log)"
	}
	buf := make([]byte, length+1)
	read(&buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

func (*GL) UseProgram(program uint32) { gl.UseProgram(program) }

func (*GL) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (*GL) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*GL) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (*GL) UniformVec3(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (*GL) UniformFloat(location int32, f float32) { gl.Uniform1f(location, f) }

func (*GL) Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (*GL) ReadPixels(width, height int, pixels []byte) {
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
}

func (*GL) Viewport(width, height int) { gl.Viewport(0, 0, int32(width), int32(height)) }

func (*GL) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
}
