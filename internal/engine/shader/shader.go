// Package shader wraps a linked GPU shader program and its uniform slots.
package shader

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/virtual-vista/internal/engine/gpu"
	"github.com/Faultbox/virtual-vista/internal/logger"
)

// NotFound is the location reported for a uniform the program does not expose.
const NotFound int32 = -1

// ErrEmptySource is returned when a stage has no source text.
var ErrEmptySource = errors.New("shader: empty source")

// DefaultVertexShader is the embedded fallback vertex stage.
//
//go:embed shaders/cube.vert
var DefaultVertexShader string

// DefaultFragmentShader is the embedded fallback fragment stage.
//
//go:embed shaders/cube.frag
var DefaultFragmentShader string

// Program is a linked shader program owned by one device.
type Program struct {
	dev   gpu.Device
	id    uint32
	name  string
	cache map[string]int32 // misses are cached as NotFound
}

// New compiles and links a program from source.
func New(dev gpu.Device, name, vertexSrc, fragmentSrc string) (*Program, error) {
	if dev == nil {
		return nil, gpu.ErrNoDevice
	}
	if vertexSrc == "" || fragmentSrc == "" {
		return nil, fmt.Errorf("program %q: %w", name, ErrEmptySource)
	}

	id, err := dev.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", name, err)
	}

	logger.Named("shader").Debug("program linked", zap.String("name", name), zap.Uint32("id", id))
	return &Program{
		dev:   dev,
		id:    id,
		name:  name,
		cache: make(map[string]int32),
	}, nil
}

// Load reads <dir>/<name>.vert and <dir>/<name>.frag and builds a program.
func Load(dev gpu.Device, dir, name string) (*Program, error) {
	base := filepath.Join(dir, name)

	vertexSrc, err := os.ReadFile(base + ".vert")
	if err != nil {
		return nil, fmt.Errorf("reading vertex shader: %w", err)
	}
	fragmentSrc, err := os.ReadFile(base + ".frag")
	if err != nil {
		return nil, fmt.Errorf("reading fragment shader: %w", err)
	}

	return New(dev, base, string(vertexSrc), string(fragmentSrc))
}

// Default builds the embedded program.
func Default(dev gpu.Device) (*Program, error) {
	return New(dev, "embedded:cube", DefaultVertexShader, DefaultFragmentShader)
}

// ID returns the device program handle, 0 once closed.
func (p *Program) ID() uint32 {
	return p.id
}

// Name returns the program's source name.
func (p *Program) Name() string {
	return p.name
}

// Activate makes this program current for subsequent draws and uniform sets.
func (p *Program) Activate() {
	p.dev.UseProgram(p.id)
}

// UniformLocation resolves a uniform slot. Missing uniforms return NotFound
// and are logged once per name. A closed program resolves nothing.
func (p *Program) UniformLocation(name string) int32 {
	if loc, ok := p.cache[name]; ok {
		return loc
	}

	if p.id == 0 {
		return NotFound
	}

	loc := p.dev.UniformLocation(p.id, name)
	p.cache[name] = loc
	if loc == NotFound {
		logger.Named("shader").Warn("uniform not found",
			zap.String("uniform", name),
			zap.String("program", p.name),
			zap.Uint32("id", p.id),
		)
	}
	return loc
}

// SetMat4 uploads m to the named uniform of the active program.
// A missing uniform makes this a no-op.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	loc := p.UniformLocation(name)
	if loc == NotFound {
		return
	}
	p.dev.UniformMatrix4(loc, m)
}

// SetVec3 uploads v to the named uniform of the active program.
func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	loc := p.UniformLocation(name)
	if loc == NotFound {
		return
	}
	p.dev.UniformVec3(loc, v)
}

// SetFloat uploads f to the named uniform of the active program.
func (p *Program) SetFloat(name string, f float32) {
	loc := p.UniformLocation(name)
	if loc == NotFound {
		return
	}
	p.dev.UniformFloat(loc, f)
}

// Close deletes the program. Safe to call more than once.
func (p *Program) Close() {
	if p.id == 0 {
		return
	}
	p.dev.DeleteProgram(p.id)
	p.id = 0
	clear(p.cache)
}
