// Package window creates the OS window and OpenGL context and reports input
// as per-frame snapshots. SDL2 and GLFW backends are available.
package window

import (
	"fmt"
	"runtime"

	"github.com/Faultbox/virtual-vista/internal/engine/input"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// GL context version requested by every backend. It matches the v4.1-core
// bindings and is the newest core profile macOS provides; the shaders only
// need 3.3.
const (
	glMajor = 4
	glMinor = 1
)

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Samples    int    // MSAA samples, 0 disables
	Backend    string // "sdl" or "glfw"
}

// Window is a platform window owning the current GL context.
type Window interface {
	// PollEvents drains pending platform events and returns this frame's input.
	PollEvents() input.State
	ShouldClose() bool
	SetShouldClose(bool)
	SwapBuffers()
	// Size returns the drawable size in pixels.
	Size() (width, height int)
	Close()
}

// New creates a window using the configured backend. An empty backend
// selects SDL2.
func New(cfg Config) (Window, error) {
	switch cfg.Backend {
	case "", "sdl":
		w, err := newSDL(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	case "glfw":
		w, err := newGLFW(cfg)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("unknown window backend %q", cfg.Backend)
	}
}
