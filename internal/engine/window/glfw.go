package window

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/Faultbox/virtual-vista/internal/engine/input"
	"github.com/Faultbox/virtual-vista/internal/logger"
)

var glfwKeys = map[input.Key]glfw.Key{
	input.KeyW:      glfw.KeyW,
	input.KeyA:      glfw.KeyA,
	input.KeyS:      glfw.KeyS,
	input.KeyD:      glfw.KeyD,
	input.KeyEscape: glfw.KeyEscape,
	input.KeyF12:    glfw.KeyF12,
}

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	window *glfw.Window
	closed bool
}

// newGLFW creates a GLFW window with a core-profile context made current.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func newGLFW(cfg Config) (*glfwWindow, error) {
	log := logger.Named("window")

	log.Info("initializing GLFW")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, glMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, glMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Samples, cfg.Samples)

	var monitor *glfw.Monitor
	if cfg.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.MakeContextCurrent()

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	// Reference: https://www.glfw.org/docs/latest/input_guide.html#cursor_mode
	win.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	log.Info("window created",
		zap.String("backend", "glfw"),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Int("samples", cfg.Samples),
	)

	return &glfwWindow{window: win}, nil
}

// PollEvents polls GLFW for pending events without blocking and samples
// key and cursor state.
func (w *glfwWindow) PollEvents() input.State {
	glfw.PollEvents()

	var st input.State
	for k, gk := range glfwKeys {
		st.SetKey(k, w.window.GetKey(gk) == glfw.Press)
	}
	st.PointerX, st.PointerY = w.window.GetCursorPos()
	st.Quit = w.window.ShouldClose()
	return st
}

func (w *glfwWindow) ShouldClose() bool { return w.window.ShouldClose() }

func (w *glfwWindow) SetShouldClose(v bool) { w.window.SetShouldClose(v) }

func (w *glfwWindow) SwapBuffers() { w.window.SwapBuffers() }

// Size returns the framebuffer size, which differs from the window size on
// high-DPI displays.
func (w *glfwWindow) Size() (int, int) {
	return w.window.GetFramebufferSize()
}

// Close destroys the GLFW window and terminates the GLFW library.
func (w *glfwWindow) Close() {
	if w.closed {
		return
	}
	w.closed = true
	logger.Named("window").Info("closing window")

	w.window.Destroy()
	glfw.Terminate()
}
