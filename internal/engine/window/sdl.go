package window

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/virtual-vista/internal/engine/input"
	"github.com/Faultbox/virtual-vista/internal/logger"
)

var sdlKeys = map[input.Key]sdl.Scancode{
	input.KeyW:      sdl.SCANCODE_W,
	input.KeyA:      sdl.SCANCODE_A,
	input.KeyS:      sdl.SCANCODE_S,
	input.KeyD:      sdl.SCANCODE_D,
	input.KeyEscape: sdl.SCANCODE_ESCAPE,
	input.KeyF12:    sdl.SCANCODE_F12,
}

// sdlWindow wraps an SDL2 window and its OpenGL context.
type sdlWindow struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext

	// Relative mouse mode reports motion only; it is summed into an
	// absolute position so every backend reports the same State.
	pointer     relativePointer
	shouldClose bool
	closed      bool
}

func newSDL(cfg Config) (*sdlWindow, error) {
	log := logger.Named("window")
	w := &sdlWindow{config: cfg, pointer: newRelativePointer(cfg.Width, cfg.Height)}

	log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Set OpenGL attributes BEFORE creating window
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, glMajor)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, glMinor)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	if cfg.Samples > 0 {
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 1)
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, cfg.Samples)
	}

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if cfg.VSync {
		if err := sdl.GLSetSwapInterval(1); err != nil {
			log.Warn("failed to enable VSync", zap.Error(err))
		}
	} else {
		sdl.GLSetSwapInterval(0)
	}

	// Hide the cursor and keep reporting motion at the window edges.
	sdl.SetRelativeMouseMode(true)

	log.Info("window created",
		zap.String("backend", "sdl"),
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
		zap.Int("samples", cfg.Samples),
	)

	return w, nil
}

func (w *sdlWindow) PollEvents() input.State {
	var st input.State

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.shouldClose = true
		case *sdl.MouseMotionEvent:
			w.pointer.move(e.XRel, e.YRel)
		}
	}

	keys := sdl.GetKeyboardState()
	for k, sc := range sdlKeys {
		st.SetKey(k, int(sc) < len(keys) && keys[sc] != 0)
	}

	st.PointerX, st.PointerY = w.pointer.position()
	st.Quit = w.shouldClose
	return st
}

func (w *sdlWindow) ShouldClose() bool { return w.shouldClose }

func (w *sdlWindow) SetShouldClose(v bool) { w.shouldClose = v }

func (w *sdlWindow) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

func (w *sdlWindow) Size() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// Close destroys the window and cleans up SDL2.
func (w *sdlWindow) Close() {
	if w.closed {
		return
	}
	w.closed = true
	logger.Named("window").Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}
