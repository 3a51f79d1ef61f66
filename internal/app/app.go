// Package app wires the window, GPU device, shader, camera and cube mesh
// into the demo's frame loop.
package app

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/virtual-vista/internal/config"
	"github.com/Faultbox/virtual-vista/internal/engine/camera"
	"github.com/Faultbox/virtual-vista/internal/engine/debug"
	"github.com/Faultbox/virtual-vista/internal/engine/gpu"
	"github.com/Faultbox/virtual-vista/internal/engine/input"
	"github.com/Faultbox/virtual-vista/internal/engine/lighting"
	"github.com/Faultbox/virtual-vista/internal/engine/mesh"
	"github.com/Faultbox/virtual-vista/internal/engine/shader"
	"github.com/Faultbox/virtual-vista/internal/engine/window"
	"github.com/Faultbox/virtual-vista/internal/logger"
)

// Title is the window title.
const Title = "Virtual Vista"

// Spin axes applied to the cube every frame.
var (
	spinAxis  = mgl32.Vec3{1, 0.3, 0.5}
	orbitAxis = mgl32.Vec3{0, 1, 0}
)

// App is the running demo.
type App struct {
	cfg *config.Config
	log *zap.Logger

	win     window.Window
	dev     gpu.Device
	program *shader.Program
	camera  *camera.Camera
	cube    *mesh.Mesh
	sun     lighting.Sun
	pointer *input.Tracker
	shots   *debug.ScreenshotCapture

	width, height int
	captureHeld   bool
	captureQueued bool
}

// New creates the window and GL context, then the scene objects.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing demo",
		zap.String("backend", cfg.Graphics.Backend),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	win, err := window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.Samples,
		Backend:    cfg.Graphics.Backend,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The device needs the context the window just made current.
	dev, err := gpu.NewGL()
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	a, err := NewWithDevice(cfg, win, dev)
	if err != nil {
		win.Close()
		return nil, err
	}
	return a, nil
}

// NewWithDevice builds the scene on an existing window and device. The
// returned App owns win and closes it in Close.
func NewWithDevice(cfg *config.Config, win window.Window, dev gpu.Device) (*App, error) {
	a := &App{
		cfg:     cfg,
		log:     logger.Named("app"),
		win:     win,
		dev:     dev,
		pointer: input.NewTracker(),
	}

	program, err := a.loadShader()
	if err != nil {
		return nil, fmt.Errorf("failed to build shader program: %w", err)
	}
	a.program = program

	a.shots, err = debug.NewScreenshotCapture(cfg.Capture.Dir, "vista", debug.Format(cfg.Capture.Format))
	if err != nil {
		a.program.Close()
		return nil, err
	}

	a.camera = camera.New(camera.Config{
		Position:   mgl32.Vec3(cfg.Camera.Position),
		LookAt:     mgl32.Vec3(cfg.Camera.LookAt),
		Up:         mgl32.Vec3(cfg.Camera.Up),
		PitchLimit: cfg.Camera.PitchLimit,
		YawLimit:   cfg.Camera.YawLimit,
	})

	light := cfg.Scene.Light
	a.sun = lighting.NewSun(light.Azimuth, light.Elevation, mgl32.Vec3(light.Color), light.Ambient)

	a.cube, err = mesh.New(dev, mesh.Cube())
	if err != nil {
		a.program.Close()
		return nil, fmt.Errorf("failed to upload cube mesh: %w", err)
	}

	dev.EnableDepthTest()
	a.syncViewport()

	a.log.Info("demo initialized",
		zap.String("shader", a.program.Name()),
		zap.Int("vertices", a.cube.VertexCount()),
	)
	return a, nil
}

// loadShader builds the configured program, falling back to the embedded
// one when the files cannot be read or compiled.
func (a *App) loadShader() (*shader.Program, error) {
	if a.cfg.Shaders.Dir == "" {
		return shader.Default(a.dev)
	}

	p, err := shader.Load(a.dev, a.cfg.Shaders.Dir, a.cfg.Shaders.Name)
	if err == nil {
		return p, nil
	}
	a.log.Warn("shader load failed, using embedded program",
		zap.String("dir", a.cfg.Shaders.Dir),
		zap.String("name", a.cfg.Shaders.Name),
		zap.Error(err),
	)
	return shader.Default(a.dev)
}

// Run drives frames until the window is asked to close.
func (a *App) Run() error {
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for !a.win.ShouldClose() {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		a.Frame(dt)

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	a.log.Info("frame loop stopped")
	return nil
}

// Frame renders one frame advanced by dt seconds.
func (a *App) Frame(dt float64) {
	a.syncViewport()
	a.dev.Clear(mgl32.Vec4(a.cfg.Graphics.ClearColor))

	a.handleInput(a.win.PollEvents(), dt)
	a.camera.Update()

	a.program.Activate()
	a.camera.BindMatrices(a.program, a.perspective())
	a.sun.Bind(a.program)

	angle := a.cfg.Scene.SpinSpeed * float32(dt)
	a.cube.Rotate(angle, spinAxis)
	a.cube.Rotate(angle, orbitAxis)
	a.cube.BindUniforms(a.program)
	a.cube.Render()

	if a.captureQueued {
		a.captureQueued = false
		a.capture()
	}

	a.win.SwapBuffers()
}

// handleInput maps the frame's input onto the camera. Speeds scale with dt.
func (a *App) handleInput(st input.State, dt float64) {
	if st.Quit || st.Pressed(input.KeyEscape) {
		a.win.SetShouldClose(true)
	}

	// One capture per F12 press, not per frame it is held.
	held := st.Pressed(input.KeyF12)
	if held && !a.captureHeld {
		a.captureQueued = true
	}
	a.captureHeld = held

	step := a.cfg.Camera.MovementSpeed * float32(dt)
	if st.Pressed(input.KeyW) {
		a.camera.Move(camera.Forward, step)
	}
	if st.Pressed(input.KeyS) {
		a.camera.Move(camera.Backward, step)
	}
	if st.Pressed(input.KeyA) {
		a.camera.Move(camera.StrafeLeft, step)
	}
	if st.Pressed(input.KeyD) {
		a.camera.Move(camera.StrafeRight, step)
	}

	dx, dy := a.pointer.Delta(st.PointerX, st.PointerY)
	if dx != 0 || dy != 0 {
		a.camera.Rotate(dx, dy, float64(a.cfg.Camera.RotationSpeed)*dt)
	}
}

// capture saves the rendered frame before it is presented.
func (a *App) capture() {
	path, err := a.shots.CaptureFrame(a.dev, a.width, a.height)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// syncViewport follows drawable size changes.
func (a *App) syncViewport() {
	w, h := a.win.Size()
	if w == a.width && h == a.height {
		return
	}
	a.width, a.height = w, h
	a.dev.Viewport(w, h)
	a.log.Debug("viewport", zap.Int("width", w), zap.Int("height", h))
}

func (a *App) perspective() camera.Perspective {
	fov, aspect, near, far := a.cfg.Perspective()
	if a.width > 0 && a.height > 0 {
		aspect = float32(a.width) / float32(a.height)
	}
	return camera.Perspective{FOV: fov, Aspect: aspect, Near: near, Far: far}
}

// Camera returns the scene camera.
func (a *App) Camera() *camera.Camera { return a.camera }

// Cube returns the spinning cube.
func (a *App) Cube() *mesh.Mesh { return a.cube }

// Close releases resources in reverse creation order.
func (a *App) Close() {
	a.log.Info("closing demo")

	if a.cube != nil {
		a.cube.Close()
	}
	if a.program != nil {
		a.program.Close()
	}
	if a.win != nil {
		a.win.Close()
	}
}
