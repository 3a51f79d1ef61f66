package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/virtual-vista/internal/config"
	"github.com/Faultbox/virtual-vista/internal/engine/gpu/gputest"
	"github.com/Faultbox/virtual-vista/internal/engine/input"
	"github.com/Faultbox/virtual-vista/internal/engine/shader"
)

// fakeWindow replays scripted input and closes itself after maxFrames swaps.
type fakeWindow struct {
	states    []input.State
	polls     int
	swaps     int
	maxFrames int
	width     int
	height    int
	close     bool
	closed    int
}

func newFakeWindow(states ...input.State) *fakeWindow {
	return &fakeWindow{states: states, width: 800, height: 600}
}

func (w *fakeWindow) PollEvents() input.State {
	var st input.State
	if w.polls < len(w.states) {
		st = w.states[w.polls]
	}
	w.polls++
	return st
}

func (w *fakeWindow) ShouldClose() bool     { return w.close }
func (w *fakeWindow) SetShouldClose(v bool) { w.close = v }
func (w *fakeWindow) Size() (int, int)      { return w.width, w.height }
func (w *fakeWindow) Close()                { w.closed++ }

func (w *fakeWindow) SwapBuffers() {
	w.swaps++
	if w.maxFrames > 0 && w.swaps >= w.maxFrames {
		w.close = true
	}
}

func keys(ks ...input.Key) input.State {
	var st input.State
	for _, k := range ks {
		st.SetKey(k, true)
	}
	return st
}

func pointer(x, y float64) input.State {
	return input.State{PointerX: x, PointerY: y}
}

func newTestApp(t *testing.T, cfg *config.Config, win *fakeWindow) (*App, *gputest.Device) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	dev := gputest.New()
	a, err := NewWithDevice(cfg, win, dev)
	if err != nil {
		t.Fatalf("NewWithDevice: %v", err)
	}
	return a, dev
}

func TestNewWithDeviceSetsUpScene(t *testing.T) {
	a, dev := newTestApp(t, nil, newFakeWindow())

	if !dev.DepthEnabled {
		t.Error("depth test not enabled")
	}
	if len(dev.Viewports) != 1 || dev.Viewports[0] != [2]int{800, 600} {
		t.Errorf("viewports = %v, want [[800 600]]", dev.Viewports)
	}
	if a.Cube().VertexCount() != 36 {
		t.Errorf("cube vertices = %d, want 36", a.Cube().VertexCount())
	}
	if a.program.Name() != "embedded:cube" {
		t.Errorf("program = %q, want embedded:cube", a.program.Name())
	}
}

func TestShaderLoadedFromDir(t *testing.T) {
	dir := t.TempDir()
	for ext, src := range map[string]string{".vert": shader.DefaultVertexShader, ".frag": shader.DefaultFragmentShader} {
		if err := os.WriteFile(filepath.Join(dir, "cube"+ext), []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.Default()
	cfg.Shaders.Dir = dir
	a, _ := newTestApp(t, cfg, newFakeWindow())

	if want := filepath.Join(dir, "cube"); a.program.Name() != want {
		t.Errorf("program = %q, want %q", a.program.Name(), want)
	}
}

func TestShaderFallsBackToEmbedded(t *testing.T) {
	cfg := config.Default()
	cfg.Shaders.Dir = filepath.Join(t.TempDir(), "missing")
	a, _ := newTestApp(t, cfg, newFakeWindow())

	if a.program.Name() != "embedded:cube" {
		t.Errorf("program = %q, want embedded fallback", a.program.Name())
	}
}

func TestShaderCompileFailureIsReturned(t *testing.T) {
	dev := gputest.New()
	dev.CompileErr = os.ErrInvalid

	if _, err := NewWithDevice(config.Default(), newFakeWindow(), dev); err == nil {
		t.Fatal("expected error when no program compiles")
	}
}

func TestFrameDrawsCube(t *testing.T) {
	win := newFakeWindow()
	a, dev := newTestApp(t, nil, win)

	a.Frame(0.016)

	if dev.Clears != 1 || win.swaps != 1 {
		t.Errorf("clears=%d swaps=%d, want 1/1", dev.Clears, win.swaps)
	}
	if len(dev.Draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(dev.Draws))
	}
	d := dev.Draws[0]
	if d.Indexed || d.Count != 36 || d.Program != a.program.ID() {
		t.Errorf("draw = %+v, want 36 vertices with program %d", d, a.program.ID())
	}
	for _, name := range []string{"model", "view", "projection"} {
		if _, ok := dev.LastUniform(name); !ok {
			t.Errorf("uniform %s not uploaded", name)
		}
	}
	light, ok := dev.LastScalar("lightDir")
	if !ok || light.Vec != a.sun.Direction {
		t.Errorf("lightDir = %+v, want %v", light, a.sun.Direction)
	}
}

func TestFrameSpinsCube(t *testing.T) {
	a, dev := newTestApp(t, nil, newFakeWindow())

	a.Frame(0.5)

	want := mgl32.Ident4().
		Mul4(mgl32.HomogRotate3D(0.5, spinAxis.Normalize())).
		Mul4(mgl32.HomogRotate3D(0.5, orbitAxis))
	if !a.Cube().Model().ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("model = %v, want %v", a.Cube().Model(), want)
	}
	if got, _ := dev.LastUniform("model"); got != a.Cube().Model() {
		t.Errorf("uploaded model %v differs from mesh model", got)
	}
}

func TestZeroDeltaLeavesCube(t *testing.T) {
	a, _ := newTestApp(t, nil, newFakeWindow())

	a.Frame(0)

	if a.Cube().Model() != mgl32.Ident4() {
		t.Errorf("model = %v, want identity", a.Cube().Model())
	}
}

func TestMovementKeys(t *testing.T) {
	tests := []struct {
		name string
		key  input.Key
		want mgl32.Vec3
	}{
		{"forward", input.KeyW, mgl32.Vec3{0, 0, 0.5}},
		{"backward", input.KeyS, mgl32.Vec3{0, 0, 5.5}},
		{"left", input.KeyA, mgl32.Vec3{-2.5, 0, 3}},
		{"right", input.KeyD, mgl32.Vec3{2.5, 0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestApp(t, nil, newFakeWindow(keys(tt.key)))

			a.Frame(1)

			if got := a.Camera().Position(); got.Sub(tt.want).Len() > 1e-5 {
				t.Errorf("position = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointerTurnsCamera(t *testing.T) {
	win := newFakeWindow(pointer(100, 100), pointer(110, 100))
	a, _ := newTestApp(t, nil, win)

	a.Frame(0.1)
	if d := a.Camera().Direction(); d.Sub(mgl32.Vec3{0, 0, -1}).Len() > 1e-5 {
		t.Fatalf("first pointer sample turned the camera: %v", d)
	}

	a.Frame(0.1)
	if d := a.Camera().Direction(); d.X() <= 0 {
		t.Errorf("direction = %v, want a turn to the right", d)
	}
}

func TestEscapeClosesWindow(t *testing.T) {
	win := newFakeWindow(keys(input.KeyEscape))
	a, _ := newTestApp(t, nil, win)

	a.Frame(0.016)

	if !win.ShouldClose() {
		t.Error("Escape did not request close")
	}
}

func TestQuitEventClosesWindow(t *testing.T) {
	win := newFakeWindow(input.State{Quit: true})
	a, _ := newTestApp(t, nil, win)

	a.Frame(0.016)

	if !win.ShouldClose() {
		t.Error("quit event did not request close")
	}
}

func TestViewportFollowsResize(t *testing.T) {
	win := newFakeWindow()
	a, dev := newTestApp(t, nil, win)

	a.Frame(0.016)
	win.width, win.height = 1024, 512
	a.Frame(0.016)

	if len(dev.Viewports) != 2 || dev.Viewports[1] != [2]int{1024, 512} {
		t.Errorf("viewports = %v, want resize to 1024x512", dev.Viewports)
	}
	want := mgl32.Perspective(mgl32.DegToRad(45), 2, 0.1, 100)
	if !a.Camera().Projection().ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("projection = %v, want aspect 2", a.Camera().Projection())
	}
}

func TestRunStopsWhenWindowCloses(t *testing.T) {
	win := newFakeWindow()
	win.maxFrames = 3
	a, dev := newTestApp(t, nil, win)

	if err := a.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if win.swaps != 3 || len(dev.Draws) != 3 {
		t.Errorf("swaps=%d draws=%d, want 3/3", win.swaps, len(dev.Draws))
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	win := newFakeWindow()
	a, dev := newTestApp(t, nil, win)

	a.Close()

	if len(dev.VertexArrays) != 0 || len(dev.Buffers) != 0 || len(dev.Programs) != 0 {
		t.Errorf("live after Close: vaos=%d buffers=%d programs=%d",
			len(dev.VertexArrays), len(dev.Buffers), len(dev.Programs))
	}
	if win.closed != 1 {
		t.Errorf("window closed %d times, want 1", win.closed)
	}
}

func TestF12CapturesOncePerPress(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Capture.Dir = dir
	win := newFakeWindow(keys(input.KeyF12), keys(input.KeyF12), input.State{}, keys(input.KeyF12))
	a, dev := newTestApp(t, cfg, win)

	for i := 0; i < 4; i++ {
		a.Frame(0.016)
	}

	if dev.Reads != 2 {
		t.Errorf("framebuffer reads = %d, want 2", dev.Reads)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("screenshots = %d, want 2", len(entries))
	}
}

func TestUnknownCaptureFormatFails(t *testing.T) {
	cfg := config.Default()
	cfg.Capture.Format = "gif"
	dev := gputest.New()

	if _, err := NewWithDevice(cfg, newFakeWindow(), dev); err == nil {
		t.Fatal("expected error for unknown capture format")
	}
	if len(dev.Programs) != 0 {
		t.Errorf("program leaked after failed setup")
	}
}
