package camera

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

type recordingTarget map[string]mgl32.Mat4

func (r recordingTarget) SetMat4(name string, m mgl32.Mat4) { r[name] = m }

func vecNear(a, b mgl32.Vec3, tol float32) bool {
	return a.Sub(b).Len() <= tol
}

func elevationDeg(dir mgl32.Vec3) float64 {
	return math.Asin(float64(dir.Y())) * 180 / math.Pi
}

func newTestCamera(limit float32) *Camera {
	cfg := DefaultConfig()
	cfg.PitchLimit = limit
	cfg.YawLimit = limit
	return New(cfg)
}

func TestNewDefaults(t *testing.T) {
	c := New(DefaultConfig())

	if c.Position() != (mgl32.Vec3{0, 0, 3}) {
		t.Errorf("Position() = %v, want (0,0,3)", c.Position())
	}
	if !vecNear(c.Direction(), mgl32.Vec3{0, 0, -1}, eps) {
		t.Errorf("Direction() = %v, want (0,0,-1)", c.Direction())
	}
	if c.Pitch() != 0 {
		t.Errorf("Pitch() = %v, want 0", c.Pitch())
	}
}

func TestZeroRotateLeavesPose(t *testing.T) {
	c := New(DefaultConfig())

	c.Rotate(0, 0, 1.0)
	c.Update()

	if !vecNear(c.Position(), mgl32.Vec3{0, 0, 3}, eps) {
		t.Errorf("Position() = %v, want (0,0,3)", c.Position())
	}
	if !vecNear(c.LookAt(), mgl32.Vec3{0, 0, 0}, eps) {
		t.Errorf("LookAt() = %v, want origin", c.LookAt())
	}
	if !vecNear(c.Direction(), mgl32.Vec3{0, 0, -1}, eps) {
		t.Errorf("Direction() = %v, want (0,0,-1)", c.Direction())
	}
}

func TestMoveIsAdditive(t *testing.T) {
	c := New(DefaultConfig())
	start := c.Position()
	dir := c.Direction()
	right := dir.Cross(c.Up())

	c.Move(Forward, 0.5)
	c.Move(Forward, 0.25)
	c.Move(StrafeRight, 1)
	c.Move(Backward, 0.1)
	c.Move(StrafeLeft, 0.3)

	want := start.
		Add(dir.Mul(0.5 + 0.25 - 0.1)).
		Add(right.Mul(1 - 0.3))

	// Nothing moves until Update.
	if c.Position() != start {
		t.Errorf("Position() changed before Update: %v", c.Position())
	}

	c.Update()

	if !vecNear(c.Position(), want, eps) {
		t.Errorf("Position() = %v, want %v", c.Position(), want)
	}
	if c.PendingDelta() != (mgl32.Vec3{}) {
		t.Errorf("PendingDelta() = %v, want zero", c.PendingDelta())
	}
}

func TestMoveDirections(t *testing.T) {
	tests := []struct {
		dir  Direction
		want mgl32.Vec3
	}{
		{Forward, mgl32.Vec3{0, 0, -1}},
		{Backward, mgl32.Vec3{0, 0, 1}},
		{StrafeRight, mgl32.Vec3{1, 0, 0}},
		{StrafeLeft, mgl32.Vec3{-1, 0, 0}},
		{Direction(42), mgl32.Vec3{}},
	}

	for _, tt := range tests {
		c := New(DefaultConfig())
		c.Move(tt.dir, 1)
		if !vecNear(c.PendingDelta(), tt.want, eps) {
			t.Errorf("Move(%d) delta = %v, want %v", tt.dir, c.PendingDelta(), tt.want)
		}
	}
}

func TestRotateClampsPerCall(t *testing.T) {
	tests := []struct {
		name           string
		dx, dy, speed  float64
		wantYaw, wantP float32
	}{
		{"within limits", 2, 3, 1, -2, 3},
		{"clamped positive", 1000, 1000, 1, -5, 5},
		{"clamped negative", -1000, -1000, 1, 5, -5},
		{"speed scales first", 4, -4, 0.5, -2, -2},
		{"speed pushes over limit", 4, 4, 10, -5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCamera(5)
			c.Rotate(tt.dx, tt.dy, tt.speed)

			yaw, pitch := c.PendingRotation()
			if math.Abs(float64(yaw-tt.wantYaw)) > eps || math.Abs(float64(pitch-tt.wantP)) > eps {
				t.Errorf("PendingRotation() = (%v, %v), want (%v, %v)", yaw, pitch, tt.wantYaw, tt.wantP)
			}
		})
	}
}

func TestRotateAccumulates(t *testing.T) {
	c := newTestCamera(5)
	c.Rotate(1, 1, 1)
	c.Rotate(2, 2, 1)

	yaw, pitch := c.PendingRotation()
	if yaw != -3 || pitch != 3 {
		t.Errorf("PendingRotation() = (%v, %v), want (-3, 3)", yaw, pitch)
	}

	c.Update()
	yaw, pitch = c.PendingRotation()
	if yaw != 0 || pitch != 0 {
		t.Errorf("PendingRotation() after Update = (%v, %v), want zero", yaw, pitch)
	}
}

func TestYawTurnsRight(t *testing.T) {
	c := newTestCamera(90)
	c.Rotate(90, 0, 1)
	c.Update()

	if !vecNear(c.Direction(), mgl32.Vec3{1, 0, 0}, 1e-4) {
		t.Errorf("Direction() = %v, want (1,0,0)", c.Direction())
	}
	// The observed point keeps its distance of 3 from the eye.
	if !vecNear(c.LookAt(), mgl32.Vec3{3, 0, 3}, 1e-4) {
		t.Errorf("LookAt() = %v, want (3,0,3)", c.LookAt())
	}
}

func TestPitchLooksUp(t *testing.T) {
	c := newTestCamera(45)
	c.Rotate(0, 45, 1)
	c.Update()

	s := float32(math.Sqrt2 / 2)
	if !vecNear(c.Direction(), mgl32.Vec3{0, s, -s}, 1e-4) {
		t.Errorf("Direction() = %v, want (0,%v,%v)", c.Direction(), s, -s)
	}
	if math.Abs(float64(c.Pitch())-45) > 1e-3 {
		t.Errorf("Pitch() = %v, want 45", c.Pitch())
	}
}

func TestPitchClampedAcrossFrames(t *testing.T) {
	c := newTestCamera(5)

	for frame := 0; frame < 100; frame++ {
		c.Rotate(0, 1000, 1)
		c.Update()

		if c.Pitch() > MaxPitch || c.Pitch() < -MaxPitch {
			t.Fatalf("frame %d: Pitch() = %v out of range", frame, c.Pitch())
		}
		if e := elevationDeg(c.Direction()); e > float64(MaxPitch)+1e-3 {
			t.Fatalf("frame %d: direction elevation %v exceeds %v", frame, e, MaxPitch)
		}
	}
	if math.Abs(float64(c.Pitch()-MaxPitch)) > 1e-3 {
		t.Errorf("Pitch() = %v, want pinned at %v", c.Pitch(), MaxPitch)
	}

	for frame := 0; frame < 100; frame++ {
		c.Rotate(0, -1000, 1)
		c.Update()
		if e := elevationDeg(c.Direction()); e < -float64(MaxPitch)-1e-3 {
			t.Fatalf("frame %d: direction elevation %v below %v", frame, e, -MaxPitch)
		}
	}
	if math.Abs(float64(c.Pitch()+MaxPitch)) > 1e-3 {
		t.Errorf("Pitch() = %v, want pinned at %v", c.Pitch(), -MaxPitch)
	}
}

func TestCombinedYawAndPitch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LookAt = mgl32.Vec3{0, 2.5, 0}
	cfg.PitchLimit = 5
	cfg.YawLimit = 5
	c := New(cfg)
	start := c.Direction()

	c.Rotate(-5, 5, 1)
	c.Update()

	// Yaw about up first, then pitch about the starting right axis.
	yaw := mgl32.QuatRotate(mgl32.DegToRad(5), mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(mgl32.DegToRad(5), mgl32.Vec3{1, 0, 0})
	want := pitch.Mul(yaw).Rotate(start)

	if !vecNear(c.Direction(), want, 1e-4) {
		t.Errorf("Direction() = %v, want %v", c.Direction(), want)
	}
	if !vecNear(c.Direction(), mgl32.Vec3{-0.06695, 0.70445, -0.70659}, 1e-4) {
		t.Errorf("Direction() = %v, want (-0.06695, 0.70445, -0.70659)", c.Direction())
	}
	if e := elevationDeg(c.Direction()); math.Abs(e-float64(c.Pitch())) > 1e-3 {
		t.Errorf("Pitch() = %v, direction elevation = %v", c.Pitch(), e)
	}
}

func TestViewAlongUpStartsAtPitchLimit(t *testing.T) {
	tests := []struct {
		name   string
		lookAt mgl32.Vec3
		want   float32
	}{
		{"straight down", mgl32.Vec3{0, 0, 0}, -MaxPitch},
		{"straight up", mgl32.Vec3{0, 6, 0}, MaxPitch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Config{
				Position:   mgl32.Vec3{0, 3, 0},
				LookAt:     tt.lookAt,
				Up:         mgl32.Vec3{0, 1, 0},
				PitchLimit: 1,
				YawLimit:   1,
			})

			if math.Abs(float64(c.Pitch()-tt.want)) > 1e-3 {
				t.Errorf("Pitch() after New = %v, want %v", c.Pitch(), tt.want)
			}
			if d := c.LookAt().Sub(c.Position()).Len(); math.Abs(float64(d)-3) > 1e-4 {
				t.Errorf("look distance = %v, want 3", d)
			}

			c.Update()
			if e := elevationDeg(c.Direction()); math.Abs(e-float64(tt.want)) > 1e-2 {
				t.Errorf("elevation = %v, want %v", e, tt.want)
			}
			if math.Abs(elevationDeg(c.Direction())-float64(c.Pitch())) > 1e-3 {
				t.Errorf("Pitch() = %v disagrees with direction %v", c.Pitch(), c.Direction())
			}

			// Pitching back toward the horizon is not blocked by the pole.
			c.Rotate(0, float64(-tt.want/MaxPitch), 1)
			c.Update()
			if e := elevationDeg(c.Direction()); math.Abs(e) > float64(MaxPitch)-0.5 {
				t.Errorf("elevation after pitching away = %v, want within %v", e, MaxPitch-0.5)
			}

			c.Move(StrafeRight, 1)
			if c.PendingDelta().Len() < 0.01 {
				t.Errorf("strafe delta = %v, want non-zero", c.PendingDelta())
			}

			target := recordingTarget{}
			c.BindMatrices(target, Perspective{FOV: mgl32.DegToRad(45), Aspect: 1, Near: 0.1, Far: 100})
			for i, v := range target["view"] {
				if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
					t.Fatalf("view[%d] = %v", i, v)
				}
			}
		})
	}
}

func TestStrafeAtPoleUsesHorizontalAxis(t *testing.T) {
	c := New(DefaultConfig())
	// Force a direction along up.
	c.direction = mgl32.Vec3{0, -1, 0}

	c.Move(StrafeRight, 2)

	if !vecNear(c.PendingDelta(), mgl32.Vec3{2, 0, 0}, eps) {
		t.Errorf("PendingDelta() = %v, want (2,0,0)", c.PendingDelta())
	}
}

func TestPitchClampedWithinOneFrame(t *testing.T) {
	c := newTestCamera(500)
	c.Rotate(0, 500, 1)

	if _, p := c.PendingRotation(); p != MaxPitch {
		t.Errorf("pending pitch = %v, want %v", p, MaxPitch)
	}

	c.Update()
	if e := elevationDeg(c.Direction()); math.Abs(e-float64(MaxPitch)) > 1e-2 {
		t.Errorf("elevation = %v, want %v", e, MaxPitch)
	}
}

func TestDirectionStaysUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	c := newTestCamera(10)

	for frame := 0; frame < 500; frame++ {
		for i := 0; i < 3; i++ {
			c.Rotate(rng.Float64()*200-100, rng.Float64()*200-100, rng.Float64())
			c.Move(Direction(rng.Intn(5)), rng.Float32())
		}
		c.Update()

		if l := c.Direction().Len(); math.Abs(float64(l)-1) > eps {
			t.Fatalf("frame %d: |direction| = %v", frame, l)
		}
		if c.PendingDelta() != (mgl32.Vec3{}) {
			t.Fatalf("frame %d: pending delta not reset", frame)
		}
	}
}

func TestBindMatrices(t *testing.T) {
	c := New(DefaultConfig())
	c.Update()

	target := recordingTarget{}
	p := Perspective{FOV: mgl32.DegToRad(45), Aspect: 4.0 / 3.0, Near: 0.1, Far: 100}
	c.BindMatrices(target, p)

	wantProj := mgl32.Perspective(p.FOV, p.Aspect, p.Near, p.Far)
	wantView := mgl32.LookAtV(c.Position(), c.LookAt(), c.Up())

	if got, ok := target["projection"]; !ok || !got.ApproxEqual(wantProj) {
		t.Errorf("projection = %v, want %v", got, wantProj)
	}
	if got, ok := target["view"]; !ok || !got.ApproxEqual(wantView) {
		t.Errorf("view = %v, want %v", got, wantView)
	}
	if c.View() != target["view"] || c.Projection() != target["projection"] {
		t.Error("cached matrices differ from uploaded ones")
	}

	// The view maps the eye to the origin.
	eye := wantView.Mul4x1(c.Position().Vec4(1))
	if !vecNear(eye.Vec3(), mgl32.Vec3{}, eps) {
		t.Errorf("view * eye = %v, want origin", eye)
	}
}

func TestCoincidentLookAt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LookAt = cfg.Position
	c := New(cfg)
	c.Update()

	if l := c.Direction().Len(); math.Abs(float64(l)-1) > eps {
		t.Errorf("|direction| = %v, want 1", l)
	}
}

func TestNegativeLimitsUseMagnitude(t *testing.T) {
	cfg := DefaultConfig()
	cfg.YawLimit = -2
	cfg.PitchLimit = -3
	c := New(cfg)

	yaw, pitch := c.Limits()
	if yaw != 2 || pitch != 3 {
		t.Errorf("Limits() = (%v, %v), want (2, 3)", yaw, pitch)
	}
}
