// Package camera provides the first-person camera used by the demo scene.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPitch bounds the resolved pitch (degrees) so the view never flips over the poles.
const MaxPitch float32 = 89.0

// Direction is a logical movement token.
type Direction int

const (
	Forward Direction = iota
	Backward
	StrafeLeft
	StrafeRight
)

// UniformTarget receives matrices for named uniform slots.
// *shader.Program satisfies it.
type UniformTarget interface {
	SetMat4(name string, m mgl32.Mat4)
}

// Perspective holds projection parameters. FOV is vertical, in radians.
type Perspective struct {
	FOV, Aspect, Near, Far float32
}

// Config holds the initial camera placement and per-call rotation limits.
type Config struct {
	Position   mgl32.Vec3
	LookAt     mgl32.Vec3
	Up         mgl32.Vec3
	PitchLimit float32 // degrees
	YawLimit   float32 // degrees
}

// DefaultConfig places the camera at (0,0,3) looking at the origin.
func DefaultConfig() Config {
	return Config{
		Position:   mgl32.Vec3{0, 0, 3},
		LookAt:     mgl32.Vec3{0, 0, 0},
		Up:         mgl32.Vec3{0, 1, 0},
		PitchLimit: 1,
		YawLimit:   1,
	}
}

// Camera is a free-look viewpoint. Move and Rotate accumulate input for
// the current frame; Update folds it into position and orientation.
type Camera struct {
	position  mgl32.Vec3
	lookAt    mgl32.Vec3
	direction mgl32.Vec3 // unit length
	up        mgl32.Vec3

	positionDelta mgl32.Vec3
	pitchAngle    float32 // pending, degrees
	yawAngle      float32 // pending, degrees
	pitch         float32 // resolved elevation above the horizon, degrees

	pitchLimit float32
	yawLimit   float32

	projection mgl32.Mat4
	view       mgl32.Mat4
}

// New creates a camera from cfg.
func New(cfg Config) *Camera {
	up := cfg.Up
	if up.Len() == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}

	c := &Camera{
		position:   cfg.Position,
		lookAt:     cfg.LookAt,
		up:         up.Normalize(),
		pitchLimit: abs(cfg.PitchLimit),
		yawLimit:   abs(cfg.YawLimit),
		projection: mgl32.Ident4(),
	}
	c.direction = c.lookDirection()
	if c.settle() {
		// A view along up starts at the pitch limit instead.
		c.lookAt = c.position.Add(c.direction.Mul(c.lookDistance()))
	}
	c.view = mgl32.LookAtV(c.position, c.lookAt, c.up)
	return c
}

// Move queues a translation of speed units along dir. Unknown tokens are ignored.
func (c *Camera) Move(dir Direction, speed float32) {
	switch dir {
	case Forward:
		c.positionDelta = c.positionDelta.Add(c.direction.Mul(speed))
	case Backward:
		c.positionDelta = c.positionDelta.Sub(c.direction.Mul(speed))
	case StrafeRight:
		c.positionDelta = c.positionDelta.Add(c.right().Mul(speed))
	case StrafeLeft:
		c.positionDelta = c.positionDelta.Sub(c.right().Mul(speed))
	}
}

// Rotate queues a yaw/pitch change from pointer deltas. Each scaled delta is
// clamped to the configured limit before it is accumulated.
func (c *Camera) Rotate(deltaX, deltaY, speed float64) {
	x := clamp(float32(deltaX*speed), -c.yawLimit, c.yawLimit)
	y := clamp(float32(deltaY*speed), -c.pitchLimit, c.pitchLimit)

	c.yawAngle -= x
	c.pitchAngle = clamp(c.pitchAngle+y, -MaxPitch, MaxPitch)
}

// Update resolves pending movement and rotation. Call once per frame after
// all Move/Rotate calls and before BindMatrices.
func (c *Camera) Update() {
	c.direction = c.lookDirection()
	distance := c.lookDistance()
	current := c.elevation(c.direction)

	// Clamp the absolute pitch, then apply only what is left of the request.
	target := clamp(current+c.pitchAngle, -MaxPitch, MaxPitch)
	pitchQuat := mgl32.QuatRotate(mgl32.DegToRad(target-current), c.right().Normalize())
	yawQuat := mgl32.QuatRotate(mgl32.DegToRad(c.yawAngle), c.up)

	// pitch × yaw: yaw about the world up, then pitch about the right axis
	// the frame started with.
	rotation := pitchQuat.Mul(yawQuat).Normalize()
	c.direction = rotation.Rotate(c.direction).Normalize()
	c.settle()

	c.position = c.position.Add(c.positionDelta)
	c.positionDelta = mgl32.Vec3{}
	// Keep the observed point at the same distance along the new direction.
	c.lookAt = c.position.Add(c.direction.Mul(distance))

	c.pitchAngle = 0
	c.yawAngle = 0
}

// BindMatrices recomputes projection and view and pushes them to the
// "projection" and "view" uniforms. The target program must be active.
func (c *Camera) BindMatrices(target UniformTarget, p Perspective) {
	c.projection = mgl32.Perspective(p.FOV, p.Aspect, p.Near, p.Far)
	c.view = mgl32.LookAtV(c.position, c.lookAt, c.up)

	target.SetMat4("projection", c.projection)
	target.SetMat4("view", c.view)
}

// Position returns the camera position in world space.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// LookAt returns the observed point in world space.
func (c *Camera) LookAt() mgl32.Vec3 { return c.lookAt }

// Direction returns the unit view direction.
func (c *Camera) Direction() mgl32.Vec3 { return c.direction }

// Up returns the world up vector.
func (c *Camera) Up() mgl32.Vec3 { return c.up }

// PendingDelta returns the movement queued since the last Update.
func (c *Camera) PendingDelta() mgl32.Vec3 { return c.positionDelta }

// PendingRotation returns the queued yaw and pitch, in degrees.
func (c *Camera) PendingRotation() (yaw, pitch float32) { return c.yawAngle, c.pitchAngle }

// Pitch returns the resolved pitch in degrees, within ±MaxPitch.
func (c *Camera) Pitch() float32 { return c.pitch }

// Limits returns the per-call yaw and pitch clamps, in degrees.
func (c *Camera) Limits() (yaw, pitch float32) { return c.yawLimit, c.pitchLimit }

// View returns the view matrix computed by the last BindMatrices.
func (c *Camera) View() mgl32.Mat4 { return c.view }

// Projection returns the projection matrix computed by the last BindMatrices.
func (c *Camera) Projection() mgl32.Mat4 { return c.projection }

// lookDirection returns normalize(lookAt - position), keeping the previous
// direction when the two points coincide.
func (c *Camera) lookDirection() mgl32.Vec3 {
	d := c.lookAt.Sub(c.position)
	if d.Len() < 1e-6 {
		if c.direction.Len() > 0 {
			return c.direction
		}
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

// lookDistance returns |lookAt - position|, or 1 when the points coincide.
func (c *Camera) lookDistance() float32 {
	d := c.lookAt.Sub(c.position).Len()
	if d < 1e-6 {
		return 1
	}
	return d
}

// right returns direction × up. Looking along up that product vanishes, so
// a horizontal axis perpendicular to up is used instead.
func (c *Camera) right() mgl32.Vec3 {
	r := c.direction.Cross(c.up)
	if r.Len() > 1e-6 {
		return r
	}
	forward := mgl32.Vec3{0, 0, -1}
	if abs(forward.Dot(c.up)) > 0.9 {
		forward = mgl32.Vec3{1, 0, 0}
	}
	return forward.Cross(c.up).Normalize()
}

// settle tilts the direction back to ±MaxPitch when it points further
// toward a pole and records the resulting pitch. It reports whether the
// direction changed.
func (c *Camera) settle() bool {
	e := c.elevation(c.direction)
	limited := clamp(e, -MaxPitch, MaxPitch)
	changed := limited != e
	if changed {
		q := mgl32.QuatRotate(mgl32.DegToRad(limited-e), c.right().Normalize())
		c.direction = q.Rotate(c.direction).Normalize()
	}
	c.pitch = clamp(c.elevation(c.direction), -MaxPitch, MaxPitch)
	return changed
}

// elevation returns the angle between dir and the horizon, in degrees.
func (c *Camera) elevation(dir mgl32.Vec3) float32 {
	s := clamp(dir.Dot(c.up), -1, 1)
	return float32(math.Asin(float64(s)) * 180 / math.Pi)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
