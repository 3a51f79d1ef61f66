// Package lighting provides the directional light that shades the scene.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// UniformTarget receives light parameters. *shader.Program satisfies it.
type UniformTarget interface {
	SetVec3(name string, v mgl32.Vec3)
	SetFloat(name string, f float32)
}

// Sun is a directional light infinitely far away.
type Sun struct {
	Direction mgl32.Vec3 // unit vector pointing towards the light
	Color     mgl32.Vec3
	Ambient   float32 // 0..1 share of Color applied regardless of facing
}

// SunDirection converts azimuth/elevation angles (degrees) to a light
// direction. Azimuth rotates around the Y axis starting at +Z, elevation is
// measured up from the horizon.
func SunDirection(azimuth, elevation float32) mgl32.Vec3 {
	az := float64(azimuth) * math.Pi / 180.0
	el := float64(elevation) * math.Pi / 180.0

	// Spherical to Cartesian conversion
	x := float32(math.Cos(el) * math.Sin(az))
	y := float32(math.Sin(el))
	z := float32(math.Cos(el) * math.Cos(az))

	return mgl32.Vec3{x, y, z}
}

// NewSun builds a sun from angles in degrees. Ambient is clamped to [0, 1].
func NewSun(azimuth, elevation float32, color mgl32.Vec3, ambient float32) Sun {
	if ambient < 0 {
		ambient = 0
	} else if ambient > 1 {
		ambient = 1
	}
	return Sun{
		Direction: SunDirection(azimuth, elevation),
		Color:     color,
		Ambient:   ambient,
	}
}

// Bind pushes the light to the "lightDir", "lightColor" and "ambient"
// uniforms of the active program.
func (s Sun) Bind(target UniformTarget) {
	target.SetVec3("lightDir", s.Direction)
	target.SetVec3("lightColor", s.Color)
	target.SetFloat("ambient", s.Ambient)
}
