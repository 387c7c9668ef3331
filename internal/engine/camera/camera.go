// Package camera provides the free-fly camera used to explore the
// scene.
package camera

import (
	gomath "math"

	"github.com/Faultbox/skyfield/pkg/math"
)

// FreeCamera flies through the scene: yaw is unbounded, pitch is
// clamped so the view never flips over the poles. Angles are kept in
// degrees.
type FreeCamera struct {
	Position math.Vec3
	Dir      math.Vec3

	// Yaw and pitch in degrees. Pitch is clamped to [-MaxPitch, MaxPitch].
	Yaw   float32
	Pitch float32

	MaxPitch         float32
	MovementSpeed    float32
	MouseSensitivity float32
}

// NewFreeCamera returns a camera at the default vantage point, looking
// down onto the terrain.
func NewFreeCamera() *FreeCamera {
	c := &FreeCamera{
		Position:         math.Vec3{X: -12, Y: 32, Z: 32},
		Dir:              math.Vec3{X: 0.3, Y: -1.2, Z: -0.8}.Normalize(),
		MaxPitch:         70,
		MovementSpeed:    0.02,
		MouseSensitivity: 1.0,
	}
	c.Yaw = float32(gomath.Atan2(float64(c.Dir.X), float64(-c.Dir.Z)) * 180 / gomath.Pi)
	c.Pitch = float32(gomath.Asin(float64(c.Dir.Y)) * 180 / gomath.Pi)
	return c
}

// ViewMatrix returns the look-at matrix for the current position and
// direction.
func (c *FreeCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{Y: 1}
	return math.LookAt(c.Position, c.Position.Add(c.Dir), up)
}

// Move translates the camera in its own frame: dx strafes along the
// horizontal orthogonal, dy moves along the camera's up vector and dz
// along the view direction.
func (c *FreeCamera) Move(dx, dy, dz float32) {
	ortho := math.Vec3{X: -c.Dir.Z, Z: c.Dir.X}
	up := c.Dir.Cross(ortho).Normalize()

	c.Position = c.Position.Add(ortho.Scale(dx))
	c.Position = c.Position.Add(up.Scale(dy))
	c.Position = c.Position.Add(c.Dir.Scale(dz))
}

// Rotate applies yaw and pitch deltas in degrees. The pitch clamp
// keeps the derived direction well defined; the y component is
// reconstructed from the horizontal components so the direction stays
// unit length.
func (c *FreeCamera) Rotate(deltaYaw, deltaPitch float32) {
	c.Yaw = float32(gomath.Mod(float64(c.Yaw+deltaYaw*c.MouseSensitivity), 360))
	c.Pitch += deltaPitch * c.MouseSensitivity
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
	if c.Pitch < -c.MaxPitch {
		c.Pitch = -c.MaxPitch
	}

	radYaw := float64(c.Yaw) * gomath.Pi / 180
	radPitch := float64(c.Pitch) * gomath.Pi / 180

	c.Dir.X = float32(gomath.Sin(radYaw) * gomath.Cos(radPitch))
	c.Dir.Z = float32(-gomath.Cos(radYaw) * gomath.Cos(radPitch))

	y := gomath.Sqrt(gomath.Max(0, 1-float64(c.Dir.X*c.Dir.X)-float64(c.Dir.Z*c.Dir.Z)))
	if y > 1 {
		y = 1
	}
	c.Dir.Y = float32(y)
	if c.Pitch < 0 {
		c.Dir.Y = -c.Dir.Y
	}
}
