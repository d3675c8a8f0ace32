package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Direction is a camera-relative movement.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

// maxPitch keeps the camera from flipping over the vertical axis.
const maxPitch = math32.Pi/2 - 0.01

// Rotation returns the camera orientation matrix. The fragment shader builds
// the same matrix from the camera.angles uniform.
func (c *Camera) Rotation() mgl32.Mat3 {
	return mgl32.Rotate3DZ(c.Angles[0]).
		Mul3(mgl32.Rotate3DY(c.Angles[1])).
		Mul3(mgl32.Rotate3DX(c.Angles[2]))
}

// Rotate applies the camera orientation to v.
func (c *Camera) Rotate(v mgl32.Vec3) mgl32.Vec3 {
	return c.Rotation().Mul3x1(v)
}

func (c *Camera) ForwardAxis() mgl32.Vec3 { return c.Rotate(mgl32.Vec3{0, 0, 1}) }
func (c *Camera) RightAxis() mgl32.Vec3   { return c.Rotate(mgl32.Vec3{1, 0, 0}) }
func (c *Camera) UpAxis() mgl32.Vec3      { return c.Rotate(mgl32.Vec3{0, 1, 0}) }

// Move translates the camera by step along dir.
func (c *Camera) Move(dir Direction, step float32) {
	var axis mgl32.Vec3
	switch dir {
	case Forward:
		axis = c.ForwardAxis()
	case Backward:
		axis = c.ForwardAxis().Mul(-1)
	case Right:
		axis = c.RightAxis()
	case Left:
		axis = c.RightAxis().Mul(-1)
	case Up:
		axis = c.UpAxis()
	case Down:
		axis = c.UpAxis().Mul(-1)
	default:
		return
	}
	c.Position = c.Position.Add(axis.Mul(step))
}

// Turn adds yaw (around Y) and pitch (around the local X axis), clamping
// pitch short of straight up or down.
func (c *Camera) Turn(yaw, pitch float32) {
	c.Angles[1] += yaw
	c.Angles[2] = math32.Max(-maxPitch, math32.Min(maxPitch, c.Angles[2]+pitch))
}
