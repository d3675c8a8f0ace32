// Package scene holds the ray-traced scene description: one camera and an
// ordered list of spheres, loaded once from a config file.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is the single viewpoint. Angles are radians applied as
// Rz(Angles[0]) * Ry(Angles[1]) * Rx(Angles[2]); FOV is the vertical field
// of view in radians.
type Camera struct {
	Position mgl32.Vec3
	Angles   mgl32.Vec3
	FOV      float32
}

// Material is the surface description of a sphere.
type Material struct {
	Albedo    mgl32.Vec3
	Metallic  float32
	Roughness float32
}

// Sphere is one ray traced sphere with its material.
type Sphere struct {
	Position mgl32.Vec3
	Radius   float32
	Material Material
}

// Scene is a camera plus spheres in load order. Spheres do not change after
// loading; only the camera is mutated while rendering.
type Scene struct {
	Camera  Camera
	Spheres []Sphere
}
