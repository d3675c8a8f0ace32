package uniform

import (
	"fmt"

	"github.com/richinsley/goshadertrace/graphics"
	"github.com/richinsley/goshadertrace/scene"
	"github.com/richinsley/goshadertrace/shader"
)

// CameraBindings holds camera.position, camera.angles and camera.fov.
type CameraBindings struct {
	Position Handle
	Angles   Handle
	FOV      Handle
}

// AcquireCamera resolves the camera fields under prefix (normally "camera").
func AcquireCamera(program *shader.LinkedProgram, prefix string) (CameraBindings, error) {
	r := resolver{program: program, prefix: prefix}
	b := CameraBindings{
		Position: r.get("position"),
		Angles:   r.get("angles"),
		FOV:      r.get("fov"),
	}
	return b, r.err
}

// Handles returns position, angles and fov in that order.
func (b CameraBindings) Handles() []Handle {
	return []Handle{b.Position, b.Angles, b.FOV}
}

// Push writes c to the camera uniforms.
func (b CameraBindings) Push(pipe graphics.Pipeline, c scene.Camera) {
	b.Position.SetVec3(pipe, c.Position)
	b.Angles.SetVec3(pipe, c.Angles)
	b.FOV.SetFloat(pipe, c.FOV)
}

// MaterialBindings holds albedo, metallic and roughness.
type MaterialBindings struct {
	Albedo    Handle
	Metallic  Handle
	Roughness Handle
}

// AcquireMaterial resolves the material fields under prefix, for example
// "spheres[2].material".
func AcquireMaterial(program *shader.LinkedProgram, prefix string) (MaterialBindings, error) {
	r := resolver{program: program, prefix: prefix}
	b := MaterialBindings{
		Albedo:    r.get("albedo"),
		Metallic:  r.get("metallic"),
		Roughness: r.get("roughness"),
	}
	return b, r.err
}

// Handles returns albedo, metallic and roughness in that order.
func (b MaterialBindings) Handles() []Handle {
	return []Handle{b.Albedo, b.Metallic, b.Roughness}
}

// Push writes m to the material uniforms.
func (b MaterialBindings) Push(pipe graphics.Pipeline, m scene.Material) {
	b.Albedo.SetVec3(pipe, m.Albedo)
	b.Metallic.SetFloat(pipe, m.Metallic)
	b.Roughness.SetFloat(pipe, m.Roughness)
}

// SphereBindings holds position and radius followed by the sphere's
// material.
type SphereBindings struct {
	Position Handle
	Radius   Handle
	Material MaterialBindings
}

// SphereName returns the uniform prefix of sphere slot i.
func SphereName(i int) string {
	return fmt.Sprintf("spheres[%d]", i)
}

// AcquireSphere resolves a sphere under prefix ("sphere" or "spheres[i]").
func AcquireSphere(program *shader.LinkedProgram, prefix string) (SphereBindings, error) {
	r := resolver{program: program, prefix: prefix}
	b := SphereBindings{
		Position: r.get("position"),
		Radius:   r.get("radius"),
	}
	if r.err != nil {
		return b, r.err
	}
	var err error
	b.Material, err = AcquireMaterial(program, prefix+".material")
	return b, err
}

// AcquireSpheres resolves n sphere slots, spheres[0] through spheres[n-1].
func AcquireSpheres(program *shader.LinkedProgram, n int) ([]SphereBindings, error) {
	out := make([]SphereBindings, n)
	for i := range out {
		b, err := AcquireSphere(program, SphereName(i))
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// Handles returns position and radius followed by the material handles.
func (b SphereBindings) Handles() []Handle {
	return append([]Handle{b.Position, b.Radius}, b.Material.Handles()...)
}

// Push writes s, including its material, into this slot.
func (b SphereBindings) Push(pipe graphics.Pipeline, s scene.Sphere) {
	b.Position.SetVec3(pipe, s.Position)
	b.Radius.SetFloat(pipe, s.Radius)
	b.Material.Push(pipe, s.Material)
}

// FrameBindings holds the per-frame viewport size.
type FrameBindings struct {
	Width  Handle
	Height Handle
}

// AcquireFrame resolves the top-level width and height uniforms.
func AcquireFrame(program *shader.LinkedProgram) (FrameBindings, error) {
	r := resolver{program: program}
	b := FrameBindings{
		Width:  r.get("width"),
		Height: r.get("height"),
	}
	return b, r.err
}

// Handles returns width and height in that order.
func (b FrameBindings) Handles() []Handle {
	return []Handle{b.Width, b.Height}
}

// Push writes the framebuffer size.
func (b FrameBindings) Push(pipe graphics.Pipeline, width, height int) {
	b.Width.SetFloat(pipe, float32(width))
	b.Height.SetFloat(pipe, float32(height))
}
