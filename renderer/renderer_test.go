package renderer

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshadertrace/graphics"
	"github.com/richinsley/goshadertrace/graphics/fakegl"
	"github.com/richinsley/goshadertrace/scene"
	"github.com/richinsley/goshadertrace/shader"
	"github.com/richinsley/goshadertrace/uniform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shaderDir = "../shaders"

func declaredPipeline(spheres int) *fakegl.Pipeline {
	pipe := fakegl.New("camera.position", "camera.angles", "camera.fov", "width", "height")
	for i := 0; i < spheres; i++ {
		p := uniform.SphereName(i)
		pipe.Declare(p+".position", p+".radius", p+".material.albedo", p+".material.metallic", p+".material.roughness")
	}
	return pipe
}

func sphereAt(z float32, albedo float32) scene.Sphere {
	return scene.Sphere{
		Position: mgl32.Vec3{0, 0, z},
		Radius:   0.5,
		Material: scene.Material{Albedo: mgl32.Vec3{albedo, albedo, albedo}, Roughness: 0.5},
	}
}

func testConfig() Config {
	return Config{ShaderDir: shaderDir, MoveStep: 0.05, TurnStep: 0.02}
}

func TestNewSingleSphereScene(t *testing.T) {
	sc, err := scene.Load(filepath.Join("..", "scene", "testdata", "single.json"))
	require.NoError(t, err)

	pipe := declaredPipeline(1)
	r, err := New(fakegl.NewContext(640, 480), pipe, sc, testConfig())
	require.NoError(t, err)

	assert.Len(t, r.CameraBindings().Handles(), 3)
	require.Len(t, r.SphereBindings(), 1)
	assert.NotEmpty(t, r.SphereBindings()[0].Handles())
	assert.Equal(t, r.Program().ID(), pipe.Current, "program is bound after setup")

	var frag *fakegl.Shader
	for _, s := range pipe.Shaders {
		if s.Stage == graphics.FragmentStage {
			frag = s
		}
	}
	require.NotNil(t, frag)
	assert.Contains(t, frag.Source, "#define MAX_SPHERES 1\n")
	assert.True(t, frag.Deleted)
}

func TestNewBindingSetPerSphere(t *testing.T) {
	sc := &scene.Scene{
		Camera:  scene.Camera{FOV: 1},
		Spheres: []scene.Sphere{sphereAt(1, 0.1), sphereAt(2, 0.2), sphereAt(3, 0.3)},
	}
	r, err := New(fakegl.NewContext(640, 480), declaredPipeline(3), sc, testConfig())
	require.NoError(t, err)

	require.Len(t, r.SphereBindings(), 3)
	for i, b := range r.SphereBindings() {
		assert.Equal(t, uniform.SphereName(i)+".position", b.Position.Name)
		assert.Equal(t, uniform.SphereName(i)+".material.roughness", b.Material.Roughness.Name)
	}
}

func TestNewFailsOnUndeclaredUniform(t *testing.T) {
	sc := &scene.Scene{Camera: scene.Camera{FOV: 1}, Spheres: []scene.Sphere{sphereAt(1, 1), sphereAt(2, 1)}}
	pipe := declaredPipeline(1)

	_, err := New(fakegl.NewContext(640, 480), pipe, sc, testConfig())
	require.ErrorIs(t, err, uniform.ErrUnresolved)
	assert.Contains(t, err.Error(), "spheres[1].position")
	assert.Equal(t, uint32(0), pipe.Current)
}

func TestNewFailsOnMissingShader(t *testing.T) {
	sc := &scene.Scene{Camera: scene.Camera{FOV: 1}, Spheres: []scene.Sphere{sphereAt(1, 1)}}
	cfg := testConfig()
	cfg.ShaderDir = t.TempDir()

	_, err := New(fakegl.NewContext(640, 480), declaredPipeline(1), sc, cfg)
	assert.ErrorIs(t, err, shader.ErrMissingSource)
	assert.Contains(t, err.Error(), VertexShaderFile)
}

func TestNewFailsOnCompileError(t *testing.T) {
	sc := &scene.Scene{Camera: scene.Camera{FOV: 1}, Spheres: []scene.Sphere{sphereAt(1, 1)}}
	pipe := declaredPipeline(1)
	pipe.CompileError = "0:12(3): error: `spheres' undeclared"
	pipe.CompileFailOn = "uniform Camera camera;"

	_, err := New(fakegl.NewContext(640, 480), pipe, sc, testConfig())
	assert.ErrorIs(t, err, shader.ErrCompile)
	assert.Contains(t, err.Error(), pipe.CompileError)

	// The vertex stage compiled before the failure; nothing is left behind.
	require.Len(t, pipe.Shaders, 1)
	for _, s := range pipe.Shaders {
		assert.Equal(t, graphics.VertexStage, s.Stage)
		assert.True(t, s.Deleted)
	}
	require.Len(t, pipe.Programs, 1)
	for _, p := range pipe.Programs {
		assert.True(t, p.Deleted)
	}
}

func TestNewReportsSetupDriverError(t *testing.T) {
	sc := &scene.Scene{Camera: scene.Camera{FOV: 1}, Spheres: []scene.Sphere{sphereAt(1, 1)}}
	pipe := declaredPipeline(1)
	pipe.Raise(assert.AnError)
	pipe.Raise(errors.New("second"))

	r, err := New(fakegl.NewContext(100, 100), pipe, sc, testConfig())
	assert.Nil(t, r)
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "setup")
	assert.NoError(t, pipe.Err(), "the whole queue is cleared")
	assert.Equal(t, uint32(0), pipe.Current)
	assert.Empty(t, pipe.Quads)
	for _, p := range pipe.Programs {
		assert.True(t, p.Deleted)
	}
}

func TestNewFailsOnLinkError(t *testing.T) {
	sc := &scene.Scene{Camera: scene.Camera{FOV: 1}, Spheres: []scene.Sphere{sphereAt(1, 1)}}
	pipe := declaredPipeline(1)
	pipe.LinkError = "error: vertex shader output mismatch"

	_, err := New(fakegl.NewContext(640, 480), pipe, sc, testConfig())
	assert.ErrorIs(t, err, shader.ErrLink)
}

func TestRenderFramePushesInDrawOrder(t *testing.T) {
	// Distances from the origin 5, 1, 3: farthest first is 0, 2, 1.
	sc := &scene.Scene{
		Camera:  scene.Camera{FOV: 1},
		Spheres: []scene.Sphere{sphereAt(5, 0.5), sphereAt(1, 0.1), sphereAt(3, 0.3)},
	}
	pipe := declaredPipeline(3)
	ctx := fakegl.NewContext(800, 600)
	r, err := New(ctx, pipe, sc, testConfig())
	require.NoError(t, err)

	require.NoError(t, r.RenderFrame())

	assert.Equal(t, []float32{0, 0, 5}, pipe.Value("spheres[0].position"))
	assert.Equal(t, []float32{0, 0, 3}, pipe.Value("spheres[1].position"))
	assert.Equal(t, []float32{0, 0, 1}, pipe.Value("spheres[2].position"))
	assert.Equal(t, []float32{0.3, 0.3, 0.3}, pipe.Value("spheres[1].material.albedo"))

	assert.Equal(t, []float32{800}, pipe.Value("width"))
	assert.Equal(t, []float32{600}, pipe.Value("height"))
	assert.Equal(t, [2]int32{800, 600}, pipe.ViewportSize)

	require.Len(t, pipe.Draws, 1)
	draw := pipe.Draws[0]
	assert.Equal(t, graphics.TriangleStrip, draw.Mode)
	assert.Equal(t, int32(4), draw.Count)
	assert.Equal(t, r.Program().ID(), draw.Program)
	assert.Len(t, pipe.Quads[draw.VAO], 8)
}

func TestRenderFrameReordersWhenCameraMoves(t *testing.T) {
	sc := &scene.Scene{
		Camera:  scene.Camera{FOV: 1},
		Spheres: []scene.Sphere{sphereAt(5, 0.5), sphereAt(1, 0.1)},
	}
	pipe := declaredPipeline(2)
	ctx := fakegl.NewContext(100, 100)
	cfg := testConfig()
	cfg.MoveStep = 5
	r, err := New(ctx, pipe, sc, cfg)
	require.NoError(t, err)

	require.NoError(t, r.RenderFrame())
	assert.Equal(t, []float32{0, 0, 5}, pipe.Value("spheres[0].position"))

	// Camera jumps to z=5: sphere 1 is now the farther one.
	ctx.Pressed[graphics.KeyW] = true
	require.NoError(t, r.RenderFrame())
	assert.Equal(t, []float32{0, 0, 5}, pipe.Value("camera.position"))
	assert.Equal(t, []float32{0, 0, 1}, pipe.Value("spheres[0].position"))
	assert.Equal(t, []float32{0, 0, 5}, pipe.Value("spheres[1].position"))
}

func TestRenderFrameWritesSameLocationsEachFrame(t *testing.T) {
	sc := &scene.Scene{Camera: scene.Camera{FOV: 1}, Spheres: []scene.Sphere{sphereAt(2, 1), sphereAt(4, 1)}}
	pipe := declaredPipeline(2)
	ctx := fakegl.NewContext(100, 100)
	r, err := New(ctx, pipe, sc, testConfig())
	require.NoError(t, err)

	require.NoError(t, r.RenderFrame())
	first := pipe.WrittenLocations()
	pipe.ResetWrites()
	ctx.Pressed[graphics.KeyD] = true
	ctx.Width = 300
	require.NoError(t, r.RenderFrame())
	assert.Equal(t, first, pipe.WrittenLocations())
	assert.Len(t, first, len(pipe.Uniforms))
}

func TestRenderFrameReportsDriverError(t *testing.T) {
	sc := &scene.Scene{Camera: scene.Camera{FOV: 1}, Spheres: []scene.Sphere{sphereAt(1, 1)}}
	pipe := declaredPipeline(1)
	r, err := New(fakegl.NewContext(100, 100), pipe, sc, testConfig())
	require.NoError(t, err)

	pipe.DrawError = assert.AnError
	err = r.RenderFrame()
	assert.ErrorIs(t, err, assert.AnError)
}

func TestRunUntilClose(t *testing.T) {
	sc := &scene.Scene{Camera: scene.Camera{FOV: 1}, Spheres: []scene.Sphere{sphereAt(1, 1)}}
	pipe := declaredPipeline(1)
	ctx := fakegl.NewContext(100, 100)
	ctx.CloseAfter = 3
	r, err := New(ctx, pipe, sc, testConfig())
	require.NoError(t, err)

	require.NoError(t, r.Run())
	assert.Len(t, pipe.Draws, 3)
	assert.Equal(t, 3, ctx.Frames)
	assert.Equal(t, uint32(0), pipe.Current, "program is unbound when the loop ends")

	r.Shutdown()
	assert.True(t, pipe.Programs[r.Program().ID()].Deleted)
	assert.Empty(t, pipe.Quads)
}

var uniformDecl = regexp.MustCompile(`(?m)^uniform\s+(\w+)\s+(\w+)`)

func TestFragmentShaderDeclaresBoundUniforms(t *testing.T) {
	src, err := os.ReadFile(filepath.Join(shaderDir, FragmentShaderFile))
	require.NoError(t, err)

	declared := map[string]string{}
	for _, m := range uniformDecl.FindAllStringSubmatch(string(src), -1) {
		declared[m[2]] = m[1]
	}
	assert.Equal(t, map[string]string{
		"camera":  "Camera",
		"spheres": "Sphere",
		"width":   "float",
		"height":  "float",
	}, declared)
	assert.Contains(t, string(src), "uniform Sphere spheres[MAX_SPHERES];")
	assert.Regexp(t, `struct Camera \{\s+vec3\s+position;\s+vec3\s+angles;\s+float fov;`, string(src))
	assert.Regexp(t, `struct Material \{\s+vec3\s+albedo;\s+float metallic;\s+float roughness;`, string(src))
	assert.Regexp(t, `struct Sphere \{\s+vec3\s+position;\s+float\s+radius;\s+Material material;`, string(src))
}
