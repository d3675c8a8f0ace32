package renderer

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"

	"github.com/richinsley/goshadertrace/graphics"
	"github.com/richinsley/goshadertrace/options"
	"github.com/richinsley/goshadertrace/scene"
	"github.com/richinsley/goshadertrace/shader"
	"github.com/richinsley/goshadertrace/uniform"
)

const (
	VertexShaderFile   = "vertex_shader.vert"
	FragmentShaderFile = "fragment_shader.frag"
)

// quadVertices is a full-screen quad drawn as a 4-vertex triangle strip.
var quadVertices = []float32{
	-1.0, -1.0,
	-1.0, 1.0,
	1.0, -1.0,
	1.0, 1.0,
}

// Config holds the renderer settings taken from the command line.
type Config struct {
	ShaderDir string
	MoveStep  float32
	TurnStep  float32
}

// ConfigFromOptions converts parsed flags into a Config.
func ConfigFromOptions(opts *options.RenderOptions) Config {
	return Config{
		ShaderDir: *opts.ShaderDir,
		MoveStep:  float32(*opts.MoveStep),
		TurnStep:  float32(*opts.TurnStep),
	}
}

// Renderer drives one scene through a single full-screen ray tracing
// program. It is the only writer of pipeline state and must be used from
// the thread owning the graphics context.
type Renderer struct {
	context graphics.Context
	pipe    graphics.Pipeline
	program *shader.LinkedProgram
	scene   *scene.Scene
	config  Config

	cameraBindings uniform.CameraBindings
	sphereBindings []uniform.SphereBindings
	frameBindings  uniform.FrameBindings

	orderer    scene.Orderer
	quadVAO    uint32
	frameCount int64
}

// New compiles and links the ray tracing program for sc, resolves every
// uniform the scene needs and uploads the full-screen quad.
func New(ctx graphics.Context, pipe graphics.Pipeline, sc *scene.Scene, config Config) (*Renderer, error) {
	if len(sc.Spheres) == 0 {
		return nil, fmt.Errorf("%w: no spheres", scene.ErrInvalidScene)
	}
	r := &Renderer{
		context: ctx,
		pipe:    pipe,
		scene:   sc,
		config:  config,
	}

	linked, err := r.buildProgram()
	if err != nil {
		return nil, err
	}
	r.program = linked
	r.program.Bind()

	if err := r.acquireBindings(); err != nil {
		r.program.Unbind()
		r.program.Delete()
		return nil, fmt.Errorf("failed to bind scene uniforms: %w", err)
	}

	r.quadVAO = pipe.NewQuad(quadVertices)
	// Errors raised during setup must not be reported against frame 0.
	if err := pipe.Err(); err != nil {
		r.program.Unbind()
		r.Shutdown()
		return nil, fmt.Errorf("renderer setup failed: %w", err)
	}
	log.Printf("Renderer ready: program %d, %d sphere slot(s)", r.program.ID(), len(r.sphereBindings))
	return r, nil
}

func (r *Renderer) buildProgram() (*shader.LinkedProgram, error) {
	prog := shader.NewProgram(r.pipe)
	prog.Define("MAX_SPHERES", strconv.Itoa(len(r.scene.Spheres)))
	stages := []struct {
		file  string
		stage graphics.ShaderStage
	}{
		{VertexShaderFile, graphics.VertexStage},
		{FragmentShaderFile, graphics.FragmentStage},
	}
	for _, s := range stages {
		if _, err := prog.AddShader(filepath.Join(r.config.ShaderDir, s.file), s.stage); err != nil {
			prog.Discard()
			return nil, err
		}
	}
	return prog.Link()
}

func (r *Renderer) acquireBindings() error {
	var err error
	if r.cameraBindings, err = uniform.AcquireCamera(r.program, "camera"); err != nil {
		return err
	}
	if r.sphereBindings, err = uniform.AcquireSpheres(r.program, len(r.scene.Spheres)); err != nil {
		return err
	}
	if r.frameBindings, err = uniform.AcquireFrame(r.program); err != nil {
		return err
	}
	return nil
}

// Program returns the linked ray tracing program.
func (r *Renderer) Program() *shader.LinkedProgram {
	return r.program
}

// SphereBindings returns the per-slot bindings, one per loaded sphere.
func (r *Renderer) SphereBindings() []uniform.SphereBindings {
	return r.sphereBindings
}

// CameraBindings returns the camera bindings.
func (r *Renderer) CameraBindings() uniform.CameraBindings {
	return r.cameraBindings
}

// RenderFrame moves the camera from input, pushes every uniform and draws
// the quad.
func (r *Renderer) RenderFrame() error {
	applyInput(r.context, &r.scene.Camera, r.config.MoveStep, r.config.TurnStep)

	// Slot i receives the i-th sphere in draw order; bindings stay fixed.
	order, _ := r.orderer.Order(r.scene.Spheres, r.scene.Camera.Position)

	r.cameraBindings.Push(r.pipe, r.scene.Camera)
	for slot, idx := range order {
		r.sphereBindings[slot].Push(r.pipe, r.scene.Spheres[idx])
	}

	width, height := r.context.GetFramebufferSize()
	r.frameBindings.Push(r.pipe, width, height)
	r.pipe.Viewport(0, 0, int32(width), int32(height))

	r.pipe.Draw(r.quadVAO, graphics.TriangleStrip, 0, 4)
	if err := r.pipe.Err(); err != nil {
		return fmt.Errorf("frame %d: draw failed: %w", r.frameCount, err)
	}
	r.frameCount++
	return nil
}

// Run renders until the window asks to close.
func (r *Renderer) Run() error {
	defer r.program.Unbind()
	for !r.context.ShouldClose() {
		if err := r.RenderFrame(); err != nil {
			return err
		}
		r.context.EndFrame()
	}
	log.Printf("Render loop finished after %d frame(s)", r.frameCount)
	return nil
}

// Shutdown releases the program and the quad.
func (r *Renderer) Shutdown() {
	r.program.Delete()
	r.pipe.DeleteQuad(r.quadVAO)
}
