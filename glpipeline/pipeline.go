package glpipeline

import (
	"fmt"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/goshadertrace/graphics"
)

var glInitOnce sync.Once

// Pipeline implements graphics.Pipeline on top of OpenGL 4.1 core.
// All methods must be called from the thread owning the current context.
type Pipeline struct {
	vbos map[uint32]uint32 // vao -> vbo
}

// New initializes the OpenGL function pointers for the current context.
func New() (*Pipeline, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	return &Pipeline{vbos: make(map[uint32]uint32)}, nil
}

// Version returns the GL_VERSION string of the current context.
func (p *Pipeline) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (p *Pipeline) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (p *Pipeline) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func stageType(stage graphics.ShaderStage) (uint32, error) {
	switch stage {
	case graphics.VertexStage:
		return gl.VERTEX_SHADER, nil
	case graphics.FragmentStage:
		return gl.FRAGMENT_SHADER, nil
	default:
		return 0, fmt.Errorf("unsupported shader stage %d", stage)
	}
}

func (p *Pipeline) CompileShader(source string, stage graphics.ShaderStage) (uint32, error) {
	shaderType, err := stageType(stage)
	if err != nil {
		return 0, err
	}
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s", strings.TrimRight(logText, "\x00"))
	}
	return shader, nil
}

func (p *Pipeline) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (p *Pipeline) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (p *Pipeline) LinkProgram(program uint32) error {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
		return fmt.Errorf("%s", strings.TrimRight(logText, "\x00"))
	}
	return nil
}

func (p *Pipeline) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (p *Pipeline) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (p *Pipeline) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (p *Pipeline) Uniform3f(location int32, x, y, z float32) {
	gl.Uniform3f(location, x, y, z)
}

// NewQuad uploads 2D positions into attribute 0 of a new vertex array.
func (p *Pipeline) NewQuad(vertices []float32) uint32 {
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	p.vbos[vao] = vbo
	return vao
}

func (p *Pipeline) DeleteQuad(vao uint32) {
	if vbo, ok := p.vbos[vao]; ok {
		gl.DeleteBuffers(1, &vbo)
		delete(p.vbos, vao)
	}
	gl.DeleteVertexArrays(1, &vao)
}

func (p *Pipeline) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (p *Pipeline) Draw(vao uint32, mode graphics.Primitive, first, count int32) {
	glMode := uint32(gl.TRIANGLES)
	if mode == graphics.TriangleStrip {
		glMode = gl.TRIANGLE_STRIP
	}
	gl.BindVertexArray(vao)
	gl.DrawArrays(glMode, first, count)
	gl.BindVertexArray(0)
}

// Err returns the oldest pending error and clears the rest of the queue.
func (p *Pipeline) Err() error {
	var first error
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == nil {
			first = &Error{Code: code}
		}
	}
	return first
}

// Error is a pending OpenGL error code.
type Error struct {
	Code uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("opengl error 0x%04X (%s)", e.Code, errorName(e.Code))
}

func errorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case gl.INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case gl.INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case gl.OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	default:
		return "unknown"
	}
}
