package shader

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/richinsley/goshadertrace/graphics"
)

var (
	// ErrMissingSource is returned when a shader source file cannot be read.
	ErrMissingSource = errors.New("missing shader source")
	// ErrCompile is returned when the driver rejects a shader stage.
	ErrCompile = errors.New("shader compilation failed")
	// ErrLink is returned when the driver fails to link a program.
	ErrLink = errors.New("program link failed")
	// ErrConsumed is returned when an UnlinkedProgram is used after Link.
	ErrConsumed = errors.New("program already linked")
)

// UnlinkedProgram is a program that still accepts shader stages. It has no
// Bind method: the only way to get a bindable program is Link.
type UnlinkedProgram struct {
	pipe     graphics.Pipeline
	id       uint32
	shaders  []uint32
	defines  []define
	consumed bool
}

// LinkedProgram is a successfully linked program. It accepts no further
// stages.
type LinkedProgram struct {
	pipe graphics.Pipeline
	id   uint32
}

// NewProgram creates an empty program object on pipe.
func NewProgram(pipe graphics.Pipeline) *UnlinkedProgram {
	return &UnlinkedProgram{
		pipe: pipe,
		id:   pipe.CreateProgram(),
	}
}

// Define records a preprocessor definition injected into every stage added
// afterwards.
func (p *UnlinkedProgram) Define(name, value string) {
	p.defines = append(p.defines, define{name: name, value: value})
}

// AddShader reads the stage source from path, compiles it and records it for
// linking. It returns the stage id.
func (p *UnlinkedProgram) AddShader(path string, stage graphics.ShaderStage) (uint32, error) {
	if p.consumed {
		return 0, ErrConsumed
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %w", ErrMissingSource, path, err)
	}
	return p.AddShaderSource(path, string(source), stage)
}

// AddShaderSource compiles source as a stage. name only labels errors.
func (p *UnlinkedProgram) AddShaderSource(name, source string, stage graphics.ShaderStage) (uint32, error) {
	if p.consumed {
		return 0, ErrConsumed
	}
	id, err := p.pipe.CompileShader(injectDefines(source, p.defines), stage)
	if err != nil {
		return 0, fmt.Errorf("%w: %s stage %s: %v", ErrCompile, stage, name, err)
	}
	p.shaders = append(p.shaders, id)
	return id, nil
}

// Link attaches every recorded stage, links the program and releases the
// stages. The UnlinkedProgram cannot be used afterwards, even on failure.
func (p *UnlinkedProgram) Link() (*LinkedProgram, error) {
	if p.consumed {
		return nil, ErrConsumed
	}
	p.consumed = true

	for _, id := range p.shaders {
		p.pipe.AttachShader(p.id, id)
	}
	linkErr := p.pipe.LinkProgram(p.id)
	for _, id := range p.shaders {
		p.pipe.DeleteShader(id)
	}
	p.shaders = nil

	if linkErr != nil {
		p.pipe.DeleteProgram(p.id)
		return nil, fmt.Errorf("%w: %v", ErrLink, linkErr)
	}
	log.Printf("Linked shader program %d", p.id)
	return &LinkedProgram{pipe: p.pipe, id: p.id}, nil
}

// Discard releases the program object and every compiled stage without
// linking. The UnlinkedProgram cannot be used afterwards.
func (p *UnlinkedProgram) Discard() {
	if p.consumed {
		return
	}
	p.consumed = true
	for _, id := range p.shaders {
		p.pipe.DeleteShader(id)
	}
	p.shaders = nil
	p.pipe.DeleteProgram(p.id)
}

// ID returns the driver's program id.
func (p *LinkedProgram) ID() uint32 {
	return p.id
}

// Bind makes p the active program.
func (p *LinkedProgram) Bind() {
	p.pipe.UseProgram(p.id)
}

// Unbind restores "no program active".
func (p *LinkedProgram) Unbind() {
	p.pipe.UseProgram(0)
}

// Delete releases the program object.
func (p *LinkedProgram) Delete() {
	p.pipe.DeleteProgram(p.id)
}

// UniformLocation queries the driver for name. Callers normally go through
// uniform.Resolve, which rejects negative locations.
func (p *LinkedProgram) UniformLocation(name string) int32 {
	return p.pipe.GetUniformLocation(p.id, name)
}
