// Package fakegl provides an in-memory graphics.Pipeline that records every
// call. It stands in for a real driver in tests.
package fakegl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/richinsley/goshadertrace/graphics"
)

// Shader is a compiled stage as seen by the fake driver.
type Shader struct {
	Source  string
	Stage   graphics.ShaderStage
	Deleted bool
}

// Program is a program object as seen by the fake driver.
type Program struct {
	Attached []uint32
	Linked   bool
	Deleted  bool
}

// DrawCall records one Draw invocation.
type DrawCall struct {
	VAO          uint32
	Mode         graphics.Primitive
	First, Count int32
	Program      uint32
}

// Pipeline is a recording fake. Uniform names listed in Uniforms resolve to
// the mapped location; any other name resolves to -1.
type Pipeline struct {
	Uniforms map[string]int32

	// CompileError, when non-empty, fails every compile whose source
	// contains CompileFailOn (or every compile if CompileFailOn is empty).
	CompileError  string
	CompileFailOn string
	LinkError     string
	DrawError     error

	Shaders  map[uint32]*Shader
	Programs map[uint32]*Program
	Current  uint32

	// Values holds the last value written to each location.
	Values map[int32][]float32
	// Writes counts uniform writes per location.
	Writes map[int32]int

	ViewportSize [2]int32
	Draws        []DrawCall
	Quads        map[uint32][]float32

	nextID  uint32
	pending []error
}

// New returns a fake that declares the given uniform names, assigning them
// consecutive locations from zero in argument order.
func New(uniforms ...string) *Pipeline {
	p := &Pipeline{
		Uniforms: make(map[string]int32),
		Shaders:  make(map[uint32]*Shader),
		Programs: make(map[uint32]*Program),
		Values:   make(map[int32][]float32),
		Writes:   make(map[int32]int),
		Quads:    make(map[uint32][]float32),
	}
	p.Declare(uniforms...)
	return p
}

// Declare adds uniform names with locations following the existing ones.
func (p *Pipeline) Declare(names ...string) {
	for _, name := range names {
		if _, ok := p.Uniforms[name]; ok {
			continue
		}
		p.Uniforms[name] = int32(len(p.Uniforms))
	}
}

func (p *Pipeline) id() uint32 {
	p.nextID++
	return p.nextID
}

func (p *Pipeline) CreateProgram() uint32 {
	id := p.id()
	p.Programs[id] = &Program{}
	return id
}

func (p *Pipeline) DeleteProgram(program uint32) {
	if prog, ok := p.Programs[program]; ok {
		prog.Deleted = true
	}
}

func (p *Pipeline) CompileShader(source string, stage graphics.ShaderStage) (uint32, error) {
	if p.CompileError != "" && (p.CompileFailOn == "" || strings.Contains(source, p.CompileFailOn)) {
		return 0, errors.New(p.CompileError)
	}
	id := p.id()
	p.Shaders[id] = &Shader{Source: source, Stage: stage}
	return id, nil
}

func (p *Pipeline) AttachShader(program, shader uint32) {
	prog, ok := p.Programs[program]
	if !ok {
		p.pending = append(p.pending, fmt.Errorf("attach to unknown program %d", program))
		return
	}
	prog.Attached = append(prog.Attached, shader)
}

func (p *Pipeline) DeleteShader(shader uint32) {
	if s, ok := p.Shaders[shader]; ok {
		s.Deleted = true
	}
}

func (p *Pipeline) LinkProgram(program uint32) error {
	if p.LinkError != "" {
		return errors.New(p.LinkError)
	}
	prog, ok := p.Programs[program]
	if !ok {
		return fmt.Errorf("unknown program %d", program)
	}
	for _, id := range prog.Attached {
		if s := p.Shaders[id]; s == nil || s.Deleted {
			return fmt.Errorf("shader %d is not valid", id)
		}
	}
	prog.Linked = true
	return nil
}

func (p *Pipeline) UseProgram(program uint32) {
	p.Current = program
}

func (p *Pipeline) GetUniformLocation(program uint32, name string) int32 {
	prog, ok := p.Programs[program]
	if !ok || !prog.Linked {
		return -1
	}
	if loc, ok := p.Uniforms[name]; ok {
		return loc
	}
	return -1
}

func (p *Pipeline) write(location int32, v ...float32) {
	if location < 0 {
		p.pending = append(p.pending, fmt.Errorf("write to invalid location %d", location))
		return
	}
	p.Values[location] = v
	p.Writes[location]++
}

func (p *Pipeline) Uniform1f(location int32, v float32) { p.write(location, v) }

func (p *Pipeline) Uniform3f(location int32, x, y, z float32) { p.write(location, x, y, z) }

// Value returns the last value written to the named uniform.
func (p *Pipeline) Value(name string) []float32 {
	loc, ok := p.Uniforms[name]
	if !ok {
		return nil
	}
	return p.Values[loc]
}

// WrittenLocations returns the set of locations written at least once.
func (p *Pipeline) WrittenLocations() map[int32]bool {
	set := make(map[int32]bool, len(p.Writes))
	for loc := range p.Writes {
		set[loc] = true
	}
	return set
}

// ResetWrites clears recorded uniform writes.
func (p *Pipeline) ResetWrites() {
	p.Values = make(map[int32][]float32)
	p.Writes = make(map[int32]int)
}

func (p *Pipeline) NewQuad(vertices []float32) uint32 {
	id := p.id()
	p.Quads[id] = append([]float32(nil), vertices...)
	return id
}

func (p *Pipeline) DeleteQuad(vao uint32) {
	delete(p.Quads, vao)
}

func (p *Pipeline) Viewport(x, y, width, height int32) {
	p.ViewportSize = [2]int32{width, height}
}

func (p *Pipeline) Draw(vao uint32, mode graphics.Primitive, first, count int32) {
	p.Draws = append(p.Draws, DrawCall{VAO: vao, Mode: mode, First: first, Count: count, Program: p.Current})
	if p.DrawError != nil {
		p.pending = append(p.pending, p.DrawError)
	}
}

// Raise queues err as if the driver had flagged it.
func (p *Pipeline) Raise(err error) {
	p.pending = append(p.pending, err)
}

func (p *Pipeline) Err() error {
	if len(p.pending) == 0 {
		return nil
	}
	err := p.pending[0]
	p.pending = nil
	return err
}

// Context is a fake graphics.Context driven by tests.
type Context struct {
	Width, Height int
	Pressed       map[graphics.Key]bool
	// CloseAfter makes ShouldClose report true once EndFrame has been
	// called this many times.
	CloseAfter int
	Frames     int
}

// NewContext returns a fake window of the given framebuffer size.
func NewContext(width, height int) *Context {
	return &Context{Width: width, Height: height, Pressed: make(map[graphics.Key]bool)}
}

func (c *Context) MakeCurrent()                   {}
func (c *Context) Shutdown()                      {}
func (c *Context) ShouldClose() bool              { return c.Frames >= c.CloseAfter }
func (c *Context) EndFrame()                      { c.Frames++ }
func (c *Context) GetFramebufferSize() (int, int) { return c.Width, c.Height }
func (c *Context) IsPressed(key graphics.Key) bool {
	return c.Pressed[key]
}
