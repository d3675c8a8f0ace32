// Package uniform resolves uniform names against a linked program and pushes
// scene values to them.
//
// Resolution happens once, right after linking, through the Acquire
// functions. Each returns a bindings value holding one Handle per field in a
// fixed order. Push then writes a value through those handles every frame
// without any name lookups.
package uniform

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/goshadertrace/graphics"
	"github.com/richinsley/goshadertrace/shader"
)

// ErrUnresolved is wrapped by every Error.
var ErrUnresolved = errors.New("cannot resolve uniform")

// Error reports a uniform the linked program does not declare (or that the
// driver optimized away).
type Error struct {
	Name string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v %q", ErrUnresolved, e.Name)
}

func (e *Error) Unwrap() error {
	return ErrUnresolved
}

// Handle is a resolved uniform. Location is never negative.
type Handle struct {
	Name     string
	Location int32
}

// Resolve looks up name in program.
func Resolve(program *shader.LinkedProgram, name string) (Handle, error) {
	if name == "" {
		return Handle{}, &Error{Name: name}
	}
	loc := program.UniformLocation(name)
	if loc < 0 {
		return Handle{}, &Error{Name: name}
	}
	return Handle{Name: name, Location: loc}, nil
}

// SetFloat writes a float to h.
func (h Handle) SetFloat(pipe graphics.Pipeline, v float32) {
	pipe.Uniform1f(h.Location, v)
}

// SetVec3 writes a vec3 to h.
func (h Handle) SetVec3(pipe graphics.Pipeline, v mgl32.Vec3) {
	pipe.Uniform3f(h.Location, v[0], v[1], v[2])
}

// resolver collects the first error across a sequence of Resolve calls so
// the Acquire functions read as a flat list of names.
type resolver struct {
	program *shader.LinkedProgram
	prefix  string
	err     error
}

func (r *resolver) get(field string) Handle {
	if r.err != nil {
		return Handle{}
	}
	name := field
	if r.prefix != "" {
		name = r.prefix + "." + field
	}
	h, err := Resolve(r.program, name)
	if err != nil {
		r.err = err
	}
	return h
}
