package graphics

// ShaderStage is the kind of a shader stage (vertex, fragment).
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// Primitive is the topology used by a draw call.
type Primitive int

const (
	Triangles Primitive = iota
	TriangleStrip
)

// Pipeline is the slice of the graphics driver used by the renderer. The
// driver holds process-wide state (current program, uniform values); the
// renderer owns the single Pipeline and threads it to every component.
type Pipeline interface {
	CreateProgram() uint32
	DeleteProgram(program uint32)

	// CompileShader creates and compiles a stage. On failure it returns the
	// driver's info log as the error text and deletes the stage.
	CompileShader(source string, stage ShaderStage) (uint32, error)
	AttachShader(program, shader uint32)
	DeleteShader(shader uint32)
	// LinkProgram links program and returns the driver's info log as the
	// error text if the link status is false.
	LinkProgram(program uint32) error
	UseProgram(program uint32)

	GetUniformLocation(program uint32, name string) int32
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, x, y, z float32)

	// NewQuad uploads a 2D vertex array and returns the vertex array id.
	NewQuad(vertices []float32) uint32
	DeleteQuad(vao uint32)
	Viewport(x, y, width, height int32)
	Draw(vao uint32, mode Primitive, first, count int32)
	// Err returns the oldest pending driver error, or nil, and clears every
	// pending error.
	Err() error
}
