package graphics

// Key identifies a keyboard key independently of the windowing backend.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyLeftShift
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
)

// Context defines the interface for an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// EndFrame swaps buffers and polls pending window events.
	EndFrame()
	GetFramebufferSize() (int, int)
	// IsPressed reports whether key is currently held down.
	IsPressed(key Key) bool
}
