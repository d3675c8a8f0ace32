package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshadertrace/graphics"
	"github.com/richinsley/goshadertrace/options"
)

var keyMap = map[glfw.Key]graphics.Key{
	glfw.KeyW:         graphics.KeyW,
	glfw.KeyA:         graphics.KeyA,
	glfw.KeyS:         graphics.KeyS,
	glfw.KeyD:         graphics.KeyD,
	glfw.KeySpace:     graphics.KeySpace,
	glfw.KeyLeftShift: graphics.KeyLeftShift,
	glfw.KeyUp:        graphics.KeyUp,
	glfw.KeyDown:      graphics.KeyDown,
	glfw.KeyLeft:      graphics.KeyLeft,
	glfw.KeyRight:     graphics.KeyRight,
	glfw.KeyEscape:    graphics.KeyEscape,
}

// Context is a GLFW window implementing graphics.Context. It tracks which
// keys are held down between frames.
type Context struct {
	window  *glfw.Window
	pressed map[graphics.Key]bool
}

// New creates a window with an OpenGL 4.1 core context and makes it current.
func New(opts *options.RenderOptions) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(*opts.Width, *opts.Height, *opts.Title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:  win,
		pressed: make(map[graphics.Key]bool),
	}
	win.SetKeyCallback(c.glfwKeyCallback)
	c.MakeCurrent()
	if *opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return c, nil
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}

	k, ok := keyMap[key]
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		c.pressed[k] = true
	case glfw.Release:
		delete(c.pressed, k)
	}
}

// IsPressed reports whether key is held down as of the last EndFrame.
func (c *Context) IsPressed(key graphics.Key) bool {
	return c.pressed[key]
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
