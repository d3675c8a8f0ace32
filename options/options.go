package options

import "flag"

type RenderOptions struct {
	ConfigPath *string
	ShaderDir  *string
	Help       *bool
	Width      *int
	Height     *int
	Title      *string
	VSync      *bool
	MoveStep   *float64 // camera translation per frame
	TurnStep   *float64 // camera rotation per frame, radians
}

// Register defines the render flags on fs.
func Register(fs *flag.FlagSet) *RenderOptions {
	return &RenderOptions{
		ConfigPath: fs.String("config", "./config.json", "Scene file (.json, .toml or .yaml)"),
		ShaderDir:  fs.String("shaders", "./shaders", "Directory holding vertex_shader.vert and fragment_shader.frag"),
		Help:       fs.Bool("help", false, "Show help message"),
		Width:      fs.Int("width", 960, "Initial window width"),
		Height:     fs.Int("height", 540, "Initial window height"),
		Title:      fs.String("title", "Shader", "Window title"),
		VSync:      fs.Bool("vsync", true, "Synchronize buffer swaps with the display"),
		MoveStep:   fs.Float64("step", 0.05, "Camera translation per frame"),
		TurnStep:   fs.Float64("turn", 0.02, "Camera rotation per frame in radians"),
	}
}
