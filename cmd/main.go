package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/richinsley/goshadertrace/glfwcontext"
	"github.com/richinsley/goshadertrace/glpipeline"
	"github.com/richinsley/goshadertrace/options"
	"github.com/richinsley/goshadertrace/renderer"
	"github.com/richinsley/goshadertrace/scene"
)

func runScene(sc *scene.Scene, opts *options.RenderOptions) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize graphics: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()

	pipe, err := glpipeline.New()
	if err != nil {
		return err
	}
	log.Printf("OpenGL version: %s", pipe.Version())

	r, err := renderer.New(ctx, pipe, sc, renderer.ConfigFromOptions(opts))
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	defer r.Shutdown()

	log.Println("Starting interactive render loop...")
	return r.Run()
}

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Sphere Ray Tracer")
		flag.PrintDefaults()
		return
	}

	sc, err := scene.Load(*opts.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	log.Printf("Loaded scene: %d sphere(s)", len(sc.Spheres))

	// The window is torn down before exiting so no stale frame stays on screen.
	if err := runScene(sc, opts); err != nil {
		log.Fatalf("%v", err)
	}
}
