//go:build js && wasm

// Command webgl exposes the renderer to a page as two lifecycle hooks:
//
//	gltrianglesMount(canvas, sceneName) -> error string or null
//	gltrianglesUnmount()
package main

import (
	"log"
	"log/slog"
	"os"
	"syscall/js"

	"github.com/richinsley/gltriangles/graphics"
	"github.com/richinsley/gltriangles/renderer"
	"github.com/richinsley/gltriangles/scene"
	"github.com/richinsley/gltriangles/webgl"
)

var current *renderer.Renderer

func mount(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return "mount needs a canvas"
	}
	name := "triangle"
	if len(args) > 1 && args[1].Type() == js.TypeString {
		name = args[1].String()
	}
	if current != nil {
		current.Shutdown()
		current = nil
	}

	sc, err := scene.Preset(name)
	if err != nil {
		return err.Error()
	}
	dev, err := webgl.FromCanvas(args[0])
	if err != nil {
		return err.Error()
	}
	width, height := args[0].Get("width").Int(), args[0].Get("height").Int()
	r, err := renderer.NewRenderer(dev, webgl.NewAnimationFrames(), sc, renderer.Options{Width: width, Height: height})
	if err != nil {
		log.Printf("setup failed: %v", err)
		return err.Error()
	}
	current = r
	r.Mount()
	return nil
}

// unmount cancels the pending frame and releases the GL objects.
func unmount(this js.Value, args []js.Value) any {
	if current != nil {
		current.Shutdown()
		current = nil
	}
	return nil
}

func main() {
	graphics.SetLogger(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	js.Global().Set("gltrianglesMount", js.FuncOf(mount))
	js.Global().Set("gltrianglesUnmount", js.FuncOf(unmount))
	select {}
}
