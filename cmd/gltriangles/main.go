//go:build !js

package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/gltriangles/gldevice"
	"github.com/richinsley/gltriangles/glfwcontext"
	"github.com/richinsley/gltriangles/graphics"
	"github.com/richinsley/gltriangles/headless"
	"github.com/richinsley/gltriangles/internal/app"
	"github.com/richinsley/gltriangles/options"
	"github.com/richinsley/gltriangles/record"
	"github.com/richinsley/gltriangles/renderer"
	"github.com/richinsley/gltriangles/scene"
	"github.com/richinsley/gltriangles/translator"
	"github.com/schollz/progressbar/v3"
)

func init() {
	runtime.LockOSThread()
}

func loadScene(opts *options.RenderOptions) (*renderer.Scene, error) {
	if *opts.SceneFile != "" {
		return scene.Load(*opts.SceneFile)
	}
	return scene.Preset(*opts.Scene)
}

// defaultRecordFrames is one full turn of the animation.
const defaultRecordFrames = 360

func offscreenMode(opts *options.RenderOptions) bool {
	return *opts.Snapshot != "" || *opts.Record != ""
}

// openContext returns a visible window, or for offscreen rendering a
// headless EGL context where available and a hidden window otherwise.
func openContext(opts *options.RenderOptions, title string) (graphics.Context, func(), error) {
	if offscreenMode(opts) && headless.Supported {
		ctx, err := headless.NewHeadless(*opts.Width, *opts.Height)
		if err == nil {
			return ctx, func() {}, nil
		}
		log.Printf("Headless context unavailable, using a hidden window: %v", err)
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}
	ctx, err := glfwcontext.New(opts, title, !offscreenMode(opts))
	if err != nil {
		glfwcontext.TerminateGraphics()
		return nil, nil, fmt.Errorf("failed to create window: %w", err)
	}
	return ctx, glfwcontext.TerminateGraphics, nil
}

func run(opts *options.RenderOptions) error {
	sc, err := loadScene(opts)
	if err != nil {
		return err
	}

	ctx, terminate, err := openContext(opts, sc.Name)
	if err != nil {
		return err
	}
	defer terminate()
	defer ctx.Shutdown()
	ctx.MakeCurrent()

	dev, err := gldevice.New()
	if err != nil {
		return err
	}
	defer dev.Destroy()
	log.Printf("OpenGL version: %s", dev.Version())

	var offscreen *gldevice.Offscreen
	if offscreenMode(opts) {
		offscreen, err = gldevice.NewOffscreen(*opts.Width, *opts.Height)
		if err != nil {
			return err
		}
		defer offscreen.Destroy()
		offscreen.Bind()
	}

	width, height := ctx.GetFramebufferSize()
	if offscreen != nil {
		width, height = *opts.Width, *opts.Height
	}
	s := app.NewSession(dev, &renderer.LoopScheduler{}, renderer.Options{
		Width:      width,
		Height:     height,
		Translator: translator.WebGL2{GLES: ctx.IsGLES()},
	})
	if err := s.Load(sc); err != nil {
		return err
	}
	defer s.Close()

	if *opts.Record != "" {
		return recordVideo(opts, s.Scheduler(), offscreen)
	}
	if offscreen != nil {
		return writeSnapshot(*opts.Snapshot, offscreen)
	}

	if win, ok := ctx.(*glfwcontext.Context); ok {
		win.OnKey(glfw.KeyR, s.Restart)
		s.Scheduler().SetWake(glfw.PostEmptyEvent)
	}
	if *opts.Watch {
		w, err := scene.Watch(*opts.SceneFile, s.Reload)
		if err != nil {
			return err
		}
		defer w.Close()
		log.Printf("Watching %s", *opts.SceneFile)
	}

	log.Printf("Rendering scene %q", sc.Name)
	n := renderer.RunLoop(ctx, s.Scheduler(), *opts.Frames)
	log.Printf("Presented %d frames", n)
	return nil
}

func writeSnapshot(path string, offscreen *gldevice.Offscreen) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, offscreen.ReadImage()); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	log.Printf("Wrote snapshot to %s", path)
	return nil
}

// recordVideo encodes the frame painted at mount and the following ticks.
// Static scenes repeat their single frame.
func recordVideo(opts *options.RenderOptions, sched *renderer.LoopScheduler, offscreen *gldevice.Offscreen) error {
	frames := *opts.Frames
	if frames == 0 {
		frames = defaultRecordFrames
	}
	enc, err := record.Start(*opts.Record, record.Settings{
		Width:      *opts.Width,
		Height:     *opts.Height,
		FPS:        *opts.FPS,
		Codec:      *opts.Codec,
		FFMPEGPath: *opts.FFMPEGPath,
	})
	if err != nil {
		return err
	}
	bar := progressbar.Default(int64(frames), "recording")
	for i := 0; i < frames; i++ {
		if i > 0 {
			sched.RunPending()
		}
		if err := enc.WriteFrame(offscreen.ReadImage()); err != nil {
			enc.Close()
			return err
		}
		bar.Add(1)
	}
	bar.Finish()
	if err := enc.Close(); err != nil {
		return err
	}
	log.Printf("Wrote %d frames to %s", enc.Frames(), *opts.Record)
	return nil
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("WebGL2 tutorial scenes on desktop OpenGL")
		fmt.Printf("Built-in scenes: %v\n", scene.Names())
		fmt.Println("Keys: R restarts an animated scene, Escape quits")
		flag.PrintDefaults()
		return
	}
	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}
	if *opts.Verbose {
		graphics.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(opts); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
