package options

import (
	"flag"
	"fmt"
)

type RenderOptions struct {
	Help      *bool
	Scene     *string // built-in scene name
	SceneFile *string // YAML scene file, overrides Scene
	Width     *int
	Height    *int
	Snapshot  *string // write one rendered frame to this PNG and exit
	Frames    *int    // stop after presenting this many frames; 0 runs until the window closes
	Verbose   *bool
	Watch     *bool // reload SceneFile when it changes

	// Video recording through ffmpeg.
	Record     *string
	FPS        *int
	Codec      *string
	FFMPEGPath *string
}

// Register binds the options to fs with their default values.
func Register(fs *flag.FlagSet) *RenderOptions {
	return &RenderOptions{
		Help:      fs.Bool("help", false, "Show help message"),
		Scene:     fs.String("scene", "triangle", "Built-in scene: indexed, three or triangle"),
		SceneFile: fs.String("scene-file", "", "YAML scene file (overrides -scene)"),
		Width:     fs.Int("width", 500, "Width of the drawing surface"),
		Height:    fs.Int("height", 300, "Height of the drawing surface"),
		Snapshot:  fs.String("snapshot", "", "Render one frame offscreen and write it to this PNG file"),
		Frames:    fs.Int("frames", 0, "Number of frames to present before exiting (0 = until closed)"),
		Verbose:   fs.Bool("verbose", false, "Enable debug logging"),
		Watch:     fs.Bool("watch", false, "Reload -scene-file whenever it changes"),

		Record:     fs.String("record", "", "Render -frames frames offscreen and encode them to this video file"),
		FPS:        fs.Int("fps", 60, "Frame rate of the recorded video"),
		Codec:      fs.String("codec", "h264", "Video codec for -record: h264 or hevc"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to the ffmpeg binary (default: found on PATH)"),
	}
}

// Validate checks values flag parsing cannot.
func (o *RenderOptions) Validate() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", *o.Width, *o.Height)
	}
	if *o.Frames < 0 {
		return fmt.Errorf("frames must not be negative, got %d", *o.Frames)
	}
	if *o.Record != "" {
		if *o.Snapshot != "" {
			return fmt.Errorf("-record and -snapshot are mutually exclusive")
		}
		if *o.FPS <= 0 {
			return fmt.Errorf("fps must be positive, got %d", *o.FPS)
		}
		if *o.Codec != "h264" && *o.Codec != "hevc" {
			return fmt.Errorf("unsupported codec %q", *o.Codec)
		}
	}
	if *o.Watch && *o.SceneFile == "" {
		return fmt.Errorf("-watch requires -scene-file")
	}
	if *o.SceneFile == "" && *o.Scene == "" {
		return fmt.Errorf("either -scene or -scene-file is required")
	}
	return nil
}
