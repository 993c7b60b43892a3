// Package record streams rendered frames to an ffmpeg process as raw RGBA
// video.
package record

import (
	"fmt"
	"image"
	"io"

	"github.com/richinsley/gltriangles/graphics"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Settings describe the encoded stream.
type Settings struct {
	Width, Height int
	FPS           int
	Codec         string // h264 or hevc
	FFMPEGPath    string
}

// Args returns the ffmpeg input and output arguments for s.
func Args(s Settings) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":         "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", s.Width, s.Height),
		"framerate": s.FPS,
	}
	outputArgs = ffmpeg.KwArgs{"pix_fmt": "yuv420p"}
	if s.Codec == "hevc" {
		outputArgs["c:v"] = "libx265"
		outputArgs["tag:v"] = "hvc1"
	} else {
		outputArgs["c:v"] = "libx264"
	}
	return inputArgs, outputArgs
}

// Stream builds the ffmpeg command that reads frames from r and writes path.
func Stream(path string, s Settings, r io.Reader) *ffmpeg.Stream {
	inputArgs, outputArgs := Args(s)
	cmd := ffmpeg.Input("pipe:", inputArgs).
		Output(path, outputArgs).
		OverWriteOutput().WithInput(r).ErrorToStdOut()
	if s.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(s.FFMPEGPath)
	}
	return cmd
}

// Encoder feeds frames to a running ffmpeg command.
type Encoder struct {
	w      io.WriteCloser
	errc   <-chan error
	width  int
	height int
	frames int
}

// Start launches ffmpeg writing to path.
func Start(path string, s Settings) (*Encoder, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("invalid video size %dx%d", s.Width, s.Height)
	}
	if s.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", s.FPS)
	}
	pr, pw := io.Pipe()
	cmd := Stream(path, s, pr)

	errc := make(chan error, 1)
	go func() {
		err := cmd.Run()
		// Unblock writers if ffmpeg exits early.
		pr.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()
	graphics.Logger().Info("recording", "path", path, "size", fmt.Sprintf("%dx%d", s.Width, s.Height), "fps", s.FPS)
	return newEncoder(pw, errc, s.Width, s.Height), nil
}

func newEncoder(w io.WriteCloser, errc <-chan error, width, height int) *Encoder {
	return &Encoder{w: w, errc: errc, width: width, height: height}
}

// WriteFrame appends one top-down frame. The image must match the stream
// size.
func (e *Encoder) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != e.width || b.Dy() != e.height {
		return fmt.Errorf("frame is %dx%d, stream is %dx%d", b.Dx(), b.Dy(), e.width, e.height)
	}
	row := e.width * 4
	for y := 0; y < e.height; y++ {
		off := y * img.Stride
		if _, err := e.w.Write(img.Pix[off : off+row]); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", e.frames, err)
		}
	}
	e.frames++
	return nil
}

// Frames returns the number of frames written.
func (e *Encoder) Frames() int { return e.frames }

// Close ends the stream and waits for ffmpeg to finish.
func (e *Encoder) Close() error {
	if err := e.w.Close(); err != nil {
		return err
	}
	if err := <-e.errc; err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}
