package record

import (
	"bytes"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestArgs(t *testing.T) {
	in, out := Args(Settings{Width: 500, Height: 300, FPS: 60})
	assert.Equal(t, "rawvideo", in["f"])
	assert.Equal(t, "rgba", in["pix_fmt"])
	assert.Equal(t, "500x300", in["s"])
	assert.Equal(t, "libx264", out["c:v"])

	_, out = Args(Settings{Width: 1, Height: 1, FPS: 1, Codec: "hevc"})
	assert.Equal(t, "libx265", out["c:v"])
}

func TestStreamCommandLine(t *testing.T) {
	args := strings.Join(Stream("out.mp4", Settings{Width: 500, Height: 300, FPS: 30}, nil).GetArgs(), " ")
	assert.Contains(t, args, "-i pipe:")
	assert.Contains(t, args, "-s 500x300")
	assert.Contains(t, args, "out.mp4")
}

func TestWriteFrame(t *testing.T) {
	w := &bufferCloser{}
	errc := make(chan error, 1)
	e := newEncoder(w, errc, 2, 2)

	// A sub-image has a stride wider than its rows.
	img := image.NewRGBA(image.Rect(0, 0, 4, 2)).SubImage(image.Rect(0, 0, 2, 2)).(*image.RGBA)
	img.Pix[0] = 0xff
	require.NoError(t, e.WriteFrame(img))
	assert.Equal(t, 2*2*4, w.Len())
	assert.Equal(t, byte(0xff), w.Bytes()[0])
	assert.Equal(t, 1, e.Frames())

	assert.ErrorContains(t, e.WriteFrame(image.NewRGBA(image.Rect(0, 0, 3, 2))), "stream is 2x2")
	assert.Equal(t, 1, e.Frames())

	errc <- nil
	require.NoError(t, e.Close())
	assert.True(t, w.closed)
}

func TestCloseReportsFailure(t *testing.T) {
	errc := make(chan error, 1)
	errc <- errors.New("exit status 1")
	e := newEncoder(&bufferCloser{}, errc, 1, 1)
	assert.ErrorContains(t, e.Close(), "ffmpeg failed")
}

func TestStartValidates(t *testing.T) {
	_, err := Start("out.mp4", Settings{Width: 0, Height: 300, FPS: 60})
	assert.Error(t, err)
	_, err = Start("out.mp4", Settings{Width: 500, Height: 300})
	assert.Error(t, err)
}
