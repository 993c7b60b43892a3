//go:build !js

package gldevice

import (
	"fmt"
	"image"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Offscreen is a framebuffer with an RGBA8 color texture and a 24-bit depth
// attachment, used to render snapshots without presenting them.
type Offscreen struct {
	fbo               uint32
	textureID         uint32
	depthRenderbuffer uint32
	width             int
	height            int
}

func NewOffscreen(width, height int) (*Offscreen, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid offscreen size %dx%d", width, height)
	}
	o := &Offscreen{width: width, height: height}

	gl.GenFramebuffers(1, &o.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, o.fbo)
	gl.GenTextures(1, &o.textureID)
	gl.BindTexture(gl.TEXTURE_2D, o.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, o.textureID, 0)
	gl.GenRenderbuffers(1, &o.depthRenderbuffer)
	gl.BindRenderbuffer(gl.RENDERBUFFER, o.depthRenderbuffer)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(width), int32(height))
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, o.depthRenderbuffer)
	if gl.CheckFramebufferStatus(gl.FRAMEBUFFER) != gl.FRAMEBUFFER_COMPLETE {
		o.Destroy()
		return nil, fmt.Errorf("offscreen fbo is not complete")
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return o, nil
}

// Bind directs subsequent draws into the offscreen framebuffer.
func (o *Offscreen) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, o.fbo)
	gl.Viewport(0, 0, int32(o.width), int32(o.height))
}

// Unbind directs draws back to the default framebuffer.
func (o *Offscreen) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ReadImage copies the color attachment into an image, flipping rows so the
// first row of the image is the top of the frame. The framebuffer binding is
// left as it was.
func (o *Offscreen) ReadImage() *image.RGBA {
	var prev int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prev)
	gl.BindFramebuffer(gl.FRAMEBUFFER, o.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	pixels := make([]byte, o.width*o.height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(o.width), int32(o.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prev))

	img := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
	stride := o.width * 4
	for y := 0; y < o.height; y++ {
		src := pixels[(o.height-1-y)*stride : (o.height-y)*stride]
		copy(img.Pix[y*img.Stride:], src)
	}
	return img
}

func (o *Offscreen) Destroy() {
	o.Unbind()
	gl.DeleteFramebuffers(1, &o.fbo)
	gl.DeleteTextures(1, &o.textureID)
	gl.DeleteRenderbuffers(1, &o.depthRenderbuffer)
}
