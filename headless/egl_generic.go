//go:build !linux

package headless

import (
	"fmt"

	"github.com/richinsley/gltriangles/graphics"
)

// Supported reports whether NewHeadless can create a context on this platform.
const Supported = false

func NewHeadless(width, height int) (graphics.Context, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}
