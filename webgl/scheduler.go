//go:build js && wasm

package webgl

import (
	"syscall/js"

	"github.com/richinsley/gltriangles/renderer"
)

// AnimationFrames schedules callbacks with window.requestAnimationFrame.
type AnimationFrames struct {
	window js.Value
	funcs  map[renderer.FrameID]js.Func
}

var _ renderer.Scheduler = (*AnimationFrames)(nil)

func NewAnimationFrames() *AnimationFrames {
	return &AnimationFrames{
		window: js.Global(),
		funcs:  make(map[renderer.FrameID]js.Func),
	}
}

func (a *AnimationFrames) RequestFrame(fn func()) renderer.FrameID {
	var id renderer.FrameID
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		if f, ok := a.funcs[id]; ok {
			delete(a.funcs, id)
			f.Release()
		}
		fn()
		return nil
	})
	id = renderer.FrameID(a.window.Call("requestAnimationFrame", cb).Int())
	a.funcs[id] = cb
	return id
}

func (a *AnimationFrames) CancelFrame(id renderer.FrameID) {
	a.window.Call("cancelAnimationFrame", int(id))
	if f, ok := a.funcs[id]; ok {
		delete(a.funcs, id)
		f.Release()
	}
}
