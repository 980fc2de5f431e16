//go:build js && wasm

package main

import (
	"image/color"
	"syscall/js"

	"levelmeter/level"
)

// canvasDisplay is a drivers.Displayer backed by an HTML canvas
type canvasDisplay struct {
	ctx    js.Value
	width  int16
	height int16
	pixels []byte // RGBA, row major
	image  js.Value
}

func newCanvasDisplay(canvas js.Value) *canvasDisplay {
	w := int16(canvas.Get("width").Int())
	h := int16(canvas.Get("height").Int())
	return &canvasDisplay{
		ctx:    canvas.Call("getContext", "2d"),
		width:  w,
		height: h,
		pixels: make([]byte, int(w)*int(h)*4),
		image:  js.Global().Get("Uint8ClampedArray").New(int(w) * int(h) * 4),
	}
}

func (d *canvasDisplay) Size() (x, y int16) {
	return d.width, d.height
}

func (d *canvasDisplay) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return
	}
	i := (int(y)*int(d.width) + int(x)) * 4
	d.pixels[i] = c.R
	d.pixels[i+1] = c.G
	d.pixels[i+2] = c.B
	d.pixels[i+3] = c.A
}

func (d *canvasDisplay) Display() error {
	js.CopyBytesToJS(d.image, d.pixels)
	data := js.Global().Get("ImageData").New(d.image, int(d.width), int(d.height))
	d.ctx.Call("putImageData", data, 0, 0)
	return nil
}

// bar is drawn on every level_state once a canvas is attached
var bar *level.Bar

// attachCanvasWrapper draws the meter bar on a canvas
// Args: elementID (string), shift (number)
// Returns: error string or undefined
func attachCanvasWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("missing arguments")
	}
	canvas := js.Global().Get("document").Call("getElementById", args[0].String())
	if canvas.IsNull() || canvas.IsUndefined() {
		return js.ValueOf("no canvas " + args[0].String())
	}
	display := newCanvasDisplay(canvas)
	_, h := display.Size()
	bar = &level.Bar{
		Display:    display,
		Height:     h,
		Shift:      uint8(args[1].Int()),
		Color:      color.RGBA{R: 0x20, G: 0xC0, B: 0x40, A: 0xFF},
		Background: color.RGBA{A: 0xFF},
	}
	return js.Undefined()
}
