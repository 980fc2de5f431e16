package level

import (
	"image/color"
	"io"

	"tinygo.org/x/drivers"
)

var zeros = [32]byte{
	'0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0',
	'0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0', '0',
}

var barTip = []byte(">\n")

// BarLength returns |sample| >> shift.
func BarLength(sample int32, shift uint8) uint32 {
	v := int64(sample)
	if v < 0 {
		v = -v
	}
	return uint32(v >> shift)
}

// RenderBar writes a line of '0' characters proportional to the sample and
// terminated by ">\n". At least one '0' is always written.
func RenderBar(w io.Writer, sample int32, shift uint8) error {
	n := BarLength(sample, shift)
	if n == 0 {
		n = 1
	}
	for n > 0 {
		chunk := uint32(len(zeros))
		if n < chunk {
			chunk = n
		}
		if _, err := w.Write(zeros[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	_, err := w.Write(barTip)
	return err
}

// Bar draws the same proportional bar on a pixel display. Lit columns use
// Color, the rest of the rows are cleared to Background.
type Bar struct {
	Display    drivers.Displayer
	Row        int16 // first pixel row
	Height     int16 // rows, at least 1
	Shift      uint8
	Color      color.RGBA
	Background color.RGBA
}

// Draw renders sample and flushes the display. Bars wider than the display
// are clipped.
func (b *Bar) Draw(sample int32) error {
	width, height := b.Display.Size()
	lit := BarLength(sample, b.Shift)
	if lit == 0 {
		lit = 1
	}

	rows := b.Height
	if rows < 1 {
		rows = 1
	}
	for y := b.Row; y < b.Row+rows && y < height; y++ {
		for x := int16(0); x < width; x++ {
			c := b.Background
			if uint32(x) < lit {
				c = b.Color
			}
			b.Display.SetPixel(x, y, c)
		}
	}
	return b.Display.Display()
}
