package level

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"testing"

	c "github.com/smartystreets/goconvey/convey"
)

func TestRenderBar(t *testing.T) {
	testCases := []struct {
		sample   int32
		shift    uint8
		expected string
	}{
		{0, 0, "0>\n"},
		{1, 4, "0>\n"},
		{3, 0, "000>\n"},
		{-3, 0, "000>\n"},
		{64, 4, "0000>\n"},
		{100, 0, strings.Repeat("0", 100) + ">\n"},
		{-2147483648, 26, strings.Repeat("0", 32) + ">\n"},
	}
	c.Convey("Given the need to print a level bar", t, func() {
		for _, testCase := range testCases {
			conveyance := fmt.Sprintf("When the sample is %d scaled down by %d bits", testCase.sample, testCase.shift)
			c.Convey(conveyance, func() {
				conveyance := fmt.Sprintf("Then the bar should be %d characters long", len(testCase.expected))
				c.Convey(conveyance, func() {
					var buf bytes.Buffer
					err := RenderBar(&buf, testCase.sample, testCase.shift)
					c.So(err, c.ShouldBeNil)
					c.So(buf.String(), c.ShouldEqual, testCase.expected)
				})
			})
		}
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestRenderBarWriteError(t *testing.T) {
	c.Convey("Given a sink that fails", t, func() {
		err := RenderBar(failingWriter{}, 10, 0)
		c.So(err, c.ShouldNotBeNil)
	})
}

// fakeDisplay is an in-memory drivers.Displayer
type fakeDisplay struct {
	w, h    int16
	pixels  map[[2]int16]color.RGBA
	flushed int
}

func newFakeDisplay(w, h int16) *fakeDisplay {
	return &fakeDisplay{w: w, h: h, pixels: make(map[[2]int16]color.RGBA)}
}

func (d *fakeDisplay) Size() (int16, int16) { return d.w, d.h }

func (d *fakeDisplay) SetPixel(x, y int16, col color.RGBA) {
	d.pixels[[2]int16{x, y}] = col
}

func (d *fakeDisplay) Display() error {
	d.flushed++
	return nil
}

func (d *fakeDisplay) lit(y int16, col color.RGBA) int {
	n := 0
	for x := int16(0); x < d.w; x++ {
		if d.pixels[[2]int16{x, y}] == col {
			n++
		}
	}
	return n
}

func TestBarDraw(t *testing.T) {
	green := color.RGBA{G: 255, A: 255}
	black := color.RGBA{A: 255}

	c.Convey("Given a bar on a 16x4 display", t, func() {
		disp := newFakeDisplay(16, 4)
		bar := &Bar{Display: disp, Row: 1, Height: 2, Shift: 2, Color: green, Background: black}

		c.Convey("When a sample of 20 is drawn", func() {
			c.So(bar.Draw(20), c.ShouldBeNil)

			c.Convey("Then 5 columns are lit on each bar row", func() {
				c.So(disp.lit(1, green), c.ShouldEqual, 5)
				c.So(disp.lit(2, green), c.ShouldEqual, 5)
				c.So(disp.lit(1, black), c.ShouldEqual, 11)
			})
			c.Convey("Then rows outside the bar are untouched", func() {
				c.So(disp.lit(0, green)+disp.lit(0, black), c.ShouldEqual, 0)
				c.So(disp.lit(3, green)+disp.lit(3, black), c.ShouldEqual, 0)
			})
			c.Convey("Then the display is flushed once", func() {
				c.So(disp.flushed, c.ShouldEqual, 1)
			})
		})

		c.Convey("When the sample overflows the width", func() {
			c.So(bar.Draw(-1000), c.ShouldBeNil)

			c.Convey("Then the bar is clipped", func() {
				c.So(disp.lit(1, green), c.ShouldEqual, 16)
			})
		})

		c.Convey("When the sample is silent", func() {
			c.So(bar.Draw(0), c.ShouldBeNil)

			c.Convey("Then a single column stays lit", func() {
				c.So(disp.lit(2, green), c.ShouldEqual, 1)
			})
		})
	})
}
