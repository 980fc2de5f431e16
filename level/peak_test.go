package level

import (
	"fmt"
	"testing"

	c "github.com/smartystreets/goconvey/convey"
)

func TestPeakDecay(t *testing.T) {
	testCases := []struct {
		sample int16
		shift  uint8
		calls  int
	}{
		{1000, 1, 12},
		{-32768, 1, 17},
		{32767, 2, 9},
		{5, 1, 4},
	}
	c.Convey("Given a detector fed one non-zero sample", t, func() {
		for _, testCase := range testCases {
			conveyance := fmt.Sprintf("When %d is followed by %d silent buffers at shift %d",
				testCase.sample, testCase.calls, testCase.shift)
			c.Convey(conveyance, func() {
				var d Detector
				first := d.Detect([]int16{0, testCase.sample, 0}, testCase.shift)
				s := Magnitude(testCase.sample)
				c.So(first, c.ShouldEqual, s)

				c.Convey("Then the k-th silent call reports S >> k*shift", func() {
					silence := make([]int16, 8)
					for k := 1; k <= testCase.calls; k++ {
						got := d.Detect(silence, testCase.shift)
						c.So(got, c.ShouldEqual, s>>(uint(k)*uint(testCase.shift)))
					}
				})
			})
		}
	})
}

func TestPeakAttack(t *testing.T) {
	c.Convey("Given a detector carrying a decayed peak", t, func() {
		d := Detector{Decay: 400}

		c.Convey("When a louder buffer arrives", func() {
			got := d.Detect([]int16{10, -900, 300}, 1)

			c.Convey("Then the peak jumps to it immediately", func() {
				c.So(got, c.ShouldEqual, 900)
				c.So(d.Decay, c.ShouldEqual, 900)
			})
		})

		c.Convey("When a quieter buffer arrives", func() {
			got := d.Detect([]int16{150, -150}, 1)

			c.Convey("Then the decayed value wins", func() {
				c.So(got, c.ShouldEqual, 200)
			})
		})

		c.Convey("When the buffer is empty", func() {
			got := d.Detect(nil, 2)

			c.Convey("Then only decay applies", func() {
				c.So(got, c.ShouldEqual, 100)
			})
		})

		c.Convey("When the detector is reset", func() {
			d.Reset()

			c.Convey("Then it restarts from silence", func() {
				c.So(d.Detect([]int16{0}, 0), c.ShouldEqual, 0)
			})
		})
	})
}

func TestMagnitude(t *testing.T) {
	c.Convey("Given signed 16-bit samples", t, func() {
		c.So(Magnitude(0), c.ShouldEqual, 0)
		c.So(Magnitude(-1), c.ShouldEqual, 1)
		c.So(Magnitude(32767), c.ShouldEqual, 32767)
		c.So(Magnitude(-32768), c.ShouldEqual, 32768)
	})
}
