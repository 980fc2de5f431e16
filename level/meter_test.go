package level

import (
	"testing"

	"levelmeter/core"

	c "github.com/smartystreets/goconvey/convey"
)

func TestMeter(t *testing.T) {
	c.Convey("Given a meter with a decay shift of 1", t, func() {
		core.ClearTimingRing()
		m := NewMeter(1)

		c.Convey("Before any buffer the reading is the table floor", func() {
			r, n := m.Latest()
			c.So(n, c.ShouldEqual, 0)
			c.So(r.Peak, c.ShouldEqual, 0)
			c.So(r.DBFS, c.ShouldEqual, -127000)
		})

		c.Convey("When a full-scale buffer is consumed", func() {
			m.Update([]int16{-100, 32767, 4})

			c.Convey("Then the reading is 0 dBFS", func() {
				r, n := m.Latest()
				c.So(n, c.ShouldEqual, 1)
				c.So(r.Peak, c.ShouldEqual, 32767)
				c.So(r.DBFS, c.ShouldEqual, 0)
			})

			c.Convey("Then a peak event is recorded", func() {
				events := core.TimingEvents()
				c.So(len(events), c.ShouldEqual, 1)
				c.So(events[0].EventType, c.ShouldEqual, core.EvtPeak)
				c.So(int32(events[0].Value2), c.ShouldEqual, 0)
			})

			c.Convey("And a silent buffer follows", func() {
				m.Update(make([]int16, 4))

				c.Convey("Then the peak halves and the level drops 6 dB", func() {
					r, n := m.Latest()
					c.So(n, c.ShouldEqual, 2)
					c.So(r.Peak, c.ShouldEqual, 16383)
					c.So(r.DBFS, c.ShouldEqual, -6000)
				})
			})
		})

		c.Convey("When used as a pipeline consumer", func() {
			var consumer core.Consumer = m.Update
			consumer([]int16{-7})

			c.Convey("Then it meters the half", func() {
				r, _ := m.Latest()
				c.So(r.Peak, c.ShouldEqual, 7)
				c.So(r.DBFS, c.ShouldEqual, -73000)
			})
		})
	})
}
