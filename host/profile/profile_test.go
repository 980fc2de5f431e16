package profile

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"levelmeter/core"

	c "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	c.Convey("Given an empty profile", t, func() {
		p, err := Parse([]byte(`{}`))

		c.Convey("Then the board defaults apply", func() {
			c.So(err, c.ShouldBeNil)
			c.So(p.Name, c.ShouldEqual, "frdm-kl25z")
			c.So(p.BusClockHz, c.ShouldEqual, DefaultBusClockHz)
			c.So(core.Channel(p.Converter.Channel), c.ShouldEqual, core.ChanDAD0)
			c.So(core.Resolution(p.Converter.Bits), c.ShouldEqual, core.Bits16Diff)
			c.So(p.Converter.Pins, c.ShouldResemble, [2]uint32{20, 21})
			c.So(p.Transfer.HalfSamples, c.ShouldEqual, DefaultHalfSamples)
			c.So(p.Meter.DecayShift, c.ShouldEqual, DefaultDecayShift)
		})

		c.Convey("Then the estimated rate is the firmware's 8125 Hz", func() {
			c.So(p.SampleRate(), c.ShouldEqual, 8125)
			c.So(p.UpdateRate(), c.ShouldAlmostEqual, 8125.0/64)
		})
	})

	c.Convey("Given a profile naming every enum", t, func() {
		p, err := Parse([]byte(`{
			"name": "bench",
			"bus_clock_hz": 0,
			"converter": {
				"channel": "ad8",
				"bits": "12",
				"clock": "bus/2",
				"clock_div": 4,
				"sample_add": "hs8",
				"average": 32,
				"continuous": false,
				"low_power": true,
				"alt_reference": true,
				"port": "B",
				"pins": [0, 0],
				"compare": {"mode": "inside-inclusive", "thresholds": [900, 100]}
			},
			"transfer": {"channel": 2, "half_samples": 0},
			"meter": {"decay_shift": 3, "bar_shift": 8}
		}`))

		c.Convey("Then each field decodes to its core value", func() {
			c.So(err, c.ShouldBeNil)
			cfg := p.ConverterConfig(nil, nil)
			c.So(cfg.Channel, c.ShouldEqual, core.ChanAD8)
			c.So(cfg.Bits, c.ShouldEqual, core.Bits12)
			c.So(cfg.Clock, c.ShouldEqual, core.ClockBusDiv2)
			c.So(cfg.ClockDiv, c.ShouldEqual, core.ClockDiv4)
			c.So(cfg.SampleAdd, c.ShouldEqual, core.SampleAddHS8)
			c.So(cfg.Average, c.ShouldEqual, core.Average32)
			c.So(cfg.Convert, c.ShouldEqual, core.OneShot)
			c.So(cfg.Power, c.ShouldEqual, core.PowerLow)
			c.So(cfg.Reference, c.ShouldEqual, core.ReferenceAlt)
			c.So(cfg.CompareMode, c.ShouldEqual, core.CompareRangeInclusiveInside)
			c.So(cfg.Compare1, c.ShouldEqual, 900)
			c.So(cfg.Compare2, c.ShouldEqual, 100)
			c.So(p.Converter.Port.String(), c.ShouldEqual, "B")
		})

		c.Convey("Then zeroed fields without a meaningful zero get defaults", func() {
			c.So(p.BusClockHz, c.ShouldEqual, DefaultBusClockHz)
			c.So(p.Transfer.HalfSamples, c.ShouldEqual, DefaultHalfSamples)
		})

		c.Convey("Then the transfer follows the channel", func() {
			xfer := p.TransferConfig(nil, 0x4003B010, 0x20000000)
			c.So(xfer.Channel, c.ShouldEqual, core.DMAChannel2)
			c.So(xfer.ByteCount, c.ShouldEqual, 128)
			c.So(p.MuxConfig(nil).Channel, c.ShouldEqual, core.DMAChannel2)
		})
	})
}

func TestParseErrors(t *testing.T) {
	c.Convey("Given malformed profiles", t, func() {
		testCases := []struct {
			json string
			msg  string
		}{
			{`{"converter": {"channel": "ad24"}}`, `invalid string "ad24" for channel`},
			{`{"converter": {"bits": 16}}`, "bits should be a string"},
			{`{"converter": {"clock": "pll"}}`, `invalid string "pll" for clock`},
			{`{"converter": {"clock_div": 3}}`, "invalid clock_div 3"},
			{`{"converter": {"sample_add": "4"}}`, `invalid string "4" for sample_add`},
			{`{"converter": {"average": 2}}`, "invalid average 2"},
			{`{"converter": {"low_power": "yes"}}`, "low_power should be a boolean"},
			{`{"converter": {"port": "F"}}`, `invalid port "F"`},
			{`{"converter": {"compare": {"mode": "between"}}}`, "compare mode"},
		}

		c.Convey("Then each names the offending field", func() {
			for _, tc := range testCases {
				_, err := Parse([]byte(tc.json))
				c.So(err, c.ShouldNotBeNil)
				c.So(err.Error(), c.ShouldContainSubstring, tc.msg)
			}
		})
	})

	c.Convey("Given values the decoders accept but the board cannot", t, func() {
		c.Convey("Then oversize halves are rejected", func() {
			_, err := Parse([]byte(`{"transfer": {"half_samples": 524288}}`))
			c.So(errors.Is(err, ErrHalfSamples), c.ShouldBeTrue)
		})

		c.Convey("Then pins above 31 are rejected", func() {
			_, err := Parse([]byte(`{"converter": {"pins": [20, 32]}}`))
			c.So(errors.Is(err, ErrPins), c.ShouldBeTrue)
		})

		c.Convey("Then decay shifts above 31 are rejected", func() {
			_, err := Parse([]byte(`{"meter": {"decay_shift": 32}}`))
			c.So(err, c.ShouldEqual, ErrDecayShift)
		})
	})
}

func TestMarshalRoundTrip(t *testing.T) {
	c.Convey("Given the default profile", t, func() {
		p := Default()

		c.Convey("When it is marshalled", func() {
			data, err := p.Marshal()
			c.So(err, c.ShouldBeNil)

			c.Convey("Then enums are written by name", func() {
				var raw struct {
					Converter map[string]interface{} `json:"converter"`
				}
				c.So(json.Unmarshal(data, &raw), c.ShouldBeNil)
				c.So(raw.Converter["channel"], c.ShouldEqual, "dad0")
				c.So(raw.Converter["bits"], c.ShouldEqual, "16-diff")
				c.So(raw.Converter["clock_div"], c.ShouldEqual, float64(1))
				c.So(raw.Converter["average"], c.ShouldEqual, float64(16))
				c.So(raw.Converter["continuous"], c.ShouldEqual, true)
				c.So(raw.Converter["port"], c.ShouldEqual, "E")
			})

			c.Convey("Then parsing it back gives the same profile", func() {
				back, err := Parse(data)
				c.So(err, c.ShouldBeNil)
				c.So(*back, c.ShouldResemble, p)
			})
		})
	})
}

func TestLoad(t *testing.T) {
	c.Convey("Given a profile file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "meter.json")
		c.So(os.WriteFile(path, []byte(`{"meter": {"bar_shift": 9}}`), 0o644), c.ShouldBeNil)

		c.Convey("Then Load parses it", func() {
			p, err := Load(path)
			c.So(err, c.ShouldBeNil)
			c.So(p.Meter.BarShift, c.ShouldEqual, 9)
		})

		c.Convey("Then a broken file is reported with its path", func() {
			c.So(os.WriteFile(path, []byte(`{"converter": {"average": 3}}`), 0o644), c.ShouldBeNil)
			_, err := Load(path)
			c.So(err, c.ShouldNotBeNil)
			c.So(err.Error(), c.ShouldStartWith, "profile "+path)
		})
	})
}

func TestChannelNames(t *testing.T) {
	c.Convey("Given the channel table", t, func() {
		names := ChannelNames()

		c.Convey("Then every name maps to a valid core channel", func() {
			for _, n := range names {
				c.So(core.Channel(Channels[n]).Valid(), c.ShouldBeTrue)
				c.So(Channels[n].String(), c.ShouldEqual, n)
			}
		})

		c.Convey("Then the single-ended inputs are all there", func() {
			c.So(strings.Join(names, ","), c.ShouldContainSubstring, "ad23")
			c.So(len(names), c.ShouldEqual, 24+12)
		})
	})
}

func TestDryRun(t *testing.T) {
	c.Convey("Given the default profile", t, func() {
		p := Default()

		c.Convey("When it is dry-run", func() {
			report, err := p.DryRun()
			c.So(err, c.ShouldBeNil)

			expect := func(name string, value uint32) {
				img, ok := report.Register(name)
				c.So(ok, c.ShouldBeTrue)
				c.So(img.Value, c.ShouldEqual, value)
			}

			c.Convey("Then the converter is programmed as the firmware does", func() {
				expect("ADC0_CFG1", 0x1F)
				expect("ADC0_CFG2", 0x02)
				expect("ADC0_SC2", 0x04)
				expect("ADC0_SC3", 0x0E)
				expect("ADC0_SC1A", 0x20)
				expect("ADC0_PG", 0x8000)
				expect("ADC0_MG", 0x8000)
			})

			c.Convey("Then the DMA channel streams RA into the first half", func() {
				expect("DMA_SAR0", 0x4003B010)
				expect("DMA_DAR0", DryRunBuffer)
				expect("DMA_DSR_BCR0", 128)
				expect("DMA_DCR0", 0xE02C0080)
				expect("DMAMUX_CHCFG0", 0xA8)
			})

			c.Convey("Then the clocks and pins are set up", func() {
				expect("SIM_SCGC5", 1<<13)
				expect("SIM_SCGC6", 1<<27|1<<1)
				expect("SIM_SCGC7", 1<<8)
				img, ok := report.Register("PORTE_PCR20")
				c.So(ok, c.ShouldBeTrue)
				c.So(img.Writes, c.ShouldEqual, 1)
				_, ok = report.Register("PORTE_PCR21")
				c.So(ok, c.ShouldBeTrue)
			})

			c.Convey("Then only the DMA completion line is enabled", func() {
				c.So(report.IRQs, c.ShouldResemble, []uint32{core.IRQDMA0})
				c.So(report.SampleRate, c.ShouldEqual, 8125)
			})

			c.Convey("Then the report prints one line per register", func() {
				var buf bytes.Buffer
				report.Print(&buf)
				c.So(buf.String(), c.ShouldContainSubstring, "DMA_DCR0       0x4000810C = 0xE02C0080 (1 writes)")
				c.So(strings.Count(buf.String(), "\n"), c.ShouldEqual, len(report.Registers)+2)
			})
		})
	})

	c.Convey("Given a profile the hardware rejects", t, func() {
		p := Default()

		c.Convey("Then a differential channel in single-ended mode fails", func() {
			p.Converter.Bits = Resolution(core.Bits16)
			_, err := p.DryRun()
			c.So(err, c.ShouldEqual, core.ErrIncompatibleChannelMode)
		})

		c.Convey("Then an out of range DMA channel fails", func() {
			p.Transfer.Channel = 4
			_, err := p.DryRun()
			c.So(err, c.ShouldEqual, core.ErrInvalidField)
		})
	})
}
