package profile

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"levelmeter/core"
)

// lookup resolves a JSON string against a name table.
func lookup[T comparable](names map[string]T, data []byte, kind string) (T, error) {
	var zero T
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return zero, fmt.Errorf("%s should be a string, got %s", kind, data)
	}
	got, ok := names[s]
	if !ok {
		return zero, fmt.Errorf("invalid string %q for %s", s, kind)
	}
	return got, nil
}

// invert builds the Stringer table of a name table.
func invert[T comparable](names map[string]T) map[T]string {
	out := make(map[T]string, len(names))
	for k, v := range names {
		out[v] = k
	}
	return out
}

// Channel is the converter input.
type Channel core.Channel

// Channels maps a string to the input selector.
var Channels = map[string]Channel{
	"temp":         Channel(core.ChanTemp),
	"bandgap":      Channel(core.ChanBandgap),
	"vrefsh":       Channel(core.ChanVREFSH),
	"vrefsl":       Channel(core.ChanVREFSL),
	"disabled":     Channel(core.ChanDisabled),
	"dad0":         Channel(core.ChanDAD0),
	"dad1":         Channel(core.ChanDAD1),
	"dad2":         Channel(core.ChanDAD2),
	"dad3":         Channel(core.ChanDAD3),
	"temp-diff":    Channel(core.ChanTempDiff),
	"bandgap-diff": Channel(core.ChanBandgapDiff),
	"vrefsh-diff":  Channel(core.ChanVREFSHDiff),
}

func init() {
	for i := core.ChanDADP0; i <= core.ChanAD23; i++ {
		Channels["ad"+strconv.Itoa(int(i))] = Channel(i)
	}
	ChannelStrings = invert(Channels)
}

// ChannelStrings maps a Channel to its name for use by Stringer.
var ChannelStrings map[Channel]string

// String implements the Stringer interface for Channel.
func (c Channel) String() string {
	return ChannelStrings[c]
}

// UnmarshalJSON implements the Unmarshaler interface for Channel.
func (c *Channel) UnmarshalJSON(data []byte) error {
	got, err := lookup(Channels, data, "channel")
	if err != nil {
		return err
	}
	*c = got
	return nil
}

// MarshalJSON implements the Marshaler interface for Channel.
func (c Channel) MarshalJSON() ([]byte, error) {
	return json.Marshal(ChannelStrings[c])
}

// ChannelNames lists the accepted channel names in order.
func ChannelNames() []string {
	names := make([]string, 0, len(Channels))
	for k := range Channels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Resolution is the conversion mode.
type Resolution core.Resolution

// Resolutions maps a string to the conversion mode.
var Resolutions = map[string]Resolution{
	"8":       Resolution(core.Bits8),
	"10":      Resolution(core.Bits10),
	"12":      Resolution(core.Bits12),
	"16":      Resolution(core.Bits16),
	"9-diff":  Resolution(core.Bits9Diff),
	"11-diff": Resolution(core.Bits11Diff),
	"13-diff": Resolution(core.Bits13Diff),
	"16-diff": Resolution(core.Bits16Diff),
}

// ResolutionStrings maps a Resolution to its name.
var ResolutionStrings = invert(Resolutions)

// String implements the Stringer interface for Resolution.
func (r Resolution) String() string {
	return ResolutionStrings[r]
}

// UnmarshalJSON implements the Unmarshaler interface for Resolution.
func (r *Resolution) UnmarshalJSON(data []byte) error {
	got, err := lookup(Resolutions, data, "bits")
	if err != nil {
		return err
	}
	*r = got
	return nil
}

// MarshalJSON implements the Marshaler interface for Resolution.
func (r Resolution) MarshalJSON() ([]byte, error) {
	return json.Marshal(ResolutionStrings[r])
}

// ClockSource is the converter clock input.
type ClockSource core.ClockSource

// ClockSources maps a string to the clock input.
var ClockSources = map[string]ClockSource{
	"bus":   ClockSource(core.ClockBus),
	"bus/2": ClockSource(core.ClockBusDiv2),
	"alt":   ClockSource(core.ClockAlt),
	"adack": ClockSource(core.ClockADACK),
}

// ClockSourceStrings maps a ClockSource to its name.
var ClockSourceStrings = invert(ClockSources)

// String implements the Stringer interface for ClockSource.
func (s ClockSource) String() string {
	return ClockSourceStrings[s]
}

// UnmarshalJSON implements the Unmarshaler interface for ClockSource.
func (s *ClockSource) UnmarshalJSON(data []byte) error {
	got, err := lookup(ClockSources, data, "clock")
	if err != nil {
		return err
	}
	*s = got
	return nil
}

// MarshalJSON implements the Marshaler interface for ClockSource.
func (s ClockSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(ClockSourceStrings[s])
}

// ClockDivider is written in JSON as the divide ratio.
type ClockDivider core.ClockDivider

var dividers = map[uint32]ClockDivider{
	1: ClockDivider(core.ClockDiv1),
	2: ClockDivider(core.ClockDiv2),
	4: ClockDivider(core.ClockDiv4),
	8: ClockDivider(core.ClockDiv8),
}

// UnmarshalJSON implements the Unmarshaler interface for ClockDivider by
// taking the ratio 1, 2, 4 or 8.
func (d *ClockDivider) UnmarshalJSON(data []byte) error {
	var ratio uint32
	if err := json.Unmarshal(data, &ratio); err != nil {
		return fmt.Errorf("clock_div should be a number, got %s", data)
	}
	got, ok := dividers[ratio]
	if !ok {
		return fmt.Errorf("invalid clock_div %d, expected 1, 2, 4 or 8", ratio)
	}
	*d = got
	return nil
}

// MarshalJSON implements the Marshaler interface for ClockDivider.
func (d ClockDivider) MarshalJSON() ([]byte, error) {
	ratio, ok := core.ClockDivider(d).Divisor()
	if !ok {
		return nil, fmt.Errorf("invalid clock_div code %d", d)
	}
	return json.Marshal(ratio)
}

// SampleAdder is the extra sampling time.
type SampleAdder core.SampleTimeAdder

// SampleAdders maps a string to a sample-time adder. The "hs" entries
// also select the high-speed configuration.
var SampleAdders = map[string]SampleAdder{
	"0":    SampleAdder(core.SampleAdd0),
	"2":    SampleAdder(core.SampleAdd2),
	"6":    SampleAdder(core.SampleAdd6),
	"12":   SampleAdder(core.SampleAdd12),
	"20":   SampleAdder(core.SampleAdd20),
	"hs2":  SampleAdder(core.SampleAddHS2),
	"hs4":  SampleAdder(core.SampleAddHS4),
	"hs8":  SampleAdder(core.SampleAddHS8),
	"hs14": SampleAdder(core.SampleAddHS14),
	"hs22": SampleAdder(core.SampleAddHS22),
}

// SampleAdderStrings maps a SampleAdder to its name.
var SampleAdderStrings = invert(SampleAdders)

// String implements the Stringer interface for SampleAdder.
func (s SampleAdder) String() string {
	return SampleAdderStrings[s]
}

// UnmarshalJSON implements the Unmarshaler interface for SampleAdder.
func (s *SampleAdder) UnmarshalJSON(data []byte) error {
	got, err := lookup(SampleAdders, data, "sample_add")
	if err != nil {
		return err
	}
	*s = got
	return nil
}

// MarshalJSON implements the Marshaler interface for SampleAdder.
func (s SampleAdder) MarshalJSON() ([]byte, error) {
	return json.Marshal(SampleAdderStrings[s])
}

// Averaging is written in JSON as the number of conversions averaged.
type Averaging core.Averaging

var averages = map[uint32]Averaging{
	1:  Averaging(core.Average1),
	4:  Averaging(core.Average4),
	8:  Averaging(core.Average8),
	16: Averaging(core.Average16),
	32: Averaging(core.Average32),
}

// UnmarshalJSON implements the Unmarshaler interface for Averaging.
func (a *Averaging) UnmarshalJSON(data []byte) error {
	var n uint32
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("average should be a number, got %s", data)
	}
	got, ok := averages[n]
	if !ok {
		return fmt.Errorf("invalid average %d, expected 1, 4, 8, 16 or 32", n)
	}
	*a = got
	return nil
}

// MarshalJSON implements the Marshaler interface for Averaging.
func (a Averaging) MarshalJSON() ([]byte, error) {
	n, _ := core.Averaging(a).Count()
	return json.Marshal(n)
}

// CompareMode is the hardware compare function.
type CompareMode core.CompareMode

// CompareModes maps a string to a compare function.
var CompareModes = map[string]CompareMode{
	"disabled":          CompareMode(core.CompareDisabled),
	"less":              CompareMode(core.CompareLess),
	"greater":           CompareMode(core.CompareGreater),
	"inside-exclusive":  CompareMode(core.CompareRangeExclusiveInside),
	"inside-inclusive":  CompareMode(core.CompareRangeInclusiveInside),
	"outside-exclusive": CompareMode(core.CompareRangeExclusiveOutside),
	"outside-inclusive": CompareMode(core.CompareRangeInclusiveOutside),
}

// CompareModeStrings maps a CompareMode to its name.
var CompareModeStrings = invert(CompareModes)

// String implements the Stringer interface for CompareMode.
func (m CompareMode) String() string {
	return CompareModeStrings[m]
}

// UnmarshalJSON implements the Unmarshaler interface for CompareMode.
func (m *CompareMode) UnmarshalJSON(data []byte) error {
	got, err := lookup(CompareModes, data, "compare mode")
	if err != nil {
		return err
	}
	*m = got
	return nil
}

// MarshalJSON implements the Marshaler interface for CompareMode.
func (m CompareMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(CompareModeStrings[m])
}

// Reference is the voltage reference pair.
type Reference core.Reference

// UnmarshalJSON implements the Unmarshaler interface for Reference by
// taking a boolean: true selects the alternate pair.
func (r *Reference) UnmarshalJSON(data []byte) error {
	var alt bool
	if err := json.Unmarshal(data, &alt); err != nil {
		return fmt.Errorf("alt_reference should be a boolean, got %s", data)
	}
	r.Alternate(alt)
	return nil
}

// Alternate selects the alternate reference pair using a boolean.
func (r *Reference) Alternate(alt bool) {
	if alt {
		*r = Reference(core.ReferenceAlt)
	} else {
		*r = Reference(core.ReferenceDefault)
	}
}

// MarshalJSON implements the Marshaler interface for Reference.
func (r Reference) MarshalJSON() ([]byte, error) {
	return json.Marshal(core.Reference(r) == core.ReferenceAlt)
}

// PowerMode is the converter power configuration.
type PowerMode core.PowerMode

// UnmarshalJSON implements the Unmarshaler interface for PowerMode by taking
// a boolean: true selects low power.
func (p *PowerMode) UnmarshalJSON(data []byte) error {
	var low bool
	if err := json.Unmarshal(data, &low); err != nil {
		return fmt.Errorf("low_power should be a boolean, got %s", data)
	}
	p.LowPower(low)
	return nil
}

// LowPower selects the power mode using a boolean.
func (p *PowerMode) LowPower(low bool) {
	if low {
		*p = PowerMode(core.PowerLow)
	} else {
		*p = PowerMode(core.PowerNormal)
	}
}

// MarshalJSON implements the Marshaler interface for PowerMode.
func (p PowerMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(core.PowerMode(p) == core.PowerLow)
}

// ConvertMode is one-shot or continuous conversion.
type ConvertMode core.ConvertMode

// UnmarshalJSON implements the Unmarshaler interface for ConvertMode by
// taking a boolean: true selects continuous conversion.
func (m *ConvertMode) UnmarshalJSON(data []byte) error {
	var continuous bool
	if err := json.Unmarshal(data, &continuous); err != nil {
		return fmt.Errorf("continuous should be a boolean, got %s", data)
	}
	if continuous {
		*m = ConvertMode(core.Continuous)
	} else {
		*m = ConvertMode(core.OneShot)
	}
	return nil
}

// MarshalJSON implements the Marshaler interface for ConvertMode.
func (m ConvertMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(core.ConvertMode(m) == core.Continuous)
}

// PortName is a pin bank written as "A" to "E".
type PortName uint8

// UnmarshalJSON implements the Unmarshaler interface for PortName.
func (p *PortName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("port should be a string, got %s", data)
	}
	if len(s) != 1 || s[0] < 'A' || s[0] > 'E' {
		return fmt.Errorf("invalid port %q, expected A to E", s)
	}
	*p = PortName(s[0] - 'A')
	return nil
}

// String implements the Stringer interface for PortName.
func (p PortName) String() string {
	return string(rune('A' + p))
}

// MarshalJSON implements the Marshaler interface for PortName.
func (p PortName) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}
