// Package level turns buffers of converter samples into a decaying peak,
// a dBFS value and a bar.
package level

// Detector is an attack-fast, release-slow envelope follower. The zero
// value starts from silence.
type Detector struct {
	// Decay is the peak carried between calls.
	Decay uint32
}

// Detect attenuates the carried peak by 2^-decayShift, then raises it to the
// largest magnitude in buf if that is higher. It returns the new peak.
func (d *Detector) Detect(buf []int16, decayShift uint8) uint32 {
	d.Decay >>= decayShift

	var max uint32
	for _, s := range buf {
		if m := Magnitude(s); m > max {
			max = m
		}
	}
	if max > d.Decay {
		d.Decay = max
	}
	return d.Decay
}

// Reset drops the carried peak.
func (d *Detector) Reset() {
	d.Decay = 0
}

// Magnitude returns |s|. -32768 maps to 32768.
func Magnitude(s int16) uint32 {
	v := int32(s)
	if v < 0 {
		v = -v
	}
	return uint32(v)
}
