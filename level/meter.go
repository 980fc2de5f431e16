package level

import (
	"sync/atomic"

	"levelmeter/core"
)

// Reading is one metered level.
type Reading struct {
	Peak uint32 // decayed peak magnitude
	DBFS int32  // milli-dB relative to full scale
}

// Meter runs the detector over each filled half and publishes the latest
// reading. Update runs in the DMA completion interrupt; Latest may be called
// from the main loop at any time.
type Meter struct {
	Detector   Detector
	DecayShift uint8

	latest  atomic.Uint64 // peak<<32 | uint32(dBFS)
	updates atomic.Uint32
}

// NewMeter returns a meter releasing by 2^-decayShift per buffer.
func NewMeter(decayShift uint8) *Meter {
	m := &Meter{DecayShift: decayShift}
	m.latest.Store(pack(Reading{DBFS: Breakpoints[0].DB}))
	return m
}

// Update consumes one buffer half. It has the core.Consumer signature.
func (m *Meter) Update(half []int16) {
	peak := m.Detector.Detect(half, m.DecayShift)
	r := Reading{Peak: peak, DBFS: ToDBFS(peak)}
	m.latest.Store(pack(r))
	m.updates.Add(1)
	core.RecordTiming(core.EvtPeak, 0, core.GetTime(), r.Peak, uint32(r.DBFS))
}

// Latest returns the most recent reading and the number of updates so far.
func (m *Meter) Latest() (Reading, uint32) {
	return unpack(m.latest.Load()), m.updates.Load()
}

func pack(r Reading) uint64 {
	return uint64(r.Peak)<<32 | uint64(uint32(r.DBFS))
}

func unpack(v uint64) Reading {
	return Reading{Peak: uint32(v >> 32), DBFS: int32(uint32(v))}
}
