package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a timing-critical event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Source    uint8  // DMA channel or ADC mux bank
	Clock     uint32 // System clock at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtCalibration = 1 // ADC calibration finished, v1 = failed, v2 = PG
	EvtBufferFlip  = 2 // DMA half complete, v1 = new active half, v2 = count
	EvtPeak        = 3 // peak computed, v1 = magnitude, v2 = dBFS (milli-dB, two's complement)
	EvtReport      = 4 // level report sent, v1 = frames, v2 = flips
)

const (
	TimingRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Timing capture ring buffer (non-blocking, for post-mortem)
	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8        // Next write position
	timingEnabled  bool  = true // Always capture timing events
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordTiming captures a timing event in the ring buffer
// This is always non-blocking and safe from the DMA handler
func RecordTiming(eventType, source uint8, clock, value1, value2 uint32) {
	if !timingEnabled {
		return
	}
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Source:    source,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
}

// TimingEvents returns the recorded events, oldest first
func TimingEvents() []TimingEvent {
	events := make([]TimingEvent, 0, TimingRingSize)
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType != 0 {
			events = append(events, evt)
		}
	}
	return events
}

// DumpTimingRing outputs the timing ring buffer and empties it (call on
// halt/error)
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	for _, evt := range TimingEvents() {
		var name string
		switch evt.EventType {
		case EvtCalibration:
			name = "ADC_CAL"
		case EvtBufferFlip:
			name = "DMA_FLIP"
		case EvtPeak:
			name = "PEAK"
		case EvtReport:
			name = "REPORT"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[TIMING] " + name +
			" src=" + itoa(int(evt.Source)) +
			" us=" + utoa(TimerToUS(evt.Clock)) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TIMING] === End Dump ===")
	ClearTimingRing()
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}

// DumpADC prints the programmed converter registers
func DumpADC(a *ADC) {
	r := a.Regs
	DebugPrintln("[ADC] CFG1=" + hex32(r.CFG1.Get()) + " CFG2=" + hex32(r.CFG2.Get()) +
		" SC2=" + hex32(r.SC2.Get()) + " SC3=" + hex32(r.SC3.Get()))
	DebugPrintln("[ADC] SC1A=" + hex32(r.SC1[MuxA].Get()) + " CV1=" + hex32(r.CV1.Get()) +
		" CV2=" + hex32(r.CV2.Get()) + " PG=" + hex32(r.PG.Get()) + " MG=" + hex32(r.MG.Get()))
}

// DumpDMA prints one channel's registers
func DumpDMA(d *DMA, ch DMAChannel) {
	r := &d.Regs.Channel[ch&3]
	DebugPrintln("[DMA" + itoa(int(ch&3)) + "] SAR=" + hex32(r.SAR.Get()) + " DAR=" + hex32(r.DAR.Get()) +
		" DSR_BCR=" + hex32(r.DSR_BCR.Get()) + " DCR=" + hex32(r.DCR.Get()))
}
