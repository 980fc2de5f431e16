package core

// Clock ceilings for ADCK (KL25 datasheet, ADC electrical specs)
const (
	MaxADCKWide   = 12000000 // 16-bit modes
	MaxADCKNarrow = 18000000 // 13-bit and below
)

// adackFrequencies holds typical ADACK frequencies indexed by ADLPC<<1 | ADHSC.
var adackFrequencies = [4]uint32{5200000, 6200000, 2400000, 4000000}

// ADCKFrequency returns the post-divide converter clock in Hz, or 0 when
// the source is unknown (ALTCLK).
func ADCKFrequency(cfg *ConverterConfig, busClockHz uint32) uint32 {
	var rate uint32
	switch cfg.Clock {
	case ClockBus:
		rate = busClockHz
	case ClockBusDiv2:
		rate = busClockHz / 2
	case ClockAlt:
		rate = 0
	case ClockADACK:
		idx := 0
		if cfg.Power == PowerLow {
			idx |= 2
		}
		if cfg.SampleAdd.adhsc() {
			idx |= 1
		}
		rate = adackFrequencies[idx]
	}
	div, ok := cfg.ClockDiv.Divisor()
	if !ok {
		return 0
	}
	return rate / div
}

// EstimateRate returns the achievable samples per second of cfg.
//
// Cycles per sample are averages × (base + sample-time adder); the extra
// cycles of the first conversion are ignored. A clock above the datasheet
// ceiling, an unknown clock or a reserved field code yields 0. This is a
// diagnostic, not a safety check.
func EstimateRate(cfg *ConverterConfig, busClockHz uint32) uint32 {
	if cfg == nil {
		return 0
	}
	clock := ADCKFrequency(cfg, busClockHz)
	ceiling := uint32(MaxADCKNarrow)
	if cfg.Bits.Wide() {
		ceiling = MaxADCKWide
	}
	if clock == 0 || clock > ceiling {
		return 0
	}

	avg, ok := cfg.Average.Count()
	if !ok {
		return 0
	}
	base, ok := cfg.Bits.BaseCycles()
	if !ok {
		return 0
	}
	add, ok := cfg.SampleAdd.Cycles()
	if !ok {
		return 0
	}
	return clock / (avg * (base + add))
}
