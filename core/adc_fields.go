package core

// ADC register bit fields (KL25 RM chapter 28)
const (
	ADC_SC1_ADCH_Msk = 0x1F
	ADC_SC1_DIFF     = 1 << 5
	ADC_SC1_AIEN     = 1 << 6
	ADC_SC1_COCO     = 1 << 7

	ADC_CFG1_ADICLK_Pos = 0
	ADC_CFG1_MODE_Pos   = 2
	ADC_CFG1_ADLSMP     = 1 << 4
	ADC_CFG1_ADIV_Pos   = 5
	ADC_CFG1_ADLPC      = 1 << 7

	ADC_CFG2_ADLSTS_Pos = 0
	ADC_CFG2_ADHSC      = 1 << 2
	ADC_CFG2_ADACKEN    = 1 << 3
	ADC_CFG2_MUXSEL     = 1 << 4

	ADC_SC2_REFSEL_Pos = 0
	ADC_SC2_DMAEN      = 1 << 2
	ADC_SC2_ACREN      = 1 << 3
	ADC_SC2_ACFGT      = 1 << 4
	ADC_SC2_ACFE       = 1 << 5
	ADC_SC2_ADTRG      = 1 << 6

	ADC_SC3_AVGS_Msk = 0x3
	ADC_SC3_AVGE     = 1 << 2
	ADC_SC3_ADCO     = 1 << 3
	ADC_SC3_CALF     = 1 << 6
	ADC_SC3_CAL      = 1 << 7

	ADC_CV_Msk = 0xFFFF
)

// Channel is the SC1 input selector. Bit 5 is the DIFF flag, bits 4:0 ADCH.
type Channel uint8

const (
	ChanDADP0 Channel = iota
	ChanDADP1
	ChanDADP2
	ChanDADP3
	ChanAD4
	ChanAD5
	ChanAD6
	ChanAD7
	ChanAD8
	ChanAD9
	ChanAD10
	ChanAD11
	ChanAD12
	ChanAD13
	ChanAD14
	ChanAD15
	ChanAD16
	ChanAD17
	ChanAD18
	ChanAD19
	ChanAD20
	ChanAD21
	ChanAD22
	ChanAD23
)

const (
	ChanTemp        Channel = 0x1A
	ChanBandgap     Channel = 0x1B
	ChanVREFSH      Channel = 0x1D
	ChanVREFSL      Channel = 0x1E
	ChanDisabled    Channel = 0x1F
	ChanDAD0        Channel = 0x20
	ChanDAD1        Channel = 0x21
	ChanDAD2        Channel = 0x22
	ChanDAD3        Channel = 0x23
	ChanTempDiff    Channel = 0x3A
	ChanBandgapDiff Channel = 0x3B
	ChanVREFSHDiff  Channel = 0x3D
)

// Valid reports whether the code is a documented channel.
func (c Channel) Valid() bool {
	switch {
	case c <= ChanAD23:
		return true
	case c == ChanTemp, c == ChanBandgap, c == ChanVREFSH, c == ChanVREFSL, c == ChanDisabled:
		return true
	case c >= ChanDAD0 && c <= ChanDAD3:
		return true
	case c == ChanTempDiff, c == ChanBandgapDiff, c == ChanVREFSHDiff:
		return true
	}
	return false
}

// Differential reports whether the channel measures a pin pair.
func (c Channel) Differential() bool {
	return c.Valid() && c != ChanDisabled && c&ADC_SC1_DIFF != 0
}

// encodeChannel returns the SC1 ADCH|DIFF field.
func encodeChannel(c Channel) uint32 {
	return uint32(c) & (ADC_SC1_ADCH_Msk | ADC_SC1_DIFF)
}

// Resolution is the conversion mode. Values 0-3 are single-ended, 4-7 the
// differential variants sharing the same MODE field.
type Resolution uint8

const (
	Bits8 Resolution = iota
	Bits12
	Bits10
	Bits16
	Bits9Diff
	Bits13Diff
	Bits11Diff
	Bits16Diff
)

// Differential reports whether the mode is a differential one.
func (r Resolution) Differential() bool {
	return r >= Bits9Diff && r <= Bits16Diff
}

// Wide reports the 16-bit modes, which have the lower clock ceiling.
func (r Resolution) Wide() bool {
	return r == Bits16 || r == Bits16Diff
}

var resultMasks = map[Resolution]uint16{
	Bits8:      0xFFFF,
	Bits12:     0xFFFF,
	Bits10:     0xFFFF,
	Bits16:     0xFFFF,
	Bits9Diff:  0x80FF,
	Bits13Diff: 0x8FFF,
	Bits11Diff: 0x83FF,
	Bits16Diff: 0xFFFF,
}

var baseCycles = map[Resolution]uint32{
	Bits8:      17,
	Bits12:     20,
	Bits10:     20,
	Bits16:     25,
	Bits9Diff:  27,
	Bits13Diff: 30,
	Bits11Diff: 30,
	Bits16Diff: 34,
}

// ResultMask returns the significant-bit pattern of a result register.
func (r Resolution) ResultMask() (uint16, bool) {
	m, ok := resultMasks[r]
	return m, ok
}

// BaseCycles returns the ADCK cycles per conversion before adders.
func (r Resolution) BaseCycles() (uint32, bool) {
	c, ok := baseCycles[r]
	return c, ok
}

// PowerMode selects ADLPC.
type PowerMode uint8

const (
	PowerNormal PowerMode = iota
	PowerLow
)

// ClockSource selects ADICLK.
type ClockSource uint8

const (
	ClockBus ClockSource = iota
	ClockBusDiv2
	ClockAlt
	ClockADACK
)

// ClockDivider selects ADIV (1, 2, 4, 8).
type ClockDivider uint8

const (
	ClockDiv1 ClockDivider = iota
	ClockDiv2
	ClockDiv4
	ClockDiv8
)

// Divisor returns the divide ratio; false for a reserved code.
func (d ClockDivider) Divisor() (uint32, bool) {
	if d > ClockDiv8 {
		return 0, false
	}
	return 1 << uint32(d), true
}

// SampleTimeAdder packs ADHSC (bit 3), ADLSMP (bit 2) and ADLSTS (bits 1:0).
// Gaps in the code space are reserved.
type SampleTimeAdder uint8

const (
	SampleAdd0    SampleTimeAdder = 0x0
	SampleAdd20   SampleTimeAdder = 0x4
	SampleAdd12   SampleTimeAdder = 0x5
	SampleAdd6    SampleTimeAdder = 0x6
	SampleAdd2    SampleTimeAdder = 0x7
	SampleAddHS2  SampleTimeAdder = 0x8
	SampleAddHS22 SampleTimeAdder = 0xC
	SampleAddHS14 SampleTimeAdder = 0xD
	SampleAddHS8  SampleTimeAdder = 0xE
	SampleAddHS4  SampleTimeAdder = 0xF
)

var sampleAdderCycles = map[SampleTimeAdder]uint32{
	SampleAdd0:    0,
	SampleAdd20:   20,
	SampleAdd12:   12,
	SampleAdd6:    6,
	SampleAdd2:    2,
	SampleAddHS2:  2,
	SampleAddHS22: 22,
	SampleAddHS14: 14,
	SampleAddHS8:  8,
	SampleAddHS4:  4,
}

// Cycles returns the extra ADCK cycles per sample.
func (s SampleTimeAdder) Cycles() (uint32, bool) {
	c, ok := sampleAdderCycles[s]
	return c, ok
}

func (s SampleTimeAdder) adlsts() uint32 { return uint32(s) & 0x3 }
func (s SampleTimeAdder) adlsmp() bool   { return s&0x4 != 0 }
func (s SampleTimeAdder) adhsc() bool    { return s&0x8 != 0 }

// Averaging selects hardware averaging (AVGE|AVGS).
type Averaging uint8

const (
	Average1  Averaging = 0x0
	Average4  Averaging = 0x4
	Average8  Averaging = 0x5
	Average16 Averaging = 0x6
	Average32 Averaging = 0x7
)

var averageCounts = map[Averaging]uint32{
	Average1:  1,
	Average4:  4,
	Average8:  8,
	Average16: 16,
	Average32: 32,
}

// Count returns the number of conversions averaged per result.
func (a Averaging) Count() (uint32, bool) {
	n, ok := averageCounts[a]
	return n, ok
}

// MuxBank selects the A or B result/status pair.
type MuxBank uint8

const (
	MuxA MuxBank = iota
	MuxB
)

// AsyncClockMode selects ADACKEN.
type AsyncClockMode uint8

const (
	AsyncClockOnlyADC AsyncClockMode = iota
	AsyncClockAlwaysOn
)

// CompareMode selects the hardware compare function.
type CompareMode uint8

const (
	CompareDisabled CompareMode = iota
	_
	_
	_
	CompareLess
	CompareRangeExclusiveInside
	CompareGreater
	CompareRangeInclusiveInside
	CompareRangeExclusiveOutside
	CompareRangeInclusiveOutside
)

// compareFields maps each compare mode to its SC2 bits and whether CV1 must
// hold the larger threshold. The hardware picks inside/outside from the
// ordering of CV1 and CV2, so the ordering is part of the encoding.
var compareFields = map[CompareMode]struct {
	sc2      uint32
	cv1IsMax bool
	twoBound bool
}{
	CompareDisabled:              {0, false, false},
	CompareLess:                  {ADC_SC2_ACFE, true, false},
	CompareGreater:               {ADC_SC2_ACFE | ADC_SC2_ACFGT, true, false},
	CompareRangeExclusiveInside:  {ADC_SC2_ACFE | ADC_SC2_ACREN, true, true},
	CompareRangeExclusiveOutside: {ADC_SC2_ACFE | ADC_SC2_ACREN, false, true},
	CompareRangeInclusiveInside:  {ADC_SC2_ACFE | ADC_SC2_ACFGT | ADC_SC2_ACREN, false, true},
	CompareRangeInclusiveOutside: {ADC_SC2_ACFE | ADC_SC2_ACFGT | ADC_SC2_ACREN, true, true},
}

// compareValues holds the register image of the compare logic.
type compareValues struct {
	sc2      uint32
	cv1, cv2 uint32
	writeCV1 bool
	writeCV2 bool
}

// encodeCompare normalizes thresholds for a compare mode. The result does
// not depend on the order in which t1 and t2 are supplied.
func encodeCompare(mode CompareMode, t1, t2 uint16) (compareValues, bool) {
	f, ok := compareFields[mode]
	if !ok {
		return compareValues{}, false
	}
	if mode == CompareDisabled {
		return compareValues{}, true
	}
	lo, hi := uint32(t1), uint32(t2)
	if lo > hi {
		lo, hi = hi, lo
	}
	v := compareValues{sc2: f.sc2, writeCV1: true, writeCV2: f.twoBound}
	if f.cv1IsMax {
		v.cv1, v.cv2 = hi, lo
	} else {
		v.cv1, v.cv2 = lo, hi
	}
	if !f.twoBound {
		v.cv2 = 0
	}
	return v, true
}

// TriggerMode selects ADTRG.
type TriggerMode uint8

const (
	TriggerSoftware TriggerMode = iota
	TriggerHardware
)

// Reference selects REFSEL.
type Reference uint8

const (
	ReferenceDefault Reference = iota
	ReferenceAlt
)

// ConvertMode selects ADCO.
type ConvertMode uint8

const (
	OneShot ConvertMode = iota
	Continuous
)

func encodeCFG1(power PowerMode, div ClockDivider, add SampleTimeAdder, bits Resolution, clk ClockSource) uint32 {
	v := (uint32(div)&0x3)<<ADC_CFG1_ADIV_Pos |
		(uint32(bits)&0x3)<<ADC_CFG1_MODE_Pos |
		(uint32(clk)&0x3)<<ADC_CFG1_ADICLK_Pos
	if power == PowerLow {
		v |= ADC_CFG1_ADLPC
	}
	if add.adlsmp() {
		v |= ADC_CFG1_ADLSMP
	}
	return v
}

func encodeCFG2(mux MuxBank, async AsyncClockMode, add SampleTimeAdder) uint32 {
	v := add.adlsts() << ADC_CFG2_ADLSTS_Pos
	if mux == MuxB {
		v |= ADC_CFG2_MUXSEL
	}
	if async == AsyncClockAlwaysOn {
		v |= ADC_CFG2_ADACKEN
	}
	if add.adhsc() {
		v |= ADC_CFG2_ADHSC
	}
	return v
}

func encodeSC2(cmp compareValues, dma bool, ref Reference) uint32 {
	v := cmp.sc2 | (uint32(ref)&0x3)<<ADC_SC2_REFSEL_Pos
	if dma {
		v |= ADC_SC2_DMAEN
	}
	return v
}

func encodeSC3(mode ConvertMode, avg Averaging) uint32 {
	v := uint32(avg) & (ADC_SC3_AVGE | ADC_SC3_AVGS_Msk)
	if mode == Continuous {
		v |= ADC_SC3_ADCO
	}
	return v
}
