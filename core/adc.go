// ADC (Analog to Digital Converter) driver for the KL25 ADC0 instance
package core

// ADCRegisters is the ADC0 register block.
type ADCRegisters struct {
	SC1  [2]Register // status and control 1, A and B
	CFG1 Register
	CFG2 Register
	R    [2]Register // data result, A and B
	CV1  Register
	CV2  Register
	SC2  Register
	SC3  Register
	OFS  Register
	PG   Register
	MG   Register
	CLPD Register
	CLPS Register
	CLP  [5]Register // CLP0..CLP4
	CLMD Register
	CLMS Register
	CLM  [5]Register // CLM0..CLM4
}

// ADC is the converter instance. Only ADC0 exists on this part.
type ADC struct {
	Base     uintptr
	Regs     *ADCRegisters
	Platform *Platform

	// Wait blocks on calibration and conversion completion. Nil means Spin.
	Wait WaitFunc
}

// ConverterConfig is consumed once by ConfigureADC.
type ConverterConfig struct {
	Device      *ADC
	Interrupt   bool
	Channel     Channel
	Power       PowerMode
	Clock       ClockSource
	ClockDiv    ClockDivider
	SampleAdd   SampleTimeAdder
	Bits        Resolution
	Average     Averaging
	Mux         MuxBank
	AsyncClock  AsyncClockMode
	CompareMode CompareMode
	Compare1    uint16
	Compare2    uint16
	Trigger     TriggerMode
	DMA         bool
	Reference   Reference
	Convert     ConvertMode
	Port        *Port
	Pin1        uint32
	Pin2        uint32
}

// DefaultConverterConfig returns a configuration that is safe to program:
// disabled channel, no interrupt, one-shot, no compare.
func DefaultConverterConfig(dev *ADC) ConverterConfig {
	return ConverterConfig{
		Device:      dev,
		Interrupt:   false,
		Channel:     ChanDisabled,
		Power:       PowerNormal,
		Clock:       ClockADACK,
		ClockDiv:    ClockDiv1,
		SampleAdd:   SampleAdd0,
		Bits:        Bits16,
		Average:     Average1,
		Mux:         MuxA,
		AsyncClock:  AsyncClockOnlyADC,
		CompareMode: CompareDisabled,
		Trigger:     TriggerSoftware,
		Reference:   ReferenceDefault,
		Convert:     OneShot,
	}
}

// validateADC checks a configuration without touching hardware.
func validateADC(cfg *ConverterConfig) error {
	if cfg == nil || cfg.Device == nil || cfg.Port == nil {
		return ErrNullReference
	}
	if cfg.Device.Regs == nil || !cfg.Device.Platform.ready() {
		return ErrNullReference
	}
	if !cfg.Channel.Valid() {
		return ErrInvalidField
	}
	// A disabled channel pairs with any mode
	if cfg.Channel != ChanDisabled && cfg.Channel.Differential() != cfg.Bits.Differential() {
		return ErrIncompatibleChannelMode
	}
	if cfg.Device.Base != ADC0Base {
		return ErrUnsupportedDevice
	}
	if _, ok := cfg.Bits.ResultMask(); !ok {
		return ErrInvalidField
	}
	if _, ok := cfg.SampleAdd.Cycles(); !ok {
		return ErrInvalidField
	}
	if _, ok := cfg.Average.Count(); !ok {
		return ErrInvalidField
	}
	if _, ok := encodeCompare(cfg.CompareMode, cfg.Compare1, cfg.Compare2); !ok {
		return ErrInvalidField
	}
	if cfg.Mux > MuxB || cfg.Port.Index > 4 {
		return ErrInvalidField
	}
	if _, ok := cfg.ClockDiv.Divisor(); !ok {
		return ErrInvalidField
	}
	if cfg.Clock > ClockADACK || cfg.Power > PowerLow || cfg.Reference > ReferenceAlt {
		return ErrInvalidField
	}
	if cfg.Trigger > TriggerHardware || cfg.AsyncClock > AsyncClockAlwaysOn || cfg.Convert > Continuous {
		return ErrInvalidField
	}
	return nil
}

// ConfigureADC validates cfg, programs the converter, runs the
// self-calibration and writes the channel selector, which starts the first
// conversion.
//
// On ErrCalibrationFailed the clocks and pins stay configured; the caller
// decides whether to retry.
func ConfigureADC(cfg *ConverterConfig) error {
	if err := validateADC(cfg); err != nil {
		return err
	}
	adc := cfg.Device
	regs := adc.Regs
	cmp, _ := encodeCompare(cfg.CompareMode, cfg.Compare1, cfg.Compare2)

	// Pins
	adc.Platform.EnableClock(cfg.Port.gate())
	cfg.Port.setPinAnalog(cfg.Pin1)
	cfg.Port.setPinAnalog(cfg.Pin2)

	adc.Platform.EnableClock(GateADC0)

	regs.CFG1.Set(encodeCFG1(cfg.Power, cfg.ClockDiv, cfg.SampleAdd, cfg.Bits, cfg.Clock))
	regs.CFG2.Set(encodeCFG2(cfg.Mux, cfg.AsyncClock, cfg.SampleAdd))
	// ADTRG stays clear until calibration is done
	regs.SC2.Set(encodeSC2(cmp, cfg.DMA, cfg.Reference))
	regs.SC3.Set(encodeSC3(cfg.Convert, cfg.Average))

	if cmp.writeCV1 {
		regs.CV1.Set(cmp.cv1 & ADC_CV_Msk)
	}
	if cmp.writeCV2 {
		regs.CV2.Set(cmp.cv2 & ADC_CV_Msk)
	}

	if err := adc.calibrate(); err != nil {
		return err
	}

	if cfg.Trigger == TriggerHardware {
		setBits(regs.SC2, ADC_SC2_ADTRG)
	}
	sc1 := encodeChannel(cfg.Channel)
	if cfg.Interrupt {
		adc.Platform.EnableIRQ(IRQADC0)
		sc1 |= ADC_SC1_AIEN
	}
	regs.SC1[MuxA].Set(sc1)
	return nil
}

// calibrate runs the hardware self-calibration and stores the gains.
func (a *ADC) calibrate() error {
	regs := a.Regs
	setBits(regs.SC3, ADC_SC3_CAL)
	a.wait(func() bool {
		return hasBits(regs.SC1[MuxA], ADC_SC1_COCO)
	})
	if hasBits(regs.SC3, ADC_SC3_CALF) {
		RecordTiming(EvtCalibration, 0, GetTime(), 1, 0)
		DebugPrintln("[ADC] calibration failed")
		return ErrCalibrationFailed
	}
	pg := calibrationGain(regs.CLPS, regs.CLP[:])
	mg := calibrationGain(regs.CLMS, regs.CLM[:])
	regs.PG.Set(pg)
	regs.MG.Set(mg)
	RecordTiming(EvtCalibration, 0, GetTime(), 0, pg)
	return nil
}

// calibrationGain sums the side's calibration results, halves them and sets
// the MSB, as the reference manual prescribes for PG and MG.
func calibrationGain(s Register, parts []Register) uint32 {
	sum := s.Get() & 0xFFFF
	for _, r := range parts {
		if r != nil {
			sum += r.Get() & 0xFFFF
		}
	}
	return (sum/2 | 0x8000) & 0xFFFF
}

func (a *ADC) wait(ready func() bool) {
	if a.Wait != nil {
		a.Wait(ready)
		return
	}
	Spin(ready)
}

// StartConversion rewrites only the channel field of SC1[mux]. In one-shot
// mode this starts a conversion; it also switches channels without a full
// reconfiguration.
func (a *ADC) StartConversion(mux MuxBank, ch Channel) {
	replaceBits(a.Regs.SC1[mux&1], encodeChannel(ch), ADC_SC1_ADCH_Msk|ADC_SC1_DIFF)
}

// BlockingRead waits for COCO on SC1[mux] and returns the result masked to
// the significant bits of the resolution. Differential modes keep their sign
// bit but lose the sign-extension region.
func (a *ADC) BlockingRead(mux MuxBank, bits Resolution) uint16 {
	mux &= 1
	a.wait(func() bool {
		return hasBits(a.Regs.SC1[mux], ADC_SC1_COCO)
	})
	mask, ok := bits.ResultMask()
	if !ok {
		mask = 0xFFFF
	}
	return uint16(a.Regs.R[mux].Get()) & mask
}

// ResultAddress returns the bus address of the result register, the usual
// DMA source.
func (a *ADC) ResultAddress(mux MuxBank) uint32 {
	return uint32(a.Base) + 0x10 + 4*uint32(mux&1)
}
