package core

// InterruptController is the platform NVIC.
type InterruptController interface {
	// EnableIRQ unmasks interrupt line irq.
	EnableIRQ(irq uint32)
}

// SIMRegisters holds the System Integration Module clock gates.
type SIMRegisters struct {
	SCGC5 Register // port clock gates
	SCGC6 Register // ADC0, DMAMUX, ...
	SCGC7 Register // DMA
}

// ClockGate names one peripheral clock gate bit in the SIM.
type ClockGate uint8

const (
	GatePortA ClockGate = iota
	GatePortB
	GatePortC
	GatePortD
	GatePortE
	GateADC0
	GateDMAMUX
	GateDMA
)

// SIM clock gate bit positions
const (
	SIM_SCGC5_PORTA_Pos  = 9
	SIM_SCGC6_DMAMUX_Pos = 1
	SIM_SCGC6_ADC0_Pos   = 27
	SIM_SCGC7_DMA_Pos    = 8
)

// gateBit returns the SIM register and bit for a clock gate
func (s *SIMRegisters) gateBit(g ClockGate) (Register, uint32) {
	switch g {
	case GatePortA, GatePortB, GatePortC, GatePortD, GatePortE:
		return s.SCGC5, 1 << (SIM_SCGC5_PORTA_Pos + uint32(g-GatePortA))
	case GateADC0:
		return s.SCGC6, 1 << SIM_SCGC6_ADC0_Pos
	case GateDMAMUX:
		return s.SCGC6, 1 << SIM_SCGC6_DMAMUX_Pos
	case GateDMA:
		return s.SCGC7, 1 << SIM_SCGC7_DMA_Pos
	}
	return nil, 0
}

// Platform is the board-level collaborator every configurator needs:
// clock gating in the SIM and the interrupt controller.
type Platform struct {
	SIM  *SIMRegisters
	NVIC InterruptController
}

func (p *Platform) ready() bool {
	return p != nil && p.SIM != nil
}

// EnableClock ungates the peripheral clock.
func (p *Platform) EnableClock(g ClockGate) {
	if r, bit := p.SIM.gateBit(g); r != nil {
		setBits(r, bit)
	}
}

// ClockEnabled reports whether the peripheral clock is ungated.
func (p *Platform) ClockEnabled(g ClockGate) bool {
	r, bit := p.SIM.gateBit(g)
	return r != nil && hasBits(r, bit)
}

// EnableIRQ unmasks an interrupt line if an interrupt controller is present.
func (p *Platform) EnableIRQ(irq uint32) {
	if p.NVIC != nil {
		p.NVIC.EnableIRQ(irq)
	}
}

// PORT pin control register fields
const (
	PORT_PCR_MUX_Pos = 8
	PORT_PCR_MUX_Msk = 0x7 << PORT_PCR_MUX_Pos

	// PinMuxAnalog disconnects the digital path (ALT0)
	PinMuxAnalog = 0
)

// Port is one pin bank (PORTA..PORTE).
type Port struct {
	Index uint8 // 0 = PORTA
	PCR   [32]Register
}

// gate returns the clock gate of the port
func (p *Port) gate() ClockGate {
	return GatePortA + ClockGate(p.Index)
}

// encodePCRMux returns the PCR MUX field for an alternative
func encodePCRMux(alt uint32) uint32 {
	return (alt << PORT_PCR_MUX_Pos) & PORT_PCR_MUX_Msk
}

// setPinAnalog routes a pin to its analog function.
func (p *Port) setPinAnalog(pin uint32) {
	if pin >= uint32(len(p.PCR)) || p.PCR[pin] == nil {
		return
	}
	replaceBits(p.PCR[pin], encodePCRMux(PinMuxAnalog), PORT_PCR_MUX_Msk)
}

// WaitFunc blocks until ready reports true.
// Hardware waits have no timeout: a hung peripheral hangs the caller.
type WaitFunc func(ready func() bool)

// Spin is the default WaitFunc, an unbounded busy loop.
func Spin(ready func() bool) {
	for !ready() {
	}
}
