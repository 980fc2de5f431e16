// GPIO support for the timing probe pin
// Drives one fast GPIO output that brackets the completion handler so the
// interrupt latency can be measured on a scope.
package core

// GPIO register offsets from a port's GPIO base
const (
	GPIOABase   uintptr = 0x400FF000
	GPIOStride  uintptr = 0x40
	GPIO_PDOR   uintptr = 0x00
	GPIO_PSOR   uintptr = 0x04
	GPIO_PCOR   uintptr = 0x08
	GPIO_PTOR   uintptr = 0x0C
	GPIO_PDIR   uintptr = 0x10
	GPIO_PDDR   uintptr = 0x14
	PinMuxGPIO          = 1
	PORT_PCR_PS         = 1 << 0 // pull select, 0 = pulldown
	PORT_PCR_PE         = 1 << 1 // pull enable
	PORT_PCR_SRE        = 1 << 2 // slow slew rate
	PORT_PCR_DSE        = 1 << 6 // high drive strength
)

// GPIOPin identifies a pin within one port (0-31)
type GPIOPin uint32

// GPIORegisters is one port's GPIO block.
type GPIORegisters struct {
	PDOR Register // data output
	PSOR Register // set output
	PCOR Register // clear output
	PTOR Register // toggle output
	PDIR Register // data input
	PDDR Register // data direction
}

// Probe is a digital output used as a timing marker.
type Probe struct {
	Regs *GPIORegisters
	Port *Port
	Pin  GPIOPin
}

// ProbeConfig is consumed once by ConfigureProbe.
type ProbeConfig struct {
	Platform  *Platform
	Port      *Port
	Regs      *GPIORegisters
	Pin       GPIOPin
	HighDrive bool
	PullDown  bool
}

// ConfigureProbe routes the pin to GPIO, drives it low and makes it an
// output.
func ConfigureProbe(cfg *ProbeConfig) (*Probe, error) {
	if cfg == nil || cfg.Port == nil || cfg.Regs == nil || !cfg.Platform.ready() {
		return nil, ErrNullReference
	}
	if cfg.Pin >= GPIOPin(len(cfg.Port.PCR)) || cfg.Port.PCR[cfg.Pin] == nil || cfg.Port.Index > 4 {
		return nil, ErrInvalidField
	}
	cfg.Platform.EnableClock(cfg.Port.gate())

	pcr := encodePCRMux(PinMuxGPIO)
	if cfg.HighDrive {
		pcr |= PORT_PCR_DSE
	}
	if cfg.PullDown {
		pcr |= PORT_PCR_PE
	}
	cfg.Port.PCR[cfg.Pin].Set(pcr)

	mask := uint32(1) << cfg.Pin
	cfg.Regs.PCOR.Set(mask)
	setBits(cfg.Regs.PDDR, mask)
	return &Probe{Regs: cfg.Regs, Port: cfg.Port, Pin: cfg.Pin}, nil
}

// Set drives the probe high or low.
func (p *Probe) Set(high bool) {
	if p == nil {
		return
	}
	if high {
		p.Regs.PSOR.Set(1 << p.Pin)
	} else {
		p.Regs.PCOR.Set(1 << p.Pin)
	}
}

// Toggle inverts the probe.
func (p *Probe) Toggle() {
	if p != nil {
		p.Regs.PTOR.Set(1 << p.Pin)
	}
}

// High reports the output latch state.
func (p *Probe) High() bool {
	return p != nil && p.Regs.PDOR.Get()&(1<<p.Pin) != 0
}
