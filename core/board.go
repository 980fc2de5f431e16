package core

// Binder maps a bus address to a 32-bit register. On target it returns a
// volatile register at that address; off-target an emulated one.
type Binder func(addr uintptr) Register

// Binder8 is the 8-bit counterpart of Binder.
type Binder8 func(addr uintptr) Register8

// ADC0 register offsets. The calibration results are laid out CLPx4 down to
// CLPx0.
const (
	ADC_SC1A = 0x00
	ADC_CFG1 = 0x08
	ADC_CFG2 = 0x0C
	ADC_RA   = 0x10
	ADC_CV1  = 0x18
	ADC_CV2  = 0x1C
	ADC_SC2  = 0x20
	ADC_SC3  = 0x24
	ADC_OFS  = 0x28
	ADC_PG   = 0x2C
	ADC_MG   = 0x30
	ADC_CLPD = 0x34
	ADC_CLPS = 0x38
	ADC_CLP0 = 0x4C
	ADC_CLMD = 0x54
	ADC_CLMS = 0x58
	ADC_CLM0 = 0x6C

	DMA_CHANNEL0     = 0x100
	DMA_CHANNEL_SIZE = 0x10

	SIM_SCGC5 = 0x1038
	SIM_SCGC6 = 0x103C
	SIM_SCGC7 = 0x1040
)

// BindADC builds the ADC0 register block at base.
func BindADC(base uintptr, bind Binder) *ADCRegisters {
	regs := &ADCRegisters{
		SC1:  [2]Register{bind(base + ADC_SC1A), bind(base + ADC_SC1A + 4)},
		CFG1: bind(base + ADC_CFG1),
		CFG2: bind(base + ADC_CFG2),
		R:    [2]Register{bind(base + ADC_RA), bind(base + ADC_RA + 4)},
		CV1:  bind(base + ADC_CV1),
		CV2:  bind(base + ADC_CV2),
		SC2:  bind(base + ADC_SC2),
		SC3:  bind(base + ADC_SC3),
		OFS:  bind(base + ADC_OFS),
		PG:   bind(base + ADC_PG),
		MG:   bind(base + ADC_MG),
		CLPD: bind(base + ADC_CLPD),
		CLPS: bind(base + ADC_CLPS),
		CLMD: bind(base + ADC_CLMD),
		CLMS: bind(base + ADC_CLMS),
	}
	for i := range regs.CLP {
		regs.CLP[i] = bind(base + ADC_CLP0 - 4*uintptr(i))
		regs.CLM[i] = bind(base + ADC_CLM0 - 4*uintptr(i))
	}
	return regs
}

// BindDMA builds the four channel blocks of the DMA controller at base.
func BindDMA(base uintptr, bind Binder) *DMARegisters {
	regs := &DMARegisters{}
	for i := range regs.Channel {
		ch := base + DMA_CHANNEL0 + DMA_CHANNEL_SIZE*uintptr(i)
		regs.Channel[i] = DMAChannelRegisters{
			SAR:     bind(ch),
			DAR:     bind(ch + 4),
			DSR_BCR: bind(ch + 8),
			DCR:     bind(ch + 12),
		}
	}
	return regs
}

// BindDMAMUX builds the channel configuration bytes at base.
func BindDMAMUX(base uintptr, bind Binder8) *DMAMUXRegisters {
	regs := &DMAMUXRegisters{}
	for i := range regs.CHCFG {
		regs.CHCFG[i] = bind(base + uintptr(i))
	}
	return regs
}

// BindSIM builds the clock gate registers of the SIM at base.
func BindSIM(base uintptr, bind Binder) *SIMRegisters {
	return &SIMRegisters{
		SCGC5: bind(base + SIM_SCGC5),
		SCGC6: bind(base + SIM_SCGC6),
		SCGC7: bind(base + SIM_SCGC7),
	}
}

// BindPort builds the pin control registers of PORTA..PORTE.
func BindPort(index uint8, bind Binder) *Port {
	p := &Port{Index: index}
	base := PORTABase + PortStride*uintptr(index)
	for i := range p.PCR {
		p.PCR[i] = bind(base + 4*uintptr(i))
	}
	return p
}

// BindGPIO builds the GPIO block of a port.
func BindGPIO(index uint8, bind Binder) *GPIORegisters {
	base := GPIOABase + GPIOStride*uintptr(index)
	return &GPIORegisters{
		PDOR: bind(base + GPIO_PDOR),
		PSOR: bind(base + GPIO_PSOR),
		PCOR: bind(base + GPIO_PCOR),
		PTOR: bind(base + GPIO_PTOR),
		PDIR: bind(base + GPIO_PDIR),
		PDDR: bind(base + GPIO_PDDR),
	}
}

// Board is every peripheral the level meter touches, bound at the KL25Z
// addresses.
type Board struct {
	Platform *Platform
	ADC      *ADC
	DMA      *DMA
	DMAMUX   *DMAMUX
	Ports    [5]*Port
	GPIO     [5]*GPIORegisters
}

// NewBoard binds the whole register surface.
func NewBoard(bind Binder, bind8 Binder8, nvic InterruptController) *Board {
	platform := &Platform{SIM: BindSIM(SIMBase, bind), NVIC: nvic}
	b := &Board{
		Platform: platform,
		ADC:      &ADC{Base: ADC0Base, Regs: BindADC(ADC0Base, bind), Platform: platform},
		DMA:      &DMA{Base: DMA0Base, Regs: BindDMA(DMA0Base, bind), Platform: platform},
		DMAMUX:   &DMAMUX{Base: DMAMUXBase, Regs: BindDMAMUX(DMAMUXBase, bind8), Platform: platform},
	}
	for i := range b.Ports {
		b.Ports[i] = BindPort(uint8(i), bind)
		b.GPIO[i] = BindGPIO(uint8(i), bind)
	}
	return b
}
