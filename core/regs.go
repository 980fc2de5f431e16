package core

// Register is a 32-bit memory-mapped register.
// On target it is bound to a *volatile.Register32; on host to a *MemRegister.
type Register interface {
	Get() uint32
	Set(value uint32)
}

// Register8 is an 8-bit memory-mapped register (DMAMUX CHCFG).
type Register8 interface {
	Get() uint8
	Set(value uint8)
}

// setBits performs a read-modify-write setting the given bits
func setBits(r Register, bits uint32) {
	r.Set(r.Get() | bits)
}

// hasBits reports whether all given bits are set
func hasBits(r Register, bits uint32) bool {
	return r.Get()&bits == bits
}

// replaceBits rewrites the masked field only, leaving the rest intact
func replaceBits(r Register, value, mask uint32) {
	r.Set(r.Get()&^mask | value&mask)
}

// MemRegister is a plain memory register used off-target.
// OnWrite, if set, runs after every Set and may mutate the stored value to
// emulate hardware side effects (self-clearing bits, status flags).
type MemRegister struct {
	Value   uint32
	Writes  int
	OnWrite func(r *MemRegister, written uint32)
}

func (r *MemRegister) Get() uint32 {
	return r.Value
}

func (r *MemRegister) Set(value uint32) {
	r.Value = value
	r.Writes++
	if r.OnWrite != nil {
		r.OnWrite(r, value)
	}
}

// MemRegister8 is the 8-bit counterpart of MemRegister.
type MemRegister8 struct {
	Value  uint8
	Writes int
}

func (r *MemRegister8) Get() uint8 {
	return r.Value
}

func (r *MemRegister8) Set(value uint8) {
	r.Value = value
	r.Writes++
}

// Peripheral base addresses (KL25 Sub-Family Reference Manual, chapter 3)
const (
	ADC0Base   uintptr = 0x4003B000
	DMA0Base   uintptr = 0x40008000
	DMAMUXBase uintptr = 0x40021000
	SIMBase    uintptr = 0x40047000
	PORTABase  uintptr = 0x40049000
	PortStride uintptr = 0x1000
)

// Interrupt request lines on the NVIC
const (
	IRQDMA0 uint32 = 0
	IRQDMA1 uint32 = 1
	IRQDMA2 uint32 = 2
	IRQDMA3 uint32 = 3
	IRQADC0 uint32 = 15
)
