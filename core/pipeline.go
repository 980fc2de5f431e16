package core

import "sync/atomic"

// BufferIndex names the half the DMA engine is currently filling.
type BufferIndex uint32

const (
	FillingA BufferIndex = iota
	FillingB
)

// Other returns the opposite half.
func (i BufferIndex) Other() BufferIndex {
	return i ^ 1
}

// SampleBytes is the width of one converted sample in a buffer half.
const SampleBytes = 2

// Consumer receives the half that was just filled. It runs in interrupt
// context and must return before the next completion.
type Consumer func(half []int16)

// DoubleBuffer keeps a DMA channel streaming into two alternating halves.
//
// The active index is written only by HandleComplete, which runs in the DMA
// completion interrupt. The consumer always gets the half the engine is not
// writing.
type DoubleBuffer struct {
	dma     *DMA
	channel DMAChannel
	source  uint32

	halves    [2][]int16
	addrs     [2]uint32
	halfBytes uint32

	active    uint32 // BufferIndex
	completed uint32
	consumer  Consumer
	probe     *Probe
}

// NewDoubleBuffer wires a configured channel to two equal halves. addrs are
// the bus addresses of a and b; initial is the half the channel was
// configured against.
func NewDoubleBuffer(dma *DMA, ch DMAChannel, source uint32, a, b []int16, addrs [2]uint32, initial BufferIndex) *DoubleBuffer {
	if len(a) != len(b) {
		panic("double buffer halves differ in size")
	}
	return &DoubleBuffer{
		dma:       dma,
		channel:   ch,
		source:    source,
		halves:    [2][]int16{a, b},
		addrs:     addrs,
		halfBytes: uint32(len(a)) * SampleBytes,
		active:    uint32(initial & 1),
	}
}

// SetConsumer installs the callback fed on every completion.
func (b *DoubleBuffer) SetConsumer(c Consumer) {
	b.consumer = c
}

// SetProbe installs a pin raised for the acknowledge, swap and restart of
// each completion. Nil disables it.
func (b *DoubleBuffer) SetProbe(p *Probe) {
	b.probe = p
}

// HalfBytes is the byte count of one transfer.
func (b *DoubleBuffer) HalfBytes() uint32 {
	return b.halfBytes
}

// Address returns the bus address of a half.
func (b *DoubleBuffer) Address(i BufferIndex) uint32 {
	return b.addrs[i&1]
}

// Arm (re)starts the channel against the active half.
func (b *DoubleBuffer) Arm() {
	idx := b.Active()
	b.dma.Restart(b.channel, b.source, b.addrs[idx], b.halfBytes)
}

// HandleComplete is the transfer-complete handler. DONE is cleared before
// the channel is re-armed so that the next completion cannot be lost.
func (b *DoubleBuffer) HandleComplete() {
	b.probe.Set(true)
	b.dma.Acknowledge(b.channel)

	next := BufferIndex(atomic.LoadUint32(&b.active)).Other()
	atomic.StoreUint32(&b.active, uint32(next))
	b.dma.Restart(b.channel, b.source, b.addrs[next], b.halfBytes)
	b.probe.Set(false)

	n := atomic.AddUint32(&b.completed, 1)
	RecordTiming(EvtBufferFlip, uint8(b.channel), GetTime(), uint32(next), n)

	if b.consumer != nil {
		b.consumer(b.halves[next.Other()])
	}
}

// Active returns the half the engine is filling.
func (b *DoubleBuffer) Active() BufferIndex {
	return BufferIndex(atomic.LoadUint32(&b.active))
}

// Completed returns the number of completion events handled.
func (b *DoubleBuffer) Completed() uint32 {
	return atomic.LoadUint32(&b.completed)
}

// Filled returns the half that is safe to read right now.
func (b *DoubleBuffer) Filled() []int16 {
	return b.halves[b.Active().Other()]
}

// IRQMasker is implemented by interrupt controllers that can mask a single
// line.
type IRQMasker interface {
	DisableIRQ(irq uint32)
}

// Snapshot copies the filled half into dst so the copy cannot straddle a
// buffer flip. Only the channel's completion line is masked when the
// interrupt controller supports it; otherwise interrupts are masked globally
// for the copy. It returns the number of samples.
func (b *DoubleBuffer) Snapshot(dst []int16) int {
	irq := IRQDMA0 + uint32(b.channel)
	nvic := b.dma.Platform.NVIC
	if m, ok := nvic.(IRQMasker); ok {
		m.DisableIRQ(irq)
		n := copy(dst, b.halves[b.Active().Other()])
		nvic.EnableIRQ(irq)
		return n
	}

	state := disableInterrupts()
	n := copy(dst, b.halves[b.Active().Other()])
	restoreInterrupts(state)
	return n
}

// StartStream brings the pipeline up in hardware order: the multiplexer
// binding (disabled), the DMA channel, then the converter with calibration.
// The binding is enabled last so no request reaches a half-configured
// channel. The first error stops the sequence.
func StartStream(mux *TransferMuxConfig, xfer *TransferConfig, conv *ConverterConfig) error {
	if mux == nil || xfer == nil || conv == nil {
		return ErrNullReference
	}
	if mux.Channel != xfer.Channel {
		return ErrInvalidField
	}
	binding := *mux
	binding.Enable = false
	if err := ConfigureDMAMUX(&binding); err != nil {
		return err
	}
	if err := ConfigureDMA(xfer); err != nil {
		return err
	}
	if err := ConfigureADC(conv); err != nil {
		return err
	}
	binding.Device.Enable(binding.Channel, true)
	return nil
}
