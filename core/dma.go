// DMA controller driver (KL25 DMA, four channels)
package core

// DMA channel register fields (KL25 RM chapter 23)
const (
	DMA_DSR_BCR_BCR_Msk = 0xFFFFFF
	DMA_DSR_BCR_DONE    = 1 << 24
	DMA_DSR_BCR_BSY     = 1 << 25
	DMA_DSR_BCR_REQ     = 1 << 26
	DMA_DSR_BCR_BED     = 1 << 28
	DMA_DSR_BCR_BES     = 1 << 29
	DMA_DSR_BCR_CE      = 1 << 30

	DMA_DCR_LCH2_Pos   = 0
	DMA_DCR_LCH1_Pos   = 2
	DMA_DCR_LINKCC_Pos = 4
	DMA_DCR_D_REQ      = 1 << 7
	DMA_DCR_DMOD_Pos   = 8
	DMA_DCR_SMOD_Pos   = 12
	DMA_DCR_START      = 1 << 16
	DMA_DCR_DSIZE_Pos  = 17
	DMA_DCR_DINC       = 1 << 19
	DMA_DCR_SSIZE_Pos  = 20
	DMA_DCR_SINC       = 1 << 22
	DMA_DCR_EADREQ     = 1 << 23
	DMA_DCR_AA         = 1 << 28
	DMA_DCR_CS         = 1 << 29
	DMA_DCR_ERQ        = 1 << 30
	DMA_DCR_EINT       = 1 << 31

	// MaxByteCount is the largest count the channel accepts
	MaxByteCount = 0xFFFFF
)

// DMAChannel indexes one of the four channels.
type DMAChannel uint8

const (
	DMAChannel0 DMAChannel = iota
	DMAChannel1
	DMAChannel2
	DMAChannel3

	numDMAChannels = 4
)

// TransferSize is the SSIZE/DSIZE encoding.
type TransferSize uint8

const (
	Size32 TransferSize = iota
	Size8
	Size16
)

// Bytes returns the element width.
func (s TransferSize) Bytes() uint32 {
	switch s {
	case Size8:
		return 1
	case Size16:
		return 2
	}
	return 4
}

// Modulo is the SMOD/DMOD circular buffer size.
type Modulo uint8

const (
	ModNone Modulo = iota
	Mod16B
	Mod32B
	Mod64B
	Mod128B
	Mod256B
	Mod512B
	Mod1K
	Mod2K
	Mod4K
	Mod8K
	Mod16K
	Mod32K
	Mod64K
	Mod128K
	Mod256K
)

// LinkMode selects LINKCC.
type LinkMode uint8

const (
	LinkNone LinkMode = iota
	LinkCycleThenDone // LCH1 after each cycle, LCH2 when BCR reaches zero
	LinkCycle         // LCH1 after each cycle
	LinkDone          // LCH1 when BCR reaches zero
)

// DMAChannelRegisters is one channel's register block.
type DMAChannelRegisters struct {
	SAR     Register
	DAR     Register
	DSR_BCR Register
	DCR     Register
}

// DMARegisters is the DMA controller register block.
type DMARegisters struct {
	Channel [numDMAChannels]DMAChannelRegisters
}

// DMA is the controller instance. Only DMA0 exists on this part.
type DMA struct {
	Base     uintptr
	Regs     *DMARegisters
	Platform *Platform

	// DCR bits re-asserted when a channel is restarted
	rearm [numDMAChannels]uint32
}

// TransferConfig is consumed once by ConfigureDMA.
type TransferConfig struct {
	Device    *DMA
	Channel   DMAChannel
	Source    uint32
	Dest      uint32
	ByteCount uint32
	Interrupt bool

	PeripheralRequest bool // ERQ: transfers gated by the mux request
	CycleSteal        bool // CS: one transfer per request
	AutoAlign         bool
	AsyncRequest      bool

	SourceIncrement bool
	SourceSize      TransferSize
	SourceModulo    Modulo
	DestIncrement   bool
	DestSize        TransferSize
	DestModulo      Modulo

	AutoDisableRequest bool // D_REQ: clear ERQ when BCR reaches zero
	Link               LinkMode
	LinkChannel1       DMAChannel
	LinkChannel2       DMAChannel
	Start              bool
}

// DefaultTransferConfig returns safe defaults: nothing increments, zero
// count, no interrupt.
func DefaultTransferConfig(dev *DMA) TransferConfig {
	return TransferConfig{
		Device:     dev,
		Channel:    DMAChannel0,
		SourceSize: Size32,
		DestSize:   Size32,
		Link:       LinkNone,
	}
}

// legalAddress reports whether addr lies in flash, the SRAM_L / boot alias
// window, SRAM_U or the peripheral bridge.
func legalAddress(addr uint32) bool {
	switch addr & 0xFFF00000 {
	case 0x00000000, 0x1FF00000, 0x20000000, 0x40000000:
		return true
	}
	return false
}

func validTransferFields(cfg *TransferConfig) bool {
	return cfg.Channel < numDMAChannels &&
		cfg.SourceSize <= Size16 && cfg.DestSize <= Size16 &&
		cfg.SourceModulo <= Mod256K && cfg.DestModulo <= Mod256K &&
		cfg.Link <= LinkDone &&
		cfg.LinkChannel1 < numDMAChannels && cfg.LinkChannel2 < numDMAChannels
}

// validateDMA checks cfg in order; the first failing check wins.
func validateDMA(cfg *TransferConfig) error {
	if cfg == nil || cfg.Device == nil || cfg.Device.Regs == nil || !cfg.Device.Platform.ready() {
		return ErrNullReference
	}
	if cfg.Source == 0 || cfg.Dest == 0 {
		return ErrNullReference
	}
	if !validTransferFields(cfg) {
		return ErrInvalidField
	}
	if !legalAddress(cfg.Source) || !legalAddress(cfg.Dest) {
		return ErrIllegalAddress
	}
	if cfg.Device.Busy(cfg.Channel) {
		return ErrChannelBusy
	}
	if cfg.ByteCount&^MaxByteCount != 0 {
		return ErrByteCountOutOfRange
	}
	if cfg.Device.Base != DMA0Base {
		return ErrUnsupportedDevice
	}
	return nil
}

// encodeDCR composes the channel control word.
func encodeDCR(cfg *TransferConfig) uint32 {
	v := (uint32(cfg.SourceSize)&0x3)<<DMA_DCR_SSIZE_Pos |
		(uint32(cfg.DestSize)&0x3)<<DMA_DCR_DSIZE_Pos |
		(uint32(cfg.SourceModulo)&0xF)<<DMA_DCR_SMOD_Pos |
		(uint32(cfg.DestModulo)&0xF)<<DMA_DCR_DMOD_Pos |
		(uint32(cfg.Link)&0x3)<<DMA_DCR_LINKCC_Pos |
		(uint32(cfg.LinkChannel1)&0x3)<<DMA_DCR_LCH1_Pos |
		(uint32(cfg.LinkChannel2)&0x3)<<DMA_DCR_LCH2_Pos
	flags := []struct {
		on  bool
		bit uint32
	}{
		{cfg.Interrupt, DMA_DCR_EINT},
		{cfg.PeripheralRequest, DMA_DCR_ERQ},
		{cfg.CycleSteal, DMA_DCR_CS},
		{cfg.AutoAlign, DMA_DCR_AA},
		{cfg.AsyncRequest, DMA_DCR_EADREQ},
		{cfg.SourceIncrement, DMA_DCR_SINC},
		{cfg.DestIncrement, DMA_DCR_DINC},
		{cfg.Start, DMA_DCR_START},
		{cfg.AutoDisableRequest, DMA_DCR_D_REQ},
	}
	for _, f := range flags {
		if f.on {
			v |= f.bit
		}
	}
	return v
}

// ConfigureDMA validates cfg and programs one channel. Nothing is written
// unless every check passes.
func ConfigureDMA(cfg *TransferConfig) error {
	if err := validateDMA(cfg); err != nil {
		return err
	}
	d := cfg.Device
	d.Platform.EnableClock(GateDMA)

	ch := &d.Regs.Channel[cfg.Channel]
	ch.SAR.Set(cfg.Source)
	ch.DAR.Set(cfg.Dest)
	ch.DSR_BCR.Set(cfg.ByteCount & DMA_DSR_BCR_BCR_Msk)
	ch.DCR.Set(encodeDCR(cfg))

	if cfg.PeripheralRequest {
		d.rearm[cfg.Channel] = DMA_DCR_ERQ
	} else {
		d.rearm[cfg.Channel] = DMA_DCR_START
	}

	if cfg.Interrupt {
		d.Platform.EnableIRQ(IRQDMA0 + uint32(cfg.Channel))
	}
	return nil
}

// Busy reports the channel BSY flag. A clock-gated controller is idle, and
// reading it would fault.
func (d *DMA) Busy(ch DMAChannel) bool {
	if ch >= numDMAChannels || !d.Platform.ClockEnabled(GateDMA) {
		return false
	}
	return hasBits(d.Regs.Channel[ch].DSR_BCR, DMA_DSR_BCR_BSY)
}

// Done reports whether the channel finished its byte count.
func (d *DMA) Done(ch DMAChannel) bool {
	return hasBits(d.Regs.Channel[ch&3].DSR_BCR, DMA_DSR_BCR_DONE)
}

// Remaining returns the bytes left in the current transfer.
func (d *DMA) Remaining(ch DMAChannel) uint32 {
	return d.Regs.Channel[ch&3].DSR_BCR.Get() & DMA_DSR_BCR_BCR_Msk
}

// Acknowledge clears DONE (write one to clear), which also clears the error
// flags and drops the interrupt request.
func (d *DMA) Acknowledge(ch DMAChannel) {
	d.Regs.Channel[ch&3].DSR_BCR.Set(DMA_DSR_BCR_DONE)
}

// Restart points the channel at new addresses and count and re-arms it,
// either by re-enabling the peripheral request or by a software start.
// DONE must have been acknowledged first.
func (d *DMA) Restart(ch DMAChannel, src, dst, count uint32) {
	ch &= 3
	regs := &d.Regs.Channel[ch]
	regs.SAR.Set(src)
	regs.DAR.Set(dst)
	regs.DSR_BCR.Set(count & MaxByteCount)
	setBits(regs.DCR, d.rearm[ch])
}
