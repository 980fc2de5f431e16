package core

// DMAMUX channel configuration fields
const (
	DMAMUX_CHCFG_SOURCE_Msk = 0x3F
	DMAMUX_CHCFG_TRIG       = 1 << 6
	DMAMUX_CHCFG_ENBL       = 1 << 7
)

// RequestSource is the DMAMUX slot that paces a channel.
type RequestSource uint8

const (
	RequestDisabled RequestSource = 0
	RequestUART0Rx  RequestSource = 2
	RequestUART0Tx  RequestSource = 3
	RequestUART1Rx  RequestSource = 4
	RequestUART1Tx  RequestSource = 5
	RequestUART2Rx  RequestSource = 6
	RequestUART2Tx  RequestSource = 7
	RequestSPI0Rx   RequestSource = 16
	RequestSPI0Tx   RequestSource = 17
	RequestSPI1Rx   RequestSource = 18
	RequestSPI1Tx   RequestSource = 19
	RequestI2C0     RequestSource = 22
	RequestI2C1     RequestSource = 23
	RequestTPM0Ch0  RequestSource = 24
	RequestTPM1Ch0  RequestSource = 32
	RequestTPM2Ch0  RequestSource = 34
	RequestADC0     RequestSource = 40
	RequestCMP0     RequestSource = 42
	RequestDAC0     RequestSource = 45
	RequestPortA    RequestSource = 49
	RequestPortD    RequestSource = 52
	RequestTPM0     RequestSource = 54
	RequestTPM1     RequestSource = 55
	RequestTPM2     RequestSource = 56
	RequestTSI      RequestSource = 57
	RequestAlways0  RequestSource = 60
	RequestAlways1  RequestSource = 61
	RequestAlways2  RequestSource = 62
	RequestAlways3  RequestSource = 63
)

// DMAMUXRegisters is the multiplexer register block.
type DMAMUXRegisters struct {
	CHCFG [numDMAChannels]Register8
}

// DMAMUX binds DMA channels to request sources.
type DMAMUX struct {
	Base     uintptr
	Regs     *DMAMUXRegisters
	Platform *Platform
}

// TransferMuxConfig is consumed once by ConfigureDMAMUX.
type TransferMuxConfig struct {
	Device  *DMAMUX
	Channel DMAChannel
	Enable  bool
	Trigger bool // periodic trigger through the PIT
	Source  RequestSource
}

// DefaultTransferMuxConfig binds channel 0 to the ADC, disabled.
func DefaultTransferMuxConfig(dev *DMAMUX) TransferMuxConfig {
	return TransferMuxConfig{
		Device:  dev,
		Channel: DMAChannel0,
		Source:  RequestADC0,
	}
}

func encodeCHCFG(enable, trigger bool, src RequestSource) uint8 {
	v := uint8(src) & DMAMUX_CHCFG_SOURCE_Msk
	if enable {
		v |= DMAMUX_CHCFG_ENBL
	}
	if trigger {
		v |= DMAMUX_CHCFG_TRIG
	}
	return v
}

// ConfigureDMAMUX writes one channel binding.
func ConfigureDMAMUX(cfg *TransferMuxConfig) error {
	if cfg == nil || cfg.Device == nil || cfg.Device.Regs == nil || !cfg.Device.Platform.ready() {
		return ErrNullReference
	}
	if cfg.Device.Base != DMAMUXBase {
		return ErrUnsupportedDevice
	}
	if cfg.Channel >= numDMAChannels || cfg.Source > DMAMUX_CHCFG_SOURCE_Msk {
		return ErrInvalidField
	}
	cfg.Device.Platform.EnableClock(GateDMAMUX)
	cfg.Device.Regs.CHCFG[cfg.Channel].Set(encodeCHCFG(cfg.Enable, cfg.Trigger, cfg.Source))
	return nil
}

// Enable toggles only the ENBL bit of a binding.
func (m *DMAMUX) Enable(ch DMAChannel, on bool) {
	r := m.Regs.CHCFG[ch&3]
	if on {
		r.Set(r.Get() | DMAMUX_CHCFG_ENBL)
	} else {
		r.Set(r.Get() &^ DMAMUX_CHCFG_ENBL)
	}
}
