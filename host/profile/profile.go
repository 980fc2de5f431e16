// Package profile loads level meter profiles from JSON and turns them into
// the core converter, transfer and multiplexer configurations.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"levelmeter/core"
)

// Defaults for fields a profile leaves out
const (
	DefaultBusClockHz  = 24000000
	DefaultHalfSamples = 64
	DefaultDecayShift  = 1
	DefaultBarShift    = 10
	MaxHalfSamples     = core.MaxByteCount / core.SampleBytes
)

// Profile errors
var (
	ErrHalfSamples = errors.New("half_samples out of range")
	ErrPins        = errors.New("pins outside 0-31")
	ErrDecayShift  = errors.New("decay_shift above 31")
	ErrPort        = errors.New("port outside A-E")
)

// Compare is the optional hardware compare block.
type Compare struct {
	Mode       CompareMode `json:"mode"`
	Thresholds [2]uint16   `json:"thresholds"`
}

// Converter describes the ADC setup.
type Converter struct {
	Channel         Channel      `json:"channel"`
	Bits            Resolution   `json:"bits"`
	Clock           ClockSource  `json:"clock"`
	ClockDiv        ClockDivider `json:"clock_div"`
	SampleAdd       SampleAdder  `json:"sample_add"`
	Average         Averaging    `json:"average"`
	Convert         ConvertMode  `json:"continuous"`
	Power           PowerMode    `json:"low_power"`
	Reference       Reference    `json:"alt_reference"`
	DMA             bool         `json:"dma"`
	Interrupt       bool         `json:"interrupt"`
	HardwareTrigger bool         `json:"hardware_trigger"`
	Port            PortName     `json:"port"`
	Pins            [2]uint32    `json:"pins"`
	Compare         Compare      `json:"compare"`
}

// Transfer describes the DMA channel feeding the double buffer.
type Transfer struct {
	Channel     uint8  `json:"channel"`
	HalfSamples uint32 `json:"half_samples"`
	Interrupt   bool   `json:"interrupt"`
	CycleSteal  bool   `json:"cycle_steal"`
}

// Meter describes the peak engine and the bar display.
type Meter struct {
	DecayShift uint8 `json:"decay_shift"`
	BarShift   uint8 `json:"bar_shift"`
}

// Profile is a complete level meter setup.
type Profile struct {
	Name       string    `json:"name"`
	BusClockHz uint32    `json:"bus_clock_hz"`
	Converter  Converter `json:"converter"`
	Transfer   Transfer  `json:"transfer"`
	Meter      Meter     `json:"meter"`
}

// Default returns the FRDM-KL25Z profile: DAD0 (PTE20/PTE21) in 16-bit
// differential mode on ADACK, continuous, 16 averages with 6 extra cycles,
// streamed by DMA channel 0 into 64-sample halves.
func Default() Profile {
	return Profile{
		Name:       "frdm-kl25z",
		BusClockHz: DefaultBusClockHz,
		Converter: Converter{
			Channel:   Channel(core.ChanDAD0),
			Bits:      Resolution(core.Bits16Diff),
			Clock:     ClockSource(core.ClockADACK),
			ClockDiv:  ClockDivider(core.ClockDiv1),
			SampleAdd: SampleAdder(core.SampleAdd6),
			Average:   Averaging(core.Average16),
			Convert:   ConvertMode(core.Continuous),
			Power:     PowerMode(core.PowerNormal),
			Reference: Reference(core.ReferenceDefault),
			DMA:       true,
			Port:      PortName(4),
			Pins:      [2]uint32{20, 21},
			Compare:   Compare{Mode: CompareMode(core.CompareDisabled)},
		},
		Transfer: Transfer{
			Channel:     uint8(core.DMAChannel0),
			HalfSamples: DefaultHalfSamples,
			Interrupt:   true,
			CycleSteal:  true,
		},
		Meter: Meter{
			DecayShift: DefaultDecayShift,
			BarShift:   DefaultBarShift,
		},
	}
}

// Parse decodes a JSON profile on top of Default, so fields left out keep
// the board defaults.
func Parse(data []byte) (*Profile, error) {
	p := Default()
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(&p)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and parses a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// applyDefaults fills in values a profile zeroed explicitly but that have
// no meaningful zero
func applyDefaults(p *Profile) {
	if p.BusClockHz == 0 {
		p.BusClockHz = DefaultBusClockHz
	}
	if p.Transfer.HalfSamples == 0 {
		p.Transfer.HalfSamples = DefaultHalfSamples
	}
	if p.Name == "" {
		p.Name = "unnamed"
	}
}

// Validate checks what the JSON decoders cannot. Field combinations the
// hardware rejects are left to the core configurators.
func (p *Profile) Validate() error {
	if p.Transfer.HalfSamples > MaxHalfSamples {
		return fmt.Errorf("%w: %d, max %d", ErrHalfSamples, p.Transfer.HalfSamples, MaxHalfSamples)
	}
	if p.Converter.Port > 4 {
		return ErrPort
	}
	for _, pin := range p.Converter.Pins {
		if pin > 31 {
			return fmt.Errorf("%w: %d", ErrPins, pin)
		}
	}
	if p.Meter.DecayShift > 31 {
		return ErrDecayShift
	}
	return nil
}

// Marshal encodes the profile as indented JSON.
func (p *Profile) Marshal() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// ConverterConfig builds the converter configuration for dev and the pin
// bank of the profile.
func (p *Profile) ConverterConfig(dev *core.ADC, port *core.Port) core.ConverterConfig {
	c := p.Converter
	cfg := core.DefaultConverterConfig(dev)
	cfg.Interrupt = c.Interrupt
	cfg.Channel = core.Channel(c.Channel)
	cfg.Power = core.PowerMode(c.Power)
	cfg.Clock = core.ClockSource(c.Clock)
	cfg.ClockDiv = core.ClockDivider(c.ClockDiv)
	cfg.SampleAdd = core.SampleTimeAdder(c.SampleAdd)
	cfg.Bits = core.Resolution(c.Bits)
	cfg.Average = core.Averaging(c.Average)
	cfg.CompareMode = core.CompareMode(c.Compare.Mode)
	cfg.Compare1 = c.Compare.Thresholds[0]
	cfg.Compare2 = c.Compare.Thresholds[1]
	cfg.DMA = c.DMA
	cfg.Reference = core.Reference(c.Reference)
	cfg.Convert = core.ConvertMode(c.Convert)
	if c.HardwareTrigger {
		cfg.Trigger = core.TriggerHardware
	}
	cfg.Port = port
	cfg.Pin1 = c.Pins[0]
	cfg.Pin2 = c.Pins[1]
	return cfg
}

// HalfBytes is the byte count of one buffer half.
func (p *Profile) HalfBytes() uint32 {
	return p.Transfer.HalfSamples * core.SampleBytes
}

// TransferConfig builds the DMA configuration that moves results from src
// into the half at dst: 16-bit reads from a fixed source into an
// incrementing destination, paced by the peripheral request.
func (p *Profile) TransferConfig(dev *core.DMA, src, dst uint32) core.TransferConfig {
	cfg := core.DefaultTransferConfig(dev)
	cfg.Channel = core.DMAChannel(p.Transfer.Channel)
	cfg.Source = src
	cfg.Dest = dst
	cfg.ByteCount = p.HalfBytes()
	cfg.Interrupt = p.Transfer.Interrupt
	cfg.PeripheralRequest = true
	cfg.CycleSteal = p.Transfer.CycleSteal
	cfg.SourceSize = core.Size16
	cfg.DestSize = core.Size16
	cfg.DestIncrement = true
	cfg.AutoDisableRequest = true
	return cfg
}

// MuxConfig builds the multiplexer binding of the transfer channel to the
// converter, left disabled until the pipeline is armed.
func (p *Profile) MuxConfig(dev *core.DMAMUX) core.TransferMuxConfig {
	cfg := core.DefaultTransferMuxConfig(dev)
	cfg.Channel = core.DMAChannel(p.Transfer.Channel)
	cfg.Source = core.RequestADC0
	return cfg
}

// SampleRate estimates the converter's samples per second, 0 when the
// clock setup is out of range.
func (p *Profile) SampleRate() uint32 {
	cfg := p.ConverterConfig(nil, nil)
	return core.EstimateRate(&cfg, p.BusClockHz)
}

// UpdateRate estimates the level updates per second, one per half.
func (p *Profile) UpdateRate() float64 {
	if p.Transfer.HalfSamples == 0 {
		return 0
	}
	return float64(p.SampleRate()) / float64(p.Transfer.HalfSamples)
}
