package profile

import (
	"fmt"
	"io"
	"sort"

	"levelmeter/core"
)

// DryRunBuffer is the nominal SRAM_U address of the first buffer half.
const DryRunBuffer = 0x20000000

// RegisterImage is one register programmed by a dry run.
type RegisterImage struct {
	Name   string
	Addr   uint32
	Value  uint32
	Writes int
}

// DryRunReport is what the bring-up sequence wrote.
type DryRunReport struct {
	Registers  []RegisterImage
	IRQs       []uint32
	SampleRate uint32
	HalfBytes  uint32
}

// emulator is a register surface keyed by bus address. It emulates the
// side effects the bring-up depends on.
type emulator struct {
	regs  map[uintptr]*core.MemRegister
	regs8 map[uintptr]*core.MemRegister8
	irqs  []uint32
}

func newEmulator() *emulator {
	return &emulator{
		regs:  make(map[uintptr]*core.MemRegister),
		regs8: make(map[uintptr]*core.MemRegister8),
	}
}

func (e *emulator) EnableIRQ(irq uint32) {
	e.irqs = append(e.irqs, irq)
}

func (e *emulator) bind(addr uintptr) core.Register {
	r := &core.MemRegister{}
	e.regs[addr] = r
	return r
}

func (e *emulator) bind8(addr uintptr) core.Register8 {
	r := &core.MemRegister8{}
	e.regs8[addr] = r
	return r
}

// hook installs the hardware behaviour: calibration completes at once and
// DONE is write-one-to-clear.
func (e *emulator) hook() {
	sc1a := e.regs[core.ADC0Base+core.ADC_SC1A]
	e.regs[core.ADC0Base+core.ADC_SC3].OnWrite = func(r *core.MemRegister, v uint32) {
		if v&core.ADC_SC3_CAL != 0 {
			r.Value &^= core.ADC_SC3_CAL
			sc1a.Value |= core.ADC_SC1_COCO
		}
	}
	for ch := uintptr(0); ch < 4; ch++ {
		addr := core.DMA0Base + core.DMA_CHANNEL0 + core.DMA_CHANNEL_SIZE*ch + 8
		e.regs[addr].OnWrite = func(r *core.MemRegister, v uint32) {
			if v&core.DMA_DSR_BCR_DONE != 0 {
				r.Value = 0
			}
		}
	}
}

func (e *emulator) images() []RegisterImage {
	var out []RegisterImage
	for addr, r := range e.regs {
		if r.Writes > 0 {
			out = append(out, RegisterImage{Name: registerName(addr), Addr: uint32(addr), Value: r.Value, Writes: r.Writes})
		}
	}
	for addr, r := range e.regs8 {
		if r.Writes > 0 {
			out = append(out, RegisterImage{Name: registerName(addr), Addr: uint32(addr), Value: uint32(r.Value), Writes: r.Writes})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	return out
}

// DryRun runs the firmware bring-up for the profile against an emulated
// KL25Z and reports the resulting register images. Configuration errors are
// the ones the board would return.
func (p *Profile) DryRun() (*DryRunReport, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	e := newEmulator()
	board := core.NewBoard(e.bind, e.bind8, e)
	e.hook()

	mux := p.MuxConfig(board.DMAMUX)
	xfer := p.TransferConfig(board.DMA, board.ADC.ResultAddress(core.MuxA), DryRunBuffer)
	conv := p.ConverterConfig(board.ADC, board.Ports[p.Converter.Port])
	if err := core.StartStream(&mux, &xfer, &conv); err != nil {
		return nil, err
	}
	return &DryRunReport{
		Registers:  e.images(),
		IRQs:       e.irqs,
		SampleRate: p.SampleRate(),
		HalfBytes:  p.HalfBytes(),
	}, nil
}

// Register looks up an image by name.
func (r *DryRunReport) Register(name string) (RegisterImage, bool) {
	for _, img := range r.Registers {
		if img.Name == name {
			return img, true
		}
	}
	return RegisterImage{}, false
}

// Print writes the register images as a table.
func (r *DryRunReport) Print(w io.Writer) {
	for _, img := range r.Registers {
		fmt.Fprintf(w, "%-14s 0x%08X = 0x%08X (%d writes)\n", img.Name, img.Addr, img.Value, img.Writes)
	}
	fmt.Fprintf(w, "irqs: %v\n", r.IRQs)
	fmt.Fprintf(w, "sample rate: %d Hz, half: %d bytes\n", r.SampleRate, r.HalfBytes)
}

var adcNames = map[uintptr]string{
	core.ADC_SC1A:     "ADC0_SC1A",
	core.ADC_SC1A + 4: "ADC0_SC1B",
	core.ADC_CFG1:     "ADC0_CFG1",
	core.ADC_CFG2:     "ADC0_CFG2",
	core.ADC_RA:       "ADC0_RA",
	core.ADC_RA + 4:   "ADC0_RB",
	core.ADC_CV1:      "ADC0_CV1",
	core.ADC_CV2:      "ADC0_CV2",
	core.ADC_SC2:      "ADC0_SC2",
	core.ADC_SC3:      "ADC0_SC3",
	core.ADC_OFS:      "ADC0_OFS",
	core.ADC_PG:       "ADC0_PG",
	core.ADC_MG:       "ADC0_MG",
}

var dmaFields = [4]string{"SAR", "DAR", "DSR_BCR", "DCR"}

var simNames = map[uintptr]string{
	core.SIM_SCGC5: "SIM_SCGC5",
	core.SIM_SCGC6: "SIM_SCGC6",
	core.SIM_SCGC7: "SIM_SCGC7",
}

// registerName names a bus address of the bound surface
func registerName(addr uintptr) string {
	switch {
	case addr >= core.ADC0Base && addr < core.ADC0Base+0x100:
		if n, ok := adcNames[addr-core.ADC0Base]; ok {
			return n
		}
		return fmt.Sprintf("ADC0+0x%02X", addr-core.ADC0Base)
	case addr >= core.DMA0Base+core.DMA_CHANNEL0 && addr < core.DMA0Base+core.DMA_CHANNEL0+4*core.DMA_CHANNEL_SIZE:
		off := addr - core.DMA0Base - core.DMA_CHANNEL0
		return fmt.Sprintf("DMA_%s%d", dmaFields[off%core.DMA_CHANNEL_SIZE/4], off/core.DMA_CHANNEL_SIZE)
	case addr >= core.DMAMUXBase && addr < core.DMAMUXBase+4:
		return fmt.Sprintf("DMAMUX_CHCFG%d", addr-core.DMAMUXBase)
	case addr >= core.SIMBase && addr < core.SIMBase+0x2000:
		if n, ok := simNames[addr-core.SIMBase]; ok {
			return n
		}
	case addr >= core.PORTABase && addr < core.PORTABase+5*core.PortStride:
		off := addr - core.PORTABase
		return fmt.Sprintf("PORT%c_PCR%d", 'A'+rune(off/core.PortStride), off%core.PortStride/4)
	case addr >= core.GPIOABase && addr < core.GPIOABase+5*core.GPIOStride:
		off := addr - core.GPIOABase
		return fmt.Sprintf("GPIO%c+0x%02X", 'A'+rune(off/core.GPIOStride), off%core.GPIOStride)
	}
	return fmt.Sprintf("0x%08X", addr)
}
