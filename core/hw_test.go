package core

import "strconv"

// fakeNVIC records enabled and masked interrupt lines
type fakeNVIC struct {
	enabled []uint32
	masked  []uint32
}

func (n *fakeNVIC) EnableIRQ(irq uint32) {
	n.enabled = append(n.enabled, irq)
}

func (n *fakeNVIC) DisableIRQ(irq uint32) {
	n.masked = append(n.masked, irq)
}

func (n *fakeNVIC) has(irq uint32) bool {
	for _, e := range n.enabled {
		if e == irq {
			return true
		}
	}
	return false
}

// bench is an emulated register surface with every register at power-on zero
type bench struct {
	regs     map[string]*MemRegister
	nvic     *fakeNVIC
	platform *Platform
	failCal  bool
}

func newBench() *bench {
	b := &bench{regs: make(map[string]*MemRegister), nvic: &fakeNVIC{}}
	b.platform = &Platform{
		SIM: &SIMRegisters{
			SCGC5: b.reg("SCGC5"),
			SCGC6: b.reg("SCGC6"),
			SCGC7: b.reg("SCGC7"),
		},
		NVIC: b.nvic,
	}
	return b
}

func (b *bench) reg(name string) *MemRegister {
	r := &MemRegister{}
	b.regs[name] = r
	return r
}

// writes returns the total number of register writes on the bench
func (b *bench) writes() int {
	n := 0
	for _, r := range b.regs {
		n += r.Writes
	}
	return n
}

func (b *bench) newADC() (*ADC, *Port) {
	regs := &ADCRegisters{
		SC1:  [2]Register{b.reg("SC1A"), b.reg("SC1B")},
		CFG1: b.reg("CFG1"),
		CFG2: b.reg("CFG2"),
		R:    [2]Register{b.reg("RA"), b.reg("RB")},
		CV1:  b.reg("CV1"),
		CV2:  b.reg("CV2"),
		SC2:  b.reg("SC2"),
		SC3:  b.reg("SC3"),
		OFS:  b.reg("OFS"),
		PG:   b.reg("PG"),
		MG:   b.reg("MG"),
		CLPD: b.reg("CLPD"),
		CLPS: b.reg("CLPS"),
		CLMD: b.reg("CLMD"),
		CLMS: b.reg("CLMS"),
	}
	for i := range regs.CLP {
		regs.CLP[i] = b.reg("CLP" + strconv.Itoa(i))
		regs.CLM[i] = b.reg("CLM" + strconv.Itoa(i))
	}

	// CAL self-clears and completion shows up as COCO in SC1A
	b.regs["SC3"].OnWrite = func(r *MemRegister, v uint32) {
		if v&ADC_SC3_CAL == 0 {
			return
		}
		r.Value &^= ADC_SC3_CAL
		if b.failCal {
			r.Value |= ADC_SC3_CALF
		}
		b.regs["SC1A"].Value |= ADC_SC1_COCO
	}

	port := &Port{Index: 4}
	for i := range port.PCR {
		port.PCR[i] = b.reg("PCR" + strconv.Itoa(i))
	}
	return &ADC{Base: ADC0Base, Regs: regs, Platform: b.platform}, port
}

func (b *bench) newDMA() *DMA {
	regs := &DMARegisters{}
	for i := range regs.Channel {
		n := strconv.Itoa(i)
		regs.Channel[i] = DMAChannelRegisters{
			SAR:     b.reg("SAR" + n),
			DAR:     b.reg("DAR" + n),
			DSR_BCR: b.reg("DSR_BCR" + n),
			DCR:     b.reg("DCR" + n),
		}
		dsr := b.regs["DSR_BCR"+n]
		// DONE is write-one-to-clear; a DONE write does not load BCR
		dsr.OnWrite = func(r *MemRegister, v uint32) {
			if v&DMA_DSR_BCR_DONE != 0 {
				r.Value = 0
			}
		}
	}
	return &DMA{Base: DMA0Base, Regs: regs, Platform: b.platform}
}

// complete emulates the end of a transfer on a channel
func (b *bench) complete(ch DMAChannel) {
	n := strconv.Itoa(int(ch))
	b.regs["DSR_BCR"+n].Value = DMA_DSR_BCR_DONE
	// D_REQ drops ERQ at the end of the transfer
	if dcr := b.regs["DCR"+n]; dcr.Value&DMA_DCR_D_REQ != 0 {
		dcr.Value &^= DMA_DCR_ERQ
	}
}

func (b *bench) newDMAMUX() (*DMAMUX, [4]*MemRegister8) {
	var chcfg [4]*MemRegister8
	regs := &DMAMUXRegisters{}
	for i := range chcfg {
		chcfg[i] = &MemRegister8{}
		regs.CHCFG[i] = chcfg[i]
	}
	return &DMAMUX{Base: DMAMUXBase, Regs: regs, Platform: b.platform}, chcfg
}
