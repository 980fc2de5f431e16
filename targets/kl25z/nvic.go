//go:build kl25z

package main

import "device/arm"

// nvic drives the Cortex-M0+ interrupt controller. It satisfies
// core.InterruptController and core.IRQMasker.
type nvic struct{}

func (nvic) EnableIRQ(irq uint32) {
	arm.EnableIRQ(irq)
}

func (nvic) DisableIRQ(irq uint32) {
	arm.DisableIRQ(irq)
}
