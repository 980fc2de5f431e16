//go:build kl25z

package main

import (
	"runtime/volatile"
	"unsafe"

	"levelmeter/core"
)

// SysTick memory map (ARMv6-M)
const (
	sysTickBase = 0xE000E010
	sysTickCSR  = sysTickBase + 0x0 // control and status
	sysTickRVR  = sysTickBase + 0x4 // reload value
	sysTickCVR  = sysTickBase + 0x8 // current value

	sysTickEnable    = 1 << 0
	sysTickCoreClock = 1 << 2
	sysTickMask      = 0xFFFFFF
)

var (
	tickCSR = (*volatile.Register32)(unsafe.Pointer(uintptr(sysTickCSR)))
	tickRVR = (*volatile.Register32)(unsafe.Pointer(uintptr(sysTickRVR)))
	tickCVR = (*volatile.Register32)(unsafe.Pointer(uintptr(sysTickCVR)))

	lastTick uint32
	ticks    uint32
)

// InitClock starts SysTick as a free-running 24-bit down counter on the
// core clock, without its interrupt
func InitClock() {
	tickRVR.Set(sysTickMask)
	tickCVR.Set(0)
	tickCSR.Set(sysTickEnable | sysTickCoreClock)
	lastTick = tickCVR.Get()
}

// UpdateSystemTime extends SysTick to 32 bits and feeds the core timer.
// It must run at least once per counter period (about 350 ms at 48 MHz).
func UpdateSystemTime() {
	now := tickCVR.Get()
	ticks += (lastTick - now) & sysTickMask
	lastTick = now
	core.SetTime(ticks)
}
