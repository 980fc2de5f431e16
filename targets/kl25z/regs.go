//go:build kl25z

package main

import (
	"runtime/volatile"
	"unsafe"

	"levelmeter/core"
)

// bind32 returns the volatile register at a bus address
func bind32(addr uintptr) core.Register {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}

// bind8 returns the volatile byte register at a bus address
func bind8(addr uintptr) core.Register8 {
	return (*volatile.Register8)(unsafe.Pointer(addr))
}

// busAddress returns the address the DMA engine sees for a buffer half
func busAddress(half []int16) uint32 {
	return uint32(uintptr(unsafe.Pointer(&half[0])))
}
