//go:build kl25z

package main

import (
	"runtime/volatile"
	"unsafe"

	"levelmeter/core"
)

// UART0 memory map and the bits the telemetry link uses
const (
	uart0Base = 0x4006A000
	uart0BDH  = uart0Base + 0x0
	uart0BDL  = uart0Base + 0x1
	uart0C2   = uart0Base + 0x3
	uart0S1   = uart0Base + 0x4
	uart0D    = uart0Base + 0x7
	uart0C4   = uart0Base + 0xA

	uartC2TE   = 1 << 3
	uartS1TDRE = 1 << 7
	uartS1TC   = 1 << 6
	uartOSR16  = 15 // C4 OSR: 16x oversampling

	simSOPT2         = 0x40048004
	simSCGC4         = 0x40048034
	simSOPT2PLLFLL   = 1 << 16
	simSOPT2UART0Src = 1 << 26 // MCGFLLCLK or MCGPLLCLK/2
	simSCGC4UART0    = 1 << 10

	// PTA2 is UART0_TX on alternative 2, wired to the OpenSDA bridge
	uartTXPin = 2
	uartTXAlt = 2

	// uartClockHz is MCGPLLCLK/2 with the board's 48 MHz setup
	uartClockHz = 48000000
)

var (
	uartBDH = (*volatile.Register8)(unsafe.Pointer(uintptr(uart0BDH)))
	uartBDL = (*volatile.Register8)(unsafe.Pointer(uintptr(uart0BDL)))
	uartC2  = (*volatile.Register8)(unsafe.Pointer(uintptr(uart0C2)))
	uartS1  = (*volatile.Register8)(unsafe.Pointer(uintptr(uart0S1)))
	uartD   = (*volatile.Register8)(unsafe.Pointer(uintptr(uart0D)))
	uartC4  = (*volatile.Register8)(unsafe.Pointer(uintptr(uart0C4)))

	sopt2 = (*volatile.Register32)(unsafe.Pointer(uintptr(simSOPT2)))
	scgc4 = (*volatile.Register32)(unsafe.Pointer(uintptr(simSCGC4)))
)

// InitUART configures UART0 as a polled 8N1 transmitter on PTA2
func InitUART(board *core.Board, baud uint32) {
	sopt2.Set(sopt2.Get() | simSOPT2PLLFLL | simSOPT2UART0Src)
	scgc4.Set(scgc4.Get() | simSCGC4UART0)
	board.Platform.EnableClock(core.GatePortA)
	pcr := board.Ports[0].PCR[uartTXPin]
	pcr.Set(pcr.Get()&^core.PORT_PCR_MUX_Msk | uartTXAlt<<core.PORT_PCR_MUX_Pos)

	uartC2.Set(0)
	sbr := uartClockHz / ((uartOSR16 + 1) * baud)
	uartBDH.Set(uint8(sbr>>8) & 0x1F)
	uartBDL.Set(uint8(sbr))
	uartC4.Set(uartOSR16)
	uartC2.Set(uartC2TE)
}

// writeUART sends a frame and waits until the last bit is out
func writeUART(frame []byte) error {
	for _, b := range frame {
		for uartS1.Get()&uartS1TDRE == 0 {
		}
		uartD.Set(b)
	}
	for uartS1.Get()&uartS1TC == 0 {
	}
	return nil
}

// debugUART routes the core debug writer to the telemetry UART
func debugUART(s string) {
	writeUART([]byte(s))
	writeUART([]byte("\r\n"))
}
