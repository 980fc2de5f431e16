//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts sets PRIMASK and returns the previous state. Keep the
// masked span short: the DMA completion handler must run once per half.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the interrupt state
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
