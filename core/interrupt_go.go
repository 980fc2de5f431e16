//go:build !tinygo

package core

// State stands in for the PRIMASK state off-target
type State uintptr

// criticalDepth counts open critical sections so tests can assert masking
var criticalDepth int

// disableInterrupts only tracks nesting on regular Go
func disableInterrupts() State {
	criticalDepth++
	return State(criticalDepth - 1)
}

// restoreInterrupts closes the matching critical section
func restoreInterrupts(state State) {
	criticalDepth = int(state)
}
