package serial

import (
	"io"
)

// Port is the host end of the meter's telemetry link. The native
// implementation wraps github.com/tarm/serial; tests substitute pipes.
type Port interface {
	io.ReadWriteCloser

	// Flush discards nothing and pushes pending output
	Flush() error
}

// Config holds serial port settings
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud must match the firmware's UART0 setting. The OpenSDA bridge
	// forwards it to the target UART.
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud is the firmware's UART0 rate
const DefaultBaud = 115200

// DefaultConfig returns settings for the FRDM-KL25Z OpenSDA port
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100,
	}
}
