// Package monitor reads level reports from a meter board and renders them.
package monitor

import (
	"errors"
	"fmt"
	"io"
	"time"

	"levelmeter/host/serial"
	"levelmeter/level"
	"levelmeter/protocol"
)

// ErrNotConnected is returned by Run before Connect or Attach.
var ErrNotConnected = errors.New("not connected to a meter")

// Monitor represents a connection to a level meter board
type Monitor struct {
	// Transport layer
	receiver *protocol.HostReceiver

	// Output
	out      io.Writer
	BarShift uint8

	// Board state
	identify *protocol.Identify
	last     protocol.LevelState
	reports  uint32
	errors   uint32

	connected bool
}

// New creates a monitor writing to out (not yet connected)
func New(out io.Writer, barShift uint8) *Monitor {
	return &Monitor{out: out, BarShift: barShift}
}

// Connect opens the board's serial port
func (m *Monitor) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens the board with a custom serial config
func (m *Monitor) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}
	m.Attach(port)
	return nil
}

// Attach starts receiving from an already open stream
func (m *Monitor) Attach(port io.ReadCloser) {
	m.receiver = protocol.NewHostReceiver(port)
	m.connected = true
}

// Close closes the connection
func (m *Monitor) Close() error {
	m.connected = false
	if m.receiver != nil {
		return m.receiver.Close()
	}
	return nil
}

// Run handles frames until limit level reports have been shown (0 means no
// limit) or the stream ends. It fails if no frame arrives within timeout.
func (m *Monitor) Run(limit uint32, timeout time.Duration) error {
	if !m.connected {
		return ErrNotConnected
	}
	start := m.reports
	for limit == 0 || m.reports-start < limit {
		msg, err := m.receiver.Receive(timeout)
		if err == protocol.ErrReceiverClosed {
			return nil
		}
		if err != nil {
			return err
		}
		if err := m.Handle(msg); err != nil {
			m.errors++
			fmt.Fprintf(m.out, "bad frame seq %#x: %v\n", msg.Sequence, err)
		}
	}
	return nil
}

// Handle decodes one frame and renders what it carries
func (m *Monitor) Handle(msg *protocol.Message) error {
	decoded, err := protocol.DecodePayload(msg.Payload)
	if err != nil {
		return err
	}
	for _, v := range decoded {
		switch v := v.(type) {
		case protocol.Identify:
			m.identify = &v
			m.PrintIdentify()
		case protocol.LevelState:
			m.last = v
			m.reports++
			if err := m.render(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// render prints one report as a dBFS figure followed by the bar
func (m *Monitor) render(s protocol.LevelState) error {
	fmt.Fprintf(m.out, "%8.2f dBFS %5d ", float64(s.DBFS)/1000, s.Peak)
	return level.RenderBar(m.out, int32(s.Peak), m.BarShift)
}

// PrintIdentify prints the board's announced setup
func (m *Monitor) PrintIdentify() {
	id := m.identify
	if id == nil {
		fmt.Fprintln(m.out, "No identify received")
		return
	}
	fmt.Fprintf(m.out, "Level meter %s: %d Hz, %d-sample halves, decay shift %d\n",
		id.Version, id.SampleRate, id.HalfSamples, id.DecayShift)
	if id.Version != protocol.Version {
		fmt.Fprintf(m.out, "Warning: host speaks %s\n", protocol.Version)
	}
}

// Identify returns the last identify message, nil before the first one
func (m *Monitor) Identify() *protocol.Identify {
	return m.identify
}

// Last returns the most recent level report and the number shown so far
func (m *Monitor) Last() (protocol.LevelState, uint32) {
	return m.last, m.reports
}

// PrintStats prints link statistics
func (m *Monitor) PrintStats() {
	var frames, resyncs, dropped uint32
	if m.receiver != nil {
		frames, resyncs, dropped = m.receiver.Stats()
	}
	fmt.Fprintf(m.out, "frames %d, reports %d, resyncs %d, lost %d, bad %d\n",
		frames, m.reports, resyncs, dropped, m.errors)
	if m.identify != nil && m.identify.HalfSamples != 0 {
		fmt.Fprintf(m.out, "flips %d, %.1f flips/s expected\n", m.last.Flips,
			float64(m.identify.SampleRate)/float64(m.identify.HalfSamples))
	}
}
