package monitor

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"levelmeter/protocol"
)

// boardStream encodes frames the way the board's sender does
type boardStream struct {
	t      *testing.T
	sender *protocol.Sender
	data   bytes.Buffer
}

func newBoardStream(t *testing.T) *boardStream {
	s := &boardStream{t: t}
	s.sender = protocol.NewSender(func(frame []byte) error {
		s.data.Write(frame)
		return nil
	})
	return s
}

func (s *boardStream) send(payload func(protocol.OutputBuffer)) {
	if err := s.sender.Send(payload); err != nil {
		s.t.Fatalf("Send failed: %v", err)
	}
}

func (s *boardStream) identify() {
	s.send(func(o protocol.OutputBuffer) {
		protocol.EncodeIdentify(o, protocol.Identify{
			Version:     protocol.Version,
			SampleRate:  8125,
			HalfSamples: 64,
			DecayShift:  1,
		})
	})
}

func (s *boardStream) level(peak uint32, dbfs int32, flips uint32) {
	s.send(func(o protocol.OutputBuffer) {
		protocol.EncodeLevelState(o, protocol.LevelState{Peak: peak, DBFS: dbfs, Flips: flips})
	})
}

// play writes the stream through a pipe and closes it
func (s *boardStream) play() io.ReadCloser {
	pr, pw := io.Pipe()
	data := append([]byte(nil), s.data.Bytes()...)
	go func() {
		pw.Write(data)
		pw.Close()
	}()
	return pr
}

func TestMonitorRendersReports(t *testing.T) {
	board := newBoardStream(t)
	board.identify()
	board.level(16383, -6000, 10)
	board.level(0, -127000, 11)

	var out bytes.Buffer
	m := New(&out, 10)
	m.Attach(board.play())
	defer m.Close()

	if err := m.Run(0, 2*time.Second); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d:\n%s", len(lines), out.String())
	}
	if lines[0] != "Level meter 0.1.0: 8125 Hz, 64-sample halves, decay shift 1" {
		t.Errorf("Unexpected identify line %q", lines[0])
	}
	if want := "   -6.00 dBFS 16383 " + strings.Repeat("0", 15) + ">"; lines[1] != want {
		t.Errorf("Expected %q, got %q", want, lines[1])
	}
	if want := " -127.00 dBFS     0 0>"; lines[2] != want {
		t.Errorf("Expected %q, got %q", want, lines[2])
	}

	last, n := m.Last()
	if n != 2 || last.Flips != 11 {
		t.Errorf("Expected 2 reports ending at flip 11, got %d %+v", n, last)
	}
	if id := m.Identify(); id == nil || id.SampleRate != 8125 {
		t.Errorf("Identify not kept: %+v", id)
	}
}

func TestMonitorRunLimit(t *testing.T) {
	board := newBoardStream(t)
	for i := uint32(0); i < 5; i++ {
		board.level(100*i, -40000, i)
	}

	var out bytes.Buffer
	m := New(&out, 4)
	m.Attach(board.play())
	defer m.Close()

	if err := m.Run(2, 2*time.Second); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, n := m.Last(); n != 2 {
		t.Errorf("Expected to stop after 2 reports, got %d", n)
	}
	if m.Identify() != nil {
		t.Error("No identify was sent")
	}
}

func TestMonitorBadPayload(t *testing.T) {
	board := newBoardStream(t)
	board.send(func(o protocol.OutputBuffer) {
		protocol.EncodeVLQUint(o, 9)
	})
	board.level(1, -90000, 1)

	var out bytes.Buffer
	m := New(&out, 0)
	m.Attach(board.play())
	defer m.Close()

	if err := m.Run(0, 2*time.Second); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "bad frame seq 0x10") {
		t.Errorf("Bad payload not reported:\n%s", out.String())
	}
	if _, n := m.Last(); n != 1 {
		t.Errorf("The good report after the bad one should show, got %d", n)
	}

	out.Reset()
	m.PrintStats()
	if !strings.HasPrefix(out.String(), "frames 2, reports 1, resyncs 0, lost 0, bad 1\n") {
		t.Errorf("Unexpected stats %q", out.String())
	}
}

func TestMonitorNotConnected(t *testing.T) {
	m := New(io.Discard, 0)
	if err := m.Run(1, time.Millisecond); err != ErrNotConnected {
		t.Errorf("Expected ErrNotConnected, got %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close without a connection: %v", err)
	}
}

func TestMonitorTimeout(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	m := New(io.Discard, 0)
	m.Attach(pr)
	defer m.Close()

	if err := m.Run(1, 20*time.Millisecond); err == nil {
		t.Error("Expected a timeout with a silent board")
	}
}
