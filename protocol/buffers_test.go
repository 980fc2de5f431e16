package protocol

import (
	"bytes"
	"testing"
)

func TestScratchOutput(t *testing.T) {
	scratch := NewScratchOutput()
	scratch.Output([]byte{1, 2, 3})
	scratch.Output([]byte{4, 5})

	if scratch.CurPosition() != 5 {
		t.Errorf("Expected position 5, got %d", scratch.CurPosition())
	}

	scratch.Update(0, 99)
	scratch.Update(7, 42)
	if !bytes.Equal(scratch.Result(), []byte{99, 2, 3, 4, 5}) {
		t.Errorf("Unexpected result %v", scratch.Result())
	}

	if since := scratch.DataSince(2); !bytes.Equal(since, []byte{3, 4, 5}) {
		t.Errorf("DataSince(2): expected [3 4 5], got %v", since)
	}
	if scratch.DataSince(6) != nil {
		t.Error("DataSince past the end should be nil")
	}

	scratch.Reset()
	if scratch.CurPosition() != 0 {
		t.Errorf("After reset, expected position 0, got %d", scratch.CurPosition())
	}
}

func TestScratchOutputTruncates(t *testing.T) {
	scratch := NewScratchOutput()
	scratch.Output(make([]byte, MessageMax+10))
	if scratch.CurPosition() != MessageMax {
		t.Errorf("Expected position %d, got %d", MessageMax, scratch.CurPosition())
	}
}

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if fifo.Available() != 0 || fifo.Free() != 10 {
		t.Fatal("New FIFO should be empty")
	}

	if written := fifo.Write([]byte{1, 2, 3, 4, 5}); written != 5 {
		t.Errorf("Expected to write 5 bytes, wrote %d", written)
	}

	if data := fifo.Data(); !bytes.Equal(data, []byte{1, 2, 3, 4, 5}) {
		t.Errorf("Data mismatch: %v", data)
	}

	fifo.Pop(4)
	if fifo.Available() != 1 {
		t.Errorf("After popping 4, expected 1 available, got %d", fifo.Available())
	}
	fifo.Pop(3)
	if fifo.Available() != 0 {
		t.Errorf("Over-pop should empty the FIFO, %d left", fifo.Available())
	}

	fifo.Reset()
	if written := fifo.Write(make([]byte, 12)); written != 10 {
		t.Errorf("Expected to fill all 10 slots, wrote %d", written)
	}
	if fifo.Free() != 0 {
		t.Errorf("Expected full FIFO, %d free", fifo.Free())
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	fifo.Write([]byte{1, 2, 3, 4})
	fifo.Pop(3)

	if written := fifo.Write([]byte{5, 6, 7}); written != 3 {
		t.Errorf("Expected to write 3 bytes, wrote %d", written)
	}

	// contiguous view across the wrap
	if data := fifo.Data(); !bytes.Equal(data, []byte{4, 5, 6, 7}) {
		t.Errorf("Wrap-around data mismatch: got %v", data)
	}

	fifo.Pop(2)
	if data := fifo.Data(); !bytes.Equal(data, []byte{6, 7}) {
		t.Errorf("Expected [6 7], got %v", data)
	}
	fifo.Pop(2)
	if fifo.Available() != 0 || fifo.Free() != 5 {
		t.Error("FIFO should be drained")
	}
}
