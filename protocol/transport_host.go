package protocol

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// ErrReceiverClosed is returned once the receiver has been closed
var ErrReceiverClosed = errors.New("receiver closed")

// FrameReader extracts validated frames from a byte stream. It drops bytes
// up to the next sync byte whenever a frame fails the length, destination,
// trailer or CRC check.
type FrameReader struct {
	synchronized bool
	haveSeq      bool
	lastSeq      uint8

	frames  uint32
	resyncs uint32
	dropped uint32
}

// NewFrameReader returns a reader that starts synchronized.
func NewFrameReader() *FrameReader {
	return &FrameReader{synchronized: true}
}

// Feed consumes every complete frame in input and calls fn for each. A
// partial frame at the end is left in input for the next call.
func (r *FrameReader) Feed(input InputBuffer, fn func(*Message)) {
	data := input.Data()

	for len(data) > 0 {
		if !r.synchronized {
			pos := -1
			for i, b := range data {
				if b == MessageValueSync {
					pos = i
					break
				}
			}
			if pos < 0 {
				data = nil
				break
			}
			data = data[pos+1:]
			r.synchronized = true
			continue
		}

		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}
		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		seq := data[MessagePositionSeq]
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax || seq&^MessageSeqMask != MessageDest {
			r.desync()
			continue
		}
		if len(data) < msgLen {
			break
		}
		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			r.desync()
			continue
		}
		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 | uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			r.desync()
			continue
		}

		payload := make([]byte, msgLen-MessageHeaderSize-MessageTrailerSize)
		copy(payload, data[MessageHeaderSize:msgLen-MessageTrailerSize])
		msg := &Message{
			Length:   uint8(msgLen),
			Sequence: seq,
			Payload:  payload,
			CRC:      frameCRC,
		}
		data = data[msgLen:]

		r.track(seq)
		atomic.AddUint32(&r.frames, 1)
		fn(msg)
	}

	if consumed := input.Available() - len(data); consumed > 0 {
		input.Pop(consumed)
	}
}

func (r *FrameReader) desync() {
	r.synchronized = false
	atomic.AddUint32(&r.resyncs, 1)
}

// track counts frames missing between consecutive sequence bytes. A gap of
// 16 or more frames is undercounted modulo 16.
func (r *FrameReader) track(seq uint8) {
	if r.haveSeq {
		expected := nextSequence(r.lastSeq)
		gap := (seq - expected) & MessageSeqMask
		atomic.AddUint32(&r.dropped, uint32(gap))
	}
	r.lastSeq = seq
	r.haveSeq = true
}

// Stats returns frames accepted, resynchronisations and frames inferred lost.
func (r *FrameReader) Stats() (frames, resyncs, dropped uint32) {
	return atomic.LoadUint32(&r.frames), atomic.LoadUint32(&r.resyncs), atomic.LoadUint32(&r.dropped)
}

// HostReceiver reads frames from a serial port in the background.
type HostReceiver struct {
	port   io.ReadCloser
	input  *FifoBuffer
	reader *FrameReader

	frames chan *Message

	closeOnce sync.Once
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewHostReceiver starts reading port. Frames are delivered on Frames();
// when the consumer falls behind the oldest queued frame is dropped.
func NewHostReceiver(port io.ReadCloser) *HostReceiver {
	h := &HostReceiver{
		port:     port,
		input:    NewFifoBuffer(512),
		reader:   NewFrameReader(),
		frames:   make(chan *Message, 16),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	go h.readLoop()
	return h
}

// Frames returns the channel of received frames. It is closed when the
// port reaches EOF or the receiver is closed.
func (h *HostReceiver) Frames() <-chan *Message {
	return h.frames
}

// Receive waits for the next frame.
func (h *HostReceiver) Receive(timeout time.Duration) (*Message, error) {
	select {
	case msg, ok := <-h.frames:
		if !ok {
			return nil, ErrReceiverClosed
		}
		return msg, nil
	case <-time.After(timeout):
		return nil, errors.New("receive timeout after " + timeout.String())
	}
}

// Stats reports the frame reader counters.
func (h *HostReceiver) Stats() (frames, resyncs, dropped uint32) {
	return h.reader.Stats()
}

func (h *HostReceiver) readLoop() {
	defer close(h.doneChan)
	defer close(h.frames)

	buffer := make([]byte, 256)
	for {
		select {
		case <-h.stopChan:
			return
		default:
		}

		n, err := h.port.Read(buffer)
		if n > 0 {
			h.consume(buffer[:n])
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (h *HostReceiver) consume(data []byte) {
	for len(data) > 0 {
		w := h.input.Write(data)
		data = data[w:]
		h.reader.Feed(h.input, h.deliver)
		if w == 0 && h.input.Free() == 0 {
			// a full ring with no frame in it is garbage
			h.input.Reset()
		}
	}
}

func (h *HostReceiver) deliver(msg *Message) {
	select {
	case h.frames <- msg:
		return
	default:
	}
	select {
	case <-h.frames:
	default:
	}
	select {
	case h.frames <- msg:
	case <-h.stopChan:
	}
}

// Close stops the read loop and closes the port.
func (h *HostReceiver) Close() error {
	var err error
	h.closeOnce.Do(func() {
		close(h.stopChan)
		err = h.port.Close()
		<-h.doneChan
	})
	return err
}
