package protocol

import (
	"errors"
	"sync/atomic"
)

// ErrFrameTooLong is returned when a payload does not fit one frame
var ErrFrameTooLong = errors.New("frame exceeds maximum length")

// Sender builds outgoing frames on the meter. The link is one-way, so the
// sequence advances on every frame and the host uses it to count drops.
type Sender struct {
	sequence uint32 // uint8 in 0x10-0x1F
	scratch  ScratchOutput
	write    func([]byte) error
	sent     uint32
}

// NewSender returns a sender that hands each finished frame to write.
func NewSender(write func([]byte) error) *Sender {
	return &Sender{sequence: MessageDest, write: write}
}

// EncodeFrame appends one frame to output. payload writes the frame body.
// It returns the sequence byte used.
func EncodeFrame(output OutputBuffer, seq uint8, payload func(OutputBuffer)) (uint8, error) {
	cursor := output.CurPosition()
	output.Output([]byte{0, seq})
	payload(output)

	length := len(output.DataSince(cursor)) + MessageTrailerSize
	if length > MessageLengthMax {
		return seq, ErrFrameTooLong
	}
	output.Update(cursor+MessagePositionLen, uint8(length))
	appendCRC(output, output.DataSince(cursor))
	return seq, nil
}

// Send frames one or more messages and writes them out.
func (s *Sender) Send(payload func(OutputBuffer)) error {
	seq := uint8(atomic.LoadUint32(&s.sequence))
	s.scratch.Reset()
	if _, err := EncodeFrame(&s.scratch, seq, payload); err != nil {
		return err
	}
	atomic.StoreUint32(&s.sequence, uint32(nextSequence(seq)))
	atomic.AddUint32(&s.sent, 1)
	return s.write(s.scratch.Result())
}

// SendMessage frames a single message.
func (s *Sender) SendMessage(id MessageID, args func(OutputBuffer)) error {
	return s.Send(func(out OutputBuffer) {
		EncodeVLQUint(out, uint32(id))
		if args != nil {
			args(out)
		}
	})
}

// Sent returns the number of frames written.
func (s *Sender) Sent() uint32 {
	return atomic.LoadUint32(&s.sent)
}

// Sequence returns the sequence byte of the next frame.
func (s *Sender) Sequence() uint8 {
	return uint8(atomic.LoadUint32(&s.sequence))
}

// Reset restarts the sequence, as after a host reconnect.
func (s *Sender) Reset() {
	atomic.StoreUint32(&s.sequence, MessageDest)
}
