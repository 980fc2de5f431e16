// Package protocol implements the framed telemetry link between the meter
// firmware and the host.
//
// A frame is [len][0x10|seq][payload][crc16 hi][crc16 lo][0x7E]. len counts
// the whole frame; the CRC covers len, seq and the payload. The payload is a
// sequence of messages, each a VLQ message id followed by VLQ fields.
package protocol

// Version is the firmware version reported in the identify message
const Version = "0.1.0"

// Frame layout
const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10

	// MessageMax bounds the scratch buffer used to build one frame
	MessageMax = 128

	MessageSeqMask = 0x0F
)

// Message is one validated frame
type Message struct {
	Length   uint8
	Sequence uint8
	Payload  []byte // frame data without header and trailer
	CRC      uint16
}

// nextSequence advances a sequence byte within 0x10-0x1F
func nextSequence(seq uint8) uint8 {
	return ((seq + 1) & MessageSeqMask) | MessageDest
}
