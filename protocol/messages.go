package protocol

import (
	"errors"
	"fmt"
)

// MessageID identifies a telemetry message
type MessageID uint32

const (
	// MsgIdentify is sent once at start-up:
	// identify version=%s rate=%u half_samples=%u decay_shift=%u
	MsgIdentify MessageID = 0
	// MsgLevelState is sent from the main loop:
	// level_state peak=%u dbfs=%i flips=%u
	MsgLevelState MessageID = 1
)

var ErrUnknownMessage = errors.New("unknown message id")

// Identify describes the running acquisition setup
type Identify struct {
	Version     string
	SampleRate  uint32 // estimated samples per second, 0 if unknown
	HalfSamples uint32
	DecayShift  uint32
}

// LevelState is one metered level
type LevelState struct {
	Peak  uint32
	DBFS  int32 // milli-dB
	Flips uint32
}

// EncodeIdentify writes an identify message
func EncodeIdentify(out OutputBuffer, m Identify) {
	EncodeVLQUint(out, uint32(MsgIdentify))
	EncodeVLQString(out, m.Version)
	EncodeVLQUint(out, m.SampleRate)
	EncodeVLQUint(out, m.HalfSamples)
	EncodeVLQUint(out, m.DecayShift)
}

// EncodeLevelState writes a level_state message
func EncodeLevelState(out OutputBuffer, m LevelState) {
	EncodeVLQUint(out, uint32(MsgLevelState))
	EncodeVLQUint(out, m.Peak)
	EncodeVLQInt(out, m.DBFS)
	EncodeVLQUint(out, m.Flips)
}

func decodeIdentify(data *[]byte) (m Identify, err error) {
	if m.Version, err = DecodeVLQString(data); err != nil {
		return
	}
	if m.SampleRate, err = DecodeVLQUint(data); err != nil {
		return
	}
	if m.HalfSamples, err = DecodeVLQUint(data); err != nil {
		return
	}
	m.DecayShift, err = DecodeVLQUint(data)
	return
}

func decodeLevelState(data *[]byte) (m LevelState, err error) {
	if m.Peak, err = DecodeVLQUint(data); err != nil {
		return
	}
	if m.DBFS, err = DecodeVLQInt(data); err != nil {
		return
	}
	m.Flips, err = DecodeVLQUint(data)
	return
}

// DecodePayload decodes every message in a frame payload. Each result is
// an Identify or a LevelState.
func DecodePayload(payload []byte) ([]interface{}, error) {
	var out []interface{}
	data := payload
	for len(data) > 0 {
		id, err := DecodeVLQUint(&data)
		if err != nil {
			return out, err
		}
		switch MessageID(id) {
		case MsgIdentify:
			m, err := decodeIdentify(&data)
			if err != nil {
				return out, fmt.Errorf("identify: %w", err)
			}
			out = append(out, m)
		case MsgLevelState:
			m, err := decodeLevelState(&data)
			if err != nil {
				return out, fmt.Errorf("level_state: %w", err)
			}
			out = append(out, m)
		default:
			return out, fmt.Errorf("%w: %d", ErrUnknownMessage, id)
		}
	}
	return out, nil
}
