//go:build js && wasm

package main

import (
	"encoding/hex"
	"syscall/js"

	"levelmeter/level"
	"levelmeter/protocol"
)

// Stream state for a page reading the board over Web Serial
var (
	input  *protocol.FifoBuffer
	reader *protocol.FrameReader
)

func main() {
	input = protocol.NewFifoBuffer(1024)
	reader = protocol.NewFrameReader()

	js.Global().Set("levelMeter", js.ValueOf(map[string]interface{}{
		"feed":      js.FuncOf(feedWrapper),
		"stats":     js.FuncOf(statsWrapper),
		"reset":     js.FuncOf(resetWrapper),
		"crc16":     js.FuncOf(crc16Wrapper),
		"toDBFS":    js.FuncOf(toDBFSWrapper),
		"barLength": js.FuncOf(barLengthWrapper),
		"attach":    js.FuncOf(attachCanvasWrapper),
		"version":   protocol.Version,
	}))

	select {}
}

// feedWrapper appends received bytes and decodes every complete frame
// Args: hexString (string)
// Returns: [{sequence, kind, ...fields}] or [{error}]
func feedWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf([]interface{}{makeError("missing hex string argument")})
	}
	data, err := hex.DecodeString(args[0].String())
	if err != nil {
		return js.ValueOf([]interface{}{makeError("invalid hex string: " + err.Error())})
	}

	var out []interface{}
	for len(data) > 0 {
		n := input.Write(data)
		data = data[n:]
		reader.Feed(input, func(msg *protocol.Message) {
			out = append(out, decodeFrame(msg)...)
		})
		if n == 0 && len(data) > 0 {
			// a frame never fits: start over
			input.Reset()
		}
	}
	if out == nil {
		out = []interface{}{}
	}
	return js.ValueOf(out)
}

func decodeFrame(msg *protocol.Message) []interface{} {
	decoded, err := protocol.DecodePayload(msg.Payload)
	var out []interface{}
	for _, m := range decoded {
		result := map[string]interface{}{"sequence": int(msg.Sequence)}
		switch m := m.(type) {
		case protocol.Identify:
			result["kind"] = "identify"
			result["version"] = m.Version
			result["sampleRate"] = int(m.SampleRate)
			result["halfSamples"] = int(m.HalfSamples)
			result["decayShift"] = int(m.DecayShift)
		case protocol.LevelState:
			result["kind"] = "level_state"
			result["peak"] = int(m.Peak)
			result["dbfs"] = float64(m.DBFS) / 1000
			result["flips"] = int(m.Flips)
			if bar != nil {
				if err := bar.Draw(int32(m.Peak)); err != nil {
					result["error"] = err.Error()
				}
			}
		}
		out = append(out, result)
	}
	if err != nil {
		out = append(out, makeError(err.Error()))
	}
	return out
}

// statsWrapper reports the reader counters
// Returns: {frames, resyncs, lost}
func statsWrapper(this js.Value, args []js.Value) interface{} {
	frames, resyncs, lost := reader.Stats()
	return js.ValueOf(map[string]interface{}{
		"frames":  int(frames),
		"resyncs": int(resyncs),
		"lost":    int(lost),
	})
}

// resetWrapper drops buffered bytes and counters, as after a reconnect
func resetWrapper(this js.Value, args []js.Value) interface{} {
	input.Reset()
	reader = protocol.NewFrameReader()
	return js.Undefined()
}

// crc16Wrapper calculates the frame checksum
// Args: hexString (string)
// Returns: number (uint16)
func crc16Wrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(0)
	}
	data, err := hex.DecodeString(args[0].String())
	if err != nil {
		return js.ValueOf(0)
	}
	return js.ValueOf(int(protocol.CRC16(data)))
}

// toDBFSWrapper converts a peak magnitude to dBFS
// Args: magnitude (number)
// Returns: number (dB)
func toDBFSWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(0)
	}
	return js.ValueOf(float64(level.ToDBFS(uint32(args[0].Int()))) / 1000)
}

// barLengthWrapper sizes a meter bar
// Args: sample (number), shift (number)
// Returns: number (columns)
func barLengthWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf(0)
	}
	return js.ValueOf(int(level.BarLength(int32(args[0].Int()), uint8(args[1].Int()))))
}

func makeError(msg string) map[string]interface{} {
	return map[string]interface{}{"kind": "error", "error": msg}
}
