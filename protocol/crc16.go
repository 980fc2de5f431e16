package protocol

// CRC16 is the CCITT checksum over the frame header and payload, seeded
// with 0xFFFF and computed without a lookup table.
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b ^= uint8(crc & 0xFF)
		b ^= b << 4
		w := uint16(b)
		crc = (w<<8 | crc>>8) ^ (w >> 4) ^ (w << 3)
	}
	return crc
}

// appendCRC appends the big-endian checksum of data and the sync byte
func appendCRC(out OutputBuffer, data []byte) {
	crc := CRC16(data)
	out.Output([]byte{uint8(crc >> 8), uint8(crc), MessageValueSync})
}
