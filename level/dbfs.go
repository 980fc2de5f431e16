package level

// Breakpoint is one node of the dBFS table: the all-ones count of a bit
// length and its level in milli-dB.
type Breakpoint struct {
	Count uint32
	DB    int32
}

// Breakpoints holds the 16 nodes of the conversion, ascending. Node k is the
// largest magnitude of bit length k.
var Breakpoints = [16]Breakpoint{
	{0, -127000},
	{1, -90000},
	{3, -81000},
	{7, -73000},
	{15, -67000},
	{31, -60000},
	{63, -54000},
	{127, -48000},
	{255, -42000},
	{511, -36000},
	{1023, -30000},
	{2047, -24000},
	{4095, -18000},
	{8191, -12000},
	{16383, -6000},
	{32767, 0},
}

// slopes[k] is the milli-dB per count between nodes k-1 and k, scaled by
// 2^15: (dB[k]-dB[k-1]) * 2^15 / 2^(k-1).
var slopes = [16]int64{
	0,
	1212416000,
	147456000,
	65536000,
	24576000,
	14336000,
	6144000,
	3072000,
	1536000,
	768000,
	384000,
	192000,
	96000,
	48000,
	24000,
	12000,
}

const slopeShift = 15

// FullScaleDB is returned for magnitudes past the last node.
const FullScaleDB = 0

// ToDBFS converts a peak magnitude to milli-dBFS by linear interpolation
// between the nodes bracketing its bit length. The result is exact at every
// node. Magnitudes of 16 bits or more read as full scale.
func ToDBFS(mag uint32) int32 {
	k := bitLength(mag)
	if k == 0 {
		return Breakpoints[0].DB
	}
	if k >= len(Breakpoints) {
		return FullScaleDB
	}
	lower := Breakpoints[k-1]
	delta := int64(mag-lower.Count) * slopes[k] >> slopeShift
	return lower.DB + int32(delta)
}

func bitLength(v uint32) int {
	n := 0
	for v != 0 {
		v >>= 1
		n++
	}
	return n
}
