package protocol

// MaxVarintLen is the largest number of bytes a single varint may occupy.
// A 64-bit value needs at most 10 bytes at 7 bits per byte; anything longer
// is corrupt input, not a large number.
const MaxVarintLen = 10

// AppendUvarint appends v to b in little-endian base-128 form (low 7 bits
// first, high bit set on every byte except the last) and returns the
// extended slice.
func AppendUvarint(b []byte, v uint64) []byte {
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}
	return append(b, byte(v))
}

// Uvarint decodes a varint from the front of b.
//
// The second return value follows the encoding/binary convention:
//
//	n > 0: value decoded from the first n bytes
//	n == 0: b is a truncated varint; more bytes are needed
//	n < 0: the varint overflows 64 bits or runs past MaxVarintLen bytes;
//	       -n bytes were examined
func Uvarint(b []byte) (uint64, int) {
	var x uint64
	var s uint
	for i, c := range b {
		if i == MaxVarintLen {
			return 0, -(i + 1)
		}
		if c < 0x80 {
			if i == MaxVarintLen-1 && c > 1 {
				return 0, -(i + 1)
			}
			return x | uint64(c)<<s, i + 1
		}
		x |= uint64(c&0x7f) << s
		s += 7
	}
	return 0, 0
}
