package srcmap

import "bytes"

// base64Alphabet is the Source Map v3 base64 alphabet used to encode VLQ
// digits in the "mappings" field.
var base64Alphabet = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/")

// encodeVLQ appends value, zig-zag encoded as a base64 variable-length
// quantity, to encoded. A single base64 digit holds 6 bits: the low 5 are
// data, the high bit is a continuation flag.
func encodeVLQ(encoded []byte, value int32) []byte {
	var vlq int32
	if value < 0 {
		vlq = ((-value) << 1) | 1
	} else {
		vlq = value << 1
	}

	if (vlq >> 5) == 0 {
		return append(encoded, base64Alphabet[vlq&31])
	}

	for {
		digit := vlq & 31
		vlq >>= 5
		if vlq != 0 {
			digit |= 32
		}
		encoded = append(encoded, base64Alphabet[digit])
		if vlq == 0 {
			break
		}
	}
	return encoded
}

// decodeVLQ decodes a single VLQ value starting at encoded[start], returning
// the value and the index just past the last digit consumed.
func decodeVLQ(encoded []byte, start int) (int32, int) {
	shift := uint(0)
	var vlq int32

	for start < len(encoded) {
		index := bytes.IndexByte(base64Alphabet, encoded[start])
		if index < 0 {
			break
		}
		vlq |= int32(index&31) << shift
		start++
		shift += 5
		if index&32 == 0 {
			break
		}
	}

	value := vlq >> 1
	if vlq&1 != 0 {
		value = -value
	}
	return value, start
}
