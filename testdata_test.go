package rarchive

import "encoding/binary"

// encodeVint encodes x as a base-128 little-endian variable-length integer,
// mirroring NextVint's decoding exactly, for use building test fixtures.
func encodeVint(x uint64) []byte {
	var out []byte
	for {
		b := byte(x & 0x7F)
		x >>= 7
		if x != 0 {
			out = append(out, b|0x80)
			continue
		}
		out = append(out, b)
		break
	}
	return out
}

func encodeU32(x uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, x)
	return b
}

func encodeU16(x uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, x)
	return b
}

// buildGeneralHeader builds the raw bytes of a GeneralHeader with the given
// type/flags/extraAreaSize/dataSize, not including any body bytes that would
// follow for a specific header type.
func buildGeneralHeader(typ HeaderType, flags HeaderFlags, extraAreaSize, dataSize uint64) []byte {
	var b []byte
	b = append(b, encodeU32(0)...) // crc32, not validated by the parser
	body := append(encodeVint(uint64(typ)), encodeVint(uint64(flags))...)
	if flags.Has(HeaderFlagExtraArea) {
		body = append(body, encodeVint(extraAreaSize)...)
	}
	if flags.Has(HeaderFlagDataArea) {
		body = append(body, encodeVint(dataSize)...)
	}
	b = append(b, encodeVint(uint64(len(body)))...)
	b = append(b, body...)
	return b
}
