package rarchive

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/javi11/rarchive/internal/rlog"
)

// buildLegacyFileBlock assembles one legacy (1.5-4.x) File-type block:
// CRC16, type, flags, headerSize, the fixed 25-byte tail, and the name.
func buildLegacyFileBlock(name string, packSize, unpSize uint32, method byte) []byte {
	nameBytes := []byte(name)
	const fixedTailSize = 25
	headerSize := 7 + fixedTailSize + len(nameBytes)

	var b []byte
	b = append(b, encodeU16(0)...) // CRC16
	b = append(b, byte(LegacyHeaderTypeFile))
	b = append(b, encodeU16(0)...) // flags
	b = append(b, encodeU16(uint16(headerSize))...)

	tail := make([]byte, fixedTailSize)
	copy(tail[0:4], encodeU32(packSize))
	copy(tail[4:8], encodeU32(unpSize))
	tail[8] = byte(LegacyHostOSUnix)
	// tail[9:13] data CRC32, tail[13:17] file time, tail[17] unpacker version
	tail[18] = method
	copy(tail[19:21], encodeU16(uint16(len(nameBytes))))
	// tail[21:25] attributes

	b = append(b, tail...)
	b = append(b, nameBytes...)
	return b
}

func TestParseLegacyArchiveSingleStoredFile(t *testing.T) {
	data := append([]byte{}, SignatureLegacy...)
	data = append(data, 0x00) // signature is 7 bytes; a padding byte commonly follows
	data = append(data, buildLegacyFileBlock("file3.txt", 5, 5, 0x30)...)
	data = append(data, []byte("hello")...) // 5-byte stored payload, matching packSize

	var terminator []byte
	terminator = append(terminator, encodeU16(0)...) // CRC16
	terminator = append(terminator, byte(LegacyHeaderTypeTerminator))
	terminator = append(terminator, encodeU16(0)...)     // flags
	terminator = append(terminator, encodeU16(7)...)     // header size
	data = append(data, terminator...)

	r, err := NewBufferedReader(NewSliceByteSource(data))
	require.NoError(t, err)

	format, err := detectFormat(r)
	require.NoError(t, err)
	require.Equal(t, FormatLegacy, format)
	r.Skip(1) // padding byte

	archive, err := parseLegacyArchive(r, rlog.Default())
	require.NoError(t, err)
	require.Len(t, archive.Files, 1)
	require.Equal(t, "file3.txt", archive.Files[0].Name)
	require.True(t, archive.Files[0].Stored)
}

func TestLegacyHeaderTypeValidation(t *testing.T) {
	require.NoError(t, LegacyHeaderTypeFile.validate())
	require.NoError(t, LegacyHeaderTypeTerminator.validate())
	require.Error(t, LegacyHeaderType(0x10).validate())
}

func TestLegacyHostOSValidation(t *testing.T) {
	require.NoError(t, LegacyHostOSWindows.validate())
	require.NoError(t, LegacyHostOSUnix.validate())
	require.Error(t, LegacyHostOS(5).validate())
}
