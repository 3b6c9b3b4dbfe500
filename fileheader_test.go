package rarchive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildFileHeaderBody(name string, flags FileFlags, unpackedSize uint64, mtime, crc uint32, compInfo uint64, hostOS OperatingSystem) []byte {
	var b []byte
	b = append(b, encodeVint(uint64(flags))...)
	b = append(b, encodeVint(unpackedSize)...)
	b = append(b, encodeVint(0)...) // attributes
	if flags.Has(FileFlagUnixTime) {
		b = append(b, encodeU32(mtime)...)
	}
	if flags.Has(FileFlagCRC32Present) {
		b = append(b, encodeU32(crc)...)
	}
	b = append(b, encodeVint(compInfo)...)
	b = append(b, byte(hostOS))
	nameBytes := []byte(name)
	b = append(b, encodeVint(uint64(len(nameBytes)))...)
	b = append(b, nameBytes...)
	return b
}

func TestParseFileHeaderBasic(t *testing.T) {
	body := buildFileHeaderBody("docs/readme.txt", FileFlagUnixTime|FileFlagCRC32Present,
		1234, 1_700_000_000, 0xDEADBEEF, 0, OperatingSystemUnix)

	gh := &GeneralHeader{Type: HeaderTypeFile}
	r, err := NewBufferedReader(NewSliceByteSource(body))
	require.NoError(t, err)

	fh, err := parseFileHeader(r, gh)
	require.NoError(t, err)
	require.Equal(t, "docs/readme.txt", fh.Name)
	require.Equal(t, uint64(1234), fh.UnpackedSize)
	require.True(t, fh.HasModTime)
	require.Equal(t, uint64(1_700_000_000), fh.ModTime)
	require.True(t, fh.HasDataCRC32)
	require.Equal(t, uint32(0xDEADBEEF), fh.DataCRC32)
	require.Equal(t, OperatingSystemUnix, fh.HostOS)
	require.True(t, fh.Stored)
	require.False(t, fh.HasData)
}

func TestParseFileHeaderDirectoryFlag(t *testing.T) {
	body := buildFileHeaderBody("a/dir", FileFlagDirectory, 0, 0, 0, 0, OperatingSystemWindows)
	gh := &GeneralHeader{Type: HeaderTypeFile}
	r, err := NewBufferedReader(NewSliceByteSource(body))
	require.NoError(t, err)

	fh, err := parseFileHeader(r, gh)
	require.NoError(t, err)
	require.True(t, fh.FileFlags.Has(FileFlagDirectory))
}

func TestParseFileHeaderInvalidHostOS(t *testing.T) {
	body := buildFileHeaderBody("x", 0, 0, 0, 0, 0, OperatingSystem(9))
	gh := &GeneralHeader{Type: HeaderTypeFile}
	r, err := NewBufferedReader(NewSliceByteSource(body))
	require.NoError(t, err)

	_, err = parseFileHeader(r, gh)
	require.Error(t, err)
	var discErr *InvalidDiscriminantError
	require.ErrorAs(t, err, &discErr)
	require.Equal(t, "host-os", discErr.Kind)
}

func TestCompressionInfoAccessors(t *testing.T) {
	// version=5, solid=true, method=3, dict exponent=10
	v := uint64(5) | (1 << 6) | (3 << 7) | (10 << 10)
	ci := CompressionInfo(v)
	require.Equal(t, uint64(5), ci.Version())
	require.True(t, ci.Solid())
	require.Equal(t, uint64(3), ci.Method())
	require.Equal(t, uint64(10), ci.DictSizeExponent())
}

func TestFileHeaderDataRegionRecordedNotRead(t *testing.T) {
	body := buildFileHeaderBody("payload.bin", 0, 10, 0, 0, 0, OperatingSystemWindows)
	payload := []byte("0123456789")
	body = append(body, payload...)

	gh := &GeneralHeader{Type: HeaderTypeFile, Flags: HeaderFlagDataArea, DataSize: uint64(len(payload))}
	r, err := NewBufferedReader(NewSliceByteSource(body))
	require.NoError(t, err)

	fh, err := parseFileHeader(r, gh)
	require.NoError(t, err)
	require.True(t, fh.HasData)
	require.Equal(t, uint64(len(payload)), fh.DataSize)
	require.Equal(t, r.Size(), r.Position())
}
