package zip

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"io"
	"testing"

	"github.com/javi11/rarchive"
	"github.com/stretchr/testify/require"
)

// buildZip assembles a minimal but complete ZIP stream with two entries: one
// stored and one deflated, followed by a central directory and an
// end-of-central-directory record carrying the given comment.
func buildZip(t *testing.T, comment string) ([]byte, []byte, []byte) {
	t.Helper()

	stored := []byte("hello, stored")
	plain := []byte("hello, deflated hello, deflated hello, deflated")

	var deflated bytes.Buffer
	w, err := flate.NewWriter(&deflated, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(plain)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var buf bytes.Buffer
	var centralDir bytes.Buffer
	var records int

	writeEntry := func(name string, method uint16, raw []byte) uint32 {
		offset := uint32(buf.Len())

		buf.Write(SignatureLocalFile)
		localFixed := make([]byte, 26)
		binary.LittleEndian.PutUint16(localFixed[0:2], 20)     // min version
		binary.LittleEndian.PutUint16(localFixed[2:4], 0)      // gp flag
		binary.LittleEndian.PutUint16(localFixed[4:6], method) // compression
		binary.LittleEndian.PutUint16(localFixed[6:8], 0)      // mod time
		binary.LittleEndian.PutUint16(localFixed[8:10], 0)     // mod date
		binary.LittleEndian.PutUint32(localFixed[10:14], 0)    // crc32
		binary.LittleEndian.PutUint32(localFixed[14:18], uint32(len(raw)))
		var uncompSize uint32
		if method == CompressionStored {
			uncompSize = uint32(len(raw))
		} else {
			uncompSize = uint32(len(plain))
		}
		binary.LittleEndian.PutUint32(localFixed[18:22], uncompSize)
		binary.LittleEndian.PutUint16(localFixed[22:24], uint16(len(name)))
		binary.LittleEndian.PutUint16(localFixed[24:26], 0) // extra len
		buf.Write(localFixed)
		buf.WriteString(name)
		buf.Write(raw)

		centralDir.Write(SignatureCentralDir)
		cdFixed := make([]byte, 42)
		binary.LittleEndian.PutUint16(cdFixed[0:2], 20) // creator version
		binary.LittleEndian.PutUint16(cdFixed[2:4], 20) // min version
		binary.LittleEndian.PutUint16(cdFixed[4:6], 0)  // gp flag
		binary.LittleEndian.PutUint16(cdFixed[6:8], method)
		binary.LittleEndian.PutUint16(cdFixed[8:10], 0)
		binary.LittleEndian.PutUint16(cdFixed[10:12], 0)
		binary.LittleEndian.PutUint32(cdFixed[12:16], 0)
		binary.LittleEndian.PutUint32(cdFixed[16:20], uint32(len(raw)))
		binary.LittleEndian.PutUint32(cdFixed[20:24], uncompSize)
		binary.LittleEndian.PutUint16(cdFixed[24:26], uint16(len(name)))
		binary.LittleEndian.PutUint16(cdFixed[26:28], 0) // extra len
		binary.LittleEndian.PutUint16(cdFixed[28:30], 0) // comment len
		binary.LittleEndian.PutUint16(cdFixed[30:32], 0) // disk number
		binary.LittleEndian.PutUint16(cdFixed[32:34], 0) // internal attrs
		binary.LittleEndian.PutUint32(cdFixed[34:38], 0) // external attrs
		binary.LittleEndian.PutUint32(cdFixed[38:42], offset)
		centralDir.Write(cdFixed)
		centralDir.WriteString(name)

		records++
		return offset
	}

	writeEntry("stored.txt", CompressionStored, stored)
	writeEntry("deflated.txt", CompressionDeflate, deflated.Bytes())

	centralDirOffset := uint32(buf.Len())
	buf.Write(centralDir.Bytes())
	centralDirSize := uint32(centralDir.Len())

	buf.Write(SignatureEndCentralDir)
	eocdFixed := make([]byte, 18)
	binary.LittleEndian.PutUint16(eocdFixed[0:2], 0)
	binary.LittleEndian.PutUint16(eocdFixed[2:4], 0)
	binary.LittleEndian.PutUint16(eocdFixed[4:6], uint16(records))
	binary.LittleEndian.PutUint16(eocdFixed[6:8], uint16(records))
	binary.LittleEndian.PutUint32(eocdFixed[8:12], centralDirSize)
	binary.LittleEndian.PutUint32(eocdFixed[12:16], centralDirOffset)
	binary.LittleEndian.PutUint16(eocdFixed[16:18], uint16(len(comment)))
	buf.Write(eocdFixed)
	buf.WriteString(comment)

	return buf.Bytes(), stored, plain
}

func TestOpenDirectoryParsesEntries(t *testing.T) {
	data, stored, plain := buildZip(t, "a test archive")
	_ = stored
	_ = plain

	dir, err := OpenDirectory(rarchive.NewSliceByteSource(data))
	require.NoError(t, err)
	require.Len(t, dir.Entries(), 2)
	require.Equal(t, "a test archive", dir.Info().Comment)
	require.Equal(t, 2, dir.Info().EntryCount)

	rec, ok := dir.Find("stored.txt")
	require.True(t, ok)
	require.Equal(t, "stored.txt", rec.Name)
}

func TestOpenDirectoryTolerantOfPrefixBytes(t *testing.T) {
	data, _, _ := buildZip(t, "")
	prefixed := append(make([]byte, 512), data...)

	dir, err := OpenDirectory(rarchive.NewSliceByteSource(prefixed))
	require.NoError(t, err)
	require.Len(t, dir.Entries(), 2)
}

func TestEntryOpenStored(t *testing.T) {
	data, stored, _ := buildZip(t, "")
	dir, err := OpenDirectory(rarchive.NewSliceByteSource(data))
	require.NoError(t, err)

	entry, ok := dir.Entry("stored.txt")
	require.True(t, ok)

	r, err := entry.Open()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, stored, got)
}

func TestEntryOpenDeflate(t *testing.T) {
	data, _, plain := buildZip(t, "")
	dir, err := OpenDirectory(rarchive.NewSliceByteSource(data))
	require.NoError(t, err)

	r, err := dir.Open("deflated.txt")
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, plain, got)
}

func TestEntryOpenUnsupportedMethod(t *testing.T) {
	data, _, _ := buildZip(t, "")
	dir, err := OpenDirectory(rarchive.NewSliceByteSource(data))
	require.NoError(t, err)

	entry, ok := dir.Entry("stored.txt")
	require.True(t, ok)
	entry.record.Compression = 99 // unsupported (e.g. LZMA)

	_, err = entry.Open()
	var unsupported *rarchive.UnsupportedCompressionError
	require.ErrorAs(t, err, &unsupported)
}

func TestFindMissingEntry(t *testing.T) {
	data, _, _ := buildZip(t, "")
	dir, err := OpenDirectory(rarchive.NewSliceByteSource(data))
	require.NoError(t, err)

	_, ok := dir.Find("does-not-exist.txt")
	require.False(t, ok)
}
