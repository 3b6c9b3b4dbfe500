package zip

import (
	"io"

	"github.com/javi11/rarchive"
	"github.com/klauspost/compress/flate"
)

// Compression method codes this package can decode. Every other method
// defined by the ZIP specification (Shrunk, Reduced, Imploded, Bzip2, LZMA,
// Zstd, PPMd, ...) is recognized but not decompressed.
const (
	CompressionStored  uint16 = 0
	CompressionDeflate uint16 = 8
)

// EntryReader is a read-closer over one entry's decompressed payload.
type EntryReader struct {
	io.Reader
	closer func() error
}

// Close releases any resources held by the decompressor.
func (e *EntryReader) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer()
}

func openEntry(src rarchive.ByteSource, rec *CentralDirectoryRecord) (*EntryReader, error) {
	lh, dataOffset, err := readLocalFileHeader(src, int64(rec.LocalHeaderOffset))
	if err != nil {
		return nil, err
	}

	section := io.NewSectionReader(src, dataOffset, int64(lh.CompressedSize))

	switch rec.Compression {
	case CompressionStored:
		return &EntryReader{Reader: section}, nil
	case CompressionDeflate:
		fr := flate.NewReader(section)
		return &EntryReader{Reader: fr, closer: fr.Close}, nil
	default:
		return nil, &rarchive.UnsupportedCompressionError{Method: rec.Compression}
	}
}

// readLocalFileHeader reads the local file header at offset and returns it
// along with the absolute offset of its payload.
func readLocalFileHeader(src rarchive.ByteSource, offset int64) (*LocalFileHeader, int64, error) {
	r, err := rarchive.NewBufferedReaderSize(src, localFileFixedSize+4+65535)
	if err != nil {
		return nil, 0, err
	}
	r.SeekTo(offset)

	sig, err := r.NextBytes(4)
	if err != nil {
		return nil, 0, err
	}
	if !bytesEqual(sig, SignatureLocalFile) {
		return nil, 0, ErrSignatureMismatch
	}

	lh, err := parseLocalFileHeader(r)
	if err != nil {
		return nil, 0, err
	}
	return lh, r.Position(), nil
}
