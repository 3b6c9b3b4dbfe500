package rarchive

import (
	"encoding/binary"
	"io"
)

// DefaultWindowSize is the default size of the BufferedReader's sliding
// window.
const DefaultWindowSize = 1024

// BufferedReader reads fixed-width and variable-width primitives from a
// ByteSource through a sliding window, refilling from the source as the
// window is exhausted. It tracks the absolute position in the source so
// callers can record offsets (header starts, data region starts) without
// needing to track the window's internal bookkeeping themselves.
type BufferedReader struct {
	src        ByteSource
	windowSize int
	window     []byte
	// windowStart is the absolute offset of window[0] in src.
	windowStart int64
	// pos is the absolute read position.
	pos int64
	// size is the total size of src, cached at construction.
	size int64
}

// NewBufferedReader constructs a BufferedReader over src starting at
// absolute position 0, using DefaultWindowSize.
func NewBufferedReader(src ByteSource) (*BufferedReader, error) {
	return NewBufferedReaderSize(src, DefaultWindowSize)
}

// NewBufferedReaderSize is NewBufferedReader with an explicit window size.
func NewBufferedReaderSize(src ByteSource, windowSize int) (*BufferedReader, error) {
	size, err := src.Size()
	if err != nil {
		return nil, err
	}
	return &BufferedReader{
		src:        src,
		windowSize: windowSize,
		size:       size,
	}, nil
}

// Position returns the current absolute read position.
func (r *BufferedReader) Position() int64 { return r.pos }

// Size returns the total size of the underlying source.
func (r *BufferedReader) Size() int64 { return r.size }

// SeekTo repositions the reader at an absolute offset, invalidating the
// window if the target falls outside it.
func (r *BufferedReader) SeekTo(pos int64) {
	r.pos = pos
	if pos < r.windowStart || pos >= r.windowStart+int64(len(r.window)) {
		r.window = nil
		r.windowStart = 0
	}
}

// Skip advances the read position by n bytes without reading them.
func (r *BufferedReader) Skip(n int64) { r.SeekTo(r.pos + n) }

// ensure makes sure at least n bytes starting at r.pos are available in the
// window, refilling from the source if necessary. It returns the window
// slice starting at r.pos and how many bytes of it are valid (may be less
// than n at end of source).
func (r *BufferedReader) ensure(n int) ([]byte, error) {
	if r.window != nil && r.pos >= r.windowStart && r.pos+int64(n) <= r.windowStart+int64(len(r.window)) {
		off := r.pos - r.windowStart
		return r.window[off:], nil
	}

	want := n
	if want < r.windowSize {
		want = r.windowSize
	}
	buf := make([]byte, want)
	read, err := r.src.ReadAt(buf, r.pos)
	if err != nil && err != io.EOF {
		return nil, wrapIO(err)
	}
	buf = buf[:read]
	r.window = buf
	r.windowStart = r.pos

	if read < n {
		return buf, io.ErrUnexpectedEOF
	}
	return buf, nil
}

// GetChunk returns the next n bytes without advancing the read position.
func (r *BufferedReader) GetChunk(n int) ([]byte, error) {
	b, err := r.ensure(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b[:n])
	return out, nil
}

// NextBytes reads and consumes the next n bytes.
func (r *BufferedReader) NextBytes(n int) ([]byte, error) {
	b, err := r.GetChunk(n)
	if err != nil {
		return nil, err
	}
	r.pos += int64(n)
	return b, nil
}

// NextU8 reads and consumes one byte.
func (r *BufferedReader) NextU8() (uint8, error) {
	b, err := r.NextBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// NextU16 reads and consumes a little-endian uint16.
func (r *BufferedReader) NextU16() (uint16, error) {
	b, err := r.NextBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// NextU32 reads and consumes a little-endian uint32.
func (r *BufferedReader) NextU32() (uint32, error) {
	b, err := r.NextBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// NextU64 reads and consumes a little-endian uint64.
func (r *BufferedReader) NextU64() (uint64, error) {
	b, err := r.NextBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// maxVintBytes bounds a vint's encoded length; the format defines no vint
// longer than 10 bytes (70 payload bits, comfortably over uint64).
const maxVintBytes = 10

// NextVint reads and consumes a base-128 little-endian variable-length
// integer. Each byte's most significant bit is a continuation flag; the
// remaining 7 bits are payload, least-significant group first. It returns the
// decoded value and the number of bytes consumed.
func (r *BufferedReader) NextVint() (uint64, int, error) {
	var value uint64
	for i := 0; i < maxVintBytes; i++ {
		b, err := r.NextU8()
		if err != nil {
			return 0, i, err
		}
		value |= uint64(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, maxVintBytes, wrapIO(io.ErrUnexpectedEOF)
}

// FindSignature scans forward from the current position for the first
// occurrence of any candidate byte sequence, refilling the window from the
// current position whenever fewer bytes than the longest candidate remain in
// it, so a candidate split across a window boundary is not missed. It leaves
// the read position at the start of
// the matched signature and returns which candidate matched.
func (r *BufferedReader) FindSignature(candidates [][]byte) ([]byte, error) {
	maxLen := 0
	for _, c := range candidates {
		if len(c) > maxLen {
			maxLen = len(c)
		}
	}
	if maxLen == 0 {
		return nil, ErrNoSignature
	}

	for {
		chunk, err := r.ensure(maxLen)
		available := len(chunk)
		if available == 0 {
			if err != nil && err != io.ErrUnexpectedEOF {
				return nil, err
			}
			return nil, ErrNoSignature
		}
		for _, c := range candidates {
			if len(c) <= available && equalBytes(chunk[:len(c)], c) {
				return c, nil
			}
		}
		r.pos++
	}
}

func equalBytes(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
