package rarchive

import (
	"io"
	"os"
)

// ByteSource is a seekable source of bytes. A parser holds exclusive
// ownership of one ByteSource for the duration of a parse; ByteSource
// implementations are not required to be safe for concurrent use.
type ByteSource interface {
	io.ReaderAt

	// Size returns the total number of bytes available from the source.
	Size() (int64, error)
}

// fileByteSource adapts an *os.File to ByteSource.
type fileByteSource struct {
	f *os.File
}

// NewFileByteSource opens path and returns a ByteSource backed by it. The
// caller is responsible for calling Close on the returned source.
func NewFileByteSource(path string) (*fileByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrapIO(err)
	}
	return &fileByteSource{f: f}, nil
}

func (s *fileByteSource) ReadAt(p []byte, off int64) (int, error) {
	n, err := s.f.ReadAt(p, off)
	if err != nil && err != io.EOF {
		return n, wrapIO(err)
	}
	return n, err
}

func (s *fileByteSource) Size() (int64, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, wrapIO(err)
	}
	return info.Size(), nil
}

func (s *fileByteSource) Close() error {
	return s.f.Close()
}

// sliceByteSource adapts an in-memory byte slice to ByteSource, used
// extensively by tests.
type sliceByteSource struct {
	data []byte
}

// NewSliceByteSource wraps data as a ByteSource.
func NewSliceByteSource(data []byte) *sliceByteSource {
	return &sliceByteSource{data: data}
}

func (s *sliceByteSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, wrapIO(io.ErrUnexpectedEOF)
	}
	if off >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (s *sliceByteSource) Size() (int64, error) {
	return int64(len(s.data)), nil
}
