package rarchive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"runtime"
	"sync"
	"sync/atomic"
)

// VolumeResult pairs a discovered volume's path with its parsed Archive.
type VolumeResult struct {
	Path    string
	Archive *Archive
}

// IndexVolumes opens and parses each of volPaths in order, stopping at the
// first error.
func IndexVolumes(fsys FileSystem, volPaths []string) ([]*VolumeResult, error) {
	res := make([]*VolumeResult, 0, len(volPaths))
	for _, p := range volPaths {
		v, err := indexSingle(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		res = append(res, v)
	}
	return res, nil
}

// IndexVolumesParallel indexes volumes concurrently across workers
// goroutines (runtime.NumCPU() if workers <= 0). Each worker opens and
// parses its own file, so every in-flight parse still holds exclusive
// ownership of its own ByteSource. Results preserve input order. Scheduling
// of new work stops once the first error is recorded, but tasks already
// in flight are allowed to finish.
func IndexVolumesParallel(fsys FileSystem, volPaths []string, workers int) ([]*VolumeResult, error) {
	if len(volPaths) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	res := make([]*VolumeResult, len(volPaths))
	var firstErr atomic.Value
	jobs := make(chan int)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for i := range jobs {
			if firstErr.Load() != nil {
				continue
			}
			v, err := indexSingle(fsys, volPaths[i])
			if err != nil {
				if firstErr.Load() == nil {
					firstErr.Store(fmt.Errorf("%s: %w", volPaths[i], err))
				}
				continue
			}
			res[i] = v
		}
	}

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go worker()
	}
	for i := range volPaths {
		if firstErr.Load() != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if e := firstErr.Load(); e != nil {
		return nil, e.(error)
	}
	return res, nil
}

func indexSingle(fsys FileSystem, path string) (*VolumeResult, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, wrapIO(err)
	}
	defer func() { _ = f.Close() }()

	src, err := byteSourceFromFile(f)
	if err != nil {
		return nil, err
	}

	archive, err := Open(src)
	if err != nil {
		return nil, err
	}
	return &VolumeResult{Path: path, Archive: archive}, nil
}

// readerAtFile is the subset of fs.File that supports ReadAt, which both
// *os.File and any seekable virtual filesystem implementation is expected to
// provide.
type readerAtFile interface {
	fs.File
	ReadAt(p []byte, off int64) (int, error)
}

func byteSourceFromFile(f fs.File) (ByteSource, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, wrapIO(err)
	}
	ra, ok := f.(readerAtFile)
	if !ok {
		return nil, fmt.Errorf("rarchive: filesystem file does not support ReadAt")
	}
	return &fsByteSource{f: ra, size: info.Size()}, nil
}

type fsByteSource struct {
	f    readerAtFile
	size int64
}

func (s *fsByteSource) ReadAt(p []byte, off int64) (int, error) {
	n, err := s.f.ReadAt(p, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, wrapIO(err)
	}
	return n, err
}

func (s *fsByteSource) Size() (int64, error) { return s.size, nil }
