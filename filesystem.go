package rarchive

import (
	"io/fs"
	"os"
)

// FileSystem abstracts the minimal filesystem operations DiscoverVolumesFS
// and IndexVolumes need, so callers can substitute a virtual or in-memory
// filesystem in tests.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Open(path string) (fs.File, error)
}

type osFS struct{}

func (osFS) Stat(p string) (fs.FileInfo, error) { return os.Stat(p) }
func (osFS) Open(p string) (fs.File, error)     { return os.Open(p) }

var defaultFS osFS
