package rarchive

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ErrPasswordProtected is returned when an archive's payload or headers are
// password protected, since this package cannot decrypt anything.
var ErrPasswordProtected = fmt.Errorf("%w: password protected", ErrIO)

// ErrCompressedNotSupported is returned by ListFiles when an entry uses a
// compression method other than "stored", since reconstructing a compressed
// payload requires an actual decompressor this package does not provide.
var ErrCompressedNotSupported = fmt.Errorf("%w: compression not supported", ErrIO)

// AggregatedFilePart is one volume's contribution to a file that may be
// split across a multi-volume archive set.
type AggregatedFilePart struct {
	Path         string `json:"path"`
	DataOffset   int64  `json:"dataOffset"`
	PackedSize   int64  `json:"packedSize"`
	UnpackedSize int64  `json:"unpackedSize"`
	Stored       bool   `json:"stored"`
	Encrypted    bool   `json:"encrypted"`
}

// AggregatedFile groups every part found for one file name across a set of
// volumes.
type AggregatedFile struct {
	Name              string               `json:"name"`
	TotalPackedSize   int64                `json:"totalPackedSize"`
	TotalUnpackedSize int64                `json:"totalUnpackedSize"`
	Parts             []AggregatedFilePart `json:"parts"`
	AnyEncrypted      bool                 `json:"anyEncrypted"`
	AllStored         bool                 `json:"allStored"`
}

// AggregateFiles groups the file entries of a set of already-parsed volumes
// by name. File names are keyed through an xxhash-based index rather than
// Go's built-in map hashing, matching the fast name-keyed lookup idiom this
// library's domain stack uses elsewhere for archive-scale entry counts.
func AggregateFiles(volumes []*VolumeResult) []AggregatedFile {
	index := make(map[uint64][]*AggregatedFile)
	var order []*AggregatedFile

	find := func(name string) *AggregatedFile {
		h := xxhash.Sum64String(name)
		for _, ag := range index[h] {
			if ag.Name == name {
				return ag
			}
		}
		return nil
	}

	for _, v := range volumes {
		for _, fh := range v.Archive.Files() {
			if fh.Name == "" || fh.FileFlags.Has(FileFlagDirectory) {
				continue
			}
			ag := find(fh.Name)
			if ag == nil {
				ag = &AggregatedFile{Name: fh.Name, AllStored: true}
				h := xxhash.Sum64String(fh.Name)
				index[h] = append(index[h], ag)
				order = append(order, ag)
			}

			ag.Parts = append(ag.Parts, AggregatedFilePart{
				Path:         v.Path,
				DataOffset:   fh.DataOffset,
				PackedSize:   int64(fh.DataSize),
				UnpackedSize: int64(fh.UnpackedSize),
				Stored:       fh.Stored,
				Encrypted:    fh.Encrypted,
			})
			ag.TotalPackedSize += int64(fh.DataSize)
			if ag.TotalUnpackedSize == 0 && fh.UnpackedSize > 0 {
				ag.TotalUnpackedSize = int64(fh.UnpackedSize)
			}
			if fh.Encrypted {
				ag.AnyEncrypted = true
			}
			if !fh.Stored {
				ag.AllStored = false
			}
		}
	}

	out := make([]AggregatedFile, 0, len(order))
	for _, ag := range order {
		out = append(out, *ag)
	}
	return out
}

// ListFilesFS discovers, parses, and aggregates every volume of the set
// starting at first, using fsys. It refuses to proceed past any encrypted
// header or non-stored (compressed) entry, since this package does not
// implement decryption or RAR's proprietary compression.
func ListFilesFS(fsys FileSystem, first string) ([]AggregatedFile, error) {
	vols, err := DiscoverVolumesFS(fsys, first)
	if err != nil {
		return nil, err
	}
	results, err := IndexVolumesParallel(fsys, vols, 0)
	if err != nil {
		return nil, err
	}

	for _, v := range results {
		if v.Archive.HeaderEncrypted() {
			return nil, fmt.Errorf("%w: %s", ErrPasswordProtected, v.Path)
		}
		for _, fh := range v.Archive.Files() {
			if fh.Encrypted {
				return nil, fmt.Errorf("%w: %s (%s)", ErrPasswordProtected, fh.Name, v.Path)
			}
			if !fh.Stored && !fh.FileFlags.Has(FileFlagDirectory) {
				return nil, fmt.Errorf("%w: %s (%s)", ErrCompressedNotSupported, fh.Name, v.Path)
			}
		}
	}

	return AggregateFiles(results), nil
}

// ListFiles is ListFilesFS using the default OS filesystem.
func ListFiles(first string) ([]AggregatedFile, error) {
	return ListFilesFS(defaultFS, first)
}
