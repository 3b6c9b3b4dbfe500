package zip

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/javi11/rarchive"
)

// Directory is a parsed ZIP central directory: every entry's metadata,
// indexed by name for fast repeated lookups the way a central-directory
// cache needs to support at archive scale.
type Directory struct {
	src     rarchive.ByteSource
	EOCD    EndOfCentralDirectory
	Records []CentralDirectoryRecord

	byName map[uint64][]int
}

// OpenDirectory locates the end-of-central-directory record by scanning
// backward from the end of src (its signature may be preceded by a variable-
// length archive comment), then reads every central directory record it
// references.
func OpenDirectory(src rarchive.ByteSource) (*Directory, error) {
	size, err := src.Size()
	if err != nil {
		return nil, err
	}

	eocdOffset, err := findEndOfCentralDirectory(src, size)
	if err != nil {
		return nil, err
	}

	r, err := rarchive.NewBufferedReaderSize(src, rarchive.DefaultWindowSize)
	if err != nil {
		return nil, err
	}
	r.SeekTo(eocdOffset + 4)
	eocd, err := parseEndOfCentralDirectory(r)
	if err != nil {
		return nil, err
	}

	// Prefix data (a self-extracting stub) shifts every offset the EOCD
	// declares; the central directory ends where the EOCD record begins.
	cdStart := int64(eocd.CentralDirOffset)
	shift := eocdOffset - int64(eocd.CentralDirSize) - cdStart
	if shift > 0 {
		cdStart += shift
	} else {
		shift = 0
	}
	r.SeekTo(cdStart)
	records := make([]CentralDirectoryRecord, 0, eocd.TotalRecordCount)
	for i := 0; i < int(eocd.TotalRecordCount); i++ {
		sig, err := r.NextBytes(4)
		if err != nil {
			return nil, err
		}
		if !bytesEqual(sig, SignatureCentralDir) {
			return nil, ErrSignatureMismatch
		}
		rec, err := parseCentralDirectoryRecord(r)
		if err != nil {
			return nil, err
		}
		rec.LocalHeaderOffset = uint32(int64(rec.LocalHeaderOffset) + shift)
		records = append(records, *rec)
	}

	d := &Directory{src: src, EOCD: *eocd, Records: records, byName: make(map[uint64][]int)}
	for i, rec := range records {
		h := xxhash.Sum64String(rec.Name)
		d.byName[h] = append(d.byName[h], i)
	}
	return d, nil
}

// findEndOfCentralDirectory scans src backward for SignatureEndCentralDir,
// starting from the end of the source, bounded by the maximum possible
// archive-comment length.
func findEndOfCentralDirectory(src rarchive.ByteSource, size int64) (int64, error) {
	scanSize := int64(maxCommentSize)
	if scanSize > size {
		scanSize = size
	}
	start := size - scanSize

	buf := make([]byte, scanSize)
	n, err := src.ReadAt(buf, start)
	if err != nil && int64(n) < scanSize {
		// Partial/EOF reads are fine as long as we got the tail region;
		// anything else propagates.
		if n == 0 {
			return 0, err
		}
	}
	buf = buf[:n]

	for i := len(buf) - len(SignatureEndCentralDir); i >= 0; i-- {
		if bytesEqual(buf[i:i+len(SignatureEndCentralDir)], SignatureEndCentralDir) {
			return start + int64(i), nil
		}
	}
	return 0, fmt.Errorf("zip: end of central directory not found")
}

func bytesEqual(a, b []byte) bool {
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

// Find returns the central directory record for name, or false if no entry
// has that exact name.
func (d *Directory) Find(name string) (CentralDirectoryRecord, bool) {
	h := xxhash.Sum64String(name)
	for _, idx := range d.byName[h] {
		if d.Records[idx].Name == name {
			return d.Records[idx], true
		}
	}
	return CentralDirectoryRecord{}, false
}

// Entries returns every record in central-directory order.
func (d *Directory) Entries() []CentralDirectoryRecord {
	return d.Records
}

// Info is the summary returned by Directory.Info: entry count and the
// archive-level comment, which only this companion ZIP format carries.
type Info struct {
	Multivolume bool
	EntryCount  int
	Comment     string
}

// Info summarizes the directory: entry count and archive comment.
func (d *Directory) Info() Info {
	return Info{
		EntryCount: len(d.Records),
		Comment:    d.EOCD.Comment,
	}
}

// Open returns a reader over the decompressed payload of the named entry.
func (d *Directory) Open(name string) (*EntryReader, error) {
	entry, ok := d.Entry(name)
	if !ok {
		return nil, fmt.Errorf("zip: no such entry: %s", name)
	}
	return entry.Open()
}
