package zip

import "github.com/javi11/rarchive"

// Entry is a caller-facing view of one archived file, wrapping its central
// directory record with an Open method to retrieve its decompressed
// payload.
type Entry struct {
	record CentralDirectoryRecord
	src    rarchive.ByteSource
}

// Name is the entry's path as stored in the archive.
func (e *Entry) Name() string { return e.record.Name }

// UncompressedSize is the entry's declared decompressed size.
func (e *Entry) UncompressedSize() uint32 { return e.record.UncompressedSize }

// CompressedSize is the entry's declared size on disk.
func (e *Entry) CompressedSize() uint32 { return e.record.CompressedSize }

// CRC32 is the entry's declared checksum of its decompressed payload.
func (e *Entry) CRC32() uint32 { return e.record.CRC32 }

// Compression is the entry's declared compression method code.
func (e *Entry) Compression() uint16 { return e.record.Compression }

// Open seeks to the entry's local file header and returns a reader over its
// decompressed payload. Only Stored and Deflate entries can be opened;
// every other method returns an UnsupportedCompressionError.
func (e *Entry) Open() (*EntryReader, error) {
	return openEntry(e.src, &e.record)
}

// Entry looks up name in the directory and returns a caller-facing Entry
// for it, or false if no entry has that exact name.
func (d *Directory) Entry(name string) (*Entry, bool) {
	rec, ok := d.Find(name)
	if !ok {
		return nil, false
	}
	return &Entry{record: rec, src: d.src}, true
}

// AllEntries returns every entry in the directory in central-directory
// order.
func (d *Directory) AllEntries() []*Entry {
	out := make([]*Entry, len(d.Records))
	for i, rec := range d.Records {
		out[i] = &Entry{record: rec, src: d.src}
	}
	return out
}
