// Package zip reads the PKZIP central directory (the companion format this
// library's RAR parser sits alongside), using the same buffered-reader
// abstraction, and can decompress Stored and Deflate entries.
package zip

import (
	"encoding/binary"
	"fmt"

	"github.com/javi11/rarchive"
)

// Signatures for the three record kinds this package understands.
var (
	SignatureLocalFile     = []byte{0x50, 0x4B, 0x03, 0x04}
	SignatureCentralDir    = []byte{0x50, 0x4B, 0x01, 0x02}
	SignatureEndCentralDir = []byte{0x50, 0x4B, 0x05, 0x06}
)

// maxCommentSize bounds how far findEndOfCentralDirectory will scan backward
// from the end of the source looking for its signature: the archive
// comment field is at most 65535 bytes, plus the fixed 22-byte record.
const maxCommentSize = 65535 + 22

// CentralDirectoryRecord is one entry of the ZIP central directory.
type CentralDirectoryRecord struct {
	CreatorVersion   uint16
	MinVersion       uint16
	GPFlag           uint16
	Compression      uint16
	LastModTime      uint16
	LastModDate      uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	DiskNumber       uint16
	InternalAttrs    uint16
	ExternalAttrs    uint32
	LocalHeaderOffset uint32
	Name             string
	Comment          string
}

const centralDirFixedSize = 46

func parseCentralDirectoryRecord(r *rarchive.BufferedReader) (*CentralDirectoryRecord, error) {
	fixed, err := r.NextBytes(centralDirFixedSize - 4) // signature already consumed
	if err != nil {
		return nil, err
	}
	rec := &CentralDirectoryRecord{
		CreatorVersion:    binary.LittleEndian.Uint16(fixed[0:2]),
		MinVersion:        binary.LittleEndian.Uint16(fixed[2:4]),
		GPFlag:            binary.LittleEndian.Uint16(fixed[4:6]),
		Compression:       binary.LittleEndian.Uint16(fixed[6:8]),
		LastModTime:       binary.LittleEndian.Uint16(fixed[8:10]),
		LastModDate:       binary.LittleEndian.Uint16(fixed[10:12]),
		CRC32:             binary.LittleEndian.Uint32(fixed[12:16]),
		CompressedSize:    binary.LittleEndian.Uint32(fixed[16:20]),
		UncompressedSize:  binary.LittleEndian.Uint32(fixed[20:24]),
		LocalHeaderOffset: 0, // filled below after reading variable fields
	}
	nameLen := binary.LittleEndian.Uint16(fixed[24:26])
	extraLen := binary.LittleEndian.Uint16(fixed[26:28])
	commentLen := binary.LittleEndian.Uint16(fixed[28:30])
	rec.DiskNumber = binary.LittleEndian.Uint16(fixed[30:32])
	rec.InternalAttrs = binary.LittleEndian.Uint16(fixed[32:34])
	rec.ExternalAttrs = binary.LittleEndian.Uint32(fixed[34:38])
	rec.LocalHeaderOffset = binary.LittleEndian.Uint32(fixed[38:42])

	nameBytes, err := r.NextBytes(int(nameLen))
	if err != nil {
		return nil, err
	}
	rec.Name = string(nameBytes)

	if _, err := r.NextBytes(int(extraLen)); err != nil {
		return nil, err
	}

	commentBytes, err := r.NextBytes(int(commentLen))
	if err != nil {
		return nil, err
	}
	rec.Comment = string(commentBytes)

	return rec, nil
}

// EndOfCentralDirectory is the archive-level trailer record.
type EndOfCentralDirectory struct {
	DiskNumber          uint16
	StartDiskNumber     uint16
	RecordCountOnDisk   uint16
	TotalRecordCount    uint16
	CentralDirSize      uint32
	CentralDirOffset    uint32
	Comment             string
}

const endCentralDirFixedSize = 22

func parseEndOfCentralDirectory(r *rarchive.BufferedReader) (*EndOfCentralDirectory, error) {
	fixed, err := r.NextBytes(endCentralDirFixedSize - 4)
	if err != nil {
		return nil, err
	}
	eocd := &EndOfCentralDirectory{
		DiskNumber:        binary.LittleEndian.Uint16(fixed[0:2]),
		StartDiskNumber:   binary.LittleEndian.Uint16(fixed[2:4]),
		RecordCountOnDisk: binary.LittleEndian.Uint16(fixed[4:6]),
		TotalRecordCount:  binary.LittleEndian.Uint16(fixed[6:8]),
		CentralDirSize:    binary.LittleEndian.Uint32(fixed[8:12]),
		CentralDirOffset:  binary.LittleEndian.Uint32(fixed[12:16]),
	}
	commentLen := binary.LittleEndian.Uint16(fixed[16:18])
	comment, err := r.NextBytes(int(commentLen))
	if err != nil {
		return nil, err
	}
	eocd.Comment = string(comment)
	return eocd, nil
}

// LocalFileHeader is the per-entry header immediately preceding a file's
// compressed payload, re-read when an Entry is opened since several of its
// fields (name/extra lengths) may differ in length, though not in meaning,
// from the central directory's copy.
type LocalFileHeader struct {
	MinVersion       uint16
	GPFlag           uint16
	Compression      uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	Name             string
}

const localFileFixedSize = 30

func parseLocalFileHeader(r *rarchive.BufferedReader) (*LocalFileHeader, error) {
	fixed, err := r.NextBytes(localFileFixedSize - 4)
	if err != nil {
		return nil, err
	}
	lh := &LocalFileHeader{
		MinVersion:       binary.LittleEndian.Uint16(fixed[0:2]),
		GPFlag:           binary.LittleEndian.Uint16(fixed[2:4]),
		Compression:      binary.LittleEndian.Uint16(fixed[4:6]),
		CRC32:            binary.LittleEndian.Uint32(fixed[10:14]),
		CompressedSize:   binary.LittleEndian.Uint32(fixed[14:18]),
		UncompressedSize: binary.LittleEndian.Uint32(fixed[18:22]),
	}
	nameLen := binary.LittleEndian.Uint16(fixed[22:24])
	extraLen := binary.LittleEndian.Uint16(fixed[24:26])

	nameBytes, err := r.NextBytes(int(nameLen))
	if err != nil {
		return nil, err
	}
	lh.Name = string(nameBytes)

	if _, err := r.NextBytes(int(extraLen)); err != nil {
		return nil, err
	}
	return lh, nil
}

// ErrSignatureMismatch is returned when a record is parsed at an offset that
// does not actually carry the expected signature.
var ErrSignatureMismatch = fmt.Errorf("zip: signature mismatch")
