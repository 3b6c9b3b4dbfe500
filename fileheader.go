package rarchive

import "io"

// CompressionInfo is the packed compression-method word carried by a modern
// FileHeader: bits 0-5 hold the RAR version that wrote the archive, bit 6
// flags a solid file, bits 7-9 hold the compression method, and bits 10-13
// hold the minimum dictionary size.
type CompressionInfo uint64

func (c CompressionInfo) Version() uint64          { return uint64(c) & 0x3F }
func (c CompressionInfo) Solid() bool              { return c&0x40 != 0 }
func (c CompressionInfo) Method() uint64           { return (uint64(c) >> 7) & 0x7 }
func (c CompressionInfo) DictSizeExponent() uint64 { return (uint64(c) >> 10) & 0xF }

// FileHeader describes one archived file or directory entry (modern
// format).
type FileHeader struct {
	General         GeneralHeader
	FileFlags       FileFlags
	UnpackedSize    uint64
	Attributes      uint64
	ModTime         uint64 // modern: unix seconds, present iff FileFlagUnixTime; legacy: the raw 32-bit file-time field
	HasModTime      bool
	DataCRC32       uint32
	HasDataCRC32    bool
	CompressionInfo CompressionInfo
	HostOS          OperatingSystem
	Name            string
	ExtraArea       []FileExtraRecord
	// DataOffset/DataSize locate the payload without reading it.
	DataOffset int64
	DataSize   uint64
	HasData    bool
	// Encrypted is set for legacy-format entries whose header flags mark
	// the payload as password protected; the modern format's equivalent
	// is an ArchiveEncryption header, tracked at the archive level.
	Encrypted bool
	// Stored reports whether the entry's payload is uncompressed. For the
	// modern format this is CompressionInfo.Method() == 0; the legacy
	// format uses its own one-byte method code with the same meaning for
	// value 0x30.
	Stored bool
}

// parseFileHeader reads a FileHeader's body in strict field order, assuming
// its GeneralHeader has already been parsed. r's position after the
// GeneralHeader's own optional extra/data-size vints is the start of the
// file-flags vint.
func parseFileHeader(r *BufferedReader, gh *GeneralHeader) (*FileHeader, error) {
	flagsVal, _, err := r.NextVint()
	if err != nil {
		return nil, err
	}
	flags := FileFlags(flagsVal)
	if err := flags.validate(); err != nil {
		return nil, err
	}

	fh := &FileHeader{General: *gh, FileFlags: flags}

	unpacked, _, err := r.NextVint()
	if err != nil {
		return nil, err
	}
	fh.UnpackedSize = unpacked

	attrs, _, err := r.NextVint()
	if err != nil {
		return nil, err
	}
	fh.Attributes = attrs

	if flags.Has(FileFlagUnixTime) {
		mtime, err := r.NextU32()
		if err != nil {
			return nil, err
		}
		fh.ModTime = uint64(mtime)
		fh.HasModTime = true
	}

	if flags.Has(FileFlagCRC32Present) {
		crc, err := r.NextU32()
		if err != nil {
			return nil, err
		}
		fh.DataCRC32 = crc
		fh.HasDataCRC32 = true
	}

	compInfo, _, err := r.NextVint()
	if err != nil {
		return nil, err
	}
	fh.CompressionInfo = CompressionInfo(compInfo)
	fh.Stored = fh.CompressionInfo.Method() == 0

	hostOSVal, err := r.NextU8()
	if err != nil {
		return nil, err
	}
	hostOS := OperatingSystem(hostOSVal)
	if err := hostOS.validate(); err != nil {
		return nil, err
	}
	fh.HostOS = hostOS

	nameLen, _, err := r.NextVint()
	if err != nil {
		return nil, err
	}
	nameBytes, err := r.NextBytes(int(nameLen))
	if err != nil {
		return nil, err
	}
	name, err := decodeUTF8(nameBytes)
	if err != nil {
		return nil, err
	}
	fh.Name = name

	if gh.Flags.Has(HeaderFlagExtraArea) && gh.ExtraAreaSize > 0 {
		records, err := parseFileExtraArea(r, gh.ExtraAreaSize)
		if err != nil {
			return nil, err
		}
		fh.ExtraArea = records
	}

	if gh.Flags.Has(HeaderFlagDataArea) {
		fh.DataOffset = r.Position()
		fh.DataSize = gh.DataSize
		fh.HasData = true
		r.Skip(int64(gh.DataSize))
	}

	return fh, nil
}

// Read seeks to fh's recorded data region in src and returns its raw bytes.
// It only succeeds for entries whose declared compression method is
// "stored" (no compression): compressed entries require RAR's proprietary
// decompressor, which this package does not implement, and return an
// UnsupportedCompressionError.
func (fh *FileHeader) Read(src ByteSource) ([]byte, error) {
	if !fh.HasData {
		return nil, nil
	}
	if !fh.Stored {
		return nil, &UnsupportedCompressionError{Method: uint16(fh.CompressionInfo.Method())}
	}

	buf := make([]byte, fh.DataSize)
	n, err := src.ReadAt(buf, fh.DataOffset)
	if err != nil && err != io.EOF {
		return nil, wrapIO(err)
	}
	if uint64(n) < fh.DataSize {
		return nil, wrapIO(io.ErrUnexpectedEOF)
	}
	return buf, nil
}
