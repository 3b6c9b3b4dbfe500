package rarchive

import (
	"io"

	"github.com/javi11/rarchive/internal/rlog"
	"github.com/javi11/rarchive/internal/unicode"
)

// LegacyHeaderType discriminates the kind of header a legacy (1.5-4.x)
// archive block introduces. The byte values below are as given explicitly by
// the specification this package implements.
type LegacyHeaderType uint8

const (
	LegacyHeaderTypeMarkBlock        LegacyHeaderType = 0x73
	LegacyHeaderTypeArchive          LegacyHeaderType = 0x74
	LegacyHeaderTypeFile             LegacyHeaderType = 0x75
	LegacyHeaderTypeOldComment       LegacyHeaderType = 0x76
	LegacyHeaderTypeOldAuthInfo      LegacyHeaderType = 0x77
	LegacyHeaderTypeOldSubBlock      LegacyHeaderType = 0x78
	LegacyHeaderTypeOldRecoveryRec   LegacyHeaderType = 0x79
	LegacyHeaderTypeOldAuthInfo2     LegacyHeaderType = 0x7A
	LegacyHeaderTypeSubBlock         LegacyHeaderType = 0x7B
	LegacyHeaderTypeTerminator       LegacyHeaderType = 0x7C
)

func (t LegacyHeaderType) validate() error {
	switch t {
	case LegacyHeaderTypeMarkBlock, LegacyHeaderTypeArchive, LegacyHeaderTypeFile,
		LegacyHeaderTypeOldComment, LegacyHeaderTypeOldAuthInfo, LegacyHeaderTypeOldSubBlock,
		LegacyHeaderTypeOldRecoveryRec, LegacyHeaderTypeOldAuthInfo2, LegacyHeaderTypeSubBlock,
		LegacyHeaderTypeTerminator:
		return nil
	default:
		return &InvalidDiscriminantError{Kind: "legacy-header-type", Value: uint64(t)}
	}
}

// legacyFlagHasAddSize and legacyFlagHighSize are bits within the
// 16-bit legacy header-flags word that are interpreted independently of the
// archive/file flag universe, since their meaning depends on header type.
const (
	legacyFlagHasAddSize uint16 = 0x8000
	legacyFlagHighSize   uint16 = 0x0100
	legacyDictSizeMask   uint16 = 0x00E0 // bits 5-7, File-type only
)

// LegacyDictionarySize is the dictionary-size enum carried in bits 5-7 of a
// File-type legacy header's flags word.
type LegacyDictionarySize uint8

const (
	LegacyDictSize64 LegacyDictionarySize = iota
	LegacyDictSize128
	LegacyDictSize256
	LegacyDictSize512
	LegacyDictSize1024
	LegacyDictSize2048
	LegacyDictSize4096
	LegacyDictDirectory
)

// LegacyGeneralHeader is the fixed prefix of every legacy-format block.
type LegacyGeneralHeader struct {
	CRC16      uint16
	Type       LegacyHeaderType
	Flags      uint16
	HeaderSize uint16
	AddSize    uint32
	HasAddSize bool
	DictSize   LegacyDictionarySize
}

func parseLegacyGeneralHeader(r *BufferedReader) (*LegacyGeneralHeader, error) {
	crc, err := r.NextU16()
	if err != nil {
		return nil, err
	}
	typeByte, err := r.NextU8()
	if err != nil {
		return nil, err
	}
	typ := LegacyHeaderType(typeByte)
	if err := typ.validate(); err != nil {
		return nil, err
	}
	flags, err := r.NextU16()
	if err != nil {
		return nil, err
	}

	lh := &LegacyGeneralHeader{CRC16: crc, Type: typ, Flags: flags}

	if typ == LegacyHeaderTypeFile {
		lh.DictSize = LegacyDictionarySize((flags & legacyDictSizeMask) >> 5)
		lh.Flags &^= legacyDictSizeMask
	}

	headerSize, err := r.NextU16()
	if err != nil {
		return nil, err
	}
	lh.HeaderSize = headerSize

	if flags&legacyFlagHasAddSize != 0 {
		addSize, err := r.NextU32()
		if err != nil {
			return nil, err
		}
		lh.AddSize = addSize
		lh.HasAddSize = true
	}

	return lh, nil
}

// LegacyArchive holds the parsed blocks of a legacy (1.5-4.x) format
// archive.
type LegacyArchive struct {
	Files []FileHeader
}

// parseLegacyArchive reads a sequence of legacy blocks starting at r's
// current position (immediately after the 7-byte legacy signature), until a
// Terminator block or the end of the source is reached.
func parseLegacyArchive(r *BufferedReader, log rlog.Logger) (*LegacyArchive, error) {
	archive := &LegacyArchive{}

	for r.Position() < r.Size() {
		blockStart := r.Position()
		lh, err := parseLegacyGeneralHeader(r)
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				break
			}
			return nil, err
		}

		switch lh.Type {
		case LegacyHeaderTypeTerminator:
			log.Debug("parsed legacy terminator block")
			return archive, nil

		case LegacyHeaderTypeFile, LegacyHeaderTypeSubBlock:
			fh, err := parseLegacyFileHeader(r, lh, blockStart)
			if err != nil {
				return nil, err
			}
			archive.Files = append(archive.Files, *fh)
			log.Debug("parsed legacy file header", "name", fh.Name)

		default:
			// Skip to the end of the declared header, then past any
			// appended data (AddSize), without reading the payload.
			r.SeekTo(blockStart + int64(lh.HeaderSize))
			if lh.HasAddSize {
				r.Skip(int64(lh.AddSize))
			}
		}
	}

	return archive, nil
}

// legacy file header fixed tail: packSize(u32) unpSize(u32) hostOS(u8)
// crc32(u32) fileTime(u32) unpVer(u8) method(u8) nameSize(u16) attr(u32),
// optionally extended by HighSize (two extra u32 words) before the name.
func parseLegacyFileHeader(r *BufferedReader, lh *LegacyGeneralHeader, blockStart int64) (*FileHeader, error) {
	packSize, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	unpSize, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	hostOSByte, err := r.NextU8()
	if err != nil {
		return nil, err
	}
	hostOS := LegacyHostOS(hostOSByte)
	if err := hostOS.validate(); err != nil {
		return nil, err
	}
	dataCRC, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	fileTime, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	if _, err := r.NextU8(); err != nil { // unpacker version, not modeled
		return nil, err
	}
	method, err := r.NextU8()
	if err != nil {
		return nil, err
	}
	nameSize, err := r.NextU16()
	if err != nil {
		return nil, err
	}
	attrs, err := r.NextU32()
	if err != nil {
		return nil, err
	}

	totalPacked := uint64(packSize)
	totalUnpacked := uint64(unpSize)
	if lh.Flags&legacyFlagHighSize != 0 {
		highPack, err := r.NextU32()
		if err != nil {
			return nil, err
		}
		highUnp, err := r.NextU32()
		if err != nil {
			return nil, err
		}
		totalPacked |= uint64(highPack) << 32
		totalUnpacked |= uint64(highUnp) << 32
	}

	nameBytes, err := r.NextBytes(int(nameSize))
	if err != nil {
		return nil, err
	}

	var name string
	if lh.Flags&0x0200 != 0 {
		if split := indexZero(nameBytes); split >= 0 {
			name = unicode.DecodeRar3Unicode(nameBytes[:split], nameBytes[split+1:])
		} else {
			// No separator byte: nothing follows the ASCII skeleton, so
			// there is no overlay to apply.
			name, err = decodeUTF8(nameBytes)
			if err != nil {
				return nil, err
			}
		}
	} else {
		name, err = decodeUTF8(nameBytes)
		if err != nil {
			return nil, err
		}
	}

	const legacyMethodStore = 0x30
	const legacyFlagPassword = 0x0004

	fh := &FileHeader{
		UnpackedSize:    totalUnpacked,
		Attributes:      uint64(attrs),
		ModTime:         uint64(fileTime),
		HasModTime:      true,
		DataCRC32:       dataCRC,
		HasDataCRC32:    true,
		HostOS:          OperatingSystem(hostOS),
		Name:            name,
		CompressionInfo: CompressionInfo(method),
		Stored:          method == legacyMethodStore,
		Encrypted:       lh.Flags&legacyFlagPassword != 0,
	}

	fh.DataOffset = r.Position()
	fh.DataSize = totalPacked
	fh.HasData = true
	r.Skip(int64(totalPacked))

	return fh, nil
}

func indexZero(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return -1
}
