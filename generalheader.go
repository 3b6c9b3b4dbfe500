package rarchive

// HeaderType discriminates the kind of header a GeneralHeader introduces
// (modern format only; the legacy format uses its own type enum, see
// legacy.go).
type HeaderType uint64

const (
	HeaderTypeMainArchive      HeaderType = 1
	HeaderTypeFile             HeaderType = 2
	HeaderTypeService          HeaderType = 3
	HeaderTypeArchiveEncrypted HeaderType = 4
	HeaderTypeEndOfArchive     HeaderType = 5
)

func (t HeaderType) validate() error {
	switch t {
	case HeaderTypeMainArchive, HeaderTypeFile, HeaderTypeService,
		HeaderTypeArchiveEncrypted, HeaderTypeEndOfArchive:
		return nil
	default:
		return &InvalidDiscriminantError{Kind: "header-type", Value: uint64(t)}
	}
}

// GeneralHeader is the fixed prefix shared by every modern-format header.
type GeneralHeader struct {
	CRC32         uint32
	Size          uint64
	Type          HeaderType
	Flags         HeaderFlags
	ExtraAreaSize uint64
	DataSize      uint64

	// bodyStart is the absolute position immediately after the Size field,
	// from which Size counts. It lets a caller that does not otherwise
	// parse a header's body (Service, ArchiveEncryption) skip straight to
	// the next header.
	bodyStart int64
}

// HeaderEnd returns the absolute position one past the end of the header
// this GeneralHeader introduces (not including its data area, if any).
func (g *GeneralHeader) HeaderEnd() int64 { return g.bodyStart + int64(g.Size) }

// parseGeneralHeader reads a GeneralHeader from r: crc32(u32), size(vint),
// type(vint), flags(vint), then an extra-area size and/or data size vint
// depending on which HeaderFlags bits are set.
func parseGeneralHeader(r *BufferedReader) (*GeneralHeader, error) {
	crc, err := r.NextU32()
	if err != nil {
		return nil, err
	}
	size, _, err := r.NextVint()
	if err != nil {
		return nil, err
	}
	bodyStart := r.Position()
	typeVal, _, err := r.NextVint()
	if err != nil {
		return nil, err
	}
	typ := HeaderType(typeVal)
	if err := typ.validate(); err != nil {
		return nil, err
	}
	flagsVal, _, err := r.NextVint()
	if err != nil {
		return nil, err
	}
	flags := HeaderFlags(flagsVal)
	if err := flags.validate(); err != nil {
		return nil, err
	}

	gh := &GeneralHeader{CRC32: crc, Size: size, Type: typ, Flags: flags, bodyStart: bodyStart}

	if flags.Has(HeaderFlagExtraArea) {
		v, _, err := r.NextVint()
		if err != nil {
			return nil, err
		}
		gh.ExtraAreaSize = v
	}
	if flags.Has(HeaderFlagDataArea) {
		v, _, err := r.NextVint()
		if err != nil {
			return nil, err
		}
		gh.DataSize = v
	}
	return gh, nil
}
