package rarchive

// Archive signatures. The modern (5.0+) signature is 8 bytes; the legacy
// (1.5-4.x) signature is 7 bytes and shares its first six bytes with the
// modern one, differing at the seventh (0x00 versus 0x01).
var (
	SignatureModern = []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}
	SignatureLegacy = []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00}
)

// Format identifies which archive generation a signature matched.
type Format int

const (
	FormatUnknown Format = iota
	FormatModern
	FormatLegacy
)

// detectFormat scans r for a recognized signature starting at its current
// position, leaving the read position just past the matched signature bytes.
// RAR archives may be prefixed with up to a 512-byte self-extracting stub;
// FindSignature's forward scan handles that transparently.
func detectFormat(r *BufferedReader) (Format, error) {
	matched, err := r.FindSignature([][]byte{SignatureModern, SignatureLegacy})
	if err != nil {
		return FormatUnknown, err
	}
	if _, err := r.NextBytes(len(matched)); err != nil {
		return FormatUnknown, err
	}
	if equalBytes(matched, SignatureModern) {
		return FormatModern, nil
	}
	return FormatLegacy, nil
}
