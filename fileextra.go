package rarchive

// FileExtraRecordType discriminates the records found in a FileHeader's
// extra area.
type FileExtraRecordType uint64

const (
	FileExtraRecordTypeCRC32        FileExtraRecordType = 1
	FileExtraRecordTypeHash         FileExtraRecordType = 2
	FileExtraRecordTypeTime         FileExtraRecordType = 3
	FileExtraRecordTypeVersion      FileExtraRecordType = 4
	FileExtraRecordTypeRedirection  FileExtraRecordType = 5
	FileExtraRecordTypeUnixOwner    FileExtraRecordType = 6
	FileExtraRecordTypeService      FileExtraRecordType = 7
)

// FileExtraRecord is one TLV-framed record of a FileHeader's extra area.
// Only the Time record (type 3) is decoded into structured fields; every
// other known or unknown type is preserved as raw bytes so a caller can
// inspect it without the package needing to understand every record type
// RAR5 defines.
type FileExtraRecord struct {
	Type FileExtraRecordType
	Time *FileTimeRecord
	Raw  []byte
}

// FileTimeRecord holds the decoded timestamps of a Time (type 3) extra-area
// record. Each field is present independently, gated on its own flag bit,
// not on a single shared condition, so that, unlike a documented issue in
// some reference implementations, the modification, creation, and
// last-access timestamps never alias one another.
type FileTimeRecord struct {
	Flags            FileTimeFlags
	Modification     int64
	HasModification  bool
	Creation         int64
	HasCreation      bool
	LastAccess       int64
	HasLastAccess    bool
}

// windowsFiletimeToUnix converts a Windows FILETIME tick count (100ns units
// since 1601-01-01) to Unix seconds.
func windowsFiletimeToUnix(ticks uint64) int64 {
	const ticksPerSecond = 10_000_000
	const epochDiffSeconds = 11_644_473_600
	return int64(ticks/ticksPerSecond) - epochDiffSeconds
}

// parseFileExtraArea reads totalSize bytes as a sequence of TLV records:
// (record_size vint, record_type vint, record_bytes), where record_size
// counts bytes from record_type onward.
func parseFileExtraArea(r *BufferedReader, totalSize uint64) ([]FileExtraRecord, error) {
	end := r.Position() + int64(totalSize)
	var records []FileExtraRecord
	for r.Position() < end {
		recSize, _, err := r.NextVint()
		if err != nil {
			return nil, err
		}
		recStart := r.Position()
		recTypeVal, typeLen, err := r.NextVint()
		if err != nil {
			return nil, err
		}
		recType := FileExtraRecordType(recTypeVal)
		remaining := int64(recSize) - int64(typeLen)
		if remaining < 0 {
			remaining = 0
		}
		body, err := r.NextBytes(int(remaining))
		if err != nil {
			return nil, err
		}

		rec := FileExtraRecord{Type: recType, Raw: body}
		if recType == FileExtraRecordTypeTime {
			timeRec, err := parseFileTimeRecord(body)
			if err != nil {
				return nil, err
			}
			rec.Time = timeRec
		}
		records = append(records, rec)

		// Guard against a zero-length record stalling the loop.
		if r.Position() <= recStart {
			break
		}
	}
	return records, nil
}

// parseFileTimeRecord decodes a Time extra-area record body using an
// in-memory BufferedReader over its bytes, since the body has already been
// extracted from the main stream.
func parseFileTimeRecord(body []byte) (*FileTimeRecord, error) {
	br, err := NewBufferedReaderSize(NewSliceByteSource(body), len(body)+1)
	if err != nil {
		return nil, err
	}

	flagsVal, _, err := br.NextVint()
	if err != nil {
		return nil, err
	}
	flags := FileTimeFlags(flagsVal)
	if err := flags.validate(); err != nil {
		return nil, err
	}

	tr := &FileTimeRecord{Flags: flags}
	unixFormat := flags.Has(FileTimeFlagUnixFormat)
	nanoSuffix := flags.Has(FileTimeFlagUnixNanoSuffix)

	readOne := func() (int64, error) {
		if unixFormat {
			v, err := br.NextU32()
			if err != nil {
				return 0, err
			}
			return int64(v), nil
		}
		v, err := br.NextU64()
		if err != nil {
			return 0, err
		}
		return windowsFiletimeToUnix(v), nil
	}

	if flags.Has(FileTimeFlagModification) {
		v, err := readOne()
		if err != nil {
			return nil, err
		}
		if unixFormat && nanoSuffix {
			if _, err := br.NextU32(); err != nil {
				return nil, err
			}
		}
		tr.Modification = v
		tr.HasModification = true
	}
	if flags.Has(FileTimeFlagCreation) {
		v, err := readOne()
		if err != nil {
			return nil, err
		}
		if unixFormat && nanoSuffix {
			if _, err := br.NextU32(); err != nil {
				return nil, err
			}
		}
		tr.Creation = v
		tr.HasCreation = true
	}
	if flags.Has(FileTimeFlagLastAccess) {
		v, err := readOne()
		if err != nil {
			return nil, err
		}
		if unixFormat && nanoSuffix {
			if _, err := br.NextU32(); err != nil {
				return nil, err
			}
		}
		tr.LastAccess = v
		tr.HasLastAccess = true
	}

	return tr, nil
}
