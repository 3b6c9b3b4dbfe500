package rarchive

// MainHeader is the first header of a modern-format archive, carrying
// archive-wide flags.
type MainHeader struct {
	General       GeneralHeader
	ArchiveFlags  ArchiveFlags
	VolumeNumber  uint64
	HasVolumeNum  bool
	ExtraArea     []byte
}

// parseMainHeader reads a MainHeader's body, assuming its GeneralHeader has
// already been parsed.
func parseMainHeader(r *BufferedReader, gh *GeneralHeader) (*MainHeader, error) {
	flagsVal, _, err := r.NextVint()
	if err != nil {
		return nil, err
	}
	flags := ArchiveFlags(flagsVal)
	if err := flags.validate(); err != nil {
		return nil, err
	}

	mh := &MainHeader{General: *gh, ArchiveFlags: flags}

	if flags.Has(ArchiveFlagVolumeNumber) {
		v, _, err := r.NextVint()
		if err != nil {
			return nil, err
		}
		mh.VolumeNumber = v
		mh.HasVolumeNum = true
	}

	if gh.Flags.Has(HeaderFlagExtraArea) && gh.ExtraAreaSize > 0 {
		extra, err := r.NextBytes(int(gh.ExtraAreaSize))
		if err != nil {
			return nil, err
		}
		mh.ExtraArea = extra
	}
	return mh, nil
}
