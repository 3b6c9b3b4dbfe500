package rarchive

import (
	"io"

	"github.com/go-logr/logr"
	"github.com/javi11/rarchive/internal/rlog"
)

// Archive is the parsed header tree of one RAR container, modern or legacy.
// Exactly one of Modern or Legacy is non-nil.
type Archive struct {
	Modern *ModernArchive
	Legacy *LegacyArchive
}

// ModernArchive holds the parsed headers of a 5.0+ format archive.
type ModernArchive struct {
	Main      MainHeader
	Files     []FileHeader
	End       EndHeader
	Encrypted bool
}

// Files returns the archive's file entries regardless of format.
func (a *Archive) Files() []FileHeader {
	if a.Modern != nil {
		return a.Modern.Files
	}
	if a.Legacy != nil {
		return a.Legacy.Files
	}
	return nil
}

// HeaderEncrypted reports whether the archive's headers themselves are
// password protected (a modern ArchiveEncryption header was present).
func (a *Archive) HeaderEncrypted() bool {
	return a.Modern != nil && a.Modern.Encrypted
}

// ArchiveInfo is the summary returned by Archive.Info.
type ArchiveInfo struct {
	// Multivolume reports whether the archive-flags Volume bit was set
	// (modern). It is always false for legacy archives, whose archive
	// header flags are not decoded. Volume continuation itself is not
	// followed; see
	// DiscoverVolumes for locating sibling volumes.
	Multivolume bool
	// EntryCount is the number of FileHeader entries parsed, where
	// derivable.
	EntryCount int
	// Comment is the archive comment, populated only for the ZIP
	// companion parser (see zip.Directory.Info); RAR carries no
	// archive-level comment in the data model this package decodes.
	Comment string
}

// Info summarizes the archive: whether it is part of a multi-volume set and
// how many file entries it carries.
func (a *Archive) Info() ArchiveInfo {
	if a.Modern != nil {
		return ArchiveInfo{
			Multivolume: a.Modern.Main.ArchiveFlags.Has(ArchiveFlagVolume),
			EntryCount:  len(a.Modern.Files),
		}
	}
	if a.Legacy != nil {
		return ArchiveInfo{EntryCount: len(a.Legacy.Files)}
	}
	return ArchiveInfo{}
}

// OpenOption configures Open.
type OpenOption func(*openOptions)

type openOptions struct {
	windowSize int
	log        rlog.Logger
}

// WithWindowSize overrides the BufferedReader's default sliding-window size.
func WithWindowSize(n int) OpenOption {
	return func(o *openOptions) { o.windowSize = n }
}

// WithLogger attaches a logger; by default all logging is discarded.
func WithLogger(l logr.Logger) OpenOption {
	return func(o *openOptions) { o.log = rlog.New(l) }
}

// Open parses the full header tree from src. It dispatches on each
// GeneralHeader's Type: MainArchive and File headers are parsed and
// recorded, End headers terminate the loop successfully, Service and
// ArchiveEncryption headers are skipped structurally (their data area, if
// any, is skipped without being read or recorded), matching the package's
// no-payload-read contract.
func Open(src ByteSource, opts ...OpenOption) (*Archive, error) {
	o := openOptions{windowSize: DefaultWindowSize, log: rlog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	r, err := NewBufferedReaderSize(src, o.windowSize)
	if err != nil {
		return nil, err
	}

	format, err := detectFormat(r)
	if err != nil {
		return nil, err
	}
	o.log.Debug("detected archive format", "format", format)

	if format == FormatLegacy {
		legacy, err := parseLegacyArchive(r, o.log)
		if err != nil {
			return nil, err
		}
		return &Archive{Legacy: legacy}, nil
	}

	return parseModernArchive(r, o.log)
}

func parseModernArchive(r *BufferedReader, log rlog.Logger) (*Archive, error) {
	modern := &ModernArchive{}
	haveMain := false
	haveEnd := false

	for {
		if r.Position() >= r.Size() {
			break
		}
		gh, err := parseGeneralHeader(r)
		if err != nil {
			if err == io.ErrUnexpectedEOF {
				break
			}
			return nil, err
		}

		switch gh.Type {
		case HeaderTypeMainArchive:
			mh, err := parseMainHeader(r, gh)
			if err != nil {
				return nil, err
			}
			modern.Main = *mh
			haveMain = true
			log.Debug("parsed main header", "flags", mh.ArchiveFlags)

		case HeaderTypeFile:
			if !haveMain {
				return nil, ErrMissingMainHeader
			}
			fh, err := parseFileHeader(r, gh)
			if err != nil {
				return nil, err
			}
			modern.Files = append(modern.Files, *fh)
			log.Debug("parsed file header", "name", fh.Name, "size", fh.UnpackedSize)

		case HeaderTypeEndOfArchive:
			eh, err := parseEndHeader(r, gh)
			if err != nil {
				return nil, err
			}
			modern.End = *eh
			haveEnd = true
			log.Debug("parsed end header")

		case HeaderTypeService, HeaderTypeArchiveEncrypted:
			if gh.Type == HeaderTypeService && !haveMain {
				return nil, ErrMissingMainHeader
			}
			if gh.Type == HeaderTypeArchiveEncrypted {
				modern.Encrypted = true
			}
			// Skip structurally: seek past whatever header body remains,
			// then past the data area if one is declared.
			r.SeekTo(gh.HeaderEnd())
			if gh.Flags.Has(HeaderFlagDataArea) {
				log.Debug("skipping header data area", "type", gh.Type, "size", gh.DataSize)
				r.Skip(int64(gh.DataSize))
			}
		}

		if haveEnd {
			break
		}
	}

	if !haveMain {
		return nil, ErrMissingMainHeader
	}
	if !haveEnd {
		return nil, ErrMissingEndHeader
	}

	return &Archive{Modern: modern}, nil
}
