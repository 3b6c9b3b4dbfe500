package rarchive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMainHeaderVolumeNumber(t *testing.T) {
	flagsBody := append(encodeVint(uint64(ArchiveFlagVolume|ArchiveFlagVolumeNumber)), encodeVint(7)...)
	gh := &GeneralHeader{Type: HeaderTypeMainArchive}

	r, err := NewBufferedReader(NewSliceByteSource(flagsBody))
	require.NoError(t, err)

	mh, err := parseMainHeader(r, gh)
	require.NoError(t, err)
	require.True(t, mh.ArchiveFlags.Has(ArchiveFlagVolume))
	require.True(t, mh.HasVolumeNum)
	require.Equal(t, uint64(7), mh.VolumeNumber)
}

func TestParseMainHeaderNoVolumeNumber(t *testing.T) {
	flagsBody := encodeVint(uint64(ArchiveFlagSolid))
	gh := &GeneralHeader{Type: HeaderTypeMainArchive}

	r, err := NewBufferedReader(NewSliceByteSource(flagsBody))
	require.NoError(t, err)

	mh, err := parseMainHeader(r, gh)
	require.NoError(t, err)
	require.False(t, mh.HasVolumeNum)
	require.True(t, mh.ArchiveFlags.Has(ArchiveFlagSolid))
}

func TestParseMainHeaderInvalidFlag(t *testing.T) {
	// 0x40 has no bit among ArchiveFlagVolume..ArchiveFlagLocked (bits 0-4)
	// set, matching the spec's InvalidBitFlag{name="Archive", flag=0x40}
	// scenario exactly.
	flagsBody := encodeVint(0x40)
	gh := &GeneralHeader{Type: HeaderTypeMainArchive}

	r, err := NewBufferedReader(NewSliceByteSource(flagsBody))
	require.NoError(t, err)

	_, err = parseMainHeader(r, gh)
	require.Error(t, err)
	var flagErr *InvalidBitFlagError
	require.ErrorAs(t, err, &flagErr)
	require.Equal(t, "Archive", flagErr.Name)
	require.Equal(t, uint64(0x40), flagErr.Flag)
}
