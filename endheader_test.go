package rarchive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEndHeader(t *testing.T) {
	body := encodeVint(uint64(EndFlagVolumeNotLast))
	gh := &GeneralHeader{Type: HeaderTypeEndOfArchive}

	r, err := NewBufferedReader(NewSliceByteSource(body))
	require.NoError(t, err)

	eh, err := parseEndHeader(r, gh)
	require.NoError(t, err)
	require.True(t, eh.EndFlags.Has(EndFlagVolumeNotLast))
}

func TestParseEndHeaderInvalidFlag(t *testing.T) {
	body := encodeVint(uint64(1) << 4)
	gh := &GeneralHeader{Type: HeaderTypeEndOfArchive}

	r, err := NewBufferedReader(NewSliceByteSource(body))
	require.NoError(t, err)

	_, err = parseEndHeader(r, gh)
	require.Error(t, err)
}
