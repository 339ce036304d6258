package snapshot_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigset/quotick/executor/snapshot"
)

var codecs = map[string]snapshot.Compressor{
	"none":   snapshot.None,
	"flate":  snapshot.Flate{Level: 3},
	"snappy": snapshot.Snappy,
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for name, codec := range codecs {
		codec := codec
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "epochs.qti")
			s, err := snapshot.Open(path, codec, false)
			require.NoError(t, err)

			in := []uint64{1, 2, 3, 1 << 40}
			require.NoError(t, s.WriteAll(in))
			require.NoError(t, s.Close())

			s, err = snapshot.Open(path, codec, false)
			require.NoError(t, err)
			defer s.Close()

			var out []uint64
			require.NoError(t, s.TryRead(&out))
			assert.Equal(t, in, out)
		})
	}
}

func TestShorterSnapshotTruncatesFile(t *testing.T) {
	t.Parallel()

	for name, codec := range codecs {
		codec := codec
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "0.qti")
			s, err := snapshot.Open(path, codec, true)
			require.NoError(t, err)
			defer s.Close()

			long := make([]uint64, 4096)
			for i := range long {
				long[i] = uint64(i) * 7919
			}
			require.NoError(t, s.WriteAll(long))
			longSize := fileSize(t, path)

			short := []uint64{42}
			require.NoError(t, s.WriteAll(short))
			assert.Less(t, fileSize(t, path), longSize)

			var out []uint64
			require.NoError(t, s.TryRead(&out))
			assert.Equal(t, short, out)
		})
	}
}

func TestEmptySnapshot(t *testing.T) {
	t.Parallel()

	s, err := snapshot.Open(filepath.Join(t.TempDir(), "new.qti"), snapshot.Flate{Level: 3}, false)
	require.NoError(t, err)
	defer s.Close()

	var out []uint64
	err = s.TryRead(&out)
	assert.True(t, errors.Is(err, snapshot.ErrEmpty))
	assert.False(t, errors.Is(err, snapshot.ErrDecode))
}

func TestDecompressAndDecodeErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	corrupt := filepath.Join(dir, "corrupt.qti")
	require.NoError(t, os.WriteFile(corrupt, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, 0o600))
	s, err := snapshot.Open(corrupt, snapshot.Snappy, false)
	require.NoError(t, err)
	var out []uint64
	err = s.TryRead(&out)
	assert.True(t, errors.Is(err, snapshot.ErrDecompress))
	assert.False(t, errors.Is(err, snapshot.ErrDecode))
	require.NoError(t, s.Close())

	garbage := filepath.Join(dir, "garbage.qti")
	require.NoError(t, os.WriteFile(garbage, []byte{0xc1}, 0o600))
	s, err = snapshot.Open(garbage, snapshot.None, false)
	require.NoError(t, err)
	err = s.TryRead(&out)
	assert.True(t, errors.Is(err, snapshot.ErrDecode))
	assert.False(t, errors.Is(err, snapshot.ErrDecompress))

	var serr *snapshot.Error
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, garbage, serr.Path)
	require.NoError(t, s.Close())
}

func TestCompressorByName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"none", "flate", "snappy"} {
		c, err := snapshot.CompressorByName(name, 5)
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}

	c, err := snapshot.CompressorByName("", 0)
	require.NoError(t, err)
	assert.Equal(t, snapshot.None, c)

	_, err = snapshot.CompressorByName("lz4", 0)
	assert.Error(t, err)
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	fi, err := os.Stat(path)
	require.NoError(t, err)
	return fi.Size()
}
