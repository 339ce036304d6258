package datafile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigset/quotick/executor/datafile"
)

func TestAppendAndRead(t *testing.T) {
	t.Parallel()

	f, err := datafile.Open(filepath.Join(t.TempDir(), "0.qtf"), false)
	require.NoError(t, err)
	defer f.Close()

	off, n, err := f.Append([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), off)
	assert.Equal(t, uint64(5), n)

	off, n, err = f.Append([]byte(", world"))
	require.NoError(t, err)
	assert.Equal(t, uint64(5), off)
	assert.Equal(t, uint64(7), n)
	assert.Equal(t, uint64(12), f.Size())

	buf, err := f.ReadAt(5, 7)
	require.NoError(t, err)
	assert.Equal(t, []byte(", world"), buf)

	buf, err = f.ReadAt(0, 12)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello, world"), buf)
}

func TestShortRead(t *testing.T) {
	t.Parallel()

	f, err := datafile.Open(filepath.Join(t.TempDir(), "0.qtf"), false)
	require.NoError(t, err)
	defer f.Close()

	_, _, err = f.Append([]byte("abc"))
	require.NoError(t, err)

	_, err = f.ReadAt(1, 10)
	var sre datafile.ShortReadError
	assert.True(t, errors.As(err, &sre))
}

func TestWriteAtAndSetLen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "0.qtf")
	f, err := datafile.Open(path, true)
	require.NoError(t, err)

	_, _, err = f.Append([]byte("aaaaaaaa"))
	require.NoError(t, err)
	require.NoError(t, f.WriteAt([]byte("bb"), 2))
	require.NoError(t, f.WriteAt([]byte("cc"), 10))
	assert.Equal(t, uint64(12), f.Size())

	buf, err := f.ReadAt(0, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte("aabbaaaa"), buf)

	require.NoError(t, f.SetLen(4))
	assert.Equal(t, uint64(4), f.Size())

	off, _, err := f.Append([]byte("z"))
	require.NoError(t, err)
	assert.Equal(t, uint64(4), off)

	require.NoError(t, f.Truncate())
	assert.Equal(t, uint64(0), f.Size())
	require.NoError(t, f.Close())

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fi.Size())
}

func TestReopenKeepsSize(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "0.qtf")
	f, err := datafile.Open(path, false)
	require.NoError(t, err)
	_, _, err = f.Append(make([]byte, 100))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = datafile.Open(path, false)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, uint64(100), f.Size())
	assert.Equal(t, path, f.Path())

	off, _, err := f.Append([]byte{1})
	require.NoError(t, err)
	assert.Equal(t, uint64(100), off)
}

func TestOpenFailure(t *testing.T) {
	t.Parallel()

	_, err := datafile.Open(filepath.Join(t.TempDir(), "missing", "0.qtf"), false)
	assert.Error(t, err)
}
