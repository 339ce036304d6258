// Package datafile is the raw byte log behind an epoch. It knows nothing about
// records: callers frame entries themselves with the (offset, length) pairs
// returned by Append.
package datafile

import (
	"io"
	"os"

	"github.com/pkg/errors"

	qio "github.com/sigset/quotick/utils/io"
	"github.com/sigset/quotick/utils/log"
)

// FileLike is the subset of *os.File a File needs.
type FileLike interface {
	io.ReaderAt
	io.WriterAt
	io.Closer
	Stat() (os.FileInfo, error)
	Truncate(size int64) error
	Sync() error
}

// File is a random access file with append semantics. It does not provide any
// concurrency guarantee; a single writer is assumed.
type File struct {
	fp         FileLike
	path       string
	size       uint64
	syncWrites bool
}

// Open opens the file at filePath, creating it when absent.
func Open(filePath string, syncWrites bool) (*File, error) {
	fp, err := os.OpenFile(filePath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "open data file %s", filePath)
	}
	f, err := New(fp, filePath, syncWrites)
	if err != nil {
		_ = fp.Close()
		return nil, err
	}
	return f, nil
}

// New wraps an already open file. The current size is taken from fp.Stat.
func New(fp FileLike, filePath string, syncWrites bool) (*File, error) {
	fi, err := fp.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat data file %s", filePath)
	}
	return &File{
		fp:         fp,
		path:       filePath,
		size:       uint64(fi.Size()),
		syncWrites: syncWrites,
	}, nil
}

func (f *File) Path() string {
	return f.path
}

// Append writes data at the end of the file and returns the offset it was
// written at together with its length.
func (f *File) Append(data []byte) (offset, length uint64, err error) {
	offset = f.size
	if offset > qio.MaxExtentOffset {
		return 0, 0, ErrOffsetOverflow(f.path)
	}
	if err := f.WriteAt(data, offset); err != nil {
		return 0, 0, err
	}
	return offset, uint64(len(data)), nil
}

// WriteAt writes data at position, growing the file when needed.
func (f *File) WriteAt(data []byte, position uint64) error {
	n, err := f.fp.WriteAt(data, int64(position))
	if end := position + uint64(n); end > f.size {
		f.size = end
	}
	if err != nil {
		return errors.Wrapf(err, "write %d bytes at %d in %s", len(data), position, f.path)
	}
	if f.syncWrites {
		return f.Sync()
	}
	return nil
}

// ReadAt reads exactly length bytes starting at offset.
func (f *File) ReadAt(offset, length uint64) ([]byte, error) {
	buf := make([]byte, length)
	n, err := f.fp.ReadAt(buf, int64(offset))
	if uint64(n) != length {
		log.Debug("short read in %s: wanted %d got %d (err=%v)", f.path, length, n, err)
		return nil, ShortReadError(f.path)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "read %d bytes at %d in %s", length, offset, f.path)
	}
	return buf, nil
}

// Size returns the current length of the file in bytes.
func (f *File) Size() uint64 {
	return f.size
}

// SetLen truncates or extends the file to newLen bytes.
func (f *File) SetLen(newLen uint64) error {
	if err := f.fp.Truncate(int64(newLen)); err != nil {
		return errors.Wrapf(err, "set length of %s to %d", f.path, newLen)
	}
	f.size = newLen
	return nil
}

func (f *File) Truncate() error {
	return f.SetLen(0)
}

func (f *File) Sync() error {
	return errors.Wrapf(f.fp.Sync(), "sync %s", f.path)
}

func (f *File) Close() error {
	return f.fp.Close()
}
