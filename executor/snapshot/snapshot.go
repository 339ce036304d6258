// Package snapshot persists one in-memory structure as the whole content of a
// file. Every write replaces the previous snapshot.
package snapshot

import (
	stdio "io"
	"os"

	"github.com/pkg/errors"

	"github.com/sigset/quotick/utils/io"
)

type Store struct {
	fp         *os.File
	path       string
	codec      Compressor
	syncWrites bool
}

// Open opens the snapshot file at path, creating it when absent. A nil codec
// stores snapshots uncompressed.
func Open(path string, codec Compressor, syncWrites bool) (*Store, error) {
	fp, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, errors.Wrapf(err, "open snapshot %s", path)
	}
	if codec == nil {
		codec = None
	}
	return &Store{
		fp:         fp,
		path:       path,
		codec:      codec,
		syncWrites: syncWrites,
	}, nil
}

func (s *Store) Path() string {
	return s.path
}

// TryRead decodes the current snapshot into v. A file that was never written
// returns ErrEmpty, which callers treat as a fresh structure.
func (s *Store) TryRead(v interface{}) error {
	if _, err := s.fp.Seek(0, stdio.SeekStart); err != nil {
		return errors.Wrapf(err, "seek snapshot %s", s.path)
	}
	buf, err := stdio.ReadAll(s.fp)
	if err != nil {
		return errors.Wrapf(err, "read snapshot %s", s.path)
	}
	if len(buf) == 0 {
		return &Error{Kind: ErrEmpty, Path: s.path}
	}

	raw, err := s.codec.Decompress(buf)
	if err != nil {
		return &Error{Kind: ErrDecompress, Path: s.path, Err: err}
	}
	if err := io.Unmarshal(raw, v); err != nil {
		return &Error{Kind: ErrDecode, Path: s.path, Err: err}
	}
	return nil
}

// WriteAll replaces the snapshot with the encoding of v. The file is truncated
// to the new length after the write so that no bytes of a longer previous
// snapshot survive.
func (s *Store) WriteAll(v interface{}) error {
	raw, err := io.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode snapshot %s", s.path)
	}
	buf, err := s.codec.Compress(raw)
	if err != nil {
		return errors.Wrapf(err, "compress snapshot %s", s.path)
	}

	if _, err := s.fp.WriteAt(buf, 0); err != nil {
		return errors.Wrapf(err, "write snapshot %s", s.path)
	}
	if err := s.fp.Truncate(int64(len(buf))); err != nil {
		return errors.Wrapf(err, "truncate snapshot %s", s.path)
	}
	if s.syncWrites {
		return errors.Wrapf(s.fp.Sync(), "sync snapshot %s", s.path)
	}
	return nil
}

func (s *Store) Close() error {
	return s.fp.Close()
}
