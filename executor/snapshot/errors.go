package snapshot

import (
	"errors"
)

var (
	// ErrEmpty means the snapshot file holds no data yet.
	ErrEmpty = errors.New("snapshot is empty")
	// ErrDecompress means the stored bytes could not be decompressed.
	ErrDecompress = errors.New("snapshot decompression failed")
	// ErrDecode means the decompressed bytes are not a valid encoding.
	ErrDecode = errors.New("snapshot decode failed")
)

// Error reports a failed read of a snapshot file. errors.Is matches it against
// its Kind.
type Error struct {
	Kind error
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Path + ": " + e.Kind.Error()
	}
	return e.Path + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}
