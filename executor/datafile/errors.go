package datafile

import (
	"fmt"
)

type ShortReadError string

func (msg ShortReadError) Error() string {
	return errReport("%s: Unexpectedly short read", string(msg))
}

// ErrOffsetOverflow is returned by Append once the file has grown past the
// range addressable by a packed extent.
type ErrOffsetOverflow string

func (msg ErrOffsetOverflow) Error() string {
	return errReport("%s: Data file exceeds the 48-bit extent offset range", string(msg))
}

func errReport(base string, msg string) string {
	return fmt.Sprintf(base, msg)
}
