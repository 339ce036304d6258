package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrBackingFileFailure means a data file or index snapshot could not be opened.
	ErrBackingFileFailure = errors.New("backing file failure")
	// ErrFrameConflict means a frame with the same time is already stored in the epoch.
	ErrFrameConflict = errors.New("frame conflict")
	// ErrFrameTooBig means the encoded tick does not fit in an extent. The data
	// file is rolled back before this is returned.
	ErrFrameTooBig = errors.New("frame too big")
	// ErrFrameEmpty means the frame carries no tick.
	ErrFrameEmpty = errors.New("frame empty")
	// ErrExtentOverflow means the data file has outgrown the 48-bit offset range.
	ErrExtentOverflow = errors.New("extent offset overflow")
	// ErrWriteFailure means encoding or appending a tick failed.
	ErrWriteFailure = errors.New("write failure")
	// ErrReadFailure means reading a tick from the data file failed.
	ErrReadFailure = errors.New("read failure")
	// ErrDecodeFailure means the bytes read for a tick do not decode.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrIndexFailure means writing an index snapshot failed.
	ErrIndexFailure = errors.New("index snapshot failure")
	// ErrBadFrameEpoch means no epoch can be derived from the frame.
	ErrBadFrameEpoch = errors.New("bad frame epoch")
	// ErrBadFrameShard means routing succeeded but no hot epoch is bound.
	ErrBadFrameShard = errors.New("bad frame shard")
	// ErrEpochBorrowed means an EpochIter or WithEpoch callback is using the hot
	// epoch, so it can be neither written to nor swapped out.
	ErrEpochBorrowed = errors.New("hot epoch is borrowed")
	// ErrClosed means the epoch or bridge was already closed.
	ErrClosed = errors.New("closed")
)

// EpochError carries the epoch and frame time an error relates to. errors.Is
// matches it against its Kind; the underlying cause is available via Unwrap.
type EpochError struct {
	Kind  error
	Epoch uint64
	Time  uint64
	Err   error
}

func (e *EpochError) Error() string {
	msg := fmt.Sprintf("epoch %d: time %d: %s", e.Epoch, e.Time, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EpochError) Is(target error) bool {
	return e.Kind == target
}

func (e *EpochError) Unwrap() error {
	return e.Err
}

func epochErr(kind error, epoch, time uint64, err error) error {
	return &EpochError{Kind: kind, Epoch: epoch, Time: time, Err: err}
}
