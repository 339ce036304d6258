package executor

import (
	"errors"
	"time"

	"go.uber.org/multierr"

	"github.com/sigset/quotick/catalog"
	"github.com/sigset/quotick/executor/datafile"
	"github.com/sigset/quotick/executor/snapshot"
	"github.com/sigset/quotick/metrics"
	"github.com/sigset/quotick/utils/io"
	"github.com/sigset/quotick/utils/log"
	"github.com/sigset/quotick/utils/models"
)

// Epoch is one time bucket of an asset: a data file holding encoded ticks and
// a frame index mapping each tick's time to its extent in that file.
//
// The frame index lives in memory and is only written back by Persist (or
// Close). Frames appended after the last Persist are still in the data file
// after a crash, but the reopened index will not know about them; the index
// is never rebuilt from the data file.
type Epoch[T models.Tick] struct {
	id         uint64
	data       *datafile.File
	indexStore *snapshot.Store
	index      *FrameIndex
	dirty      bool
	closed     bool
}

// OpenEpoch opens or creates the files of epoch id. An index snapshot that is
// missing or unreadable yields an empty index.
func OpenEpoch[T models.Tick](id uint64, layout *catalog.Layout, opts Options) (*Epoch[T], error) {
	data, err := datafile.Open(layout.DataFile(id), opts.SyncWrites)
	if err != nil {
		return nil, epochErr(ErrBackingFileFailure, id, 0, err)
	}

	indexStore, err := snapshot.Open(layout.IndexFile(id), opts.Compressor, opts.SyncWrites)
	if err != nil {
		_ = data.Close()
		return nil, epochErr(ErrBackingFileFailure, id, 0, err)
	}

	index := NewFrameIndex()
	if err := indexStore.TryRead(index); err != nil {
		if !errors.Is(err, snapshot.ErrEmpty) {
			log.Warn("epoch %d: frame index unreadable, starting empty: %v", id, err)
		}
		index = NewFrameIndex()
	}

	return &Epoch[T]{
		id:         id,
		data:       data,
		indexStore: indexStore,
		index:      index,
	}, nil
}

func (e *Epoch[T]) ID() uint64 {
	return e.id
}

// Dirty reports whether the frame index changed since it was last persisted.
func (e *Epoch[T]) Dirty() bool {
	return e.dirty
}

// Len is the number of frames in the index.
func (e *Epoch[T]) Len() int {
	return e.index.Len()
}

// DataSize is the size of the data file in bytes.
func (e *Epoch[T]) DataSize() uint64 {
	return e.data.Size()
}

// Index exposes the frame index for read-only use.
func (e *Epoch[T]) Index() *FrameIndex {
	return e.index
}

// Insert appends the frame's tick to the data file and indexes it. Frames are
// never overwritten: a second frame at the same time returns ErrFrameConflict.
func (e *Epoch[T]) Insert(frame *Frame[T]) error {
	if e.closed {
		return ErrClosed
	}
	if frame == nil {
		return epochErr(ErrFrameEmpty, e.id, 0, nil)
	}

	t := frame.Time
	if e.index.Has(t) {
		metrics.FrameRejections.WithLabelValues("conflict").Inc()
		return epochErr(ErrFrameConflict, e.id, t, nil)
	}
	if frame.Value == nil {
		metrics.FrameRejections.WithLabelValues("empty").Inc()
		return epochErr(ErrFrameEmpty, e.id, t, nil)
	}

	buf, err := io.Marshal(*frame.Value)
	if err != nil {
		return epochErr(ErrWriteFailure, e.id, t, err)
	}

	before := e.data.Size()
	offset, size, err := e.data.Append(buf)
	if err != nil {
		var overflow datafile.ErrOffsetOverflow
		if errors.As(err, &overflow) {
			return epochErr(ErrExtentOverflow, e.id, t, err)
		}
		return epochErr(ErrWriteFailure, e.id, t, multierr.Append(err, e.rollback(before)))
	}

	if size > io.MaxExtentSize {
		log.Warn("epoch %d: frame at %d is %d bytes, rolling back", e.id, t, size)
		metrics.FrameRejections.WithLabelValues("too_big").Inc()
		if err := e.data.SetLen(e.data.Size() - size); err != nil {
			return epochErr(ErrWriteFailure, e.id, t, err)
		}
		return epochErr(ErrFrameTooBig, e.id, t, nil)
	}

	extent, err := io.NewExtent(offset, size)
	if err != nil {
		return epochErr(ErrExtentOverflow, e.id, t, multierr.Append(err, e.rollback(before)))
	}

	e.index.Insert(t, extent.Pack())
	e.dirty = true
	metrics.FramesInserted.Inc()

	return nil
}

// rollback drops anything a failed append left past size.
func (e *Epoch[T]) rollback(size uint64) error {
	if e.data.Size() == size {
		return nil
	}
	return e.data.SetLen(size)
}

// Read loads the frame stored at the packed extent.
func (e *Epoch[T]) Read(ts, packed uint64) (*Frame[T], error) {
	extent := io.UnpackExtent(packed)

	buf, err := e.data.ReadAt(extent.Offset, uint64(extent.Size))
	if err != nil {
		return nil, epochErr(ErrReadFailure, e.id, ts, err)
	}

	var tick T
	if err := io.Unmarshal(buf, &tick); err != nil {
		return nil, epochErr(ErrDecodeFailure, e.id, ts, err)
	}

	return &Frame[T]{Time: ts, Value: &tick}, nil
}

// Get returns the frame at ts, or nil when the epoch holds none.
func (e *Epoch[T]) Get(ts uint64) (*Frame[T], error) {
	packed, ok := e.index.Get(ts)
	if !ok {
		return nil, nil
	}
	return e.Read(ts, packed)
}

// Oldest returns the earliest frame, or nil for an empty epoch.
func (e *Epoch[T]) Oldest() (*Frame[T], error) {
	t, packed, ok := e.index.Min()
	if !ok {
		return nil, nil
	}
	return e.Read(t, packed)
}

// Newest returns the latest frame, or nil for an empty epoch.
func (e *Epoch[T]) Newest() (*Frame[T], error) {
	t, packed, ok := e.index.Max()
	if !ok {
		return nil, nil
	}
	return e.Read(t, packed)
}

// Ascend calls fn with every frame in time order until fn returns false.
func (e *Epoch[T]) Ascend(fn func(*Frame[T]) bool) error {
	var err error
	e.index.Ascend(func(t, packed uint64) bool {
		var f *Frame[T]
		if f, err = e.Read(t, packed); err != nil {
			return false
		}
		return fn(f)
	})
	return err
}

// Range calls fn with every frame whose time is in [from, to) until fn returns false.
func (e *Epoch[T]) Range(from, to uint64, fn func(*Frame[T]) bool) error {
	var err error
	e.index.AscendRange(from, to, func(t, packed uint64) bool {
		var f *Frame[T]
		if f, err = e.Read(t, packed); err != nil {
			return false
		}
		return fn(f)
	})
	return err
}

// Persist writes the frame index snapshot if it changed.
func (e *Epoch[T]) Persist() error {
	if e.closed {
		return ErrClosed
	}
	if !e.dirty {
		return nil
	}

	start := time.Now()
	if err := e.indexStore.WriteAll(e.index); err != nil {
		return epochErr(ErrIndexFailure, e.id, 0, err)
	}
	metrics.SnapshotWriteDuration.Observe(time.Since(start).Seconds())

	e.dirty = false
	return nil
}

// Close persists the frame index and releases both files. The files are
// released even when the persist fails; its error is logged and returned.
func (e *Epoch[T]) Close() error {
	if e.closed {
		return nil
	}

	err := e.Persist()
	if err != nil {
		log.Error("epoch %d: failed to persist frame index on close: %v", e.id, err)
	}
	return multierr.Append(err, e.release())
}

// release closes both files without persisting the frame index.
func (e *Epoch[T]) release() error {
	if e.closed {
		return nil
	}
	e.closed = true
	return multierr.Combine(e.data.Close(), e.indexStore.Close())
}
