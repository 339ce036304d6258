package executor

import (
	"errors"

	"go.uber.org/multierr"

	"github.com/sigset/quotick/catalog"
	"github.com/sigset/quotick/executor/snapshot"
	"github.com/sigset/quotick/metrics"
	"github.com/sigset/quotick/utils/log"
	"github.com/sigset/quotick/utils/models"
)

// Bridge routes frames to the epoch derived from their tick. Exactly one epoch
// is held open ("hot") at a time; switching to another epoch persists the hot
// one first. The bridge also owns the epoch index, the durable list of epochs
// that hold at least one frame.
//
// A Bridge is not safe for concurrent use.
type Bridge[T models.Tick] struct {
	layout *catalog.Layout
	opts   Options

	epochIndexStore *snapshot.Store
	epochIndex      *EpochIndex
	indexDirty      bool

	hot    *Epoch[T]
	lent   int // iterators and WithEpoch calls currently using hot
	closed bool
}

// NewBridge opens the epoch index of the asset described by layout. A missing
// or unreadable epoch index starts empty.
func NewBridge[T models.Tick](layout *catalog.Layout, opts Options) (*Bridge[T], error) {
	store, err := snapshot.Open(layout.EpochIndexFile(), opts.Compressor, opts.SyncWrites)
	if err != nil {
		return nil, epochErr(ErrBackingFileFailure, 0, 0, err)
	}

	index := NewEpochIndex()
	if err := store.TryRead(index); err != nil {
		if !errors.Is(err, snapshot.ErrEmpty) {
			log.Warn("%s: epoch index unreadable, starting empty: %v", layout.Asset(), err)
		}
		index = NewEpochIndex()
	}

	return &Bridge[T]{
		layout:          layout,
		opts:            opts,
		epochIndexStore: store,
		epochIndex:      index,
	}, nil
}

// Insert routes frame to its epoch and stores it there. It fails with
// ErrEpochBorrowed while the hot epoch is being iterated.
func (b *Bridge[T]) Insert(frame *Frame[T]) error {
	if b.closed {
		return ErrClosed
	}
	if b.lent > 0 {
		return ErrEpochBorrowed
	}

	id, ok := frame.Epoch()
	if !ok {
		return ErrBadFrameEpoch
	}

	if b.needsEpochUpdate(id) {
		if err := b.LoadEpoch(id); err != nil {
			return err
		}
	}
	if b.hot == nil {
		return ErrBadFrameShard
	}

	if err := b.hot.Insert(frame); err != nil {
		return err
	}

	if b.epochIndex.Insert(id) {
		b.indexDirty = true
	}
	return nil
}

func (b *Bridge[T]) needsEpochUpdate(id uint64) bool {
	return b.hot == nil || b.hot.ID() != id
}

// LoadEpoch makes epoch id the hot epoch. The current hot epoch is persisted
// before it is released; if that fails it stays hot and the error is returned.
func (b *Bridge[T]) LoadEpoch(id uint64) error {
	if b.closed {
		return ErrClosed
	}
	if b.hot != nil {
		if b.hot.ID() == id {
			return nil
		}
		if b.lent > 0 {
			return ErrEpochBorrowed
		}
		if err := b.hot.Persist(); err != nil {
			return err
		}
		if err := b.hot.Close(); err != nil {
			log.Error("%s: failed to close epoch %d: %v", b.layout.Asset(), b.hot.ID(), err)
		}
		b.hot = nil
	}

	epoch, err := OpenEpoch[T](id, b.layout, b.opts)
	if err != nil {
		return err
	}
	log.Debug("%s: loaded epoch %d (%d frames)", b.layout.Asset(), id, epoch.Len())
	metrics.EpochLoads.Inc()

	b.hot = epoch
	return nil
}

// Hot returns the id of the hot epoch, if any.
func (b *Bridge[T]) Hot() (uint64, bool) {
	if b.hot == nil {
		return 0, false
	}
	return b.hot.ID(), true
}

// EpochIDs returns the ids in the epoch index in ascending order.
func (b *Bridge[T]) EpochIDs() []uint64 {
	return b.epochIndex.IDs()
}

// FirstEpoch and LastEpoch return the lowest and highest indexed epoch ids.
func (b *Bridge[T]) FirstEpoch() (uint64, bool) {
	return b.epochIndex.First()
}

func (b *Bridge[T]) LastEpoch() (uint64, bool) {
	return b.epochIndex.Last()
}

// WithEpoch calls fn with epoch id. The hot epoch is used as-is when it
// matches; any other epoch is opened for the call and closed afterwards, so it
// reflects what was last persisted.
func (b *Bridge[T]) WithEpoch(id uint64, fn func(*Epoch[T]) error) error {
	if b.closed {
		return ErrClosed
	}
	if b.hot != nil && b.hot.ID() == id {
		b.lent++
		defer func() { b.lent-- }()
		return fn(b.hot)
	}

	epoch, err := OpenEpoch[T](id, b.layout, b.opts)
	if err != nil {
		return err
	}
	return multierr.Append(fn(epoch), epoch.Close())
}

// Epochs iterates over the indexed epochs in ascending id order.
func (b *Bridge[T]) Epochs() *EpochIter[T] {
	return &EpochIter[T]{
		bridge: b,
		ids:    b.epochIndex.IDs(),
	}
}

// Persist flushes the hot epoch's frame index and then the epoch index, so an
// epoch id only becomes durable once its frames are.
func (b *Bridge[T]) Persist() error {
	if b.closed {
		return ErrClosed
	}
	if b.hot != nil {
		if err := b.hot.Persist(); err != nil {
			return err
		}
	}
	if !b.indexDirty {
		return nil
	}
	if err := b.epochIndexStore.WriteAll(b.epochIndex); err != nil {
		return epochErr(ErrIndexFailure, 0, 0, err)
	}
	b.indexDirty = false
	return nil
}

// Close persists everything and releases the hot epoch and the epoch index
// file. Files are released even when persisting fails, and the persist is not
// retried.
func (b *Bridge[T]) Close() error {
	if b.closed {
		return nil
	}

	err := b.Persist()
	if err != nil {
		log.Error("%s: failed to persist on close: %v", b.layout.Asset(), err)
	}
	if b.hot != nil {
		err = multierr.Append(err, b.hot.release())
		b.hot = nil
	}
	b.closed = true

	return multierr.Append(err, b.epochIndexStore.Close())
}
