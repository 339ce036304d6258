// Package quotick is an embedded store for time-stamped ticks. Each asset
// lives in its own directory; its ticks are partitioned into epochs, each an
// append-only data file plus an ordered index from tick time to the tick's
// location in that file.
//
// A store is not safe for concurrent use, and at most one store may be open
// over an asset directory at a time.
package quotick

import (
	"github.com/pkg/errors"

	"github.com/sigset/quotick/catalog"
	"github.com/sigset/quotick/executor"
	"github.com/sigset/quotick/utils/log"
	"github.com/sigset/quotick/utils/models"
)

type Quotick[T models.Tick] struct {
	layout *catalog.Layout
	bridge *executor.Bridge[T]
}

// Open opens the store for asset under basePath, creating its directories
// when they do not exist yet.
func Open[T models.Tick](asset, basePath string, opts ...Option) (*Quotick[T], error) {
	layout, err := catalog.NewLayout(basePath, asset)
	if err != nil {
		return nil, err
	}
	if err := layout.Init(); err != nil {
		return nil, err
	}

	o := executor.DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	bridge, err := executor.NewBridge[T](layout, o)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", layout.AssetPath())
	}

	log.Info("opened %s (%d epochs)", layout.AssetPath(), len(bridge.EpochIDs()))
	return &Quotick[T]{
		layout: layout,
		bridge: bridge,
	}, nil
}

func (q *Quotick[T]) Asset() string {
	return q.layout.Asset()
}

func (q *Quotick[T]) Layout() *catalog.Layout {
	return q.layout
}

// Insert stores frame in the epoch derived from its tick.
func (q *Quotick[T]) Insert(frame *executor.Frame[T]) error {
	return q.bridge.Insert(frame)
}

// InsertTick stores tick at its own time.
func (q *Quotick[T]) InsertTick(tick T) error {
	return q.bridge.Insert(executor.NewFrame(tick))
}

// Persist writes the hot epoch's frame index and the epoch index.
func (q *Quotick[T]) Persist() error {
	return q.bridge.Persist()
}

// Epochs returns the ids of the epochs holding frames, ascending.
func (q *Quotick[T]) Epochs() []uint64 {
	return q.bridge.EpochIDs()
}

// WithEpoch calls fn with epoch id. Epochs other than the one currently
// receiving inserts reflect their last persisted state.
func (q *Quotick[T]) WithEpoch(id uint64, fn func(*executor.Epoch[T]) error) error {
	return q.bridge.WithEpoch(id, fn)
}

// Oldest returns the earliest stored frame, or nil when the store is empty.
func (q *Quotick[T]) Oldest() (*executor.Frame[T], error) {
	return q.firstOf(q.bridge.EpochIDs(), func(e *executor.Epoch[T]) (*executor.Frame[T], error) {
		return e.Oldest()
	})
}

// Newest returns the latest stored frame, or nil when the store is empty.
func (q *Quotick[T]) Newest() (*executor.Frame[T], error) {
	ids := q.bridge.EpochIDs()
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return q.firstOf(ids, func(e *executor.Epoch[T]) (*executor.Frame[T], error) {
		return e.Newest()
	})
}

// firstOf returns the first non-nil frame pick yields over the epochs in ids.
func (q *Quotick[T]) firstOf(ids []uint64, pick func(*executor.Epoch[T]) (*executor.Frame[T], error)) (*executor.Frame[T], error) {
	for _, id := range ids {
		var frame *executor.Frame[T]
		err := q.bridge.WithEpoch(id, func(e *executor.Epoch[T]) (err error) {
			frame, err = pick(e)
			return err
		})
		if err != nil {
			return nil, err
		}
		if frame != nil {
			return frame, nil
		}
	}
	return nil, nil
}

// Scan calls fn with every stored frame in time order until fn returns false.
// Inserts made from fn fail with executor.ErrEpochBorrowed while the epoch
// receiving inserts is being scanned.
func (q *Quotick[T]) Scan(fn func(*executor.Frame[T]) bool) error {
	return q.scan(func(e *executor.Epoch[T], emit func(*executor.Frame[T]) bool) error {
		return e.Ascend(emit)
	}, fn)
}

// Range calls fn with every frame whose time is in [from, to), in time order,
// until fn returns false.
func (q *Quotick[T]) Range(from, to uint64, fn func(*executor.Frame[T]) bool) error {
	if from >= to {
		return nil
	}
	return q.scan(func(e *executor.Epoch[T], emit func(*executor.Frame[T]) bool) error {
		return e.Range(from, to, emit)
	}, fn)
}

func (q *Quotick[T]) scan(
	walk func(*executor.Epoch[T], func(*executor.Frame[T]) bool) error,
	fn func(*executor.Frame[T]) bool,
) error {
	it := q.bridge.Epochs()
	defer it.Close()

	stopped := false
	emit := func(f *executor.Frame[T]) bool {
		if !fn(f) {
			stopped = true
		}
		return !stopped
	}
	for !stopped && it.Next() {
		if err := walk(it.Epoch(), emit); err != nil {
			return err
		}
	}
	if err := it.Err(); err != nil {
		return err
	}
	return it.Close()
}

// Close persists all pending index changes and releases every open file.
func (q *Quotick[T]) Close() error {
	err := q.bridge.Close()
	if err != nil {
		log.Error("closing %s: %v", q.layout.AssetPath(), err)
		return err
	}
	log.Info("closed %s", q.layout.AssetPath())
	return nil
}
