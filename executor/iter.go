package executor

import (
	"github.com/sigset/quotick/utils/models"
)

// EpochIter walks a fixed list of epoch ids, opening each epoch in turn. The
// previous epoch is closed when Next advances, unless it is the bridge's hot
// epoch, which is yielded as-is and left open. While the iterator is on the
// hot epoch the bridge refuses inserts with ErrEpochBorrowed, so an iterator
// must be closed once the caller is done with it.
//
//	it := bridge.Epochs()
//	defer it.Close()
//	for it.Next() {
//		e := it.Epoch()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type EpochIter[T models.Tick] struct {
	bridge   *Bridge[T]
	ids      []uint64
	pos      int
	cur      *Epoch[T]
	borrowed bool
	err      error
}

func (it *EpochIter[T]) Next() bool {
	if it.err != nil {
		return false
	}
	if err := it.release(); err != nil {
		it.err = err
		return false
	}
	if it.pos >= len(it.ids) {
		return false
	}

	id := it.ids[it.pos]
	it.pos++

	if hot := it.bridge.hot; hot != nil && hot.ID() == id {
		it.cur, it.borrowed = hot, true
		it.bridge.lent++
		return true
	}

	epoch, err := OpenEpoch[T](id, it.bridge.layout, it.bridge.opts)
	if err != nil {
		it.err = err
		return false
	}
	it.cur, it.borrowed = epoch, false
	return true
}

// Epoch is the epoch the last successful Next moved to.
func (it *EpochIter[T]) Epoch() *Epoch[T] {
	return it.cur
}

func (it *EpochIter[T]) Err() error {
	return it.err
}

// Close releases the current epoch. It is safe to call more than once.
func (it *EpochIter[T]) Close() error {
	it.pos = len(it.ids)
	return it.release()
}

func (it *EpochIter[T]) release() error {
	cur, borrowed := it.cur, it.borrowed
	it.cur, it.borrowed = nil, false
	if cur == nil {
		return nil
	}
	if borrowed {
		it.bridge.lent--
		return nil
	}
	return cur.Close()
}
