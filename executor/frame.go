package executor

import (
	"github.com/sigset/quotick/utils/models"
)

// Frame pairs a timestamp with an optional tick. A frame without a value is a
// tombstone and is never stored.
type Frame[T models.Tick] struct {
	Time  uint64
	Value *T
}

// NewFrame wraps tick, taking the frame time from the tick itself.
func NewFrame[T models.Tick](tick T) *Frame[T] {
	return &Frame[T]{
		Time:  tick.Time(),
		Value: &tick,
	}
}

// EmptyFrame returns a tombstone at time.
func EmptyFrame[T models.Tick](time uint64) *Frame[T] {
	return &Frame[T]{Time: time}
}

func (f *Frame[T]) Empty() bool {
	return f == nil || f.Value == nil
}

// Epoch derives the frame's epoch from its tick. Tombstones have no epoch.
func (f *Frame[T]) Epoch() (uint64, bool) {
	if f.Empty() {
		return 0, false
	}
	return (*f.Value).Epoch(), true
}
