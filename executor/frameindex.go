package executor

import (
	"fmt"

	"github.com/google/btree"
	"github.com/vmihailenco/msgpack/v5"
)

type frameEntry struct {
	time   uint64
	extent uint64
}

func frameEntryLess(a, b frameEntry) bool {
	return a.time < b.time
}

// FrameIndex maps frame times to packed extents in ascending time order.
// Insert does not check for duplicates; Epoch enforces uniqueness.
type FrameIndex struct {
	tree *btree.BTreeG[frameEntry]
}

const frameIndexDegree = 32

func NewFrameIndex() *FrameIndex {
	return &FrameIndex{
		tree: btree.NewG[frameEntry](frameIndexDegree, frameEntryLess),
	}
}

func (x *FrameIndex) Get(time uint64) (uint64, bool) {
	e, ok := x.tree.Get(frameEntry{time: time})
	return e.extent, ok
}

func (x *FrameIndex) Has(time uint64) bool {
	return x.tree.Has(frameEntry{time: time})
}

func (x *FrameIndex) Insert(time, extent uint64) {
	x.tree.ReplaceOrInsert(frameEntry{time: time, extent: extent})
}

func (x *FrameIndex) Len() int {
	return x.tree.Len()
}

func (x *FrameIndex) Min() (time, extent uint64, ok bool) {
	e, ok := x.tree.Min()
	return e.time, e.extent, ok
}

func (x *FrameIndex) Max() (time, extent uint64, ok bool) {
	e, ok := x.tree.Max()
	return e.time, e.extent, ok
}

// Ascend calls fn for every entry in ascending time order until fn returns false.
func (x *FrameIndex) Ascend(fn func(time, extent uint64) bool) {
	x.tree.Ascend(func(e frameEntry) bool {
		return fn(e.time, e.extent)
	})
}

// Descend calls fn for every entry in descending time order until fn returns false.
func (x *FrameIndex) Descend(fn func(time, extent uint64) bool) {
	x.tree.Descend(func(e frameEntry) bool {
		return fn(e.time, e.extent)
	})
}

// AscendRange iterates over entries with from <= time < to.
func (x *FrameIndex) AscendRange(from, to uint64, fn func(time, extent uint64) bool) {
	x.tree.AscendRange(frameEntry{time: from}, frameEntry{time: to}, func(e frameEntry) bool {
		return fn(e.time, e.extent)
	})
}

// EncodeMsgpack writes the index as a flat [t0, x0, t1, x1, ...] array.
func (x *FrameIndex) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(2 * x.tree.Len()); err != nil {
		return err
	}
	var err error
	x.tree.Ascend(func(e frameEntry) bool {
		if err = enc.EncodeUint(e.time); err != nil {
			return false
		}
		err = enc.EncodeUint(e.extent)
		return err == nil
	})
	return err
}

func (x *FrameIndex) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	x.tree = btree.NewG[frameEntry](frameIndexDegree, frameEntryLess)
	if n <= 0 {
		return nil
	}
	if n%2 != 0 {
		return fmt.Errorf("frame index: odd array length %d", n)
	}
	for i := 0; i < n; i += 2 {
		t, err := dec.DecodeUint64()
		if err != nil {
			return err
		}
		v, err := dec.DecodeUint64()
		if err != nil {
			return err
		}
		if _, dup := x.tree.ReplaceOrInsert(frameEntry{time: t, extent: v}); dup {
			return fmt.Errorf("frame index: duplicate time %d", t)
		}
	}
	return nil
}
