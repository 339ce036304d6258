package executor

import (
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// EpochIndex is the sorted set of epoch ids that hold at least one frame.
type EpochIndex struct {
	ids []uint64
}

func NewEpochIndex() *EpochIndex {
	return &EpochIndex{}
}

func (x *EpochIndex) search(id uint64) int {
	return sort.Search(len(x.ids), func(i int) bool { return x.ids[i] >= id })
}

// Insert adds id, keeping the set sorted. It reports whether id was new.
func (x *EpochIndex) Insert(id uint64) bool {
	pos := x.search(id)
	if pos < len(x.ids) && x.ids[pos] == id {
		return false
	}
	x.ids = append(x.ids, 0)
	copy(x.ids[pos+1:], x.ids[pos:])
	x.ids[pos] = id
	return true
}

func (x *EpochIndex) Contains(id uint64) bool {
	pos := x.search(id)
	return pos < len(x.ids) && x.ids[pos] == id
}

// IDs returns a copy of the ids in ascending order.
func (x *EpochIndex) IDs() []uint64 {
	out := make([]uint64, len(x.ids))
	copy(out, x.ids)
	return out
}

func (x *EpochIndex) Len() int {
	return len(x.ids)
}

func (x *EpochIndex) First() (uint64, bool) {
	if len(x.ids) == 0 {
		return 0, false
	}
	return x.ids[0], true
}

func (x *EpochIndex) Last() (uint64, bool) {
	if len(x.ids) == 0 {
		return 0, false
	}
	return x.ids[len(x.ids)-1], true
}

func (x *EpochIndex) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(x.ids)
}

// DecodeMsgpack restores the set sorted and without duplicates.
func (x *EpochIndex) DecodeMsgpack(dec *msgpack.Decoder) error {
	var ids []uint64
	if err := dec.Decode(&ids); err != nil {
		return err
	}
	x.ids = x.ids[:0]
	for _, id := range ids {
		x.Insert(id)
	}
	return nil
}
