// Package models holds the record types stored by quotick and the contract
// every stored record satisfies.
package models

// EpochWidth is the width of one epoch in microseconds (one day).
const EpochWidth uint64 = 86_400_000_000

// Tick is a timestamped record. Time is in microseconds since the Unix epoch;
// Epoch derives the id of the shard the record belongs to.
type Tick interface {
	Time() uint64
	Epoch() uint64
}

// EpochOf buckets ts into epochs of the given width.
func EpochOf(ts, width uint64) uint64 {
	return ts / width
}
