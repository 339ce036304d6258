// Package test holds fixtures shared by the package tests.
package test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sigset/quotick/catalog"
	"github.com/sigset/quotick/utils/models"
)

// BlobEpochWidth is the epoch width of Blob ticks.
const BlobEpochWidth uint64 = 100_000_000

// Blob is a tick with a payload of arbitrary size.
type Blob struct {
	Timestamp uint64 `msgpack:"t"`
	Data      []byte `msgpack:"d"`
}

func (b Blob) Time() uint64 {
	return b.Timestamp
}

func (b Blob) Epoch() uint64 {
	return models.EpochOf(b.Timestamp, BlobEpochWidth)
}

// NewBlob returns a Blob at ts whose payload is size copies of fill.
func NewBlob(ts uint64, size int, fill byte) Blob {
	data := make([]byte, size)
	for i := range data {
		data[i] = fill
	}
	return Blob{Timestamp: ts, Data: data}
}

// Trades returns n trades spaced step microseconds apart starting at start.
func Trades(start, step uint64, n int) []models.Trade {
	trades := make([]models.Trade, n)
	for i := range trades {
		trades[i] = models.Trade{
			Timestamp: start + uint64(i)*step,
			Size:      uint64(100 + i),
			Price:     100 + float32(i)/4,
		}
	}
	return trades
}

// Layout returns an initialized layout for asset under a fresh temp dir.
func Layout(t *testing.T, asset string) *catalog.Layout {
	t.Helper()
	l, err := catalog.NewLayout(t.TempDir(), asset)
	require.NoError(t, err)
	require.NoError(t, l.Init())
	return l
}
