package quotick_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigset/quotick"
	"github.com/sigset/quotick/catalog"
	"github.com/sigset/quotick/executor"
	"github.com/sigset/quotick/executor/snapshot"
	"github.com/sigset/quotick/utils"
	"github.com/sigset/quotick/utils/io"
	"github.com/sigset/quotick/utils/models"
	"github.com/sigset/quotick/utils/test"
)

func blob(ts uint64, payload string) test.Blob {
	return test.Blob{Timestamp: ts, Data: []byte(payload)}
}

func TestPersistAndReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	q, err := quotick.Open[test.Blob]("AAPL", dir)
	require.NoError(t, err)

	require.NoError(t, q.InsertTick(blob(10, "A")))
	require.NoError(t, q.InsertTick(blob(11, "B")))
	require.NoError(t, q.Insert(executor.NewFrame(blob(12, "C"))))
	require.NoError(t, q.Persist())
	require.NoError(t, q.Close())

	q, err = quotick.Open[test.Blob]("AAPL", dir)
	require.NoError(t, err)
	defer q.Close()

	oldest, err := q.Oldest()
	require.NoError(t, err)
	require.NotNil(t, oldest)
	assert.Equal(t, uint64(10), oldest.Time)
	assert.Equal(t, []byte("A"), oldest.Value.Data)

	newest, err := q.Newest()
	require.NoError(t, err)
	require.NotNil(t, newest)
	assert.Equal(t, uint64(12), newest.Time)
	assert.Equal(t, []byte("C"), newest.Value.Data)

	assert.Equal(t, []uint64{0}, q.Epochs())
	assert.Equal(t, "AAPL", q.Asset())
}

func TestEmptyStore(t *testing.T) {
	t.Parallel()

	q, err := quotick.Open[models.Trade]("AAPL", t.TempDir())
	require.NoError(t, err)
	defer q.Close()

	oldest, err := q.Oldest()
	assert.NoError(t, err)
	assert.Nil(t, oldest)

	newest, err := q.Newest()
	assert.NoError(t, err)
	assert.Nil(t, newest)

	assert.Empty(t, q.Epochs())
	assert.NoError(t, q.Scan(func(*executor.Frame[models.Trade]) bool {
		t.Fatal("unexpected frame")
		return false
	}))
}

func TestCrossEpoch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	q, err := quotick.Open[test.Blob]("BTC", dir)
	require.NoError(t, err)

	require.NoError(t, q.InsertTick(blob(100_000_000, "late")))
	require.NoError(t, q.InsertTick(blob(5, "early")))
	assert.Equal(t, []uint64{0, 1}, q.Epochs())

	oldest, err := q.Oldest()
	require.NoError(t, err)
	assert.Equal(t, []byte("early"), oldest.Value.Data)

	newest, err := q.Newest()
	require.NoError(t, err)
	assert.Equal(t, []byte("late"), newest.Value.Data)
	require.NoError(t, q.Close())

	q, err = quotick.Open[test.Blob]("BTC", dir)
	require.NoError(t, err)
	defer q.Close()
	assert.Equal(t, []uint64{0, 1}, q.Epochs())

	// each epoch's data file holds exactly its own record
	want := map[uint64]test.Blob{0: blob(5, "early"), 1: blob(100_000_000, "late")}
	for id, b := range want {
		enc, err := io.Marshal(b)
		require.NoError(t, err)

		require.NoError(t, q.WithEpoch(id, func(e *executor.Epoch[test.Blob]) error {
			assert.Equal(t, 1, e.Len())
			assert.Equal(t, uint64(len(enc)), e.DataSize())

			f, err := e.Get(b.Timestamp)
			require.NoError(t, err)
			require.NotNil(t, f)
			assert.Equal(t, b.Data, f.Value.Data)
			return nil
		}))
	}
}

func TestScanRefusesInsertsIntoScannedEpoch(t *testing.T) {
	t.Parallel()

	q, err := quotick.Open[test.Blob]("ETH", t.TempDir())
	require.NoError(t, err)
	defer q.Close()

	for ts := uint64(1); ts <= 3; ts++ {
		require.NoError(t, q.InsertTick(blob(ts, "x")))
	}

	var seen []uint64
	require.NoError(t, q.Scan(func(f *executor.Frame[test.Blob]) bool {
		seen = append(seen, f.Time)
		assert.True(t, errors.Is(q.InsertTick(blob(f.Time+100_000_000, "y")), executor.ErrEpochBorrowed))
		assert.True(t, errors.Is(q.InsertTick(blob(f.Time+10, "y")), executor.ErrEpochBorrowed))
		return true
	}))
	assert.Equal(t, []uint64{1, 2, 3}, seen)

	require.NoError(t, q.InsertTick(blob(100_000_001, "y")))
	assert.Equal(t, []uint64{0, 1}, q.Epochs())
}

func TestScanAndRange(t *testing.T) {
	t.Parallel()

	q, err := quotick.Open[models.Trade]("SPY", t.TempDir())
	require.NoError(t, err)
	defer q.Close()

	// three days of trades, one every hour
	const hour = 3_600_000_000
	trades := test.Trades(0, hour, 72)
	for i := len(trades) - 1; i >= 0; i-- {
		require.NoError(t, q.InsertTick(trades[i]))
	}
	assert.Equal(t, []uint64{0, 1, 2}, q.Epochs())

	var scanned []models.Trade
	require.NoError(t, q.Scan(func(f *executor.Frame[models.Trade]) bool {
		scanned = append(scanned, *f.Value)
		return true
	}))
	assert.Equal(t, trades, scanned)

	n := 0
	require.NoError(t, q.Scan(func(*executor.Frame[models.Trade]) bool {
		n++
		return n < 30
	}))
	assert.Equal(t, 30, n)

	tests := map[string]struct {
		from, to uint64
		want     []models.Trade
	}{
		"within one epoch":   {from: 2 * hour, to: 5 * hour, want: trades[2:5]},
		"across epochs":      {from: 20 * hour, to: 50 * hour, want: trades[20:50]},
		"everything":         {from: 0, to: 1 << 63, want: trades},
		"empty interval":     {from: 5 * hour, to: 5 * hour, want: nil},
		"inverted interval":  {from: 9 * hour, to: 3 * hour, want: nil},
		"past the last tick": {from: 100 * hour, to: 200 * hour, want: nil},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			var got []models.Trade
			require.NoError(t, q.Range(tt.from, tt.to, func(f *executor.Frame[models.Trade]) bool {
				got = append(got, *f.Value)
				return true
			}))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInsertErrors(t *testing.T) {
	t.Parallel()

	q, err := quotick.Open[test.Blob]("ETH", t.TempDir())
	require.NoError(t, err)
	defer q.Close()

	require.NoError(t, q.InsertTick(blob(1, "x")))
	assert.True(t, errors.Is(q.InsertTick(blob(1, "y")), executor.ErrFrameConflict))
	assert.True(t, errors.Is(q.InsertTick(test.NewBlob(2, 80_000, 'z')), executor.ErrFrameTooBig))
	assert.True(t, errors.Is(q.Insert(executor.EmptyFrame[test.Blob](3)), executor.ErrBadFrameEpoch))

	n := 0
	require.NoError(t, q.Scan(func(*executor.Frame[test.Blob]) bool { n++; return true }))
	assert.Equal(t, 1, n)
}

func TestInvalidAsset(t *testing.T) {
	t.Parallel()

	for _, asset := range []string{"", ".", "..", "a/b"} {
		_, err := quotick.Open[test.Blob](asset, t.TempDir())
		var invalid catalog.InvalidAssetName
		assert.True(t, errors.As(err, &invalid), asset)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := utils.NewDefaultConfig(t.TempDir())
	cfg.SnapshotCompression = "snappy"
	cfg.SyncWrites = true

	opts, err := quotick.OptionsFromConfig(cfg)
	require.NoError(t, err)

	q, err := quotick.Open[models.Quote]("EURUSD", cfg.RootDirectory, opts...)
	require.NoError(t, err)
	require.NoError(t, q.InsertTick(models.Quote{Timestamp: 1, Size: 1, AskPrice: 1.1, BidPrice: 1.0}))
	require.NoError(t, q.Close())

	// reading the snapshots back with a different codec fails, so they start empty
	q, err = quotick.Open[models.Quote]("EURUSD", cfg.RootDirectory, quotick.WithCompressor(snapshot.None))
	require.NoError(t, err)
	assert.Empty(t, q.Epochs())
	require.NoError(t, q.Close())

	q, err = quotick.Open[models.Quote]("EURUSD", cfg.RootDirectory, opts...)
	require.NoError(t, err)
	defer q.Close()
	assert.Equal(t, []uint64{0}, q.Epochs())

	cfg.SnapshotCompression = "lz4"
	_, err = quotick.OptionsFromConfig(cfg)
	assert.Error(t, err)
}
