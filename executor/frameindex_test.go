package executor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigset/quotick/executor"
	"github.com/sigset/quotick/utils/io"
)

func TestFrameIndexOrder(t *testing.T) {
	t.Parallel()

	x := executor.NewFrameIndex()
	_, _, ok := x.Min()
	assert.False(t, ok)

	for _, ts := range []uint64{30, 10, 50, 20, 40} {
		x.Insert(ts, ts*100)
	}
	assert.Equal(t, 5, x.Len())

	v, ok := x.Get(20)
	assert.True(t, ok)
	assert.Equal(t, uint64(2000), v)
	assert.False(t, x.Has(25))

	ts, v, ok := x.Min()
	assert.True(t, ok)
	assert.Equal(t, uint64(10), ts)
	assert.Equal(t, uint64(1000), v)

	ts, _, ok = x.Max()
	assert.True(t, ok)
	assert.Equal(t, uint64(50), ts)

	var asc, desc, rng []uint64
	x.Ascend(func(ts, _ uint64) bool { asc = append(asc, ts); return true })
	x.Descend(func(ts, _ uint64) bool { desc = append(desc, ts); return true })
	x.AscendRange(20, 50, func(ts, _ uint64) bool { rng = append(rng, ts); return true })
	assert.Equal(t, []uint64{10, 20, 30, 40, 50}, asc)
	assert.Equal(t, []uint64{50, 40, 30, 20, 10}, desc)
	assert.Equal(t, []uint64{20, 30, 40}, rng)

	var first []uint64
	x.Ascend(func(ts, _ uint64) bool { first = append(first, ts); return len(first) < 2 })
	assert.Equal(t, []uint64{10, 20}, first)
}

func TestFrameIndexCodec(t *testing.T) {
	t.Parallel()

	x := executor.NewFrameIndex()
	for i := uint64(0); i < 1000; i++ {
		x.Insert(i*3+1, io.Extent{Offset: i * 17, Size: 17}.Pack())
	}

	buf, err := io.Marshal(x)
	require.NoError(t, err)

	y := executor.NewFrameIndex()
	require.NoError(t, io.Unmarshal(buf, y))
	require.Equal(t, x.Len(), y.Len())

	type kv struct{ k, v uint64 }
	var want, got []kv
	x.Ascend(func(k, v uint64) bool { want = append(want, kv{k, v}); return true })
	y.Ascend(func(k, v uint64) bool { got = append(got, kv{k, v}); return true })
	assert.Equal(t, want, got)
}

func TestFrameIndexCodecRejectsOddLength(t *testing.T) {
	t.Parallel()

	buf, err := io.Marshal([]uint64{1, 2, 3})
	require.NoError(t, err)
	assert.Error(t, io.Unmarshal(buf, executor.NewFrameIndex()))

	buf, err = io.Marshal([]uint64{1, 2, 1, 3})
	require.NoError(t, err)
	assert.Error(t, io.Unmarshal(buf, executor.NewFrameIndex()))
}
