package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var namespace = "sigset"
var subsystem = "quotick"

var (
	// FramesInserted counts frames committed to an epoch data file and index
	FramesInserted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "frames_inserted_total",
		Help:      "Number of frames committed to an epoch",
	})

	// FrameRejections counts frames rejected by an epoch, partitioned by reason
	FrameRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "frame_rejections_total",
		Help:      "Number of frames rejected by an epoch",
	}, []string{"reason"})

	// EpochLoads counts epochs opened by the bridge as the hot epoch
	EpochLoads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "epoch_loads_total",
		Help:      "Number of times an epoch was loaded as the hot epoch",
	})

	// SnapshotWriteDuration stores the time taken by each index snapshot write
	SnapshotWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "snapshot_write_duration_seconds",
		Help:      "Time taken to write an index snapshot",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
)
