package quotick

import (
	"github.com/sigset/quotick/executor"
	"github.com/sigset/quotick/executor/snapshot"
	"github.com/sigset/quotick/utils"
)

// Option customizes how a store persists its files.
type Option func(*executor.Options)

// WithCompressor sets the codec applied to index snapshots.
func WithCompressor(c snapshot.Compressor) Option {
	return func(o *executor.Options) {
		o.Compressor = c
	}
}

// WithSyncWrites fsyncs every data append and snapshot write.
func WithSyncWrites(sync bool) Option {
	return func(o *executor.Options) {
		o.SyncWrites = sync
	}
}

// OptionsFromConfig translates the persistence settings of a parsed config.
func OptionsFromConfig(cfg *utils.QuotickConfig) ([]Option, error) {
	c, err := snapshot.CompressorByName(cfg.SnapshotCompression, cfg.CompressionLevel)
	if err != nil {
		return nil, err
	}
	return []Option{WithCompressor(c), WithSyncWrites(cfg.SyncWrites)}, nil
}
