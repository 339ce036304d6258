package executor

import (
	"github.com/sigset/quotick/executor/snapshot"
)

// Options configures how epochs and the bridge persist their files.
type Options struct {
	// Compressor is applied to every index snapshot. nil stores them uncompressed.
	Compressor snapshot.Compressor
	// SyncWrites fsyncs data appends and snapshot writes.
	SyncWrites bool
}

func DefaultOptions() Options {
	return Options{
		Compressor: snapshot.Flate{Level: 3},
	}
}
