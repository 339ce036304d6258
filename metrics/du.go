package metrics

import (
	"os"
	"path/filepath"
	"syscall"

	"github.com/sigset/quotick/utils/log"
)

// DiskUsage returns the bytes actually allocated on disk under path. Data files
// shrunk by a rollback or extended by truncate are sparse, so the apparent size
// overstates usage.
func DiskUsage(path string) int64 {
	var totalSize int64
	err := filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		stat, ok := info.Sys().(*syscall.Stat_t)
		if !ok {
			log.Warn("failed to get Stat_t for %s, falling back to apparent size", filePath)
			totalSize += info.Size()
			return nil
		}
		// st_blocks is always in 512-byte units
		totalSize += stat.Blocks * 512
		return nil
	})
	if err != nil {
		log.Error("get the disk usage of %s: %v", path, err)
	}
	return totalSize
}
