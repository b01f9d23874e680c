package dirstat

import (
	"context"

	"github.com/shirou/gopsutil/v3/disk"
)

// DiskUsage describes space on the volume holding a path.
type DiskUsage struct {
	// Path is the path the usage was queried for.
	Path string `json:"path"`
	// TotalBytes is the capacity of the volume.
	TotalBytes uint64 `json:"total_bytes"`
	// UsedBytes is the space in use.
	UsedBytes uint64 `json:"used_bytes"`
	// FreeBytes is the space available.
	FreeBytes uint64 `json:"free_bytes"`
}

var usageWithContext = disk.UsageWithContext

// GetDiskUsage returns the usage of the volume holding path.
func GetDiskUsage(ctx context.Context, path string) (DiskUsage, error) {
	stat, err := usageWithContext(ctx, path)
	if err != nil {
		return DiskUsage{}, accessError(path, err)
	}

	return DiskUsage{
		Path:       path,
		TotalBytes: stat.Total,
		UsedBytes:  stat.Used,
		FreeBytes:  stat.Free,
	}, nil
}
