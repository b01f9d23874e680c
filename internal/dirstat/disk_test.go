package dirstat

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubUsage(t *testing.T, fn func(ctx context.Context, path string) (*disk.UsageStat, error)) {
	t.Helper()

	original := usageWithContext
	usageWithContext = fn

	t.Cleanup(func() { usageWithContext = original })
}

func TestGetDiskUsage(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		stubUsage(t, func(_ context.Context, path string) (*disk.UsageStat, error) {
			return &disk.UsageStat{Path: path, Total: 1000, Used: 600, Free: 400}, nil
		})

		usage, err := GetDiskUsage(context.Background(), "/data")
		require.NoError(t, err)
		assert.Equal(t, DiskUsage{Path: "/data", TotalBytes: 1000, UsedBytes: 600, FreeBytes: 400}, usage)
	})

	t.Run("failure", func(t *testing.T) {
		cause := errors.New("no such volume")
		stubUsage(t, func(context.Context, string) (*disk.UsageStat, error) {
			return nil, cause
		})

		_, err := GetDiskUsage(context.Background(), "Z:/")

		var accessErr *FilesystemAccessError
		require.ErrorAs(t, err, &accessErr)
		assert.Equal(t, "Z:/", accessErr.Path)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("host", func(t *testing.T) {
		usage, err := GetDiskUsage(context.Background(), t.TempDir())
		if err != nil {
			t.Skipf("disk usage unavailable: %v", err)
		}

		assert.Positive(t, usage.TotalBytes)
		assert.LessOrEqual(t, usage.UsedBytes, usage.TotalBytes)
	})
}
