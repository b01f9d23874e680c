package dirstat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Run performs a single analysis of opt.Path and returns aggregated statistics.
// It reports the disk usage of the volume, ranks the immediate child
// directories by recursive size and ranks file extensions across the subtree.
//
// The scan can be cancelled via ctx. Progress updates are sent to progressHook
// if provided.
func Run(ctx context.Context, opt Options, log *zap.Logger, progressHook func(int64, int64)) (*Stats, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if opt.Path == "" {
		opt.Path = "."
	}

	opt.Path = filepath.Clean(opt.Path)

	// validate path exists and is accessible
	if statInfo, err := os.Stat(opt.Path); err != nil {
		return nil, &FilesystemAccessError{Path: opt.Path, Err: err}
	} else if !statInfo.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", opt.Path)
	}

	progress := &Progress{}
	scanner := NewScanner(WithLogger(log), WithWorkers(opt.Workers), WithProgress(progress))

	// Create child context to ensure progress reporter cleanup
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	StartProgressReporter(ctx, progress, progressHook, opt.ProgressInterval)

	start := time.Now()

	usage, err := GetDiskUsage(ctx, opt.Path)
	if err != nil {
		return nil, err
	}

	log.Debug("sizing directories", zap.String("path", opt.Path), zap.Int("workers", scanner.workers))

	dirs, err := scanner.DirectorySizes(ctx, opt.Path)
	if err != nil {
		return nil, err
	}

	progress.Reset()

	log.Debug("collecting extensions", zap.String("path", opt.Path))

	exts := scanner.Extensions(ctx, opt.Path)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := &Stats{
		Root:           opt.Path,
		Disk:           usage,
		Directories:    dirs,
		TopDirectories: Rank(dirs, opt.TopDirs),
		TopExtensions:  Rank(exts, opt.TopExts),
		ErrorCount:     progress.Errors(),
	}

	for _, dir := range dirs {
		stats.DirectoryBytes += dir.SizeBytes
	}

	for _, ext := range exts {
		stats.TotalBytes += ext.SizeBytes
		stats.FileCount += int64(ext.Files)
	}

	stats.Elapsed = time.Since(start)

	log.Debug("scan finished",
		zap.String("path", opt.Path),
		zap.Int64("files", stats.FileCount),
		zap.Int64("errors", stats.ErrorCount),
		zap.Duration("elapsed", stats.Elapsed),
	)

	return stats, nil
}
