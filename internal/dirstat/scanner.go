package dirstat

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FS is the filesystem boundary used for directory totals.
type FS interface {
	ReadDir(name string) ([]fs.DirEntry, error)
	Stat(name string) (fs.FileInfo, error)
}

type osFS struct{}

func (osFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Scanner computes recursive sizes. Symbolic links below the scanned path are
// never followed, so every walk terminates.
type Scanner struct {
	fsys     FS
	log      *zap.Logger
	workers  int
	progress *Progress
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithFS replaces the host filesystem used by DirectorySize and DirectorySizes.
func WithFS(fsys FS) Option {
	return func(s *Scanner) {
		s.fsys = fsys
	}
}

// WithLogger sets the logger for access failures.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scanner) {
		s.log = log
	}
}

// WithWorkers bounds the number of concurrent walkers. Values <= 0 select the CPU count.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		s.workers = n
	}
}

// WithProgress attaches counters updated as files are visited.
func WithProgress(p *Progress) Option {
	return func(s *Scanner) {
		s.progress = p
	}
}

// NewScanner creates a Scanner over the host filesystem.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		fsys: osFS{},
		log:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.workers <= 0 {
		s.workers = runtime.NumCPU()
	}

	return s
}

// DirectorySize returns the total size of all regular files under path.
//
// When path cannot be listed but is a regular file, its own size is returned.
// Any other failure, at path or below it, aborts the walk and is returned as a
// *FilesystemAccessError naming the path that failed.
func (s *Scanner) DirectorySize(ctx context.Context, path string) (uint64, error) {
	var total uint64

	pending := []string{path}

	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := s.fsys.ReadDir(dir)
		if err != nil {
			size, err := s.singleFileSize(dir, err)
			if err != nil {
				return 0, err
			}

			total += size

			continue
		}

		for _, entry := range entries {
			child := filepath.Join(dir, entry.Name())

			switch {
			case entry.IsDir():
				pending = append(pending, child)
			case entry.Type().IsRegular():
				info, err := entry.Info()
				if err != nil {
					return 0, accessError(child, err)
				}

				s.progress.add(info.Size())

				total += uint64(info.Size()) //nolint:gosec // Regular file sizes are never negative
			}
		}
	}

	return total, nil
}

// singleFileSize treats a path that could not be listed as a single file.
func (s *Scanner) singleFileSize(path string, listErr error) (uint64, error) {
	info, err := s.fsys.Stat(path)
	if err != nil {
		return 0, accessError(path, err)
	}

	switch {
	case info.Mode().IsRegular():
		s.progress.add(info.Size())

		return uint64(info.Size()), nil //nolint:gosec // Regular file sizes are never negative
	case info.IsDir():
		return 0, accessError(path, listErr)
	default:
		return 0, nil
	}
}

// DirectorySizes sizes every immediate child directory of basePath and returns
// them largest first, ties kept in listing order.
//
// Children are sized concurrently. A child that fails is kept with a zero size
// and its error attached; siblings are unaffected. Only a failure to list
// basePath itself is returned.
func (s *Scanner) DirectorySizes(ctx context.Context, basePath string) ([]DirectoryEntrySize, error) {
	entries, err := s.fsys.ReadDir(basePath)
	if err != nil {
		return nil, accessError(basePath, err)
	}

	dirs := make([]DirectoryEntrySize, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, DirectoryEntrySize{Path: filepath.Join(basePath, entry.Name())})
		}
	}

	var group errgroup.Group

	group.SetLimit(s.workers)

	for i := range dirs {
		i := i

		group.Go(func() error {
			size, err := s.DirectorySize(ctx, dirs[i].Path)
			if err != nil {
				s.log.Debug("sizing directory failed", zap.String("path", dirs[i].Path), zap.Error(err))
				s.progress.addError()

				dirs[i].Err = err

				return nil
			}

			dirs[i].SizeBytes = size

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(dirs, func(i, j int) bool {
		return dirs[i].SizeBytes > dirs[j].SizeBytes
	})

	return dirs, nil
}

// ExtensionSizes returns the total size per file extension of every regular
// file under path, or of path itself when it is a file.
//
// Extension totals are best effort: directories that cannot be read are
// skipped and never reported to the caller.
func (s *Scanner) ExtensionSizes(ctx context.Context, path string) map[string]uint64 {
	return s.walkExtensions(ctx, path).bySize()
}

// Extensions is ExtensionSizes with file counts, ordered largest first.
func (s *Scanner) Extensions(ctx context.Context, path string) []ExtensionSize {
	return s.walkExtensions(ctx, path).finalize()
}

func (s *Scanner) walkExtensions(ctx context.Context, path string) *collector {
	collector := newCollector()

	info, err := os.Stat(path)
	if err != nil {
		s.log.Debug("accessing path failed", zap.String("path", path), zap.Error(err))
		s.progress.addError()

		return collector
	}

	if info.Mode().IsRegular() {
		s.progress.add(info.Size())
		collector.add(filepath.Ext(path), info.Size())

		return collector
	}

	if !info.IsDir() {
		return collector
	}

	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: s.workers,
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Debug("walking path failed", zap.String("path", p), zap.Error(err))
			s.progress.addError()

			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			s.log.Debug("reading file info failed", zap.String("path", p), zap.Error(err))
			s.progress.addError()

			return nil //nolint:nilerr // Extension totals are best effort
		}

		s.progress.add(fileInfo.Size())
		collector.add(filepath.Ext(p), fileInfo.Size())

		return nil
	})
	if walkErr != nil {
		s.log.Debug("walk stopped", zap.String("path", path), zap.Error(walkErr))
	}

	return collector
}
