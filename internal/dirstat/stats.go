package dirstat

import (
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// DirectoryEntrySize is an immediate child directory of a scanned root with its
// total recursive size.
type DirectoryEntrySize struct {
	// Path is the directory path.
	Path string
	// SizeBytes is the recursive size in bytes, zero when Err is set.
	SizeBytes uint64
	// Err is the access failure that prevented sizing the directory.
	Err error
}

// Label returns the directory path.
func (d DirectoryEntrySize) Label() string {
	return d.Path
}

// Bytes returns the recursive size in bytes.
func (d DirectoryEntrySize) Bytes() uint64 {
	return d.SizeBytes
}

// Failed reports whether the size could not be computed.
func (d DirectoryEntrySize) Failed() bool {
	return d.Err != nil
}

// MarshalJSON renders the error marker as a string.
func (d DirectoryEntrySize) MarshalJSON() ([]byte, error) {
	type entry struct {
		Path      string `json:"path"`
		SizeBytes uint64 `json:"size_bytes"`
		Error     string `json:"error,omitempty"`
	}

	e := entry{Path: d.Path, SizeBytes: d.SizeBytes}
	if d.Err != nil {
		e.Error = d.Err.Error()
	}

	return json.Marshal(e)
}

// ExtensionSize is the aggregate size of all files sharing an extension.
type ExtensionSize struct {
	// Extension includes the leading dot; empty for extensionless files.
	Extension string `json:"extension"`
	// SizeBytes is the cumulative size in bytes.
	SizeBytes uint64 `json:"size_bytes"`
	// Files is the number of files with this extension.
	Files int `json:"files"`
}

// Label returns the extension, quoting the empty one so it stays visible.
func (e ExtensionSize) Label() string {
	if e.Extension == "" {
		return `""`
	}

	return e.Extension
}

// Bytes returns the cumulative size in bytes.
func (e ExtensionSize) Bytes() uint64 {
	return e.SizeBytes
}

// Stats holds the one-shot report for a scanned root.
type Stats struct {
	// Root is the scanned directory.
	Root string `json:"root"`
	// Disk describes the volume holding Root.
	Disk DiskUsage `json:"disk"`
	// Directories lists every child directory of Root, largest first.
	Directories []DirectoryEntrySize `json:"-"`
	// TopDirectories contains the N largest child directories.
	TopDirectories []RankedEntry[DirectoryEntrySize] `json:"top_directories"`
	// TopExtensions contains the N largest extensions across the subtree.
	TopExtensions []RankedEntry[ExtensionSize] `json:"top_extensions"`
	// DirectoryBytes is the sum of all child directory sizes.
	DirectoryBytes uint64 `json:"directory_bytes"`
	// TotalBytes is the size of every file reached under Root.
	TotalBytes uint64 `json:"total_bytes"`
	// FileCount is the number of files reached under Root.
	FileCount int64 `json:"file_count"`
	// ErrorCount is the number of access errors encountered.
	ErrorCount int64 `json:"error_count"`
	// Elapsed is the total time taken for analysis.
	Elapsed time.Duration `json:"elapsed"`
}

// Options configures analysis and CLI behavior.
type Options struct {
	// Path is the directory to analyze.
	Path string
	// TopDirs is the number of directories to rank.
	TopDirs int
	// TopExts is the number of extensions to rank.
	TopExts int
	// Workers bounds scan parallelism (0 = number of CPUs).
	Workers int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Debug indicates whether debug output is enabled.
	Debug bool
	// Output represents output format (table, json or plain).
	Output string
	// Report runs a single scan instead of the interactive explorer.
	Report bool
	// Integration indicates whether to output integration script.
	Integration bool
}

// collector aggregates extension totals from concurrent fastwalk callbacks.
type collector struct {
	mu    sync.Mutex
	sizes map[string]uint64
	files map[string]int
}

func newCollector() *collector {
	return &collector{
		sizes: make(map[string]uint64),
		files: make(map[string]int),
	}
}

// add records one file. fastwalk invokes callbacks from several goroutines.
func (c *collector) add(ext string, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sizes[ext] += uint64(size) //nolint:gosec // Regular file sizes are never negative
	c.files[ext]++
}

// bySize returns a copy of the extension to size mapping.
func (c *collector) bySize() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	sizes := make(map[string]uint64, len(c.sizes))
	for ext, size := range c.sizes {
		sizes[ext] = size
	}

	return sizes
}

// finalize produces extension totals ordered largest first.
func (c *collector) finalize() []ExtensionSize {
	c.mu.Lock()
	defer c.mu.Unlock()

	exts := make([]ExtensionSize, 0, len(c.sizes))
	for ext, size := range c.sizes {
		exts = append(exts, ExtensionSize{Extension: ext, SizeBytes: size, Files: c.files[ext]})
	}

	sortExtensions(exts)

	return exts
}

// SortedExtensions converts an extension mapping into a slice ordered by size,
// largest first, with ties broken by extension name.
func SortedExtensions(sizes map[string]uint64) []ExtensionSize {
	exts := make([]ExtensionSize, 0, len(sizes))
	for ext, size := range sizes {
		exts = append(exts, ExtensionSize{Extension: ext, SizeBytes: size})
	}

	sortExtensions(exts)

	return exts
}

func sortExtensions(exts []ExtensionSize) {
	sort.Slice(exts, func(i, j int) bool {
		if exts[i].SizeBytes != exts[j].SizeBytes {
			return exts[i].SizeBytes > exts[j].SizeBytes
		}

		return exts[i].Extension < exts[j].Extension
	})
}
