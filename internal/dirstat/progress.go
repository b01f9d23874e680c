package dirstat

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultProgressInterval is the default interval for progress updates.
const DefaultProgressInterval = 500 * time.Millisecond

// Progress counts files, bytes and errors seen by a Scanner. A nil *Progress
// discards updates.
type Progress struct {
	files  atomic.Int64
	bytes  atomic.Int64
	errors atomic.Int64
}

func (p *Progress) add(size int64) {
	if p == nil {
		return
	}

	p.files.Add(1)
	p.bytes.Add(size)
}

func (p *Progress) addError() {
	if p == nil {
		return
	}

	p.errors.Add(1)
}

// Snapshot returns the files and bytes counted so far.
func (p *Progress) Snapshot() (files, bytes int64) {
	return p.files.Load(), p.bytes.Load()
}

// Errors returns the number of access errors counted so far.
func (p *Progress) Errors() int64 {
	return p.errors.Load()
}

// Reset zeroes the file and byte counters. Errors are kept.
func (p *Progress) Reset() {
	p.files.Store(0)
	p.bytes.Store(0)
}

// StartProgressReporter invokes hook(files, bytes) on each tick until ctx is done.
func StartProgressReporter(ctx context.Context, p *Progress, hook func(int64, int64), interval time.Duration) {
	if hook == nil || p == nil {
		return
	}

	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				hook(p.Snapshot())
			case <-ctx.Done():
				return
			}
		}
	}()
}
