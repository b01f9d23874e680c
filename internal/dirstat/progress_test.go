package dirstat

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	var nilProgress *Progress
	nilProgress.add(10)
	nilProgress.addError()

	progress := &Progress{}
	progress.add(10)
	progress.add(5)
	progress.addError()

	files, bytes := progress.Snapshot()
	assert.Equal(t, int64(2), files)
	assert.Equal(t, int64(15), bytes)
	assert.Equal(t, int64(1), progress.Errors())

	progress.Reset()

	files, bytes = progress.Snapshot()
	assert.Zero(t, files)
	assert.Zero(t, bytes)
	assert.Equal(t, int64(1), progress.Errors())
}

func TestStartProgressReporter(t *testing.T) {
	progress := &Progress{}
	progress.add(3)

	var lastFiles atomic.Int64

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	StartProgressReporter(ctx, progress, func(files, _ int64) {
		lastFiles.Store(files)
	}, time.Millisecond)

	assert.Eventually(t, func() bool { return lastFiles.Load() == 3 }, time.Second, time.Millisecond)
}
